package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ResultSuccess = "success"
	ResultFailure = "failure"

	ModeCheck = "check"
	ModeFull  = "full"
)

var (
	ImagesGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pfpmint_images_generated_total",
			Help: "Profile images generated at sign in",
		},
		[]string{"result"},
	)

	MintRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pfpmint_mint_requests_total",
			Help: "Mint requests by mode and outcome",
		},
		[]string{"mode", "result"},
	)

	MintFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pfpmint_mint_failures_total",
			Help: "Failed mint preparations by error kind",
		},
		[]string{"kind"},
	)
)

func Result(err error) string {
	if err != nil {
		return ResultFailure
	}
	return ResultSuccess
}
