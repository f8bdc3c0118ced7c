package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure so the HTTP layer can pick a status without
// inspecting messages.
type Kind string

const (
	Configuration Kind = "configuration"
	Validation    Kind = "validation"
	UpstreamAuth  Kind = "upstream_auth"
	Image         Kind = "image"
	Upload        Kind = "upload"
	ContractRead  Kind = "contract_read"
	Unknown       Kind = "unknown"
)

type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// E tags err with kind. A nil err yields nil so call sites can wrap blindly.
func E(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// New builds a tagged error from a message.
func New(kind Kind, op, msg string) error {
	return &Error{Kind: kind, Op: op, Err: errors.New(msg)}
}

// KindOf returns the kind of the outermost tagged error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}

func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

func HTTPStatus(kind Kind) int {
	if kind == Validation {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
