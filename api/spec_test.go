package api

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSwagger(t *testing.T) {
	swagger, err := GetSwagger()
	require.NoError(t, err)
	require.NoError(t, swagger.Validate(context.Background()))

	for _, p := range []string{"/", "/login", "/auth/callback", "/mint", "/nft-images/{file}"} {
		assert.NotNil(t, swagger.Paths.Find(p), p)
	}
	mint := swagger.Components.Schemas["MintRequest"].Value
	assert.ElementsMatch(t, []string{"discordUsername", "imageUrl", "walletAddress"}, mint.Required)
}
