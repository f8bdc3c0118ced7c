package artwork

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"

	"pfpMint/errs"
)

type Generator interface {
	// Generate fetches the avatar at avatarURL and returns the composed PNG.
	Generate(ctx context.Context, avatarURL string, memberships Memberships) ([]byte, error)
}

type generator struct {
	http *resty.Client
}

var _ Generator = (*generator)(nil)

func NewGenerator(client *resty.Client) Generator {
	return &generator{http: client}
}

func (g *generator) Generate(ctx context.Context, avatarURL string, memberships Memberships) ([]byte, error) {
	avatar, err := g.fetchAvatar(ctx, avatarURL)
	if err != nil {
		return nil, errs.E(errs.Image, "artwork.Generate", err)
	}
	out, err := Encode(Compose(avatar, memberships))
	if err != nil {
		return nil, errs.E(errs.Image, "artwork.Generate", err)
	}
	log.Debug().Str("avatarURL", avatarURL).Int("bytes", len(out)).Msg("generated image")
	return out, nil
}

func (g *generator) fetchAvatar(ctx context.Context, avatarURL string) (image.Image, error) {
	resp, err := g.http.R().
		SetContext(ctx).
		Get(avatarURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch avatar: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("failed to fetch avatar: %s", resp.Status())
	}
	img, format, err := image.Decode(bytes.NewReader(resp.Body()))
	if err != nil {
		return nil, fmt.Errorf("failed to decode avatar: %w", err)
	}
	log.Debug().Str("format", format).Msg("decoded avatar")
	return img, nil
}
