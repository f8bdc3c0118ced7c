package artwork

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pfpMint/errs"
)

func TestFillColor(t *testing.T) {
	tests := []struct {
		name        string
		memberships Memberships
		want        color.RGBA
	}{
		{"no roles", NewMemberships(), DefaultColor},
		{"unrelated roles", NewMemberships("1", "2"), DefaultColor},
		{"single role", NewMemberships(Rules[3].MembershipID), Rules[3].Color},
		{"earlier rule wins", NewMemberships(Rules[4].MembershipID, Rules[1].MembershipID), Rules[1].Color},
		{"first rule beats every other", NewMemberships(Rules[5].MembershipID, Rules[0].MembershipID, Rules[2].MembershipID), Rules[0].Color},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FillColor(Rules, tt.memberships))
		})
	}
}

func TestLayout(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		wantW, wantH  int
	}{
		{"square", 128, 128, 900, 900},
		{"landscape 2:1", 200, 100, 900, 450},
		{"portrait 1:2", 100, 200, 450, 900},
		{"landscape 3:2", 300, 200, 900, 600},
		{"tiny portrait", 3, 4, 675, 900},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Layout(tt.width, tt.height)
			assert.InDelta(t, tt.wantW, r.Dx(), 1)
			assert.InDelta(t, tt.wantH, r.Dy(), 1)
			assert.InDelta(t, (CanvasSize-r.Dx())/2, r.Min.X, 1)
			assert.InDelta(t, (CanvasSize-r.Dy())/2, r.Min.Y, 1)
		})
	}
	assert.True(t, Layout(0, 10).Empty())
}

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestCompose(t *testing.T) {
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	out := Compose(solid(200, 100, white), NewMemberships(Rules[2].MembershipID))

	require.Equal(t, image.Rect(0, 0, CanvasSize, CanvasSize), out.Bounds())
	// Corners are background, the center is avatar.
	assert.Equal(t, Rules[2].Color, out.RGBAAt(0, 0))
	assert.Equal(t, Rules[2].Color, out.RGBAAt(500, 100))
	center := out.RGBAAt(500, 500)
	assert.InDelta(t, white.R, center.R, 1)
	assert.InDelta(t, white.G, center.G, 1)
	assert.InDelta(t, white.B, center.B, 1)

	for _, p := range []image.Point{{0, 0}, {999, 999}, {500, 500}, {60, 300}} {
		assert.Equal(t, uint8(0xff), out.RGBAAt(p.X, p.Y).A)
	}
}

func TestCompose_Deterministic(t *testing.T) {
	avatar := solid(64, 48, color.RGBA{R: 10, G: 20, B: 30, A: 128})
	a, err := Encode(Compose(avatar, NewMemberships()))
	require.NoError(t, err)
	b, err := Encode(Compose(avatar, NewMemberships()))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestGenerator_Generate(t *testing.T) {
	var avatar bytes.Buffer
	require.NoError(t, png.Encode(&avatar, solid(32, 32, color.White)))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/avatar.png":
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write(avatar.Bytes())
		case "/garbage.png":
			_, _ = w.Write([]byte("not an image"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	g := NewGenerator(resty.New())

	t.Run("composes fetched avatar", func(t *testing.T) {
		out, err := g.Generate(context.Background(), srv.URL+"/avatar.png", NewMemberships())
		require.NoError(t, err)
		img, err := png.Decode(bytes.NewReader(out))
		require.NoError(t, err)
		assert.Equal(t, CanvasSize, img.Bounds().Dx())
		assert.Equal(t, CanvasSize, img.Bounds().Dy())
	})

	t.Run("missing avatar", func(t *testing.T) {
		_, err := g.Generate(context.Background(), srv.URL+"/nope.png", NewMemberships())
		require.Error(t, err)
		assert.Equal(t, errs.Image, errs.KindOf(err))
	})

	t.Run("undecodable avatar", func(t *testing.T) {
		_, err := g.Generate(context.Background(), srv.URL+"/garbage.png", NewMemberships())
		require.Error(t, err)
		assert.Equal(t, errs.Image, errs.KindOf(err))
	})
}
