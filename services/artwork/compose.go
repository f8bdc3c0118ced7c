// Package artwork renders the profile picture image: a role-colored square
// with the member's avatar scaled and centered on top.
package artwork

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	xdraw "golang.org/x/image/draw"
)

const (
	CanvasSize    = 1000
	AvatarMaxSize = 900
)

// Rule maps a guild role to the background color it earns.
type Rule struct {
	MembershipID string
	Color        color.RGBA
}

// DefaultColor is used when no rule matches.
var DefaultColor = color.RGBA{A: 0xff}

// Rules is evaluated in order; the first role the member holds wins.
var Rules = []Rule{
	{MembershipID: "1036887311436238858", Color: color.RGBA{R: 200, G: 188, B: 244, A: 0xff}},
	{MembershipID: "1073054714092073000", Color: color.RGBA{R: 176, G: 156, B: 252, A: 0xff}},
	{MembershipID: "1037873237159321612", Color: color.RGBA{R: 136, G: 108, B: 252, A: 0xff}},
	{MembershipID: "1046330093569593418", Color: color.RGBA{R: 255, G: 140, B: 228, A: 0xff}},
	{MembershipID: "1051562453495971941", Color: color.RGBA{R: 184, G: 60, B: 124, A: 0xff}},
	{MembershipID: "1144287729862049903", Color: color.RGBA{R: 32, G: 188, B: 156, A: 0xff}},
}

// Memberships is the set of role IDs a member held when they signed in.
type Memberships map[string]struct{}

func NewMemberships(ids ...string) Memberships {
	m := make(Memberships, len(ids))
	for _, id := range ids {
		m[id] = struct{}{}
	}
	return m
}

func (m Memberships) Has(id string) bool {
	_, ok := m[id]
	return ok
}

// FillColor walks rules in order and returns the first color whose role is held.
func FillColor(rules []Rule, memberships Memberships) color.RGBA {
	for _, r := range rules {
		if memberships.Has(r.MembershipID) {
			return r.Color
		}
	}
	return DefaultColor
}

// Layout returns where an avatar of the given size lands on the canvas.
func Layout(width, height int) image.Rectangle {
	if width <= 0 || height <= 0 {
		return image.Rectangle{}
	}
	aspect := float64(width) / float64(height)
	var w, h float64
	if aspect > 1 {
		w = AvatarMaxSize
		h = AvatarMaxSize / aspect
	} else {
		h = AvatarMaxSize
		w = AvatarMaxSize * aspect
	}
	x := (CanvasSize - w) / 2
	y := (CanvasSize - h) / 2
	return image.Rect(
		int(math.Round(x)),
		int(math.Round(y)),
		int(math.Round(x+w)),
		int(math.Round(y+h)),
	)
}

// Compose draws avatar over the background picked by memberships. The
// result is opaque.
func Compose(avatar image.Image, memberships Memberships) *image.RGBA {
	canvas := image.NewRGBA(image.Rect(0, 0, CanvasSize, CanvasSize))
	fill := FillColor(Rules, memberships)
	draw.Draw(canvas, canvas.Bounds(), &image.Uniform{C: fill}, image.Point{}, draw.Src)

	b := avatar.Bounds()
	dst := Layout(b.Dx(), b.Dy())
	if !dst.Empty() {
		xdraw.CatmullRom.Scale(canvas, dst, avatar, b, xdraw.Over, nil)
	}
	return canvas
}

func Encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}
