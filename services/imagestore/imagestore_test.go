package imagestore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pfpMint/errs"
)

type memMirror struct {
	objects map[string][]byte
	fail    bool
}

func newMemMirror() *memMirror {
	return &memMirror{objects: map[string][]byte{}}
}

func (m *memMirror) Upload(_ context.Context, name string, data []byte) error {
	if m.fail {
		return errors.New("bucket unavailable")
	}
	m.objects[name] = append([]byte(nil), data...)
	return nil
}

func (m *memMirror) Download(_ context.Context, name string) ([]byte, error) {
	data, ok := m.objects[name]
	if !ok {
		return nil, errors.New("object does not exist")
	}
	return data, nil
}

func TestStore_SaveAndLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nft-images")
	s := New(dir, nil)
	ctx := context.Background()

	p, err := s.Save(ctx, "42", []byte("first"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "42.png"), p)

	resolved, err := s.Resolve("42")
	require.NoError(t, err)
	assert.Equal(t, p, resolved)

	// Overwrites in place.
	_, err = s.Save(ctx, "42", []byte("second"))
	require.NoError(t, err)
	data, err := s.Load(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), data)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestStore_LoadMissing(t *testing.T) {
	s := New(t.TempDir(), nil)
	_, err := s.Load(context.Background(), "404")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, errs.Image, errs.KindOf(err))
}

func TestStore_Mirror(t *testing.T) {
	ctx := context.Background()
	mirror := newMemMirror()

	first := New(t.TempDir(), mirror)
	_, err := first.Save(ctx, "7", []byte("png"))
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), mirror.objects["7.png"])

	// A fresh disk recovers the image from the mirror and keeps a local copy.
	dir := t.TempDir()
	second := New(dir, mirror)
	data, err := second.Load(ctx, "7")
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), data)
	local, err := os.ReadFile(filepath.Join(dir, "7.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), local)
}

func TestStore_MirrorFailureDoesNotFailSave(t *testing.T) {
	mirror := newMemMirror()
	mirror.fail = true
	s := New(t.TempDir(), mirror)
	_, err := s.Save(context.Background(), "9", []byte("png"))
	require.NoError(t, err)
}

func TestUserIDFromRef(t *testing.T) {
	tests := []struct {
		ref     string
		want    string
		wantErr bool
	}{
		{"/nft-images/1234.png", "1234", false},
		{"1234.png", "1234", false},
		{"http://localhost:3000/nft-images/99.png", "99", false},
		{"/nft-images/../../etc/passwd", "passwd", false},
		{"", "", true},
		{"/nft-images/..", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			got, err := UserIDFromRef(tt.ref)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidUserID)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStore_RejectsBadIDs(t *testing.T) {
	s := New(t.TempDir(), nil)
	_, err := s.Save(context.Background(), "../escape", []byte("x"))
	assert.ErrorIs(t, err, ErrInvalidUserID)
}
