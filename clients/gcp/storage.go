package gcp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"cloud.google.com/go/storage"
	"github.com/rs/zerolog/log"
)

// ErrObjectNotExist is returned by Download when the bucket has no such object.
var ErrObjectNotExist = errors.New("object does not exist")

const transferTimeout = 2 * time.Minute

// Bucket mirrors generated images into a Cloud Storage bucket.
type Bucket struct {
	client *storage.Client
	name   string
}

func NewBucket(ctx context.Context, name string) (*Bucket, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("storage.NewClient: %w", err)
	}
	return &Bucket{client: client, name: name}, nil
}

func (b *Bucket) Close() error {
	return b.client.Close()
}

// Upload writes data to objectName, replacing any previous object.
func (b *Bucket) Upload(ctx context.Context, objectName string, data []byte) error {
	ctx, cancel := context.WithTimeout(ctx, transferTimeout)
	defer cancel()

	w := b.client.Bucket(b.name).Object(objectName).NewWriter(ctx)
	w.ContentType = "image/png"
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		_ = w.Close()
		return fmt.Errorf("io.Copy: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("Writer.Close: %w", err)
	}
	log.Debug().Str("bucket", b.name).Str("objectName", objectName).Msg("blob uploaded")
	return nil
}

// Download reads objectName in full.
func (b *Bucket) Download(ctx context.Context, objectName string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, transferTimeout)
	defer cancel()

	rc, err := b.client.Bucket(b.name).Object(objectName).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, ErrObjectNotExist
	}
	if err != nil {
		return nil, fmt.Errorf("Object(%q).NewReader: %w", objectName, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("io.ReadAll: %w", err)
	}
	log.Debug().Str("bucket", b.name).Str("objectName", objectName).Msg("blob downloaded")
	return data, nil
}
