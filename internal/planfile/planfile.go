// Package planfile archives uploaded budget plan documents to a GCS bucket.
// The Record Store keeps the authoritative plan row; the archive preserves
// the raw uploaded text alongside it.
package planfile

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"cloud.google.com/go/storage"
)

// Archive writes plan archives into one bucket, one object per upload.
type Archive struct {
	bucket string
}

// NewArchive creates an archive for the given bucket. An empty bucket name
// disables archiving; Enabled reports the distinction.
func NewArchive(bucket string) *Archive {
	return &Archive{bucket: bucket}
}

// Enabled reports whether a bucket is configured.
func (a *Archive) Enabled() bool {
	return a.bucket != ""
}

// ObjectName builds the archive object path for one upload.
func (a *Archive) ObjectName(principalID, fileName string, now time.Time) string {
	return path.Join("plans", principalID, now.UTC().Format("20060102T150405")+"-"+fileName)
}

// Store uploads plan content under the given object name. It assumes
// Application Default Credentials are configured.
func (a *Archive) Store(ctx context.Context, objectName, content string) error {
	if !a.Enabled() {
		return fmt.Errorf("Store: no archive bucket configured")
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return fmt.Errorf("Store: create storage client: %w", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := client.Bucket(a.bucket).Object(objectName).NewWriter(ctx)
	w.ContentType = "text/plain; charset=utf-8"
	if _, err := io.WriteString(w, content); err != nil {
		_ = w.Close()
		return fmt.Errorf("Store: write object: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("Store: finalize upload: %w", err)
	}
	return nil
}

// Fetch reads an archived plan object back.
func (a *Archive) Fetch(ctx context.Context, objectName string) ([]byte, error) {
	if !a.Enabled() {
		return nil, fmt.Errorf("Fetch: no archive bucket configured")
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("Fetch: create storage client: %w", err)
	}
	defer client.Close()

	r, err := client.Bucket(a.bucket).Object(objectName).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("Fetch: open object %q: %w", objectName, err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("Fetch: read object %q: %w", objectName, err)
	}
	return data, nil
}
