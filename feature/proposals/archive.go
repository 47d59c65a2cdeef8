package proposals

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"proposal-ingest/core/storage"

	"github.com/minio/minio-go/v7"
)

// Archiver writes raw committed batch bodies to object storage.
type Archiver struct {
	client storage.Client
	bucket string
	prefix string
	now    func() time.Time
}

// NewArchiver creates an Archiver writing under bucket/prefix.
func NewArchiver(client storage.Client, bucket, prefix string) *Archiver {
	return &Archiver{client: client, bucket: bucket, prefix: prefix, now: time.Now}
}

// ObjectName returns the key a batch is archived under:
// <prefix>/YYYY/MM/DD/<batchID>.json, dated in UTC.
func (a *Archiver) ObjectName(batchID string, at time.Time) string {
	at = at.UTC()
	return path.Join(a.prefix, at.Format("2006"), at.Format("01"), at.Format("02"), batchID+".json")
}

// Archive stores body and returns the object name.
func (a *Archiver) Archive(ctx context.Context, batchID string, body []byte) (string, error) {
	name := a.ObjectName(batchID, a.now())
	_, err := a.client.PutObject(ctx, a.bucket, name, bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("failed to archive batch %s: %w", batchID, err)
	}
	return name, nil
}
