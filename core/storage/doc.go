// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client and exposes only what the batch archive needs:
// checking and creating the archive bucket, writing objects and reading their
// metadata. It works against both AWS S3 and self-hosted MinIO.
//
// The Client interface keeps storage interactions mockable (see core/storage/mocks).
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	exists, err := client.BucketExists(ctx, cfg.Storage.Bucket)
package storage
