// Package storage is the attachment store: a thin wrapper over a MinIO
// bucket with one prefix per entity kind.
package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
)

// Object prefixes, one per entity kind.
const (
	PrefixContracts    = "contracts"
	PrefixCalibrations = "calibrations"
	PrefixScrapNotes   = "scrap-notes"
)

// ObjectStore holds uploaded attachment bytes. A nil client is tolerated:
// uploads are skipped and downloads fail with a configuration error, so the
// service stays usable in environments without object storage.
type ObjectStore struct {
	client *minio.Client
	bucket string
}

func NewObjectStore(client *minio.Client, bucket string) *ObjectStore {
	return &ObjectStore{client: client, bucket: bucket}
}

// ObjectName joins a prefix and a generated stored filename. Stored names are
// collision-free by construction, so no overwrite handling is needed.
func ObjectName(prefix, storedName string) string {
	return prefix + "/" + storedName
}

// Put uploads one attachment.
func (s *ObjectStore) Put(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error {
	if s.client == nil {
		return nil
	}
	_, err := s.client.PutObject(ctx, s.bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("upload file: %w", err)
	}
	return nil
}

// Get streams one attachment for download.
func (s *ObjectStore) Get(ctx context.Context, objectName string) (io.ReadCloser, error) {
	if s.client == nil {
		return nil, fmt.Errorf("storage not configured")
	}
	object, err := s.client.GetObject(ctx, s.bucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object: %w", err)
	}
	return object, nil
}

// Remove deletes one attachment. Used as the compensating action when a
// database write fails after the file was already stored; best effort, the
// caller ignores the result.
func (s *ObjectStore) Remove(ctx context.Context, objectName string) error {
	if s.client == nil {
		return nil
	}
	return s.client.RemoveObject(ctx, s.bucket, objectName, minio.RemoveObjectOptions{})
}
