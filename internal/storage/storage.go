// Package storage persists celebration images and hands back the public
// reference recorded on the request. Two interchangeable backends exist: the
// local uploads directory and an S3-compatible bucket. The backend is chosen
// once at startup from configuration, not per call.
package storage

import (
	"log"
	"strings"
)

// AssetStore persists image payloads under a generated filename and removes
// them again by public reference. Delete is best-effort: a reference whose key
// cannot be derived, or an object that is already gone, is a no-op.
type AssetStore interface {
	Store(filename string, data []byte) (string, error)
	Delete(reference string) error
}

// Config holds the settings for both backends. Presence of bucket credentials
// selects the S3 backend; otherwise assets go to the local directory.
type Config struct {
	UploadDir    string
	PublicPrefix string

	S3Bucket    string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Endpoint  string
}

// New selects and builds the configured backend.
func New(cfg Config) (AssetStore, error) {
	if cfg.S3Bucket != "" && cfg.S3AccessKey != "" && cfg.S3SecretKey != "" {
		log.Printf("Asset store: S3 backend (bucket %s)", cfg.S3Bucket)
		return NewS3Store(cfg)
	}
	log.Printf("Asset store: local backend (dir %s)", cfg.UploadDir)
	return NewLocalStore(cfg.UploadDir, cfg.PublicPrefix), nil
}

// keyFromReference derives the storage key from the trailing path segment of a
// public reference. It returns "" when no key can be derived.
func keyFromReference(reference string) string {
	trimmed := strings.TrimRight(reference, "/")
	idx := strings.LastIndex(trimmed, "/")
	if idx < 0 {
		return trimmed
	}
	return trimmed[idx+1:]
}
