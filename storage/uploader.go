package storage

import (
	"context"
	"fmt"
	"io"
)

type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

// FileUploader stores public objects such as archived fixture lists.
type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)

	Delete(ctx context.Context, key string) error

	GetPublicURL(key string) string
}

// FixtureArchiveKey is the object key of a tournament's published fixture list.
func FixtureArchiveKey(tournamentID int) string {
	return fmt.Sprintf("fixtures/tournament_%d.json", tournamentID)
}
