// Package workout holds the domain types for synchronizing workout logs:
// the files found in the remote folder, what can be parsed out of their
// names, and the records kept in the datastore.
package workout

import (
	"context"
	"errors"
	"time"
)

var (
	ErrConflict = errors.New("workout already exists for date")
	ErrNotFound = errors.New("workout not found")
)

type (
	// RemoteFile is a single entry in the remote folder listing.
	RemoteFile struct {
		ID       string
		Name     string
		MIMEType string
	}

	// ParsedWorkout is a remote file whose name carried a category and a date.
	ParsedWorkout struct {
		Date     Date
		Category string
		Source   RemoteFile
	}

	// Record is a workout as it is persisted, one per calendar date.
	Record struct {
		ID           string    `db:"id"`
		Date         Date      `db:"date"`
		Category     string    `db:"category"`
		Notes        string    `db:"notes"`
		SourceFileID string    `db:"source_file_id"`
		CreatedAt    time.Time `db:"created_at"`
	}

	// FileSource lists and downloads workout logs from the remote folder.
	FileSource interface {
		ListFolder(ctx context.Context, folderID string) ([]RemoteFile, error)
		Download(ctx context.Context, fileID string) (string, error)
	}

	// Repository is the datastore of workout records.
	//
	// InsertRecord returns ErrConflict when a record for the date already exists.
	Repository interface {
		ExistingDates(ctx context.Context) (DateSet, error)
		HasDate(ctx context.Context, d Date) (bool, error)
		InsertRecord(ctx context.Context, rec Record) error
	}
)
