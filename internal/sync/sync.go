// Package sync brings the datastore up to date with the workout logs in the
// remote folder.
package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	wkerrs "github.com/angusgee/workout-tracker/internal/errors"
	"github.com/angusgee/workout-tracker/internal/logger"
	"github.com/angusgee/workout-tracker/internal/workout"
)

// Report counts what a run found and did.
type Report struct {
	FilesSeen         int
	WorkoutsParsed    int
	WorkoutsNew       int
	WorkoutsInserted  int
	DuplicatesSkipped int
}

// Syncer copies workouts not yet stored from the remote folder into the
// datastore.
type Syncer struct {
	files  workout.FileSource
	repo   workout.Repository
	parser *workout.Parser
}

func NewSyncer(files workout.FileSource, repo workout.Repository, parser *workout.Parser) *Syncer {
	return &Syncer{
		files:  files,
		repo:   repo,
		parser: parser,
	}
}

// Run performs one sync of the folder.
//
// Any failure stops the run. Workouts inserted before the failure stay, and
// the returned report counts them.
func (s *Syncer) Run(ctx context.Context, folderID string) (Report, error) {
	ctx = logger.Ctx(ctx, slog.String("folder_id", folderID))
	var report Report

	files, err := s.files.ListFolder(ctx, folderID)
	if err != nil {
		return report, fmt.Errorf("error listing folder: %w", err)
	}
	report.FilesSeen = len(files)
	slog.InfoContext(ctx, "listed folder", "files", len(files))

	var parsed []workout.ParsedWorkout
	for _, f := range files {
		p, ok := s.parser.ParseFile(f)
		if !ok {
			slog.DebugContext(ctx, "skipping file", "file_id", f.ID, "file_name", f.Name)
			continue
		}
		parsed = append(parsed, p)
	}
	report.WorkoutsParsed = len(parsed)

	existing, err := s.repo.ExistingDates(ctx)
	if err != nil {
		return report, wkerrs.E(fmt.Errorf("error fetching existing dates: %w", err), wkerrs.KindDatastore)
	}

	missing := workout.Delta(existing, parsed)
	report.WorkoutsNew = len(missing)
	slog.InfoContext(ctx, "found new workouts", "parsed", len(parsed), "new", len(missing))

	for _, p := range missing {
		fileCtx := logger.Ctx(ctx,
			slog.String("file_id", p.Source.ID),
			slog.String("file_name", p.Source.Name),
		)

		content, err := s.files.Download(fileCtx, p.Source.ID)
		if err != nil {
			return report, fmt.Errorf("error downloading %q: %w", p.Source.Name, err)
		}

		inserted, err := s.insert(fileCtx, p, content)
		if err != nil {
			return report, err
		}
		if !inserted {
			report.DuplicatesSkipped++
			slog.InfoContext(fileCtx, "skipped workout, date already stored", "date", p.Date.String())
			continue
		}
		report.WorkoutsInserted++
		slog.InfoContext(fileCtx, "added workout", "date", p.Date.String(), "category", p.Category)
	}

	return report, nil
}

// Stores the workout unless its date is already taken.
//
// The date is checked again here since the existing dates were read before
// any of this run's inserts, and two files can name the same day.
func (s *Syncer) insert(ctx context.Context, p workout.ParsedWorkout, content string) (bool, error) {
	exists, err := s.repo.HasDate(ctx, p.Date)
	if err != nil {
		return false, wkerrs.E(fmt.Errorf("error checking for workout: %w", err), wkerrs.KindDatastore,
			wkerrs.Detail{Field: "date", Value: p.Date.String()})
	}
	if exists {
		return false, nil
	}

	err = s.repo.InsertRecord(ctx, workout.Record{
		Date:         p.Date,
		Category:     p.Category,
		Notes:        content,
		SourceFileID: p.Source.ID,
	})
	if errors.Is(err, workout.ErrConflict) {
		return false, nil
	}
	if err != nil {
		return false, wkerrs.E(fmt.Errorf("error inserting workout: %w", err), wkerrs.KindDatastore,
			wkerrs.Detail{Field: "date", Value: p.Date.String()})
	}

	return true, nil
}
