package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"modernc.org/sqlite"

	"github.com/angusgee/workout-tracker/internal/workout"
)

const workoutNamespace = "-wkt"

var recordColumns = []string{"id", "date", "category", "notes", "source_file_id", "created_at"}

// ExistingDates returns the date of every stored workout.
func (r Repo) ExistingDates(ctx context.Context) (workout.DateSet, error) {
	query, args, err := sq.Select("date").From("workouts").ToSql()
	if err != nil {
		return nil, fmt.Errorf("error constructing sql: %s", err)
	}

	var dates []workout.Date
	if err := r.db.SelectContext(ctx, &dates, query, args...); err != nil {
		return nil, fmt.Errorf("error selecting workout dates: %w", err)
	}

	return workout.NewDateSet(dates...), nil
}

// HasDate reports whether a workout is already stored for d.
func (r Repo) HasDate(ctx context.Context, d workout.Date) (bool, error) {
	_, err := r.RecordByDate(ctx, d)
	if errors.Is(err, workout.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return true, nil
}

func (r Repo) RecordByDate(ctx context.Context, d workout.Date) (workout.Record, error) {
	query, args, err := sq.Select(recordColumns...).From("workouts").Where(sq.Eq{"date": d}).ToSql()
	if err != nil {
		return workout.Record{}, fmt.Errorf("error constructing sql: %s", err)
	}

	var rec workout.Record
	err = r.db.GetContext(ctx, &rec, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return workout.Record{}, workout.ErrNotFound
	}
	if err != nil {
		return workout.Record{}, fmt.Errorf("error fetching workout: %w", err)
	}

	return rec, nil
}

// Records lists every stored workout, oldest date first.
func (r Repo) Records(ctx context.Context) ([]workout.Record, error) {
	query, args, err := sq.Select(recordColumns...).From("workouts").OrderBy("date ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("error constructing sql: %s", err)
	}

	var recs []workout.Record
	if err := r.db.SelectContext(ctx, &recs, query, args...); err != nil {
		return nil, fmt.Errorf("error selecting workouts: %w", err)
	}

	return recs, nil
}

// InsertRecord stores a new workout.
//
// The date column is unique, so a second workout for the same date fails
// with [workout.ErrConflict].
func (r Repo) InsertRecord(ctx context.Context, rec workout.Record) error {
	if rec.ID == "" {
		rec.ID = fmt.Sprintf("%s%s", uuid.NewString(), workoutNamespace)
	}

	query, args, err := sq.Insert("workouts").
		Columns("id", "date", "category", "notes", "source_file_id").
		Values(rec.ID, rec.Date, rec.Category, rec.Notes, rec.SourceFileID).
		ToSql()
	if err != nil {
		return fmt.Errorf("error constructing sql: %s", err)
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	if sqliteErr := (&sqlite.Error{}); errors.As(err, &sqliteErr) && sqliteErr.Code() == 2067 { // SQLITE_CONSTRAINT_UNIQUE
		return fmt.Errorf("workout on %s: %w", rec.Date, workout.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("error inserting workout: %w", err)
	}

	return nil
}
