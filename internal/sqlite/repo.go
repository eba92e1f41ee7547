// Package sqlite stores workout records in a SQLite database.
package sqlite

import (
	"github.com/jmoiron/sqlx"

	"github.com/angusgee/workout-tracker/internal/workout"
)

// Ensure Repo implements the Repository interface
var _ workout.Repository = (*Repo)(nil)

type Repo struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) Repo {
	return Repo{db: db}
}
