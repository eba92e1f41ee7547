// Workoutsync copies workout logs from a Google Drive folder into the
// workout database.
//
// Each text file named like "Sunday 3rd November PULL.txt" becomes one
// workout for that date, unless a workout for the date is already stored.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sethvargo/go-envconfig"
	"go.uber.org/fx"
	_ "golang.org/x/crypto/x509roots/fallback"
	_ "modernc.org/sqlite"

	"github.com/angusgee/workout-tracker/internal/drive"
	wkerrs "github.com/angusgee/workout-tracker/internal/errors"
	"github.com/angusgee/workout-tracker/internal/logger"
	"github.com/angusgee/workout-tracker/internal/metrics"
	"github.com/angusgee/workout-tracker/internal/migrations"
	"github.com/angusgee/workout-tracker/internal/sqlite"
	"github.com/angusgee/workout-tracker/internal/sync"
	"github.com/angusgee/workout-tracker/internal/workout"
)

type config struct {
	FolderID        string        `env:"GOOGLE_FOLDER_ID, required"`
	Database        string        `env:"DATABASE, required"`
	CredentialsFile string        `env:"GOOGLE_CREDENTIALS_FILE, default=credentials.json"`
	HTTPTimeout     time.Duration `env:"HTTP_TIMEOUT, default=30s"`
	PushgatewayURL  string        `env:"PUSHGATEWAY_URL"`

	// Checked longest first whatever the order here
	Keywords []string `env:"WORKOUT_KEYWORDS, default=PULL,PUSH,LEGS,FULL BODY,A,B"`

	// Which format to use for logging: either text or json
	LoggerFormat string `env:"LOGGER_FORMAT, default=text"`
	LogLevel     string `env:"LOG_LEVEL, default=info"`
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	// Parse the config
	var cfg config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		log.Fatalf("error parsing config: %s", err)
	}

	slog.SetDefault(logger.New(os.Stderr, cfg.LoggerFormat, cfg.LogLevel))

	if err := run(ctx, cfg); err != nil {
		slog.Error("error running", "error", err, "kind", wkerrs.KindOf(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config) error {
	slog.Debug("running", "config", cfg)

	// Connect to the sqlite db
	dbx, err := sqlx.Open("sqlite", fmt.Sprintf("%s?_txlock=immediate&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", cfg.Database))
	if err != nil {
		return fmt.Errorf("error opening database: %s", err)
	}
	defer dbx.Close()

	// Migrate, always
	if err := migrations.Run(dbx); err != nil {
		return fmt.Errorf("error running migrations: %s", err)
	}

	files, err := drive.NewFromServiceAccount(ctx, cfg.CredentialsFile, cfg.HTTPTimeout)
	if err != nil {
		return fmt.Errorf("error setting up drive client: %w", err)
	}
	repo := sqlite.New(dbx)
	parser := workout.NewParser(workout.KeywordsFromStrings(cfg.Keywords), nil)

	syncer, err := newSyncer(files, repo, parser)
	if err != nil {
		return err
	}

	started := time.Now()
	report, runErr := syncer.Run(ctx, cfg.FolderID)

	if cfg.PushgatewayURL != "" {
		c := metrics.NewCollector()
		c.Observe(report, time.Since(started), runErr, time.Now())
		if err := c.Push(ctx, cfg.PushgatewayURL, cfg.FolderID); err != nil {
			slog.Warn("error pushing metrics", "error", err)
		}
	}

	if runErr != nil {
		return fmt.Errorf("error syncing workouts: %w", runErr)
	}

	fmt.Printf("Processed %d files: %d workouts found, %d new, %d added, %d skipped as duplicates\n",
		report.FilesSeen, report.WorkoutsParsed, report.WorkoutsNew, report.WorkoutsInserted, report.DuplicatesSkipped)

	return nil
}

// newSyncer resolves the syncer from its collaborators through the sync module.
func newSyncer(files workout.FileSource, repo workout.Repository, parser *workout.Parser) (*sync.Syncer, error) {
	var syncer *sync.Syncer
	app := fx.New(
		fx.NopLogger,
		fx.Supply(
			parser,
			fx.Annotate(files, fx.As(new(workout.FileSource))),
			fx.Annotate(repo, fx.As(new(workout.Repository))),
		),
		sync.Module,
		fx.Populate(&syncer),
	)
	if err := app.Err(); err != nil {
		return nil, fmt.Errorf("error wiring application: %s", err)
	}

	return syncer, nil
}
