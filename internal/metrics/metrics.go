// Package metrics publishes the outcome of a sync run to a Prometheus
// Pushgateway. A one-shot job can't be scraped, so the numbers are pushed.
package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/angusgee/workout-tracker/internal/sync"
)

const jobName = "workout_sync"

// Collector holds the gauges describing the latest run.
type Collector struct {
	filesSeen         prometheus.Gauge
	workoutsParsed    prometheus.Gauge
	workoutsInserted  prometheus.Gauge
	duplicatesSkipped prometheus.Gauge
	lastSuccess       prometheus.Gauge
	lastRunFailed     prometheus.Gauge
	duration          prometheus.Gauge

	failed bool
}

func NewCollector() *Collector {
	c := &Collector{
		filesSeen: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "workout_sync_files_seen",
			Help: "Files found in the remote folder during the last run.",
		}),
		workoutsParsed: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "workout_sync_workouts_parsed",
			Help: "Files whose name carried a workout category and date.",
		}),
		workoutsInserted: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "workout_sync_workouts_inserted",
			Help: "New workouts written to the datastore during the last run.",
		}),
		duplicatesSkipped: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "workout_sync_duplicates_skipped",
			Help: "New workouts skipped because their date was stored in the meantime.",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "workout_sync_last_success_timestamp_seconds",
			Help: "Unix time of the last successful run.",
		}),
		lastRunFailed: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "workout_sync_last_run_failed",
			Help: "1 if the last run ended in an error.",
		}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "workout_sync_duration_seconds",
			Help: "How long the last run took.",
		}),
	}

	return c
}

// Observe records a finished run. The report counts whatever was reached
// even when runErr is set.
func (c *Collector) Observe(report sync.Report, took time.Duration, runErr error, finished time.Time) {
	c.filesSeen.Set(float64(report.FilesSeen))
	c.workoutsParsed.Set(float64(report.WorkoutsParsed))
	c.workoutsInserted.Set(float64(report.WorkoutsInserted))
	c.duplicatesSkipped.Set(float64(report.DuplicatesSkipped))
	c.duration.Set(took.Seconds())

	c.failed = runErr != nil
	if c.failed {
		c.lastRunFailed.Set(1)
		return
	}
	c.lastRunFailed.Set(0)
	c.lastSuccess.Set(float64(finished.Unix()))
}

// Push sends the gauges to the gateway, grouped under the folder.
//
// After a failed run the last success timestamp is not sent, and the gateway
// keeps the one it has.
func (c *Collector) Push(ctx context.Context, gatewayURL, folderID string) error {
	cs := []prometheus.Collector{c.filesSeen, c.workoutsParsed, c.workoutsInserted, c.duplicatesSkipped, c.lastRunFailed, c.duration}
	if !c.failed {
		cs = append(cs, c.lastSuccess)
	}

	p := push.New(gatewayURL, jobName).Grouping("folder_id", folderID)
	for _, col := range cs {
		p = p.Collector(col)
	}
	// POST only replaces the metrics being sent.
	if err := p.AddContext(ctx); err != nil {
		return fmt.Errorf("error pushing metrics: %w", err)
	}

	return nil
}
