package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angusgee/workout-tracker/internal/sync"
)

func TestObserve(t *testing.T) {
	var (
		c        = NewCollector()
		finished = time.Date(2024, time.November, 3, 6, 0, 0, 0, time.UTC)
		report   = sync.Report{FilesSeen: 5, WorkoutsParsed: 4, WorkoutsNew: 3, WorkoutsInserted: 2, DuplicatesSkipped: 1}
	)

	c.Observe(report, 1500*time.Millisecond, nil, finished)

	assert.Equal(t, 5.0, testutil.ToFloat64(c.filesSeen))
	assert.Equal(t, 4.0, testutil.ToFloat64(c.workoutsParsed))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.workoutsInserted))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.duplicatesSkipped))
	assert.Equal(t, 1.5, testutil.ToFloat64(c.duration))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.lastRunFailed))
	assert.Equal(t, float64(finished.Unix()), testutil.ToFloat64(c.lastSuccess))

	// A failed run keeps the previous success time.
	c.Observe(sync.Report{FilesSeen: 5}, time.Second, errors.New("listing failed"), finished.Add(time.Hour))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.lastRunFailed))
	assert.Equal(t, float64(finished.Unix()), testutil.ToFloat64(c.lastSuccess))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.workoutsInserted))
}

func TestPush(t *testing.T) {
	var (
		method string
		path   string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		path = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewCollector()
	c.Observe(sync.Report{FilesSeen: 1}, time.Second, nil, time.Now())
	require.NoError(t, c.Push(context.Background(), srv.URL, "folder-1"))

	assert.Equal(t, http.MethodPost, method)
	assert.Equal(t, "/metrics/job/workout_sync/folder_id/folder-1", path)
}

func TestPush_GatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewCollector()
	c.Observe(sync.Report{}, time.Second, errors.New("boom"), time.Now())
	assert.Error(t, c.Push(context.Background(), srv.URL, "folder-1"))
}
