package workout_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/angusgee/workout-tracker/internal/workout"
)

func parsed(id string, d workout.Date) workout.ParsedWorkout {
	return workout.ParsedWorkout{
		Date:     d,
		Category: "PULL",
		Source:   workout.RemoteFile{ID: id, Name: id + ".txt"},
	}
}

func TestDelta(t *testing.T) {
	var (
		march1 = workout.Date{Year: 2024, Month: time.March, Day: 1}
		march2 = workout.Date{Year: 2024, Month: time.March, Day: 2}
		march3 = workout.Date{Year: 2024, Month: time.March, Day: 3}
	)

	tests := []struct {
		name     string
		existing workout.DateSet
		parsed   []workout.ParsedWorkout
		expected []workout.ParsedWorkout
	}{
		{
			name:     "only missing dates pass",
			existing: workout.NewDateSet(march1),
			parsed:   []workout.ParsedWorkout{parsed("a", march1), parsed("b", march2)},
			expected: []workout.ParsedWorkout{parsed("b", march2)},
		},
		{
			name:     "order is kept",
			existing: workout.NewDateSet(),
			parsed:   []workout.ParsedWorkout{parsed("c", march3), parsed("a", march1), parsed("b", march2)},
			expected: []workout.ParsedWorkout{parsed("c", march3), parsed("a", march1), parsed("b", march2)},
		},
		{
			name:     "same new date twice is not deduplicated",
			existing: workout.NewDateSet(march1),
			parsed:   []workout.ParsedWorkout{parsed("a", march2), parsed("b", march2)},
			expected: []workout.ParsedWorkout{parsed("a", march2), parsed("b", march2)},
		},
		{
			name:     "everything already stored",
			existing: workout.NewDateSet(march1, march2),
			parsed:   []workout.ParsedWorkout{parsed("a", march1), parsed("b", march2)},
			expected: nil,
		},
		{
			name:     "nothing parsed",
			existing: workout.NewDateSet(march1),
			parsed:   nil,
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, workout.Delta(tt.existing, tt.parsed))
		})
	}
}
