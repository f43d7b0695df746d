package pickup

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(hour, min, sec int) time.Time {
	return time.Date(2025, 6, 12, hour, min, sec, 0, time.UTC)
}

func TestPolicy_Earliest(t *testing.T) {
	policy := NewPolicy(DefaultPrepWindow)

	tests := []struct {
		name     string
		now      time.Time
		expected string
	}{
		{name: "exact_boundary_stays", now: at(10, 0, 0), expected: "10:20"},
		{name: "rounds_up_to_next_boundary", now: at(10, 2, 0), expected: "10:25"},
		{name: "boundary_after_window_stays", now: at(10, 20, 0), expected: "10:40"},
		{name: "mid_interval_rounds_up", now: at(10, 16, 0), expected: "10:40"},
		{name: "seconds_push_past_boundary", now: at(10, 0, 30), expected: "10:25"},
		{name: "late_evening", now: at(23, 30, 0), expected: "23:50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, policy.Earliest(tt.now))
		})
	}
}

func TestPolicy_Valid(t *testing.T) {
	policy := NewPolicy(DefaultPrepWindow)

	tests := []struct {
		name      string
		candidate string
		now       time.Time
		valid     bool
	}{
		{name: "equal_to_earliest", candidate: "10:20", now: at(10, 0, 0), valid: true},
		{name: "after_earliest", candidate: "11:00", now: at(10, 0, 0), valid: true},
		{name: "before_earliest", candidate: "10:15", now: at(10, 0, 0), valid: false},
		{name: "just_below_rounded_boundary", candidate: "10:22", now: at(10, 2, 0), valid: false},
		{name: "at_rounded_boundary", candidate: "10:25", now: at(10, 2, 0), valid: true},
		{name: "malformed", candidate: "25:99", now: at(10, 0, 0), valid: false},
		{name: "empty", candidate: "", now: at(10, 0, 0), valid: false},
		{name: "window_past_midnight_rejects_all", candidate: "00:30", now: at(23, 50, 0), valid: false},
		{name: "window_past_midnight_rejects_even_late", candidate: "23:55", now: at(23, 50, 0), valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, policy.Valid(tt.candidate, tt.now))
		})
	}
}

func TestPolicy_EarliestIsAlwaysValid(t *testing.T) {
	policy := NewPolicy(DefaultPrepWindow)

	for minute := 0; minute < 60; minute++ {
		now := at(14, minute, 0)
		assert.True(t, policy.Valid(policy.Earliest(now), now), "earliest time at 14:%02d should validate", minute)
	}
}
