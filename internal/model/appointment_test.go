package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartsBefore(t *testing.T) {
	date, err := time.Parse(DateOnly, "2025-03-10")
	require.NoError(t, err)
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		time string
		want bool
	}{
		{"earlier same day", "11:59", true},
		{"exactly now", "12:00", false},
		{"later same day", "12:01", false},
		{"unparseable time", "noon", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := &Appointment{Date: date, Time: tc.time}
			assert.Equal(t, tc.want, a.StartsBefore(now))
		})
	}

	previousDay := &Appointment{Date: date.AddDate(0, 0, -1), Time: "23:59"}
	assert.True(t, previousDay.StartsBefore(now))
}
