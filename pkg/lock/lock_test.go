package lock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReleaseContextSurvivesCallerCancellation(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	cancel()
	require.Error(t, parent.Err())

	releaseCtx, releaseCancel := releaseContext()
	defer releaseCancel()

	assert.NoError(t, releaseCtx.Err())

	deadline, ok := releaseCtx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(releaseTimeout), deadline, time.Second)
}
