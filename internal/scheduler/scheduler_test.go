package scheduler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfarghaly/egx_dashboard_api/utils"
)

func TestRunWithRecoverInjectsRequestID(t *testing.T) {
	s := New()
	defer s.Stop()

	var seen string
	run := s.runWithRecover(func(ctx context.Context) error {
		seen = utils.GetRequestIDFromCtx(ctx)
		return nil
	}, "test job")

	run(context.Background())
	assert.NotEmpty(t, seen)

	// every run gets a fresh id
	prev := seen
	run(context.Background())
	assert.NotEqual(t, prev, seen)
}

func TestRunWithRecoverSwallowsPanic(t *testing.T) {
	s := New()
	defer s.Stop()

	run := s.runWithRecover(func(_ context.Context) error {
		panic("boom")
	}, "test job")

	require.NotPanics(t, func() { run(context.Background()) })
}

func TestRunWithRecoverToleratesJobError(t *testing.T) {
	s := New()
	defer s.Stop()

	run := s.runWithRecover(func(_ context.Context) error {
		return assert.AnError
	}, "test job")

	require.NotPanics(t, func() { run(context.Background()) })
}
