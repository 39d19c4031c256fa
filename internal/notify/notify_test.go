package notify

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoRunsWithDeadline(t *testing.T) {
	n := New(zerolog.Nop(), 50*time.Millisecond)

	var deadline time.Time
	var hadDeadline bool
	n.Do("test_op", func(ctx context.Context) error {
		deadline, hadDeadline = ctx.Deadline()
		return nil
	})

	require.True(t, hadDeadline)
	assert.WithinDuration(t, time.Now().Add(50*time.Millisecond), deadline, 25*time.Millisecond)
}

func TestDoSwallowsAndLogsErrors(t *testing.T) {
	var buf bytes.Buffer
	n := New(zerolog.New(&buf), time.Second)

	n.Do("history_record", func(ctx context.Context) error {
		return errors.New("redis down")
	})

	out := buf.String()
	assert.Contains(t, out, "history_record")
	assert.Contains(t, out, "redis down")
}

func TestDoQuietOnSuccess(t *testing.T) {
	var buf bytes.Buffer
	n := New(zerolog.New(&buf), time.Second)

	n.Do("history_record", func(ctx context.Context) error { return nil })

	assert.Empty(t, buf.String())
}

func TestDefaultTimeout(t *testing.T) {
	n := New(zerolog.Nop(), 0)

	var hadDeadline bool
	n.Do("test_op", func(ctx context.Context) error {
		_, hadDeadline = ctx.Deadline()
		return nil
	})
	assert.True(t, hadDeadline)
}
