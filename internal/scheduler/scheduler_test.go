package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSchedule(t *testing.T) {
	assert.NoError(t, ValidateSchedule(DefaultResetSchedule))
	assert.NoError(t, ValidateSchedule("30 4 * * 1-5"))
	assert.Error(t, ValidateSchedule("every night"))
	assert.Error(t, ValidateSchedule("0 0 0 * * *"), "seconds field is not accepted")
}

func TestAddRejectsBadSpec(t *testing.T) {
	s := New(time.UTC)
	err := s.Add("reset", "61 * * * *", func() {})
	assert.Error(t, err)
	assert.True(t, s.Next().IsZero())
}

func TestNextRunInLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	s := New(tokyo)
	require.NoError(t, s.Add("reset", DefaultResetSchedule, func() {}))

	s.Start()
	defer s.Stop(context.Background())

	next := s.Next().In(tokyo)
	assert.Equal(t, 0, next.Hour())
	assert.Equal(t, 0, next.Minute())
	assert.True(t, next.After(time.Now()))
	assert.True(t, next.Before(time.Now().Add(24*time.Hour+time.Minute)))
}

func TestJobRuns(t *testing.T) {
	s := New(time.UTC)
	ran := make(chan struct{}, 1)
	require.NoError(t, s.Add("tick", "@every 10ms", func() {
		select {
		case ran <- struct{}{}:
		default:
		}
	}))

	s.Start()
	defer s.Stop(context.Background())

	select {
	case <-ran:
	case <-time.After(5 * time.Second):
		t.Fatal("job did not run")
	}
}

func TestPanickingJobIsRecovered(t *testing.T) {
	s := New(time.UTC)
	ran := make(chan struct{}, 2)
	require.NoError(t, s.Add("boom", "@every 10ms", func() {
		select {
		case ran <- struct{}{}:
		default:
		}
		panic("boom")
	}))

	s.Start()
	defer s.Stop(context.Background())

	for i := 0; i < 2; i++ {
		select {
		case <-ran:
		case <-time.After(5 * time.Second):
			t.Fatal("job stopped running after a panic")
		}
	}
}
