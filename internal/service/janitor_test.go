package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestJanitor_Defaults(t *testing.T) {
	r, _ := newTestRegistry(t)

	j := NewJanitor(r, JanitorConfig{}, zap.NewNop())

	assert.Equal(t, 30*time.Minute, j.config.IdleTimeout)
	assert.Equal(t, 5*time.Minute, j.config.SweepInterval)
}

func TestJanitor_RunNow(t *testing.T) {
	r, clock := newTestRegistry(t)
	r.Get(context.Background(), "alice")
	clock.Advance(time.Hour)

	j := NewJanitor(r, JanitorConfig{IdleTimeout: time.Minute}, zap.NewNop())

	assert.Equal(t, 1, j.RunNow())
	assert.Equal(t, 0, r.Count())
}

func TestJanitor_StartStop(t *testing.T) {
	defer goleak.VerifyNone(t)

	r, clock := newTestRegistry(t)
	r.Get(context.Background(), "alice")
	clock.Advance(time.Hour)

	j := NewJanitor(r, JanitorConfig{IdleTimeout: time.Minute, SweepInterval: 5 * time.Millisecond}, zap.NewNop())
	j.Start()
	j.Start()

	assert.Eventually(t, func() bool { return r.Count() == 0 }, time.Second, 5*time.Millisecond)

	j.Stop()
	j.Stop()
}

func TestJanitor_StopWithoutStart(t *testing.T) {
	defer goleak.VerifyNone(t)

	r, _ := newTestRegistry(t)
	j := NewJanitor(r, JanitorConfig{}, zap.NewNop())

	j.Stop()
}
