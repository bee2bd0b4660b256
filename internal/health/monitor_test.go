package health

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xavierca1/ligue-solar/internal/persistence"
)

type fakePinger struct {
	calls int
	err   error
}

func (f *fakePinger) PingContext(context.Context) error {
	f.calls++
	return f.err
}

func TestProbesOnlyAfterThreshold(t *testing.T) {
	ctx := context.Background()
	pinger := &fakePinger{err: errors.New("connection refused")}
	m := NewConnectivityMonitor(pinger, 3)

	m.RecordError(ctx)
	m.RecordError(ctx)
	assert.Equal(t, 0, pinger.calls)
	assert.True(t, m.Status().Online)

	m.RecordError(ctx)
	assert.Equal(t, 1, pinger.calls)
	st := m.Status()
	assert.False(t, st.Online)
	assert.Equal(t, 0, st.ConsecutiveErrors)
	assert.Equal(t, "connection refused", st.LastError)
}

func TestRecoversAfterSuccessfulProbe(t *testing.T) {
	ctx := context.Background()
	pinger := &fakePinger{err: errors.New("down")}
	m := NewConnectivityMonitor(pinger, 1)

	m.RecordError(ctx)
	assert.False(t, m.Status().Online)

	pinger.err = nil
	m.RecordError(ctx)
	assert.True(t, m.Status().Online)
	assert.Empty(t, m.Status().LastError)
}

func TestNotifyIgnoresWarnings(t *testing.T) {
	ctx := context.Background()
	pinger := &fakePinger{}
	m := NewConnectivityMonitor(pinger, 1)

	m.Notify(ctx, persistence.Notice{Level: persistence.LevelWarning})
	assert.Equal(t, 0, pinger.calls)

	m.Notify(ctx, persistence.Notice{Level: persistence.LevelError})
	assert.Equal(t, 1, pinger.calls)
}

func TestSuccessBreaksTheErrorStreak(t *testing.T) {
	ctx := context.Background()
	pinger := &fakePinger{err: errors.New("down")}
	m := NewConnectivityMonitor(pinger, 3)

	m.RecordError(ctx)
	m.RecordError(ctx)
	m.RecordSuccess()
	assert.Equal(t, 0, m.Status().ConsecutiveErrors)

	m.RecordError(ctx)
	m.RecordError(ctx)
	assert.Equal(t, 0, pinger.calls)
	assert.True(t, m.Status().Online)

	m.RecordError(ctx)
	assert.Equal(t, 1, pinger.calls)
}

func TestNotifiersForwardSuccessToMonitor(t *testing.T) {
	ctx := context.Background()
	m := NewConnectivityMonitor(&fakePinger{}, 5)
	ns := persistence.Notifiers{persistence.LogNotifier{}, m}

	ns.Notify(ctx, persistence.Notice{Level: persistence.LevelError})
	assert.Equal(t, 1, m.Status().ConsecutiveErrors)

	ns.RecordSuccess()
	assert.Equal(t, 0, m.Status().ConsecutiveErrors)
}
