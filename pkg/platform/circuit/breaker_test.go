package circuit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newSinkBreaker(clock *fakeClock) *Breaker {
	return New("audit-kafka",
		WithFailureThreshold(3),
		WithSuccessThreshold(2),
		WithCooldown(30*time.Second),
		WithClock(clock.now),
	)
}

func TestBreaker_Defaults(t *testing.T) {
	b := New("audit-kafka")
	assert.Equal(t, "audit-kafka", b.Name())
	assert.Equal(t, StateClosed, b.State())
	assert.True(t, b.Allow())
}

func TestBreaker_OutageAndRecovery(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	b := newSinkBreaker(clock)

	for i := 1; i <= 2; i++ {
		fallback, change := b.RecordFailure()
		require.False(t, fallback, "failure %d stays closed", i)
		require.False(t, change.Opened)
	}
	fallback, change := b.RecordFailure()
	assert.True(t, fallback)
	assert.True(t, change.Opened)
	assert.True(t, b.IsOpen())
	assert.False(t, b.Allow(), "open breaker rejects until cooldown")

	clock.advance(30 * time.Second)
	require.True(t, b.Allow(), "probe after cooldown")
	assert.False(t, b.Allow(), "only one probe per cooldown")

	primary, change := b.RecordSuccess()
	assert.False(t, primary)
	assert.False(t, change.Closed)

	primary, change = b.RecordSuccess()
	assert.True(t, primary)
	assert.True(t, change.Closed)
	assert.Equal(t, StateClosed, b.State())
}

func TestBreaker_FailedProbeRestartsCooldown(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	b := newSinkBreaker(clock)
	for range 3 {
		b.RecordFailure()
	}

	clock.advance(30 * time.Second)
	require.True(t, b.Allow())
	fallback, change := b.RecordFailure()
	assert.True(t, fallback)
	assert.False(t, change.Opened, "already open")

	clock.advance(10 * time.Second)
	assert.False(t, b.Allow())
	clock.advance(30 * time.Second)
	assert.True(t, b.Allow())
}

func TestBreaker_ConsecutiveCountsReset(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	b := newSinkBreaker(clock)

	b.RecordFailure()
	b.RecordFailure()
	b.RecordSuccess()
	b.RecordFailure()
	b.RecordFailure()
	assert.False(t, b.IsOpen(), "a success clears the failure streak")

	b.RecordFailure()
	require.True(t, b.IsOpen())

	b.RecordSuccess()
	b.RecordFailure()
	_, change := b.RecordSuccess()
	assert.False(t, change.Closed, "a failure clears the success streak")
	assert.True(t, b.IsOpen())
}
