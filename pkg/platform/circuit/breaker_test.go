package circuit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// feed records each step ('F' failure, 'S' success) and counts transitions.
func feed(b *Breaker, steps string) (opened, closed int) {
	for _, step := range steps {
		var change StateChange
		switch step {
		case 'F':
			_, change = b.RecordFailure()
		case 'S':
			_, change = b.RecordSuccess()
		}
		if change.Opened {
			opened++
		}
		if change.Closed {
			closed++
		}
	}
	return opened, closed
}

func TestBreakerTransitions(t *testing.T) {
	tests := []struct {
		name       string
		failures   int
		successes  int
		steps      string
		wantOpen   bool
		wantOpened int
		wantClosed int
	}{
		{name: "stays closed below the failure threshold", failures: 4, successes: 10, steps: "FFF"},
		{name: "opens at the failure threshold", failures: 4, successes: 10, steps: "FFFF", wantOpen: true, wantOpened: 1},
		{name: "success resets the failure run", failures: 3, successes: 1, steps: "FFSFF"},
		{name: "further failures while open do not reopen", failures: 1, successes: 2, steps: "FFF", wantOpen: true, wantOpened: 1},
		{name: "closes after enough successes", failures: 1, successes: 2, steps: "FSS", wantOpened: 1, wantClosed: 1},
		{name: "failure while open resets the success run", failures: 1, successes: 3, steps: "FSSFSS", wantOpen: true, wantOpened: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New("sota-logs", WithFailureThreshold(tt.failures), WithSuccessThreshold(tt.successes))

			opened, closed := feed(b, tt.steps)

			assert.Equal(t, tt.wantOpen, b.IsOpen())
			assert.Equal(t, tt.wantOpened, opened)
			assert.Equal(t, tt.wantClosed, closed)
		})
	}
}

func TestBreakerReset(t *testing.T) {
	b := New("sota-logs", WithFailureThreshold(1))
	require.Equal(t, "sota-logs", b.Name())

	feed(b, "F")
	require.Equal(t, StateOpen, b.State())

	b.Reset()
	assert.Equal(t, StateClosed, b.State())
}

func TestBreakerAllowHonoursCooldown(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	b := New("sota-logs",
		WithFailureThreshold(1),
		WithCooldown(10*time.Second),
		WithClock(func() time.Time { return now }),
	)

	assert.True(t, b.Allow())

	b.RecordFailure()
	assert.False(t, b.Allow(), "open breaker rejects during cooldown")

	now = now.Add(10 * time.Second)
	assert.True(t, b.Allow(), "probe allowed after cooldown")

	b.RecordFailure()
	assert.False(t, b.Allow(), "failed probe restarts cooldown")
}
