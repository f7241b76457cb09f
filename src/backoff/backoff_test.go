package backoff

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDelayGrowsAndCaps(t *testing.T) {
	p := Policy{MaxAttempts: 10, Initial: 100 * time.Millisecond, Max: time.Second, Multiplier: 2}

	want := []time.Duration{
		100 * time.Millisecond,
		200 * time.Millisecond,
		400 * time.Millisecond,
		800 * time.Millisecond,
		time.Second,
		time.Second,
	}
	for i, w := range want {
		assert.Equal(t, w, p.Delay(i+1), "attempt %d", i+1)
	}

	assert.Equal(t, time.Second, p.Delay(10000))
	assert.Equal(t, 100*time.Millisecond, p.Delay(0))
}

func TestDelayBounds(t *testing.T) {
	flat := Policy{MaxAttempts: 3, Initial: 50 * time.Millisecond, Max: time.Second, Multiplier: 1}
	for i := 1; i < 5; i++ {
		assert.Equal(t, 50*time.Millisecond, flat.Delay(i))
	}

	fixed := Policy{MaxAttempts: 3, Initial: time.Second, Max: time.Second, Multiplier: 2}
	assert.Equal(t, time.Second, fixed.Delay(1))
	assert.Equal(t, time.Second, fixed.Delay(4))

	none := Policy{MaxAttempts: 3, Multiplier: 2}
	assert.Equal(t, time.Duration(0), none.Delay(1))
	assert.Equal(t, time.Duration(0), none.Delay(7))
}

func TestDelayIsPure(t *testing.T) {
	p := DefaultPolicy()
	for i := 1; i < 20; i++ {
		assert.Equal(t, p.Delay(i), p.Delay(i))
		assert.LessOrEqual(t, p.Delay(i), p.Delay(i+1))
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, DefaultPolicy().Validate())
	assert.Error(t, Policy{MaxAttempts: 0, Initial: 1, Max: 2, Multiplier: 2}.Validate())
	assert.Error(t, Policy{MaxAttempts: 1, Initial: 3, Max: 2, Multiplier: 2}.Validate())
	assert.Error(t, Policy{MaxAttempts: 1, Initial: 1, Max: 2, Multiplier: 0.5}.Validate())
}
