package clock_test

import (
	"testing"
	"time"

	"github.com/castforge/castforge/clock"
	"github.com/stretchr/testify/assert"
)

func TestNowMonotonic(t *testing.T) {
	c := clock.New(clock.Rate)
	last := int64(-1)
	for i := 0; i < 10; i++ {
		now := c.Now()
		assert.GreaterOrEqual(t, now, last)
		last = now
		time.Sleep(2 * time.Millisecond)
	}
}

func TestAt(t *testing.T) {
	c := clock.New(1000)
	assert.Equal(t, int64(500), c.At(500*time.Millisecond))
}

func TestSleepUntilPast(t *testing.T) {
	c := clock.New(clock.Rate)
	start := time.Now()
	c.SleepUntil(-1)
	assert.Less(t, time.Since(start), 50*time.Millisecond)
}
