package clock

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystem_Now(t *testing.T) {
	before := time.Now()
	now := System{}.Now()
	after := time.Now()

	assert.Equal(t, time.UTC, now.Location(), "System clock should return UTC")
	assert.False(t, now.Before(before.Add(-time.Second)))
	assert.False(t, now.After(after.Add(time.Second)))
}

func TestFixed(t *testing.T) {
	start := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewFixed(start)

	assert.Equal(t, start, c.Now())
	assert.Equal(t, start, c.Now(), "Fixed clock must not move on its own")

	c.Advance(10 * time.Millisecond)
	assert.Equal(t, start.Add(10*time.Millisecond), c.Now())

	later := start.Add(time.Hour)
	c.Set(later)
	assert.Equal(t, later, c.Now())
}

func TestStep(t *testing.T) {
	start := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewStep(start, time.Second)

	tests := []struct {
		name     string
		expected time.Time
	}{
		{"first call returns start", start},
		{"second call", start.Add(time.Second)},
		{"third call", start.Add(2 * time.Second)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, c.Now())
		})
	}
}

func TestStep_Concurrent(t *testing.T) {
	start := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewStep(start, time.Millisecond)

	const goroutines = 50
	seen := make(chan time.Time, goroutines)

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seen <- c.Now()
		}()
	}
	wg.Wait()
	close(seen)

	unique := make(map[time.Time]struct{}, goroutines)
	for ts := range seen {
		unique[ts] = struct{}{}
	}
	require.Len(t, unique, goroutines, "every call must get a distinct instant")
}
