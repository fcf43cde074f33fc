package shutdown

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestFlagStartsUnset(t *testing.T) {
	f := New()
	assert.False(t, f.Stopped())
}

func TestFlagSetOnce(t *testing.T) {
	f := New()

	assert.True(t, f.Set(), "first Set should flip the flag")
	assert.True(t, f.Stopped())
	assert.False(t, f.Set(), "second Set should be a no-op")
	assert.True(t, f.Stopped())
}

func TestFlagConcurrentSet(t *testing.T) {
	f := New()

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		flips int
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if f.Set() {
				mu.Lock()
				flips++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, flips)
	assert.True(t, f.Stopped())
}
