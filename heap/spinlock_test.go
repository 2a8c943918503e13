package heap

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpinLockMutualExclusion(t *testing.T) {
	var lk spinLock
	counter := 0

	const workers = 8
	const rounds = 10000

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for r := 0; r < rounds; r++ {
				lk.lock()
				counter++
				lk.unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, workers*rounds, counter,
		"lost increments mean the critical section was not exclusive")
}

func TestSpinLockUncontended(t *testing.T) {
	var lk spinLock
	lk.lock()
	lk.unlock()
	lk.lock()
	lk.unlock()
}
