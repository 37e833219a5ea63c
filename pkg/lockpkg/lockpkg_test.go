package lockpkg

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeyedMutexSerializesSameKey(t *testing.T) {
	km := NewKeyedMutex()

	const (
		goroutines = 50
		increments = 100
	)

	counter := 0

	var wg sync.WaitGroup

	for i := 0; i < goroutines; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for j := 0; j < increments; j++ {
				km.Lock(1)
				counter++
				km.Unlock(1)
			}
		}()
	}

	wg.Wait()

	require.Equal(t, goroutines*increments, counter)
}

func TestKeyedMutexIndependentKeys(t *testing.T) {
	km := NewKeyedMutex()

	km.Lock(1)

	done := make(chan struct{})

	go func() {
		km.Lock(2)
		km.Unlock(2)
		close(done)
	}()

	// Locking key 2 must not wait on key 1.
	<-done

	km.Unlock(1)
}
