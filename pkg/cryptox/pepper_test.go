package cryptox

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetPepperConcurrentFirstUse(t *testing.T) {
	// Several hashes can trigger the first load at once; every caller must
	// observe the same pepper.
	const callers = 8
	peppers := make([]string, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			peppers[i] = GetPepper()
		}(i)
	}
	wg.Wait()

	require.NotEmpty(t, peppers[0])
	for _, p := range peppers[1:] {
		require.Equal(t, peppers[0], p)
	}
}
