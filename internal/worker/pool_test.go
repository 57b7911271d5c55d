package worker

import (
	"fmt"
	"sort"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_RunsEveryJob(t *testing.T) {
	p := NewPool[int](3, 4)

	done := make(chan []Result[int])
	go func() {
		var got []Result[int]
		for r := range p.Results() {
			got = append(got, r)
		}
		done <- got
	}()

	for i := 0; i < 10; i++ {
		n := i
		require.NoError(t, p.Submit(fmt.Sprintf("job-%d", n), func() int { return n * n }))
	}
	p.Close()

	got := <-done
	require.Len(t, got, 10)

	outputs := make([]int, len(got))
	for i, r := range got {
		outputs[i] = r.Output
		assert.NotEmpty(t, r.JobID)
	}
	sort.Ints(outputs)
	assert.Equal(t, []int{0, 1, 4, 9, 16, 25, 36, 49, 64, 81}, outputs)
}

func TestPool_SubmitAfterClose(t *testing.T) {
	p := NewPool[struct{}](1, 1)
	p.Close()

	err := p.Submit("late", func() struct{} { return struct{}{} })
	assert.ErrorIs(t, err, ErrPoolClosed)

	_, open := <-p.Results()
	assert.False(t, open)
}

func TestPool_CloseIsIdempotent(t *testing.T) {
	p := NewPool[int](2, 0)
	var ran atomic.Int32

	go func() {
		for range p.Results() {
		}
	}()
	require.NoError(t, p.Submit("a", func() int { ran.Add(1); return 1 }))

	p.Close()
	p.Close()
	assert.Equal(t, int32(1), ran.Load())
}
