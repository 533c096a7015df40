package translate

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blockingService holds each Translate call until released, so a test can
// interleave requests deterministically.
type blockingService struct {
	mu      sync.Mutex
	waiting []chan struct{}
	result  *Result
}

func (b *blockingService) Translate(ctx context.Context, query string, _ Context) (*Result, error) {
	b.mu.Lock()
	ch := make(chan struct{})
	b.waiting = append(b.waiting, ch)
	b.mu.Unlock()

	<-ch
	return b.result, nil
}

func (b *blockingService) release(i int) {
	b.mu.Lock()
	ch := b.waiting[i]
	b.mu.Unlock()
	close(ch)
}

func (b *blockingService) waitInFlight(t *testing.T, n int) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		b.mu.Lock()
		got := len(b.waiting)
		b.mu.Unlock()
		if got >= n {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d in-flight calls", n)
}

func TestSession_LatestWins(t *testing.T) {
	t.Parallel()

	svc := &blockingService{result: &Result{Interpretation: "ok"}}
	sess := NewSession(svc)

	type outcome struct {
		result *Result
		stale  bool
		err    error
	}
	firstDone := make(chan outcome, 1)
	go func() {
		r, stale, err := sess.Translate(context.Background(), "first", Context{})
		firstDone <- outcome{r, stale, err}
	}()

	// Wait for the first call to be in flight, then start a second.
	svc.waitInFlight(t, 1)
	secondDone := make(chan outcome, 1)
	go func() {
		r, stale, err := sess.Translate(context.Background(), "second", Context{})
		secondDone <- outcome{r, stale, err}
	}()
	svc.waitInFlight(t, 2)

	// The superseded first response is discarded; the second is applied.
	svc.release(0)
	first := <-firstDone
	require.NoError(t, first.err)
	assert.True(t, first.stale)
	assert.Nil(t, first.result)

	svc.release(1)
	second := <-secondDone
	require.NoError(t, second.err)
	assert.False(t, second.stale)
	require.NotNil(t, second.result)
	assert.Equal(t, "ok", second.result.Interpretation)
}

func TestSession_SingleRequest(t *testing.T) {
	t.Parallel()

	svc := &blockingService{result: &Result{Interpretation: "ok"}}
	sess := NewSession(svc)

	done := make(chan struct{})
	go func() {
		defer close(done)
		r, stale, err := sess.Translate(context.Background(), "only", Context{})
		assert.NoError(t, err)
		assert.False(t, stale)
		assert.NotNil(t, r)
	}()

	svc.waitInFlight(t, 1)
	svc.release(0)
	<-done
}
