package live

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/Veraticus/petit-bac/internal/common"
	"github.com/Veraticus/petit-bac/internal/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// slowService blocks each call until its context ends or release is closed.
type slowService struct {
	release chan struct{}
	started chan string
	calls   int32
}

func (s *slowService) ValidateWord(ctx context.Context, _ string, word string) model.ValidationOutcome {
	atomic.AddInt32(&s.calls, 1)
	if s.started != nil {
		s.started <- word
	}
	if s.release != nil {
		select {
		case <-ctx.Done():
			return model.Uncertain(0.5, model.SourceWeb, "Dictionary lookup canceled")
		case <-s.release:
		}
	}
	return model.Valid(1, model.SourceFixed, "checked "+word)
}

func TestChecker_Single(t *testing.T) {
	svc := &slowService{}
	c := NewChecker(svc, 10*time.Millisecond)

	res, err := c.Check(context.Background(), "ANIMAL", "chien")
	require.NoError(t, err)
	assert.True(t, res.Outcome.IsValid())
	assert.Equal(t, "checked chien", res.Outcome.Details)
	assert.Equal(t, "chien", res.Word)
	assert.NotEmpty(t, res.ID)
	assert.Equal(t, uint64(1), res.Seq)
}

func TestChecker_DebounceDropsEarlierKeystrokes(t *testing.T) {
	svc := &slowService{}
	c := NewChecker(svc, 100*time.Millisecond)

	var wg sync.WaitGroup
	errs := make([]error, 3)
	results := make([]Result, 3)
	for i, w := range []string{"c", "ch", "chi"} {
		wg.Add(1)
		go func(i int, w string) {
			defer wg.Done()
			results[i], errs[i] = c.Check(context.Background(), "ANIMAL", w)
		}(i, w)
		time.Sleep(20 * time.Millisecond)
	}
	wg.Wait()

	assert.ErrorIs(t, errs[0], common.ErrSuperseded)
	assert.ErrorIs(t, errs[1], common.ErrSuperseded)
	require.NoError(t, errs[2])
	assert.Equal(t, "chi", results[2].Word)
	assert.Equal(t, int32(1), atomic.LoadInt32(&svc.calls))
}

func TestChecker_InFlightIsCanceled(t *testing.T) {
	svc := &slowService{release: make(chan struct{}), started: make(chan string, 2)}
	c := NewChecker(svc, 0)

	firstErr := make(chan error, 1)
	go func() {
		_, err := c.Check(context.Background(), "ANIMAL", "chat")
		firstErr <- err
	}()
	require.Equal(t, "chat", <-svc.started)

	secondDone := make(chan Result, 1)
	go func() {
		res, err := c.Check(context.Background(), "ANIMAL", "chien")
		assert.NoError(t, err)
		secondDone <- res
	}()

	assert.ErrorIs(t, <-firstErr, common.ErrSuperseded)
	require.Equal(t, "chien", <-svc.started)
	close(svc.release)

	res := <-secondDone
	assert.Equal(t, "checked chien", res.Outcome.Details)
}

func TestChecker_ParentCanceled(t *testing.T) {
	svc := &slowService{}
	c := NewChecker(svc, time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.Check(ctx, "ANIMAL", "chien")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Zero(t, atomic.LoadInt32(&svc.calls))
}

func TestChecker_Cancel(t *testing.T) {
	svc := &slowService{}
	c := NewChecker(svc, time.Second)

	done := make(chan error, 1)
	go func() {
		_, err := c.Check(context.Background(), "ANIMAL", "chien")
		done <- err
	}()

	require.Eventually(t, func() bool {
		c.mu.Lock()
		defer c.mu.Unlock()
		return c.cancel != nil
	}, time.Second, time.Millisecond)
	c.Cancel()

	assert.ErrorIs(t, <-done, common.ErrSuperseded)
	assert.Zero(t, atomic.LoadInt32(&svc.calls))
}
