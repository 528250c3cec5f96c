// Package live validates words as they are typed. Only the most recent
// submission is ever reported as current.
package live

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Veraticus/petit-bac/internal/common"
	"github.com/Veraticus/petit-bac/internal/model"
)

// DefaultDebounce is the pause after the last keystroke before validating.
const DefaultDebounce = 300 * time.Millisecond

// WordValidator is the service the checker submits words to.
type WordValidator interface {
	ValidateWord(ctx context.Context, category, word string) model.ValidationOutcome
}

// Result is the answer to one submission.
type Result struct {
	ID       string
	Category string
	Word     string
	Outcome  model.ValidationOutcome
	Elapsed  time.Duration
	Seq      uint64
}

// Checker applies last-request-wins to a stream of submissions: each call
// to Check cancels the one before it.
type Checker struct {
	svc    WordValidator
	cancel context.CancelFunc
	delay  time.Duration
	seq    uint64
	mu     sync.Mutex
}

// NewChecker creates a checker that waits delay before validating.
func NewChecker(svc WordValidator, delay time.Duration) *Checker {
	if delay < 0 {
		delay = 0
	}
	return &Checker{svc: svc, delay: delay}
}

// Check waits for the debounce delay, then validates. It returns
// common.ErrSuperseded when a newer call arrived first, or the context
// error when ctx ends.
func (c *Checker) Check(ctx context.Context, category, word string) (Result, error) {
	seq, cctx, release := c.begin(ctx)
	defer release()

	result := Result{
		ID:       uuid.NewString(),
		Seq:      seq,
		Category: category,
		Word:     word,
	}

	if c.delay > 0 {
		timer := time.NewTimer(c.delay)
		select {
		case <-cctx.Done():
			timer.Stop()
			return result, c.abandoned(ctx, seq)
		case <-timer.C:
		}
	}

	start := time.Now()
	result.Outcome = c.svc.ValidateWord(cctx, category, word)
	result.Elapsed = time.Since(start)

	if cctx.Err() != nil || !c.isCurrent(seq) {
		return result, c.abandoned(ctx, seq)
	}
	return result, nil
}

// Cancel abandons the in-flight submission, if any.
func (c *Checker) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

func (c *Checker) begin(ctx context.Context) (uint64, context.Context, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel != nil {
		c.cancel()
	}
	c.seq++
	seq := c.seq
	cctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	return seq, cctx, func() {
		c.mu.Lock()
		if c.seq == seq {
			c.cancel = nil
		}
		c.mu.Unlock()
		cancel()
	}
}

func (c *Checker) isCurrent(seq uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq == seq
}

func (c *Checker) abandoned(ctx context.Context, seq uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fmt.Errorf("check %d: %w", seq, common.ErrSuperseded)
}
