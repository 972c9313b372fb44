package reorder

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/yungbote/apprende-client/internal/content"
	"github.com/yungbote/apprende-client/internal/domain/catalog"
	"github.com/yungbote/apprende-client/internal/observability"
	"github.com/yungbote/apprende-client/internal/platform/logger"
)

// Persister submits a full ordinal assignment. The course API client satisfies it.
type Persister interface {
	Reorder(ctx context.Context, courseID uuid.UUID, req catalog.ReorderRequest) error
}

type Outcome string

const (
	OutcomeIgnored    Outcome = "ignored"
	OutcomeUnchanged  Outcome = "unchanged"
	OutcomeSaved      Outcome = "saved"
	OutcomeRolledBack Outcome = "rolled_back"
)

// Controller owns the content tree of one course while it is being rearranged.
// Gestures apply optimistically and are persisted one at a time; a failed save restores the
// last order the server accepted.
type Controller struct {
	gesture sync.Mutex

	mu        sync.RWMutex
	current   content.Tree
	confirmed content.Tree
	listeners []func(content.Tree)

	persister Persister
	log       *logger.Logger
}

func NewController(tree content.Tree, p Persister, log *logger.Logger) *Controller {
	t := tree.Renumber()
	return &Controller{
		current:   t,
		confirmed: t,
		persister: p,
		log:       log.With("component", "ReorderController", "course_id", tree.CourseID),
	}
}

// Tree is the optimistic order, including a gesture whose save is still in flight.
func (c *Controller) Tree() content.Tree {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current.Clone()
}

// Confirmed is the last order the server accepted.
func (c *Controller) Confirmed() content.Tree {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.confirmed.Clone()
}

// OnChange registers fn to run after every local state change (optimistic apply or rollback).
func (c *Controller) OnChange(fn func(content.Tree)) {
	c.mu.Lock()
	c.listeners = append(c.listeners, fn)
	c.mu.Unlock()
}

// Reset replaces both states after a reload from the server.
func (c *Controller) Reset(tree content.Tree) {
	c.gesture.Lock()
	defer c.gesture.Unlock()
	t := tree.Renumber()
	c.mu.Lock()
	c.current, c.confirmed = t, t
	c.mu.Unlock()
	c.notify(t)
}

// Apply runs one gesture: plan, optimistic update, exactly one persistence call.
// Calls for the same controller are serialized, so a second gesture waits for the first save.
func (c *Controller) Apply(ctx context.Context, d DragResult) (Outcome, error) {
	c.gesture.Lock()
	defer c.gesture.Unlock()

	if d.Destination == nil {
		return OutcomeIgnored, nil
	}
	base := c.Tree()
	next, changed, err := Plan(base, d)
	if err != nil {
		return OutcomeIgnored, err
	}
	if !changed {
		return OutcomeUnchanged, nil
	}

	c.setCurrent(next)

	if err := c.persister.Reorder(ctx, next.CourseID, next.Payload()); err != nil {
		c.log.Warn("reorder not saved; restoring last confirmed order", "kind", d.Kind, "error", err)
		c.setCurrent(c.Confirmed())
		observability.Current().IncPersistOutcome("reorder", string(OutcomeRolledBack))
		return OutcomeRolledBack, fmt.Errorf("persist reorder: %w", err)
	}

	c.mu.Lock()
	c.confirmed = next
	c.mu.Unlock()
	c.log.Debug("reorder saved", "kind", d.Kind, "sections", len(next.Sections))
	observability.Current().IncPersistOutcome("reorder", string(OutcomeSaved))
	return OutcomeSaved, nil
}

func (c *Controller) setCurrent(t content.Tree) {
	c.mu.Lock()
	c.current = t
	c.mu.Unlock()
	c.notify(t)
}

func (c *Controller) notify(t content.Tree) {
	c.mu.RLock()
	ls := append(([]func(content.Tree))(nil), c.listeners...)
	c.mu.RUnlock()
	for _, fn := range ls {
		fn(t.Clone())
	}
}
