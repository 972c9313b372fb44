package reorder

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/apprende-client/internal/content"
	"github.com/yungbote/apprende-client/internal/domain/catalog"
	"github.com/yungbote/apprende-client/internal/platform/logger"
)

type recordingPersister struct {
	mu    sync.Mutex
	calls []catalog.ReorderRequest
	err   error
}

func (p *recordingPersister) Reorder(_ context.Context, _ uuid.UUID, req catalog.ReorderRequest) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, req)
	return p.err
}

func (p *recordingPersister) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

type course struct {
	tree       content.Tree
	secA, secB uuid.UUID
	l1, l2, l3 uuid.UUID
}

func newCourse() course {
	c := course{secA: uuid.New(), secB: uuid.New(), l1: uuid.New(), l2: uuid.New(), l3: uuid.New()}
	c.tree = content.FromCourse(&catalog.Course{
		ID: uuid.New(),
		Sections: []catalog.Section{
			{ID: c.secA, OrderIndex: 0, Lessons: []catalog.Lesson{{ID: c.l1}, {ID: c.l2, OrderIndex: 1}}},
			{ID: c.secB, OrderIndex: 1, Lessons: []catalog.Lesson{{ID: c.l3}}},
		},
	})
	return c
}

func mustTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	t.Cleanup(log.Sync)
	return log
}

func moveL2ToB(c course) DragResult {
	return DragResult{
		Kind:        KindLesson,
		Source:      Location{ContainerID: c.secA, Index: 1},
		Destination: &Location{ContainerID: c.secB, Index: 0},
	}
}

func TestCancelledDragChangesNothing(t *testing.T) {
	c := newCourse()
	p := &recordingPersister{}
	ctrl := NewController(c.tree, p, mustTestLogger(t))

	out, err := ctrl.Apply(context.Background(), DragResult{Kind: KindLesson, Source: Location{ContainerID: c.secA}})
	if err != nil || out != OutcomeIgnored {
		t.Fatalf("Apply = %v, %v", out, err)
	}
	if p.count() != 0 {
		t.Fatalf("cancelled drag must not persist")
	}
	if !content.SameOrder(ctrl.Tree(), c.tree) {
		t.Fatalf("tree changed")
	}
}

func TestDropOnSourceIsNoop(t *testing.T) {
	c := newCourse()
	p := &recordingPersister{}
	ctrl := NewController(c.tree, p, mustTestLogger(t))

	drags := []DragResult{
		{Kind: KindLesson, Source: Location{ContainerID: c.secA, Index: 1}, Destination: &Location{ContainerID: c.secA, Index: 1}},
		{Kind: KindSection, Source: Location{ContainerID: c.tree.CourseID}, Destination: &Location{ContainerID: c.tree.CourseID}},
	}
	for _, d := range drags {
		out, err := ctrl.Apply(context.Background(), d)
		if err != nil || out != OutcomeUnchanged {
			t.Fatalf("Apply(%+v) = %v, %v", d, out, err)
		}
	}
	if p.count() != 0 {
		t.Fatalf("no-op drags persisted %d times", p.count())
	}
}

func TestGesturePersistsExactlyOnce(t *testing.T) {
	c := newCourse()
	p := &recordingPersister{}
	ctrl := NewController(c.tree, p, mustTestLogger(t))

	out, err := ctrl.Apply(context.Background(), moveL2ToB(c))
	if err != nil || out != OutcomeSaved {
		t.Fatalf("Apply = %v, %v", out, err)
	}
	if p.count() != 1 {
		t.Fatalf("persist calls = %d, want 1", p.count())
	}
	req := p.calls[0]
	if len(req.Sections) != 2 {
		t.Fatalf("payload must carry every section: %+v", req)
	}
	if got := req.Sections[0].Lessons; len(got) != 1 || got[0].ID != c.l1 || got[0].OrderIndex != 0 {
		t.Fatalf("section A payload = %+v", got)
	}
	if got := req.Sections[1].Lessons; len(got) != 2 || got[0].ID != c.l2 || got[1].ID != c.l3 || got[1].OrderIndex != 1 {
		t.Fatalf("section B payload = %+v", got)
	}
	if !content.SameOrder(ctrl.Tree(), ctrl.Confirmed()) {
		t.Fatalf("confirmed state should follow a successful save")
	}
}

func TestFailedSaveRollsBackToLastConfirmed(t *testing.T) {
	c := newCourse()
	p := &recordingPersister{}
	ctrl := NewController(c.tree, p, mustTestLogger(t))

	var seen []content.Tree
	ctrl.OnChange(func(t content.Tree) { seen = append(seen, t) })

	// first gesture succeeds
	sectionSwap := DragResult{Kind: KindSection, Source: Location{ContainerID: c.tree.CourseID, Index: 0}, Destination: &Location{ContainerID: c.tree.CourseID, Index: 1}}
	if _, err := ctrl.Apply(context.Background(), sectionSwap); err != nil {
		t.Fatalf("first Apply: %v", err)
	}
	afterFirst := ctrl.Tree()

	// second gesture fails on the wire
	p.err = errors.New("503 service unavailable")
	out, err := ctrl.Apply(context.Background(), moveL2ToB(c))
	if err == nil || out != OutcomeRolledBack {
		t.Fatalf("Apply = %v, %v; want rollback", out, err)
	}
	if !errors.Is(err, p.err) {
		t.Fatalf("error should wrap the persistence failure: %v", err)
	}
	if p.count() != 2 {
		t.Fatalf("persist calls = %d, want 2", p.count())
	}
	if !content.SameOrder(ctrl.Tree(), afterFirst) {
		t.Fatalf("tree not restored to the last confirmed order")
	}
	// first save, optimistic second, rollback
	if len(seen) != 3 || !content.SameOrder(seen[2], afterFirst) || content.SameOrder(seen[1], afterFirst) {
		t.Fatalf("unexpected change notifications: %d", len(seen))
	}
}

func TestSectionDragOutsideCourseIsRejected(t *testing.T) {
	c := newCourse()
	p := &recordingPersister{}
	ctrl := NewController(c.tree, p, mustTestLogger(t))
	_, err := ctrl.Apply(context.Background(), DragResult{
		Kind:        KindSection,
		Source:      Location{ContainerID: uuid.New(), Index: 0},
		Destination: &Location{ContainerID: c.tree.CourseID, Index: 1},
	})
	if !errors.Is(err, ErrInvalidDrag) {
		t.Fatalf("err = %v, want ErrInvalidDrag", err)
	}
	if p.count() != 0 {
		t.Fatalf("invalid drag persisted")
	}
}

func TestLessonDragToUnknownSectionIsRejected(t *testing.T) {
	c := newCourse()
	p := &recordingPersister{}
	ctrl := NewController(c.tree, p, mustTestLogger(t))
	_, err := ctrl.Apply(context.Background(), DragResult{
		Kind:        KindLesson,
		Source:      Location{ContainerID: c.secA, Index: 0},
		Destination: &Location{ContainerID: uuid.New(), Index: 0},
	})
	if !errors.Is(err, ErrInvalidDrag) {
		t.Fatalf("err = %v, want ErrInvalidDrag", err)
	}
	if p.count() != 0 {
		t.Fatalf("invalid drag persisted")
	}
	if !content.SameOrder(ctrl.Tree(), c.tree) {
		t.Fatalf("tree changed after rejected drag")
	}
}

type blockingPersister struct {
	inFlight atomic.Int32
	maxSeen  atomic.Int32
	calls    atomic.Int32
	release  chan struct{}
}

func (b *blockingPersister) Reorder(context.Context, uuid.UUID, catalog.ReorderRequest) error {
	n := b.inFlight.Add(1)
	for {
		m := b.maxSeen.Load()
		if n <= m || b.maxSeen.CompareAndSwap(m, n) {
			break
		}
	}
	<-b.release
	b.inFlight.Add(-1)
	b.calls.Add(1)
	return nil
}

func TestGesturesOnOneCourseAreSerialized(t *testing.T) {
	c := newCourse()
	p := &blockingPersister{release: make(chan struct{})}
	ctrl := NewController(c.tree, p, mustTestLogger(t))

	var wg sync.WaitGroup
	drags := []DragResult{
		moveL2ToB(c),
		{Kind: KindSection, Source: Location{Index: 0}, Destination: &Location{Index: 1}},
	}
	for _, d := range drags {
		wg.Add(1)
		go func(d DragResult) {
			defer wg.Done()
			if _, err := ctrl.Apply(context.Background(), d); err != nil {
				t.Errorf("Apply: %v", err)
			}
		}(d)
	}

	deadline := time.After(2 * time.Second)
	for released := 0; released < len(drags); {
		select {
		case p.release <- struct{}{}:
			released++
		case <-deadline:
			t.Fatalf("timed out releasing persisters")
		}
	}
	wg.Wait()

	if p.calls.Load() != 2 {
		t.Fatalf("calls = %d, want 2", p.calls.Load())
	}
	if p.maxSeen.Load() != 1 {
		t.Fatalf("saw %d concurrent saves, want 1", p.maxSeen.Load())
	}
	if err := ctrl.Tree().Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}
