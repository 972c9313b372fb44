package progress

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/google/uuid"

	"github.com/yungbote/apprende-client/internal/content"
	"github.com/yungbote/apprende-client/internal/domain/study"
	"github.com/yungbote/apprende-client/internal/observability"
	"github.com/yungbote/apprende-client/internal/platform/logger"
)

// API is the slice of the course API the tracker needs.
type API interface {
	Progress(ctx context.Context, courseID uuid.UUID) ([]uuid.UUID, error)
	ToggleProgress(ctx context.Context, courseID, lessonID uuid.UUID) (*study.ToggleResult, error)
}

var ErrUnknownLesson = errors.New("lesson not in course")

// Percentage is round(100*done/total), and 0 for an empty course.
func Percentage(done, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(done) / float64(total)))
}

// Tracker holds the completed-lesson set of one student in one course.
// Toggles are optimistic and serialized; a failed toggle restores the last server-confirmed set.
type Tracker struct {
	toggle sync.Mutex

	mu        sync.RWMutex
	courseID  uuid.UUID
	order     []uuid.UUID
	position  map[uuid.UUID]int
	completed map[uuid.UUID]struct{}
	confirmed map[uuid.UUID]struct{}

	api API
	log *logger.Logger
}

func NewTracker(tree content.Tree, api API, log *logger.Logger) *Tracker {
	t := &Tracker{
		courseID:  tree.CourseID,
		completed: map[uuid.UUID]struct{}{},
		confirmed: map[uuid.UUID]struct{}{},
		api:       api,
		log:       log.With("component", "ProgressTracker", "course_id", tree.CourseID),
	}
	t.setOrder(tree)
	return t
}

func (t *Tracker) setOrder(tree content.Tree) {
	flat := tree.Flatten()
	t.order = make([]uuid.UUID, len(flat))
	t.position = make(map[uuid.UUID]int, len(flat))
	for i, l := range flat {
		t.order[i] = l.ID
		t.position[l.ID] = i
	}
}

// SetTree follows a content change; completions of lessons that no longer exist are dropped.
func (t *Tracker) SetTree(tree content.Tree) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.setOrder(tree)
	for _, set := range []map[uuid.UUID]struct{}{t.completed, t.confirmed} {
		for id := range set {
			if _, ok := t.position[id]; !ok {
				delete(set, id)
			}
		}
	}
}

// Load replaces local state with the server's completed set.
func (t *Tracker) Load(ctx context.Context) error {
	ids, err := t.api.Progress(ctx, t.courseID)
	if err != nil {
		return fmt.Errorf("load progress: %w", err)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.completed = make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := t.position[id]; ok {
			t.completed[id] = struct{}{}
		}
	}
	t.confirmed = cloneSet(t.completed)
	return nil
}

func (t *Tracker) CourseID() uuid.UUID { return t.courseID }

func (t *Tracker) Completed(lessonID uuid.UUID) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.completed[lessonID]
	return ok
}

// CompletedIDs lists completed lessons in course order.
func (t *Tracker) CompletedIDs() []uuid.UUID {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]uuid.UUID, 0, len(t.completed))
	for _, id := range t.order {
		if _, ok := t.completed[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

func (t *Tracker) Total() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.order)
}

func (t *Tracker) Percentage() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return Percentage(len(t.completed), len(t.order))
}

// CertificateAvailable is true once every lesson is complete.
func (t *Tracker) CertificateAvailable() bool {
	return t.Percentage() == 100
}

// Toggle flips one lesson, persists the flip, and returns the resulting completion state.
// On failure the set returns to what the server last confirmed and the error is returned.
func (t *Tracker) Toggle(ctx context.Context, lessonID uuid.UUID) (bool, error) {
	t.toggle.Lock()
	defer t.toggle.Unlock()

	t.mu.Lock()
	if _, ok := t.position[lessonID]; !ok {
		t.mu.Unlock()
		return false, fmt.Errorf("%w: %s", ErrUnknownLesson, lessonID)
	}
	_, was := t.completed[lessonID]
	if was {
		delete(t.completed, lessonID)
	} else {
		t.completed[lessonID] = struct{}{}
	}
	t.mu.Unlock()

	res, err := t.api.ToggleProgress(ctx, t.courseID, lessonID)
	if err != nil {
		t.mu.Lock()
		t.completed = cloneSet(t.confirmed)
		t.mu.Unlock()
		t.log.Warn("progress toggle not saved; restored last confirmed state", "lesson_id", lessonID, "error", err)
		observability.Current().IncPersistOutcome("progress", "rolled_back")
		return was, fmt.Errorf("toggle progress: %w", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	now := !was
	if res != nil && res.LessonID == lessonID && res.Completed != now {
		// server state had drifted; it wins
		now = res.Completed
		if now {
			t.completed[lessonID] = struct{}{}
		} else {
			delete(t.completed, lessonID)
		}
	}
	t.confirmed = cloneSet(t.completed)
	observability.Current().IncPersistOutcome("progress", "saved")
	return now, nil
}

// First is the lesson the player opens by default.
func (t *Tracker) First() (uuid.UUID, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if len(t.order) == 0 {
		return uuid.Nil, false
	}
	return t.order[0], true
}

// Next returns the lesson after current in section-then-lesson order; false at the end.
func (t *Tracker) Next(current uuid.UUID) (uuid.UUID, bool) {
	return t.step(current, 1)
}

// Previous returns the lesson before current; false at the start.
func (t *Tracker) Previous(current uuid.UUID) (uuid.UUID, bool) {
	return t.step(current, -1)
}

func (t *Tracker) step(current uuid.UUID, delta int) (uuid.UUID, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	i, ok := t.position[current]
	if !ok {
		return uuid.Nil, false
	}
	j := i + delta
	if j < 0 || j >= len(t.order) {
		return uuid.Nil, false
	}
	return t.order[j], true
}

func cloneSet(in map[uuid.UUID]struct{}) map[uuid.UUID]struct{} {
	out := make(map[uuid.UUID]struct{}, len(in))
	for k := range in {
		out[k] = struct{}{}
	}
	return out
}
