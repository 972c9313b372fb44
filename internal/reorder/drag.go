package reorder

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/yungbote/apprende-client/internal/content"
)

type Kind string

const (
	KindSection Kind = "section"
	KindLesson  Kind = "lesson"
)

// Location is a container (the course for sections, a section for lessons) and an index in it.
type Location struct {
	ContainerID uuid.UUID
	Index       int
}

// DragResult is one finished drag gesture. Destination is nil when the item was dropped
// outside every valid target.
type DragResult struct {
	Kind        Kind
	Source      Location
	Destination *Location
}

var ErrInvalidDrag = errors.New("invalid drag")

// Noop reports gestures that cannot change anything: cancelled drops and drops back onto the source slot.
func (d DragResult) Noop() bool {
	if d.Destination == nil {
		return true
	}
	return d.Destination.ContainerID == d.Source.ContainerID && d.Destination.Index == d.Source.Index
}

// Plan applies a drag to a tree without side effects. changed is false when the
// resulting order equals the input order.
func Plan(t content.Tree, d DragResult) (next content.Tree, changed bool, err error) {
	if d.Noop() {
		return t, false, nil
	}
	dst := *d.Destination
	switch d.Kind {
	case KindSection:
		for _, id := range []uuid.UUID{d.Source.ContainerID, dst.ContainerID} {
			if id != uuid.Nil && id != t.CourseID {
				return t, false, fmt.Errorf("%w: section drag outside course %s", ErrInvalidDrag, t.CourseID)
			}
		}
		next = t.MoveSection(d.Source.Index, dst.Index)
	case KindLesson:
		for _, id := range []uuid.UUID{d.Source.ContainerID, dst.ContainerID} {
			if t.SectionIndex(id) < 0 {
				return t, false, fmt.Errorf("%w: section %s not in course %s", ErrInvalidDrag, id, t.CourseID)
			}
		}
		next = t.MoveLessonAcrossSections(d.Source.ContainerID, d.Source.Index, dst.ContainerID, dst.Index)
	default:
		return t, false, fmt.Errorf("%w: unknown item kind %q", ErrInvalidDrag, d.Kind)
	}
	return next, !content.SameOrder(t, next), nil
}
