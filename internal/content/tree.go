package content

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/yungbote/apprende-client/internal/domain/catalog"
)

// Tree is the ordered section/lesson structure of one course.
// Operations never mutate the receiver; they return a renumbered copy.
type Tree struct {
	CourseID uuid.UUID
	Sections []catalog.Section
}

// FromCourse builds a tree ordered by the ordinals the server sent. Ties keep server order.
func FromCourse(c *catalog.Course) Tree {
	t := Tree{CourseID: c.ID, Sections: make([]catalog.Section, len(c.Sections))}
	for i, s := range c.Sections {
		t.Sections[i] = cloneSection(s)
		sort.SliceStable(t.Sections[i].Lessons, func(a, b int) bool {
			return t.Sections[i].Lessons[a].OrderIndex < t.Sections[i].Lessons[b].OrderIndex
		})
	}
	sort.SliceStable(t.Sections, func(a, b int) bool {
		return t.Sections[a].OrderIndex < t.Sections[b].OrderIndex
	})
	return t.Renumber()
}

func (t Tree) Clone() Tree {
	out := Tree{CourseID: t.CourseID, Sections: make([]catalog.Section, len(t.Sections))}
	for i, s := range t.Sections {
		out.Sections[i] = cloneSection(s)
	}
	return out
}

func cloneSection(s catalog.Section) catalog.Section {
	out := s
	out.Lessons = make([]catalog.Lesson, len(s.Lessons))
	copy(out.Lessons, s.Lessons)
	return out
}

// Renumber sets every ordinal to its index and points each lesson at its section.
func (t Tree) Renumber() Tree {
	out := t.Clone()
	for i := range out.Sections {
		s := &out.Sections[i]
		s.OrderIndex = i
		for j := range s.Lessons {
			s.Lessons[j].OrderIndex = j
			s.Lessons[j].SectionID = s.ID
		}
	}
	return out
}

// SectionIndex returns the position of a section, or -1.
func (t Tree) SectionIndex(id uuid.UUID) int {
	for i := range t.Sections {
		if t.Sections[i].ID == id {
			return i
		}
	}
	return -1
}

func (t Tree) mustSectionIndex(id uuid.UUID) int {
	i := t.SectionIndex(id)
	if i < 0 {
		panic(fmt.Sprintf("content: section %s not in course %s", id, t.CourseID))
	}
	return i
}

// LocateLesson returns the section and lesson positions of a lesson.
func (t Tree) LocateLesson(id uuid.UUID) (sectionIdx, lessonIdx int, ok bool) {
	for i := range t.Sections {
		for j := range t.Sections[i].Lessons {
			if t.Sections[i].Lessons[j].ID == id {
				return i, j, true
			}
		}
	}
	return -1, -1, false
}

func (t Tree) MoveSection(from, to int) Tree {
	out := t.Clone()
	out.Sections = MoveWithinList(out.Sections, from, to)
	return out.Renumber()
}

func (t Tree) MoveLessonWithinSection(sectionID uuid.UUID, from, to int) Tree {
	i := t.mustSectionIndex(sectionID)
	out := t.Clone()
	out.Sections[i].Lessons = MoveWithinList(out.Sections[i].Lessons, from, to)
	return out.Renumber()
}

// MoveLessonAcrossSections moves one lesson between sections. Both section ids must exist;
// an unknown id is a programming error and panics. dstIndex may equal the destination length.
// Out-of-range indices leave the order unchanged.
func (t Tree) MoveLessonAcrossSections(srcSectionID uuid.UUID, srcIndex int, dstSectionID uuid.UUID, dstIndex int) Tree {
	si := t.mustSectionIndex(srcSectionID)
	di := t.mustSectionIndex(dstSectionID)
	if si == di {
		return t.MoveLessonWithinSection(srcSectionID, srcIndex, dstIndex)
	}
	src := t.Sections[si].Lessons
	dst := t.Sections[di].Lessons
	if srcIndex < 0 || srcIndex >= len(src) || dstIndex < 0 || dstIndex > len(dst) {
		return t.Renumber()
	}
	out := t.Clone()
	newSrc, lesson := removeAt(src, srcIndex)
	out.Sections[si].Lessons = newSrc
	out.Sections[di].Lessons = insertAt(dst, dstIndex, lesson)
	return out.Renumber()
}

// Flatten lists lessons in section order, then lesson order.
func (t Tree) Flatten() []catalog.Lesson {
	out := make([]catalog.Lesson, 0, t.LessonCount())
	for _, s := range t.Sections {
		out = append(out, s.Lessons...)
	}
	return out
}

func (t Tree) LessonCount() int {
	n := 0
	for _, s := range t.Sections {
		n += len(s.Lessons)
	}
	return n
}

// Validate checks the dense 0-based ordinal invariant for sections and lessons.
func (t Tree) Validate() error {
	seen := make(map[uuid.UUID]struct{}, t.LessonCount())
	for i, s := range t.Sections {
		if s.OrderIndex != i {
			return fmt.Errorf("section %s at %d has order_index %d", s.ID, i, s.OrderIndex)
		}
		for j, l := range s.Lessons {
			if l.OrderIndex != j {
				return fmt.Errorf("lesson %s at %d/%d has order_index %d", l.ID, i, j, l.OrderIndex)
			}
			if _, dup := seen[l.ID]; dup {
				return fmt.Errorf("lesson %s appears twice", l.ID)
			}
			seen[l.ID] = struct{}{}
		}
	}
	return nil
}

// SameOrder reports whether two trees list the same sections and lessons in the same positions.
func SameOrder(a, b Tree) bool {
	if len(a.Sections) != len(b.Sections) {
		return false
	}
	for i := range a.Sections {
		if a.Sections[i].ID != b.Sections[i].ID || len(a.Sections[i].Lessons) != len(b.Sections[i].Lessons) {
			return false
		}
		for j := range a.Sections[i].Lessons {
			if a.Sections[i].Lessons[j].ID != b.Sections[i].Lessons[j].ID {
				return false
			}
		}
	}
	return true
}
