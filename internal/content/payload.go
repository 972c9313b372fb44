package content

import (
	"sort"

	"github.com/google/uuid"

	"github.com/yungbote/apprende-client/internal/domain/catalog"
)

// Payload is the full ordinal assignment of the tree, ready for the reorder call.
func (t Tree) Payload() catalog.ReorderRequest {
	rt := t.Renumber()
	req := catalog.ReorderRequest{Sections: make([]catalog.SectionOrder, len(rt.Sections))}
	for i, s := range rt.Sections {
		so := catalog.SectionOrder{ID: s.ID, OrderIndex: s.OrderIndex, Lessons: make([]catalog.LessonOrder, len(s.Lessons))}
		for j, l := range s.Lessons {
			so.Lessons[j] = catalog.LessonOrder{ID: l.ID, OrderIndex: l.OrderIndex}
		}
		req.Sections[i] = so
	}
	return req
}

// ApplyPayload rearranges the tree the way the server applies a reorder request:
// sections take their new ordinals and each listed lesson moves into the listing section.
// Sections and lessons the payload does not mention keep their relative order after the listed ones.
func (t Tree) ApplyPayload(req catalog.ReorderRequest) Tree {
	lessons := make(map[uuid.UUID]catalog.Lesson, t.LessonCount())
	for _, s := range t.Sections {
		for _, l := range s.Lessons {
			lessons[l.ID] = l
		}
	}

	sectionOrder := make(map[uuid.UUID]int, len(req.Sections))
	placed := make(map[uuid.UUID]struct{})
	listed := make(map[uuid.UUID][]catalog.LessonOrder, len(req.Sections))
	for _, so := range req.Sections {
		sectionOrder[so.ID] = so.OrderIndex
		for _, lo := range so.Lessons {
			if _, ok := lessons[lo.ID]; ok {
				listed[so.ID] = append(listed[so.ID], lo)
				placed[lo.ID] = struct{}{}
			}
		}
	}

	out := Tree{CourseID: t.CourseID, Sections: make([]catalog.Section, len(t.Sections))}
	for i, s := range t.Sections {
		ns := s
		los := listed[s.ID]
		sort.SliceStable(los, func(a, b int) bool { return los[a].OrderIndex < los[b].OrderIndex })
		ns.Lessons = make([]catalog.Lesson, 0, len(los)+len(s.Lessons))
		for _, lo := range los {
			ns.Lessons = append(ns.Lessons, lessons[lo.ID])
		}
		for _, l := range s.Lessons {
			if _, moved := placed[l.ID]; !moved {
				ns.Lessons = append(ns.Lessons, l)
			}
		}
		out.Sections[i] = ns
	}

	sort.SliceStable(out.Sections, func(a, b int) bool {
		oa, okA := sectionOrder[out.Sections[a].ID]
		ob, okB := sectionOrder[out.Sections[b].ID]
		switch {
		case okA && okB:
			return oa < ob
		case okA != okB:
			return okA
		default:
			return false
		}
	})
	return out.Renumber()
}
