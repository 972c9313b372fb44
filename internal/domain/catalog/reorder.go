package catalog

import "github.com/google/uuid"

// ReorderRequest is the full ordinal assignment for one course, sent in a single PUT.
type ReorderRequest struct {
	Sections []SectionOrder `json:"sections"`
}

type SectionOrder struct {
	ID         uuid.UUID     `json:"id"`
	OrderIndex int           `json:"order_index"`
	Lessons    []LessonOrder `json:"lessons"`
}

type LessonOrder struct {
	ID         uuid.UUID `json:"id"`
	OrderIndex int       `json:"order_index"`
}
