package study

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/apprende-client/internal/domain"
)

type LessonProgress struct {
	UserID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	LessonID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"lesson_id"`
	CourseID    uuid.UUID `gorm:"type:uuid;not null;index" json:"course_id"`
	CompletedAt time.Time `gorm:"column:completed_at;not null" json:"completed_at"`
}

func (LessonProgress) TableName() string { return "user_lesson_progress" }

type ToggleRequest struct {
	LessonID uuid.UUID `json:"lesson_id"`
	CourseID uuid.UUID `json:"course_id"`
}

type ToggleResult struct {
	LessonID    uuid.UUID  `json:"lesson_id"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func (lp *LessonProgress) UnmarshalJSON(b []byte) error {
	type plain LessonProgress
	aux := struct {
		*plain
		CompletedAt domain.Timestamp `json:"completed_at"`
	}{plain: (*plain)(lp)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	lp.CompletedAt = aux.CompletedAt.Time
	return nil
}

// UnmarshalJSON keeps completed_at nil when the server sends null or omits it.
func (r *ToggleResult) UnmarshalJSON(b []byte) error {
	type plain ToggleResult
	aux := struct {
		*plain
		CompletedAt *domain.Timestamp `json:"completed_at"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	r.CompletedAt = aux.CompletedAt.Ptr()
	return nil
}
