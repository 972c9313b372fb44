package catalog

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LessonType string

const (
	LessonTypeVideo LessonType = "video"
	LessonTypePDF   LessonType = "pdf"
	LessonTypeImage LessonType = "image"
	LessonTypeQuiz  LessonType = "quiz"
)

func (t LessonType) Valid() bool {
	switch t {
	case LessonTypeVideo, LessonTypePDF, LessonTypeImage, LessonTypeQuiz:
		return true
	}
	return false
}

func ParseLessonType(raw string) (LessonType, error) {
	t := LessonType(strings.ToLower(strings.TrimSpace(raw)))
	if t == "" {
		return LessonTypeVideo, nil
	}
	if !t.Valid() {
		return "", fmt.Errorf("unknown lesson type %q", raw)
	}
	return t, nil
}

type Lesson struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	SectionID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"section_id,omitempty"`
	Title           string     `gorm:"column:title;not null" json:"title"`
	VideoResourceID string     `gorm:"column:video_resource_id" json:"video_resource_id"`
	LessonType      LessonType `gorm:"column:lesson_type;not null;default:'video'" json:"lesson_type"`
	IsFreePreview   bool       `gorm:"column:is_free_preview;not null;default:false" json:"is_free_preview"`
	OrderIndex      int        `gorm:"column:order_index;not null;default:0" json:"order_index"`
}

func (Lesson) TableName() string { return "lesson" }

func (l *Lesson) BeforeCreate(*gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// PlayableResource is what the play endpoint resolves a lesson to.
type PlayableResource struct {
	VideoURL   string     `json:"video_url"`
	LessonType LessonType `json:"lesson_type,omitempty"`
}
