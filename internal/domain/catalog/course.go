package catalog

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/apprende-client/internal/domain"
)

type CourseStatus string

const (
	CourseStatusDraft     CourseStatus = "DRAFT"
	CourseStatusPublished CourseStatus = "PUBLISHED"
)

const (
	LevelBeginner     = "Principiante"
	LevelIntermediate = "Intermedio"
	LevelAdvanced     = "Avanzado"
)

type Course struct {
	ID           uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID    `gorm:"type:uuid;not null;index" json:"user_id"`
	CategoryID   *int         `gorm:"column:category_id;index" json:"category_id,omitempty"`
	Title        string       `gorm:"column:title;not null" json:"title"`
	Subtitle     string       `gorm:"column:subtitle" json:"subtitle,omitempty"`
	Slug         string       `gorm:"column:slug;not null;index" json:"slug"`
	Description  string       `gorm:"column:description;type:text" json:"description,omitempty"`
	ThumbnailURL string       `gorm:"column:thumbnail_url" json:"thumbnail_url,omitempty"`
	Price        float64      `gorm:"column:price;not null;default:0" json:"price"`
	Level        string       `gorm:"column:level" json:"level,omitempty"`
	Status       CourseStatus `gorm:"column:status;not null;default:'DRAFT'" json:"status,omitempty"`

	Sections []Section `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"sections,omitempty"`

	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

func (Course) TableName() string { return "course" }

func (c *Course) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// LessonCount is the number of lessons across all sections.
func (c *Course) LessonCount() int {
	n := 0
	for i := range c.Sections {
		n += len(c.Sections[i].Lessons)
	}
	return n
}

// FirstLesson is where the player lands when a course is opened.
func (c *Course) FirstLesson() (Lesson, bool) {
	for _, s := range c.Sections {
		if len(s.Lessons) > 0 {
			return s.Lessons[0], true
		}
	}
	return Lesson{}, false
}

type Section struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID   uuid.UUID `gorm:"type:uuid;not null;index" json:"course_id,omitempty"`
	Title      string    `gorm:"column:title;not null" json:"title"`
	OrderIndex int       `gorm:"column:order_index;not null;default:0" json:"order_index"`

	Lessons []Lesson `gorm:"foreignKey:SectionID;constraint:OnDelete:CASCADE" json:"lessons"`
}

func (Section) TableName() string { return "section" }

func (s *Section) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// UnmarshalJSON reads created_at and updated_at with or without a zone offset.
func (c *Course) UnmarshalJSON(b []byte) error {
	type plain Course
	aux := struct {
		*plain
		CreatedAt domain.Timestamp `json:"created_at"`
		UpdatedAt domain.Timestamp `json:"updated_at"`
	}{plain: (*plain)(c)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	c.CreatedAt = aux.CreatedAt.Time
	c.UpdatedAt = aux.UpdatedAt.Time
	return nil
}
