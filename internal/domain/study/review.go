package study

import (
	"encoding/json"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/apprende-client/internal/domain"
)

type Review struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_review_user_course" json:"course_id"`
	UserID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_review_user_course" json:"user_id"`
	Rating          int       `gorm:"column:rating;not null" json:"rating"`
	Comment         string    `gorm:"column:comment;type:text" json:"comment,omitempty"`
	InstructorReply *string   `gorm:"column:instructor_reply;type:text" json:"instructor_reply,omitempty"`
	CreatedAt       time.Time `json:"created_at"`

	UserName string `gorm:"-" json:"user_name,omitempty"`
}

func (Review) TableName() string { return "review" }

func (r *Review) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// AverageRating rounds to one decimal; 0 for no reviews.
func AverageRating(reviews []Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	return math.Round(float64(sum)/float64(len(reviews))*10) / 10
}

func (r *Review) UnmarshalJSON(b []byte) error {
	type plain Review
	aux := struct {
		*plain
		CreatedAt domain.Timestamp `json:"created_at"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	r.CreatedAt = aux.CreatedAt.Time
	return nil
}
