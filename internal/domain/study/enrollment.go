package study

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/apprende-client/internal/domain"
	"github.com/yungbote/apprende-client/internal/domain/catalog"
)

type Enrollment struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_enrollment_user_course" json:"user_id,omitempty"`
	CourseID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_enrollment_user_course" json:"course_id,omitempty"`
	Course      *catalog.Course `gorm:"foreignKey:CourseID;references:ID;constraint:OnDelete:CASCADE" json:"course,omitempty"`
	AmountPaid  float64         `gorm:"column:amount_paid;not null;default:0" json:"amount_paid"`
	PurchasedAt time.Time       `gorm:"column:purchased_at;not null" json:"purchased_at"`
}

func (Enrollment) TableName() string { return "enrollment" }

func (e *Enrollment) BeforeCreate(*gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.PurchasedAt.IsZero() {
		e.PurchasedAt = time.Now().UTC()
	}
	return nil
}

// EnrollResult is returned by the client. AlreadyEnrolled is set when the server
// refused a duplicate; Enrollment is nil in that case.
type EnrollResult struct {
	Enrollment      *Enrollment
	AlreadyEnrolled bool
}

func (e *Enrollment) UnmarshalJSON(b []byte) error {
	type plain Enrollment
	aux := struct {
		*plain
		PurchasedAt domain.Timestamp `json:"purchased_at"`
	}{plain: (*plain)(e)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	e.PurchasedAt = aux.PurchasedAt.Time
	return nil
}
