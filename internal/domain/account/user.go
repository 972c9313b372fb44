package account

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/apprende-client/internal/domain"
)

type Role string

const (
	RoleStudent    Role = "STUDENT"
	RoleInstructor Role = "INSTRUCTOR"
	RoleAdmin      Role = "ADMIN"
)

type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Password  string    `gorm:"not null;column:password" json:"-"`
	FullName  string    `gorm:"not null;column:full_name" json:"full_name"`
	Role      Role      `gorm:"not null;column:role;default:'STUDENT'" json:"role"`
	CreatedAt time.Time `json:"-"`
}

func (User) TableName() string { return "user" }

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = RoleStudent
	}
	return nil
}

func (u *User) IsInstructor() bool {
	return u != nil && (u.Role == RoleInstructor || u.Role == RoleAdmin)
}

type InstructorProfile struct {
	UserID        uuid.UUID         `gorm:"type:uuid;primaryKey" json:"user_id"`
	Headline      string            `gorm:"column:headline" json:"headline,omitempty"`
	Biography     string            `gorm:"column:biography;type:text" json:"biography,omitempty"`
	SocialLinks   datatypes.JSONMap `gorm:"column:social_links" json:"social_links,omitempty"`
	TotalStudents int               `gorm:"column:total_students;not null;default:0" json:"total_students"`
	TotalReviews  int               `gorm:"column:total_reviews;not null;default:0" json:"total_reviews"`
	VerifiedAt    *time.Time        `gorm:"column:verified_at" json:"verified_at,omitempty"`
}

func (InstructorProfile) TableName() string { return "instructor_profile" }

// Token is the login response body.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type Registration struct {
	FullName string `json:"full_name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// InstructorPublicProfile is what students see about a course author.
type InstructorPublicProfile struct {
	UserID        uuid.UUID         `json:"user_id"`
	FullName      string            `json:"full_name"`
	Headline      string            `json:"headline,omitempty"`
	Biography     string            `json:"biography,omitempty"`
	SocialLinks   map[string]string `json:"social_links"`
	TotalStudents int               `json:"total_students"`
	TotalReviews  int               `json:"total_reviews"`
}

func (p *InstructorProfile) UnmarshalJSON(b []byte) error {
	type plain InstructorProfile
	aux := struct {
		*plain
		VerifiedAt *domain.Timestamp `json:"verified_at"`
	}{plain: (*plain)(p)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	p.VerifiedAt = aux.VerifiedAt.Ptr()
	return nil
}
