package courseapi

import (
	"github.com/google/uuid"

	"github.com/yungbote/apprende-client/internal/domain/catalog"
)

// CourseDraft is the instructor's create-course form.
type CourseDraft struct {
	Title        string  `json:"title" validate:"required,notblank,min=3"`
	Subtitle     string  `json:"subtitle,omitempty"`
	Description  string  `json:"description,omitempty"`
	Price        float64 `json:"price" validate:"gte=0"`
	Level        string  `json:"level,omitempty" validate:"omitempty,oneof=Principiante Intermedio Avanzado"`
	CategoryID   *int    `json:"category_id,omitempty"`
	ThumbnailURL string  `json:"thumbnail_url,omitempty" validate:"omitempty,url"`
}

type SectionDraft struct {
	Title      string `json:"title" validate:"notblank"`
	OrderIndex int    `json:"order_index" validate:"gte=0"`
}

type LessonDraft struct {
	Title           string             `json:"title" validate:"notblank"`
	VideoResourceID string             `json:"video_resource_id" validate:"required"`
	LessonType      catalog.LessonType `json:"lesson_type" validate:"required,oneof=video pdf image quiz"`
	IsFreePreview   bool               `json:"is_free_preview"`
}

type ReviewDraft struct {
	CourseID uuid.UUID `json:"course_id" validate:"required"`
	Rating   int       `json:"rating" validate:"required,min=1,max=5"`
	Comment  string    `json:"comment,omitempty"`
}

type InstructorProfileUpdate struct {
	Headline    string            `json:"headline,omitempty"`
	Biography   string            `json:"biography,omitempty"`
	SocialLinks map[string]string `json:"social_links,omitempty" validate:"omitempty,dive,keys,required,endkeys,url"`
}

type enrollRequest struct {
	CourseID uuid.UUID `json:"course_id"`
}

type replyRequest struct {
	InstructorReply string `json:"instructor_reply"`
}

type uploadResponse struct {
	URL string `json:"url"`
}

type messageResponse struct {
	Message string `json:"message"`
}
