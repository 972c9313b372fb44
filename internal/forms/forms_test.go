package forms

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/apprende-client/internal/clients/courseapi"
	"github.com/yungbote/apprende-client/internal/domain/account"
	apperr "github.com/yungbote/apprende-client/internal/pkg/errors"
)

func TestCheckValidForms(t *testing.T) {
	forms := []any{
		account.Registration{FullName: "Ana Díaz", Email: "ana@example.com", Password: "secret1"},
		courseapi.CourseDraft{Title: "Go desde cero", Price: 19.99, Level: "Principiante"},
		courseapi.SectionDraft{Title: "Intro", OrderIndex: 0},
		courseapi.LessonDraft{Title: "Hola", VideoResourceID: "https://cdn.example.com/v.mp4", LessonType: "video"},
		courseapi.ReviewDraft{CourseID: uuid.New(), Rating: 5},
		courseapi.InstructorProfileUpdate{SocialLinks: map[string]string{"github": "https://github.com/ana"}},
	}
	for _, f := range forms {
		if err := Check(f); err != nil {
			t.Fatalf("Check(%T) = %v", f, err)
		}
	}
}

func TestCheckReportsFields(t *testing.T) {
	cases := []struct {
		name   string
		form   any
		fields []string
	}{
		{
			name:   "registration",
			form:   account.Registration{FullName: "A", Email: "not-an-email", Password: "123"},
			fields: []string{"email", "full_name", "password"},
		},
		{
			name:   "blank course title",
			form:   courseapi.CourseDraft{Title: "    ", Price: -1},
			fields: []string{"price", "title"},
		},
		{
			name:   "unknown level",
			form:   courseapi.CourseDraft{Title: "Go", Level: "Experto"},
			fields: []string{"level", "title"},
		},
		{
			name:   "lesson type",
			form:   courseapi.LessonDraft{Title: "x", VideoResourceID: "v", LessonType: "slides"},
			fields: []string{"lesson_type"},
		},
		{
			name:   "rating bounds",
			form:   courseapi.ReviewDraft{CourseID: uuid.New(), Rating: 6},
			fields: []string{"rating"},
		},
		{
			name:   "social link must be url",
			form:   courseapi.InstructorProfileUpdate{SocialLinks: map[string]string{"web": "nope"}},
			fields: []string{"social_links[web]"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Check(tc.form)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("err = %v, want *ValidationError", err)
			}
			if len(verr.Fields) != len(tc.fields) {
				t.Fatalf("fields = %+v, want %v", verr.Fields, tc.fields)
			}
			for i, f := range tc.fields {
				if verr.Fields[i].Field != f {
					t.Fatalf("field[%d] = %q, want %q", i, verr.Fields[i].Field, f)
				}
				if verr.Fields[i].Message == "" {
					t.Fatalf("field %q has no message", f)
				}
			}
			if !errors.Is(err, apperr.ErrInvalidArgument) {
				t.Fatalf("validation error should match ErrInvalidArgument")
			}
		})
	}
}

func TestNotBlankMessage(t *testing.T) {
	err := Check(courseapi.SectionDraft{Title: "  "})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v", err)
	}
	if got := verr.Field("title"); got != "title cannot be blank" {
		t.Fatalf("message = %q", got)
	}
}
