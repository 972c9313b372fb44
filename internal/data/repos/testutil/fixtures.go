package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/apprende-client/internal/domain/account"
	"github.com/yungbote/apprende-client/internal/domain/catalog"
	"github.com/yungbote/apprende-client/internal/domain/study"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string, role account.Role) *account.User {
	tb.Helper()
	u := &account.User{
		ID:       uuid.New(),
		Email:    email,
		Password: "pw",
		FullName: "Test " + string(role),
		Role:     role,
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

// SeedCourse creates a course owned by ownerID with len(lessonsPerSection) sections.
func SeedCourse(tb testing.TB, ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, lessonsPerSection ...int) *catalog.Course {
	tb.Helper()
	c := &catalog.Course{
		ID:     uuid.New(),
		UserID: ownerID,
		Title:  "Curso de prueba",
		Slug:   "curso-de-prueba-" + uuid.NewString()[:8],
		Price:  25,
		Status: catalog.CourseStatusPublished,
	}
	for si, n := range lessonsPerSection {
		s := catalog.Section{ID: uuid.New(), CourseID: c.ID, Title: fmt.Sprintf("Sección %d", si+1), OrderIndex: si}
		for li := 0; li < n; li++ {
			s.Lessons = append(s.Lessons, catalog.Lesson{
				ID:              uuid.New(),
				SectionID:       s.ID,
				Title:           fmt.Sprintf("Lección %d.%d", si+1, li+1),
				VideoResourceID: fmt.Sprintf("https://cdn.example.com/%d-%d.mp4", si, li),
				LessonType:      catalog.LessonTypeVideo,
				OrderIndex:      li,
			})
		}
		c.Sections = append(c.Sections, s)
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed course: %v", err)
	}
	return c
}

func SeedEnrollment(tb testing.TB, ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID) *study.Enrollment {
	tb.Helper()
	e := &study.Enrollment{ID: uuid.New(), UserID: userID, CourseID: courseID}
	if err := tx.WithContext(ctx).Omit("Course").Create(e).Error; err != nil {
		tb.Fatalf("seed enrollment: %v", err)
	}
	return e
}
