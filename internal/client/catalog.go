package client

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/apprende-client/internal/domain/catalog"
	"github.com/yungbote/apprende-client/internal/domain/study"
)

// Filter narrows the catalog locally. A zero Filter keeps everything.
type Filter struct {
	Query      string
	CategoryID *int
}

func (f Filter) Match(c catalog.Course) bool {
	if f.CategoryID != nil && (c.CategoryID == nil || *c.CategoryID != *f.CategoryID) {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(c.Title), q) ||
		strings.Contains(strings.ToLower(c.Subtitle), q)
}

func FilterCourses(courses []catalog.Course, f Filter) []catalog.Course {
	out := make([]catalog.Course, 0, len(courses))
	for _, c := range courses {
		if f.Match(c) {
			out = append(out, c)
		}
	}
	return out
}

// Catalog pages through the published courses and filters them.
func (a *App) Catalog(ctx context.Context, f Filter) ([]catalog.Course, error) {
	size := a.pageSize()
	var all []catalog.Course
	for skip := 0; ; skip += size {
		page, err := a.API.ListCourses(ctx, skip, size)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < size {
			break
		}
	}
	return FilterCourses(all, f), nil
}

func (a *App) Categories(ctx context.Context) ([]catalog.Category, error) {
	return a.API.AllCategories(ctx)
}

// CoursePage is everything the course detail view shows.
type CoursePage struct {
	Course        *catalog.Course
	Reviews       []study.Review
	AverageRating float64
	Enrolled      bool
}

// CourseDetail loads the course, its reviews and, when signed in, the enrollments concurrently.
func (a *App) CourseDetail(ctx context.Context, courseID uuid.UUID) (*CoursePage, error) {
	var (
		page        CoursePage
		enrollments []study.Enrollment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := a.API.GetCourse(gctx, courseID)
		page.Course = c
		return err
	})
	g.Go(func() error {
		rs, err := a.API.CourseReviews(gctx, courseID, 0, 20)
		page.Reviews = rs
		return err
	})
	if a.Session.Authenticated() {
		g.Go(func() error {
			es, err := a.API.MyEnrollments(gctx)
			enrollments = es
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	page.AverageRating = AverageRating(page.Reviews)
	for _, e := range enrollments {
		if e.CourseID == courseID {
			page.Enrolled = true
			break
		}
	}
	return &page, nil
}

// AverageRating is the mean rating rounded to one decimal, 0 without reviews.
func AverageRating(reviews []study.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	avg := float64(sum) / float64(len(reviews))
	return float64(int(avg*10+0.5)) / 10
}
