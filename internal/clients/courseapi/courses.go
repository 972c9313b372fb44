package courseapi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/yungbote/apprende-client/internal/domain/catalog"
)

func (c *Client) ListCourses(ctx context.Context, skip, limit int) ([]catalog.Course, error) {
	if limit <= 0 {
		limit = 10
	}
	var out []catalog.Course
	err := c.do(ctx, call{
		method: http.MethodGet,
		route:  "/courses/",
		query:  map[string]string{"skip": strconv.Itoa(max(skip, 0)), "limit": strconv.Itoa(limit)},
	}, &out)
	return out, err
}

// GetCourse returns the course with its nested sections and lessons.
func (c *Client) GetCourse(ctx context.Context, courseID uuid.UUID) (*catalog.Course, error) {
	var out catalog.Course
	err := c.do(ctx, call{
		method: http.MethodGet,
		route:  "/courses/{courseId}",
		path:   map[string]string{"courseId": courseID.String()},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) MyCourses(ctx context.Context) ([]catalog.Course, error) {
	var out []catalog.Course
	err := c.do(ctx, call{method: http.MethodGet, route: "/courses/my-courses"}, &out)
	return out, err
}

func (c *Client) CreateCourse(ctx context.Context, draft CourseDraft) (*catalog.Course, error) {
	var out catalog.Course
	if err := c.do(ctx, call{method: http.MethodPost, route: "/courses/", body: draft}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateSection(ctx context.Context, courseID uuid.UUID, draft SectionDraft) (*catalog.Section, error) {
	var out catalog.Section
	err := c.do(ctx, call{
		method: http.MethodPost,
		route:  "/courses/{courseId}/sections",
		path:   map[string]string{"courseId": courseID.String()},
		body:   draft,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateLesson appends a lesson; the server assigns order_index = last + 1.
func (c *Client) CreateLesson(ctx context.Context, sectionID uuid.UUID, draft LessonDraft) (*catalog.Lesson, error) {
	if draft.LessonType == "" {
		draft.LessonType = catalog.LessonTypeVideo
	}
	var out catalog.Lesson
	err := c.do(ctx, call{
		method: http.MethodPost,
		route:  "/courses/{sectionId}/lessons",
		path:   map[string]string{"sectionId": sectionID.String()},
		body:   draft,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Reorder submits the complete ordinal assignment of a course in one request.
func (c *Client) Reorder(ctx context.Context, courseID uuid.UUID, req catalog.ReorderRequest) error {
	if req.Sections == nil {
		req.Sections = []catalog.SectionOrder{}
	}
	return c.do(ctx, call{
		method: http.MethodPut,
		route:  "/courses/{courseId}/reorder",
		path:   map[string]string{"courseId": courseID.String()},
		body:   req,
	}, nil)
}

func (c *Client) PlayLesson(ctx context.Context, courseID, lessonID uuid.UUID) (*catalog.PlayableResource, error) {
	var out catalog.PlayableResource
	err := c.do(ctx, call{
		method: http.MethodGet,
		route:  "/courses/{courseId}/lessons/{lessonId}/play",
		path:   map[string]string{"courseId": courseID.String(), "lessonId": lessonID.String()},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
