package courseapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/yungbote/apprende-client/internal/domain/study"
)

// Enroll buys a course. A duplicate enrollment is not an error: the result reports AlreadyEnrolled.
func (c *Client) Enroll(ctx context.Context, courseID uuid.UUID) (study.EnrollResult, error) {
	var out study.Enrollment
	err := c.do(ctx, call{method: http.MethodPost, route: "/enrollments/", body: enrollRequest{CourseID: courseID}}, &out)
	if err != nil {
		var herr *HTTPError
		if errors.As(err, &herr) && herr.alreadyEnrolled() {
			c.log.Info("course already enrolled", "course_id", courseID)
			return study.EnrollResult{AlreadyEnrolled: true}, nil
		}
		return study.EnrollResult{}, err
	}
	return study.EnrollResult{Enrollment: &out}, nil
}

func (c *Client) MyEnrollments(ctx context.Context) ([]study.Enrollment, error) {
	var out []study.Enrollment
	err := c.do(ctx, call{method: http.MethodGet, route: "/enrollments/me"}, &out)
	return out, err
}

// Progress returns the ids of the lessons the current user completed in a course.
func (c *Client) Progress(ctx context.Context, courseID uuid.UUID) ([]uuid.UUID, error) {
	var out []uuid.UUID
	err := c.do(ctx, call{
		method: http.MethodGet,
		route:  "/progress/{courseId}",
		path:   map[string]string{"courseId": courseID.String()},
	}, &out)
	return out, err
}

func (c *Client) ToggleProgress(ctx context.Context, courseID, lessonID uuid.UUID) (*study.ToggleResult, error) {
	var out study.ToggleResult
	err := c.do(ctx, call{
		method: http.MethodPost,
		route:  "/progress/toggle",
		body:   study.ToggleRequest{LessonID: lessonID, CourseID: courseID},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateReview(ctx context.Context, draft ReviewDraft) (*study.Review, error) {
	var out study.Review
	if err := c.do(ctx, call{method: http.MethodPost, route: "/reviews/", body: draft}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CourseReviews(ctx context.Context, courseID uuid.UUID, skip, limit int) ([]study.Review, error) {
	if limit <= 0 {
		limit = 20
	}
	var out []study.Review
	err := c.do(ctx, call{
		method: http.MethodGet,
		route:  "/reviews/course/{courseId}",
		path:   map[string]string{"courseId": courseID.String()},
		query:  map[string]string{"skip": strconv.Itoa(max(skip, 0)), "limit": strconv.Itoa(limit)},
	}, &out)
	return out, err
}

func (c *Client) ReplyToReview(ctx context.Context, reviewID uuid.UUID, reply string) (*study.Review, error) {
	var out study.Review
	err := c.do(ctx, call{
		method: http.MethodPut,
		route:  "/reviews/{reviewId}/reply",
		path:   map[string]string{"reviewId": reviewID.String()},
		body:   replyRequest{InstructorReply: reply},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
