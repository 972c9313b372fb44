package client

import (
	"context"

	"github.com/google/uuid"

	"github.com/yungbote/apprende-client/internal/clients/courseapi"
	"github.com/yungbote/apprende-client/internal/domain/study"
	"github.com/yungbote/apprende-client/internal/forms"
)

// Enroll treats a duplicate enrollment as success with AlreadyEnrolled set.
func (a *App) Enroll(ctx context.Context, courseID uuid.UUID) (study.EnrollResult, error) {
	res, err := a.API.Enroll(ctx, courseID)
	if err != nil {
		return res, err
	}
	if res.AlreadyEnrolled {
		a.Log.Info("already enrolled", "course_id", courseID)
	}
	return res, nil
}

func (a *App) MyLearning(ctx context.Context) ([]study.Enrollment, error) {
	return a.API.MyEnrollments(ctx)
}

func (a *App) Review(ctx context.Context, draft courseapi.ReviewDraft) (*study.Review, error) {
	if err := forms.Check(draft); err != nil {
		return nil, err
	}
	return a.API.CreateReview(ctx, draft)
}

func (a *App) ReplyToReview(ctx context.Context, reviewID uuid.UUID, reply string) (*study.Review, error) {
	return a.API.ReplyToReview(ctx, reviewID, reply)
}
