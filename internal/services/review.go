package services

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/apprende-client/internal/clients/courseapi"
	"github.com/yungbote/apprende-client/internal/data/repos"
	"github.com/yungbote/apprende-client/internal/domain/study"
	"github.com/yungbote/apprende-client/internal/forms"
	"github.com/yungbote/apprende-client/internal/pkg/dbctx"
	"github.com/yungbote/apprende-client/internal/pkg/pointers"
	"github.com/yungbote/apprende-client/internal/platform/apierr"
	"github.com/yungbote/apprende-client/internal/platform/logger"
)

type ReviewService interface {
	Create(dbc dbctx.Context, draft courseapi.ReviewDraft) (*study.Review, error)
	ListByCourse(dbc dbctx.Context, courseID uuid.UUID, skip, limit int) ([]*study.Review, error)
	Reply(dbc dbctx.Context, reviewID uuid.UUID, reply string) (*study.Review, error)
}

type reviewService struct {
	db             *gorm.DB
	log            *logger.Logger
	userRepo       repos.UserRepo
	courseRepo     repos.CourseRepo
	enrollmentRepo repos.EnrollmentRepo
	reviewRepo     repos.ReviewRepo
}

func NewReviewService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	courseRepo repos.CourseRepo,
	enrollmentRepo repos.EnrollmentRepo,
	reviewRepo repos.ReviewRepo,
) ReviewService {
	serviceLog := log.With("service", "ReviewService")
	return &reviewService{
		db:             db,
		log:            serviceLog,
		userRepo:       userRepo,
		courseRepo:     courseRepo,
		enrollmentRepo: enrollmentRepo,
		reviewRepo:     reviewRepo,
	}
}

// Create stores one review per student and course; only enrolled students may review.
func (rs *reviewService) Create(dbc dbctx.Context, draft courseapi.ReviewDraft) (*study.Review, error) {
	rd, err := currentUser(dbc.Ctx)
	if err != nil {
		return nil, err
	}
	if err := forms.Check(draft); err != nil {
		return nil, err
	}
	var out *study.Review
	err = inTx(dbc, rs.db, func(tx *gorm.DB) error {
		courses, err := rs.courseRepo.GetByIDs(dbc.Ctx, tx, []uuid.UUID{draft.CourseID})
		if err != nil {
			return fmt.Errorf("load course: %w", err)
		}
		if len(courses) == 0 {
			return errCourseNotFound
		}
		enrolled, err := rs.enrollmentRepo.Exists(dbc.Ctx, tx, rd.UserID, draft.CourseID)
		if err != nil {
			return fmt.Errorf("check enrollment: %w", err)
		}
		if !enrolled {
			return apierr.New(http.StatusForbidden, "not_enrolled", errors.New("Debes comprar el curso antes de dejar una reseña"))
		}
		reviewed, err := rs.reviewRepo.Exists(dbc.Ctx, tx, rd.UserID, draft.CourseID)
		if err != nil {
			return fmt.Errorf("check review: %w", err)
		}
		if reviewed {
			return errAlreadyReviewed()
		}
		created, err := rs.reviewRepo.Create(dbc.Ctx, tx, []*study.Review{{
			CourseID: draft.CourseID,
			UserID:   rd.UserID,
			Rating:   draft.Rating,
			Comment:  strings.TrimSpace(draft.Comment),
		}})
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errAlreadyReviewed()
		}
		if err != nil {
			return fmt.Errorf("create review: %w", err)
		}
		out = created[0]
		users, err := rs.userRepo.GetByIDs(dbc.Ctx, tx, []uuid.UUID{rd.UserID})
		if err != nil {
			return fmt.Errorf("load author: %w", err)
		}
		out.UserName = "Usuario"
		if len(users) > 0 && strings.TrimSpace(users[0].FullName) != "" {
			out.UserName = users[0].FullName
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (rs *reviewService) ListByCourse(dbc dbctx.Context, courseID uuid.UUID, skip, limit int) ([]*study.Review, error) {
	skip, limit = pageBounds(skip, limit, 20, 100)
	rows, err := rs.reviewRepo.ListByCourse(dbc.Ctx, transactionFor(dbc, rs.db), courseID, skip, limit)
	if err != nil {
		rs.log.Error("ListByCourse failed", "error", err, "course_id", courseID)
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return rows, nil
}

// Reply sets the course author's answer, replacing any previous one.
func (rs *reviewService) Reply(dbc dbctx.Context, reviewID uuid.UUID, reply string) (*study.Review, error) {
	rd, err := currentUser(dbc.Ctx)
	if err != nil {
		return nil, err
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return nil, apierr.New(http.StatusBadRequest, "invalid_request", errors.New("La respuesta no puede estar vacía"))
	}
	var out *study.Review
	err = inTx(dbc, rs.db, func(tx *gorm.DB) error {
		reviews, err := rs.reviewRepo.GetByIDs(dbc.Ctx, tx, []uuid.UUID{reviewID})
		if err != nil {
			return fmt.Errorf("load review: %w", err)
		}
		if len(reviews) == 0 {
			return apierr.New(http.StatusNotFound, "review_not_found", errors.New("Reseña no encontrada"))
		}
		review := reviews[0]
		courses, err := rs.courseRepo.GetByIDs(dbc.Ctx, tx, []uuid.UUID{review.CourseID})
		if err != nil {
			return fmt.Errorf("load course: %w", err)
		}
		if len(courses) == 0 || courses[0].UserID != rd.UserID {
			return apierr.New(http.StatusForbidden, "not_course_owner", errors.New("Solo el instructor del curso puede responder"))
		}
		if err := rs.reviewRepo.SetReply(dbc.Ctx, tx, reviewID, reply); err != nil {
			return fmt.Errorf("set reply: %w", err)
		}
		review.InstructorReply = pointers.String(reply)
		out = review
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func errAlreadyReviewed() error {
	return apierr.New(http.StatusBadRequest, "already_reviewed", errors.New("Ya dejaste una reseña para este curso"))
}
