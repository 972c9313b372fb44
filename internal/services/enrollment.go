package services

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/apprende-client/internal/data/repos"
	"github.com/yungbote/apprende-client/internal/domain/study"
	"github.com/yungbote/apprende-client/internal/pkg/dbctx"
	"github.com/yungbote/apprende-client/internal/platform/apierr"
	"github.com/yungbote/apprende-client/internal/platform/logger"
)

type EnrollmentService interface {
	Enroll(dbc dbctx.Context, courseID uuid.UUID) (*study.Enrollment, error)
	MyEnrollments(dbc dbctx.Context) ([]*study.Enrollment, error)
}

type enrollmentService struct {
	db             *gorm.DB
	log            *logger.Logger
	courseRepo     repos.CourseRepo
	enrollmentRepo repos.EnrollmentRepo
}

func NewEnrollmentService(db *gorm.DB, log *logger.Logger, courseRepo repos.CourseRepo, enrollmentRepo repos.EnrollmentRepo) EnrollmentService {
	serviceLog := log.With("service", "EnrollmentService")
	return &enrollmentService{db: db, log: serviceLog, courseRepo: courseRepo, enrollmentRepo: enrollmentRepo}
}

// Enroll records a purchase at the course's current price. A second purchase of the same
// course is a 400 with code already_enrolled.
func (es *enrollmentService) Enroll(dbc dbctx.Context, courseID uuid.UUID) (*study.Enrollment, error) {
	rd, err := currentUser(dbc.Ctx)
	if err != nil {
		return nil, err
	}
	var out *study.Enrollment
	err = inTx(dbc, es.db, func(tx *gorm.DB) error {
		courses, err := es.courseRepo.GetByIDs(dbc.Ctx, tx, []uuid.UUID{courseID})
		if err != nil {
			return fmt.Errorf("load course: %w", err)
		}
		if len(courses) == 0 || courses[0] == nil {
			return apierr.New(http.StatusNotFound, "course_not_found", errors.New("El curso no existe"))
		}
		exists, err := es.enrollmentRepo.Exists(dbc.Ctx, tx, rd.UserID, courseID)
		if err != nil {
			return fmt.Errorf("check enrollment: %w", err)
		}
		if exists {
			return errAlreadyEnrolled()
		}
		created, err := es.enrollmentRepo.Create(dbc.Ctx, tx, []*study.Enrollment{{
			UserID:     rd.UserID,
			CourseID:   courseID,
			AmountPaid: courses[0].Price,
		}})
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// a concurrent purchase won the unique index after our Exists check
			return errAlreadyEnrolled()
		}
		if err != nil {
			return fmt.Errorf("create enrollment: %w", err)
		}
		out = created[0]
		return nil
	})
	if err != nil {
		return nil, err
	}
	es.log.Info("enrolled", "user_id", rd.UserID, "course_id", courseID, "amount_paid", out.AmountPaid)
	return out, nil
}

func errAlreadyEnrolled() error {
	return apierr.New(http.StatusBadRequest, "already_enrolled", errors.New("Ya estás inscrito en este curso"))
}

func (es *enrollmentService) MyEnrollments(dbc dbctx.Context) ([]*study.Enrollment, error) {
	rd, err := currentUser(dbc.Ctx)
	if err != nil {
		return nil, err
	}
	rows, err := es.enrollmentRepo.ListByUser(dbc.Ctx, transactionFor(dbc, es.db), rd.UserID)
	if err != nil {
		es.log.Error("MyEnrollments failed", "error", err, "user_id", rd.UserID)
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	return rows, nil
}
