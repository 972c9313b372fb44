package services

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/apprende-client/internal/clients/courseapi"
	"github.com/yungbote/apprende-client/internal/data/repos"
	"github.com/yungbote/apprende-client/internal/domain/account"
	"github.com/yungbote/apprende-client/internal/forms"
	"github.com/yungbote/apprende-client/internal/pkg/dbctx"
	"github.com/yungbote/apprende-client/internal/platform/apierr"
	"github.com/yungbote/apprende-client/internal/platform/logger"
)

type InstructorService interface {
	GetMyProfile(dbc dbctx.Context) (*account.InstructorProfile, error)
	UpdateMyProfile(dbc dbctx.Context, upd courseapi.InstructorProfileUpdate) (*account.InstructorProfile, error)
	GetPublicProfile(dbc dbctx.Context, userID uuid.UUID) (*account.InstructorPublicProfile, error)
	BecomeInstructor(dbc dbctx.Context) (*account.User, error)
}

type instructorService struct {
	db          *gorm.DB
	log         *logger.Logger
	userRepo    repos.UserRepo
	profileRepo repos.InstructorProfileRepo
}

func NewInstructorService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, profileRepo repos.InstructorProfileRepo) InstructorService {
	serviceLog := log.With("service", "InstructorService")
	return &instructorService{db: db, log: serviceLog, userRepo: userRepo, profileRepo: profileRepo}
}

var errInstructorsOnly = apierr.New(http.StatusForbidden, "instructors_only", errors.New("Solo los instructores pueden acceder a este recurso"))

func (is *instructorService) requireInstructor(dbc dbctx.Context, tx *gorm.DB) (*account.User, error) {
	rd, err := currentUser(dbc.Ctx)
	if err != nil {
		return nil, err
	}
	users, err := is.userRepo.GetByIDs(dbc.Ctx, tx, []uuid.UUID{rd.UserID})
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if len(users) == 0 || users[0] == nil {
		return nil, errNotAuthenticated
	}
	if users[0].Role != account.RoleInstructor {
		return nil, errInstructorsOnly
	}
	return users[0], nil
}

func (is *instructorService) GetMyProfile(dbc dbctx.Context) (*account.InstructorProfile, error) {
	transaction := transactionFor(dbc, is.db)
	user, err := is.requireInstructor(dbc, transaction)
	if err != nil {
		return nil, err
	}
	rows, err := is.profileRepo.GetByUserIDs(dbc.Ctx, transaction, []uuid.UUID{user.ID})
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if len(rows) == 0 {
		return nil, apierr.New(http.StatusNotFound, "profile_not_found",
			errors.New("Perfil de instructor no encontrado. Completa tu perfil primero."))
	}
	return rows[0], nil
}

func (is *instructorService) UpdateMyProfile(dbc dbctx.Context, upd courseapi.InstructorProfileUpdate) (*account.InstructorProfile, error) {
	if err := forms.Check(upd); err != nil {
		return nil, err
	}
	var out *account.InstructorProfile
	err := inTx(dbc, is.db, func(tx *gorm.DB) error {
		user, err := is.requireInstructor(dbc, tx)
		if err != nil {
			return err
		}
		links := datatypes.JSONMap{}
		for k, v := range upd.SocialLinks {
			links[k] = v
		}
		profile := &account.InstructorProfile{
			UserID:      user.ID,
			Headline:    upd.Headline,
			Biography:   upd.Biography,
			SocialLinks: links,
		}
		if err := is.profileRepo.Upsert(dbc.Ctx, tx, profile); err != nil {
			return fmt.Errorf("upsert profile: %w", err)
		}
		rows, err := is.profileRepo.GetByUserIDs(dbc.Ctx, tx, []uuid.UUID{user.ID})
		if err != nil {
			return fmt.Errorf("reload profile: %w", err)
		}
		if len(rows) > 0 {
			out = rows[0]
		} else {
			out = profile
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (is *instructorService) GetPublicProfile(dbc dbctx.Context, userID uuid.UUID) (*account.InstructorPublicProfile, error) {
	transaction := transactionFor(dbc, is.db)
	users, err := is.userRepo.GetByIDs(dbc.Ctx, transaction, []uuid.UUID{userID})
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if len(users) == 0 || users[0] == nil || users[0].Role != account.RoleInstructor {
		return nil, apierr.New(http.StatusNotFound, "instructor_not_found", errors.New("Instructor no encontrado"))
	}
	out := &account.InstructorPublicProfile{
		UserID:      userID,
		FullName:    users[0].FullName,
		SocialLinks: map[string]string{},
	}
	rows, err := is.profileRepo.GetByUserIDs(dbc.Ctx, transaction, []uuid.UUID{userID})
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if len(rows) > 0 {
		p := rows[0]
		out.Headline = p.Headline
		out.Biography = p.Biography
		out.TotalStudents = p.TotalStudents
		out.TotalReviews = p.TotalReviews
		for k, v := range p.SocialLinks {
			if s, ok := v.(string); ok {
				out.SocialLinks[k] = s
			}
		}
	}
	return out, nil
}

// BecomeInstructor promotes a student and creates an empty profile.
func (is *instructorService) BecomeInstructor(dbc dbctx.Context) (*account.User, error) {
	rd, err := currentUser(dbc.Ctx)
	if err != nil {
		return nil, err
	}
	var out *account.User
	err = inTx(dbc, is.db, func(tx *gorm.DB) error {
		users, err := is.userRepo.GetByIDs(dbc.Ctx, tx, []uuid.UUID{rd.UserID})
		if err != nil {
			return fmt.Errorf("load user: %w", err)
		}
		if len(users) == 0 || users[0] == nil {
			return errNotAuthenticated
		}
		user := users[0]
		switch user.Role {
		case account.RoleInstructor:
			return apierr.New(http.StatusBadRequest, "already_instructor", errors.New("Ya eres instructor"))
		case account.RoleAdmin:
			return apierr.New(http.StatusBadRequest, "admin_cannot_teach", errors.New("Los administradores no pueden ser instructores"))
		}
		if err := is.userRepo.UpdateRole(dbc.Ctx, tx, user.ID, account.RoleInstructor); err != nil {
			return fmt.Errorf("update role: %w", err)
		}
		if err := is.profileRepo.Upsert(dbc.Ctx, tx, &account.InstructorProfile{UserID: user.ID}); err != nil {
			return fmt.Errorf("create profile: %w", err)
		}
		user.Role = account.RoleInstructor
		out = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	is.log.Info("user became instructor", "user_id", out.ID)
	return out, nil
}
