package services

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/apprende-client/internal/data/repos"
	"github.com/yungbote/apprende-client/internal/domain/account"
	"github.com/yungbote/apprende-client/internal/pkg/dbctx"
	errs "github.com/yungbote/apprende-client/internal/pkg/errors"
	"github.com/yungbote/apprende-client/internal/platform/logger"
)

type UserService interface {
	GetMe(dbc dbctx.Context) (*account.User, error)
}

type userService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo) UserService {
	serviceLog := log.With("service", "UserService")
	return &userService{db: db, log: serviceLog, userRepo: userRepo}
}

func (us *userService) GetMe(dbc dbctx.Context) (*account.User, error) {
	rd, err := currentUser(dbc.Ctx)
	if err != nil {
		return nil, err
	}
	users, err := us.userRepo.GetByIDs(dbc.Ctx, transactionFor(dbc, us.db), []uuid.UUID{rd.UserID})
	if err != nil {
		us.log.Error("GetMe failed", "error", err, "user_id", rd.UserID)
		return nil, fmt.Errorf("get user: %w", err)
	}
	if len(users) == 0 || users[0] == nil {
		return nil, fmt.Errorf("user %s: %w", rd.UserID, errs.ErrNotFound)
	}
	return users[0], nil
}
