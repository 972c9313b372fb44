package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yungbote/apprende-client/internal/data/repos"
	"github.com/yungbote/apprende-client/internal/domain/account"
	"github.com/yungbote/apprende-client/internal/forms"
	"github.com/yungbote/apprende-client/internal/pkg/dbctx"
	"github.com/yungbote/apprende-client/internal/platform/apierr"
	"github.com/yungbote/apprende-client/internal/platform/ctxutil"
	"github.com/yungbote/apprende-client/internal/platform/logger"
)

type AuthService interface {
	Register(dbc dbctx.Context, reg account.Registration) (*account.User, error)
	Login(dbc dbctx.Context, email, password string) (*account.Token, error)
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	GetAccessTTL() time.Duration
}

type JWTClaims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

type authService struct {
	db           *gorm.DB
	log          *logger.Logger
	userRepo     repos.UserRepo
	jwtSecretKey string
	accessTTL    time.Duration
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	jwtSecretKey string,
	accessTTL time.Duration,
) AuthService {
	serviceLog := log.With("service", "AuthService")
	if accessTTL <= 0 {
		accessTTL = time.Hour
	}
	return &authService{
		db:           db,
		log:          serviceLog,
		userRepo:     userRepo,
		jwtSecretKey: jwtSecretKey,
		accessTTL:    accessTTL,
	}
}

func (as *authService) Register(dbc dbctx.Context, reg account.Registration) (*account.User, error) {
	reg.Email = strings.ToLower(strings.TrimSpace(reg.Email))
	reg.FullName = strings.TrimSpace(reg.FullName)
	if err := forms.Check(reg); err != nil {
		return nil, err
	}
	transaction := transactionFor(dbc, as.db)

	exists, err := as.userRepo.EmailExists(dbc.Ctx, transaction, reg.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, apierr.New(http.StatusBadRequest, "email_taken", errors.New("Este correo electrónico ya está registrado."))
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &account.User{
		Email:    reg.Email,
		Password: string(hash),
		FullName: reg.FullName,
		Role:     account.RoleStudent,
	}
	if _, err := as.userRepo.Create(dbc.Ctx, transaction, []*account.User{user}); err != nil {
		as.log.Error("Register failed", "error", err)
		return nil, fmt.Errorf("create user: %w", err)
	}
	as.log.Info("user registered", "user_id", user.ID)
	return user, nil
}

func (as *authService) Login(dbc dbctx.Context, email, password string) (*account.Token, error) {
	invalid := apierr.New(http.StatusUnauthorized, "invalid_credentials", errors.New("Email o contraseña incorrectos"))
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, invalid
	}
	users, err := as.userRepo.GetByEmails(dbc.Ctx, transactionFor(dbc, as.db), []string{email})
	if err != nil {
		return nil, fmt.Errorf("load user by email: %w", err)
	}
	if len(users) == 0 || users[0] == nil {
		return nil, invalid
	}
	user := users[0]
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, invalid
	}
	tok, err := as.generateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	return &account.Token{AccessToken: tok, TokenType: "bearer"}, nil
}

func (as *authService) generateAccessToken(user *account.User) (string, error) {
	now := time.Now()
	claims := JWTClaims{
		Role: string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(as.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}

// SetContextFromToken verifies the token and attaches the caller. The role comes from the
// user row so a promotion takes effect without a new login.
func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	unauthorized := func(err error) error {
		return apierr.New(http.StatusUnauthorized, "unauthorized", fmt.Errorf("No se pudieron validar las credenciales: %w", err))
	}
	if tokenString == "" {
		return ctx, unauthorized(errors.New("missing token"))
	}
	claims := &JWTClaims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(as.jwtSecretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return ctx, unauthorized(fmt.Errorf("parse token: %w", err))
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, unauthorized(fmt.Errorf("invalid subject: %w", err))
	}
	users, err := as.userRepo.GetByIDs(ctx, as.db, []uuid.UUID{userID})
	if err != nil {
		return ctx, fmt.Errorf("load token user: %w", err)
	}
	if len(users) == 0 || users[0] == nil {
		return ctx, unauthorized(errors.New("unknown user"))
	}
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{
		UserID:      userID,
		Role:        string(users[0].Role),
		TokenString: tokenString,
	}), nil
}

func (as *authService) GetAccessTTL() time.Duration {
	return as.accessTTL
}
