package services

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/apprende-client/internal/domain/account"
	"github.com/yungbote/apprende-client/internal/pkg/dbctx"
	"github.com/yungbote/apprende-client/internal/platform/apierr"
	"github.com/yungbote/apprende-client/internal/platform/ctxutil"
)

var errNotAuthenticated = apierr.New(http.StatusUnauthorized, "unauthorized", errors.New("No autenticado"))

// currentUser returns the caller attached by the auth middleware.
func currentUser(ctx context.Context) (*ctxutil.RequestData, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, errNotAuthenticated
	}
	return rd, nil
}

func isAdmin(rd *ctxutil.RequestData) bool {
	return rd != nil && account.Role(rd.Role) == account.RoleAdmin
}

func transactionFor(dbc dbctx.Context, db *gorm.DB) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return db
}

// inTx runs fn inside dbc.Tx when one is open, otherwise in a new transaction.
func inTx(dbc dbctx.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if dbc.Tx != nil {
		return fn(dbc.Tx)
	}
	return db.WithContext(dbc.Ctx).Transaction(fn)
}

func pageBounds(skip, limit, def, max int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = def
	}
	if limit > max {
		limit = max
	}
	return skip, limit
}
