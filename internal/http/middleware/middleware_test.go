package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/apprende-client/internal/domain/account"
	"github.com/yungbote/apprende-client/internal/observability"
	"github.com/yungbote/apprende-client/internal/pkg/dbctx"
	"github.com/yungbote/apprende-client/internal/platform/apierr"
	"github.com/yungbote/apprende-client/internal/platform/ctxutil"
	"github.com/yungbote/apprende-client/internal/platform/logger"
)

type stubAuth struct {
	userID uuid.UUID
}

func (s stubAuth) Register(dbctx.Context, account.Registration) (*account.User, error) {
	return nil, errors.New("unused")
}

func (s stubAuth) Login(dbctx.Context, string, string) (*account.Token, error) {
	return nil, errors.New("unused")
}

func (s stubAuth) SetContextFromToken(ctx context.Context, tok string) (context.Context, error) {
	if tok != "good" {
		return ctx, apierr.New(http.StatusUnauthorized, "unauthorized", errors.New("bad token"))
	}
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{UserID: s.userID, TokenString: tok}), nil
}

func (s stubAuth) GetAccessTTL() time.Duration { return time.Hour }

func TestRequireAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	uid := uuid.New()
	am := NewAuthMiddleware(logger.Nop(), stubAuth{userID: uid})

	r := gin.New()
	r.GET("/me", am.RequireAuth(), func(c *gin.Context) {
		c.String(http.StatusOK, ctxutil.GetRequestData(c.Request.Context()).UserID.String())
	})

	cases := []struct {
		name   string
		target string
		header string
		status int
	}{
		{"missing", "/me", "", http.StatusUnauthorized},
		{"bearer", "/me", "Bearer good", http.StatusOK},
		{"lowercase scheme", "/me", "bearer good", http.StatusOK},
		{"query token", "/me?token=good", "", http.StatusOK},
		{"bad token", "/me", "Bearer nope", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.target, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d (body=%s)", rec.Code, tc.status, rec.Body.String())
			}
			if tc.status == http.StatusOK && rec.Body.String() != uid.String() {
				t.Fatalf("body = %q", rec.Body.String())
			}
			if tc.status == http.StatusUnauthorized && !strings.Contains(rec.Body.String(), `"detail"`) {
				t.Fatalf("error body = %s", rec.Body.String())
			}
		})
	}
}

func TestTraceContextAndMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := observability.NewMetrics()

	r := gin.New()
	r.Use(AttachTraceContext(), Metrics(m), RequestLogger(logger.Nop()))
	r.GET("/courses/:id", func(c *gin.Context) {
		td := ctxutil.GetTraceData(c.Request.Context())
		c.String(http.StatusOK, td.RequestID)
	})

	req := httptest.NewRequest(http.MethodGet, "/courses/abc", nil)
	req.Header.Set("X-Request-Id", "req-1")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Body.String() != "req-1" || rec.Header().Get("X-Request-Id") != "req-1" {
		t.Fatalf("request id not propagated: body=%q header=%q", rec.Body.String(), rec.Header().Get("X-Request-Id"))
	}
	if rec.Header().Get("X-Trace-Id") == "" {
		t.Fatalf("missing trace id header")
	}

	var sb strings.Builder
	if err := m.WritePrometheus(&sb); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	if !strings.Contains(sb.String(), `route="/courses/:id"`) {
		t.Fatalf("route label missing:\n%s", sb.String())
	}
}
