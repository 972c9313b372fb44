package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/apprende-client/internal/forms"
	errs "github.com/yungbote/apprende-client/internal/pkg/errors"
	"github.com/yungbote/apprende-client/internal/platform/apierr"
)

func respond(t *testing.T, err error) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	RespondAPIError(c, err)
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return rec, body
}

func TestRespondAPIError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		detail string
	}{
		{"api error", apierr.New(http.StatusBadRequest, "already_enrolled", errors.New("Ya estás inscrito en este curso")), 400, "Ya estás inscrito en este curso"},
		{"sentinel", fmt.Errorf("course: %w", errs.ErrNotFound), 404, "course: not found"},
		{"internal", errors.New("database is locked"), 500, "Error interno del servidor"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, body := respond(t, tc.err)
			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d", rec.Code, tc.status)
			}
			if body["detail"] != tc.detail {
				t.Fatalf("detail = %v, want %q", body["detail"], tc.detail)
			}
		})
	}
}

func TestRespondValidationListsFields(t *testing.T) {
	type signup struct {
		Email string `json:"email" validate:"required,email"`
	}
	err := forms.Check(signup{Email: "nope"})
	rec, body := respond(t, err)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", rec.Code)
	}
	items, ok := body["detail"].([]any)
	if !ok || len(items) != 1 {
		t.Fatalf("detail = %v", body["detail"])
	}
	loc := items[0].(map[string]any)["loc"].([]any)
	if loc[0] != "body" || loc[1] != "email" {
		t.Fatalf("loc = %v", loc)
	}
}
