package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	errs "github.com/yungbote/apprende-client/internal/pkg/errors"
)

func TestFromMapsSentinels(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("course: %w", errs.ErrNotFound), http.StatusNotFound, "not_found"},
		{errs.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{errs.ErrForbidden, http.StatusForbidden, "forbidden"},
		{errs.ErrInvalidArgument, http.StatusBadRequest, "invalid_request"},
		{errors.New("boom"), http.StatusInternalServerError, "internal"},
	}
	for _, tc := range cases {
		got := From(tc.err)
		if got.Status != tc.status || got.Code != tc.code {
			t.Fatalf("From(%v) = %d/%s, want %d/%s", tc.err, got.Status, got.Code, tc.status, tc.code)
		}
	}
}

func TestFromKeepsExplicitError(t *testing.T) {
	in := New(http.StatusBadRequest, "already_enrolled", errors.New("already enrolled in this course"))
	wrapped := fmt.Errorf("enroll: %w", in)
	if got := From(wrapped); got != in {
		t.Fatalf("expected the wrapped *Error to be returned")
	}
	if From(nil) != nil {
		t.Fatalf("From(nil) should be nil")
	}
}
