package courseapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	errs "github.com/yungbote/apprende-client/internal/pkg/errors"
	"github.com/yungbote/apprende-client/internal/pkg/httpx"
)

type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
	Body       string
}

func (e *HTTPError) Error() string {
	if e == nil {
		return "http error"
	}
	msg := strings.TrimSpace(e.Message)
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if msg == "" {
		msg = "http error"
	}
	if strings.TrimSpace(e.Code) != "" {
		return fmt.Sprintf("http error: status=%d code=%s message=%s", e.StatusCode, e.Code, msg)
	}
	return fmt.Sprintf("http error: status=%d message=%s", e.StatusCode, msg)
}

func (e *HTTPError) HTTPStatusCode() int { return e.StatusCode }

// Is lets callers test against the shared sentinels with errors.Is.
func (e *HTTPError) Is(target error) bool {
	switch target {
	case errs.ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case errs.ErrForbidden:
		return e.StatusCode == http.StatusForbidden
	case errs.ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case errs.ErrInvalidArgument:
		return e.StatusCode == http.StatusBadRequest || e.StatusCode == http.StatusUnprocessableEntity
	case errs.ErrConflict:
		return e.StatusCode == http.StatusConflict || e.alreadyEnrolled()
	}
	return false
}

func (e *HTTPError) alreadyEnrolled() bool {
	if e.StatusCode != http.StatusBadRequest && e.StatusCode != http.StatusConflict {
		return false
	}
	if e.Code == "already_enrolled" {
		return true
	}
	msg := strings.ToLower(e.Message)
	return strings.Contains(msg, "already enrolled") || strings.Contains(msg, "ya estás inscrito")
}

type ErrorKind string

const (
	KindNone       ErrorKind = ""
	KindAuth       ErrorKind = "auth"
	KindForbidden  ErrorKind = "forbidden"
	KindNotFound   ErrorKind = "not_found"
	KindValidation ErrorKind = "validation"
	KindConflict   ErrorKind = "conflict"
	KindTransient  ErrorKind = "transient"
	KindUnknown    ErrorKind = "unknown"
)

// KindOf places an error in the client error taxonomy.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	switch {
	case errors.Is(err, errs.ErrUnauthorized):
		return KindAuth
	case errors.Is(err, errs.ErrConflict):
		return KindConflict
	case errors.Is(err, errs.ErrForbidden):
		return KindForbidden
	case errors.Is(err, errs.ErrNotFound):
		return KindNotFound
	case errors.Is(err, errs.ErrInvalidArgument):
		return KindValidation
	case httpx.IsTransient(err):
		return KindTransient
	}
	return KindUnknown
}

func parseHTTPError(status int, raw []byte) *HTTPError {
	body := strings.TrimSpace(string(raw))
	out := &HTTPError{StatusCode: status, Body: body}

	var env struct {
		Detail json.RawMessage `json:"detail"`
		Code   string          `json:"code"`
		Error  *struct {
			Message string `json:"message"`
			Code    string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return out
	}
	out.Code = strings.TrimSpace(env.Code)
	if env.Error != nil {
		out.Message = strings.TrimSpace(env.Error.Message)
		if out.Code == "" {
			out.Code = strings.TrimSpace(env.Error.Code)
		}
		return out
	}
	out.Message = detailMessage(env.Detail)
	return out
}

// detailMessage flattens {"detail": "..."} and the list form [{"loc": [...], "msg": "..."}].
func detailMessage(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var items []struct {
		Loc []any  `json:"loc"`
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return ""
	}
	parts := make([]string, 0, len(items))
	for _, it := range items {
		field := ""
		if n := len(it.Loc); n > 0 {
			field = fmt.Sprint(it.Loc[n-1])
		}
		if field != "" {
			parts = append(parts, field+": "+it.Msg)
		} else {
			parts = append(parts, it.Msg)
		}
	}
	return strings.Join(parts, "; ")
}
