package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/apprende-client/internal/forms"
	"github.com/yungbote/apprende-client/internal/platform/apierr"
)

// ErrorBody mirrors the wire format clients already parse: detail is a message, or a list of
// field errors for 422 responses.
type ErrorBody struct {
	Detail any    `json:"detail"`
	Code   string `json:"code,omitempty"`
}

type FieldDetail struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.AbortWithStatusJSON(status, ErrorBody{Detail: msg, Code: code})
}

// RespondAPIError maps a service error onto its status. Internal errors are logged by the
// request logger and never echoed.
func RespondAPIError(c *gin.Context, err error) {
	var verr *forms.ValidationError
	if errors.As(err, &verr) {
		RespondValidation(c, "body", verr)
		return
	}
	ae := apierr.From(err)
	if ae.Status >= http.StatusInternalServerError {
		_ = c.Error(err)
		RespondError(c, ae.Status, ae.Code, errors.New("Error interno del servidor"))
		return
	}
	RespondError(c, ae.Status, ae.Code, ae)
}

func RespondValidation(c *gin.Context, location string, verr *forms.ValidationError) {
	details := make([]FieldDetail, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		details = append(details, FieldDetail{
			Loc:  []string{location, f.Field},
			Msg:  f.Message,
			Type: "value_error",
		})
	}
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, ErrorBody{Detail: details, Code: "validation_error"})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
