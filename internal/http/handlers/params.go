package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/apprende-client/internal/forms"
	"github.com/yungbote/apprende-client/internal/http/response"
	"github.com/yungbote/apprende-client/internal/pkg/dbctx"
)

func requestDB(c *gin.Context) dbctx.Context {
	return dbctx.Context{Ctx: c.Request.Context()}
}

func invalidParam(c *gin.Context, location, name, msg string) {
	response.RespondValidation(c, location, &forms.ValidationError{
		Fields: []forms.FieldError{{Field: name, Message: msg}},
	})
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		invalidParam(c, "path", name, "value is not a valid uuid")
		return uuid.Nil, false
	}
	return id, true
}

func intParam(c *gin.Context, name string) (int, bool) {
	n, err := strconv.Atoi(c.Param(name))
	if err != nil {
		invalidParam(c, "path", name, "value is not a valid integer")
		return 0, false
	}
	return n, true
}

// queryInt returns def when the parameter is absent.
func queryInt(c *gin.Context, name string, def int) (int, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		invalidParam(c, "query", name, "value is not a valid integer")
		return 0, false
	}
	return n, true
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		invalidParam(c, "body", "body", err.Error())
		return false
	}
	return true
}
