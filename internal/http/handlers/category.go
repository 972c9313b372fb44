package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/apprende-client/internal/domain/catalog"
	"github.com/yungbote/apprende-client/internal/http/response"
	"github.com/yungbote/apprende-client/internal/services"
)

type CategoryHandler struct {
	categoryService services.CategoryService
}

func NewCategoryHandler(categoryService services.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

func (h *CategoryHandler) List(c *gin.Context) {
	skip, ok := queryInt(c, "skip", 0)
	if !ok {
		return
	}
	limit, ok := queryInt(c, "limit", 50)
	if !ok {
		return
	}
	var parentID *int
	if _, present := c.GetQuery("parent_id"); present {
		id, ok := queryInt(c, "parent_id", 0)
		if !ok {
			return
		}
		parentID = &id
	}
	rows, err := h.categoryService.List(requestDB(c), parentID, skip, limit)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, rows)
}

func (h *CategoryHandler) All(c *gin.Context) {
	rows, err := h.categoryService.All(requestDB(c))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, rows)
}

func (h *CategoryHandler) Get(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	cat, err := h.categoryService.Get(requestDB(c), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, cat)
}

func (h *CategoryHandler) Create(c *gin.Context) {
	var req catalog.CategoryDraft
	if !bindJSON(c, &req) {
		return
	}
	cat, err := h.categoryService.Create(requestDB(c), req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, cat)
}
