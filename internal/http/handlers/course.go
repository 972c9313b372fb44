package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/apprende-client/internal/clients/courseapi"
	"github.com/yungbote/apprende-client/internal/domain/catalog"
	"github.com/yungbote/apprende-client/internal/http/response"
	"github.com/yungbote/apprende-client/internal/platform/logger"
	"github.com/yungbote/apprende-client/internal/services"
)

type CourseHandler struct {
	log           *logger.Logger
	courseService services.CourseService
}

func NewCourseHandler(log *logger.Logger, courseService services.CourseService) *CourseHandler {
	return &CourseHandler{
		log:           log.With("handler", "CourseHandler"),
		courseService: courseService,
	}
}

func (h *CourseHandler) List(c *gin.Context) {
	skip, ok := queryInt(c, "skip", 0)
	if !ok {
		return
	}
	limit, ok := queryInt(c, "limit", 10)
	if !ok {
		return
	}
	courses, err := h.courseService.List(requestDB(c), skip, limit)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, courses)
}

func (h *CourseHandler) Detail(c *gin.Context) {
	courseID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	course, err := h.courseService.Detail(requestDB(c), courseID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, course)
}

func (h *CourseHandler) MyCourses(c *gin.Context) {
	courses, err := h.courseService.MyCourses(requestDB(c))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, courses)
}

func (h *CourseHandler) Create(c *gin.Context) {
	var req courseapi.CourseDraft
	if !bindJSON(c, &req) {
		return
	}
	course, err := h.courseService.Create(requestDB(c), req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, course)
}

func (h *CourseHandler) CreateSection(c *gin.Context) {
	courseID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req courseapi.SectionDraft
	if !bindJSON(c, &req) {
		return
	}
	section, err := h.courseService.CreateSection(requestDB(c), courseID, req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, section)
}

// CreateLesson is mounted at /courses/:id/lessons where :id is the section.
func (h *CourseHandler) CreateLesson(c *gin.Context) {
	sectionID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req courseapi.LessonDraft
	if !bindJSON(c, &req) {
		return
	}
	lesson, err := h.courseService.CreateLesson(requestDB(c), sectionID, req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, lesson)
}

func (h *CourseHandler) Reorder(c *gin.Context) {
	courseID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req catalog.ReorderRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.courseService.Reorder(requestDB(c), courseID, req); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "Orden actualizado correctamente"})
}

func (h *CourseHandler) Play(c *gin.Context) {
	courseID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	lessonID, ok := uuidParam(c, "lessonId")
	if !ok {
		return
	}
	res, err := h.courseService.Play(requestDB(c), courseID, lessonID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, res)
}
