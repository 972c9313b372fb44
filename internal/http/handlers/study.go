package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/apprende-client/internal/clients/courseapi"
	"github.com/yungbote/apprende-client/internal/domain/study"
	"github.com/yungbote/apprende-client/internal/http/response"
	"github.com/yungbote/apprende-client/internal/services"
)

type StudyHandler struct {
	enrollmentService services.EnrollmentService
	progressService   services.ProgressService
	reviewService     services.ReviewService
}

func NewStudyHandler(
	enrollmentService services.EnrollmentService,
	progressService services.ProgressService,
	reviewService services.ReviewService,
) *StudyHandler {
	return &StudyHandler{
		enrollmentService: enrollmentService,
		progressService:   progressService,
		reviewService:     reviewService,
	}
}

func (h *StudyHandler) Enroll(c *gin.Context) {
	var req struct {
		CourseID uuid.UUID `json:"course_id" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}
	enrollment, err := h.enrollmentService.Enroll(requestDB(c), req.CourseID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, enrollment)
}

func (h *StudyHandler) MyEnrollments(c *gin.Context) {
	rows, err := h.enrollmentService.MyEnrollments(requestDB(c))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, rows)
}

func (h *StudyHandler) ToggleProgress(c *gin.Context) {
	var req study.ToggleRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.progressService.Toggle(requestDB(c), req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, res)
}

func (h *StudyHandler) CourseProgress(c *gin.Context) {
	courseID, ok := uuidParam(c, "courseId")
	if !ok {
		return
	}
	ids, err := h.progressService.CompletedLessonIDs(requestDB(c), courseID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, ids)
}

func (h *StudyHandler) CreateReview(c *gin.Context) {
	var req courseapi.ReviewDraft
	if !bindJSON(c, &req) {
		return
	}
	review, err := h.reviewService.Create(requestDB(c), req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, review)
}

func (h *StudyHandler) CourseReviews(c *gin.Context) {
	courseID, ok := uuidParam(c, "courseId")
	if !ok {
		return
	}
	skip, ok := queryInt(c, "skip", 0)
	if !ok {
		return
	}
	limit, ok := queryInt(c, "limit", 20)
	if !ok {
		return
	}
	rows, err := h.reviewService.ListByCourse(requestDB(c), courseID, skip, limit)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, rows)
}

func (h *StudyHandler) ReplyToReview(c *gin.Context) {
	reviewID, ok := uuidParam(c, "reviewId")
	if !ok {
		return
	}
	var req struct {
		InstructorReply string `json:"instructor_reply"`
	}
	if !bindJSON(c, &req) {
		return
	}
	review, err := h.reviewService.Reply(requestDB(c), reviewID, req.InstructorReply)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, review)
}
