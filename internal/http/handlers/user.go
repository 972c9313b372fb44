package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/apprende-client/internal/clients/courseapi"
	"github.com/yungbote/apprende-client/internal/http/response"
	"github.com/yungbote/apprende-client/internal/services"
)

type UserHandler struct {
	userService       services.UserService
	instructorService services.InstructorService
}

func NewUserHandler(userService services.UserService, instructorService services.InstructorService) *UserHandler {
	return &UserHandler{userService: userService, instructorService: instructorService}
}

func (h *UserHandler) GetMe(c *gin.Context) {
	user, err := h.userService.GetMe(requestDB(c))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, user)
}

func (h *UserHandler) BecomeInstructor(c *gin.Context) {
	user, err := h.instructorService.BecomeInstructor(requestDB(c))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"message":  "¡Felicidades! Ahora eres instructor 🎓",
		"new_role": user.Role,
	})
}

func (h *UserHandler) GetInstructorProfile(c *gin.Context) {
	profile, err := h.instructorService.GetMyProfile(requestDB(c))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, profile)
}

func (h *UserHandler) UpdateInstructorProfile(c *gin.Context) {
	var req courseapi.InstructorProfileUpdate
	if !bindJSON(c, &req) {
		return
	}
	profile, err := h.instructorService.UpdateMyProfile(requestDB(c), req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, profile)
}

func (h *UserHandler) GetPublicInstructor(c *gin.Context) {
	userID, ok := uuidParam(c, "userId")
	if !ok {
		return
	}
	profile, err := h.instructorService.GetPublicProfile(requestDB(c), userID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, profile)
}
