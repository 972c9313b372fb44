package handlers

import (
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/apprende-client/internal/http/response"
	"github.com/yungbote/apprende-client/internal/platform/logger"
	"github.com/yungbote/apprende-client/internal/services"
)

type FileHandler struct {
	log                *logger.Logger
	fileService        services.FileService
	certificateService services.CertificateService
}

func NewFileHandler(log *logger.Logger, fileService services.FileService, certificateService services.CertificateService) *FileHandler {
	return &FileHandler{
		log:                log.With("handler", "FileHandler"),
		fileService:        fileService,
		certificateService: certificateService,
	}
}

func (h *FileHandler) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		invalidParam(c, "body", "file", "field required")
		return
	}
	f, err := header.Open()
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	defer f.Close()

	res, err := h.fileService.Save(header.Filename, f)
	if err != nil {
		h.log.Error("upload failed", "error", err, "filename", header.Filename)
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, res)
}

// Stream serves a stored file; http.ServeFile answers Range requests so players can seek.
func (h *FileHandler) Stream(c *gin.Context) {
	path, err := h.fileService.Resolve(c.Param("filename"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	c.File(path)
}

func (h *FileHandler) Certificate(c *gin.Context) {
	courseID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	cert, err := h.certificateService.Issue(requestDB(c), courseID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": cert.Filename}))
	c.Data(http.StatusOK, "image/png", cert.PNG)
}
