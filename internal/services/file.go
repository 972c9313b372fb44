package services

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/apprende-client/internal/platform/apierr"
	"github.com/yungbote/apprende-client/internal/platform/logger"
)

type UploadResult struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
	FullURL  string `json:"full_url"`
}

// FileService keeps lesson media on local disk. Stored names are a fresh uuid plus the
// original extension, served back under /media/ and /files/stream/.
type FileService interface {
	Save(originalName string, r io.Reader) (*UploadResult, error)
	Resolve(filename string) (string, error)
}

type fileService struct {
	log       *logger.Logger
	dir       string
	publicURL string
}

func NewFileService(log *logger.Logger, dir, publicURL string) (FileService, error) {
	serviceLog := log.With("service", "FileService")
	if strings.TrimSpace(dir) == "" {
		dir = "uploads"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &fileService{log: serviceLog, dir: dir, publicURL: strings.TrimRight(publicURL, "/")}, nil
}

func (fs *fileService) Save(originalName string, r io.Reader) (*UploadResult, error) {
	name := uuid.NewString() + strings.ToLower(filepath.Ext(filepath.Base(originalName)))
	path := filepath.Join(fs.dir, name)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("Error al subir archivo: %w", err)
	}
	n, copyErr := io.Copy(f, r)
	closeErr := f.Close()
	if copyErr != nil || closeErr != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("Error al subir archivo: %w", errors.Join(copyErr, closeErr))
	}
	fs.log.Info("file stored", "filename", name, "bytes", n)
	return &UploadResult{
		Filename: name,
		URL:      "/media/" + name,
		FullURL:  fs.publicURL + "/media/" + name,
	}, nil
}

// Resolve maps a stored name to its path on disk, refusing anything that is not a plain
// file name inside the upload dir.
func (fs *fileService) Resolve(filename string) (string, error) {
	notFound := apierr.New(http.StatusNotFound, "file_not_found", errors.New("Archivo no encontrado"))
	if filename == "" || filename != filepath.Base(filename) || strings.HasPrefix(filename, ".") {
		return "", notFound
	}
	path := filepath.Join(fs.dir, filename)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", notFound
	}
	return path, nil
}
