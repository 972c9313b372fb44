package services

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/google/uuid"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"gorm.io/gorm"

	"github.com/yungbote/apprende-client/internal/data/repos"
	"github.com/yungbote/apprende-client/internal/pkg/dbctx"
	"github.com/yungbote/apprende-client/internal/platform/apierr"
	"github.com/yungbote/apprende-client/internal/platform/logger"
)

type Certificate struct {
	Filename string
	PNG      []byte
}

type CertificateService interface {
	Issue(dbc dbctx.Context, courseID uuid.UUID) (*Certificate, error)
}

type certificateService struct {
	db           *gorm.DB
	log          *logger.Logger
	userRepo     repos.UserRepo
	courseRepo   repos.CourseRepo
	lessonRepo   repos.LessonRepo
	progressRepo repos.ProgressRepo
	fonts        certificateFonts
	now          func() time.Time
}

type certificateFonts struct {
	regular, bold, italic *truetype.Font
}

// NewCertificateService loads the TTF at fontPath for every text style, or the Go fonts when empty.
func NewCertificateService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	courseRepo repos.CourseRepo,
	lessonRepo repos.LessonRepo,
	progressRepo repos.ProgressRepo,
	fontPath string,
) (CertificateService, error) {
	serviceLog := log.With("service", "CertificateService")
	fonts, err := loadCertificateFonts(fontPath)
	if err != nil {
		return nil, fmt.Errorf("could not load certificate font: %w", err)
	}
	if fontPath != "" {
		serviceLog.Info("Loading certificate font", "font", fontPath)
	}
	return &certificateService{
		db:           db,
		log:          serviceLog,
		userRepo:     userRepo,
		courseRepo:   courseRepo,
		lessonRepo:   lessonRepo,
		progressRepo: progressRepo,
		fonts:        fonts,
		now:          time.Now,
	}, nil
}

func (cs *certificateService) Issue(dbc dbctx.Context, courseID uuid.UUID) (*Certificate, error) {
	rd, err := currentUser(dbc.Ctx)
	if err != nil {
		return nil, err
	}
	transaction := transactionFor(dbc, cs.db)

	courses, err := cs.courseRepo.GetByIDs(dbc.Ctx, transaction, []uuid.UUID{courseID})
	if err != nil {
		return nil, fmt.Errorf("load course: %w", err)
	}
	if len(courses) == 0 {
		return nil, errCourseNotFound
	}
	course := courses[0]

	total, err := cs.lessonRepo.CountByCourse(dbc.Ctx, transaction, courseID)
	if err != nil {
		return nil, fmt.Errorf("count lessons: %w", err)
	}
	if total == 0 {
		return nil, apierr.New(http.StatusBadRequest, "course_empty", errors.New("Este curso no tiene contenido."))
	}
	done, err := cs.progressRepo.CountCompleted(dbc.Ctx, transaction, rd.UserID, courseID)
	if err != nil {
		return nil, fmt.Errorf("count progress: %w", err)
	}
	if done < total {
		return nil, apierr.Newf(http.StatusForbidden, "course_incomplete",
			"Aún no has completado el curso. Progreso actual: %d%%", done*100/total)
	}

	users, err := cs.userRepo.GetByIDs(dbc.Ctx, transaction, []uuid.UUID{rd.UserID})
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if len(users) == 0 {
		return nil, errNotAuthenticated
	}

	png, err := cs.render(users[0].FullName, course.Title, cs.now())
	if err != nil {
		cs.log.Error("certificate render failed", "error", err, "course_id", courseID)
		return nil, err
	}
	cs.log.Info("certificate issued", "user_id", rd.UserID, "course_id", courseID)
	return &Certificate{Filename: "Certificado_" + course.Title + ".png", PNG: png}, nil
}

const (
	certWidth  = 1100
	certHeight = 850
	certInch   = 100.0
)

var (
	certNavy = color.NRGBA{R: 0x00, G: 0x00, B: 0x8b, A: 0xff}
	certGold = color.NRGBA{R: 0xff, G: 0xd7, B: 0x00, A: 0xff}
	certGray = color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
)

// render draws a US letter landscape page at 100 dpi.
func (cs *certificateService) render(studentName, courseTitle string, completed time.Time) ([]byte, error) {
	dc := gg.NewContext(certWidth, certHeight)
	w, h := float64(certWidth), float64(certHeight)

	dc.SetColor(color.White)
	dc.Clear()

	dc.SetColor(certNavy)
	dc.SetLineWidth(5)
	dc.DrawRectangle(0.5*certInch, 0.5*certInch, w-1*certInch, h-1*certInch)
	dc.Stroke()

	dc.SetColor(certGold)
	dc.SetLineWidth(2)
	dc.DrawRectangle(0.6*certInch, 0.6*certInch, w-1.2*certInch, h-1.2*certInch)
	dc.Stroke()

	centered := func(f *truetype.Font, size float64, c color.Color, y float64, text string) {
		dc.SetFontFace(fontFace(f, size))
		dc.SetColor(c)
		dc.DrawStringAnchored(text, w/2, y, 0.5, 0.5)
	}
	centered(cs.fonts.bold, 40, certNavy, 2.5*certInch, "Certificado de Finalización")
	centered(cs.fonts.regular, 14, color.Black, 3.2*certInch, "Este certificado se otorga a:")
	centered(cs.fonts.bold, 30, color.Black, 4*certInch, studentName)
	centered(cs.fonts.regular, 14, color.Black, 5*certInch, "Por completar satisfactoriamente el curso:")
	centered(cs.fonts.bold, 24, certNavy, 5.8*certInch, courseTitle)
	centered(cs.fonts.regular, 12, certGray, 7*certInch, "Fecha: "+spanishDate(completed))

	dc.SetColor(color.Black)
	dc.SetLineWidth(1)
	dc.DrawLine(w/2-1.5*certInch, h-1.5*certInch, w/2+1.5*certInch, h-1.5*certInch)
	dc.Stroke()
	centered(cs.fonts.italic, 10, color.Black, h-1.2*certInch, "APPRENDE LMS")

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

var spanishMonths = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

func spanishDate(t time.Time) string {
	return fmt.Sprintf("%02d de %s de %d", t.Day(), spanishMonths[t.Month()-1], t.Year())
}

func fontFace(f *truetype.Font, size float64) font.Face {
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}

func loadCertificateFonts(fontPath string) (certificateFonts, error) {
	if strings.TrimSpace(fontPath) != "" {
		raw, err := os.ReadFile(fontPath)
		if err != nil {
			return certificateFonts{}, fmt.Errorf("failed to read font file: %w", err)
		}
		f, err := truetype.Parse(raw)
		if err != nil {
			return certificateFonts{}, fmt.Errorf("failed to parse TTF: %w", err)
		}
		return certificateFonts{regular: f, bold: f, italic: f}, nil
	}
	var out certificateFonts
	for _, item := range []struct {
		dst **truetype.Font
		ttf []byte
	}{
		{&out.regular, goregular.TTF},
		{&out.bold, gobold.TTF},
		{&out.italic, goitalic.TTF},
	} {
		f, err := truetype.Parse(item.ttf)
		if err != nil {
			return certificateFonts{}, fmt.Errorf("failed to parse TTF: %w", err)
		}
		*item.dst = f
	}
	return out, nil
}
