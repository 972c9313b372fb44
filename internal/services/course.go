package services

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/apprende-client/internal/clients/courseapi"
	"github.com/yungbote/apprende-client/internal/data/repos"
	"github.com/yungbote/apprende-client/internal/domain/account"
	"github.com/yungbote/apprende-client/internal/domain/catalog"
	"github.com/yungbote/apprende-client/internal/forms"
	"github.com/yungbote/apprende-client/internal/pkg/dbctx"
	"github.com/yungbote/apprende-client/internal/platform/apierr"
	"github.com/yungbote/apprende-client/internal/platform/ctxutil"
	"github.com/yungbote/apprende-client/internal/platform/logger"
)

type CourseService interface {
	List(dbc dbctx.Context, skip, limit int) ([]*catalog.Course, error)
	Detail(dbc dbctx.Context, courseID uuid.UUID) (*catalog.Course, error)
	MyCourses(dbc dbctx.Context) ([]*catalog.Course, error)
	Create(dbc dbctx.Context, draft courseapi.CourseDraft) (*catalog.Course, error)
	CreateSection(dbc dbctx.Context, courseID uuid.UUID, draft courseapi.SectionDraft) (*catalog.Section, error)
	CreateLesson(dbc dbctx.Context, sectionID uuid.UUID, draft courseapi.LessonDraft) (*catalog.Lesson, error)
	Reorder(dbc dbctx.Context, courseID uuid.UUID, req catalog.ReorderRequest) error
	Play(dbc dbctx.Context, courseID, lessonID uuid.UUID) (*catalog.PlayableResource, error)
}

type courseService struct {
	db             *gorm.DB
	log            *logger.Logger
	courseRepo     repos.CourseRepo
	sectionRepo    repos.SectionRepo
	lessonRepo     repos.LessonRepo
	enrollmentRepo repos.EnrollmentRepo
	publicURL      string
}

func NewCourseService(
	db *gorm.DB,
	baseLog *logger.Logger,
	courseRepo repos.CourseRepo,
	sectionRepo repos.SectionRepo,
	lessonRepo repos.LessonRepo,
	enrollmentRepo repos.EnrollmentRepo,
	publicURL string,
) CourseService {
	serviceLog := baseLog.With("service", "CourseService")
	return &courseService{
		db:             db,
		log:            serviceLog,
		courseRepo:     courseRepo,
		sectionRepo:    sectionRepo,
		lessonRepo:     lessonRepo,
		enrollmentRepo: enrollmentRepo,
		publicURL:      strings.TrimRight(publicURL, "/"),
	}
}

var (
	errCourseNotFound = apierr.New(http.StatusNotFound, "course_not_found", errors.New("Curso no encontrado"))
	errNotCourseOwner = apierr.New(http.StatusForbidden, "not_course_owner", errors.New("No tienes permiso para editar este curso"))

	slugStrip    = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugCollapse = regexp.MustCompile(`[\s-]+`)
)

// Slugify lowercases the title, drops anything outside [a-z0-9 -] and joins words with "-".
func Slugify(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = slugStrip.ReplaceAllString(slug, "")
	slug = slugCollapse.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

func (cs *courseService) List(dbc dbctx.Context, skip, limit int) ([]*catalog.Course, error) {
	skip, limit = pageBounds(skip, limit, 10, 100)
	courses, err := cs.courseRepo.List(dbc.Ctx, transactionFor(dbc, cs.db), skip, limit)
	if err != nil {
		cs.log.Error("List courses failed", "error", err)
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

func (cs *courseService) Detail(dbc dbctx.Context, courseID uuid.UUID) (*catalog.Course, error) {
	course, err := cs.courseRepo.GetDetail(dbc.Ctx, transactionFor(dbc, cs.db), courseID)
	if err != nil {
		return nil, fmt.Errorf("load course detail: %w", err)
	}
	if course == nil {
		return nil, errCourseNotFound
	}
	return course, nil
}

func (cs *courseService) MyCourses(dbc dbctx.Context) ([]*catalog.Course, error) {
	rd, err := currentUser(dbc.Ctx)
	if err != nil {
		return nil, err
	}
	if !canTeach(rd) {
		return nil, apierr.New(http.StatusForbidden, "instructors_only", errors.New("Solo los instructores pueden ver sus cursos creados"))
	}
	courses, err := cs.courseRepo.ListByUser(dbc.Ctx, transactionFor(dbc, cs.db), rd.UserID)
	if err != nil {
		cs.log.Error("MyCourses failed", "error", err, "user_id", rd.UserID)
		return nil, fmt.Errorf("list my courses: %w", err)
	}
	return courses, nil
}

func (cs *courseService) Create(dbc dbctx.Context, draft courseapi.CourseDraft) (*catalog.Course, error) {
	rd, err := currentUser(dbc.Ctx)
	if err != nil {
		return nil, err
	}
	if !canTeach(rd) {
		return nil, apierr.New(http.StatusForbidden, "instructors_only", errors.New("Solo los instructores pueden crear cursos"))
	}
	draft.Title = strings.TrimSpace(draft.Title)
	if err := forms.Check(draft); err != nil {
		return nil, err
	}
	course := &catalog.Course{
		UserID:       rd.UserID,
		CategoryID:   draft.CategoryID,
		Title:        draft.Title,
		Subtitle:     draft.Subtitle,
		Description:  draft.Description,
		ThumbnailURL: draft.ThumbnailURL,
		Price:        draft.Price,
		Level:        draft.Level,
		Status:       catalog.CourseStatusDraft,
	}
	err = inTx(dbc, cs.db, func(tx *gorm.DB) error {
		slug, err := cs.uniqueSlug(dbc, tx, Slugify(draft.Title))
		if err != nil {
			return err
		}
		course.Slug = slug
		if _, err := cs.courseRepo.Create(dbc.Ctx, tx, []*catalog.Course{course}); err != nil {
			return fmt.Errorf("create course: %w", err)
		}
		return nil
	})
	if err != nil {
		cs.log.Error("Create course failed", "error", err)
		return nil, err
	}
	cs.log.Info("course created", "course_id", course.ID, "slug", course.Slug)
	return course, nil
}

func (cs *courseService) uniqueSlug(dbc dbctx.Context, tx *gorm.DB, base string) (string, error) {
	if base == "" {
		base = "curso"
	}
	slug := base
	for n := 2; ; n++ {
		exists, err := cs.courseRepo.SlugExists(dbc.Ctx, tx, slug)
		if err != nil {
			return "", fmt.Errorf("check slug: %w", err)
		}
		if !exists {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, n)
	}
}

// ownedCourse loads a course the caller may edit (its author or an admin).
func (cs *courseService) ownedCourse(dbc dbctx.Context, tx *gorm.DB, rd *ctxutil.RequestData, courseID uuid.UUID) (*catalog.Course, error) {
	courses, err := cs.courseRepo.GetByIDs(dbc.Ctx, tx, []uuid.UUID{courseID})
	if err != nil {
		return nil, fmt.Errorf("load course: %w", err)
	}
	if len(courses) == 0 || courses[0] == nil {
		return nil, errCourseNotFound
	}
	if courses[0].UserID != rd.UserID && !isAdmin(rd) {
		return nil, errNotCourseOwner
	}
	return courses[0], nil
}

func (cs *courseService) CreateSection(dbc dbctx.Context, courseID uuid.UUID, draft courseapi.SectionDraft) (*catalog.Section, error) {
	rd, err := currentUser(dbc.Ctx)
	if err != nil {
		return nil, err
	}
	if err := forms.Check(draft); err != nil {
		return nil, err
	}
	transaction := transactionFor(dbc, cs.db)
	if _, err := cs.ownedCourse(dbc, transaction, rd, courseID); err != nil {
		return nil, err
	}
	section := &catalog.Section{
		CourseID:   courseID,
		Title:      strings.TrimSpace(draft.Title),
		OrderIndex: draft.OrderIndex,
	}
	if _, err := cs.sectionRepo.Create(dbc.Ctx, transaction, []*catalog.Section{section}); err != nil {
		cs.log.Error("CreateSection failed", "error", err, "course_id", courseID)
		return nil, fmt.Errorf("create section: %w", err)
	}
	section.Lessons = []catalog.Lesson{}
	return section, nil
}

// CreateLesson appends a lesson at the end of its section.
func (cs *courseService) CreateLesson(dbc dbctx.Context, sectionID uuid.UUID, draft courseapi.LessonDraft) (*catalog.Lesson, error) {
	rd, err := currentUser(dbc.Ctx)
	if err != nil {
		return nil, err
	}
	if draft.LessonType == "" {
		draft.LessonType = catalog.LessonTypeVideo
	}
	if err := forms.Check(draft); err != nil {
		return nil, err
	}
	lesson := &catalog.Lesson{
		SectionID:       sectionID,
		Title:           strings.TrimSpace(draft.Title),
		VideoResourceID: strings.TrimSpace(draft.VideoResourceID),
		LessonType:      draft.LessonType,
		IsFreePreview:   draft.IsFreePreview,
	}
	err = inTx(dbc, cs.db, func(tx *gorm.DB) error {
		sections, err := cs.sectionRepo.GetByIDs(dbc.Ctx, tx, []uuid.UUID{sectionID})
		if err != nil {
			return fmt.Errorf("load section: %w", err)
		}
		if len(sections) == 0 || sections[0] == nil {
			return apierr.New(http.StatusNotFound, "section_not_found", errors.New("Sección no encontrada"))
		}
		if _, err := cs.ownedCourse(dbc, tx, rd, sections[0].CourseID); err != nil {
			return err
		}
		next, err := cs.lessonRepo.NextOrderIndex(dbc.Ctx, tx, sectionID)
		if err != nil {
			return fmt.Errorf("next order index: %w", err)
		}
		lesson.OrderIndex = next
		if _, err := cs.lessonRepo.Create(dbc.Ctx, tx, []*catalog.Lesson{lesson}); err != nil {
			return fmt.Errorf("create lesson: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return lesson, nil
}

// Reorder applies a full ordering snapshot in one transaction. Sections outside the course
// and lessons that do not belong to it are skipped; a lesson listed under another section
// is moved there.
func (cs *courseService) Reorder(dbc dbctx.Context, courseID uuid.UUID, req catalog.ReorderRequest) error {
	rd, err := currentUser(dbc.Ctx)
	if err != nil {
		return err
	}
	var sections, lessons int
	err = inTx(dbc, cs.db, func(tx *gorm.DB) error {
		if _, err := cs.ownedCourse(dbc, tx, rd, courseID); err != nil {
			return err
		}
		ids, err := cs.lessonRepo.ListIDsByCourse(dbc.Ctx, tx, courseID)
		if err != nil {
			return fmt.Errorf("list course lessons: %w", err)
		}
		inCourse := make(map[uuid.UUID]bool, len(ids))
		for _, id := range ids {
			inCourse[id] = true
		}
		for _, so := range req.Sections {
			ok, err := cs.sectionRepo.UpdateOrderIndex(dbc.Ctx, tx, courseID, so.ID, so.OrderIndex)
			if err != nil {
				return fmt.Errorf("update section %s: %w", so.ID, err)
			}
			if !ok {
				continue
			}
			sections++
			for _, lo := range so.Lessons {
				if !inCourse[lo.ID] {
					continue
				}
				if err := cs.lessonRepo.Move(dbc.Ctx, tx, lo.ID, so.ID, lo.OrderIndex); err != nil {
					return fmt.Errorf("move lesson %s: %w", lo.ID, err)
				}
				lessons++
			}
		}
		return nil
	})
	if err != nil {
		if ae := apierr.From(err); ae.Status >= http.StatusInternalServerError {
			cs.log.Error("Reorder failed", "error", err, "course_id", courseID)
		}
		return err
	}
	cs.log.Info("course reordered", "course_id", courseID, "sections", sections, "lessons", lessons)
	return nil
}

// Play resolves the media URL of a lesson for an enrolled student, the course author or
// anyone when the lesson is a free preview.
func (cs *courseService) Play(dbc dbctx.Context, courseID, lessonID uuid.UUID) (*catalog.PlayableResource, error) {
	rd, err := currentUser(dbc.Ctx)
	if err != nil {
		return nil, err
	}
	transaction := transactionFor(dbc, cs.db)

	lessons, err := cs.lessonRepo.GetByIDs(dbc.Ctx, transaction, []uuid.UUID{lessonID})
	if err != nil {
		return nil, fmt.Errorf("load lesson: %w", err)
	}
	lessonMissing := apierr.New(http.StatusNotFound, "lesson_not_found", errors.New("Lección no encontrada"))
	if len(lessons) == 0 || lessons[0] == nil {
		return nil, lessonMissing
	}
	lesson := lessons[0]
	sections, err := cs.sectionRepo.GetByIDs(dbc.Ctx, transaction, []uuid.UUID{lesson.SectionID})
	if err != nil {
		return nil, fmt.Errorf("load section: %w", err)
	}
	if len(sections) == 0 || sections[0].CourseID != courseID {
		return nil, lessonMissing
	}

	if !lesson.IsFreePreview {
		allowed, err := cs.enrollmentRepo.Exists(dbc.Ctx, transaction, rd.UserID, courseID)
		if err != nil {
			return nil, fmt.Errorf("check enrollment: %w", err)
		}
		if !allowed {
			if _, ownErr := cs.ownedCourse(dbc, transaction, rd, courseID); ownErr == nil {
				allowed = true
			}
		}
		if !allowed {
			return nil, apierr.New(http.StatusForbidden, "not_enrolled", errors.New("No has comprado este curso"))
		}
	}

	url := lesson.VideoResourceID
	if lesson.LessonType == catalog.LessonTypeVideo && strings.HasPrefix(url, "/media/") {
		url = cs.publicURL + "/files/stream/" + strings.TrimPrefix(url, "/media/")
	}
	return &catalog.PlayableResource{VideoURL: url, LessonType: lesson.LessonType}, nil
}

func canTeach(rd *ctxutil.RequestData) bool {
	if rd == nil {
		return false
	}
	switch account.Role(rd.Role) {
	case account.RoleInstructor, account.RoleAdmin:
		return true
	}
	return false
}
