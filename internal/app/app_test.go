package app

import (
	"bytes"
	"context"
	"errors"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/apprende-client/internal/clients/courseapi"
	"github.com/yungbote/apprende-client/internal/config"
	"github.com/yungbote/apprende-client/internal/domain/account"
	"github.com/yungbote/apprende-client/internal/domain/catalog"
	errs "github.com/yungbote/apprende-client/internal/pkg/errors"
	"github.com/yungbote/apprende-client/internal/session"
)

type tokenSession struct{ token string }

func (s *tokenSession) Token() string { return s.token }

func (s *tokenSession) Clear(context.Context, session.Reason) error {
	s.token = ""
	return nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		Env: "test",
		DevAPI: config.DevAPIConfig{
			Addr:        "127.0.0.1:0",
			DatabaseURL: filepath.Join(dir, "devapi.db"),
			JWTSecret:   "test-secret",
			TokenTTL:    config.Duration{Duration: time.Hour},
			UploadDir:   filepath.Join(dir, "uploads"),
			PublicURL:   "http://media.test",
		},
	}
	a, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(a.Close)
	srv := httptest.NewServer(a.Router)
	t.Cleanup(srv.Close)
	return srv
}

func signedInClient(t *testing.T, srv *httptest.Server, name, email string) *courseapi.Client {
	t.Helper()
	ctx := context.Background()
	sess := &tokenSession{}
	c, err := courseapi.New(courseapi.Options{BaseURL: srv.URL, Session: sess})
	if err != nil {
		t.Fatalf("courseapi.New: %v", err)
	}
	if _, err := c.Register(ctx, account.Registration{FullName: name, Email: email, Password: "secret123"}); err != nil {
		t.Fatalf("Register(%s): %v", email, err)
	}
	tok, err := c.Login(ctx, email, "secret123")
	if err != nil {
		t.Fatalf("Login(%s): %v", email, err)
	}
	sess.token = tok.AccessToken
	return c
}

func TestCourseLifecycleOverHTTP(t *testing.T) {
	ctx := context.Background()
	srv := newTestServer(t)

	instructor := signedInClient(t, srv, "Ana Torres", "ana@example.com")
	if _, err := instructor.BecomeInstructor(ctx); err != nil {
		t.Fatalf("BecomeInstructor: %v", err)
	}
	me, err := instructor.Me(ctx)
	if err != nil || me.Role != account.RoleInstructor {
		t.Fatalf("Me after becoming instructor: %+v err=%v", me, err)
	}

	course, err := instructor.CreateCourse(ctx, courseapi.CourseDraft{Title: "Go desde cero", Price: 19.99})
	if err != nil {
		t.Fatalf("CreateCourse: %v", err)
	}
	first, err := instructor.CreateSection(ctx, course.ID, courseapi.SectionDraft{Title: "Intro", OrderIndex: 0})
	if err != nil {
		t.Fatalf("CreateSection: %v", err)
	}
	second, err := instructor.CreateSection(ctx, course.ID, courseapi.SectionDraft{Title: "Avanzado", OrderIndex: 1})
	if err != nil {
		t.Fatalf("CreateSection: %v", err)
	}
	var lessonIDs []uuid.UUID
	for _, title := range []string{"Hola", "Tipos"} {
		l, err := instructor.CreateLesson(ctx, first.ID, courseapi.LessonDraft{
			Title:           title,
			VideoResourceID: "/media/" + strings.ToLower(title) + ".mp4",
			LessonType:      catalog.LessonTypeVideo,
		})
		if err != nil {
			t.Fatalf("CreateLesson(%s): %v", title, err)
		}
		lessonIDs = append(lessonIDs, l.ID)
	}

	err = instructor.Reorder(ctx, course.ID, catalog.ReorderRequest{Sections: []catalog.SectionOrder{
		{ID: second.ID, OrderIndex: 0},
		{ID: first.ID, OrderIndex: 1, Lessons: []catalog.LessonOrder{
			{ID: lessonIDs[1], OrderIndex: 0},
			{ID: lessonIDs[0], OrderIndex: 1},
		}},
	}})
	if err != nil {
		t.Fatalf("Reorder: %v", err)
	}
	detail, err := instructor.GetCourse(ctx, course.ID)
	if err != nil {
		t.Fatalf("GetCourse: %v", err)
	}
	if len(detail.Sections) != 2 || detail.Sections[0].ID != second.ID {
		t.Fatalf("sections not reordered: %+v", detail.Sections)
	}
	if got := detail.Sections[1].Lessons; len(got) != 2 || got[0].ID != lessonIDs[1] {
		t.Fatalf("lessons not reordered: %+v", got)
	}

	student := signedInClient(t, srv, "Luis Gómez", "luis@example.com")
	if _, err := student.PlayLesson(ctx, course.ID, lessonIDs[0]); !errors.Is(err, errs.ErrForbidden) {
		t.Fatalf("PlayLesson before enrolling: want forbidden, got %v", err)
	}
	res, err := student.Enroll(ctx, course.ID)
	if err != nil || res.AlreadyEnrolled || res.Enrollment == nil {
		t.Fatalf("Enroll: res=%+v err=%v", res, err)
	}
	again, err := student.Enroll(ctx, course.ID)
	if err != nil || !again.AlreadyEnrolled {
		t.Fatalf("second Enroll: res=%+v err=%v", again, err)
	}

	play, err := student.PlayLesson(ctx, course.ID, lessonIDs[0])
	if err != nil {
		t.Fatalf("PlayLesson: %v", err)
	}
	if !strings.HasPrefix(play.VideoURL, "http://media.test/files/stream/") {
		t.Fatalf("play url = %q", play.VideoURL)
	}

	var buf bytes.Buffer
	if _, err := student.DownloadCertificate(ctx, course.ID, &buf); !errors.Is(err, errs.ErrForbidden) {
		t.Fatalf("certificate before finishing: want forbidden, got %v", err)
	}
	for _, id := range lessonIDs {
		r, err := student.ToggleProgress(ctx, course.ID, id)
		if err != nil || !r.Completed {
			t.Fatalf("ToggleProgress(%s): res=%+v err=%v", id, r, err)
		}
	}
	done, err := student.Progress(ctx, course.ID)
	if err != nil || len(done) != 2 {
		t.Fatalf("Progress: %v err=%v", done, err)
	}

	buf.Reset()
	name, err := student.DownloadCertificate(ctx, course.ID, &buf)
	if err != nil {
		t.Fatalf("DownloadCertificate: %v", err)
	}
	if !strings.HasPrefix(name, "Certificado_") {
		t.Fatalf("certificate filename = %q", name)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")) {
		t.Fatalf("certificate is not a png (%d bytes)", buf.Len())
	}
}

func TestUnauthenticatedRequestsAreRejected(t *testing.T) {
	srv := newTestServer(t)
	c, err := courseapi.New(courseapi.Options{BaseURL: srv.URL, Session: &tokenSession{}})
	if err != nil {
		t.Fatalf("courseapi.New: %v", err)
	}
	if _, err := c.Me(context.Background()); !errors.Is(err, errs.ErrUnauthorized) {
		t.Fatalf("Me without token: want unauthorized, got %v", err)
	}
	courses, err := c.ListCourses(context.Background(), 0, 10)
	if err != nil || len(courses) != 0 {
		t.Fatalf("ListCourses: %v err=%v", courses, err)
	}
}

func TestPublicURLFallsBackToListenAddress(t *testing.T) {
	cases := []struct {
		cfg  config.DevAPIConfig
		want string
	}{
		{config.DevAPIConfig{PublicURL: "https://api.example.com"}, "https://api.example.com"},
		{config.DevAPIConfig{Addr: ":8000"}, "http://localhost:8000"},
		{config.DevAPIConfig{Addr: "127.0.0.1:9000"}, "http://127.0.0.1:9000"},
		{config.DevAPIConfig{Addr: "bogus"}, "http://localhost:8000"},
	}
	for _, tc := range cases {
		if got := publicURL(tc.cfg); got != tc.want {
			t.Fatalf("publicURL(%+v) = %q, want %q", tc.cfg, got, tc.want)
		}
	}
}
