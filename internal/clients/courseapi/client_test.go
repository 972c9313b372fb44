package courseapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/apprende-client/internal/domain/catalog"
	errs "github.com/yungbote/apprende-client/internal/pkg/errors"
	"github.com/yungbote/apprende-client/internal/session"
)

type fakeSession struct {
	mu      sync.Mutex
	token   string
	cleared []session.Reason
}

func (f *fakeSession) Token() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token
}

func (f *fakeSession) Clear(_ context.Context, reason session.Reason) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = ""
	f.cleared = append(f.cleared, reason)
	return nil
}

func newTestClient(t *testing.T, h http.HandlerFunc, sess Session) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(Options{BaseURL: srv.URL + "/", Session: sess})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestNewRequiresBaseURL(t *testing.T) {
	if _, err := New(Options{BaseURL: "  "}); err == nil {
		t.Fatalf("expected error for empty base url")
	}
}

func TestReorderSendsOnePutWithBearer(t *testing.T) {
	courseID := uuid.New()
	secID := uuid.New()
	lessonID := uuid.New()

	var calls int
	var gotAuth, gotPath, gotMethod string
	var got catalog.ReorderRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		gotMethod = r.Method
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		_, _ = w.Write([]byte(`{"message":"ok"}`))
	}, &fakeSession{token: "tok-123"})

	req := catalog.ReorderRequest{Sections: []catalog.SectionOrder{{
		ID: secID, OrderIndex: 0,
		Lessons: []catalog.LessonOrder{{ID: lessonID, OrderIndex: 0}},
	}}}
	if err := c.Reorder(context.Background(), courseID, req); err != nil {
		t.Fatalf("Reorder: %v", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
	if gotMethod != http.MethodPut || gotPath != "/courses/"+courseID.String()+"/reorder" {
		t.Fatalf("unexpected request %s %s", gotMethod, gotPath)
	}
	if gotAuth != "Bearer tok-123" {
		t.Fatalf("authorization = %q", gotAuth)
	}
	if len(got.Sections) != 1 || got.Sections[0].ID != secID || got.Sections[0].Lessons[0].ID != lessonID {
		t.Fatalf("unexpected payload: %+v", got)
	}
}

func TestAnonymousRequestsCarryNoAuthorization(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if h := r.Header.Get("Authorization"); h != "" {
			t.Errorf("unexpected authorization header %q", h)
		}
		_, _ = w.Write([]byte(`{"id":"` + uuid.NewString() + `","title":"Go","sections":[]}`))
	}, &fakeSession{})
	if _, err := c.GetCourse(context.Background(), uuid.New()); err != nil {
		t.Fatalf("GetCourse: %v", err)
	}
}

func TestUnauthorizedClearsSession(t *testing.T) {
	sess := &fakeSession{token: "stale"}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"Could not validate credentials"}`))
	}, sess)

	_, err := c.Me(context.Background())
	if !errors.Is(err, errs.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
	if KindOf(err) != KindAuth {
		t.Fatalf("kind = %q", KindOf(err))
	}
	if sess.Token() != "" || len(sess.cleared) != 1 || sess.cleared[0] != session.ReasonUnauthorized {
		t.Fatalf("session not cleared: %+v", sess.cleared)
	}
}

func TestEnrollDuplicateIsAlreadyEnrolled(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
	}{
		{"spanish detail", http.StatusBadRequest, `{"detail":"Ya estás inscrito en este curso"}`},
		{"code", http.StatusBadRequest, `{"detail":"already enrolled in this course","code":"already_enrolled"}`},
		{"409", http.StatusConflict, `{"detail":"duplicate"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}, &fakeSession{token: "t"})
			res, err := c.Enroll(context.Background(), uuid.New())
			if err != nil {
				t.Fatalf("Enroll returned error: %v", err)
			}
			if !res.AlreadyEnrolled || res.Enrollment != nil {
				t.Fatalf("unexpected result %+v", res)
			}
		})
	}
}

func TestEnrollOtherBadRequestIsAnError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"El curso no existe"}`))
	}, &fakeSession{token: "t"})
	_, err := c.Enroll(context.Background(), uuid.New())
	if !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestLoginPostsPasswordForm(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/x-www-form-urlencoded") {
			t.Errorf("content-type = %q", ct)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if r.PostForm.Get("username") != "ana@example.com" || r.PostForm.Get("password") != "secret1" {
			t.Errorf("unexpected form %v", r.PostForm)
		}
		_, _ = w.Write([]byte(`{"access_token":"abc","token_type":"bearer"}`))
	}, nil)
	tok, err := c.Login(context.Background(), "ana@example.com", "secret1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if tok.AccessToken != "abc" {
		t.Fatalf("token = %+v", tok)
	}
}

func TestUploadIsMultipart(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Errorf("FormFile: %v", err)
			http.Error(w, "bad", http.StatusBadRequest)
			return
		}
		defer f.Close()
		raw, _ := io.ReadAll(f)
		if hdr.Filename != "intro.mp4" || string(raw) != "video-bytes" {
			t.Errorf("unexpected upload %q %q", hdr.Filename, raw)
		}
		_, _ = w.Write([]byte(`{"url":"/media/abc.mp4"}`))
	}, &fakeSession{token: "t"})
	url, err := c.Upload(context.Background(), "/tmp/x/intro.mp4", bytes.NewBufferString("video-bytes"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if url != "/media/abc.mp4" {
		t.Fatalf("url = %q", url)
	}
}

func TestDownloadCertificatePassesTokenInQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("token") != "tok" {
			t.Errorf("missing token query")
		}
		if got := r.Header.Get("Authorization"); got != "" {
			t.Errorf("Authorization = %q, want none", got)
		}
		w.Header().Set("Content-Disposition", `attachment; filename="Certificado_Go.png"`)
		_, _ = w.Write([]byte("PNG"))
	}, &fakeSession{token: "tok"})
	var buf bytes.Buffer
	name, err := c.DownloadCertificate(context.Background(), uuid.New(), &buf)
	if err != nil {
		t.Fatalf("DownloadCertificate: %v", err)
	}
	if name != "Certificado_Go.png" || buf.String() != "PNG" {
		t.Fatalf("name=%q body=%q", name, buf.String())
	}
}

func TestDownloadCertificateIncomplete(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"detail":"course not completed yet: progress 50%"}`))
	}, &fakeSession{token: "tok"})
	_, err := c.DownloadCertificate(context.Background(), uuid.New(), io.Discard)
	if KindOf(err) != KindForbidden {
		t.Fatalf("kind = %q err=%v", KindOf(err), err)
	}
}
