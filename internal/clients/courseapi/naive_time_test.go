package courseapi

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
)

// The course API stores DateTime columns without a zone and serializes them as such.
const naiveStamp = "2024-05-01T10:20:30.123456"

var naiveWant = time.Date(2024, 5, 1, 10, 20, 30, 123456000, time.UTC)

func jsonHandler(t *testing.T, method, path, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method || r.URL.Path != path {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

func TestGetCourseAcceptsNaiveUpdatedAt(t *testing.T) {
	courseID := uuid.New()
	secID := uuid.New()
	lessonID := uuid.New()
	body := `{
		"id": "` + courseID.String() + `",
		"user_id": "` + uuid.NewString() + `",
		"title": "Go desde cero",
		"slug": "go-desde-cero",
		"thumbnail_url": null,
		"price": 19.99,
		"description": null,
		"level": "Principiante",
		"status": "PUBLISHED",
		"updated_at": "` + naiveStamp + `",
		"sections": [{
			"id": "` + secID.String() + `",
			"title": "Intro",
			"order_index": 0,
			"lessons": [{
				"id": "` + lessonID.String() + `",
				"title": "Hola",
				"video_resource_id": "/media/hola.mp4",
				"lesson_type": "video",
				"is_free_preview": true
			}]
		}]
	}`
	c := newTestClient(t, jsonHandler(t, http.MethodGet, "/courses/"+courseID.String(), body), nil)

	course, err := c.GetCourse(context.Background(), courseID)
	if err != nil {
		t.Fatalf("GetCourse: %v", err)
	}
	if !course.UpdatedAt.Equal(naiveWant) {
		t.Fatalf("updated_at = %v, want %v", course.UpdatedAt, naiveWant)
	}
	if course.Title != "Go desde cero" || len(course.Sections) != 1 || course.Sections[0].Lessons[0].ID != lessonID {
		t.Fatalf("unexpected course %+v", course)
	}
}

func TestListCoursesAcceptsNaiveAndMissingTimes(t *testing.T) {
	body := `[
		{"id":"` + uuid.NewString() + `","title":"A","slug":"a","thumbnail_url":null,"price":0,"updated_at":"` + naiveStamp + `"},
		{"id":"` + uuid.NewString() + `","title":"B","slug":"b","thumbnail_url":null,"price":5,"updated_at":null},
		{"id":"` + uuid.NewString() + `","title":"C","slug":"c","thumbnail_url":null,"price":5,"updated_at":"2024-05-01T10:20:30+02:00"}
	]`
	c := newTestClient(t, jsonHandler(t, http.MethodGet, "/courses/", body), nil)

	courses, err := c.ListCourses(context.Background(), 0, 10)
	if err != nil {
		t.Fatalf("ListCourses: %v", err)
	}
	if len(courses) != 3 {
		t.Fatalf("len = %d, want 3", len(courses))
	}
	if !courses[0].UpdatedAt.Equal(naiveWant) || !courses[1].UpdatedAt.IsZero() {
		t.Fatalf("updated_at = %v, %v", courses[0].UpdatedAt, courses[1].UpdatedAt)
	}
	if want := time.Date(2024, 5, 1, 8, 20, 30, 0, time.UTC); !courses[2].UpdatedAt.Equal(want) {
		t.Fatalf("offset updated_at = %v, want %v", courses[2].UpdatedAt, want)
	}
}

func TestToggleProgressAcceptsNaiveCompletedAt(t *testing.T) {
	courseID := uuid.New()
	lessonID := uuid.New()

	tests := []struct {
		name     string
		body     string
		wantDone bool
		wantAt   *time.Time
	}{
		{
			name:     "marked",
			body:     `{"lesson_id":"` + lessonID.String() + `","completed":true,"completed_at":"` + naiveStamp + `"}`,
			wantDone: true,
			wantAt:   &naiveWant,
		},
		{
			name: "unmarked",
			body: `{"lesson_id":"` + lessonID.String() + `","completed":false}`,
		},
		{
			name: "unmarked with null",
			body: `{"lesson_id":"` + lessonID.String() + `","completed":false,"completed_at":null}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, jsonHandler(t, http.MethodPost, "/progress/toggle", tt.body), &fakeSession{token: "tok"})
			res, err := c.ToggleProgress(context.Background(), courseID, lessonID)
			if err != nil {
				t.Fatalf("ToggleProgress: %v", err)
			}
			if res.LessonID != lessonID || res.Completed != tt.wantDone {
				t.Fatalf("unexpected result %+v", res)
			}
			switch {
			case tt.wantAt == nil && res.CompletedAt != nil:
				t.Fatalf("completed_at = %v, want nil", *res.CompletedAt)
			case tt.wantAt != nil && (res.CompletedAt == nil || !res.CompletedAt.Equal(*tt.wantAt)):
				t.Fatalf("completed_at = %v, want %v", res.CompletedAt, *tt.wantAt)
			}
		})
	}
}

func TestEnrollmentsAcceptNaivePurchasedAt(t *testing.T) {
	courseID := uuid.New()
	enrollment := `{
		"id": "` + uuid.NewString() + `",
		"amount_paid": 19.99,
		"purchased_at": "` + naiveStamp + `",
		"course": {"id": "` + courseID.String() + `", "title": "Go desde cero", "thumbnail_url": null}
	}`

	c := newTestClient(t, jsonHandler(t, http.MethodPost, "/enrollments/", enrollment), &fakeSession{token: "tok"})
	res, err := c.Enroll(context.Background(), courseID)
	if err != nil {
		t.Fatalf("Enroll: %v", err)
	}
	if res.AlreadyEnrolled || res.Enrollment == nil || !res.Enrollment.PurchasedAt.Equal(naiveWant) {
		t.Fatalf("unexpected enroll result %+v", res)
	}

	c = newTestClient(t, jsonHandler(t, http.MethodGet, "/enrollments/me", "["+enrollment+"]"), &fakeSession{token: "tok"})
	mine, err := c.MyEnrollments(context.Background())
	if err != nil {
		t.Fatalf("MyEnrollments: %v", err)
	}
	if len(mine) != 1 || mine[0].Course == nil || mine[0].Course.ID != courseID || !mine[0].PurchasedAt.Equal(naiveWant) {
		t.Fatalf("unexpected enrollments %+v", mine)
	}
}

func TestCourseReviewsAcceptNaiveCreatedAt(t *testing.T) {
	courseID := uuid.New()
	body := `[{"id":"` + uuid.NewString() + `","course_id":"` + courseID.String() + `","user_id":"` + uuid.NewString() +
		`","rating":5,"comment":"Excelente","instructor_reply":null,"created_at":"2024-05-01 10:20:30.123456","user_name":"Ana"}]`
	c := newTestClient(t, jsonHandler(t, http.MethodGet, "/reviews/course/"+courseID.String(), body), nil)

	reviews, err := c.CourseReviews(context.Background(), courseID, 0, 20)
	if err != nil {
		t.Fatalf("CourseReviews: %v", err)
	}
	if len(reviews) != 1 || !reviews[0].CreatedAt.Equal(naiveWant) || reviews[0].InstructorReply != nil {
		t.Fatalf("unexpected reviews %+v", reviews)
	}
}
