package player

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lms/models"
	"lms/payment"
)

// detailsResponder serves the my-courses endpoint from a mutable
// enrollment record, so tests can flip certificateIssued between
// fetches the way the real backend does
type detailsResponder struct {
	mu         sync.Mutex
	enrollment models.Enrollment
}

func (d *detailsResponder) set(e models.Enrollment) {
	d.mu.Lock()
	d.enrollment = e
	d.mu.Unlock()
}

func (d *detailsResponder) install(backend *fakeBackend, courseID string) {
	backend.handle("GET", "/student/my-courses/"+courseID, func(w http.ResponseWriter, r *http.Request) {
		d.mu.Lock()
		enrollment := d.enrollment
		d.mu.Unlock()
		writeEnvelope(w, http.StatusOK, true, "", map[string]interface{}{"enrollment": enrollment})
	})
}

func enrolledDetails(course *models.Course) models.Enrollment {
	return models.Enrollment{
		CourseID:   course.ID,
		UserID:     "user-1",
		IsEnrolled: true,
		Course:     course,
	}
}

func newTestPlayer(t *testing.T, backend *fakeBackend) *Player {
	t.Helper()
	api := backend.client()
	checkout := NewCheckout(api, signedInSession(t), &fakePayments{verdict: payment.Succeeded}, "https://learn.example.com", 3, time.Millisecond)
	return NewPlayer(api, nil, checkout)
}

func TestSelectLessonResetsQuizAttempt(t *testing.T) {
	course := twoSectionCourse()
	backend := newFakeBackend(t)
	details := &detailsResponder{}
	details.set(enrolledDetails(course))
	details.install(backend, course.ID)
	backend.handle("GET", "/student/check-enrollment/"+course.ID, enrollmentSequence(1))
	backend.handle("GET", "/progress/"+course.ID, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, true, "", map[string]interface{}{
			"progress": map[string]interface{}{"courseId": course.ID, "completedLessons": []string{}, "progressPercentage": 0},
		})
	})

	view := newTestPlayer(t, backend)
	require.NoError(t, view.Open(context.Background(), course.ID))

	// quiz lesson gets a fresh attempt
	require.NoError(t, view.SelectLesson("l2"))
	attempt := view.Attempt()
	require.NotNil(t, attempt)
	require.NoError(t, attempt.Answer(0, 1))

	// switching away always discards the attempt, answered or not
	require.NoError(t, view.SelectLesson("l1"))
	assert.Nil(t, view.Attempt())

	// coming back starts from scratch
	require.NoError(t, view.SelectLesson("l2"))
	require.NotNil(t, view.Attempt())
	assert.Zero(t, view.Attempt().Answered())
}

func TestLockedLessonNeedsEnrollment(t *testing.T) {
	course := twoSectionCourse()
	course.Sections[0].Lessons[0].IsPreview = true
	backend := newFakeBackend(t)
	details := &detailsResponder{}
	details.set(models.Enrollment{CourseID: course.ID, Course: course})
	details.install(backend, course.ID)
	backend.handle("GET", "/student/check-enrollment/"+course.ID, enrollmentSequence(0)) // never enrolled

	view := newTestPlayer(t, backend)
	require.NoError(t, view.Open(context.Background(), course.ID))
	assert.False(t, view.Enrolled())

	assert.NoError(t, view.SelectLesson("l1"), "preview lessons play without enrollment")
	assert.ErrorIs(t, view.SelectLesson("l2"), ErrLessonLocked)
}

func TestExpiredAccessRoutesBackThroughCheckout(t *testing.T) {
	course := twoSectionCourse()
	expired := time.Now().Add(-time.Hour)
	backend := newFakeBackend(t)
	details := &detailsResponder{}
	enrollment := enrolledDetails(course)
	enrollment.AccessExpiresAt = &expired
	details.set(enrollment)
	details.install(backend, course.ID)
	backend.handle("GET", "/student/check-enrollment/"+course.ID, enrollmentSequence(1))

	view := newTestPlayer(t, backend)
	require.NoError(t, view.Open(context.Background(), course.ID))
	assert.False(t, view.Enrolled(), "lapsed access is treated as not enrolled")
}

func TestCourseCompletionUnlocksCertificate(t *testing.T) {
	course := twoSectionCourse()
	backend := newFakeBackend(t)
	details := &detailsResponder{}
	details.set(enrolledDetails(course))
	details.install(backend, course.ID)
	backend.handle("GET", "/student/check-enrollment/"+course.ID, enrollmentSequence(1))
	backend.handle("GET", "/progress/"+course.ID, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, true, "", map[string]interface{}{
			"progress": map[string]interface{}{"courseId": course.ID, "completedLessons": []string{"l1", "l2"}, "progressPercentage": 67},
		})
	})
	backend.handle("POST", "/progress/complete-lesson", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, true, "", map[string]interface{}{
			"progress": map[string]interface{}{"courseId": course.ID, "completedLessons": []string{"l1", "l2", "l3"}, "progressPercentage": 100},
		})
	})
	backend.handle("POST", "/certificates/"+course.ID, func(w http.ResponseWriter, r *http.Request) {
		// the server flips the issuance flag; the refetch picks it up
		issued := enrolledDetails(course)
		issued.CertificateIssued = true
		details.set(issued)
		writeEnvelope(w, http.StatusOK, true, "", map[string]interface{}{
			"certificate": map[string]interface{}{"_id": "cert-1", "certificateNumber": "LMS-2026-0002"},
		})
	})

	view := newTestPlayer(t, backend)
	require.NoError(t, view.Open(context.Background(), course.ID))
	assert.False(t, view.CertificateAvailable(), "not available below 100%")

	require.NoError(t, view.SelectLesson("l3"))
	result, err := view.CompleteCurrent(context.Background())
	require.NoError(t, err)
	assert.True(t, result.CourseDone)
	assert.GreaterOrEqual(t, backend.count("GET", "/student/my-courses/"+course.ID), 2,
		"completion refetches course details")

	require.True(t, view.CertificateAvailable())
	cert, err := view.GenerateCertificate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "LMS-2026-0002", cert.CertificateNumber)

	// the refetched record says issued; the trigger disappears
	assert.False(t, view.CertificateAvailable())
	_, err = view.GenerateCertificate(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, backend.count("POST", "/certificates/"+course.ID))
}

func TestCompletionAdvancesSelectedLesson(t *testing.T) {
	course := twoSectionCourse()
	backend := newFakeBackend(t)
	details := &detailsResponder{}
	details.set(enrolledDetails(course))
	details.install(backend, course.ID)
	backend.handle("GET", "/student/check-enrollment/"+course.ID, enrollmentSequence(1))
	backend.handle("GET", "/progress/"+course.ID, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, true, "", map[string]interface{}{
			"progress": map[string]interface{}{"courseId": course.ID, "completedLessons": []string{}, "progressPercentage": 0},
		})
	})
	progressResponder(backend, course.ID, 100.0/3)

	view := newTestPlayer(t, backend)
	require.NoError(t, view.Open(context.Background(), course.ID))
	require.NoError(t, view.SelectLesson("l1"))

	result, err := view.CompleteCurrent(context.Background())
	require.NoError(t, err)
	require.True(t, result.HasNext)

	current, ok := view.CurrentLesson()
	require.True(t, ok)
	assert.Equal(t, "l2", current.ID, "the flow advances to the next lesson")
	assert.NotNil(t, view.Attempt(), "the quiz lesson arrives with a fresh attempt")
}
