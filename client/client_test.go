package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func respond(t *testing.T, status int, success bool, message string, data interface{}) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		err := json.NewEncoder(w).Encode(map[string]interface{}{
			"success": success,
			"message": message,
			"data":    data,
		})
		require.NoError(t, err)
	}
}

func TestCheckEnrollmentDecodesEnvelope(t *testing.T) {
	srv := httptest.NewServer(respond(t, http.StatusOK, true, "", map[string]interface{}{"isEnrolled": true}))
	defer srv.Close()

	api := New(srv.URL, time.Second)
	enrolled, err := api.CheckEnrollment(context.Background(), "course-1")
	require.NoError(t, err)
	assert.True(t, enrolled)
}

func TestUnauthorizedMapsToSentinel(t *testing.T) {
	srv := httptest.NewServer(respond(t, http.StatusUnauthorized, false, "Unauthorized!", nil))
	defer srv.Close()

	api := New(srv.URL, time.Second)
	_, err := api.CheckEnrollment(context.Background(), "course-1")
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.False(t, IsBusinessError(err), "401 is a session problem, not a business rejection")
}

func TestBusinessFailureKeepsServerMessage(t *testing.T) {
	srv := httptest.NewServer(respond(t, http.StatusConflict, false, "User already enrolled in this course!", nil))
	defer srv.Close()

	api := New(srv.URL, time.Second)
	_, err := api.CreateOrder(context.Background(), "course-1", "key-1")
	require.Error(t, err)
	assert.True(t, IsBusinessError(err))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "User already enrolled in this course!", apiErr.Message)
}

func TestServerFailureIsNotBusiness(t *testing.T) {
	srv := httptest.NewServer(respond(t, http.StatusInternalServerError, false, "boom", nil))
	defer srv.Close()

	api := New(srv.URL, time.Second)
	_, err := api.GetProgress(context.Background(), "course-1")
	require.Error(t, err)
	assert.False(t, IsBusinessError(err))
}

func TestEnvelopeFailureBeatsHTTPSuccess(t *testing.T) {
	// some endpoints report failure inside a 200 envelope
	srv := httptest.NewServer(respond(t, http.StatusOK, false, "Quiz not passed!", nil))
	defer srv.Close()

	api := New(srv.URL, time.Second)
	_, err := api.GetProgress(context.Background(), "course-1")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Quiz not passed!", apiErr.Message)
}

func TestTransportErrorIsWrapped(t *testing.T) {
	srv := httptest.NewServer(respond(t, http.StatusOK, true, "", nil))
	api := New(srv.URL, time.Second)
	srv.Close()

	_, err := api.CheckEnrollment(context.Background(), "course-1")
	require.Error(t, err)
	assert.False(t, IsBusinessError(err))
	assert.NotErrorIs(t, err, ErrUnauthorized)
}

func TestCreateOrderValidatesBeforeSending(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer srv.Close()

	api := New(srv.URL, time.Second)
	_, err := api.CreateOrder(context.Background(), "", "key-1")
	require.Error(t, err)
	assert.Zero(t, hits, "an empty course id never reaches the wire")
}

func TestCompleteLessonValidatesPercentageRange(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer srv.Close()

	api := New(srv.URL, time.Second)
	_, err := api.CompleteLesson(context.Background(), CompleteLessonRequest{
		CourseID:        "course-1",
		LessonID:        "l1",
		WatchPercentage: 130,
	})
	require.Error(t, err)
	assert.Zero(t, hits)
}

func TestCompleteLessonSendsQuizScoreWhenSet(t *testing.T) {
	var body map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var decoded map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&decoded))
		body = decoded
		respond(t, http.StatusOK, true, "", map[string]interface{}{
			"progress": map[string]interface{}{"courseId": "course-1", "completedLessons": []string{"l1"}, "progressPercentage": 50},
		})(w, r)
	}))
	defer srv.Close()

	api := New(srv.URL, time.Second)
	score := 75
	progress, err := api.CompleteLesson(context.Background(), CompleteLessonRequest{
		CourseID:        "course-1",
		LessonID:        "l1",
		WatchTime:       90,
		WatchPercentage: 100,
		QuizScore:       &score,
	})
	require.NoError(t, err)
	assert.Equal(t, float64(50), progress.ProgressPercentage)
	assert.Equal(t, float64(75), body["quizScore"])

	// and omitted entirely for non-quiz lessons
	_, err = api.CompleteLesson(context.Background(), CompleteLessonRequest{
		CourseID: "course-1", LessonID: "l1",
	})
	require.NoError(t, err)
	_, present := body["quizScore"]
	assert.False(t, present)
}
