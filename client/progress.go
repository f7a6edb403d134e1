package client

import (
	"context"
	"fmt"

	"lms/models"
)

// CompleteLessonRequest is the complete-lesson payload. QuizScore is
// only set for quiz lessons; the caller enforces the passing threshold
// before this request is ever built.
type CompleteLessonRequest struct {
	CourseID        string  `json:"courseId" validate:"required"`
	LessonID        string  `json:"lessonId" validate:"required"`
	WatchTime       int     `json:"watchTime" validate:"min=0"`
	WatchPercentage float64 `json:"watchPercentage" validate:"min=0,max=100"`
	QuizScore       *int    `json:"quizScore,omitempty"`
}

// GetProgress fetches the authoritative progress record for a course
func (c *Client) GetProgress(ctx context.Context, courseID string) (*models.Progress, error) {
	var data struct {
		Progress models.Progress `json:"progress"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		Get("/progress/" + courseID)
	if derr := c.decode(resp, err, &data); derr != nil {
		return nil, derr
	}
	return &data.Progress, nil
}

// CompleteLesson records a lesson completion and returns the updated
// Progress echoed by the server. The local percentage is never computed
// client-side; the response replaces local state wholesale.
func (c *Client) CompleteLesson(ctx context.Context, reqData CompleteLessonRequest) (*models.Progress, error) {
	if err := c.validate.Struct(reqData); err != nil {
		return nil, fmt.Errorf("invalid completion request: %w", err)
	}

	var data struct {
		Progress models.Progress `json:"progress"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(reqData).
		Post("/progress/complete-lesson")
	if derr := c.decode(resp, err, &data); derr != nil {
		return nil, derr
	}
	return &data.Progress, nil
}

// RecordWatch ships one buffered watch position to the backend
func (c *Client) RecordWatch(ctx context.Context, sample models.WatchSample) error {
	body := map[string]interface{}{
		"courseId":        sample.CourseID,
		"lessonId":        sample.LessonID,
		"watchTime":       sample.WatchTime,
		"watchPercentage": sample.WatchPercentage,
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		Post("/progress/watch")
	return c.decode(resp, err, nil)
}
