package client

import (
	"context"

	"lms/models"
)

// CheckEnrollment probes whether the viewer may access the course.
// Read-only; callers decide how to treat errors (the gate fails open).
func (c *Client) CheckEnrollment(ctx context.Context, courseID string) (bool, error) {
	var data struct {
		IsEnrolled bool `json:"isEnrolled"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		Get("/student/check-enrollment/" + courseID)
	if derr := c.decode(resp, err, &data); derr != nil {
		return false, derr
	}
	return data.IsEnrolled, nil
}

// GetMyCourseDetails fetches the viewer's enrollment record with the
// embedded course content
func (c *Client) GetMyCourseDetails(ctx context.Context, courseID string) (*models.Enrollment, error) {
	var data struct {
		Enrollment models.Enrollment `json:"enrollment"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		Get("/student/my-courses/" + courseID)
	if derr := c.decode(resp, err, &data); derr != nil {
		return nil, derr
	}
	return &data.Enrollment, nil
}
