package client

import (
	"context"

	"lms/models"
)

// GenerateCertificate asks the server to issue the course certificate.
// The server is the sole authority against duplicates; the caller keeps
// an in-flight guard so a double-click cannot fire two of these.
func (c *Client) GenerateCertificate(ctx context.Context, courseID string) (*models.Certificate, error) {
	var data struct {
		Certificate models.Certificate `json:"certificate"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		Post("/certificates/" + courseID)
	if derr := c.decode(resp, err, &data); derr != nil {
		return nil, derr
	}
	return &data.Certificate, nil
}
