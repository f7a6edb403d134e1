package client

import (
	"context"
	"fmt"

	"lms/models"
)

// CreateOrderRequest is the order-create payload
type CreateOrderRequest struct {
	CourseID string `json:"courseId" validate:"required"`
}

// CreateOrderResult is the order-create response. ClientSecret is empty
// for free courses; for paid courses it binds the hosted payment flow.
type CreateOrderResult struct {
	Order        models.Order `json:"order"`
	ClientSecret string       `json:"clientSecret"`
}

// CreateOrder starts a purchase for the course. The idempotency key is
// generated once per enroll attempt so a client-side retry cannot open
// a second order for the same click.
func (c *Client) CreateOrder(ctx context.Context, courseID, idempotencyKey string) (*CreateOrderResult, error) {
	reqData := CreateOrderRequest{CourseID: courseID}
	if err := c.validate.Struct(reqData); err != nil {
		return nil, fmt.Errorf("invalid order request: %w", err)
	}

	var data CreateOrderResult
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Idempotency-Key", idempotencyKey).
		SetBody(reqData).
		Post("/orders")
	if derr := c.decode(resp, err, &data); derr != nil {
		return nil, derr
	}
	return &data, nil
}
