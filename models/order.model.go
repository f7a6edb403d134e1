package models

// Order statuses (terminal: completed, failed, refunded)
const (
	OrderPending   = "pending"
	OrderCompleted = "completed"
	OrderFailed    = "failed"
	OrderRefunded  = "refunded"
)

// Order represents a purchase transaction for a course. The client
// never mutates Status; it only observes the outcome indirectly through
// the enrollment check.
type Order struct {
	ID       string  `json:"_id"`
	CourseID string  `json:"courseId"`
	Amount   float64 `json:"amount"`
	Status   string  `json:"status"`
}
