package player

import (
	"context"
	"log"

	"lms/client"
	"lms/models"
)

// Gate decides whether the viewer may open paid course content
type Gate struct {
	api *client.Client
}

func NewGate(api *client.Client) *Gate {
	return &Gate{api: api}
}

// CheckAccess probes the viewer's enrollment. It fails open to "not
// enrolled": a signed-out or errored viewer is offered the purchase
// path instead of an error page, so this never returns an error.
func (g *Gate) CheckAccess(ctx context.Context, courseID string) bool {
	enrolled, err := g.api.CheckEnrollment(ctx, courseID)
	if err != nil {
		log.Printf("[GATE] enrollment check failed for course %s: %v", courseID, err)
		return false
	}
	return enrolled
}

// CanPlay gates a single lesson: enrolled viewers play everything,
// everyone else only preview lessons
func (g *Gate) CanPlay(lesson models.Lesson, enrolled bool) bool {
	return enrolled || lesson.IsPreview
}
