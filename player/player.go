package player

import (
	"context"
	"errors"
	"fmt"
	"log"

	"lms/client"
	"lms/models"
	"lms/store"
)

// Web app paths the flow navigates to
const (
	PathMyCourses    = "/my-courses"
	PathOrderPending = "/my-courses?status=processing" // holding page while the webhook catches up
)

// ErrLessonLocked rejects opening a non-preview lesson without
// enrollment
var ErrLessonLocked = errors.New("enroll in the course to open this lesson")

// Player is the course view: it owns the course snapshot, the current
// lesson, the quiz attempt for that lesson and the trackers around
// them. One Player per opened course.
type Player struct {
	api   *client.Client
	cache *store.Store

	gate     *Gate
	checkout *Checkout
	tracker  *Tracker
	certs    *CertificateTrigger

	course     *models.Course
	enrollment *models.Enrollment
	enrolled   bool

	currentLesson models.Lesson
	hasLesson     bool
	attempt       *QuizAttempt // quiz state for the lesson on screen
}

// NewPlayer wires a player over shared infrastructure. cache may be
// nil (no offline snapshot, no watch buffering).
func NewPlayer(api *client.Client, cache *store.Store, checkout *Checkout) *Player {
	return &Player{
		api:      api,
		cache:    cache,
		gate:     NewGate(api),
		checkout: checkout,
		certs:    NewCertificateTrigger(api),
	}
}

// Open loads the course view: enrollment record, access gate and,
// when enrolled, the progress record
func (p *Player) Open(ctx context.Context, courseID string) error {
	enrollment, err := p.api.GetMyCourseDetails(ctx, courseID)
	if err != nil {
		return fmt.Errorf("failed to load course %s: %w", courseID, err)
	}
	if enrollment.Course == nil {
		return fmt.Errorf("course %s has no content", courseID)
	}
	p.enrollment = enrollment
	p.course = enrollment.Course

	p.enrolled = p.gate.CheckAccess(ctx, courseID)
	if p.enrolled && enrollment.AccessExpired() {
		// lapsed access routes the viewer back through checkout
		log.Printf("[PLAYER] access to course %s expired", courseID)
		p.enrolled = false
	}

	p.tracker = NewTracker(p.api, p.cache, courseID)
	if p.enrolled {
		if err := p.tracker.Load(ctx); err != nil {
			log.Printf("[PLAYER] failed to load progress for course %s: %v", courseID, err)
		}
	}
	return nil
}

// Course returns the loaded course
func (p *Player) Course() *models.Course {
	return p.course
}

// Enrollment returns the loaded enrollment record
func (p *Player) Enrollment() *models.Enrollment {
	return p.enrollment
}

// Enrolled reports the gate's verdict for this view
func (p *Player) Enrolled() bool {
	return p.enrolled
}

// Progress returns the tracker's current record
func (p *Player) Progress() models.Progress {
	if p.tracker == nil {
		return models.Progress{}
	}
	return p.tracker.Progress()
}

// Enroll runs the checkout flow and, on success, re-opens the view as
// an enrolled student
func (p *Player) Enroll(ctx context.Context, returnPath string) EnrollResult {
	result := p.checkout.Enroll(ctx, p.course, returnPath)
	if result.Outcome == OutcomeEnrolled {
		if err := p.Open(ctx, p.course.ID); err != nil {
			log.Printf("[PLAYER] refresh after enroll failed: %v", err)
		}
	}
	return result
}

// NavigationFor maps an enroll outcome to the web path the UI moves to
func NavigationFor(result EnrollResult) string {
	switch result.Outcome {
	case OutcomeEnrolled:
		return PathMyCourses
	case OutcomeConfirmationPending:
		return PathOrderPending
	case OutcomeLoginRequired:
		return result.LoginURL
	default:
		return ""
	}
}

// SelectLesson puts a lesson on screen. The previous lesson's quiz
// attempt is always discarded, whatever its state. Quiz lessons get a
// fresh attempt; a quiz lesson with no questions is unplayable.
func (p *Player) SelectLesson(lessonID string) error {
	lesson, ok := p.course.FindLesson(lessonID)
	if !ok {
		return fmt.Errorf("lesson %s not found in course %s", lessonID, p.course.ID)
	}
	if !p.gate.CanPlay(lesson, p.enrolled) {
		return ErrLessonLocked
	}

	p.attempt = nil
	if lesson.Type == models.LessonTypeQuiz {
		attempt, err := NewQuizAttempt(lesson.Quiz)
		if err != nil {
			return fmt.Errorf("cannot open quiz lesson %s: %w", lessonID, err)
		}
		p.attempt = attempt
	}

	p.currentLesson = lesson
	p.hasLesson = true
	return nil
}

// CurrentLesson returns the lesson on screen
func (p *Player) CurrentLesson() (models.Lesson, bool) {
	return p.currentLesson, p.hasLesson
}

// Attempt returns the quiz state for the lesson on screen (nil for
// non-quiz lessons)
func (p *Player) Attempt() *QuizAttempt {
	return p.attempt
}

// Watch buffers a video watch position for the lesson on screen
func (p *Player) Watch(seconds int, percentage float64) error {
	if !p.hasLesson || p.currentLesson.Type != models.LessonTypeVideo {
		return nil
	}
	if p.cache == nil {
		return nil
	}
	return p.cache.RecordWatch(p.course.ID, p.currentLesson.ID, seconds, percentage)
}

// CompleteCurrent marks the lesson on screen complete and advances to
// the next lesson in document order. Completing the last lesson
// refetches course details so server-side side effects (an auto-issued
// certificate) reach the view.
func (p *Player) CompleteCurrent(ctx context.Context) (*Completion, error) {
	if !p.hasLesson {
		return nil, errors.New("no lesson selected")
	}

	watchTime, watchPercentage := 0, float64(0)
	if p.cache != nil && p.currentLesson.Type == models.LessonTypeVideo {
		var err error
		watchTime, watchPercentage, err = p.cache.WatchSummary(p.course.ID, p.currentLesson.ID)
		if err != nil {
			log.Printf("[PLAYER] watch summary unavailable: %v", err)
		}
	}

	result, err := p.tracker.CompleteLesson(ctx, p.course, p.currentLesson.ID, watchTime, watchPercentage, p.attempt)
	if err != nil {
		return nil, err
	}

	if result.CourseDone {
		if err := p.refreshDetails(ctx); err != nil {
			log.Printf("[PLAYER] refresh after completion failed: %v", err)
		}
		return result, nil
	}

	if result.HasNext {
		if err := p.SelectLesson(result.NextLesson.ID); err != nil {
			log.Printf("[PLAYER] failed to advance to lesson %s: %v", result.NextLesson.ID, err)
		}
	}
	return result, nil
}

// CertificateAvailable reports whether the certificate trigger should
// be rendered at all
func (p *Player) CertificateAvailable() bool {
	if p.tracker == nil {
		return false
	}
	return p.certs.Eligible(p.enrollment, p.tracker.Progress())
}

// GenerateCertificate requests the certificate and refreshes the view
// so certificateIssued flips. The trigger stays retryable on failure.
func (p *Player) GenerateCertificate(ctx context.Context) (*models.Certificate, error) {
	if !p.CertificateAvailable() {
		return nil, errors.New("certificate is not available for this course")
	}
	cert, err := p.certs.Generate(ctx, p.course.ID)
	if err != nil {
		return nil, err
	}
	if err := p.refreshDetails(ctx); err != nil {
		log.Printf("[PLAYER] refresh after certificate failed: %v", err)
	}
	return cert, nil
}

// refreshDetails refetches the enrollment record without touching the
// lesson on screen
func (p *Player) refreshDetails(ctx context.Context) error {
	enrollment, err := p.api.GetMyCourseDetails(ctx, p.course.ID)
	if err != nil {
		return err
	}
	if enrollment.Course != nil {
		p.course = enrollment.Course
	}
	p.enrollment = enrollment
	return nil
}
