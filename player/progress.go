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

// ErrQuizNotPassed rejects completion of a quiz lesson whose attempt
// has not been submitted with a passing score. No network call is made.
var ErrQuizNotPassed = errors.New("quiz must be passed before completing this lesson")

// Tracker mirrors the server's progress record for one course. The
// server recomputes the percentage after every completion and the
// tracker replaces its state with the echoed response, so local and
// server rounding can never drift apart.
type Tracker struct {
	api      *client.Client
	cache    *store.Store // optional; nil disables the offline snapshot
	courseID string
	progress models.Progress
	loaded   bool
}

// Completion describes what happened after a successful lesson
// completion and where the flow goes next
type Completion struct {
	Progress   models.Progress
	CourseDone bool          // percentage reached 100
	NextLesson models.Lesson // meaningful only when HasNext
	HasNext    bool
}

// NewTracker builds a tracker for one course
func NewTracker(api *client.Client, cache *store.Store, courseID string) *Tracker {
	return &Tracker{api: api, cache: cache, courseID: courseID}
}

// Load fetches the authoritative progress. When the backend is not
// reachable the cached snapshot (if any) stands in, so the player can
// still render resume state; the next successful call overwrites it.
func (t *Tracker) Load(ctx context.Context) error {
	progress, err := t.api.GetProgress(ctx, t.courseID)
	if err != nil {
		if t.cache != nil {
			if cached, cerr := t.cache.LoadProgress(t.courseID); cerr == nil && cached != nil {
				log.Printf("[PROGRESS] using cached snapshot for course %s: %v", t.courseID, err)
				t.progress = *cached
				t.loaded = true
				return nil
			}
		}
		return err
	}

	t.replace(*progress)
	return nil
}

// Progress returns a copy of the current record
func (t *Tracker) Progress() models.Progress {
	p := t.progress
	p.CompletedLessons = append([]string(nil), t.progress.CompletedLessons...)
	return p
}

// Loaded reports whether any progress (fetched or cached) is held
func (t *Tracker) Loaded() bool {
	return t.loaded
}

// IsCompleted reports whether the lesson is in the completed set
func (t *Tracker) IsCompleted(lessonID string) bool {
	return t.progress.IsCompleted(lessonID)
}

// CompleteLesson records a completion with the server and advances the
// flow. For quiz lessons the attempt must be submitted and passing,
// enforced here before any network call. The server's response
// replaces local state wholesale; when it brings the course to 100%
// the caller refetches course details to pick up server-side side
// effects such as an auto-issued certificate.
func (t *Tracker) CompleteLesson(ctx context.Context, course *models.Course, lessonID string, watchTime int, watchPercentage float64, attempt *QuizAttempt) (*Completion, error) {
	lesson, ok := course.FindLesson(lessonID)
	if !ok {
		return nil, fmt.Errorf("lesson %s not found in course %s", lessonID, course.ID)
	}

	reqData := client.CompleteLessonRequest{
		CourseID:        course.ID,
		LessonID:        lessonID,
		WatchTime:       watchTime,
		WatchPercentage: watchPercentage,
	}
	if lesson.Type == models.LessonTypeQuiz {
		if attempt == nil || !attempt.Passed() {
			return nil, ErrQuizNotPassed
		}
		score := attempt.Score()
		reqData.QuizScore = &score
	}

	progress, err := t.api.CompleteLesson(ctx, reqData)
	if err != nil {
		return nil, err
	}
	t.replace(*progress)

	result := &Completion{Progress: t.Progress()}
	if progress.Complete() {
		result.CourseDone = true
		return result, nil
	}

	if next, ok := course.LessonAfter(lessonID); ok {
		result.NextLesson = next
		result.HasNext = true
	}
	return result, nil
}

// replace swaps in the server's record and refreshes the offline
// snapshot. Never merges: the response is the whole truth.
func (t *Tracker) replace(p models.Progress) {
	t.progress = p
	t.loaded = true
	if t.cache != nil {
		if err := t.cache.SaveProgress(p); err != nil {
			log.Printf("[PROGRESS] failed to cache snapshot for course %s: %v", t.courseID, err)
		}
	}
}
