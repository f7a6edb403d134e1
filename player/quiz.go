package player

import (
	"errors"
	"fmt"
	"math"

	"lms/models"
)

var (
	// ErrEmptyQuiz rejects quizzes with no questions at attempt
	// construction, so scoring can never divide by zero
	ErrEmptyQuiz = errors.New("quiz has no questions")

	// ErrAlreadySubmitted guards against re-submission; one attempt
	// scores exactly once
	ErrAlreadySubmitted = errors.New("quiz already submitted")

	// ErrUnanswered rejects partial submissions with no network call
	ErrUnanswered = errors.New("answer every question before submitting")
)

// QuizAttempt holds the ephemeral answer state for one quiz lesson.
// It lives only while that lesson is on screen; switching lessons
// discards it (the player constructs a fresh attempt per lesson).
type QuizAttempt struct {
	quiz      *models.Quiz
	answers   map[int]int // question index -> chosen option index
	submitted bool
	score     int // 0-100, meaningful only after submission
}

// NewQuizAttempt starts an attempt for a quiz lesson
func NewQuizAttempt(quiz *models.Quiz) (*QuizAttempt, error) {
	if quiz == nil || len(quiz.Questions) == 0 {
		return nil, ErrEmptyQuiz
	}
	return &QuizAttempt{
		quiz:    quiz,
		answers: make(map[int]int),
	}, nil
}

// Answer records the chosen option for a question. Choosing again
// before submission overwrites the earlier choice.
func (a *QuizAttempt) Answer(question, option int) error {
	if a.submitted {
		return ErrAlreadySubmitted
	}
	if question < 0 || question >= len(a.quiz.Questions) {
		return fmt.Errorf("quiz has no question %d", question)
	}
	if option < 0 || option >= len(a.quiz.Questions[question].Options) {
		return fmt.Errorf("question %d has no option %d", question, option)
	}
	a.answers[question] = option
	return nil
}

// Answered reports how many questions have an answer so far
func (a *QuizAttempt) Answered() int {
	return len(a.answers)
}

// CanSubmit reports whether every question has an answer and the
// attempt has not been scored yet
func (a *QuizAttempt) CanSubmit() bool {
	return !a.submitted && len(a.answers) == len(a.quiz.Questions)
}

// Submit scores the attempt: round(100 * matches / total). The attempt
// transitions to submitted, after which answers are frozen and a
// second Submit fails.
func (a *QuizAttempt) Submit() (int, error) {
	if a.submitted {
		return 0, ErrAlreadySubmitted
	}
	if len(a.answers) != len(a.quiz.Questions) {
		return 0, ErrUnanswered
	}

	matches := 0
	for i, q := range a.quiz.Questions {
		if a.answers[i] == q.CorrectAnswer {
			matches++
		}
	}
	a.score = int(math.Round(float64(matches) / float64(len(a.quiz.Questions)) * 100))
	a.submitted = true
	return a.score, nil
}

// Submitted reports whether the attempt has been scored
func (a *QuizAttempt) Submitted() bool {
	return a.submitted
}

// Score returns the recorded score; zero until submission
func (a *QuizAttempt) Score() int {
	return a.score
}

// Passed reports whether the submitted score clears the quiz's passing
// threshold. Always false before submission.
func (a *QuizAttempt) Passed() bool {
	return a.submitted && a.score >= a.quiz.PassingScore
}
