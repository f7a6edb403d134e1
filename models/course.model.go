package models

// Lesson content types
const (
	LessonTypeVideo      = "video"
	LessonTypeQuiz       = "quiz"
	LessonTypeReading    = "reading"
	LessonTypeAssignment = "assignment"
)

// Course represents a learning course as served by the backend
type Course struct {
	ID                 string    `json:"_id"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	Author             string    `json:"author"`
	Price              float64   `json:"price"`
	IsFree             bool      `json:"isFree"`
	CertificateEnabled bool      `json:"certificateEnabled"`
	MaxEnrollments     int       `json:"maxEnrollments"` // 0 means uncapped
	EnrollmentCount    int       `json:"enrollmentCount"`
	ThumbnailURL       string    `json:"thumbnailUrl"`
	Sections           []Section `json:"sections"`
}

// Section represents an ordered group of lessons within a course
type Section struct {
	ID      string   `json:"_id"`
	Title   string   `json:"title"`
	Order   int      `json:"order"`
	Lessons []Lesson `json:"lessons"`
}

// Lesson represents an atomic unit of course content
type Lesson struct {
	ID        string `json:"_id"`
	Title     string `json:"title"`
	Type      string `json:"type"` // video, quiz, reading, assignment
	Duration  int    `json:"duration"`
	IsPreview bool   `json:"isPreview"`
	Quiz      *Quiz  `json:"quiz,omitempty"` // only set for quiz lessons
}

// Quiz holds the question set attached to a quiz lesson
type Quiz struct {
	Questions    []QuizQuestion `json:"questions"`
	PassingScore int            `json:"passingScore"` // percentage 0-100
}

// QuizQuestion is a single multiple-choice question
type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"` // index into Options
	Explanation   string   `json:"explanation"`
}

// IsFull reports whether the course's enrollment cap has been reached
func (c *Course) IsFull() bool {
	return c.MaxEnrollments > 0 && c.EnrollmentCount >= c.MaxEnrollments
}

// FindLesson looks a lesson up by ID across all sections
func (c *Course) FindLesson(lessonID string) (Lesson, bool) {
	for _, sec := range c.Sections {
		for _, les := range sec.Lessons {
			if les.ID == lessonID {
				return les, true
			}
		}
	}
	return Lesson{}, false
}

// LessonAfter returns the lesson that follows lessonID in document
// order: the next lesson within its section, else the first lesson of
// the next section. The boolean is false when lessonID is the last
// lesson of the course (or unknown).
func (c *Course) LessonAfter(lessonID string) (Lesson, bool) {
	for si, sec := range c.Sections {
		for li, les := range sec.Lessons {
			if les.ID != lessonID {
				continue
			}
			if li+1 < len(sec.Lessons) {
				return sec.Lessons[li+1], true
			}
			for _, next := range c.Sections[si+1:] {
				if len(next.Lessons) > 0 {
					return next.Lessons[0], true
				}
			}
			return Lesson{}, false
		}
	}
	return Lesson{}, false
}

// TotalLessons counts lessons across all sections
func (c *Course) TotalLessons() int {
	total := 0
	for _, sec := range c.Sections {
		total += len(sec.Lessons)
	}
	return total
}
