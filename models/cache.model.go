package models

import (
	"time"

	"gorm.io/gorm"
)

// ProgressSnapshot is the locally cached copy of a course's Progress.
// It lets the player render resume state before the first fetch
// completes; server responses always overwrite it.
type ProgressSnapshot struct {
	gorm.Model
	CourseID           string  `json:"course_id" gorm:"uniqueIndex;not null"`
	CompletedLessons   string  `json:"completed_lessons"` // JSON array of lesson IDs
	ProgressPercentage float64 `json:"progress_percentage" gorm:"default:0"`
}

// WatchSample buffers a video watch position until the autosave
// flusher ships it to the backend
type WatchSample struct {
	gorm.Model
	SampleID        string  `json:"sample_id" gorm:"uniqueIndex;not null"`
	CourseID        string  `json:"course_id" gorm:"index;not null"`
	LessonID        string  `json:"lesson_id" gorm:"index;not null"`
	WatchTime       int     `json:"watch_time"` // seconds watched
	WatchPercentage float64 `json:"watch_percentage"`
	Flushed         bool    `json:"flushed" gorm:"default:false"`
}

// DailyWatchStat accumulates study time per calendar day
type DailyWatchStat struct {
	gorm.Model
	Day     time.Time `json:"day" gorm:"uniqueIndex;not null"` // beginning of day
	Seconds int       `json:"seconds" gorm:"default:0"`
}
