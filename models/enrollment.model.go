package models

import "time"

// Enrollment tracks a user's access to a course with progress
type Enrollment struct {
	CourseID           string     `json:"courseId"`
	UserID             string     `json:"userId"`
	IsEnrolled         bool       `json:"isEnrolled"`
	CertificateIssued  bool       `json:"certificateIssued"`
	ProgressPercentage float64    `json:"progressPercentage"` // 0-100
	AccessExpiresAt    *time.Time `json:"accessExpiresAt,omitempty"`
	EnrolledAt         time.Time  `json:"enrolledAt"`
	Course             *Course    `json:"course,omitempty"`
}

// AccessExpired reports whether a time-limited enrollment has lapsed.
// Enrollments without an expiry never expire.
func (e *Enrollment) AccessExpired() bool {
	return e.AccessExpiresAt != nil && e.AccessExpiresAt.Before(time.Now())
}

// Progress is the server's record of completed lessons for one course
type Progress struct {
	CourseID           string   `json:"courseId"`
	CompletedLessons   []string `json:"completedLessons"`
	ProgressPercentage float64  `json:"progressPercentage"` // 0-100
}

// IsCompleted reports whether the given lesson is in the completed set
func (p *Progress) IsCompleted(lessonID string) bool {
	for _, id := range p.CompletedLessons {
		if id == lessonID {
			return true
		}
	}
	return false
}

// Complete reports whether every lesson in the course is done
func (p *Progress) Complete() bool {
	return p.ProgressPercentage >= 100
}
