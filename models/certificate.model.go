package models

import "time"

// Certificate represents an issued certificate for course completion
type Certificate struct {
	ID                string    `json:"_id"`
	CourseID          string    `json:"courseId"`
	CertificateURL    string    `json:"certificateUrl"`
	CertificateNumber string    `json:"certificateNumber"`
	IssuedAt          time.Time `json:"issuedAt"`
}
