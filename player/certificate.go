package player

import (
	"context"
	"errors"
	"sync"

	"lms/client"
	"lms/models"
)

// ErrGenerationInFlight rejects a second generate while one is still
// running. The server is the final authority against duplicate
// certificates, but without this guard a double-click would fire two
// generation calls before the enrollment refetch lands.
var ErrGenerationInFlight = errors.New("certificate generation already in progress")

// CertificateTrigger offers certificate generation once a course is
// fully complete
type CertificateTrigger struct {
	api *client.Client

	mu       sync.Mutex
	inFlight bool
}

func NewCertificateTrigger(api *client.Client) *CertificateTrigger {
	return &CertificateTrigger{api: api}
}

// Eligible reports whether the trigger may be offered at all: full
// progress, certificates enabled on the course, none issued yet. Any
// other combination hides the trigger entirely.
func (ct *CertificateTrigger) Eligible(enrollment *models.Enrollment, progress models.Progress) bool {
	if enrollment == nil || enrollment.Course == nil {
		return false
	}
	return progress.ProgressPercentage == 100 &&
		enrollment.Course.CertificateEnabled &&
		!enrollment.CertificateIssued
}

// Generate requests the certificate. Failure leaves the trigger
// available for retry; after success the caller refetches course
// details so certificateIssued flips and the trigger disappears.
func (ct *CertificateTrigger) Generate(ctx context.Context, courseID string) (*models.Certificate, error) {
	ct.mu.Lock()
	if ct.inFlight {
		ct.mu.Unlock()
		return nil, ErrGenerationInFlight
	}
	ct.inFlight = true
	ct.mu.Unlock()
	defer func() {
		ct.mu.Lock()
		ct.inFlight = false
		ct.mu.Unlock()
	}()

	return ct.api.GenerateCertificate(ctx, courseID)
}
