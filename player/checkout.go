package player

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"lms/client"
	"lms/models"
	"lms/payment"
	"lms/session"
)

// CheckoutState is the orchestrator's position in the purchase flow
type CheckoutState int

const (
	StateIdle CheckoutState = iota
	StateCreating
	StateAwaitingPayment
	StatePolling
	StateDone
	StateCancelled
	StateFailed
)

func (s CheckoutState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCreating:
		return "creating"
	case StateAwaitingPayment:
		return "awaiting_payment"
	case StatePolling:
		return "polling"
	case StateDone:
		return "done"
	case StateCancelled:
		return "cancelled"
	default:
		return "failed"
	}
}

// EnrollOutcome tells the UI which message and navigation to show.
// Each business rejection gets its own outcome so none of them can be
// collapsed into generic failure text.
type EnrollOutcome int

const (
	OutcomeEnrolled            EnrollOutcome = iota
	OutcomeLoginRequired                     // not signed in; redirect with return path
	OutcomeCourseFull                        // enrollment cap reached, no call made
	OutcomePaymentCancelled                  // shopper abandoned the payment page
	OutcomeConfirmationPending               // polls exhausted; webhook still processing
	OutcomeAborted                           // view unmounted mid-flow
	OutcomeBusy                              // re-entrant enroll while one is running
	OutcomeFailed                            // order-create or payment error, retryable
)

// EnrollResult is what one Enroll call resolves to
type EnrollResult struct {
	Outcome  EnrollOutcome
	LoginURL string        // set for OutcomeLoginRequired
	Message  string        // user-facing text for rejections and failures
	Order    *models.Order // set once order-create succeeded
}

// PaymentHandler runs the hosted payment flow for an order's client
// secret. The hosted page is opaque; only its final verdict comes back.
type PaymentHandler interface {
	Collect(ctx context.Context, clientSecret string) (payment.Result, error)
}

// Checkout drives enrollment for one course at a time: order creation,
// the free-vs-paid branch, the hosted payment handoff and the bounded
// enrollment poll that follows it.
type Checkout struct {
	api        *client.Client
	sess       *session.Session
	payments   PaymentHandler
	poller     Poller
	webBaseURL string

	mu       sync.Mutex
	state    CheckoutState
	inFlight bool
}

// NewCheckout wires an orchestrator. attempts/interval bound the
// post-payment enrollment poll.
func NewCheckout(api *client.Client, sess *session.Session, payments PaymentHandler, webBaseURL string, attempts int, interval time.Duration) *Checkout {
	return &Checkout{
		api:        api,
		sess:       sess,
		payments:   payments,
		poller:     Poller{Attempts: attempts, Interval: interval},
		webBaseURL: webBaseURL,
		state:      StateIdle,
	}
}

// State reports the current machine state
func (co *Checkout) State() CheckoutState {
	co.mu.Lock()
	defer co.mu.Unlock()
	return co.state
}

func (co *Checkout) setState(s CheckoutState) {
	co.mu.Lock()
	co.state = s
	co.mu.Unlock()
	log.Printf("[CHECKOUT] state -> %s", s)
}

// Enroll runs the whole purchase flow for the course. Re-entrant calls
// while one is running are no-ops (OutcomeBusy), so a double click can
// never open a second order. Cancelling ctx aborts at the next
// transition without leaving a half-applied state.
func (co *Checkout) Enroll(ctx context.Context, course *models.Course, returnPath string) EnrollResult {
	co.mu.Lock()
	if co.inFlight {
		co.mu.Unlock()
		return EnrollResult{Outcome: OutcomeBusy}
	}
	co.inFlight = true
	co.mu.Unlock()
	defer func() {
		co.mu.Lock()
		co.inFlight = false
		co.mu.Unlock()
	}()

	// Both preconditions resolve locally, before any network call
	if !co.sess.IsAuthenticated() {
		return EnrollResult{
			Outcome:  OutcomeLoginRequired,
			LoginURL: session.LoginURL(co.webBaseURL, returnPath),
			Message:  "Please sign in to enroll.",
		}
	}
	if course.IsFull() {
		return EnrollResult{
			Outcome: OutcomeCourseFull,
			Message: "This course is full!",
		}
	}

	co.setState(StateCreating)
	order, err := co.api.CreateOrder(ctx, course.ID, uuid.NewString())
	if err != nil {
		log.Printf("[CHECKOUT] order create failed for course %s: %v", course.ID, err)
		// errors at order-create reset to idle so enroll stays retryable
		co.setState(StateIdle)
		return EnrollResult{Outcome: OutcomeFailed, Message: enrollFailureMessage(err)}
	}

	// Free course: no payment step, the viewer is enrolled right away
	if order.ClientSecret == "" {
		co.setState(StateDone)
		return EnrollResult{Outcome: OutcomeEnrolled, Order: &order.Order}
	}

	co.setState(StateAwaitingPayment)
	verdict, perr := co.payments.Collect(ctx, order.ClientSecret)
	if perr != nil {
		co.setState(StateCancelled)
		return EnrollResult{Outcome: OutcomeAborted, Order: &order.Order}
	}
	switch verdict {
	case payment.Cancelled:
		co.setState(StateCancelled)
		return EnrollResult{
			Outcome: OutcomePaymentCancelled,
			Message: "Payment cancelled.",
			Order:   &order.Order,
		}
	case payment.Failed:
		co.setState(StateIdle)
		return EnrollResult{
			Outcome: OutcomeFailed,
			Message: "Payment failed. Please try again.",
			Order:   &order.Order,
		}
	}

	// Payment succeeded; confirmation arrives via webhook, so poll the
	// enrollment check a bounded number of times
	co.setState(StatePolling)
	gate := NewGate(co.api)
	attempt := 0
	task := co.poller.Start(ctx, func(pctx context.Context) bool {
		attempt++
		log.Printf("[CHECKOUT] enrollment poll %d/%d for course %s", attempt, co.poller.Attempts, course.ID)
		return gate.CheckAccess(pctx, course.ID)
	})

	switch task.Wait() {
	case PollConfirmed:
		co.setState(StateDone)
		return EnrollResult{Outcome: OutcomeEnrolled, Order: &order.Order}
	case PollCancelled:
		co.setState(StateCancelled)
		return EnrollResult{Outcome: OutcomeAborted, Order: &order.Order}
	default:
		co.setState(StateFailed)
		return EnrollResult{
			Outcome: OutcomeConfirmationPending,
			Message: "Your payment is taking longer than expected to confirm. Check \"My Courses\" in a little while.",
			Order:   &order.Order,
		}
	}
}

// enrollFailureMessage keeps server-side business rejections (course
// full, already enrolled) verbatim and hides transport noise behind a
// generic notice
func enrollFailureMessage(err error) string {
	if client.IsBusinessError(err) {
		return err.Error()
	}
	return "Could not start checkout. Please try again."
}
