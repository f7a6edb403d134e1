package payment

import (
	"context"
	"log"
	"net/url"

	"github.com/gofiber/fiber/v2"
)

// Result is the hosted payment widget's verdict
type Result int

const (
	Succeeded Result = iota
	Cancelled
	Failed
)

func (r Result) String() string {
	switch r {
	case Succeeded:
		return "succeeded"
	case Cancelled:
		return "cancelled"
	default:
		return "failed"
	}
}

// CallbackServer hosts the landing endpoints the hosted payment page
// redirects back to after the shopper finishes or abandons payment.
// The payment provider itself is a black box; only the final redirect
// carrying the client secret reaches this listener.
type CallbackServer struct {
	port       string
	webBaseURL string
}

// NewCallbackServer builds a callback listener for the given local port
func NewCallbackServer(port, webBaseURL string) *CallbackServer {
	return &CallbackServer{port: port, webBaseURL: webBaseURL}
}

// PaymentPageURL is the hosted payment page for an order's client
// secret, with the local callback address attached
func (s *CallbackServer) PaymentPageURL(clientSecret string) string {
	callback := "http://localhost:" + s.port
	return s.webBaseURL + "/checkout/pay?secret=" + url.QueryEscape(clientSecret) +
		"&callback=" + url.QueryEscape(callback)
}

// newApp wires the success/cancel routes. The report callback fires at
// most once; redirects with the wrong secret are rejected so a stale
// tab cannot complete someone else's checkout.
func newApp(clientSecret string, report func(Result)) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})

	once := make(chan struct{}, 1)
	once <- struct{}{}
	reportOnce := func(r Result) {
		select {
		case <-once:
			report(r)
		default:
		}
	}

	app.Get("/payment/success", func(c *fiber.Ctx) error {
		if c.Query("secret") != clientSecret {
			return c.Status(fiber.StatusBadRequest).SendString("Unknown payment session.")
		}
		reportOnce(Succeeded)
		return c.SendString("Payment received. You can return to the app.")
	})

	app.Get("/payment/cancel", func(c *fiber.Ctx) error {
		if c.Query("secret") != clientSecret {
			return c.Status(fiber.StatusBadRequest).SendString("Unknown payment session.")
		}
		reportOnce(Cancelled)
		return c.SendString("Payment cancelled. You can return to the app.")
	})

	return app
}

// Collect serves the callback routes until the payment page reports an
// outcome or ctx is cancelled. Cancelling ctx (player teardown) tears
// the listener down and discards the client secret; no retry state is
// kept.
func (s *CallbackServer) Collect(ctx context.Context, clientSecret string) (Result, error) {
	results := make(chan Result, 1)
	app := newApp(clientSecret, func(r Result) { results <- r })

	go func() {
		if err := app.Listen(":" + s.port); err != nil {
			log.Printf("[PAYMENT] callback listener failed: %v", err)
			select {
			case results <- Failed:
			default:
			}
		}
	}()
	defer func() {
		if err := app.Shutdown(); err != nil {
			log.Printf("[PAYMENT] callback shutdown failed: %v", err)
		}
	}()

	log.Printf("[PAYMENT] complete your payment at %s", s.PaymentPageURL(clientSecret))

	select {
	case r := <-results:
		return r, nil
	case <-ctx.Done():
		return Cancelled, ctx.Err()
	}
}
