package player

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"lms/client"
	"lms/session"
)

// fakeBackend is a scriptable stand-in for the LMS REST API. Handlers
// are registered per "METHOD /path" and every hit is counted, so tests
// can assert both behavior and call budgets (no poll past success, no
// call on client-side rejection).
type fakeBackend struct {
	t   *testing.T
	srv *httptest.Server

	mu       sync.Mutex
	handlers map[string]http.HandlerFunc
	calls    map[string]int
}

func newFakeBackend(t *testing.T) *fakeBackend {
	b := &fakeBackend{
		t:        t,
		handlers: make(map[string]http.HandlerFunc),
		calls:    make(map[string]int),
	}
	b.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		b.mu.Lock()
		b.calls[key]++
		handler, ok := b.handlers[key]
		b.mu.Unlock()
		if !ok {
			writeEnvelope(w, http.StatusNotFound, false, "Not found!", nil)
			return
		}
		handler(w, r)
	}))
	t.Cleanup(b.srv.Close)
	return b
}

func (b *fakeBackend) handle(method, path string, fn http.HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[method+" "+path] = fn
}

func (b *fakeBackend) count(method, path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[method+" "+path]
}

func (b *fakeBackend) client() *client.Client {
	return client.New(b.srv.URL, 5*time.Second)
}

// writeEnvelope emits the backend's {success, message, data} wrapper
func writeEnvelope(w http.ResponseWriter, status int, success bool, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": success,
		"message": message,
		"data":    data,
	})
}

// enrollmentSequence scripts the check-enrollment probe: false for the
// first n-1 hits, true from hit n on
func enrollmentSequence(trueOnAttempt int) http.HandlerFunc {
	var mu sync.Mutex
	hits := 0
	return func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		hits++
		enrolled := trueOnAttempt > 0 && hits >= trueOnAttempt
		mu.Unlock()
		writeEnvelope(w, http.StatusOK, true, "", map[string]interface{}{"isEnrolled": enrolled})
	}
}

func signedInSession(t *testing.T) *session.Session {
	t.Helper()
	claims := jwt.MapClaims{
		"userId": "user-1",
		"exp":    time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("signedInSession() failed: %v", err)
	}
	return session.New(token)
}

func signedOutSession() *session.Session {
	return session.New("")
}
