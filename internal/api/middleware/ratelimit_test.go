package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func TestRateLimiter_RejectsOverBurst(t *testing.T) {
	e := echo.New()
	rl := NewRateLimiter(0.001, 2)
	handler := rl.Middleware()(func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if err := handler(c); err != nil {
			e.HTTPErrorHandler(err, c)
		}
		codes = append(codes, rec.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("unexpected status sequence %v", codes)
	}
}

func TestRateLimiter_PerClient(t *testing.T) {
	rl := NewRateLimiter(0.001, 1)

	if !rl.limiterFor("10.0.0.1").Allow() {
		t.Fatalf("first client should be allowed")
	}
	if !rl.limiterFor("10.0.0.2").Allow() {
		t.Fatalf("second client has its own bucket")
	}
	if rl.limiterFor("10.0.0.1").Allow() {
		t.Fatalf("first client should be throttled")
	}
}

func TestRateLimiter_Cleanup(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	rl.limiterFor("10.0.0.1")

	rl.cleanup(time.Now())
	if len(rl.clients) != 1 {
		t.Fatalf("fresh entry must survive cleanup")
	}

	rl.cleanup(time.Now().Add(limiterIdleTTL + time.Second))
	if len(rl.clients) != 0 {
		t.Fatalf("idle entry must be dropped")
	}
}
