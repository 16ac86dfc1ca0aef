package reddit

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"
)

type stubTransport struct {
	responses []*http.Response
	calls     int
}

func (s *stubTransport) RoundTrip(*http.Request) (*http.Response, error) {
	resp := s.responses[min(s.calls, len(s.responses)-1)]
	s.calls++
	return resp, nil
}

func response(code int, headers map[string]string) *http.Response {
	h := http.Header{}
	for k, v := range headers {
		h.Set(k, v)
	}
	return &http.Response{StatusCode: code, Header: h, Body: io.NopCloser(strings.NewReader(""))}
}

func TestRateLimitTransport(t *testing.T) {
	t.Run("passes through ok responses", func(t *testing.T) {
		stub := &stubTransport{responses: []*http.Response{response(200, nil)}}
		req, _ := http.NewRequest(http.MethodGet, "http://example.com", nil)
		resp, err := (&rateLimitTransport{base: stub}).RoundTrip(req)
		if err != nil || resp.StatusCode != 200 || stub.calls != 1 {
			t.Errorf("got resp=%v err=%v calls=%d", resp, err, stub.calls)
		}
	})

	t.Run("retries after 429", func(t *testing.T) {
		stub := &stubTransport{responses: []*http.Response{
			response(429, map[string]string{"Retry-After": "1"}),
			response(200, nil),
		}}
		req, _ := http.NewRequest(http.MethodGet, "http://example.com", nil)
		resp, err := (&rateLimitTransport{base: stub}).RoundTrip(req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.StatusCode != 200 || stub.calls != 2 {
			t.Errorf("status=%d calls=%d, want 200 after 2 calls", resp.StatusCode, stub.calls)
		}
	})

	t.Run("429 without retry hint is returned", func(t *testing.T) {
		stub := &stubTransport{responses: []*http.Response{response(429, nil)}}
		req, _ := http.NewRequest(http.MethodGet, "http://example.com", nil)
		resp, err := (&rateLimitTransport{base: stub}).RoundTrip(req)
		if err != nil || resp.StatusCode != 429 {
			t.Errorf("got resp=%v err=%v", resp, err)
		}
	})

	t.Run("cancelled context stops the wait", func(t *testing.T) {
		stub := &stubTransport{responses: []*http.Response{
			response(429, map[string]string{"Retry-After": "60"}),
		}}
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		req, _ := http.NewRequestWithContext(ctx, http.MethodGet, "http://example.com", nil)
		_, err := (&rateLimitTransport{base: stub}).RoundTrip(req)
		if err == nil {
			t.Error("expected context error")
		}
	})
}

func TestRateLimitTransport_Waits(t *testing.T) {
	newTransport := func(stub *stubTransport) (*rateLimitTransport, *[]time.Duration) {
		var waits []time.Duration
		return &rateLimitTransport{
			base: stub,
			sleep: func(ctx context.Context, d time.Duration) error {
				waits = append(waits, d)
				return ctx.Err()
			},
		}, &waits
	}

	t.Run("pauses when remaining is low", func(t *testing.T) {
		stub := &stubTransport{responses: []*http.Response{
			response(200, map[string]string{"X-Ratelimit-Remaining": "2.0", "X-Ratelimit-Reset": "1"}),
		}}
		rt, waits := newTransport(stub)
		req, _ := http.NewRequest(http.MethodGet, "http://example.com", nil)
		resp, err := rt.RoundTrip(req)
		if err != nil || resp.StatusCode != 200 {
			t.Fatalf("got resp=%v err=%v", resp, err)
		}
		if stub.calls != 1 || len(*waits) != 1 || (*waits)[0] != 2*time.Second {
			t.Errorf("calls=%d waits=%v, want 1 call and one 2s wait", stub.calls, *waits)
		}
	})

	t.Run("no pause with plenty remaining", func(t *testing.T) {
		stub := &stubTransport{responses: []*http.Response{
			response(200, map[string]string{"X-Ratelimit-Remaining": "80.0", "X-Ratelimit-Reset": "1"}),
		}}
		rt, waits := newTransport(stub)
		req, _ := http.NewRequest(http.MethodGet, "http://example.com", nil)
		if _, err := rt.RoundTrip(req); err != nil {
			t.Fatal(err)
		}
		if len(*waits) != 0 {
			t.Errorf("waits = %v, want none", *waits)
		}
	})

	t.Run("low remaining with cancelled context", func(t *testing.T) {
		stub := &stubTransport{responses: []*http.Response{
			response(200, map[string]string{"X-Ratelimit-Remaining": "2.0", "X-Ratelimit-Reset": "1"}),
		}}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		req, _ := http.NewRequestWithContext(ctx, http.MethodGet, "http://example.com", nil)
		_, err := (&rateLimitTransport{base: stub}).RoundTrip(req)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("err = %v, want context.Canceled", err)
		}
	})

	t.Run("429 falls back to reset header", func(t *testing.T) {
		stub := &stubTransport{responses: []*http.Response{
			response(429, map[string]string{"X-Ratelimit-Reset": "4.2"}),
			response(200, nil),
		}}
		rt, waits := newTransport(stub)
		req, _ := http.NewRequest(http.MethodGet, "http://example.com", nil)
		resp, err := rt.RoundTrip(req)
		if err != nil || resp.StatusCode != 200 {
			t.Fatalf("got resp=%v err=%v", resp, err)
		}
		if stub.calls != 2 || len(*waits) != 1 || (*waits)[0] != 5*time.Second {
			t.Errorf("calls=%d waits=%v, want 2 calls and one 5s wait", stub.calls, *waits)
		}
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		stub := &stubTransport{responses: []*http.Response{
			response(429, map[string]string{"Retry-After": "1"}),
		}}
		rt, waits := newTransport(stub)
		req, _ := http.NewRequest(http.MethodGet, "http://example.com", nil)
		_, err := rt.RoundTrip(req)
		if err == nil || !strings.Contains(err.Error(), "retries exhausted") {
			t.Fatalf("err = %v, want retries exhausted", err)
		}
		if stub.calls != maxRetries {
			t.Errorf("calls = %d, want %d", stub.calls, maxRetries)
		}
		if len(*waits) != maxRetries-1 {
			t.Errorf("waits = %v, want no wait after the last attempt", *waits)
		}
	})
}

func TestParseRateLimitHeaders(t *testing.T) {
	h := http.Header{}
	h.Set("X-Ratelimit-Remaining", "4.0")
	h.Set("X-Ratelimit-Reset", "12.3")

	if rem, ok := parseRemaining(h); !ok || rem != 4 {
		t.Errorf("parseRemaining = %v, %v", rem, ok)
	}
	if reset, ok := parseReset(h); !ok || reset != 13*time.Second {
		t.Errorf("parseReset = %v, %v", reset, ok)
	}
	if wait, ok := retryAfter(h); !ok || wait != 13*time.Second {
		t.Errorf("retryAfter fallback = %v, %v", wait, ok)
	}

	h.Set("Retry-After", "7")
	if wait, ok := retryAfter(h); !ok || wait != 7*time.Second {
		t.Errorf("retryAfter = %v, %v", wait, ok)
	}

	if _, ok := parseRemaining(http.Header{}); ok {
		t.Error("expected missing header to report !ok")
	}
}

func TestUserAgentTransport(t *testing.T) {
	var got string
	base := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		got = r.Header.Get("User-Agent")
		return response(200, nil), nil
	})
	req, _ := http.NewRequest(http.MethodGet, "http://example.com", nil)
	if _, err := (&userAgentTransport{base: base, userAgent: "persona/1.0"}).RoundTrip(req); err != nil {
		t.Fatal(err)
	}
	if got != "persona/1.0" {
		t.Errorf("User-Agent = %q", got)
	}
	if req.Header.Get("User-Agent") != "" {
		t.Error("original request must not be mutated")
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }
