package httpx_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/aussiebroadwan/taskboard/pkg/httpx"
	"github.com/stretchr/testify/require"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func requestFrom(addr string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/todos", nil)
	req.RemoteAddr = addr
	return req
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestClientIP(t *testing.T) {
	cases := []struct {
		name    string
		trust   bool
		headers map[string]string
		remote  string
		want    string
	}{
		{name: "remote addr", remote: "10.0.0.7:5555", want: "10.0.0.7"},
		{name: "remote without port", remote: "10.0.0.7", want: "10.0.0.7"},
		{
			name:    "forwarded ignored by default",
			headers: map[string]string{"X-Forwarded-For": "203.0.113.9", "X-Real-IP": "198.51.100.4"},
			remote:  "10.0.0.1:80",
			want:    "10.0.0.1",
		},
		{
			name:    "first forwarded hop",
			trust:   true,
			headers: map[string]string{"X-Forwarded-For": " 203.0.113.9 , 10.0.0.1"},
			remote:  "10.0.0.1:80",
			want:    "203.0.113.9",
		},
		{
			name:    "real ip",
			trust:   true,
			headers: map[string]string{"X-Real-IP": "198.51.100.4"},
			remote:  "10.0.0.1:80",
			want:    "198.51.100.4",
		},
		{name: "trusted without headers", trust: true, remote: "10.0.0.1:80", want: "10.0.0.1"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := requestFrom(tc.remote)
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			require.Equal(t, tc.want, httpx.ClientIP(req, tc.trust))
			require.Equal(t, tc.want, httpx.IPKeyExtractor(tc.trust)(req))
		})
	}
}

func TestUserOrIPKeyExtractor(t *testing.T) {
	req := requestFrom("10.0.0.7:5555")
	require.Equal(t, "ip:10.0.0.7", httpx.UserOrIPKeyExtractor(false)(req))

	ctx := httpx.WithIdentity(req.Context(), httpx.Identity{UserID: "01HUSER"})
	require.Equal(t, "user:01HUSER", httpx.UserOrIPKeyExtractor(false)(req.WithContext(ctx)))
}

func TestRateLimitMiddleware(t *testing.T) {
	cfg := httpx.RateLimitConfig{RequestsPerWindow: 2, Window: time.Minute, Burst: 2}

	t.Run("burst then reject", func(t *testing.T) {
		h := httpx.RateLimitByIP(cfg, false)(okHandler)

		require.Equal(t, http.StatusOK, serve(h, requestFrom("10.0.0.1:1")).Code)
		require.Equal(t, http.StatusOK, serve(h, requestFrom("10.0.0.1:2")).Code)

		rec := serve(h, requestFrom("10.0.0.1:3"))
		require.Equal(t, http.StatusTooManyRequests, rec.Code)

		retry, err := strconv.Atoi(rec.Header().Get("Retry-After"))
		require.NoError(t, err)
		require.GreaterOrEqual(t, retry, 1)
		require.LessOrEqual(t, retry, 30)
		require.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
		require.Equal(t, "1m0s", rec.Header().Get("X-RateLimit-Window"))

		var env httpx.Envelope
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
		require.False(t, env.Success)
		require.Equal(t, httpx.CodeRateLimited, env.Error.Code)
	})

	t.Run("keys are independent", func(t *testing.T) {
		h := httpx.RateLimitByIP(cfg, false)(okHandler)

		for range 2 {
			require.Equal(t, http.StatusOK, serve(h, requestFrom("10.0.0.1:1")).Code)
		}
		require.Equal(t, http.StatusTooManyRequests, serve(h, requestFrom("10.0.0.1:1")).Code)
		require.Equal(t, http.StatusOK, serve(h, requestFrom("10.0.0.2:1")).Code)
	})

	t.Run("each middleware has its own buckets", func(t *testing.T) {
		a := httpx.RateLimitByIP(cfg, false)(okHandler)
		b := httpx.RateLimitByIP(cfg, false)(okHandler)

		for range 2 {
			serve(a, requestFrom("10.0.0.1:1"))
		}
		require.Equal(t, http.StatusTooManyRequests, serve(a, requestFrom("10.0.0.1:1")).Code)
		require.Equal(t, http.StatusOK, serve(b, requestFrom("10.0.0.1:1")).Code)
	})

	t.Run("rotating forwarded header", func(t *testing.T) {
		spoofed := func(hop string) *http.Request {
			req := requestFrom("10.0.0.5:1")
			req.Header.Set("X-Forwarded-For", hop)
			return req
		}

		direct := httpx.RateLimitByIP(cfg, false)(okHandler)
		for range 2 {
			require.Equal(t, http.StatusOK, serve(direct, spoofed("203.0.113.1")).Code)
		}
		require.Equal(t, http.StatusTooManyRequests, serve(direct, spoofed("203.0.113.2")).Code)

		proxied := httpx.RateLimitByIP(cfg, true)(okHandler)
		for range 2 {
			require.Equal(t, http.StatusOK, serve(proxied, spoofed("203.0.113.1")).Code)
		}
		require.Equal(t, http.StatusOK, serve(proxied, spoofed("203.0.113.2")).Code)
	})

	t.Run("empty key is not limited", func(t *testing.T) {
		h := httpx.RateLimitMiddleware(
			httpx.RateLimitConfig{RequestsPerWindow: 1, Window: time.Hour, Burst: 1},
			func(*http.Request) string { return "" },
		)(okHandler)

		for range 5 {
			require.Equal(t, http.StatusOK, serve(h, requestFrom("10.0.0.1:1")).Code)
		}
	})

	t.Run("users share an address but not a bucket", func(t *testing.T) {
		h := httpx.RateLimitByUser(httpx.RateLimitConfig{RequestsPerWindow: 1, Window: time.Hour, Burst: 1}, false)(okHandler)

		asUser := func(id string) *http.Request {
			req := requestFrom("10.0.0.9:1")
			return req.WithContext(httpx.WithIdentity(context.Background(), httpx.Identity{UserID: id}))
		}

		require.Equal(t, http.StatusOK, serve(h, asUser("alice")).Code)
		require.Equal(t, http.StatusTooManyRequests, serve(h, asUser("alice")).Code)
		require.Equal(t, http.StatusOK, serve(h, asUser("bob")).Code)
	})
}

func TestRateLimitProfilesAreSane(t *testing.T) {
	for name, cfg := range map[string]httpx.RateLimitConfig{
		"strict":   httpx.StrictLimit,
		"moderate": httpx.ModerateLimit,
		"lenient":  httpx.LenientLimit,
		"public":   httpx.PublicLimit,
	} {
		require.Positive(t, cfg.RequestsPerWindow, name)
		require.Positive(t, cfg.Burst, name)
		require.Positive(t, cfg.Window, name)
	}
	require.Less(t, httpx.StrictLimit.RequestsPerWindow, httpx.PublicLimit.RequestsPerWindow)
}

func TestParseRateLimitFromEnv(t *testing.T) {
	def := httpx.RateLimitConfig{RequestsPerWindow: 10, Window: time.Minute, Burst: 5}

	t.Run("defaults", func(t *testing.T) {
		require.Equal(t, def, httpx.ParseRateLimitFromEnv("TEST_NONE", def))
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("RATELIMIT_TEST_ALL_REQUESTS", "100")
		t.Setenv("RATELIMIT_TEST_ALL_WINDOW_SEC", "30")
		t.Setenv("RATELIMIT_TEST_ALL_BURST", "50")

		got := httpx.ParseRateLimitFromEnv("TEST_ALL", def)
		require.Equal(t, httpx.RateLimitConfig{RequestsPerWindow: 100, Window: 30 * time.Second, Burst: 50}, got)
	})

	t.Run("bad values keep defaults", func(t *testing.T) {
		t.Setenv("RATELIMIT_TEST_BAD_REQUESTS", "lots")
		t.Setenv("RATELIMIT_TEST_BAD_WINDOW_SEC", "0")
		t.Setenv("RATELIMIT_TEST_BAD_BURST", "-3")

		require.Equal(t, def, httpx.ParseRateLimitFromEnv("TEST_BAD", def))
	})
}
