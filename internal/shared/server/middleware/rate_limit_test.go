package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestRateLimitReviewGroupStricterThanDefault(t *testing.T) {
	gin.SetMode(gin.TestMode)
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })

	groupFor := func(c *gin.Context) string {
		if c.Query("analyze") == "true" {
			return "AI_REVIEW"
		}
		return "DEFAULT"
	}

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(userIDKey, int64(11))
		c.Next()
	})
	r.Use(RateLimit(RateLimitConfig{
		GroupFor: groupFor,
		Limiter:  limiter,
		Rules: map[string]RateLimitRule{
			"DEFAULT":   {Rate: 5, Burst: 10},
			"AI_REVIEW": {Rate: 1, Burst: 1},
		},
	}))
	r.GET("/api/resumes/:id/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	for i := 0; i < 3; i++ {
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/resumes/1/", nil))
		if resp.Code != http.StatusOK {
			t.Fatalf("preview request %d expected 200, got %d", i+1, resp.Code)
		}
	}

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/resumes/1/?analyze=true", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("first review expected 200, got %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/resumes/1/?analyze=true", nil))
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("second review expected 429, got %d", resp.Code)
	}
	if resp.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header")
	}

	var payload struct {
		Error struct {
			Code    string         `json:"code"`
			Details map[string]any `json:"details"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Error.Code != "rate_limited" {
		t.Fatalf("expected rate_limited, got %q", payload.Error.Code)
	}
	if _, ok := payload.Error.Details["retryAfterMs"]; !ok {
		t.Fatalf("expected retryAfterMs in details")
	}
}

func TestRateLimitRefillsOverTime(t *testing.T) {
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })
	rule := PerMinute(60)

	for i := 0; i < rule.Burst; i++ {
		if ok, _ := limiter.Allow("k", rule); !ok {
			t.Fatalf("request %d should fit in burst", i+1)
		}
	}
	ok, wait := limiter.Allow("k", rule)
	if ok || wait <= 0 {
		t.Fatalf("expected throttle with wait, got ok=%v wait=%s", ok, wait)
	}

	now = now.Add(time.Second)
	if ok, _ := limiter.Allow("k", rule); !ok {
		t.Fatalf("expected a token after one second")
	}
}

func TestPerMinuteDisabledForNonPositive(t *testing.T) {
	rule := PerMinute(0)
	if ok, _ := NewRateLimiter(nil).Allow("k", rule); !ok {
		t.Fatalf("zero rule must not throttle")
	}
}
