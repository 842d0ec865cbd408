package router

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestKeyByIPAndJSONField(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name string
		body string
		want string
	}{
		{name: "email normalised", body: `{"email":" Asha@Example.IN "}`, want: "asha@example.in|10.0.0.8"},
		{name: "missing field", body: `{"password":"x"}`, want: "10.0.0.8"},
		{name: "non string field", body: `{"email":42}`, want: "10.0.0.8"},
		{name: "invalid json", body: `email=asha`, want: "10.0.0.8"},
		{name: "empty body", body: ``, want: "10.0.0.8"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(tc.body))
			c.Request.Header.Set("Content-Type", "application/json")
			c.Request.RemoteAddr = "10.0.0.8:41000"

			if got := KeyByIPAndJSONField("email")(c); got != tc.want {
				t.Fatalf("key want %s got %s", tc.want, got)
			}
			body, err := io.ReadAll(c.Request.Body)
			if err != nil {
				t.Fatalf("read body after key extraction failed: %v", err)
			}
			if string(body) != tc.body {
				t.Fatalf("body should be restored, want %q got %q", tc.body, string(body))
			}
		})
	}
}

func TestRateLimitMiddlewarePassThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rules := map[string]RateLimitRule{
		"redis disabled": {WindowSeconds: 60, MaxRequests: 1, BlockSeconds: 300},
		"zero window":    {MaxRequests: 1},
		"zero max":       {WindowSeconds: 60},
	}
	for name, rule := range rules {
		t.Run(name, func(t *testing.T) {
			r := gin.New()
			r.POST("/login", RateLimitMiddleware(nil, rule, KeyByIP), func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"ok": true})
			})
			for i := 0; i < 3; i++ {
				w := httptest.NewRecorder()
				r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
				if !strings.Contains(w.Body.String(), `"ok":true`) {
					t.Fatalf("request %d should reach handler, got %s", i, w.Body.String())
				}
			}
		})
	}
}

func TestToInt64(t *testing.T) {
	cases := []struct {
		input interface{}
		want  int64
		ok    bool
	}{
		{input: int64(7), want: 7, ok: true},
		{input: 8, want: 8, ok: true},
		{input: float64(9.7), want: 9, ok: true},
		{input: "10", want: 0, ok: false},
		{input: nil, want: 0, ok: false},
	}
	for _, tc := range cases {
		got, ok := toInt64(tc.input)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("toInt64(%v) want (%d,%v) got (%d,%v)", tc.input, tc.want, tc.ok, got, ok)
		}
	}
}
