package i18n

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestResolveLocale(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		name   string
		target string
		header map[string]string
		want   string
	}{
		{name: "default", target: "/", want: LocaleEN},
		{name: "query", target: "/?lang=hi", want: LocaleHI},
		{name: "x-locale", target: "/", header: map[string]string{"X-Locale": "hi-IN"}, want: LocaleHI},
		{name: "accept-language list", target: "/", header: map[string]string{"Accept-Language": "fr-FR,hi;q=0.8"}, want: LocaleHI},
		{name: "unsupported", target: "/", header: map[string]string{"Accept-Language": "zh-CN"}, want: LocaleEN},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, tc.target, nil)
			for k, v := range tc.header {
				c.Request.Header.Set(k, v)
			}
			if got := ResolveLocale(c); got != tc.want {
				t.Fatalf("locale want %s got %s", tc.want, got)
			}
		})
	}
}

func TestTFallsBackToEnglishAndKey(t *testing.T) {
	if got := T(LocaleHI, "error.cart_empty"); got != "कार्ट खाली है" {
		t.Fatalf("unexpected hindi message: %s", got)
	}
	if got := T(LocaleHI, "error.order_forbidden"); got != messagesEN["error.order_forbidden"] {
		t.Fatalf("missing hindi key should fall back to english, got %s", got)
	}
	if got := T(LocaleEN, "error.unknown_key"); got != "error.unknown_key" {
		t.Fatalf("unknown key should echo key, got %s", got)
	}
	if got := Sprintf(LocaleEN, "error.password_too_short", 6); got != "Password must be at least 6 characters" {
		t.Fatalf("unexpected sprintf result: %s", got)
	}
}
