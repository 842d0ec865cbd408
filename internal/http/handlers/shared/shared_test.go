package shared

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/krishi-setu/internal/http/response"
	"github.com/krishi-setu/internal/i18n"
	"github.com/krishi-setu/internal/service"

	"github.com/gin-gonic/gin"
)

func TestNormalizePagination(t *testing.T) {
	cases := []struct {
		page, size         int
		wantPage, wantSize int
	}{
		{page: 0, size: 0, wantPage: 1, wantSize: 20},
		{page: 3, size: 50, wantPage: 3, wantSize: 50},
		{page: -2, size: 500, wantPage: 1, wantSize: 100},
	}
	for _, tc := range cases {
		page, size := NormalizePagination(tc.page, tc.size)
		if page != tc.wantPage || size != tc.wantSize {
			t.Fatalf("NormalizePagination(%d,%d) want (%d,%d) got (%d,%d)", tc.page, tc.size, tc.wantPage, tc.wantSize, page, size)
		}
	}
}

func TestParsePaginationAcceptsLimitAndPageSize(t *testing.T) {
	gin.SetMode(gin.TestMode)
	for target, want := range map[string]int{
		"/orders?page=2&limit=5":      5,
		"/orders?page=2&page_size=15": 15,
		"/orders?page=2":              20,
	} {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, target, nil)
		page, size := ParsePagination(c)
		if page != 2 || size != want {
			t.Fatalf("%s want (2,%d) got (%d,%d)", target, want, page, size)
		}
	}
}

func TestParseIDParam(t *testing.T) {
	gin.SetMode(gin.TestMode)
	for raw, ok := range map[string]bool{"12": true, "0": false, "-1": false, "abc": false} {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Params = gin.Params{{Key: "id", Value: raw}}
		if _, got := ParseIDParam(c, "id"); got != ok {
			t.Fatalf("ParseIDParam(%s) ok want %v got %v", raw, ok, got)
		}
	}
}

func TestRespondServiceErrorUnwrapsSentinels(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		err  error
		code int
	}{
		{err: fmt.Errorf("place order: %w", service.ErrEmptyCart), code: response.CodeBadRequest},
		{err: service.ErrOrderTransitionInvalid, code: response.CodeConflict},
		{err: service.ErrOrderForbidden, code: response.CodeForbidden},
		{err: fmt.Errorf("boom"), code: response.CodeInternal},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		RespondServiceError(c, tc.err)

		var resp response.Response
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshal response failed: %v", err)
		}
		if resp.StatusCode != tc.code {
			t.Fatalf("%v: status_code want %d got %d", tc.err, tc.code, resp.StatusCode)
		}
	}
}

func TestServiceErrorRulesAreTranslated(t *testing.T) {
	for _, rule := range ServiceErrorRules {
		if got := i18n.T(i18n.LocaleEN, rule.Key); got == rule.Key || got == "" {
			t.Fatalf("missing english message for %s", rule.Key)
		}
	}
}
