package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/krishi-setu/internal/constants"

	"github.com/gin-gonic/gin"
)

func TestBuildPagination(t *testing.T) {
	cases := []struct {
		page, size int
		total      int64
		wantPages  int64
	}{
		{page: 1, size: 20, total: 0, wantPages: 0},
		{page: 1, size: 20, total: 20, wantPages: 1},
		{page: 2, size: 20, total: 41, wantPages: 3},
		{page: 1, size: 0, total: 5, wantPages: 0},
	}
	for _, tc := range cases {
		got := BuildPagination(tc.page, tc.size, tc.total)
		if got.TotalPage != tc.wantPages || got.Total != tc.total {
			t.Fatalf("BuildPagination(%d,%d,%d) = %+v", tc.page, tc.size, tc.total, got)
		}
	}
}

func TestErrorAttachesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set(constants.ContextKeyRequest, "req-9")
	ErrorWithData(c, CodeTooManyRequests, "slow down", gin.H{"retry_after": 30})

	if w.Code != http.StatusOK {
		t.Fatalf("http status want 200 got %d", w.Code)
	}
	var resp struct {
		StatusCode int                    `json:"status_code"`
		Data       map[string]interface{} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp.StatusCode != CodeTooManyRequests {
		t.Fatalf("status_code want 429 got %d", resp.StatusCode)
	}
	if resp.Data["request_id"] != "req-9" || resp.Data["retry_after"] != float64(30) {
		t.Fatalf("unexpected data: %+v", resp.Data)
	}
}

func TestErrorWithoutRequestIDHasNullData(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	Error(c, CodeNotFound, "missing")

	if body := w.Body.String(); body != `{"status_code":404,"msg":"missing","data":null}` {
		t.Fatalf("unexpected body %s", body)
	}
}

func TestSuccessWithPageFlattensEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	SuccessWithPage(c, []int{1, 2}, BuildPagination(1, 2, 3))

	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	for _, key := range []string{"status_code", "msg", "data", "pagination"} {
		if _, ok := resp[key]; !ok {
			t.Fatalf("missing top-level key %s in %s", key, w.Body.String())
		}
	}
}
