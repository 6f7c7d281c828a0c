package utils

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pratik-mahalle/mxcloud/internal/pkg/errors"
)

func TestWriteErr(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"app error passes through", errors.NotFound("Account"), http.StatusNotFound, errors.ErrCodeNotFound, "Account not found"},
		{"plain error hides cause", stderrors.New("dial tcp: secret host"), http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to load"},
		{"rate limited", errors.RateLimited("slow down"), http.StatusTooManyRequests, errors.ErrCodeRateLimited, "slow down"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			_ = WriteErr(rr, tt.err, "Failed to load")

			if rr.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rr.Code, tt.wantStatus)
			}
			if got := rr.Header().Get("Cache-Control"); got != "no-store" {
				t.Errorf("Cache-Control = %q", got)
			}

			var resp ErrorResponse
			if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
				t.Fatal(err)
			}
			if resp.Success || resp.Error.Code != tt.wantCode || resp.Error.Message != tt.wantMsg {
				t.Errorf("got %+v", resp)
			}
			if tt.wantStatus == http.StatusTooManyRequests && rr.Header().Get("Retry-After") == "" {
				t.Error("missing Retry-After")
			}
		})
	}
}
