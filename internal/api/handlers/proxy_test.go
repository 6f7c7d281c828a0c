package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pratik-mahalle/mxcloud/internal/testutil"
)

func TestProxyHandler_Relay(t *testing.T) {
	var gotQuery url.Values
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		if r.URL.Query().Get("Action") == "Broken" {
			w.Write([]byte("<html>oops</html>"))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"RetCode":0,"Action":"GetBalanceResponse"}`))
	}))
	defer upstream.Close()

	h := NewProxyHandler([]string{upstream.URL + "/"}, 5*time.Second, testutil.NewTestLogger())

	tests := []struct {
		name   string
		query  url.Values
		want   int
		mirror bool
	}{
		{
			name:   "relays allowed host",
			query:  url.Values{"url": {upstream.URL + "/"}, "Action": {"GetBalance"}, "PublicKey": {"pk"}},
			want:   http.StatusOK,
			mirror: true,
		},
		{
			name:  "missing url",
			query: url.Values{"Action": {"GetBalance"}},
			want:  http.StatusBadRequest,
		},
		{
			name:  "host not allowed",
			query: url.Values{"url": {"https://example.com/"}},
			want:  http.StatusForbidden,
		},
		{
			name:  "non-JSON reply",
			query: url.Values{"url": {upstream.URL + "/"}, "Action": {"Broken"}},
			want:  http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotQuery = nil
			req := httptest.NewRequest(http.MethodGet, "/api/proxy?"+tt.query.Encode(), nil)
			rr := httptest.NewRecorder()

			h.Relay(rr, req)

			require.Equal(t, tt.want, rr.Code, rr.Body.String())
			if tt.mirror {
				require.JSONEq(t, `{"RetCode":0,"Action":"GetBalanceResponse"}`, rr.Body.String())
				require.Equal(t, "no-store", rr.Header().Get("Cache-Control"))
				require.Empty(t, gotQuery.Get("url"))
				require.Equal(t, "pk", gotQuery.Get("PublicKey"))
			}
		})
	}
}
