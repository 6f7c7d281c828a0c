package ucloud

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/pratik-mahalle/mxcloud/internal/domain/account"
	"github.com/pratik-mahalle/mxcloud/internal/pkg/logger"
	"github.com/pratik-mahalle/mxcloud/internal/providers"
)

const (
	testPublicKey  = "test-public"
	testPrivateKey = "test-private"
)

var testTarget = providers.Target{
	AccountID:   "acc-1",
	AccountName: "primary",
	Credentials: account.Credentials{PublicKey: testPublicKey, PrivateKey: testPrivateKey},
}

// handlerFunc answers one decoded request with a status and a JSON body
type handlerFunc func(q url.Values) (int, any)

// fakeAPI stands in for the provider endpoint and rejects badly signed requests
type fakeAPI struct {
	t      *testing.T
	handle handlerFunc

	mu    sync.Mutex
	calls []url.Values
}

func newFakeAPI(t *testing.T, handle handlerFunc) (*httptest.Server, *fakeAPI) {
	t.Helper()
	f := &fakeAPI{t: t, handle: handle}
	srv := httptest.NewServer(f)
	return srv, f
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	f.mu.Lock()
	f.calls = append(f.calls, q)
	f.mu.Unlock()

	params := Params{}
	for k := range q {
		if k == SignatureParam {
			continue
		}
		params[k] = q.Get(k)
	}
	want, err := Sign(params, testPrivateKey)
	if err != nil || q.Get(SignatureParam) != want || q.Get("PublicKey") != testPublicKey {
		writeJSON(w, http.StatusOK, map[string]any{"RetCode": 171, "Message": "Signature VerifyAC Error"})
		return
	}

	status, body := f.handle(q)
	writeJSON(w, status, body)
}

func (f *fakeAPI) count(action, region string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, q := range f.calls {
		if q.Get("Action") == action && (region == "" || q.Get("Region") == region) {
			n++
		}
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func newTestClient(srv *httptest.Server) *Client {
	return NewClient(Config{Endpoint: srv.URL + "/", HTTPClient: srv.Client()}, logger.Nop())
}

func ok(action string, payload map[string]any) map[string]any {
	body := map[string]any{"RetCode": 0, "Action": action + "Response"}
	for k, v := range payload {
		body[k] = v
	}
	return body
}

func host(id string) map[string]any {
	return map[string]any{"UHostId": id, "Name": "host-" + id, "State": "Running", "CPU": 2, "Memory": 4096}
}

func image(id, name string) map[string]any {
	return map[string]any{"ImageId": id, "ImageName": name}
}

func eip(id, ip string) map[string]any {
	return map[string]any{"EIPId": id, "EIPAddr": []map[string]any{{"OperatorName": "BGP", "IP": ip}}}
}
