package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/pratik-mahalle/mxcloud/internal/api/dto"
	"github.com/pratik-mahalle/mxcloud/internal/cache"
	"github.com/pratik-mahalle/mxcloud/internal/domain/snapshot"
	"github.com/pratik-mahalle/mxcloud/internal/pkg/validator"
	"github.com/pratik-mahalle/mxcloud/internal/providers"
	"github.com/pratik-mahalle/mxcloud/internal/providers/ucloud"
	"github.com/pratik-mahalle/mxcloud/internal/repository/postgres"
	"github.com/pratik-mahalle/mxcloud/internal/services"
	"github.com/pratik-mahalle/mxcloud/internal/testutil"
)

const testPassword = "hunter2hunter2"

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type fixture struct {
	router   chi.Router
	sessions *services.SessionService
	adapter  *testutil.MockAdapter
}

// newFixture wires real services over an in-memory database behind a chi router.
// Routes are mounted without session middleware; that is covered by the router tests.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewTestDB(t)
	t.Cleanup(func() { testutil.CleanupDB(db) })

	log := testutil.NewTestLogger()
	val := validator.New()

	partitions, err := cache.NewPartitionCache(16)
	require.NoError(t, err)
	snapshots := cache.NewSnapshotStore()

	adapter := testutil.NewMockAdapter()
	registry := providers.NewRegistry(adapter)

	accountRepo := postgres.NewAccountRepository(db)
	ruleRepo := postgres.NewAlertRuleRepository(db)
	notifRepo := postgres.NewNotificationRepository(db)

	sessions := services.NewSessionService(postgres.NewSettingsRepository(db), "test-secret", time.Hour, bcrypt.MinCost, log)
	accountSvc := services.NewAccountService(accountRepo, ruleRepo, registry, sessions, snapshots, partitions, log)
	dataSvc := services.NewDataService(accountRepo, accountSvc, registry, snapshots, partitions, log)
	alertSvc := services.NewAlertService(ruleRepo, notifRepo, accountRepo, snapshots, 50, log)

	sh := NewSessionHandler(sessions, log, val)
	ah := NewAccountHandler(accountSvc, log, val)
	dh := NewDataHandler(dataSvc, alertSvc, true, log)
	alh := NewAlertHandler(alertSvc, log, val)

	r := chi.NewRouter()
	r.Get("/session", sh.Status)
	r.Post("/session/setup", sh.Setup)
	r.Post("/session/unlock", sh.Unlock)
	r.Post("/session/lock", sh.Lock)

	r.Get("/accounts", ah.List)
	r.Post("/accounts", ah.Create)
	r.Get("/accounts/{id}", ah.Get)
	r.Put("/accounts/{id}", ah.Update)
	r.Delete("/accounts/{id}", ah.Delete)
	r.Post("/accounts/{id}/disable", ah.Disable)
	r.Post("/accounts/{id}/refresh", dh.RefreshAccount)
	r.Get("/accounts/{id}/snapshot", dh.Snapshot)
	r.Post("/refresh", dh.RefreshAll)
	r.Post("/regions/refresh", dh.RefreshRegions)
	r.Get("/dashboard", dh.Dashboard)

	r.Post("/alerts/rules", alh.CreateRule)
	r.Get("/alerts/rules", alh.ListRules)
	r.Post("/alerts/check", alh.Check)
	r.Get("/alerts/notifications", alh.ListNotifications)
	r.Post("/alerts/notifications/read-all", alh.MarkAllRead)

	return &fixture{router: r, sessions: sessions, adapter: adapter}
}

func (f *fixture) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()

	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func (f *fixture) unlock(t *testing.T) {
	t.Helper()
	rr := f.do(t, http.MethodPost, "/session/setup", map[string]string{"password": testPassword})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
}

func (f *fixture) addAccount(t *testing.T, name string) dto.AccountDTO {
	t.Helper()
	rr := f.do(t, http.MethodPost, "/accounts", map[string]string{
		"name":        name,
		"provider":    "ucloud",
		"public_key":  "pub-" + name,
		"private_key": "priv-" + name,
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var acc dto.AccountDTO
	decode(t, rr, &acc)
	return acc
}

func TestSessionHandler_Lifecycle(t *testing.T) {
	f := newFixture(t)

	var st dto.SessionStatusDTO
	decode(t, f.do(t, http.MethodGet, "/session", nil), &st)
	require.False(t, st.Configured)
	require.False(t, st.Unlocked)

	tests := []struct {
		name     string
		path     string
		password string
		want     int
	}{
		{"unlock before setup", "/session/unlock", testPassword, http.StatusBadRequest},
		{"setup with short password", "/session/setup", "short", http.StatusBadRequest},
		{"setup", "/session/setup", testPassword, http.StatusCreated},
		{"setup again", "/session/setup", testPassword, http.StatusConflict},
		{"unlock with wrong password", "/session/unlock", "wrong-password", http.StatusUnauthorized},
		{"unlock", "/session/unlock", testPassword, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := f.do(t, http.MethodPost, tt.path, map[string]string{"password": tt.password})
			require.Equal(t, tt.want, rr.Code, rr.Body.String())

			if rr.Code < 300 {
				var tok dto.SessionTokenDTO
				decode(t, rr, &tok)
				require.NotEmpty(t, tok.Token)
				require.NoError(t, f.sessions.ValidateToken(tok.Token))

				cookie := rr.Result().Cookies()
				require.Len(t, cookie, 1)
				require.True(t, cookie[0].HttpOnly)
			}
		})
	}

	rr := f.do(t, http.MethodPost, "/session/lock", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	decode(t, f.do(t, http.MethodGet, "/session", nil), &st)
	require.True(t, st.Configured)
	require.False(t, st.Unlocked)
}

func TestAccountHandler_CreateNeverEchoesKeys(t *testing.T) {
	f := newFixture(t)
	f.unlock(t)

	rr := f.do(t, http.MethodPost, "/accounts", map[string]string{
		"name":        "prod",
		"provider":    "ucloud",
		"public_key":  "my-public-key",
		"private_key": "my-private-key",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	require.NotContains(t, rr.Body.String(), "my-public-key")
	require.NotContains(t, rr.Body.String(), "my-private-key")

	var acc dto.AccountDTO
	decode(t, rr, &acc)
	require.NotEmpty(t, acc.ID)
	require.True(t, acc.Enabled)

	rr = f.do(t, http.MethodGet, "/accounts/"+acc.ID, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NotContains(t, rr.Body.String(), "my-private-key")

	var list []dto.AccountDTO
	decode(t, f.do(t, http.MethodGet, "/accounts", nil), &list)
	require.Len(t, list, 1)
}

func TestAccountHandler_Errors(t *testing.T) {
	f := newFixture(t)
	f.unlock(t)

	tests := []struct {
		name     string
		method   string
		path     string
		body     interface{}
		want     int
		wantCode string
	}{
		{
			name:     "missing name",
			method:   http.MethodPost,
			path:     "/accounts",
			body:     map[string]string{"provider": "ucloud", "public_key": "a", "private_key": "b"},
			want:     http.StatusBadRequest,
			wantCode: "VALIDATION_ERROR",
		},
		{
			name:     "unknown provider",
			method:   http.MethodPost,
			path:     "/accounts",
			body:     map[string]string{"name": "x", "provider": "aws", "public_key": "a", "private_key": "b"},
			want:     http.StatusBadRequest,
			wantCode: "VALIDATION_ERROR",
		},
		{
			name:     "get unknown account",
			method:   http.MethodGet,
			path:     "/accounts/nope",
			want:     http.StatusNotFound,
			wantCode: "NOT_FOUND",
		},
		{
			name:     "delete unknown account",
			method:   http.MethodDelete,
			path:     "/accounts/nope",
			want:     http.StatusNotFound,
			wantCode: "NOT_FOUND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := f.do(t, tt.method, tt.path, tt.body)
			require.Equal(t, tt.want, rr.Code, rr.Body.String())
			env := decode(t, rr, nil)
			require.False(t, env.Success)
			require.Equal(t, tt.wantCode, env.Error.Code)
		})
	}
}

func TestAccountHandler_CreateWhileLocked(t *testing.T) {
	f := newFixture(t)
	f.unlock(t)
	f.sessions.Lock()

	rr := f.do(t, http.MethodPost, "/accounts", map[string]string{
		"name": "prod", "provider": "ucloud", "public_key": "a", "private_key": "b",
	})
	require.Equal(t, http.StatusLocked, rr.Code, rr.Body.String())
}

func TestDataHandler_RefreshSnapshotDashboard(t *testing.T) {
	f := newFixture(t)
	f.unlock(t)
	acc := f.addAccount(t, "prod")

	rr := f.do(t, http.MethodGet, "/accounts/"+acc.ID+"/snapshot", nil)
	require.Equal(t, http.StatusNotFound, rr.Code)

	var resp struct {
		Report    services.RefreshReport `json:"report"`
		Triggered int                    `json:"alerts_triggered"`
	}
	rr = f.do(t, http.MethodPost, "/refresh", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	decode(t, rr, &resp)
	require.Len(t, resp.Report.Results, 1)
	require.Equal(t, services.RefreshOK, resp.Report.Results[0].Status)

	var snap snapshot.Snapshot
	rr = f.do(t, http.MethodGet, "/accounts/"+acc.ID+"/snapshot", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	decode(t, rr, &snap)
	require.NotNil(t, snap.Balance)
	require.Equal(t, 100.0, snap.Balance.Amount)

	var dash dto.DashboardDTO
	decode(t, f.do(t, http.MethodGet, "/dashboard", nil), &dash)
	require.Len(t, dash.Accounts, 1)
	require.Equal(t, 100.0, dash.TotalBalance)
	require.NotNil(t, dash.LastUpdated)
}

func TestDataHandler_RefreshAccount(t *testing.T) {
	f := newFixture(t)
	f.unlock(t)
	acc := f.addAccount(t, "prod")

	var bal snapshot.Balance
	rr := f.do(t, http.MethodPost, "/accounts/"+acc.ID+"/refresh", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	decode(t, rr, &bal)
	require.Equal(t, 100.0, bal.Amount)

	f.adapter.BalanceFunc = func(providers.Target) (*snapshot.Balance, error) {
		return nil, &ucloud.APIError{Action: ucloud.ActionGetBalance, RetCode: 4, Message: "bad signature"}
	}
	rr = f.do(t, http.MethodPost, "/accounts/"+acc.ID+"/refresh", nil)
	require.Equal(t, http.StatusBadGateway, rr.Code)
	require.Equal(t, "PROVIDER_API_ERROR", decode(t, rr, nil).Error.Code)

	rr = f.do(t, http.MethodPost, "/accounts/"+acc.ID+"/disable", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	rr = f.do(t, http.MethodPost, "/accounts/"+acc.ID+"/refresh", nil)
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestDataHandler_RefreshRegions(t *testing.T) {
	f := newFixture(t)
	f.unlock(t)
	acc := f.addAccount(t, "prod")

	var report services.RefreshReport
	rr := f.do(t, http.MethodPost, "/regions/refresh?account="+acc.ID, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	decode(t, rr, &report)
	require.Len(t, report.Results, 1)

	calls := f.adapter.CollectCallsFor(acc.ID)
	require.Len(t, calls, 1)
	require.Nil(t, calls[0].Regions)

	rr = f.do(t, http.MethodPost, "/regions/refresh?account=nope", nil)
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAlertHandler_CheckAndNotifications(t *testing.T) {
	f := newFixture(t)
	f.unlock(t)
	acc := f.addAccount(t, "prod")

	rr := f.do(t, http.MethodPost, "/alerts/rules", map[string]interface{}{
		"account_id": acc.ID,
		"type":       "balance",
		"threshold":  500,
		"operator":   "lt",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = f.do(t, http.MethodPost, "/alerts/rules", map[string]interface{}{
		"account_id": acc.ID,
		"type":       "balance",
		"threshold":  500,
		"operator":   "between",
	})
	require.Equal(t, http.StatusBadRequest, rr.Code)

	// the full refresh runs a check on its own
	var resp dto.RefreshResponse
	rr = f.do(t, http.MethodPost, "/refresh", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	decode(t, rr, &resp)
	require.Equal(t, 1, resp.Triggered)

	var check dto.CheckResultDTO
	decode(t, f.do(t, http.MethodPost, "/alerts/check", nil), &check)
	require.Zero(t, check.Triggered, "unread duplicate must not fire again")

	var page dto.NotificationListDTO
	decode(t, f.do(t, http.MethodGet, "/alerts/notifications?unread=true", nil), &page)
	require.Len(t, page.Notifications, 1)
	require.EqualValues(t, 1, page.Unread)
	require.True(t, strings.Contains(page.Notifications[0].Message, "below 500"))

	rr = f.do(t, http.MethodPost, "/alerts/notifications/read-all", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	decode(t, f.do(t, http.MethodGet, "/alerts/notifications", nil), &page)
	require.Len(t, page.Notifications, 1)
	require.Zero(t, page.Unread)
}
