package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xraph/depot"
	"github.com/xraph/depot/internal/auth"
	"github.com/xraph/depot/internal/bootstrap"
	"github.com/xraph/depot/internal/config"
	"github.com/xraph/depot/internal/login"
)

func newTestServer(t *testing.T, cfg *config.Config) (*httptest.Server, depot.Container) {
	t.Helper()

	ctx := context.Background()
	reg := prometheus.NewRegistry()

	c, err := bootstrap.NewContainer(ctx, cfg, zap.NewNop(), reg)
	require.NoError(t, err)

	srv := httptest.NewServer(NewServer(c, reg, zap.NewNop()).Router())
	t.Cleanup(func() {
		srv.Close()
		_ = c.Stop(ctx)
	})

	return srv, c
}

func postLogin(t *testing.T, srv *httptest.Server, body string) (*http.Response, login.Result) {
	t.Helper()

	resp, err := http.Post(srv.URL+"/login", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var result login.Result
	if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusUnauthorized {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	}

	return resp, result
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t, config.DefaultConfig())

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

type failingCheck struct{}

func (failingCheck) Health(context.Context) error { return errors.New("disk full") }

func TestHealthz_Unhealthy(t *testing.T) {
	c := depot.New()
	require.NoError(t, depot.RegisterValue(c, "disk", failingCheck{}))
	_, err := c.Resolve("disk")
	require.NoError(t, err)

	srv := httptest.NewServer(NewServer(c, nil, nil).Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body["error"], "disk full")
}

func TestListServices(t *testing.T) {
	srv, c := newTestServer(t, config.DefaultConfig())

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"all", "", len(c.Services())},
		{"group", "?group=" + bootstrap.Group, 3},
		{"lifecycle", "?lifecycle=transient", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(srv.URL + "/services" + tt.query)
			require.NoError(t, err)
			defer resp.Body.Close()

			require.Equal(t, http.StatusOK, resp.StatusCode)

			var infos []depot.ServiceInfo
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&infos))
			assert.NotNil(t, infos)
			assert.Len(t, infos, tt.want)
		})
	}
}

func TestInspectService(t *testing.T) {
	srv, _ := newTestServer(t, config.DefaultConfig())

	name := depot.TypeName[auth.Service]()

	resp, err := http.Get(srv.URL + "/services/" + name)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var info depot.ServiceInfo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&info))
	assert.Equal(t, name, info.Name)
	assert.Equal(t, depot.LifecycleSingleton, info.Lifecycle)
	assert.True(t, info.Started)
	assert.Equal(t, []string{bootstrap.Group}, info.Groups)
	assert.Equal(t, config.AuthDefault, info.Metadata["mode"])
}

func TestInspectService_NotFound(t *testing.T) {
	srv, _ := newTestServer(t, config.DefaultConfig())

	resp, err := http.Get(srv.URL + "/services/nope")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestLogin(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Auth.Mode = config.AuthStatic
	cfg.Auth.Users = map[string]string{"alice": auth.Digest("wonderland")}

	srv, _ := newTestServer(t, cfg)

	t.Run("success", func(t *testing.T) {
		resp, result := postLogin(t, srv, `{"username":"alice","password":"wonderland"}`)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.True(t, result.Success)
		assert.Equal(t, login.MessageSuccess, result.Message)
		assert.NotEmpty(t, result.SessionID)
	})

	t.Run("wrong password", func(t *testing.T) {
		resp, result := postLogin(t, srv, `{"username":"alice","password":"queen"}`)

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.False(t, result.Success)
		assert.Equal(t, login.MessageFailed, result.Message)
	})

	t.Run("bad body", func(t *testing.T) {
		resp, _ := postLogin(t, srv, `{`)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestLogin_NoViewModelBound(t *testing.T) {
	srv := httptest.NewServer(NewServer(depot.New(), nil, nil).Router())
	defer srv.Close()

	resp, _ := postLogin(t, srv, `{"username":"a","password":"b"}`)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestMetrics(t *testing.T) {
	srv, _ := newTestServer(t, config.DefaultConfig())

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	buf := new(strings.Builder)
	_, err = io.Copy(buf, resp.Body)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "depot_resolves_total")
}

func TestMetrics_DisabledWithoutGatherer(t *testing.T) {
	srv := httptest.NewServer(NewServer(depot.New(), nil, nil).Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
