package http

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DenisKhanov/MarketingBot/internal/marketing_bot/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouter(t *testing.T) {
	metrics.Updates.WithLabelValues("text").Inc()
	srv := httptest.NewServer(NewRouter())
	defer srv.Close()

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantBody   string
	}{
		{name: "health", path: "/healthz", wantStatus: http.StatusOK, wantBody: "ok"},
		{name: "metrics", path: "/metrics", wantStatus: http.StatusOK, wantBody: "marketing_bot_updates_total"},
		{name: "unknown", path: "/nope", wantStatus: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(srv.URL + tt.path)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Contains(t, string(body), tt.wantBody)
		})
	}
}

func TestNewServer(t *testing.T) {
	srv := NewServer(":0")
	assert.Equal(t, ":0", srv.Addr)
	assert.NotNil(t, srv.Handler)
}
