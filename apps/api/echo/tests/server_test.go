package tests

import (
	"log"
	"net/http"
	"os"
	"testing"

	. "github.com/trezcool/shule/apps/api/echo"
	"github.com/trezcool/shule/core"
	logsvc "github.com/trezcool/shule/services/logger"
	"github.com/trezcool/shule/storage/database"
)

func TestServer_home(t *testing.T) {
	app := setup(t)
	req, rec := newRequest(http.MethodGet, "/")
	app.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("code = %v; want %v", rec.Code, http.StatusOK)
	}
	if rec.Body.String() != "Welcome to Shule API!" {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestServer_ping(t *testing.T) {
	app := setup(t)
	req, rec := newRequest(http.MethodGet, "/api/ping")
	app.server.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: []byte(`{"message": "ping"}`)}, rec)
}

func TestServer_health(t *testing.T) {
	// no health check wired means always healthy
	app := setup(t)
	req, rec := newRequest(http.MethodGet, "/api/health")
	app.server.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusOK,
		wantData: []byte(`{"status": "ok", "message": "database connected", "database": true}`),
	}, rec)

	t.Run("store not ready", func(t *testing.T) {
		validate, translator := core.NewValidator()
		server := NewServer(
			&Options{
				DisableReqLogs: true,
				Conf:           core.NewTestConfig(),
				Logger:         logsvc.NewStdLogger(log.New(os.Stdout, "TEST : ", log.LstdFlags)),
				Validate:       validate,
				Translator:     translator,
				HealthCheck:    func() error { return database.ErrNotReady },
			},
		)
		req, rec := newRequest(http.MethodGet, "/api/health")
		server.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusServiceUnavailable,
			wantData: []byte(`{"status": "error", "message": "database not connected", "reason": "database not connected", "database": false}`),
		}, rec)
	})
}
