package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/gfpop-go/gfpop/internal/storage"
	"github.com/gfpop-go/gfpop/pkg/config"
	"github.com/gfpop-go/gfpop/pkg/gfpop"
)

func newTestController(t *testing.T) *Controller {
	t.Helper()
	store, err := storage.NewSQLiteClient(":memory:", zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("NewSQLiteClient: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	var wg sync.WaitGroup
	cfg := config.ServerData{ListenAddr: "127.0.0.1", Port: 0}
	return NewController(ctx, &wg, cfg, store, zap.NewNop().Sugar())
}

func stdGraphRequest(values []float64) JobRequest {
	return JobRequest{
		Values: values,
		Graph: gfpop.Graph{
			NStates: 1,
			Edges:   []gfpop.Edge{{From: 0, To: 0, Kind: gfpop.KindStd, Penalty: 5, Decay: 1}},
		},
	}
}

func TestSubmitJobThenGetJobRoundTrips(t *testing.T) {
	ctrl := newTestController(t)

	body, err := json.Marshal(stdGraphRequest([]float64{0, 0, 0, 9, 9, 9}))
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}

	submitReq := httptest.NewRequest(http.MethodPost, "/jobs", bytes.NewReader(body))
	submitRec := httptest.NewRecorder()
	ctrl.Server.Handler.ServeHTTP(submitRec, submitReq)

	if submitRec.Code != http.StatusOK {
		t.Fatalf("submit: got status %d, body %q", submitRec.Code, submitRec.Body.String())
	}

	var submitted JobResponse
	if err := json.Unmarshal(submitRec.Body.Bytes(), &submitted); err != nil {
		t.Fatalf("decode submit response: %v", err)
	}
	if submitted.ID == "" {
		t.Fatal("expected a non-empty job ID")
	}
	if submitted.Result.NSegments() != 2 {
		t.Errorf("expected 2 segments, got %d", submitted.Result.NSegments())
	}

	fetchReq := httptest.NewRequest(http.MethodGet, "/jobs/"+submitted.ID, nil)
	fetchRec := httptest.NewRecorder()
	ctrl.Server.Handler.ServeHTTP(fetchRec, fetchReq)

	if fetchRec.Code != http.StatusOK {
		t.Fatalf("fetch: got status %d, body %q", fetchRec.Code, fetchRec.Body.String())
	}
	var fetched JobResponse
	if err := json.Unmarshal(fetchRec.Body.Bytes(), &fetched); err != nil {
		t.Fatalf("decode fetch response: %v", err)
	}
	if fetched.ID != submitted.ID {
		t.Errorf("got ID %q, want %q", fetched.ID, submitted.ID)
	}
}

func TestGetJobOnUnknownIDReturns404(t *testing.T) {
	ctrl := newTestController(t)

	req := httptest.NewRequest(http.MethodGet, "/jobs/unknown-id", nil)
	rec := httptest.NewRecorder()
	ctrl.Server.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("got status %d, want 404", rec.Code)
	}
}

func TestSubmitJobRejectsMalformedBody(t *testing.T) {
	ctrl := newTestController(t)

	req := httptest.NewRequest(http.MethodPost, "/jobs", bytes.NewReader([]byte("not json")))
	rec := httptest.NewRecorder()
	ctrl.Server.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("got status %d, want 400", rec.Code)
	}
}

func TestAuthMiddlewareRejectsMissingToken(t *testing.T) {
	store, err := storage.NewSQLiteClient(":memory:", zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("NewSQLiteClient: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	var wg sync.WaitGroup
	cfg := config.ServerData{ListenAddr: "127.0.0.1", Port: 0, AuthToken: "s3cret"}
	ctrl := NewController(ctx, &wg, cfg, store, zap.NewNop().Sugar())

	req := httptest.NewRequest(http.MethodGet, "/jobs/anything", nil)
	rec := httptest.NewRecorder()
	ctrl.Server.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("got status %d, want 401", rec.Code)
	}
}
