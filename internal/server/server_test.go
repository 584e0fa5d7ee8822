package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/VamsiKurapati/docrender"
)

var fakePDF = []byte("%PDF-1.7 server")

const validDoc = `{"pages":[{"width":800,"height":600,"elements":[
	{"type":"text","x":10,"y":20,"width":200,"height":50,"text":"Hello"}]}]}`

// fakeRenderer returns fixed results and records what it was given.
type fakeRenderer struct {
	result *docrender.Result
	err    error
	health *docrender.HealthReport
	block  chan struct{}

	calls  atomic.Int32
	active atomic.Int32
	peak   atomic.Int32
	gotID  atomic.Value
}

func (f *fakeRenderer) Render(ctx context.Context, doc *docrender.Document) (*docrender.Result, error) {
	f.calls.Add(1)
	f.gotID.Store(docrender.RequestID(ctx))
	n := f.active.Add(1)
	defer f.active.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}
	if f.block != nil {
		<-f.block
	}
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return &docrender.Result{PDF: fakePDF, Pages: len(doc.Pages)}, nil
}

func (f *fakeRenderer) Health(context.Context) *docrender.HealthReport {
	if f.health != nil {
		return f.health
	}
	return &docrender.HealthReport{Status: docrender.HealthOK}
}

func post(t *testing.T, h http.Handler, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var e ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&e); err != nil {
		t.Fatalf("error body is not JSON: %v", err)
	}
	return e
}

func TestRender_JSONEnvelope(t *testing.T) {
	t.Parallel()

	fake := &fakeRenderer{result: &docrender.Result{
		PDF:      fakePDF,
		Pages:    1,
		Degraded: []docrender.Degradation{{Page: 1, Index: 2, Message: "Failed to load image: x"}},
	}}
	rec := post(t, New(fake).Handler(), "/api/render", validDoc)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	var resp RenderResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(resp.PDF, fakePDF) || resp.Pages != 1 || len(resp.Degraded) != 1 {
		t.Errorf("response = %+v", resp)
	}
	if resp.RequestID == "" || resp.RequestID != rec.Header().Get(requestIDHeader) {
		t.Errorf("request id body %q header %q", resp.RequestID, rec.Header().Get(requestIDHeader))
	}
}

func TestRender_EmptyDegradedIsArray(t *testing.T) {
	t.Parallel()

	rec := post(t, New(&fakeRenderer{}).Handler(), "/api/render", validDoc)
	if !strings.Contains(rec.Body.String(), `"degraded":[]`) {
		t.Errorf("body = %s", rec.Body)
	}
}

func TestRender_RawPDF(t *testing.T) {
	t.Parallel()

	rec := post(t, New(&fakeRenderer{}).Handler(), "/api/render?format=pdf", validDoc)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !bytes.Equal(rec.Body.Bytes(), fakePDF) {
		t.Errorf("body = %q", rec.Body.Bytes())
	}
	if rec.Header().Get("X-Degraded-Elements") != "0" {
		t.Errorf("X-Degraded-Elements = %q", rec.Header().Get("X-Degraded-Elements"))
	}
}

func TestRender_Errors(t *testing.T) {
	t.Parallel()

	exhausted := &docrender.ExhaustedError{Failures: []*docrender.TierError{{Tier: "standard", Err: errors.New("boom")}}}

	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
		wantMsg    string
		wantCalls  int32
	}{
		{"malformed json", "{", nil, http.StatusBadRequest, "invalid document", 0},
		{"empty body", "", nil, http.StatusBadRequest, "invalid document", 0},
		{"no pages", `{"pages":[]}`, docrender.ErrEmptyDocument, http.StatusBadRequest, "invalid document", 1},
		{"bad page size", validDoc, docrender.ErrInvalidPageSize, http.StatusBadRequest, "invalid document", 1},
		{"exhausted", validDoc, exhausted, http.StatusInternalServerError, "PDF generation failed", 1},
		{"internal", validDoc, docrender.ErrInternal, http.StatusInternalServerError, "render failed", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			fake := &fakeRenderer{err: tt.err}
			rec := post(t, New(fake).Handler(), "/api/render", tt.body)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			e := decodeError(t, rec)
			if e.Message != tt.wantMsg || e.Details == "" {
				t.Errorf("error = %+v, want message %q with details", e, tt.wantMsg)
			}
			if fake.calls.Load() != tt.wantCalls {
				t.Errorf("renderer calls = %d, want %d", fake.calls.Load(), tt.wantCalls)
			}
		})
	}
}

func TestRender_ExhaustedDetailsNameTiers(t *testing.T) {
	t.Parallel()

	exhausted := &docrender.ExhaustedError{Failures: []*docrender.TierError{
		{Tier: "standard", Err: errors.New("first")},
		{Tier: "system", Err: errors.New("last")},
	}}
	rec := post(t, New(&fakeRenderer{err: exhausted}).Handler(), "/api/render", validDoc)

	e := decodeError(t, rec)
	for _, want := range []string{"standard", "first", "system", "last"} {
		if !strings.Contains(e.Details, want) {
			t.Errorf("details missing %q: %s", want, e.Details)
		}
	}
}

func TestRender_BodyTooLarge(t *testing.T) {
	t.Parallel()

	fake := &fakeRenderer{}
	rec := post(t, New(fake, WithMaxBodyBytes(16)).Handler(), "/api/render", validDoc)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", rec.Code)
	}
	if fake.calls.Load() != 0 {
		t.Error("renderer called for an oversized body")
	}
}

func TestRender_RequestIDPropagates(t *testing.T) {
	t.Parallel()

	fake := &fakeRenderer{}
	req := httptest.NewRequest(http.MethodPost, "/api/render", strings.NewReader(validDoc))
	req.Header.Set(requestIDHeader, "client-7")
	rec := httptest.NewRecorder()
	New(fake).Handler().ServeHTTP(rec, req)

	if got := rec.Header().Get(requestIDHeader); got != "client-7" {
		t.Errorf("response id = %q", got)
	}
	if got, _ := fake.gotID.Load().(string); got != "client-7" {
		t.Errorf("renderer saw id %q", got)
	}
}

func TestRender_MethodNotAllowed(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/api/render", nil)
	rec := httptest.NewRecorder()
	New(&fakeRenderer{}).Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestRender_LimiterBoundsConcurrency(t *testing.T) {
	t.Parallel()

	fake := &fakeRenderer{block: make(chan struct{})}
	h := New(fake, WithLimiter(docrender.NewLimiter(2))).Handler()

	var wg sync.WaitGroup
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			post(t, h, "/api/render", validDoc)
		}()
	}

	deadline := time.Now().Add(2 * time.Second)
	for fake.active.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	time.Sleep(20 * time.Millisecond)
	if got := fake.active.Load(); got != 2 {
		t.Errorf("active renders = %d, want 2", got)
	}
	close(fake.block)
	wg.Wait()

	if fake.peak.Load() > 2 || fake.calls.Load() != 5 {
		t.Errorf("peak = %d calls = %d", fake.peak.Load(), fake.calls.Load())
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		report     *docrender.HealthReport
		wantStatus int
	}{
		{"ok", &docrender.HealthReport{Status: docrender.HealthOK}, http.StatusOK},
		{"failing", &docrender.HealthReport{Status: docrender.HealthError}, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
			rec := httptest.NewRecorder()
			New(&fakeRenderer{health: tt.report}).Handler().ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var got docrender.HealthReport
			if err := json.NewDecoder(rec.Body).Decode(&got); err != nil || got.Status != tt.report.Status {
				t.Errorf("report = %+v, %v", got, err)
			}
		})
	}
}

// stubTier lets the real renderer run without an engine.
type stubTier struct{}

func (stubTier) Name() string { return "stub" }

func (stubTier) Render(_ context.Context, path string, _ docrender.PageSize) ([]byte, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	return fakePDF, nil
}

func TestServer_WithRealRenderer(t *testing.T) {
	t.Parallel()

	r := docrender.NewRenderer(docrender.WithTiers(stubTier{}), docrender.WithDeployment("test"))
	srv := httptest.NewServer(New(r).Handler())
	t.Cleanup(srv.Close)

	doc := `{"pages":[{"width":100,"height":100,"elements":[
		{"type":"image","src":"template:missing.png","x":0,"y":0,"width":10,"height":10}]}]}`
	resp, err := http.Post(srv.URL+"/api/render", "application/json", strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var out RenderResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK || !bytes.Equal(out.PDF, fakePDF) {
		t.Fatalf("status %d response %+v", resp.StatusCode, out)
	}
	if len(out.Degraded) != 1 || out.Degraded[0].Index != 0 {
		t.Errorf("degraded = %+v", out.Degraded)
	}

	health, err := http.Get(srv.URL + "/api/health")
	if err != nil {
		t.Fatal(err)
	}
	health.Body.Close()
	if health.StatusCode != http.StatusOK {
		t.Errorf("health status = %d", health.StatusCode)
	}
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- New(&fakeRenderer{}).Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/api/health")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
