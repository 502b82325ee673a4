package web

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/roasbeef/plexdash/internal/snapshot"
	"github.com/roasbeef/plexdash/internal/viewmodel"
)

// failingSource is a Source whose reads always fail.
type failingSource struct{}

func (failingSource) DashboardSnapshot(context.Context,
	string) (*viewmodel.Snapshot, error) {

	return nil, errors.New("database is locked")
}

func (failingSource) SetupInput(context.Context) (*viewmodel.SetupInput,
	error) {

	return nil, errors.New("database is locked")
}

// panicSource panics on every read.
type panicSource struct {
	failingSource
}

func (panicSource) DashboardSnapshot(context.Context,
	string) (*viewmodel.Snapshot, error) {

	panic("boom")
}

// newTestServer starts an httptest server around source.
func newTestServer(t *testing.T, source snapshot.Source) *httptest.Server {
	t.Helper()

	cfg := DefaultConfig()
	cfg.Clock = func() time.Time { return testNow }

	srv, err := NewServer(cfg, source, newTestComposer(t), nil)
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	return ts
}

func get(t *testing.T, ts *httptest.Server, path string) (*http.Response,
	string) {

	t.Helper()

	resp, err := ts.Client().Get(ts.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp, string(body)
}

// TestServerDashboard verifies the dashboard route renders the snapshot.
func TestServerDashboard(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, &snapshot.Static{Snapshot: testSnapshot()})

	resp, body := get(t, ts, "/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "text/html; charset=utf-8",
		resp.Header.Get("Content-Type"))
	require.NotEmpty(t, resp.Header.Get(RequestIDHeader))
	require.Contains(t, body, `action="/actions/generate/evening"`)

	// Equal snapshots at the same instant render identically.
	_, again := get(t, ts, "/")
	require.Equal(t, body, again)
}

// TestServerSetupComplete verifies the completion page route.
func TestServerSetupComplete(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, &snapshot.Static{
		Setup: viewmodel.SetupInput{
			Steps:            snapshot.WizardSteps,
			CurrentStepIndex: len(snapshot.WizardSteps) - 1,
		},
	})

	resp, body := get(t, ts, "/setup/complete")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, "Setup Complete!")
	require.Contains(t, body, "5:00 AM daily")
	require.Contains(t, body, `href="/setup/plex"`)
}

// TestServerSourceError verifies read failures produce a plain 500.
func TestServerSourceError(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, failingSource{})

	for _, path := range []string{"/", "/setup/complete"} {
		resp, body := get(t, ts, path)
		require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		require.NotContains(t, body, "<html")
		require.NotContains(t, body, "database is locked")
	}
}

// TestServerRecoversPanic verifies a panicking handler yields a 500 instead
// of a dropped connection, whatever encoding the client negotiates.
func TestServerRecoversPanic(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, panicSource{})

	resp, _ := get(t, ts, "/")
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	for _, encoding := range []string{"gzip", "identity"} {
		req, err := http.NewRequest(http.MethodGet, ts.URL+"/", nil)
		require.NoError(t, err)
		req.Header.Set("Accept-Encoding", encoding)

		resp, err := ts.Client().Do(req)
		require.NoError(t, err)
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		require.Equal(
			t, http.StatusInternalServerError, resp.StatusCode,
			encoding,
		)
	}
}

// TestServerAuxiliaryRoutes covers health, static assets and unknown paths.
func TestServerAuxiliaryRoutes(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, &snapshot.Static{})

	resp, body := get(t, ts, "/healthz")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "ok\n", body)

	resp, body = get(t, ts, "/static/style.css")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, resp.Header.Get("Content-Type"), "text/css")
	require.NotEmpty(t, body)

	resp, _ = get(t, ts, "/no-such-page")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// TestServerStartShutdown verifies the listener lifecycle.
func TestServerStartShutdown(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Addr = "127.0.0.1:0"

	srv, err := NewServer(cfg, &snapshot.Static{}, newTestComposer(t), nil)
	require.NoError(t, err)

	ln, err := net.Listen("tcp", cfg.Addr)
	require.NoError(t, err)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Serve(ln)
	}()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()

		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))

	select {
	case err := <-errChan:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

// TestServerShutdownBeforeStart verifies an early shutdown still stops a
// server that starts afterwards, and that its listener is released.
func TestServerShutdownBeforeStart(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Addr = "127.0.0.1:0"

	srv, err := NewServer(cfg, &snapshot.Static{}, newTestComposer(t), nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))

	ln, err := net.Listen("tcp", cfg.Addr)
	require.NoError(t, err)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Serve(ln)
	}()

	select {
	case err := <-errChan:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server kept serving after shutdown")
	}

	_, err = net.Dial("tcp", ln.Addr().String())
	require.Error(t, err)
}
