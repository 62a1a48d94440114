package transport_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/donaldgifford/reddit-top/internal/transport"
)

func TestClient_DownloadKeepsExistingFiles(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		remote   string
		existing []string
		wantName string
	}{
		{name: "free name", remote: "authorized_keys", wantName: "authorized_keys"},
		{
			name:     "taken name gets suffix",
			remote:   "authorized_keys",
			existing: []string{"authorized_keys"},
			wantName: "authorized_keys-1",
		},
		{
			name:     "suffix keeps extension",
			remote:   "cat.jpg",
			existing: []string{"cat.jpg", "cat-1.jpg"},
			wantName: "cat-2.jpg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Disposition", `attachment; filename="`+tt.remote+`"`)
				_, _ = w.Write([]byte("REMOTE"))
			}))
			defer srv.Close()

			dir := t.TempDir()
			for _, name := range tt.existing {
				require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("OWNER"), 0o600))
			}

			got, err := newClient().Download(context.Background(), srv.URL+"/blob", dir)
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(dir, tt.wantName), got)

			data, err := os.ReadFile(got)
			require.NoError(t, err)
			assert.Equal(t, "REMOTE", string(data))

			for _, name := range tt.existing {
				data, err := os.ReadFile(filepath.Join(dir, name))
				require.NoError(t, err)
				assert.Equal(t, "OWNER", string(data), "%s was modified", name)
			}
		})
	}
}

func TestClient_DownloadFailureKeepsExistingFile(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Length", "1024")
		_, _ = w.Write([]byte("partial"))
		w.(http.Flusher).Flush()
		<-release
	}))
	defer srv.Close()
	defer close(release)

	dir := t.TempDir()
	existing := filepath.Join(dir, "slow.jpg")
	require.NoError(t, os.WriteFile(existing, []byte("OWNER"), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := newClient().Download(ctx, srv.URL+"/slow.jpg", dir)
		errCh <- err
	}()

	require.Eventually(t, func() bool {
		_, err := os.Stat(filepath.Join(dir, "slow-1.jpg"))
		return err == nil
	}, testTimeout, testTick)

	cancel()
	require.Error(t, <-errCh)

	_, statErr := os.Stat(filepath.Join(dir, "slow-1.jpg"))
	assert.True(t, os.IsNotExist(statErr))

	data, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "OWNER", string(data))
}

// Installs global propagators, so it does not run in parallel.
func TestClient_RequestsCarryNoTraceHeaders(t *testing.T) {
	prev := otel.GetTextMapPropagator()
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	t.Cleanup(func() { otel.SetTextMapPropagator(prev) })

	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	var (
		mu      sync.Mutex
		headers []http.Header
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		headers = append(headers, r.Header.Clone())
		mu.Unlock()
		_, _ = w.Write([]byte("data"))
	}))
	defer srv.Close()

	ctx, span := tp.Tracer("test").Start(context.Background(), "download")
	defer span.End()
	require.True(t, span.SpanContext().IsValid())

	client := newClient()
	_, err := client.Download(ctx, srv.URL+"/x.jpg", t.TempDir())
	require.NoError(t, err)
	_, err = client.Get(ctx, srv.URL+"/top", nil, nil)
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, headers, 2)

	for _, h := range headers {
		assert.Empty(t, h.Get("Traceparent"))
		assert.Empty(t, h.Get("Tracestate"))
		assert.Empty(t, h.Get("Baggage"))
	}

	for key := range headers[0] {
		assert.Contains(t, []string{"Accept-Encoding", "User-Agent"}, key,
			"download sent header %s", key)
	}
}

func TestClient_StatusErrorDropsLineBreaks(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>\r\n<body>bad gateway</body>\n</html>\n"))
	}))
	defer srv.Close()

	_, err := newClient().Get(context.Background(), srv.URL, nil, nil)

	var se *transport.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "<html><body>bad gateway</body></html>", se.Body)
}
