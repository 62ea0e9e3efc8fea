package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"launchpad/bootstrap"
	"launchpad/config"
)

func newTestServer(t *testing.T, count *atomic.Int32) *Server {
	t.Helper()
	cfg := &config.Config{
		Host:      "127.0.0.1",
		StaticDir: writeStaticRoot(t),
		IndexFile: "index.html",
	}
	launcher := bootstrap.New(bootstrap.Options{
		Delay: 20 * time.Millisecond,
		Start: func() error {
			count.Add(1)
			return nil
		},
	})
	return New(cfg, launcher)
}

func TestServerLaunchesSidecarOnceUnderLoad(t *testing.T) {
	var count atomic.Int32
	ts := httptest.NewServer(newTestServer(t, &count).Handler())
	defer ts.Close()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := http.Get(ts.URL + "/style.css")
			if err != nil {
				t.Error(err)
				return
			}
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, "body{}", string(body))
		}()
	}
	wg.Wait()

	assert.Eventually(t, func() bool { return count.Load() == 1 },
		time.Second, 5*time.Millisecond)
}

func TestServerFallsBackThroughRouter(t *testing.T) {
	var count atomic.Int32
	ts := httptest.NewServer(newTestServer(t, &count).Handler())
	defer ts.Close()

	// No redirect following: every path must answer 200 directly.
	client := &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	for _, path := range []string{"/", "/nonexistent.js", "/rooms/42", "/../../etc/passwd"} {
		resp, err := client.Get(ts.URL + path)
		require.NoError(t, err, path)
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		require.NoError(t, err, path)

		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.Equal(t, "<html>home</html>", string(body), path)
	}
}

func TestHandlerWithoutLauncher(t *testing.T) {
	cfg := &config.Config{
		StaticDir: writeStaticRoot(t),
		IndexFile: "index.html",
	}
	h := New(cfg, nil).Handler()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<html>home</html>", rec.Body.String())
}
