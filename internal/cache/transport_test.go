package cache

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*http.Client, *atomic.Int64, *httptest.Server) {
	t.Helper()

	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		switch r.URL.Path {
		case "/missing":
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"message":"Not Found"}`)
		default:
			fmt.Fprint(w, `{"ok":true}`)
		}
	}))
	t.Cleanup(server.Close)

	store, err := NewMemoryStore(16, time.Minute)
	require.NoError(t, err)

	client := &http.Client{Transport: &Transport{Store: store, Logger: discardLogger()}}
	return client, &hits, server
}

func TestTransport_SecondGetServedFromCache(t *testing.T) {
	client, hits, server := newTestClient(t)

	for i := 0; i < 3; i++ {
		resp, err := client.Get(server.URL + "/repos/foo/bar")
		require.NoError(t, err)
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, `{"ok":true}`, string(body))
	}

	assert.Equal(t, int64(1), hits.Load(), "only the first request should reach the origin")
}

func TestTransport_DistinctQueryStringsAreDistinctEntries(t *testing.T) {
	client, hits, server := newTestClient(t)

	_, err := client.Get(server.URL + "/search?q=a")
	require.NoError(t, err)
	_, err = client.Get(server.URL + "/search?q=b")
	require.NoError(t, err)

	assert.Equal(t, int64(2), hits.Load())
}

func TestTransport_NonOKResponsesAreNotCached(t *testing.T) {
	client, hits, server := newTestClient(t)

	for i := 0; i < 2; i++ {
		resp, err := client.Get(server.URL + "/missing")
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	}

	assert.Equal(t, int64(2), hits.Load(), "error responses must not be served from cache")
}

func TestTransport_NonGETBypassesCache(t *testing.T) {
	client, hits, server := newTestClient(t)

	for i := 0; i < 2; i++ {
		resp, err := client.Post(server.URL+"/repos", "application/json", nil)
		require.NoError(t, err)
		resp.Body.Close()
	}

	assert.Equal(t, int64(2), hits.Load())
}
