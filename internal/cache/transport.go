package cache

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
)

// Transport is an http.RoundTripper implementing the cache-aside pattern
// for GET requests: a valid cache hit short-circuits the network entirely;
// a miss delegates to the wrapped transport and writes successful response
// bodies back to the store. Keys cover the full request URL including the
// query string.
type Transport struct {
	Store  Store
	Next   http.RoundTripper
	Logger *slog.Logger
}

func (t *Transport) next() http.RoundTripper {
	if t.Next != nil {
		return t.Next
	}
	return http.DefaultTransport
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodGet {
		return t.next().RoundTrip(req)
	}

	key := Key(req.URL.String())
	if body, ok := t.Store.Get(key); ok {
		t.Logger.Debug("cache hit", "url", req.URL.String())
		return &http.Response{
			Status:        http.StatusText(http.StatusOK),
			StatusCode:    http.StatusOK,
			Proto:         "HTTP/1.1",
			ProtoMajor:    1,
			ProtoMinor:    1,
			Header:        http.Header{"Content-Type": []string{"application/json; charset=utf-8"}},
			Body:          io.NopCloser(bytes.NewReader(body)),
			ContentLength: int64(len(body)),
			Request:       req,
		}, nil
	}

	resp, err := t.next().RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return resp, nil
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, err
	}
	if err := t.Store.Set(key, body); err != nil {
		t.Logger.Warn("cache write failed", "url", req.URL.String(), "error", err)
	}
	resp.Body = io.NopCloser(bytes.NewReader(body))
	return resp, nil
}
