package crawlers

import (
	"bytes"
	"compress/flate"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/RecoveryAshes/newscrawler/internal/models"
	"github.com/andybalholm/brotli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// staticHeaders 固定的头部提供者
type staticHeaders struct {
	headers http.Header
	err     error
}

func (s staticHeaders) GetHeaders() (http.Header, error) {
	return s.headers, s.err
}

func TestPageFetcher_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			fmt.Fprint(w, "<html><body>merhaba</body></html>")
		case "/echo":
			fmt.Fprint(w, r.Header.Get("X-News-Token")+"|"+r.Header.Get("User-Agent"))
		case "/slow":
			time.Sleep(2 * time.Second)
			fmt.Fprint(w, "late")
		case "/forbidden":
			w.WriteHeader(http.StatusForbidden)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	ctx := context.Background()

	t.Run("200返回响应体", func(t *testing.T) {
		body, err := NewPageFetcher(FetcherConfig{}).Fetch(ctx, server.URL+"/ok")
		require.NoError(t, err)
		assert.Equal(t, "<html><body>merhaba</body></html>", string(body))
	})

	t.Run("非2xx返回TransportError", func(t *testing.T) {
		for path, status := range map[string]int{"/missing": http.StatusNotFound, "/forbidden": http.StatusForbidden} {
			body, err := NewPageFetcher(FetcherConfig{}).Fetch(ctx, server.URL+path)
			assert.Nil(t, body)
			var transportErr *models.TransportError
			require.True(t, errors.As(err, &transportErr), "path=%s", path)
			assert.Equal(t, status, transportErr.StatusCode)
			assert.Equal(t, server.URL+path, transportErr.URL)
		}
	})

	t.Run("应用自定义头部", func(t *testing.T) {
		headers := http.Header{}
		headers.Set("X-News-Token", "abc")
		headers.Set("User-Agent", "NewsBot/1.0")
		fetcher := NewPageFetcher(FetcherConfig{Headers: staticHeaders{headers: headers}})

		body, err := fetcher.Fetch(ctx, server.URL+"/echo")
		require.NoError(t, err)
		assert.Equal(t, "abc|NewsBot/1.0", string(body))
	})

	t.Run("头部提供者失败", func(t *testing.T) {
		fetcher := NewPageFetcher(FetcherConfig{Headers: staticHeaders{err: errors.New("无效头部")}})
		_, err := fetcher.Fetch(ctx, server.URL+"/ok")
		var transportErr *models.TransportError
		require.True(t, errors.As(err, &transportErr))
		assert.Contains(t, err.Error(), "无效头部")
	})

	t.Run("超时", func(t *testing.T) {
		fetcher := NewPageFetcher(FetcherConfig{Timeout: 100 * time.Millisecond})
		start := time.Now()
		_, err := fetcher.Fetch(ctx, server.URL+"/slow")
		var transportErr *models.TransportError
		require.True(t, errors.As(err, &transportErr))
		assert.Equal(t, 0, transportErr.StatusCode)
		assert.Less(t, time.Since(start), 2*time.Second)
	})

	t.Run("上下文已取消", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := NewPageFetcher(FetcherConfig{RateLimit: 1}).Fetch(cancelled, server.URL+"/ok")
		var transportErr *models.TransportError
		assert.True(t, errors.As(err, &transportErr))
	})

	t.Run("连接失败", func(t *testing.T) {
		_, err := NewPageFetcher(FetcherConfig{}).Fetch(ctx, "http://127.0.0.1:1/unreachable")
		var transportErr *models.TransportError
		assert.True(t, errors.As(err, &transportErr))
	})
}

func TestPageFetcher_CompressedBodies(t *testing.T) {
	const page = "<html><body><p>sıkıştırılmış içerik</p></body></html>"

	var brBody, deflateBody bytes.Buffer
	bw := brotli.NewWriter(&brBody)
	_, _ = bw.Write([]byte(page))
	require.NoError(t, bw.Close())
	fw, err := flate.NewWriter(&deflateBody, flate.DefaultCompression)
	require.NoError(t, err)
	_, _ = fw.Write([]byte(page))
	require.NoError(t, fw.Close())

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		switch r.URL.Path {
		case "/br":
			w.Header().Set("Content-Encoding", "br")
			_, _ = w.Write(brBody.Bytes())
		case "/deflate":
			w.Header().Set("Content-Encoding", "deflate")
			_, _ = w.Write(deflateBody.Bytes())
		}
	}))
	defer server.Close()

	fetcher := NewPageFetcher(FetcherConfig{})
	for _, path := range []string{"/br", "/deflate"} {
		body, err := fetcher.Fetch(context.Background(), server.URL+path)
		require.NoError(t, err, path)
		assert.Equal(t, page, string(body), path)
	}
}

func TestDecompressBody(t *testing.T) {
	plain := []byte("düz metin")

	got, err := decompressBody("", plain)
	require.NoError(t, err)
	assert.Equal(t, plain, got)

	got, err = decompressBody("identity", plain)
	require.NoError(t, err)
	assert.Equal(t, plain, got)

	_, err = decompressBody("br", []byte("not brotli at all"))
	assert.Error(t, err)
}
