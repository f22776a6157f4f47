// Package gzippedhttp contains HTTP middleware that transparently
// decompresses gzip request bodies and compresses responses for clients
// that accept gzip.
package gzippedhttp

import (
	"compress/gzip"
	"net/http"
	"strings"
	"sync"
)

var gzipWriterPool = sync.Pool{
	New: func() interface{} {
		w, _ := gzip.NewWriterLevel(nil, gzip.BestSpeed)
		return w
	},
}

type compressedResponseWriter struct {
	http.ResponseWriter
	zw *gzip.Writer
}

func (c *compressedResponseWriter) Write(p []byte) (int, error) {
	return c.zw.Write(p)
}

func (c *compressedResponseWriter) close() error {
	err := c.zw.Close()
	gzipWriterPool.Put(c.zw)
	return err
}

// GzipResponse compresses the response body when the client sends
// "Accept-Encoding: gzip".
func GzipResponse(h http.Handler) http.Handler {
	middleware := func(response http.ResponseWriter, request *http.Request) {
		if !strings.Contains(request.Header.Get("Accept-Encoding"), "gzip") {
			h.ServeHTTP(response, request)

			return
		}

		zw := gzipWriterPool.Get().(*gzip.Writer)
		zw.Reset(response)
		compressed := &compressedResponseWriter{ResponseWriter: response, zw: zw}
		defer compressed.close()

		// Set before the handler writes any status, so error responses
		// are labeled as compressed too.
		response.Header().Set("Content-Encoding", "gzip")

		h.ServeHTTP(compressed, request)
	}

	return http.HandlerFunc(middleware)
}

// UngzipRequest replaces a gzip-encoded request body with a decompressing
// reader before the handler sees it.
func UngzipRequest(h http.Handler) http.Handler {
	middleware := func(response http.ResponseWriter, request *http.Request) {
		if strings.Contains(request.Header.Get("Content-Encoding"), "gzip") {
			zr, err := gzip.NewReader(request.Body)
			if err != nil {
				response.WriteHeader(http.StatusInternalServerError)

				return
			}
			defer zr.Close()
			request.Body = zr
		}

		h.ServeHTTP(response, request)
	}

	return http.HandlerFunc(middleware)
}
