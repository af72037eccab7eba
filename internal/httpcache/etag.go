// Package httpcache implements conditional GET over serialized JSON bodies:
// a weak ETag derived from the exact bytes, and a 304 when the client
// already holds them.
package httpcache

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// CacheControl is sent with every 200 produced by this package.
const CacheControl = "public, max-age=60, stale-while-revalidate=300"

// Result is the typed outcome of a conditional GET. A 304 has a nil Body.
type Result struct {
	Status  int
	Headers map[string]string
	Body    []byte
}

// ComputeETag returns W/"<sha1 hex>" of body.
func ComputeETag(body []byte) string {
	sum := sha1.Sum(body)
	return `W/"` + hex.EncodeToString(sum[:]) + `"`
}

// Evaluate compares ifNoneMatch with the body's ETag. Only an exact string
// match yields 304; lists and wildcards are not interpreted.
func Evaluate(ifNoneMatch string, body []byte) Result {
	etag := ComputeETag(body)

	if ifNoneMatch != "" && ifNoneMatch == etag {
		return Result{
			Status:  http.StatusNotModified,
			Headers: map[string]string{"ETag": etag},
		}
	}

	return Result{
		Status: http.StatusOK,
		Headers: map[string]string{
			"Cache-Control": CacheControl,
			"ETag":          etag,
			"Content-Type":  "application/json; charset=utf-8",
		},
		Body: body,
	}
}

// Marshal serializes v deterministically. encoding/json emits struct fields
// in declaration order and map keys sorted, so equal values always produce
// equal bytes. The trailing newline is dropped.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("marshal response: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Write sends an already-serialized body through gin with ETag handling.
func Write(c *gin.Context, body []byte) {
	res := Evaluate(c.GetHeader("If-None-Match"), body)
	for k, v := range res.Headers {
		c.Header(k, v)
	}
	if res.Status == http.StatusNotModified {
		c.Status(res.Status)
		return
	}
	c.Data(res.Status, res.Headers["Content-Type"], res.Body)
}

// JSON marshals v and writes it with ETag handling.
func JSON(c *gin.Context, v any) error {
	body, err := Marshal(v)
	if err != nil {
		return err
	}
	Write(c, body)
	return nil
}
