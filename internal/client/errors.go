package client

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
)

// ErrorKind distinguishes why a round trip failed.
type ErrorKind int

const (
	// KindStatus: the service answered with a non-2xx status.
	KindStatus ErrorKind = iota
	// KindConnection: DNS, TCP, TLS or body transfer failure; no usable response.
	KindConnection
	// KindDecode: a 2xx response whose body is not JSON.
	KindDecode
)

// TransportError is returned for every failed API call. It is never retried.
type TransportError struct {
	Kind       ErrorKind
	Method     string
	Path       string
	StatusCode int
	Reason     string
	// Detail holds the parsed JSON error body, Body the raw text when the
	// error body was not JSON. At most one of them is set.
	Detail any
	Body   string
	Err    error
}

func (e *TransportError) Error() string {
	switch e.Kind {
	case KindConnection:
		return "request failed: " + connectionReason(e.Err)
	case KindDecode:
		return fmt.Sprintf("decode response of %s %s: %v", e.Method, e.Path, e.Err)
	}

	msg := fmt.Sprintf("API request failed: %d %s", e.StatusCode, e.Reason)
	if e.Detail != nil {
		if b, err := json.MarshalIndent(e.Detail, "", "  "); err == nil {
			return msg + "\nDetails: " + string(b)
		}
		return msg
	}
	if e.Body != "" {
		return msg + "\nResponse: " + e.Body
	}
	return msg
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsConnection reports whether the request never got an HTTP response.
func (e *TransportError) IsConnection() bool { return e.Kind == KindConnection }

func connectionReason(err error) string {
	if err == nil {
		return "unknown error"
	}
	var ue *url.Error
	if errors.As(err, &ue) && ue.Err != nil {
		return ue.Err.Error()
	}
	return err.Error()
}

// statusError builds a KindStatus error from a non-2xx response. Reading or
// decoding the body is best effort: any failure leaves only the status line.
func statusError(method, path string, resp *http.Response) *TransportError {
	te := &TransportError{
		Kind:       KindStatus,
		Method:     method,
		Path:       path,
		StatusCode: resp.StatusCode,
		Reason:     reasonPhrase(resp),
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil || !utf8.Valid(data) {
		return te
	}

	var detail any
	if err := json.Unmarshal(data, &detail); err == nil && detail != nil {
		te.Detail = detail
		return te
	}
	te.Body = strings.TrimSpace(string(data))
	return te
}

func reasonPhrase(resp *http.Response) string {
	if text := http.StatusText(resp.StatusCode); text != "" {
		return text
	}
	// "799 Custom" -> "Custom"
	return strings.TrimSpace(strings.TrimPrefix(resp.Status, fmt.Sprint(resp.StatusCode)))
}
