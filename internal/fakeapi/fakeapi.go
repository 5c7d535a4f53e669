// Package fakeapi serves canned Shortcut API responses for tests.
package fakeapi

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
)

// Token 是假服务接受的 Shortcut-Token
const Token = "test-token-0123456789"

// Response 一条预置响应；JSON 非 nil 时按 JSON 返回，否则返回 Text
type Response struct {
	Status int
	JSON   any
	Text   string
}

// Call 一次被记录的请求
type Call struct {
	Method string
	Path   string
	Query  url.Values
	Body   map[string]any
	Header http.Header
}

// Server 基于 gin 的 Shortcut API 假服务
type Server struct {
	srv *httptest.Server

	mu     sync.Mutex
	routes map[string]Response
	calls  []Call
}

// New 启动假服务，测试结束时自动关闭
func New(t testing.TB) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := &Server{routes: make(map[string]Response)}
	r := gin.New()
	r.Any("/api/v3/*path", s.serve)
	s.srv = httptest.NewServer(r)
	t.Cleanup(s.srv.Close)
	return s
}

// BaseURL 返回可直接传给 client.WithBaseURL 的地址
func (s *Server) BaseURL() string { return s.srv.URL + "/api/v3" }

// Close 立即关闭服务，用于模拟连接失败
func (s *Server) Close() { s.srv.Close() }

// Handle 注册 JSON 响应
func (s *Server) Handle(method, path string, status int, body any) {
	s.set(method, path, Response{Status: status, JSON: body})
}

// HandleText 注册纯文本响应
func (s *Server) HandleText(method, path string, status int, text string) {
	s.set(method, path, Response{Status: status, Text: text})
}

func (s *Server) set(method, path string, resp Response) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes[method+" "+strings.TrimPrefix(path, "/")] = resp
}

// Calls 返回已收到的请求
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// LastCall 返回最后一次请求，没有请求时 ok 为 false
func (s *Server) LastCall() (Call, bool) {
	calls := s.Calls()
	if len(calls) == 0 {
		return Call{}, false
	}
	return calls[len(calls)-1], true
}

func (s *Server) serve(c *gin.Context) {
	path := strings.TrimPrefix(c.Param("path"), "/")
	call := Call{
		Method: c.Request.Method,
		Path:   path,
		Query:  c.Request.URL.Query(),
		Header: c.Request.Header.Clone(),
	}
	if data, err := io.ReadAll(c.Request.Body); err == nil && len(data) > 0 {
		_ = json.Unmarshal(data, &call.Body)
	}

	s.mu.Lock()
	s.calls = append(s.calls, call)
	resp, ok := s.routes[call.Method+" "+path]
	s.mu.Unlock()

	if c.GetHeader("Shortcut-Token") != Token {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "Resource not found"})
		return
	}
	switch {
	case resp.Status == http.StatusNoContent:
		c.Status(http.StatusNoContent)
	case resp.JSON != nil:
		c.JSON(resp.Status, resp.JSON)
	default:
		c.Data(resp.Status, "text/plain; charset=utf-8", []byte(resp.Text))
	}
}
