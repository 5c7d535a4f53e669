package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/houzhh15/shortcut-skills/internal/config"
	"github.com/houzhh15/shortcut-skills/pkg/logger"
	"github.com/houzhh15/shortcut-skills/pkg/metrics"
)

// DefaultBaseURL 是 Shortcut REST API v3 的固定地址
const DefaultBaseURL = "https://api.app.shortcut.com/api/v3"

const tokenHeader = "Shortcut-Token"

// Request 描述一次 API 调用，每次调用重新构造
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
}

// Client 封装 Shortcut HTTP 客户端，是唯一访问网络的组件
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option 配置 Client
type Option func(*Client)

// WithBaseURL 替换基础地址，仅用于测试指向本地假服务
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimSuffix(u, "/")
		}
	}
}

// WithHTTPClient 替换底层 http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger 设置请求日志输出
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New 创建客户端。token 为空时读取 SHORTCUT_API_TOKEN；两者都缺失时
// 在任何网络访问之前返回 ConfigurationError。
func New(token string, opts ...Option) (*Client, error) {
	if token == "" {
		token = os.Getenv(config.TokenEnv)
	}
	if token == "" {
		return nil, config.MissingCredential()
	}

	c := &Client{
		baseURL:    DefaultBaseURL,
		token:      token,
		httpClient: &http.Client{},
		logger:     logger.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger.Debug("shortcut client ready", "base_url", c.baseURL, "token", MaskToken(token))
	return c, nil
}

// Get 发送 GET 请求
func (c *Client) Get(ctx context.Context, path string, query url.Values) (any, error) {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query})
}

// Post 发送带 JSON body 的 POST 请求
func (c *Client) Post(ctx context.Context, path string, body any) (any, error) {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body})
}

// Put 发送带 JSON body 的 PUT 请求
func (c *Client) Put(ctx context.Context, path string, body any) (any, error) {
	return c.Do(ctx, Request{Method: http.MethodPut, Path: path, Body: body})
}

// Delete 发送 DELETE 请求
func (c *Client) Delete(ctx context.Context, path string) (any, error) {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: path})
}

// Do 执行一次请求并返回解码后的 JSON（map[string]any 或 []any）。
// 204 以及空响应体返回空 map。
func (c *Client) Do(ctx context.Context, r Request) (any, error) {
	target := c.baseURL + "/" + strings.TrimPrefix(r.Path, "/")
	if len(r.Query) > 0 {
		target += "?" + r.Query.Encode()
	}

	var reader io.Reader
	if r.Body != nil {
		data, err := json.Marshal(r.Body)
		if err != nil {
			return nil, errors.Wrap(err, "marshal request body")
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, target, reader)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	rid := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(tokenHeader, c.token)
	req.Header.Set("X-Request-ID", rid)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		te := &TransportError{Kind: KindConnection, Method: r.Method, Path: r.Path, Err: err}
		metrics.RecordAPIRequest(r.Method, 0, elapsed.Seconds())
		logger.LogAPICall(ctx, c.logger, rid, r.Method, r.Path, 0, elapsed.Milliseconds(), te)
		return nil, te
	}
	defer resp.Body.Close()

	metrics.RecordAPIRequest(r.Method, resp.StatusCode, elapsed.Seconds())
	logger.LogAPICall(ctx, c.logger, rid, r.Method, r.Path, resp.StatusCode, elapsed.Milliseconds(), nil)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(r.Method, r.Path, resp)
	}
	if resp.StatusCode == http.StatusNoContent {
		return map[string]any{}, nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Kind: KindConnection, Method: r.Method, Path: r.Path, StatusCode: resp.StatusCode, Err: err}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]any{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, &TransportError{Kind: KindDecode, Method: r.Method, Path: r.Path, StatusCode: resp.StatusCode, Err: err}
	}
	return out, nil
}

// MaskToken 对 token 进行脱敏处理
//
// 示例: "abcd1234efgh5678" -> "abcd***5678"
func MaskToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 8 {
		return "***"
	}
	return token[:4] + "***" + token[len(token)-4:]
}
