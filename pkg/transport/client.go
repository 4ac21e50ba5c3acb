package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const DefaultUserAgent = "dsedit/1.0"

// Config 控制对 Solr/Fedora 的 HTTP 访问
// 零值可用：无超时、不限速
type Config struct {
	// Timeout 单次请求超时，0 表示不设超时 (由调用方自己决定)
	Timeout time.Duration

	// RateLimit 每秒请求数，<=0 表示不限速
	RateLimit float64

	// RateBurst 令牌桶容量，<=0 时按 1 处理
	RateBurst int

	UserAgent string

	// Transport 允许测试时注入桩
	Transport http.RoundTripper
}

// Client 是一个带限速的 HTTP 客户端，不做任何重试
type Client struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
}

// Response 是读完 Body 的响应
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// IsSuccess 2xx 视为成功
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

func NewClient(cfg Config) *Client {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.RateBurst <= 0 {
		cfg.RateBurst = 1
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}

	return &Client{
		cfg: cfg,
		http: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: cfg.Transport,
		},
		limiter: rate.NewLimiter(limit, cfg.RateBurst),
	}
}

// Do 发起一次请求并读完 Body
// 非 2xx 不是错误，由调用方按各自的语义解释；只有网络层失败才返回 error
func (c *Client) Do(ctx context.Context, method, url string, header http.Header, body []byte) (*Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body of %s %s: %w", method, url, err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}, nil
}

// Get 是 Do(GET) 的简写
func (c *Client) Get(ctx context.Context, url string) (*Response, error) {
	return c.Do(ctx, http.MethodGet, url, nil, nil)
}
