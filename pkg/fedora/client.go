package fedora

import (
	"context"
	"net/http"

	"fedorabatch/pkg/transport"
	"fedorabatch/pkg/types"
)

// Client 读写 Fedora 对象上的 Datastream
type Client struct {
	baseURL string
	http    *transport.Client
}

func NewClient(baseURL string, httpClient *transport.Client) *Client {
	if httpClient == nil {
		httpClient = transport.NewClient(transport.Config{})
	}
	return &Client{baseURL: baseURL, http: httpClient}
}

// GetStream 读取 Datastream 的原始内容，内容为空即 MissingStreamError
func (c *Client) GetStream(ctx context.Context, id types.ObjectID, stream types.StreamName) ([]byte, error) {
	resp, err := c.http.Get(ctx, ContentURL(c.baseURL, id, stream))
	if err != nil {
		return nil, &MissingStreamError{ObjectID: id, Stream: stream, Err: err}
	}
	// 非 2xx 的错误页不能当成内容
	if !resp.IsSuccess() {
		return nil, &MissingStreamError{ObjectID: id, Stream: stream, StatusCode: resp.StatusCode}
	}
	if len(resp.Body) == 0 {
		return nil, &MissingStreamError{ObjectID: id, Stream: stream, StatusCode: resp.StatusCode}
	}
	return resp.Body, nil
}

// PutStream 用 content 整体替换 Datastream
func (c *Client) PutStream(ctx context.Context, id types.ObjectID, stream types.StreamName, content []byte) error {
	target := WriteURL(c.baseURL, id, stream)

	header := http.Header{}
	header.Set("Content-Type", XMLMimeType)

	resp, err := c.http.Do(ctx, http.MethodPut, target, header, content)
	if err != nil {
		return &WriteError{ObjectID: id, Stream: stream, URL: target, Err: err}
	}
	if !resp.IsSuccess() {
		return &WriteError{ObjectID: id, Stream: stream, URL: target, StatusCode: resp.StatusCode}
	}
	return nil
}
