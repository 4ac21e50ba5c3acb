package solr

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"fedorabatch/pkg/transport"
	"fedorabatch/pkg/types"

	"github.com/samber/lo"
	"github.com/tidwall/gjson"
)

// DefaultRows 单页最多取多少条 ID
const DefaultRows = 100000

// Client 把 Solr 查询解析成对象 ID 列表
type Client struct {
	baseURL  string
	rows     int
	paginate bool
	http     *transport.Client
}

type Option func(*Client)

// WithRows 覆盖单页上限
func WithRows(rows int) Option {
	return func(c *Client) {
		if rows > 0 {
			c.rows = rows
		}
	}
}

// WithPagination 显式开启分页：按 start 翻页直到取完，
// 此模式下不做“条数等于上限”的检查
func WithPagination(on bool) Option {
	return func(c *Client) { c.paginate = on }
}

func NewClient(baseURL string, httpClient *transport.Client, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = transport.NewClient(transport.Config{})
	}
	c := &Client{
		baseURL: baseURL,
		rows:    DefaultRows,
		http:    httpClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Rows 返回当前的单页上限
func (c *Client) Rows() int { return c.rows }

// QueryURL 构造查询地址: <base>?q=<query>&fl=id&rows=<rows>&wt=json[&start=N]
// baseURL 自带的查询参数会被保留
func (c *Client) QueryURL(query string, start int) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid solr url %q: %w", c.baseURL, err)
	}
	q := u.Query()
	q.Set("q", query)
	q.Set("fl", "id")
	q.Set("rows", strconv.Itoa(c.rows))
	q.Set("wt", "json")
	if start > 0 {
		q.Set("start", strconv.Itoa(start))
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// ResolveIDs 执行查询，返回索引原生顺序下的 ID 列表
func (c *Client) ResolveIDs(ctx context.Context, query string) ([]types.ObjectID, error) {
	if c.paginate {
		return c.resolveAll(ctx, query)
	}

	ids, _, err := c.fetchPage(ctx, query, 0)
	if err != nil {
		return nil, err
	}
	if len(ids) == c.rows {
		return nil, &TooManyResultsError{Query: query, Rows: c.rows}
	}
	return ids, nil
}

// resolveAll 逐页拉取，直到某页不满或达到 numFound
func (c *Client) resolveAll(ctx context.Context, query string) ([]types.ObjectID, error) {
	var (
		all       []types.ObjectID
		prevFirst types.ObjectID
	)
	for start := 0; ; start += c.rows {
		ids, numFound, err := c.fetchPage(ctx, query, start)
		if err != nil {
			return nil, err
		}
		// 索引忽略 start 时每页都一样，没有 numFound 就永远停不下来
		if start > 0 && len(ids) > 0 && ids[0] == prevFirst {
			return nil, &QueryError{Query: query, Reason: fmt.Sprintf("page at start=%d repeats the previous page", start)}
		}
		if len(ids) > 0 {
			prevFirst = ids[0]
		}
		all = append(all, ids...)

		if len(ids) < c.rows {
			return all, nil
		}
		if numFound >= 0 && int64(len(all)) >= numFound {
			return all, nil
		}
	}
}

// fetchPage 取一页，返回 (ids, numFound)，numFound 缺失时为 -1
func (c *Client) fetchPage(ctx context.Context, query string, start int) ([]types.ObjectID, int64, error) {
	target, err := c.QueryURL(query, start)
	if err != nil {
		return nil, 0, &QueryError{Query: query, Reason: "bad endpoint", Err: err}
	}

	resp, err := c.http.Get(ctx, target)
	if err != nil {
		return nil, 0, &QueryError{Query: query, Reason: "request failed", Err: err}
	}
	if !resp.IsSuccess() {
		return nil, 0, &QueryError{Query: query, StatusCode: resp.StatusCode, Reason: "unexpected status"}
	}
	if !gjson.ValidBytes(resp.Body) {
		return nil, 0, &QueryError{Query: query, StatusCode: resp.StatusCode, Reason: "response is not JSON"}
	}

	docs := gjson.GetBytes(resp.Body, "response.docs")
	if !docs.Exists() || !docs.IsArray() {
		return nil, 0, &QueryError{Query: query, StatusCode: resp.StatusCode, Reason: "missing response.docs"}
	}

	items := docs.Array()
	if _, idx, ok := lo.FindIndexOf(items, func(d gjson.Result) bool { return d.Get("id").String() == "" }); ok {
		return nil, 0, &QueryError{Query: query, StatusCode: resp.StatusCode, Reason: fmt.Sprintf("doc %d has no id", start+idx)}
	}
	ids := lo.Map(items, func(d gjson.Result, _ int) types.ObjectID {
		return types.ObjectID(d.Get("id").String())
	})

	numFound := int64(-1)
	if nf := gjson.GetBytes(resp.Body, "response.numFound"); nf.Exists() {
		numFound = nf.Int()
	}
	return ids, numFound, nil
}
