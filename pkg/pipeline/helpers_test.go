package pipeline

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"fedorabatch/pkg/fedora"
	"fedorabatch/pkg/solr"

	"github.com/stretchr/testify/require"
	"github.com/tidwall/sjson"
)

// -----------------------------------------------------------------------------
// 测试替身：假的 Solr 与 Fedora
// -----------------------------------------------------------------------------

// solrBody 用 sjson 拼出 Solr 的 JSON 响应
func solrBody(t *testing.T, ids ...string) string {
	t.Helper()
	body, err := sjson.SetRaw(`{}`, "response.docs", "[]")
	require.NoError(t, err)
	body, err = sjson.Set(body, "response.numFound", len(ids))
	require.NoError(t, err)
	for i, id := range ids {
		body, err = sjson.Set(body, fmt.Sprintf("response.docs.%d.id", i), id)
		require.NoError(t, err)
	}
	return body
}

func newSolr(t *testing.T, body string) (*httptest.Server, *int) {
	t.Helper()
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

// call 是 Fedora 收到的一次请求
type call struct {
	Method string
	ID     string
	Body   string
	CType  string
}

// fakeFedora 记录全部请求，按 ID 返回内容或状态码
type fakeFedora struct {
	mu       sync.Mutex
	calls    []call
	content  map[string]string // GET 返回的内容，缺省用 defaultContent
	fallback string
	putCode  map[string]int // PUT 的状态码，缺省 204
}

func (f *fakeFedora) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// /objects/<id>/datastreams/<stream>[/content]
	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/"), "/")
	id := parts[1]

	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.calls = append(f.calls, call{Method: r.Method, ID: id, Body: string(body), CType: r.Header.Get("Content-Type")})
	f.mu.Unlock()

	switch r.Method {
	case http.MethodGet:
		c, ok := f.content[id]
		if !ok {
			c = f.fallback
		}
		w.Write([]byte(c))
	case http.MethodPut:
		code := http.StatusNoContent
		if c, ok := f.putCode[id]; ok {
			code = c
		}
		w.WriteHeader(code)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (f *fakeFedora) methods(m string) []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []call
	for _, c := range f.calls {
		if c.Method == m {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeFedora) ids(m string) []string {
	var out []string
	for _, c := range f.methods(m) {
		out = append(out, c.ID)
	}
	return out
}

func newFedora(t *testing.T, fallback string) (*fakeFedora, *httptest.Server) {
	t.Helper()
	f := &fakeFedora{
		content:  map[string]string{},
		fallback: fallback,
		putCode:  map[string]int{},
	}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return f, srv
}

// newUpdater 组装一个指向两个假服务的 Updater
func newUpdater(solrURL, fedoraURL string, rows int, opts ...Option) *Updater {
	return NewUpdater(
		solr.NewClient(solrURL, nil, solr.WithRows(rows)),
		fedora.NewClient(fedoraURL, nil),
		opts...,
	)
}
