package solr

import "fmt"

// QueryError: Solr 的响应结构不对 (没有 response.docs)，
// 或者请求本身就失败了 (网络、非 2xx、不是 JSON)
type QueryError struct {
	Query      string
	StatusCode int // 0 表示没拿到响应
	Reason     string
	Err        error
}

func (e *QueryError) Error() string {
	msg := fmt.Sprintf("problem with Solr results for query %q: %s", e.Query, e.Reason)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (HTTP %d)", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *QueryError) Unwrap() error { return e.Err }

// TooManyResultsError: 返回条数恰好等于 rows 上限
// 这是启发式判断：查询大概率过宽。结果真的正好等于上限时也会误报。
type TooManyResultsError struct {
	Query string
	Rows  int
}

func (e *TooManyResultsError) Error() string {
	return fmt.Sprintf("too many records for query %q (hit row limit %d); restrict query or raise row limit", e.Query, e.Rows)
}
