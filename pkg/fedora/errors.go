package fedora

import (
	"fmt"

	"fedorabatch/pkg/types"
)

// MissingStreamError: 取回的内容为空
// Fedora 上“流不存在”和“读取失败返回空”在这里不做区分，Err/StatusCode 只用于诊断
type MissingStreamError struct {
	ObjectID   types.ObjectID
	Stream     types.StreamName
	StatusCode int
	Err        error
}

func (e *MissingStreamError) Error() string {
	msg := fmt.Sprintf("no %s stream on %s", e.Stream, e.ObjectID)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (HTTP %d)", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MissingStreamError) Unwrap() error { return e.Err }

// WriteError: PUT 没有拿到响应 (StatusCode 为 0) 或响应不是 2xx
type WriteError struct {
	ObjectID   types.ObjectID
	Stream     types.StreamName
	URL        string
	StatusCode int
	Err        error
}

func (e *WriteError) Error() string {
	msg := fmt.Sprintf("error %d PUT-ing %s to %s", e.StatusCode, e.Stream, e.URL)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *WriteError) Unwrap() error { return e.Err }
