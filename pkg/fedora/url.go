package fedora

import (
	"net/url"
	"strings"

	"fedorabatch/pkg/types"
)

// XMLMimeType 写回时使用的 MIME 类型
const XMLMimeType = "application/xml"

// StreamURL 拼出 <base>/objects/<id>/datastreams/<stream>
// 所有 Fedora 地址都从这里派生，线上格式只在这一处定义
func StreamURL(base string, id types.ObjectID, stream types.StreamName) string {
	return strings.TrimRight(base, "/") +
		"/objects/" + url.PathEscape(id.String()) +
		"/datastreams/" + url.PathEscape(stream.String())
}

// ContentURL 读取 Datastream 内容的地址
func ContentURL(base string, id types.ObjectID, stream types.StreamName) string {
	return StreamURL(base, id, stream) + "/content"
}

// WriteURL 覆盖 Datastream 内容的地址
func WriteURL(base string, id types.ObjectID, stream types.StreamName) string {
	return StreamURL(base, id, stream) + "?mimeType=" + XMLMimeType
}
