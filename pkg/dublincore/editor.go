// Package dublincore 提供一个最小的 Dublin Core 编辑器：
// 解析一次，追加若干字段，再序列化回 XML。
package dublincore

import (
	"errors"
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// Namespace 是 Dublin Core 元素集的 XML 命名空间
const Namespace = "http://purl.org/dc/elements/1.1/"

var (
	ErrNoRoot          = errors.New("document has no root element")
	ErrMultipleRoots   = errors.New("document has more than one root element")
	ErrTextOutsideRoot = errors.New("document has text outside the root element")
)

// ParseError 原样携带底层解析器的错误
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return fmt.Sprintf("malformed XML: %v", e.Err) }
func (e *ParseError) Unwrap() error { return e.Err }

// Editor 独占一份解析后的文档，只在一次变换调用中使用
type Editor struct {
	doc  *etree.Document
	root *etree.Element
}

// New 解析 raw；不是良构 XML 时返回 *ParseError
func New(raw []byte) (*Editor, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(raw); err != nil {
		return nil, &ParseError{Err: err}
	}
	// etree 接受多个根元素和根外的文本，这里补上良构性检查
	root, err := singleRoot(doc)
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	return &Editor{doc: doc, root: root}, nil
}

// AddField 在根元素下追加 <name>value</name>，位于 DC 命名空间
// 不去重：同名字段调用两次就得到两个兄弟元素 (DC 元素本来就可重复)
func (e *Editor) AddField(name, value string) {
	prefix, declared := e.dcPrefix()

	tag := name
	if declared && prefix != "" {
		tag = prefix + ":" + name
	}

	child := e.root.CreateElement(tag)
	if !declared {
		child.CreateAttr("xmlns", Namespace)
	}
	child.SetText(value)
}

// Serialize 返回包含全部已追加字段的完整文档
func (e *Editor) Serialize() ([]byte, error) {
	return e.doc.WriteToBytes()
}

// dcPrefix 查找根元素上绑定到 DC 命名空间的前缀
// 默认命名空间就是 DC 时返回 ("", true)
func (e *Editor) dcPrefix() (string, bool) {
	for _, a := range e.root.Attr {
		if a.Value != Namespace {
			continue
		}
		if a.Space == "xmlns" {
			return a.Key, true
		}
		if a.Space == "" && a.Key == "xmlns" {
			return "", true
		}
	}
	return "", false
}

// singleRoot 要求文档层级恰好一个元素，且除空白外没有文本
func singleRoot(doc *etree.Document) (*etree.Element, error) {
	var root *etree.Element
	for _, tok := range doc.Child {
		switch t := tok.(type) {
		case *etree.Element:
			if root != nil {
				return nil, ErrMultipleRoots
			}
			root = t
		case *etree.CharData:
			if strings.TrimSpace(t.Data) != "" {
				return nil, ErrTextOutsideRoot
			}
		}
	}
	if root == nil {
		return nil, ErrNoRoot
	}
	return root, nil
}
