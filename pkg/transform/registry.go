// Package transform 维护可以从命令行选择的变换函数
package transform

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"fedorabatch/pkg/dublincore"
	"fedorabatch/pkg/pipeline"
	"fedorabatch/pkg/types"

	"github.com/samber/lo"
)

var (
	ErrUnknownTransform = errors.New("unknown transform")
	ErrBadParam         = errors.New("malformed transform parameter")
)

// Param 是一个 key=value 参数
type Param struct {
	Key   string
	Value string
}

// Params 保留命令行给出的顺序 (同一个 key 可以出现多次)
type Params []Param

// ParseParams 解析 "key=value" 列表；value 可以包含 '='
func ParseParams(pairs []string) (Params, error) {
	out := make(Params, 0, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("%w: %q (want key=value)", ErrBadParam, p)
		}
		out = append(out, Param{Key: k, Value: v})
	}
	return out, nil
}

// Factory 根据参数构造一个变换函数
type Factory func(params Params) (pipeline.TransformFunc, error)

// registry 显式注册表，零反射
var registry = map[string]Factory{
	// identity: 原样返回，用来验证整条链路
	"identity": func(params Params) (pipeline.TransformFunc, error) {
		if len(params) > 0 {
			return nil, fmt.Errorf("%w: identity takes no parameters", ErrBadParam)
		}
		return Identity, nil
	},
	// dc-add: 按顺序追加 Dublin Core 字段
	"dc-add": newDCAdd,
}

// Lookup 按名称查找变换工厂
func Lookup(name string) (Factory, error) {
	f, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownTransform, name, strings.Join(Names(), ", "))
	}
	return f, nil
}

// Build 是 Lookup + 调用工厂的便捷组合
func Build(name string, params Params) (pipeline.TransformFunc, error) {
	f, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	return f(params)
}

// Names 返回已注册的变换名，按字母排序
func Names() []string {
	names := lo.Keys(registry)
	sort.Strings(names)
	return names
}

func Identity(_ types.ObjectID, content []byte) ([]byte, error) {
	return content, nil
}

func newDCAdd(params Params) (pipeline.TransformFunc, error) {
	if len(params) == 0 {
		return nil, fmt.Errorf("%w: dc-add needs at least one field=value", ErrBadParam)
	}
	// 复制一份，调用方之后修改 params 不影响已构造的变换
	fields := append(Params(nil), params...)

	return func(_ types.ObjectID, content []byte) ([]byte, error) {
		ed, err := dublincore.New(content)
		if err != nil {
			return nil, err
		}
		for _, f := range fields {
			ed.AddField(f.Key, f.Value)
		}
		return ed.Serialize()
	}, nil
}
