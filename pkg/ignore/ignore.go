package ignore

import (
	"errors"
	"os"
	"strings"

	"fedorabatch/pkg/types"

	gitignore "github.com/sabhiram/go-gitignore"
)

// Matcher 用 gitignore 语法描述哪些对象 ID 不参与批量编辑
// 例如 "vudl:1"、"archive:*"、"!archive:keep"
type Matcher struct {
	ignorer *gitignore.GitIgnore
	rules   int
}

// NewMatcher 合并规则文件与额外的规则行
// ruleFile 不存在时只使用 extra；两者都为空时不排除任何 ID
func NewMatcher(ruleFile string, extra ...string) (*Matcher, error) {
	lines := make([]string, 0, len(extra))
	for _, l := range extra {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}

	if ruleFile != "" {
		data, err := os.ReadFile(ruleFile)
		switch {
		case err == nil:
			// 文件规则在前，命令行规则在后 (后者可以用 ! 重新纳入)
			lines = append(strings.Split(string(data), "\n"), lines...)
		case errors.Is(err, os.ErrNotExist):
			// 没有规则文件是正常情况
		default:
			return nil, err
		}
	}

	m := &Matcher{}
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" && !strings.HasPrefix(l, "#") {
			m.rules++
		}
	}
	if m.rules > 0 {
		m.ignorer = gitignore.CompileIgnoreLines(lines...)
	}
	return m, nil
}

// Excludes 返回 true 表示该 ID 应该跳过
func (m *Matcher) Excludes(id types.ObjectID) bool {
	if m == nil || m.ignorer == nil {
		return false
	}
	return m.ignorer.MatchesPath(id.String())
}

// Empty 表示没有任何有效规则
func (m *Matcher) Empty() bool {
	return m == nil || m.rules == 0
}
