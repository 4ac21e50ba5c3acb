package ignore

import (
	"os"
	"path/filepath"
	"testing"

	"fedorabatch/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatcher_NoRules(t *testing.T) {
	// 规则文件不存在
	matcher, err := NewMatcher(filepath.Join(t.TempDir(), "ignore"))
	require.NoError(t, err)
	assert.True(t, matcher.Empty())

	for _, id := range []string{"vudl:1", "archive:2", ""} {
		assert.False(t, matcher.Excludes(types.ObjectID(id)), "ID: %s", id)
	}
}

func TestMatcher_NilIsSafe(t *testing.T) {
	var m *Matcher
	assert.False(t, m.Excludes("vudl:1"))
	assert.True(t, m.Empty())
}

func TestMatcher_WithRuleFile(t *testing.T) {
	tmpDir := t.TempDir()
	ruleFile := filepath.Join(tmpDir, "ignore")

	content := `
# 这是注释
vudl:1
archive:*
!archive:keep
`
	require.NoError(t, os.WriteFile(ruleFile, []byte(content), 0644))

	matcher, err := NewMatcher(ruleFile)
	require.NoError(t, err)
	assert.False(t, matcher.Empty())

	tests := []struct {
		id       string
		excluded bool
	}{
		{"vudl:1", true},
		{"vudl:10", false}, // 精确匹配，不是前缀
		{"archive:17", true},
		{"archive:keep", false}, // 负向规则重新纳入
		{"vudl:2", false},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.excluded, matcher.Excludes(types.ObjectID(tt.id)))
		})
	}
}

func TestMatcher_ExtraLinesOverrideFile(t *testing.T) {
	tmpDir := t.TempDir()
	ruleFile := filepath.Join(tmpDir, "ignore")
	require.NoError(t, os.WriteFile(ruleFile, []byte("test:*\n"), 0644))

	matcher, err := NewMatcher(ruleFile, "vudl:5", "!test:3", "  ")
	require.NoError(t, err)

	assert.True(t, matcher.Excludes("test:1"))
	assert.False(t, matcher.Excludes("test:3"))
	assert.True(t, matcher.Excludes("vudl:5"))
	assert.False(t, matcher.Excludes("vudl:6"))
}

func TestMatcher_OnlyComments(t *testing.T) {
	ruleFile := filepath.Join(t.TempDir(), "ignore")
	require.NoError(t, os.WriteFile(ruleFile, []byte("# nothing here\n\n"), 0644))

	matcher, err := NewMatcher(ruleFile)
	require.NoError(t, err)
	assert.True(t, matcher.Empty())
	assert.False(t, matcher.Excludes("vudl:1"))
}

func TestMatcher_UnreadableRuleFile(t *testing.T) {
	// 目录当文件读会报错，且不是 ErrNotExist
	_, err := NewMatcher(t.TempDir())
	assert.Error(t, err)
}
