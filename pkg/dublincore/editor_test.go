package dublincore

import (
	"encoding/xml"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dcView 用标准库按命名空间解析结果，避免只做字符串比较
type dcView struct {
	Titles   []string `xml:"http://purl.org/dc/elements/1.1/ title"`
	Subjects []string `xml:"http://purl.org/dc/elements/1.1/ subject"`
}

func parseDC(t *testing.T, data []byte) dcView {
	t.Helper()
	var v dcView
	require.NoError(t, xml.Unmarshal(data, &v))
	return v
}

func mustEditor(t *testing.T, raw string) *Editor {
	t.Helper()
	ed, err := New([]byte(raw))
	require.NoError(t, err)
	return ed
}

func TestAddField_OnBareRoot(t *testing.T) {
	ed := mustEditor(t, `<oai_dc:dc/>`)
	ed.AddField("title", "Example")

	out, err := ed.Serialize()
	require.NoError(t, err)

	assert.Equal(t,
		`<oai_dc:dc><title xmlns="http://purl.org/dc/elements/1.1/">Example</title></oai_dc:dc>`,
		string(out))
	assert.Equal(t, []string{"Example"}, parseDC(t, out).Titles)
}

func TestAddField_NotIdempotent(t *testing.T) {
	ed := mustEditor(t, `<oai_dc:dc/>`)
	ed.AddField("title", "Example")
	ed.AddField("title", "Example")

	out, err := ed.Serialize()
	require.NoError(t, err)

	// 两个兄弟元素，而不是“更新”同一个
	assert.Equal(t, []string{"Example", "Example"}, parseDC(t, out).Titles)
}

func TestAddField_UsesDeclaredPrefix(t *testing.T) {
	raw := `<oai_dc:dc xmlns:oai_dc="http://www.openarchives.org/OAI/2.0/oai_dc/" xmlns:dc="http://purl.org/dc/elements/1.1/">` +
		`<dc:title>Original</dc:title>` +
		`</oai_dc:dc>`
	ed := mustEditor(t, raw)
	ed.AddField("subject", "Maps")

	out, err := ed.Serialize()
	require.NoError(t, err)

	assert.Contains(t, string(out), `<dc:subject>Maps</dc:subject>`)
	assert.NotContains(t, string(out), `<subject xmlns=`)

	v := parseDC(t, out)
	assert.Equal(t, []string{"Original"}, v.Titles, "原有字段保持不变")
	assert.Equal(t, []string{"Maps"}, v.Subjects)
}

func TestAddField_DefaultNamespaceIsDC(t *testing.T) {
	ed := mustEditor(t, `<record xmlns="http://purl.org/dc/elements/1.1/"><title>A</title></record>`)
	ed.AddField("title", "B")

	out, err := ed.Serialize()
	require.NoError(t, err)

	assert.Equal(t, `<record xmlns="http://purl.org/dc/elements/1.1/"><title>A</title><title>B</title></record>`, string(out))
	assert.Equal(t, []string{"A", "B"}, parseDC(t, out).Titles)
}

func TestAddField_EscapesValue(t *testing.T) {
	ed := mustEditor(t, `<oai_dc:dc/>`)
	ed.AddField("title", `Fish & Chips <1900>`)

	out, err := ed.Serialize()
	require.NoError(t, err)

	assert.NotContains(t, string(out), "& Chips <1900>")
	assert.Equal(t, []string{`Fish & Chips <1900>`}, parseDC(t, out).Titles)
}

func TestSerialize_WithoutChanges(t *testing.T) {
	raw := `<?xml version="1.0" encoding="UTF-8"?>` + "\n" + `<oai_dc:dc><x>1</x></oai_dc:dc>`
	ed := mustEditor(t, raw)

	out, err := ed.Serialize()
	require.NoError(t, err)
	assert.Equal(t, raw, string(out))
}

func TestNew_ParseError(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want error
	}{
		{"unquoted attribute", `<a x=1/>`, nil},
		{"unclosed", `<a><b>`, nil},
		{"empty", ``, ErrNoRoot},
		{"plain text", `just some text`, ErrTextOutsideRoot},
		{"two roots", `<a/><b/>`, ErrMultipleRoots},
		{"text before root", `junk<a/>`, ErrTextOutsideRoot},
		{"text after root", `<a/>junk`, ErrTextOutsideRoot},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New([]byte(tt.raw))
			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Error(t, pe.Unwrap())
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestNew_WhitespaceAndCommentsAroundRoot(t *testing.T) {
	raw := "<?xml version=\"1.0\"?>\n<!-- exported -->\n<oai_dc:dc/>\n"
	ed, err := New([]byte(raw))
	require.NoError(t, err)

	ed.AddField("title", "X")
	out, err := ed.Serialize()
	require.NoError(t, err)
	assert.Equal(t, []string{"X"}, parseDC(t, out).Titles)
}
