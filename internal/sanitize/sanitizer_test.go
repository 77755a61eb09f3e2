package sanitize_test

import (
	"errors"
	"testing"

	"github.com/Rrens/interaction-drafts/internal/domain"
	"github.com/Rrens/interaction-drafts/internal/sanitize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize_StripsUnsafeMarkup(t *testing.T) {
	s := sanitize.New()

	out, err := s.Sanitize(`<div onclick="x"><script>bad</script><a href="javascript:y">l</a><p>ok</p></div>`)
	require.NoError(t, err)

	assert.Contains(t, out, "<div>")
	assert.Contains(t, out, "<p>ok</p>")
	assert.NotContains(t, out, "<script")
	assert.NotContains(t, out, "onclick")
	assert.NotContains(t, out, "javascript:")
	assert.NotContains(t, out, "bad")
}

func TestSanitize_DisallowedElements(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"style", `<style>p{}</style><p>a</p>`, `<p>a</p>`},
		{"iframe", `<iframe src="https://x"></iframe>b`, `b`},
		{"object", `<object data="x"><param name="a"></object>c`, `c`},
		{"embed", `<embed src="x">d`, `d`},
		{"link", `<link rel="stylesheet" href="x">e`, `e`},
		{"meta", `<meta http-equiv="refresh" content="0">f`, `f`},
		{"nested script", `<ul><li>one<script>x()</script></li></ul>`, `<ul><li>one</li></ul>`},
		{"comment", `<!-- hidden --><b>g</b>`, `<b>g</b>`},
	}

	s := sanitize.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := s.Sanitize(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestSanitize_Attributes(t *testing.T) {
	s := sanitize.New()

	out, err := s.Sanitize(`<img src="a.png" alt="pic" onerror="steal()" ONLOAD="x"><a href=" JaVa&#x09;Script:alert(1)" title="t">x</a><a href="vbscript:msgbox">v</a>`)
	require.NoError(t, err)

	assert.Contains(t, out, `src="a.png"`)
	assert.Contains(t, out, `alt="pic"`)
	assert.Contains(t, out, `title="t"`)
	assert.NotContains(t, out, "onerror")
	assert.NotContains(t, out, "ONLOAD")
	assert.NotContains(t, out, "href")
}

func TestSanitize_FixedPoint(t *testing.T) {
	s := sanitize.New()
	inputs := []string{
		`<div onclick="x"><script>bad</script><a href="javascript:y">l</a><p>ok</p></div>`,
		`plain text with & and <b>bold</b>`,
		`<table><tr><td>cell</td></tr></table>`,
		`<p>unclosed <em>emphasis`,
		`"quoted" 'single'`,
	}

	for _, in := range inputs {
		once, err := s.Sanitize(in)
		require.NoError(t, err)
		twice, err := s.Sanitize(once)
		require.NoError(t, err)
		assert.Equal(t, once, twice, in)
	}
}

func TestSanitize_Blank(t *testing.T) {
	out, err := sanitize.New().Sanitize("   ")
	require.NoError(t, err)
	assert.Empty(t, out)
}

type failingEngine struct{}

func (failingEngine) Clean(string) (string, error) { return "", errors.New("parser exploded") }

func TestSanitize_FailsClosed(t *testing.T) {
	s := sanitize.NewWithEngine(failingEngine{})

	out, err := s.Sanitize(`<p onclick="x">hi</p>`)
	assert.ErrorIs(t, err, domain.ErrUnsafeContent)
	assert.Empty(t, out)
}

func TestPaste(t *testing.T) {
	s := sanitize.New()

	t.Run("rich payload wins", func(t *testing.T) {
		out, err := s.Paste(sanitize.ClipboardPayload{HTML: `<b onmouseover="x">rich</b>`, Text: "plain"})
		require.NoError(t, err)
		assert.Equal(t, `<b>rich</b>`, out)
	})

	t.Run("plain text is escaped", func(t *testing.T) {
		out, err := s.Paste(sanitize.ClipboardPayload{Text: "<script>alert(1)</script>\nline two"})
		require.NoError(t, err)
		assert.NotContains(t, out, "<script")
		assert.Contains(t, out, "&lt;script&gt;")
		assert.Contains(t, out, "<br/>line two")
	})

	t.Run("empty", func(t *testing.T) {
		out, err := s.Paste(sanitize.ClipboardPayload{})
		require.NoError(t, err)
		assert.Empty(t, out)
	})
}
