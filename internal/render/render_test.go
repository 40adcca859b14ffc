package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderMarkdownBasics(t *testing.T) {
	r := NewRenderer()
	out := r.Render("# Xin chào\n\nHello **world**")

	assert.Contains(t, out, "<h1>Xin chào</h1>")
	assert.Contains(t, out, "<strong>world</strong>")
}

func TestRenderIsDeterministic(t *testing.T) {
	r := NewRenderer()
	source := "## Title\n\n- a\n- b\n\n```go\nfmt.Println(\"x\")\n```\n"
	first := r.Render(source)
	require.NotEmpty(t, first)
	assert.Equal(t, first, r.Render(source))
	assert.Equal(t, first, NewRenderer().Render(source))
}

func TestRenderKeepsCodeBlocks(t *testing.T) {
	out := NewRenderer().Render("```go\nfmt.Println(1 < 2)\n```")

	assert.Contains(t, out, "<pre><code")
	assert.Contains(t, out, "fmt.Println(1 &lt; 2)")
	assert.NotContains(t, out, "<script")
}

func TestRenderStripsScriptsFromRawHTML(t *testing.T) {
	out := NewRenderer().Render("before\n\n<script>alert('x')</script>\n\nafter")

	assert.NotContains(t, out, "<script")
	assert.NotContains(t, out, "alert")
	assert.Contains(t, out, "before")
	assert.Contains(t, out, "after")
}

func TestRenderDropsJavascriptLinks(t *testing.T) {
	out := NewRenderer().Render("[click](javascript:alert(1)) and <a href=\"JaVaScRiPt:alert(1)\">raw</a>")

	assert.NotContains(t, strings.ToLower(out), `href="javascript`)
	assert.Contains(t, out, "raw")
}

func TestRenderEmptyInput(t *testing.T) {
	assert.Equal(t, "", NewRenderer().Render("   \n"))
}

func TestSanitizeAllowsImagesHeadingsAnchors(t *testing.T) {
	s := NewSanitizer()
	out := s.Sanitize(`<h2>Head</h2><img src="https://cdn.example.com/a.png" alt="a" loading="lazy" onerror="steal()"><a href="/posts/x" target="_blank" rel="opener">x</a>`)

	assert.Equal(t, `<h2>Head</h2><img src="https://cdn.example.com/a.png" alt="a" loading="lazy"><a href="/posts/x" target="_blank" rel="noopener noreferrer">x</a>`, out)
}

func TestSanitizeRemovesDangerousContent(t *testing.T) {
	s := NewSanitizer()
	cases := map[string]string{
		`<p onclick="x()">hi</p>`:                         `<p>hi</p>`,
		`<iframe src="https://evil"><p>in</p></iframe>ok`: `ok`,
		`<style>body{}</style><b>b</b>`:                   `<b>b</b>`,
		`<img src="data:image/png;base64,AAA">`:           `<img>`,
		`<a href="java&#x09;script:alert(1)">x</a>`:       `<a>x</a>`,
		`<svg><script>1</script></svg>after`:              `after`,
	}
	for input, want := range cases {
		assert.Equal(t, want, s.Sanitize(input), "input: %s", input)
	}
}

func TestSanitizeUnwrapsUnknownTagsAndClosesOpenOnes(t *testing.T) {
	s := NewSanitizer()

	assert.Equal(t, `hello <strong>bold</strong>`, s.Sanitize(`<custom-el>hello</custom-el> <strong>bold`))
	assert.Equal(t, `<p><em>x</em></p>`, s.Sanitize(`<p><em>x</p>`))
	assert.Equal(t, `a &lt; b &amp; c`, s.Sanitize(`a < b & c`))
	assert.Equal(t, `text`, s.Sanitize(`</div>text`))
}

func TestSanitizeCodeClassFilter(t *testing.T) {
	s := NewSanitizer()

	assert.Equal(t, `<pre><code class="language-go">x</code></pre>`, s.Sanitize(`<pre><code class="language-go evil">x</code></pre>`))
	assert.Equal(t, `<code>x</code>`, s.Sanitize(`<code class="big-red">x</code>`))
	assert.Equal(t, `<span>x</span>`, s.Sanitize(`<span class="language-go">x</span>`))
}

func TestIsSafeURL(t *testing.T) {
	assert.True(t, isSafeURL("https://example.com", false))
	assert.True(t, isSafeURL("/relative/path:with-colon", false))
	assert.True(t, isSafeURL("#anchor", true))
	assert.True(t, isSafeURL("mailto:team@example.com", true))
	assert.False(t, isSafeURL("mailto:team@example.com", false))
	assert.False(t, isSafeURL(" javascript:alert(1)", true))
	assert.False(t, isSafeURL("vbscript:msgbox", true))
}
