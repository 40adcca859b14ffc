package render

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// 整体丢弃（连同内容）的元素
var droppedElements = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Iframe:   true,
	atom.Object:   true,
	atom.Embed:    true,
	atom.Noscript: true,
	atom.Template: true,
	atom.Textarea: true,
	atom.Select:   true,
	atom.Svg:      true,
	atom.Math:     true,
	atom.Title:    true,
	atom.Head:     true,
	atom.Noembed:  true,
	atom.Noframes: true,
	atom.Xmp:      true,
}

var voidElements = map[atom.Atom]bool{
	atom.Br:  true,
	atom.Hr:  true,
	atom.Img: true,
	atom.Wbr: true,
	atom.Col: true,
}

var defaultAllowedTags = []atom.Atom{
	atom.Address, atom.Article, atom.Aside, atom.Footer, atom.Header,
	atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6,
	atom.Hgroup, atom.Main, atom.Nav, atom.Section,
	atom.Blockquote, atom.Dd, atom.Div, atom.Dl, atom.Dt, atom.Figcaption, atom.Figure,
	atom.Hr, atom.Li, atom.Ol, atom.P, atom.Pre, atom.Ul,
	atom.A, atom.Abbr, atom.B, atom.Bdi, atom.Bdo, atom.Br, atom.Cite, atom.Code, atom.Data,
	atom.Dfn, atom.Em, atom.I, atom.Kbd, atom.Mark, atom.Q, atom.Rb, atom.Rp, atom.Rt, atom.Rtc,
	atom.Ruby, atom.S, atom.Samp, atom.Small, atom.Span, atom.Strong, atom.Sub, atom.Sup,
	atom.Time, atom.U, atom.Var, atom.Wbr, atom.Del, atom.Ins,
	atom.Caption, atom.Col, atom.Colgroup, atom.Table, atom.Tbody, atom.Td, atom.Tfoot,
	atom.Th, atom.Thead, atom.Tr,
	atom.Img,
}

var defaultAllowedAttrs = map[atom.Atom][]string{
	atom.A:    {"href", "target", "rel", "title"},
	atom.Img:  {"src", "alt", "title", "width", "height", "loading"},
	atom.Code: {"class"},
	atom.Pre:  {"class"},
	atom.Td:   {"colspan", "rowspan", "align"},
	atom.Th:   {"colspan", "rowspan", "align"},
	atom.Ol:   {"start"},
}

var (
	languageClassPattern = regexp.MustCompile(`^language-[a-zA-Z0-9_+#.-]+$`)
	numberPattern        = regexp.MustCompile(`^[0-9]{1,5}$`)
)

// Sanitizer 基于白名单的 HTML 净化器
// 未知标签去壳保留文本，危险标签连同内容移除，事件属性与脚本协议链接一律丢弃
type Sanitizer struct {
	tags  map[atom.Atom]bool
	attrs map[atom.Atom]map[string]bool
}

// NewSanitizer 创建净化器
func NewSanitizer() *Sanitizer {
	s := &Sanitizer{
		tags:  make(map[atom.Atom]bool, len(defaultAllowedTags)),
		attrs: make(map[atom.Atom]map[string]bool, len(defaultAllowedAttrs)),
	}
	for _, tag := range defaultAllowedTags {
		s.tags[tag] = true
	}
	for tag, names := range defaultAllowedAttrs {
		set := make(map[string]bool, len(names))
		for _, name := range names {
			set[name] = true
		}
		s.attrs[tag] = set
	}
	return s
}

// Sanitize 净化 HTML 片段
func (s *Sanitizer) Sanitize(input string) string {
	tokenizer := html.NewTokenizerFragment(strings.NewReader(input), "body")
	var out strings.Builder
	var open []atom.Atom
	skipTag := ""
	skipDepth := 0

	for {
		tt := tokenizer.Next()
		switch tt {
		case html.ErrorToken:
			for i := len(open) - 1; i >= 0; i-- {
				writeEndTag(&out, open[i])
			}
			return out.String()

		case html.TextToken:
			if skipDepth == 0 {
				out.WriteString(html.EscapeString(string(tokenizer.Text())))
			}

		case html.StartTagToken, html.SelfClosingTagToken:
			token := tokenizer.Token()
			if skipDepth > 0 {
				if tt == html.StartTagToken && token.Data == skipTag {
					skipDepth++
				}
				continue
			}
			if droppedElements[token.DataAtom] {
				if tt == html.StartTagToken {
					skipTag = token.Data
					skipDepth = 1
				}
				continue
			}
			if !s.tags[token.DataAtom] {
				continue
			}
			s.writeStartTag(&out, token)
			if tt == html.StartTagToken && !voidElements[token.DataAtom] {
				open = append(open, token.DataAtom)
			}

		case html.EndTagToken:
			token := tokenizer.Token()
			if skipDepth > 0 {
				if token.Data == skipTag {
					skipDepth--
				}
				continue
			}
			if !s.tags[token.DataAtom] || voidElements[token.DataAtom] {
				continue
			}
			idx := lastIndex(open, token.DataAtom)
			if idx < 0 {
				continue
			}
			for i := len(open) - 1; i >= idx; i-- {
				writeEndTag(&out, open[i])
			}
			open = open[:idx]
		}
	}
}

func (s *Sanitizer) writeStartTag(out *strings.Builder, token html.Token) {
	out.WriteByte('<')
	out.WriteString(token.DataAtom.String())

	allowed := s.attrs[token.DataAtom]
	blankTarget := false
	seen := make(map[string]bool, len(token.Attr))
	for _, attr := range token.Attr {
		name := strings.ToLower(attr.Key)
		if attr.Namespace != "" || !allowed[name] || seen[name] {
			continue
		}
		value, ok := sanitizeAttrValue(token.DataAtom, name, attr.Val)
		if !ok {
			continue
		}
		if name == "rel" {
			continue
		}
		if name == "target" {
			blankTarget = true
		}
		seen[name] = true
		writeAttr(out, name, value)
	}
	if blankTarget {
		writeAttr(out, "rel", "noopener noreferrer")
	}
	out.WriteByte('>')
}

func sanitizeAttrValue(tag atom.Atom, name, value string) (string, bool) {
	value = strings.TrimSpace(value)
	switch name {
	case "href":
		return value, isSafeURL(value, true)
	case "src":
		return value, value != "" && isSafeURL(value, false)
	case "target":
		return "_blank", value == "_blank"
	case "class":
		classes := make([]string, 0, 2)
		for _, item := range strings.Fields(value) {
			if languageClassPattern.MatchString(item) {
				classes = append(classes, item)
			}
		}
		return strings.Join(classes, " "), len(classes) > 0
	case "width", "height", "colspan", "rowspan", "start":
		return value, numberPattern.MatchString(value)
	case "loading":
		value = strings.ToLower(value)
		return value, value == "lazy" || value == "eager"
	case "align":
		value = strings.ToLower(value)
		return value, value == "left" || value == "right" || value == "center"
	default:
		return value, true
	}
}

// isSafeURL 仅允许相对地址与 http/https（链接额外允许 mailto）
func isSafeURL(raw string, allowMailto bool) bool {
	var b strings.Builder
	for _, r := range raw {
		// 浏览器解析协议时会忽略控制字符与空白
		if r <= 0x20 || r == 0x7f {
			continue
		}
		b.WriteRune(r)
	}
	cleaned := strings.ToLower(b.String())
	colon := strings.IndexByte(cleaned, ':')
	if colon < 0 {
		return true
	}
	if delim := strings.IndexAny(cleaned, "/?#"); delim >= 0 && delim < colon {
		return true
	}
	switch cleaned[:colon] {
	case "http", "https":
		return true
	case "mailto":
		return allowMailto
	default:
		return false
	}
}

func writeAttr(out *strings.Builder, name, value string) {
	out.WriteByte(' ')
	out.WriteString(name)
	out.WriteString(`="`)
	out.WriteString(html.EscapeString(value))
	out.WriteByte('"')
}

func writeEndTag(out *strings.Builder, tag atom.Atom) {
	out.WriteString("</")
	out.WriteString(tag.String())
	out.WriteByte('>')
}

func lastIndex(stack []atom.Atom, tag atom.Atom) int {
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == tag {
			return i
		}
	}
	return -1
}
