// Package markdown turns blog post bodies into safe HTML. Bodies written in
// the rich-text editor arrive as HTML and are reduced to a small tag
// whitelist; plain bodies are rendered as Markdown.
package markdown

import (
	"bytes"
	"context"
	"html"
	"io"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/a-h/templ"
)

var (
	reBold             = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reBoldUnderscore   = regexp.MustCompile(`__(.+?)__`)
	reItalic           = regexp.MustCompile(`\*([^*]+)\*`)
	reItalicUnderscore = regexp.MustCompile(`_([^_]+)_`)
	reInlineCode       = regexp.MustCompile("`([^`]+)`")
	reLink             = regexp.MustCompile(`\[(.*?)\]\((.*?)\)(\^)?`)
	reOrderedItem      = regexp.MustCompile(`^(\d+)\.\s`)
	reTag              = regexp.MustCompile(`<[^>]*>`)
	reLooksHTML        = regexp.MustCompile(`</?[a-zA-Z][a-zA-Z0-9]*[\s/>]`)
	reHref             = regexp.MustCompile(`(?i)\shref\s*=\s*("([^"]*)"|'([^']*)'|([^\s>]+))`)
	reSpace            = regexp.MustCompile(`\s+`)
)

// Content returns a component rendering a post body.
func Content(body string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, ToHTML(body))
		return err
	})
}

// ToHTML renders a post body. HTML input is sanitized, anything else is
// treated as Markdown.
func ToHTML(body string) string {
	if reLooksHTML.MatchString(body) {
		return Sanitize(body)
	}
	var buf bytes.Buffer
	RenderMarkdown(&buf, body)
	return buf.String()
}

// Excerpt strips tags and Markdown markers and cuts the text to at most n
// runes, ending on a word boundary with an ellipsis.
func Excerpt(body string, n int) string {
	text := html.UnescapeString(reTag.ReplaceAllString(body, " "))
	text = strings.NewReplacer("\u00a0", " ", "**", "", "__", "", "`", "", "# ", "").Replace(text)
	text = strings.TrimSpace(reSpace.ReplaceAllString(text, " "))
	if n <= 0 || utf8.RuneCountInString(text) <= n {
		return text
	}
	cut := string([]rune(text)[:n])
	if i := strings.LastIndex(cut, " "); i > n/2 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " .,;:") + "…"
}

type block int

const (
	blockNone block = iota
	blockPara
	blockList
	blockOrdered
	blockQuote
	blockCode
)

var blockClose = map[block]string{
	blockPara:    "</p>",
	blockList:    "</ul>",
	blockOrdered: "</ol>",
	blockQuote:   "</blockquote>",
	blockCode:    "</code></pre>",
}

// RenderMarkdown writes the HTML for md to buf. It covers headings,
// paragraphs, lists, quotes, rules and fenced code.
func RenderMarkdown(buf *bytes.Buffer, md string) {
	open := blockNone
	enter := func(b block, tag string) {
		if open == b {
			return
		}
		buf.WriteString(blockClose[open])
		open = b
		buf.WriteString(tag)
	}
	closeOpen := func() {
		buf.WriteString(blockClose[open])
		open = blockNone
	}

	for _, raw := range strings.Split(md, "\n") {
		line := strings.TrimRight(raw, "\r")

		if strings.HasPrefix(line, "```") {
			if open == blockCode {
				closeOpen()
				continue
			}
			closeOpen()
			if lang := strings.TrimSpace(line[3:]); lang != "" {
				enter(blockCode, `<pre class="code-block"><code class="language-`+html.EscapeString(lang)+`">`)
			} else {
				enter(blockCode, `<pre class="code-block"><code>`)
			}
			continue
		}
		if open == blockCode {
			buf.WriteString(html.EscapeString(line))
			buf.WriteByte('\n')
			continue
		}

		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			closeOpen()
		case strings.HasPrefix(line, "---"):
			closeOpen()
			buf.WriteString("<hr/>")
		case strings.HasPrefix(line, "#"):
			level := len(line) - len(strings.TrimLeft(line, "#"))
			if level > 3 || !strings.HasPrefix(line[level:], " ") {
				enter(blockPara, "<p>")
				buf.WriteString(FormatInline(trimmed))
				continue
			}
			closeOpen()
			h := "h" + strconv.Itoa(level)
			buf.WriteString("<" + h + ">" + FormatInline(strings.TrimSpace(line[level:])) + "</" + h + ">")
		case strings.HasPrefix(line, "- "):
			enter(blockList, "<ul>")
			buf.WriteString("<li>" + FormatInline(strings.TrimSpace(line[2:])) + "</li>")
		case reOrderedItem.MatchString(line):
			enter(blockOrdered, "<ol>")
			buf.WriteString("<li>" + FormatInline(strings.TrimSpace(reOrderedItem.ReplaceAllString(line, ""))) + "</li>")
		case strings.HasPrefix(line, "> "):
			enter(blockQuote, "<blockquote>")
			buf.WriteString(FormatInline(strings.TrimSpace(line[2:])))
		default:
			if open == blockPara {
				buf.WriteByte(' ')
			}
			enter(blockPara, "<p>")
			buf.WriteString(FormatInline(trimmed))
		}
	}
	closeOpen()
}

// ApplyOutsideTags applies fn only to text segments outside HTML tags,
// so that formatting regexes never touch URLs inside href attributes.
func ApplyOutsideTags(s string, fn func(string) string) string {
	var buf strings.Builder
	for len(s) > 0 {
		lt := strings.Index(s, "<")
		if lt < 0 {
			buf.WriteString(fn(s))
			break
		}
		if lt > 0 {
			buf.WriteString(fn(s[:lt]))
		}
		gt := strings.Index(s[lt:], ">")
		if gt < 0 {
			buf.WriteString(s[lt:])
			break
		}
		buf.WriteString(s[lt : lt+gt+1])
		s = s[lt+gt+1:]
	}
	return buf.String()
}

// FormatInline escapes s and applies bold, italic, code and links.
func FormatInline(s string) string {
	escaped := html.EscapeString(s)
	escaped = reLink.ReplaceAllStringFunc(escaped, func(m string) string {
		match := reLink.FindStringSubmatch(m)
		href := SafeURL(match[2])
		if href == "" {
			return match[1]
		}
		attrs := ""
		if match[3] == "^" {
			attrs = ` target="_blank" rel="noopener noreferrer"`
		}
		return `<a href="` + href + `"` + attrs + `>` + match[1] + `</a>`
	})

	// Park inline code behind placeholders so emphasis never reaches it.
	var code []string
	escaped = reInlineCode.ReplaceAllStringFunc(escaped, func(m string) string {
		match := reInlineCode.FindStringSubmatch(m)
		code = append(code, "<code>"+match[1]+"</code>")
		return "\x00IC" + strconv.Itoa(len(code)-1) + "\x00"
	})
	escaped = ApplyOutsideTags(escaped, func(seg string) string {
		seg = reBold.ReplaceAllString(seg, "<strong>$1</strong>")
		seg = reBoldUnderscore.ReplaceAllString(seg, "<strong>$1</strong>")
		seg = reItalic.ReplaceAllString(seg, "<em>$1</em>")
		seg = reItalicUnderscore.ReplaceAllString(seg, "<em>$1</em>")
		return seg
	})
	for i, c := range code {
		escaped = strings.Replace(escaped, "\x00IC"+strconv.Itoa(i)+"\x00", c, 1)
	}
	return escaped
}

// SafeURL validates and escapes a URL for an HTML attribute. Unsafe schemes
// give "".
func SafeURL(raw string) string {
	val := strings.TrimSpace(html.UnescapeString(raw))
	if val == "" {
		return ""
	}
	if strings.HasPrefix(val, "/") || strings.HasPrefix(val, "#") {
		return html.EscapeString(val)
	}
	parsed, err := url.Parse(val)
	if err != nil || parsed.Scheme == "" {
		return ""
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https", "mailto", "tel":
		return html.EscapeString(val)
	default:
		return ""
	}
}

var allowedTags = map[string]bool{
	"p": true, "br": true, "strong": true, "b": true, "em": true, "i": true,
	"u": true, "s": true, "h1": true, "h2": true, "h3": true, "h4": true,
	"ul": true, "ol": true, "li": true, "blockquote": true, "pre": true,
	"code": true, "hr": true, "a": true,
}

var voidTags = map[string]bool{"br": true, "hr": true}

// dropContent are elements whose text is removed along with the tags.
var dropContent = map[string]bool{"script": true, "style": true, "iframe": true, "object": true}

// Sanitize keeps whitelisted tags without attributes, except a safe href on
// links, and escapes everything else. Unclosed tags are closed at the end.
func Sanitize(s string) string {
	var out strings.Builder
	var stack []string
	skip := ""
	for len(s) > 0 {
		lt := strings.IndexByte(s, '<')
		if lt < 0 {
			if skip == "" {
				out.WriteString(escapeText(s))
			}
			break
		}
		if lt > 0 && skip == "" {
			out.WriteString(escapeText(s[:lt]))
		}
		gt := strings.IndexByte(s[lt:], '>')
		if gt < 0 {
			if skip == "" {
				out.WriteString(escapeText(s[lt:]))
			}
			break
		}
		tag := s[lt+1 : lt+gt]
		s = s[lt+gt+1:]

		closing := strings.HasPrefix(tag, "/")
		name := strings.ToLower(strings.TrimLeft(tag, "/"))
		if i := strings.IndexAny(name, " \t\n/"); i >= 0 {
			name = name[:i]
		}

		if skip != "" {
			if closing && name == skip {
				skip = ""
			}
			continue
		}
		if dropContent[name] && !closing {
			skip = name
			continue
		}
		if !allowedTags[name] {
			continue
		}
		if voidTags[name] {
			out.WriteString("<" + name + "/>")
			continue
		}
		if closing {
			for i := len(stack) - 1; i >= 0; i-- {
				if stack[i] == name {
					for j := len(stack) - 1; j >= i; j-- {
						out.WriteString("</" + stack[j] + ">")
					}
					stack = stack[:i]
					break
				}
			}
			continue
		}
		if name == "a" {
			href := ""
			if m := reHref.FindStringSubmatch(" " + tag[1:]); m != nil {
				href = SafeURL(m[2] + m[3] + m[4])
			}
			if href == "" {
				out.WriteString("<a>")
			} else {
				out.WriteString(`<a href="` + href + `" rel="noopener noreferrer">`)
			}
		} else {
			out.WriteString("<" + name + ">")
		}
		stack = append(stack, name)
	}
	for i := len(stack) - 1; i >= 0; i-- {
		out.WriteString("</" + stack[i] + ">")
	}
	return out.String()
}

// escapeText escapes text that may already carry entities from the editor.
func escapeText(s string) string {
	return html.EscapeString(html.UnescapeString(s))
}
