package parser

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

type format uint8

const (
	fmtBold format = 1 << iota
	fmtItalic
	fmtStrike
)

func (f format) kind() Kind {
	switch f {
	case fmtBold:
		return KindBold
	case fmtItalic:
		return KindItalic
	}
	return KindStrike
}

// formatAt returns the formatting toggled by the two bytes at i, if any
func formatAt(data string, i int) format {
	if i+1 >= len(data) || data[i] != data[i+1] {
		return 0
	}
	switch data[i] {
	case '*':
		return fmtBold
	case '/':
		// "://" is never italic
		if i > 0 && data[i-1] == ':' {
			return 0
		}
		return fmtItalic
	case '-':
		return fmtStrike
	}
	return 0
}

// Inline parses a run of inline text into a KindInline node
func (p *Parser) Inline(text string) *Node {
	p.active = 0
	nodes, _, _ := p.inline(text, 0)
	return &Node{Kind: KindInline, Children: nodes}
}

// inline parses from i until the end of data or until the end token of an
// active formatting is seen. It returns the nodes, the offset after the
// last consumed byte and the formatting that stopped it (0 at end of data).
func (p *Parser) inline(data string, i int) ([]*Node, int, format) {
	var nodes []*Node
	start := i
	flush := func(end int) {
		if end > start {
			nodes = append(nodes, &Node{Kind: KindText, Text: data[start:end]})
		}
	}

	for i < len(data) {
		if f := formatAt(data, i); f != 0 {
			flush(i)
			if p.active&f != 0 {
				return nodes, i + 2, f
			}

			p.active |= f
			inner, j, stop := p.inline(data, i+2)
			p.active &^= f

			n := &Node{Kind: f.kind(), Children: []*Node{{Kind: KindInline, Children: inner}}}
			nodes = append(nodes, n)
			if stop != f {
				// the end of data, or an enclosing end token, came first
				return nodes, j, stop
			}
			n.Closed = true
			i, start = j, j
			continue
		}

		if cb := p.inlineCallback[data[i]]; cb != nil {
			if n, node := cb(p, data, i); n > 0 {
				flush(i)
				nodes = append(nodes, node)
				i += n
				start = i
				continue
			}
		}
		i++
	}

	flush(i)
	return nodes, i, 0
}

// '[' starts [[links]] and [<lang>]code[</lang>]
func leftBracket(p *Parser, data string, offset int) (int, *Node) {
	rest := data[offset:]
	if strings.HasPrefix(rest, "[[") {
		return bracketed(rest, "[[", "]]", KindLink)
	}
	for _, f := range fences[1:] {
		if !strings.HasPrefix(rest, f.open) {
			continue
		}
		end := strings.Index(rest[len(f.open):], f.close)
		if end < 0 {
			return 0, nil
		}
		kind := KindInlineCode
		if f.kind == KindHTML {
			kind = KindInlineHTML
		}
		text := rest[len(f.open) : len(f.open)+end]
		return len(f.open) + end + len(f.close), &Node{Kind: kind, Text: text, Lang: f.lang}
	}
	return 0, nil
}

// '{' starts {{images}} and {{{nowiki}}}
func leftBrace(p *Parser, data string, offset int) (int, *Node) {
	rest := data[offset:]
	if strings.HasPrefix(rest, "{{{") {
		end := strings.Index(rest[3:], "}}}")
		if end < 0 {
			return 0, nil
		}
		// "}}}}" closes on its last three braces
		for 3+end+3 < len(rest) && rest[3+end+3] == '}' {
			end++
		}
		return 3 + end + 3, &Node{Kind: KindInlineNoWiki, Text: rest[3 : 3+end]}
	}
	if strings.HasPrefix(rest, "{{") {
		return bracketed(rest, "{{", "}}", KindImage)
	}
	return 0, nil
}

// bracketed parses a single-line "target|title" construct
func bracketed(rest, open, close string, kind Kind) (int, *Node) {
	end := strings.Index(rest[len(open):], close)
	if end < 0 {
		return 0, nil
	}
	inner := rest[len(open) : len(open)+end]
	if strings.Contains(inner, "\n") {
		return 0, nil
	}

	target, title, hasTitle := strings.Cut(inner, "|")
	n := &Node{Kind: kind, Target: strings.TrimSpace(target)}
	if hasTitle {
		n.Title = strings.TrimSpace(title)
		n.HasTitle = true
	}
	return len(open) + end + len(close), n
}

func isMacroNameChar(c byte) bool {
	return isAlnum(c) || c == '-' || c == '_' || c == '.'
}

// '<' starts <<macros>>. "<<name>>" is the no-argument form; arguments
// follow the name after whitespace or ':' and run to the first ">>".
func leftAngle(p *Parser, data string, offset int) (int, *Node) {
	if !strings.HasPrefix(data[offset:], "<<") {
		return 0, nil
	}
	i := offset + 2
	j := i
	for j < len(data) && isMacroNameChar(data[j]) {
		j++
	}
	if j == i || j >= len(data) {
		return 0, nil
	}
	name := data[i:j]

	if strings.HasPrefix(data[j:], ">>") {
		return j + 2 - offset, &Node{Kind: KindMacroNoArgs, Text: name}
	}
	if data[j] != ':' && !isSpace(data[j]) {
		return 0, nil
	}
	end := strings.Index(data[j+1:], ">>")
	if end < 0 {
		return 0, nil
	}
	args := data[j+1 : j+1+end]
	if strings.TrimSpace(args) == "" {
		// blank arguments are the no-argument form
		return j + 1 + end + 2 - offset, &Node{Kind: KindText, Text: data[offset : j+1+end+2]}
	}
	return j + 1 + end + 2 - offset, &Node{Kind: KindMacro, Text: name, Args: args}
}

func linebreak(p *Parser, data string, offset int) (int, *Node) {
	if strings.HasPrefix(data[offset:], `\\`) {
		return 2, &Node{Kind: KindLinebreak}
	}
	return 0, nil
}

// '~' makes the next character literal
func escape(p *Parser, data string, offset int) (int, *Node) {
	if offset+1 >= len(data) || isSpace(data[offset+1]) {
		return 0, nil
	}
	_, size := utf8.DecodeRuneInString(data[offset+1:])
	return 1 + size, &Node{Kind: KindText, Text: data[offset+1 : offset+1+size]}
}

var schemes = []string{"http://", "https://", "ftp://", "ftps://", "file://", "irc://", "news://", "mailto:"}

var (
	attachmentRe = regexp.MustCompile(`^[A-Z][A-Za-z0-9]*[A-Za-z][A-Za-z0-9]+\.[a-z0-9]+`)
	interWikiRe  = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9]*:[A-Z][A-Za-z0-9]*`)
	camelRe      = regexp.MustCompile(`^[A-Z][A-Za-z0-9]*[a-z0-9][A-Z][A-Za-z0-9]*`)
)

// wordEnd reports whether a match of length n ends at a word boundary
func wordEnd(rest string, n int) bool {
	return n > 0 && (n == len(rest) || !isAlnum(rest[n]))
}

func wordStart(data string, offset int) bool {
	return offset == 0 || !isAlnum(data[offset-1])
}

// lower-case words start raw URLs and lower-case interwiki links
func lowerWord(p *Parser, data string, offset int) (int, *Node) {
	if !wordStart(data, offset) {
		return 0, nil
	}
	rest := data[offset:]
	for _, scheme := range schemes {
		if !strings.HasPrefix(rest, scheme) {
			continue
		}
		end := len(scheme)
		for end < len(rest) && !isURLStop(rest[end]) {
			end++
		}
		for end > len(scheme) && strings.IndexByte(`.,;:!?)'"`, rest[end-1]) >= 0 {
			end--
		}
		if end == len(scheme) {
			return 0, nil
		}
		return end, &Node{Kind: KindRawLink, Text: rest[:end]}
	}
	if n := len(interWikiRe.FindString(rest)); wordEnd(rest, n) {
		return n, &Node{Kind: KindWikiWord, Text: rest[:n]}
	}
	return 0, nil
}

func isURLStop(c byte) bool {
	return isSpace(c) || strings.IndexByte(`|[]<>"{}`, c) >= 0
}

// upper-case words start attachments, interwiki links and WikiWords
func upperWord(p *Parser, data string, offset int) (int, *Node) {
	if !wordStart(data, offset) {
		return 0, nil
	}
	rest := data[offset:]
	if n := len(attachmentRe.FindString(rest)); wordEnd(rest, n) {
		return n, &Node{Kind: KindAttachment, Text: rest[:n]}
	}
	if n := len(interWikiRe.FindString(rest)); wordEnd(rest, n) {
		return n, &Node{Kind: KindWikiWord, Text: rest[:n]}
	}
	if n := len(camelRe.FindString(rest)); wordEnd(rest, n) && strings.ContainsAny(rest[:n], "abcdefghijklmnopqrstuvwxyz") {
		return n, &Node{Kind: KindWikiWord, Text: rest[:n]}
	}
	return 0, nil
}
