package parser

import (
	"strings"

	"github.com/gerunddev/creolewiki/internal/creole/ast"
)

// maxHeadingLevel is the longest '=' run read as a heading
const maxHeadingLevel = 5

type fence struct {
	open, close string
	kind        Kind
	lang        ast.Language
}

// Block fences, also used inline (except nowiki, which has its own inline form).
var fences = []fence{
	{"{{{", "}}}", KindNoWiki, ast.NoLanguage},
	{"[<c++>]", "[</c++>]", KindCode, ast.CPlusPlus},
	{"[<java>]", "[</java>]", KindCode, ast.Java},
	{"[<xhtml>]", "[</xhtml>]", KindCode, ast.XHTML},
	{"[<xml>]", "[</xml>]", KindCode, ast.XML},
	{"[<html>]", "[</html>]", KindHTML, ast.NoLanguage},
}

// Block parses data, which must end with a newline, into block children of root
func (p *Parser) Block(root *Node, data string) {
	for len(data) > 0 {
		if n := IsEmpty(data); n > 0 {
			data = data[n:]
			continue
		}

		var (
			n    int
			node *Node
		)
		if n, node = p.fencedBlock(data); n == 0 {
			if n, node = p.heading(data); n == 0 {
				if n, node = p.hrule(data); n == 0 {
					if n, node = p.table(data); n == 0 {
						if n, node = p.list(data); n == 0 {
							n, node = p.paragraph(data)
						}
					}
				}
			}
		}

		root.Children = append(root.Children, node)
		data = data[n:]
	}
}

// isBlockStart reports whether a line other than paragraph text starts here
func (p *Parser) isBlockStart(data string) bool {
	if n, _ := p.fencedBlock(data); n > 0 {
		return true
	}
	if headingLevel(data) > 0 || isHRule(data) {
		return true
	}
	line := strings.TrimLeft(data[:lineEnd(data, 0)], " \t")
	if strings.HasPrefix(line, "|") {
		return true
	}
	return listRun(line) == 1
}

// IsEmpty returns the length of data's first line if it is blank, else 0
func IsEmpty(data string) int {
	i := 0
	for i < len(data) && data[i] != '\n' {
		if data[i] != ' ' && data[i] != '\t' {
			return 0
		}
		i++
	}
	return i + 1
}

// lineEnd returns the index of the newline ending the line that holds i
func lineEnd(data string, i int) int {
	if j := strings.IndexByte(data[i:], '\n'); j >= 0 {
		return i + j
	}
	return len(data)
}

func skipChar(data string, i int, c byte) int {
	for i < len(data) && data[i] == c {
		i++
	}
	return i
}

func skipSpace(data string, i int) int {
	for i < len(data) && (data[i] == ' ' || data[i] == '\t') {
		i++
	}
	return i
}

func (p *Parser) fencedBlock(data string) (int, *Node) {
	end := lineEnd(data, 0)
	first := strings.TrimRight(data[:end], " \t")

	for _, f := range fences {
		if first != f.open {
			continue
		}
		for i := end + 1; i < len(data); {
			e := lineEnd(data, i)
			line := strings.TrimRight(data[i:e], " \t")
			closed := line == f.close
			// language and html blocks may close at the end of a content line
			if !closed && f.kind != KindNoWiki && strings.HasSuffix(line, f.close) {
				closed = true
			}
			if closed {
				body := data[end+1 : i+len(line)-len(f.close)]
				body = strings.TrimSuffix(body, "\n")
				n := e + 1
				if n > len(data) {
					n = len(data)
				}
				return n, &Node{Kind: f.kind, Text: body, Lang: f.lang}
			}
			i = e + 1
		}
		return 0, nil
	}
	return 0, nil
}

func headingLevel(data string) int {
	i := skipSpace(data, 0)
	level := skipChar(data, i, '=') - i
	if level > maxHeadingLevel {
		return 0
	}
	return level
}

func (p *Parser) heading(data string) (int, *Node) {
	level := headingLevel(data)
	if level == 0 {
		return 0, nil
	}

	end := lineEnd(data, 0)
	line := data[:end]
	i := skipSpace(line, 0)
	h := &Node{Kind: KindHeading, Prefix: line[i : i+level]}

	text := strings.TrimSpace(line[i+level:])
	text = strings.TrimSpace(strings.TrimRight(text, "="))
	if text != "" {
		h.Children = []*Node{p.Inline(text)}
	}
	return end + 1, h
}

func isHRule(data string) bool {
	line := strings.TrimSpace(data[:lineEnd(data, 0)])
	return len(line) >= 4 && strings.Trim(line, "-") == ""
}

func (p *Parser) hrule(data string) (int, *Node) {
	if !isHRule(data) {
		return 0, nil
	}
	return lineEnd(data, 0) + 1, &Node{Kind: KindHRule}
}

func (p *Parser) paragraph(data string) (int, *Node) {
	i := 0
	for i < len(data) {
		if i > 0 && (IsEmpty(data[i:]) > 0 || p.isBlockStart(data[i:])) {
			break
		}
		i = lineEnd(data, i) + 1
	}
	if i > len(data) {
		i = len(data)
	}

	text := strings.TrimSuffix(data[:i], "\n")
	return i, &Node{Kind: KindParagraph, Children: []*Node{p.Inline(text)}}
}

func (p *Parser) table(data string) (int, *Node) {
	t := &Node{Kind: KindTable}
	i := 0
	for i < len(data) {
		end := lineEnd(data, i)
		line := strings.TrimSpace(data[i:end])
		if !strings.HasPrefix(line, "|") {
			break
		}
		t.Children = append(t.Children, p.row(line[1:]))
		i = end + 1
	}
	if len(t.Children) == 0 {
		return 0, nil
	}
	return i, t
}

func (p *Parser) row(line string) *Node {
	row := &Node{Kind: KindRow}
	for _, cell := range splitCells(line) {
		kind := KindCell
		if strings.HasPrefix(cell, "=") {
			kind = KindHeaderCell
			cell = cell[1:]
		}
		n := &Node{Kind: kind}
		if text := strings.TrimSpace(cell); text != "" {
			n.Children = []*Node{p.Inline(text)}
		}
		row.Children = append(row.Children, n)
	}
	return row
}

// cellSkips are bracketed constructs whose contents may contain '|'
var cellSkips = [][2]string{
	{"[[", "]]"},
	{"{{{", "}}}"},
	{"{{", "}}"},
	{"<<", ">>"},
}

// splitCells splits a table row (without its leading '|') into cell texts.
// A trailing '|' closes the last cell rather than opening an empty one.
func splitCells(line string) []string {
	var cells []string
	start := 0
	i := 0
scan:
	for i < len(line) {
		if line[i] == '~' {
			i += 2
			continue
		}
		for _, skip := range cellSkips {
			if strings.HasPrefix(line[i:], skip[0]) {
				if end := strings.Index(line[i+len(skip[0]):], skip[1]); end >= 0 {
					i += len(skip[0]) + end + len(skip[1])
					continue scan
				}
			}
		}
		if line[i] == '|' {
			cells = append(cells, line[start:i])
			start = i + 1
		}
		i++
	}
	if start < len(line) {
		cells = append(cells, line[start:])
	}
	return cells
}

// listRun returns the length of the run of list prefix characters
func listRun(line string) int {
	i := 0
	for i < len(line) && (line[i] == '*' || line[i] == '#') {
		i++
	}
	return i
}

func listKind(marker byte) Kind {
	if marker == '#' {
		return KindOrderedList
	}
	return KindUnorderedList
}

// itemLevel returns the level of the list item a line starts given the
// depth of the currently open lists, or 0 if the line is not an item. A run
// longer than one only continues an open list, so "**bold**" at the start
// of a paragraph stays bold. Prefix characters beyond the chosen level are
// item text.
func itemLevel(line string, depth int) int {
	run := listRun(line)
	switch {
	case run == 0:
		return 0
	case run == 1:
		return 1
	case depth == 0:
		return 0
	}
	return min(run, depth+1, ast.MaxListDepth)
}

// list parses consecutive list lines into one list tree. Each depth holds
// one open list; a change of marker at a depth starts a sibling list.
func (p *Parser) list(data string) (int, *Node) {
	first := strings.TrimLeft(data[:lineEnd(data, 0)], " \t")
	if itemLevel(first, 0) != 1 {
		return 0, nil
	}

	root := &Node{Kind: listKind(first[0])}
	var (
		lists []*Node // lists[d] is the open list at depth d+1
		items []*Node // items[d] is the last item at depth d+1
	)

	i := 0
	for i < len(data) {
		end := lineEnd(data, i)
		line := strings.TrimLeft(data[i:end], " \t")
		level := itemLevel(line, len(lists))
		if level == 0 || (level == 1 && len(lists) > 0 && listKind(line[0]) != root.Kind) {
			break
		}

		lists = lists[:min(len(lists), level)]
		items = items[:min(len(items), level)]
		marker := line[level-1]
		if len(lists) == level && lists[level-1].Kind != listKind(marker) {
			lists = lists[:level-1]
			items = items[:level-1]
		}
		for len(lists) < level {
			depth := len(lists)
			l := &Node{Kind: listKind(line[depth])}
			if depth == 0 {
				l = root
			} else {
				parent := items[depth-1]
				parent.Children = append(parent.Children, l)
			}
			lists = append(lists, l)
		}

		// continuation lines belong to the item
		text := strings.TrimSpace(line[level:])
		i = end + 1
		for i < len(data) && IsEmpty(data[i:]) == 0 && !p.isBlockStart(data[i:]) {
			e := lineEnd(data, i)
			next := strings.TrimLeft(data[i:e], " \t")
			if itemLevel(next, len(lists)) > 0 {
				break
			}
			text += "\n" + strings.TrimSpace(next)
			i = e + 1
		}

		item := &Node{Kind: KindListItem, Level: level, Children: []*Node{p.Inline(text)}}
		l := lists[level-1]
		l.Children = append(l.Children, item)
		items = append(items[:level-1], item)
	}
	if i > len(data) {
		i = len(data)
	}
	return i, root
}
