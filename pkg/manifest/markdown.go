package manifest

import (
	"bytes"
	"strings"

	"github.com/arthur-debert/aitk/pkg/jsondoc"
	"github.com/arthur-debert/aitk/pkg/logging"
	"github.com/arthur-debert/aitk/pkg/types"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownReader reads environment.md. A table whose first header is Name
// and which has an Install column lists skills; a table whose first header
// is File and which has an Event column lists hooks. The first fenced json
// block carries the expected settings.json "hooks" object.
type MarkdownReader struct{}

func (MarkdownReader) Read(src []byte) (*types.Manifest, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	doc := md.Parser().Parse(text.NewReader(src))

	m := &types.Manifest{}
	foundJSON := false

	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *east.Table:
			readTable(node, src, m)
			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock:
			if !foundJSON && string(node.Language(src)) == "json" {
				foundJSON = true
				m.ExpectedHooks = readSettingsBlock(codeBlockText(node, src))
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

type tableKind int

const (
	tableOther tableKind = iota
	tableSkills
	tableHooks
)

func readTable(table *east.Table, src []byte, m *types.Manifest) {
	var header []string
	var rows [][]string

	for child := table.FirstChild(); child != nil; child = child.NextSibling() {
		switch row := child.(type) {
		case *east.TableHeader:
			header = rowCells(row, src)
		case *east.TableRow:
			rows = append(rows, rowCells(row, src))
		}
	}

	kind, columns := classifyHeader(header)
	if kind == tableOther {
		return
	}

	for _, cells := range rows {
		name := cell(cells, 0)
		if name == "" {
			continue
		}
		item := types.DeclaredItem{
			Name:    name,
			Install: installFlag(cell(cells, columns.install)),
		}
		if kind == tableHooks {
			item.Event = cell(cells, columns.event)
			item.Matcher = cell(cells, columns.matcher)
			m.Hooks = append(m.Hooks, item)
		} else {
			m.Skills = append(m.Skills, item)
		}
	}
}

type columnIndex struct {
	install int
	event   int
	matcher int
}

func classifyHeader(header []string) (tableKind, columnIndex) {
	cols := columnIndex{install: 1, event: -1, matcher: -1}
	if len(header) == 0 {
		return tableOther, cols
	}

	hasInstall, hasEvent := false, false
	for i, h := range header {
		switch strings.ToLower(h) {
		case "install":
			cols.install = i
			hasInstall = true
		case "event":
			cols.event = i
			hasEvent = true
		case "matcher":
			cols.matcher = i
		}
	}

	first := header[0]
	switch {
	case strings.HasPrefix(first, "Name") && hasInstall:
		return tableSkills, cols
	case strings.HasPrefix(first, "File") && hasEvent:
		return tableHooks, cols
	}
	return tableOther, cols
}

func cell(cells []string, i int) string {
	if i < 0 || i >= len(cells) {
		return ""
	}
	return cells[i]
}

func rowCells(row ast.Node, src []byte) []string {
	var cells []string
	for c := row.FirstChild(); c != nil; c = c.NextSibling() {
		if _, ok := c.(*east.TableCell); !ok {
			continue
		}
		cells = append(cells, strings.TrimSpace(inlineText(c, src)))
	}
	return cells
}

// inlineText concatenates the text of every inline descendant of n
func inlineText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := node.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

func codeBlockText(block *ast.FencedCodeBlock, src []byte) []byte {
	var buf bytes.Buffer
	lines := block.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(src))
	}
	return buf.Bytes()
}

// readSettingsBlock extracts the "hooks" object. A block that is not valid
// JSON yields no expected entries.
func readSettingsBlock(block []byte) types.ExpectedHooks {
	logger := logging.GetLogger("manifest")

	obj, err := jsondoc.Parse(block)
	if err != nil {
		logger.Warn().Err(err).Msg("settings block is not valid JSON, no hook registrations expected")
		return nil
	}

	hooks, ok, err := obj.GetObject("hooks")
	if !ok {
		return nil
	}
	if err != nil {
		logger.Warn().Err(err).Msg("settings block \"hooks\" is not an object")
		return nil
	}
	return expectedFromObject(hooks)
}
