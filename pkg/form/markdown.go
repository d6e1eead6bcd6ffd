package form

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"
)

// MarkdownParser reads form schemas written as markdown page definitions.
//
// The first H1 heading is the form title and the paragraph after it the
// description. Every list item of the form
//
//   - `key` "title" (type): help text [optional, id=inputId, default=*RANDOM8, row=name]
//
// declares a field. Fields sharing a row label are placed in one row, in order
// of first appearance; fields without a row label get a row of their own.
// A nested list of `locale: "Label"` items adds localized titles.
type MarkdownParser struct {
	md goldmark.Markdown
}

// NewMarkdownParser creates a new markdown schema parser
func NewMarkdownParser() *MarkdownParser {
	return &MarkdownParser{
		md: goldmark.New(),
	}
}

type markdownField struct {
	field Field
	row   string
}

// frontMatter holds optional YAML front matter overriding title and description
type frontMatter struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// Parse parses markdown content into a schema
func (p *MarkdownParser) Parse(content []byte) (*Schema, error) {
	fm, body, err := splitFrontMatter(content)
	if err != nil {
		return nil, err
	}

	doc := p.md.Parser().Parse(text.NewReader(body))

	schema := &Schema{}
	var fields []markdownField
	inTitle := false

	err = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			inTitle = false
			if node.Level == 1 && schema.Title == "" {
				schema.Title = extractText(node, body)
				inTitle = true
			}

		case *ast.Paragraph:
			if inTitle && schema.Description == "" {
				schema.Description = extractText(node, body)
			}

		case *ast.List:
			fields = append(fields, parseFieldList(node, body)...)
			return ast.WalkSkipChildren, nil
		}

		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, fmt.Errorf("form: failed to walk markdown AST: %w", err)
	}

	if fm.Title != "" {
		schema.Title = fm.Title
	}
	if fm.Description != "" {
		schema.Description = fm.Description
	}

	schema.Rows = groupRows(fields)
	if len(schema.Rows) == 0 {
		return nil, fmt.Errorf("form: markdown defines no fields")
	}

	return schema, nil
}

// groupRows places fields with a shared row label in one row
func groupRows(fields []markdownField) []Row {
	var rows []Row
	index := make(map[string]int)

	for _, f := range fields {
		if f.row == "" {
			rows = append(rows, Row{f.field})
			continue
		}
		if i, ok := index[f.row]; ok {
			rows[i] = append(rows[i], f.field)
			continue
		}
		index[f.row] = len(rows)
		rows = append(rows, Row{f.field})
	}
	return rows
}

// parseFieldList extracts field declarations and their localized titles from a list
func parseFieldList(list *ast.List, content []byte) []markdownField {
	var fields []markdownField

	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		listItem, ok := item.(*ast.ListItem)
		if !ok {
			continue
		}

		var fieldText string
		for child := listItem.FirstChild(); child != nil; child = child.NextSibling() {
			if para, ok := child.(*ast.Paragraph); ok {
				fieldText = extractText(para, content)
				break
			} else if txt, ok := child.(*ast.TextBlock); ok {
				fieldText = extractText(txt, content)
				break
			}
		}

		mf := parseFieldFromListItem(fieldText)
		if mf == nil {
			continue
		}

		for child := listItem.FirstChild(); child != nil; child = child.NextSibling() {
			nested, ok := child.(*ast.List)
			if !ok {
				continue
			}
			for nestedItem := nested.FirstChild(); nestedItem != nil; nestedItem = nestedItem.NextSibling() {
				if locale, label, ok := parseLocalizedTitle(extractText(nestedItem, content)); ok {
					if mf.field.Titles == nil {
						mf.field.Titles = make(map[string]string)
					}
					mf.field.Titles[locale] = label
				}
			}
		}

		fields = append(fields, *mf)
	}

	return fields
}

var (
	fieldPattern  = regexp.MustCompile("^`([^`]+)`\\s*(?:\"([^\"]+)\")?\\s*(?:\\(([^)]+)\\))?:?\\s*(.*)$")
	localePattern = regexp.MustCompile("^([a-zA-Z]{2,3}(?:-[a-zA-Z]{2,4})?):\\s*\"([^\"]+)\"")
	flagPattern   = regexp.MustCompile(`\[([^\]]+)\]`)
)

func parseFieldFromListItem(text string) *markdownField {
	matches := fieldPattern.FindStringSubmatch(text)
	if matches == nil {
		return nil
	}

	mf := &markdownField{
		field: Field{
			Key:   strings.TrimSpace(matches[1]),
			Title: matches[2],
			Type:  strings.TrimSpace(matches[3]),
		},
	}

	desc := matches[4]
	for _, group := range flagPattern.FindAllStringSubmatch(desc, -1) {
		for _, flag := range strings.Split(group[1], ",") {
			flag = strings.TrimSpace(flag)
			name, value, hasValue := strings.Cut(flag, "=")
			name = strings.ToLower(strings.TrimSpace(name))
			value = strings.TrimSpace(value)

			switch {
			case name == "optional" && !hasValue:
				mf.field.Optional = true
			case name == "id":
				mf.field.ID = value
			case name == "default":
				mf.field.DefaultValue = value
			case name == "row":
				mf.row = value
			}
		}
	}
	mf.field.Description = strings.TrimSpace(flagPattern.ReplaceAllString(desc, ""))

	return mf
}

func parseLocalizedTitle(text string) (locale, label string, ok bool) {
	matches := localePattern.FindStringSubmatch(text)
	if matches == nil {
		return "", "", false
	}
	return matches[1], matches[2], true
}

// extractText extracts text content from an AST node
func extractText(node ast.Node, source []byte) string {
	var buf bytes.Buffer
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Segment.Value(source))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteString(" ")
			}
		} else if cs, ok := c.(*ast.CodeSpan); ok {
			// keep backticks, the field pattern keys on them
			buf.WriteString("`")
			for seg := cs.FirstChild(); seg != nil; seg = seg.NextSibling() {
				if t, ok := seg.(*ast.Text); ok {
					buf.Write(t.Segment.Value(source))
				}
			}
			buf.WriteString("`")
		} else if _, ok := c.(*ast.List); ok {
			continue
		} else {
			buf.WriteString(extractText(c, source))
		}
	}
	return strings.TrimSpace(buf.String())
}

// splitFrontMatter separates optional YAML front matter (--- ... ---) from the markdown body
func splitFrontMatter(content []byte) (frontMatter, []byte, error) {
	var fm frontMatter

	if !bytes.HasPrefix(content, []byte("---")) {
		return fm, content, nil
	}

	end := bytes.Index(content[3:], []byte("\n---"))
	if end == -1 {
		return fm, content, nil
	}

	if err := yaml.Unmarshal(content[3:end+3], &fm); err != nil {
		return fm, nil, fmt.Errorf("form: failed to parse front matter: %w", err)
	}

	body := content[end+3+len("\n---"):]
	return fm, body, nil
}
