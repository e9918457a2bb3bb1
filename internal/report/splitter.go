package report

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"go.abhg.dev/goldmark/toc"
)

// Section is one embeddable slice of a markdown report.
type Section struct {
	Index int
	Title string // heading text, e.g. "Quarterbacks"
	Path  string // hierarchy, e.g. "Week 9 Report > Quarterbacks"
	Body  string // section content without the heading prefix
}

// Text returns the section with its header path prepended, the form handed to
// the embedder so a section keeps its document context.
func (s Section) Text() string {
	if s.Path == "" {
		return s.Body
	}
	return s.Path + "\n\n" + s.Body
}

// Splitter breaks markdown reports at H1/H2 boundaries so one embedding
// covers one coherent topic.
type Splitter struct {
	parser goldmark.Markdown
}

// NewSplitter creates a section splitter backed by a goldmark parser.
func NewSplitter() *Splitter {
	return &Splitter{
		parser: goldmark.New(
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
		),
	}
}

// Split returns the sections of source in document order. Documents with no
// headings come back as a single untitled section.
func (s *Splitter) Split(source []byte) ([]Section, error) {
	doc := s.parser.Parser().Parse(text.NewReader(source))

	tree, err := toc.Inspect(doc, source,
		toc.MinDepth(1),
		toc.MaxDepth(2),
		toc.Compact(true),
	)
	if err != nil {
		return nil, fmt.Errorf("inspect sections: %w", err)
	}

	if len(tree.Items) == 0 {
		return []Section{{Index: 0, Body: strings.TrimSpace(string(source))}}, nil
	}

	// Flatten the item tree in document order; each item's body runs until
	// the next item's heading (or EOF for the last one).
	var flat []flatItem
	flatten(tree.Items, nil, &flat)

	sections := make([]Section, 0, len(flat))
	for i, item := range flat {
		heading := headingByID(doc, item.id)
		if heading == nil {
			continue
		}
		start := heading.Lines().At(0)

		end := len(source)
		if i+1 < len(flat) {
			if next := headingByID(doc, flat[i+1].id); next != nil {
				end = next.Lines().At(0).Start
			}
		}

		body := strings.TrimSpace(string(source[start.Stop:end]))
		sections = append(sections, Section{
			Index: len(sections),
			Title: item.title,
			Path:  strings.Join(item.path, " > "),
			Body:  body,
		})
	}

	return sections, nil
}

type flatItem struct {
	id    string
	title string
	path  []string
}

func flatten(items toc.Items, ancestors []string, out *[]flatItem) {
	for _, item := range items {
		path := append(append([]string{}, ancestors...), string(item.Title))
		*out = append(*out, flatItem{
			id:    string(item.ID),
			title: string(item.Title),
			path:  path,
		})
		if len(item.Items) > 0 {
			flatten(item.Items, path, out)
		}
	}
}

// headingByID locates a heading node by its auto-generated id.
func headingByID(node ast.Node, id string) ast.Node {
	var found ast.Node
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering && n.Kind() == ast.KindHeading {
			if attr, ok := n.AttributeString("id"); ok && string(attr.([]byte)) == id {
				found = n
				return ast.WalkStop, nil
			}
		}
		return ast.WalkContinue, nil
	})
	return found
}
