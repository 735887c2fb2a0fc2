package docs

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// RequiredSections are the level-two headings every project README must carry.
var RequiredSections = []string{
	"Overview",
	"Business Impact",
	"Key Metrics",
	"Tech Stack",
	"Project Structure",
}

// Sections returns the level-two headings of a markdown document in order,
// both ATX (## Title) and setext (Title over ---) forms.
func Sections(markdown []byte) []string {
	doc := goldmark.New().Parser().Parse(text.NewReader(markdown))

	var sections []string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		if heading.Level == 2 {
			if title := strings.TrimSpace(inlineText(heading, markdown)); title != "" {
				sections = append(sections, title)
			}
		}
		return ast.WalkSkipChildren, nil
	})
	return sections
}

func inlineText(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(t.Value)
		default:
			buf.WriteString(inlineText(c, source))
		}
	}
	return buf.String()
}

// CheckSections returns the required sections missing from markdown, in the
// order they are required. Headings match case-insensitively.
func CheckSections(markdown []byte, required []string) []string {
	present := make(map[string]bool)
	for _, s := range Sections(markdown) {
		present[strings.ToLower(s)] = true
	}

	var missing []string
	for _, r := range required {
		if !present[strings.ToLower(r)] {
			missing = append(missing, r)
		}
	}
	return missing
}

// Render formats markdown for the terminal. style is a glamour style name such as
// "dark", "light" or "notty"; "auto" or empty picks one from the terminal.
func Render(markdown []byte, width int, style string) (string, error) {
	if width <= 0 {
		width = 80
	}
	styleOpt := glamour.WithAutoStyle()
	if style != "" && style != "auto" {
		styleOpt = glamour.WithStylePath(style)
	}

	renderer, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(width))
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := renderer.RenderBytes(markdown)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return string(out), nil
}
