package terminal

import (
	"fmt"
	"io"
	"os"
	"text/template"

	"github.com/de-tools/roi-atlas/pkg/models/domain"
)

// PlainReporter outputs reports to the console as indented text without tables
type PlainReporter struct {
	writer io.Writer
}

// NewPlainReporter creates a new console reporter
func NewPlainReporter(writer io.Writer) *PlainReporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &PlainReporter{writer: writer}
}

func (c *PlainReporter) Handle(report *domain.Report) error {
	tmpl := `
{{.Title}}{{if not .Period.IsZero}}
Period: {{.Period.Start.Format "2006-01-02"}} to {{.Period.End.Format "2006-01-02"}} ({{.Period.Duration}} days){{end}}
{{range .Sections}}
{{.Title}}
{{range .Summary}}  {{.Key}}: {{.Value}}
{{end}}{{range .Details}}  - {{.Name}}: {{.Value}}{{if .Unit}} {{.Unit}}{{end}}{{if .Description}}, {{.Description}}{{end}}
{{end}}{{range .Notes}}  {{.}}
{{end}}{{end}}`

	t, err := template.New("report").Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, report)
}
