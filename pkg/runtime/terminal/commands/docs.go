package commands

import (
	"fmt"
	"strings"

	"github.com/de-tools/roi-atlas/pkg/services/docs"
	"github.com/spf13/cobra"
)

type DocsCmd struct {
	env   *Env
	check bool
	width int
	style string
}

func NewDocsCmd(env *Env) *cobra.Command {
	dc := &DocsCmd{env: env}
	cmd := &cobra.Command{
		Use:   "docs",
		Short: "Show the project documentation",
		RunE:  dc.run,
	}

	cmd.Flags().BoolVar(&dc.check, "check", false, "Verify the documentation has all required sections")
	cmd.Flags().IntVar(&dc.width, "width", 80, "Wrap width")
	cmd.Flags().StringVar(&dc.style, "style", "auto", "Rendering style: auto, dark, light or notty")

	return cmd
}

func (dc *DocsCmd) run(_ *cobra.Command, _ []string) error {
	if dc.check {
		missing := docs.CheckSections(dc.env.Readme, docs.RequiredSections)
		if len(missing) > 0 {
			return fmt.Errorf("documentation is missing sections: %s", strings.Join(missing, ", "))
		}
		fmt.Fprintf(dc.env.Output, "Documentation has all %d required sections.\n", len(docs.RequiredSections))
		return nil
	}

	out, err := docs.Render(dc.env.Readme, dc.width, dc.style)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(dc.env.Output, out)
	return err
}
