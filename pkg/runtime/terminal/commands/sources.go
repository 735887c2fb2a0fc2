package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewSourcesCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "List supported source kinds and configured profiles",
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(env.Output, "Source kinds:")
			for _, kind := range env.Registry.ListKinds() {
				fmt.Fprintf(env.Output, "  %s\n", kind)
			}

			if env.Profiles == nil {
				return nil
			}
			profiles, err := env.Profiles.GetProfiles(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list profiles: %w", err)
			}
			if len(profiles) == 0 {
				return nil
			}
			fmt.Fprintln(env.Output, "Profiles:")
			for _, p := range profiles {
				fmt.Fprintf(env.Output, "  %s (%s) %s\n", p.Name, p.Type, p.Path)
			}
			return nil
		},
	}
}
