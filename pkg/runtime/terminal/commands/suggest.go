package commands

import (
	"fmt"
	"strings"

	"github.com/de-tools/pillar-atlas/pkg/models/domain"
	"github.com/spf13/cobra"
)

type SuggestCmd struct {
	language string
	env      *Env
}

func NewSuggestCmd(env *Env) *cobra.Command {
	sc := &SuggestCmd{env: env}
	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "List questions the assistant can answer",
		RunE:  sc.run,
	}

	cmd.Flags().StringVar(&sc.language, "language", string(domain.LanguageEnglish), "Output language: en or he")

	return cmd
}

func (sc *SuggestCmd) run(cmd *cobra.Command, _ []string) error {
	suggestions := sc.env.Service.Suggestions(sc.language)
	fmt.Fprintln(cmd.OutOrStdout(), strings.Join(suggestions, "\n"))
	return nil
}
