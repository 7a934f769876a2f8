package commands

import (
	"fmt"

	"github.com/de-tools/pillar-atlas/pkg/models/domain"
	"github.com/spf13/cobra"
)

type RecommendCmd struct {
	file     string
	language string
	env      *Env
}

func NewRecommendCmd(env *Env) *cobra.Command {
	rc := &RecommendCmd{env: env}
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "List recommendations for a dataset",
		RunE:  rc.run,
	}

	cmd.Flags().StringVar(&rc.file, "file", "", "Path or s3://bucket/key of a .csv or .xlsx dataset")
	cmd.Flags().StringVar(&rc.language, "language", string(domain.LanguageEnglish), "Output language: en or he")

	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func (rc *RecommendCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := rc.env.Context(cmd.Context())

	ds, err := rc.env.Loader.Load(ctx, rc.file)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	result, err := rc.env.Service.Analyze(ctx, ds, string(domain.ModeComprehensive))
	if err != nil {
		return fmt.Errorf("failed to analyze dataset: %w", err)
	}

	lang, _ := domain.ParseLanguage(rc.language)
	recs := domain.RenderRecommendations(rc.env.Service.GenerateRecommendations(result), lang)
	for i, rec := range recs {
		fmt.Fprintf(cmd.OutOrStdout(), "%d. %s\n", i+1, rec)
	}
	return nil
}
