package commands

import (
	"context"
	"fmt"

	"github.com/de-tools/pillar-atlas/pkg/adapters"
	"github.com/de-tools/pillar-atlas/pkg/models/domain"
	"github.com/de-tools/pillar-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/pillar-atlas/pkg/store/duckdb"
	"github.com/spf13/cobra"
)

type AnalyzeCmd struct {
	file     string
	mode     string
	language string
	save     bool
	env      *Env
	reporter *export.Reporter
}

func NewAnalyzeCmd(env *Env, reporter *export.Reporter) *cobra.Command {
	ac := &AnalyzeCmd{env: env, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a financial dataset",
		RunE:  ac.run,
	}

	cmd.Flags().StringVar(&ac.file, "file", "", "Path or s3://bucket/key of a .csv or .xlsx dataset")
	cmd.Flags().StringVar(&ac.mode, "mode", string(domain.ModeComprehensive), "Analysis mode: comprehensive, tax, financial or summary")
	cmd.Flags().StringVar(&ac.language, "language", string(domain.LanguageEnglish), "Output language: en or he")
	cmd.Flags().BoolVar(&ac.save, "save", false, "Persist the analysis so questions can be asked about it later")

	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func (ac *AnalyzeCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := ac.env.Context(cmd.Context())

	ds, err := ac.env.Loader.Load(ctx, ac.file)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	result, err := ac.env.Service.Analyze(ctx, ds, ac.mode)
	if err != nil {
		return fmt.Errorf("failed to analyze dataset: %w", err)
	}

	if ac.save {
		store, db, err := ac.env.OpenStore()
		if err != nil {
			return err
		}
		defer db.Close()

		err = duckdb.InTransaction(ctx, db, func(ctx context.Context) error {
			return store.Save(ctx, adapters.MapAnalysisDomainToStore(result))
		})
		if err != nil {
			return fmt.Errorf("failed to save analysis: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved analysis %s\n", result.ID)
	}

	lang, _ := domain.ParseLanguage(ac.language)
	return ac.reporter.Handle(adapters.MapAnalysisDomainToReport(result, lang))
}
