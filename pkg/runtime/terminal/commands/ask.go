package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/de-tools/pillar-atlas/pkg/adapters"
	"github.com/de-tools/pillar-atlas/pkg/models/domain"
	"github.com/spf13/cobra"
)

type AskCmd struct {
	file     string
	id       string
	question string
	language string
	env      *Env
}

func NewAskCmd(env *Env) *cobra.Command {
	ac := &AskCmd{env: env}
	cmd := &cobra.Command{
		Use:   "ask",
		Short: "Ask a question about a dataset or a saved analysis",
		RunE:  ac.run,
	}

	cmd.Flags().StringVar(&ac.file, "file", "", "Dataset to analyze before answering")
	cmd.Flags().StringVar(&ac.id, "analysis", "", "Id of a saved analysis")
	cmd.Flags().StringVar(&ac.question, "question", "", "Question in English or Hebrew")
	cmd.Flags().StringVar(&ac.language, "language", string(domain.LanguageEnglish), "Answer language: en or he")

	_ = cmd.MarkFlagRequired("question")
	cmd.MarkFlagsMutuallyExclusive("file", "analysis")
	cmd.MarkFlagsOneRequired("file", "analysis")

	return cmd
}

func (ac *AskCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := ac.env.Context(cmd.Context())

	result, err := ac.result(ctx)
	if err != nil {
		return err
	}

	answer := ac.env.Service.Ask(ctx, ac.question, ac.language, result)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, answer.Answer)
	fmt.Fprintf(out, "\nintent: %s\nconfidence: %.2f\n", answer.Intent, answer.Confidence)
	if len(answer.Sources) > 0 {
		fmt.Fprintf(out, "sources: %s\n", strings.Join(answer.Sources, ", "))
	}
	for _, q := range answer.RelatedQuestions {
		fmt.Fprintf(out, "- %s\n", q)
	}
	return nil
}

func (ac *AskCmd) result(ctx context.Context) (domain.AnalysisResult, error) {
	if ac.id == "" {
		if ac.file == "" {
			return domain.AnalysisResult{}, errors.New("either --file or --analysis is required")
		}
		ds, err := ac.env.Loader.Load(ctx, ac.file)
		if err != nil {
			return domain.AnalysisResult{}, fmt.Errorf("failed to load dataset: %w", err)
		}
		result, err := ac.env.Service.Analyze(ctx, ds, string(domain.ModeComprehensive))
		if err != nil {
			return domain.AnalysisResult{}, fmt.Errorf("failed to analyze dataset: %w", err)
		}
		return result, nil
	}

	store, db, err := ac.env.OpenStore()
	if err != nil {
		return domain.AnalysisResult{}, err
	}
	defer db.Close()

	stored, err := store.Get(ctx, ac.id)
	if err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("failed to get analysis %s: %w", ac.id, err)
	}
	return adapters.MapAnalysisStoreToDomain(*stored), nil
}
