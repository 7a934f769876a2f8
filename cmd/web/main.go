package main

import (
	"fmt"
	"net"
	"os"

	"github.com/de-tools/pillar-atlas/pkg/server"
	"github.com/de-tools/pillar-atlas/pkg/services/analysis"
	"github.com/de-tools/pillar-atlas/pkg/services/config"
	"github.com/de-tools/pillar-atlas/pkg/store/dataset"
	"github.com/de-tools/pillar-atlas/pkg/store/duckdb"
	analysisstore "github.com/de-tools/pillar-atlas/pkg/store/duckdb/analysis"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	cfgPath      string
	synonymsPath string
	dbPath       string
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for Pillar Atlas",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "", "Path to a YAML, JSON or TOML policy file")
	rootCmd.Flags().StringVar(&synonymsPath, "synonyms", "", "Path to an ini file with extra column synonyms")
	rootCmd.Flags().StringVar(&dbPath, "db", "", "Path of the DuckDB file holding analyses (overrides store.path)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	host := os.Getenv("SERVER_HOST")
	port := os.Getenv("SERVER_PORT")

	if host == "" || port == "" {
		logger.Error().Msgf("Missing server configuration from .env file")
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if synonymsPath != "" {
		overrides, err := config.LoadSynonyms(synonymsPath)
		if err != nil {
			return fmt.Errorf("failed to load synonyms: %w", err)
		}
		cfg.Analysis.Columns = cfg.Analysis.Columns.WithOverrides(overrides)
		logger.Info().Msgf("Synonyms found at `%s` successfully loaded.", synonymsPath)
	}
	if dbPath != "" {
		cfg.Store.Path = dbPath
	}

	db, err := duckdb.NewDB(duckdb.Settings{
		DbPath: cfg.Store.Path,
	})
	if err != nil {
		return fmt.Errorf("failed to create DuckDB instance: %w", err)
	}
	defer db.Close()

	store, err := analysisstore.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create analysis store: %w", err)
	}

	loader := dataset.NewLoader(nil)
	s3Client, err := dataset.NewS3Client(ctx, dataset.S3Settings{Region: cfg.S3.Region, Endpoint: cfg.S3.Endpoint})
	if err != nil {
		logger.Warn().Err(err).Msg("s3 sources disabled")
	} else {
		loader = dataset.NewLoader(s3Client)
	}

	api := server.NewWebAPI(server.Config{
		Addr: net.JoinHostPort(host, port),
		Dependencies: server.Dependencies{
			Service: analysis.NewService(cfg.Analysis),
			Store:   store,
			Loader:  dataset.NewRootedLoader(loader, cfg.Store.DataDir),
			Logger:  logger,
		},
	})

	return api.Start()
}
