package commands

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/de-tools/pillar-atlas/pkg/services/analysis"
	"github.com/de-tools/pillar-atlas/pkg/services/config"
	"github.com/de-tools/pillar-atlas/pkg/store/dataset"
	"github.com/de-tools/pillar-atlas/pkg/store/duckdb"
	analysisstore "github.com/de-tools/pillar-atlas/pkg/store/duckdb/analysis"
	"github.com/rs/zerolog"
)

// Env holds the global flags and the dependencies built from them before a command runs.
type Env struct {
	ConfigPath   string
	SynonymsPath string
	DBPath       string
	Logger       zerolog.Logger

	Config  *config.Config
	Service analysis.Service
	Loader  dataset.Loader
}

func (e *Env) Context(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return e.Logger.WithContext(ctx)
}

// Init loads the policy file and the synonym registry and wires the analysis service.
func (e *Env) Init(ctx context.Context) error {
	cfg, err := config.LoadConfig(e.ConfigPath)
	if err != nil {
		return err
	}

	if e.SynonymsPath != "" {
		overrides, err := config.LoadSynonyms(e.SynonymsPath)
		if err != nil {
			return err
		}
		cfg.Analysis.Columns = cfg.Analysis.Columns.WithOverrides(overrides)
	}
	if e.DBPath != "" {
		cfg.Store.Path = e.DBPath
	}

	e.Config = cfg
	e.Service = analysis.NewService(cfg.Analysis)

	client, err := dataset.NewS3Client(ctx, dataset.S3Settings{Region: cfg.S3.Region, Endpoint: cfg.S3.Endpoint})
	if err != nil {
		e.Logger.Warn().Err(err).Msg("s3 sources disabled")
		e.Loader = dataset.NewLoader(nil)
		return nil
	}
	e.Loader = dataset.NewLoader(client)
	return nil
}

// OpenStore opens the analysis store. The caller closes the returned database.
func (e *Env) OpenStore() (analysisstore.Store, *sql.DB, error) {
	db, err := duckdb.NewDB(duckdb.Settings{DbPath: e.Config.Store.Path})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create DuckDB instance: %w", err)
	}
	store, err := analysisstore.NewStore(db)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to create analysis store: %w", err)
	}
	return store, db, nil
}
