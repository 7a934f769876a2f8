package metrics

// Settings contains the estimation policy of the metric engine
type Settings struct {
	// DefaultTaxRate is applied to positive pretax profit when no tax column exists (default: 0.23)
	DefaultTaxRate float64 `mapstructure:"default_tax_rate"`
	// EstimateMissingTaxes enables the default-rate estimate (default: true)
	EstimateMissingTaxes bool `mapstructure:"estimate_missing_taxes"`
	// MissingCellThreshold is the share of missing cells above which a figure is estimated (default: 0.5)
	MissingCellThreshold float64 `mapstructure:"missing_cell_threshold"`
	// ChunkSize is the number of rows aggregated per chunk (default: 4096)
	ChunkSize int `mapstructure:"chunk_size"`
}

func DefaultSettings() Settings {
	return Settings{
		DefaultTaxRate:       0.23,
		EstimateMissingTaxes: true,
		MissingCellThreshold: 0.5,
		ChunkSize:            4096,
	}
}
