// Package config loads runtime options for the fuzz runner.
package config

import (
	"os"
	"strings"

	"augur/internal/runinfo"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config captures all runtime options for the fuzz runner.
type Config struct {
	DSN                string             `yaml:"dsn"`
	Database           string             `yaml:"database"`
	Seed               int64              `yaml:"seed"`
	Iterations         int                `yaml:"iterations"`
	Workers            int                `yaml:"workers"`
	MaxTables          int                `yaml:"max_tables"`
	MaxColumns         int                `yaml:"max_columns"`
	MaxRowsPerTable    int                `yaml:"max_rows_per_table"`
	MaxDataDumpRows    int                `yaml:"max_data_dump_rows"`
	StatementTimeoutMs int                `yaml:"statement_timeout_ms"`
	OutputDir          string             `yaml:"output_dir"`
	Weights            Weights            `yaml:"weights"`
	Storage            StorageConfig      `yaml:"storage"`
	RunInfo            *runinfo.BasicInfo `yaml:"-"`
}

// Weights controls weighted selections for generation actions.
type Weights struct {
	Actions ActionWeights `yaml:"actions"`
}

// ActionWeights sets probabilities for the generation actions.
type ActionWeights struct {
	Query   int `yaml:"query"`
	Explain int `yaml:"explain"`
}

// StorageConfig holds external storage settings for case uploads.
type StorageConfig struct {
	S3  S3Config  `yaml:"s3"`
	GCS GCSConfig `yaml:"gcs"`
}

// CloudEnabled reports whether any cloud storage backend is enabled.
func (s StorageConfig) CloudEnabled() bool {
	return s.GCS.Enabled || s.S3.Enabled
}

// S3Config configures S3 uploads (including S3-compatible endpoints).
type S3Config struct {
	Enabled         bool   `yaml:"enabled"`
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	Bucket          string `yaml:"bucket"`
	Prefix          string `yaml:"prefix"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	SessionToken    string `yaml:"session_token"`
	UsePathStyle    bool   `yaml:"use_path_style"`
}

// GCSConfig configures GCS uploads.
type GCSConfig struct {
	Enabled         bool   `yaml:"enabled"`
	Bucket          string `yaml:"bucket"`
	Prefix          string `yaml:"prefix"`
	CredentialsFile string `yaml:"credentials_file"`
}

// Load reads configuration from a YAML file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "read config %s", path)
	}
	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "parse config")
	}
	applySecretOverrides(&cfg)
	normalizeConfig(&cfg)
	cfg.RunInfo = runinfo.FromEnv()
	return cfg, nil
}

// applySecretOverrides pulls credentials from the environment so they never
// have to live in the config file.
func applySecretOverrides(cfg *Config) {
	if v := os.Getenv("AUGUR_S3_ACCESS_KEY_ID"); v != "" {
		cfg.Storage.S3.AccessKeyID = v
	}
	if v := os.Getenv("AUGUR_S3_SECRET_ACCESS_KEY"); v != "" {
		cfg.Storage.S3.SecretAccessKey = v
	}
	if v := os.Getenv("AUGUR_S3_SESSION_TOKEN"); v != "" {
		cfg.Storage.S3.SessionToken = v
	}
	if v := os.Getenv("AUGUR_GCS_CREDENTIALS_FILE"); v != "" {
		cfg.Storage.GCS.CredentialsFile = v
	}
}

// Default returns the built-in configuration, normalized.
func Default() Config {
	cfg := defaultConfig()
	normalizeConfig(&cfg)
	cfg.RunInfo = runinfo.FromEnv()
	return cfg
}

func defaultConfig() Config {
	return Config{
		DSN:                "root:@tcp(127.0.0.1:4000)/",
		Database:           "augur_fuzz",
		Iterations:         1000,
		Workers:            1,
		MaxTables:          3,
		MaxColumns:         6,
		MaxRowsPerTable:    30,
		MaxDataDumpRows:    50,
		StatementTimeoutMs: 15000,
		OutputDir:          "reports",
		Weights: Weights{
			Actions: ActionWeights{Query: 8, Explain: 2},
		},
	}
}

func normalizeConfig(cfg *Config) {
	if cfg.Iterations <= 0 {
		cfg.Iterations = 1000
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.MaxTables <= 0 {
		cfg.MaxTables = 3
	}
	if cfg.MaxColumns < 2 {
		cfg.MaxColumns = 2
	}
	if cfg.MaxRowsPerTable <= 0 {
		cfg.MaxRowsPerTable = 30
	}
	if cfg.MaxDataDumpRows <= 0 {
		cfg.MaxDataDumpRows = 50
	}
	if cfg.StatementTimeoutMs <= 0 {
		cfg.StatementTimeoutMs = 15000
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "reports"
	}
	if cfg.Weights.Actions.Query <= 0 && cfg.Weights.Actions.Explain <= 0 {
		cfg.Weights.Actions = ActionWeights{Query: 8, Explain: 2}
	}
	if cfg.Database != "" {
		cfg.DSN = ensureDatabaseInDSN(cfg.DSN, cfg.Database)
	}
}

func ensureDatabaseInDSN(dsn string, dbName string) string {
	if dsn == "" || dbName == "" {
		return dsn
	}
	slash := strings.Index(dsn, "/")
	if slash < 0 {
		return dsn
	}
	query := strings.Index(dsn[slash+1:], "?")
	if query >= 0 {
		query = slash + 1 + query
	}
	afterSlash := dsn[slash+1:]
	if query >= 0 {
		afterSlash = dsn[slash+1 : query]
	}
	if strings.TrimSpace(afterSlash) != "" {
		return dsn
	}
	if query >= 0 {
		return dsn[:slash+1] + dbName + dsn[query:]
	}
	return dsn + dbName
}

// UpdateDatabaseInDSN replaces the database name in the DSN path with dbName.
// It preserves query parameters, if any.
func UpdateDatabaseInDSN(dsn string, dbName string) string {
	if dsn == "" || dbName == "" {
		return dsn
	}
	slash := strings.Index(dsn, "/")
	if slash < 0 {
		return dsn
	}
	query := strings.Index(dsn[slash+1:], "?")
	if query >= 0 {
		query = slash + 1 + query
		return dsn[:slash+1] + dbName + dsn[query:]
	}
	return dsn[:slash+1] + dbName
}

// AdminDSN strips the database name from a DSN while preserving query parameters.
func AdminDSN(dsn string) string {
	if dsn == "" {
		return dsn
	}
	slash := strings.Index(dsn, "/")
	if slash < 0 {
		return dsn
	}
	query := strings.Index(dsn[slash+1:], "?")
	if query >= 0 {
		query = slash + 1 + query
		return dsn[:slash+1] + dsn[query:]
	}
	return dsn[:slash+1]
}
