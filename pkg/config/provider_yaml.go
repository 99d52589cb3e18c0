package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// YAMLProvider implements ConfigProvider for YAML configuration files.
type YAMLProvider struct {
	filename string
	config   *ConfigData
}

// NewYAMLProvider creates a new YAML configuration provider.
func NewYAMLProvider(filename string) *YAMLProvider {
	return &YAMLProvider{filename: filename}
}

// LoadConfig loads the complete configuration from the YAML file.
func (y *YAMLProvider) LoadConfig() (*ConfigData, error) {
	cfgFile, err := os.ReadFile(y.filename)
	if err != nil {
		return nil, err
	}

	var yamlConfig struct {
		Storage     StorageYAML     `yaml:"storage,omitempty"`
		Server      ServerYAML      `yaml:"server,omitempty"`
		JobDefaults JobDefaultsYAML `yaml:"job_defaults,omitempty"`
	}
	if err := yaml.Unmarshal(cfgFile, &yamlConfig); err != nil {
		return nil, err
	}

	cfg := &ConfigData{
		Server: ServerData{
			ListenAddr:    yamlConfig.Server.ListenAddr,
			Port:          yamlConfig.Server.Port,
			Cert:          yamlConfig.Server.Cert,
			Key:           yamlConfig.Server.Key,
			AuthToken:     yamlConfig.Server.AuthToken,
			EnableCORS:    yamlConfig.Server.EnableCORS,
			IngestEnabled: yamlConfig.Server.IngestEnabled,
			MaxFrameBytes: yamlConfig.Server.MaxFrameBytes,
		},
		JobDefaults: JobDefaultsData{
			GraphKind:   yamlConfig.JobDefaults.GraphKind,
			Penalty:     yamlConfig.JobDefaults.Penalty,
			Jump:        yamlConfig.JobDefaults.Jump,
			BoundMin:    yamlConfig.JobDefaults.BoundMin,
			BoundMax:    yamlConfig.JobDefaults.BoundMax,
			Constrained: yamlConfig.JobDefaults.Constrained,
			RobustKind:  yamlConfig.JobDefaults.RobustKind,
			RobustK:     yamlConfig.JobDefaults.RobustK,
		},
	}
	if yamlConfig.Storage.SQLite != nil {
		cfg.Storage.SQLite = &SQLiteData{Path: yamlConfig.Storage.SQLite.Path}
	}
	if yamlConfig.Storage.Postgres != nil {
		cfg.Storage.Postgres = &PostgresData{ConnectionString: yamlConfig.Storage.Postgres.ConnectionString}
	}

	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8090
	}
	if cfg.Server.MaxFrameBytes == 0 {
		cfg.Server.MaxFrameBytes = 64 << 20
	}

	y.config = cfg
	return cfg, nil
}

// GetStorageConfig returns storage configuration.
func (y *YAMLProvider) GetStorageConfig() (*StorageData, error) {
	if y.config == nil {
		if _, err := y.LoadConfig(); err != nil {
			return nil, err
		}
	}
	return &y.config.Storage, nil
}

// GetServerConfig returns the server configuration.
func (y *YAMLProvider) GetServerConfig() (*ServerData, error) {
	if y.config == nil {
		if _, err := y.LoadConfig(); err != nil {
			return nil, err
		}
	}
	return &y.config.Server, nil
}

// GetDefaultJob returns the configured job defaults.
func (y *YAMLProvider) GetDefaultJob() (*JobDefaultsData, error) {
	if y.config == nil {
		if _, err := y.LoadConfig(); err != nil {
			return nil, err
		}
	}
	return &y.config.JobDefaults, nil
}

// IsReadOnly returns true since YAML files are read-only through this
// interface.
func (y *YAMLProvider) IsReadOnly() bool { return true }

// Close is a no-op for the YAML provider.
func (y *YAMLProvider) Close() error { return nil }

// YAML-tagged mirrors of the public config structs, kept separate so the
// public structs stay free of serialization concerns.
type StorageYAML struct {
	SQLite   *SQLiteYAML   `yaml:"sqlite,omitempty"`
	Postgres *PostgresYAML `yaml:"postgres,omitempty"`
}

type SQLiteYAML struct {
	Path string `yaml:"path"`
}

type PostgresYAML struct {
	ConnectionString string `yaml:"connection_string"`
}

type ServerYAML struct {
	ListenAddr    string `yaml:"listen_addr,omitempty"`
	Port          int    `yaml:"port,omitempty"`
	Cert          string `yaml:"cert,omitempty"`
	Key           string `yaml:"key,omitempty"`
	AuthToken     string `yaml:"auth_token,omitempty"`
	EnableCORS    bool   `yaml:"enable_cors,omitempty"`
	IngestEnabled bool   `yaml:"ingest_enabled,omitempty"`
	MaxFrameBytes int    `yaml:"max_frame_bytes,omitempty"`
}

type JobDefaultsYAML struct {
	GraphKind   string  `yaml:"graph_kind,omitempty"`
	Penalty     float64 `yaml:"penalty,omitempty"`
	Jump        float64 `yaml:"jump,omitempty"`
	BoundMin    float64 `yaml:"bound_min,omitempty"`
	BoundMax    float64 `yaml:"bound_max,omitempty"`
	Constrained bool    `yaml:"constrained,omitempty"`
	RobustKind  string  `yaml:"robust_kind,omitempty"`
	RobustK     float64 `yaml:"robust_k,omitempty"`
}
