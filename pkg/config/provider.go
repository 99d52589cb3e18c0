package config

// ConfigProvider defines the interface for configuration data sources.
type ConfigProvider interface {
	// LoadConfig loads the complete configuration.
	LoadConfig() (*ConfigData, error)

	// GetStorageConfig returns the result-persistence configuration.
	GetStorageConfig() (*StorageData, error)
	// GetServerConfig returns the HTTP/TCP service configuration.
	GetServerConfig() (*ServerData, error)
	// GetDefaultJob returns the configured graph/bound/robust job defaults.
	// The job API and the ingest server do not read them: a job that omits
	// a bound or robust loss runs unconstrained with L2 loss.
	GetDefaultJob() (*JobDefaultsData, error)

	IsReadOnly() bool
	Close() error
}

// ConfigData is the complete configuration structure for a gfpop service.
type ConfigData struct {
	Storage     StorageData     `json:"storage,omitempty"`
	Server      ServerData      `json:"server,omitempty"`
	JobDefaults JobDefaultsData `json:"job_defaults,omitempty"`
}

// StorageData configures where completed Results are persisted.
type StorageData struct {
	SQLite   *SQLiteData   `json:"sqlite,omitempty"`
	Postgres *PostgresData `json:"postgres,omitempty"`
}

// SQLiteData configures the local/dev result store.
type SQLiteData struct {
	Path string `json:"path"`
}

// PostgresData configures the production result store.
type PostgresData struct {
	ConnectionString string `json:"connection_string"`
}

// ServerData configures the HTTP job API and TCP batch ingestion listener.
type ServerData struct {
	ListenAddr    string `json:"listen_addr,omitempty"`
	Port          int    `json:"port,omitempty"`
	Cert          string `json:"cert,omitempty"`
	Key           string `json:"key,omitempty"`
	AuthToken     string `json:"auth_token,omitempty"`
	EnableCORS    bool   `json:"enable_cors,omitempty"`
	IngestEnabled bool   `json:"ingest_enabled,omitempty"`
	MaxFrameBytes int    `json:"max_frame_bytes,omitempty"`
}

// JobDefaultsData holds configured Graph/Bound/RobustKind defaults for jobs.
// It is loaded with the rest of the configuration but not applied to
// submitted jobs.
type JobDefaultsData struct {
	GraphKind   string  `json:"graph_kind,omitempty"` // "std", "isotonic", or "complex"
	Penalty     float64 `json:"penalty,omitempty"`
	Jump        float64 `json:"jump,omitempty"`
	BoundMin    float64 `json:"bound_min,omitempty"`
	BoundMax    float64 `json:"bound_max,omitempty"`
	Constrained bool    `json:"constrained,omitempty"`
	RobustKind  string  `json:"robust_kind,omitempty"` // "l2", "huber", or "biweight"
	RobustK     float64 `json:"robust_k,omitempty"`
}
