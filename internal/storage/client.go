package storage

import (
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	_ "modernc.org/sqlite"

	"github.com/gfpop-go/gfpop/internal/log"
)

// Client persists and retrieves completed Run records. Exactly one of db or
// gormDB is set, depending on which backend NewSQLiteClient/NewPostgresClient
// opened: SQLite runs are stored through plain database/sql against
// modernc.org/sqlite, while Postgres runs go through gorm, whose richer
// struct tagging earns its keep for the jsonb segment-summary column.
type Client struct {
	db     *sql.DB
	gormDB *gorm.DB
	logger *zap.SugaredLogger
}

// NewSQLiteClient opens a local/dev result store at path, creating the runs
// table if it does not already exist.
func NewSQLiteClient(path string, logger *zap.SugaredLogger) (*Client, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite result store: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping sqlite result store: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		return nil, fmt.Errorf("failed to migrate sqlite result store: %w", err)
	}
	logger.Info("sqlite result store ready at", path)
	return &Client{db: db, logger: logger}, nil
}

// NewPostgresClient opens a production result store against connString,
// creating the runs table if it does not already exist.
func NewPostgresClient(connString string, logger *zap.SugaredLogger) (*Client, error) {
	gdb, err := gorm.Open(postgres.Open(connString), &gorm.Config{Logger: newGormLogger()})
	if err != nil {
		log.Warn("unable to connect to postgres result store:", err)
		return nil, err
	}
	if err := gdb.AutoMigrate(&Run{}); err != nil {
		return nil, fmt.Errorf("failed to migrate postgres result store: %w", err)
	}
	log.Info("postgres result store connection successful")
	return &Client{gormDB: gdb, logger: logger}, nil
}

func newGormLogger() logger.Interface {
	return logger.New(
		zap.NewStdLog(log.GetZapLogger()),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	graph_digest TEXT NOT NULL,
	bound_min REAL NOT NULL,
	bound_max REAL NOT NULL,
	global_cost REAL NOT NULL,
	n INTEGER NOT NULL,
	payload BLOB NOT NULL,
	created_at DATETIME NOT NULL
);`
