// Command gfpopd runs the gfpop job API and batch ingestion service.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/gfpop-go/gfpop/internal/app"
	"github.com/gfpop-go/gfpop/internal/log"
	"github.com/gfpop-go/gfpop/internal/storage"
	"github.com/gfpop-go/gfpop/pkg/config"
)

const version = "1.0-" + runtime.GOOS + "/" + runtime.GOARCH

func main() {
	cfgFile := flag.String("config", "gfpopd.yaml", "Path to the YAML configuration file")
	debug := flag.Bool("debug", false, "Turn on debugging output")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("gfpopd %s\n", version)
		os.Exit(0)
	}

	if err := log.Init(*debug); err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	filename, _ := filepath.Abs(*cfgFile)
	provider := config.NewYAMLProvider(filename)

	store, err := openStore(provider)
	if err != nil {
		log.Errorf("failed to open result store: %v", err)
		os.Exit(1)
	}
	defer store.Close()

	application, err := app.New(provider, store, log.GetSugaredLogger())
	if err != nil {
		log.Errorf("failed to start application: %v", err)
		os.Exit(1)
	}
	if err := application.Run(); err != nil {
		log.Errorf("application error: %v", err)
		os.Exit(1)
	}
}

func openStore(provider config.ConfigProvider) (*storage.Client, error) {
	storageCfg, err := provider.GetStorageConfig()
	if err != nil {
		return nil, fmt.Errorf("error reading storage configuration: %w", err)
	}
	logger := log.GetSugaredLogger()
	switch {
	case storageCfg.Postgres != nil:
		return storage.NewPostgresClient(storageCfg.Postgres.ConnectionString, logger)
	case storageCfg.SQLite != nil:
		return storage.NewSQLiteClient(storageCfg.SQLite.Path, logger)
	default:
		return storage.NewSQLiteClient("gfpopd.db", logger)
	}
}
