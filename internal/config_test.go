package internal

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		StorageBackend: BackendBadger,
		BadgerFilepath: "./data/badger",
		SweepInterval:  time.Hour,
	}
}

func Test_Config_Validate(t *testing.T) {
	req := require.New(t)

	req.NoError(validConfig().Validate())

	cfg := validConfig()
	cfg.StorageBackend = "etcd"
	req.Error(cfg.Validate())

	cfg = validConfig()
	cfg.StorageBackend = BackendMongo
	req.Error(cfg.Validate())
	cfg.MongoURI = "mongodb://localhost:27017"
	req.NoError(cfg.Validate())

	cfg = validConfig()
	cfg.StorageBackend = BackendDataAPI
	req.Error(cfg.Validate())
	cfg.DataAPIEndpoint = "https://data.example.com/app/v1"
	cfg.DataAPIKey = "key"
	cfg.DataAPIDataSource = "cluster0"
	req.NoError(cfg.Validate())

	cfg = validConfig()
	cfg.SweepInterval = 0
	req.Error(cfg.Validate())
}

func Test_Config_Level(t *testing.T) {
	req := require.New(t)
	req.Equal(slog.LevelDebug, Config{LogLevel: "debug"}.Level())
	req.Equal(slog.LevelWarn, Config{LogLevel: "WARN"}.Level())
	req.Equal(slog.LevelError, Config{LogLevel: "ERROR"}.Level())
	req.Equal(slog.LevelInfo, Config{LogLevel: "whatever"}.Level())
}
