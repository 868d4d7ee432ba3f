package internal

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Storage backend selectors.
const (
	BackendBadger  = "badger"
	BackendMongo   = "mongo"
	BackendDataAPI = "dataapi"
)

type Config struct {
	Host     string `env:"HOST,default=0.0.0.0"`
	Port     int    `env:"PORT,default=8080"`
	LogLevel string `env:"LOG_LEVEL,default=INFO"`

	StorageBackend string `env:"STORAGE_BACKEND,default=badger"`
	BadgerFilepath string `env:"BADGER_FILEPATH,default=./data/badger"`

	MongoURI        string `env:"MONGODB_URI"`
	MongoDatabase   string `env:"MONGODB_DATABASE,default=chat_app"`
	MongoCollection string `env:"MONGODB_COLLECTION,default=records"`

	DataAPIEndpoint   string `env:"DATA_API_ENDPOINT"`
	DataAPIKey        string `env:"DATA_API_KEY"`
	DataAPIDataSource string `env:"DATA_API_DATA_SOURCE"`

	InviteCode    string `env:"INVITE_CODE,default=xiyue520"`
	AdminPassword string `env:"ADMIN_PASSWORD,default=20090327qi"`

	MessageWindow      int           `env:"MESSAGE_WINDOW,default=50"`
	SweepInterval      time.Duration `env:"SWEEP_INTERVAL,default=1h"`
	AvatarProbeTimeout time.Duration `env:"AVATAR_PROBE_TIMEOUT,default=10s"`
}

// Validate rejects configurations that would only fail later at the
// first storage call.
func (c Config) Validate() error {
	switch c.StorageBackend {
	case BackendBadger:
		if c.BadgerFilepath == "" {
			return fmt.Errorf("BADGER_FILEPATH is required for the badger backend")
		}
	case BackendMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("MONGODB_URI is required for the mongo backend")
		}
	case BackendDataAPI:
		if c.DataAPIEndpoint == "" || c.DataAPIKey == "" || c.DataAPIDataSource == "" {
			return fmt.Errorf("DATA_API_ENDPOINT, DATA_API_KEY and DATA_API_DATA_SOURCE are required for the dataapi backend")
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}
	if c.SweepInterval <= 0 {
		return fmt.Errorf("SWEEP_INTERVAL must be positive")
	}
	return nil
}

// Level parses LOG_LEVEL, defaulting to info on anything unrecognized.
func (c Config) Level() slog.Level {
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
