package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/fsdevblog/groph-points/internal/service"
)

type StorageKind string

const (
	StorageMemory   StorageKind = "memory"
	StoragePostgres StorageKind = "postgres"
)

type LockMode string

const (
	LockModeKeyed   LockMode = "keyed"
	LockModeStriped LockMode = "striped"
)

const DefaultLockStripes = 1024

var (
	ErrUnknownStorage  = errors.New("unknown storage")
	ErrUnknownLockMode = errors.New("unknown lock mode")
	ErrDSNRequired     = errors.New("database DSN is not set")
	ErrInvalidLimit    = errors.New("invalid limit")
)

type Config struct {
	RunAddress     string
	Storage        StorageKind
	DatabaseDSN    string
	MigrationsDir  string
	MaxChargePerOp int64
	MaxBalance     int64
	LockTimeout    time.Duration
	LockMode       LockMode
	LockStripes    int
	StrictReads    bool
}

// envConfig незаданные переменные окружения остаются nil, чтобы не перетирать флаги.
type envConfig struct {
	RunAddress     string         `env:"RUN_ADDRESS"`
	Storage        string         `env:"STORAGE"`
	DatabaseDSN    string         `env:"DATABASE_URI"`
	MigrationsDir  string         `env:"MIGRATIONS_DIR"`
	MaxChargePerOp *int64         `env:"MAX_CHARGE_PER_OP"`
	MaxBalance     *int64         `env:"MAX_BALANCE"`
	LockTimeout    *time.Duration `env:"LOCK_TIMEOUT"`
	LockMode       string         `env:"LOCK_MODE"`
	LockStripes    *int           `env:"LOCK_STRIPES"`
	StrictReads    *bool          `env:"STRICT_READS"`
}

// LoadConfig собирает конфиг из флагов args и окружения. Переменные окружения приоритетнее флагов,
// .env в рабочей директории подгружается, если существует.
func LoadConfig(args []string) (*Config, error) {
	if dotenvErr := godotenv.Load(); dotenvErr != nil && !errors.Is(dotenvErr, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %s", dotenvErr.Error())
	}

	var envConf envConfig
	if envParseErr := env.Parse(&envConf); envParseErr != nil {
		return nil, fmt.Errorf("parse env config: %s", envParseErr.Error())
	}

	flagsConf, flagsErr := loadFlags(args)
	if flagsErr != nil {
		return nil, flagsErr
	}

	conf := mergeConfig(&envConf, flagsConf)
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

func MustLoadConfig() *Config {
	config, err := LoadConfig(os.Args[1:])
	if err != nil {
		panic(err)
	}
	return config
}

func (c *Config) Validate() error {
	switch c.Storage {
	case StorageMemory:
	case StoragePostgres:
		if c.DatabaseDSN == "" {
			return ErrDSNRequired
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStorage, c.Storage)
	}

	switch c.LockMode {
	case LockModeKeyed:
	case LockModeStriped:
		if c.LockStripes <= 0 {
			return fmt.Errorf("%w: lock stripes must be positive, got %d", ErrInvalidLimit, c.LockStripes)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownLockMode, c.LockMode)
	}

	if c.MaxChargePerOp <= 0 || c.MaxBalance <= 0 {
		return fmt.Errorf("%w: limits must be positive", ErrInvalidLimit)
	}
	if c.LockTimeout < 0 {
		return fmt.Errorf("%w: negative lock timeout", ErrInvalidLimit)
	}
	return nil
}

func loadFlags(args []string) (*Config, error) {
	var flagConfig Config
	var storage, lockMode string

	fset := flag.NewFlagSet("points", flag.ContinueOnError)
	fset.StringVar(&flagConfig.RunAddress, "a", "localhost:8080", "Run address in format host:port")
	fset.StringVar(&storage, "s", string(StorageMemory), "Storage backend: memory or postgres")
	fset.StringVar(&flagConfig.DatabaseDSN, "d", "", "Database DSN")
	fset.StringVar(&flagConfig.MigrationsDir, "m", "internal/db/migrations", "Database migrations directory")
	fset.Int64Var(&flagConfig.MaxChargePerOp, "max-charge", service.DefaultMaxChargePerOp, "Max points per charge")
	fset.Int64Var(&flagConfig.MaxBalance, "max-balance", service.DefaultMaxBalance, "Max user balance")
	fset.DurationVar(&flagConfig.LockTimeout, "lock-timeout", service.DefaultLockTimeout, "Max wait for a user lock")
	fset.StringVar(&lockMode, "lock-mode", string(LockModeKeyed), "Per-user lock: keyed or striped")
	fset.IntVar(&flagConfig.LockStripes, "lock-stripes", DefaultLockStripes, "Stripes count for striped lock mode")
	fset.BoolVar(&flagConfig.StrictReads, "strict-reads", false, "Read balance and history under the user lock")

	if err := fset.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	flagConfig.Storage = StorageKind(storage)
	flagConfig.LockMode = LockMode(lockMode)
	return &flagConfig, nil
}

func mergeConfig(envConfig *envConfig, flagsConfig *Config) *Config {
	return &Config{
		RunAddress:     defaultIfBlank(envConfig.RunAddress, flagsConfig.RunAddress),
		Storage:        StorageKind(defaultIfBlank(envConfig.Storage, string(flagsConfig.Storage))),
		DatabaseDSN:    defaultIfBlank(envConfig.DatabaseDSN, flagsConfig.DatabaseDSN),
		MigrationsDir:  defaultIfBlank(envConfig.MigrationsDir, flagsConfig.MigrationsDir),
		MaxChargePerOp: defaultIfNil(envConfig.MaxChargePerOp, flagsConfig.MaxChargePerOp),
		MaxBalance:     defaultIfNil(envConfig.MaxBalance, flagsConfig.MaxBalance),
		LockTimeout:    defaultIfNil(envConfig.LockTimeout, flagsConfig.LockTimeout),
		LockMode:       LockMode(defaultIfBlank(envConfig.LockMode, string(flagsConfig.LockMode))),
		LockStripes:    defaultIfNil(envConfig.LockStripes, flagsConfig.LockStripes),
		StrictReads:    defaultIfNil(envConfig.StrictReads, flagsConfig.StrictReads),
	}
}

func defaultIfBlank(value string, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}

func defaultIfNil[T any](value *T, defaultValue T) T {
	if value == nil {
		return defaultValue
	}
	return *value
}
