package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port             int
	DataDir          string
	LedgerBackend    string
	DatabaseURL      string
	PresenterKey     string
	MinActiveOrdinal int
	SessionTTL       time.Duration
	DuplicatePolicy  string
	ResetOnStart     bool
	ScriptPath       string
	TLSCert          string
	TLSKey           string
}

// TLSEnabled reports whether the server should serve HTTPS
func (c Config) TLSEnabled() bool {
	return c.TLSCert != "" && c.TLSKey != ""
}

// LoadEnvFile loads variables from .env style files without overriding ones
// already set. Missing files are ignored.
func LoadEnvFile(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// ParseFlags validates flags and falls back to environment variables
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("quickly-pick-live", flag.ContinueOnError)

	// Network and storage config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DataDir, "data", "", "Directory holding the poll's files")
	fs.StringVar(&cfg.LedgerBackend, "t", "", "Ledger backend (file, sqlite or postgres)")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL for sql ledger backends")
	fs.StringVar(&cfg.ScriptPath, "script", "", "YAML question script to load at startup")

	fs.StringVar(&cfg.TLSCert, "tls-cert", "", "TLS certificate file (PEM)")
	fs.StringVar(&cfg.TLSKey, "tls-key", "", "TLS private key file (PEM)")

	// Poll behaviour
	fs.IntVar(&cfg.MinActiveOrdinal, "min-active", 0, "Lowest ordinal served as a question")
	fs.DurationVar(&cfg.SessionTTL, "session-ttl", 0, "Idle time before a session expires")
	fs.StringVar(&cfg.DuplicatePolicy, "duplicates", "", "Repeated responses: replace or append")
	fs.BoolVar(&cfg.ResetOnStart, "reset", true, "Clear pointer, responses and registry at startup")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.PresenterKey, "presenter-key", "", "Presenter key (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3318 // default
		}
	}

	if cfg.DataDir == "" {
		cfg.DataDir = os.Getenv("DATA_DIR")
		if cfg.DataDir == "" {
			cfg.DataDir = "data"
		}
	}

	if cfg.LedgerBackend == "" {
		cfg.LedgerBackend = os.Getenv("LEDGER_BACKEND")
		if cfg.LedgerBackend == "" {
			cfg.LedgerBackend = "file"
		}
	}
	switch cfg.LedgerBackend {
	case "file", "sqlite", "postgres":
	default:
		return Config{}, fmt.Errorf("unknown ledger backend %q", cfg.LedgerBackend)
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.LedgerBackend == "postgres" && cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required for postgres ledger (use -d or DATABASE_URL env)")
	}

	if cfg.ScriptPath == "" {
		cfg.ScriptPath = os.Getenv("SCRIPT_PATH")
	}

	if cfg.TLSCert == "" {
		cfg.TLSCert = os.Getenv("TLS_CERT")
	}
	if cfg.TLSKey == "" {
		cfg.TLSKey = os.Getenv("TLS_KEY")
	}
	if (cfg.TLSCert == "") != (cfg.TLSKey == "") {
		return Config{}, errors.New("TLS needs both a certificate and a key (use -tls-cert/-tls-key or TLS_CERT/TLS_KEY env)")
	}

	if !set["min-active"] {
		if v := os.Getenv("MIN_ACTIVE_ORDINAL"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return Config{}, errors.New("invalid MIN_ACTIVE_ORDINAL env variable")
			}
			cfg.MinActiveOrdinal = n
		} else {
			cfg.MinActiveOrdinal = 2
		}
	}
	if cfg.MinActiveOrdinal < 0 {
		return Config{}, errors.New("min active ordinal cannot be negative")
	}

	if cfg.SessionTTL == 0 {
		if v := os.Getenv("SESSION_TTL"); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return Config{}, errors.New("invalid SESSION_TTL env variable")
			}
			cfg.SessionTTL = d
		} else {
			cfg.SessionTTL = 12 * time.Hour
		}
	}

	if cfg.DuplicatePolicy == "" {
		cfg.DuplicatePolicy = os.Getenv("DUPLICATE_POLICY")
		if cfg.DuplicatePolicy == "" {
			cfg.DuplicatePolicy = "replace"
		}
	}
	if cfg.DuplicatePolicy != "replace" && cfg.DuplicatePolicy != "append" {
		return Config{}, fmt.Errorf("duplicate policy must be replace or append, got %q", cfg.DuplicatePolicy)
	}

	if !set["reset"] {
		if v := os.Getenv("RESET_ON_START"); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return Config{}, errors.New("invalid RESET_ON_START env variable")
			}
			cfg.ResetOnStart = b
		}
	}

	// Secrets - MUST be provided
	if cfg.PresenterKey == "" {
		cfg.PresenterKey = os.Getenv("PRESENTER_KEY")
	}
	if cfg.PresenterKey == "" {
		return Config{}, errors.New("PRESENTER_KEY required")
	}

	return cfg, nil
}
