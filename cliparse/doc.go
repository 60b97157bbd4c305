// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

LoadEnvFile reads .env style files into the environment first. Missing files
are skipped and variables that are already set are not overridden.

# CLI Flags

	-p             Server port
	-data          Data directory
	-t             Ledger backend (file, sqlite, postgres)
	-d             Database URL
	-script        YAML question script
	-min-active    Lowest ordinal served as a question
	-session-ttl   Idle session lifetime
	-duplicates    replace or append
	-reset         Reset stores at startup
	-presenter-key Presenter key
	-tls-cert      TLS certificate (PEM)
	-tls-key       TLS private key (PEM)

# Environment Variables

Flags fall back to environment variables:

	PORT               → -p
	DATA_DIR           → -data
	LEDGER_BACKEND     → -t
	DATABASE_URL       → -d
	SCRIPT_PATH        → -script
	MIN_ACTIVE_ORDINAL → -min-active
	SESSION_TTL        → -session-ttl
	DUPLICATE_POLICY   → -duplicates
	RESET_ON_START     → -reset
	PRESENTER_KEY      → -presenter-key
	TLS_CERT           → -tls-cert
	TLS_KEY            → -tls-key

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if:

  - PRESENTER_KEY is missing
  - the ledger backend or duplicate policy is unknown
  - the postgres backend has no DATABASE_URL
  - a numeric, duration or boolean variable does not parse
  - only one of the TLS certificate and key is given
*/
package cliparse
