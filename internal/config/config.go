// apps/wordbag/internal/config/config.go
//
// Runtime configuration, read from the environment (optionally seeded from
// a .env file by main via godotenv).
//
// Environment variables:
//   WORDBAG_DIR=.                      data directory (relative names resolve here)
//   WORDBAG_SNAPSHOT=bolsa.bin         binary snapshot (bolsa.db for sqlite)
//   WORDBAG_STORE=msgpack              snapshot backend: msgpack | sqlite
//   WORDBAG_SCRIPT=words.js            script-array document
//   WORDBAG_NEW_LOG=nuevas.log         additions log
//   WORDBAG_REMOVED_LOG=elim.log       removals log
//   WORDBAG_REMOTE_URL=<raw github>    words.js download source ("" disables)
//   WORDBAG_FETCH_TIMEOUT=10s          per-attempt download timeout
//   WORDBAG_FETCH_RETRIES=2            retries on network errors / 5xx
//   WORDBAG_GENERATOR=                 command that builds a fresh snapshot
//   WORDBAG_PUBLISH=true               git add/commit/push words.js on exit
//   WORDBAG_GIT_REMOTE=origin
//   WORDBAG_GIT_BRANCH=main
//   LOG_LEVEL=info

package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// DefaultRemoteURL is where the published words.js lives.
const DefaultRemoteURL = "https://raw.githubusercontent.com/aghaza/webwordle/main/words.js"

// Config holds resolved settings. All paths are absolute or relative to Dir
// already joined.
type Config struct {
	Dir          string
	Store        string
	SnapshotPath string
	ScriptPath   string
	NewLogPath   string
	RemovedLog   string

	RemoteURL    string
	FetchTimeout time.Duration
	FetchRetries int

	Generator string

	Publish   bool
	GitRemote string
	GitBranch string

	LogLevel string
}

// Load reads the configuration from the process environment.
func Load() Config {
	dir := envStr("WORDBAG_DIR", ".")
	store := strings.ToLower(envStr("WORDBAG_STORE", "msgpack"))
	defSnapshot := "bolsa.bin"
	if store == "sqlite" {
		defSnapshot = "bolsa.db"
	}
	return Config{
		Dir:          dir,
		Store:        store,
		SnapshotPath: resolve(dir, envStr("WORDBAG_SNAPSHOT", defSnapshot)),
		ScriptPath:   resolve(dir, envStr("WORDBAG_SCRIPT", "words.js")),
		NewLogPath:   resolve(dir, envStr("WORDBAG_NEW_LOG", "nuevas.log")),
		RemovedLog:   resolve(dir, envStr("WORDBAG_REMOVED_LOG", "elim.log")),
		RemoteURL:    envRaw("WORDBAG_REMOTE_URL", DefaultRemoteURL),
		FetchTimeout: envDuration("WORDBAG_FETCH_TIMEOUT", 10*time.Second),
		FetchRetries: envInt("WORDBAG_FETCH_RETRIES", 2),
		Generator:    envStr("WORDBAG_GENERATOR", ""),
		Publish:      envBool("WORDBAG_PUBLISH", true),
		GitRemote:    envStr("WORDBAG_GIT_REMOTE", "origin"),
		GitBranch:    envStr("WORDBAG_GIT_BRANCH", "main"),
		LogLevel:     envStr("LOG_LEVEL", "info"),
	}
}

func resolve(dir, name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(dir, name)
}

func envStr(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

// envRaw is like envStr but an explicitly empty value wins over def.
func envRaw(k, def string) string {
	if v, ok := os.LookupEnv(k); ok {
		return strings.TrimSpace(v)
	}
	return def
}

func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envBool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func envDuration(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
