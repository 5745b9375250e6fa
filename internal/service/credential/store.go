package credential

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// 每个 provider 对应一个固定的环境变量键。
const (
	ProviderDeepSeek = "deepseek"
	ProviderOpenAI   = "openai"
	ProviderGemini   = "gemini"
	ProviderClaude   = "claude"
)

// Source 标识凭证来源。
type Source string

const (
	SourceEnvironment Source = "environment"
	SourceStored      Source = "stored"
)

var envKeys = map[string]string{
	ProviderDeepSeek: "DEEPSEEK_API_KEY",
	ProviderOpenAI:   "OPENAI_API_KEY",
	ProviderGemini:   "GEMINI_API_KEY",
	ProviderClaude:   "CLAUDE_API_KEY",
}

var ErrUnknownProvider = errors.New("unknown provider")

// maskPrefix 为脱敏展示时保留的明文前缀长度。
const maskPrefix = 8

// Store resolves provider credentials from the process environment or from
// user-supplied values persisted in sqlite. Environment always wins; at
// most one stored secret exists per provider.
type Store struct {
	mu     sync.RWMutex
	db     *sql.DB
	getenv func(string) string
}

// Open creates (or reuses) the sqlite-backed credential store at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create credential directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_journal=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open credential database: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS credentials (
		provider   TEXT PRIMARY KEY,
		secret     TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize credential schema: %w", err)
	}

	return &Store{db: db, getenv: os.Getenv}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Providers lists the providers the store knows about, text provider first.
func Providers() []string {
	return []string{ProviderDeepSeek, ProviderOpenAI, ProviderGemini, ProviderClaude}
}

// Secret returns the active secret for provider and where it came from.
func (s *Store) Secret(provider string) (string, Source, bool) {
	envKey, ok := envKeys[provider]
	if !ok {
		return "", "", false
	}

	if v := strings.TrimSpace(s.getenv(envKey)); v != "" {
		return v, SourceEnvironment, true
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var secret string
	err := s.db.QueryRow(`SELECT secret FROM credentials WHERE provider = ?`, provider).Scan(&secret)
	if err != nil {
		return "", "", false
	}
	return secret, SourceStored, true
}

// Has reports whether any credential is configured for provider.
func (s *Store) Has(provider string) bool {
	_, _, ok := s.Secret(provider)
	return ok
}

// Set persists a user-supplied secret. A value carrying mask characters is
// the "unchanged" sentinel from a redisplayed form and is silently ignored,
// so round-tripping a masked credential never corrupts the stored secret.
func (s *Store) Set(provider, secret string) error {
	if _, ok := envKeys[provider]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownProvider, provider)
	}

	secret = strings.TrimSpace(secret)
	if secret == "" || IsMasked(secret) {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`INSERT INTO credentials (provider, secret, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(provider) DO UPDATE SET secret = excluded.secret, updated_at = excluded.updated_at`,
		provider, secret, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("persist credential for %s: %w", provider, err)
	}
	return nil
}

// Clear removes the stored secret for provider. Environment-sourced values
// are outside the store's control and are left untouched.
func (s *Store) Clear(provider string) error {
	if _, ok := envKeys[provider]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownProvider, provider)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(`DELETE FROM credentials WHERE provider = ?`, provider); err != nil {
		return fmt.Errorf("clear credential for %s: %w", provider, err)
	}
	return nil
}

// Masked returns the display form of the active secret, empty when none.
func (s *Store) Masked(provider string) string {
	secret, _, ok := s.Secret(provider)
	if !ok {
		return ""
	}
	return Mask(secret)
}

// Mask keeps a fixed prefix visible and redacts the rest.
func Mask(secret string) string {
	runes := []rune(secret)
	if len(runes) <= maskPrefix {
		return strings.Repeat("*", len(runes))
	}
	return string(runes[:maskPrefix]) + strings.Repeat("*", len(runes)-maskPrefix)
}

// IsMasked reports whether a value is a redisplayed masked secret rather
// than freshly typed input.
func IsMasked(value string) bool {
	return strings.ContainsRune(value, '*')
}
