// Package config loads TOML configuration shared by the grammarkit CLI and
// server: default entry rule, default grammar file, server listen address,
// storage directory, and the JWT signing secret.
package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds settings read from a grammarkit TOML config file. Every field
// has a usable zero value, so a missing config file is not an error; callers
// apply Defaults() after loading to fill in anything left unset.
type Config struct {
	// EntryRule is the rule name used when a CLI invocation doesn't specify
	// one explicitly.
	EntryRule string `toml:"entry_rule"`

	// GrammarFile is the default grammar source file the CLI loads when one
	// isn't given on the command line.
	GrammarFile string `toml:"grammar_file"`

	// ListenAddr is the address the grammar registry server binds to.
	ListenAddr string `toml:"listen_addr"`

	// StorageDir is the directory the server's sqlite database file lives
	// in.
	StorageDir string `toml:"storage_dir"`

	// JWTSecret signs and validates bearer tokens issued by the server. It
	// is read from config rather than hardcoded so deployments can rotate
	// it without a rebuild.
	JWTSecret string `toml:"jwt_secret"`
}

// Defaults returns the Config used when no config file is present or a
// loaded Config leaves fields unset.
func Defaults() Config {
	return Config{
		EntryRule:   "start",
		GrammarFile: "grammar.bnf",
		ListenAddr:  ":8080",
		StorageDir:  ".",
		JWTSecret:   "",
	}
}

// Load reads and decodes the TOML file at path. If path does not exist, the
// zero value Config and a nil error are returned so callers can fall back to
// Defaults() without special-casing a missing file.
func Load(path string) (Config, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, err
	}

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyDefaults fills any zero-valued field of cfg from d, returning the
// merged result.
func (cfg Config) applyDefaults(d Config) Config {
	merged := cfg
	if merged.EntryRule == "" {
		merged.EntryRule = d.EntryRule
	}
	if merged.GrammarFile == "" {
		merged.GrammarFile = d.GrammarFile
	}
	if merged.ListenAddr == "" {
		merged.ListenAddr = d.ListenAddr
	}
	if merged.StorageDir == "" {
		merged.StorageDir = d.StorageDir
	}
	if merged.JWTSecret == "" {
		merged.JWTSecret = d.JWTSecret
	}
	return merged
}

// LoadOrDefault loads the config at path and fills in any unset fields from
// Defaults().
func LoadOrDefault(path string) (Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return Config{}, err
	}
	return cfg.applyDefaults(Defaults()), nil
}
