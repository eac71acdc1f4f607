package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Load_MissingFile_ReturnsZeroValue(t *testing.T) {
	assert := assert.New(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.toml"))
	assert.NoError(err)
	assert.Equal(Config{}, cfg)
}

func Test_Load_DecodesFields(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "grammarkit.toml")
	src := "entry_rule = \"document\"\n" +
		"grammar_file = \"lang.bnf\"\n" +
		"listen_addr = \"127.0.0.1:9090\"\n" +
		"storage_dir = \"/var/lib/grammarkit\"\n" +
		"jwt_secret = \"s3cret\"\n"
	assert.NoError(os.WriteFile(path, []byte(src), 0o600))

	cfg, err := Load(path)
	assert.NoError(err)
	assert.Equal("document", cfg.EntryRule)
	assert.Equal("lang.bnf", cfg.GrammarFile)
	assert.Equal("127.0.0.1:9090", cfg.ListenAddr)
	assert.Equal("/var/lib/grammarkit", cfg.StorageDir)
	assert.Equal("s3cret", cfg.JWTSecret)
}

func Test_LoadOrDefault_FillsUnsetFields(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "grammarkit.toml")
	assert.NoError(os.WriteFile(path, []byte("entry_rule = \"document\"\n"), 0o600))

	cfg, err := LoadOrDefault(path)
	assert.NoError(err)
	assert.Equal("document", cfg.EntryRule)
	assert.Equal(Defaults().ListenAddr, cfg.ListenAddr)
	assert.Equal(Defaults().StorageDir, cfg.StorageDir)
}

func Test_LoadOrDefault_MissingFile_ReturnsDefaults(t *testing.T) {
	assert := assert.New(t)

	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "nonexistent.toml"))
	assert.NoError(err)
	assert.Equal(Defaults(), cfg)
}
