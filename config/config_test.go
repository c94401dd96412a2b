package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matryer/is"
)

func TestDefaults(t *testing.T) {
	is := is.New(t)
	cfg := DefaultConfig()
	is.Equal(cfg.GetInt(ConfigMaxRotateAdjustment), 2)
	is.Equal(cfg.GetFloat64(ConfigWeightsClearHoles), -4.0)
	is.Equal(cfg.GetFloat64(ConfigWeightsBuildWells), -0.25)
	is.True(!cfg.GetBool(ConfigDebug))
}

func TestLoadFlagsAndEnv(t *testing.T) {
	is := is.New(t)
	dir := t.TempDir()
	wd, err := os.Getwd()
	is.NoErr(err)
	is.NoErr(os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("BLOCKHINT_FIELDS_PATH", "/srv/fields")
	t.Setenv("BLOCKHINT_WEIGHTS_CLEAR_WELLS", "-3")

	cfg := &Config{}
	is.NoErr(cfg.Load([]string{"--debug", "--max-rotate-adjustment=1", "compare", "I", "O"}))
	is.Equal(cfg.Args(), []string{"compare", "I", "O"})
	is.True(cfg.GetBool(ConfigDebug))
	is.Equal(cfg.GetInt(ConfigMaxRotateAdjustment), 1)
	is.Equal(cfg.GetString(ConfigFieldsPath), "/srv/fields")
	is.Equal(cfg.GetFloat64(ConfigWeightsClearWells), -3.0)
	is.Equal(cfg.GetString(ConfigHistoryFile), "/tmp/blockhint_history")
}

func TestLoadConfigFile(t *testing.T) {
	is := is.New(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "tuned.yaml")
	is.NoErr(os.WriteFile(path, []byte("weights:\n  clear:\n    holes: -8\n"), 0o644))

	cfg := &Config{}
	is.NoErr(cfg.Load([]string{"--config", path}))
	is.Equal(cfg.GetFloat64(ConfigWeightsClearHoles), -8.0)
	is.Equal(cfg.GetFloat64(ConfigWeightsClearTransitions), -1.0)

	is.True(cfg.Load([]string{"--config", filepath.Join(dir, "missing.yaml")}) != nil)
}
