package bootstrap_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wireway/factory/bootstrap"
	"github.com/wireway/factory/types"
)

const manifest = `
[properties]
environment = "staging"

[[rule]]
class = "config.Database"
id = "primary"
priority = 0
[rule.value]
dsn = "postgres://staging"
max_open_conns = 10

[[rule]]
class = "config.Unknown"
id = "ignored"
priority = 0
[rule.value]
whatever = true
`

type databaseConfig struct {
	DSN          string `mapstructure:"dsn"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

func writeManifest(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bootstrap.toml")
	require.NoError(t, os.WriteFile(path, []byte(manifest), 0o644))
	return path
}

func TestLoadParsesPropertiesAndRules(t *testing.T) {
	path := writeManifest(t)
	f, err := bootstrap.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "staging", f.Properties["environment"])
	require.Len(t, f.Rules, 2)
	assert.Equal(t, "config.Database", f.Rules[0].Class)
}

func TestFileRulesSkipsUnregisteredClassesAndDecodesKnownOnes(t *testing.T) {
	path := writeManifest(t)
	f, err := bootstrap.Load(path)
	require.NoError(t, err)

	dbName := types.NameOf[*databaseConfig]("db")
	registry := bootstrap.ClassRegistry{
		"config.Database": func() (types.Name, any) {
			return dbName, &databaseConfig{}
		},
	}

	rules, err := f.Rules(registry)
	require.NoError(t, err)
	require.Len(t, rules, 1)

	name := dbName
	name.ID = "primary"
	require.True(t, rules[0].CanBuild(name))

	eng, err := rules[0].EngineFor(name)
	require.NoError(t, err)
	box, err := eng.Construct(types.NewSatisfiedBOM())
	require.NoError(t, err)
	nc, present := box.Pick()
	require.True(t, present)

	cfg, ok := nc.Value.(*databaseConfig)
	require.True(t, ok)
	assert.Equal(t, "postgres://staging", cfg.DSN)
	assert.Equal(t, 10, cfg.MaxOpenConns)
}

func TestLoadOnMissingFileFails(t *testing.T) {
	_, err := bootstrap.Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	assert.Error(t, err)
}
