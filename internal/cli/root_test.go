package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/informiz/chaincode/internal/model"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig(viper.New())
	require.NoError(t, err)
	assert.Equal(t, model.DefaultConfig(), cfg)
}

func TestLoadConfig_Layers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
ledger:
  backend: memory
  namespace: org1
batch:
  workers: 3
  rate: 0
  contract_rates:
    - contract: SourceContract
      rate: 5
      burst: 2
`), 0o600))

	t.Setenv("INFORMIZ_BATCH_WORKERS", "7")
	t.Setenv("INFORMIZ_LOG_LEVEL", "debug")

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := loadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, model.BackendMemory, cfg.Ledger.Backend)
	assert.Equal(t, "org1", cfg.Ledger.Namespace)
	assert.Equal(t, 7, cfg.Batch.Workers, "environment overrides the file")
	assert.Zero(t, cfg.Batch.Rate)
	assert.Equal(t, 10, cfg.Batch.Burst)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, []model.ContractRate{{Contract: "SourceContract", Rate: 5, Burst: 2}}, cfg.Batch.ContractRates)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Setenv("INFORMIZ_LEDGER_BACKEND", "postgres")

	_, err := loadConfig(viper.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ledger.backend")
}

func TestRenderConfig(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.Ledger.Namespace = "org1"
	cfg.Batch.ContractRates = []model.ContractRate{{Contract: "HypothesisContract", Rate: 1}}

	var buf bytes.Buffer
	require.NoError(t, renderConfig(&buf, cfg, "test"))
	assert.True(t, strings.HasPrefix(buf.String(), "# test\n"))
	assert.Contains(t, buf.String(), "sync_writes: true")

	var back model.Config
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, cfg, back)
}

func TestWriteConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := model.DefaultConfig()
	cfg.Ledger.Backend = model.BackendMemory

	require.NoError(t, writeConfigFile(path, cfg, false))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())
	loaded, err := loadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, model.BackendMemory, loaded.Ledger.Backend)

	err = writeConfigFile(path, model.DefaultConfig(), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	require.NoError(t, writeConfigFile(path, model.DefaultConfig(), true))

	bad := model.DefaultConfig()
	bad.Log.Encoding = "xml"
	assert.Error(t, writeConfigFile(filepath.Join(t.TempDir(), "bad.yaml"), bad, false))
}

func TestNewLogger(t *testing.T) {
	l, err := newLogger(model.LogConfig{Level: "warn", Encoding: "json"}, false)
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))

	l, err = newLogger(model.LogConfig{Level: "warn"}, true)
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))

	_, err = newLogger(model.LogConfig{Level: "chatty"}, false)
	assert.Error(t, err)
}
