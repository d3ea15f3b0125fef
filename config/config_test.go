package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

var envKeys = []string{
	"CONFIG_FILE", "PORT", "ENV", "LOG_LEVEL", "DATASET_SOURCE", "DATA_DIR", "DATASET_S3_BUCKET",
	"DATASET_S3_PREFIX", "AWS_REGION", "DATABASE_URL", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
	"SELECTION_TTL", "KAFKA_BROKERS", "KAFKA_TOPIC_REPORT_EVENTS", "KAFKA_CONSUMER_GROUP",
	"AUDIT_WORKER_ENABLED", "JAEGER_ENDPOINT", "PREVIEW_ROWS",
}

// clearEnv blanks every key Load reads; empty values fall back to defaults
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, SourceCSV, cfg.Dataset.Source)
	assert.Equal(t, "data", cfg.Dataset.Dir)
	assert.Equal(t, 24*time.Hour, cfg.Redis.SelectionTTL)
	assert.Equal(t, 50, cfg.Dashboard.PreviewRows)
	assert.False(t, cfg.KafkaEnabled())
}

func TestLoadFileThenEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	path := filepath.Join(dir, "dashboard.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: "9000"
dataset:
  source: s3
  s3_bucket: campaign-data
  s3_prefix: latest
redis:
  addr: redis:6379
  selection_ttl: 2h
kafka:
  brokers: [kafka:9092]
`), 0o644))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "9100")
	t.Setenv("PREVIEW_ROWS", "10")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Server.Port, "env overrides file")
	assert.Equal(t, SourceS3, cfg.Dataset.Source)
	assert.Equal(t, "campaign-data", cfg.Dataset.S3Bucket)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, 2*time.Hour, cfg.Redis.SelectionTTL)
	assert.Equal(t, []string{"kafka:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 10, cfg.Dashboard.PreviewRows)
	assert.True(t, cfg.KafkaEnabled())
}

func TestLoadRejectsBadValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("SELECTION_TTL", "forever")
	t.Setenv("REDIS_DB", "zero")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SELECTION_TTL")
	assert.Contains(t, err.Error(), "REDIS_DB")
	assert.Len(t, multierr.Errors(err), 2)
}

func TestValidate(t *testing.T) {
	cfg := defaults()
	cfg.Dataset.Source = SourcePostgres
	cfg.Kafka.AuditWorkerEnabled = true

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL is required for the postgres dataset source")
	assert.Contains(t, err.Error(), "KAFKA_BROKERS is required")
	assert.Len(t, multierr.Errors(err), 3)

	cfg = defaults()
	cfg.Dataset.Source = "ftp"
	assert.ErrorContains(t, cfg.Validate(), `unknown DATASET_SOURCE "ftp"`)

	assert.NoError(t, defaults().Validate())
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a:9092", "b:9092"}, splitList(" a:9092, ,b:9092 "))
	assert.Nil(t, splitList(""))
}
