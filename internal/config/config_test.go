package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.False(t, cfg.Database.Enabled())
	assert.Equal(t, int64(10*1024*1024), cfg.UploadConfig().MaxFileSize)
	assert.Equal(t, []string{"pdf", "doc", "docx"}, cfg.UploadConfig().AllowedExtensions)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "9090")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("FILE_MAX_FILE_SIZE", "5MB")
	t.Setenv("FILE_ALLOWED_EXTENSIONS", "PDF, docx")
	t.Setenv("NOTIFICATION_TIMEOUT", "1500")
	t.Setenv("SAGA_WORKERS", "4")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.True(t, cfg.Database.Enabled())
	assert.Contains(t, cfg.Database.DSN(), "host=db.internal")
	assert.Equal(t, int64(5*1024*1024), cfg.Storage.MaxFileSize)
	assert.Equal(t, []string{"pdf", "docx"}, cfg.Storage.AllowedExtensions)
	assert.Equal(t, 1500*time.Millisecond, cfg.Notification.Timeout)
	assert.Equal(t, 4, cfg.Saga.Workers)
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: "7070"
storage:
  upload_dir: /var/revjobs/uploads
  max_file_size: 2048
notification:
  provider: http
  service_url: http://notifications:8085/api/notifications
  timeout: 2s
`), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "7171")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "7171", cfg.Server.Port)
	assert.Equal(t, "/var/revjobs/uploads", cfg.Storage.UploadDir)
	assert.Equal(t, int64(2048), cfg.Storage.MaxFileSize)
	assert.Equal(t, NotifierHTTP, cfg.Notification.Provider)
	assert.Equal(t, 2*time.Second, cfg.Notification.Timeout)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SAGA_QUEUE_NAME=from-dotenv\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("SAGA_QUEUE_NAME") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.Saga.QueueName)
}

func TestLoad_BadNumber(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SAGA_WORKERS", "many")

	_, err := Load()
	assert.ErrorContains(t, err, "SAGA_WORKERS")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"s3 without bucket", func(c *Config) { c.Storage.Backend = StorageS3 }, "AWS_BUCKET"},
		{"unknown storage", func(c *Config) { c.Storage.Backend = "ftp" }, "FILE_STORAGE"},
		{"http notifier without url", func(c *Config) { c.Notification.Provider = NotifierHTTP }, "NOTIFICATION_SERVICE_URL"},
		{"sendgrid without key", func(c *Config) { c.Notification.Provider = NotifierSendGrid }, "SENDGRID_API_KEY"},
		{"no extensions", func(c *Config) { c.Storage.AllowedExtensions = nil }, "FILE_ALLOWED_EXTENSIONS"},
		{"file size too large", func(c *Config) { c.Storage.MaxFileSize = MaxFileSizeLimit + 1 }, "FILE_MAX_FILE_SIZE"},
		{"zero workers", func(c *Config) { c.Saga.Workers = 0 }, "SAGA_WORKERS"},
		{"unknown queue", func(c *Config) { c.Saga.Queue = "kafka" }, "SAGA_QUEUE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}
}

func TestParseSize(t *testing.T) {
	n, err := parseSize("10485760")
	require.NoError(t, err)
	assert.Equal(t, int64(10485760), n)

	n, err = parseSize("512kb")
	require.NoError(t, err)
	assert.Equal(t, int64(512*1024), n)

	_, err = parseSize("ten")
	assert.Error(t, err)

	_, err = parseSize("9223372036854775807MB")
	assert.ErrorContains(t, err, "out of range")
}

func TestLoad_YAMLExtensionsAreNormalized(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
storage:
  allowed_extensions: [".PDF", "Docx", " pdf "]
`), 0o600))
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"pdf", "docx"}, cfg.Storage.AllowedExtensions)
	assert.True(t, cfg.UploadConfig().Allows("PDF"))
}

func TestLoad_RejectsOversizedFileLimit(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("FILE_MAX_FILE_SIZE", "4096MB")

	_, err := Load()
	assert.ErrorContains(t, err, "FILE_MAX_FILE_SIZE")
}
