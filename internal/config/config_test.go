package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetConfigValue_Precedence(t *testing.T) {
	t.Setenv("READTRAIL_TEST_KEY", "from-env")

	// Flag wins over env.
	assert.Equal(t, "from-flag", getConfigValue("from-flag", "READTRAIL_TEST_KEY", "default"))

	// Env wins over default.
	assert.Equal(t, "from-env", getConfigValue("", "READTRAIL_TEST_KEY", "default"))

	// Default when nothing else is set.
	assert.Equal(t, "default", getConfigValue("", "READTRAIL_TEST_MISSING", "default"))
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")

	content := `
# Comment line
SERVER_NAME_ENVTEST=My Reading Server
QUOTED_ENVTEST="quoted value"

`
	require.NoError(t, os.WriteFile(envPath, []byte(content), 0o600))

	require.NoError(t, loadEnvFile(envPath))

	assert.Equal(t, "My Reading Server", os.Getenv("SERVER_NAME_ENVTEST"))
	assert.Equal(t, "quoted value", os.Getenv("QUOTED_ENVTEST"))

	t.Cleanup(func() {
		os.Unsetenv("SERVER_NAME_ENVTEST")
		os.Unsetenv("QUOTED_ENVTEST")
	})
}

func TestLoadEnvFile_DoesNotOverrideExistingEnv(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("PRESET_ENVTEST=from-file\n"), 0o600))

	t.Setenv("PRESET_ENVTEST", "from-env")
	require.NoError(t, loadEnvFile(envPath))

	assert.Equal(t, "from-env", os.Getenv("PRESET_ENVTEST"))
}

func TestLoadEnvFile_InvalidFormat(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("NOT A VALID LINE\n"), 0o600))

	assert.Error(t, loadEnvFile(envPath))
}

func TestSplitOrigins(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"single", "http://localhost:3000", []string{"http://localhost:3000"}},
		{"multiple with spaces", "http://a.example, http://b.example", []string{"http://a.example", "http://b.example"}},
		{"empty", "", nil},
		{"trailing comma", "http://a.example,", []string{"http://a.example"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitOrigins(tt.input))
		})
	}
}

func TestValidate(t *testing.T) {
	valid := &Config{
		App:    AppConfig{Environment: "development"},
		Logger: LoggerConfig{Level: "info"},
		Data:   DataConfig{BasePath: "/tmp/readtrail"},
	}
	assert.NoError(t, valid.Validate())

	badEnv := *valid
	badEnv.App.Environment = "testing"
	assert.Error(t, badEnv.Validate())

	badLevel := *valid
	badLevel.Logger.Level = "verbose"
	assert.Error(t, badLevel.Validate())

	noData := *valid
	noData.Data.BasePath = ""
	assert.Error(t, noData.Validate())
}

func TestExpandPath(t *testing.T) {
	abs, err := expandPath("relative/dir", "")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(abs))

	def, err := expandPath("", "/default/path")
	require.NoError(t, err)
	assert.Equal(t, "/default/path", def)
}
