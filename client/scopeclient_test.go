package client

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, DefaultAPIBaseURL, cfg.APIBaseURL)
	assert.Equal(t, DefaultUploadURL, cfg.UploadURL)
	assert.Equal(t, 720, cfg.Timeout)
	assert.Equal(t, 30, cfg.ImageDownloadTimeout)
	assert.Equal(t, "Qwen/Qwen-Image", cfg.DefaultModel)
}

func TestLoadConfigMissingFileYieldsDefaults(t *testing.T) {
	cfg := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigOverridesAndTrims(t *testing.T) {
	path := filepath.Join(t.TempDir(), "modelscope_config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"api_token": "  tok  ",
		"timeout": 120,
		"default_model": "Qwen/Qwen-Image-2"
	}`), 0o600))

	cfg := LoadConfig(path)
	assert.Equal(t, "tok", cfg.APIToken)
	assert.Equal(t, 120, cfg.Timeout)
	assert.Equal(t, "Qwen/Qwen-Image-2", cfg.DefaultModel)
	// untouched fields keep their defaults
	assert.Equal(t, 30, cfg.ImageDownloadTimeout)
	assert.Equal(t, DefaultAPIBaseURL, cfg.APIBaseURL)
}

func TestClientIDsAreUnique(t *testing.T) {
	a := NewScopeClient(DefaultConfig(), nil)
	b := NewScopeClient(DefaultConfig(), nil)
	assert.NotEqual(t, a.ClientID(), b.ClientID())
}

func TestMaxWaitFloor(t *testing.T) {
	c := NewScopeClient(Config{Timeout: 10}, nil)
	assert.Equal(t, minPollWait, c.maxWait())

	c = NewScopeClient(Config{Timeout: 720}, nil)
	assert.Equal(t, 720, int(c.maxWait().Seconds()))
}
