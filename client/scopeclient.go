package client

import (
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultAPIBaseURL is the ModelScope inference API root.
	DefaultAPIBaseURL = "https://api-inference.modelscope.cn/v1"
	// DefaultUploadURL is the endpoint that turns an uploaded file into a
	// hosted URL for edit requests.
	DefaultUploadURL = "https://ai.kefan.cn/api/upload/local"
)

// Config carries everything a ScopeClient needs for a call.  It is loaded
// once by the caller and injected; the client never reads files on its own.
type Config struct {
	// APIToken is the ModelScope bearer token.  Required.
	APIToken string `json:"api_token"`
	// APIBaseURL overrides the inference API root, mainly for tests.
	APIBaseURL string `json:"api_base_url"`
	// UploadURL overrides the image upload endpoint.
	UploadURL string `json:"upload_url"`
	// Timeout bounds the submission request and, together with the 60s
	// floor, the aggregate poll wait budget.  Seconds.
	Timeout int `json:"timeout"`
	// ImageDownloadTimeout bounds result image downloads.  Seconds.
	ImageDownloadTimeout int `json:"image_download_timeout"`

	DefaultModel       string `json:"default_model"`
	DefaultTextModel   string `json:"default_text_model"`
	DefaultVisionModel string `json:"default_vision_model"`
	DefaultPrompt      string `json:"default_prompt"`
}

// DefaultConfig mirrors the defaults the host plugin ships with.
func DefaultConfig() Config {
	return Config{
		APIBaseURL:           DefaultAPIBaseURL,
		UploadURL:            DefaultUploadURL,
		Timeout:              720,
		ImageDownloadTimeout: 30,
		DefaultModel:         "Qwen/Qwen-Image",
		DefaultTextModel:     "Qwen/Qwen3-Coder-480B-A35B-Instruct",
		DefaultVisionModel:   "stepfun-ai/step3",
		DefaultPrompt:        "A beautiful landscape",
	}
}

// LoadConfig reads a JSON config file in the plugin's config format and
// fills unset fields with defaults.  Missing file yields the defaults.
func LoadConfig(path string) Config {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}
	_ = json.Unmarshal(data, &cfg)
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = DefaultAPIBaseURL
	}
	if cfg.UploadURL == "" {
		cfg.UploadURL = DefaultUploadURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 720
	}
	if cfg.ImageDownloadTimeout <= 0 {
		cfg.ImageDownloadTimeout = 30
	}
	cfg.APIToken = strings.TrimSpace(cfg.APIToken)
	return cfg
}

// ScopeClientCallbacks lets callers observe the lifecycle of a generation
// call without changing its behavior.
type ScopeClientCallbacks struct {
	TaskSubmitted   func(*ScopeClient, string)
	TaskPolled      func(*ScopeClient, *TaskHandle)
	DownloadStarted func(*ScopeClient, string)
}

// ScopeClient is the top level object that talks to the ModelScope
// inference API: image generation/edit submissions, task polling, result
// downloads, image uploads and chat completions.
type ScopeClient struct {
	cfg          Config
	clientid     string
	callbacks    *ScopeClientCallbacks
	pollInterval time.Duration
	httpclient   *http.Client
	downloader   *http.Client
	uploader     *http.Client
}

// NewScopeClient creates a new instance of a scope2go client.
func NewScopeClient(cfg Config, callbacks *ScopeClientCallbacks) *ScopeClient {
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = DefaultAPIBaseURL
	}
	if cfg.UploadURL == "" {
		cfg.UploadURL = DefaultUploadURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 720
	}
	if cfg.ImageDownloadTimeout <= 0 {
		cfg.ImageDownloadTimeout = 30
	}
	cfg.APIBaseURL = strings.TrimSuffix(cfg.APIBaseURL, "/")
	retv := &ScopeClient{
		cfg:          cfg,
		clientid:     uuid.New().String(),
		callbacks:    callbacks,
		pollInterval: 5 * time.Second,
		httpclient:   &http.Client{Timeout: time.Duration(cfg.Timeout) * time.Second},
		downloader:   &http.Client{Timeout: time.Duration(cfg.ImageDownloadTimeout) * time.Second},
		uploader:     &http.Client{Timeout: 30 * time.Second},
	}
	return retv
}

// ClientID returns the unique ID of this client instance.
func (c *ScopeClient) ClientID() string {
	return c.clientid
}

// Config returns the configuration the client was created with.
func (c *ScopeClient) Config() Config {
	return c.cfg
}

// return the underlying http client used for API calls
func (c *ScopeClient) HttpClient() *http.Client {
	return c.httpclient
}

// set the underlying http client used for API calls
func (c *ScopeClient) SetHttpClient(client *http.Client) {
	c.httpclient = client
}

// maxWait is the aggregate poll budget: the configured timeout with a
// 60 second floor.
func (c *ScopeClient) maxWait() time.Duration {
	w := time.Duration(c.cfg.Timeout) * time.Second
	if w < minPollWait {
		w = minPollWait
	}
	return w
}
