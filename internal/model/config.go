package model

import "time"

// Config is the complete factcheck configuration.
// Field tags serve both viper (mapstructure) and `config show` (yaml).
type Config struct {
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	LLM       LLMConfig       `yaml:"llm" mapstructure:"llm"`
	Search    SearchConfig    `yaml:"search" mapstructure:"search"`
	Agent     AgentConfig     `yaml:"agent" mapstructure:"agent"`
	OCR       OCRConfig       `yaml:"ocr" mapstructure:"ocr"`
	Session   SessionConfig   `yaml:"session" mapstructure:"session"`
	Links     LinksConfig     `yaml:"links" mapstructure:"links"`
	HTTP      HTTPConfig      `yaml:"http" mapstructure:"http"`
	Prompt    PromptConfig    `yaml:"prompt" mapstructure:"prompt"`
	Authority AuthorityConfig `yaml:"authority" mapstructure:"authority"`
}

// ServerConfig controls the web UI listener
type ServerConfig struct {
	Addr            string        `yaml:"addr" mapstructure:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
	MaxUploadBytes  int64         `yaml:"max_upload_bytes" mapstructure:"max_upload_bytes"`
}

// LLMConfig selects the chat model used by the agent
type LLMConfig struct {
	Provider  string        `yaml:"provider" mapstructure:"provider"`
	Model     string        `yaml:"model" mapstructure:"model"`
	BaseURL   string        `yaml:"base_url,omitempty" mapstructure:"base_url"`
	MaxTokens int           `yaml:"max_tokens" mapstructure:"max_tokens"`
	Timeout   time.Duration `yaml:"timeout" mapstructure:"timeout"` // Per completion call
}

// SearchConfig configures the SerpAPI search tool
type SearchConfig struct {
	BaseURL      string        `yaml:"base_url" mapstructure:"base_url"`
	Engine       string        `yaml:"engine" mapstructure:"engine"`
	GoogleDomain string        `yaml:"google_domain" mapstructure:"google_domain"`
	Country      string        `yaml:"gl" mapstructure:"gl"`
	Language     string        `yaml:"hl" mapstructure:"hl"`
	NumResults   int           `yaml:"num_results" mapstructure:"num_results"`
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// AgentConfig bounds the reasoning loop
type AgentConfig struct {
	MaxSteps int           `yaml:"max_steps" mapstructure:"max_steps"`
	Timeout  time.Duration `yaml:"timeout" mapstructure:"timeout"`
	Verbose  bool          `yaml:"verbose" mapstructure:"verbose"`

	// Feed tool errors back to the model instead of ending the run
	ToolErrorsAsObservations bool `yaml:"tool_errors_as_observations" mapstructure:"tool_errors_as_observations"`
}

// OCRConfig configures the text extractor
type OCRConfig struct {
	Engine    string   `yaml:"engine" mapstructure:"engine"` // cli or gosseract
	Binary    string   `yaml:"binary" mapstructure:"binary"`
	Languages []string `yaml:"languages" mapstructure:"languages"`
	MinWidth  int      `yaml:"min_width" mapstructure:"min_width"` // Upscale narrower images; 0 disables
}

// SessionConfig controls the in-memory session store
type SessionConfig struct {
	TTL             time.Duration `yaml:"ttl" mapstructure:"ttl"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" mapstructure:"cleanup_interval"`
	CookieName      string        `yaml:"cookie_name" mapstructure:"cookie_name"`
}

// LinksConfig controls expansion of claims that are a bare URL
type LinksConfig struct {
	Expand            bool          `yaml:"expand" mapstructure:"expand"`
	UserAgent         string        `yaml:"user_agent" mapstructure:"user_agent"`
	Timeout           time.Duration `yaml:"timeout" mapstructure:"timeout"`
	MaxBodyBytes      int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	MaxExcerptChars   int           `yaml:"max_excerpt_chars" mapstructure:"max_excerpt_chars"`
	RequestsPerSecond float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int           `yaml:"burst" mapstructure:"burst"`
	RespectRobots     bool          `yaml:"respect_robots" mapstructure:"respect_robots"`

	// AllowPrivateAddresses permits links to loopback and internal networks
	AllowPrivateAddresses bool `yaml:"allow_private_addresses" mapstructure:"allow_private_addresses"`
}

// HTTPConfig holds outbound proxy overrides shared by all HTTP clients
type HTTPConfig struct {
	HTTPProxy  string `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy string `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy    string `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// PromptConfig selects the instruction template
type PromptConfig struct {
	Language string `yaml:"language" mapstructure:"language"` // en or vi
}

// AuthorityConfig lists domains used to tag search results
type AuthorityConfig struct {
	PrimaryDomains   []string          `yaml:"primary_domains" mapstructure:"primary_domains"`
	SecondaryDomains []string          `yaml:"secondary_domains" mapstructure:"secondary_domains"`
	DomainMap        map[string]string `yaml:"domain_map,omitempty" mapstructure:"domain_map"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8501",
			ReadTimeout:     30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxUploadBytes:  10 << 20,
		},
		LLM: LLMConfig{
			Provider:  "openai",
			Model:     "gpt-4o",
			MaxTokens: 1500,
			Timeout:   60 * time.Second,
		},
		Search: SearchConfig{
			BaseURL:      "https://serpapi.com",
			Engine:       "google",
			GoogleDomain: "google.com",
			Country:      "us",
			Language:     "en",
			NumResults:   5,
			Timeout:      20 * time.Second,
		},
		Agent: AgentConfig{
			MaxSteps: 15,
			Timeout:  2 * time.Minute,
			Verbose:  true,
		},
		OCR: OCRConfig{
			Engine:    "cli",
			Binary:    "tesseract",
			Languages: []string{"vie", "eng"},
			MinWidth:  1000,
		},
		Session: SessionConfig{
			TTL:             30 * time.Minute,
			CleanupInterval: 10 * time.Minute,
			CookieName:      "factcheck_session",
		},
		Links: LinksConfig{
			Expand:            false,
			UserAgent:         "FactCheck/0.1 (+https://github.com/ppiankov/factcheck)",
			Timeout:           15 * time.Second,
			MaxBodyBytes:      2_000_000,
			MaxExcerptChars:   2000,
			RequestsPerSecond: 1,
			Burst:             2,
			RespectRobots:     true,
		},
		Prompt: PromptConfig{
			Language: "en",
		},
		Authority: AuthorityConfig{
			PrimaryDomains: []string{
				"gov",
				"gov.vn",
				"gov.uk",
				"europa.eu",
				"who.int",
				"un.org",
				"edu",
				"ac.uk",
				"edu.vn",
			},
			SecondaryDomains: []string{
				"reuters.com",
				"apnews.com",
				"bbc.com",
				"bbc.co.uk",
				"nytimes.com",
				"theguardian.com",
				"vnexpress.net",
				"tuoitre.vn",
				"thanhnien.vn",
				"vietnamnet.vn",
				"nhandan.vn",
				"vtv.vn",
				"wikipedia.org",
				"britannica.com",
				"snopes.com",
				"factcheck.org",
				"politifact.com",
			},
		},
	}
}
