package config

// AssistantMode selects how writing-assistant prompts are answered.
type AssistantMode string

const (
	// AssistGraphRAG routes assistant prompts through the backend query endpoint.
	AssistGraphRAG AssistantMode = "graphrag"
	// AssistOpenAI sends assistant prompts directly to an OpenAI chat completion.
	AssistOpenAI AssistantMode = "openai"
)

// Config is the top-level graphdesk configuration, corresponding to .graphdesk.yml.
type Config struct {
	BackendURL     string          `yaml:"backend_url" koanf:"backend_url"`
	RequestTimeout int             `yaml:"request_timeout" koanf:"request_timeout"` // seconds
	DataDir        string          `yaml:"data_dir" koanf:"data_dir"`
	Upload         UploadConfig    `yaml:"upload" koanf:"upload"`
	Assistant      AssistantConfig `yaml:"assistant" koanf:"assistant"`
	Gateway        GatewayConfig   `yaml:"gateway" koanf:"gateway"`
}

// UploadConfig controls document discovery for batch uploads.
type UploadConfig struct {
	Include []string `yaml:"include" koanf:"include"`
	Exclude []string `yaml:"exclude" koanf:"exclude"`
	// MaxFileSize is the largest file (in bytes) sent to the backend.
	MaxFileSize int64 `yaml:"max_file_size" koanf:"max_file_size"`
}

// AssistantConfig holds writing-assistant settings.
type AssistantConfig struct {
	Mode           AssistantMode `yaml:"mode" koanf:"mode"`
	Model          string        `yaml:"model" koanf:"model"`
	EmbeddingModel string        `yaml:"embedding_model" koanf:"embedding_model"`
}

// GatewayConfig holds local web gateway settings.
type GatewayConfig struct {
	Port     int  `yaml:"port" koanf:"port"`
	AllowAll bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}
