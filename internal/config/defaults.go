package config

// DefaultExcludes are glob patterns skipped during batch upload discovery.
var DefaultExcludes = []string{
	".git/**",
	"node_modules/**",
	"*.lock",
	"*.min.js",
	"*.zip",
	"*.tar.gz",
}

// DefaultIncludes are the document types uploaded by default.
var DefaultIncludes = []string{
	"**/*.txt",
	"**/*.md",
	"**/*.pdf",
	"**/*.docx",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BackendURL:     "http://localhost:5001",
		RequestTimeout: 300,
		DataDir:        ".graphdesk",
		Upload: UploadConfig{
			Include:     DefaultIncludes,
			Exclude:     DefaultExcludes,
			MaxFileSize: 20 << 20,
		},
		Assistant: AssistantConfig{
			Mode:           AssistGraphRAG,
			Model:          "gpt-4o-mini",
			EmbeddingModel: "text-embedding-3-small",
		},
		Gateway: GatewayConfig{
			Port: 8780,
		},
	}
}
