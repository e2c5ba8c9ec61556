package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .graphdesk.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to graphdesk! Let's connect your GraphRAG backend.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Backend URL.
	backendPrompt := promptui.Prompt{
		Label:   "GraphRAG backend URL",
		Default: cfg.BackendURL,
	}
	backendURL, err := backendPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("backend url: %w", err)
	}
	cfg.BackendURL = strings.TrimRight(backendURL, "/")

	// 2. Data directory for local state.
	dataPrompt := promptui.Prompt{
		Label:   "Local data directory",
		Default: cfg.DataDir,
	}
	dataDir, err := dataPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}
	cfg.DataDir = dataDir

	// 3. Assistant mode.
	modePrompt := promptui.Select{
		Label: "Writing assistant mode",
		Items: []string{
			"graphrag — critique via the backend query endpoint",
			"openai   — critique via a direct OpenAI completion",
		},
	}
	modeIdx, _, err := modePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("assistant mode: %w", err)
	}
	modes := []AssistantMode{AssistGraphRAG, AssistOpenAI}
	cfg.Assistant.Mode = modes[modeIdx]

	if cfg.Assistant.Mode == AssistOpenAI {
		modelPrompt := promptui.Prompt{
			Label:   "OpenAI model for critiques",
			Default: cfg.Assistant.Model,
		}
		model, err := modelPrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("assistant model: %w", err)
		}
		cfg.Assistant.Model = model
	}

	// 4. Gateway port.
	portPrompt := promptui.Prompt{
		Label:   "Web gateway port",
		Default: strconv.Itoa(cfg.Gateway.Port),
		Validate: func(s string) error {
			p, err := strconv.Atoi(s)
			if err != nil || p < 1 || p > 65535 {
				return fmt.Errorf("must be a port number")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("gateway port: %w", err)
	}
	cfg.Gateway.Port, _ = strconv.Atoi(portStr)

	// 5. Upload include patterns.
	includePrompt := promptui.Prompt{
		Label:   "Upload include patterns (comma-separated globs)",
		Default: strings.Join(cfg.Upload.Include, ","),
	}
	includeStr, err := includePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("include patterns: %w", err)
	}
	if patterns := splitAndTrim(includeStr); len(patterns) > 0 {
		cfg.Upload.Include = patterns
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := cfg.Save(".graphdesk.yml"); err != nil {
		return nil, err
	}

	fmt.Println()
	fmt.Println("Configuration written to .graphdesk.yml")
	return cfg, nil
}

// splitAndTrim splits a comma-separated string and trims whitespace,
// dropping empty entries.
func splitAndTrim(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
