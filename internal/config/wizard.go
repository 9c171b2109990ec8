package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/ziadkadry99/intentlang/internal/language"
)

// detectLanguageDir returns the first conventional language folder found in
// the current directory.
func detectLanguageDir() string {
	for _, candidate := range []string{"language", "languages", "lang"} {
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate
		}
	}
	return "language"
}

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .intentlang.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to intentlang! Let's configure your agent.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Agent manifest.
	agentPrompt := promptui.Prompt{
		Label:   "Agent manifest",
		Default: cfg.Agent,
	}
	agentPath, err := agentPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("agent manifest: %w", err)
	}
	cfg.Agent = agentPath

	// 2. Language folder.
	dirPrompt := promptui.Prompt{
		Label:   "Language folder",
		Default: detectLanguageDir(),
	}
	dir, err := dirPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("language folder: %w", err)
	}
	cfg.LanguageDir = dir

	// 3. Language restriction.
	langPrompt := promptui.Prompt{
		Label:   "Languages to load (comma-separated, leave blank for all)",
		Default: "",
		Validate: func(s string) error {
			for _, l := range splitAndTrim(s) {
				if _, err := language.ParseCode(l); err != nil {
					return err
				}
			}
			return nil
		},
	}
	langs, err := langPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("languages: %w", err)
	}
	cfg.Languages = splitAndTrim(langs)

	// 4. Server port.
	portPrompt := promptui.Prompt{
		Label:   "HTTP API port",
		Default: strconv.Itoa(cfg.Server.Port),
		Validate: func(s string) error {
			p, err := strconv.Atoi(s)
			if err != nil || p < 1 || p > 65535 {
				return fmt.Errorf("enter a port between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("server port: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(portStr)

	// 5. CORS.
	corsPrompt := promptui.Select{
		Label: "Allow cross-origin requests from any origin?",
		Items: []string{"no", "yes"},
	}
	corsIdx, _, err := corsPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("cors selection: %w", err)
	}
	cfg.Server.AllowAllOrigins = corsIdx == 1

	if _, err := os.Stat(cfg.Agent); os.IsNotExist(err) {
		fmt.Printf("\nNote: %s does not exist yet. Declare your intents there before running intentlang validate.\n", cfg.Agent)
	}

	if err := cfg.Save(DefaultFile); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", DefaultFile)
	return cfg, nil
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
