package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// DefaultPath is the configuration file written by the wizard.
const DefaultPath = ".pagenav.yml"

// detectDocsDir looks for a conventional documentation directory.
func detectDocsDir() string {
	for _, dir := range []string{"docs", "doc", "documentation", "content"} {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}
	return "docs"
}

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to pagenav! Let's configure your documents.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Documents directory.
	docsPrompt := promptui.Prompt{
		Label:   "Directory containing markdown documents",
		Default: detectDocsDir(),
	}
	docsDir, err := docsPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("docs dir: %w", err)
	}
	cfg.DocsDir = docsDir

	// 2. Section heading level.
	levelPrompt := promptui.Select{
		Label: "Which headings start a navigable section?",
		Items: []string{
			"## level 2: one menu entry per H2 (recommended)",
			"#  level 1: one menu entry per H1",
			"### level 3: one menu entry per H3",
		},
	}
	levelIdx, _, err := levelPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("section level: %w", err)
	}
	cfg.SectionLevel = []int{2, 1, 3}[levelIdx]

	// 3. Scroll behaviour.
	scrollPrompt := promptui.Select{
		Label: "Scroll behaviour when navigating",
		Items: []string{"smooth", "instant", "auto"},
	}
	_, behavior, err := scrollPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("scroll behaviour: %w", err)
	}
	cfg.Scroll.Behavior = behavior

	// 4. Port.
	portPrompt := promptui.Prompt{
		Label:   "HTTP port",
		Default: strconv.Itoa(cfg.Server.Port),
		Validate: func(s string) error {
			p, err := strconv.Atoi(strings.TrimSpace(s))
			if err != nil || p < 0 || p > 65535 {
				return fmt.Errorf("enter a port between 0 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(strings.TrimSpace(portStr))

	// 5. Extra exclude patterns.
	excludePrompt := promptui.Prompt{
		Label:   "Extra exclude patterns (comma-separated, leave blank for defaults)",
		Default: "",
	}
	excludeStr, err := excludePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("exclude patterns: %w", err)
	}
	if excludeStr != "" {
		cfg.Exclude = append(cfg.Exclude, splitAndTrim(excludeStr)...)
	}

	// 6. Journal.
	journalPrompt := promptui.Select{
		Label: "Record navigation decisions to a local journal?",
		Items: []string{"no", "yes"},
	}
	journalIdx, _, err := journalPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("journal: %w", err)
	}
	cfg.Journal.Enabled = journalIdx == 1

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
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
