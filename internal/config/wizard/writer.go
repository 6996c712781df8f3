package wizard

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/imamik/hostprep/internal/config"
)

// WriteConfig writes the config to a YAML file with a descriptive header.
func WriteConfig(cfg *config.Config, outputPath string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("generated configuration is invalid: %w", err)
	}

	yamlBytes, err := config.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(generateHeader(outputPath))
	sb.WriteString("\n")
	sb.Write(yamlBytes)

	if err := os.WriteFile(outputPath, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

func generateHeader(outputPath string) string {
	return fmt.Sprintf(`# hostprep configuration
# Generated by: hostprep init
# Generated at: %s
#
# Usage (as root on the target host):
#   hostprep apply -c %s
#
# Or against a remote host:
#   hostprep apply -c %s --host <address> --ssh-key ~/.ssh/id_ed25519
`, time.Now().Format(time.RFC3339), outputPath, outputPath)
}

// FileExists checks if a file exists at the given path.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
