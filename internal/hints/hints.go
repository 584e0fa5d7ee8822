// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"strings"

	"github.com/VamsiKurapati/docrender/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

var ciVars = []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "BUILDKITE"}

// InCI reports whether any well-known CI variable is set.
func InCI(getenv func(string) string) bool {
	for _, v := range ciVars {
		if getenv(v) != "" {
			return true
		}
	}
	return false
}

// EngineSettings describes how the render engine was configured and where
// it ran, so hints only suggest what is not already in place.
type EngineSettings struct {
	InContainer bool
	InCI        bool
	NoSandbox   bool
	BrowserBin  string
}

// ForRenderEngine returns hints for an exhausted render chain.
// Suggests the environment variables that control engine discovery.
func ForRenderEngine(s EngineSettings) string {
	var hints []string

	if (s.InCI || s.InContainer) && !s.NoSandbox {
		hints = append(hints, "set DOCRENDER_NO_SANDBOX=1 for Docker/CI")
	}
	if s.BrowserBin == "" {
		hints = append(hints, "set DOCRENDER_BROWSER_BIN to use an installed Chrome/Chromium")
	}
	hints = append(hints, "run 'docrender doctor' to inspect engine discovery")

	return formatHints(hints)
}

// ForTimeout returns a hint about increasing the tier timeout.
func ForTimeout() string {
	return format("for large documents, raise render.tierTimeout or use --timeout")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/docrender/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/docrender") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForAssetEndpoints returns a hint when asset references cannot be resolved
// because no endpoint is configured.
func ForAssetEndpoints() string {
	return format("set assets.templateEndpoint/assets.cloudEndpoint or DOCRENDER_TEMPLATE_ENDPOINT/DOCRENDER_CLOUD_ENDPOINT")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
