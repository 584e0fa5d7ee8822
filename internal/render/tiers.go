package render

import (
	"fmt"
	"runtime"

	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"

	"github.com/VamsiKurapati/docrender/internal/fileutil"
)

// Tier names, in chain order.
const (
	TierStandard   = "standard"
	TierRestricted = "restricted"
	TierMinimal    = "minimal"
	TierSystem     = "system"
)

// TierConfig controls engine discovery for the default tiers.
type TierConfig struct {
	// BrowserBin pins the standard and minimal tiers to one binary. Empty
	// lets rod find or download a browser.
	BrowserBin string

	// BundledPath is the engine shipped with the deployment. Empty means
	// rod's managed browser location.
	BundledPath string

	// SystemPaths replaces DefaultSystemPaths when non-empty.
	SystemPaths []string

	// NoSandbox disables the Chrome sandbox in the standard and system tiers.
	NoSandbox bool
}

// sandboxFlags relax the sandbox enough to run on most servers.
var sandboxFlags = []flags.Flag{
	"disable-setuid-sandbox",
	"disable-dev-shm-usage",
}

// lowMemoryFlags fit constrained, ephemeral runtimes.
var lowMemoryFlags = []flags.Flag{
	"single-process",
	"no-zygote",
	"disable-dev-shm-usage",
	"disable-gpu",
	"disable-software-rasterizer",
	"disable-setuid-sandbox",
	"no-first-run",
	"mute-audio",
}

// minimalFlags turn off every subsystem that printing does not need.
var minimalFlags = []flags.Flag{
	"disable-gpu",
	"disable-software-rasterizer",
	"disable-dev-shm-usage",
	"disable-setuid-sandbox",
	"disable-extensions",
	"disable-background-networking",
	"disable-background-timer-throttling",
	"disable-backgrounding-occluded-windows",
	"disable-renderer-backgrounding",
	"disable-breakpad",
	"disable-component-update",
	"disable-default-apps",
	"disable-domain-reliability",
	"disable-sync",
	"disable-translate",
	"disable-client-side-phishing-detection",
	"disable-hang-monitor",
	"disable-ipc-flooding-protection",
	"disable-popup-blocking",
	"disable-prompt-on-repost",
	"metrics-recording-only",
	"mute-audio",
	"no-first-run",
	"no-default-browser-check",
	"hide-scrollbars",
	"safebrowsing-disable-auto-update",
}

// DefaultSystemPaths lists well-known engine locations, most specific first.
func DefaultSystemPaths() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{
			"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
			"/Applications/Chromium.app/Contents/MacOS/Chromium",
			"/Applications/Microsoft Edge.app/Contents/MacOS/Microsoft Edge",
			"/Applications/Brave Browser.app/Contents/MacOS/Brave Browser",
		}
	case "windows":
		return []string{
			`C:\Program Files\Google\Chrome\Application\chrome.exe`,
			`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
			`C:\Program Files (x86)\Microsoft\Edge\Application\msedge.exe`,
			`C:\Program Files\Microsoft\Edge\Application\msedge.exe`,
		}
	default:
		return []string{
			"/usr/bin/chromium",
			"/usr/bin/chromium-browser",
			"/usr/bin/google-chrome",
			"/usr/bin/google-chrome-stable",
			"/usr/lib/chromium/chromium",
			"/snap/bin/chromium",
			"/opt/google/chrome/chrome",
			"/usr/bin/microsoft-edge",
		}
	}
}

// DefaultTiers returns the four-tier chain: standard, restricted, minimal,
// system.
func DefaultTiers(cfg TierConfig) []Tier {
	return []Tier{
		StandardTier(cfg),
		RestrictedTier(cfg),
		MinimalTier(cfg),
		SystemTier(cfg),
	}
}

// StandardTier launches a generic headless engine.
func StandardTier(cfg TierConfig) Tier {
	return &rodTier{name: TierStandard, configure: func() (*launcher.Launcher, error) {
		l := launcher.New().Headless(true)
		if cfg.BrowserBin != "" {
			l = l.Bin(cfg.BrowserBin)
		}
		l = withFlags(l, sandboxFlags)
		return l.NoSandbox(cfg.NoSandbox), nil
	}}
}

// RestrictedTier launches the bundled engine in single-process low-memory
// mode. It fails when the bundled binary is missing or unreadable.
func RestrictedTier(cfg TierConfig) Tier {
	return &rodTier{name: TierRestricted, configure: func() (*launcher.Launcher, error) {
		bin, err := BundledBinary(cfg.BundledPath)
		if err != nil {
			return nil, err
		}
		l := launcher.New().Bin(bin).Headless(true).Leakless(false).NoSandbox(true).
			Set("renderer-process-limit", "1").
			Set("js-flags", "--max-old-space-size=256")
		return withFlags(l, lowMemoryFlags), nil
	}}
}

// MinimalTier is the standard launch with non-essential subsystems off.
func MinimalTier(cfg TierConfig) Tier {
	return &rodTier{name: TierMinimal, configure: func() (*launcher.Launcher, error) {
		l := launcher.New().Headless(true).NoSandbox(true)
		if cfg.BrowserBin != "" {
			l = l.Bin(cfg.BrowserBin)
		}
		return withFlags(l, minimalFlags), nil
	}}
}

// SystemTier launches the first engine found on the system path list.
func SystemTier(cfg TierConfig) Tier {
	return &rodTier{name: TierSystem, configure: func() (*launcher.Launcher, error) {
		paths := cfg.SystemPaths
		if len(paths) == 0 {
			paths = DefaultSystemPaths()
		}
		bin, ok := fileutil.FirstExisting(paths)
		if !ok {
			return nil, fmt.Errorf("%w: searched %d system paths", ErrEngineNotFound, len(paths))
		}
		l := launcher.New().Bin(bin).Headless(true)
		l = withFlags(l, sandboxFlags)
		return l.NoSandbox(cfg.NoSandbox), nil
	}}
}

// BundledBinary resolves and checks the bundled engine path.
func BundledBinary(path string) (string, error) {
	if path == "" {
		path = launcher.NewBrowser().BinPath()
	}
	if err := fileutil.CheckReadable(path); err != nil {
		return "", fmt.Errorf("%w: bundled engine %s: %v", ErrEngineNotFound, path, err)
	}
	return path, nil
}

func withFlags(l *launcher.Launcher, fs []flags.Flag) *launcher.Launcher {
	for _, f := range fs {
		l = l.Set(f)
	}
	return l
}
