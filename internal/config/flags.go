package config

import "flag"

var (
	flagConfig        = flag.String("config", "", "Path to config file")
	flagDebug         = flag.Bool("debug", false, "Enable debug logging")
	flagHidden        = flag.Bool("hidden", false, "Create the window hidden")
	flagWidth         = flag.Int("width", 0, "Window width")
	flagHeight        = flag.Int("height", 0, "Window height")
	flagImage         = flag.String("image", "", "Image file to upload as a texture")
	flagNoDebugOutput = flag.Bool("no-debug-output", false, "Do not install the GL debug message callback")
	flagScreenshot    = flag.String("screenshot", "", "Directory to save a PNG of the first frame")
	flagWriteConfig   = flag.String("write-config", "", "Write the effective config to this path and exit")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// WriteConfigPath returns the --write-config destination, or "" when the
// flag is unset.
func WriteConfigPath() string {
	return *flagWriteConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
		cfg.Context.DebugContext = true
	}
	if *flagHidden {
		cfg.Window.Hidden = true
	}
	if *flagWidth > 0 {
		cfg.Window.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Window.Height = *flagHeight
	}
	if *flagImage != "" {
		cfg.Assets.Image = *flagImage
	}
	if *flagNoDebugOutput {
		cfg.Debug.Output = false
	}
	if *flagScreenshot != "" {
		cfg.Debug.Screenshot = *flagScreenshot
	}
}
