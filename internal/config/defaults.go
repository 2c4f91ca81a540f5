package config

const (
	defaultLogDir     = "~/.local/share/sigscan/logs"
	defaultCatalogDir = "~/.local/share/sigscan/catalog"
	defaultLogFormat  = "console"
	defaultLogLevel   = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:     defaultLogDir,
			CatalogDir: defaultCatalogDir,
		},
		Scan: Scan{
			Workers: 0,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
