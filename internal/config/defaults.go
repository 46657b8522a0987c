package config

const (
	defaultDataDir          = "~/.local/share/mediapress"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultBackendTimeout   = 10
	defaultAnalyzerTimeout  = 60
	defaultOptimizerExt     = ".webm"
	defaultPopTimeout       = 2
	defaultRenotifyInterval = 10
	defaultRenotifyBatch    = 5
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
		},
		Storage: Storage{
			UseSSL: true,
		},
		Backend: Backend{
			RequestTimeout: defaultBackendTimeout,
		},
		Analyzer: Analyzer{
			RequestTimeout: defaultAnalyzerTimeout,
		},
		Optimizer: Optimizer{
			OutputExt: defaultOptimizerExt,
		},
		Scheduler: Scheduler{
			PopTimeout:       defaultPopTimeout,
			RenotifyInterval: defaultRenotifyInterval,
			RenotifyBatch:    defaultRenotifyBatch,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
