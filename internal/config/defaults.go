package config

const (
	defaultDataDir            = "~/.local/share/viewpulse/data"
	defaultLogDir             = "~/.local/share/viewpulse/logs"
	defaultStoreBackend       = BackendFiles
	defaultSQLiteName         = "viewpulse.db"
	defaultLockTimeoutSeconds = 30
	defaultStrictThreshold    = 60
	defaultLenientThreshold   = 180
	defaultGrowthThreshold    = ThresholdLenient
	defaultRankingThreshold   = ThresholdLenient
	defaultRetentionDays      = 10
	defaultTopK               = 10
	defaultPipelineWorkers    = 4
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Store: Store{
			Backend:            defaultStoreBackend,
			LockTimeoutSeconds: defaultLockTimeoutSeconds,
		},
		Classifier: Classifier{
			ShortThresholdStrictSeconds:  defaultStrictThreshold,
			ShortThresholdLenientSeconds: defaultLenientThreshold,
			GrowthThreshold:              defaultGrowthThreshold,
		},
		Ranking: Ranking{
			RetentionDays: defaultRetentionDays,
			TopK:          defaultTopK,
			Threshold:     defaultRankingThreshold,
		},
		Pipeline: Pipeline{
			Workers: defaultPipelineWorkers,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
