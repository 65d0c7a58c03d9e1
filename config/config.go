package config

import (
	"strings"

	"github.com/spf13/viper"
)

const (
	GithubApiBaseUrl = "https://api.github.com"
	OSVApiBaseUrl    = "https://api.osv.dev/v1"

	// Risk score weights per severity, capped at MaxRiskScore
	CriticalRiskWeight = 25
	HighRiskWeight     = 15
	MediumRiskWeight   = 8
	LowRiskWeight      = 3
	MaxRiskScore       = 100

	// Hard cap for an uploaded code snippet
	MaxUploadBytes = 2 * 1024 * 1024
)

// Settings holds the tunable scan thresholds. Defaults match the values the
// engine was calibrated with; any of them can be overridden through a
// repoguard.yaml or REPOGUARD_-prefixed environment variables.
type Settings struct {
	EntropyThreshold float64
	FetchWorkers     int
	DetectorWorkers  int
	OSVBatchSize     int
	MaxFilesToScan   int
	ChunkSize        int
	MaxFileSize      int
}

// Load reads settings from the environment and an optional config file.
func Load() Settings {
	v := viper.New()
	v.SetConfigName("repoguard")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvPrefix("REPOGUARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("entropy_threshold", 3.5)
	v.SetDefault("fetch_workers", 15)
	v.SetDefault("detector_workers", 5)
	v.SetDefault("osv_batch_size", 100)
	v.SetDefault("max_files_to_scan", 500)
	v.SetDefault("chunk_size", 100)
	v.SetDefault("max_file_size", 1024*1024)

	// Missing config file is fine, defaults and env cover everything.
	_ = v.ReadInConfig()

	return Settings{
		EntropyThreshold: v.GetFloat64("entropy_threshold"),
		FetchWorkers:     v.GetInt("fetch_workers"),
		DetectorWorkers:  v.GetInt("detector_workers"),
		OSVBatchSize:     v.GetInt("osv_batch_size"),
		MaxFilesToScan:   v.GetInt("max_files_to_scan"),
		ChunkSize:        v.GetInt("chunk_size"),
		MaxFileSize:      v.GetInt("max_file_size"),
	}
}
