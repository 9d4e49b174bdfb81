package config

import (
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/audh25-lab/RAAJJE-VAGU-AUTO-THE-ALBAKO-CHRONICLES-sub003/internal/errors"
)

const (
	DefaultLogLevel = "info"

	defaultSampleInterval   = 5
	defaultQualityInterval  = 5
	defaultBatteryInterval  = 10
	defaultSnapshotInterval = 30
	defaultGCFrameInterval  = 1800
	defaultTargetFrameTime  = 16.67
	defaultSampleWindow     = 60
	defaultHistorySize      = 120
	defaultAmbientTemp      = 25.0
	defaultCriticalTemp     = 45.0
	defaultLowPowerLevel    = 0.2
	defaultCriticalLevel    = 0.1
	defaultTotalBudgetMB    = 256
	defaultTextureBudgetMB  = 96
	defaultAudioBudgetMB    = 32
	defaultTelemetryDB      = "/var/lib/perfgovd/telemetry.db"
)

// Config holds all session-constant settings for the governor. Budgets and
// thresholds are fixed at load time and never mutated at runtime.
type Config struct {
	SampleInterval   int     `mapstructure:"sample_interval"`
	QualityInterval  int     `mapstructure:"quality_interval"`
	BatteryInterval  int     `mapstructure:"battery_interval"`
	SnapshotInterval int     `mapstructure:"snapshot_interval"`
	GCFrameInterval  int     `mapstructure:"gc_frame_interval"`
	TargetFrameTime  float64 `mapstructure:"target_frame_time"`
	SampleWindow     int     `mapstructure:"sample_window"`
	HistorySize      int     `mapstructure:"history_size"`
	AmbientTemp      float64 `mapstructure:"ambient_temp"`
	CriticalTemp     float64 `mapstructure:"critical_temp"`
	LowPowerLevel    float64 `mapstructure:"low_power_level"`
	CriticalLevel    float64 `mapstructure:"critical_level"`
	TotalBudgetMB    int     `mapstructure:"total_budget_mb"`
	TextureBudgetMB  int     `mapstructure:"texture_budget_mb"`
	AudioBudgetMB    int     `mapstructure:"audio_budget_mb"`
	GPUProbe         bool    `mapstructure:"gpu_probe"`
	Monitor          bool    `mapstructure:"monitor"`
	Telemetry        bool    `mapstructure:"telemetry"`
	TelemetryDB      string  `mapstructure:"telemetry_db"`
	LogLevel         string  `mapstructure:"log_level"`
}

func Load() (*Config, error) {
	errFactory := errors.New()
	v := viper.New()

	setDefaults(v)

	flags := pflag.NewFlagSet("perfgovd", pflag.ContinueOnError)
	flags.ParseErrorsWhitelist.UnknownFlags = true
	flags.Int("sample-interval", defaultSampleInterval, "Seconds between battery/thermal/memory samples")
	flags.Float64("target-frame-time", defaultTargetFrameTime, "Target frame time budget in milliseconds")
	flags.Bool("monitor", false, "Only observe and report, never actuate")
	flags.Bool("telemetry", false, "Enable telemetry collection")
	flags.String("telemetry-db", defaultTelemetryDB, "Path to the telemetry database")
	flags.Bool("gpu-probe", false, "Read device temperature from the GPU via NVML")
	flags.String("log-level", DefaultLogLevel, "Log level (debug, info, warning, error)")
	if err := flags.Parse(os.Args[1:]); err != nil && !errors.Is(err, pflag.ErrHelp) {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}

	flags.Visit(func(f *pflag.Flag) {
		v.Set(strings.ReplaceAll(f.Name, "-", "_"), f.Value.String())
	})

	v.SetEnvPrefix("PERFGOVD")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path := os.Getenv("PERFGOVD_CONFIG"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("perfgovd")
		v.SetConfigType("toml")
		v.AddConfigPath("/etc")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, errFactory.WithMessage(errors.ErrReadConfig, "Failed to read config file").WithData(err.Error())
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("sample_interval", defaultSampleInterval)
	v.SetDefault("quality_interval", defaultQualityInterval)
	v.SetDefault("battery_interval", defaultBatteryInterval)
	v.SetDefault("snapshot_interval", defaultSnapshotInterval)
	v.SetDefault("gc_frame_interval", defaultGCFrameInterval)
	v.SetDefault("target_frame_time", defaultTargetFrameTime)
	v.SetDefault("sample_window", defaultSampleWindow)
	v.SetDefault("history_size", defaultHistorySize)
	v.SetDefault("ambient_temp", defaultAmbientTemp)
	v.SetDefault("critical_temp", defaultCriticalTemp)
	v.SetDefault("low_power_level", defaultLowPowerLevel)
	v.SetDefault("critical_level", defaultCriticalLevel)
	v.SetDefault("total_budget_mb", defaultTotalBudgetMB)
	v.SetDefault("texture_budget_mb", defaultTextureBudgetMB)
	v.SetDefault("audio_budget_mb", defaultAudioBudgetMB)
	v.SetDefault("gpu_probe", false)
	v.SetDefault("monitor", false)
	v.SetDefault("telemetry", false)
	v.SetDefault("telemetry_db", defaultTelemetryDB)
	v.SetDefault("log_level", DefaultLogLevel)
}

func (c *Config) Validate() error {
	errFactory := errors.New()

	if c.SampleInterval <= 0 || c.QualityInterval <= 0 || c.BatteryInterval <= 0 || c.SnapshotInterval <= 0 {
		return errFactory.WithData(errors.ErrInvalidInterval, c.SampleInterval)
	}
	if c.GCFrameInterval <= 0 {
		return errFactory.WithData(errors.ErrInvalidInterval, c.GCFrameInterval)
	}
	if c.TargetFrameTime <= 0 {
		return errFactory.WithMessage(errors.ErrInvalidConfig, "target frame time must be positive")
	}
	if c.SampleWindow <= 0 || c.HistorySize <= 0 {
		return errFactory.WithMessage(errors.ErrInvalidConfig, "window sizes must be positive")
	}
	if c.TotalBudgetMB <= 0 || c.TextureBudgetMB <= 0 || c.AudioBudgetMB <= 0 {
		return errFactory.New(errors.ErrInvalidBudget)
	}
	if c.TextureBudgetMB+c.AudioBudgetMB > c.TotalBudgetMB {
		return errFactory.WithMessage(errors.ErrInvalidBudget, "texture and audio budgets exceed total budget")
	}
	if c.LowPowerLevel <= 0 || c.LowPowerLevel >= 1 || c.CriticalLevel <= 0 || c.CriticalLevel >= c.LowPowerLevel {
		return errFactory.WithMessage(errors.ErrInvalidConfig, "battery thresholds must satisfy 0 < critical < low < 1")
	}
	if c.AmbientTemp <= 0 {
		return errFactory.WithMessage(errors.ErrInvalidConfig, "ambient temperature must be positive")
	}
	if !LogLevel(c.LogLevel).IsValid() {
		return errFactory.WithData(errors.ErrInvalidLogLevel, c.LogLevel)
	}

	return nil
}

// LogLevel represents valid logging levels
type LogLevel string

const (
	LogLevelDebug   LogLevel = "debug"
	LogLevelInfo    LogLevel = "info"
	LogLevelWarning LogLevel = "warning"
	LogLevelError   LogLevel = "error"
)

// IsValid returns whether the log level is valid
func (l LogLevel) IsValid() bool {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarning, LogLevelError:
		return true
	default:
		return false
	}
}

func (l LogLevel) String() string {
	return string(l)
}
