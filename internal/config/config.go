package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"
)

type Config struct {
	Analysis AnalysisConfig
	Log      LogConfig
}

// AnalysisConfig - параметры построения весов и статистических тестов
type AnalysisConfig struct {
	// Alpha - показатель степени затухания веса по расстоянию (d^alpha)
	Alpha float64
	// Permutations - число перестановок для теста значимости Морана
	Permutations int
	// LonColumn, LatColumn - имена колонок с координатами по умолчанию
	LonColumn string
	LatColumn string
	// PermWorkers - число горутин перестановочного теста (0 = NumCPU)
	PermWorkers int
}

type LogConfig struct {
	Level string
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// .env опционален: достаточно переменных окружения
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{
		Analysis: AnalysisConfig{
			Alpha:        viper.GetFloat64("ANALYSIS_ALPHA"),
			Permutations: viper.GetInt("ANALYSIS_PERMUTATIONS"),
			LonColumn:    viper.GetString("ANALYSIS_LON_COL"),
			LatColumn:    viper.GetString("ANALYSIS_LAT_COL"),
			PermWorkers:  viper.GetInt("ANALYSIS_PERM_WORKERS"),
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
	}

	// Set default values if not provided
	if cfg.Analysis.Alpha == 0 {
		cfg.Analysis.Alpha = -2.0
	}
	if cfg.Analysis.Permutations == 0 {
		cfg.Analysis.Permutations = 999
	}
	if cfg.Analysis.LonColumn == "" {
		cfg.Analysis.LonColumn = "lon"
	}
	if cfg.Analysis.LatColumn == "" {
		cfg.Analysis.LatColumn = "lat"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	return cfg, nil
}

// Defaults возвращает конфигурацию анализа без чтения окружения (для тестов)
func Defaults() AnalysisConfig {
	return AnalysisConfig{
		Alpha:        -2.0,
		Permutations: 999,
		LonColumn:    "lon",
		LatColumn:    "lat",
	}
}
