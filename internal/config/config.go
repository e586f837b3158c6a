package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBPath    string
	RedisAddr string
	Port      string

	// Crash game tuning.
	MinBetCents int64
	MaxBetCents int64
	MaxCrash    float64
	CrashFloor  float64
	GrowthRate  float64
	HouseEdge   float64

	TapRewardCents int64

	WebappSecret  string
	TelegramToken string

	SweepInterval time.Duration
	StaleAfter    time.Duration
}

func Load() *Config {
	godotenv.Load()

	cfg := &Config{
		DBPath:    getEnv("DB_PATH", "db.sqlite"),
		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		Port:      getEnv("PORT", "8080"),

		MinBetCents: centsEnv("MIN_BET", "0.10"),
		MaxBetCents: centsEnv("MAX_BET", "1000"),
		MaxCrash:    floatEnv("MAX_CRASH", "100"),
		CrashFloor:  floatEnv("CRASH_FLOOR", "1.0"),
		GrowthRate:  floatEnv("GROWTH_RATE", "0.16"),
		HouseEdge:   floatEnv("HOUSE_EDGE", "0.02"),

		TapRewardCents: centsEnv("TAP_REWARD", "0.01"),

		WebappSecret:  os.Getenv("WEBAPP_SECRET"),
		TelegramToken: os.Getenv("TELEGRAM_BOT_TOKEN"),

		SweepInterval: durationEnv("SWEEP_INTERVAL", "30s"),
		StaleAfter:    durationEnv("STALE_AFTER", "5m"),
	}

	validate(cfg)

	return cfg
}

func validate(cfg *Config) {
	if cfg.MinBetCents <= 0 || cfg.MaxBetCents < cfg.MinBetCents {
		log.Fatal("invalid bet bounds: MIN_BET must be > 0 and <= MAX_BET")
	}
	if cfg.GrowthRate <= 0 {
		log.Fatal("GROWTH_RATE must be positive")
	}
	if cfg.HouseEdge < 0 || cfg.HouseEdge >= 1 {
		log.Fatal("HOUSE_EDGE must be in [0,1)")
	}
	if cfg.CrashFloor < 1.0 {
		log.Fatal("CRASH_FLOOR must be >= 1.0")
	}
	if cfg.MaxCrash <= cfg.CrashFloor {
		log.Fatal("MAX_CRASH must exceed CRASH_FLOOR")
	}
	if cfg.TapRewardCents < 0 {
		log.Fatal("TAP_REWARD must not be negative")
	}
}

func getEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func floatEnv(key, fallback string) float64 {
	raw := getEnv(key, fallback)
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Fatalf("invalid %s: %q", key, raw)
	}
	return v
}

// centsEnv parses a decimal currency amount into integer cents.
func centsEnv(key, fallback string) int64 {
	v := floatEnv(key, fallback)
	return int64(v*100 + 0.5)
}

func durationEnv(key, fallback string) time.Duration {
	raw := getEnv(key, fallback)
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Fatalf("invalid %s: %q", key, raw)
	}
	return d
}
