// Package config define o schema do arquivo de settings (YAML), a carga
// via viper (com overrides por ambiente TRUTH_*) e a validação que falha
// fechado: configuração inválida impede o processo de subir.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"truth-api/truth/domain"
)

type Config struct {
	Listen      string            `mapstructure:"listen" yaml:"listen"`
	Truths      TruthsConfig      `mapstructure:"truths" yaml:"truths"`
	RateLimit   RateLimitConfig   `mapstructure:"rate_limit" yaml:"rate_limit"`
	Selection   SelectionConfig   `mapstructure:"selection" yaml:"selection"`
	Throttle    ThrottleConfig    `mapstructure:"throttle" yaml:"throttle"`
	Concurrency ConcurrencyConfig `mapstructure:"concurrency" yaml:"concurrency"`
	Stats       StatsConfig       `mapstructure:"stats" yaml:"stats"`
}

type TruthsConfig struct {
	File            string `mapstructure:"file" yaml:"file"`
	MinCount        int    `mapstructure:"min_count" yaml:"min_count"`
	NormalizeDedupe bool   `mapstructure:"normalize_dedupe" yaml:"normalize_dedupe"`
}

type RateLimitConfig struct {
	Limit         int      `mapstructure:"limit" yaml:"limit"`
	WindowSeconds int      `mapstructure:"window_seconds" yaml:"window_seconds"`
	ExemptRoutes  []string `mapstructure:"exempt_routes" yaml:"exempt_routes"`
}

type SelectionConfig struct {
	// DayWeights: dia da semana (minúsculo) -> nível -> peso.
	// Os pesos de um dia não precisam somar 1; a normalização é na seleção.
	DayWeights map[string]map[string]float64 `mapstructure:"day_weights" yaml:"day_weights"`
}

type ThrottleConfig struct {
	// RPS <= 0 desliga o guarda global.
	RPS   float64 `mapstructure:"rps" yaml:"rps"`
	Burst int     `mapstructure:"burst" yaml:"burst"`
}

type ConcurrencyConfig struct {
	// Max <= 0 desliga o limite de concorrência.
	Max            int           `mapstructure:"max" yaml:"max"`
	AcquireTimeout time.Duration `mapstructure:"acquire_timeout" yaml:"acquire_timeout"`
}

type StatsConfig struct {
	Enabled       bool          `mapstructure:"enabled" yaml:"enabled"`
	RedisAddr     string        `mapstructure:"redis_addr" yaml:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password" yaml:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db" yaml:"redis_db"`
	Prefix        string        `mapstructure:"prefix" yaml:"prefix"`
	TTL           time.Duration `mapstructure:"ttl" yaml:"ttl"`
	Bucket        string        `mapstructure:"bucket" yaml:"bucket"`
	TrackKeys     bool          `mapstructure:"track_keys" yaml:"track_keys"`
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// Default devolve a configuração embutida, usada quando não há arquivo e
// como base para o comando `truthapi config`.
func Default() *Config {
	return &Config{
		Listen: ":8080",
		Truths: TruthsConfig{
			File:            "data/truths.json",
			MinCount:        1,
			NormalizeDedupe: true,
		},
		RateLimit: RateLimitConfig{
			Limit:         100,
			WindowSeconds: 3600,
			ExemptRoutes:  []string{"/", "/health"},
		},
		Selection: SelectionConfig{DayWeights: defaultDayWeights()},
		Stats: StatsConfig{
			Prefix: "truthapi:stats",
			TTL:    7 * 24 * time.Hour,
			Bucket: "day",
		},
	}
}

// segunda-feira puxa para high; o fim de semana relaxa para low.
func defaultDayWeights() map[string]map[string]float64 {
	return map[string]map[string]float64{
		"monday":    {"low": 0.1, "medium": 0.3, "high": 0.6},
		"tuesday":   {"low": 0.2, "medium": 0.5, "high": 0.3},
		"wednesday": {"low": 0.3, "medium": 0.4, "high": 0.3},
		"thursday":  {"low": 0.3, "medium": 0.4, "high": 0.3},
		"friday":    {"low": 0.5, "medium": 0.3, "high": 0.2},
		"saturday":  {"low": 0.6, "medium": 0.3, "high": 0.1},
		"sunday":    {"low": 0.4, "medium": 0.4, "high": 0.2},
	}
}

// Load lê o settings.yaml (do path informado, ou ./settings.yaml se vazio),
// aplica overrides de ambiente TRUTH_* e valida. Arquivo ausente só é
// aceito quando nenhum path foi pedido explicitamente.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("settings")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("TRUTH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	def := Default()
	v.SetDefault("listen", def.Listen)
	v.SetDefault("truths.file", def.Truths.File)
	v.SetDefault("truths.min_count", def.Truths.MinCount)
	v.SetDefault("truths.normalize_dedupe", def.Truths.NormalizeDedupe)
	v.SetDefault("rate_limit.limit", def.RateLimit.Limit)
	v.SetDefault("rate_limit.window_seconds", def.RateLimit.WindowSeconds)
	v.SetDefault("rate_limit.exempt_routes", def.RateLimit.ExemptRoutes)
	v.SetDefault("selection.day_weights", def.Selection.DayWeights)
	v.SetDefault("throttle.rps", def.Throttle.RPS)
	v.SetDefault("throttle.burst", def.Throttle.Burst)
	v.SetDefault("concurrency.max", def.Concurrency.Max)
	v.SetDefault("concurrency.acquire_timeout", def.Concurrency.AcquireTimeout)
	v.SetDefault("stats.enabled", def.Stats.Enabled)
	v.SetDefault("stats.redis_addr", def.Stats.RedisAddr)
	v.SetDefault("stats.redis_password", def.Stats.RedisPassword)
	v.SetDefault("stats.redis_db", def.Stats.RedisDB)
	v.SetDefault("stats.prefix", def.Stats.Prefix)
	v.SetDefault("stats.ttl", def.Stats.TTL)
	v.SetDefault("stats.bucket", def.Stats.Bucket)
	v.SetDefault("stats.track_keys", def.Stats.TrackKeys)
}

// Validate confere o schema inteiro. Qualquer violação é fatal no startup.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Listen) == "" {
		return errors.New("config: listen must not be empty")
	}
	if strings.TrimSpace(c.Truths.File) == "" {
		return errors.New("config: truths.file must not be empty")
	}
	if c.RateLimit.Limit <= 0 {
		return errors.New("config: rate_limit.limit must be > 0")
	}
	if c.RateLimit.WindowSeconds <= 0 {
		return errors.New("config: rate_limit.window_seconds must be > 0")
	}
	if c.Throttle.RPS < 0 {
		return errors.New("config: throttle.rps must be >= 0")
	}
	if c.Concurrency.Max < 0 {
		return errors.New("config: concurrency.max must be >= 0")
	}

	for day, dist := range c.Selection.DayWeights {
		if _, ok := weekdays[strings.ToLower(day)]; !ok {
			return fmt.Errorf("config: selection.day_weights: unknown day %q", day)
		}
		total := 0.0
		for tier, weight := range dist {
			if !domain.Weight(tier).Valid() {
				return fmt.Errorf("config: selection.day_weights.%s: unknown tier %q", day, tier)
			}
			if weight < 0 {
				return fmt.Errorf("config: selection.day_weights.%s.%s: weight must be >= 0", day, tier)
			}
			total += weight
		}
		if total <= 0 {
			return fmt.Errorf("config: selection.day_weights.%s: weights must sum to a positive total", day)
		}
	}

	if c.Stats.Enabled {
		if strings.TrimSpace(c.Stats.RedisAddr) == "" {
			return errors.New("config: stats.redis_addr is required when stats.enabled")
		}
		switch c.Stats.Bucket {
		case "day", "none":
		default:
			return fmt.Errorf("config: stats.bucket must be \"day\" or \"none\", got %q", c.Stats.Bucket)
		}
	}
	return nil
}

// Window é a duração da janela do rate limit.
func (c *Config) Window() time.Duration {
	return time.Duration(c.RateLimit.WindowSeconds) * time.Second
}

// WeightTable converte a tabela de pesos do formato do arquivo para os
// tipos do domínio. Dias ausentes simplesmente não entram: a seleção cai
// no sorteio uniforme para eles.
func (c *Config) WeightTable() domain.WeightTable {
	table := make(domain.WeightTable, len(c.Selection.DayWeights))
	for day, dist := range c.Selection.DayWeights {
		wd, ok := weekdays[strings.ToLower(day)]
		if !ok {
			continue
		}
		tiers := make(domain.TierWeights, len(dist))
		for tier, weight := range dist {
			tiers[domain.Weight(tier)] = weight
		}
		table[wd] = tiers
	}
	return table
}
