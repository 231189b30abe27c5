package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {
	App struct {
		Mode            string `toml:"mode"` // "backtest" or "paper"
		SummaryEveryMin int    `toml:"summary_every_min"`
	} `toml:"app"`

	Symbols struct {
		List []string `toml:"list"`
	} `toml:"symbols"`

	Trading struct {
		MaxPositionSize            float64 `toml:"max_position_size"`
		MinPositionSize            float64 `toml:"min_position_size"`
		MaxOpenPositions           int     `toml:"max_open_positions"`
		StopLossPercentage         float64 `toml:"stop_loss_percentage"`
		TakeProfitPercentage       float64 `toml:"take_profit_percentage"`
		MinimumConfidence          float64 `toml:"minimum_confidence"`
		SentimentThreshold         float64 `toml:"sentiment_threshold"`
		SentimentPeriod            int     `toml:"sentiment_period"` // hours
		PaperTradingInitialBalance float64 `toml:"paper_trading_initial_balance"`
		SMAShortPeriod             int     `toml:"sma_short_period"`
		SMALongPeriod              int     `toml:"sma_long_period"`
		PriceHistoryLength         int     `toml:"price_history_length"`
	} `toml:"trading"`

	Storage struct {
		SQLitePath  string `toml:"sqlite_path"`
		PostgresDSN string `toml:"postgres_dsn"`
		RedisAddr   string `toml:"redis_addr"`
		RedisPrefix string `toml:"redis_prefix"`
	} `toml:"storage"`

	Exchange struct {
		RestURL   string `toml:"rest_url"`
		WsURL     string `toml:"ws_url"`
		APIKey    string `toml:"api_key"`
		APISecret string `toml:"api_secret"`
	} `toml:"exchange"`
}

func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.App.Mode == "" {
		cfg.App.Mode = "backtest"
	}
	if cfg.App.SummaryEveryMin <= 0 {
		cfg.App.SummaryEveryMin = 5
	}
	if len(cfg.Symbols.List) == 0 {
		cfg.Symbols.List = []string{"BTC/USDT"}
	}

	t := &cfg.Trading
	if t.MaxPositionSize == 0 {
		t.MaxPositionSize = 0.10
	}
	if t.MinPositionSize == 0 {
		t.MinPositionSize = 10
	}
	if t.MaxOpenPositions == 0 {
		t.MaxOpenPositions = 1
	}
	if t.StopLossPercentage == 0 {
		t.StopLossPercentage = 0.02
	}
	if t.TakeProfitPercentage == 0 {
		t.TakeProfitPercentage = 0.05
	}
	if t.MinimumConfidence == 0 {
		t.MinimumConfidence = 0.7
	}
	if t.SentimentThreshold == 0 {
		t.SentimentThreshold = 0.3
	}
	if t.SentimentPeriod == 0 {
		t.SentimentPeriod = 24
	}
	if t.PaperTradingInitialBalance == 0 {
		t.PaperTradingInitialBalance = 10000
	}
	if t.SMAShortPeriod == 0 {
		t.SMAShortPeriod = 7
	}
	if t.SMALongPeriod == 0 {
		t.SMALongPeriod = 25
	}
	if t.PriceHistoryLength == 0 {
		t.PriceHistoryLength = 24
	}
}

func validate(cfg *Config) error {
	if cfg.App.Mode != "backtest" && cfg.App.Mode != "paper" {
		return fmt.Errorf("app.mode must be backtest or paper, got %q", cfg.App.Mode)
	}

	cfg.Symbols.List = normalizeSymbols(cfg.Symbols.List)
	if len(cfg.Symbols.List) == 0 {
		return errors.New("symbols.list is empty")
	}

	t := &cfg.Trading
	if t.MaxPositionSize <= 0 || t.MaxPositionSize > 1 {
		return errors.New("trading.max_position_size must be in (0, 1]")
	}
	if t.MinPositionSize < 1 {
		return errors.New("trading.min_position_size must be at least 1 USD")
	}
	if t.MaxOpenPositions < 1 {
		return errors.New("trading.max_open_positions must be at least 1")
	}
	if t.StopLossPercentage <= 0 || t.StopLossPercentage > 0.5 {
		return errors.New("trading.stop_loss_percentage must be in (0, 0.5]")
	}
	if t.TakeProfitPercentage <= 0 || t.TakeProfitPercentage > 1 {
		return errors.New("trading.take_profit_percentage must be in (0, 1]")
	}
	if t.MinimumConfidence < 0.5 || t.MinimumConfidence > 1 {
		return errors.New("trading.minimum_confidence must be in [0.5, 1]")
	}
	if t.SentimentThreshold <= 0 || t.SentimentThreshold > 1 {
		return errors.New("trading.sentiment_threshold must be in (0, 1]")
	}
	if t.SentimentPeriod < 1 || t.SentimentPeriod > 72 {
		return errors.New("trading.sentiment_period must be between 1 and 72 hours")
	}
	if t.PaperTradingInitialBalance < 1000 {
		return errors.New("trading.paper_trading_initial_balance must be at least 1000 USD")
	}
	if t.SMAShortPeriod < 2 || t.SMAShortPeriod >= t.SMALongPeriod {
		return errors.New("trading.sma_short_period must be at least 2 and less than the long period")
	}
	if t.SMALongPeriod < 5 || t.SMALongPeriod > 200 {
		return errors.New("trading.sma_long_period must be between 5 and 200")
	}
	if t.PriceHistoryLength < 2 {
		return errors.New("trading.price_history_length must be at least 2")
	}

	if cfg.App.Mode == "paper" && strings.TrimSpace(cfg.Exchange.WsURL) == "" {
		return errors.New("exchange.ws_url required in paper mode")
	}
	return nil
}

func normalizeSymbols(in []string) []string {
	out := make([]string, 0, len(in))
	seen := map[string]struct{}{}
	for _, s := range in {
		u := strings.ToUpper(strings.TrimSpace(s))
		if u == "" {
			continue
		}
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}
