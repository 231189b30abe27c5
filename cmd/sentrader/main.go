package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"sentrader/internal/application/port"
	"sentrader/internal/application/service"
	"sentrader/internal/domain/history"
	"sentrader/internal/domain/indicator"
	"sentrader/internal/domain/model"
	"sentrader/internal/domain/sim"
	tradesignal "sentrader/internal/domain/signal"
	"sentrader/internal/infrastructure/config"
	"sentrader/internal/infrastructure/exchange"
	"sentrader/internal/infrastructure/logger"
	"sentrader/internal/infrastructure/sentiment"
	"sentrader/internal/infrastructure/storage/composite"
	"sentrader/internal/infrastructure/storage/memory"
	"sentrader/internal/infrastructure/storage/noop"
	"sentrader/internal/infrastructure/storage/postgres"
	redisstore "sentrader/internal/infrastructure/storage/redis"
	"sentrader/internal/infrastructure/storage/sqlite"
)

func main() {
	configPath := flag.String("config", "configs/config.toml", "path to config.toml")
	mode := flag.String("mode", "", "override app.mode (backtest or paper)")
	symbol := flag.String("symbol", "", "trade only this symbol, overriding the configured list")
	from := flag.String("from", "", "backtest start (RFC3339 or 2006-01-02)")
	to := flag.String("to", "", "backtest end (RFC3339 or 2006-01-02)")
	user := flag.String("user", "default", "paper trading account id")
	logLevel := flag.String("log-level", "info", "zerolog level")
	flag.Parse()

	logger.Setup(*logLevel)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Str("config", *configPath).Msg("load config failed")
	}
	if *mode != "" {
		cfg.App.Mode = *mode
	}
	if *symbol != "" {
		cfg.Symbols.List = []string{strings.ToUpper(*symbol)}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, cache := buildStorage(cfg)
	defer repo.Close()

	simCfg := sim.Config{
		MaxPositionSize:   cfg.Trading.MaxPositionSize,
		MinPositionSize:   cfg.Trading.MinPositionSize,
		MaxOpenPositions:  cfg.Trading.MaxOpenPositions,
		StopLossPct:       cfg.Trading.StopLossPercentage,
		TakeProfitPct:     cfg.Trading.TakeProfitPercentage,
		MinimumConfidence: cfg.Trading.MinimumConfidence,
	}

	gateway := exchange.NewClient(cfg.Exchange.RestURL, cfg.Exchange.APIKey, cfg.Exchange.APISecret)
	sentimentSvc := service.NewSentimentService(
		&sentiment.StaticSource{},
		sentiment.NewLexiconScorer(),
		cache,
		service.DefaultSentimentTTL,
	)

	log.Info().
		Str("config", *configPath).
		Str("mode", cfg.App.Mode).
		Int("symbols", len(cfg.Symbols.List)).
		Msg("sentrader started")

	switch cfg.App.Mode {
	case "backtest":
		runBacktest(ctx, cfg, simCfg, gateway, repo, cache, sentimentSvc, *from, *to)
	case "paper":
		runPaper(ctx, cfg, simCfg, repo, sentimentSvc, *user)
	}
}

func buildStorage(cfg *config.Config) (port.Repository, port.Cache) {
	var repos []port.Repository
	var cache port.Cache = memory.New()

	if cfg.Storage.SQLitePath != "" {
		r, err := sqlite.New(cfg.Storage.SQLitePath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.Storage.SQLitePath).Msg("open sqlite failed")
		}
		repos = append(repos, r)
	}
	if cfg.Storage.PostgresDSN != "" {
		r, err := postgres.New(cfg.Storage.PostgresDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("open postgres failed")
		}
		repos = append(repos, r)
	}
	if cfg.Storage.RedisAddr != "" {
		rdb := goredis.NewClient(&goredis.Options{Addr: cfg.Storage.RedisAddr})
		repos = append(repos, redisstore.New(rdb, cfg.Storage.RedisPrefix))
		cache = redisstore.NewCache(rdb, cfg.Storage.RedisPrefix)
	}

	if len(repos) == 0 {
		log.Warn().Msg("no storage backend configured, writes discarded")
		return noop.New(), cache
	}
	return composite.New(repos...), cache
}

func runBacktest(ctx context.Context, cfg *config.Config, simCfg sim.Config, gateway port.ExchangeGateway, repo port.Repository, cache port.Cache, sentimentSvc *service.SentimentService, from, to string) {
	fromMs, err := parseDate(from)
	if err != nil {
		log.Fatal().Err(err).Str("from", from).Msg("invalid -from")
	}
	toMs, err := parseDate(to)
	if err != nil {
		log.Fatal().Err(err).Str("to", to).Msg("invalid -to")
	}

	snap, err := sentimentSvc.Snapshot(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("sentiment snapshot failed")
	}

	svc := service.NewBacktestService(service.BacktestDeps{
		Gateway:            gateway,
		Repo:               repo,
		Cache:              cache,
		SimConfig:          simCfg,
		InitialBalance:     cfg.Trading.PaperTradingInitialBalance,
		WindowSize:         cfg.Trading.PriceHistoryLength,
		SMAShortPeriod:     cfg.Trading.SMAShortPeriod,
		SMALongPeriod:      cfg.Trading.SMALongPeriod,
		SentimentThreshold: cfg.Trading.SentimentThreshold,
	})

	for _, sym := range cfg.Symbols.List {
		result, err := svc.Run(ctx, service.BacktestRequest{
			Symbol:    sym,
			FromMs:    fromMs,
			ToMs:      toMs,
			Sentiment: []model.SentimentSnapshot{snap},
		})
		if err != nil {
			log.Error().Err(err).Str("symbol", sym).Msg("backtest failed")
			continue
		}
		log.Info().
			Str("symbol", sym).
			Int("trades", result.TotalTrades).
			Float64("profit_loss", result.ProfitLoss).
			Float64("win_rate", result.WinRate).
			Float64("max_drawdown", result.MaxDrawdown).
			Float64("sharpe", result.SharpeRatio).
			Msg("backtest result")
	}
}

func runPaper(ctx context.Context, cfg *config.Config, simCfg sim.Config, repo port.Repository, sentimentSvc *service.SentimentService, user string) {
	signalSvc := service.NewSignalService(
		history.NewTracker(cfg.Trading.PriceHistoryLength),
		indicator.NewAnalyzer(cfg.Trading.SMAShortPeriod, cfg.Trading.SMALongPeriod),
		tradesignal.NewCombiner(cfg.Trading.SentimentThreshold),
		repo,
	)
	paperSvc := service.NewPaperService(simCfg, cfg.Trading.PaperTradingInitialBalance, repo)

	feed := exchange.NewTickerFeed(cfg.Exchange.WsURL)
	ticks, err := feed.Subscribe(ctx, cfg.Symbols.List)
	if err != nil {
		log.Fatal().Err(err).Msg("subscribe ticker feed failed")
	}

	summary := time.NewTicker(time.Duration(cfg.App.SummaryEveryMin) * time.Minute)
	defer summary.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Warn().Msg("exit")
			return

		case <-summary.C:
			if s, ok := paperSvc.AccountSummary(user); ok {
				log.Info().
					Float64("balance", s.Balance).
					Int("open", s.OpenPositions).
					Int("trades", s.TotalTrades).
					Float64("profit_loss", s.ProfitLoss).
					Float64("win_rate", s.WinRate).
					Msg("paper account summary")
			}

		case t, ok := <-ticks:
			if !ok {
				log.Error().Msg("ticker feed closed")
				return
			}
			snap, err := sentimentSvc.Snapshot(ctx)
			if err != nil {
				log.Warn().Err(err).Msg("sentiment snapshot failed")
				continue
			}
			sig := signalSvc.Generate(ctx, t.Symbol, service.TickSample(t.Price, t.Ts), snap)
			paperSvc.ExecuteTrade(ctx, user, t.Symbol, sig, t.Price, t.Ts)
			paperSvc.MarkPrice(ctx, user, t.Price, t.Ts)
		}
	}
}

func parseDate(s string) (int64, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UnixMilli(), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return 0, err
	}
	return t.UnixMilli(), nil
}
