package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	app "github.com/krewshul/pyxchange/internal/app/engine"
	"github.com/krewshul/pyxchange/internal/app/matcher"
	orderbookv1 "github.com/krewshul/pyxchange/internal/domain/orderbook/v1"
	marketdata "github.com/krewshul/pyxchange/internal/usecase/market-data"
	"github.com/krewshul/pyxchange/internal/usecase/metrics"
	orderreader "github.com/krewshul/pyxchange/internal/usecase/order-reader"
	"github.com/krewshul/pyxchange/internal/usecase/orderbook"
	reportpublisher "github.com/krewshul/pyxchange/internal/usecase/report-publisher"
	"github.com/krewshul/pyxchange/internal/usecase/trader"
	wsfeed "github.com/krewshul/pyxchange/internal/usecase/ws-feed"
	"github.com/krewshul/pyxchange/pkg/config"
	"github.com/krewshul/pyxchange/pkg/httplib/healthcheck"
	"github.com/krewshul/pyxchange/pkg/logger"
	"github.com/krewshul/pyxchange/pkg/redis"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var cfg *config.Config
var log *logger.Logger

func init() {
	var err error
	cfg = &config.Config{}
	err = config.Load(cfg)
	if err != nil {
		panic(err)
	}

	logger, err := logger.NewLogger(logger.WithLoggingLevel(logger.Level(cfg.LogLevel)))
	if err != nil {
		panic(err)
	}

	log = logger
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	redisConfig := redis.DefaultConfig()
	redisConfig.Addrs = cfg.RedisConfig.Addrs
	redisConfig.Password = cfg.RedisConfig.Password
	redisConfig.Username = cfg.RedisConfig.Username
	redisConfig.DB = cfg.RedisConfig.DB
	if len(redisConfig.Addrs) > 1 {
		redisConfig.Mode = redis.Cluster
	}
	rclient := redis.NewClient(log, redisConfig)

	if err := rclient.Connect(ctx); err != nil {
		log.Error(err, logger.NewField("action", "connect_redis"))
		return
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	mtr := metrics.New(reg)

	bookOptions := orderbook.DefaultOptions()
	bookOptions.Instrument = cfg.Instrument
	m := matcher.NewMatcherWithOptions(log, bookOptions)
	depth := marketdata.NewClient("redis", rclient, cfg.RedisConfig.Channel, cfg.Instrument, log)
	m.AddClient(mtr.Client(depth))
	feed := wsfeed.NewFeed(m, log, wsfeed.DefaultOptions())

	oReader := orderreader.NewReader(cfg.KafkaConfig, log)
	rPublisher := reportpublisher.NewPublisher(cfg.KafkaConfig, log)
	outbox := trader.NewOutbox(rPublisher, log, trader.DefaultOutboxSize)
	newTrader := trader.NewFactory(outbox)

	options := app.DefaultEngineOptions()
	options.Metrics = mtr
	engine := app.NewEngineWithOptions(
		m,
		oReader,
		func(id string) orderbookv1.Trader { return mtr.Trader(newTrader(id)) },
		log,
		cfg,
		options,
	)

	if err := engine.Start(ctx); err != nil {
		log.Error(err, logger.NewField("action", "start_engine"))
		return
	}

	server := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: healthcheck.HealthCheck{
			Probes:  map[string]healthcheck.Probe{"redis": rclient.Ping},
			Timeout: 2 * time.Second,
		}.Handler(routes(depth, feed, reg)),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(err, logger.NewField("action", "serve_http"))
		}
	}()

	log.Info("Matching service started successfully",
		logger.NewField("instrument", cfg.Instrument),
		logger.NewField("http", cfg.HTTPAddr),
	)

	sig := <-sigChan
	log.Info("Received shutdown signal", logger.NewField("signal", sig.String()))

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error(err, logger.NewField("action", "stop_http"))
	}
	feed.Close()

	if err := engine.Stop(shutdownCtx); err != nil {
		log.Error(err, logger.NewField("action", "stop_engine"))
	}
	outbox.Close()
	depth.Close()

	if err := rPublisher.Close(); err != nil {
		log.Error(err, logger.NewField("action", "close_report_publisher"))
	}

	if err := rclient.Disconnect(shutdownCtx); err != nil {
		log.Error(err, logger.NewField("action", "close_redis_client"))
	}

	log.Info("Matching service shutdown complete")
	_ = log.Sync()
}

// routes serves the WebSocket feed on /ws, Prometheus metrics on /metrics and
// GET /depth?side=BUY|SELL from the stored depth.
func routes(depth *marketdata.Client, feed *wsfeed.Feed, reg *prometheus.Registry) http.Handler {
	type level struct {
		Price    json.Number `json:"price"`
		Quantity int64       `json:"quantity"`
	}

	mux := http.NewServeMux()
	mux.Handle("/ws", feed)
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.HandleFunc("GET /depth", func(w http.ResponseWriter, r *http.Request) {
		side, ok := orderbookv1.ParseSide(r.URL.Query().Get("side"))
		if !ok {
			http.Error(w, orderbookv1.TextWrongSide, http.StatusBadRequest)
			return
		}

		levels, err := depth.Depth(r.Context(), side)
		if err != nil {
			log.ErrorContext(r.Context(), err, logger.NewField("action", "read_depth"))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		body := make([]level, 0, len(levels))
		for _, l := range levels {
			body = append(body, level{Price: json.Number(l.Price.String()), Quantity: l.Quantity})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(body)
	})
	return mux
}
