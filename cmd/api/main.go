package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"regexp"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/lifebeyond/planner-api/internal/config"
	"github.com/lifebeyond/planner-api/internal/handler"
	"github.com/lifebeyond/planner-api/internal/integrations/rates"
	"github.com/lifebeyond/planner-api/internal/middleware"
	"github.com/lifebeyond/planner-api/internal/service"
	"github.com/lifebeyond/planner-api/internal/simulation"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	// Initialize layers
	src := rand.NewPCG(uint64(time.Now().UnixNano()), uint64(os.Getpid()))
	engine := simulation.NewEngine(logger, src)
	svc := service.NewService(engine, logger)
	ratesClient := rates.NewClient(cfg, logger)
	h := handler.NewHandler(svc, ratesClient, logger)

	// Setup router
	r := mux.NewRouter()
	r.HandleFunc("/", h.Root).Methods("GET")
	r.HandleFunc("/forecast-cash-flow/", h.ForecastCashFlow).Methods("POST")
	r.HandleFunc("/simulate", h.Simulate).Methods("POST")
	r.HandleFunc("/key-rate", h.KeyRate).Methods("GET")

	// Rate limiting with a cron janitor evicting idle client buckets
	limiter := middleware.NewRateLimiter(cfg.RatePerMinute, cfg.RateBurstPerSecond, cfg.TrustProxy, logger)
	janitor := cron.New()
	if _, err := janitor.AddFunc("@every 5m", func() {
		limiter.Cleanup(10 * time.Minute)
	}); err != nil {
		logger.Fatalf("Failed to schedule limiter cleanup: %v", err)
	}
	janitor.Start()
	defer janitor.Stop()

	// Middleware chain: HTTPS redirect -> trusted hosts -> CORS -> access
	// log -> rate limit -> router
	var chain http.Handler = limiter.Middleware(r)
	chain = handlers.CombinedLoggingHandler(logger.Writer(), chain)
	chain = handlers.CORS(
		handlers.AllowedOriginValidator(originValidator(cfg)),
		handlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		handlers.AllowCredentials(),
	)(chain)
	chain = middleware.TrustedHosts(cfg.TrustedHosts)(chain)
	chain = middleware.HTTPSRedirect(cfg.ForceHTTPS)(chain)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      chain,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Infof("Starting server on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	<-stop
	logger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Server shutdown failed: %v", err)
	}
}

// originValidator admits origins on the allow-list or matching the
// configured pattern.
func originValidator(cfg *config.Config) func(string) bool {
	var pattern *regexp.Regexp
	if cfg.AllowedOriginRegex != "" {
		pattern = regexp.MustCompile(cfg.AllowedOriginRegex)
	}
	return func(origin string) bool {
		for _, allowed := range cfg.AllowedOrigins {
			if origin == allowed {
				return true
			}
		}
		return pattern != nil && pattern.MatchString(origin)
	}
}
