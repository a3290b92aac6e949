package main

import (
	"context"
	"flag"
	"log"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/meteoagente/weathertool/internal/api/mcptool"
	"github.com/meteoagente/weathertool/internal/config"
	"github.com/meteoagente/weathertool/internal/gazetteer"
	"github.com/meteoagente/weathertool/internal/store"
	"github.com/meteoagente/weathertool/internal/weather"
	"github.com/meteoagente/weathertool/internal/weather/openmeteo"
)

func main() {
	httpAddr := flag.String("http", "", "serve MCP over streamable HTTP on this address instead of stdio")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Logs go to stderr either way, keeping stdout free for the stdio
	// transport.
	logger, err := newLogger(cfg.AppEnv)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	idx, err := gazetteer.LoadIndex(logger, cfg.DatasetPath)
	if err != nil {
		logger.Fatal("failed to load gazetteer dataset", zap.Error(err))
	}

	httpClient := &http.Client{
		Timeout: cfg.UpstreamTimeout,
	}
	meteo := openmeteo.NewClient(logger, httpClient, cfg.OpenMeteoBaseURL)
	history := store.NewMemoryStore(cfg.HistoryMaxEntries, cfg.HistoryMaxAge)
	service := weather.NewService(logger, idx, meteo, history)

	server := mcptool.NewServer(service)

	if *httpAddr != "" {
		handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
			return server
		}, nil)

		logger.Info("serving MCP over streamable HTTP", zap.String("addr", *httpAddr))
		if err := http.ListenAndServe(*httpAddr, handler); err != nil {
			logger.Fatal("mcp http server stopped", zap.Error(err))
		}
		return
	}

	logger.Info("serving MCP over stdio")
	if err := server.Run(context.Background(), &mcp.StdioTransport{}); err != nil {
		logger.Fatal("mcp server terminated", zap.Error(err))
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
