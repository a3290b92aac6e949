package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/meteoagente/weathertool/internal/config"
	"github.com/meteoagente/weathertool/internal/gazetteer"
	"github.com/meteoagente/weathertool/internal/weather"
	"github.com/meteoagente/weathertool/internal/weather/openmeteo"
)

// One-shot lookups: each city argument becomes one facade call, and its
// JSON payload is printed on its own line. Logs go to stderr so stdout
// stays pipeable.
func main() {
	csvPath := flag.String("csv", "", "override the gazetteer dataset path")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: weathertool-cli [-csv file] CITY [CITY...]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if *csvPath != "" {
		cfg.DatasetPath = *csvPath
	}

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

	tool := weather.NewTool(idx, meteo)

	for _, city := range flag.Args() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.UpstreamTimeout+2*time.Second)
		fmt.Println(tool.GetWeather(ctx, city))
		cancel()
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
