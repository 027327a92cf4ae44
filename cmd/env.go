package main

import (
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/bomadvisor/substitute-cli/internal/brand"
	"github.com/bomadvisor/substitute-cli/internal/history"
	"github.com/bomadvisor/substitute-cli/internal/recommend"
	"github.com/bomadvisor/substitute-cli/pkg/deepseek"
	"github.com/bomadvisor/substitute-cli/pkg/nexar"
)

// appEnv bundles the constructed clients and services shared by commands.
type appEnv struct {
	advisor *recommend.Advisor
	history *history.Store
}

// newAppEnv builds the client stack from the loaded config. The parts-search
// client is optional; without credentials the pipeline runs on the LLM
// alone.
func newAppEnv() (*appEnv, error) {
	if cfg.DeepSeek.Key == "" {
		return nil, eris.New("deepseek.key is required (set SUB_DEEPSEEK_KEY or config.yaml)")
	}

	llm := deepseek.NewClient(cfg.DeepSeek.Key,
		deepseek.WithBaseURL(cfg.DeepSeek.BaseURL),
		deepseek.WithModel(cfg.DeepSeek.Model),
		deepseek.WithRateLimit(cfg.DeepSeek.RateRPS, cfg.DeepSeek.RateBurst),
	)

	var parts nexar.Searcher
	if cfg.Nexar.ClientID != "" && cfg.Nexar.ClientSecret != "" {
		parts = nexar.NewClient(cfg.Nexar.ClientID, cfg.Nexar.ClientSecret,
			nexar.WithAPIURL(cfg.Nexar.APIURL),
			nexar.WithTokenURL(cfg.Nexar.TokenURL),
		)
	} else {
		zap.L().Warn("nexar credentials not configured, running without parts-search context")
	}

	tables := brand.DefaultTables()
	if cfg.Brand.TablesPath != "" {
		t, err := brand.LoadTables(cfg.Brand.TablesPath)
		if err != nil {
			return nil, err
		}
		tables = t
	}

	advisor := recommend.NewAdvisor(llm, parts, brand.New(tables),
		recommend.WithDemoData(cfg.Recommend.DemoData),
	)

	return &appEnv{
		advisor: advisor,
		history: history.NewStore(),
	}, nil
}
