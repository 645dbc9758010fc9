// Package app wires the core components from one loaded configuration.
// Both entrypoints (HTTP server and CLI) build the same graph here.
package app

import (
	"fmt"

	"github.com/wonny/kisfolio/internal/domain/broker"
	"github.com/wonny/kisfolio/internal/infra/kis"
	"github.com/wonny/kisfolio/internal/infra/mockkis"
	"github.com/wonny/kisfolio/internal/infra/naver"
	"github.com/wonny/kisfolio/internal/infra/openai"
	"github.com/wonny/kisfolio/internal/pkg/config"
	"github.com/wonny/kisfolio/internal/service/brokerage"
	"github.com/wonny/kisfolio/internal/service/holdings"
	"github.com/wonny/kisfolio/internal/service/planner"
	"github.com/wonny/kisfolio/internal/service/quotes"
	"github.com/wonny/kisfolio/internal/service/report"
	"github.com/wonny/kisfolio/internal/service/scenario"
	"github.com/wonny/kisfolio/internal/service/weights"
)

// App holds the wired core components.
type App struct {
	Config    *config.Config
	Resolver  *brokerage.Resolver
	Quotes    *quotes.Service
	Weights   *weights.Engine
	Planner   *planner.Planner
	Scenarios *scenario.Service
	Book      *holdings.Book
	Reports   *report.Service
}

// New wires the application. The real KIS client is only constructed
// when credentials are present; resolving to real mode without them
// yields a ConfigError per request instead of failing startup, so mock
// mode always works with an empty environment.
func New(cfg *config.Config) (*App, error) {
	var real broker.Broker
	if cfg.KIS.AppKey != "" && cfg.KIS.AppSecret != "" && cfg.KIS.Account != "" {
		client, err := kis.NewClient(kis.Options{
			AppKey:    cfg.KIS.AppKey,
			AppSecret: cfg.KIS.AppSecret,
			Account:   cfg.KIS.Account,
			CustType:  cfg.KIS.CustType,
			BaseURL:   cfg.KIS.BaseURL,
			IsPaper:   cfg.KIS.Mode != "real",
			Timeout:   cfg.KIS.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("create KIS client: %w", err)
		}
		real = client
	}

	resolver := brokerage.NewResolver(cfg.KIS, mockkis.New(), real)
	quoteSvc := quotes.NewService(resolver, naver.NewClient(cfg.KIS.Timeout))
	book := holdings.NewBook()

	var gen report.Generator
	if cfg.Report.OpenAIKey != "" {
		gen = openai.NewClient(cfg.Report.OpenAIKey, cfg.Report.Model)
	}

	return &App{
		Config:    cfg,
		Resolver:  resolver,
		Quotes:    quoteSvc,
		Weights:   weights.NewEngine(),
		Planner:   planner.New(resolver),
		Scenarios: scenario.NewService(resolver),
		Book:      book,
		Reports:   report.NewService(book, quoteSvc, gen),
	}, nil
}
