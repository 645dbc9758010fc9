// Package brokerage decides which backend serves a request. All
// downstream code works against broker.Broker and never learns which
// variant it got.
package brokerage

import (
	"github.com/wonny/kisfolio/internal/domain/broker"
	"github.com/wonny/kisfolio/internal/pkg/config"
)

// Resolver selects the mock or real backend from the immutable KIS
// configuration. Pure function of the config; no side effects.
type Resolver struct {
	cfg  config.KISConfig
	mock broker.Broker
	real broker.Broker // nil when credentials were absent at startup
}

// NewResolver creates a resolver. real may be nil; resolving to real
// mode then fails with a ConfigError instead of a nil dereference.
func NewResolver(cfg config.KISConfig, mock, real broker.Broker) *Resolver {
	return &Resolver{cfg: cfg, mock: mock, real: real}
}

// Resolve picks the backend for one request. The mock flag wins
// unconditionally; any mode other than the exact literal "real" is
// mock-safe. Real mode without credentials fails before any network
// call is possible.
func (r *Resolver) Resolve() (broker.Mode, broker.Broker, error) {
	if !r.cfg.RealMode() {
		return broker.ModeMock, r.mock, nil
	}

	if err := r.checkCredentials(); err != nil {
		return broker.ModeReal, nil, err
	}
	return broker.ModeReal, r.real, nil
}

// Mode reports the resolved mode without a credential check.
func (r *Resolver) Mode() broker.Mode {
	if r.cfg.RealMode() {
		return broker.ModeReal
	}
	return broker.ModeMock
}

func (r *Resolver) checkCredentials() error {
	switch {
	case r.cfg.AppKey == "":
		return &broker.ConfigError{Field: "KIS_APP_KEY", Reason: "required in real mode"}
	case r.cfg.AppSecret == "":
		return &broker.ConfigError{Field: "KIS_APP_SECRET", Reason: "required in real mode"}
	case r.cfg.Account == "":
		return &broker.ConfigError{Field: "KIS_ACCOUNT", Reason: "required in real mode"}
	case r.real == nil:
		return &broker.ConfigError{Field: "KIS", Reason: "real client not initialized"}
	}
	return nil
}
