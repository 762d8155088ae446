package entitlementkit

import (
	"context"
	"log/slog"

	"github.com/quicknotehq/entitlementkit/pkg/analytics"
	"github.com/quicknotehq/entitlementkit/pkg/billing"
	"github.com/quicknotehq/entitlementkit/pkg/catalog"
	"github.com/quicknotehq/entitlementkit/pkg/entitlement"
	"github.com/quicknotehq/entitlementkit/pkg/kv"
	"github.com/quicknotehq/entitlementkit/pkg/limits"
	"github.com/quicknotehq/entitlementkit/pkg/trial"
)

// Kit is the fully wired engine: entitlements, trials, and usage limits
// sharing one store and one analytics sink.
type Kit struct {
	Entitlements *entitlement.Engine
	Trials       *trial.Service
	Limits       *limits.Service
}

// Option configures optional Kit dependencies.
type Option func(*options)

type options struct {
	log        *slog.Logger
	sink       analytics.Sink
	catalog    *catalog.Catalog
	trials     *catalog.TrialCatalog
	debugBuild bool
}

// WithLogger sets the logger passed to every component.
func WithLogger(log *slog.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithAnalytics sets the sink trial lifecycle events are tracked to.
// Defaults to a no-op sink.
func WithAnalytics(sink analytics.Sink) Option {
	return func(o *options) { o.sink = sink }
}

// WithCatalog overrides the built-in feature catalog.
func WithCatalog(cat *catalog.Catalog) Option {
	return func(o *options) { o.catalog = cat }
}

// WithTrialCatalog overrides the built-in trial offer catalog.
func WithTrialCatalog(tc catalog.TrialCatalog) Option {
	return func(o *options) { o.trials = &tc }
}

// WithDebugBuild enables the developer premium override on the
// entitlement engine.
func WithDebugBuild() Option {
	return func(o *options) { o.debugBuild = true }
}

// New wires the standard arrangement: the billing provider feeds the
// entitlement engine, the engine gates the limits service, and the trial
// service shares the same store and sink.
func New(ctx context.Context, store kv.Store, provider billing.Provider, opts ...Option) (*Kit, error) {
	o := options{
		log:     slog.Default(),
		sink:    analytics.Noop{},
		catalog: catalog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	engineOpts := []entitlement.Option{entitlement.WithLogger(o.log)}
	if o.debugBuild {
		engineOpts = append(engineOpts, entitlement.WithDebugBuild())
	}
	engine, err := entitlement.New(ctx, o.catalog, provider, store, engineOpts...)
	if err != nil {
		return nil, err
	}
	// The provider handed to New is already answering, so re-validate the
	// persisted cache right away. Hosts with a late-initializing billing
	// signal wire the engine directly and call Refresh themselves.
	engine.Refresh(ctx)

	trialOpts := []trial.Option{trial.WithLogger(o.log)}
	if o.trials != nil {
		trialOpts = append(trialOpts, trial.WithTrialCatalog(*o.trials))
	}
	trials, err := trial.NewService(ctx, store, o.sink, trialOpts...)
	if err != nil {
		_ = engine.Close()
		return nil, err
	}

	return &Kit{
		Entitlements: engine,
		Trials:       trials,
		Limits:       limits.NewService(o.catalog, engine),
	}, nil
}

// Close releases the kit's subscriptions. The store is owned by the caller
// and is not closed.
func (k *Kit) Close() error {
	return k.Entitlements.Close()
}
