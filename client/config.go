package client

import (
	"log/slog"
	"time"

	"github.com/edgeo-scada/uacore/pkg/transport"
	"github.com/edgeo-scada/uacore/pkg/ua"
)

// Configuration is immutable after New returns; nothing in the client
// mutates it, matching the spec's "immutable after client creation" rule.
type Configuration struct {
	SyncTimeout                time.Duration
	SecureChannelLifetime      time.Duration
	LocalConnectionConfig      transport.Config
	ConnectionFactory          transport.Factory
	CustomTypeDescriptors      []ua.TypeDescriptor
	StateCallback              func(State)
	OutstandingPublishRequests int
	MaxOutstandingOperations   int
	ReentrancyLimit            int
	ApplicationURI             string
	ApplicationName            string
	Logger                     *slog.Logger
	Metrics                    *Metrics
}

// Option configures a Configuration, following the functional-options
// pattern the client this core replaces used for its own options.
type Option func(*Configuration)

func defaultConfiguration() *Configuration {
	return &Configuration{
		SyncTimeout:                5 * time.Second,
		SecureChannelLifetime:      10 * time.Minute,
		LocalConnectionConfig:      transport.DefaultConfig(),
		ConnectionFactory:          transport.DialTCP,
		ReentrancyLimit:            DefaultReentrancyLimit,
		OutstandingPublishRequests: 0,
		ApplicationName:            "uacore client",
		Logger:                     slog.Default(),
	}
}

// WithSyncTimeout overrides the deadline for a synchronous service call.
func WithSyncTimeout(d time.Duration) Option {
	return func(c *Configuration) { c.SyncTimeout = d }
}

// WithSecureChannelLifetime overrides the requested channel lifetime.
func WithSecureChannelLifetime(d time.Duration) Option {
	return func(c *Configuration) { c.SecureChannelLifetime = d }
}

// WithConnectionFactory overrides how the client opens its transport.
func WithConnectionFactory(f transport.Factory) Option {
	return func(c *Configuration) { c.ConnectionFactory = f }
}

// WithLocalConnectionConfig overrides transport buffer/chunk limits.
func WithLocalConnectionConfig(cfg transport.Config) Option {
	return func(c *Configuration) { c.LocalConnectionConfig = cfg }
}

// WithCustomTypeDescriptor registers an application-supplied extension
// type descriptor addressable by its own binary type id.
func WithCustomTypeDescriptor(d ua.TypeDescriptor) Option {
	return func(c *Configuration) { c.CustomTypeDescriptors = append(c.CustomTypeDescriptors, d) }
}

// WithStateCallback registers an observer invoked synchronously, in
// transition order, on every state change.
func WithStateCallback(fn func(State)) Option {
	return func(c *Configuration) { c.StateCallback = fn }
}

// WithOutstandingPublishRequests sets how many Publish requests the
// subscription pump keeps in flight once a session exists. 0 disables
// the pump.
func WithOutstandingPublishRequests(n int) Option {
	return func(c *Configuration) { c.OutstandingPublishRequests = n }
}

// WithReentrancyLimit overrides the default nested-pump depth of 4.
func WithReentrancyLimit(n int) Option {
	return func(c *Configuration) { c.ReentrancyLimit = n }
}

// WithMaxOutstandingOperations overrides the number of requests the
// multiplexer allows in flight at once. CreateSessionResponse carries no
// operation-count limit on the wire (only MaxRequestMessageSize, a
// per-message size cap unrelated to concurrency); a server's actual
// OperationLimits live under the Server object and require an explicit
// Read after session activation. Callers that know their server's limit
// ahead of time should set it here rather than rely on the local default.
func WithMaxOutstandingOperations(n int) Option {
	return func(c *Configuration) { c.MaxOutstandingOperations = n }
}

// WithApplicationDescription overrides the ApplicationDescription the
// client presents during CreateSession.
func WithApplicationDescription(uri, name string) Option {
	return func(c *Configuration) { c.ApplicationURI = uri; c.ApplicationName = name }
}

// WithLogger overrides the default slog.Default() sink.
func WithLogger(l *slog.Logger) Option {
	return func(c *Configuration) { c.Logger = l }
}

// WithMetrics attaches a Metrics instance so the client's counters and
// histograms are registered against a caller-owned prometheus.Registerer
// instead of the default global one.
func WithMetrics(m *Metrics) Option {
	return func(c *Configuration) { c.Metrics = m }
}
