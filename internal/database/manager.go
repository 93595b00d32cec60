// Package database owns the process-wide MongoDB connection.
package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"golang.org/x/sync/singleflight"

	"devevents/internal/domain"
)

// Defaults applied when Options leaves a field zero.
const (
	DefaultMaxPoolSize            uint64 = 10
	DefaultServerSelectionTimeout        = 5 * time.Second
)

// connectGrace is added on top of the server selection timeout for the dial,
// ping and setup of a single connection attempt.
const connectGrace = 5 * time.Second

// Options configures the connection.
type Options struct {
	URI                    string
	Database               string
	MaxPoolSize            uint64
	ServerSelectionTimeout time.Duration
}

// DialFunc opens a client and verifies it can reach the deployment.
type DialFunc func(ctx context.Context, opts *options.ClientOptions) (*mongo.Client, error)

// SetupFunc runs after each successful dial, before the client is handed out.
// A setup error fails the attempt like a dial error.
type SetupFunc func(ctx context.Context, db *mongo.Database) error

// Manager lazily connects to MongoDB and hands the same client to every caller.
//
// Lifecycle: uninitialized -> connecting -> ready. A failed attempt returns the
// manager to uninitialized so the next call dials again. Concurrent callers
// during connecting share the in-flight attempt. Build one Manager at startup
// and pass it to whatever needs the store.
type Manager struct {
	opts   Options
	dial   DialFunc
	setup  SetupFunc
	logger *slog.Logger

	group  singleflight.Group
	mu     sync.RWMutex
	client *mongo.Client
}

// NewManager returns a Manager that has not connected yet. setup may be nil.
func NewManager(opts Options, logger *slog.Logger, setup SetupFunc) *Manager {
	if opts.MaxPoolSize == 0 {
		opts.MaxPoolSize = DefaultMaxPoolSize
	}
	if opts.ServerSelectionTimeout <= 0 {
		opts.ServerSelectionTimeout = DefaultServerSelectionTimeout
	}
	return &Manager{
		opts:   opts,
		dial:   Dial,
		setup:  setup,
		logger: logger,
	}
}

// Dial connects with opts and pings the primary.
func Dial(ctx context.Context, opts *options.ClientOptions) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client, nil
}

// Database returns the application database, connecting on first use.
// Connection failures are reported as *domain.ConnectivityError.
func (m *Manager) Database(ctx context.Context) (*mongo.Database, error) {
	if c := m.cached(); c != nil {
		return c.Database(m.opts.Database), nil
	}
	v, err, _ := m.group.Do("connect", func() (any, error) {
		if c := m.cached(); c != nil {
			return c, nil
		}
		return m.connect(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*mongo.Client).Database(m.opts.Database), nil
}

// Connected reports whether a client is cached.
func (m *Manager) Connected() bool {
	return m.cached() != nil
}

// Ping checks the deployment is reachable, connecting first if needed.
func (m *Manager) Ping(ctx context.Context) error {
	db, err := m.Database(ctx)
	if err != nil {
		return err
	}
	if err := db.Client().Ping(ctx, readpref.Primary()); err != nil {
		return &domain.ConnectivityError{Err: err}
	}
	return nil
}

// Close disconnects the cached client, if any. The next Database call reconnects.
func (m *Manager) Close(ctx context.Context) error {
	m.mu.Lock()
	client := m.client
	m.client = nil
	m.mu.Unlock()
	if client == nil {
		return nil
	}
	return client.Disconnect(ctx)
}

func (m *Manager) cached() *mongo.Client {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.client
}

func (m *Manager) connect(ctx context.Context) (*mongo.Client, error) {
	if m.opts.URI == "" {
		return nil, &domain.ConnectivityError{Err: errors.New("missing MONGODB_URI environment variable")}
	}

	// The attempt is shared by every waiting caller, so it must not die with the first one's request.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.opts.ServerSelectionTimeout+connectGrace)
	defer cancel()

	clientOpts := options.Client().
		ApplyURI(m.opts.URI).
		SetMaxPoolSize(m.opts.MaxPoolSize).
		SetServerSelectionTimeout(m.opts.ServerSelectionTimeout)

	start := time.Now()
	client, err := m.dial(ctx, clientOpts)
	if err != nil {
		m.logger.Error("mongodb connect failed", "err", err, "duration_ms", time.Since(start).Milliseconds())
		return nil, &domain.ConnectivityError{Err: err}
	}
	if m.setup != nil {
		if err := m.setup(ctx, client.Database(m.opts.Database)); err != nil {
			_ = client.Disconnect(context.Background())
			m.logger.Error("mongodb setup failed", "err", err)
			return nil, &domain.ConnectivityError{Err: fmt.Errorf("setup: %w", err)}
		}
	}

	m.mu.Lock()
	m.client = client
	m.mu.Unlock()
	m.logger.Info("mongodb connected", "database", m.opts.Database, "duration_ms", time.Since(start).Milliseconds())
	return client, nil
}
