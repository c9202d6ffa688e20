package vaultgate

import (
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/vaultgate/vaultgate/faultinject"
	"github.com/vaultgate/vaultgate/password"
	"github.com/vaultgate/vaultgate/store"
)

// Builder assembles an Engine. Construction is allocation-only; no I/O
// happens until the Engine's methods are called.
type Builder struct {
	config   Config
	store    store.Store
	redis    redis.UniversalClient
	injector *faultinject.Injector

	built bool
}

// New returns a Builder seeded with DefaultConfig.
func New() *Builder {
	return &Builder{config: DefaultConfig()}
}

// WithConfig replaces the configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithStore supplies an explicit storage backend. Mutually exclusive with
// WithRedis.
func (b *Builder) WithStore(s store.Store) *Builder {
	b.store = s
	return b
}

// WithRedis makes Build construct a store.RedisStore on client, using the
// configured prefix and identity bound.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithInjector wraps the storage backend in a fault-injecting decorator
// consulting inj. Intended for tests and the simulation checker.
func (b *Builder) WithInjector(inj *faultinject.Injector) *Builder {
	b.injector = inj
	return b
}

// Build validates the configuration and returns a ready Engine. Without
// WithStore or WithRedis the engine runs on an in-memory store honoring
// Config.Store.MaxIdentities.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}
	if b.store != nil && b.redis != nil {
		return nil, errors.New("WithStore and WithRedis are mutually exclusive")
	}

	vault, err := password.NewVault(password.Config{
		Memory:      b.config.Password.Memory,
		Time:        b.config.Password.Time,
		Parallelism: b.config.Password.Parallelism,
		KeyLength:   b.config.Password.KeyLength,
	})
	if err != nil {
		return nil, err
	}

	st := b.store
	switch {
	case st != nil:
	case b.redis != nil:
		st = store.NewRedisStore(b.redis, b.config.Store.RedisPrefix, b.config.Store.MaxIdentities)
	default:
		st = store.NewMemoryStore(b.config.Store.MaxIdentities)
	}
	if b.injector != nil {
		st = faultinject.Wrap(st, b.injector)
	}

	b.built = true
	return &Engine{
		store:   st,
		vault:   vault,
		metrics: NewMetrics(),
	}, nil
}
