package vaultgate

// Config groups the tunables the Builder consumes. Zero values are filled
// from DefaultConfig; instances are treated as immutable after Build.
type Config struct {
	Password PasswordConfig
	Store    StoreConfig
}

/*
====================================
PASSWORD CONFIG
====================================
*/

// PasswordConfig selects the argon2id parameters for the credential vault.
type PasswordConfig struct {
	Memory      uint32
	Time        uint32
	Parallelism uint8
	KeyLength   uint32
}

/*
====================================
STORE CONFIG
====================================
*/

// StoreConfig shapes the storage backend the Builder constructs when the
// caller does not supply one. MaxIdentities bounds the number of distinct
// registered identities (<= 0 means unbounded); registrations of new
// identities beyond the bound are rejected with store.ErrCapacityExceeded.
type StoreConfig struct {
	MaxIdentities int
	RedisPrefix   string
}

// DefaultConfig returns the baseline configuration.
func DefaultConfig() Config {
	return Config{
		Password: PasswordConfig{
			Memory:      64 * 1024,
			Time:        3,
			Parallelism: 2,
			KeyLength:   32,
		},
		Store: StoreConfig{
			MaxIdentities: 0,
			RedisPrefix:   "vg",
		},
	}
}
