package keyring

import (
	"context"

	"github.com/Felo0o0/PrimeSecure/adapters/log"
	"github.com/Felo0o0/PrimeSecure/blame"
	"github.com/Felo0o0/PrimeSecure/prime"
	"github.com/Felo0o0/PrimeSecure/utils/constant"
)

// Keyring validates keys before they reach the store and seeds it with random primes.
type Keyring struct {
	store     Store
	min, max  int
	seedCount int
	scanner   *prime.Scanner
	log       *log.Log
}

// Option configures a Keyring.
type Option func(*Keyring)

// WithBounds sets the range random keys are drawn from.
func WithBounds(min, max int) Option {
	return func(k *Keyring) {
		k.min, k.max = min, max
	}
}

// WithSeedCount sets how many keys Seed adds by default.
func WithSeedCount(n int) Option {
	return func(k *Keyring) {
		if n > 0 {
			k.seedCount = n
		}
	}
}

// WithScanner sets the scanner used by SeedFromScan.
func WithScanner(scanner *prime.Scanner) Option {
	return func(k *Keyring) {
		if scanner != nil {
			k.scanner = scanner
		}
	}
}

// WithLogger sets the keyring logger.
func WithLogger(logger *log.Log) Option {
	return func(k *Keyring) {
		if logger != nil {
			k.log = logger
		}
	}
}

// New wraps store. A nil store gets a MemoryStore.
func New(store Store, opts ...Option) *Keyring {
	if store == nil {
		store = NewMemoryStore()
	}
	k := &Keyring{
		store:     store,
		min:       constant.DefaultKeyMin,
		max:       constant.DefaultKeyMax,
		seedCount: constant.DefaultKeySeedCount,
		log:       log.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(k)
	}
	if k.scanner == nil {
		k.scanner = prime.NewScanner(nil)
	}
	return k
}

// Bounds returns the range random keys are drawn from.
func (k *Keyring) Bounds() (int, int) {
	return k.min, k.max
}

// Add stores key. Non-prime keys are rejected with KeyNotPrime.
func (k *Keyring) Add(ctx context.Context, key int) (bool, error) {
	if !prime.IsPrime(key) {
		return false, blame.KeyNotPrimeError(key)
	}
	return k.store.Add(ctx, key)
}

// Remove deletes key and reports whether it was present.
func (k *Keyring) Remove(ctx context.Context, key int) (bool, error) {
	return k.store.Remove(ctx, key)
}

// Contains reports whether key is stored.
func (k *Keyring) Contains(ctx context.Context, key int) (bool, error) {
	return k.store.Contains(ctx, key)
}

// List returns all keys in ascending order.
func (k *Keyring) List(ctx context.Context) ([]int, error) {
	return k.store.List(ctx)
}

// Len returns the number of stored keys.
func (k *Keyring) Len(ctx context.Context) (int, error) {
	return k.store.Len(ctx)
}

// Random picks a stored key; KeyringEmpty when there is none.
func (k *Keyring) Random(ctx context.Context) (int, error) {
	return k.store.Random(ctx)
}

// RandomOrGenerate picks a stored key, or generates and stores one when the keyring is empty.
func (k *Keyring) RandomOrGenerate(ctx context.Context) (int, error) {
	key, err := k.store.Random(ctx)
	if err == nil || !blame.HasCode(err, blame.ErrorKeyringEmpty) {
		return key, err
	}
	key, err = prime.RandomInRange(k.min, k.max)
	if err != nil {
		return 0, err
	}
	if _, err := k.store.Add(ctx, key); err != nil {
		return 0, err
	}
	return key, nil
}

// Seed adds n random primes from the keyring bounds, or the configured count
// when n <= 0. It returns the keys that were new.
func (k *Keyring) Seed(ctx context.Context, n int) ([]int, error) {
	if n <= 0 {
		n = k.seedCount
	}
	added := make([]int, 0, n)
	// the range may hold fewer primes than requested
	for attempts := 0; len(added) < n && attempts < n*10; attempts++ {
		if err := ctx.Err(); err != nil {
			return added, blame.CancelledError(constant.OpSeed, err)
		}
		key, err := prime.RandomInRange(k.min, k.max)
		if err != nil {
			return added, err
		}
		isNew, err := k.store.Add(ctx, key)
		if err != nil {
			return added, err
		}
		if isNew {
			added = append(added, key)
		}
	}

	k.log.Info("keyring seeded", log.Int("requested", n), log.Ints("added", added))
	return added, nil
}

// SeedFromScan adds every prime of r found by a parallel scan.
func (k *Keyring) SeedFromScan(ctx context.Context, r prime.Range, workers int) (int, error) {
	res, err := k.scanner.Scan(ctx, r, workers)
	if err != nil {
		return 0, err
	}
	added := 0
	for _, p := range res.Primes {
		isNew, err := k.store.Add(ctx, p)
		if err != nil {
			return added, err
		}
		if isNew {
			added++
		}
	}
	k.log.Info("keyring seeded from scan",
		log.Int("start", r.Start), log.Int("end", r.End), log.Int("added", added))
	return added, nil
}

// Close releases the store.
func (k *Keyring) Close() error {
	return k.store.Close()
}
