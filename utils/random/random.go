package random

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

// GenerateUUIDString generates a UUID string.
func GenerateUUIDString() string {
	return uuid.New().String()
}

// GenerateUUID generates a UUID.
func GenerateUUID() uuid.UUID {
	return uuid.New()
}

// IntInRange returns a uniformly random integer in [min, max] drawn from crypto/rand.
func IntInRange(min, max int) (int, error) {
	if max < min {
		return 0, fmt.Errorf("random: max %d is below min %d", max, min)
	}
	span := big.NewInt(int64(max) - int64(min) + 1)
	n, err := rand.Int(rand.Reader, span)
	if err != nil {
		return 0, fmt.Errorf("random: reading entropy: %w", err)
	}
	return min + int(n.Int64()), nil
}

// Intn returns a uniformly random integer in [0, n).
func Intn(n int) (int, error) {
	if n <= 0 {
		return 0, fmt.Errorf("random: n must be positive, got %d", n)
	}
	return IntInRange(0, n-1)
}

// Pick returns a random element of values.
func Pick[T any](values []T) (T, error) {
	var zero T
	idx, err := Intn(len(values))
	if err != nil {
		return zero, err
	}
	return values[idx], nil
}
