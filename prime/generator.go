package prime

import (
	"math"

	"github.com/Felo0o0/PrimeSecure/blame"
	"github.com/Felo0o0/PrimeSecure/utils/constant"
	"github.com/Felo0o0/PrimeSecure/utils/random"
)

// Next returns the smallest prime greater than n.
func Next(n int) int {
	if n < 2 {
		return 2
	}
	for c := n + 1; c < math.MaxInt; c++ {
		if IsPrime(c) {
			return c
		}
	}
	return 0
}

// Previous returns the largest prime smaller than n.
func Previous(n int) (int, error) {
	for c := n - 1; c >= 2; c-- {
		if IsPrime(c) {
			return c, nil
		}
	}
	return 0, blame.NoPrimeInRangeError(0, n)
}

// RandomInRange draws a random prime in [min, max]. It samples crypto/rand a
// bounded number of times and then sweeps upward from min.
func RandomInRange(min, max int) (int, error) {
	if max < min {
		return 0, blame.InvalidRangeError(min, max)
	}
	lo := min
	if lo < 2 {
		lo = 2
	}
	if max < lo {
		return 0, blame.NoPrimeInRangeError(min, max)
	}

	for attempt := 0; attempt < constant.RandomPrimeAttempts; attempt++ {
		candidate, err := random.IntInRange(lo, max)
		if err != nil {
			break
		}
		if IsPrime(candidate) {
			return candidate, nil
		}
	}

	for c := lo; c <= max; c++ {
		if IsPrime(c) {
			return c, nil
		}
	}
	return 0, blame.NoPrimeInRangeError(min, max)
}
