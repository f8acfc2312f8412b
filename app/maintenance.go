package app

import (
	"context"

	"github.com/Felo0o0/PrimeSecure/adapters/log"
	"github.com/Felo0o0/PrimeSecure/utils/constant"
	"github.com/Felo0o0/PrimeSecure/utils/schedule"
)

// SeedKeys adds n random primes to the keyring and announces the new ones.
func (a *App) SeedKeys(ctx context.Context, n int) ([]int, error) {
	added, err := a.keyring.Seed(ctx, n)
	if len(added) > 0 {
		size, _ := a.keyring.Len(ctx)
		a.publish(ctx, constant.EventKeyringSeeded, KeyringEvent{Added: added, Size: size})
	}
	return added, err
}

// RefillKeyring seeds the keyring back up to the configured seed count.
func (a *App) RefillKeyring(ctx context.Context) ([]int, error) {
	size, err := a.keyring.Len(ctx)
	if err != nil {
		return nil, err
	}
	missing := a.cfg.Keyring.SeedCount - size
	if missing <= 0 {
		return nil, nil
	}
	return a.SeedKeys(ctx, missing)
}

// RunMaintenance refills the keyring every keyring.refill_interval until ctx
// is done. It returns at once when the interval is 0.
func (a *App) RunMaintenance(ctx context.Context) error {
	interval := a.cfg.Keyring.RefillInterval
	if interval <= 0 {
		return nil
	}
	s := schedule.NewSchedule(
		schedule.ProcessorFunc(func(ctx context.Context) error {
			added, err := a.RefillKeyring(ctx)
			if len(added) > 0 {
				a.log.Info("keyring refilled", log.Ints("added", added))
			}
			return err
		}),
		schedule.WithName("keyring-refill"),
		schedule.WithInterval(interval),
		schedule.WithRunAtStart(),
		schedule.WithLogger(a.log.Named("schedule")))
	return s.Run(ctx)
}
