package repository

import (
	"context"
	"fmt"
	"log"

	"github.com/jredh-dev/tripmarket/internal/fallback"
)

// Seed loads d into repo when repo holds no vendors or trips. It returns
// whether anything was written.
func Seed(ctx context.Context, repo Repository, d fallback.Dataset) (bool, error) {
	empty, err := repo.Empty(ctx)
	if err != nil {
		return false, fmt.Errorf("seed: %w", err)
	}
	if !empty {
		return false, nil
	}

	for _, v := range d.Vendors {
		if err := repo.PutVendor(ctx, v); err != nil {
			return false, fmt.Errorf("seed vendor %s: %w", v.ID, err)
		}
	}
	for _, t := range d.Trips {
		if err := repo.PutTrip(ctx, t); err != nil {
			return false, fmt.Errorf("seed trip %s: %w", t.ID, err)
		}
	}
	for _, c := range d.Campaigns {
		if err := repo.PutCampaign(ctx, c); err != nil {
			return false, fmt.Errorf("seed campaign %s: %w", c.ID, err)
		}
	}
	log.Printf("repository: seeded vendors=%d trips=%d campaigns=%d", len(d.Vendors), len(d.Trips), len(d.Campaigns))
	return true, nil
}
