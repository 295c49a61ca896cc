package services

import (
	"context"
	"delivery-estimate-service/internal/domain"
	"delivery-estimate-service/internal/platform/obs"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

type BatchEstimate struct {
	Customer domain.Customer
	Result   domain.EstimateResult
}

// EstimateBatch estimates every customer against the same facility set using at
// most workers goroutines. Output order matches input order.
//
// The first failing customer cancels the remaining work and its error is returned.
func EstimateBatch(
	ctx context.Context,
	est *Estimator,
	customers []domain.Customer,
	facilities []domain.Facility,
	workers int,
) (_ []BatchEstimate, err error) {
	defer obs.Time(ctx, "services.EstimateBatch")(&err)

	if est == nil {
		return nil, fmt.Errorf("estimate batch: estimator must be non-nil")
	}

	if len(customers) == 0 {
		return []BatchEstimate{}, nil
	}

	if workers < 1 {
		workers = runtime.NumCPU()
	}

	out := make([]BatchEstimate, len(customers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, c := range customers {
		if gctx.Err() != nil {
			break
		}

		i, c := i, c
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			res, err := est.Estimate(c.Location, facilities, c.Subtotal)
			if err != nil {
				return fmt.Errorf("estimate batch: customer %q: %w", c.ID, err)
			}

			out[i] = BatchEstimate{Customer: c, Result: res}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("estimate batch: %w", err)
	}

	return out, nil
}

// WithDefaultSubtotal returns a copy of customers where every customer without
// a subtotal of its own gets subtotal. Explicit subtotals, including 0, are kept.
func WithDefaultSubtotal(customers []domain.Customer, subtotal float64) []domain.Customer {
	out := make([]domain.Customer, len(customers))
	for i, c := range customers {
		if !c.HasSubtotal {
			c.Subtotal = subtotal
			c.HasSubtotal = true
		}
		out[i] = c
	}
	return out
}
