package service

import (
	"context"
	"errors"
	"math"

	"github.com/kubev2v/rack-planner/internal/store"
	"go.uber.org/zap"
)

const powerEpsilon = 1e-6

// PowerTracker keeps rack.currentPower equal to the power drawn by the rack's devices.
// It expects a transaction in ctx which already contains the device change.
type PowerTracker struct {
	store store.Store
}

func NewPowerTracker(s store.Store) *PowerTracker {
	return &PowerTracker{store: s}
}

// ApplyDelta adds delta to the rack power, never going below zero, and reconciles the
// result with the sum of the device consumptions. The sum wins on disagreement.
// A missing rack is logged and skipped.
func (p *PowerTracker) ApplyDelta(ctx context.Context, rackID string, delta float64) (float64, error) {
	rack, err := p.store.Rack().GetForUpdate(ctx, rackID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			zap.S().Named("power_tracker").Warnw("rack not found, skipping power update", "rack", rackID, "delta", delta)
			return 0, nil
		}
		return 0, err
	}

	expected := math.Max(0, rack.CurrentPower+delta)

	actual, err := p.store.Device().TotalPower(ctx, rackID)
	if err != nil {
		return 0, err
	}
	actual = math.Max(0, actual)

	if math.Abs(expected-actual) > powerEpsilon {
		zap.S().Named("power_tracker").Warnw("rack power drift corrected",
			"rack", rackID, "stored", rack.CurrentPower, "delta", delta, "expected", expected, "actual", actual)
	}

	if math.Abs(rack.CurrentPower-actual) <= powerEpsilon {
		return actual, nil
	}

	if err := p.store.Rack().UpdatePower(ctx, rackID, actual); err != nil {
		return 0, err
	}

	return actual, nil
}
