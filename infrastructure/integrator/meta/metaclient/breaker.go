package metaclient

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker/v2"
	"github.com/vfg2006/traffic-manager-ads/internal/config"
)

func newBreaker(cfg config.CircuitBreaker) *gobreaker.CircuitBreaker[*Response] {
	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}

	return gobreaker.NewCircuitBreaker[*Response](gobreaker.Settings{
		Name:        "meta-graph-api",
		MaxRequests: cfg.MaxRequests,
		Timeout:     cfg.Timeout(),
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logrus.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("metaclient: circuit breaker state changed")
		},
	})
}
