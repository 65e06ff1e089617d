package cartsession

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sgiraldob/vitrina-backend/pkg/logger"
	"github.com/sgiraldob/vitrina-backend/pkg/redis"
)

// DefaultTTL is how long an anonymous fingerprint stays bound to an order.
const DefaultTTL = 30 * 24 * time.Hour

type store interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	CartOrderKey(fingerprint, tenantID string) string
}

// Service maintains the fingerprint -> active order index for anonymous
// storefront carts. The index is a convenience lookup, not the source of
// truth, so every write degrades gracefully when Redis is unavailable.
type Service struct {
	store store
	logg  *logger.Logger
	ttl   time.Duration
}

// NewService builds the cart session index on top of the shared Redis client.
func NewService(client *redis.Client, logg *logger.Logger) (*Service, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Service{store: client, logg: logg, ttl: DefaultTTL}, nil
}

// Attach binds the fingerprint to the order for this tenant. Failures are
// logged and swallowed so a Redis outage never blocks order creation.
func (s *Service) Attach(ctx context.Context, fingerprint string, tenantID, orderID uuid.UUID) {
	if fingerprint == "" || tenantID == uuid.Nil || orderID == uuid.Nil {
		return
	}
	key := s.store.CartOrderKey(fingerprint, tenantID.String())
	if err := s.store.Set(ctx, key, orderID.String(), s.ttl); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "cart index attach failed")
	}
}

// ActiveOrder returns the order bound to the fingerprint for this tenant, or
// uuid.Nil when none is known. Lookup errors degrade to "no active order".
func (s *Service) ActiveOrder(ctx context.Context, fingerprint string, tenantID uuid.UUID) uuid.UUID {
	if fingerprint == "" || tenantID == uuid.Nil {
		return uuid.Nil
	}
	key := s.store.CartOrderKey(fingerprint, tenantID.String())
	raw, err := s.store.Get(ctx, key)
	if err != nil {
		if !redis.IsNil(err) {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "cart index lookup failed")
		}
		return uuid.Nil
	}
	orderID, err := uuid.Parse(raw)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "cart index holds malformed order id")
		return uuid.Nil
	}
	return orderID
}

// Detach drops the fingerprint binding, typically after the order reaches a
// terminal state. Best effort, same as Attach.
func (s *Service) Detach(ctx context.Context, fingerprint string, tenantID uuid.UUID) {
	if fingerprint == "" || tenantID == uuid.Nil {
		return
	}
	key := s.store.CartOrderKey(fingerprint, tenantID.String())
	if err := s.store.Del(ctx, key); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "cart index detach failed")
	}
}
