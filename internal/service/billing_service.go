package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lumenworks/studio-portal-backend/internal/config"
	"github.com/lumenworks/studio-portal-backend/internal/repository"
	"github.com/lumenworks/studio-portal-backend/internal/socket"
	"github.com/lumenworks/studio-portal-backend/internal/types"
)

// ============================================
// Billing Service
// ============================================

// WebhookEvent is the payload the external billing watcher posts after it
// fulfills a checkout or observes a subscription change upstream.
type WebhookEvent struct {
	Type              string `json:"type"`
	UID               string `json:"uid"`
	Plan              string `json:"plan"`
	Status            string `json:"status"`
	CheckoutSessionID string `json:"checkoutSessionId"`
	CurrentPeriodEnd  *int64 `json:"currentPeriodEnd"` // unix seconds
}

type BillingService interface {
	GetSubscription(ctx context.Context, uid string) (*repository.Subscription, error)
	CreateCheckout(ctx context.Context, uid, plan string) (*repository.CheckoutSession, error)
	GetCheckout(ctx context.Context, id string) (*repository.CheckoutSession, error)
	HandleWebhook(ctx context.Context, secret string, event WebhookEvent) error
}

type billingService struct {
	cfg         *config.Config
	billingRepo repository.BillingRepository
	broadcaster *socket.Broadcaster
}

func NewBillingService(cfg *config.Config, billingRepo repository.BillingRepository, broadcaster *socket.Broadcaster) BillingService {
	return &billingService{cfg: cfg, billingRepo: billingRepo, broadcaster: broadcaster}
}

// GetSubscription returns the stored subscription, or a synthetic free-plan
// record when the billing provider has never reported one.
func (s *billingService) GetSubscription(ctx context.Context, uid string) (*repository.Subscription, error) {
	sub, err := s.billingRepo.FindSubscription(ctx, uid)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return &repository.Subscription{UID: uid, Plan: "free", Status: types.SubActive}, nil
	}
	return sub, nil
}

// CreateCheckout records a pending checkout; the external watcher picks it
// up and reports the outcome through the webhook.
func (s *billingService) CreateCheckout(ctx context.Context, uid, plan string) (*repository.CheckoutSession, error) {
	if plan == "" {
		return nil, ErrInvalidInput
	}

	session := &repository.CheckoutSession{
		ID:     uuid.New().String(),
		UID:    uid,
		Plan:   plan,
		Status: types.CheckoutPending,
	}
	if err := s.billingRepo.CreateCheckoutSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	return session, nil
}

func (s *billingService) GetCheckout(ctx context.Context, id string) (*repository.CheckoutSession, error) {
	session, err := s.billingRepo.FindCheckoutSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrNotFound
	}
	return session, nil
}

func (s *billingService) HandleWebhook(ctx context.Context, secret string, event WebhookEvent) error {
	if s.cfg.BillingWebhookSecret == "" ||
		subtle.ConstantTimeCompare([]byte(secret), []byte(s.cfg.BillingWebhookSecret)) != 1 {
		return ErrUnauthorized
	}
	if event.UID == "" {
		return ErrInvalidInput
	}

	sub := &repository.Subscription{
		UID:    event.UID,
		Plan:   event.Plan,
		Status: event.Status,
	}
	if event.CurrentPeriodEnd != nil {
		t := time.Unix(*event.CurrentPeriodEnd, 0)
		sub.CurrentPeriodEnd = &t
	}

	if err := s.billingRepo.UpsertSubscription(ctx, sub); err != nil {
		return fmt.Errorf("failed to upsert subscription: %w", err)
	}

	if s.broadcaster != nil {
		s.broadcaster.SendSubscriptionUpdated(event.UID, map[string]interface{}{
			"plan":   sub.Plan,
			"status": sub.Status,
		})
	}

	return nil
}
