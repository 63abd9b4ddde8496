package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lumenworks/studio-portal-backend/internal/config"
	"github.com/lumenworks/studio-portal-backend/internal/email"
	"github.com/lumenworks/studio-portal-backend/internal/repository"
	"github.com/lumenworks/studio-portal-backend/internal/types"
)

// ============================================
// Invite Service
// ============================================

const inviteTTL = 7 * 24 * time.Hour

type InviteService interface {
	Create(ctx context.Context, emailAddr, role string, inviter *repository.Profile) (*repository.Invite, error)
	List(ctx context.Context) ([]*repository.Invite, error)
	Revoke(ctx context.Context, id string) error
}

type inviteService struct {
	cfg         *config.Config
	inviteRepo  repository.InviteRepository
	profileRepo repository.ProfileRepository
	emailSvc    *email.Service
}

func NewInviteService(cfg *config.Config, inviteRepo repository.InviteRepository, profileRepo repository.ProfileRepository, emailSvc *email.Service) InviteService {
	return &inviteService{cfg: cfg, inviteRepo: inviteRepo, profileRepo: profileRepo, emailSvc: emailSvc}
}

func (s *inviteService) Create(ctx context.Context, emailAddr, role string, inviter *repository.Profile) (*repository.Invite, error) {
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))
	if emailAddr == "" || !types.IsValidRole(role) {
		return nil, ErrInvalidInput
	}

	existing, err := s.profileRepo.FindByEmail(ctx, emailAddr)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrConflict
	}

	pending, err := s.inviteRepo.FindPendingByEmail(ctx, emailAddr)
	if err != nil {
		return nil, err
	}
	if pending != nil {
		return nil, ErrInviteExists
	}

	invite := &repository.Invite{
		Email:     emailAddr,
		Role:      role,
		Token:     uuid.New().String(),
		Status:    types.InvitePending,
		ExpiresAt: time.Now().Add(inviteTTL),
	}
	if inviter != nil {
		invite.CreatedBy = &inviter.UID
	}

	if err := s.inviteRepo.Create(ctx, invite); err != nil {
		return nil, fmt.Errorf("failed to create invite: %w", err)
	}

	if s.emailSvc != nil {
		inviterName := "A teammate"
		if inviter != nil && inviter.Name != "" {
			inviterName = inviter.Name
		}
		link := fmt.Sprintf("%s/auth/login?invite=%s", s.cfg.PortalURL, invite.Token)
		expiresAt := invite.ExpiresAt.Format("January 2, 2006")
		if err := s.emailSvc.SendInvite(emailAddr, inviterName, role, link, expiresAt); err != nil {
			log.Printf("⚠️ Failed to send invite email to %s: %v", emailAddr, err)
		}
	}

	return invite, nil
}

func (s *inviteService) List(ctx context.Context) ([]*repository.Invite, error) {
	return s.inviteRepo.FindAll(ctx)
}

func (s *inviteService) Revoke(ctx context.Context, id string) error {
	invite, err := s.inviteRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if invite == nil {
		return ErrNotFound
	}
	if invite.Status != types.InvitePending {
		return ErrInvalidInput
	}
	return s.inviteRepo.UpdateStatus(ctx, id, types.InviteRevoked)
}
