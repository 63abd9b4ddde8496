package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/lumenworks/studio-portal-backend/internal/config"
	"github.com/lumenworks/studio-portal-backend/internal/db"
	"github.com/lumenworks/studio-portal-backend/internal/email"
	"github.com/lumenworks/studio-portal-backend/internal/repository"
	"github.com/lumenworks/studio-portal-backend/internal/types"
)

// ============================================
// Auth Service
// ============================================

// AuthService implements passwordless sign-in. A magic link carries an
// opaque "id.secret" token: the id locates the stored record, the secret
// is bcrypt-verified against it. Links are single use and short lived.
type AuthService interface {
	RequestLink(ctx context.Context, emailAddr string) error
	Redeem(ctx context.Context, token string) (*repository.Profile, string, string, error)
	RefreshToken(ctx context.Context, refreshToken string) (string, string, error)
	Logout(ctx context.Context, refreshToken string) error
	Authenticate(ctx context.Context, tokenString string) (*repository.Profile, error)
}

type authService struct {
	cfg         *config.Config
	profileRepo repository.ProfileRepository
	inviteRepo  repository.InviteRepository
	redis       *db.RedisDB
	emailSvc    *email.Service
}

func NewAuthService(cfg *config.Config, profileRepo repository.ProfileRepository, inviteRepo repository.InviteRepository, redis *db.RedisDB, emailSvc *email.Service) AuthService {
	return &authService{
		cfg:         cfg,
		profileRepo: profileRepo,
		inviteRepo:  inviteRepo,
		redis:       redis,
		emailSvc:    emailSvc,
	}
}

// RequestLink issues a magic link for a known profile or a pending invite.
// Unknown addresses return nil without sending anything, so the endpoint
// leaks no information about who has an account.
func (s *authService) RequestLink(ctx context.Context, emailAddr string) error {
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))
	if emailAddr == "" {
		return ErrInvalidInput
	}

	profile, err := s.profileRepo.FindByEmail(ctx, emailAddr)
	if err != nil {
		return err
	}
	if profile != nil && !profile.Active {
		return nil
	}
	if profile == nil {
		invite, err := s.inviteRepo.FindPendingByEmail(ctx, emailAddr)
		if err != nil {
			return err
		}
		if invite == nil {
			log.Printf("🔐 Login link requested for unknown address")
			return nil
		}
	}

	secret, err := randomSecret()
	if err != nil {
		return fmt.Errorf("failed to generate login secret: %w", err)
	}
	secretHash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash login secret: %w", err)
	}

	ttl := time.Duration(s.cfg.LoginTokenTTL) * time.Minute
	lt := &repository.LoginToken{
		ID:         uuid.New().String(),
		Email:      emailAddr,
		SecretHash: string(secretHash),
		ExpiresAt:  time.Now().Add(ttl),
	}
	if err := s.profileRepo.SaveLoginToken(ctx, lt); err != nil {
		return fmt.Errorf("failed to save login token: %w", err)
	}

	if s.redis != nil {
		if err := s.redis.SetLoginToken(ctx, lt.ID, lt.SecretHash, ttl); err != nil {
			log.Printf("⚠️ Failed to stage login token in Redis: %v", err)
		}
	}

	name := ""
	if profile != nil {
		name = profile.Name
	}
	link := fmt.Sprintf("%s/auth/verify?token=%s.%s", s.cfg.PortalURL, lt.ID, secret)
	if s.emailSvc != nil {
		if err := s.emailSvc.SendMagicLink(emailAddr, name, link, s.cfg.LoginTokenTTL); err != nil {
			return fmt.Errorf("failed to send login link: %w", err)
		}
	}

	return nil
}

// Redeem exchanges a magic-link token for a session. The stored token is
// consumed even when the profile lookup afterwards fails, so a link never
// survives a redemption attempt.
func (s *authService) Redeem(ctx context.Context, token string) (*repository.Profile, string, string, error) {
	tokenID, secret, ok := strings.Cut(token, ".")
	if !ok || tokenID == "" || secret == "" {
		return nil, "", "", ErrInvalidToken
	}

	lt, err := s.profileRepo.FindLoginToken(ctx, tokenID)
	if err != nil {
		return nil, "", "", err
	}
	if lt == nil || lt.UsedAt != nil || time.Now().After(lt.ExpiresAt) {
		return nil, "", "", ErrInvalidToken
	}

	if err := bcrypt.CompareHashAndPassword([]byte(lt.SecretHash), []byte(secret)); err != nil {
		return nil, "", "", ErrInvalidToken
	}

	if err := s.profileRepo.MarkLoginTokenUsed(ctx, tokenID); err != nil {
		return nil, "", "", fmt.Errorf("failed to consume login token: %w", err)
	}
	if s.redis != nil {
		_ = s.redis.DeleteLoginToken(ctx, tokenID)
	}

	profile, err := s.resolveProfile(ctx, lt.Email)
	if err != nil {
		return nil, "", "", err
	}
	if !profile.Active {
		return nil, "", "", ErrInactiveUser
	}

	accessToken, refreshToken, err := s.generateTokens(ctx, profile)
	if err != nil {
		return nil, "", "", fmt.Errorf("failed to generate tokens: %w", err)
	}

	return profile, accessToken, refreshToken, nil
}

// resolveProfile returns the existing profile for the address or creates
// one from a pending invite, consuming the invite.
func (s *authService) resolveProfile(ctx context.Context, emailAddr string) (*repository.Profile, error) {
	profile, err := s.profileRepo.FindByEmail(ctx, emailAddr)
	if err != nil {
		return nil, err
	}
	if profile != nil {
		return profile, nil
	}

	invite, err := s.inviteRepo.FindPendingByEmail(ctx, emailAddr)
	if err != nil {
		return nil, err
	}
	if invite == nil {
		return nil, ErrUnauthorized
	}

	profile = &repository.Profile{
		UID:    uuid.New().String(),
		Email:  emailAddr,
		Role:   invite.Role,
		Active: true,
	}
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	if err := s.inviteRepo.UpdateStatus(ctx, invite.ID, types.InviteAccepted); err != nil {
		log.Printf("⚠️ Failed to mark invite %s accepted: %v", invite.ID, err)
	}

	log.Printf("👤 Created profile for invited %s (%s)", profile.Role, profile.UID)
	return profile, nil
}

func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (string, string, error) {
	rt, err := s.profileRepo.FindRefreshToken(ctx, refreshToken)
	if err != nil || rt == nil {
		return "", "", ErrInvalidToken
	}

	if time.Now().After(rt.ExpiresAt) {
		s.profileRepo.DeleteRefreshToken(ctx, refreshToken)
		return "", "", ErrInvalidToken
	}

	profile, err := s.profileRepo.FindByUID(ctx, rt.UID)
	if err != nil || profile == nil {
		return "", "", ErrInvalidToken
	}
	if !profile.Active {
		return "", "", ErrInactiveUser
	}

	s.profileRepo.DeleteRefreshToken(ctx, refreshToken)

	accessToken, newRefreshToken, err := s.generateTokens(ctx, profile)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate tokens: %w", err)
	}

	return accessToken, newRefreshToken, nil
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	return s.profileRepo.DeleteRefreshToken(ctx, refreshToken)
}

// Authenticate validates a session token and loads the profile behind it.
// A claims-version mismatch means the account's claims were synced after
// this token was minted, so it no longer counts.
func (s *authService) Authenticate(ctx context.Context, tokenString string) (*repository.Profile, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	uid, ok := claims["sub"].(string)
	if !ok || uid == "" {
		return nil, ErrInvalidToken
	}

	profile, err := s.profileRepo.FindByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrInvalidToken
	}
	if !profile.Active {
		return nil, ErrInactiveUser
	}

	if cv, ok := claims["cv"].(float64); ok && int(cv) != profile.ClaimsVersion {
		return nil, ErrInvalidToken
	}

	return profile, nil
}

func (s *authService) generateTokens(ctx context.Context, profile *repository.Profile) (string, string, error) {
	accessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  profile.UID,
		"role": profile.Role,
		"cv":   profile.ClaimsVersion,
		"exp":  time.Now().Add(time.Hour * time.Duration(s.cfg.JWTExpiry)).Unix(),
		"iat":  time.Now().Unix(),
	})

	accessTokenString, err := accessToken.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", "", err
	}

	refreshTokenString := uuid.New().String()
	rt := &repository.RefreshToken{
		Token:     refreshTokenString,
		UID:       profile.UID,
		ExpiresAt: time.Now().Add(time.Hour * 24 * time.Duration(s.cfg.RefreshExpiry)),
	}
	if err := s.profileRepo.SaveRefreshToken(ctx, rt); err != nil {
		return "", "", err
	}

	return accessTokenString, refreshTokenString, nil
}

func randomSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
