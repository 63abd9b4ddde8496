package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type LeadResponse struct {
	ID                   string           `json:"id"`
	Name                 string           `json:"name"`
	Email                string           `json:"email"`
	Phone                string           `json:"phone,omitempty"`
	Company              string           `json:"company,omitempty"`
	Status               string           `json:"status"`
	PipelineStage        string           `json:"pipelineStage"`
	Source               string           `json:"source,omitempty"`
	Notes                string           `json:"notes,omitempty"`
	Value                *decimal.Decimal `json:"value,omitempty"`
	ConvertedToProjectID *string          `json:"convertedToProjectId,omitempty"`
	CreatedAt            time.Time        `json:"createdAt"`
	UpdatedAt            time.Time        `json:"updatedAt"`
}

type MessageResponse struct {
	ID                 string    `json:"id"`
	ThreadID           string    `json:"threadId"`
	Name               string    `json:"name"`
	Email              string    `json:"email"`
	Body               string    `json:"body"`
	Source             string    `json:"source,omitempty"`
	Page               string    `json:"page,omitempty"`
	ClientUID          *string   `json:"clientUid,omitempty"`
	SenderRole         string    `json:"senderRole"`
	Status             string    `json:"status"`
	Read               bool      `json:"read"`
	ConvertedToProject bool      `json:"convertedToProject"`
	ProjectID          *string   `json:"projectId,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
}

type ThreadResponse struct {
	ThreadID     string          `json:"threadId"`
	Latest       MessageResponse `json:"latest"`
	MessageCount int             `json:"messageCount"`
	UnreadCount  int             `json:"unreadCount"`
	Converted    bool            `json:"converted"`
}

type ProjectResponse struct {
	ID              string           `json:"id"`
	Title           string           `json:"title"`
	Description     string           `json:"description,omitempty"`
	ClientUID       *string          `json:"clientUid,omitempty"`
	ClientName      string           `json:"clientName,omitempty"`
	ClientEmail     string           `json:"clientEmail,omitempty"`
	Status          string           `json:"status"`
	Phase           string           `json:"phase"`
	Budget          *decimal.Decimal `json:"budget,omitempty"`
	SourceLeadID    *string          `json:"sourceLeadId,omitempty"`
	SourceMessageID *string          `json:"sourceMessageId,omitempty"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

type BoardColumnResponse struct {
	Stage string          `json:"stage"`
	Leads []LeadResponse  `json:"leads"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

type BoardResponse struct {
	Columns []BoardColumnResponse `json:"columns"`
}

type ProfileResponse struct {
	UID           string    `json:"uid"`
	Email         string    `json:"email"`
	Name          string    `json:"name,omitempty"`
	Role          string    `json:"role"`
	Active        bool      `json:"active"`
	ClaimsVersion int       `json:"claimsVersion"`
	CreatedAt     time.Time `json:"createdAt"`
}

type SessionResponse struct {
	User         ProfileResponse `json:"user"`
	AccessToken  string          `json:"accessToken"`
	RefreshToken string          `json:"refreshToken"`
}

type InviteResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedBy *string   `json:"createdBy,omitempty"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

type SubscriptionResponse struct {
	Plan             string     `json:"plan"`
	Status           string     `json:"status"`
	CurrentPeriodEnd *time.Time `json:"currentPeriodEnd,omitempty"`
}

type CheckoutSessionResponse struct {
	ID        string    `json:"id"`
	Plan      string    `json:"plan"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}
