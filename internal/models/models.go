package models

import "github.com/shopspring/decimal"

// Request payloads bound by the handlers. Responses are mapped from
// repository structs in the handler layer.

type CreateLeadRequest struct {
	Name    string           `json:"name" binding:"required"`
	Email   string           `json:"email" binding:"required,email"`
	Phone   string           `json:"phone"`
	Company string           `json:"company"`
	Source  string           `json:"source"`
	Notes   string           `json:"notes"`
	Status  string           `json:"status"`
	Value   *decimal.Decimal `json:"value"`
}

type UpdateLeadRequest struct {
	Name    *string          `json:"name"`
	Email   *string          `json:"email"`
	Phone   *string          `json:"phone"`
	Company *string          `json:"company"`
	Source  *string          `json:"source"`
	Notes   *string          `json:"notes"`
	Status  *string          `json:"status"`
	Value   *decimal.Decimal `json:"value"`
}

type IntakeRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email" binding:"required,email"`
	Company string `json:"company"`
	Subject string `json:"subject"`
	Message string `json:"message" binding:"required"`
	Page    string `json:"page"`
}

type ReplyRequest struct {
	Body string `json:"body" binding:"required"`
}

type SetMessageStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type CreateProjectRequest struct {
	Title       string           `json:"title" binding:"required"`
	Description string           `json:"description"`
	ClientUID   *string          `json:"clientUid"`
	ClientName  string           `json:"clientName"`
	ClientEmail string           `json:"clientEmail"`
	Phase       string           `json:"phase"`
	Budget      *decimal.Decimal `json:"budget"`
}

type UpdateProjectRequest struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	ClientName  *string          `json:"clientName"`
	ClientEmail *string          `json:"clientEmail"`
	Status      *string          `json:"status"`
	Phase       *string          `json:"phase"`
	Budget      *decimal.Decimal `json:"budget"`
}

type SetProjectStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type SetProjectPhaseRequest struct {
	Phase string `json:"phase" binding:"required"`
}

type ConvertRequest struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Phase       *string          `json:"phase"`
	Budget      *decimal.Decimal `json:"budget"`
}

type SetStageRequest struct {
	Stage string `json:"stage" binding:"required"`
}

type RequestLinkRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type RedeemRequest struct {
	Token string `json:"token" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type UpdateProfileRequest struct {
	Name *string `json:"name"`
}

type SetRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

type SetActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

type CreateInviteRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"required"`
}

type CreateCheckoutRequest struct {
	Plan string `json:"plan" binding:"required"`
}
