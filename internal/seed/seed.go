package seed

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lumenworks/studio-portal-backend/internal/repository"
	"github.com/lumenworks/studio-portal-backend/internal/types"
)

// SeedData loads a believable development dataset: a small team, leads
// across every pipeline lane, an inbox with a converted thread, and
// projects in every lifecycle stage so the stats page has real numbers.
func SeedData(repos *repository.Repositories) {
	ctx := context.Background()

	leads, _ := repos.LeadRepo.FindAll(ctx)
	if len(leads) > 0 {
		log.Println("[Seed] Data already exists, skipping...")
		return
	}

	log.Println("[Seed] 🌱 Creating initial data...")

	// ============================================
	// TEAM
	// ============================================
	admin := &repository.Profile{
		UID:    "seed-admin",
		Email:  "dana@lumenworks.dev",
		Name:   "Dana Reyes",
		Role:   types.RoleAdmin,
		Active: true,
	}
	repos.ProfileRepo.Create(ctx, admin)

	staff := &repository.Profile{
		UID:    "seed-staff",
		Email:  "marco@lumenworks.dev",
		Name:   "Marco Lindqvist",
		Role:   types.RoleStaff,
		Active: true,
	}
	repos.ProfileRepo.Create(ctx, staff)

	client := &repository.Profile{
		UID:    "seed-client",
		Email:  "petra@globex.test",
		Name:   "Petra Novak",
		Role:   types.RoleUser,
		Active: true,
	}
	repos.ProfileRepo.Create(ctx, client)

	// ============================================
	// LEADS — one per pipeline lane plus a converted one
	// ============================================
	repos.LeadRepo.Create(ctx, &repository.Lead{
		Name: "Sam Okafor", Email: "sam@okafordesign.test", Company: "Okafor Design",
		Status: types.LeadNew, PipelineStage: types.StageNew,
		Source: "referral", Notes: "Portfolio site, wants something minimal",
		Value: decimal.NewNullDecimal(decimal.NewFromInt(2500)),
	})
	repos.LeadRepo.Create(ctx, &repository.Lead{
		Name: "Ines Fuentes", Email: "ines@lacocina.test", Company: "La Cocina",
		Status: types.LeadContacted, PipelineStage: types.StageContacted,
		Source: "contact_form", Notes: "Restaurant site with reservations",
		Value: decimal.NewNullDecimal(decimal.NewFromInt(4800)),
	})
	repos.LeadRepo.Create(ctx, &repository.Lead{
		Name: "Viktor Hansen", Email: "viktor@nordicgear.test", Company: "Nordic Gear",
		Status: types.LeadQualified, PipelineStage: types.StageProposal,
		Source: "conference", Notes: "Shopify migration, proposal sent 3 days ago",
		Value: decimal.NewNullDecimal(decimal.NewFromInt(12000)),
	})
	repos.LeadRepo.Create(ctx, &repository.Lead{
		Name: "Ruth Adler", Email: "ruth@adlerlaw.test", Company: "Adler Law",
		Status: types.LeadLost, PipelineStage: types.StageClosed,
		Source: "contact_form", Notes: "Went with a cheaper agency",
	})

	convertible := &repository.Lead{
		Name: "Petra Novak", Email: "petra@globex.test", Company: "Globex",
		Status: types.LeadWon, PipelineStage: types.StageClosed,
		Source: "referral", Notes: "Corporate site refresh, signed",
		Value: decimal.NewNullDecimal(decimal.NewFromInt(9000)),
	}
	repos.LeadRepo.Create(ctx, convertible)

	// ============================================
	// MESSAGES — an open thread and a converted one
	// ============================================
	openMsg := &repository.Message{
		Name: "Tomas Beck", Email: "tomas@beckbrewing.test",
		Body:   "Craft brewery website\n\nWe're opening a taproom in March and need a site with an events calendar.",
		Source: "contact_form", Page: "/services",
		SenderRole: types.SenderClient, Status: types.MessageNew,
	}
	repos.MessageRepo.Create(ctx, openMsg)

	repos.MessageRepo.Create(ctx, &repository.Message{
		ThreadID: openMsg.ThreadID,
		Name:     "Dana Reyes", Email: "dana@lumenworks.dev",
		Body:   "Sounds great, Tomas. What's your budget range?",
		Source: "portal", ClientUID: &admin.UID,
		SenderRole: types.SenderStaff, Status: types.MessageOpen, Read: true,
	})

	convertedMsg := &repository.Message{
		Name: "Petra Novak", Email: "petra@globex.test",
		Body:   "Globex corporate refresh\n\nOur site is eight years old and embarrassing. Can you help?",
		Source: "contact_form", Page: "/",
		ClientUID:  &client.UID,
		SenderRole: types.SenderClient, Status: types.MessageOpen, Read: true,
	}
	repos.MessageRepo.Create(ctx, convertedMsg)

	// ============================================
	// PROJECTS — every lifecycle stage with budgets
	// ============================================
	repos.ConversionRepo.ConvertMessage(ctx, convertedMsg, &repository.Project{
		Title:       "Globex corporate refresh",
		Description: convertedMsg.Body,
		ClientUID:   &client.UID,
		ClientName:  "Petra Novak",
		ClientEmail: "petra@globex.test",
		Status:      types.ProjectActive,
		Phase:       types.PhaseBuild,
		Budget:      decimal.NewNullDecimal(decimal.NewFromInt(9000)),
	})

	repos.ConversionRepo.ConvertLead(ctx, convertible, &repository.Project{
		Title:       "Globex",
		Description: convertible.Notes,
		ClientName:  convertible.Name,
		ClientEmail: convertible.Email,
		Status:      types.ProjectActive,
		Phase:       types.PhaseDiscovery,
		Budget:      convertible.Value,
	})

	repos.ProjectRepo.Create(ctx, &repository.Project{
		Title: "Meridian Yoga booking site", ClientName: "Ana Silva", ClientEmail: "ana@meridianyoga.test",
		Status: types.ProjectActive, Phase: types.PhaseDesign,
		Budget: decimal.NewNullDecimal(decimal.NewFromInt(5500)),
	})
	repos.ProjectRepo.Create(ctx, &repository.Project{
		Title: "Harbor Dental rebrand", ClientName: "Lee Chang", ClientEmail: "lee@harbordental.test",
		Status: types.ProjectPaused, Phase: types.PhaseReview,
		Budget: decimal.NewNullDecimal(decimal.NewFromInt(3200)),
	})
	repos.ProjectRepo.Create(ctx, &repository.Project{
		Title: "Fernwood Cabins booking engine", ClientName: "Maya Osei", ClientEmail: "maya@fernwood.test",
		Status: types.ProjectCompleted, Phase: types.PhaseLaunch,
		Budget: decimal.NewNullDecimal(decimal.NewFromInt(14000)),
	})
	repos.ProjectRepo.Create(ctx, &repository.Project{
		Title: "Old bakery site", ClientName: "Closed Account", ClientEmail: "closed@bakery.test",
		Status: types.ProjectArchived, Phase: types.PhaseLaunch,
		Budget: decimal.NewNullDecimal(decimal.NewFromInt(1800)),
	})

	// ============================================
	// INVITES & BILLING
	// ============================================
	if err := repos.InviteRepo.Create(ctx, &repository.Invite{
		Email: "freelancer@studio.test", Role: types.RoleStaff,
		Token: uuid.New().String(), Status: types.InvitePending,
		CreatedBy: &admin.UID, ExpiresAt: time.Now().Add(7 * 24 * time.Hour),
	}); err != nil {
		log.Printf("[Seed] Failed to create invite: %v", err)
	}

	periodEnd := time.Now().AddDate(0, 1, 0)
	repos.BillingRepo.UpsertSubscription(ctx, &repository.Subscription{
		UID: client.UID, Plan: "studio", Status: types.SubActive,
		CurrentPeriodEnd: &periodEnd,
	})

	log.Println("[Seed] ✅ Initial data created")
	log.Println("[Seed] Sign in with dana@lumenworks.dev (admin) or marco@lumenworks.dev (staff)")
}
