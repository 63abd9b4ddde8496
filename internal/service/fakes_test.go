package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/lumenworks/studio-portal-backend/internal/repository"
	"github.com/lumenworks/studio-portal-backend/internal/types"
)

// In-memory repository fakes for service tests. They mirror the Postgres
// implementations' contracts: missing rows come back (nil, nil), and the
// conversion fake enforces the one-project-per-source constraint the
// partial unique indexes provide in the real schema.

type fakeLeadRepo struct {
	leads map[string]*repository.Lead
}

func newFakeLeadRepo() *fakeLeadRepo {
	return &fakeLeadRepo{leads: make(map[string]*repository.Lead)}
}

func (f *fakeLeadRepo) Create(ctx context.Context, lead *repository.Lead) error {
	if lead.ID == "" {
		lead.ID = uuid.New().String()
	}
	lead.CreatedAt = time.Now()
	lead.UpdatedAt = lead.CreatedAt
	cp := *lead
	f.leads[lead.ID] = &cp
	return nil
}

func (f *fakeLeadRepo) FindByID(ctx context.Context, id string) (*repository.Lead, error) {
	lead, ok := f.leads[id]
	if !ok {
		return nil, nil
	}
	cp := *lead
	return &cp, nil
}

func (f *fakeLeadRepo) FindAll(ctx context.Context) ([]*repository.Lead, error) {
	out := make([]*repository.Lead, 0, len(f.leads))
	for _, lead := range f.leads {
		cp := *lead
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeLeadRepo) FindByStatus(ctx context.Context, status string) ([]*repository.Lead, error) {
	var out []*repository.Lead
	for _, lead := range f.leads {
		if lead.Status == status {
			cp := *lead
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeLeadRepo) FindByStage(ctx context.Context, stage string) ([]*repository.Lead, error) {
	var out []*repository.Lead
	for _, lead := range f.leads {
		if lead.PipelineStage == stage {
			cp := *lead
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeLeadRepo) CountByStage(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int)
	for _, lead := range f.leads {
		counts[lead.PipelineStage]++
	}
	return counts, nil
}

func (f *fakeLeadRepo) FindStale(ctx context.Context, cutoff time.Time) ([]*repository.Lead, error) {
	var out []*repository.Lead
	for _, lead := range f.leads {
		if lead.UpdatedAt.Before(cutoff) && lead.Status != types.LeadConverted {
			cp := *lead
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeLeadRepo) Update(ctx context.Context, lead *repository.Lead) error {
	if _, ok := f.leads[lead.ID]; !ok {
		return fmt.Errorf("lead %s not found", lead.ID)
	}
	lead.UpdatedAt = time.Now()
	cp := *lead
	f.leads[lead.ID] = &cp
	return nil
}

func (f *fakeLeadRepo) UpdateStage(ctx context.Context, id, stage string) error {
	lead, ok := f.leads[id]
	if !ok {
		return fmt.Errorf("lead %s not found", id)
	}
	lead.PipelineStage = stage
	lead.UpdatedAt = time.Now()
	return nil
}

func (f *fakeLeadRepo) Delete(ctx context.Context, id string) error {
	delete(f.leads, id)
	return nil
}

type fakeMessageRepo struct {
	messages map[string]*repository.Message
	order    []string
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{messages: make(map[string]*repository.Message)}
}

func (f *fakeMessageRepo) Create(ctx context.Context, msg *repository.Message) error {
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	if msg.ThreadID == "" {
		msg.ThreadID = msg.ID
	}
	msg.CreatedAt = time.Now()
	cp := *msg
	f.messages[msg.ID] = &cp
	f.order = append(f.order, msg.ID)
	return nil
}

func (f *fakeMessageRepo) FindByID(ctx context.Context, id string) (*repository.Message, error) {
	msg, ok := f.messages[id]
	if !ok {
		return nil, nil
	}
	cp := *msg
	return &cp, nil
}

func (f *fakeMessageRepo) FindAll(ctx context.Context) ([]*repository.Message, error) {
	out := make([]*repository.Message, 0, len(f.order))
	for _, id := range f.order {
		cp := *f.messages[id]
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeMessageRepo) FindByThread(ctx context.Context, threadID string) ([]*repository.Message, error) {
	var out []*repository.Message
	for _, id := range f.order {
		if f.messages[id].ThreadID == threadID {
			cp := *f.messages[id]
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeMessageRepo) FindThreads(ctx context.Context) ([]*repository.Thread, error) {
	byThread := make(map[string]*repository.Thread)
	var order []string
	for _, id := range f.order {
		msg := f.messages[id]
		t, ok := byThread[msg.ThreadID]
		if !ok {
			t = &repository.Thread{ThreadID: msg.ThreadID}
			byThread[msg.ThreadID] = t
			order = append(order, msg.ThreadID)
		}
		cp := *msg
		t.Latest = &cp
		t.MessageCount++
		if !msg.Read {
			t.UnreadCount++
		}
		if msg.ConvertedToProject {
			t.Converted = true
		}
	}
	out := make([]*repository.Thread, 0, len(order))
	for _, tid := range order {
		out = append(out, byThread[tid])
	}
	return out, nil
}

func (f *fakeMessageRepo) MarkRead(ctx context.Context, id string) error {
	msg, ok := f.messages[id]
	if !ok {
		return fmt.Errorf("message %s not found", id)
	}
	msg.Read = true
	return nil
}

func (f *fakeMessageRepo) UpdateStatus(ctx context.Context, id, status string) error {
	msg, ok := f.messages[id]
	if !ok {
		return fmt.Errorf("message %s not found", id)
	}
	msg.Status = status
	return nil
}

func (f *fakeMessageRepo) Delete(ctx context.Context, id string) error {
	delete(f.messages, id)
	for i, mid := range f.order {
		if mid == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

type fakeProjectRepo struct {
	projects map[string]*repository.Project
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{projects: make(map[string]*repository.Project)}
}

func (f *fakeProjectRepo) Create(ctx context.Context, project *repository.Project) error {
	if project.ID == "" {
		project.ID = uuid.New().String()
	}
	project.CreatedAt = time.Now()
	project.UpdatedAt = project.CreatedAt
	cp := *project
	f.projects[project.ID] = &cp
	return nil
}

func (f *fakeProjectRepo) FindByID(ctx context.Context, id string) (*repository.Project, error) {
	project, ok := f.projects[id]
	if !ok {
		return nil, nil
	}
	cp := *project
	return &cp, nil
}

func (f *fakeProjectRepo) FindAll(ctx context.Context) ([]*repository.Project, error) {
	out := make([]*repository.Project, 0, len(f.projects))
	for _, p := range f.projects {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeProjectRepo) FindByClient(ctx context.Context, clientUID string) ([]*repository.Project, error) {
	var out []*repository.Project
	for _, p := range f.projects {
		if p.ClientUID != nil && *p.ClientUID == clientUID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeProjectRepo) FindBySourceLead(ctx context.Context, leadID string) (*repository.Project, error) {
	for _, p := range f.projects {
		if p.SourceLeadID != nil && *p.SourceLeadID == leadID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeProjectRepo) FindBySourceMessage(ctx context.Context, messageID string) (*repository.Project, error) {
	for _, p := range f.projects {
		if p.SourceMessageID != nil && *p.SourceMessageID == messageID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeProjectRepo) Update(ctx context.Context, project *repository.Project) error {
	if _, ok := f.projects[project.ID]; !ok {
		return fmt.Errorf("project %s not found", project.ID)
	}
	project.UpdatedAt = time.Now()
	cp := *project
	f.projects[project.ID] = &cp
	return nil
}

func (f *fakeProjectRepo) UpdateStatus(ctx context.Context, id, status string) error {
	p, ok := f.projects[id]
	if !ok {
		return fmt.Errorf("project %s not found", id)
	}
	p.Status = status
	return nil
}

func (f *fakeProjectRepo) UpdatePhase(ctx context.Context, id, phase string) error {
	p, ok := f.projects[id]
	if !ok {
		return fmt.Errorf("project %s not found", id)
	}
	p.Phase = phase
	return nil
}

func (f *fakeProjectRepo) Delete(ctx context.Context, id string) error {
	delete(f.projects, id)
	return nil
}

// fakeConversionRepo applies both conversion writes against the other
// fakes, refusing a duplicate source like the real unique indexes would.
// markErr simulates the source-marking statement failing inside the
// transaction: the project insert is undone, matching the rollback.
type fakeConversionRepo struct {
	leads    *fakeLeadRepo
	messages *fakeMessageRepo
	projects *fakeProjectRepo
	markErr  error
}

func (f *fakeConversionRepo) ConvertLead(ctx context.Context, lead *repository.Lead, project *repository.Project) error {
	if existing, _ := f.projects.FindBySourceLead(ctx, lead.ID); existing != nil {
		return fmt.Errorf("duplicate key value violates unique constraint \"idx_projects_source_lead\"")
	}
	project.SourceLeadID = &lead.ID
	if err := f.projects.Create(ctx, project); err != nil {
		return err
	}
	if f.markErr != nil {
		delete(f.projects.projects, project.ID)
		return f.markErr
	}
	stored := f.leads.leads[lead.ID]
	stored.Status = types.LeadConverted
	stored.ConvertedToProjectID = &project.ID
	lead.Status = types.LeadConverted
	lead.ConvertedToProjectID = &project.ID
	return nil
}

func (f *fakeConversionRepo) ConvertMessage(ctx context.Context, msg *repository.Message, project *repository.Project) error {
	if existing, _ := f.projects.FindBySourceMessage(ctx, msg.ID); existing != nil {
		return fmt.Errorf("duplicate key value violates unique constraint \"idx_projects_source_message\"")
	}
	project.SourceMessageID = &msg.ID
	if err := f.projects.Create(ctx, project); err != nil {
		return err
	}
	if f.markErr != nil {
		delete(f.projects.projects, project.ID)
		return f.markErr
	}
	stored := f.messages.messages[msg.ID]
	stored.ConvertedToProject = true
	stored.ProjectID = &project.ID
	stored.Status = types.MessageConverted
	msg.ConvertedToProject = true
	msg.ProjectID = &project.ID
	msg.Status = types.MessageConverted
	return nil
}

type fakeProfileRepo struct {
	profiles      map[string]*repository.Profile
	refreshTokens map[string]*repository.RefreshToken
	loginTokens   map[string]*repository.LoginToken
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{
		profiles:      make(map[string]*repository.Profile),
		refreshTokens: make(map[string]*repository.RefreshToken),
		loginTokens:   make(map[string]*repository.LoginToken),
	}
}

func (f *fakeProfileRepo) Create(ctx context.Context, profile *repository.Profile) error {
	if profile.UID == "" {
		profile.UID = uuid.New().String()
	}
	profile.CreatedAt = time.Now()
	cp := *profile
	f.profiles[profile.UID] = &cp
	return nil
}

func (f *fakeProfileRepo) FindByUID(ctx context.Context, uid string) (*repository.Profile, error) {
	p, ok := f.profiles[uid]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProfileRepo) FindByEmail(ctx context.Context, email string) (*repository.Profile, error) {
	for _, p := range f.profiles {
		if p.Email == email {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeProfileRepo) Update(ctx context.Context, profile *repository.Profile) error {
	if _, ok := f.profiles[profile.UID]; !ok {
		return fmt.Errorf("profile %s not found", profile.UID)
	}
	cp := *profile
	f.profiles[profile.UID] = &cp
	return nil
}

func (f *fakeProfileRepo) SetRole(ctx context.Context, uid, role string) error {
	p, ok := f.profiles[uid]
	if !ok {
		return fmt.Errorf("profile %s not found", uid)
	}
	p.Role = role
	return nil
}

func (f *fakeProfileRepo) BumpClaimsVersion(ctx context.Context, uid string) (int, error) {
	p, ok := f.profiles[uid]
	if !ok {
		return 0, fmt.Errorf("profile %s not found", uid)
	}
	p.ClaimsVersion++
	return p.ClaimsVersion, nil
}

func (f *fakeProfileRepo) SaveRefreshToken(ctx context.Context, rt *repository.RefreshToken) error {
	cp := *rt
	f.refreshTokens[rt.Token] = &cp
	return nil
}

func (f *fakeProfileRepo) FindRefreshToken(ctx context.Context, token string) (*repository.RefreshToken, error) {
	rt, ok := f.refreshTokens[token]
	if !ok {
		return nil, nil
	}
	cp := *rt
	return &cp, nil
}

func (f *fakeProfileRepo) DeleteRefreshToken(ctx context.Context, token string) error {
	delete(f.refreshTokens, token)
	return nil
}

func (f *fakeProfileRepo) SaveLoginToken(ctx context.Context, lt *repository.LoginToken) error {
	cp := *lt
	f.loginTokens[lt.ID] = &cp
	return nil
}

func (f *fakeProfileRepo) FindLoginToken(ctx context.Context, id string) (*repository.LoginToken, error) {
	lt, ok := f.loginTokens[id]
	if !ok {
		return nil, nil
	}
	cp := *lt
	return &cp, nil
}

func (f *fakeProfileRepo) MarkLoginTokenUsed(ctx context.Context, id string) error {
	lt, ok := f.loginTokens[id]
	if !ok {
		return fmt.Errorf("login token %s not found", id)
	}
	now := time.Now()
	lt.UsedAt = &now
	return nil
}

func (f *fakeProfileRepo) DeleteExpiredLoginTokens(ctx context.Context) (int64, error) {
	var n int64
	for id, lt := range f.loginTokens {
		if time.Now().After(lt.ExpiresAt) {
			delete(f.loginTokens, id)
			n++
		}
	}
	return n, nil
}

type fakeInviteRepo struct {
	invites map[string]*repository.Invite
}

func newFakeInviteRepo() *fakeInviteRepo {
	return &fakeInviteRepo{invites: make(map[string]*repository.Invite)}
}

func (f *fakeInviteRepo) Create(ctx context.Context, invite *repository.Invite) error {
	if invite.ID == "" {
		invite.ID = uuid.New().String()
	}
	invite.CreatedAt = time.Now()
	cp := *invite
	f.invites[invite.ID] = &cp
	return nil
}

func (f *fakeInviteRepo) FindByID(ctx context.Context, id string) (*repository.Invite, error) {
	inv, ok := f.invites[id]
	if !ok {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

func (f *fakeInviteRepo) FindByToken(ctx context.Context, token string) (*repository.Invite, error) {
	for _, inv := range f.invites {
		if inv.Token == token {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeInviteRepo) FindPendingByEmail(ctx context.Context, email string) (*repository.Invite, error) {
	for _, inv := range f.invites {
		if inv.Email == email && inv.Status == types.InvitePending && time.Now().Before(inv.ExpiresAt) {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeInviteRepo) FindAll(ctx context.Context) ([]*repository.Invite, error) {
	out := make([]*repository.Invite, 0, len(f.invites))
	for _, inv := range f.invites {
		cp := *inv
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeInviteRepo) UpdateStatus(ctx context.Context, id, status string) error {
	inv, ok := f.invites[id]
	if !ok {
		return fmt.Errorf("invite %s not found", id)
	}
	inv.Status = status
	return nil
}

func (f *fakeInviteRepo) ExpirePending(ctx context.Context) (int64, error) {
	var n int64
	for _, inv := range f.invites {
		if inv.Status == types.InvitePending && time.Now().After(inv.ExpiresAt) {
			inv.Status = types.InviteExpired
			n++
		}
	}
	return n, nil
}

// newTestRepos wires the fakes into the container shape the services take.
func newTestRepos() (*repository.Repositories, *fakeLeadRepo, *fakeMessageRepo, *fakeProjectRepo) {
	leads := newFakeLeadRepo()
	messages := newFakeMessageRepo()
	projects := newFakeProjectRepo()
	repos := &repository.Repositories{
		LeadRepo:       leads,
		MessageRepo:    messages,
		ProjectRepo:    projects,
		ProfileRepo:    newFakeProfileRepo(),
		InviteRepo:     newFakeInviteRepo(),
		ConversionRepo: &fakeConversionRepo{leads: leads, messages: messages, projects: projects},
	}
	return repos, leads, messages, projects
}
