// Package memory implements every repository port in process memory with the
// same visibility semantics as the postgres implementations: scoped reads see
// only teams the user belongs to and never see soft-deleted rows. It backs
// the application and handler tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kwybro/guilloteam/internal/application/ports"
	"github.com/kwybro/guilloteam/internal/domain"
)

// Store holds all entities behind a single mutex.
type Store struct {
	mu          sync.RWMutex
	teams       map[uuid.UUID]*domain.Team
	memberships map[uuid.UUID]*domain.Membership
	projects    map[uuid.UUID]*domain.Project
	tasks       map[uuid.UUID]*domain.Task
	invites     map[uuid.UUID]*domain.Invite
	users       map[uuid.UUID]*domain.User
	apiKeys     map[string]domain.UserID // key hash -> user
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		teams:       make(map[uuid.UUID]*domain.Team),
		memberships: make(map[uuid.UUID]*domain.Membership),
		projects:    make(map[uuid.UUID]*domain.Project),
		tasks:       make(map[uuid.UUID]*domain.Task),
		invites:     make(map[uuid.UUID]*domain.Invite),
		users:       make(map[uuid.UUID]*domain.User),
		apiKeys:     make(map[string]domain.UserID),
	}
}

func (s *Store) memberTeamSet(userID domain.UserID) map[uuid.UUID]bool {
	set := make(map[uuid.UUID]bool)
	for _, m := range s.memberships {
		if m.UserID == userID {
			set[m.TeamID.UUID] = true
		}
	}
	return set
}

// --- TeamRepository ---

func (s *Store) ListForUser(ctx context.Context, userID domain.UserID) ([]*domain.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set := s.memberTeamSet(userID)
	var out []*domain.Team
	for _, t := range s.teams {
		if set[t.ID.UUID] && !t.Deleted() {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *Store) GetForUser(ctx context.Context, teamID domain.TeamID, userID domain.UserID) (*domain.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.teams[teamID.UUID]
	if !ok || t.Deleted() || !s.memberTeamSet(userID)[teamID.UUID] {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (s *Store) CreateWithOwner(ctx context.Context, team *domain.Team, ownerID domain.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *team
	s.teams[team.ID.UUID] = &cp
	m := &domain.Membership{
		ID:        domain.NewMembershipID(uuid.New()),
		UserID:    ownerID,
		TeamID:    team.ID,
		Role:      domain.RoleOwner,
		CreatedAt: team.CreatedAt,
		UpdatedAt: team.CreatedAt,
	}
	s.memberships[m.ID.UUID] = m
	return nil
}

func (s *Store) UpdateName(ctx context.Context, teamID domain.TeamID, name string, now time.Time) (*domain.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.teams[teamID.UUID]
	if !ok || t.Deleted() {
		return nil, nil
	}
	t.Name = name
	t.UpdatedAt = now
	cp := *t
	return &cp, nil
}

func (s *Store) SoftDelete(ctx context.Context, teamID domain.TeamID, now time.Time) (*domain.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.teams[teamID.UUID]
	if !ok || t.Deleted() {
		return nil, nil
	}
	at := now
	t.DeletedAt = &at
	t.UpdatedAt = now
	cp := *t
	return &cp, nil
}

// --- MembershipRepository ---

func (s *Store) TeamIDs(ctx context.Context, userID domain.UserID) ([]domain.TeamID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.TeamID
	for _, m := range s.memberships {
		if m.UserID == userID {
			out = append(out, m.TeamID)
		}
	}
	return out, nil
}

func (s *Store) Get(ctx context.Context, userID domain.UserID, teamID domain.TeamID) (*domain.Membership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.memberships {
		if m.UserID == userID && m.TeamID == teamID {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *Store) Create(ctx context.Context, m *domain.Membership) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insertMembershipLocked(m)
	return nil
}

// insertMembershipLocked mirrors ON CONFLICT (user_id, team_id) DO NOTHING.
func (s *Store) insertMembershipLocked(m *domain.Membership) {
	for _, existing := range s.memberships {
		if existing.UserID == m.UserID && existing.TeamID == m.TeamID {
			return
		}
	}
	cp := *m
	if cp.ID.UUID == (uuid.UUID{}) {
		cp.ID = domain.NewMembershipID(uuid.New())
	}
	s.memberships[cp.ID.UUID] = &cp
}

func (s *Store) ListMembers(ctx context.Context, teamID domain.TeamID) ([]domain.TeamMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.TeamMember
	for _, m := range s.memberships {
		if m.TeamID != teamID {
			continue
		}
		email := ""
		if u, ok := s.users[m.UserID.UUID]; ok {
			email = u.Email
		}
		out = append(out, domain.TeamMember{UserID: m.UserID, Email: email, Role: m.Role})
	}
	return out, nil
}

// --- ProjectRepository ---

func (s *Store) ListProjectsForUser(ctx context.Context, teamID domain.TeamID, userID domain.UserID) ([]*domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.memberTeamSet(userID)[teamID.UUID] {
		return nil, nil
	}
	var out []*domain.Project
	for _, p := range s.projects {
		if p.TeamID == teamID && !p.Deleted() {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *Store) GetProjectForUser(ctx context.Context, teamID domain.TeamID, projectID domain.ProjectID, userID domain.UserID) (*domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.projects[projectID.UUID]
	if !ok || p.Deleted() || p.TeamID != teamID || !s.memberTeamSet(userID)[teamID.UUID] {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (s *Store) CreateProject(ctx context.Context, p *domain.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	s.projects[p.ID.UUID] = &cp
	return nil
}

func (s *Store) UpdateProjectName(ctx context.Context, projectID domain.ProjectID, name string, now time.Time) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[projectID.UUID]
	if !ok || p.Deleted() {
		return nil, nil
	}
	p.Name = name
	p.UpdatedAt = now
	cp := *p
	return &cp, nil
}

func (s *Store) SoftDeleteProject(ctx context.Context, projectID domain.ProjectID, now time.Time) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[projectID.UUID]
	if !ok || p.Deleted() {
		return nil, nil
	}
	at := now
	p.DeletedAt = &at
	p.UpdatedAt = now
	cp := *p
	return &cp, nil
}

// --- TaskRepository ---

func (s *Store) visibleTaskLocked(projectID domain.ProjectID, taskID domain.TaskID, userID domain.UserID) *domain.Task {
	t, ok := s.tasks[taskID.UUID]
	if !ok || t.Deleted() || t.ProjectID != projectID {
		return nil
	}
	p, ok := s.projects[t.ProjectID.UUID]
	if !ok || p.Deleted() || !s.memberTeamSet(userID)[p.TeamID.UUID] {
		return nil
	}
	return t
}

func (s *Store) ListTasksForUser(ctx context.Context, projectID domain.ProjectID, userID domain.UserID) ([]*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.projects[projectID.UUID]
	if !ok || p.Deleted() || !s.memberTeamSet(userID)[p.TeamID.UUID] {
		return nil, nil
	}
	var out []*domain.Task
	for _, t := range s.tasks {
		if t.ProjectID == projectID && !t.Deleted() {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *Store) GetTaskForUser(ctx context.Context, projectID domain.ProjectID, taskID domain.TaskID, userID domain.UserID) (*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t := s.visibleTaskLocked(projectID, taskID, userID)
	if t == nil {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (s *Store) CreateTask(ctx context.Context, t *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *t
	s.tasks[t.ID.UUID] = &cp
	return nil
}

func (s *Store) UpdateTask(ctx context.Context, taskID domain.TaskID, title *string, status *domain.TaskStatus, now time.Time) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[taskID.UUID]
	if !ok || t.Deleted() {
		return nil, nil
	}
	if title != nil {
		t.Title = *title
	}
	if status != nil {
		t.Status = *status
	}
	t.UpdatedAt = now
	cp := *t
	return &cp, nil
}

func (s *Store) SoftDeleteTask(ctx context.Context, taskID domain.TaskID, now time.Time) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[taskID.UUID]
	if !ok || t.Deleted() {
		return nil, nil
	}
	at := now
	t.DeletedAt = &at
	t.UpdatedAt = now
	cp := *t
	return &cp, nil
}

func (s *Store) CountByStatus(ctx context.Context, projectID domain.ProjectID) (map[domain.TaskStatus]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[domain.TaskStatus]int)
	for _, t := range s.tasks {
		if t.ProjectID == projectID && !t.Deleted() {
			counts[t.Status]++
		}
	}
	return counts, nil
}

// --- InviteRepository ---

func (s *Store) CreateInvite(ctx context.Context, inv *domain.Invite) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *inv
	s.invites[inv.ID.UUID] = &cp
	return nil
}

func (s *Store) DeletePending(ctx context.Context, teamID domain.TeamID, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, inv := range s.invites {
		if inv.TeamID == teamID && inv.Email == email && !inv.Accepted() {
			delete(s.invites, id)
		}
	}
	return nil
}

func (s *Store) ListPending(ctx context.Context, teamID domain.TeamID, now time.Time) ([]*domain.Invite, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*domain.Invite
	for _, inv := range s.invites {
		if inv.TeamID == teamID && inv.Pending(now) {
			cp := *inv
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *Store) DeleteInvite(ctx context.Context, inviteID domain.InviteID, teamID domain.TeamID) (*domain.Invite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.invites[inviteID.UUID]
	if !ok || inv.TeamID != teamID {
		return nil, nil
	}
	delete(s.invites, inviteID.UUID)
	cp := *inv
	return &cp, nil
}

func (s *Store) GetByTokenAndEmail(ctx context.Context, token, email string) (*domain.Invite, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, inv := range s.invites {
		if inv.Token == token && inv.Email == email {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *Store) AcceptInvite(ctx context.Context, inviteID domain.InviteID, m *domain.Membership, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.invites[inviteID.UUID]
	if !ok {
		return nil
	}
	s.insertMembershipLocked(m)
	at := now
	inv.AcceptedAt = &at
	return nil
}

// --- UserRepository ---

func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *user
	s.users[user.ID.UUID] = &cp
	return nil
}

func (s *Store) GetByID(ctx context.Context, userID domain.UserID) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[userID.UUID]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (s *Store) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

// --- API keys (satisfies the identity provider's key store) ---

func (s *Store) Insert(ctx context.Context, id uuid.UUID, userID domain.UserID, name, keyHash string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apiKeys[keyHash] = userID
	return nil
}

func (s *Store) UserIDByHash(ctx context.Context, keyHash string) (domain.UserID, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	userID, ok := s.apiKeys[keyHash]
	return userID, ok, nil
}

// Typed views, since several repository interfaces share method names.

// Teams returns the store as a TeamRepository.
func (s *Store) Teams() ports.TeamRepository { return s }

// Memberships returns the store as a MembershipRepository.
func (s *Store) Memberships() ports.MembershipRepository { return s }

// Projects returns the store as a ProjectRepository.
func (s *Store) Projects() ports.ProjectRepository { return projectView{s} }

// Tasks returns the store as a TaskRepository.
func (s *Store) Tasks() ports.TaskRepository { return taskView{s} }

// Invites returns the store as an InviteRepository.
func (s *Store) Invites() ports.InviteRepository { return inviteView{s} }

// Users returns the store as a UserRepository.
func (s *Store) Users() ports.UserRepository { return userView{s} }

type projectView struct{ s *Store }

func (v projectView) ListForUser(ctx context.Context, teamID domain.TeamID, userID domain.UserID) ([]*domain.Project, error) {
	return v.s.ListProjectsForUser(ctx, teamID, userID)
}
func (v projectView) GetForUser(ctx context.Context, teamID domain.TeamID, projectID domain.ProjectID, userID domain.UserID) (*domain.Project, error) {
	return v.s.GetProjectForUser(ctx, teamID, projectID, userID)
}
func (v projectView) Create(ctx context.Context, p *domain.Project) error {
	return v.s.CreateProject(ctx, p)
}
func (v projectView) UpdateName(ctx context.Context, projectID domain.ProjectID, name string, now time.Time) (*domain.Project, error) {
	return v.s.UpdateProjectName(ctx, projectID, name, now)
}
func (v projectView) SoftDelete(ctx context.Context, projectID domain.ProjectID, now time.Time) (*domain.Project, error) {
	return v.s.SoftDeleteProject(ctx, projectID, now)
}

type taskView struct{ s *Store }

func (v taskView) ListForUser(ctx context.Context, projectID domain.ProjectID, userID domain.UserID) ([]*domain.Task, error) {
	return v.s.ListTasksForUser(ctx, projectID, userID)
}
func (v taskView) GetForUser(ctx context.Context, projectID domain.ProjectID, taskID domain.TaskID, userID domain.UserID) (*domain.Task, error) {
	return v.s.GetTaskForUser(ctx, projectID, taskID, userID)
}
func (v taskView) Create(ctx context.Context, t *domain.Task) error {
	return v.s.CreateTask(ctx, t)
}
func (v taskView) Update(ctx context.Context, taskID domain.TaskID, title *string, status *domain.TaskStatus, now time.Time) (*domain.Task, error) {
	return v.s.UpdateTask(ctx, taskID, title, status, now)
}
func (v taskView) SoftDelete(ctx context.Context, taskID domain.TaskID, now time.Time) (*domain.Task, error) {
	return v.s.SoftDeleteTask(ctx, taskID, now)
}
func (v taskView) CountByStatus(ctx context.Context, projectID domain.ProjectID) (map[domain.TaskStatus]int, error) {
	return v.s.CountByStatus(ctx, projectID)
}

type inviteView struct{ s *Store }

func (v inviteView) Create(ctx context.Context, inv *domain.Invite) error {
	return v.s.CreateInvite(ctx, inv)
}
func (v inviteView) DeletePending(ctx context.Context, teamID domain.TeamID, email string) error {
	return v.s.DeletePending(ctx, teamID, email)
}
func (v inviteView) ListPending(ctx context.Context, teamID domain.TeamID, now time.Time) ([]*domain.Invite, error) {
	return v.s.ListPending(ctx, teamID, now)
}
func (v inviteView) Delete(ctx context.Context, inviteID domain.InviteID, teamID domain.TeamID) (*domain.Invite, error) {
	return v.s.DeleteInvite(ctx, inviteID, teamID)
}
func (v inviteView) GetByTokenAndEmail(ctx context.Context, token, email string) (*domain.Invite, error) {
	return v.s.GetByTokenAndEmail(ctx, token, email)
}
func (v inviteView) Accept(ctx context.Context, inviteID domain.InviteID, m *domain.Membership, now time.Time) error {
	return v.s.AcceptInvite(ctx, inviteID, m, now)
}

type userView struct{ s *Store }

func (v userView) Create(ctx context.Context, user *domain.User) error {
	return v.s.CreateUser(ctx, user)
}
func (v userView) GetByID(ctx context.Context, userID domain.UserID) (*domain.User, error) {
	return v.s.GetByID(ctx, userID)
}
func (v userView) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return v.s.GetByEmail(ctx, email)
}

var (
	_ ports.TeamRepository       = (*Store)(nil)
	_ ports.MembershipRepository = (*Store)(nil)
	_ ports.ProjectRepository    = projectView{}
	_ ports.TaskRepository       = taskView{}
	_ ports.InviteRepository     = inviteView{}
	_ ports.UserRepository       = userView{}
)
