// Package mocks provides in-memory repositories for handler and service tests.
package mocks

import (
	"context"
	"strconv"
	"sync"

	"volunteerhub/models"
)

type MockUserRepo struct {
	mu    sync.Mutex
	Users map[string]models.User // keyed by email
}

func NewUserRepo() *MockUserRepo { return &MockUserRepo{Users: map[string]models.User{}} }

func (m *MockUserRepo) Create(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Users[u.Email]; ok {
		return models.ErrDuplicateEmail
	}
	if u.ID == "" {
		u.ID = "u" + strconv.Itoa(len(m.Users)+1)
	}
	m.Users[u.Email] = *u
	return nil
}

// ValidateCredentials compares plain text; hashing is covered by the SQL repo tests.
func (m *MockUserRepo) ValidateCredentials(_ context.Context, email, plain string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.Users[email]
	if !ok || u.Password != plain {
		return models.User{}, models.ErrInvalidCredentials
	}
	return u, nil
}

func (m *MockUserRepo) GetByID(_ context.Context, id string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.Users {
		if u.ID == id {
			return u, nil
		}
	}
	return models.User{}, models.ErrNotFound
}

type MockEventRepo struct {
	mu    sync.Mutex
	Items map[string]models.Event
	Order []string
	// Gate, when set, blocks GetAll until it is closed or the context ends.
	Gate chan struct{}
	Err  error
}

func NewEventRepo(events ...models.Event) *MockEventRepo {
	m := &MockEventRepo{Items: map[string]models.Event{}}
	for _, e := range events {
		m.put(e)
	}
	return m
}

func (m *MockEventRepo) put(e models.Event) {
	if _, ok := m.Items[e.ID]; !ok {
		m.Order = append(m.Order, e.ID)
	}
	m.Items[e.ID] = e
}

func (m *MockEventRepo) GetAll(ctx context.Context) ([]models.Event, error) {
	if err := wait(ctx, m.Gate); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]models.Event, 0, len(m.Order))
	for _, id := range m.Order {
		if e, ok := m.Items[id]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *MockEventRepo) GetByID(_ context.Context, id string) (models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.Items[id]
	if !ok {
		return models.Event{}, models.ErrNotFound
	}
	return e, nil
}

func (m *MockEventRepo) Create(_ context.Context, e *models.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.put(*e)
	return nil
}

func (m *MockEventRepo) Update(_ context.Context, e *models.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Items[e.ID]; !ok {
		return models.ErrNotFound
	}
	m.Items[e.ID] = *e
	return nil
}

func (m *MockEventRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Items, id)
	return nil
}

type MockOpportunityRepo struct {
	mu    sync.Mutex
	Items map[string]models.Opportunity
	Order []string
	Gate  chan struct{}
	Err   error
}

func NewOpportunityRepo(opps ...models.Opportunity) *MockOpportunityRepo {
	m := &MockOpportunityRepo{Items: map[string]models.Opportunity{}}
	for _, o := range opps {
		m.put(o)
	}
	return m
}

func (m *MockOpportunityRepo) put(o models.Opportunity) {
	if _, ok := m.Items[o.ID]; !ok {
		m.Order = append(m.Order, o.ID)
	}
	m.Items[o.ID] = o
}

func (m *MockOpportunityRepo) GetAll(ctx context.Context) ([]models.Opportunity, error) {
	if err := wait(ctx, m.Gate); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]models.Opportunity, 0, len(m.Order))
	for _, id := range m.Order {
		out = append(out, m.Items[id])
	}
	return out, nil
}

func (m *MockOpportunityRepo) GetByID(_ context.Context, id string) (models.Opportunity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.Items[id]
	if !ok {
		return models.Opportunity{}, models.ErrNotFound
	}
	return o, nil
}

func (m *MockOpportunityRepo) Create(_ context.Context, o *models.Opportunity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.put(*o)
	return nil
}

type pair struct{ user, item string }

// MockRegRepo keeps registrations in insertion order. Gate, when set, holds
// Register open so tests can observe an in-flight request.
type MockRegRepo struct {
	mu    sync.Mutex
	pairs []pair
	Calls int
	Gate  chan struct{}
	Err   error
	// ReadErr fails Registrants once a Register has gone through.
	ReadErr error
	wrote   bool
}

func NewRegRepo() *MockRegRepo { return &MockRegRepo{} }

func (m *MockRegRepo) Seed(userID, eventID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pairs = append(m.pairs, pair{userID, eventID})
}

func (m *MockRegRepo) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls
}

func (m *MockRegRepo) Register(ctx context.Context, uid, eid string) error {
	m.mu.Lock()
	m.Calls++
	gate, injected := m.Gate, m.Err
	m.mu.Unlock()

	if err := wait(ctx, gate); err != nil {
		return err
	}
	if injected != nil {
		return injected
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if indexOf(m.pairs, uid, eid) >= 0 {
		return models.ErrAlreadyRegistered
	}
	m.pairs = append(m.pairs, pair{uid, eid})
	m.wrote = true
	return nil
}

func (m *MockRegRepo) Cancel(_ context.Context, uid, eid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := indexOf(m.pairs, uid, eid)
	if i < 0 {
		return models.ErrNotFound
	}
	m.pairs = append(m.pairs[:i], m.pairs[i+1:]...)
	return nil
}

func (m *MockRegRepo) EventIDsByUser(_ context.Context, uid string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []string{}
	for _, p := range m.pairs {
		if p.user == uid {
			out = append(out, p.item)
		}
	}
	return out, nil
}

func (m *MockRegRepo) Registrants(_ context.Context, eid string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.wrote && m.ReadErr != nil {
		return nil, m.ReadErr
	}
	out := []string{}
	for _, p := range m.pairs {
		if p.item == eid {
			out = append(out, p.user)
		}
	}
	return out, nil
}

func (m *MockRegRepo) RegistrantsByEvent(_ context.Context) (map[string][]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[string][]string{}
	for _, p := range m.pairs {
		out[p.item] = append(out[p.item], p.user)
	}
	return out, nil
}

// MockAppRepo mirrors MockRegRepo for applications.
type MockAppRepo struct {
	mu    sync.Mutex
	apps  []models.Application
	Calls int
	Gate  chan struct{}
	Err   error
	// ReadErr fails Applicants once a Create has gone through.
	ReadErr error
	wrote   bool
}

func NewAppRepo() *MockAppRepo { return &MockAppRepo{} }

func (m *MockAppRepo) Seed(userID, opportunityID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.apps = append(m.apps, models.Application{
		ID: "a" + strconv.Itoa(len(m.apps)+1), UserID: userID, OpportunityID: opportunityID, Status: models.ApplicationPending,
	})
}

func (m *MockAppRepo) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls
}

func (m *MockAppRepo) Create(ctx context.Context, a *models.Application) error {
	m.mu.Lock()
	m.Calls++
	gate, injected := m.Gate, m.Err
	m.mu.Unlock()

	if err := wait(ctx, gate); err != nil {
		return err
	}
	if injected != nil {
		return injected
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, x := range m.apps {
		if x.UserID == a.UserID && x.OpportunityID == a.OpportunityID {
			return models.ErrAlreadyApplied
		}
	}
	if a.ID == "" {
		a.ID = "a" + strconv.Itoa(len(m.apps)+1)
	}
	if a.Status == "" {
		a.Status = models.ApplicationPending
	}
	m.apps = append(m.apps, *a)
	m.wrote = true
	return nil
}

func (m *MockAppRepo) ListByUser(_ context.Context, uid string) ([]models.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Application{}
	for _, a := range m.apps {
		if a.UserID == uid {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *MockAppRepo) Applicants(_ context.Context, oid string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.wrote && m.ReadErr != nil {
		return nil, m.ReadErr
	}
	out := []string{}
	for _, a := range m.apps {
		if a.OpportunityID == oid {
			out = append(out, a.UserID)
		}
	}
	return out, nil
}

func (m *MockAppRepo) ApplicantsByOpportunity(_ context.Context) (map[string][]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[string][]string{}
	for _, a := range m.apps {
		out[a.OpportunityID] = append(out[a.OpportunityID], a.UserID)
	}
	return out, nil
}

func indexOf(pairs []pair, user, item string) int {
	for i, p := range pairs {
		if p.user == user && p.item == item {
			return i
		}
	}
	return -1
}

func wait(ctx context.Context, gate chan struct{}) error {
	if gate == nil {
		return nil
	}
	select {
	case <-gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
