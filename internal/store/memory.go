package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/tghbhs/science-carnival/backend/internal/models"
)

// Memory implements Store with in-process maps. It backs handler tests and
// local development. Ids are monotonic per entity and never reused after
// deletion, matching the relational implementation.
type Memory struct {
	mu            sync.Mutex
	users         map[int64]*models.User
	registrations map[int64]*models.Registration
	wiki          map[int64]*models.WikiContent
	settings      map[string]*models.Setting

	nextUserID    int64
	nextRegID     int64
	nextWikiID    int64
	nextSettingID int64
}

func NewMemory() *Memory {
	return &Memory{
		users:         map[int64]*models.User{},
		registrations: map[int64]*models.Registration{},
		wiki:          map[int64]*models.WikiContent{},
		settings:      map[string]*models.Setting{},
		nextUserID:    1,
		nextRegID:     1,
		nextWikiID:    1,
		nextSettingID: 1,
	}
}

// ── Users ────────────────────────────────────────────────

func (m *Memory) GetUser(_ context.Context, id int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *Memory) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) GetUsers(_ context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	users := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, *u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (m *Memory) CreateUser(_ context.Context, n *models.NewUser) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == n.Username {
			return nil, ErrDuplicateUsername
		}
	}
	role := n.Role
	if role == "" {
		role = models.RoleUser
	}
	u := &models.User{
		ID:          m.nextUserID,
		Username:    n.Username,
		Password:    n.Password,
		FirstName:   n.FirstName,
		LastName:    n.LastName,
		Email:       n.Email,
		PhoneNumber: n.PhoneNumber,
		Role:        role,
		CreatedAt:   time.Now(),
	}
	m.nextUserID++
	m.users[u.ID] = u
	cp := *u
	return &cp, nil
}

func (m *Memory) UpdateUser(_ context.Context, id int64, upd models.UserUpdate) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	if upd.Username != nil {
		for _, other := range m.users {
			if other.ID != id && other.Username == *upd.Username {
				return nil, ErrDuplicateUsername
			}
		}
		u.Username = *upd.Username
	}
	if upd.Password != nil {
		u.Password = *upd.Password
	}
	if upd.FirstName != nil {
		u.FirstName = *upd.FirstName
	}
	if upd.LastName != nil {
		u.LastName = *upd.LastName
	}
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	if upd.PhoneNumber != nil {
		u.PhoneNumber = *upd.PhoneNumber
	}
	if upd.Role != nil {
		u.Role = *upd.Role
	}
	cp := *u
	return &cp, nil
}

func (m *Memory) DeleteUser(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return ErrNotFound
	}
	delete(m.users, id)
	return nil
}

// ── Registrations ────────────────────────────────────────

func copyRegistration(r *models.Registration) *models.Registration {
	cp := *r
	cp.Activities = append([]string{}, r.Activities...)
	if r.UserID != nil {
		uid := *r.UserID
		cp.UserID = &uid
	}
	return &cp
}

func (m *Memory) GetRegistration(_ context.Context, id int64) (*models.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.registrations[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyRegistration(r), nil
}

func (m *Memory) GetRegistrationByCode(_ context.Context, code string) (*models.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.registrations {
		if r.RegistrationID == code {
			return copyRegistration(r), nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) GetRegistrationsByUser(_ context.Context, userID int64) ([]models.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	regs := []models.Registration{}
	for _, r := range m.registrations {
		if r.UserID != nil && *r.UserID == userID {
			regs = append(regs, *copyRegistration(r))
		}
	}
	sort.Slice(regs, func(i, j int) bool { return regs[i].ID < regs[j].ID })
	return regs, nil
}

func (m *Memory) GetAllRegistrations(_ context.Context) ([]models.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	regs := make([]models.Registration, 0, len(m.registrations))
	for _, r := range m.registrations {
		regs = append(regs, *copyRegistration(r))
	}
	sort.Slice(regs, func(i, j int) bool { return regs[i].ID < regs[j].ID })
	return regs, nil
}

func (m *Memory) CreateRegistration(_ context.Context, n *models.NewRegistration) (*models.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	status := n.Status
	if status == "" {
		status = models.StatusPending
	}
	r := &models.Registration{
		ID:              m.nextRegID,
		UserID:          n.UserID,
		FirstName:       n.FirstName,
		LastName:        n.LastName,
		Email:           n.Email,
		PhoneNumber:     n.PhoneNumber,
		ParticipantType: n.ParticipantType,
		Grade:           n.Grade,
		Activities:      append([]string{}, n.Activities...),
		SpecialRequests: n.SpecialRequests,
		Status:          status,
		RegistrationID:  NewRegistrationCode(time.Now()),
		CreatedAt:       time.Now(),
	}
	m.nextRegID++
	m.registrations[r.ID] = r
	return copyRegistration(r), nil
}

func (m *Memory) UpdateRegistration(_ context.Context, id int64, upd models.RegistrationUpdate) (*models.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.registrations[id]
	if !ok {
		return nil, ErrNotFound
	}
	if upd.FirstName != nil {
		r.FirstName = *upd.FirstName
	}
	if upd.LastName != nil {
		r.LastName = *upd.LastName
	}
	if upd.Email != nil {
		r.Email = *upd.Email
	}
	if upd.PhoneNumber != nil {
		r.PhoneNumber = *upd.PhoneNumber
	}
	if upd.ParticipantType != nil {
		r.ParticipantType = *upd.ParticipantType
	}
	if upd.Grade != nil {
		r.Grade = *upd.Grade
	}
	if upd.Activities != nil {
		r.Activities = append([]string{}, (*upd.Activities)...)
	}
	if upd.SpecialRequests != nil {
		r.SpecialRequests = *upd.SpecialRequests
	}
	if upd.Status != nil {
		r.Status = *upd.Status
	}
	return copyRegistration(r), nil
}

func (m *Memory) DeleteRegistration(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.registrations[id]; !ok {
		return ErrNotFound
	}
	delete(m.registrations, id)
	return nil
}

// ── Wiki content ─────────────────────────────────────────

func (m *Memory) GetWikiContent(_ context.Context, id int64) (*models.WikiContent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.wiki[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *Memory) GetWikiContentByCategory(_ context.Context, category string) ([]models.WikiContent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := []models.WikiContent{}
	for _, c := range m.wiki {
		if c.Category == category {
			all = append(all, *c)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all, nil
}

func (m *Memory) GetAllWikiContent(_ context.Context) ([]models.WikiContent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := make([]models.WikiContent, 0, len(m.wiki))
	for _, c := range m.wiki {
		all = append(all, *c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all, nil
}

func (m *Memory) GetAllWikiCategories(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := map[string]bool{}
	categories := []string{}
	for _, c := range m.wiki {
		if !seen[c.Category] {
			seen[c.Category] = true
			categories = append(categories, c.Category)
		}
	}
	sort.Strings(categories)
	return categories, nil
}

func (m *Memory) CreateWikiContent(_ context.Context, n *models.NewWikiContent) (*models.WikiContent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := &models.WikiContent{
		ID:          m.nextWikiID,
		Title:       n.Title,
		Content:     n.Content,
		Category:    n.Category,
		CreatedBy:   n.CreatedBy,
		LastUpdated: time.Now(),
	}
	m.nextWikiID++
	m.wiki[c.ID] = c
	cp := *c
	return &cp, nil
}

func (m *Memory) UpdateWikiContent(_ context.Context, id int64, upd models.WikiContentUpdate) (*models.WikiContent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.wiki[id]
	if !ok {
		return nil, ErrNotFound
	}
	if upd.Title != nil {
		c.Title = *upd.Title
	}
	if upd.Content != nil {
		c.Content = *upd.Content
	}
	if upd.Category != nil {
		c.Category = *upd.Category
	}
	c.LastUpdated = time.Now()
	cp := *c
	return &cp, nil
}

func (m *Memory) DeleteWikiContent(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.wiki[id]; !ok {
		return ErrNotFound
	}
	delete(m.wiki, id)
	return nil
}

// ── Settings ─────────────────────────────────────────────

func (m *Memory) GetSetting(_ context.Context, name string) (*models.Setting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.settings[name]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *st
	return &cp, nil
}

func (m *Memory) GetSettingsByGroup(_ context.Context, group string) ([]models.Setting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	settings := []models.Setting{}
	for _, st := range m.settings {
		if st.Group == group {
			settings = append(settings, *st)
		}
	}
	sort.Slice(settings, func(i, j int) bool { return settings[i].ID < settings[j].ID })
	return settings, nil
}

func (m *Memory) GetAllSettings(_ context.Context) ([]models.Setting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	settings := make([]models.Setting, 0, len(m.settings))
	for _, st := range m.settings {
		settings = append(settings, *st)
	}
	sort.Slice(settings, func(i, j int) bool { return settings[i].ID < settings[j].ID })
	return settings, nil
}

func (m *Memory) CreateSetting(_ context.Context, s *models.Setting) (*models.Setting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := &models.Setting{
		ID:    m.nextSettingID,
		Name:  s.Name,
		Value: s.Value,
		Group: s.Group,
	}
	m.nextSettingID++
	m.settings[st.Name] = st
	cp := *st
	return &cp, nil
}

func (m *Memory) UpdateSetting(_ context.Context, name, value string) (*models.Setting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.settings[name]
	if !ok {
		return nil, ErrNotFound
	}
	st.Value = value
	cp := *st
	return &cp, nil
}
