package service

import (
	"context"
	"encoding/base64"
	"strconv"
	"sync"

	"github.com/Sirpyerre/user-management/internal/core/domain"
)

// ---------------------------------------------------------------------------
// Stubs shared by the service tests.
// ---------------------------------------------------------------------------

var testSecret = base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef"))

type stubUserRepo struct {
	mu        sync.Mutex
	byID      map[string]*domain.User
	seq       int
	findErr   error
	findCalls int

	// When release is set, FindByName announces itself on entered and waits
	// for release to be closed.
	entered chan struct{}
	release chan struct{}
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User)}
}

func (r *stubUserRepo) calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.findCalls
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.Roles = append([]domain.Role(nil), u.Roles...)
	return &clone
}

func (r *stubUserRepo) FindByName(ctx context.Context, name string) (*domain.User, error) {
	r.mu.Lock()
	r.findCalls++
	release := r.release
	r.mu.Unlock()

	if release != nil {
		r.entered <- struct{}{}
		<-release
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.byID {
		if u.Name == name {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) ExistsByName(_ context.Context, name string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUserRepo) conflict(user *domain.User) error {
	for _, u := range r.byID {
		if u.ID == user.ID {
			continue
		}
		if u.Name == user.Name {
			return domain.ErrNameTaken
		}
		if u.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}
	return nil
}

func (r *stubUserRepo) Save(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.conflict(user); err != nil {
		return nil, err
	}
	r.seq++
	saved := cloneUser(user)
	saved.ID = strconv.Itoa(r.seq)
	r.byID[saved.ID] = saved
	return cloneUser(saved), nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[user.ID]; !ok {
		return nil, domain.ErrUserNotFound
	}
	if err := r.conflict(user); err != nil {
		return nil, err
	}
	r.byID[user.ID] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.User, 0, len(r.byID))
	for _, u := range r.byID {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func (r *stubUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

type stubRoleRepo struct {
	roles map[domain.RoleName]*domain.Role
}

func newStubRoleRepo(names ...domain.RoleName) *stubRoleRepo {
	r := &stubRoleRepo{roles: make(map[domain.RoleName]*domain.Role)}
	for _, n := range names {
		r.roles[n] = &domain.Role{ID: "role-" + string(n), Name: n}
	}
	return r
}

func (r *stubRoleRepo) FindByName(_ context.Context, name domain.RoleName) (*domain.Role, error) {
	role, ok := r.roles[name]
	if !ok {
		return nil, domain.ErrRoleNotFound
	}
	clone := *role
	return &clone, nil
}

func (r *stubRoleRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.roles)), nil
}

func (r *stubRoleRepo) Save(_ context.Context, role *domain.Role) (*domain.Role, error) {
	saved := &domain.Role{ID: "role-" + string(role.Name), Name: role.Name}
	r.roles[role.Name] = saved
	return saved, nil
}

// fakeHasher avoids bcrypt cost in unit tests.
type fakeHasher struct {
	mu       sync.Mutex
	verifies int
}

func (h *fakeHasher) Hash(plain string) (string, error) {
	return "hashed:" + plain, nil
}

func (h *fakeHasher) Verify(plain, hash string) bool {
	h.mu.Lock()
	h.verifies++
	h.mu.Unlock()
	return hash == "hashed:"+plain
}

type recordingSink struct {
	mu     sync.Mutex
	events []domain.AuthEvent
}

func (s *recordingSink) Record(e domain.AuthEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}

func (s *recordingSink) types() []domain.AuthEventType {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.AuthEventType, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e.Type)
	}
	return out
}

type stubCache struct {
	mu          sync.Mutex
	users       map[string]*domain.User
	invalidated []string
}

func newStubCache() *stubCache {
	return &stubCache{users: make(map[string]*domain.User)}
}

func (c *stubCache) Get(_ context.Context, name string) (*domain.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneUser(c.users[name]), nil
}

func (c *stubCache) Set(_ context.Context, user *domain.User) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.users[user.Name] = cloneUser(user)
	return nil
}

func (c *stubCache) Invalidate(_ context.Context, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.users, name)
	c.invalidated = append(c.invalidated, name)
	return nil
}

// seedUser stores an enabled user with the given roles and password.
func seedUser(repo *stubUserRepo, name, email, password string, roles ...domain.RoleName) *domain.User {
	rs := make([]domain.Role, 0, len(roles))
	for _, r := range roles {
		rs = append(rs, domain.Role{ID: "role-" + string(r), Name: r})
	}
	u, err := repo.Save(context.Background(), &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: "hashed:" + password,
		Roles:        rs,
		Enabled:      true,
	})
	if err != nil {
		panic(err)
	}
	return u
}
