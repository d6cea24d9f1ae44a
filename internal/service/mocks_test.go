package service

import (
	"context"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/membership-service/internal/domain"
)

type stubUserRepo struct {
	users map[string]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) error {
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.users, id)
	return nil
}

func (r *stubUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := r.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, pgx.ErrNoRows
}

func (r *stubUserRepo) GetByUserName(_ context.Context, userName string) (*domain.User, error) {
	for _, u := range r.users {
		if u.UserName == userName {
			return cloneUser(u), nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *stubUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *stubUserRepo) matches(u *domain.User, keyword string) bool {
	return keyword == "" ||
		strings.Contains(u.UserName, keyword) ||
		strings.Contains(u.Phone, keyword)
}

func (r *stubUserRepo) List(_ context.Context, keyword string, limit, offset int) ([]domain.User, error) {
	var matched []domain.User
	for _, u := range r.users {
		if r.matches(u, keyword) {
			matched = append(matched, *cloneUser(u))
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].UserName < matched[j].UserName })

	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r *stubUserRepo) Count(_ context.Context, keyword string) (int, error) {
	total := 0
	for _, u := range r.users {
		if r.matches(u, keyword) {
			total++
		}
	}
	return total, nil
}

type stubRoleRepo struct {
	roles       map[string]*domain.Role
	memberships map[string]map[string]struct{} // userID -> role id set
	callLog     []string
}

func newStubRoleRepo(roleNames ...string) *stubRoleRepo {
	r := &stubRoleRepo{
		roles:       make(map[string]*domain.Role),
		memberships: make(map[string]map[string]struct{}),
	}
	for _, name := range roleNames {
		r.roles[name] = &domain.Role{ID: "role-" + name, Name: name}
	}
	return r
}

func (r *stubRoleRepo) GetByName(_ context.Context, name string) (*domain.Role, error) {
	if role, ok := r.roles[name]; ok {
		clone := *role
		return &clone, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *stubRoleRepo) List(_ context.Context) ([]domain.Role, error) {
	var roles []domain.Role
	for _, role := range r.roles {
		roles = append(roles, *role)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i].Name < roles[j].Name })
	return roles, nil
}

func (r *stubRoleRepo) ListNamesForUser(_ context.Context, userID string) ([]string, error) {
	var names []string
	for roleID := range r.memberships[userID] {
		for _, role := range r.roles {
			if role.ID == roleID {
				names = append(names, role.Name)
			}
		}
	}
	sort.Strings(names)
	return names, nil
}

func (r *stubRoleRepo) AddUserToRoles(_ context.Context, userID string, roleIDs []string) error {
	r.callLog = append(r.callLog, "add")
	if r.memberships[userID] == nil {
		r.memberships[userID] = make(map[string]struct{})
	}
	for _, roleID := range roleIDs {
		r.memberships[userID][roleID] = struct{}{}
	}
	return nil
}

func (r *stubRoleRepo) RemoveUserFromRoles(_ context.Context, userID string, roleNames []string) error {
	r.callLog = append(r.callLog, "remove")
	for _, name := range roleNames {
		role, ok := r.roles[name]
		if !ok {
			continue
		}
		delete(r.memberships[userID], role.ID)
	}
	return nil
}

func (r *stubRoleRepo) grant(userID string, roleNames ...string) {
	if r.memberships[userID] == nil {
		r.memberships[userID] = make(map[string]struct{})
	}
	for _, name := range roleNames {
		r.memberships[userID][r.roles[name].ID] = struct{}{}
	}
}
