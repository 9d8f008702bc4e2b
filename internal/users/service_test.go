package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumen-lms/lumen/internal/auth"
	"github.com/lumen-lms/lumen/internal/rbac"
	"github.com/lumen-lms/lumen/internal/shared"
	_ "github.com/lumen-lms/lumen/testing"
)

type mockRepository struct {
	users     map[int64]*auth.User
	roleNames map[int64][]string
	roleIDs   map[int64][]int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		users:     map[int64]*auth.User{},
		roleNames: map[int64][]string{},
		roleIDs:   map[int64][]int64{},
	}
}

func (m *mockRepository) List(_ context.Context, p shared.Pagination) ([]auth.User, int, error) {
	var out []auth.User
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, len(m.users), nil
}

func (m *mockRepository) Get(_ context.Context, id int64) (*auth.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (m *mockRepository) Update(_ context.Context, id int64, in UpdateInput) (*auth.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	u.Name = in.Name
	u.Email = in.Email
	u.Mobile = in.Mobile
	if in.RoleIDs != nil {
		m.roleIDs[id] = in.RoleIDs
	}
	copied := *u
	return &copied, nil
}

func (m *mockRepository) Delete(_ context.Context, id int64) error {
	if _, ok := m.users[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *mockRepository) RoleNames(_ context.Context, userID int64) ([]string, error) {
	return m.roleNames[userID], nil
}

type mockPermissionLister struct {
	perms map[int64][]rbac.UserPermission
}

func (m *mockPermissionLister) UserPermissions(_ context.Context, userID int64) ([]rbac.UserPermission, error) {
	return m.perms[userID], nil
}

func TestGetUserDetail(t *testing.T) {
	repo := newMockRepository()
	repo.users[1] = &auth.User{ID: 1, Name: "Asel", Username: "asel"}
	repo.roleNames[1] = []string{"admin"}
	perms := &mockPermissionLister{perms: map[int64][]rbac.UserPermission{
		1: {{RoleName: "admin", ModuleName: "courses"}},
	}}
	svc := NewService(repo, perms)

	detail, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"admin"}, detail.Roles)
	require.Len(t, detail.Permissions, 1)
	assert.Equal(t, "courses", detail.Permissions[0].ModuleName)
}

func TestGetUserNotFound(t *testing.T) {
	svc := NewService(newMockRepository(), &mockPermissionLister{})

	_, err := svc.Get(context.Background(), 42)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestUpdateUserReplacesRoleSet(t *testing.T) {
	repo := newMockRepository()
	repo.users[1] = &auth.User{ID: 1, Name: "Asel"}
	repo.roleIDs[1] = []int64{1}
	svc := NewService(repo, &mockPermissionLister{})

	_, err := svc.Update(context.Background(), 1, UpdateInput{
		Name: "Asel", Email: "asel@example.com", Mobile: "700123456",
		RoleIDs: []int64{2, 3},
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3}, repo.roleIDs[1])

	// Nil RoleIDs leaves assignments alone.
	_, err = svc.Update(context.Background(), 1, UpdateInput{
		Name: "Asel", Email: "asel@example.com", Mobile: "700123456",
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3}, repo.roleIDs[1])
}

func TestDeleteUser(t *testing.T) {
	repo := newMockRepository()
	repo.users[1] = &auth.User{ID: 1}
	svc := NewService(repo, &mockPermissionLister{})

	require.NoError(t, svc.Delete(context.Background(), 1))
	assert.ErrorIs(t, svc.Delete(context.Background(), 1), shared.ErrNotFound)
}

func TestListUsersAttachesRoles(t *testing.T) {
	repo := newMockRepository()
	repo.users[1] = &auth.User{ID: 1, Name: "Asel"}
	repo.roleNames[1] = []string{"student"}
	svc := NewService(repo, &mockPermissionLister{})

	list, total, err := svc.List(context.Background(), shared.NewPagination(1, 10, 0))
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, []string{"student"}, list[0].Roles)
}
