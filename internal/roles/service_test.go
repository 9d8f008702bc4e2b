package roles

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumen-lms/lumen/internal/shared"
	_ "github.com/lumen-lms/lumen/testing"
)

type mockRepository struct {
	roles  map[int64]Role
	nextID int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{roles: map[int64]Role{}}
}

func (m *mockRepository) List(_ context.Context, p shared.Pagination) ([]Role, int, error) {
	var out []Role
	for _, r := range m.roles {
		out = append(out, r)
	}
	return out, len(m.roles), nil
}

func (m *mockRepository) Get(_ context.Context, id int64) (Role, error) {
	r, ok := m.roles[id]
	if !ok {
		return Role{}, shared.ErrNotFound
	}
	return r, nil
}

func (m *mockRepository) Create(_ context.Context, role Role) (Role, error) {
	for _, existing := range m.roles {
		if existing.Name == role.Name {
			return Role{}, shared.ErrDuplicateRoleName
		}
	}
	m.nextID++
	role.ID = m.nextID
	role.CreatedAt = time.Now().UTC()
	role.UpdatedAt = role.CreatedAt
	m.roles[role.ID] = role
	return role, nil
}

func (m *mockRepository) Update(_ context.Context, id int64, role Role) (Role, error) {
	existing, ok := m.roles[id]
	if !ok {
		return Role{}, shared.ErrNotFound
	}
	for otherID, other := range m.roles {
		if otherID != id && other.Name == role.Name {
			return Role{}, shared.ErrDuplicateRoleName
		}
	}
	existing.Name = role.Name
	existing.Description = role.Description
	existing.UpdatedAt = time.Now().UTC()
	m.roles[id] = existing
	return existing, nil
}

func (m *mockRepository) Delete(_ context.Context, id int64) error {
	if _, ok := m.roles[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.roles, id)
	return nil
}

func TestCreateRole(t *testing.T) {
	svc := NewService(newMockRepository())

	role, err := svc.Create(context.Background(), Role{Name: "  admin  "})
	require.NoError(t, err)
	assert.Equal(t, "admin", role.Name)
	assert.NotZero(t, role.ID)
}

func TestCreateRoleDuplicateName(t *testing.T) {
	svc := NewService(newMockRepository())

	_, err := svc.Create(context.Background(), Role{Name: "admin"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), Role{Name: "admin"})
	assert.ErrorIs(t, err, shared.ErrDuplicateRoleName)
}

func TestCreateRoleEmptyName(t *testing.T) {
	svc := NewService(newMockRepository())

	_, err := svc.Create(context.Background(), Role{Name: "   "})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestUpdateRole(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	role, err := svc.Create(context.Background(), Role{Name: "teachr"})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), role.ID, Role{Name: "teacher"})
	require.NoError(t, err)
	assert.Equal(t, "teacher", updated.Name)

	_, err = svc.Update(context.Background(), 999, Role{Name: "ghost"})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestUpdateRoleDuplicateName(t *testing.T) {
	svc := NewService(newMockRepository())

	_, err := svc.Create(context.Background(), Role{Name: "admin"})
	require.NoError(t, err)
	second, err := svc.Create(context.Background(), Role{Name: "student"})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), second.ID, Role{Name: "admin"})
	assert.ErrorIs(t, err, shared.ErrDuplicateRoleName)
}

func TestDeleteRole(t *testing.T) {
	svc := NewService(newMockRepository())

	role, err := svc.Create(context.Background(), Role{Name: "temp"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(context.Background(), role.ID))

	_, err = svc.Get(context.Background(), role.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	assert.ErrorIs(t, svc.Delete(context.Background(), role.ID), shared.ErrNotFound)
}

func TestGetRoleInvalidID(t *testing.T) {
	svc := NewService(newMockRepository())

	_, err := svc.Get(context.Background(), 0)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}
