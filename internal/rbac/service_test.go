package rbac

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumen-lms/lumen/internal/shared"
	_ "github.com/lumen-lms/lumen/testing"
)

type matrixKey struct {
	roleID   int64
	moduleID int64
}

type mockRepository struct {
	modules map[int64]string // module id -> name
	roles   map[int64]bool
	rows    map[matrixKey]Permission
	nextID  int64

	flagsErr error
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		modules: make(map[int64]string),
		roles:   make(map[int64]bool),
		rows:    make(map[matrixKey]Permission),
		nextID:  1,
	}
}

func (m *mockRepository) FlagsForRoles(ctx context.Context, roleIDs []int64, moduleName string) ([]Flags, error) {
	if m.flagsErr != nil {
		return nil, m.flagsErr
	}
	var out []Flags
	for key, perm := range m.rows {
		if m.modules[key.moduleID] != moduleName {
			continue
		}
		for _, id := range roleIDs {
			if key.roleID == id {
				out = append(out, perm.Flags)
			}
		}
	}
	return out, nil
}

func (m *mockRepository) Upsert(ctx context.Context, roleID, moduleID int64, flags Flags) (Permission, error) {
	if !m.roles[roleID] {
		return Permission{}, shared.ErrNotFound
	}
	if _, ok := m.modules[moduleID]; !ok {
		return Permission{}, shared.ErrNotFound
	}
	key := matrixKey{roleID: roleID, moduleID: moduleID}
	perm, ok := m.rows[key]
	if !ok {
		perm = Permission{ID: m.nextID, RoleID: roleID, ModuleID: moduleID}
		m.nextID++
	}
	perm.Flags = flags
	m.rows[key] = perm
	return perm, nil
}

func (m *mockRepository) PermissionsForUser(ctx context.Context, userID int64) ([]UserPermission, error) {
	return nil, nil
}

func (m *mockRepository) addRole(id int64) { m.roles[id] = true }

func (m *mockRepository) addModule(id int64, name string) { m.modules[id] = name }

func TestResolveGrantsWhenAnyRoleAllows(t *testing.T) {
	repo := newMockRepository()
	repo.addRole(1)
	repo.addRole(2)
	repo.addModule(5, "courses")

	svc := NewService(repo)

	// Role 1 denies everything, role 2 grants create.
	_, err := svc.Assign(context.Background(), 1, 5, []int{0, 0, 0, 0})
	require.NoError(t, err)
	_, err = svc.Assign(context.Background(), 2, 5, []int{1, 0, 0, 0})
	require.NoError(t, err)

	granted, err := svc.Resolve(context.Background(), []int64{1, 2}, "courses", ActionCreate)
	require.NoError(t, err)
	assert.True(t, granted)

	granted, err = svc.Resolve(context.Background(), []int64{1, 2}, "courses", ActionDelete)
	require.NoError(t, err)
	assert.False(t, granted)
}

func TestResolveDefaultDeny(t *testing.T) {
	repo := newMockRepository()
	repo.addRole(3)
	repo.addModule(7, "users")

	svc := NewService(repo)

	// No permission row at all for (role, module): every action is denied.
	for _, action := range []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete} {
		granted, err := svc.Resolve(context.Background(), []int64{3}, "users", action)
		require.NoError(t, err)
		assert.False(t, granted, "action %s should be denied", action)
	}
}

func TestResolveEmptyRoleSet(t *testing.T) {
	svc := NewService(newMockRepository())
	granted, err := svc.Resolve(context.Background(), nil, "courses", ActionRead)
	require.NoError(t, err)
	assert.False(t, granted)
}

func TestAssignUpsertsSingleRow(t *testing.T) {
	repo := newMockRepository()
	repo.addRole(2)
	repo.addModule(5, "course_category")

	svc := NewService(repo)

	first, err := svc.Assign(context.Background(), 2, 5, []int{1, 1, 0, 0})
	require.NoError(t, err)
	second, err := svc.Assign(context.Background(), 2, 5, []int{0, 1, 1, 1})
	require.NoError(t, err)

	// Same row, flags from the latest call.
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, repo.rows, 1)
	stored := repo.rows[matrixKey{roleID: 2, moduleID: 5}]
	assert.False(t, stored.Create)
	assert.True(t, stored.Read)
	assert.True(t, stored.Update)
	assert.True(t, stored.Delete)
}

func TestAssignRejectsWrongFlagCount(t *testing.T) {
	repo := newMockRepository()
	repo.addRole(1)
	repo.addModule(1, "roles")

	svc := NewService(repo)

	for _, flags := range [][]int{nil, {}, {1}, {1, 0, 1}, {1, 0, 1, 0, 1}} {
		_, err := svc.Assign(context.Background(), 1, 1, flags)
		assert.ErrorIs(t, err, shared.ErrInvalidInput, fmt.Sprintf("flags %v", flags))
	}
	assert.Empty(t, repo.rows)
}

func TestAssignUnknownRoleOrModule(t *testing.T) {
	repo := newMockRepository()
	repo.addRole(1)
	repo.addModule(1, "roles")

	svc := NewService(repo)

	_, err := svc.Assign(context.Background(), 99, 1, []int{1, 1, 1, 1})
	assert.ErrorIs(t, err, shared.ErrNotFound)
	_, err = svc.Assign(context.Background(), 1, 99, []int{1, 1, 1, 1})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestParseAction(t *testing.T) {
	for name, want := range map[string]Action{
		"create": ActionCreate,
		"read":   ActionRead,
		"update": ActionUpdate,
		"delete": ActionDelete,
	} {
		got, err := ParseAction(name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.Equal(t, name, got.String())
	}

	_, err := ParseAction("drop")
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestFlagsAllows(t *testing.T) {
	f := Flags{Read: true, Delete: true}
	assert.False(t, f.Allows(ActionCreate))
	assert.True(t, f.Allows(ActionRead))
	assert.False(t, f.Allows(ActionUpdate))
	assert.True(t, f.Allows(ActionDelete))
	assert.False(t, f.Allows(Action(42)))
}
