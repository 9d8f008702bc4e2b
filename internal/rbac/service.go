package rbac

import (
	"context"
)

// Service resolves and maintains the role-permission matrix.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Resolve reports whether any role in roleIDs grants the action on the named
// module. Absence of a permission row is a denial; the first granting row
// wins.
func (s *Service) Resolve(ctx context.Context, roleIDs []int64, moduleName string, action Action) (bool, error) {
	if len(roleIDs) == 0 {
		return false, nil
	}
	flags, err := s.repo.FlagsForRoles(ctx, roleIDs, moduleName)
	if err != nil {
		return false, err
	}
	for _, f := range flags {
		if f.Allows(action) {
			return true, nil
		}
	}
	return false, nil
}

// Assign upserts the permission row for (roleID, moduleID). The flags tuple is
// the ordered wire format [create, read, update, delete]; any other length is
// rejected with InvalidInput.
func (s *Service) Assign(ctx context.Context, roleID, moduleID int64, flagList []int) (Permission, error) {
	flags, err := FlagsFromList(flagList)
	if err != nil {
		return Permission{}, err
	}
	return s.repo.Upsert(ctx, roleID, moduleID, flags)
}

// UserPermissions returns the flat permission list of all the user's roles.
func (s *Service) UserPermissions(ctx context.Context, userID int64) ([]UserPermission, error) {
	return s.repo.PermissionsForUser(ctx, userID)
}
