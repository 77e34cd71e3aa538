package service

import (
	"Neighborhood_Hub/internal/model"
	"Neighborhood_Hub/internal/policy"
)

// AdminService covers the platform-admin user management surface. Every
// operation needs the global ADMIN or SUPER_ADMIN role.
type AdminService struct {
	users UserStore
}

func NewAdminService(users UserStore) *AdminService {
	return &AdminService{users: users}
}

func (s *AdminService) ListUsers(actor policy.Actor, offset, limit int) ([]model.User, error) {
	if err := policyErr(policy.CanPerform(actor, policy.ActionUserEdit, nil)); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.users.List(offset, limit)
}

func (s *AdminService) GetUser(actor policy.Actor, id uint64) (*model.User, error) {
	if err := policyErr(policy.CanPerform(actor, policy.ActionUserEdit, nil)); err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(id)
	return user, storeErr(err)
}

type UpdateUserInput struct {
	FullName *string
	Role     *model.GlobalRole
	Status   *model.UserStatus
}

func (s *AdminService) UpdateUser(actor policy.Actor, id uint64, in UpdateUserInput) (*model.User, error) {
	if _, err := s.users.FindByID(id); err != nil {
		return nil, storeErr(err)
	}
	if err := policyErr(policy.CanPerform(actor, policy.ActionUserEdit, nil)); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if in.FullName != nil {
		if *in.FullName == "" {
			return nil, invalid("full name required")
		}
		fields["full_name"] = *in.FullName
	}
	if in.Role != nil {
		if !in.Role.Valid() {
			return nil, invalid("unknown role %q", *in.Role)
		}
		fields["role"] = *in.Role
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, invalid("unknown status %q", *in.Status)
		}
		fields["status"] = *in.Status
	}
	if len(fields) > 0 {
		if err := s.users.UpdateFields(id, fields); err != nil {
			return nil, storeErr(err)
		}
	}
	user, err := s.users.FindByID(id)
	return user, storeErr(err)
}

// DeleteUser removes the account and its memberships. Deleting your own
// account through this path is denied regardless of role.
func (s *AdminService) DeleteUser(actor policy.Actor, id uint64) error {
	if _, err := s.users.FindByID(id); err != nil {
		return storeErr(err)
	}
	res := &policy.Resource{TargetUserID: id}
	if err := policyErr(policy.CanPerform(actor, policy.ActionUserDelete, res)); err != nil {
		return err
	}
	return storeErr(s.users.Delete(id))
}
