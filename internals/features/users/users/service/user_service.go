package service

import (
	"context"
	"strings"

	"dormku_backend/internals/constants"
	tenantModel "dormku_backend/internals/features/dormitory/tenants/model"
	"dormku_backend/internals/features/users/users/dto"
	"dormku_backend/internals/features/users/users/model"
	helper "dormku_backend/internals/helpers"
	"dormku_backend/internals/helpers/apperror"
	helperAuth "dormku_backend/internals/helpers/auth"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserService is admin-only management of staff accounts.
type UserService struct {
	DB *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db}
}

// tenantFor enforces the role/tenant pairing: managers and cashiers need an active dormitory, admins have none.
func tenantFor(tx *gorm.DB, role string, tenantID *uuid.UUID) (*uuid.UUID, error) {
	if !constants.TenantScopedRole(role) {
		return nil, nil
	}
	if tenantID == nil || *tenantID == uuid.Nil {
		return nil, apperror.Field("user_tenant_id", "user_tenant_id is required for role "+role)
	}
	var n int64
	if err := tx.Model(&tenantModel.TenantModel{}).Where("tenant_id = ?", *tenantID).Count(&n).Error; err != nil {
		return nil, apperror.Infra("check dormitory", err)
	}
	if n == 0 {
		return nil, apperror.Field("user_tenant_id", "dormitory not found")
	}
	tid := *tenantID
	return &tid, nil
}

func (s *UserService) Create(ctx context.Context, p helperAuth.Principal, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	if err := p.RequireAdmin(); err != nil {
		return nil, err
	}
	in.Normalize()
	hash, err := helperAuth.HashPassword(in.UserPassword)
	if err != nil {
		return nil, apperror.Field("user_password", "user_password must be at least 8 characters")
	}

	var m model.UserModel
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tid, err := tenantFor(tx, in.UserRole, in.UserTenantID)
		if err != nil {
			return err
		}
		m = model.UserModel{
			UserName:     in.UserName,
			UserEmail:    in.UserEmail,
			UserPassword: hash,
			UserRole:     in.UserRole,
			UserIsActive: true,
			UserTenantID: tid,
		}
		return tx.Create(&m).Error
	})
	if err != nil {
		return nil, helper.WrapDBError(err, "user email")
	}
	out := dto.ToUserResponse(m)
	return &out, nil
}

func (s *UserService) List(ctx context.Context, p helperAuth.Principal, q dto.ListUsersQuery) ([]dto.UserResponse, error) {
	if err := p.RequireAdmin(); err != nil {
		return nil, err
	}
	db := s.DB.WithContext(ctx)
	if r := strings.TrimSpace(q.Role); r != "" {
		db = db.Where("user_role = ?", r)
	}
	if q.TenantID != nil {
		db = db.Where("user_tenant_id = ?", *q.TenantID)
	}
	var rows []model.UserModel
	if err := db.Order("user_name ASC").Find(&rows).Error; err != nil {
		return nil, apperror.Infra("list users", err)
	}
	return dto.ToUserResponses(rows), nil
}

func (s *UserService) load(tx *gorm.DB, id uuid.UUID) (*model.UserModel, error) {
	var m model.UserModel
	if err := tx.Where("user_id = ?", id).First(&m).Error; err != nil {
		return nil, helper.WrapDBError(err, "user")
	}
	return &m, nil
}

func (s *UserService) Get(ctx context.Context, p helperAuth.Principal, id uuid.UUID) (*dto.UserResponse, error) {
	if err := p.RequireAdmin(); err != nil {
		return nil, err
	}
	m, err := s.load(s.DB.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}
	out := dto.ToUserResponse(*m)
	return &out, nil
}

// Update re-checks the role/tenant pairing on the merged result.
func (s *UserService) Update(ctx context.Context, p helperAuth.Principal, id uuid.UUID, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if err := p.RequireAdmin(); err != nil {
		return nil, err
	}
	var m *model.UserModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if m, err = s.load(tx, id); err != nil {
			return err
		}

		role := m.UserRole
		if in.UserRole != nil {
			role = strings.ToLower(strings.TrimSpace(*in.UserRole))
		}
		if id == p.UserID && role != constants.RoleAdmin {
			return apperror.Forbidden("you cannot remove your own admin role")
		}
		tenantID := m.UserTenantID
		if in.ClearTenant {
			tenantID = nil
		}
		if in.UserTenantID != nil {
			tenantID = in.UserTenantID
		}
		tid, err := tenantFor(tx, role, tenantID)
		if err != nil {
			return err
		}

		updates := map[string]any{
			"user_role":      role,
			"user_tenant_id": tid,
		}
		if in.UserName != nil {
			name := strings.TrimSpace(*in.UserName)
			if name == "" {
				return apperror.Field("user_name", "user_name is a required field")
			}
			updates["user_name"] = name
		}
		if err := tx.Model(&model.UserModel{}).Where("user_id = ?", id).Updates(updates).Error; err != nil {
			return apperror.Infra("update user", err)
		}
		m, err = s.load(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := dto.ToUserResponse(*m)
	return &out, nil
}

// ToggleActive flips user_is_active. An admin cannot deactivate their own account.
func (s *UserService) ToggleActive(ctx context.Context, p helperAuth.Principal, id uuid.UUID) (*dto.UserResponse, error) {
	if err := p.RequireAdmin(); err != nil {
		return nil, err
	}
	var m *model.UserModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if m, err = s.load(tx, id); err != nil {
			return err
		}
		if m.UserID == p.UserID && m.UserIsActive {
			return apperror.Forbidden("you cannot deactivate your own account")
		}
		if err := tx.Model(&model.UserModel{}).
			Where("user_id = ?", id).
			Update("user_is_active", !m.UserIsActive).Error; err != nil {
			return apperror.Infra("toggle user", err)
		}
		m, err = s.load(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := dto.ToUserResponse(*m)
	return &out, nil
}

func (s *UserService) ResetPassword(ctx context.Context, p helperAuth.Principal, id uuid.UUID, password string) error {
	if err := p.RequireAdmin(); err != nil {
		return err
	}
	hash, err := helperAuth.HashPassword(password)
	if err != nil {
		return apperror.Field("password", "password must be at least 8 characters")
	}
	res := s.DB.WithContext(ctx).Model(&model.UserModel{}).Where("user_id = ?", id).Update("user_password", hash)
	if res.Error != nil {
		return apperror.Infra("reset password", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("user not found")
	}
	return nil
}
