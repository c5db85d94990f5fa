package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"log"
	"strings"
	"time"

	"dormku_backend/internals/constants"
	"dormku_backend/internals/features/users/auth/dto"
	authRepo "dormku_backend/internals/features/users/auth/repository"
	userModel "dormku_backend/internals/features/users/users/model"
	helper "dormku_backend/internals/helpers"
	"dormku_backend/internals/helpers/apperror"
	helperAuth "dormku_backend/internals/helpers/auth"

	"gorm.io/gorm"
)

const tokenType = "Bearer"

var errBadCredentials = apperror.Unauthorized("invalid email or password")

type AuthService struct {
	DB       *gorm.DB
	Secret   string
	TTL      time.Duration
	SetupKey string
	Now      func() time.Time
}

func NewAuthService(db *gorm.DB, secret string, ttl time.Duration, setupKey string) *AuthService {
	return &AuthService{DB: db, Secret: secret, TTL: ttl, SetupKey: setupKey, Now: time.Now}
}

func (s *AuthService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

func (s *AuthService) issue(p helperAuth.Principal, name string) (*dto.TokenResponse, error) {
	token, exp, err := helperAuth.IssueToken(s.Secret, p, s.TTL, s.now())
	if err != nil {
		return nil, apperror.Infra("issue token", err)
	}
	return &dto.TokenResponse{
		AccessToken: token,
		TokenType:   tokenType,
		ExpiresAt:   exp,
		UserID:      p.UserID,
		Name:        name,
		Kind:        string(p.Kind),
		Role:        p.Role,
		TenantID:    p.TenantID,
	}, nil
}

/* ==========================
   LOGIN
========================== */

// LoginStaff signs in admins, managers and cashiers. Deactivated accounts are refused.
func (s *AuthService) LoginStaff(ctx context.Context, in dto.LoginRequest) (*dto.TokenResponse, error) {
	in.Normalize()
	user, err := authRepo.FindUserByEmail(ctx, s.DB, in.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errBadCredentials
		}
		return nil, apperror.Infra("find user", err)
	}
	if !helperAuth.CheckPassword(user.UserPassword, in.Password) {
		return nil, errBadCredentials
	}
	if !user.UserIsActive {
		return nil, apperror.Forbidden("your account has been deactivated, contact an admin")
	}

	return s.issue(helperAuth.Principal{
		Kind:     helperAuth.KindStaff,
		UserID:   user.UserID,
		Role:     user.UserRole,
		TenantID: user.UserTenantID,
	}, user.UserName)
}

// LoginStudent only admits students who were given a password.
func (s *AuthService) LoginStudent(ctx context.Context, in dto.LoginRequest) (*dto.TokenResponse, error) {
	in.Normalize()
	st, err := authRepo.FindStudentByEmail(ctx, s.DB, in.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errBadCredentials
		}
		return nil, apperror.Infra("find student", err)
	}
	if !st.CanLogin() || !helperAuth.CheckPassword(*st.StudentPasswordHash, in.Password) {
		return nil, errBadCredentials
	}

	tid := st.StudentTenantID
	return s.issue(helperAuth.Principal{
		Kind:     helperAuth.KindStudent,
		UserID:   st.StudentID,
		Role:     constants.RoleStudent,
		TenantID: &tid,
	}, st.StudentName)
}

/* ==========================
   ADMIN SETUP
========================== */

// AdminSetup creates the first admin. It needs the configured setup key and stops working once an admin exists.
func (s *AuthService) AdminSetup(ctx context.Context, key string, in dto.AdminSetupRequest) (*dto.TokenResponse, error) {
	if strings.TrimSpace(s.SetupKey) == "" {
		return nil, apperror.Forbidden("admin setup is disabled")
	}
	if subtle.ConstantTimeCompare([]byte(key), []byte(s.SetupKey)) != 1 {
		return nil, apperror.Unauthorized("invalid setup key")
	}
	in.Normalize()

	hash, err := helperAuth.HashPassword(in.Password)
	if err != nil {
		return nil, apperror.Field("password", "password must be at least 8 characters")
	}

	var user userModel.UserModel
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := authRepo.AdminExists(ctx, tx)
		if err != nil {
			return apperror.Infra("check admin", err)
		}
		if exists {
			return apperror.Conflict("an admin already exists")
		}
		user = userModel.UserModel{
			UserName:     in.Name,
			UserEmail:    in.Email,
			UserPassword: hash,
			UserRole:     constants.RoleAdmin,
			UserIsActive: true,
		}
		return authRepo.CreateUser(ctx, tx, &user)
	})
	if err != nil {
		return nil, helper.WrapDBError(err, "user email")
	}
	log.Printf("[INFO] admin %s created via setup", user.UserEmail)

	return s.issue(helperAuth.Principal{
		Kind:   helperAuth.KindStaff,
		UserID: user.UserID,
		Role:   user.UserRole,
	}, user.UserName)
}

/* ==========================
   LOGOUT / BLACKLIST
========================== */

// Logout blacklists the token until it would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, raw string) error {
	if strings.TrimSpace(raw) == "" {
		return apperror.Unauthorized("missing token")
	}
	_, exp, err := helperAuth.ParseToken(s.Secret, raw, s.now())
	if err != nil {
		return apperror.Unauthorized("invalid or expired token")
	}
	if err := authRepo.BlacklistToken(ctx, s.DB, helperAuth.TokenFingerprint(raw, s.Secret), exp); err != nil {
		return apperror.Infra("blacklist token", err)
	}
	return nil
}

func (s *AuthService) IsRevoked(ctx context.Context, raw string) (bool, error) {
	ok, err := authRepo.IsBlacklisted(ctx, s.DB, helperAuth.TokenFingerprint(raw, s.Secret))
	if err != nil {
		return false, apperror.Infra("check token blacklist", err)
	}
	return ok, nil
}

// Authenticate resolves a raw bearer token into a principal, refusing revoked tokens.
func (s *AuthService) Authenticate(ctx context.Context, raw string) (helperAuth.Principal, error) {
	p, _, err := helperAuth.ParseToken(s.Secret, raw, s.now())
	if err != nil {
		if errors.Is(err, helperAuth.ErrTokenExpired) {
			return helperAuth.Principal{}, apperror.Unauthorized("token expired")
		}
		return helperAuth.Principal{}, apperror.Unauthorized("invalid token")
	}
	revoked, err := s.IsRevoked(ctx, raw)
	if err != nil {
		return helperAuth.Principal{}, err
	}
	if revoked {
		return helperAuth.Principal{}, apperror.Unauthorized("token has been revoked")
	}
	return s.refresh(ctx, p)
}

// refresh re-reads the account so deactivation, role or tenant changes apply to live tokens.
func (s *AuthService) refresh(ctx context.Context, p helperAuth.Principal) (helperAuth.Principal, error) {
	if p.IsStudent() {
		st, err := authRepo.FindStudentByID(ctx, s.DB, p.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return helperAuth.Principal{}, apperror.Unauthorized("account no longer exists")
			}
			return helperAuth.Principal{}, apperror.Infra("load student", err)
		}
		tid := st.StudentTenantID
		p.TenantID = &tid
		p.Role = constants.RoleStudent
		return p, nil
	}

	user, err := authRepo.FindUserByID(ctx, s.DB, p.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helperAuth.Principal{}, apperror.Unauthorized("account no longer exists")
		}
		return helperAuth.Principal{}, apperror.Infra("load user", err)
	}
	if !user.UserIsActive {
		return helperAuth.Principal{}, apperror.Unauthorized("account has been deactivated")
	}
	p.Role = user.UserRole
	p.TenantID = user.UserTenantID
	return p, nil
}

// PurgeBlacklist drops rows that expired more than keep ago.
func (s *AuthService) PurgeBlacklist(ctx context.Context, keep time.Duration) (int64, error) {
	n, err := authRepo.DeleteExpiredBlacklist(ctx, s.DB, s.now().Add(-keep))
	if err != nil {
		return 0, apperror.Infra("purge token blacklist", err)
	}
	return n, nil
}
