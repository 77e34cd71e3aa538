package service

import (
	"errors"

	"Neighborhood_Hub/internal/apperr"
	"Neighborhood_Hub/internal/model"
	"Neighborhood_Hub/internal/pkg"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct {
	users    UserStore
	tokens   TokenStore
	emailSvc *EmailService
}

func NewUserService(users UserStore, tokens TokenStore, emailSvc *EmailService) *UserService {
	return &UserService{users: users, tokens: tokens, emailSvc: emailSvc}
}

// Register verifies the email code, then creates the account ACTIVE. The
// very first account on the platform is promoted to ADMIN so a fresh
// install always has an administrator.
func (s *UserService) Register(fullName, email, password, code string) (*model.User, error) {
	if fullName == "" || email == "" {
		return nil, invalid("name and email required")
	}
	if len(password) < 6 {
		return nil, invalid("password must be at least 6 characters")
	}
	ok, err := s.emailSvc.VerifyCode(ScopeRegister, email, code)
	if err != nil || !ok {
		return nil, invalid("verification failed")
	}

	if _, err := s.users.FindByEmail(email); err == nil {
		return nil, apperr.ErrConflict
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	role := model.RoleUser
	if n, err := s.users.Count(); err == nil && n == 0 {
		role = model.RoleAdmin
	}

	user := &model.User{
		Email:        email,
		PasswordHash: string(hash),
		FullName:     fullName,
		Status:       model.StatusActive,
		Role:         role,
	}
	if err := s.users.Create(user); err != nil {
		return nil, storeErr(err)
	}
	return user, nil
}

func (s *UserService) Login(email, password string) (*pkg.Pair, error) {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		return nil, apperr.ErrUnauthenticated
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, apperr.ErrUnauthenticated
	}
	if user.Status == model.StatusSuspended {
		return nil, apperr.ErrForbidden
	}
	token, err := pkg.GeneratePair(user.ID)
	if err != nil {
		return nil, err
	}
	if err := s.tokens.AddUserToken(user.ID, token.AccessToken); err != nil {
		return nil, err
	}
	return token, nil
}

func (s *UserService) Logout(userID uint64) error {
	return s.tokens.DeleteUserToken(userID)
}

func (s *UserService) Refresh(refreshToken string) (*pkg.Pair, error) {
	pair, err := pkg.Refresh(refreshToken)
	if err != nil {
		return nil, apperr.ErrUnauthenticated
	}
	claims, err := pkg.ParseAccess(pair.AccessToken)
	if err != nil {
		return nil, apperr.ErrUnauthenticated
	}
	if err := s.tokens.AddUserToken(claims.UserID, pair.AccessToken); err != nil {
		return nil, err
	}
	return pair, nil
}

// ChangePassword requires the old password and ends the current session.
func (s *UserService) ChangePassword(userID uint64, oldPassword, newPassword string) error {
	if len(newPassword) < 6 {
		return invalid("password must be at least 6 characters")
	}
	user, err := s.users.FindByID(userID)
	if err != nil {
		return storeErr(err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)) != nil {
		return invalid("old password is incorrect")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(user, string(hash)); err != nil {
		return err
	}
	return s.Logout(userID)
}

// ResetPassword is the forgotten-password flow: a confirmed reset code
// stands in for the old credential.
func (s *UserService) ResetPassword(email, code, newPassword string) error {
	if len(newPassword) < 6 {
		return invalid("password must be at least 6 characters")
	}
	ok, err := s.emailSvc.VerifyCode(ScopeReset, email, code)
	if err != nil || !ok {
		return invalid("verification failed")
	}
	user, err := s.users.FindByEmail(email)
	if err != nil {
		return storeErr(err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(user, string(hash)); err != nil {
		return err
	}
	return s.Logout(user.ID)
}
