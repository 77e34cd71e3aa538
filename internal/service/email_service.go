package service

import (
	"Neighborhood_Hub/internal/pkg"
	"Neighborhood_Hub/internal/repository/redis"
)

const (
	ScopeRegister = "register"
	ScopeReset    = "reset"
)

type EmailService struct {
	cfg   pkg.SMTPConfig
	codes CodeStore
}

func NewEmailService(cfg pkg.SMTPConfig, codes CodeStore) *EmailService {
	return &EmailService{cfg: cfg, codes: codes}
}

// SendCode writes the code as pending, sends the mail, then promotes it to
// confirmed. A send failure leaves only the short-lived pending key; a
// promote failure rolls the pending key back.
func (s *EmailService) SendCode(scope, email string) error {
	var subject string
	switch scope {
	case ScopeRegister:
		subject = "Registration"
	case ScopeReset:
		subject = "Password reset"
	default:
		return invalid("unknown scope %q", scope)
	}

	code, err := pkg.RandDigits(6)
	if err != nil {
		return err
	}
	if err := s.codes.SetPending(scope, email, code); err != nil {
		return err
	}

	html := pkg.EmailCodeHTML(subject, code, redis.DefaultEmailCodeTTL)
	if err := pkg.SendEmail(s.cfg, email, subject+" verification code", html); err != nil {
		return err
	}

	if err := s.codes.ConfirmPending(scope, email); err != nil {
		_ = s.codes.DeletePending(scope, email)
		return err
	}
	return nil
}

// VerifyCode compares against the confirmed code and deletes it on match,
// so each code is single-use.
func (s *EmailService) VerifyCode(scope, email, code string) (bool, error) {
	val, err := s.codes.GetConfirmed(scope, email)
	if err != nil {
		return false, err
	}
	if val != code {
		return false, nil
	}
	if err := s.codes.DeleteConfirmed(scope, email); err != nil {
		return false, err
	}
	return true, nil
}
