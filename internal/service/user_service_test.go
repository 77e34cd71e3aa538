package service

import (
	"errors"
	"testing"

	"Neighborhood_Hub/internal/apperr"
	"Neighborhood_Hub/internal/model"
	"Neighborhood_Hub/internal/pkg"
)

func newUserFixture() (*UserService, *fakeUserStore, *fakeTokenStore, *fakeCodeStore) {
	users := newFakeUserStore()
	tokens := newFakeTokenStore()
	codes := newFakeCodeStore()
	emailSvc := NewEmailService(pkg.SMTPConfig{}, codes)
	return NewUserService(users, tokens, emailSvc), users, tokens, codes
}

func confirmCode(codes *fakeCodeStore, scope, email, code string) {
	codes.confirmed[codeKey(scope, email)] = code
}

func TestUserService_Register(t *testing.T) {
	t.Run("first account promoted to admin", func(t *testing.T) {
		svc, _, _, codes := newUserFixture()
		confirmCode(codes, ScopeRegister, "ana@example.com", "123456")
		confirmCode(codes, ScopeRegister, "bo@example.com", "654321")

		first, err := svc.Register("Ana", "ana@example.com", "hunter22", "123456")
		if err != nil {
			t.Fatalf("register: %v", err)
		}
		if first.Role != model.RoleAdmin {
			t.Fatalf("first role = %s, want ADMIN", first.Role)
		}
		if first.Status != model.StatusActive {
			t.Fatalf("status = %s, want ACTIVE", first.Status)
		}

		second, err := svc.Register("Bo", "bo@example.com", "hunter22", "654321")
		if err != nil {
			t.Fatalf("register second: %v", err)
		}
		if second.Role != model.RoleUser {
			t.Fatalf("second role = %s, want USER", second.Role)
		}
	})

	t.Run("wrong code rejected", func(t *testing.T) {
		svc, _, _, codes := newUserFixture()
		confirmCode(codes, ScopeRegister, "ana@example.com", "123456")
		if _, err := svc.Register("Ana", "ana@example.com", "hunter22", "000000"); !errors.Is(err, apperr.ErrInvalidInput) {
			t.Fatalf("err = %v, want ErrInvalidInput", err)
		}
	})

	t.Run("code is single use", func(t *testing.T) {
		svc, users, _, codes := newUserFixture()
		confirmCode(codes, ScopeRegister, "ana@example.com", "123456")
		if _, err := svc.Register("Ana", "ana@example.com", "hunter22", "123456"); err != nil {
			t.Fatalf("register: %v", err)
		}
		users.Delete(1)
		if _, err := svc.Register("Ana", "ana@example.com", "hunter22", "123456"); !errors.Is(err, apperr.ErrInvalidInput) {
			t.Fatalf("replayed code: err = %v, want ErrInvalidInput", err)
		}
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		svc, _, _, codes := newUserFixture()
		confirmCode(codes, ScopeRegister, "ana@example.com", "123456")
		if _, err := svc.Register("Ana", "ana@example.com", "hunter22", "123456"); err != nil {
			t.Fatalf("register: %v", err)
		}
		confirmCode(codes, ScopeRegister, "ana@example.com", "777777")
		if _, err := svc.Register("Ana Again", "ana@example.com", "hunter22", "777777"); !errors.Is(err, apperr.ErrConflict) {
			t.Fatalf("err = %v, want ErrConflict", err)
		}
	})

	t.Run("short password rejected", func(t *testing.T) {
		svc, _, _, codes := newUserFixture()
		confirmCode(codes, ScopeRegister, "ana@example.com", "123456")
		if _, err := svc.Register("Ana", "ana@example.com", "abc", "123456"); !errors.Is(err, apperr.ErrInvalidInput) {
			t.Fatalf("err = %v, want ErrInvalidInput", err)
		}
	})
}

func registerUser(t *testing.T, svc *UserService, codes *fakeCodeStore, email, password string) *model.User {
	t.Helper()
	confirmCode(codes, ScopeRegister, email, "123456")
	u, err := svc.Register("Test User", email, password, "123456")
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return u
}

func TestUserService_Login(t *testing.T) {
	svc, users, tokens, codes := newUserFixture()
	u := registerUser(t, svc, codes, "ana@example.com", "hunter22")

	t.Run("unknown email", func(t *testing.T) {
		if _, err := svc.Login("nobody@example.com", "hunter22"); !errors.Is(err, apperr.ErrUnauthenticated) {
			t.Fatalf("err = %v, want ErrUnauthenticated", err)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		if _, err := svc.Login("ana@example.com", "wrong"); !errors.Is(err, apperr.ErrUnauthenticated) {
			t.Fatalf("err = %v, want ErrUnauthenticated", err)
		}
	})

	t.Run("success stores the session token", func(t *testing.T) {
		pair, err := svc.Login("ana@example.com", "hunter22")
		if err != nil {
			t.Fatalf("login: %v", err)
		}
		if pair.AccessToken == "" || pair.RefreshToken == "" {
			t.Fatalf("pair = %+v", pair)
		}
		stored, err := tokens.GetUserToken(u.ID)
		if err != nil || stored != pair.AccessToken {
			t.Fatalf("stored token mismatch: %v", err)
		}
	})

	t.Run("suspended account forbidden", func(t *testing.T) {
		users.byID[u.ID].Status = model.StatusSuspended
		if _, err := svc.Login("ana@example.com", "hunter22"); !errors.Is(err, apperr.ErrForbidden) {
			t.Fatalf("err = %v, want ErrForbidden", err)
		}
	})
}

func TestUserService_ChangePassword(t *testing.T) {
	svc, _, tokens, codes := newUserFixture()
	u := registerUser(t, svc, codes, "ana@example.com", "hunter22")
	if _, err := svc.Login("ana@example.com", "hunter22"); err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := svc.ChangePassword(u.ID, "wrong-old", "newpassword"); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("wrong old password: err = %v, want ErrInvalidInput", err)
	}
	if err := svc.ChangePassword(u.ID, "hunter22", "newpassword"); err != nil {
		t.Fatalf("change: %v", err)
	}

	// session ended, old credential dead, new one live
	if _, err := tokens.GetUserToken(u.ID); err == nil {
		t.Fatal("session token should be revoked")
	}
	if _, err := svc.Login("ana@example.com", "hunter22"); !errors.Is(err, apperr.ErrUnauthenticated) {
		t.Fatalf("old password still works: %v", err)
	}
	if _, err := svc.Login("ana@example.com", "newpassword"); err != nil {
		t.Fatalf("new password login: %v", err)
	}
}

func TestUserService_ResetPassword(t *testing.T) {
	svc, _, _, codes := newUserFixture()
	registerUser(t, svc, codes, "ana@example.com", "hunter22")

	if err := svc.ResetPassword("ana@example.com", "999999", "newpassword"); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("unverified code: err = %v, want ErrInvalidInput", err)
	}

	confirmCode(codes, ScopeReset, "ana@example.com", "424242")
	if err := svc.ResetPassword("ana@example.com", "424242", "newpassword"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if _, err := svc.Login("ana@example.com", "newpassword"); err != nil {
		t.Fatalf("login after reset: %v", err)
	}
}

func TestUserService_Refresh(t *testing.T) {
	svc, _, tokens, codes := newUserFixture()
	u := registerUser(t, svc, codes, "ana@example.com", "hunter22")
	pair, err := svc.Login("ana@example.com", "hunter22")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if _, err := svc.Refresh("garbage-token"); !errors.Is(err, apperr.ErrUnauthenticated) {
		t.Fatalf("garbage refresh: err = %v, want ErrUnauthenticated", err)
	}

	fresh, err := svc.Refresh(pair.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	stored, err := tokens.GetUserToken(u.ID)
	if err != nil || stored != fresh.AccessToken {
		t.Fatal("refreshed access token not registered as the session")
	}
}
