package service

import (
	"errors"
	"fmt"

	"Neighborhood_Hub/internal/apperr"
	"Neighborhood_Hub/internal/model"
	"Neighborhood_Hub/internal/policy"
	"Neighborhood_Hub/internal/query"

	"gorm.io/gorm"
)

// Store interfaces decouple services from the concrete gorm repositories,
// which satisfy them as-is. Tests swap in hand-rolled fakes.

type UserStore interface {
	Create(user *model.User) error
	Count() (int64, error)
	FindByID(id uint64) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	List(offset, limit int) ([]model.User, error)
	UpdateFields(id uint64, fields map[string]any) error
	UpdatePassword(user *model.User, newHash string) error
	Delete(id uint64) error
}

type CommunityStore interface {
	Create(c *model.Community, creatorID uint64) (*model.Community, error)
	FindByID(id uint64) (*model.Community, error)
	FindBySlug(slug string) (*model.Community, error)
	FindByInviteCode(code string) (*model.Community, error)
	ListCursor(pred query.Predicate, limit int, after *model.Community) ([]model.Community, error)
	UpdateFields(id uint64, fields map[string]any) error
	DeleteCascade(id uint64) error
	CountMembers(id uint64) (int64, error)
	CountPosts(id uint64) (int64, error)
}

type MembershipStore interface {
	Join(member *model.Membership) error
	Approve(member *model.Membership) error
	Leave(communityID, userID uint64) error
	Find(communityID, userID uint64) (*model.Membership, error)
	ListByUser(userID uint64) ([]model.Membership, error)
	ListByCommunity(communityID uint64) ([]model.Membership, error)
}

type PostStore interface {
	Create(post *model.Post) error
	FindByID(id uint64) (*model.Post, error)
	ListCursor(pred query.Predicate, limit int, after *model.Post) ([]model.Post, error)
	UpdateFields(id uint64, fields map[string]any) error
	Delete(id uint64) error
}

type ChatStore interface {
	CreateSession(s *model.ChatSession) error
	FindSession(id uint64) (*model.ChatSession, error)
	TouchSession(id uint64) error
	AppendMessage(m *model.ChatMessage) error
	ListMessages(sessionID uint64, limit int) ([]model.ChatMessage, error)
}

type TokenStore interface {
	AddUserToken(userID uint64, token string) error
	GetUserToken(userID uint64) (string, error)
	ExtendUserToken(userID uint64) error
	DeleteUserToken(userID uint64) error
}

type CodeStore interface {
	SetPending(scope, email, code string) error
	ConfirmPending(scope, email string) error
	DeletePending(scope, email string) error
	GetConfirmed(scope, email string) (string, error)
	DeleteConfirmed(scope, email string) error
}

// storeErr lifts repository errors into the service taxonomy.
func storeErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperr.ErrConflict
	default:
		return err
	}
}

func policyErr(d policy.Decision) error {
	if d.Allowed {
		return nil
	}
	if d.Reason == policy.ReasonUnauthenticated {
		return apperr.ErrUnauthenticated
	}
	return apperr.ErrForbidden
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", apperr.ErrInvalidInput, fmt.Sprintf(format, args...))
}
