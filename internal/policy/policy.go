// Package policy is the single decision point for every mutating endpoint.
// CanPerform is pure: it never touches storage, so callers must resolve the
// resource first. Resource existence is checked before authorization
// everywhere, so a missing resource reports 404 rather than 403.
package policy

import "Neighborhood_Hub/internal/model"

type Action string

const (
	ActionCommunityCreate Action = "community.create"
	ActionCommunityUpdate Action = "community.update"
	ActionCommunityDelete Action = "community.delete"
	ActionMemberApprove   Action = "community.member.approve"
	ActionPostCreate      Action = "post.create"
	ActionPostUpdate      Action = "post.update"
	ActionPostDelete      Action = "post.delete"
	ActionUserEdit        Action = "user.edit"
	ActionUserDelete      Action = "user.delete"
	ActionUploadSign      Action = "upload.sign"
	ActionUploadRead      Action = "upload.read"
	ActionChatSend        Action = "chat.send"
)

const (
	ReasonUnauthenticated = "UNAUTHENTICATED"
	ReasonForbidden       = "FORBIDDEN"
)

type Membership struct {
	CommunityID uint64
	Role        model.CommunityRole
}

// Actor is the caller's identity claim: global role plus community-scoped
// memberships. A zero ID means no authenticated caller.
type Actor struct {
	ID          uint64
	Role        model.GlobalRole
	Memberships []Membership
}

func (a Actor) membershipIn(communityID uint64) (Membership, bool) {
	for _, m := range a.Memberships {
		if m.CommunityID == communityID {
			return m, true
		}
	}
	return Membership{}, false
}

// Resource carries the fields a rule may need. OwnerID is the post author,
// CommunityID scopes membership rules, TargetUserID is the user being
// edited or deleted.
type Resource struct {
	OwnerID      uint64
	CommunityID  uint64
	TargetUserID uint64
}

type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision             { return Decision{Allowed: true} }
func deny(reason string) Decision { return Decision{Reason: reason} }

// CanPerform decides whether actor may run action against res.
//
// Community administration (create/update/delete, user edits) is a
// platform-level privilege: it requires the global ADMIN or SUPER_ADMIN
// role, not a community-scoped membership. Member approval is the
// opposite: it requires membership role ADMIN in that community, global
// role is not consulted.
func CanPerform(actor Actor, action Action, res *Resource) Decision {
	if actor.ID == 0 {
		return deny(ReasonUnauthenticated)
	}

	switch action {
	case ActionCommunityCreate, ActionCommunityUpdate, ActionCommunityDelete,
		ActionUserEdit:
		if actor.Role.IsAdmin() {
			return allow()
		}
		return deny(ReasonForbidden)

	case ActionUserDelete:
		if !actor.Role.IsAdmin() {
			return deny(ReasonForbidden)
		}
		// Self-delete is denied regardless of role.
		if res != nil && res.TargetUserID == actor.ID {
			return deny(ReasonForbidden)
		}
		return allow()

	case ActionMemberApprove:
		if res == nil {
			return deny(ReasonForbidden)
		}
		if m, ok := actor.membershipIn(res.CommunityID); ok && m.Role == model.MemberAdmin {
			return allow()
		}
		return deny(ReasonForbidden)

	case ActionPostCreate:
		// Any authenticated user; community existence is the caller's
		// lookup. No membership requirement here.
		return allow()

	case ActionPostUpdate, ActionPostDelete:
		if actor.Role.IsAdmin() {
			return allow()
		}
		if res != nil && res.OwnerID == actor.ID {
			return allow()
		}
		return deny(ReasonForbidden)

	case ActionUploadSign, ActionUploadRead, ActionChatSend:
		if res == nil {
			return deny(ReasonForbidden)
		}
		if _, ok := actor.membershipIn(res.CommunityID); ok {
			return allow()
		}
		return deny(ReasonForbidden)
	}

	return deny(ReasonForbidden)
}
