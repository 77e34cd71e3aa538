package service

import (
	"context"
	"log"
	"regexp"

	"Neighborhood_Hub/internal/apperr"
	"Neighborhood_Hub/internal/model"
	"Neighborhood_Hub/internal/pkg"
	"Neighborhood_Hub/internal/policy"
	"Neighborhood_Hub/internal/query"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9-]{3,30}$`)

type CommunityService struct {
	communities CommunityStore
	memberships MembershipStore
	events      *pkg.EventProducer
}

func NewCommunityService(communities CommunityStore, memberships MembershipStore, events *pkg.EventProducer) *CommunityService {
	return &CommunityService{communities: communities, memberships: memberships, events: events}
}

type CreateCommunityInput struct {
	Name        string
	Slug        string
	Description string
	JoinPolicy  model.JoinPolicy
	InviteCode  string
	IsPublic    bool

	AllowPosts       bool
	AllowComments    bool
	AllowPolls       bool
	AllowServices    bool
	AllowMarketplace bool
}

// Create is a platform-admin operation; the creator is enrolled as the
// founding community ADMIN inside the same transaction as the insert.
func (s *CommunityService) Create(actor policy.Actor, in CreateCommunityInput) (*model.Community, error) {
	if err := policyErr(policy.CanPerform(actor, policy.ActionCommunityCreate, nil)); err != nil {
		return nil, err
	}
	if in.Name == "" {
		return nil, invalid("community name required")
	}
	if !slugPattern.MatchString(in.Slug) {
		return nil, invalid("slug must be 3-30 chars of [a-z0-9-]")
	}
	if !in.JoinPolicy.Valid() {
		return nil, invalid("unknown join policy %q", in.JoinPolicy)
	}

	community := &model.Community{
		Name:             in.Name,
		Slug:             in.Slug,
		Description:      in.Description,
		JoinPolicy:       in.JoinPolicy,
		InviteCode:       in.InviteCode,
		IsPublic:         in.IsPublic,
		AllowPosts:       in.AllowPosts,
		AllowComments:    in.AllowComments,
		AllowPolls:       in.AllowPolls,
		AllowServices:    in.AllowServices,
		AllowMarketplace: in.AllowMarketplace,
	}
	if _, err := s.communities.Create(community, actor.ID); err != nil {
		return nil, storeErr(err)
	}
	return community, nil
}

type CommunityDetail struct {
	Community   *model.Community `json:"community"`
	MemberCount int64            `json:"member_count"`
	PostCount   int64            `json:"post_count"`
}

func (s *CommunityService) GetBySlug(slug string) (*CommunityDetail, error) {
	community, err := s.communities.FindBySlug(slug)
	if err != nil {
		return nil, storeErr(err)
	}
	members, err := s.communities.CountMembers(community.ID)
	if err != nil {
		return nil, err
	}
	posts, err := s.communities.CountPosts(community.ID)
	if err != nil {
		return nil, err
	}
	return &CommunityDetail{Community: community, MemberCount: members, PostCount: posts}, nil
}

func (s *CommunityService) List(f query.CommunityFilter, limit int, cursor string) (query.Page[model.Community], error) {
	limit = query.ClampLimit(limit)
	pred := f.Compile()

	var after *model.Community
	if id := query.DecodeCursor(cursor); id != 0 {
		if c, err := s.communities.FindByID(id); err == nil {
			after = c
		}
	}

	items, err := s.communities.ListCursor(pred, limit+1, after)
	if err != nil {
		return query.Page[model.Community]{}, err
	}
	return query.BuildPage(items, limit, func(c model.Community) uint64 { return c.ID }), nil
}

type UpdateCommunityInput struct {
	Name        *string
	Description *string
	JoinPolicy  *model.JoinPolicy
	InviteCode  *string
	IsPublic    *bool
}

func (s *CommunityService) Update(actor policy.Actor, id uint64, in UpdateCommunityInput) (*model.Community, error) {
	if _, err := s.communities.FindByID(id); err != nil {
		return nil, storeErr(err)
	}
	if err := policyErr(policy.CanPerform(actor, policy.ActionCommunityUpdate, nil)); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if in.Name != nil {
		if *in.Name == "" {
			return nil, invalid("community name required")
		}
		fields["name"] = *in.Name
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.JoinPolicy != nil {
		if !in.JoinPolicy.Valid() {
			return nil, invalid("unknown join policy %q", *in.JoinPolicy)
		}
		fields["join_policy"] = *in.JoinPolicy
	}
	if in.InviteCode != nil {
		fields["invite_code"] = *in.InviteCode
	}
	if in.IsPublic != nil {
		fields["is_public"] = *in.IsPublic
	}
	if len(fields) > 0 {
		if err := s.communities.UpdateFields(id, fields); err != nil {
			return nil, storeErr(err)
		}
	}
	c, err := s.communities.FindByID(id)
	return c, storeErr(err)
}

// Delete cascades memberships, posts and chat history before the
// community row, all inside the repository transaction.
func (s *CommunityService) Delete(actor policy.Actor, id uint64) error {
	if _, err := s.communities.FindByID(id); err != nil {
		return storeErr(err)
	}
	if err := policyErr(policy.CanPerform(actor, policy.ActionCommunityDelete, nil)); err != nil {
		return err
	}
	return storeErr(s.communities.DeleteCascade(id))
}

// JoinByInviteCode enrolls the actor as RESIDENT; joining twice is a
// no-op.
func (s *CommunityService) JoinByInviteCode(actor policy.Actor, inviteCode string) (*model.Community, error) {
	if actor.ID == 0 {
		return nil, apperr.ErrUnauthenticated
	}
	if inviteCode == "" {
		return nil, invalid("invite code required")
	}
	community, err := s.communities.FindByInviteCode(inviteCode)
	if err != nil {
		return nil, storeErr(err)
	}
	err = s.memberships.Join(&model.Membership{
		CommunityID: community.ID,
		UserID:      actor.ID,
		Role:        model.MemberResident,
	})
	if err != nil {
		return nil, storeErr(err)
	}
	s.publishJoin(community.ID, actor.ID)
	return community, nil
}

// Leave removes the actor's own membership. Leaving a community you never
// joined is a not-found, not a no-op.
func (s *CommunityService) Leave(actor policy.Actor, communityID uint64) error {
	if actor.ID == 0 {
		return apperr.ErrUnauthenticated
	}
	if _, err := s.communities.FindByID(communityID); err != nil {
		return storeErr(err)
	}
	if _, err := s.memberships.Find(communityID, actor.ID); err != nil {
		return storeErr(err)
	}
	return storeErr(s.memberships.Leave(communityID, actor.ID))
}

// ApproveMember grants membership with the given role. Requires the actor
// to hold the community-scoped ADMIN role; global role is not consulted.
func (s *CommunityService) ApproveMember(actor policy.Actor, communityID, userID uint64, role model.CommunityRole) (*model.Membership, error) {
	if _, err := s.communities.FindByID(communityID); err != nil {
		return nil, storeErr(err)
	}
	res := &policy.Resource{CommunityID: communityID}
	if err := policyErr(policy.CanPerform(actor, policy.ActionMemberApprove, res)); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, invalid("unknown membership role %q", role)
	}
	member := &model.Membership{CommunityID: communityID, UserID: userID, Role: role}
	if err := s.memberships.Approve(member); err != nil {
		return nil, storeErr(err)
	}
	s.publishJoin(communityID, userID)
	return member, nil
}

func (s *CommunityService) ListMembers(communityID uint64) ([]model.Membership, error) {
	if _, err := s.communities.FindByID(communityID); err != nil {
		return nil, storeErr(err)
	}
	return s.memberships.ListByCommunity(communityID)
}

func (s *CommunityService) UserMemberships(userID uint64) ([]model.Membership, error) {
	return s.memberships.ListByUser(userID)
}

func (s *CommunityService) publishJoin(communityID, userID uint64) {
	if s.events == nil {
		return
	}
	ev := pkg.Event{Kind: "member.joined", CommunityID: communityID, ActorID: userID, SubjectID: userID}
	if err := s.events.Publish(context.Background(), ev); err != nil {
		log.Printf("event publish failed: %v", err)
	}
}
