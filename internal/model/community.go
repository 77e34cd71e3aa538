package model

import "time"

type JoinPolicy string

const (
	JoinInviteOnly      JoinPolicy = "INVITE_ONLY"
	JoinRequestApproval JoinPolicy = "REQUEST_APPROVAL"
	JoinCode            JoinPolicy = "CODE"
)

func (p JoinPolicy) Valid() bool {
	switch p {
	case JoinInviteOnly, JoinRequestApproval, JoinCode:
		return true
	}
	return false
}

type Community struct {
	ID          uint64     `gorm:"primaryKey" json:"id"`
	Name        string     `gorm:"size:64;not null" json:"name"`
	Slug        string     `gorm:"uniqueIndex;size:64;not null" json:"slug"`
	Description string     `gorm:"type:text" json:"description"`
	JoinPolicy  JoinPolicy `gorm:"size:24;not null;default:'CODE'" json:"join_policy"`
	InviteCode  string     `gorm:"index;size:64" json:"-"`
	IsPublic    bool       `gorm:"not null;default:true" json:"is_public"`

	AllowPosts       bool `gorm:"not null;default:true" json:"allow_posts"`
	AllowComments    bool `gorm:"not null;default:true" json:"allow_comments"`
	AllowPolls       bool `gorm:"not null;default:true" json:"allow_polls"`
	AllowServices    bool `gorm:"not null;default:true" json:"allow_services"`
	AllowMarketplace bool `gorm:"not null;default:true" json:"allow_marketplace"`

	CreatedAt time.Time `gorm:"index:idx_communities_time_id,priority:1,sort:desc" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CommunityRole string

const (
	MemberResident  CommunityRole = "RESIDENT"
	MemberModerator CommunityRole = "MODERATOR"
	MemberAdmin     CommunityRole = "ADMIN"
)

func (r CommunityRole) Valid() bool {
	switch r {
	case MemberResident, MemberModerator, MemberAdmin:
		return true
	}
	return false
}

type Membership struct {
	ID          uint64        `gorm:"primaryKey" json:"id"`
	CommunityID uint64        `gorm:"not null;index;uniqueIndex:uk_community_user" json:"community_id"`
	UserID      uint64        `gorm:"not null;index;uniqueIndex:uk_community_user" json:"user_id"`
	Role        CommunityRole `gorm:"size:16;not null;default:'RESIDENT'" json:"role"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}
