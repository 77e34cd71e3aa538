package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"
)

type PostType string

const (
	PostAnnouncement PostType = "ANNOUNCEMENT"
	PostService      PostType = "SERVICE"
	PostListing      PostType = "LISTING"
	PostPoll         PostType = "POLL"
)

func (t PostType) Valid() bool {
	switch t {
	case PostAnnouncement, PostService, PostListing, PostPoll:
		return true
	}
	return false
}

type Post struct {
	ID          uint64   `gorm:"primaryKey;index:idx_comm_time_id,priority:3,sort:desc" json:"id"`
	CommunityID uint64   `gorm:"not null;index:idx_comm_time_id,priority:1" json:"community_id"`
	AuthorID    uint64   `gorm:"not null;index:idx_author_time" json:"author_id"`
	Type        PostType `gorm:"size:16;not null" json:"type"`
	Title       string   `gorm:"size:200;not null" json:"title"`
	Content     string   `gorm:"type:text" json:"content"`
	// Images and Extra hold JSON documents; Extra's shape depends on Type.
	Images    string    `gorm:"type:json" json:"-"`
	Extra     string    `gorm:"type:json" json:"-"`
	CreatedAt time.Time `gorm:"index:idx_comm_time_id,priority:2,sort:desc;index:idx_author_time" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Post) ImageList() []string {
	if p.Images == "" {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal([]byte(p.Images), &out); err != nil {
		return []string{}
	}
	return out
}

func (p *Post) SetImages(images []string) error {
	if images == nil {
		images = []string{}
	}
	b, err := json.Marshal(images)
	if err != nil {
		return err
	}
	p.Images = string(b)
	return nil
}

func (p *Post) ExtraMap() map[string]any {
	if p.Extra == "" {
		return nil
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(p.Extra), &out); err != nil {
		return nil
	}
	return out
}

var ErrBadExtra = errors.New("extra does not match post type")

// ListingExtra, ServiceExtra and PollExtra are the typed shapes of a
// post's extra bag, keyed by Post.Type.
type ListingExtra struct {
	Price        float64 `json:"price"`
	Condition    string  `json:"condition,omitempty"`
	Availability string  `json:"availability,omitempty"`
}

type ServiceExtra struct {
	Priority    string `json:"priority,omitempty"`
	Status      string `json:"status,omitempty"`
	ServiceType string `json:"serviceType,omitempty"`
}

type PollExtra struct {
	Options      []string `json:"options"`
	DurationDays int      `json:"durationDays,omitempty"`
}

// ValidateExtra checks that a raw extra document decodes into the variant
// required by the post type. Announcements carry no extra.
func ValidateExtra(t PostType, raw json.RawMessage) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var err error
	switch t {
	case PostListing:
		err = strictUnmarshal(raw, &ListingExtra{})
	case PostService:
		err = strictUnmarshal(raw, &ServiceExtra{})
	case PostPoll:
		var p PollExtra
		if err = strictUnmarshal(raw, &p); err == nil && len(p.Options) < 2 {
			err = errors.New("poll needs at least two options")
		}
	case PostAnnouncement:
		err = ErrBadExtra
	default:
		err = ErrBadExtra
	}
	if err != nil {
		return errors.Join(ErrBadExtra, err)
	}
	return nil
}

// strictUnmarshal rejects fields outside the variant's declared shape.
func strictUnmarshal(raw json.RawMessage, v any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
