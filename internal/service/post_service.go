package service

import (
	"context"
	"encoding/json"
	"log"

	"Neighborhood_Hub/internal/model"
	"Neighborhood_Hub/internal/pkg"
	"Neighborhood_Hub/internal/policy"
	"Neighborhood_Hub/internal/query"
)

type PostService struct {
	posts       PostStore
	communities CommunityStore
	events      *pkg.EventProducer
}

func NewPostService(posts PostStore, communities CommunityStore, events *pkg.EventProducer) *PostService {
	return &PostService{posts: posts, communities: communities, events: events}
}

type CreatePostInput struct {
	CommunityID uint64
	Type        model.PostType
	Title       string
	Content     string
	Images      []string
	Extra       json.RawMessage
}

// Create requires only an authenticated actor and an existing community;
// membership is not checked here, matching the platform's join-then-browse
// flow where admins may post into communities they administer but never
// joined.
func (s *PostService) Create(actor policy.Actor, in CreatePostInput) (*model.Post, error) {
	if err := policyErr(policy.CanPerform(actor, policy.ActionPostCreate, nil)); err != nil {
		return nil, err
	}
	if in.Title == "" {
		return nil, invalid("title required")
	}
	if !in.Type.Valid() {
		return nil, invalid("unknown post type %q", in.Type)
	}
	if _, err := s.communities.FindByID(in.CommunityID); err != nil {
		return nil, storeErr(err)
	}
	if err := model.ValidateExtra(in.Type, in.Extra); err != nil {
		return nil, invalid("%v", err)
	}

	post := &model.Post{
		CommunityID: in.CommunityID,
		AuthorID:    actor.ID,
		Type:        in.Type,
		Title:       in.Title,
		Content:     in.Content,
	}
	if err := post.SetImages(in.Images); err != nil {
		return nil, invalid("bad images payload")
	}
	if len(in.Extra) > 0 && string(in.Extra) != "null" {
		post.Extra = string(in.Extra)
	}

	if err := s.posts.Create(post); err != nil {
		return nil, storeErr(err)
	}

	s.publish(pkg.Event{Kind: "post.created", CommunityID: post.CommunityID, ActorID: actor.ID, SubjectID: post.ID})
	return post, nil
}

func (s *PostService) Get(id uint64) (*model.Post, error) {
	post, err := s.posts.FindByID(id)
	if err != nil {
		return nil, storeErr(err)
	}
	return post, nil
}

// List runs the compiled filter through cursor pagination. An unknown or
// malformed cursor starts from the beginning rather than failing.
func (s *PostService) List(f query.PostFilter, limit int, cursor string) (query.Page[model.Post], error) {
	limit = query.ClampLimit(limit)
	pred := f.Compile()

	var after *model.Post
	if id := query.DecodeCursor(cursor); id != 0 {
		if p, err := s.posts.FindByID(id); err == nil {
			after = p
		}
	}

	items, err := s.posts.ListCursor(pred, limit+1, after)
	if err != nil {
		return query.Page[model.Post]{}, err
	}
	return query.BuildPage(items, limit, func(p model.Post) uint64 { return p.ID }), nil
}

type UpdatePostInput struct {
	Title   *string
	Content *string
	Images  []string
	Extra   json.RawMessage
}

// Update resolves the post before authorization so a missing post reports
// 404, and only then applies the author-or-global-admin rule.
func (s *PostService) Update(actor policy.Actor, id uint64, in UpdatePostInput) (*model.Post, error) {
	post, err := s.posts.FindByID(id)
	if err != nil {
		return nil, storeErr(err)
	}
	res := &policy.Resource{OwnerID: post.AuthorID, CommunityID: post.CommunityID}
	if err := policyErr(policy.CanPerform(actor, policy.ActionPostUpdate, res)); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if in.Title != nil {
		if *in.Title == "" {
			return nil, invalid("title required")
		}
		fields["title"] = *in.Title
	}
	if in.Content != nil {
		fields["content"] = *in.Content
	}
	if in.Images != nil {
		b, err := json.Marshal(in.Images)
		if err != nil {
			return nil, invalid("bad images payload")
		}
		fields["images"] = string(b)
	}
	if len(in.Extra) > 0 {
		if err := model.ValidateExtra(post.Type, in.Extra); err != nil {
			return nil, invalid("%v", err)
		}
		fields["extra"] = string(in.Extra)
	}
	if len(fields) == 0 {
		return post, nil
	}

	if err := s.posts.UpdateFields(id, fields); err != nil {
		return nil, storeErr(err)
	}
	return s.Get(id)
}

func (s *PostService) Delete(actor policy.Actor, id uint64) error {
	post, err := s.posts.FindByID(id)
	if err != nil {
		return storeErr(err)
	}
	res := &policy.Resource{OwnerID: post.AuthorID, CommunityID: post.CommunityID}
	if err := policyErr(policy.CanPerform(actor, policy.ActionPostDelete, res)); err != nil {
		return err
	}
	if err := s.posts.Delete(id); err != nil {
		return storeErr(err)
	}
	s.publish(pkg.Event{Kind: "post.deleted", CommunityID: post.CommunityID, ActorID: actor.ID, SubjectID: id})
	return nil
}

func (s *PostService) publish(ev pkg.Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(context.Background(), ev); err != nil {
		log.Printf("event publish failed: %v", err)
	}
}
