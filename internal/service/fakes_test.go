package service

import (
	"fmt"
	"sort"
	"time"

	"Neighborhood_Hub/internal/model"
	"Neighborhood_Hub/internal/query"

	"gorm.io/gorm"
)

// In-memory store fakes. Listing fakes keep the repositories' ordering
// contract (created_at DESC, id DESC) and keyset semantics so pagination
// behaves as it does against MySQL.

type fakeCommunityStore struct {
	nextID   uint64
	byID     map[uint64]*model.Community
	founders map[uint64]uint64

	cascadeErr error
}

func newFakeCommunityStore() *fakeCommunityStore {
	return &fakeCommunityStore{byID: map[uint64]*model.Community{}, founders: map[uint64]uint64{}}
}

func (f *fakeCommunityStore) Create(c *model.Community, creatorID uint64) (*model.Community, error) {
	for _, existing := range f.byID {
		if existing.Slug == c.Slug {
			return nil, gorm.ErrDuplicatedKey
		}
	}
	f.nextID++
	c.ID = f.nextID
	c.CreatedAt = time.Now()
	f.byID[c.ID] = c
	f.founders[c.ID] = creatorID
	return c, nil
}

func (f *fakeCommunityStore) FindByID(id uint64) (*model.Community, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (f *fakeCommunityStore) FindBySlug(slug string) (*model.Community, error) {
	for _, c := range f.byID {
		if c.Slug == slug {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCommunityStore) FindByInviteCode(code string) (*model.Community, error) {
	for _, c := range f.byID {
		if c.InviteCode == code && code != "" {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCommunityStore) ListCursor(_ query.Predicate, limit int, after *model.Community) ([]model.Community, error) {
	all := make([]model.Community, 0, len(f.byID))
	for _, c := range f.byID {
		all = append(all, *c)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID > all[j].ID
	})
	var out []model.Community
	for _, c := range all {
		if after != nil {
			if c.CreatedAt.After(after.CreatedAt) {
				continue
			}
			if c.CreatedAt.Equal(after.CreatedAt) && c.ID >= after.ID {
				continue
			}
		}
		out = append(out, c)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeCommunityStore) UpdateFields(id uint64, fields map[string]any) error {
	c, ok := f.byID[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := fields["name"]; ok {
		c.Name = v.(string)
	}
	if v, ok := fields["description"]; ok {
		c.Description = v.(string)
	}
	if v, ok := fields["join_policy"]; ok {
		c.JoinPolicy = v.(model.JoinPolicy)
	}
	if v, ok := fields["invite_code"]; ok {
		c.InviteCode = v.(string)
	}
	if v, ok := fields["is_public"]; ok {
		c.IsPublic = v.(bool)
	}
	return nil
}

func (f *fakeCommunityStore) DeleteCascade(id uint64) error {
	if f.cascadeErr != nil {
		return f.cascadeErr
	}
	if _, ok := f.byID[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeCommunityStore) CountMembers(uint64) (int64, error) { return 0, nil }
func (f *fakeCommunityStore) CountPosts(uint64) (int64, error)   { return 0, nil }

type fakeMembershipStore struct {
	nextID  uint64
	members []*model.Membership
}

func (f *fakeMembershipStore) find(communityID, userID uint64) *model.Membership {
	for _, m := range f.members {
		if m.CommunityID == communityID && m.UserID == userID {
			return m
		}
	}
	return nil
}

// Join mirrors the repository's ON CONFLICT DO NOTHING.
func (f *fakeMembershipStore) Join(m *model.Membership) error {
	if f.find(m.CommunityID, m.UserID) != nil {
		return nil
	}
	f.nextID++
	m.ID = f.nextID
	f.members = append(f.members, m)
	return nil
}

// Approve surfaces the duplicate, matching the plain insert.
func (f *fakeMembershipStore) Approve(m *model.Membership) error {
	if f.find(m.CommunityID, m.UserID) != nil {
		return gorm.ErrDuplicatedKey
	}
	return f.Join(m)
}

func (f *fakeMembershipStore) Leave(communityID, userID uint64) error {
	for i, m := range f.members {
		if m.CommunityID == communityID && m.UserID == userID {
			f.members = append(f.members[:i], f.members[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeMembershipStore) Find(communityID, userID uint64) (*model.Membership, error) {
	if m := f.find(communityID, userID); m != nil {
		return m, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeMembershipStore) ListByUser(userID uint64) ([]model.Membership, error) {
	var out []model.Membership
	for _, m := range f.members {
		if m.UserID == userID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeMembershipStore) ListByCommunity(communityID uint64) ([]model.Membership, error) {
	var out []model.Membership
	for _, m := range f.members {
		if m.CommunityID == communityID {
			out = append(out, *m)
		}
	}
	return out, nil
}

type fakePostStore struct {
	nextID uint64
	byID   map[uint64]*model.Post
}

func newFakePostStore() *fakePostStore {
	return &fakePostStore{byID: map[uint64]*model.Post{}}
}

func (f *fakePostStore) Create(p *model.Post) error {
	f.nextID++
	p.ID = f.nextID
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	f.byID[p.ID] = p
	return nil
}

func (f *fakePostStore) FindByID(id uint64) (*model.Post, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (f *fakePostStore) ListCursor(_ query.Predicate, limit int, after *model.Post) ([]model.Post, error) {
	all := make([]model.Post, 0, len(f.byID))
	for _, p := range f.byID {
		all = append(all, *p)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID > all[j].ID
	})
	var out []model.Post
	for _, p := range all {
		if after != nil {
			if p.CreatedAt.After(after.CreatedAt) {
				continue
			}
			if p.CreatedAt.Equal(after.CreatedAt) && p.ID >= after.ID {
				continue
			}
		}
		out = append(out, p)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakePostStore) UpdateFields(id uint64, fields map[string]any) error {
	p, ok := f.byID[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := fields["title"]; ok {
		p.Title = v.(string)
	}
	if v, ok := fields["content"]; ok {
		p.Content = v.(string)
	}
	if v, ok := fields["images"]; ok {
		p.Images = v.(string)
	}
	if v, ok := fields["extra"]; ok {
		p.Extra = v.(string)
	}
	return nil
}

func (f *fakePostStore) Delete(id uint64) error {
	if _, ok := f.byID[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeUserStore struct {
	nextID uint64
	byID   map[uint64]*model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byID: map[uint64]*model.User{}}
}

func (f *fakeUserStore) Create(u *model.User) error {
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	f.nextID++
	u.ID = f.nextID
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUserStore) Count() (int64, error) { return int64(len(f.byID)), nil }

func (f *fakeUserStore) FindByID(id uint64) (*model.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (f *fakeUserStore) FindByEmail(email string) (*model.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserStore) List(offset, limit int) ([]model.User, error) {
	all := make([]model.User, 0, len(f.byID))
	for _, u := range f.byID {
		all = append(all, *u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (f *fakeUserStore) UpdateFields(id uint64, fields map[string]any) error {
	u, ok := f.byID[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := fields["full_name"]; ok {
		u.FullName = v.(string)
	}
	if v, ok := fields["status"]; ok {
		u.Status = v.(model.UserStatus)
	}
	if v, ok := fields["role"]; ok {
		u.Role = v.(model.GlobalRole)
	}
	return nil
}

func (f *fakeUserStore) UpdatePassword(u *model.User, newHash string) error {
	stored, ok := f.byID[u.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.PasswordHash = newHash
	return nil
}

func (f *fakeUserStore) Delete(id uint64) error {
	if _, ok := f.byID[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeTokenStore struct {
	tokens map[uint64]string
}

func newFakeTokenStore() *fakeTokenStore { return &fakeTokenStore{tokens: map[uint64]string{}} }

func (f *fakeTokenStore) AddUserToken(userID uint64, token string) error {
	f.tokens[userID] = token
	return nil
}

func (f *fakeTokenStore) GetUserToken(userID uint64) (string, error) {
	t, ok := f.tokens[userID]
	if !ok {
		return "", fmt.Errorf("no token for user %d", userID)
	}
	return t, nil
}

func (f *fakeTokenStore) ExtendUserToken(uint64) error { return nil }

func (f *fakeTokenStore) DeleteUserToken(userID uint64) error {
	delete(f.tokens, userID)
	return nil
}

type fakeCodeStore struct {
	pending   map[string]string
	confirmed map[string]string
}

func newFakeCodeStore() *fakeCodeStore {
	return &fakeCodeStore{pending: map[string]string{}, confirmed: map[string]string{}}
}

func codeKey(scope, email string) string { return scope + ":" + email }

func (f *fakeCodeStore) SetPending(scope, email, code string) error {
	f.pending[codeKey(scope, email)] = code
	return nil
}

func (f *fakeCodeStore) ConfirmPending(scope, email string) error {
	k := codeKey(scope, email)
	code, ok := f.pending[k]
	if !ok {
		return fmt.Errorf("no pending code for %s", k)
	}
	delete(f.pending, k)
	f.confirmed[k] = code
	return nil
}

func (f *fakeCodeStore) DeletePending(scope, email string) error {
	delete(f.pending, codeKey(scope, email))
	return nil
}

func (f *fakeCodeStore) GetConfirmed(scope, email string) (string, error) {
	code, ok := f.confirmed[codeKey(scope, email)]
	if !ok {
		return "", nil
	}
	return code, nil
}

func (f *fakeCodeStore) DeleteConfirmed(scope, email string) error {
	delete(f.confirmed, codeKey(scope, email))
	return nil
}
