package service

import (
	"context"
	"errors"
	"time"

	"Neighborhood_Hub/internal/pkg"
	"Neighborhood_Hub/internal/policy"
)

var errStorageDisabled = errors.New("file storage is not configured")

// UploadService issues presigned URLs; any membership role in the target
// community is enough, for both upload and download.
type UploadService struct {
	communities CommunityStore
	presigner   *pkg.S3Presigner
}

func NewUploadService(communities CommunityStore, presigner *pkg.S3Presigner) *UploadService {
	return &UploadService{communities: communities, presigner: presigner}
}

type SignedURL struct {
	URL       string    `json:"url"`
	Key       string    `json:"key,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *UploadService) SignUpload(ctx context.Context, actor policy.Actor, communityID uint64, filename, contentType string) (*SignedURL, error) {
	if filename == "" || contentType == "" {
		return nil, invalid("filename and content type required")
	}
	if _, err := s.communities.FindByID(communityID); err != nil {
		return nil, storeErr(err)
	}
	res := &policy.Resource{CommunityID: communityID}
	if err := policyErr(policy.CanPerform(actor, policy.ActionUploadSign, res)); err != nil {
		return nil, err
	}
	if s.presigner == nil {
		return nil, errStorageDisabled
	}
	key := pkg.ObjectKey(communityID, filename)
	url, expiresAt, err := s.presigner.PresignPut(ctx, key, contentType)
	if err != nil {
		return nil, err
	}
	return &SignedURL{URL: url, Key: key, ExpiresAt: expiresAt}, nil
}

func (s *UploadService) SignDownload(ctx context.Context, actor policy.Actor, communityID uint64, key string) (*SignedURL, error) {
	if key == "" {
		return nil, invalid("key required")
	}
	if _, err := s.communities.FindByID(communityID); err != nil {
		return nil, storeErr(err)
	}
	res := &policy.Resource{CommunityID: communityID}
	if err := policyErr(policy.CanPerform(actor, policy.ActionUploadRead, res)); err != nil {
		return nil, err
	}
	if s.presigner == nil {
		return nil, errStorageDisabled
	}
	url, expiresAt, err := s.presigner.PresignGet(ctx, key)
	if err != nil {
		return nil, err
	}
	return &SignedURL{URL: url, ExpiresAt: expiresAt}, nil
}
