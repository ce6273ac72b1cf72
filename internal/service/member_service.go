package service

import (
	"context"
	"net/url"

	"churchportal/internal/apiclient"
	"churchportal/internal/models"
)

const membersPath = "members"

// MemberService maps member operations onto the REST backend
type MemberService struct {
	api *apiclient.Client
}

// NewMemberService creates a new member service
func NewMemberService(api *apiclient.Client) *MemberService {
	return &MemberService{api: api}
}

// GetAll lists members matching the filter
func (s *MemberService) GetAll(ctx context.Context, filter models.MemberFilter) ([]models.Member, error) {
	return apiclient.Get[[]models.Member](ctx, s.api, path(membersPath), filter.Values())
}

// GetByID retrieves a member by ID
func (s *MemberService) GetByID(ctx context.Context, id string) (*models.Member, error) {
	return apiclient.Get[*models.Member](ctx, s.api, path(membersPath, id), nil)
}

// Create registers a new member
func (s *MemberService) Create(ctx context.Context, input models.CreateMemberInput) (*models.Member, error) {
	return apiclient.Post[*models.Member](ctx, s.api, path(membersPath), input)
}

// Update applies the non-nil fields of cmd
func (s *MemberService) Update(ctx context.Context, cmd models.UpdateMemberCommand) (*models.Member, error) {
	return apiclient.Put[*models.Member](ctx, s.api, path(membersPath, cmd.ID), cmd)
}

// Delete removes a member
func (s *MemberService) Delete(ctx context.Context, id string) error {
	return apiclient.Delete(ctx, s.api, path(membersPath, id))
}

// Search finds members by free text
func (s *MemberService) Search(ctx context.Context, query string) ([]models.Member, error) {
	return apiclient.Get[[]models.Member](ctx, s.api, path(membersPath, "search"), url.Values{"q": {query}})
}

// Stats returns congregation totals
func (s *MemberService) Stats(ctx context.Context) (*models.MemberStats, error) {
	return apiclient.Get[*models.MemberStats](ctx, s.api, path(membersPath, "stats"), nil)
}
