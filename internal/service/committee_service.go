package service

import (
	"context"

	"churchportal/internal/apiclient"
	"churchportal/internal/models"
)

const committeePath = "committee"

type CommitteeService struct {
	api *apiclient.Client
}

func NewCommitteeService(api *apiclient.Client) *CommitteeService {
	return &CommitteeService{api: api}
}

func (s *CommitteeService) GetAll(ctx context.Context) ([]models.CommitteeMeeting, error) {
	return apiclient.Get[[]models.CommitteeMeeting](ctx, s.api, path(committeePath), nil)
}

func (s *CommitteeService) GetByID(ctx context.Context, id string) (*models.CommitteeMeeting, error) {
	return apiclient.Get[*models.CommitteeMeeting](ctx, s.api, path(committeePath, id), nil)
}

func (s *CommitteeService) Create(ctx context.Context, input models.CreateCommitteeMeetingInput) (*models.CommitteeMeeting, error) {
	return apiclient.Post[*models.CommitteeMeeting](ctx, s.api, path(committeePath), input)
}

func (s *CommitteeService) Update(ctx context.Context, cmd models.UpdateCommitteeMeetingCommand) (*models.CommitteeMeeting, error) {
	return apiclient.Put[*models.CommitteeMeeting](ctx, s.api, path(committeePath, cmd.ID), cmd)
}

func (s *CommitteeService) Delete(ctx context.Context, id string) error {
	return apiclient.Delete(ctx, s.api, path(committeePath, id))
}
