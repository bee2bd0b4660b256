package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/ligue-solar/internal/entity"
	"github.com/xavierca1/ligue-solar/internal/infra/queue"
	"github.com/xavierca1/ligue-solar/internal/persistence"
)

type MockProposalStore struct {
	mock.Mock
}

func (m *MockProposalStore) List(ctx context.Context, scope entity.ListScope, forceRefresh bool) (persistence.ListResult, error) {
	args := m.Called(ctx, scope, forceRefresh)
	return args.Get(0).(persistence.ListResult), args.Error(1)
}

func (m *MockProposalStore) Save(ctx context.Context, user entity.User, p entity.Proposal) (*entity.Proposal, error) {
	args := m.Called(ctx, user, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Proposal), args.Error(1)
}

func (m *MockProposalStore) Get(ctx context.Context, id string) (*entity.Proposal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Proposal), args.Error(1)
}

func (m *MockProposalStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, event queue.ProposalEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type MockRoleRepository struct {
	mock.Mock
}

func (m *MockRoleRepository) GetRole(ctx context.Context, userID string) (entity.Role, bool, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(entity.Role), args.Bool(1), args.Error(2)
}

func (m *MockRoleRepository) ClaimAdmin(ctx context.Context, userID string) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRoleRepository) Assign(ctx context.Context, userID string, role entity.Role) error {
	args := m.Called(ctx, userID, role)
	return args.Error(0)
}
