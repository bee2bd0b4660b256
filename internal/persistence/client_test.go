package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-solar/internal/cache"
	"github.com/xavierca1/ligue-solar/internal/entity"
)

type MockProposalRepository struct {
	mock.Mock
}

func (m *MockProposalRepository) Create(ctx context.Context, p *entity.Proposal) error {
	args := m.Called(ctx, p)
	if args.Error(0) == nil {
		p.ID = args.String(1)
	}
	return args.Error(0)
}

func (m *MockProposalRepository) List(ctx context.Context, scope entity.ListScope) ([]entity.Proposal, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Proposal), args.Error(1)
}

func (m *MockProposalRepository) FindByID(ctx context.Context, id string) (*entity.Proposal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Proposal), args.Error(1)
}

func (m *MockProposalRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type recordingNotifier struct{ notices []Notice }

func (r *recordingNotifier) Notify(_ context.Context, n Notice) { r.notices = append(r.notices, n) }

var seller = entity.User{ID: "seller-1", Name: "Carla Mendes", Role: entity.RoleUser}

func TestListFallsBackToLastKnown(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProposalRepository)
	notifier := &recordingNotifier{}
	client := NewClient(repo, notifier)
	scope := entity.SellerScope(seller.ID)

	known := []entity.Proposal{{ID: "p2"}, {ID: "p1"}}
	repo.On("List", ctx, scope).Return(known, nil).Once()
	repo.On("List", ctx, scope).Return(nil, errors.New("dial tcp: connection refused")).Once()

	first, err := client.List(ctx, scope)
	require.NoError(t, err)
	assert.False(t, first.Stale)

	second, err := client.List(ctx, scope)
	require.NoError(t, err)
	assert.True(t, second.Stale)
	assert.Equal(t, known, second.Proposals)

	require.Len(t, notifier.notices, 1)
	assert.Equal(t, "list", notifier.notices[0].Operation)
	assert.Equal(t, "Sem conexão com o servidor. Verifique sua internet.", notifier.notices[0].Message)
	assert.Contains(t, notifier.notices[0].Meta, "scope=proposals:seller-1")
}

func TestListWithoutLastKnownReturnsError(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProposalRepository)
	client := NewClient(repo, &recordingNotifier{})

	repo.On("List", ctx, entity.ListScope{}).Return(nil, errors.New("boom"))

	_, err := client.List(ctx, entity.ListScope{})
	assert.Error(t, err)
}

func TestSaveStampsSellerAndUpdatesLastKnown(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProposalRepository)
	client := NewClient(repo, &recordingNotifier{})
	scope := entity.SellerScope(seller.ID)

	repo.On("List", ctx, scope).Return([]entity.Proposal{{ID: "p1", SellerID: seller.ID}}, nil).Once()
	repo.On("Create", ctx, mock.MatchedBy(func(p *entity.Proposal) bool {
		return p.SellerID == seller.ID && p.SellerName == "Carla Mendes"
	})).Return(nil, "p2")
	repo.On("List", ctx, scope).Return(nil, errors.New("timeout")).Once()

	_, err := client.List(ctx, scope)
	require.NoError(t, err)

	saved, err := client.Save(ctx, seller, entity.Proposal{ClientName: "João"})
	require.NoError(t, err)
	assert.Equal(t, "p2", saved.ID)

	res, err := client.List(ctx, scope)
	require.NoError(t, err)
	require.Len(t, res.Proposals, 2)
	assert.Equal(t, "p2", res.Proposals[0].ID)
}

func TestSaveFailureLeavesListUnchanged(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProposalRepository)
	notifier := &recordingNotifier{}
	client := NewClient(repo, notifier)
	scope := entity.SellerScope(seller.ID)

	repo.On("List", ctx, scope).Return([]entity.Proposal{{ID: "p1"}}, nil).Once()
	repo.On("Create", ctx, mock.Anything).Return(errors.New("permission denied for table proposals"))
	repo.On("List", ctx, scope).Return(nil, errors.New("down")).Once()

	_, _ = client.List(ctx, scope)
	_, err := client.Save(ctx, seller, entity.Proposal{ClientName: "João"})
	require.Error(t, err)
	assert.Equal(t, "Você não tem permissão para esta operação.", notifier.notices[0].Message)

	res, _ := client.List(ctx, scope)
	assert.Len(t, res.Proposals, 1)
}

func TestDeleteNotFoundIsNotNotified(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProposalRepository)
	notifier := &recordingNotifier{}
	client := NewClient(repo, notifier)

	repo.On("Delete", ctx, "nope").Return(entity.ErrProposalNotFound)

	err := client.Delete(ctx, "nope")
	assert.ErrorIs(t, err, entity.ErrProposalNotFound)
	assert.Empty(t, notifier.notices)
}

func newCachedClient(repo *MockProposalRepository, now *time.Time) *CachedClient {
	c := cache.New(cache.Options[[]entity.Proposal]{Clock: func() time.Time { return *now }})
	return NewCachedClient(NewClient(repo, &recordingNotifier{}), c, 0)
}

func TestCachedListHonorsFreshnessWindow(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	repo := new(MockProposalRepository)
	client := newCachedClient(repo, &now)

	repo.On("List", ctx, entity.ListScope{}).Return([]entity.Proposal{{ID: "p1"}}, nil)

	_, err := client.List(ctx, entity.ListScope{}, false)
	require.NoError(t, err)
	now = now.Add(4 * time.Minute)
	_, err = client.List(ctx, entity.ListScope{}, false)
	require.NoError(t, err)
	repo.AssertNumberOfCalls(t, "List", 1)

	_, err = client.List(ctx, entity.ListScope{}, true)
	require.NoError(t, err)
	repo.AssertNumberOfCalls(t, "List", 2)

	now = now.Add(6 * time.Minute)
	_, err = client.List(ctx, entity.ListScope{}, false)
	require.NoError(t, err)
	repo.AssertNumberOfCalls(t, "List", 3)
}

func TestCachedWriteThrough(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	repo := new(MockProposalRepository)
	client := newCachedClient(repo, &now)
	scope := entity.SellerScope(seller.ID)

	repo.On("List", ctx, scope).Return([]entity.Proposal{{ID: "p1", SellerID: seller.ID}}, nil)
	repo.On("Create", ctx, mock.Anything).Return(nil, "p2")
	repo.On("Delete", ctx, "p1").Return(nil)

	_, err := client.List(ctx, scope, false)
	require.NoError(t, err)

	_, err = client.Save(ctx, seller, entity.Proposal{ClientName: "Ana"})
	require.NoError(t, err)

	res, err := client.List(ctx, scope, false)
	require.NoError(t, err)
	require.Len(t, res.Proposals, 2)
	assert.Equal(t, "p2", res.Proposals[0].ID)

	require.NoError(t, client.Delete(ctx, "p1"))
	res, err = client.List(ctx, scope, false)
	require.NoError(t, err)
	require.Len(t, res.Proposals, 1)
	assert.Equal(t, "p2", res.Proposals[0].ID)

	repo.AssertNumberOfCalls(t, "List", 1)
}

func TestHumanMessage(t *testing.T) {
	assert.Equal(t, "", HumanMessage(nil))
	assert.Equal(t, "O servidor demorou para responder. Tente novamente.", HumanMessage(context.DeadlineExceeded))
	assert.Equal(t, "Não foi possível concluir a operação. Tente novamente.", HumanMessage(errors.New("x")))
}

type streakNotifier struct {
	recordingNotifier
	successes int
}

func (s *streakNotifier) RecordSuccess() { s.successes++ }

func TestBackendResponsesReportSuccess(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProposalRepository)
	notifier := &streakNotifier{}
	client := NewClient(repo, Notifiers{notifier})

	repo.On("List", ctx, entity.ListScope{}).Return([]entity.Proposal{{ID: "p1"}}, nil).Once()
	repo.On("List", ctx, entity.ListScope{}).Return(nil, errors.New("connection reset")).Once()
	repo.On("Delete", ctx, "missing").Return(entity.ErrProposalNotFound)

	_, err := client.List(ctx, entity.ListScope{})
	require.NoError(t, err)
	assert.Equal(t, 1, notifier.successes)

	_, err = client.List(ctx, entity.ListScope{})
	require.NoError(t, err)
	assert.Equal(t, 1, notifier.successes)
	assert.Len(t, notifier.notices, 1)

	// "não encontrado" é resposta do backend, não falha
	assert.ErrorIs(t, client.Delete(ctx, "missing"), entity.ErrProposalNotFound)
	assert.Equal(t, 2, notifier.successes)
}
