package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/sinistros-backend/internal/models"
	"github.com/ignatzorin/sinistros-backend/internal/repository"
)

const testSecret = "test-secret-with-at-least-32-characters!!"

type mockEstimator struct {
	mock.Mock
}

func (m *mockEstimator) Estimate(ctx context.Context, claim *models.Claim, files []models.File) (*models.EstimateDraft, error) {
	args := m.Called(ctx, claim, files)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EstimateDraft), args.Error(1)
}

type recordingHub struct {
	mu       sync.Mutex
	messages []uuid.UUID
}

func (h *recordingHub) Publish(claimID uuid.UUID, _ string, _ any) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = append(h.messages, claimID)
	return nil
}

func (h *recordingHub) count(claimID uuid.UUID) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, id := range h.messages {
		if id == claimID {
			n++
		}
	}
	return n
}

type testEnv struct {
	store     *repository.MemoryStore
	tokens    *TokenManager
	estimator *mockEstimator
	hub       *recordingHub
	claims    *ClaimService
	agg       *AggregationService
	reports   *ReportService
}

// fixedNow момент, относительно которого считаются показатели в тестах.
var fixedNow = time.Date(2025, 1, 25, 12, 0, 0, 0, time.UTC)

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	tokens := NewTokenManager(testSecret, time.Hour)
	store, err := repository.NewSeededMemoryStore(tokens)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	env := &testEnv{
		store:     store,
		tokens:    tokens,
		estimator: new(mockEstimator),
		hub:       &recordingHub{},
	}
	env.claims = NewClaimService(store, env.estimator, tokens, NewCacheService(ctx), "http://portal.test/terceiro/")
	env.claims.SetHub(env.hub)
	env.agg = NewAggregationService(store, 30)
	env.agg.now = func() time.Time { return fixedNow }
	env.reports = NewReportService(store, 30)
	env.reports.now = func() time.Time { return fixedNow }
	return env
}

var (
	claimA = repository.FixtureID("claim-a-123")
	claimB = repository.FixtureID("claim-b-456")
	claimC = repository.FixtureID("claim-c-789")
	shopSP = repository.FixtureID("of-sp-01")
)
