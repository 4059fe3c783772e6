package dispatcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/sinistros-backend/internal/ai"
	"github.com/ignatzorin/sinistros-backend/internal/domain/valueobject"
	"github.com/ignatzorin/sinistros-backend/internal/dto"
	"github.com/ignatzorin/sinistros-backend/internal/models"
	"github.com/ignatzorin/sinistros-backend/internal/pkg/apperror"
	"github.com/ignatzorin/sinistros-backend/internal/repository"
	"github.com/ignatzorin/sinistros-backend/internal/service"
)

type mockRecorder struct {
	mock.Mock
}

func (m *mockRecorder) RecordEvent(ctx context.Context, claimID *uuid.UUID, workflow string, payload any, status valueobject.EventStatus) error {
	args := m.Called(ctx, claimID, workflow, payload, status)
	return args.Error(0)
}

type testEnv struct {
	store   *repository.MemoryStore
	claims  *service.ClaimService
	local   *LocalStage
	metrics *Metrics
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	tokens := service.NewTokenManager("dispatcher-test-secret-with-32-chars!!", time.Hour)
	store, err := repository.NewSeededMemoryStore(tokens)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	claims := service.NewClaimService(store, ai.HeuristicEstimator{}, tokens, service.NewCacheService(ctx), "http://portal.test/terceiro")
	agg := service.NewAggregationService(store, 30)
	reports := service.NewReportService(store, 30)
	legacy := service.NewLegacyService(store)

	return &testEnv{
		store:   store,
		claims:  claims,
		local:   NewLocalStage(claims, agg, reports, legacy),
		metrics: NewMetrics(prometheus.NewRegistry()),
	}
}

func createPayload() *dto.CreateClaimRequest {
	return &dto.CreateClaimRequest{
		Plate:        "ABC1D23",
		InsuredTaxID: "12345678901",
		EventDate:    "2025-01-24T10:00:00Z",
		EventCity:    "Campinas",
		EventState:   "SP",
		Type:         "colisao",
	}
}

func claimCount(t *testing.T, store *repository.MemoryStore) int {
	t.Helper()
	claims, err := store.ListClaims(context.Background(), models.ClaimFilter{})
	require.NoError(t, err)
	return len(claims)
}

func remotePaths() map[string]string {
	return map[string]string{"WH_SINISTROS_CRIAR": "sinistros/criar"}
}

func TestDispatcher_NoRemoteConfigUsesLocal(t *testing.T) {
	env := newTestEnv(t)
	d := New(env.claims, env.metrics,
		NewRemoteStage("", nil, time.Second),
		env.local,
		NewMockStage(0),
	)

	res, err := d.Invoke(context.Background(), ActionCreateClaim, createPayload())
	require.NoError(t, err)
	assert.Equal(t, StageLocal, res.Stage)

	created, ok := res.Data.(*dto.CreateClaimResponse)
	require.True(t, ok)
	assert.NotEqual(t, uuid.Nil, created.ClaimID)
	assert.Equal(t, valueobject.ClaimStatusOpen, created.Status)
	assert.Equal(t, 4, claimCount(t, env.store))

	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.calls.WithLabelValues("sinistros_criar", StageRemote, "next")))
	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.calls.WithLabelValues("sinistros_criar", StageLocal, "served")))
}

func TestDispatcher_RemoteFailureFallsBack(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"status 500", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"invalid body", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte("<html>"))
		}},
		{"empty object", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{}`))
		}},
		{"unknown status", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"claim_id":"` + uuid.NewString() + `","status":"xyz"}`))
		}},
		{"timeout", func(w http.ResponseWriter, _ *http.Request) {
			time.Sleep(300 * time.Millisecond)
			w.Write([]byte(`{}`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var hits atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				hits.Add(1)
				assert.Equal(t, "/sinistros/criar", r.URL.Path)
				tt.handler(w, r)
			}))
			defer srv.Close()

			env := newTestEnv(t)
			d := New(env.claims, env.metrics,
				NewRemoteStage(srv.URL+"/", remotePaths(), 50*time.Millisecond),
				env.local,
			)

			res, err := d.Invoke(context.Background(), ActionCreateClaim, createPayload())
			require.NoError(t, err)
			assert.Equal(t, StageLocal, res.Stage)
			assert.Equal(t, int32(1), hits.Load())
			assert.Equal(t, 4, claimCount(t, env.store))
		})
	}
}

func TestDispatcher_RemoteServed(t *testing.T) {
	remoteID := uuid.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"claim_id":"` + remoteID.String() + `","status":"aberto","mensagem":"ok"}`))
	}))
	defer srv.Close()

	env := newTestEnv(t)
	recorder := new(mockRecorder)
	recorder.On("RecordEvent", mock.Anything, (*uuid.UUID)(nil), "sinistros_criar", mock.Anything, valueobject.EventStatusSuccess).
		Return(nil).Once()

	d := New(recorder, env.metrics,
		NewRemoteStage(srv.URL, remotePaths(), time.Second),
		env.local,
	)

	res, err := d.Invoke(context.Background(), ActionCreateClaim, createPayload())
	require.NoError(t, err)
	assert.Equal(t, StageRemote, res.Stage)

	created, ok := res.Data.(*dto.CreateClaimResponse)
	require.True(t, ok)
	assert.Equal(t, remoteID, created.ClaimID)
	assert.Equal(t, 3, claimCount(t, env.store), "локальная стадия не вызывалась")
	recorder.AssertExpectations(t)
}

func TestDispatcher_ValidationBeforeDispatch(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	env := newTestEnv(t)
	d := New(env.claims, env.metrics, NewRemoteStage(srv.URL, remotePaths(), time.Second), env.local)

	payload := createPayload()
	payload.Plate = ""
	_, err := d.Invoke(context.Background(), ActionCreateClaim, payload)
	assert.True(t, apperror.IsValidation(err))
	assert.Zero(t, hits.Load())
}

func TestDispatcher_DomainErrorIsNotMasked(t *testing.T) {
	env := newTestEnv(t)
	d := New(env.claims, env.metrics, env.local, NewMockStage(0))

	claimB := repository.FixtureID("claim-b-456")
	_, err := d.Invoke(context.Background(), ActionEstimate, &dto.GenerateEstimateRequest{ClaimID: claimB})
	assert.True(t, apperror.IsInvalidTransition(err))
	assert.Zero(t, testutil.ToFloat64(env.metrics.calls.WithLabelValues("estimativa_gerar", StageMock, "served")))

	claim, err := env.store.GetClaim(context.Background(), claimB)
	require.NoError(t, err)
	assert.Equal(t, valueobject.ClaimStatusEstimated, claim.Status)
}

func TestDispatcher_MockStage(t *testing.T) {
	env := newTestEnv(t)
	d := New(nil, env.metrics, NewRemoteStage("", nil, time.Second), NewMockStage(20*time.Millisecond))

	started := time.Now()
	res, err := d.Invoke(context.Background(), ActionCreateClaim, createPayload())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(started), 20*time.Millisecond)
	assert.Equal(t, StageMock, res.Stage)

	created, ok := res.Data.(*dto.CreateClaimResponse)
	require.True(t, ok)
	assert.Equal(t, valueobject.ClaimStatusOpen, created.Status)
	assert.Equal(t, 3, claimCount(t, env.store))
}

func TestDispatcher_MockStageShapes(t *testing.T) {
	env := newTestEnv(t)
	d := New(nil, env.metrics, NewMockStage(0))
	claimID := uuid.New()

	res, err := d.Invoke(context.Background(), ActionEstimate, &dto.GenerateEstimateRequest{ClaimID: claimID})
	require.NoError(t, err)
	est, ok := res.Data.(*dto.EstimateResponse)
	require.True(t, ok)
	assert.Equal(t, claimID, est.Estimate.ClaimID)
	assert.False(t, est.TotalLossEligible)

	when := "2025-02-01T09:00"
	res, err = d.Invoke(context.Background(), ActionShopRouting, &dto.ShopRoutingRequest{
		Action: dto.ShopActionSchedule, ClaimID: claimID, ScheduledAt: &when,
	})
	require.NoError(t, err)
	routing, ok := res.Data.(*dto.ShopRoutingResponse)
	require.True(t, ok)
	assert.Equal(t, valueobject.ScheduleStatusConfirmed, routing.Schedule.Status)
}

func TestDispatcher_Unimplemented(t *testing.T) {
	_, err := ParseAction("sinistro_arquivar")
	assert.Equal(t, apperror.ErrCodeUnimplemented, apperror.CodeOf(err))

	env := newTestEnv(t)
	recorder := new(mockRecorder)
	recorder.On("RecordEvent", mock.Anything, (*uuid.UUID)(nil), "relatorio_gerar_mensal", mock.Anything, valueobject.EventStatusError).
		Return(nil).Once()

	// без локальной стадии у отчёта нет обработчика
	d := New(recorder, env.metrics, NewRemoteStage("", nil, time.Second), NewMockStage(0))
	_, err = d.Invoke(context.Background(), ActionMonthlyReport, &dto.MonthlyReportRequest{From: "2025-01-01", To: "2025-01-31"})
	require.Error(t, err)
	assert.Equal(t, apperror.ErrCodeUnimplemented, apperror.CodeOf(err))
	recorder.AssertExpectations(t)

	_, err = d.Invoke(context.Background(), Action("desconhecida"), createPayload())
	assert.Equal(t, apperror.ErrCodeUnimplemented, apperror.CodeOf(err))
}

func TestAction_DecodePayload(t *testing.T) {
	p, err := ActionUpdateStatus.DecodePayload([]byte(`{"acao":"negar","claim_id":"` + uuid.NewString() + `","motivo":"fraude"}`))
	require.NoError(t, err)
	req, ok := p.(*dto.UpdateStatusRequest)
	require.True(t, ok)
	assert.Equal(t, dto.StatusActionDeny, req.Action)
	require.NotNil(t, req.Reason)

	_, err = ActionUpdateStatus.DecodePayload([]byte(`{"acao":"negar","campo_extra":1}`))
	assert.True(t, apperror.IsValidation(err))

	_, err = Action("x").DecodePayload([]byte(`{}`))
	assert.Equal(t, apperror.ErrCodeUnimplemented, apperror.CodeOf(err))
}

func TestRemoteStage_URL(t *testing.T) {
	stage := NewRemoteStage("https://n8n.example.com/webhook/", map[string]string{
		"WH_TERCEIROS": "/terceiros/",
	}, time.Second)

	assert.Equal(t, "https://n8n.example.com/webhook/terceiros", stage.URL(ActionThirdParty))
	assert.Empty(t, stage.URL(ActionClose))
	assert.Empty(t, NewRemoteStage("", map[string]string{"WH_TERCEIROS": "t"}, time.Second).URL(ActionThirdParty))
}

func TestDispatcher_EndToEndThroughLocal(t *testing.T) {
	env := newTestEnv(t)
	d := New(env.claims, env.metrics, NewRemoteStage("", nil, time.Second), env.local, NewMockStage(0))
	ctx := context.Background()

	res, err := d.Invoke(ctx, ActionCreateClaim, createPayload())
	require.NoError(t, err)
	claimID := res.Data.(*dto.CreateClaimResponse).ClaimID

	res, err = d.Invoke(ctx, ActionEstimate, &dto.GenerateEstimateRequest{ClaimID: claimID})
	require.NoError(t, err)
	est := res.Data.(*dto.EstimateResponse)
	assert.Equal(t, 12000.0, est.Estimate.EstimatedValue)

	res, err = d.Invoke(ctx, ActionUpdateStatus, &dto.UpdateStatusRequest{Action: dto.StatusActionAuthorizeRepair, ClaimID: claimID})
	require.NoError(t, err)
	assert.Equal(t, valueobject.ClaimStatusRepairAuthorized, res.Data.(*dto.StatusResponse).Status)

	res, err = d.Invoke(ctx, ActionClose, &dto.CloseRequest{ClaimID: claimID})
	require.NoError(t, err)
	assert.Equal(t, valueobject.ClaimStatusCompleted, res.Data.(*dto.StatusResponse).Status)

	_, err = d.Invoke(ctx, ActionUpdateStatus, &dto.UpdateStatusRequest{Action: dto.StatusActionDeny, ClaimID: claimID})
	assert.True(t, apperror.IsInvalidTransition(err))
}

func TestAction_CompleteResult(t *testing.T) {
	for action := range catalog {
		assert.False(t, action.CompleteResult(action.NewResult()), action)
	}

	assert.True(t, ActionCreateClaim.CompleteResult(&dto.CreateClaimResponse{
		ClaimID: uuid.New(), Status: valueobject.ClaimStatusOpen,
	}))
	assert.False(t, ActionUpdateStatus.CompleteResult(&dto.StatusResponse{
		ClaimID: uuid.New(), Status: "xyz",
	}))
	assert.True(t, ActionUploadFiles.CompleteResult(&dto.UploadFilesResponse{Files: []models.File{}}))
	assert.True(t, ActionSendNotice.CompleteResult(&dto.NoticeResponse{Protocol: "AV-1"}))
}
