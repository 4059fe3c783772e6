package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/sinistros-backend/internal/domain/lifecycle"
	"github.com/ignatzorin/sinistros-backend/internal/domain/valueobject"
	"github.com/ignatzorin/sinistros-backend/internal/dto"
	"github.com/ignatzorin/sinistros-backend/internal/models"
	"github.com/ignatzorin/sinistros-backend/internal/pkg/apperror"
)

func TestAggregationService_ClaimDetail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	detail, err := env.agg.ClaimDetail(ctx, claimC)
	require.NoError(t, err)

	assert.Equal(t, "IJK7L89", detail.Claim.Plate)
	require.NotNil(t, detail.Estimate)
	assert.Equal(t, 5200.0, detail.Estimate.EstimatedValue)
	require.NotNil(t, detail.Shop)
	assert.Equal(t, "MG", detail.Shop.State)
	require.NotNil(t, detail.Schedule)
	assert.Equal(t, valueobject.ScheduleStatusConfirmed, detail.Schedule.Status)
	require.NotNil(t, detail.ThirdParty)
	assert.Len(t, detail.Files, 2)
	assert.Len(t, detail.Events, 7)
	assert.False(t, detail.TotalLossEligible)
	assert.Equal(t, []lifecycle.Action{
		lifecycle.ActionConfirmSchedule, lifecycle.ActionClose, lifecycle.ActionDeny,
		lifecycle.ActionThirdPartyLink, lifecycle.ActionUploadFiles,
	}, detail.AvailableActions)
}

func TestAggregationService_ClaimDetail_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for _, id := range []uuid.UUID{claimA, claimB, claimC} {
		first, err := env.agg.ClaimDetail(ctx, id)
		require.NoError(t, err)
		second, err := env.agg.ClaimDetail(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	}
}

func TestAggregationService_ClaimDetail_EmptyRelations(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	claim, err := env.claims.CreateClaim(ctx, validCreateRequest())
	require.NoError(t, err)

	detail, err := env.agg.ClaimDetail(ctx, claim.ID)
	require.NoError(t, err)
	assert.Nil(t, detail.Estimate)
	assert.Nil(t, detail.Shop)
	assert.Nil(t, detail.Schedule)
	assert.Nil(t, detail.ThirdParty)
	assert.NotNil(t, detail.Files)
	assert.Empty(t, detail.Files)
	assert.Len(t, detail.Events, 1)
	assert.False(t, detail.TotalLossEligible)
}

func TestAggregationService_ClaimDetail_NotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.agg.ClaimDetail(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperror.ErrClaimNotFound)
}

func TestAggregationService_ClaimDetail_TotalLossEligible(t *testing.T) {
	env := newTestEnv(t)

	detail, err := env.agg.ClaimDetail(context.Background(), claimB)
	require.NoError(t, err)
	assert.True(t, detail.TotalLossEligible)
	assert.Contains(t, detail.AvailableActions, lifecycle.ActionMarkTotalLoss)
}

func TestAggregationService_DashboardFilters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	all, err := env.agg.Dashboard(ctx, dto.DashboardRequest{})
	require.NoError(t, err)
	require.Len(t, all.Claims, 3)

	todos, err := env.agg.Dashboard(ctx, dto.DashboardRequest{Status: "todos"})
	require.NoError(t, err)
	assert.Len(t, todos.Claims, 3)

	estimated, err := env.agg.Dashboard(ctx, dto.DashboardRequest{Status: "estimado"})
	require.NoError(t, err)
	require.Len(t, estimated.Claims, 1)
	assert.Equal(t, "EFG4H56", estimated.Claims[0].Plate)

	search, err := env.agg.Dashboard(ctx, dto.DashboardRequest{Search: "EFG"})
	require.NoError(t, err)
	require.Len(t, search.Claims, 1)
	assert.Equal(t, "EFG4H56", search.Claims[0].Plate)

	_, err = env.agg.Dashboard(ctx, dto.DashboardRequest{Status: "arquivado"})
	assert.True(t, apperror.IsValidation(err))
}

func TestAggregationService_DashboardIndicators(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	dash, err := env.agg.Dashboard(ctx, dto.DashboardRequest{})
	require.NoError(t, err)

	// все три синистра открыты, зарегистрированы 19-20 января, сейчас 25 января
	assert.Equal(t, 3, dash.Indicators.Active)
	assert.Equal(t, 3, dash.Indicators.CreatedThisMonth)
	assert.Equal(t, 100.0, dash.Indicators.WithinSLAPercent)
	assert.Equal(t, 0.0, dash.Indicators.AvgResolutionDays)

	// фильтр по периоду, в который не попадает ни один синистр
	empty, err := env.agg.Dashboard(ctx, dto.DashboardRequest{Period: "7d", Search: "ZZZ"})
	require.NoError(t, err)
	assert.Empty(t, empty.Claims)
	assert.Equal(t, models.DashboardIndicators{}, empty.Indicators)
}

func TestAggregationService_DashboardPeriod(t *testing.T) {
	env := newTestEnv(t)

	filter, err := env.agg.DashboardFilter(dto.DashboardRequest{Period: "7d"})
	require.NoError(t, err)
	require.NotNil(t, filter.From)
	assert.Equal(t, fixedNow.Add(-7*24*time.Hour), *filter.From)

	filter, err = env.agg.DashboardFilter(dto.DashboardRequest{Period: "mes", From: "2025-01-10"})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), *filter.From)

	filter, err = env.agg.DashboardFilter(dto.DashboardRequest{To: "2025-01-19"})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 19, 23, 59, 59, 999999999, time.UTC), *filter.To)
}

func TestIndicators(t *testing.T) {
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	closedFast := created.Add(10 * 24 * time.Hour)
	closedSlow := created.Add(40 * 24 * time.Hour)

	claims := []models.Claim{
		{CreatedAt: created, ClosedAt: &closedFast, Status: valueobject.ClaimStatusCompleted},
		{CreatedAt: created, ClosedAt: &closedSlow, Status: valueobject.ClaimStatusCompleted},
		{CreatedAt: created.Add(50 * 24 * time.Hour), Status: valueobject.ClaimStatusOpen},
		{CreatedAt: created, Status: valueobject.ClaimStatusEstimated},
	}
	now := created.Add(60 * 24 * time.Hour)

	assert.Equal(t, 25.0, avgResolutionDays(claims))
	assert.Equal(t, 50.0, withinSLAPercent(claims, 30, now))
	assert.Equal(t, 0.0, withinSLAPercent(nil, 30, now))
}
