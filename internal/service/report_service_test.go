package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/sinistros-backend/internal/domain/valueobject"
	"github.com/ignatzorin/sinistros-backend/internal/dto"
	"github.com/ignatzorin/sinistros-backend/internal/pkg/apperror"
)

func TestReportService_MonthlyReport(t *testing.T) {
	env := newTestEnv(t)

	report, err := env.reports.MonthlyReport(context.Background(), dto.MonthlyReportRequest{
		From: "2025-01-01",
		To:   "2025-01-31",
	})
	require.NoError(t, err)

	assert.Equal(t, "2025-01-01", report.From)
	assert.Equal(t, "2025-01-31", report.To)
	assert.Len(t, report.KPIs.TotalByStatus, len(valueobject.ClaimStatuses))
	assert.Equal(t, 1, report.KPIs.TotalByStatus[valueobject.ClaimStatusOpen])
	assert.Equal(t, 1, report.KPIs.TotalByStatus[valueobject.ClaimStatusEstimated])
	assert.Equal(t, 0, report.KPIs.TotalByStatus[valueobject.ClaimStatusCompleted])
	assert.Equal(t, 100.0, report.KPIs.WithinSLAPercent)

	require.Len(t, report.Aggregates, 3)
	assert.Equal(t, "MG", report.Aggregates[0].State)
	assert.Equal(t, "RJ", report.Aggregates[1].State)
	assert.Equal(t, "SP", report.Aggregates[2].State)
	assert.Equal(t, 1, report.Aggregates[1].TotalByStatus[valueobject.ClaimStatusEstimated])
}

func TestReportService_MonthlyReport_SingleDay(t *testing.T) {
	env := newTestEnv(t)

	report, err := env.reports.MonthlyReport(context.Background(), dto.MonthlyReportRequest{
		From: "2025-01-19",
		To:   "2025-01-19",
	})
	require.NoError(t, err)
	require.Len(t, report.Aggregates, 1)
	assert.Equal(t, "RJ", report.Aggregates[0].State)
}

func TestReportService_MonthlyReport_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.reports.MonthlyReport(ctx, dto.MonthlyReportRequest{From: "2025-01-01"})
	assert.True(t, apperror.IsValidation(err))

	_, err = env.reports.MonthlyReport(ctx, dto.MonthlyReportRequest{From: "2025-02-01", To: "2025-01-01"})
	assert.True(t, apperror.IsValidation(err))
}
