package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/ignatzorin/sinistros-backend/internal/dto"
	"github.com/ignatzorin/sinistros-backend/internal/models"
	"github.com/ignatzorin/sinistros-backend/internal/repository"
)

// ReportService строит периодический отчёт по синистрам.
type ReportService struct {
	store   repository.ClaimStore
	slaDays int
	now     func() time.Time
}

// NewReportService создаёт сервис отчётов.
func NewReportService(store repository.ClaimStore, slaDays int) *ReportService {
	return &ReportService{
		store:   store,
		slaDays: slaDays,
		now:     time.Now,
	}
}

// MonthlyReport считает KPI и агрегаты по штатам за период.
func (s *ReportService) MonthlyReport(ctx context.Context, req dto.MonthlyReportRequest) (*models.MonthlyReport, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	from, err := dto.ParseDate(req.From)
	if err != nil {
		return nil, err
	}
	to, err := dto.ParseDate(req.To)
	if err != nil {
		return nil, err
	}
	to = endOfDayIfDate(req.To, to)

	claims, err := s.store.ListClaims(ctx, models.ClaimFilter{From: &from, To: &to})
	if err != nil {
		return nil, mapStoreError(err, nil)
	}

	byState := make(map[string][]models.Claim)
	for _, c := range claims {
		uf := strings.ToUpper(c.EventState)
		byState[uf] = append(byState[uf], c)
	}

	aggregates := make([]models.ReportAggregate, 0, len(byState))
	for uf, group := range byState {
		aggregates = append(aggregates, models.ReportAggregate{
			State:         uf,
			Total:         len(group),
			TotalByStatus: countByStatus(group),
		})
	}
	sort.Slice(aggregates, func(i, j int) bool {
		return aggregates[i].State < aggregates[j].State
	})

	return &models.MonthlyReport{
		From: from.Format("2006-01-02"),
		To:   to.Format("2006-01-02"),
		KPIs: models.ReportKPIs{
			AvgResolutionDays: avgResolutionDays(claims),
			WithinSLAPercent:  withinSLAPercent(claims, s.slaDays, s.now().UTC()),
			TotalByStatus:     countByStatus(claims),
		},
		Aggregates: aggregates,
	}, nil
}
