package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ignatzorin/sinistros-backend/internal/domain/lifecycle"
	"github.com/ignatzorin/sinistros-backend/internal/domain/valueobject"
	"github.com/ignatzorin/sinistros-backend/internal/dto"
	"github.com/ignatzorin/sinistros-backend/internal/models"
	"github.com/ignatzorin/sinistros-backend/internal/pkg/apperror"
	"github.com/ignatzorin/sinistros-backend/internal/repository"
)

// AggregationService собирает представления для интерфейса: карточку синистра и дашборд.
type AggregationService struct {
	store   repository.ClaimStore
	slaDays int
	now     func() time.Time
}

// NewAggregationService создаёт сервис агрегации.
func NewAggregationService(store repository.ClaimStore, slaDays int) *AggregationService {
	return &AggregationService{
		store:   store,
		slaDays: slaDays,
		now:     time.Now,
	}
}

// optional превращает NOT_FOUND хранилища в отсутствие значения.
func optional[T any](v *T, err error) (*T, error) {
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	return v, err
}

// ClaimDetail возвращает синистр со всеми связанными записями.
// Связи читаются параллельно; пустые связи отдаются как null или [].
func (s *AggregationService) ClaimDetail(ctx context.Context, id uuid.UUID) (*models.ClaimDetail, error) {
	claim, err := s.store.GetClaim(ctx, id)
	if err != nil {
		return nil, mapStoreError(err, apperror.ErrClaimNotFound)
	}

	detail := &models.ClaimDetail{Claim: *claim}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if claim.EstimateID == nil {
			return nil
		}
		est, err := optional(s.store.GetEstimate(gctx, claim.ID))
		detail.Estimate = est
		return err
	})
	g.Go(func() error {
		if claim.ShopID == nil {
			return nil
		}
		shop, err := optional(s.store.GetShop(gctx, *claim.ShopID))
		detail.Shop = shop
		return err
	})
	g.Go(func() error {
		sch, err := optional(s.store.GetSchedule(gctx, claim.ID))
		detail.Schedule = sch
		return err
	})
	g.Go(func() error {
		tp, err := optional(s.store.GetThirdParty(gctx, claim.ID))
		detail.ThirdParty = tp
		return err
	})
	g.Go(func() error {
		files, err := s.store.ListFiles(gctx, claim.ID)
		detail.Files = files
		return err
	})
	g.Go(func() error {
		events, err := s.store.ListEvents(gctx, claim.ID)
		detail.Events = events
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, mapStoreError(err, nil)
	}

	if detail.Files == nil {
		detail.Files = []models.File{}
	}
	if detail.Events == nil {
		detail.Events = []models.EventLog{}
	}

	facts := claimFacts(claim, detail.Schedule)
	detail.TotalLossEligible = facts.TotalLossEligible()
	detail.AvailableActions = lifecycle.Available(facts)
	return detail, nil
}

// periodStart вычисляет начало периода дашборда.
func periodStart(period string, now time.Time) *time.Time {
	var from time.Time
	switch period {
	case "7d":
		from = now.Add(-7 * day)
	case "30d":
		from = now.Add(-30 * day)
	case "90d":
		from = now.Add(-90 * day)
	case "mes":
		from = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return nil
	}
	return &from
}

// DashboardFilter переводит параметры запроса в фильтр хранилища.
// Статус "todos" означает отсутствие фильтра; periodo задаёт data_inicio, если она не передана.
func (s *AggregationService) DashboardFilter(req dto.DashboardRequest) (models.ClaimFilter, error) {
	if err := req.Validate(); err != nil {
		return models.ClaimFilter{}, err
	}

	filter := models.ClaimFilter{Search: req.Search}
	if req.Status != "" && req.Status != "todos" {
		filter.Status = valueobject.ClaimStatus(req.Status)
	}
	if req.From != "" {
		from, err := dto.ParseDate(req.From)
		if err != nil {
			return filter, err
		}
		filter.From = &from
	} else {
		filter.From = periodStart(req.Period, s.now().UTC())
	}
	if req.To != "" {
		to, err := dto.ParseDate(req.To)
		if err != nil {
			return filter, err
		}
		to = endOfDayIfDate(req.To, to)
		filter.To = &to
	}
	return filter, nil
}

// Dashboard возвращает отфильтрованный список и показатели, посчитанные по нему же.
func (s *AggregationService) Dashboard(ctx context.Context, req dto.DashboardRequest) (*models.Dashboard, error) {
	filter, err := s.DashboardFilter(req)
	if err != nil {
		return nil, err
	}

	claims, err := s.store.ListClaims(ctx, filter)
	if err != nil {
		return nil, mapStoreError(err, nil)
	}
	if claims == nil {
		claims = []models.Claim{}
	}

	return &models.Dashboard{
		Indicators: s.indicators(claims),
		Claims:     claims,
	}, nil
}

func (s *AggregationService) indicators(claims []models.Claim) models.DashboardIndicators {
	now := s.now().UTC()
	ind := models.DashboardIndicators{
		AvgResolutionDays: avgResolutionDays(claims),
		WithinSLAPercent:  withinSLAPercent(claims, s.slaDays, now),
	}
	for _, c := range claims {
		if !c.Status.IsTerminal() {
			ind.Active++
		}
		created := c.CreatedAt.UTC()
		if created.Year() == now.Year() && created.Month() == now.Month() {
			ind.CreatedThisMonth++
		}
	}
	return ind
}

// endOfDayIfDate расширяет дату без времени до конца дня.
func endOfDayIfDate(raw string, t time.Time) time.Time {
	if len(raw) == len("2006-01-02") {
		return t.Add(day - time.Nanosecond)
	}
	return t
}
