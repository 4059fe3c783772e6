package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/sinistros-backend/internal/domain/valueobject"
	"github.com/ignatzorin/sinistros-backend/internal/models"
)

// MemoryStore реализация Store в памяти процесса.
// Данные живут до остановки процесса; методы возвращают копии.
type MemoryStore struct {
	mu sync.RWMutex

	claims       map[uuid.UUID]models.Claim
	estimates    map[uuid.UUID]models.Estimate
	shops        []models.Shop
	schedules    []models.Schedule
	thirdParties []models.ThirdParty
	files        []models.File
	events       []models.EventLog

	sinistros  map[uuid.UUID]models.Sinistro
	documentos []models.Documento
	pendencias []models.Pendencia
	andamentos []models.Andamento
}

// NewMemoryStore создаёт пустое хранилище.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		claims:    make(map[uuid.UUID]models.Claim),
		estimates: make(map[uuid.UUID]models.Estimate),
		sinistros: make(map[uuid.UUID]models.Sinistro),
	}
}

func (s *MemoryStore) Backend() string { return BackendMemory }

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) GetClaim(_ context.Context, id uuid.UUID) (*models.Claim, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	claim, ok := s.claims[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &claim, nil
}

// ListClaims применяет те же правила фильтрации, что и PostgresStore.
func (s *MemoryStore) ListClaims(_ context.Context, filter models.ClaimFilter) ([]models.Claim, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	result := make([]models.Claim, 0, len(s.claims))
	for _, c := range s.claims {
		if filter.From != nil && c.CreatedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && c.CreatedAt.After(*filter.To) {
			continue
		}
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(c.Plate), search) &&
			!strings.Contains(strings.ToLower(c.InsuredTaxID), search) {
			continue
		}
		result = append(result, c)
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID.String() < result[j].ID.String()
	})
	return result, nil
}

func (s *MemoryStore) CreateClaim(_ context.Context, claim *models.Claim) error {
	if !claim.Status.IsValid() {
		return ErrConstraintViolation
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.claims[claim.ID] = *claim
	return nil
}

func (s *MemoryStore) UpdateClaimStatus(_ context.Context, id uuid.UUID, change StatusChange, closedAt *time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	claim, err := s.casLocked(id, change)
	if err != nil {
		return err
	}
	if closedAt != nil {
		at := *closedAt
		claim.ClosedAt = &at
	}
	s.claims[id] = claim
	return nil
}

// casLocked проверяет предыдущий статус и возвращает синистр с новым статусом.
func (s *MemoryStore) casLocked(id uuid.UUID, change StatusChange) (models.Claim, error) {
	if !change.To.IsValid() {
		return models.Claim{}, ErrConstraintViolation
	}
	claim, ok := s.claims[id]
	if !ok {
		return models.Claim{}, ErrNotFound
	}
	if claim.Status != change.From {
		return models.Claim{}, ErrStatusConflict
	}
	claim.Status = change.To
	claim.UpdatedAt = time.Now().UTC()
	return claim, nil
}

func (s *MemoryStore) GetEstimate(_ context.Context, claimID uuid.UUID) (*models.Estimate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	claim, ok := s.claims[claimID]
	if !ok || claim.EstimateID == nil {
		return nil, ErrNotFound
	}
	est, ok := s.estimates[*claim.EstimateID]
	if !ok {
		return nil, ErrNotFound
	}
	return &est, nil
}

func (s *MemoryStore) CreateEstimate(_ context.Context, est *models.Estimate, change StatusChange) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.claims[est.ClaimID]; !ok {
		return ErrConstraintViolation
	}
	claim, err := s.casLocked(est.ClaimID, change)
	if err != nil {
		return err
	}
	id := est.ID
	prob := est.TotalLossProbability
	claim.EstimateID = &id
	claim.TotalLossProbability = &prob

	s.estimates[est.ID] = *est
	s.claims[claim.ID] = claim
	return nil
}

func (s *MemoryStore) ListShops(context.Context) ([]models.Shop, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	shops := make([]models.Shop, len(s.shops))
	copy(shops, s.shops)
	return shops, nil
}

func (s *MemoryStore) GetShop(_ context.Context, id uuid.UUID) (*models.Shop, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, shop := range s.shops {
		if shop.ID == id {
			return &shop, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) hasShopLocked(id uuid.UUID) bool {
	for _, shop := range s.shops {
		if shop.ID == id {
			return true
		}
	}
	return false
}

func (s *MemoryStore) GetSchedule(_ context.Context, claimID uuid.UUID) (*models.Schedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var current *models.Schedule
	for i := range s.schedules {
		sch := s.schedules[i]
		if sch.ClaimID != claimID || sch.Status == valueobject.ScheduleStatusCancelled {
			continue
		}
		if current == nil || sch.CreatedAt.After(current.CreatedAt) {
			current = &sch
		}
	}
	if current == nil {
		return nil, ErrNotFound
	}
	return current, nil
}

func (s *MemoryStore) CreateSchedule(_ context.Context, sch *models.Schedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	claim, ok := s.claims[sch.ClaimID]
	if !ok || !s.hasShopLocked(sch.ShopID) {
		return ErrConstraintViolation
	}
	for i := range s.schedules {
		if s.schedules[i].ClaimID == sch.ClaimID && s.schedules[i].Status.IsActive() {
			s.schedules[i].Status = valueobject.ScheduleStatusCancelled
		}
	}
	s.schedules = append(s.schedules, *sch)

	shopID := sch.ShopID
	claim.ShopID = &shopID
	claim.UpdatedAt = time.Now().UTC()
	s.claims[claim.ID] = claim
	return nil
}

func (s *MemoryStore) UpdateScheduleStatus(_ context.Context, id uuid.UUID, status valueobject.ScheduleStatus, at *time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.schedules {
		if s.schedules[i].ID != id {
			continue
		}
		s.schedules[i].Status = status
		if at != nil {
			t := *at
			s.schedules[i].ScheduledAt = &t
		}
		return nil
	}
	return ErrNotFound
}

func (s *MemoryStore) GetThirdParty(_ context.Context, claimID uuid.UUID) (*models.ThirdParty, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var current *models.ThirdParty
	for i := range s.thirdParties {
		tp := s.thirdParties[i]
		if tp.ClaimID != claimID {
			continue
		}
		if current == nil || !tp.CreatedAt.Before(current.CreatedAt) {
			current = &tp
		}
	}
	if current == nil {
		return nil, ErrNotFound
	}
	return current, nil
}

func (s *MemoryStore) GetThirdPartyByToken(_ context.Context, token string) (*models.ThirdParty, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, tp := range s.thirdParties {
		if tp.Token == token {
			return &tp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) CreateThirdParty(_ context.Context, tp *models.ThirdParty) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	claim, ok := s.claims[tp.ClaimID]
	if !ok {
		return ErrConstraintViolation
	}
	s.thirdParties = append(s.thirdParties, *tp)

	token := tp.Token
	claim.ThirdPartyToken = &token
	claim.UpdatedAt = time.Now().UTC()
	s.claims[claim.ID] = claim
	return nil
}

func (s *MemoryStore) UpdateThirdParty(_ context.Context, tp *models.ThirdParty) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.thirdParties {
		if s.thirdParties[i].ID == tp.ID {
			s.thirdParties[i] = *tp
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) ListFiles(_ context.Context, claimID uuid.UUID) ([]models.File, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	files := make([]models.File, 0)
	for _, f := range s.files {
		if f.ClaimID == claimID {
			files = append(files, f)
		}
	}
	sort.SliceStable(files, func(i, j int) bool {
		return files[i].CreatedAt.Before(files[j].CreatedAt)
	})
	return files, nil
}

func (s *MemoryStore) CreateFile(_ context.Context, f *models.File) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.claims[f.ClaimID]; !ok {
		return ErrConstraintViolation
	}
	s.files = append(s.files, *f)
	return nil
}

func (s *MemoryStore) ListEvents(_ context.Context, claimID uuid.UUID) ([]models.EventLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := make([]models.EventLog, 0)
	for _, e := range s.events {
		if e.ClaimID != nil && *e.ClaimID == claimID {
			events = append(events, e)
		}
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].CreatedAt.After(events[j].CreatedAt)
	})
	return events, nil
}

func (s *MemoryStore) AppendEvent(_ context.Context, e *models.EventLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.ClaimID != nil {
		if _, ok := s.claims[*e.ClaimID]; !ok {
			return ErrConstraintViolation
		}
	}
	s.events = append(s.events, *e)
	return nil
}
