package repository

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/sinistros-backend/internal/domain/valueobject"
	"github.com/ignatzorin/sinistros-backend/internal/models"
)

func (s *MemoryStore) ListSinistros(_ context.Context, filter models.SinistroFilter) ([]models.Sinistro, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	search := strings.ToLower(filter.Search)
	insurer := strings.ToLower(filter.Insurer)
	matched := make([]models.Sinistro, 0)
	for _, sin := range s.sinistros {
		if filter.From != nil && sin.NoticeDate.Before(*filter.From) {
			continue
		}
		if filter.To != nil && sin.NoticeDate.After(*filter.To) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(sin.InsuredName), search) &&
			!strings.Contains(strings.ToLower(sin.Plate), search) {
			continue
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, sin.Status) {
			continue
		}
		if insurer != "" && !strings.Contains(strings.ToLower(sin.InsurerName), insurer) {
			continue
		}
		matched = append(matched, sin)
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].NoticeDate.Equal(matched[j].NoticeDate) {
			return matched[i].NoticeDate.After(matched[j].NoticeDate)
		}
		return matched[i].ID.String() < matched[j].ID.String()
	})

	total := len(matched)
	start := min(filter.Offset, total)
	end := total
	if filter.Limit > 0 {
		end = min(start+filter.Limit, total)
	}
	return matched[start:end], total, nil
}

func containsStatus(list []valueobject.SinistroStatus, status valueobject.SinistroStatus) bool {
	for _, st := range list {
		if st == status {
			return true
		}
	}
	return false
}

func (s *MemoryStore) GetSinistro(_ context.Context, id uuid.UUID) (*models.Sinistro, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sin, ok := s.sinistros[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &sin, nil
}

func (s *MemoryStore) CreateSinistro(_ context.Context, sin *models.Sinistro) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sinistros[sin.ID] = *sin
	return nil
}

func (s *MemoryStore) UpdateSinistroStatus(_ context.Context, id uuid.UUID, status valueobject.SinistroStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sin, ok := s.sinistros[id]
	if !ok {
		return ErrNotFound
	}
	sin.Status = status
	sin.UpdatedAt = time.Now().UTC()
	s.sinistros[id] = sin
	return nil
}

func (s *MemoryStore) UpdateSinistroProtocol(_ context.Context, id uuid.UUID, protocol string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sin, ok := s.sinistros[id]
	if !ok {
		return ErrNotFound
	}
	sin.Protocol = &protocol
	sin.Status = valueobject.SinistroStatusSent
	sin.UpdatedAt = time.Now().UTC()
	s.sinistros[id] = sin
	return nil
}

func (s *MemoryStore) ListDocumentos(_ context.Context, sinistroID uuid.UUID) ([]models.Documento, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]models.Documento, 0)
	for i := len(s.documentos) - 1; i >= 0; i-- {
		if s.documentos[i].SinistroID == sinistroID {
			docs = append(docs, s.documentos[i])
		}
	}
	return docs, nil
}

func (s *MemoryStore) CreateDocumento(_ context.Context, d *models.Documento) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sinistros[d.SinistroID]; !ok {
		return ErrConstraintViolation
	}
	s.documentos = append(s.documentos, *d)
	return nil
}

func (s *MemoryStore) ListPendencias(_ context.Context, sinistroID uuid.UUID) ([]models.Pendencia, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]models.Pendencia, 0)
	for i := len(s.pendencias) - 1; i >= 0; i-- {
		if s.pendencias[i].SinistroID == sinistroID {
			items = append(items, s.pendencias[i])
		}
	}
	return items, nil
}

func (s *MemoryStore) CreatePendencia(_ context.Context, p *models.Pendencia) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sinistros[p.SinistroID]; !ok {
		return ErrConstraintViolation
	}
	s.pendencias = append(s.pendencias, *p)
	return nil
}

func (s *MemoryStore) ListAndamentos(_ context.Context, sinistroID uuid.UUID) ([]models.Andamento, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]models.Andamento, 0)
	for i := len(s.andamentos) - 1; i >= 0; i-- {
		if s.andamentos[i].SinistroID == sinistroID {
			items = append(items, s.andamentos[i])
		}
	}
	return items, nil
}

func (s *MemoryStore) CreateAndamento(_ context.Context, a *models.Andamento) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sinistros[a.SinistroID]; !ok {
		return ErrConstraintViolation
	}
	s.andamentos = append(s.andamentos, *a)
	return nil
}
