package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/sinistros-backend/internal/domain/lifecycle"
	"github.com/ignatzorin/sinistros-backend/internal/domain/valueobject"
	"github.com/ignatzorin/sinistros-backend/internal/dto"
	"github.com/ignatzorin/sinistros-backend/internal/models"
)

var errNoMock = errors.New("nenhuma resposta de demonstração para a ação")

const mockSuffix = " (modo demonstração)"

// MockStage синтезирует ответы той же формы после искусственной задержки.
// Состояние не меняется.
type MockStage struct {
	delay time.Duration
	now   func() time.Time
}

func NewMockStage(delay time.Duration) *MockStage {
	return &MockStage{delay: delay, now: time.Now}
}

func (s *MockStage) Name() string { return StageMock }

func (s *MockStage) Resolve(ctx context.Context, call Call) Resolution {
	result, err := s.synthesize(call.Payload)
	if err != nil {
		return Next(err)
	}

	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return Failed(ctx.Err())
		case <-timer.C:
		}
	}
	return Served(result)
}

func (s *MockStage) synthesize(payload Payload) (any, error) {
	now := s.now().UTC()

	switch p := payload.(type) {
	case *dto.CreateClaimRequest:
		return &dto.CreateClaimResponse{
			ClaimID: uuid.New(),
			Status:  valueobject.ClaimStatusOpen,
			Message: "Sinistro criado com sucesso" + mockSuffix,
		}, nil

	case *dto.UploadFilesRequest:
		files := make([]models.File, 0, len(p.Files))
		for _, f := range p.Files {
			meta, err := models.NewJSONB(models.FileMetadata{OriginalName: f.OriginalName, MimeType: f.MimeType, Size: f.Size})
			if err != nil {
				return nil, err
			}
			files = append(files, models.File{
				ID:        uuid.New(),
				ClaimID:   p.ClaimID,
				CreatedAt: now,
				Source:    valueobject.FileSource(p.Source),
				Kind:      valueobject.FileKind(f.Kind),
				URL:       f.URL,
				Metadata:  meta,
			})
		}
		return &dto.UploadFilesResponse{Files: files, Message: "Arquivos registrados" + mockSuffix}, nil

	case *dto.GenerateEstimateRequest:
		breakdown, err := models.NewJSONB(models.EstimateBreakdown{
			AffectedParts: []string{"Para-choque dianteiro", "Farol direito"},
			Notes:         "Estimativa de demonstração",
		})
		if err != nil {
			return nil, err
		}
		prob := 0.25
		facts := lifecycle.Facts{Status: valueobject.ClaimStatusEstimated, HasEstimate: true, TotalLossProbability: &prob}
		return &dto.EstimateResponse{
			Estimate: &models.Estimate{
				ID:                   uuid.New(),
				ClaimID:              p.ClaimID,
				CreatedAt:            now,
				EstimatedValue:       12000,
				LaborHours:           24,
				TotalLossProbability: prob,
				Breakdown:            breakdown,
			},
			TotalLossEligible: facts.TotalLossEligible(),
			AvailableActions:  lifecycle.Available(facts),
			Message:           "Estimativa gerada" + mockSuffix,
		}, nil

	case *dto.ShopRoutingRequest:
		return s.shopRouting(p, now), nil

	case *dto.UpdateStatusRequest:
		status := valueobject.ClaimStatusDenied
		switch p.Action {
		case dto.StatusActionAuthorizeRepair:
			status = valueobject.ClaimStatusRepairAuthorized
		case dto.StatusActionTotalLoss:
			status = valueobject.ClaimStatusTotalLoss
		}
		return &dto.StatusResponse{ClaimID: p.ClaimID, Status: status, Message: "Status atualizado" + mockSuffix}, nil

	case *dto.CloseRequest:
		return &dto.StatusResponse{
			ClaimID: p.ClaimID,
			Status:  valueobject.ClaimStatusCompleted,
			Message: "Sinistro concluído" + mockSuffix,
		}, nil

	case *dto.ThirdPartyRequest:
		if p.Action == dto.ThirdPartyActionLink {
			token := "demo-" + uuid.NewString()
			return &dto.ThirdPartyResponse{
				Token:   token,
				Link:    "/terceiro/" + token,
				Message: "Link gerado" + mockSuffix,
			}, nil
		}
		return &dto.ThirdPartyResponse{Message: "Dados recebidos" + mockSuffix}, nil

	case *dto.SendNoticeRequest:
		return &dto.NoticeResponse{
			Protocol: fmt.Sprintf("PROT-%d", now.UnixMilli()),
			Message:  "Aviso enviado" + mockSuffix,
		}, nil

	case *dto.CreateSinistroRequest:
		return &dto.SinistroCreatedResponse{SinistroID: uuid.New(), Message: "Sinistro criado com sucesso" + mockSuffix}, nil
	}
	return nil, errNoMock
}

func (s *MockStage) shopRouting(p *dto.ShopRoutingRequest, now time.Time) *dto.ShopRoutingResponse {
	if p.Action == dto.ShopActionMatch {
		shop := models.Shop{
			ID:           uuid.New(),
			Name:         "Oficina Demonstração",
			City:         "São Paulo",
			State:        "SP",
			SLADays:      5,
			QualityScore: 90,
		}
		if p.State != "" {
			shop.State = p.State
		}
		return &dto.ShopRoutingResponse{
			Shops:   []models.RankedShop{{Shop: shop, Score: 74}},
			Message: "Oficinas encontradas" + mockSuffix,
		}
	}

	schedule := &models.Schedule{
		ID:        uuid.New(),
		ClaimID:   p.ClaimID,
		Status:    valueobject.ScheduleStatusPending,
		CreatedAt: now,
	}
	if p.ShopID != nil {
		schedule.ShopID = *p.ShopID
	}
	if p.Action == dto.ShopActionSchedule && p.ScheduledAt != nil {
		if at, err := dto.ParseDate(*p.ScheduledAt); err == nil {
			schedule.ScheduledAt = &at
			schedule.Status = valueobject.ScheduleStatusConfirmed
		}
	}
	return &dto.ShopRoutingResponse{Schedule: schedule, Message: "Agenda registrada" + mockSuffix}
}
