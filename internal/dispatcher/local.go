package dispatcher

import (
	"context"
	"errors"

	"github.com/ignatzorin/sinistros-backend/internal/domain/lifecycle"
	"github.com/ignatzorin/sinistros-backend/internal/dto"
	"github.com/ignatzorin/sinistros-backend/internal/models"
	"github.com/ignatzorin/sinistros-backend/internal/service"
)

var errNoLocalHandler = errors.New("nenhum serviço local para a ação")

// LocalStage выполняет действие локальными сервисами.
// Любая ошибка сервиса окончательна: демонстрационная стадия её не маскирует.
type LocalStage struct {
	claims  *service.ClaimService
	agg     *service.AggregationService
	reports *service.ReportService
	legacy  *service.LegacyService
}

func NewLocalStage(claims *service.ClaimService, agg *service.AggregationService, reports *service.ReportService, legacy *service.LegacyService) *LocalStage {
	return &LocalStage{
		claims:  claims,
		agg:     agg,
		reports: reports,
		legacy:  legacy,
	}
}

func (s *LocalStage) Name() string { return StageLocal }

func (s *LocalStage) Resolve(ctx context.Context, call Call) Resolution {
	result, err := s.handle(ctx, call.Payload)
	if errors.Is(err, errNoLocalHandler) {
		return Next(err)
	}
	if err != nil {
		return Failed(err)
	}
	return Served(result)
}

func (s *LocalStage) handle(ctx context.Context, payload Payload) (any, error) {
	switch p := payload.(type) {
	case *dto.CreateClaimRequest:
		claim, err := s.claims.CreateClaim(ctx, *p)
		if err != nil {
			return nil, err
		}
		return &dto.CreateClaimResponse{ClaimID: claim.ID, Status: claim.Status, Message: "Sinistro criado com sucesso"}, nil

	case *dto.UploadFilesRequest:
		files, err := s.claims.RegisterFiles(ctx, *p)
		if err != nil {
			return nil, err
		}
		return &dto.UploadFilesResponse{Files: files, Message: "Arquivos registrados com sucesso"}, nil

	case *dto.GenerateEstimateRequest:
		return s.estimate(ctx, p)

	case *dto.ShopRoutingRequest:
		return s.shopRouting(ctx, p)

	case *dto.UpdateStatusRequest:
		return s.updateStatus(ctx, p)

	case *dto.CloseRequest:
		claim, err := s.claims.Close(ctx, p.ClaimID)
		if err != nil {
			return nil, err
		}
		return &dto.StatusResponse{ClaimID: claim.ID, Status: claim.Status, Message: "Sinistro concluído com sucesso"}, nil

	case *dto.ThirdPartyRequest:
		return s.thirdParty(ctx, p)

	case *dto.MonthlyReportRequest:
		if s.reports == nil {
			return nil, errNoLocalHandler
		}
		return s.reports.MonthlyReport(ctx, *p)

	case *dto.DashboardRequest:
		if s.agg == nil {
			return nil, errNoLocalHandler
		}
		return s.agg.Dashboard(ctx, *p)

	case *dto.CreateSinistroRequest:
		if s.legacy == nil {
			return nil, errNoLocalHandler
		}
		sin, err := s.legacy.CreateSinistro(ctx, *p)
		if err != nil {
			return nil, err
		}
		return &dto.SinistroCreatedResponse{SinistroID: sin.ID, Message: "Sinistro criado com sucesso"}, nil

	case *dto.CreateDocumentoRequest:
		if s.legacy == nil {
			return nil, errNoLocalHandler
		}
		return s.legacy.CreateDocumento(ctx, *p)

	case *dto.SendNoticeRequest:
		if s.legacy == nil {
			return nil, errNoLocalHandler
		}
		return s.legacy.SendNotice(ctx, *p)

	case *dto.CreatePendenciaRequest:
		if s.legacy == nil {
			return nil, errNoLocalHandler
		}
		return s.legacy.CreatePendencia(ctx, *p)
	}
	return nil, errNoLocalHandler
}

func (s *LocalStage) estimate(ctx context.Context, p *dto.GenerateEstimateRequest) (*dto.EstimateResponse, error) {
	est, claim, err := s.claims.GenerateEstimate(ctx, p.ClaimID)
	if err != nil {
		return nil, err
	}
	facts, err := s.claims.Facts(ctx, claim)
	if err != nil {
		return nil, err
	}
	return &dto.EstimateResponse{
		Estimate:          est,
		TotalLossEligible: facts.TotalLossEligible(),
		AvailableActions:  lifecycle.Available(facts),
		Message:           "Estimativa gerada com sucesso",
	}, nil
}

func (s *LocalStage) shopRouting(ctx context.Context, p *dto.ShopRoutingRequest) (*dto.ShopRoutingResponse, error) {
	switch p.Action {
	case dto.ShopActionMatch:
		shops, err := s.claims.MatchShops(ctx, p.ClaimID, p.State)
		if err != nil {
			return nil, err
		}
		return &dto.ShopRoutingResponse{Shops: shops, Message: "Oficinas encontradas"}, nil
	case dto.ShopActionAssign:
		schedule, err := s.claims.AssignShop(ctx, p.ClaimID, *p.ShopID)
		if err != nil {
			return nil, err
		}
		return &dto.ShopRoutingResponse{Schedule: schedule, Message: "Oficina atribuída com sucesso"}, nil
	default:
		at, err := dto.ParseDate(*p.ScheduledAt)
		if err != nil {
			return nil, err
		}
		schedule, err := s.claims.ConfirmSchedule(ctx, p.ClaimID, p.ShopID, at)
		if err != nil {
			return nil, err
		}
		return &dto.ShopRoutingResponse{Schedule: schedule, Message: "Agendamento confirmado"}, nil
	}
}

func (s *LocalStage) updateStatus(ctx context.Context, p *dto.UpdateStatusRequest) (*dto.StatusResponse, error) {
	var (
		claim   *models.Claim
		message string
		err     error
	)
	switch p.Action {
	case dto.StatusActionAuthorizeRepair:
		claim, err = s.claims.AuthorizeRepair(ctx, p.ClaimID)
		message = "Reparo autorizado"
	case dto.StatusActionTotalLoss:
		claim, err = s.claims.MarkTotalLoss(ctx, p.ClaimID)
		message = "Perda total registrada"
	default:
		claim, err = s.claims.Deny(ctx, p.ClaimID, p.Reason)
		message = "Sinistro negado"
	}
	if err != nil {
		return nil, err
	}
	return &dto.StatusResponse{ClaimID: claim.ID, Status: claim.Status, Message: message}, nil
}

func (s *LocalStage) thirdParty(ctx context.Context, p *dto.ThirdPartyRequest) (*dto.ThirdPartyResponse, error) {
	if p.Action == dto.ThirdPartyActionLink {
		tp, link, err := s.claims.GenerateThirdPartyLink(ctx, p.ClaimID)
		if err != nil {
			return nil, err
		}
		return &dto.ThirdPartyResponse{Token: tp.Token, Link: link, ThirdParty: tp, Message: "Link gerado com sucesso"}, nil
	}
	tp, err := s.claims.SubmitThirdPartyData(ctx, p.Token, *p.Data)
	if err != nil {
		return nil, err
	}
	return &dto.ThirdPartyResponse{ThirdParty: tp, Message: "Dados recebidos com sucesso"}, nil
}
