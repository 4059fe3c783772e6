// Package dispatcher вызывает именованные действия через цепочку стадий:
// внешний сервис автоматизации, локальные сервисы, демонстрационные ответы.
package dispatcher

import (
	"bytes"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/ignatzorin/sinistros-backend/internal/dto"
	"github.com/ignatzorin/sinistros-backend/internal/models"
	"github.com/ignatzorin/sinistros-backend/internal/pkg/apperror"
)

// Action логическое имя действия.
type Action string

const (
	ActionCreateClaim    Action = "sinistros_criar"
	ActionUploadFiles    Action = "arquivos_upload"
	ActionEstimate       Action = "estimativa_gerar"
	ActionShopRouting    Action = "oficinas_rotear_agendar"
	ActionUpdateStatus   Action = "sinistro_atualizar_status"
	ActionClose          Action = "sinistro_concluir"
	ActionThirdParty     Action = "terceiros"
	ActionMonthlyReport  Action = "relatorio_gerar_mensal"
	ActionListClaims     Action = "sinistros_listar"
	ActionLegacyCreate   Action = "sinistro_legado_criar"
	ActionDocumentUpload Action = "documento_upload"
	ActionSendNotice     Action = "sinistro_enviar_aviso"
	ActionPendencia      Action = "pendencia_criar"
)

// Payload типизированное тело действия.
type Payload interface {
	Validate() error
}

type actionSpec struct {
	envKey  string
	payload func() Payload
	result  func() any
}

var catalog = map[Action]actionSpec{
	ActionCreateClaim: {
		envKey:  "WH_SINISTROS_CRIAR",
		payload: func() Payload { return &dto.CreateClaimRequest{} },
		result:  func() any { return &dto.CreateClaimResponse{} },
	},
	ActionUploadFiles: {
		envKey:  "WH_ARQUIVOS_UPLOAD",
		payload: func() Payload { return &dto.UploadFilesRequest{} },
		result:  func() any { return &dto.UploadFilesResponse{} },
	},
	ActionEstimate: {
		envKey:  "WH_ESTIMATIVA_GERAR",
		payload: func() Payload { return &dto.GenerateEstimateRequest{} },
		result:  func() any { return &dto.EstimateResponse{} },
	},
	ActionShopRouting: {
		envKey:  "WH_OFICINAS_ROTEAR_AGENDAR",
		payload: func() Payload { return &dto.ShopRoutingRequest{} },
		result:  func() any { return &dto.ShopRoutingResponse{} },
	},
	ActionUpdateStatus: {
		envKey:  "WH_SINISTRO_UPDATE_STATUS",
		payload: func() Payload { return &dto.UpdateStatusRequest{} },
		result:  func() any { return &dto.StatusResponse{} },
	},
	ActionClose: {
		envKey:  "WH_SINISTRO_CLOSE",
		payload: func() Payload { return &dto.CloseRequest{} },
		result:  func() any { return &dto.StatusResponse{} },
	},
	ActionThirdParty: {
		envKey:  "WH_TERCEIROS",
		payload: func() Payload { return &dto.ThirdPartyRequest{} },
		result:  func() any { return &dto.ThirdPartyResponse{} },
	},
	ActionMonthlyReport: {
		envKey:  "WH_RELATORIO_GERAR_MENSAL",
		payload: func() Payload { return &dto.MonthlyReportRequest{} },
		result:  func() any { return &models.MonthlyReport{} },
	},
	ActionListClaims: {
		envKey:  "WH_SINISTRO_LIST",
		payload: func() Payload { return &dto.DashboardRequest{} },
		result:  func() any { return &models.Dashboard{} },
	},
	ActionLegacyCreate: {
		envKey:  "WH_SINISTRO_CREATE",
		payload: func() Payload { return &dto.CreateSinistroRequest{} },
		result:  func() any { return &dto.SinistroCreatedResponse{} },
	},
	ActionDocumentUpload: {
		envKey:  "WH_DOC_UPLOAD",
		payload: func() Payload { return &dto.CreateDocumentoRequest{} },
		result:  func() any { return &models.Documento{} },
	},
	ActionSendNotice: {
		envKey:  "WH_SINISTRO_ENVIAR_AVISO",
		payload: func() Payload { return &dto.SendNoticeRequest{} },
		result:  func() any { return &dto.NoticeResponse{} },
	},
	ActionPendencia: {
		envKey:  "WH_PENDENCIA_CREATE",
		payload: func() Payload { return &dto.CreatePendenciaRequest{} },
		result:  func() any { return &models.Pendencia{} },
	},
}

// ParseAction проверяет, что имя входит в закрытый набор действий.
func ParseAction(name string) (Action, error) {
	a := Action(name)
	if !a.IsValid() {
		return "", apperror.New(apperror.ErrCodeUnimplemented, "ação não implementada: "+name)
	}
	return a, nil
}

func (a Action) IsValid() bool {
	_, ok := catalog[a]
	return ok
}

// EnvKey имя переменной с путём действия во внешнем сервисе.
func (a Action) EnvKey() string {
	return catalog[a].envKey
}

// NewResult возвращает пустой результат действия для декодирования ответа.
func (a Action) NewResult() any {
	return catalog[a].result()
}

// CompleteResult сообщает, что результат содержит обязательные поля своего типа.
func (a Action) CompleteResult(result any) bool {
	switch r := result.(type) {
	case *dto.CreateClaimResponse:
		return r.ClaimID != uuid.Nil && r.Status.IsValid()
	case *dto.StatusResponse:
		return r.ClaimID != uuid.Nil && r.Status.IsValid()
	case *dto.UploadFilesResponse:
		return r.Files != nil
	case *dto.EstimateResponse:
		return r.Estimate != nil
	case *dto.ShopRoutingResponse:
		return r.Shops != nil || r.Schedule != nil
	case *dto.ThirdPartyResponse:
		return r.Token != "" || r.ThirdParty != nil
	case *dto.SinistroCreatedResponse:
		return r.SinistroID != uuid.Nil
	case *dto.NoticeResponse:
		return r.Protocol != ""
	case *models.MonthlyReport:
		return r.From != "" && r.To != ""
	case *models.Dashboard:
		return r.Claims != nil
	case *models.Documento:
		return r.ID != uuid.Nil
	case *models.Pendencia:
		return r.ID != uuid.Nil
	}
	return false
}

// DecodePayload разбирает JSON в типизированное тело действия.
// Неизвестные поля отклоняются.
func (a Action) DecodePayload(raw []byte) (Payload, error) {
	spec, ok := catalog[a]
	if !ok {
		return nil, apperror.New(apperror.ErrCodeUnimplemented, "ação não implementada: "+string(a))
	}
	p := spec.payload()
	if len(bytes.TrimSpace(raw)) == 0 {
		return p, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(p); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, "payload inválido para "+string(a))
	}
	return p, nil
}

// claimRef возвращает синистр, к которому относится тело, если он известен.
func claimRef(p Payload) *uuid.UUID {
	var id uuid.UUID
	switch v := p.(type) {
	case *dto.UploadFilesRequest:
		id = v.ClaimID
	case *dto.GenerateEstimateRequest:
		id = v.ClaimID
	case *dto.ShopRoutingRequest:
		id = v.ClaimID
	case *dto.UpdateStatusRequest:
		id = v.ClaimID
	case *dto.CloseRequest:
		id = v.ClaimID
	case *dto.ThirdPartyRequest:
		id = v.ClaimID
	}
	if id == uuid.Nil {
		return nil
	}
	return &id
}
