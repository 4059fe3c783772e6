// Package lifecycle содержит единую таблицу переходов статусов синистра.
// Таблицу используют и серверная проверка действий, и вычисление
// доступных действий для интерфейса.
package lifecycle

import (
	"github.com/ignatzorin/sinistros-backend/internal/domain/valueobject"
	"github.com/ignatzorin/sinistros-backend/internal/pkg/apperror"
)

// Action действие над синистром.
type Action string

const (
	ActionGenerateEstimate Action = "gerar_estimativa"
	ActionAssignShop       Action = "atribuir_oficina"
	ActionAuthorizeRepair  Action = "autorizar_reparo"
	ActionMarkTotalLoss    Action = "marcar_perda_total"
	ActionConfirmSchedule  Action = "confirmar_agenda"
	ActionClose            Action = "concluir"
	ActionDeny             Action = "negar"

	ActionThirdPartyLink   Action = "gerar_link_terceiro"
	ActionUploadFiles      Action = "enviar_arquivos"
	ActionThirdPartySubmit Action = "enviar_dados_terceiro"
)

// TotalLossThreshold порог вероятности, начиная с которого интерфейс
// предлагает пометить синистр как полную гибель.
const TotalLossThreshold = 0.7

// orderedActions фиксирует порядок в списке доступных действий.
var orderedActions = []Action{
	ActionGenerateEstimate,
	ActionAssignShop,
	ActionAuthorizeRepair,
	ActionMarkTotalLoss,
	ActionConfirmSchedule,
	ActionClose,
	ActionDeny,
	ActionThirdPartyLink,
	ActionUploadFiles,
	ActionThirdPartySubmit,
}

var transitions = map[valueobject.ClaimStatus]map[Action]valueobject.ClaimStatus{
	valueobject.ClaimStatusOpen: {
		ActionGenerateEstimate: valueobject.ClaimStatusEstimated,
	},
	valueobject.ClaimStatusEstimated: {
		ActionAssignShop:      valueobject.ClaimStatusEstimated,
		ActionAuthorizeRepair: valueobject.ClaimStatusRepairAuthorized,
		ActionMarkTotalLoss:   valueobject.ClaimStatusTotalLoss,
	},
	valueobject.ClaimStatusRepairAuthorized: {
		ActionConfirmSchedule: valueobject.ClaimStatusRepairAuthorized,
		ActionClose:           valueobject.ClaimStatusCompleted,
	},
	valueobject.ClaimStatusTotalLoss: {
		ActionClose: valueobject.ClaimStatusCompleted,
	},
}

// IsValid сообщает, входит ли действие в закрытый набор.
func (a Action) IsValid() bool {
	for _, known := range orderedActions {
		if a == known {
			return true
		}
	}
	return false
}

// IsSideChannel возвращает true для действий, не меняющих статус.
func (a Action) IsSideChannel() bool {
	switch a {
	case ActionThirdPartyLink, ActionUploadFiles, ActionThirdPartySubmit:
		return true
	}
	return false
}

// Facts снимок синистра, достаточный для проверки переходов.
type Facts struct {
	Status               valueobject.ClaimStatus
	HasEstimate          bool
	TotalLossProbability *float64
	HasShop              bool
	HasActiveSchedule    bool
}

// TotalLossEligible сообщает, превышает ли последняя оценка порог полной гибели.
func (f Facts) TotalLossEligible() bool {
	return f.HasEstimate && f.TotalLossProbability != nil && *f.TotalLossProbability > TotalLossThreshold
}

// Check проверяет действие и возвращает статус после его применения.
func Check(f Facts, action Action) (valueobject.ClaimStatus, error) {
	if !action.IsValid() {
		return f.Status, apperror.Validation("ação desconhecida: %s", action)
	}
	if !f.Status.IsValid() {
		return f.Status, apperror.Validation("status de sinistro inválido: %s", f.Status)
	}
	if f.Status.IsTerminal() {
		return f.Status, apperror.InvalidTransition("sinistro %s não aceita a ação %s", f.Status, action)
	}

	if action == ActionDeny || action.IsSideChannel() {
		next := f.Status
		if action == ActionDeny {
			next = valueobject.ClaimStatusDenied
		}
		return next, nil
	}

	next, ok := transitions[f.Status][action]
	if !ok {
		return f.Status, apperror.InvalidTransition("ação %s não é permitida no status %s", action, f.Status)
	}

	switch action {
	case ActionAuthorizeRepair, ActionMarkTotalLoss, ActionAssignShop:
		if !f.HasEstimate {
			return f.Status, apperror.InvalidTransition("ação %s exige estimativa", action)
		}
	case ActionConfirmSchedule:
		if !f.HasActiveSchedule && !f.HasShop {
			return f.Status, apperror.InvalidTransition("nenhuma oficina atribuída ao sinistro")
		}
	}

	return next, nil
}

// Available возвращает действия, которые интерфейс может предложить.
// Полная гибель предлагается только при вероятности выше порога.
func Available(f Facts) []Action {
	actions := make([]Action, 0, len(orderedActions))
	for _, action := range orderedActions {
		if action == ActionThirdPartySubmit {
			// отправляется только с портала третьего лица
			continue
		}
		if _, err := Check(f, action); err != nil {
			continue
		}
		if action == ActionMarkTotalLoss && !f.TotalLossEligible() {
			continue
		}
		actions = append(actions, action)
	}
	return actions
}

// Allows сообщает, может ли интерфейс предложить действие.
func Allows(f Facts, action Action) bool {
	for _, a := range Available(f) {
		if a == action {
			return true
		}
	}
	return false
}
