package models

import (
	"github.com/ignatzorin/sinistros-backend/internal/domain/lifecycle"
	"github.com/ignatzorin/sinistros-backend/internal/domain/valueobject"
)

// ClaimDetail собирает синистр со всеми связанными записями.
type ClaimDetail struct {
	Claim             Claim              `json:"claim"`
	Estimate          *Estimate          `json:"estimativa"`
	Shop              *Shop              `json:"oficina"`
	Schedule          *Schedule          `json:"agenda"`
	ThirdParty        *ThirdParty        `json:"terceiro"`
	Files             []File             `json:"arquivos"`
	Events            []EventLog         `json:"eventos"`
	TotalLossEligible bool               `json:"elegivel_perda_total"`
	AvailableActions  []lifecycle.Action `json:"acoes_disponiveis"`
}

// DashboardIndicators сводные показатели по отфильтрованной выборке.
type DashboardIndicators struct {
	AvgResolutionDays float64 `json:"tempo_medio_dias"`
	WithinSLAPercent  float64 `json:"dentro_prazo_percent"`
	Active            int     `json:"ativos"`
	CreatedThisMonth  int     `json:"total_mes"`
}

type Dashboard struct {
	Indicators DashboardIndicators `json:"indicadores"`
	Claims     []Claim             `json:"sinistros"`
}

// PortalView то, что видит третье лицо по своей ссылке.
type PortalView struct {
	ThirdParty ThirdParty      `json:"terceiro"`
	ClaimInfo  PortalClaimInfo `json:"claim_info"`
}

type PortalClaimInfo struct {
	Plate      string                  `json:"placa"`
	EventDate  string                  `json:"data_evento"`
	EventCity  string                  `json:"local_evento_cidade"`
	EventState string                  `json:"local_evento_uf"`
	Type       valueobject.ClaimType   `json:"tipo_sinistro"`
	Status     valueobject.ClaimStatus `json:"status"`
}

type ReportKPIs struct {
	AvgResolutionDays float64                         `json:"tempo_medio_dias"`
	WithinSLAPercent  float64                         `json:"dentro_prazo_percent"`
	TotalByStatus     map[valueobject.ClaimStatus]int `json:"total_por_status"`
}

// ReportAggregate строка агрегата по штату.
type ReportAggregate struct {
	State         string                          `json:"uf"`
	Total         int                             `json:"total"`
	TotalByStatus map[valueobject.ClaimStatus]int `json:"total_por_status"`
}

type MonthlyReport struct {
	From       string            `json:"data_inicio"`
	To         string            `json:"data_fim"`
	KPIs       ReportKPIs        `json:"kpis"`
	Aggregates []ReportAggregate `json:"agregados"`
}
