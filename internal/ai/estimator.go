package ai

import (
	"context"
	"fmt"
	"math"

	"github.com/ignatzorin/sinistros-backend/internal/domain/valueobject"
	"github.com/ignatzorin/sinistros-backend/internal/logger"
	"github.com/ignatzorin/sinistros-backend/internal/models"
)

const estimatePrompt = `Você é um perito de sinistros automotivos. Com base nos dados do sinistro,
estime o custo de reparo em reais, as horas de mão de obra e a probabilidade de perda total (0 a 1).
Responda apenas com JSON no formato:
{"valor_estimado": 0, "horas_mo": 0, "prob_pt": 0, "pecas_afetadas": ["..."], "observacoes": "..."}`

type estimateResponse struct {
	EstimatedValue       float64  `json:"valor_estimado"`
	LaborHours           float64  `json:"horas_mo"`
	TotalLossProbability float64  `json:"prob_pt"`
	AffectedParts        []string `json:"pecas_afetadas"`
	Notes                string   `json:"observacoes"`
}

// Estimate запрашивает у модели оценку ущерба.
func (c *Client) Estimate(ctx context.Context, claim *models.Claim, files []models.File) (*models.EstimateDraft, error) {
	messages := []map[string]string{
		{"role": "system", "content": estimatePrompt},
		{"role": "user", "content": formatClaimContext(claim) + "\n" + formatFilesContext(files)},
	}

	text, err := c.chatCompletion(ctx, messages, 512, 0.2)
	if err != nil {
		return nil, err
	}

	var resp estimateResponse
	if err := extractJSON(text, &resp); err != nil {
		return nil, err
	}
	if resp.EstimatedValue < 0 || resp.LaborHours < 0 || math.IsNaN(resp.TotalLossProbability) {
		return nil, fmt.Errorf("ai: некорректная оценка %+v", resp)
	}

	return &models.EstimateDraft{
		EstimatedValue:       math.Round(resp.EstimatedValue*100) / 100,
		LaborHours:           resp.LaborHours,
		TotalLossProbability: clamp(resp.TotalLossProbability, 0, 1),
		Breakdown: models.EstimateBreakdown{
			AffectedParts: resp.AffectedParts,
			Notes:         resp.Notes,
		},
	}, nil
}

type heuristicProfile struct {
	value float64
	hours float64
	prob  float64
	parts []string
}

var heuristicProfiles = map[valueobject.ClaimType]heuristicProfile{
	valueobject.ClaimTypeCollision: {value: 12000, hours: 24, prob: 0.25, parts: []string{"para-choque", "farol", "capô"}},
	valueobject.ClaimTypeTheft:     {value: 45000, hours: 0, prob: 0.9, parts: []string{"veículo"}},
	valueobject.ClaimTypeFire:      {value: 38000, hours: 42, prob: 0.85, parts: []string{"motor", "chicote elétrico", "interior"}},
	valueobject.ClaimTypeVandalism: {value: 3500, hours: 8, prob: 0.05, parts: []string{"pintura", "vidros"}},
	valueobject.ClaimTypeNatural:   {value: 18000, hours: 30, prob: 0.45, parts: []string{"lataria", "interior"}},
	valueobject.ClaimTypeOther:     {value: 5200, hours: 12, prob: 0.1, parts: []string{"diversos"}},
}

// HeuristicEstimator детерминированная оценка по типу синистра без внешних вызовов.
type HeuristicEstimator struct{}

// Estimate возвращает оценку по профилю типа; каждая фотография повреждений
// увеличивает стоимость на 5%, но не более чем на 50%.
func (HeuristicEstimator) Estimate(_ context.Context, claim *models.Claim, files []models.File) (*models.EstimateDraft, error) {
	profile, ok := heuristicProfiles[claim.Type]
	if !ok {
		profile = heuristicProfiles[valueobject.ClaimTypeOther]
	}

	photos := 0
	for _, f := range files {
		if f.Kind == valueobject.FileKindDamagePhoto {
			photos++
		}
	}
	factor := 1 + math.Min(float64(photos)*0.05, 0.5)

	return &models.EstimateDraft{
		EstimatedValue:       math.Round(profile.value*factor*100) / 100,
		LaborHours:           profile.hours,
		TotalLossProbability: profile.prob,
		Breakdown: models.EstimateBreakdown{
			AffectedParts: append([]string(nil), profile.parts...),
			Notes:         "estimativa heurística por tipo de sinistro",
		},
	}, nil
}

// Estimator общий контракт оценщиков пакета.
type Estimator interface {
	Estimate(ctx context.Context, claim *models.Claim, files []models.File) (*models.EstimateDraft, error)
}

// FallbackEstimator пробует основной оценщик и при ошибке переходит на запасной.
type FallbackEstimator struct {
	Primary  Estimator
	Fallback Estimator
}

func (f FallbackEstimator) Estimate(ctx context.Context, claim *models.Claim, files []models.File) (*models.EstimateDraft, error) {
	draft, err := f.Primary.Estimate(ctx, claim, files)
	if err == nil {
		return draft, nil
	}
	logger.WithComponent("ai").WithError(err).WithField("claim_id", claim.ID).Warn("оценка модели недоступна, используется эвристика")
	return f.Fallback.Estimate(ctx, claim, files)
}
