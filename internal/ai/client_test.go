package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/sinistros-backend/internal/domain/valueobject"
	"github.com/ignatzorin/sinistros-backend/internal/models"
)

func createTestClaim(t valueobject.ClaimType) *models.Claim {
	return &models.Claim{
		ID:         uuid.New(),
		Plate:      "ABC1D23",
		Type:       t,
		EventDate:  time.Date(2025, 1, 15, 14, 30, 0, 0, time.UTC),
		EventCity:  "São Paulo",
		EventState: "SP",
		Status:     valueobject.ClaimStatusOpen,
	}
}

func completionServer(t *testing.T, status int, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "test-model", body["model"])

		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": content}},
			},
		})
	}))
}

func TestClientEstimate(t *testing.T) {
	srv := completionServer(t, http.StatusOK,
		"```json\n{\"valor_estimado\": 38000.456, \"horas_mo\": 42, \"prob_pt\": 0.85, \"pecas_afetadas\": [\"motor\"], \"observacoes\": \"danos extensos\"}\n```")
	defer srv.Close()

	client := NewClient(srv.URL, "test-model")
	draft, err := client.Estimate(context.Background(), createTestClaim(valueobject.ClaimTypeFire), nil)
	require.NoError(t, err)

	assert.Equal(t, 38000.46, draft.EstimatedValue)
	assert.Equal(t, 42.0, draft.LaborHours)
	assert.Equal(t, 0.85, draft.TotalLossProbability)
	assert.Equal(t, []string{"motor"}, draft.Breakdown.AffectedParts)
}

func TestClientEstimateClampsProbability(t *testing.T) {
	srv := completionServer(t, http.StatusOK, `{"valor_estimado": 1000, "horas_mo": 2, "prob_pt": 1.7}`)
	defer srv.Close()

	draft, err := NewClient(srv.URL, "test-model").Estimate(context.Background(), createTestClaim(valueobject.ClaimTypeOther), nil)
	require.NoError(t, err)
	assert.Equal(t, 1.0, draft.TotalLossProbability)
}

func TestClientEstimateErrors(t *testing.T) {
	t.Run("код ответа 500", func(t *testing.T) {
		srv := completionServer(t, http.StatusInternalServerError, "")
		defer srv.Close()

		_, err := NewClient(srv.URL, "test-model").Estimate(context.Background(), createTestClaim(valueobject.ClaimTypeFire), nil)
		assert.Error(t, err)
	})

	t.Run("ответ без JSON", func(t *testing.T) {
		srv := completionServer(t, http.StatusOK, "não sei")
		defer srv.Close()

		_, err := NewClient(srv.URL, "test-model").Estimate(context.Background(), createTestClaim(valueobject.ClaimTypeFire), nil)
		assert.Error(t, err)
	})

	t.Run("baseURL не задан", func(t *testing.T) {
		_, err := NewClient("", "test-model").Estimate(context.Background(), createTestClaim(valueobject.ClaimTypeFire), nil)
		assert.Error(t, err)
	})
}

func TestHeuristicEstimator(t *testing.T) {
	claim := createTestClaim(valueobject.ClaimTypeCollision)
	files := []models.File{
		{Kind: valueobject.FileKindDamagePhoto},
		{Kind: valueobject.FileKindDamagePhoto},
		{Kind: valueobject.FileKindPoliceReport},
	}

	first, err := HeuristicEstimator{}.Estimate(context.Background(), claim, files)
	require.NoError(t, err)
	second, err := HeuristicEstimator{}.Estimate(context.Background(), claim, files)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 13200.0, first.EstimatedValue)
	assert.Equal(t, 0.25, first.TotalLossProbability)

	theft, err := HeuristicEstimator{}.Estimate(context.Background(), createTestClaim(valueobject.ClaimTypeTheft), nil)
	require.NoError(t, err)
	assert.Greater(t, theft.TotalLossProbability, 0.7)
}

func TestFallbackEstimator(t *testing.T) {
	estimator := FallbackEstimator{
		Primary:  NewClient("", "test-model"),
		Fallback: HeuristicEstimator{},
	}

	draft, err := estimator.Estimate(context.Background(), createTestClaim(valueobject.ClaimTypeVandalism), nil)
	require.NoError(t, err)
	assert.Equal(t, 3500.0, draft.EstimatedValue)
}
