package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/sinistros-backend/internal/models"
)

func TestShopScore(t *testing.T) {
	assert.InDelta(t, 74.0, ShopScore(models.Shop{QualityScore: 90, SLADays: 5}), 1e-9)
	assert.InDelta(t, 60.0, ShopScore(models.Shop{QualityScore: 80, SLADays: 7}), 1e-9)
}

func TestRankShops(t *testing.T) {
	shops := []models.Shop{
		{ID: uuid.New(), Name: "SP 02", State: "SP", QualityScore: 80, SLADays: 7},
		{ID: uuid.New(), Name: "RJ 01", State: "RJ", QualityScore: 88, SLADays: 6},
		{ID: uuid.New(), Name: "SP 01", State: "SP", QualityScore: 90, SLADays: 5},
	}

	ranked := RankShops(shops, "sp")
	require.Len(t, ranked, 2)
	assert.Equal(t, "SP 01", ranked[0].Name)
	assert.InDelta(t, 74.0, ranked[0].Score, 1e-9)
	assert.Equal(t, "SP 02", ranked[1].Name)
	assert.InDelta(t, 60.0, ranked[1].Score, 1e-9)

	all := RankShops(shops, "")
	assert.Len(t, all, 3)

	assert.Empty(t, RankShops(shops, "AM"))
}

func TestRankShops_StableOnTies(t *testing.T) {
	first := models.Shop{ID: uuid.New(), Name: "primeira", State: "MG", QualityScore: 70, SLADays: 5}
	second := models.Shop{ID: uuid.New(), Name: "segunda", State: "MG", QualityScore: 70, SLADays: 5}

	for i := 0; i < 10; i++ {
		ranked := RankShops([]models.Shop{first, second}, "MG")
		require.Len(t, ranked, 2)
		assert.Equal(t, "primeira", ranked[0].Name)
		assert.Equal(t, "segunda", ranked[1].Name)
	}
}
