package service

import (
	"sort"
	"strings"

	"github.com/ignatzorin/sinistros-backend/internal/models"
)

// Веса рейтинга мастерских.
const (
	qualityWeight = 0.6
	slaWeight     = 0.4
)

// ShopScore балл мастерской: quality*0.6 + (10-sla)*10*0.4.
func ShopScore(shop models.Shop) float64 {
	return float64(shop.QualityScore)*qualityWeight + float64(10-shop.SLADays)*10*slaWeight
}

// RankShops оставляет мастерские штата uf (все, если uf пуст) и сортирует
// их по убыванию балла. Сортировка устойчивая: при равных баллах сохраняется
// исходный порядок.
func RankShops(shops []models.Shop, uf string) []models.RankedShop {
	uf = strings.ToUpper(strings.TrimSpace(uf))

	ranked := make([]models.RankedShop, 0, len(shops))
	for _, shop := range shops {
		if uf != "" && !strings.EqualFold(shop.State, uf) {
			continue
		}
		ranked = append(ranked, models.RankedShop{Shop: shop, Score: ShopScore(shop)})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}
