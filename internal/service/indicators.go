package service

import (
	"math"
	"time"

	"github.com/ignatzorin/sinistros-backend/internal/domain/valueobject"
	"github.com/ignatzorin/sinistros-backend/internal/models"
)

const day = 24 * time.Hour

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// avgResolutionDays средний срок от регистрации до закрытия по закрытым синистрам.
func avgResolutionDays(claims []models.Claim) float64 {
	var total float64
	var closed int
	for _, c := range claims {
		if c.ClosedAt == nil {
			continue
		}
		total += c.ClosedAt.Sub(c.CreatedAt).Hours() / 24
		closed++
	}
	if closed == 0 {
		return 0
	}
	return round1(total / float64(closed))
}

// withinSLAPercent доля синистров, закрытых в срок или ещё открытых в пределах срока.
// Для пустой выборки возвращает 0.
func withinSLAPercent(claims []models.Claim, slaDays int, now time.Time) float64 {
	if len(claims) == 0 {
		return 0
	}
	limit := time.Duration(slaDays) * day
	within := 0
	for _, c := range claims {
		end := now
		if c.ClosedAt != nil {
			end = *c.ClosedAt
		}
		if end.Sub(c.CreatedAt) <= limit {
			within++
		}
	}
	return round1(float64(within) * 100 / float64(len(claims)))
}

// countByStatus считает синистры по всем шести статусам, включая нулевые.
func countByStatus(claims []models.Claim) map[valueobject.ClaimStatus]int {
	counts := make(map[valueobject.ClaimStatus]int, len(valueobject.ClaimStatuses))
	for _, status := range valueobject.ClaimStatuses {
		counts[status] = 0
	}
	for _, c := range claims {
		counts[c.Status]++
	}
	return counts
}
