package valueobject

import (
	"fmt"
	"math"

	"github.com/ignatzorin/sinistros-backend/internal/pkg/apperror"
)

type Money struct {
	Amount   float64
	Currency string
}

func NewMoney(amount float64, currency string) (Money, error) {
	if amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Money{}, apperror.New(apperror.ErrCodeValidation, "valor não pode ser negativo")
	}
	if currency == "" {
		currency = "BRL"
	}
	return Money{Amount: math.Round(amount*100) / 100, Currency: currency}, nil
}

func (m Money) String() string {
	return fmt.Sprintf("%s %.2f", m.Currency, m.Amount)
}

// Probability хранит вероятность полной гибели в диапазоне [0, 1].
type Probability float64

func NewProbability(v float64) (Probability, error) {
	if v < 0 || v > 1 || math.IsNaN(v) {
		return 0, apperror.New(apperror.ErrCodeValidation, "prob_pt deve estar entre 0 e 1")
	}
	return Probability(v), nil
}
