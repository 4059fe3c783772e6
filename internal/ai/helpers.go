package ai

import (
	"fmt"
	"strings"

	"github.com/ignatzorin/sinistros-backend/internal/models"
)

// formatClaimContext формирует описание синистра для промпта.
func formatClaimContext(claim *models.Claim) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Placa: %s\n", claim.Plate)
	fmt.Fprintf(&b, "Tipo de sinistro: %s\n", claim.Type)
	fmt.Fprintf(&b, "Data do evento: %s\n", claim.EventDate.Format("2006-01-02"))
	fmt.Fprintf(&b, "Local: %s/%s\n", claim.EventCity, claim.EventState)
	if claim.Deductible != nil {
		fmt.Fprintf(&b, "Franquia prevista: R$ %.2f\n", *claim.Deductible)
	}
	if claim.Summary != nil && *claim.Summary != "" {
		fmt.Fprintf(&b, "Resumo: %s\n", *claim.Summary)
	}
	return b.String()
}

// formatFilesContext перечисляет приложенные файлы.
func formatFilesContext(files []models.File) string {
	if len(files) == 0 {
		return "Nenhum arquivo anexado."
	}
	kinds := make([]string, 0, len(files))
	for _, f := range files {
		kinds = append(kinds, string(f.Kind))
	}
	return fmt.Sprintf("Arquivos anexados (%d): %s", len(files), strings.Join(kinds, ", "))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
