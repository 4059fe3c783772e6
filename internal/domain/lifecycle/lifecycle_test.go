package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/sinistros-backend/internal/domain/valueobject"
	"github.com/ignatzorin/sinistros-backend/internal/pkg/apperror"
)

func prob(v float64) *float64 { return &v }

func TestCheck_TransitionTable(t *testing.T) {
	estimated := Facts{Status: valueobject.ClaimStatusEstimated, HasEstimate: true, TotalLossProbability: prob(0.2)}

	tests := []struct {
		name   string
		facts  Facts
		action Action
		want   valueobject.ClaimStatus
	}{
		{"open generates estimate", Facts{Status: valueobject.ClaimStatusOpen}, ActionGenerateEstimate, valueobject.ClaimStatusEstimated},
		{"estimated assigns shop", estimated, ActionAssignShop, valueobject.ClaimStatusEstimated},
		{"estimated authorizes repair", estimated, ActionAuthorizeRepair, valueobject.ClaimStatusRepairAuthorized},
		{"estimated marks total loss", estimated, ActionMarkTotalLoss, valueobject.ClaimStatusTotalLoss},
		{"authorized confirms schedule", Facts{Status: valueobject.ClaimStatusRepairAuthorized, HasEstimate: true, HasActiveSchedule: true}, ActionConfirmSchedule, valueobject.ClaimStatusRepairAuthorized},
		{"authorized closes", Facts{Status: valueobject.ClaimStatusRepairAuthorized}, ActionClose, valueobject.ClaimStatusCompleted},
		{"total loss closes", Facts{Status: valueobject.ClaimStatusTotalLoss}, ActionClose, valueobject.ClaimStatusCompleted},
		{"open denies", Facts{Status: valueobject.ClaimStatusOpen}, ActionDeny, valueobject.ClaimStatusDenied},
		{"total loss denies", Facts{Status: valueobject.ClaimStatusTotalLoss}, ActionDeny, valueobject.ClaimStatusDenied},
		{"link keeps status", Facts{Status: valueobject.ClaimStatusOpen}, ActionThirdPartyLink, valueobject.ClaimStatusOpen},
		{"upload keeps status", estimated, ActionUploadFiles, valueobject.ClaimStatusEstimated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := Check(tt.facts, tt.action)
			require.NoError(t, err)
			assert.Equal(t, tt.want, next)
		})
	}
}

func TestCheck_RejectsInvalidTransitions(t *testing.T) {
	tests := []struct {
		name   string
		facts  Facts
		action Action
	}{
		{"assign shop before estimate", Facts{Status: valueobject.ClaimStatusOpen}, ActionAssignShop},
		{"close open claim", Facts{Status: valueobject.ClaimStatusOpen}, ActionClose},
		{"authorize twice", Facts{Status: valueobject.ClaimStatusRepairAuthorized, HasEstimate: true}, ActionAuthorizeRepair},
		{"total loss without estimate", Facts{Status: valueobject.ClaimStatusEstimated}, ActionMarkTotalLoss},
		{"confirm schedule without shop", Facts{Status: valueobject.ClaimStatusRepairAuthorized}, ActionConfirmSchedule},
		{"completed rejects deny", Facts{Status: valueobject.ClaimStatusCompleted}, ActionDeny},
		{"denied rejects upload", Facts{Status: valueobject.ClaimStatusDenied}, ActionUploadFiles},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := Check(tt.facts, tt.action)
			require.Error(t, err)
			assert.True(t, apperror.IsInvalidTransition(err))
			assert.Equal(t, tt.facts.Status, next)
		})
	}
}

func TestCheck_UnknownInput(t *testing.T) {
	_, err := Check(Facts{Status: valueobject.ClaimStatusOpen}, Action("teleportar"))
	assert.True(t, apperror.IsValidation(err))

	_, err = Check(Facts{Status: "arquivado"}, ActionDeny)
	assert.True(t, apperror.IsValidation(err))
}

func TestAvailable_TotalLossThreshold(t *testing.T) {
	high := Facts{Status: valueobject.ClaimStatusEstimated, HasEstimate: true, TotalLossProbability: prob(0.85)}
	low := Facts{Status: valueobject.ClaimStatusEstimated, HasEstimate: true, TotalLossProbability: prob(0.7)}

	assert.True(t, high.TotalLossEligible())
	assert.Contains(t, Available(high), ActionMarkTotalLoss)

	assert.False(t, low.TotalLossEligible())
	assert.NotContains(t, Available(low), ActionMarkTotalLoss)

	// сервер всё равно принимает действие при наличии оценки
	_, err := Check(low, ActionMarkTotalLoss)
	assert.NoError(t, err)
}

func TestAvailable_TerminalIsEmpty(t *testing.T) {
	assert.Empty(t, Available(Facts{Status: valueobject.ClaimStatusCompleted}))
	assert.Empty(t, Available(Facts{Status: valueobject.ClaimStatusDenied}))
}

func TestAvailable_OpenClaim(t *testing.T) {
	got := Available(Facts{Status: valueobject.ClaimStatusOpen})
	assert.Equal(t, []Action{ActionGenerateEstimate, ActionDeny, ActionThirdPartyLink, ActionUploadFiles}, got)
	assert.True(t, Allows(Facts{Status: valueobject.ClaimStatusOpen}, ActionDeny))
	assert.False(t, Allows(Facts{Status: valueobject.ClaimStatusOpen}, ActionClose))
}
