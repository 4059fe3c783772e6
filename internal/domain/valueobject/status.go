package valueobject

import "github.com/ignatzorin/sinistros-backend/internal/pkg/apperror"

// ClaimStatus описывает положение синистра в жизненном цикле.
type ClaimStatus string

const (
	ClaimStatusOpen             ClaimStatus = "aberto"
	ClaimStatusEstimated        ClaimStatus = "estimado"
	ClaimStatusRepairAuthorized ClaimStatus = "autorizado_reparo"
	ClaimStatusTotalLoss        ClaimStatus = "perda_total"
	ClaimStatusDenied           ClaimStatus = "negado"
	ClaimStatusCompleted        ClaimStatus = "concluido"
)

// ClaimStatuses перечисляет все статусы в порядке жизненного цикла.
var ClaimStatuses = []ClaimStatus{
	ClaimStatusOpen,
	ClaimStatusEstimated,
	ClaimStatusRepairAuthorized,
	ClaimStatusTotalLoss,
	ClaimStatusDenied,
	ClaimStatusCompleted,
}

func (s ClaimStatus) IsValid() bool {
	switch s {
	case ClaimStatusOpen, ClaimStatusEstimated, ClaimStatusRepairAuthorized,
		ClaimStatusTotalLoss, ClaimStatusDenied, ClaimStatusCompleted:
		return true
	}
	return false
}

// IsTerminal возвращает true для статусов, после которых действия запрещены.
func (s ClaimStatus) IsTerminal() bool {
	return s == ClaimStatusCompleted || s == ClaimStatusDenied
}

func NewClaimStatus(status string) (ClaimStatus, error) {
	s := ClaimStatus(status)
	if !s.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "status de sinistro inválido")
	}
	return s, nil
}

type ClaimType string

const (
	ClaimTypeCollision ClaimType = "colisao"
	ClaimTypeTheft     ClaimType = "roubo"
	ClaimTypeFire      ClaimType = "incendio"
	ClaimTypeVandalism ClaimType = "vandalismo"
	ClaimTypeNatural   ClaimType = "fenomeno_natural"
	ClaimTypeOther     ClaimType = "outro"
)

func (t ClaimType) IsValid() bool {
	switch t {
	case ClaimTypeCollision, ClaimTypeTheft, ClaimTypeFire, ClaimTypeVandalism, ClaimTypeNatural, ClaimTypeOther:
		return true
	}
	return false
}

func NewClaimType(value string) (ClaimType, error) {
	t := ClaimType(value)
	if !t.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "tipo de sinistro inválido")
	}
	return t, nil
}

type ScheduleStatus string

const (
	ScheduleStatusPending   ScheduleStatus = "pendente"
	ScheduleStatusConfirmed ScheduleStatus = "confirmado"
	ScheduleStatusCompleted ScheduleStatus = "concluido"
	ScheduleStatusCancelled ScheduleStatus = "cancelado"
)

// IsActive сообщает, занимает ли запись единственный активный слот агенды.
func (s ScheduleStatus) IsActive() bool {
	return s == ScheduleStatusPending || s == ScheduleStatusConfirmed
}

type ThirdPartyStatus string

const (
	ThirdPartyStatusInvited      ThirdPartyStatus = "convidado"
	ThirdPartyStatusDataReceived ThirdPartyStatus = "dados_recebidos"
)

type FileSource string

const (
	FileSourceInsured    FileSource = "segurado"
	FileSourceThirdParty FileSource = "terceiro"
)

func (s FileSource) IsValid() bool {
	return s == FileSourceInsured || s == FileSourceThirdParty
}

type FileKind string

const (
	FileKindDamagePhoto  FileKind = "foto_danos"
	FileKindPoliceReport FileKind = "documento_boletim"
	FileKindOther        FileKind = "outro"
)

func (k FileKind) IsValid() bool {
	switch k {
	case FileKindDamagePhoto, FileKindPoliceReport, FileKindOther:
		return true
	}
	return false
}

type EventStatus string

const (
	EventStatusSuccess    EventStatus = "sucesso"
	EventStatusError      EventStatus = "erro"
	EventStatusProcessing EventStatus = "processando"
)

// SinistroStatus относится к старому потоку /api/sinistros.
type SinistroStatus string

const (
	SinistroStatusOpen     SinistroStatus = "aberto"
	SinistroStatusSent     SinistroStatus = "enviado"
	SinistroStatusReview   SinistroStatus = "em_analise"
	SinistroStatusApproved SinistroStatus = "aprovado"
	SinistroStatusDenied   SinistroStatus = "negado"
	SinistroStatusDone     SinistroStatus = "concluido"
)

func (s SinistroStatus) IsValid() bool {
	switch s {
	case SinistroStatusOpen, SinistroStatusSent, SinistroStatusReview,
		SinistroStatusApproved, SinistroStatusDenied, SinistroStatusDone:
		return true
	}
	return false
}

func NewSinistroStatus(status string) (SinistroStatus, error) {
	s := SinistroStatus(status)
	if !s.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "status inválido")
	}
	return s, nil
}
