package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/sinistros-backend/internal/domain/valueobject"
)

// Sinistro запись старого потока регистрации через /api/sinistros.
type Sinistro struct {
	ID           uuid.UUID                  `db:"id" json:"id"`
	Protocol     *string                    `db:"protocolo" json:"protocolo"`
	InsuredName  string                     `db:"segurado_nome" json:"segurado_nome"`
	InsuredEmail string                     `db:"segurado_email" json:"segurado_email"`
	InsuredPhone string                     `db:"segurado_telefone" json:"segurado_telefone"`
	Plate        string                     `db:"placa" json:"placa"`
	InsurerName  string                     `db:"seguradora_nome" json:"seguradora_nome"`
	Type         string                     `db:"tipo_sinistro" json:"tipo_sinistro"`
	Status       valueobject.SinistroStatus `db:"status" json:"status"`
	NoticeDate   time.Time                  `db:"data_aviso" json:"data_aviso"`
	Deadline     time.Time                  `db:"prazo_limite" json:"prazo_limite"`
	Summary      *string                    `db:"resumo" json:"resumo"`
	CreatedAt    time.Time                  `db:"criado_em" json:"criado_em"`
	UpdatedAt    time.Time                  `db:"atualizado_em" json:"atualizado_em"`
}

type Documento struct {
	ID            uuid.UUID `db:"id" json:"id"`
	SinistroID    uuid.UUID `db:"sinistro_id" json:"sinistro_id"`
	Kind          string    `db:"tipo_documento" json:"tipo_documento"`
	FileName      string    `db:"nome_arquivo" json:"nome_arquivo"`
	MimeType      string    `db:"mime_type" json:"mime_type"`
	ContentBase64 string    `db:"arquivo_base64" json:"arquivo_base64"`
	ReceivedAt    time.Time `db:"recebido_em" json:"recebido_em"`
}

const (
	PendenciaStatusOpen     = "aberta"
	PendenciaStatusResolved = "resolvida"
)

type Pendencia struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	SinistroID  uuid.UUID  `db:"sinistro_id" json:"sinistro_id"`
	Description string     `db:"descricao" json:"descricao"`
	RequestedBy string     `db:"solicitada_por" json:"solicitada_por"`
	Status      string     `db:"status" json:"status"`
	CreatedAt   time.Time  `db:"criada_em" json:"criada_em"`
	ResolvedAt  *time.Time `db:"resolvida_em" json:"resolvida_em"`
}

// Типы событий хронологии старого потока.
const (
	AndamentoCreated         = "criacao"
	AndamentoStatusChanged   = "status_alterado"
	AndamentoProtocol        = "protocolo_gerado"
	AndamentoDocumentAdded   = "documento_anexado"
	AndamentoPendenciaOpened = "pendencia_criada"
)

type Andamento struct {
	ID          uuid.UUID `db:"id" json:"id"`
	SinistroID  uuid.UUID `db:"sinistro_id" json:"sinistro_id"`
	EventType   string    `db:"tipo_evento" json:"tipo_evento"`
	Description *string   `db:"descricao" json:"descricao"`
	Origin      string    `db:"origem" json:"origem"`
	CreatedAt   time.Time `db:"criado_em" json:"criado_em"`
}

// SinistroFilter параметры выборки старого списка.
type SinistroFilter struct {
	From     *time.Time
	To       *time.Time
	Search   string
	Statuses []valueobject.SinistroStatus
	Insurer  string
	Limit    int
	Offset   int
}
