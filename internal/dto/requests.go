package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/sinistros-backend/internal/domain/valueobject"
	"github.com/ignatzorin/sinistros-backend/internal/models"
	"github.com/ignatzorin/sinistros-backend/internal/pkg/apperror"
	"github.com/ignatzorin/sinistros-backend/internal/validation"
)

// Sub-actions carried in the "acao" field.
const (
	ShopActionMatch    = "match"
	ShopActionAssign   = "atribuir"
	ShopActionSchedule = "agendar"

	StatusActionAuthorizeRepair = "autorizar_reparo"
	StatusActionTotalLoss       = "perda_total"
	StatusActionDeny            = "negar"

	ThirdPartyActionLink   = "gerar_link"
	ThirdPartyActionSubmit = "submit"
)

// Accepted date layouts for incoming payloads.
var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

// ParseDate parses a payload date in any accepted layout.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, apperror.Validation("data inválida: %s", value)
}

func requireClaimID(id uuid.UUID) error {
	if id == uuid.Nil {
		return apperror.Validation("claim_id é obrigatório")
	}
	return nil
}

func wrapValidation(err error) error {
	if err == nil {
		return nil
	}
	return apperror.New(apperror.ErrCodeValidation, err.Error())
}

// CreateClaimRequest is the payload of sinistros_criar.
type CreateClaimRequest struct {
	Plate        string   `json:"placa"`
	InsuredTaxID string   `json:"cpf_segurado"`
	EventDate    string   `json:"data_evento"`
	EventCity    string   `json:"local_evento_cidade"`
	EventState   string   `json:"local_evento_uf"`
	Type         string   `json:"tipo_sinistro"`
	Deductible   *float64 `json:"franquia_prevista"`
	Summary      *string  `json:"resumo"`
}

func (r CreateClaimRequest) Validate() error {
	if err := validation.ValidatePlate(r.Plate); err != nil {
		return wrapValidation(err)
	}
	if err := validation.ValidateCPF(r.InsuredTaxID); err != nil {
		return wrapValidation(err)
	}
	if _, err := ParseDate(r.EventDate); err != nil {
		return err
	}
	if err := validation.ValidateNonEmpty("local_evento_cidade", r.EventCity); err != nil {
		return wrapValidation(err)
	}
	if err := validation.ValidateLength("local_evento_cidade", r.EventCity, 0, validation.MaxCityLength); err != nil {
		return wrapValidation(err)
	}
	if err := validation.ValidateUF(r.EventState); err != nil {
		return wrapValidation(err)
	}
	if _, err := valueobject.NewClaimType(r.Type); err != nil {
		return apperror.Validation("tipo_sinistro inválido: %s", r.Type)
	}
	if r.Deductible != nil && *r.Deductible < 0 {
		return apperror.Validation("franquia_prevista não pode ser negativa")
	}
	if r.Summary != nil {
		if err := validation.ValidateLength("resumo", *r.Summary, 0, validation.MaxSummaryLength); err != nil {
			return wrapValidation(err)
		}
	}
	return nil
}

// FileUpload describes one already stored artifact.
type FileUpload struct {
	Kind         string `json:"tipo"`
	URL          string `json:"arquivo_url"`
	OriginalName string `json:"nome_original"`
	MimeType     string `json:"mime_type"`
	Size         int64  `json:"tamanho"`
}

// UploadFilesRequest is the payload of arquivos_upload.
type UploadFilesRequest struct {
	ClaimID uuid.UUID    `json:"claim_id"`
	Source  string       `json:"fonte"`
	Files   []FileUpload `json:"arquivos"`
}

func (r UploadFilesRequest) Validate() error {
	if err := requireClaimID(r.ClaimID); err != nil {
		return err
	}
	if !valueobject.FileSource(r.Source).IsValid() {
		return apperror.Validation("fonte inválida: %s", r.Source)
	}
	if len(r.Files) == 0 {
		return apperror.Validation("nenhum arquivo informado")
	}
	for _, f := range r.Files {
		if !valueobject.FileKind(f.Kind).IsValid() {
			return apperror.Validation("tipo de arquivo inválido: %s", f.Kind)
		}
		if strings.TrimSpace(f.URL) == "" {
			return apperror.Validation("arquivo_url é obrigatório")
		}
	}
	return nil
}

// GenerateEstimateRequest is the payload of estimativa_gerar.
type GenerateEstimateRequest struct {
	ClaimID uuid.UUID `json:"claim_id"`
}

func (r GenerateEstimateRequest) Validate() error {
	return requireClaimID(r.ClaimID)
}

// ShopRoutingRequest is the payload of oficinas_rotear_agendar.
type ShopRoutingRequest struct {
	Action      string     `json:"acao"`
	ClaimID     uuid.UUID  `json:"claim_id"`
	ShopID      *uuid.UUID `json:"oficina_id"`
	State       string     `json:"uf"`
	ScheduledAt *string    `json:"data_agendada"`
}

func (r ShopRoutingRequest) Validate() error {
	if err := requireClaimID(r.ClaimID); err != nil {
		return err
	}
	switch r.Action {
	case ShopActionMatch:
		if r.State != "" {
			return wrapValidation(validation.ValidateUF(r.State))
		}
	case ShopActionAssign:
		if r.ShopID == nil || *r.ShopID == uuid.Nil {
			return apperror.Validation("oficina_id é obrigatório")
		}
	case ShopActionSchedule:
		if r.ScheduledAt == nil || strings.TrimSpace(*r.ScheduledAt) == "" {
			return apperror.Validation("data_agendada é obrigatória")
		}
		if _, err := ParseDate(*r.ScheduledAt); err != nil {
			return err
		}
	default:
		return apperror.Validation("acao inválida: %s", r.Action)
	}
	return nil
}

// UpdateStatusRequest is the payload of sinistro_atualizar_status.
type UpdateStatusRequest struct {
	Action  string    `json:"acao"`
	ClaimID uuid.UUID `json:"claim_id"`
	Reason  *string   `json:"motivo"`
}

func (r UpdateStatusRequest) Validate() error {
	if err := requireClaimID(r.ClaimID); err != nil {
		return err
	}
	switch r.Action {
	case StatusActionAuthorizeRepair, StatusActionTotalLoss, StatusActionDeny:
		return nil
	}
	return apperror.Validation("acao inválida: %s", r.Action)
}

// CloseRequest is the payload of sinistro_concluir.
type CloseRequest struct {
	ClaimID uuid.UUID `json:"claim_id"`
}

func (r CloseRequest) Validate() error {
	return requireClaimID(r.ClaimID)
}

// ThirdPartyRequest is the payload of terceiros.
type ThirdPartyRequest struct {
	Action  string                 `json:"acao"`
	ClaimID uuid.UUID              `json:"claim_id"`
	Token   string                 `json:"token"`
	Data    *models.ThirdPartyData `json:"dados"`
}

func (r ThirdPartyRequest) Validate() error {
	switch r.Action {
	case ThirdPartyActionLink:
		return requireClaimID(r.ClaimID)
	case ThirdPartyActionSubmit:
		if strings.TrimSpace(r.Token) == "" {
			return apperror.Validation("token é obrigatório")
		}
		if r.Data == nil {
			return apperror.Validation("dados são obrigatórios")
		}
		return ValidateThirdPartyData(*r.Data)
	}
	return apperror.Validation("acao inválida: %s", r.Action)
}

// ValidateThirdPartyData checks the identity data submitted through the portal.
func ValidateThirdPartyData(d models.ThirdPartyData) error {
	if err := validation.ValidateName(d.Name); err != nil {
		return wrapValidation(err)
	}
	if err := validation.ValidateCPF(d.TaxID); err != nil {
		return wrapValidation(err)
	}
	if err := validation.ValidateEmail(d.Email); err != nil {
		return wrapValidation(err)
	}
	return wrapValidation(validation.ValidatePhone(d.Phone))
}

// MonthlyReportRequest is the payload of relatorio_gerar_mensal.
type MonthlyReportRequest struct {
	From string `json:"data_inicio" form:"data_inicio"`
	To   string `json:"data_fim" form:"data_fim"`
}

func (r MonthlyReportRequest) Validate() error {
	if strings.TrimSpace(r.From) == "" || strings.TrimSpace(r.To) == "" {
		return apperror.Validation("data_inicio e data_fim são obrigatórios")
	}
	from, err := ParseDate(r.From)
	if err != nil {
		return err
	}
	to, err := ParseDate(r.To)
	if err != nil {
		return err
	}
	if to.Before(from) {
		return apperror.Validation("data_fim anterior a data_inicio")
	}
	return nil
}

// DashboardRequest is the payload of sinistros_listar.
type DashboardRequest struct {
	From   string `json:"data_inicio" form:"data_inicio"`
	To     string `json:"data_fim" form:"data_fim"`
	Search string `json:"busca" form:"busca"`
	Status string `json:"status" form:"status"`
	Period string `json:"periodo" form:"periodo"`
}

func (r DashboardRequest) Validate() error {
	if r.Status != "" && r.Status != "todos" && !valueobject.ClaimStatus(r.Status).IsValid() {
		return apperror.Validation("status inválido: %s", r.Status)
	}
	switch r.Period {
	case "", "7d", "30d", "90d", "mes":
	default:
		return apperror.Validation("periodo inválido: %s", r.Period)
	}
	for _, v := range []string{r.From, r.To} {
		if v != "" {
			if _, err := ParseDate(v); err != nil {
				return err
			}
		}
	}
	return nil
}

// CreateSinistroRequest is the payload of the legacy intake.
type CreateSinistroRequest struct {
	InsuredName  string  `json:"segurado_nome"`
	InsuredEmail string  `json:"segurado_email"`
	InsuredPhone string  `json:"segurado_telefone"`
	Plate        string  `json:"placa"`
	InsurerName  string  `json:"seguradora_nome"`
	Type         string  `json:"tipo_sinistro"`
	NoticeDate   *string `json:"data_aviso"`
	Summary      *string `json:"resumo"`
}

func (r CreateSinistroRequest) Validate() error {
	if err := validation.ValidateName(r.InsuredName); err != nil {
		return wrapValidation(err)
	}
	if err := validation.ValidateEmail(r.InsuredEmail); err != nil {
		return wrapValidation(err)
	}
	if err := validation.ValidatePhone(r.InsuredPhone); err != nil {
		return wrapValidation(err)
	}
	if err := validation.ValidatePlate(r.Plate); err != nil {
		return wrapValidation(err)
	}
	if err := validation.ValidateNonEmpty("seguradora_nome", r.InsurerName); err != nil {
		return wrapValidation(err)
	}
	if err := validation.ValidateNonEmpty("tipo_sinistro", r.Type); err != nil {
		return wrapValidation(err)
	}
	if r.NoticeDate != nil && *r.NoticeDate != "" {
		if _, err := ParseDate(*r.NoticeDate); err != nil {
			return err
		}
	}
	return nil
}

// UpdateSinistroStatusRequest changes a legacy record status.
type UpdateSinistroStatusRequest struct {
	Status string `json:"status"`
}

func (r UpdateSinistroStatusRequest) Validate() error {
	if _, err := valueobject.NewSinistroStatus(r.Status); err != nil {
		return apperror.Validation("status inválido: %s", r.Status)
	}
	return nil
}

// UpdateProtocolRequest stores the protocol returned by the insurer.
type UpdateProtocolRequest struct {
	Protocol string `json:"protocolo"`
}

func (r UpdateProtocolRequest) Validate() error {
	return wrapValidation(validation.ValidateNonEmpty("protocolo", r.Protocol))
}

// SendNoticeRequest is the payload of sinistro_enviar_aviso.
type SendNoticeRequest struct {
	SinistroID uuid.UUID `json:"sinistro_id"`
}

func (r SendNoticeRequest) Validate() error {
	if r.SinistroID == uuid.Nil {
		return apperror.Validation("sinistro_id é obrigatório")
	}
	return nil
}

// CreateDocumentoRequest attaches a document to a legacy record.
type CreateDocumentoRequest struct {
	SinistroID    uuid.UUID `json:"sinistro_id"`
	Kind          string    `json:"tipo_documento"`
	FileName      string    `json:"nome_arquivo"`
	MimeType      string    `json:"mime_type"`
	ContentBase64 string    `json:"arquivo_base64"`
}

func (r CreateDocumentoRequest) Validate() error {
	if r.SinistroID == uuid.Nil {
		return apperror.Validation("sinistro_id é obrigatório")
	}
	for field, value := range map[string]string{
		"tipo_documento": r.Kind,
		"nome_arquivo":   r.FileName,
		"mime_type":      r.MimeType,
		"arquivo_base64": r.ContentBase64,
	} {
		if err := validation.ValidateNonEmpty(field, value); err != nil {
			return wrapValidation(err)
		}
	}
	return nil
}

// CreatePendenciaRequest opens a pending item on a legacy record.
type CreatePendenciaRequest struct {
	SinistroID  uuid.UUID `json:"sinistro_id"`
	Description string    `json:"descricao"`
	RequestedBy string    `json:"solicitada_por"`
}

func (r CreatePendenciaRequest) Validate() error {
	if r.SinistroID == uuid.Nil {
		return apperror.Validation("sinistro_id é obrigatório")
	}
	if err := validation.ValidateNonEmpty("descricao", r.Description); err != nil {
		return wrapValidation(err)
	}
	return wrapValidation(validation.ValidateNonEmpty("solicitada_por", r.RequestedBy))
}

// CreateAndamentoRequest appends a manual entry to a legacy timeline.
type CreateAndamentoRequest struct {
	SinistroID  uuid.UUID `json:"sinistro_id"`
	EventType   string    `json:"tipo_evento"`
	Description *string   `json:"descricao"`
	Origin      string    `json:"origem"`
}

func (r CreateAndamentoRequest) Validate() error {
	if r.SinistroID == uuid.Nil {
		return apperror.Validation("sinistro_id é obrigatório")
	}
	return wrapValidation(validation.ValidateNonEmpty("tipo_evento", r.EventType))
}
