package repository

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/sinistros-backend/internal/domain/valueobject"
	"github.com/ignatzorin/sinistros-backend/internal/models"
)

// fixtureNamespace пространство имён для детерминированных идентификаторов демо-данных.
var fixtureNamespace = uuid.MustParse("6f1c1d0e-8a43-4f5e-9a51-3c2b7d9e0a11")

// FixtureID возвращает стабильный UUID демо-записи по её короткому имени.
func FixtureID(name string) uuid.UUID {
	return uuid.NewSHA1(fixtureNamespace, []byte(name))
}

// TokenMinter выпускает токены портала третьих лиц.
type TokenMinter interface {
	Mint(claimID uuid.UUID) (string, error)
}

// NewSeededMemoryStore создаёт хранилище с демонстрационным набором данных:
// три синистра, четыре мастерские, две оценки, две агенды, два приглашения,
// шесть файлов и тринадцать записей журнала.
func NewSeededMemoryStore(minter TokenMinter) (*MemoryStore, error) {
	s := NewMemoryStore()

	claimA, claimB, claimC := FixtureID("claim-a-123"), FixtureID("claim-b-456"), FixtureID("claim-c-789")
	estB, estC := FixtureID("est-b-456"), FixtureID("est-c-789")
	shopBH := FixtureID("of-bh-01")

	tokenA, err := minter.Mint(claimA)
	if err != nil {
		return nil, fmt.Errorf("fixtures: mint token %w", err)
	}
	tokenC, err := minter.Mint(claimC)
	if err != nil {
		return nil, fmt.Errorf("fixtures: mint token %w", err)
	}

	claims := []models.Claim{
		{
			ID: claimA, CreatedAt: ts("2025-01-20T10:30:00Z"), UpdatedAt: ts("2025-01-20T11:00:00Z"),
			Plate: "ABC1D23", InsuredTaxID: "12345678901", EventDate: ts("2025-01-20T10:30:00Z"),
			EventCity: "São Paulo", EventState: "SP", Type: valueobject.ClaimTypeCollision,
			Deductible: f64(2500), Status: valueobject.ClaimStatusOpen, ThirdPartyToken: &tokenA,
			Summary: str("Colisão em cruzamento durante horário de pico"),
		},
		{
			ID: claimB, CreatedAt: ts("2025-01-19T18:10:00Z"), UpdatedAt: ts("2025-01-19T19:00:00Z"),
			Plate: "EFG4H56", InsuredTaxID: "98765432100", EventDate: ts("2025-01-19T18:10:00Z"),
			EventCity: "Rio de Janeiro", EventState: "RJ", Type: valueobject.ClaimTypeTheft,
			Deductible: f64(0), Status: valueobject.ClaimStatusEstimated, TotalLossProbability: f64(0.85),
			EstimateID: &estB, Summary: str("Veículo roubado em via pública"),
		},
		{
			ID: claimC, CreatedAt: ts("2025-01-20T08:15:00Z"), UpdatedAt: ts("2025-01-20T11:00:00Z"),
			Plate: "IJK7L89", InsuredTaxID: "11122233344", EventDate: ts("2025-01-20T08:15:00Z"),
			EventCity: "Belo Horizonte", EventState: "MG", Type: valueobject.ClaimTypeCollision,
			Deductible: f64(1800), Status: valueobject.ClaimStatusRepairAuthorized, TotalLossProbability: f64(0.10),
			EstimateID: &estC, ShopID: &shopBH, ThirdPartyToken: &tokenC,
			Summary: str("Colisão traseira em semáforo"),
		},
	}
	for _, c := range claims {
		s.claims[c.ID] = c
	}

	s.estimates[estB] = models.Estimate{
		ID: estB, ClaimID: claimB, CreatedAt: ts("2025-01-19T19:00:00Z"),
		EstimatedValue: 38000, LaborHours: 42, TotalLossProbability: 0.85,
		Breakdown: jsonb(models.EstimateBreakdown{
			AffectedParts: []string{"Para-choque dianteiro", "Capô", "Farol direito", "Grade frontal"},
			Notes:         "Danos extensos na parte frontal, provável perda total",
		}),
	}
	s.estimates[estC] = models.Estimate{
		ID: estC, ClaimID: claimC, CreatedAt: ts("2025-01-20T09:30:00Z"),
		EstimatedValue: 5200, LaborHours: 12, TotalLossProbability: 0.10,
		Breakdown: jsonb(models.EstimateBreakdown{
			AffectedParts: []string{"Para-choque traseiro", "Lanterna esquerda"},
			Notes:         "Danos leves, reparo viável",
		}),
	}

	s.shops = []models.Shop{
		{ID: FixtureID("of-sp-01"), Name: "Oficina SP 01 - Centro Automotivo", City: "São Paulo", State: "SP", SLADays: 5, QualityScore: 90},
		{ID: FixtureID("of-sp-02"), Name: "Oficina SP 02 - Auto Repair", City: "São Paulo", State: "SP", SLADays: 7, QualityScore: 80},
		{ID: FixtureID("of-rj-01"), Name: "Oficina RJ 01 - Carioca Motors", City: "Rio de Janeiro", State: "RJ", SLADays: 6, QualityScore: 88},
		{ID: shopBH, Name: "Oficina BH 01 - Mineira Auto", City: "Belo Horizonte", State: "MG", SLADays: 4, QualityScore: 92},
	}

	confirmedAt := ts("2025-01-23T09:00:00Z")
	s.schedules = []models.Schedule{
		{ID: FixtureID("ag-c-789"), ClaimID: claimC, ShopID: shopBH, ScheduledAt: &confirmedAt,
			Status: valueobject.ScheduleStatusConfirmed, CreatedAt: ts("2025-01-20T10:00:00Z")},
		{ID: FixtureID("ag-a-123"), ClaimID: claimA, ShopID: FixtureID("of-sp-01"),
			Status: valueobject.ScheduleStatusPending, CreatedAt: ts("2025-01-20T11:00:00Z")},
	}

	s.thirdParties = []models.ThirdParty{
		{ID: FixtureID("terc-a-123"), ClaimID: claimA, Token: tokenA,
			Status: valueobject.ThirdPartyStatusInvited, CreatedAt: ts("2025-01-20T11:00:00Z")},
		{ID: FixtureID("terc-c-456"), ClaimID: claimC, Token: tokenC,
			Name: str("Maria Terceira"), TaxID: str("55566677788"), Email: str("maria@exemplo.com"), Phone: str("21988887777"),
			Status: valueobject.ThirdPartyStatusDataReceived, CreatedAt: ts("2025-01-20T10:30:00Z"),
			SubmittedAt: tsp("2025-01-20T11:00:00Z")},
	}

	s.files = []models.File{
		fixtureFile("arq-a-1", claimA, valueobject.FileSourceInsured, valueobject.FileKindDamagePhoto, "foto-danos-a-1.jpg", "danos_frontais.jpg", "image/jpeg", "2025-01-20T10:45:00Z"),
		fixtureFile("arq-a-2", claimA, valueobject.FileSourceInsured, valueobject.FileKindPoliceReport, "boletim-a-1.pdf", "boletim_ocorrencia.pdf", "application/pdf", "2025-01-20T10:50:00Z"),
		fixtureFile("arq-b-1", claimB, valueobject.FileSourceInsured, valueobject.FileKindDamagePhoto, "foto-danos-b-1.jpg", "local_roubo.jpg", "image/jpeg", "2025-01-19T18:30:00Z"),
		fixtureFile("arq-b-2", claimB, valueobject.FileSourceInsured, valueobject.FileKindPoliceReport, "boletim-b-1.pdf", "boletim_roubo.pdf", "application/pdf", "2025-01-19T18:35:00Z"),
		fixtureFile("arq-c-1", claimC, valueobject.FileSourceInsured, valueobject.FileKindDamagePhoto, "foto-danos-c-1.jpg", "danos_traseiros.jpg", "image/jpeg", "2025-01-20T08:30:00Z"),
		fixtureFile("arq-c-2", claimC, valueobject.FileSourceThirdParty, valueobject.FileKindPoliceReport, "boletim-c-1.pdf", "boletim_terceiro.pdf", "application/pdf", "2025-01-20T09:00:00Z"),
	}

	uploaded := map[string]interface{}{"contagem": 2, "tipos": []string{"foto_danos", "documento_boletim"}}
	s.events = []models.EventLog{
		fixtureEvent("evt-a-1", claimA, "sinistros_criar", map[string]interface{}{"placa": "ABC1D23", "tipo_sinistro": "colisao"}, "2025-01-20T10:30:00Z"),
		fixtureEvent("evt-a-2", claimA, "arquivos_upload", uploaded, "2025-01-20T10:50:00Z"),
		fixtureEvent("evt-a-3", claimA, "terceiros_gerar_link", map[string]interface{}{"terceiro_id": FixtureID("terc-a-123")}, "2025-01-20T11:00:00Z"),
		fixtureEvent("evt-b-1", claimB, "sinistros_criar", map[string]interface{}{"placa": "EFG4H56", "tipo_sinistro": "roubo"}, "2025-01-19T18:10:00Z"),
		fixtureEvent("evt-b-2", claimB, "arquivos_upload", uploaded, "2025-01-19T18:35:00Z"),
		fixtureEvent("evt-b-3", claimB, "estimativa_gerar", map[string]interface{}{"valor_estimado": 38000, "prob_pt": 0.85}, "2025-01-19T19:00:00Z"),
		fixtureEvent("evt-c-1", claimC, "sinistros_criar", map[string]interface{}{"placa": "IJK7L89", "tipo_sinistro": "colisao"}, "2025-01-20T08:15:00Z"),
		fixtureEvent("evt-c-2", claimC, "arquivos_upload", uploaded, "2025-01-20T09:00:00Z"),
		fixtureEvent("evt-c-3", claimC, "estimativa_gerar", map[string]interface{}{"valor_estimado": 5200, "prob_pt": 0.10}, "2025-01-20T09:30:00Z"),
		fixtureEvent("evt-c-4", claimC, "oficinas_rotear_agendar", map[string]interface{}{"oficina_nome": "Oficina BH 01 - Mineira Auto"}, "2025-01-20T10:00:00Z"),
		fixtureEvent("evt-c-5", claimC, "oficinas_agendar", map[string]interface{}{"data_agendada": "2025-01-23T09:00:00Z"}, "2025-01-20T10:15:00Z"),
		fixtureEvent("evt-c-6", claimC, "terceiros_gerar_link", map[string]interface{}{"terceiro_id": FixtureID("terc-c-456")}, "2025-01-20T10:30:00Z"),
		fixtureEvent("evt-c-7", claimC, "terceiros_submit", map[string]interface{}{"nome": "Maria Terceira"}, "2025-01-20T11:00:00Z"),
	}

	return s, nil
}

func fixtureFile(name string, claimID uuid.UUID, source valueobject.FileSource, kind valueobject.FileKind, path, original, mime, at string) models.File {
	return models.File{
		ID:        FixtureID(name),
		ClaimID:   claimID,
		CreatedAt: ts(at),
		Source:    source,
		Kind:      kind,
		URL:       "/media/demo/" + path,
		Metadata:  jsonb(models.FileMetadata{OriginalName: original, MimeType: mime}),
	}
}

func fixtureEvent(name string, claimID uuid.UUID, workflow string, payload map[string]interface{}, at string) models.EventLog {
	requestID := "req-" + name[len("evt-"):]
	id := claimID
	return models.EventLog{
		ID:             FixtureID(name),
		CreatedAt:      ts(at),
		Workflow:       workflow,
		RequestID:      &requestID,
		ClaimID:        &id,
		PayloadSummary: jsonb(payload),
		Status:         valueobject.EventStatusSuccess,
	}
}

func ts(v string) time.Time {
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		panic(err)
	}
	return t
}

func tsp(v string) *time.Time {
	t := ts(v)
	return &t
}

func f64(v float64) *float64 { return &v }

func str(v string) *string { return &v }

func jsonb(v interface{}) models.JSONB {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return models.JSONB(data)
}
