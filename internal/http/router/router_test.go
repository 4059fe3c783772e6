package router

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/sinistros-backend/internal/ai"
	"github.com/ignatzorin/sinistros-backend/internal/config"
	"github.com/ignatzorin/sinistros-backend/internal/dispatcher"
	"github.com/ignatzorin/sinistros-backend/internal/http/handlers"
	"github.com/ignatzorin/sinistros-backend/internal/repository"
	"github.com/ignatzorin/sinistros-backend/internal/service"
	"github.com/ignatzorin/sinistros-backend/internal/storage"
	"github.com/ignatzorin/sinistros-backend/internal/ws"
)

var (
	claimA = repository.FixtureID("claim-a-123")
	claimC = repository.FixtureID("claim-c-789")

	pngHeader = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0x0D, 'I', 'H', 'D', 'R'}
)

type testServer struct {
	router *gin.Engine
	store  *repository.MemoryStore
	media  string
}

func newTestServer(t *testing.T, rateLimit int64) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	tokens := service.NewTokenManager("router-test-secret-with-32-characters!", time.Hour)
	store, err := repository.NewSeededMemoryStore(tokens)
	require.NoError(t, err)

	cfg := &config.Config{
		Env:              "test",
		MediaStoragePath: t.TempDir(),
		MaxUploadSizeMB:  1,
		AllowedOrigins:   []string{"http://localhost:5173"},
		RateLimitLimit:   rateLimit,
		RateLimitPeriod:  time.Minute,
	}

	hub := ws.NewHub(ctx)
	go hub.Run()

	claims := service.NewClaimService(store, ai.HeuristicEstimator{}, tokens, service.NewCacheService(ctx), "http://portal.test/terceiro")
	claims.SetHub(hub)
	agg := service.NewAggregationService(store, 30)
	reports := service.NewReportService(store, 30)
	legacy := service.NewLegacyService(store)

	artifacts, err := storage.NewArtifactStorage(cfg.MediaStoragePath, cfg.MaxUploadSizeMB)
	require.NoError(t, err)

	registry := prometheus.NewRegistry()
	d := dispatcher.New(claims, dispatcher.NewMetrics(registry),
		dispatcher.NewLocalStage(claims, agg, reports, legacy),
	)

	r := SetupRouter(cfg, Handlers{
		Health:    handlers.NewHealthHandler(store),
		Claims:    handlers.NewClaimHandler(claims, agg, artifacts),
		Actions:   handlers.NewActionHandler(d),
		Portal:    handlers.NewPortalHandler(claims, artifacts),
		Sinistros: handlers.NewSinistroHandler(legacy),
		Reports:   handlers.NewReportHandler(reports),
		WS:        handlers.NewWSHandler(hub, claims),
	}, registry)

	return &testServer{router: r, store: store, media: cfg.MediaStoragePath}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) upload(t *testing.T, path, name string, content []byte, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	part, err := mw.CreateFormFile("arquivos", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	body := decode(t, w)
	assert.Equal(t, false, body["success"])
	detail, ok := body["error"].(map[string]any)
	require.True(t, ok, w.Body.String())
	return detail["code"].(string)
}

func (s *testServer) portalToken(t *testing.T, claimID uuid.UUID) string {
	t.Helper()
	claim, err := s.store.GetClaim(context.Background(), claimID)
	require.NoError(t, err)
	require.NotNil(t, claim.ThirdPartyToken)
	return *claim.ThirdPartyToken
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, 30)

	w := s.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp handlers.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, repository.BackendMemory, resp.Checks["backend"])
	assert.Contains(t, resp.Checks, "persistence")
}

func TestRequestIDAndCORS(t *testing.T) {
	s := newTestServer(t, 30)

	req, _ := http.NewRequest(http.MethodOptions, "/api/dashboard", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	req, _ = http.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://evil.test")
	req.Header.Set("X-Request-ID", "req-123")
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))
}

func TestDashboard(t *testing.T) {
	s := newTestServer(t, 30)

	w := s.do(t, http.MethodGet, "/api/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Len(t, body["sinistros"], 3)
	assert.Contains(t, body, "indicadores")

	w = s.do(t, http.MethodGet, "/api/dashboard?status=estimado&busca=EFG", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body = decode(t, w)
	require.Len(t, body["sinistros"], 1)
	first := body["sinistros"].([]any)[0].(map[string]any)
	assert.Equal(t, "EFG4H56", first["placa"])

	w = s.do(t, http.MethodGet, "/api/dashboard?status=arquivado", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, w))
}

func TestClaimDetail(t *testing.T) {
	s := newTestServer(t, 30)

	w := s.do(t, http.MethodGet, "/api/claims/"+claimC.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Len(t, body["arquivos"], 2)
	assert.Len(t, body["eventos"], 7)
	assert.Contains(t, body["acoes_disponiveis"], "concluir")

	w = s.do(t, http.MethodGet, "/api/claims/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, w))

	w = s.do(t, http.MethodGet, "/api/claims/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", errorCode(t, w))
}

func TestCreateClaim(t *testing.T) {
	s := newTestServer(t, 30)

	payload := map[string]any{
		"placa":               "XYZ9A87",
		"cpf_segurado":        "12345678901",
		"data_evento":         "2025-01-24T10:00:00Z",
		"local_evento_cidade": "Campinas",
		"local_evento_uf":     "SP",
		"tipo_sinistro":       "colisao",
	}
	w := s.do(t, http.MethodPost, "/api/claims", payload)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, "aberto", body["status"])

	id, err := uuid.Parse(body["claim_id"].(string))
	require.NoError(t, err)
	_, err = s.store.GetClaim(context.Background(), id)
	assert.NoError(t, err)

	payload["placa"] = "12345"
	w = s.do(t, http.MethodPost, "/api/claims", payload)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, w))
}

func TestUploadFiles(t *testing.T) {
	s := newTestServer(t, 30)

	w := s.upload(t, "/api/claims/"+claimA.String()+"/arquivos", "frente.png", pngHeader, map[string]string{"tipo": "foto_danos"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decode(t, w)
	files := body["arquivos"].([]any)
	require.Len(t, files, 1)
	url := files[0].(map[string]any)["arquivo_url"].(string)
	assert.True(t, strings.HasPrefix(url, "/media/"+claimA.String()+"/"))

	w = s.do(t, http.MethodGet, url, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, pngHeader, w.Body.Bytes())

	stored, err := s.store.ListFiles(context.Background(), claimA)
	require.NoError(t, err)
	assert.Len(t, stored, 3)
}

func TestUploadFiles_Rejected(t *testing.T) {
	s := newTestServer(t, 30)

	w := s.upload(t, "/api/claims/"+claimA.String()+"/arquivos", "script.png", []byte("#!/bin/sh\necho oi\n"), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, w))

	w = s.upload(t, "/api/claims/"+claimA.String()+"/arquivos", "frente.png", pngHeader, map[string]string{"tipo": "video"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.upload(t, "/api/claims/"+uuid.NewString()+"/arquivos", "frente.png", pngHeader, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	entries, err := os.ReadDir(filepath.Join(s.media, claimA.String()))
	if err == nil {
		assert.Empty(t, entries)
	}
}

func TestListShops(t *testing.T) {
	s := newTestServer(t, 30)

	w := s.do(t, http.MethodGet, "/api/oficinas?uf=SP", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["oficinas"], 2)

	w = s.do(t, http.MethodGet, "/api/oficinas", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["oficinas"], 4)

	w = s.do(t, http.MethodGet, "/api/oficinas?uf=XX", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestActions(t *testing.T) {
	s := newTestServer(t, 30)

	w := s.do(t, http.MethodPost, "/api/actions/estimativa_gerar", map[string]any{"claim_id": claimA})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, "estimativa_gerar", body["acao"])
	assert.Equal(t, dispatcher.StageLocal, body["origem"])
	assert.Contains(t, body["dados"], "estimativa")

	w = s.do(t, http.MethodPost, "/api/actions/sinistro_concluir", map[string]any{"claim_id": claimA})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "INVALID_TRANSITION", errorCode(t, w))

	w = s.do(t, http.MethodPost, "/api/actions/sinistro_atualizar_status", map[string]any{"claim_id": claimA, "acao": "autorizar_reparo"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	dados := decode(t, w)["dados"].(map[string]any)
	assert.Equal(t, "autorizado_reparo", dados["status"])

	w = s.do(t, http.MethodPost, "/api/actions/estimativa_gerar", map[string]any{"claim_id": claimA, "extra": true})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/actions/apagar_tudo", map[string]any{})
	assert.Equal(t, http.StatusNotImplemented, w.Code)
	assert.Equal(t, "UNIMPLEMENTED_ACTION", errorCode(t, w))

	w = s.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "sinistros_dispatch_total")
}

func TestPortal(t *testing.T) {
	s := newTestServer(t, 30)
	token := s.portalToken(t, claimA)

	w := s.do(t, http.MethodGet, "/api/terceiros/portal/"+token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	info := decode(t, w)["claim_info"].(map[string]any)
	assert.Equal(t, "ABC1D23", info["placa"])

	data := map[string]any{
		"nome":     "João Silva",
		"cpf":      "123.456.789-01",
		"email":    "joao@email.com",
		"telefone": "(11) 99999-9999",
	}
	w = s.do(t, http.MethodPost, "/api/terceiros/portal/"+token+"/dados", data)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/terceiros/portal/"+token+"/dados", data)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.upload(t, "/api/terceiros/portal/"+token+"/arquivos", "bo.png", pngHeader, map[string]string{"tipo": "documento_boletim"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	file := decode(t, w)["arquivos"].([]any)[0].(map[string]any)
	assert.Equal(t, "terceiro", file["fonte"])

	w = s.do(t, http.MethodGet, "/api/terceiros/portal/token-invalido", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", errorCode(t, w))
}

func TestPortal_RateLimited(t *testing.T) {
	s := newTestServer(t, 2)

	for i := 0; i < 2; i++ {
		w := s.do(t, http.MethodGet, "/api/terceiros/portal/token-invalido", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	}
	w := s.do(t, http.MethodGet, "/api/terceiros/portal/token-invalido", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "RATE_LIMITED", errorCode(t, w))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
}

func TestSinistrosFlow(t *testing.T) {
	s := newTestServer(t, 30)

	w := s.do(t, http.MethodPost, "/api/sinistros", map[string]any{
		"segurado_nome":     "Carlos Pereira",
		"segurado_email":    "carlos@exemplo.com",
		"segurado_telefone": "11987654321",
		"placa":             "abc1d23",
		"seguradora_nome":   "Seguradora Alfa",
		"tipo_sinistro":     "colisao",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := decode(t, w)["sinistro_id"].(string)

	w = s.do(t, http.MethodGet, "/api/sinistros?status=aberto&busca=carlos", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode(t, w)["total"])

	w = s.do(t, http.MethodGet, "/api/sinistros?status=perdido", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPatch, "/api/sinistros/"+id+"/status", map[string]any{"status": "em_analise"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "em_analise", decode(t, w)["status"])

	w = s.do(t, http.MethodPatch, "/api/sinistros/"+id+"/protocol", map[string]any{"protocolo": "PROT-1"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "PROT-1", decode(t, w)["protocolo"])

	w = s.do(t, http.MethodPost, "/api/pendencias", map[string]any{
		"sinistro_id":    id,
		"descricao":      "Enviar boletim de ocorrência",
		"solicitada_por": "seguradora",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/pendencias/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["pendencias"], 1)

	w = s.do(t, http.MethodGet, "/api/andamentos/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.GreaterOrEqual(t, len(decode(t, w)["andamentos"].([]any)), 3)

	w = s.do(t, http.MethodPost, "/api/pendencias", map[string]any{
		"sinistro_id":    uuid.NewString(),
		"descricao":      "Sem registro",
		"solicitada_por": "seguradora",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "CONSTRAINT_VIOLATION", errorCode(t, w))

	w = s.do(t, http.MethodGet, "/api/sinistros/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMonthlyReport(t *testing.T) {
	s := newTestServer(t, 30)

	w := s.do(t, http.MethodGet, "/api/relatorios?data_inicio=2025-01-01&data_fim=2025-01-31", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, decode(t, w)["agregados"], 3)

	w = s.do(t, http.MethodGet, "/api/relatorios?data_inicio=2025-02-01&data_fim=2025-01-01", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
