package dispatcher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Названия стадий.
const (
	StageRemote = "remote"
	StageLocal  = "local"
	StageMock   = "mock"
)

const maxRemoteBody = 1 << 20

var (
	errRemoteNotConfigured = errors.New("serviço de automação não configurado para a ação")
	errRemoteIncomplete    = errors.New("resposta do serviço de automação sem os campos obrigatórios")
)

// RemoteStage отправляет тело действия во внешний сервис автоматизации.
// URL собирается из базового адреса и пути действия.
type RemoteStage struct {
	baseURL    string
	paths      map[string]string
	httpClient *http.Client
}

// NewRemoteStage создаёт стадию. paths: ключ переменной действия -> путь.
func NewRemoteStage(baseURL string, paths map[string]string, timeout time.Duration) *RemoteStage {
	return &RemoteStage{
		baseURL: strings.TrimRight(baseURL, "/"),
		paths:   paths,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// WithHTTPClient подменяет HTTP-клиент.
func (s *RemoteStage) WithHTTPClient(c *http.Client) *RemoteStage {
	s.httpClient = c
	return s
}

func (s *RemoteStage) Name() string { return StageRemote }

// URL возвращает адрес действия или пустую строку, если он не настроен.
func (s *RemoteStage) URL(action Action) string {
	path := strings.Trim(s.paths[action.EnvKey()], "/")
	if s.baseURL == "" || path == "" {
		return ""
	}
	return s.baseURL + "/" + path
}

func (s *RemoteStage) Resolve(ctx context.Context, call Call) Resolution {
	url := s.URL(call.Action)
	if url == "" {
		return Next(errRemoteNotConfigured)
	}

	body, err := json.Marshal(call.Payload)
	if err != nil {
		return Next(fmt.Errorf("marshal payload: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Next(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return Next(fmt.Errorf("remote call: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxRemoteBody))
		return Next(fmt.Errorf("remote status %d", resp.StatusCode))
	}

	result := call.Action.NewResult()
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxRemoteBody)).Decode(result); err != nil {
		return Next(fmt.Errorf("decode remote response: %w", err))
	}
	if !call.Action.CompleteResult(result) {
		return Next(errRemoteIncomplete)
	}
	return Served(result)
}
