package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// WebhookKeys переменные окружения с путями действий во внешнем сервисе.
var WebhookKeys = []string{
	"WH_SINISTROS_CRIAR",
	"WH_ARQUIVOS_UPLOAD",
	"WH_ESTIMATIVA_GERAR",
	"WH_OFICINAS_ROTEAR_AGENDAR",
	"WH_SINISTRO_UPDATE_STATUS",
	"WH_SINISTRO_CLOSE",
	"WH_TERCEIROS",
	"WH_RELATORIO_GERAR_MENSAL",
	"WH_SINISTRO_LIST",

	// старый поток /api/sinistros
	"WH_SINISTRO_CREATE",
	"WH_DOC_UPLOAD",
	"WH_SINISTRO_ENVIAR_AVISO",
	"WH_PENDENCIA_CREATE",
}

// webhookFile формат YAML-файла с путями:
//
//	webhooks:
//	  WH_SINISTROS_CRIAR: sinistros/criar
type webhookFile struct {
	Webhooks map[string]string `yaml:"webhooks"`
}

// loadWebhooks читает пути из файла (если задан), затем переопределяет их переменными окружения.
func loadWebhooks(path string) (map[string]string, error) {
	paths := make(map[string]string, len(WebhookKeys))

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: не удалось прочитать %s: %w", path, err)
		}
		var file webhookFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("config: некорректный YAML в %s: %w", path, err)
		}
		for key, value := range file.Webhooks {
			paths[strings.ToUpper(key)] = strings.Trim(value, "/")
		}
	}

	for _, key := range WebhookKeys {
		if value, ok := os.LookupEnv(key); ok {
			paths[key] = strings.Trim(value, "/")
		}
	}

	for key, value := range paths {
		if value == "" {
			delete(paths, key)
		}
	}
	return paths, nil
}
