package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/ignatzorin/sinistros-backend/internal/domain/valueobject"
	"github.com/ignatzorin/sinistros-backend/internal/models"
	"github.com/ignatzorin/sinistros-backend/internal/repository/common"
)

// ListSinistros возвращает страницу старого списка и общее количество.
func (s *PostgresStore) ListSinistros(ctx context.Context, filter models.SinistroFilter) ([]models.Sinistro, int, error) {
	where := " WHERE 1=1"
	args := []interface{}{}
	argIndex := 1

	if filter.From != nil {
		where += fmt.Sprintf(" AND data_aviso >= $%d", argIndex)
		args = append(args, *filter.From)
		argIndex++
	}
	if filter.To != nil {
		where += fmt.Sprintf(" AND data_aviso <= $%d", argIndex)
		args = append(args, *filter.To)
		argIndex++
	}
	if filter.Search != "" {
		where += fmt.Sprintf(` AND (segurado_nome ILIKE $%d ESCAPE '\' OR placa ILIKE $%d ESCAPE '\')`, argIndex, argIndex)
		args = append(args, "%"+escapeLike(filter.Search)+"%")
		argIndex++
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, st := range filter.Statuses {
			statuses[i] = string(st)
		}
		where += fmt.Sprintf(" AND status = ANY($%d)", argIndex)
		args = append(args, pq.Array(statuses))
		argIndex++
	}
	if filter.Insurer != "" {
		where += fmt.Sprintf(` AND seguradora_nome ILIKE $%d ESCAPE '\'`, argIndex)
		args = append(args, "%"+escapeLike(filter.Insurer)+"%")
		argIndex++
	}

	var total int
	if err := s.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM sinistros"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("legacy store: count sinistros %w", err)
	}

	query := "SELECT * FROM sinistros" + where +
		fmt.Sprintf(" ORDER BY data_aviso DESC, id LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, filter.Limit, filter.Offset)

	list, err := common.SelectAll[models.Sinistro](ctx, s.db, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("legacy store: list sinistros %w", err)
	}
	return list, total, nil
}

func (s *PostgresStore) GetSinistro(ctx context.Context, id uuid.UUID) (*models.Sinistro, error) {
	sin, err := common.GetByID[models.Sinistro](ctx, s.db, "sinistros", id)
	if err != nil && err != ErrNotFound {
		return nil, fmt.Errorf("legacy store: get sinistro %w", err)
	}
	return sin, err
}

func (s *PostgresStore) CreateSinistro(ctx context.Context, sin *models.Sinistro) error {
	if _, err := s.db.NamedExecContext(ctx, `
		INSERT INTO sinistros (id, protocolo, segurado_nome, segurado_email, segurado_telefone, placa,
		                       seguradora_nome, tipo_sinistro, status, data_aviso, prazo_limite, resumo,
		                       criado_em, atualizado_em)
		VALUES (:id, :protocolo, :segurado_nome, :segurado_email, :segurado_telefone, :placa,
		        :seguradora_nome, :tipo_sinistro, :status, :data_aviso, :prazo_limite, :resumo,
		        :criado_em, :atualizado_em)
	`, sin); err != nil {
		return fmt.Errorf("legacy store: create sinistro %w", common.TranslatePQError(err))
	}
	return nil
}

func (s *PostgresStore) UpdateSinistroStatus(ctx context.Context, id uuid.UUID, status valueobject.SinistroStatus) error {
	res, err := s.db.ExecContext(ctx, `UPDATE sinistros SET status = $1, atualizado_em = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("legacy store: update status %w", err)
	}
	return common.RequireAffected(res)
}

// UpdateSinistroProtocol записывает протокол и переводит запись в статус enviado.
func (s *PostgresStore) UpdateSinistroProtocol(ctx context.Context, id uuid.UUID, protocol string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE sinistros SET protocolo = $1, status = $2, atualizado_em = NOW() WHERE id = $3
	`, protocol, valueobject.SinistroStatusSent, id)
	if err != nil {
		return fmt.Errorf("legacy store: update protocol %w", err)
	}
	return common.RequireAffected(res)
}

func (s *PostgresStore) ListDocumentos(ctx context.Context, sinistroID uuid.UUID) ([]models.Documento, error) {
	docs, err := common.SelectAll[models.Documento](ctx, s.db,
		`SELECT * FROM documentos WHERE sinistro_id = $1 ORDER BY recebido_em DESC, id`, sinistroID)
	if err != nil {
		return nil, fmt.Errorf("legacy store: list documentos %w", err)
	}
	return docs, nil
}

func (s *PostgresStore) CreateDocumento(ctx context.Context, d *models.Documento) error {
	if _, err := s.db.NamedExecContext(ctx, `
		INSERT INTO documentos (id, sinistro_id, tipo_documento, nome_arquivo, mime_type, arquivo_base64, recebido_em)
		VALUES (:id, :sinistro_id, :tipo_documento, :nome_arquivo, :mime_type, :arquivo_base64, :recebido_em)
	`, d); err != nil {
		return fmt.Errorf("legacy store: create documento %w", common.TranslatePQError(err))
	}
	return nil
}

func (s *PostgresStore) ListPendencias(ctx context.Context, sinistroID uuid.UUID) ([]models.Pendencia, error) {
	items, err := common.SelectAll[models.Pendencia](ctx, s.db,
		`SELECT * FROM pendencias WHERE sinistro_id = $1 ORDER BY criada_em DESC, id`, sinistroID)
	if err != nil {
		return nil, fmt.Errorf("legacy store: list pendencias %w", err)
	}
	return items, nil
}

func (s *PostgresStore) CreatePendencia(ctx context.Context, p *models.Pendencia) error {
	if _, err := s.db.NamedExecContext(ctx, `
		INSERT INTO pendencias (id, sinistro_id, descricao, solicitada_por, status, criada_em, resolvida_em)
		VALUES (:id, :sinistro_id, :descricao, :solicitada_por, :status, :criada_em, :resolvida_em)
	`, p); err != nil {
		return fmt.Errorf("legacy store: create pendencia %w", common.TranslatePQError(err))
	}
	return nil
}

func (s *PostgresStore) ListAndamentos(ctx context.Context, sinistroID uuid.UUID) ([]models.Andamento, error) {
	items, err := common.SelectAll[models.Andamento](ctx, s.db,
		`SELECT * FROM andamentos WHERE sinistro_id = $1 ORDER BY criado_em DESC, id`, sinistroID)
	if err != nil {
		return nil, fmt.Errorf("legacy store: list andamentos %w", err)
	}
	return items, nil
}

func (s *PostgresStore) CreateAndamento(ctx context.Context, a *models.Andamento) error {
	if _, err := s.db.NamedExecContext(ctx, `
		INSERT INTO andamentos (id, sinistro_id, tipo_evento, descricao, origem, criado_em)
		VALUES (:id, :sinistro_id, :tipo_evento, :descricao, :origem, :criado_em)
	`, a); err != nil {
		return fmt.Errorf("legacy store: create andamento %w", common.TranslatePQError(err))
	}
	return nil
}
