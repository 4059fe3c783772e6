package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/sinistros-backend/internal/domain/valueobject"
	"github.com/ignatzorin/sinistros-backend/internal/models"
	"github.com/ignatzorin/sinistros-backend/internal/repository/common"
)

// PostgresStore реализация Store поверх PostgreSQL.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore создаёт хранилище на готовом подключении.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Backend() string { return BackendPostgres }

// Ping проверяет доступность базы.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// DB отдаёт подключение для health-check и миграций.
func (s *PostgresStore) DB() *sqlx.DB {
	return s.db
}

// GetClaim возвращает синистр по идентификатору.
func (s *PostgresStore) GetClaim(ctx context.Context, id uuid.UUID) (*models.Claim, error) {
	claim, err := common.GetByID[models.Claim](ctx, s.db, "claims", id)
	if err != nil && err != ErrNotFound {
		return nil, fmt.Errorf("claim store: get claim %w", err)
	}
	return claim, err
}

// ListClaims возвращает синистры по фильтру, новые первыми.
func (s *PostgresStore) ListClaims(ctx context.Context, filter models.ClaimFilter) ([]models.Claim, error) {
	query := `SELECT * FROM claims WHERE 1=1`
	args := []interface{}{}
	argIndex := 1

	if filter.From != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", argIndex)
		args = append(args, *filter.From)
		argIndex++
	}
	if filter.To != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", argIndex)
		args = append(args, *filter.To)
		argIndex++
	}
	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argIndex)
		args = append(args, filter.Status)
		argIndex++
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		query += fmt.Sprintf(` AND (placa ILIKE $%d ESCAPE '\' OR cpf_segurado ILIKE $%d ESCAPE '\')`, argIndex, argIndex)
		args = append(args, "%"+escapeLike(search)+"%")
	}
	query += " ORDER BY created_at DESC, id"

	claims, err := common.SelectAll[models.Claim](ctx, s.db, query, args...)
	if err != nil {
		return nil, fmt.Errorf("claim store: list claims %w", err)
	}
	return claims, nil
}

// CreateClaim сохраняет новый синистр.
func (s *PostgresStore) CreateClaim(ctx context.Context, claim *models.Claim) error {
	query := `
		INSERT INTO claims (id, created_at, updated_at, placa, cpf_segurado, data_evento, local_evento_cidade,
		                    local_evento_uf, tipo_sinistro, franquia_prevista, status, resumo)
		VALUES (:id, :created_at, :updated_at, :placa, :cpf_segurado, :data_evento, :local_evento_cidade,
		        :local_evento_uf, :tipo_sinistro, :franquia_prevista, :status, :resumo)
	`
	if _, err := s.db.NamedExecContext(ctx, query, claim); err != nil {
		return fmt.Errorf("claim store: create claim %w", common.TranslatePQError(err))
	}
	return nil
}

// UpdateClaimStatus меняет статус только если текущий равен change.From.
func (s *PostgresStore) UpdateClaimStatus(ctx context.Context, id uuid.UUID, change StatusChange, closedAt *time.Time) error {
	return common.WithTransaction(ctx, s.db, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE claims
			SET status = $1, encerrado_em = COALESCE($2, encerrado_em), updated_at = NOW()
			WHERE id = $3 AND status = $4
		`, change.To, closedAt, id, change.From)
		if err != nil {
			return fmt.Errorf("claim store: update status %w", err)
		}
		return s.checkStatusUpdate(ctx, tx, res, id)
	})
}

// checkStatusUpdate различает отсутствие синистра и гонку статусов.
func (s *PostgresStore) checkStatusUpdate(ctx context.Context, tx *sqlx.Tx, res interface{ RowsAffected() (int64, error) }, id uuid.UUID) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	var exists bool
	if err := tx.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM claims WHERE id = $1)`, id); err != nil {
		return fmt.Errorf("claim store: check claim %w", err)
	}
	if !exists {
		return ErrNotFound
	}
	return ErrStatusConflict
}

// GetEstimate возвращает последнюю оценку синистра.
func (s *PostgresStore) GetEstimate(ctx context.Context, claimID uuid.UUID) (*models.Estimate, error) {
	est, err := common.GetOne[models.Estimate](ctx, s.db, `
		SELECT e.* FROM estimativas e
		JOIN claims c ON c.estimativa_id = e.id
		WHERE c.id = $1
	`, claimID)
	if err != nil && err != ErrNotFound {
		return nil, fmt.Errorf("claim store: get estimate %w", err)
	}
	return est, err
}

// CreateEstimate сохраняет оценку, делает её текущей и переводит статус.
func (s *PostgresStore) CreateEstimate(ctx context.Context, est *models.Estimate, change StatusChange) error {
	return common.WithTransaction(ctx, s.db, func(tx *sqlx.Tx) error {
		if _, err := tx.NamedExecContext(ctx, `
			INSERT INTO estimativas (id, claim_id, created_at, valor_estimado, horas_mo, prob_pt, resumo_json)
			VALUES (:id, :claim_id, :created_at, :valor_estimado, :horas_mo, :prob_pt, :resumo_json)
		`, est); err != nil {
			return fmt.Errorf("claim store: create estimate %w", common.TranslatePQError(err))
		}
		res, err := tx.ExecContext(ctx, `
			UPDATE claims
			SET estimativa_id = $1, prob_pt = $2, status = $3, updated_at = NOW()
			WHERE id = $4 AND status = $5
		`, est.ID, est.TotalLossProbability, change.To, est.ClaimID, change.From)
		if err != nil {
			return fmt.Errorf("claim store: link estimate %w", err)
		}
		return s.checkStatusUpdate(ctx, tx, res, est.ClaimID)
	})
}

// ListShops возвращает справочник мастерских.
func (s *PostgresStore) ListShops(ctx context.Context) ([]models.Shop, error) {
	shops, err := common.SelectAll[models.Shop](ctx, s.db, `SELECT * FROM oficinas ORDER BY nome, id`)
	if err != nil {
		return nil, fmt.Errorf("claim store: list shops %w", err)
	}
	return shops, nil
}

func (s *PostgresStore) GetShop(ctx context.Context, id uuid.UUID) (*models.Shop, error) {
	shop, err := common.GetByID[models.Shop](ctx, s.db, "oficinas", id)
	if err != nil && err != ErrNotFound {
		return nil, fmt.Errorf("claim store: get shop %w", err)
	}
	return shop, err
}

// GetSchedule возвращает текущую (не отменённую) запись агенды синистра.
func (s *PostgresStore) GetSchedule(ctx context.Context, claimID uuid.UUID) (*models.Schedule, error) {
	sch, err := common.GetOne[models.Schedule](ctx, s.db, `
		SELECT * FROM agendas
		WHERE claim_id = $1 AND status IN ('pendente', 'confirmado', 'concluido')
		ORDER BY created_at DESC
		LIMIT 1
	`, claimID)
	if err != nil && err != ErrNotFound {
		return nil, fmt.Errorf("claim store: get schedule %w", err)
	}
	return sch, err
}

// CreateSchedule отменяет прежнюю активную запись и привязывает мастерскую к синистру.
func (s *PostgresStore) CreateSchedule(ctx context.Context, sch *models.Schedule) error {
	return common.WithTransaction(ctx, s.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			UPDATE agendas SET status = 'cancelado'
			WHERE claim_id = $1 AND status IN ('pendente', 'confirmado')
		`, sch.ClaimID); err != nil {
			return fmt.Errorf("claim store: cancel schedules %w", err)
		}
		if _, err := tx.NamedExecContext(ctx, `
			INSERT INTO agendas (id, claim_id, oficina_id, data_agendada, status, created_at)
			VALUES (:id, :claim_id, :oficina_id, :data_agendada, :status, :created_at)
		`, sch); err != nil {
			return fmt.Errorf("claim store: create schedule %w", common.TranslatePQError(err))
		}
		res, err := tx.ExecContext(ctx, `UPDATE claims SET oficina_id = $1, updated_at = NOW() WHERE id = $2`, sch.ShopID, sch.ClaimID)
		if err != nil {
			return fmt.Errorf("claim store: assign shop %w", common.TranslatePQError(err))
		}
		return common.RequireAffected(res)
	})
}

// UpdateScheduleStatus меняет статус записи агенды; at, если задан, становится датой визита.
func (s *PostgresStore) UpdateScheduleStatus(ctx context.Context, id uuid.UUID, status valueobject.ScheduleStatus, at *time.Time) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE agendas SET status = $1, data_agendada = COALESCE($2, data_agendada)
		WHERE id = $3
	`, status, at, id)
	if err != nil {
		return fmt.Errorf("claim store: update schedule %w", err)
	}
	return common.RequireAffected(res)
}

// GetThirdParty возвращает последнее приглашение третьего лица по синистру.
func (s *PostgresStore) GetThirdParty(ctx context.Context, claimID uuid.UUID) (*models.ThirdParty, error) {
	tp, err := common.GetOne[models.ThirdParty](ctx, s.db, `
		SELECT * FROM terceiros WHERE claim_id = $1 ORDER BY created_at DESC LIMIT 1
	`, claimID)
	if err != nil && err != ErrNotFound {
		return nil, fmt.Errorf("claim store: get third party %w", err)
	}
	return tp, err
}

func (s *PostgresStore) GetThirdPartyByToken(ctx context.Context, token string) (*models.ThirdParty, error) {
	tp, err := common.GetByField[models.ThirdParty](ctx, s.db, "terceiros", "token", token)
	if err != nil && err != ErrNotFound {
		return nil, fmt.Errorf("claim store: get third party by token %w", err)
	}
	return tp, err
}

// CreateThirdParty сохраняет приглашение и записывает токен в синистр.
func (s *PostgresStore) CreateThirdParty(ctx context.Context, tp *models.ThirdParty) error {
	return common.WithTransaction(ctx, s.db, func(tx *sqlx.Tx) error {
		if _, err := tx.NamedExecContext(ctx, `
			INSERT INTO terceiros (id, claim_id, token, nome, cpf, email, telefone, status, created_at)
			VALUES (:id, :claim_id, :token, :nome, :cpf, :email, :telefone, :status, :created_at)
		`, tp); err != nil {
			return fmt.Errorf("claim store: create third party %w", common.TranslatePQError(err))
		}
		if _, err := tx.ExecContext(ctx, `UPDATE claims SET terceiro_token = $1, updated_at = NOW() WHERE id = $2`, tp.Token, tp.ClaimID); err != nil {
			return fmt.Errorf("claim store: link third party %w", err)
		}
		return nil
	})
}

func (s *PostgresStore) UpdateThirdParty(ctx context.Context, tp *models.ThirdParty) error {
	res, err := s.db.NamedExecContext(ctx, `
		UPDATE terceiros
		SET nome = :nome, cpf = :cpf, email = :email, telefone = :telefone,
		    status = :status, dados_recebidos_em = :dados_recebidos_em
		WHERE id = :id
	`, tp)
	if err != nil {
		return fmt.Errorf("claim store: update third party %w", err)
	}
	return common.RequireAffected(res)
}

// ListFiles возвращает файлы синистра в порядке загрузки.
func (s *PostgresStore) ListFiles(ctx context.Context, claimID uuid.UUID) ([]models.File, error) {
	files, err := common.SelectAll[models.File](ctx, s.db, `
		SELECT * FROM arquivos WHERE claim_id = $1 ORDER BY created_at, id
	`, claimID)
	if err != nil {
		return nil, fmt.Errorf("claim store: list files %w", err)
	}
	return files, nil
}

func (s *PostgresStore) CreateFile(ctx context.Context, f *models.File) error {
	if _, err := s.db.NamedExecContext(ctx, `
		INSERT INTO arquivos (id, claim_id, created_at, fonte, tipo, arquivo_url, metadados_json)
		VALUES (:id, :claim_id, :created_at, :fonte, :tipo, :arquivo_url, :metadados_json)
	`, f); err != nil {
		return fmt.Errorf("claim store: create file %w", common.TranslatePQError(err))
	}
	return nil
}

// ListEvents возвращает журнал синистра, новые записи первыми.
func (s *PostgresStore) ListEvents(ctx context.Context, claimID uuid.UUID) ([]models.EventLog, error) {
	events, err := common.SelectAll[models.EventLog](ctx, s.db, `
		SELECT * FROM eventos_log WHERE claim_id = $1 ORDER BY created_at DESC, id
	`, claimID)
	if err != nil {
		return nil, fmt.Errorf("claim store: list events %w", err)
	}
	return events, nil
}

func (s *PostgresStore) AppendEvent(ctx context.Context, e *models.EventLog) error {
	if _, err := s.db.NamedExecContext(ctx, `
		INSERT INTO eventos_log (id, created_at, workflow, request_id, claim_id, payload_resumo, status)
		VALUES (:id, :created_at, :workflow, :request_id, :claim_id, :payload_resumo, :status)
	`, e); err != nil {
		return fmt.Errorf("claim store: append event %w", common.TranslatePQError(err))
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike экранирует спецсимволы шаблона LIKE.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
