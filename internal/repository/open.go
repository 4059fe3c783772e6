package repository

import (
	"context"
	"time"

	"github.com/ignatzorin/sinistros-backend/internal/db"
	"github.com/ignatzorin/sinistros-backend/internal/logger"
)

// Open выбирает реализацию хранилища одной проверкой подключения.
// При отсутствии DSN или ошибке подключения возвращается MemoryStore с демо-данными.
// Вызывается один раз при старте; результат передаётся в сервисы явно.
func Open(ctx context.Context, dsn string, probeTimeout time.Duration, minter TokenMinter) (Store, error) {
	log := logger.WithComponent("repository")

	if dsn == "" {
		log.Warn("DATABASE_URL не задан, используется хранилище в памяти")
		return NewSeededMemoryStore(minter)
	}

	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	conn, err := db.NewPostgres(probeCtx, dsn)
	if err != nil {
		log.WithError(err).Warn("база недоступна, используется хранилище в памяти")
		return NewSeededMemoryStore(minter)
	}

	log.WithField("backend", BackendPostgres).Info("хранилище выбрано")
	return NewPostgresStore(conn), nil
}

// Close освобождает ресурсы хранилища, если они есть.
func Close(store Store) error {
	if pg, ok := store.(*PostgresStore); ok {
		return pg.db.Close()
	}
	return nil
}

// Migrate применяет миграции, если выбрано хранилище PostgreSQL.
func Migrate(ctx context.Context, store Store, migrationsDir string) error {
	pg, ok := store.(*PostgresStore)
	if !ok {
		return nil
	}
	return db.RunMigrations(ctx, pg.db, migrationsDir)
}
