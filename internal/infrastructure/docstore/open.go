package docstore

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"horizon/internal/domain/document"
	"horizon/internal/infrastructure/firestore"
	"horizon/internal/infrastructure/memory"
	"horizon/internal/infrastructure/postgres"
	"horizon/internal/shared/config"
)

// Open connects the configured document store backend. The returned
// close func releases its connections.
func Open(ctx context.Context, cfg config.DocumentStoreConfig, logger *zap.Logger) (document.Store, func() error, error) {
	switch cfg.Backend {
	case config.BackendFirestore:
		store, err := firestore.NewStore(ctx, cfg.Firestore.ProjectID, cfg.Firestore.CredentialsFile)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("connected to firestore", zap.String("project_id", cfg.Firestore.ProjectID))
		return store, store.Close, nil

	case config.BackendPostgres:
		db, err := postgres.New(cfg.Database.ConnectionString())
		if err != nil {
			return nil, nil, err
		}
		store := postgres.NewDocumentStore(db)
		if err := store.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		logger.Info("connected to postgres", zap.String("host", cfg.Database.Host), zap.String("database", cfg.Database.DBName))
		return store, db.Close, nil

	case config.BackendMemory:
		logger.Warn("using in-memory document store; data is lost on exit")
		return memory.NewStore(), func() error { return nil }, nil
	}
	return nil, nil, fmt.Errorf("unknown document store backend %q", cfg.Backend)
}
