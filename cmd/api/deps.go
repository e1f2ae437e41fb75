package main

import (
	"context"

	"go.uber.org/zap"

	"horizon/internal/domain/account"
	"horizon/internal/domain/openfinance"
	"horizon/internal/domain/transaction"
	"horizon/internal/domain/user"
	"horizon/internal/infrastructure/crypto"
	"horizon/internal/infrastructure/docstore"
	"horizon/internal/infrastructure/dwolla"
	"horizon/internal/infrastructure/plaid"
	httphandlers "horizon/internal/interfaces/http"
	"horizon/internal/shared/auth"
	"horizon/internal/shared/config"
)

// Dependencies holds all initialized application components.
type Dependencies struct {
	AuthHandler     *httphandlers.AuthHandler
	UserHandler     *httphandlers.UserHandler
	AccountHandler  *httphandlers.AccountHandler
	LinkHandler     *httphandlers.LinkHandler
	TransferHandler *httphandlers.TransferHandler

	JWT *auth.JWT

	closeStore func() error
}

// NewDependencies initializes all application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	store, closeStore, err := docstore.Open(ctx, cfg.DocumentStore, logger)
	if err != nil {
		return nil, err
	}

	encryptor, err := crypto.NewEncryptor(cfg.Encryption.Key)
	if err != nil {
		_ = closeStore()
		return nil, err
	}

	userRepo := docstore.NewUserRepository(store, cfg.DocumentStore.UserCollection)
	bankRepo := docstore.NewBankRepository(store, cfg.DocumentStore.BankCollection, encryptor, logger)
	transactionRepo := docstore.NewTransactionRepository(store, cfg.DocumentStore.TransactionCollection)

	aggregator := plaid.NewClient(cfg.Plaid.ClientID, cfg.Plaid.Secret, cfg.Plaid.Environment)
	payments := dwolla.NewClient(cfg.Dwolla.Key, cfg.Dwolla.Secret, cfg.Dwolla.Environment)

	syncer := openfinance.NewTransactionSyncer(aggregator, cfg.Sync.MaxPages, cfg.Sync.PageSize, logger)
	userService := user.NewService(userRepo, payments, logger)
	accountService := account.NewService(bankRepo, transactionRepo, aggregator, syncer, cfg.Plaid.CountryCodes, logger)
	linkService := openfinance.NewLinkService(aggregator, payments, bankRepo, transactionRepo, openfinance.LinkOptions{
		ClientName:   cfg.Plaid.ClientName,
		Products:     cfg.Plaid.Products,
		CountryCodes: cfg.Plaid.CountryCodes,
	}, logger)
	transferService := transaction.NewTransferService(bankRepo, transactionRepo, payments, logger)

	jwt := auth.NewJWT(cfg.Session.Secret, cfg.Session.TTL)
	cookie := httphandlers.CookieConfig{Name: cfg.Session.CookieName, Secure: cfg.Session.Secure}

	return &Dependencies{
		AuthHandler:     httphandlers.NewAuthHandler(userService, jwt, cookie, logger),
		UserHandler:     httphandlers.NewUserHandler(userService, logger),
		AccountHandler:  httphandlers.NewAccountHandler(accountService, logger),
		LinkHandler:     httphandlers.NewLinkHandler(linkService, userService, logger),
		TransferHandler: httphandlers.NewTransferHandler(transferService, logger),
		JWT:             jwt,
		closeStore:      closeStore,
	}, nil
}

// Close releases all resources held by dependencies.
func (d *Dependencies) Close() error {
	if d.closeStore != nil {
		return d.closeStore()
	}
	return nil
}
