// Command admin runs maintenance tasks against the Horizon document store
// and the aggregator.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"horizon/internal/domain/account"
	"horizon/internal/domain/bank"
	"horizon/internal/domain/openfinance"
	"horizon/internal/domain/transaction"
	"horizon/internal/infrastructure/crypto"
	"horizon/internal/infrastructure/docstore"
	"horizon/internal/infrastructure/plaid"
	"horizon/internal/shared/config"
	"horizon/internal/shared/logger"
)

// env is what every command needs, built once per invocation.
type env struct {
	cfg      *config.Config
	logger   *zap.Logger
	banks    bank.Repository
	syncer   *openfinance.TransactionSyncer
	accounts *account.Service
	close    func() error
}

func newEnv(ctx context.Context) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	store, closeStore, err := docstore.Open(ctx, cfg.DocumentStore, log)
	if err != nil {
		return nil, err
	}

	encryptor, err := crypto.NewEncryptor(cfg.Encryption.Key)
	if err != nil {
		_ = closeStore()
		return nil, err
	}

	banks := docstore.NewBankRepository(store, cfg.DocumentStore.BankCollection, encryptor, log)
	transactions := docstore.NewTransactionRepository(store, cfg.DocumentStore.TransactionCollection)
	aggregator := plaid.NewClient(cfg.Plaid.ClientID, cfg.Plaid.Secret, cfg.Plaid.Environment)
	syncer := openfinance.NewTransactionSyncer(aggregator, cfg.Sync.MaxPages, cfg.Sync.PageSize, log)

	return &env{
		cfg:      cfg,
		logger:   log,
		banks:    banks,
		syncer:   syncer,
		accounts: account.NewService(banks, transactions, aggregator, syncer, cfg.Plaid.CountryCodes, log),
		close: func() error {
			_ = log.Sync()
			return closeStore()
		},
	}, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var timeout time.Duration

	root := &cobra.Command{
		Use:           "admin",
		Short:         "Horizon admin CLI",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Minute, "timeout for the whole command")

	// run wraps a command body with config loading and the timeout.
	run := func(fn func(ctx context.Context, e *env, cmd *cobra.Command) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			e, err := newEnv(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = e.close() }()

			return fn(ctx, e, cmd)
		}
	}

	root.AddCommand(
		newAccountsCmd(run),
		newSyncCmd(run),
		newSyncUserCmd(run),
	)
	return root
}

type runner func(fn func(ctx context.Context, e *env, cmd *cobra.Command) error) func(*cobra.Command, []string) error

func newAccountsCmd(run runner) *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "List a user's linked accounts with live balances",
		RunE: run(func(ctx context.Context, e *env, cmd *cobra.Command) error {
			summary, err := e.accounts.ListAccounts(ctx, userID)
			if err != nil {
				return err
			}
			printSummary(cmd, summary)
			return nil
		}),
	}
	cmd.Flags().StringVar(&userID, "user-id", "", "user id")
	_ = cmd.MarkFlagRequired("user-id")
	return cmd
}

func newSyncCmd(run runner) *cobra.Command {
	var bankID string

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Run a full transaction sync for one bank",
		RunE: run(func(ctx context.Context, e *env, cmd *cobra.Command) error {
			b, err := e.banks.GetByID(ctx, bankID)
			if err != nil {
				return err
			}
			if !b.HasCredential() {
				return fmt.Errorf("bank %s has no credential", b.ID)
			}

			start := time.Now()
			result, err := e.syncer.Sync(ctx, b.AccessToken)
			if err != nil {
				return err
			}
			transaction.SortNewestFirst(result.Added)
			printSyncResult(cmd, b.ID, result, time.Since(start))
			return nil
		}),
	}
	cmd.Flags().StringVar(&bankID, "bank-id", "", "bank document id")
	_ = cmd.MarkFlagRequired("bank-id")
	return cmd
}
