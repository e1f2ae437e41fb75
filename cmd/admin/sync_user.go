package main

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"horizon/internal/domain/bank"
	"horizon/internal/interfaces/worker"
)

const defaultSyncWorkers = 4

func newSyncUserCmd(run runner) *cobra.Command {
	var (
		userID   string
		workers  int
		jobDelay time.Duration
	)

	cmd := &cobra.Command{
		Use:   "sync-user",
		Short: "Sync every bank of a user through the worker pool",
		RunE: run(func(ctx context.Context, e *env, cmd *cobra.Command) error {
			banks, err := e.banks.ListByUserID(ctx, userID)
			if err != nil {
				return err
			}
			if len(banks) == 0 {
				cmd.Println("No banks to sync")
				return nil
			}

			start := time.Now()
			reports := syncBanks(ctx, e, banks, workers, jobDelay)
			printReports(cmd, reports, time.Since(start))

			for _, r := range reports {
				if r.Err != nil {
					return fmt.Errorf("%d bank(s) failed to sync", countFailed(reports))
				}
			}
			return nil
		}),
	}
	cmd.Flags().StringVar(&userID, "user-id", "", "user id")
	cmd.Flags().IntVar(&workers, "workers", defaultSyncWorkers, "number of concurrent workers")
	cmd.Flags().DurationVar(&jobDelay, "job-delay", 0, "pause between jobs on each worker")
	_ = cmd.MarkFlagRequired("user-id")
	return cmd
}

// syncBanks runs one BankSyncJob per bank and collects their reports in
// bank order.
func syncBanks(ctx context.Context, e *env, banks []*bank.Bank, workers int, jobDelay time.Duration) []worker.SyncReport {
	var mu sync.Mutex
	byBank := make(map[string]worker.SyncReport, len(banks))
	report := func(r worker.SyncReport) {
		mu.Lock()
		defer mu.Unlock()
		byBank[r.BankID] = r
	}

	pool := worker.NewWorkerPool(workers, jobDelay, len(banks), e.logger)
	if deadline, ok := ctx.Deadline(); ok {
		pool.WithJobTimeout(time.Until(deadline))
	}
	pool.Start()

	jobs := make([]worker.Job, 0, len(banks))
	for _, b := range banks {
		jobs = append(jobs, worker.NewBankSyncJob(b, e.syncer, report, e.logger))
	}
	pool.SubmitBatch(jobs)

	waitCtx := ctx
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, worker.DefaultJobTimeout)
		defer cancel()
	}
	done := make(chan struct{})
	go func() {
		pool.Shutdown()
		close(done)
	}()
	select {
	case <-done:
	case <-waitCtx.Done():
	}

	mu.Lock()
	defer mu.Unlock()
	out := make([]worker.SyncReport, 0, len(banks))
	for _, b := range banks {
		r, ok := byBank[b.ID]
		if !ok {
			r = worker.SyncReport{BankID: b.ID, UserID: b.UserID, Err: fmt.Errorf("not synced before timeout")}
		}
		out = append(out, r)
	}
	return out
}

func countFailed(reports []worker.SyncReport) int {
	n := 0
	for _, r := range reports {
		if r.Err != nil {
			n++
		}
	}
	return n
}

func printReports(cmd *cobra.Command, reports []worker.SyncReport, elapsed time.Duration) {
	sorted := append([]worker.SyncReport(nil), reports...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return (sorted[i].Err == nil) && (sorted[j].Err != nil)
	})

	for _, r := range sorted {
		cmd.Printf("\n=== Bank %s ===\n", r.BankID)
		if r.Err != nil {
			cmd.Printf("  Error:        %v\n", r.Err)
			continue
		}
		cmd.Printf("  Transactions: %d\n", r.Transactions)
		cmd.Printf("  Pages:        %d\n", r.Pages)
		cmd.Printf("  Cursor:       %s\n", r.NextCursor)
	}
	cmd.Printf("\nSynced %d/%d bank(s) in %v\n", len(reports)-countFailed(reports), len(reports), elapsed.Round(time.Millisecond))
}
