package main

import (
	"time"

	"github.com/spf13/cobra"

	"horizon/internal/domain/account"
	"horizon/internal/domain/openfinance"
)

// previewLimit caps how many transactions sync prints.
const previewLimit = 10

func printSummary(cmd *cobra.Command, summary *account.Summary) {
	for _, a := range summary.Data {
		current := "n/a"
		if a.CurrentBalance.Valid {
			current = a.CurrentBalance.Decimal.StringFixed(2)
		}
		cmd.Printf("%-28s %-24s ****%-4s %12s  (bank %s)\n", a.Name, a.InstitutionName, a.Mask, current, a.AppwriteItemID)
	}
	cmd.Printf("\nBanks: %d  Total current balance: %s\n", summary.TotalBanks, summary.TotalCurrentBalance.StringFixed(2))
}

func printSyncResult(cmd *cobra.Command, bankID string, result *openfinance.SyncResult, elapsed time.Duration) {
	cmd.Printf("Bank %s: %d transaction(s) over %d page(s) in %v\n",
		bankID, len(result.Added), result.Pages, elapsed.Round(time.Millisecond))
	cmd.Printf("Next cursor: %s\n\n", result.NextCursor)

	for i, t := range result.Added {
		if i == previewLimit {
			cmd.Printf("... and %d more\n", len(result.Added)-previewLimit)
			break
		}
		cmd.Printf("%s  %-32s %12s  %s\n", t.Date.Format(time.DateOnly), t.Name, t.Amount.StringFixed(2), t.Category)
	}
}
