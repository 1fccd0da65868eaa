// Package worker recomputes account balance snapshots on transaction change
// events and drains pending spreadsheet exports.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"haushalt/internal/amqp"
	"haushalt/internal/export/gsheet"
	"haushalt/internal/log"
	"haushalt/internal/metrics"
	"haushalt/internal/services"
	"haushalt/internal/storage"
)

type Worker struct {
	storage   *storage.SQLiteRepository
	balances  *services.BalanceService
	exporter  gsheet.Appender
	batchSize int
}

func New(repo *storage.SQLiteRepository, balances *services.BalanceService, exporter gsheet.Appender, batchSize int) *Worker {
	if batchSize <= 0 {
		batchSize = 50
	}
	return &Worker{
		storage:   repo,
		balances:  balances,
		exporter:  exporter,
		batchSize: batchSize,
	}
}

// HandleChangeMessage refreshes the cached balance of the account named in a
// change event. Deleted transactions are handled the same way; the balance is
// always recomputed from the surviving rows.
func (w *Worker) HandleChangeMessage(ctx context.Context, msg *amqp.TransactionChangedMessage) error {
	slog.InfoContext(ctx, "Processing change event",
		log.FieldTransactionID, msg.TransactionID,
		log.FieldAccountID, msg.AccountID,
		"action", msg.Action)

	owner, err := w.storage.AccountOwner(ctx, msg.AccountID)
	if err != nil {
		return fmt.Errorf("resolve account owner: %w", err)
	}

	sum, err := w.balances.AccountBalance(ctx, owner, msg.AccountID)
	if err != nil {
		return fmt.Errorf("recompute balance: %w", err)
	}

	if err := w.storage.SnapshotAccountBalance(ctx, owner, msg.AccountID, sum.Balance); err != nil {
		return fmt.Errorf("snapshot balance: %w", err)
	}

	metrics.BalancesSnapshotted.Inc()
	slog.InfoContext(ctx, "Balance snapshot updated",
		log.FieldAccountID, msg.AccountID,
		log.FieldBalance, sum.Balance.String(),
		"transactions", sum.TransactionCount)
	return nil
}

// ProcessPendingExports appends unexported transactions to the spreadsheet.
// This is a backup sweep in case change events were lost; failures mark the
// row so the next sweep retries it.
func (w *Worker) ProcessPendingExports(ctx context.Context) error {
	return w.exportPending(ctx, w.batchSize)
}

// StartupCheck drains a larger backlog once at worker start to recover from
// downtime.
func (w *Worker) StartupCheck(ctx context.Context) error {
	return w.exportPending(ctx, w.batchSize*5)
}

func (w *Worker) exportPending(ctx context.Context, limit int) error {
	if w.exporter == nil {
		return nil
	}

	pending, err := w.storage.ListPendingExports(ctx, limit)
	if err != nil {
		return fmt.Errorf("list pending exports: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Exporting pending transactions", "count", len(pending))

	exported := 0
	for _, p := range pending {
		ref, err := w.exporter.Append(ctx, exportRow(p))
		if err != nil {
			metrics.ExportErrors.Inc()
			slog.ErrorContext(ctx, "Failed to export transaction",
				log.FieldTransactionID, p.ID, log.FieldError, err)
			if markErr := w.storage.MarkTransactionSyncError(ctx, p.ID); markErr != nil {
				slog.ErrorContext(ctx, "Failed to mark export error",
					log.FieldTransactionID, p.ID, log.FieldError, markErr)
			}
			continue
		}

		if err := w.storage.MarkTransactionSynced(ctx, p.ID); err != nil {
			// The append succeeded; the row will be re-exported next sweep.
			slog.ErrorContext(ctx, "Failed to mark transaction exported",
				log.FieldTransactionID, p.ID, log.FieldError, err)
			continue
		}

		metrics.TransactionsExported.Inc()
		exported++
		slog.InfoContext(ctx, "Exported transaction",
			log.FieldTransactionID, p.ID, log.FieldSheetsRef, ref)
	}

	slog.InfoContext(ctx, "Export sweep finished",
		"total", len(pending), "exported", exported, "errors", len(pending)-exported)
	return nil
}

func exportRow(p storage.ExportTransaction) gsheet.Row {
	return gsheet.Row{
		ID:           string(p.ID),
		Owner:        p.Owner,
		AccountName:  p.AccountName,
		Date:         p.Date.Format("2006-01-02"),
		Amount:       p.Amount.String(),
		Note:         p.Note,
		CategoryName: p.CategoryName,
		CategoryType: string(p.CategoryType),
	}
}
