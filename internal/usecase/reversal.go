package usecase

import (
	"context"
	"fmt"

	"github.com/openfx/backoffice/internal/domain"
)

// Reverse applies the exact algebraic inverse of a committed journal entry:
// stock deltas are negated, the running-account movement is inverted and
// soft-deleted, and the entry is marked reversed. The whole reversal is one
// atomic transaction; reversing twice fails with ErrAlreadyReversed.
func (uc *TransactionUseCase) Reverse(ctx context.Context, id string) error {
	entry, err := uc.journalRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if entry.Reversed() {
		return domain.ErrAlreadyReversed
	}

	window, err := uc.params.DateWindow(ctx)
	if err != nil {
		return fmt.Errorf("load date window: %w", err)
	}

	// The window is judged against the entry's own operation date, exactly
	// as it would be for creating an entry on that date.
	if !window.Allows(uc.now(), entry.OperationDate) {
		if uc.metrics != nil {
			uc.metrics.DateWindowRejections.Inc()
		}
		return &domain.DateWindowError{OperationDate: entry.OperationDate, Window: window}
	}

	operation := func() error {
		return uc.executeReverse(ctx, id)
	}

	if uc.retrier != nil {
		err = uc.retrier.Retry(ctx, operation)
	} else {
		err = operation()
	}

	if err != nil {
		return err
	}

	if uc.metrics != nil {
		uc.metrics.TransactionsReversed.Inc()
	}

	return nil
}

func (uc *TransactionUseCase) executeReverse(ctx context.Context, id string) error {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// Re-read under the row lock: two concurrent reversals of the same
	// entry must serialize, and the loser must see the reversed status.
	entry, err := uc.journalRepo.GetByIDForUpdate(ctx, tx, id)
	if err != nil {
		return err
	}

	if entry.Reversed() {
		return domain.ErrAlreadyReversed
	}

	now := uc.now().UTC()

	if entry.AffectsStock && (entry.In != nil || entry.Out != nil) {
		if _, err := uc.lockStocks(ctx, tx, legCurrencyIDs(entry.In, entry.Out)); err != nil {
			return err
		}

		// The inverse of the original debit/credit pair. Reversal debits
		// are never guarded: restoring prior state must always succeed,
		// even if it drives a balance negative relative to concurrent
		// activity.
		if entry.Out != nil {
			if _, err := uc.stockRepo.AddToBalance(ctx, tx, entry.Out.CurrencyID, entry.Out.Amount, now); err != nil {
				return err
			}
		}

		if entry.In != nil {
			if _, err := uc.stockRepo.AddToBalance(ctx, tx, entry.In.CurrencyID, entry.In.Amount.Neg(), now); err != nil {
				return err
			}
		}
	}

	movement, err := uc.accountRepo.GetMovementByEntry(ctx, tx, entry.ID)
	if err != nil {
		return err
	}

	if movement != nil && movement.Status == domain.EntryStatusActive {
		if _, err := uc.accountRepo.LockBalance(ctx, tx, movement.ClientID, movement.CurrencyID); err != nil {
			return err
		}

		if _, err := uc.accountRepo.AddToBalance(ctx, tx, movement.ClientID, movement.CurrencyID, movement.Delta().Neg(), now); err != nil {
			return err
		}

		if err := uc.accountRepo.MarkMovementReversed(ctx, tx, movement.ID, now); err != nil {
			return err
		}
	}

	if err := uc.journalRepo.MarkReversed(ctx, tx, entry.ID, now); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
