package services

import (
	"context"
	"fmt"

	"github.com/tvu/thesisdesk/internal/pkg/apperrors"
	"github.com/tvu/thesisdesk/internal/pkg/dberrors"
	"github.com/tvu/thesisdesk/internal/pkg/logger"
)

// withRetry runs op and retries it exactly once when the failure looks like
// a transient transport problem. Anything beyond that single retry is
// surfaced as a store-unavailable error for the caller to handle.
func withRetry(ctx context.Context, name string, op func(context.Context) error) error {
	err := op(ctx)
	if err == nil || !dberrors.IsTransient(err) {
		return err
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}

	logger.Warn().Err(err).Str("op", name).Msg("Transient store failure, retrying once")
	if err = op(ctx); err != nil {
		if dberrors.IsTransient(err) {
			return apperrors.New(apperrors.ErrStoreUnavailable,
				fmt.Sprintf("%s failed after retry: %v", name, err))
		}
		return err
	}
	return nil
}
