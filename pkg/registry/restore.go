package registry

import (
	"errors"
	"fmt"
	"math"

	"github.com/praetorian-inc/regcache/pkg/types"
)

// Source supplies the live entries of a journal.
type Source interface {
	// Live returns entries compiled and not yet released, ordered by handle.
	Live() ([]types.Entry, error)

	// MaxHandle returns the largest handle ever recorded, or InvalidHandle
	// when the journal is empty.
	MaxHandle() (types.Handle, error)
}

// RestoreFrom re-registers every live entry of src under its original handle
// and moves the counter past every handle src has seen, released or not.
// Entries whose pattern no longer compiles are skipped and reported together
// in the returned error; the rest are restored.
func (r *Registry) RestoreFrom(src Source) (int, error) {
	maxHandle, err := src.MaxHandle()
	if err != nil {
		return 0, fmt.Errorf("reading journal: %w", err)
	}
	if maxHandle.Valid() && maxHandle < math.MaxInt64 {
		r.Reserve(maxHandle + 1)
	}

	entries, err := src.Live()
	if err != nil {
		return 0, fmt.Errorf("reading journal: %w", err)
	}

	restored := 0
	var errs []error
	for _, e := range entries {
		if err := r.Restore(e); err != nil {
			r.cfg.logger.Warn("restore skipped", "handle", e.Handle, "error", err)
			errs = append(errs, err)
			continue
		}
		restored++
	}

	r.cfg.logger.Debug("restored from journal", "restored", restored, "skipped", len(errs))
	return restored, errors.Join(errs...)
}
