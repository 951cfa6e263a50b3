package health

import (
	"context"
	"fmt"

	"github.com/dmitrymomot/lessweb/pkg/fsstat"
)

// DirCheck reports whether path is still an accessible directory.
// lessweb uses it to flag a served root that was removed or unmounted.
func DirCheck(path string) CheckFunc {
	return func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		switch fsstat.Stat(path) {
		case fsstat.Directory:
			return nil
		case fsstat.RegularFile:
			return fmt.Errorf("%w: %w: %s", ErrCheckFailed, ErrNotDirectory, path)
		default:
			return fmt.Errorf("%w: %s is missing or unreadable", ErrCheckFailed, path)
		}
	}
}
