// This file contains test helpers only available during testing.
package postgres

import (
	"context"
	"fmt"
)

// TruncateForTest removes all snapshot rows. It is defined in the postgres
// package (not the _test package) so it has access to the unexported db
// field, and exported so the postgres_test package can call it.
func (s *SnapshotStore) TruncateForTest(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "TRUNCATE TABLE snapshots CASCADE")
	if err != nil {
		return fmt.Errorf("postgres: failed to truncate snapshots: %w", err)
	}
	return nil
}
