package store

import (
	"context"
	"encoding/json"

	"github.com/example/tablebook/internal/notify"
)

// RecordNotificationFailure persists an undeliverable notification for an
// external retry process. The engine itself never retries delivery.
func (s *Store) RecordNotificationFailure(ctx context.Context, ev notify.Event, sendErr error) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return s.db.Exec(ctx, `
INSERT INTO notification_failures(kind, payload, error)
VALUES ($1,$2,$3)`,
		string(ev.Kind), payload, sendErr.Error())
}
