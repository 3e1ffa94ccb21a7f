package postgresengine

import (
	"context"
	"errors"
	"fmt"
)

// ErrCreatingSchemaFailed is returned by CreateSchema.
var ErrCreatingSchemaFailed = errors.New("creating the events table schema failed")

const logMsgSchemaEnsured = "schema ensured"

// CreateSchema creates the events table and its indexes if they do not exist yet.
// The GIN index with jsonb_path_ops serves the payload containment predicates of the filters.
func (es *EventStore) CreateSchema(ctx context.Context) error {
	statements := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %[1]s (
			%[2]s BIGSERIAL PRIMARY KEY,
			%[3]s TIMESTAMP WITH TIME ZONE NOT NULL,
			%[4]s TEXT NOT NULL,
			%[5]s JSONB NOT NULL,
			%[6]s JSONB NOT NULL
		)`, es.eventTableName, colSequenceNumber, colOccurredAt, colEventType, colPayload, colMetadata),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %[1]s_%[2]s_idx ON %[1]s (%[2]s)`, es.eventTableName, colEventType),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %[1]s_%[2]s_idx ON %[1]s USING gin (%[2]s jsonb_path_ops)`, es.eventTableName, colPayload),
	}

	for _, statement := range statements {
		if _, err := es.db.Exec(ctx, statement); err != nil {
			es.logError(ctx, ErrCreatingSchemaFailed.Error(), err)
			return errors.Join(ErrCreatingSchemaFailed, err)
		}
	}

	es.logOperation(ctx, logMsgSchemaEnsured)

	return nil
}
