package dataverse

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// RecordPath returns the single-record path for entitySet and id.
func RecordPath(entitySet, id string) (string, error) {
	parsed, err := parseID(id)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s(%s)", entitySet, parsed), nil
}

// Record fetches one record by id and returns the raw JSON body.
func (c *Client) Record(ctx context.Context, entitySet, id string) ([]byte, error) {
	path, err := RecordPath(entitySet, id)
	if err != nil {
		return nil, err
	}
	return c.Get(ctx, path)
}

// parseID validates a GUID and returns its canonical form.
func parseID(id string) (string, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidRecordID, id)
	}
	return parsed.String(), nil
}
