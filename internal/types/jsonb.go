package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	ierr "github.com/flexprice/paymirror/internal/errors"
)

// JSONB holds a verbatim provider payload and maps onto a postgres jsonb column
type JSONB []byte

func (j JSONB) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return string(j), nil
}

func (j *JSONB) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*j = nil
	case []byte:
		*j = append((*j)[:0], v...)
	case string:
		*j = JSONB(v)
	default:
		return ierr.NewError("unsupported jsonb source").
			WithReportableDetails(map[string]any{"type": fmt.Sprintf("%T", v)}).
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (j JSONB) MarshalJSON() ([]byte, error) {
	if len(j) == 0 {
		return []byte("null"), nil
	}
	return j, nil
}

func (j *JSONB) UnmarshalJSON(data []byte) error {
	*j = append((*j)[:0], data...)
	return nil
}

// RawMessage exposes the payload for json.Unmarshal style consumers
func (j JSONB) RawMessage() json.RawMessage {
	return json.RawMessage(j)
}
