package amqp

import (
	"encoding/json"
	"errors"
	"time"
)

// ExportRequested asks the worker to export the report for a filter window.
// Start and End are only meaningful for the custom range.
type ExportRequested struct {
	Range       string    `json:"range"`
	Start       string    `json:"start,omitempty"`
	End         string    `json:"end,omitempty"`
	RequestedAt time.Time `json:"requested_at"`
}

var ErrMissingRange = errors.New("export request without range")

func NewExportRequested(rng, start, end string) *ExportRequested {
	return &ExportRequested{
		Range:       rng,
		Start:       start,
		End:         end,
		RequestedAt: time.Now(),
	}
}

func (m *ExportRequested) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ExportRequestedFromJSON decodes a message body; a message without a range is rejected.
func ExportRequestedFromJSON(data []byte) (*ExportRequested, error) {
	var msg ExportRequested
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Range == "" {
		return nil, ErrMissingRange
	}
	return &msg, nil
}
