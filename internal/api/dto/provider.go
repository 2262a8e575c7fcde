package dto

import (
	"github.com/flexprice/paymirror/internal/gateway"
	"github.com/flexprice/paymirror/internal/types"
	jsoniter "github.com/json-iterator/go"
)

// ProviderResponse carries a provider answer back to the client.
//
// Failed provider calls are returned verbatim with the provider's status.
// Successful calls that recorded a local resource are wrapped together with
// the local id under the resource kind, e.g. {"id": "...", "plan": {...}}.
type ProviderResponse struct {
	StatusCode int
	Kind       types.ResourceKind
	LocalID    string
	Body       []byte
}

// NewProviderResponse returns res unchanged, without a local record
func NewProviderResponse(res *gateway.Result) *ProviderResponse {
	return &ProviderResponse{StatusCode: res.StatusCode, Body: res.Body}
}

// NewRecordedResponse returns res together with the id of the local record it produced
func NewRecordedResponse(res *gateway.Result, kind types.ResourceKind, localID string) *ProviderResponse {
	return &ProviderResponse{
		StatusCode: res.StatusCode,
		Kind:       kind,
		LocalID:    localID,
		Body:       res.Body,
	}
}

func (r *ProviderResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Render returns the response body to write for the client
func (r *ProviderResponse) Render() ([]byte, error) {
	if !r.OK() || r.LocalID == "" {
		if len(r.Body) == 0 {
			return []byte("{}"), nil
		}
		return r.Body, nil
	}

	body := r.Body
	if len(body) == 0 {
		body = []byte("{}")
	}
	return json.Marshal(map[string]interface{}{
		"id":           r.LocalID,
		string(r.Kind): jsoniter.RawMessage(body),
	})
}
