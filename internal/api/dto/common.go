package dto

import (
	"bytes"

	ierr "github.com/flexprice/paymirror/internal/errors"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// SuccessResponse represents a generic success response
type SuccessResponse struct {
	Message string `json:"message"`
}

// HealthResponse is returned by the health check
type HealthResponse struct {
	Status string `json:"status"`
}

// ProviderRequest is a client payload forwarded to the provider as is
type ProviderRequest struct {
	Body []byte
}

// NewProviderRequest accepts raw only when it is a JSON object
func NewProviderRequest(raw []byte) (*ProviderRequest, error) {
	if len(raw) == 0 || !json.Valid(raw) || json.Get(raw).ValueType() != jsoniter.ObjectValue {
		return nil, ierr.NewError("request body is not a JSON object").
			WithHint("Invalid json format").
			Mark(ierr.ErrValidation)
	}
	return &ProviderRequest{Body: raw}, nil
}

// Fields decodes the payload into a generic object. Numbers are kept as
// json.Number so amounts survive a round trip unchanged.
func (r *ProviderRequest) Fields() (map[string]interface{}, error) {
	var fields map[string]interface{}
	dec := json.NewDecoder(bytes.NewReader(r.Body))
	dec.UseNumber()
	if err := dec.Decode(&fields); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Invalid json format").
			Mark(ierr.ErrValidation)
	}
	return fields, nil
}
