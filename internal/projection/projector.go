// Package projection maps provider resource bodies onto the local record types.
// Every function here is pure: no ids are generated and no clock is read.
// Absent optional fields project to nil and never fail; only a missing
// identity or a body that is not a JSON object is reported.
package projection

import (
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	ierr "github.com/flexprice/paymirror/internal/errors"
	"github.com/flexprice/paymirror/internal/types"
	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// object parses raw and requires a JSON object at the top level
func object(raw []byte, kind types.ResourceKind) (jsoniter.Any, error) {
	if !json.Valid(raw) {
		return nil, ierr.NewErrorf("%s body is not valid JSON", kind).
			WithHintf("The %s body could not be read", kind).
			Mark(ierr.ErrMalformedPayload)
	}
	body := json.Get(raw)
	if body.LastError() != nil || body.ValueType() != jsoniter.ObjectValue {
		return nil, ierr.NewErrorf("%s body is not a JSON object", kind).
			WithHintf("The %s body could not be read", kind).
			Mark(ierr.ErrMalformedPayload)
	}
	return body, nil
}

func present(a jsoniter.Any) bool {
	if a == nil {
		return false
	}
	t := a.ValueType()
	return t != jsoniter.InvalidValue && t != jsoniter.NilValue
}

func str(a jsoniter.Any) string {
	if !present(a) {
		return ""
	}
	switch a.ValueType() {
	case jsoniter.StringValue, jsoniter.NumberValue, jsoniter.BoolValue:
		return strings.TrimSpace(a.ToString())
	}
	return ""
}

func optStr(a jsoniter.Any) *string {
	s := str(a)
	if s == "" {
		return nil
	}
	return &s
}

// optInt accepts numbers and numeric strings, the provider sends both
func optInt(a jsoniter.Any) *int {
	s := str(a)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

func optBool(a jsoniter.Any) bool {
	if !present(a) {
		return false
	}
	if a.ValueType() == jsoniter.BoolValue {
		return a.ToBool()
	}
	b, err := strconv.ParseBool(str(a))
	return err == nil && b
}

func optTime(a jsoniter.Any) *time.Time {
	s := str(a)
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	t = t.UTC()
	return &t
}

// money reads an amount and its currency from the same sub-object.
// Both are returned or neither: a value without a currency is dropped.
func money(obj jsoniter.Any, valueKey string) (*decimal.Decimal, *string) {
	if !present(obj) || obj.ValueType() != jsoniter.ObjectValue {
		return nil, nil
	}
	currency := optStr(obj.Get("currency"))
	value := str(obj.Get(valueKey))
	if currency == nil || value == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return nil, nil
	}
	return &d, currency
}

// rawJSON returns the verbatim JSON text of a nested object or array
func rawJSON(a jsoniter.Any) types.JSONB {
	if !present(a) {
		return nil
	}
	switch a.ValueType() {
	case jsoniter.ObjectValue, jsoniter.ArrayValue:
		return types.JSONB(a.ToString())
	}
	return nil
}

// each calls fn for every element of an array, skipping anything else
func each(a jsoniter.Any, fn func(item jsoniter.Any)) {
	if !present(a) || a.ValueType() != jsoniter.ArrayValue {
		return
	}
	for i := 0; i < a.Size(); i++ {
		fn(a.Get(i))
	}
}

// linkHref returns the href of the first HATEOAS link with the given rel
func linkHref(links jsoniter.Any, rel string) *string {
	var href *string
	each(links, func(link jsoniter.Any) {
		if href == nil && strings.EqualFold(str(link.Get("rel")), rel) {
			href = optStr(link.Get("href"))
		}
	})
	return href
}

func lastPathSegment(href string) string {
	u, err := url.Parse(href)
	if err != nil || u.Path == "" {
		return ""
	}
	seg := path.Base(u.Path)
	if seg == "/" || seg == "." {
		return ""
	}
	return seg
}

// TokenFromApprovalURL extracts the approval token the provider appends to an
// approval url. It prefers the token parameter and falls back to the value of
// the last query parameter.
func TokenFromApprovalURL(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if token := u.Query().Get("token"); token != "" {
		return token
	}
	pairs := strings.Split(u.RawQuery, "&")
	last := pairs[len(pairs)-1]
	if i := strings.IndexByte(last, '='); i >= 0 {
		v, err := url.QueryUnescape(last[i+1:])
		if err == nil {
			return v
		}
	}
	return ""
}
