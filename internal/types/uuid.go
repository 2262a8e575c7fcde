package types

import (
	"fmt"
	"strings"
	"sync"

	"github.com/oklog/ulid/v2"
	"github.com/teris-io/shortid"
)

// GenerateUUID returns a k-sortable unique identifier
func GenerateUUID() string {
	return ulid.Make().String()
}

// GenerateUUIDWithPrefix returns a k-sortable unique identifier
// with a prefix ex sale_0ujsswThIGTUYm2K8FjOOfXtY1K
func GenerateUUIDWithPrefix(prefix string) string {
	if prefix == "" {
		return GenerateUUID()
	}
	return fmt.Sprintf("%s_%s", prefix, GenerateUUID())
}

var (
	sidGenerator *shortid.Shortid
	once         sync.Once
)

func initializeSID() {
	var err error
	sidGenerator, err = shortid.New(1, shortid.DefaultABC, 2342)
	if err != nil {
		panic("failed to initialize shortid generator: " + err.Error())
	}
}

// GenerateShortIDWithPrefix returns a short ID with a prefix.
// Total length is capped at 12 characters, e.g., `PM-XYZ12A8Q`.
func GenerateShortIDWithPrefix(prefix string) string {
	once.Do(initializeSID)

	id, err := sidGenerator.Generate()
	if err != nil {
		return ""
	}
	id = strings.ReplaceAll(id, "-", "")

	availableLen := 12 - len(prefix)
	if availableLen <= 0 {
		return ""
	}

	if len(id) > availableLen {
		id = id[:availableLen]
	}

	return strings.ToUpper(prefix + id)
}

const (
	UUID_PREFIX_WEBHOOK_EVENT      = "whevt"
	UUID_PREFIX_PLAN               = "plan"
	UUID_PREFIX_PAYMENT_DEFINITION = "pdef"
	UUID_PREFIX_AGREEMENT          = "agr"
	UUID_PREFIX_PAYMENT            = "pay"
	UUID_PREFIX_PAYMENT_TXN        = "ptxn"
	UUID_PREFIX_SALE               = "sale"
	UUID_PREFIX_AUTHORIZATION      = "auth"
	UUID_PREFIX_CAPTURE            = "cap"
	UUID_PREFIX_REFUND             = "ref"
	UUID_PREFIX_TRANSACTION_LOG    = "ptlog"
)

const (
	SHORT_ID_PREFIX_INVOICE = "PM-"
)
