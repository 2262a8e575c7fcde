package s3

import (
	"context"
	"testing"

	"github.com/flexprice/paymirror/internal/config"
	"github.com/flexprice/paymirror/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "notifications/sale/WH-1.json", ObjectKey("/notifications/", "SALE", "WH-1"))
	assert.Equal(t, "plan/WH-2.json", ObjectKey("", "plan", "WH-2"))
	assert.Equal(t, "raw/unknown/WH-3.json", ObjectKey("raw", "", "WH-3"))
}

func TestDisabledArchiverIsNoop(t *testing.T) {
	a, err := NewArchiver(config.GetDefaultConfig(), logger.NewNopLogger())
	require.NoError(t, err)
	assert.NoError(t, a.Archive(context.Background(), "sale", "WH-1", []byte(`{}`)))
}
