package ledger_test

import (
	"testing"

	"github.com/example/freshmart/pkg/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpreadsheetIDFromURL(t *testing.T) {
	id, err := ledger.SpreadsheetIDFromURL("https://docs.google.com/spreadsheets/d/1AbC-def_123/edit#gid=0")
	require.NoError(t, err)
	assert.Equal(t, "1AbC-def_123", id)
}

func TestSpreadsheetIDFromURLBareID(t *testing.T) {
	id, err := ledger.SpreadsheetIDFromURL("https://docs.google.com/spreadsheets/d/xyz789")
	require.NoError(t, err)
	assert.Equal(t, "xyz789", id)
}

func TestSpreadsheetIDFromURLInvalid(t *testing.T) {
	for _, u := range []string{"", "https://example.com/doc", "spreadsheets/d/"} {
		_, err := ledger.SpreadsheetIDFromURL(u)
		assert.Error(t, err, "url %q", u)
	}
}
