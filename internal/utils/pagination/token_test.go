package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeToken(t *testing.T) {
	entryDate := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	token := EncodeToken(entryDate, "JV-202401-0007")
	assert.NotEmpty(t, token, "Token should not be empty")

	decodedDate, decodedNumber, err := DecodeToken(token)
	assert.NoError(t, err, "Decoding should not return an error")
	assert.Equal(t, entryDate, decodedDate, "Entry date should match after decode")
	assert.Equal(t, "JV-202401-0007", decodedNumber, "Entry number should match after decode")

	now := time.Now().UTC()
	decodedNow, _, err := DecodeToken(EncodeToken(now, "JV-1"))
	assert.NoError(t, err)
	assert.True(t, now.Equal(decodedNow), "Current time should match after decode")
}

func TestDecodeTokenError(t *testing.T) {
	_, _, err := DecodeToken("this is not base64!")
	assert.Error(t, err, "Should return an error for invalid base64")
	assert.Contains(t, err.Error(), "base64 decode")

	noSeparator := base64.StdEncoding.EncodeToString([]byte("2024-01-15T00:00:00Z"))
	_, _, err = DecodeToken(noSeparator)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "split")

	badDate := base64.StdEncoding.EncodeToString([]byte("notadate|JV-202401-0001"))
	_, _, err = DecodeToken(badDate)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "entry date parse")
}

func TestAfter(t *testing.T) {
	d1 := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC)

	assert.True(t, After(d1, "JV-202401-0009", d2, "JV-202401-0001"), "older date comes later in a newest-first listing")
	assert.False(t, After(d2, "JV-202401-0001", d1, "JV-202401-0009"))
	assert.True(t, After(d1, "JV-202401-0002", d1, "JV-202401-0003"))
	assert.False(t, After(d1, "JV-202401-0003", d1, "JV-202401-0003"))
}
