package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeText(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		encoding string
		want     string
	}{
		{"plain utf-8", []byte("héllo"), "UTF-8", "héllo"},
		{"default is utf-8", []byte("héllo"), "", "héllo"},
		{"bom stripped", []byte("\xEF\xBB\xBFkey"), "utf8", "key"},
		{"windows-1252", []byte("caf\xe9"), "Windows-1252", "café"},
		{"latin1 alias", []byte("caf\xe9"), "ISO-8859-1", "café"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeText(tt.data, tt.encoding)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeText_Errors(t *testing.T) {
	_, err := DecodeText([]byte("caf\xe9"), "utf-8")
	assert.ErrorIs(t, err, ErrInvalidUTF8)

	_, err = DecodeText([]byte("x"), "no-such-charset")
	assert.ErrorContains(t, err, "unsupported encoding")
}
