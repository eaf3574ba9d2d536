package errors

import (
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"plain", Input("city is required"), "[INPUT_ERROR] city is required"},
		{"formatted", Inputf("overrides[%d]: pax must be positive", 2), "[INPUT_ERROR] overrides[2]: pax must be positive"},
		{"cause", Parsing("invalid JSON body", io.ErrUnexpectedEOF), "[PARSING_ERROR] invalid JSON body: unexpected EOF"},
		{
			"context in key order",
			Rates("failed to read rate file", io.EOF).WithContext("path", "rates.hcl").WithContext("format", "hcl"),
			"[RATES_ERROR] failed to read rate file (format=hcl, path=rates.hcl): EOF",
		},
		{"not found", NotFound("quote file", "tour.yaml"), "[NOT_FOUND] quote file not found: tour.yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestTypeOf(t *testing.T) {
	wrapped := fmt.Errorf("loading: %w", NotSupported("rate file extension .ini"))
	require.Equal(t, TypeNotSupported, TypeOf(wrapped))
	require.True(t, IsType(wrapped, TypeNotSupported))
	require.ErrorIs(t, Config("bad config", io.EOF), io.EOF)

	require.Equal(t, TypeInternal, TypeOf(io.EOF))
	require.False(t, IsType(nil, TypeInternal))
	require.False(t, IsType(io.EOF, TypeInput))
}
