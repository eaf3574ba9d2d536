package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseBoard(t *testing.T) {
	tests := []struct {
		in   string
		want Board
		ok   bool
	}{
		{"", BoardBB, true},
		{"BB", BoardBB, true},
		{"h/b", BoardHB, true},
		{"Half Board", BoardHB, true},
		{"sgl supplement", BoardSGLSupplement, true},
		{"single", BoardSGLSupplement, true},
		{"SGL+HB", BoardSGLHB, true},
		{"FB", Board("FB"), false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseBoard(tt.in)
			require.Equal(t, tt.want, got)
			require.Equal(t, tt.ok, ok)
		})
	}
	require.True(t, IsBoard(""))
	require.False(t, IsBoard("HB"))
}

func TestBoardDecoding(t *testing.T) {
	var sel AccommodationSelection
	require.NoError(t, json.Unmarshal([]byte(`{"board": "hb"}`), &sel))
	require.Equal(t, BoardHB, sel.Board)
	require.Error(t, json.Unmarshal([]byte(`{"board": "all inclusive"}`), &sel))

	require.NoError(t, yaml.Unmarshal([]byte("board: single hb\n"), &sel))
	require.Equal(t, BoardSGLHB, sel.Board)
	require.Error(t, yaml.Unmarshal([]byte("board: FB\n"), &sel))
}

func TestTransportTypeDecoding(t *testing.T) {
	var day ItineraryDay
	require.NoError(t, json.Unmarshal([]byte(`{"transport_type": "half-day"}`), &day))
	require.Equal(t, TransportHalfDay, day.TransportType)

	require.NoError(t, yaml.Unmarshal([]byte("transport_type: none\n"), &day))
	require.Equal(t, TransportNone, day.TransportType)

	require.NoError(t, yaml.Unmarshal([]byte("transport_type: Jeep Shuttle\n"), &day))
	require.Equal(t, TransportType("Jeep Shuttle"), day.TransportType)
}
