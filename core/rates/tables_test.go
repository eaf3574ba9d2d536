package rates

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestAmountUnmarshalJSON(t *testing.T) {
	var row struct {
		A Amount `json:"a"`
		B Amount `json:"b"`
		C Amount `json:"c"`
		D Amount `json:"d"`
		E Amount `json:"e"`
	}
	err := json.Unmarshal([]byte(`{"a": 12.5, "b": "40", "c": "n/a", "d": null, "e": "0.00"}`), &row)
	require.NoError(t, err)

	require.Equal(t, "12.5", row.A.Value.String())
	require.Equal(t, "40", row.B.Value.String())
	require.True(t, row.C.Invalid)
	require.True(t, row.C.Value.IsZero())
	require.False(t, row.D.Invalid)
	require.False(t, row.E.Invalid)
}

func TestAmountUnmarshalYAML(t *testing.T) {
	var row struct {
		A Amount `yaml:"a"`
		B Amount `yaml:"b"`
		C Amount `yaml:"c"`
	}
	err := yaml.Unmarshal([]byte("a: 21.16\nb: \"7\"\nc: [1, 2]\n"), &row)
	require.NoError(t, err)

	require.Equal(t, "21.16", row.A.Value.String())
	require.Equal(t, "7", row.B.Value.String())
	require.True(t, row.C.Invalid)
}

func TestTablesDecodeJSON(t *testing.T) {
	doc := `{
	  "hotel_rates": [{"City": "Amman", "Stars": "4", "Hotel": "Grand Hills", "Season": "Low", "Rate_DBL": "60", "Rate_SGL": 30, "Rate_HB": 15}],
	  "special_rates": [{"City": "Amman", "Stars": "4", "Hotel": "Grand Hills", "Season": "Low", "Rate_DBL": 55, "AgentID": "AG-1"}],
	  "calendar": [{"hotel": "Grand Hills", "seasons": [{"season": "Low", "ranges": [{"startDate": "2026-05-01", "endDate": "2026-06-30"}]}]}]
	}`
	var tables Tables
	require.NoError(t, json.Unmarshal([]byte(doc), &tables))

	require.Len(t, tables.HotelRates, 1)
	require.Equal(t, "60", tables.HotelRates[0].DBL.Value.String())
	require.Equal(t, "AG-1", tables.SpecialRates[0].AgentID)
	require.Equal(t, "Grand Hills", tables.SpecialRates[0].Hotel)
	require.Equal(t, 2026, tables.Calendar[0].Seasons[0].Ranges[0].Start.Year())
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-12-20")
	require.NoError(t, err)
	require.Equal(t, 20, d.Day())

	d, err = ParseDate("2026-12-20T15:04:05Z")
	require.NoError(t, err)
	require.Zero(t, d.Hour())

	_, err = ParseDate("20/12/2026")
	require.Error(t, err)
}
