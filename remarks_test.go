package wxcraft

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/utils/ptr"
)

func TestDecodeRemarks_seaLevelPressure(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want float64
	}{
		{"SLP134", 1013.4},
		{"SLP876", 987.6},
		{"SLP017", 1001.7},
		{"SLP699", 1069.9},
		{"SLP700", 970.0},
	}

	for _, tc := range tests {
		r := DecodeRemarks(tc.raw)
		require.NotNil(t, r.SeaLevelPressure, tc.raw)
		assert.InDelta(t, tc.want, *r.SeaLevelPressure, 1e-9, tc.raw)
	}

	r := DecodeRemarks("AO2 SLPNO")
	assert.True(t, r.SeaLevelUnavailable)
	assert.Nil(t, r.SeaLevelPressure)

	r = DecodeRemarks("SLP134 SLP150")
	assert.InDelta(t, 1013.4, *r.SeaLevelPressure, 1e-9)
}

func TestDecodeRemarks_stationType(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "AO2", DecodeRemarks("AO2 SLP134").StationType)
	assert.Equal(t, "AO1", DecodeRemarks("AO1").StationType)
	assert.Equal(t, "AO2", DecodeRemarks("AO2A").StationType)
	assert.Equal(t, "AO1", DecodeRemarks("AO1 AO2").StationType)
	assert.Empty(t, DecodeRemarks("SLP134").StationType)
}

func TestDecodeRemarks_weatherEvents(t *testing.T) {
	t.Parallel()

	r := DecodeRemarks("AO2 RAB05")
	assert.Equal(t, map[string]int{"RA": 5}, r.WeatherBegan)
	assert.Nil(t, r.WeatherEnded)

	r = DecodeRemarks("TSB44RAB48")
	assert.Equal(t, map[string]int{"TS": 44, "RA": 48}, r.WeatherBegan)

	r = DecodeRemarks("RAE12B33")
	assert.Equal(t, map[string]int{"RA": 33}, r.WeatherBegan)
	assert.Equal(t, map[string]int{"RA": 12}, r.WeatherEnded)

	r = DecodeRemarks("DZB1716")
	assert.Equal(t, map[string]int{"DZ": 16}, r.WeatherBegan)

	r = DecodeRemarks("FZRAB07")
	assert.Equal(t, map[string]int{"FZRA": 7}, r.WeatherBegan)

	r = DecodeRemarks("VIRGA CB E MOV W")
	assert.Nil(t, r.WeatherBegan)
	assert.Nil(t, r.WeatherEnded)
}

func TestDecodeRemarks_peakWind(t *testing.T) {
	t.Parallel()

	r := DecodeRemarks("AO2 PK WND 28032/1712 SLP161")
	assert.Equal(t, &PeakWind{Direction: 280, Speed: 32, Hour: ptr.To(17), Minute: 12}, r.PeakWind)
	require.NotNil(t, r.SeaLevelPressure)

	r = DecodeRemarks("PK WND 20030/45")
	assert.Equal(t, &PeakWind{Direction: 200, Speed: 30, Minute: 45}, r.PeakWind)

	assert.Nil(t, DecodeRemarks("PK WND").PeakWind)
}

func TestDecodeRemarks_hourlyGroups(t *testing.T) {
	t.Parallel()

	r := DecodeRemarks("AO2 SNB30 SLP119 P0002 T10171039 51012")
	require.NotNil(t, r.Temperature)
	require.NotNil(t, r.DewPoint)
	assert.InDelta(t, -1.7, *r.Temperature, 1e-9)
	assert.InDelta(t, -3.9, *r.DewPoint, 1e-9)
	require.NotNil(t, r.Precipitation)
	assert.InDelta(t, 0.02, *r.Precipitation, 1e-9)
	require.NotNil(t, r.Tendency)
	assert.Equal(t, 1, r.Tendency.Character)
	assert.InDelta(t, 1.2, r.Tendency.Change, 1e-9)

	r = DecodeRemarks("T0089")
	assert.InDelta(t, 8.9, *r.Temperature, 1e-9)
	assert.Nil(t, r.DewPoint)
}

func TestDecodeRemarks_synopticGroups(t *testing.T) {
	t.Parallel()

	r := DecodeRemarks("AO2 PRESFR VIRGA FROPA RETSRA RESN 10142 21001 401420056 4/012 70125")
	assert.Equal(t, "PRESFR", r.PressureTrend)
	assert.True(t, r.Virga)
	assert.True(t, r.FrontalPassage)
	assert.Equal(t, []string{"TSRA", "SN"}, r.RecentWeather)
	require.NotNil(t, r.SixHourMax)
	assert.InDelta(t, 14.2, *r.SixHourMax, 1e-9)
	require.NotNil(t, r.SixHourMin)
	assert.InDelta(t, -0.1, *r.SixHourMin, 1e-9)
	require.NotNil(t, r.DayMax)
	require.NotNil(t, r.DayMin)
	assert.InDelta(t, 14.2, *r.DayMax, 1e-9)
	assert.InDelta(t, 5.6, *r.DayMin, 1e-9)
	assert.Equal(t, ptr.To(12), r.SnowDepth)
	require.NotNil(t, r.DayPrecipitation)
	assert.InDelta(t, 1.25, *r.DayPrecipitation, 1e-9)
	assert.Empty(t, r.MilitaryColor)

	r = DecodeRemarks("RED RE PRESRR")
	assert.Equal(t, "RED", r.MilitaryColor)
	assert.Empty(t, r.RecentWeather)
	assert.Equal(t, "PRESRR", r.PressureTrend)
}

func TestDecodeRemarks_militaryColor(t *testing.T) {
	t.Parallel()

	r := DecodeRemarks("GRN TEMPO AMB")
	assert.Equal(t, "GRN", r.MilitaryColor)
	assert.True(t, r.ColorTemporary)

	r = DecodeRemarks("WHT")
	assert.Equal(t, "WHT", r.MilitaryColor)
	assert.False(t, r.ColorTemporary)

	r = DecodeRemarks("TEMPO RA")
	assert.Empty(t, r.MilitaryColor)
	assert.False(t, r.ColorTemporary)
}

func TestDecodeRemarks_sensorsAndMaintenance(t *testing.T) {
	t.Parallel()

	r := DecodeRemarks("AO2 VISNO RWY31 CHINO RWY04 RVRNO $")
	assert.True(t, r.Maintenance)
	assert.Equal(t, []SensorOutage{
		{Code: "RVRNO"},
		{Code: "VISNO", Location: "RWY31"},
		{Code: "CHINO", Location: "RWY04"},
	}, r.SensorOutages)

	r = DecodeRemarks("AO2 PWINO TSNO")
	assert.False(t, r.Maintenance)
	assert.Equal(t, []SensorOutage{{Code: "PWINO"}, {Code: "TSNO"}}, r.SensorOutages)
}

func TestDecodeRemarks_rawKept(t *testing.T) {
	t.Parallel()

	r := DecodeRemarks("  CU2CI4 SLP147 ")
	assert.Equal(t, "CU2CI4 SLP147", r.Raw)
	assert.Nil(t, r.WeatherBegan)

	r = DecodeRemarks("")
	assert.Equal(t, Remarks{}, r)
}
