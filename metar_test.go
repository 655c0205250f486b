package wxcraft

import (
	"encoding/json"
	"iter"
	"strings"
	"testing"

	"github.com/rmitchellscott/wxcraft/testdata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/utils/ptr"
)

func parseMETARList(t *testing.T) iter.Seq2[string, MetarReport] {
	return func(yield func(string, MetarReport) bool) {
		for line := range testdata.METAR(t) {
			if !yield(line, ParseMETAR(line)) {
				return
			}
		}
	}
}

func TestParseMETAR_example(t *testing.T) {
	t.Parallel()

	m := ParseMETAR("EGLL 021420Z AUTO 35004KT 300V040 9999 SCT024 12/06 Q1035")

	assert.Empty(t, m.ParseError)
	assert.Equal(t, Routine, m.Kind)
	assert.Equal(t, "EGLL", m.Station)
	assert.Equal(t, "AUTO", m.Modifier)
	require.NotNil(t, m.Time)
	assert.Equal(t, ReportTime{Raw: "021420Z", Day: 2, Hour: 14, Minute: 20}, *m.Time)

	require.NotNil(t, m.Wind)
	assert.Equal(t, 350, m.Wind.Direction)
	assert.Equal(t, 4, m.Wind.Speed)
	assert.Nil(t, m.Wind.Gust)
	assert.Equal(t, &WindVariation{From: 300, To: 40}, m.Wind.Variation)

	require.NotNil(t, m.Visibility)
	assert.Equal(t, "9999 meters", m.Visibility.String())
	assert.Equal(t, []CloudLayer{{Cover: "SCT", Height: ptr.To(24)}}, m.Clouds)
	assert.Equal(t, ptr.To(12), m.Temperature)
	assert.Equal(t, ptr.To(6), m.DewPoint)
	assert.Equal(t, &Altimeter{Unit: Hectopascals, Value: 1035}, m.Altimeter)
	assert.Nil(t, m.Trend)
	assert.Nil(t, m.Remarks)
}

func TestParseMETAR_statuteMiles(t *testing.T) {
	t.Parallel()

	m := ParseMETAR("KJFK 021451Z 14012G20KT 3/4SM")

	require.NotNil(t, m.Wind)
	assert.Equal(t, 140, m.Wind.Direction)
	assert.Equal(t, 12, m.Wind.Speed)
	assert.Equal(t, ptr.To(20), m.Wind.Gust)
	assert.Equal(t, "3/4SM (statute miles)", m.Visibility.String())
	assert.Nil(t, m.Temperature)
	assert.Nil(t, m.Altimeter)
}

func TestParseMETAR_special(t *testing.T) {
	t.Parallel()

	m := ParseMETAR("SPECI KJFK 021509Z 14015G25KT 1/2SM FG VV002 09/09 A2990")
	assert.Equal(t, Special, m.Kind)
	assert.Equal(t, "KJFK", m.Station)
	assert.Equal(t, []WeatherPhenomenon{{Phenomenon: "FG"}}, m.Weather)
	assert.Equal(t, &Altimeter{Unit: InchesOfMercury, Value: 29.90}, m.Altimeter)
}

func TestParseMETAR_cavok(t *testing.T) {
	t.Parallel()

	m := ParseMETAR("LEMD 121800Z 05006KT CAVOK 29/04 Q1017 NOSIG")
	assert.True(t, m.Visibility.IsCAVOK())
	assert.Empty(t, m.Weather)
	assert.Empty(t, m.Clouds)
	assert.Empty(t, m.SkyClear)
	assert.Equal(t, &Trend{Indicator: "NOSIG"}, m.Trend)
}

func TestParseMETAR_skyClear(t *testing.T) {
	t.Parallel()

	m := ParseMETAR("KATL 121752Z VRB03KT 10SM CLR 24/14 A3010")
	assert.Equal(t, "CLR", m.SkyClear)
	assert.Empty(t, m.Clouds)
	assert.True(t, m.Wind.Variable)

	m = ParseMETAR("KPHX 121751Z 00000KT 10SM SKC 41/M01 A2989")
	assert.Equal(t, "SKC", m.SkyClear)
	assert.True(t, m.Wind.Calm)
	assert.Equal(t, ptr.To(-1), m.DewPoint)
}

func TestParseMETAR_trendStopsBody(t *testing.T) {
	t.Parallel()

	m := ParseMETAR("EHAM 121755Z 25018G28KT 9999 -SHRA FEW012 SCT020CB BKN030 14/11 Q1004 TEMPO 4000 SHRA BKN012CB RMK TEST")

	assert.Equal(t, []WeatherPhenomenon{{Intensity: "-", Descriptor: "SH", Phenomenon: "RA"}}, m.Weather)
	assert.Len(t, m.Clouds, 3)
	assert.Equal(t, "CB", m.Clouds[1].Convective)
	assert.Equal(t, &Trend{Indicator: "TEMPO", Text: "4000 SHRA BKN012CB"}, m.Trend)
	require.NotNil(t, m.Remarks)
	assert.Equal(t, "TEST", m.Remarks.Raw)
}

func TestParseMETAR_noHeader(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		station string
		weather []WeatherPhenomenon
		clouds  int
	}{
		{
			name:   "no station or time",
			raw:    "35004KT 9999 SCT024 12/06 Q1035",
			clouds: 1,
		},
		{
			name:    "weather group is not a station",
			raw:     "35004KT 9999 TSRA SCT024 12/06",
			weather: []WeatherPhenomenon{{Descriptor: "TS", Phenomenon: "RA"}},
			clouds:  1,
		},
		{
			name:    "station without time",
			raw:     "METAR EGLL 35004KT 9999 SCT024 12/06 Q1035",
			station: "EGLL",
			clouds:  1,
		},
		{
			name:    "fields ahead of the header",
			raw:     "35004KT EGLL 021420Z 9999 SCT024 12/06 Q1035",
			station: "EGLL",
			clouds:  1,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			m := ParseMETAR(tc.raw)
			assert.False(t, m.Empty())
			assert.Equal(t, tc.station, m.Station)
			require.NotNil(t, m.Wind)
			assert.Equal(t, 350, m.Wind.Direction)
			assert.Equal(t, 4, m.Wind.Speed)
			require.NotNil(t, m.Visibility)
			assert.Equal(t, "9999 meters", m.Visibility.String())
			assert.Equal(t, tc.weather, m.Weather)
			assert.Len(t, m.Clouds, tc.clouds)
			assert.Equal(t, ptr.To(12), m.Temperature)
			assert.NotEqual(t, "Invalid METAR data", FormatMETAR(m, Options{}))
		})
	}
}

func TestParseMETAR_runwayVisualRange(t *testing.T) {
	t.Parallel()

	m := ParseMETAR("EBBR 121750Z 23012KT 9999 R25L/P1500 R07/0600V1000FT/D -RA SCT015 14/12 Q1009")
	require.Len(t, m.RVR, 2)
	assert.Equal(t, RunwayVisualRange{Runway: "25L", Prefix: "P", Range: 1500}, m.RVR[0])
	assert.Equal(t, RunwayVisualRange{Runway: "07", Range: 600, MaxRange: ptr.To(1000), Feet: true, Tendency: "D"}, m.RVR[1])
}

func TestParseMETAR_partialWind(t *testing.T) {
	t.Parallel()

	m := ParseMETAR("EGLL 021420Z 300V040 9999")
	require.NotNil(t, m.Wind)
	assert.True(t, m.Wind.Partial)
	assert.Equal(t, &WindVariation{From: 300, To: 40}, m.Wind.Variation)
}

func TestParseMETAR_remarks(t *testing.T) {
	t.Parallel()

	m := ParseMETAR("KJFK 021451Z 14012G20KT 3/4SM BR OVC005 09/08 A2992 RMK AO2 SLP134 T00890078")
	require.NotNil(t, m.Remarks)
	assert.Equal(t, "AO2 SLP134 T00890078", m.Remarks.Raw)
	assert.Equal(t, "AO2", m.Remarks.StationType)
	assert.InDelta(t, 1013.4, *m.Remarks.SeaLevelPressure, 1e-9)
}

func TestParseMETAR_empty(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "   ", "\n"} {
		m := ParseMETAR(raw)
		assert.True(t, m.Empty(), raw)
		assert.Empty(t, m.ParseError)
	}
}

func TestParseMETAR_garbage(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"HELLO", "1234", "RMK", "METAR", "//// ///// 12/", "TEMPO RMK NOSIG"} {
		assert.NotPanics(t, func() { ParseMETAR(raw) }, raw)
	}
}

func TestParseMETAR_json(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(ParseMETAR("EGLL 021420Z AUTO 35004KT 300V040 9999 SCT024 12/06 Q1035"))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "EGLL", got["station_id"])
	assert.Equal(t, "METAR", got["report_type"])
	assert.Equal(t, "9999 meters", got["visibility"])
	assert.NotContains(t, got, "remarks")
	assert.NotContains(t, got, "parse_error")
}

func TestParseMETAR_corpusStation(t *testing.T) {
	t.Parallel()
	for line, m := range parseMETARList(t) {
		fields := strings.Fields(line)
		station := fields[0]
		if station == "METAR" || station == "SPECI" {
			station = fields[1]
		}
		assert.Equal(t, station, m.Station, line)
		assert.NotNil(t, m.Time, line)
		assert.Empty(t, m.ParseError, line)
	}
}

func TestParseMETAR_corpusCAVOK(t *testing.T) {
	t.Parallel()
	for line, m := range parseMETARList(t) {
		if !m.Visibility.IsCAVOK() {
			continue
		}
		assert.Empty(t, m.Weather, line)
		assert.Empty(t, m.Clouds, line)
		assert.Empty(t, m.SkyClear, line)
	}
}

func TestParseMETAR_corpusSkyClear(t *testing.T) {
	t.Parallel()
	for line, m := range parseMETARList(t) {
		if m.SkyClear != "" {
			assert.Empty(t, m.Clouds, line)
		}
	}
}

func TestParseMETAR_corpusTemperature(t *testing.T) {
	t.Parallel()
	for line, m := range parseMETARList(t) {
		for _, field := range strings.Fields(line) {
			matches := tempRegex.FindStringSubmatch(field)
			if matches == nil {
				continue
			}
			temp, _ := parseTemperature(matches[1])
			require.NotNil(t, m.Temperature, line)
			assert.Equal(t, temp, *m.Temperature, line)
			break
		}
	}
}

func TestParseMETAR_corpusWind(t *testing.T) {
	t.Parallel()
	for line, m := range parseMETARList(t) {
		for _, field := range strings.Fields(line) {
			if want, ok := parseWind(field); ok {
				require.NotNil(t, m.Wind, line)
				assert.Equal(t, want.Speed, m.Wind.Speed, line)
				assert.Equal(t, want.Direction, m.Wind.Direction, line)
				break
			}
		}
	}
}

// Weather and clouds come only from the body, never from trend or remarks.
func TestParseMETAR_corpusBodyOnly(t *testing.T) {
	t.Parallel()
	for line, m := range parseMETARList(t) {
		tokens := tokenize(line)
		end := indexOf(tokens, 0, "NOSIG", "TEMPO", "BECMG", "RMK")
		if end == -1 {
			continue
		}

		var clouds int
		for _, tok := range tokens[:end] {
			if cloud, ok := parseCloud(tok); ok && cloud.Cover != "SKC" {
				clouds++
			}
		}
		if m.SkyClear == "" && !m.Visibility.IsCAVOK() {
			assert.Len(t, m.Clouds, clouds, line)
		}
	}
}
