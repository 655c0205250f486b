package wxcraft

import (
	"strconv"
	"strings"

	"k8s.io/utils/ptr"
)

// MetarReport represents a decoded METAR or SPECI observation.
type MetarReport struct {
	Raw         string              `json:"raw"`
	Kind        ReportKind          `json:"report_type"`
	Modifier    string              `json:"modifier,omitempty"`
	Station     string              `json:"station_id,omitempty"`
	Time        *ReportTime         `json:"observation_time,omitempty"`
	Wind        *Wind               `json:"wind,omitempty"`
	Visibility  *Visibility         `json:"visibility,omitempty"`
	Weather     []WeatherPhenomenon `json:"weather,omitempty"`
	SkyClear    string              `json:"sky_clear,omitempty"` // SKC or CLR
	Clouds      []CloudLayer        `json:"clouds,omitempty"`
	Temperature *int                `json:"temperature,omitempty"`
	DewPoint    *int                `json:"dewpoint,omitempty"`
	Altimeter   *Altimeter          `json:"altimeter,omitempty"`
	RVR         []RunwayVisualRange `json:"runway_visual_range,omitempty"`
	Trend       *Trend              `json:"trend,omitempty"`
	Remarks     *Remarks            `json:"remarks,omitempty"`
	ParseError  string              `json:"parse_error,omitempty"`
}

// Empty reports whether nothing recognisable was found.
func (m MetarReport) Empty() bool {
	return m.Station == "" && m.Time == nil && m.Wind == nil &&
		m.Visibility == nil && m.ParseError == ""
}

// ParseMETAR decodes a raw METAR string. It never panics: fields that cannot
// be read are left empty, and an unexpected failure is recorded in ParseError
// next to whatever was decoded before it.
func ParseMETAR(raw string) (m MetarReport) {
	m.Raw = raw
	defer recoverInto(&m.ParseError, "metar", raw)

	tokens := tokenize(raw)
	if len(tokens) == 0 {
		return m
	}

	start := 0
	switch tokens[0] {
	case "METAR":
		start++
	case "SPECI":
		m.Kind = Special
		start++
	}

	// Trend and remarks sections end the observation
	end := indexOf(tokens, start, "NOSIG", "TEMPO", "BECMG", "RMK")
	if end == -1 {
		end = len(tokens)
	}

	header := make(map[int]bool)
	ti := indexMatching(tokens[:end], start, timeRegex.MatchString)
	if ti != -1 {
		m.Time, _ = parseReportTime(tokens[ti])
		header[ti] = true
		if ti+1 < end && modifierRegex.MatchString(tokens[ti+1]) {
			m.Modifier = tokens[ti+1]
			header[ti+1] = true
		}
	}

	// Station: a four-character group ahead of the time group, or the
	// leading group when there is no time group
	stationEnd := ti
	if ti == -1 {
		stationEnd = min(start+1, end)
	}
	if si := indexMatching(tokens[:stationEnd], start, stationRegex.MatchString); si != -1 {
		m.Station = tokens[si]
		header[si] = true
	}

	body := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		if !header[i] {
			body = append(body, tokens[i])
		}
	}

	decodeMetarBody(&m, body)

	if end < len(tokens) && tokens[end] != "RMK" {
		m.Trend = decodeTrend(tokens[end:])
	}

	if rmk := indexOf(tokens, end, "RMK"); rmk != -1 {
		remarks := DecodeRemarks(strings.Join(tokens[rmk+1:], " "))
		m.Remarks = &remarks
	}

	return m
}

// decodeMetarBody fills the observation fields from the tokens ahead of the
// first trend or remarks indicator, less the header groups.
func decodeMetarBody(m *MetarReport, body []string) {
	cavok := indexOf(body, 0, "CAVOK") != -1
	conditions := parseConditions(body, metarDialect)

	m.Wind = conditions.Wind
	for _, tok := range body {
		if variation, ok := parseWindVariation(tok); ok {
			if m.Wind == nil {
				m.Wind = &Wind{Partial: true}
			}
			m.Wind.Variation = variation
			break
		}
	}

	if cavok {
		m.Visibility = &Visibility{Kind: VisibilityCAVOK}
	} else {
		m.Visibility = conditions.Visibility
		m.Weather = conditions.Weather
		if sky := indexMatching(body, 0, skyClearRegex.MatchString); sky != -1 {
			m.SkyClear = body[sky]
		} else {
			m.Clouds = conditions.Clouds
		}
	}

	for _, tok := range body {
		if matches := tempRegex.FindStringSubmatch(tok); matches != nil && m.Temperature == nil {
			if temp, ok := parseTemperature(matches[1]); ok {
				m.Temperature = ptr.To(temp)
			}
			if dew, ok := parseTemperature(matches[2]); ok && matches[2] != "" {
				m.DewPoint = ptr.To(dew)
			}
			continue
		}

		if m.Altimeter == nil {
			if matches := qnhRegex.FindStringSubmatch(tok); matches != nil {
				value, _ := strconv.Atoi(matches[1])
				m.Altimeter = &Altimeter{Unit: Hectopascals, Value: float64(value)}
				continue
			}
			if matches := altimeterRegex.FindStringSubmatch(tok); matches != nil {
				m.Altimeter = &Altimeter{Unit: InchesOfMercury, Value: hundredths(matches[1])}
				continue
			}
		}

		if rvr, ok := parseRunwayVisualRange(tok); ok {
			m.RVR = append(m.RVR, rvr)
		}
	}
}

// decodeTrend captures a NOSIG, TEMPO or BECMG trend with its text up to RMK.
func decodeTrend(tokens []string) *Trend {
	end := indexOf(tokens, 0, "RMK")
	if end == -1 {
		end = len(tokens)
	}
	return &Trend{
		Indicator: tokens[0],
		Text:      strings.Join(tokens[1:end], " "),
	}
}

// parseRunwayVisualRange parses an RVR group such as "R27L/P1500U" or
// "R06/0600V1000FT/D".
func parseRunwayVisualRange(tok string) (RunwayVisualRange, bool) {
	matches := rvrRegex.FindStringSubmatch(tok)
	if matches == nil {
		return RunwayVisualRange{}, false
	}

	rvr := RunwayVisualRange{
		Runway:   matches[1],
		Prefix:   matches[2],
		Feet:     matches[5] == "FT",
		Tendency: matches[6],
	}
	rvr.Range, _ = strconv.Atoi(matches[3])
	if matches[4] != "" {
		maxRange, _ := strconv.Atoi(matches[4])
		rvr.MaxRange = ptr.To(maxRange)
	}

	return rvr, true
}

// indexMatching returns the index of the first token in tokens[from:] for
// which match is true, or -1.
func indexMatching(tokens []string, from int, match func(string) bool) int {
	for i := from; i < len(tokens); i++ {
		if match(tokens[i]) {
			return i
		}
	}
	return -1
}
