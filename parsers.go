package wxcraft

import (
	"strconv"
	"strings"

	"k8s.io/utils/ptr"
)

// dialect selects the report-specific extensions of the shared token grammar.
type dialect int

const (
	metarDialect dialect = iota
	tafDialect
)

// Conditions holds the weather elements shared by the METAR body, the TAF base
// forecast and every TAF change group.
type Conditions struct {
	WindShear  *WindShear          `json:"wind_shear,omitempty"`
	Wind       *Wind               `json:"wind,omitempty"`
	Visibility *Visibility         `json:"visibility,omitempty"`
	Weather    []WeatherPhenomenon `json:"weather,omitempty"`
	Clouds     []CloudLayer        `json:"clouds,omitempty"`
}

// parseConditions scans tokens for wind shear, wind, visibility, weather and
// cloud groups. The first wind, wind shear and visibility group wins; weather
// and clouds are collected in encounter order.
func parseConditions(tokens []string, d dialect) Conditions {
	var c Conditions
	nsw := false
	vcsh := false

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]

		if ws, ok := parseWindShear(tok); ok {
			if c.WindShear == nil {
				c.WindShear = ws
			}
			continue
		}

		if wind, ok := parseWind(tok); ok {
			if c.Wind == nil {
				c.Wind = wind
			}
			continue
		}

		if vis, consumed := parseVisibility(tokens, i); consumed > 0 {
			if c.Visibility == nil {
				c.Visibility = vis
			}
			i += consumed - 1
			continue
		}

		if d == tafDialect {
			switch tok {
			case "NSW":
				nsw = true
				continue
			case "VCSH":
				vcsh = true
				continue
			}
		}

		if wx := parseWeather(tok); len(wx) > 0 {
			c.Weather = append(c.Weather, wx...)
			continue
		}

		if cloud, ok := parseCloud(tok); ok {
			if d == metarDialect && cloud.Cover == "SKC" {
				continue
			}
			c.Clouds = append(c.Clouds, cloud)
			continue
		}
	}

	if nsw {
		c.Weather = []WeatherPhenomenon{{Phenomenon: "NSW"}}
	}
	if vcsh {
		c.Weather = append(c.Weather, WeatherPhenomenon{Intensity: "VC", Descriptor: "SH", Phenomenon: "RA"})
	}

	return c
}

// parseWind parses a wind group in the format "dddssKT", "dddssGggMPS",
// "VRBssKMH" and so on. Speeds are converted to knots.
func parseWind(tok string) (*Wind, bool) {
	matches := windRegex.FindStringSubmatch(tok)
	if matches == nil {
		return nil, false
	}

	unit := matches[4]
	speed, _ := strconv.Atoi(matches[2])
	wind := &Wind{Speed: ToKnots(speed, unit)}

	if matches[1] == "VRB" {
		wind.Variable = true
	} else {
		wind.Direction, _ = strconv.Atoi(matches[1])
	}

	if matches[3] != "" {
		gust, _ := strconv.Atoi(matches[3])
		wind.Gust = ptr.To(ToKnots(gust, unit))
	}

	wind.Calm = !wind.Variable && wind.Direction == 0 && wind.Speed == 0

	return wind, true
}

// parseWindVariation parses a variation sector in the format "dddVddd".
func parseWindVariation(tok string) (*WindVariation, bool) {
	matches := windVarRegex.FindStringSubmatch(tok)
	if matches == nil {
		return nil, false
	}

	from, _ := strconv.Atoi(matches[1])
	to, _ := strconv.Atoi(matches[2])

	return &WindVariation{From: from, To: to}, true
}

// parseWindShear parses a TAF wind shear group "WShhh/dddssKT".
func parseWindShear(tok string) (*WindShear, bool) {
	matches := windShearRegex.FindStringSubmatch(tok)
	if matches == nil {
		return nil, false
	}

	unit := matches[5]
	height, _ := strconv.Atoi(matches[1])
	direction, _ := strconv.Atoi(matches[2])
	speed, _ := strconv.Atoi(matches[3])

	ws := &WindShear{
		Height:    height * 100,
		Direction: direction,
		Speed:     ToKnots(speed, unit),
	}
	if matches[4] != "" {
		gust, _ := strconv.Atoi(matches[4])
		ws.Gust = ptr.To(ToKnots(gust, unit))
	}

	return ws, true
}

// parseVisibility tries to read a visibility group starting at tokens[i]. It
// returns the number of tokens consumed, zero when nothing matched. The split
// form "1 1/2SM" consumes two tokens.
func parseVisibility(tokens []string, i int) (*Visibility, int) {
	tok := tokens[i]

	if tok == "CAVOK" {
		return &Visibility{Kind: VisibilityCAVOK}, 1
	}

	if matches := visMetersRegex.FindStringSubmatch(tok); matches != nil {
		return &Visibility{Kind: VisibilityMeters, Value: matches[1]}, 1
	}

	if visWholeRegex.MatchString(tok) && i+1 < len(tokens) {
		if matches := visFractionRegex.FindStringSubmatch(tokens[i+1]); matches != nil {
			return &Visibility{Kind: VisibilityStatuteMiles, Value: tok + " " + matches[1]}, 2
		}
	}

	if matches := visMilesRegex.FindStringSubmatch(tok); matches != nil {
		return &Visibility{Kind: VisibilityStatuteMiles, Value: matches[1]}, 1
	}

	return nil, 0
}

// parseWeather splits a present-weather token into phenomena. The intensity
// and descriptor attach to the first phenomenon; "+SHRASN" yields heavy rain
// showers followed by snow. A bare thunderstorm group yields phenomenon TS.
func parseWeather(tok string) []WeatherPhenomenon {
	matches := weatherRegex.FindStringSubmatch(tok)
	if matches == nil {
		return nil
	}

	intensity, descriptor, codes := matches[1], matches[2], matches[3]
	if codes == "" {
		if descriptor == "TS" {
			return []WeatherPhenomenon{{Intensity: intensity, Phenomenon: "TS"}}
		}
		return nil
	}

	var result []WeatherPhenomenon
	for i, code := range phenomenonRegex.FindAllString(codes, -1) {
		wx := WeatherPhenomenon{Phenomenon: code}
		if i == 0 {
			wx.Intensity = intensity
			wx.Descriptor = descriptor
		}
		result = append(result, wx)
	}

	return result
}

// parseCloud parses a cloud string in the format "CCCHHH" or "CCCHHHTTT"
func parseCloud(tok string) (CloudLayer, bool) {
	matches := cloudRegex.FindStringSubmatch(tok)
	if matches == nil {
		return CloudLayer{}, false
	}

	cloud := CloudLayer{Cover: matches[1]}

	// Only try to parse height if it exists
	if matches[2] != "" && matches[2] != "///" {
		height, _ := strconv.Atoi(matches[2])
		cloud.Height = ptr.To(height)
	}

	if matches[3] != "///" {
		cloud.Convective = matches[3]
	}

	return cloud, true
}

// parseTemperature parses a signed two-digit value such as "12" or "M05".
func parseTemperature(s string) (int, bool) {
	negative := strings.HasPrefix(s, "M")
	value, err := strconv.Atoi(strings.TrimPrefix(s, "M"))
	if err != nil {
		return 0, false
	}
	if negative {
		value = -value
	}
	return value, true
}

// parseReportTime parses a time string in the format "DDHHMMZ".
func parseReportTime(tok string) (*ReportTime, bool) {
	matches := timeRegex.FindStringSubmatch(tok)
	if matches == nil {
		return nil, false
	}

	day, _ := strconv.Atoi(matches[1])
	hour, _ := strconv.Atoi(matches[2])
	minute, _ := strconv.Atoi(matches[3])

	return &ReportTime{Raw: tok, Day: day, Hour: hour, Minute: minute}, true
}

// parseValidity parses a "DDHH/DDHH" validity window.
func parseValidity(tok string) (*ValidityWindow, bool) {
	matches := validRegex.FindStringSubmatch(tok)
	if matches == nil {
		return nil, false
	}

	fromDay, _ := strconv.Atoi(matches[1])
	fromHour, _ := strconv.Atoi(matches[2])
	toDay, _ := strconv.Atoi(matches[3])
	toHour, _ := strconv.Atoi(matches[4])

	return &ValidityWindow{
		From: DayHour{Day: fromDay, Hour: fromHour},
		To:   DayHour{Day: toDay, Hour: toHour},
	}, true
}
