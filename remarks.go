package wxcraft

import (
	"regexp"
	"strconv"
	"strings"

	"k8s.io/utils/ptr"
)

// PeakWind is the "PK WND dddss/(hh)mm" remark.
type PeakWind struct {
	Direction int  `json:"direction"`
	Speed     int  `json:"speed"`
	Hour      *int `json:"hour,omitempty"`
	Minute    int  `json:"minute"`
}

// PressureTendency is the "5appp" three-hour tendency remark.
type PressureTendency struct {
	Character int     `json:"character"` // WMO code 0-8
	Change    float64 `json:"change"`    // hPa
}

// SensorOutage names a failed sensor and, for VISNO and CHINO, where it is.
type SensorOutage struct {
	Code     string `json:"code"`
	Location string `json:"location,omitempty"`
}

// Remarks holds the raw remarks section and what could be decoded from it.
type Remarks struct {
	Raw         string `json:"raw"`
	StationType string `json:"station_type,omitempty"` // AO1 or AO2

	SeaLevelPressure    *float64 `json:"sea_level_pressure,omitempty"`
	SeaLevelUnavailable bool     `json:"slp_unavailable,omitempty"`

	WeatherBegan map[string]int `json:"weather_began,omitempty"`
	WeatherEnded map[string]int `json:"weather_ended,omitempty"`

	MilitaryColor  string `json:"military_color,omitempty"`
	ColorTemporary bool   `json:"military_color_temporary,omitempty"`

	Maintenance   bool              `json:"maintenance,omitempty"`
	SensorOutages []SensorOutage    `json:"sensor_outages,omitempty"`
	PeakWind      *PeakWind         `json:"peak_wind,omitempty"`
	Temperature   *float64          `json:"precise_temperature,omitempty"`
	DewPoint      *float64          `json:"precise_dewpoint,omitempty"`
	Precipitation *float64          `json:"hourly_precipitation,omitempty"` // inches
	Tendency      *PressureTendency `json:"pressure_tendency,omitempty"`

	PressureTrend  string   `json:"pressure_trend,omitempty"` // PRESRR or PRESFR
	Virga          bool     `json:"virga,omitempty"`
	FrontalPassage bool     `json:"frontal_passage,omitempty"`
	RecentWeather  []string `json:"recent_weather,omitempty"`

	SixHourMax       *float64 `json:"six_hour_max_temperature,omitempty"`
	SixHourMin       *float64 `json:"six_hour_min_temperature,omitempty"`
	DayMax           *float64 `json:"day_max_temperature,omitempty"`
	DayMin           *float64 `json:"day_min_temperature,omitempty"`
	DayPrecipitation *float64 `json:"day_precipitation,omitempty"` // inches
	SnowDepth        *int     `json:"snow_depth,omitempty"`        // inches
}

var (
	stationTypeRegex  = regexp.MustCompile(`^(AO[12])A?$`)
	slpRegex          = regexp.MustCompile(`^SLP(\d{3})$`)
	weatherEventRegex = regexp.MustCompile(`^(?:[A-Z]{2,}?(?:[BE]\d{2}(?:\d{2})?)+)+$`)
	eventRegex        = regexp.MustCompile(`([A-Z]*?)([BE])(\d{2})(\d{2})?`)
	peakWindRegex     = regexp.MustCompile(`^(\d{3})(\d{2,3})/(\d{2})?(\d{2})$`)
	preciseTempRegex  = regexp.MustCompile(`^T([01])(\d{3})(?:([01])(\d{3}))?$`)
	hourlyPrecipRegex = regexp.MustCompile(`^P(\d{4})$`)
	tendencyRegex     = regexp.MustCompile(`^5([0-8])(\d{3})$`)
	sixHourMaxRegex   = regexp.MustCompile(`^1([01])(\d{3})$`)
	sixHourMinRegex   = regexp.MustCompile(`^2([01])(\d{3})$`)
	dayExtremesRegex  = regexp.MustCompile(`^4([01])(\d{3})([01])(\d{3})$`)
	snowDepthRegex    = regexp.MustCompile(`^4/(\d{3})$`)
	dayPrecipRegex    = regexp.MustCompile(`^7(\d{4})$`)
	recentWxRegex     = regexp.MustCompile(`^RE((?:[A-Z]{2}){1,3})$`)
)

// Military colour states, best to worst.
var militaryColors = []string{"BLU", "WHT", "GRN", "YLO1", "YLO2", "AMB", "RED"}

var militaryColorNames = map[string]string{
	"BLU":  "Blue",
	"WHT":  "White",
	"GRN":  "Green",
	"YLO1": "Yellow 1",
	"YLO2": "Yellow 2",
	"AMB":  "Amber",
	"RED":  "Red",
}

// Sensor outage codes in reporting order.
var sensorCodes = []string{"RVRNO", "PWINO", "PNO", "FZRANO", "TSNO", "VISNO", "CHINO"}

var sensorNames = map[string]string{
	"RVRNO":  "Runway visual range not available",
	"PWINO":  "Present weather identifier not available",
	"PNO":    "Precipitation amount not available",
	"FZRANO": "Freezing rain information not available",
	"TSNO":   "Thunderstorm information not available",
	"VISNO":  "Visibility at secondary location not available",
	"CHINO":  "Cloud height at secondary location not available",
}

var tendencyNames = map[int]string{
	0: "increasing, then decreasing",
	1: "increasing, then steady",
	2: "increasing steadily",
	3: "increasing, then increasing more rapidly",
	4: "steady",
	5: "decreasing, then increasing",
	6: "decreasing, then steady",
	7: "decreasing steadily",
	8: "decreasing, then decreasing more rapidly",
}

// DecodeRemarks decodes the text following RMK. Unknown groups are ignored;
// the raw text is always kept.
func DecodeRemarks(raw string) Remarks {
	r := Remarks{Raw: strings.TrimSpace(raw)}
	tokens := tokenize(raw)

	present := make(map[string]int, len(tokens))
	for i := len(tokens) - 1; i >= 0; i-- {
		present[tokens[i]] = i
	}

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]

		if matches := stationTypeRegex.FindStringSubmatch(tok); matches != nil {
			if r.StationType == "" {
				r.StationType = matches[1]
			}
			continue
		}

		if tok == "SLPNO" {
			r.SeaLevelUnavailable = true
			continue
		}

		if matches := slpRegex.FindStringSubmatch(tok); matches != nil {
			if r.SeaLevelPressure == nil {
				r.SeaLevelPressure = ptr.To(seaLevelPressure(matches[1]))
			}
			continue
		}

		if tok == "PK" && i+2 < len(tokens) && tokens[i+1] == "WND" {
			if pk, ok := parsePeakWind(tokens[i+2]); ok {
				r.PeakWind = pk
				i += 2
				continue
			}
		}

		if matches := preciseTempRegex.FindStringSubmatch(tok); matches != nil {
			r.Temperature = ptr.To(tenths(matches[1], matches[2]))
			if matches[3] != "" {
				r.DewPoint = ptr.To(tenths(matches[3], matches[4]))
			}
			continue
		}

		if matches := hourlyPrecipRegex.FindStringSubmatch(tok); matches != nil {
			r.Precipitation = ptr.To(hundredths(matches[1]))
			continue
		}

		if matches := tendencyRegex.FindStringSubmatch(tok); matches != nil {
			character, _ := strconv.Atoi(matches[1])
			change, _ := strconv.Atoi(matches[2])
			r.Tendency = &PressureTendency{Character: character, Change: float64(change) / 10}
			continue
		}

		if matches := sixHourMaxRegex.FindStringSubmatch(tok); matches != nil {
			r.SixHourMax = ptr.To(tenths(matches[1], matches[2]))
			continue
		}

		if matches := sixHourMinRegex.FindStringSubmatch(tok); matches != nil {
			r.SixHourMin = ptr.To(tenths(matches[1], matches[2]))
			continue
		}

		if matches := dayExtremesRegex.FindStringSubmatch(tok); matches != nil {
			r.DayMax = ptr.To(tenths(matches[1], matches[2]))
			r.DayMin = ptr.To(tenths(matches[3], matches[4]))
			continue
		}

		if matches := snowDepthRegex.FindStringSubmatch(tok); matches != nil {
			depth, _ := strconv.Atoi(matches[1])
			r.SnowDepth = ptr.To(depth)
			continue
		}

		if matches := dayPrecipRegex.FindStringSubmatch(tok); matches != nil {
			r.DayPrecipitation = ptr.To(hundredths(matches[1]))
			continue
		}

		switch tok {
		case "PRESRR", "PRESFR":
			r.PressureTrend = tok
			continue
		case "VIRGA":
			r.Virga = true
			continue
		case "FROPA":
			r.FrontalPassage = true
			continue
		}

		if sensorCode(tok) {
			continue
		}

		if matches := recentWxRegex.FindStringSubmatch(tok); matches != nil {
			if wx := parseWeather(matches[1]); len(wx) > 0 {
				r.RecentWeather = append(r.RecentWeather, matches[1])
				continue
			}
		}

		if weatherEventRegex.MatchString(tok) {
			r.addWeatherEvents(tok)
		}
	}

	for _, code := range militaryColors {
		if _, ok := present[code]; ok {
			r.MilitaryColor = code
			break
		}
	}
	if r.MilitaryColor != "" {
		_, r.ColorTemporary = present["TEMPO"]
	}

	r.Maintenance = strings.Contains(raw, "$")

	for _, code := range sensorCodes {
		i, ok := present[code]
		if !ok {
			continue
		}
		outage := SensorOutage{Code: code}
		if (code == "VISNO" || code == "CHINO") && i+1 < len(tokens) {
			outage.Location = tokens[i+1]
		}
		r.SensorOutages = append(r.SensorOutages, outage)
	}

	return r
}

// seaLevelPressure expands the three-digit SLP group. Values below 700 are
// tenths above 1000 hPa, the rest tenths above 900 hPa.
func seaLevelPressure(digits string) float64 {
	v, _ := strconv.Atoi(digits)
	if v < 700 {
		return 1000 + float64(v)/10
	}
	return 900 + float64(v)/10
}

// parsePeakWind reads the "dddss/(hh)mm" part of a peak wind remark.
func parsePeakWind(tok string) (*PeakWind, bool) {
	matches := peakWindRegex.FindStringSubmatch(tok)
	if matches == nil {
		return nil, false
	}

	pk := &PeakWind{}
	pk.Direction, _ = strconv.Atoi(matches[1])
	pk.Speed, _ = strconv.Atoi(matches[2])
	if matches[3] != "" {
		hour, _ := strconv.Atoi(matches[3])
		pk.Hour = ptr.To(hour)
	}
	pk.Minute, _ = strconv.Atoi(matches[4])

	return pk, true
}

// tenths reads a sign digit (1 is negative) and three digits of tenths.
func tenths(sign, digits string) float64 {
	v, _ := strconv.Atoi(digits)
	value := float64(v) / 10
	if sign == "1" {
		value = -value
	}
	return value
}

// addWeatherEvents records begin and end times such as "RAB05E30" or
// "TSB44RAB48". An event without its own code belongs to the previous one, and
// a four-digit time keeps its minutes.
func (r *Remarks) addWeatherEvents(tok string) {
	code := ""
	for _, ev := range eventRegex.FindAllStringSubmatch(tok, -1) {
		if ev[1] != "" {
			code = ev[1]
		}

		minute, _ := strconv.Atoi(ev[3])
		if ev[4] != "" {
			minute, _ = strconv.Atoi(ev[4])
		}

		if ev[2] == "B" {
			if r.WeatherBegan == nil {
				r.WeatherBegan = make(map[string]int)
			}
			r.WeatherBegan[code] = minute
		} else {
			if r.WeatherEnded == nil {
				r.WeatherEnded = make(map[string]int)
			}
			r.WeatherEnded[code] = minute
		}
	}
}

func sensorCode(tok string) bool {
	for _, code := range sensorCodes {
		if tok == code {
			return true
		}
	}
	return false
}
