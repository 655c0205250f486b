package wxcraft

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// GroupKind is the change indicator that opens a forecast group.
type GroupKind int

const (
	Base GroupKind = iota
	Tempo
	Becmg
	Prob30
	Prob40
	Prob30Tempo
	Prob40Tempo
	From
)

var groupKindCodes = [...]string{
	Base:        "BASE",
	Tempo:       "TEMPO",
	Becmg:       "BECMG",
	Prob30:      "PROB30",
	Prob40:      "PROB40",
	Prob30Tempo: "PROB30 TEMPO",
	Prob40Tempo: "PROB40 TEMPO",
	From:        "FM",
}

func (k GroupKind) String() string {
	if k < 0 || int(k) >= len(groupKindCodes) {
		return "UNKNOWN"
	}
	return groupKindCodes[k]
}

func (k GroupKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// DayTime is the DDHHMM stamp of an FM group.
type DayTime struct {
	Day    int `json:"day"`
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

func (d DayTime) String() string { return fmt.Sprintf("%02d%02d%02d", d.Day, d.Hour, d.Minute) }

// Label returns the human form, e.g. "1530 on 12th".
func (d DayTime) Label() string {
	return fmt.Sprintf("%02d%02d on %s", d.Hour, d.Minute, Ordinal(d.Day))
}

func (d DayTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// ForecastGroup is the base forecast or one change group of a TAF.
type ForecastGroup struct {
	Kind GroupKind `json:"type"`
	*ValidityWindow
	Start *DayTime `json:"fm_time,omitempty"`
	Raw   string   `json:"raw,omitempty"`
	Conditions
}

// TempPoint is one forecast extreme with the hour it is expected.
type TempPoint struct {
	Value int     `json:"value"`
	Time  DayHour `json:"time"`
}

// TemperatureForecast collects the TX and TN groups of a TAF.
type TemperatureForecast struct {
	Max []TempPoint `json:"max_temperature,omitempty"`
	Min []TempPoint `json:"min_temperature,omitempty"`
}

// TafReport represents a decoded terminal aerodrome forecast.
type TafReport struct {
	Raw       string      `json:"raw"`
	Station   string      `json:"station_id,omitempty"`
	IssueTime *ReportTime `json:"issue_time,omitempty"`
	*ValidityWindow

	IsAmended   bool `json:"is_amended"`
	IsCorrected bool `json:"is_corrected"`
	IsNil       bool `json:"is_nil"`
	IsAuto      bool `json:"is_auto"`
	AmdNotSked  bool `json:"amd_not_sked"`

	Base         ForecastGroup        `json:"base_forecast"`
	Changes      []ForecastGroup      `json:"forecast_changes,omitempty"`
	Temperatures *TemperatureForecast `json:"temperature_forecast,omitempty"`
	QNH          []Altimeter          `json:"qnh_forecast,omitempty"`
	Remarks      string               `json:"remarks,omitempty"`
	ParseError   string               `json:"parse_error,omitempty"`
}

// Empty reports whether no header field was found.
func (t TafReport) Empty() bool {
	return t.Station == "" && t.IssueTime == nil && t.ValidityWindow == nil && t.ParseError == ""
}

var (
	tempForecastRegex = regexp.MustCompile(`^T([XN])(M?\d{2})/(\d{2})(\d{2})Z$`)
	qnhForecastRegex  = regexp.MustCompile(`^QNH(\d{4})INS$`)
)

// ParseTAF decodes a raw TAF string. Like ParseMETAR it never panics and
// reports unexpected failures through ParseError.
func ParseTAF(raw string) (t TafReport) {
	t.Raw = raw
	t.Base.Kind = Base
	defer recoverInto(&t.ParseError, "taf", raw)

	tokens := tokenize(raw)
	if len(tokens) == 0 {
		return t
	}

	decodeTafFlags(&t, tokens)
	headerEnd := decodeTafHeader(&t, tokens)

	end := len(tokens)
	if rmk := indexOf(tokens, headerEnd, "RMK"); rmk != -1 {
		t.Remarks = strings.Join(tokens[rmk+1:], " ")
		end = rmk
	}
	body := tokens[headerEnd:end]

	for _, tok := range tokens {
		if matches := tempForecastRegex.FindStringSubmatch(tok); matches != nil {
			value, _ := parseTemperature(matches[2])
			day, _ := strconv.Atoi(matches[3])
			hour, _ := strconv.Atoi(matches[4])
			point := TempPoint{Value: value, Time: DayHour{Day: day, Hour: hour}}

			if t.Temperatures == nil {
				t.Temperatures = &TemperatureForecast{}
			}
			if matches[1] == "X" {
				t.Temperatures.Max = append(t.Temperatures.Max, point)
			} else {
				t.Temperatures.Min = append(t.Temperatures.Min, point)
			}
			continue
		}

		if matches := qnhForecastRegex.FindStringSubmatch(tok); matches != nil {
			t.QNH = append(t.QNH, Altimeter{Unit: InchesOfMercury, Value: hundredths(matches[1])})
		}
	}

	base, changes := segment(body)
	t.Base.Raw = strings.Join(base, " ")
	t.Base.Conditions = parseConditions(base, tafDialect)

	for _, groupTokens := range changes {
		if group, ok := parseChangeGroup(groupTokens); ok {
			t.Changes = append(t.Changes, group)
		}
	}

	return t
}

// decodeTafFlags sets the header flags. Each is an independent test over the
// whole report.
func decodeTafFlags(t *TafReport, tokens []string) {
	for i, tok := range tokens {
		switch strings.TrimSuffix(tok, "=") {
		case "AMD":
			t.IsAmended = true
			if i+2 < len(tokens) && tokens[i+1] == "NOT" && strings.TrimSuffix(tokens[i+2], "=") == "SKED" {
				t.AmdNotSked = true
			}
		case "COR":
			t.IsCorrected = true
		case "NIL":
			t.IsNil = true
		case "AUTO":
			t.IsAuto = true
		}
	}
}

// decodeTafHeader reads station, issue time and validity and returns the index
// of the first body token.
func decodeTafHeader(t *TafReport, tokens []string) int {
	i := 0
	for i < len(tokens) && (tokens[i] == "TAF" || tokens[i] == "AMD" || tokens[i] == "COR") {
		i++
	}

	next := i
	ti := indexMatching(tokens, i, timeRegex.MatchString)
	switch {
	case ti > 0 && stationRegex.MatchString(tokens[ti-1]):
		t.Station = tokens[ti-1]
	case i < len(tokens) && stationRegex.MatchString(tokens[i]):
		t.Station = tokens[i]
		next = i + 1
	}

	if ti != -1 {
		t.IssueTime, _ = parseReportTime(tokens[ti])
		next = ti + 1
	}

	if next < len(tokens) {
		if window, ok := parseValidity(tokens[next]); ok {
			t.ValidityWindow = window
			next++
		}
	}

	return next
}

// parseChangeGroup classifies a span by its leading keyword and decodes it.
func parseChangeGroup(tokens []string) (ForecastGroup, bool) {
	group := ForecastGroup{Raw: strings.Join(tokens, " ")}

	tempo := len(tokens) > 1 && tokens[1] == "TEMPO"

	switch lead := tokens[0]; {
	case lead == "PROB30" && tempo:
		group.Kind = Prob30Tempo
	case lead == "PROB40" && tempo:
		group.Kind = Prob40Tempo
	case lead == "PROB30":
		group.Kind = Prob30
	case lead == "PROB40":
		group.Kind = Prob40
	case lead == "TEMPO":
		group.Kind = Tempo
	case lead == "BECMG":
		group.Kind = Becmg
	case fmRegex.MatchString(lead):
		group.Kind = From
	default:
		return ForecastGroup{}, false
	}

	if group.Kind == From {
		matches := fmRegex.FindStringSubmatch(tokens[0])
		day, _ := strconv.Atoi(matches[1])
		hour, _ := strconv.Atoi(matches[2])
		minute, _ := strconv.Atoi(matches[3])
		group.Start = &DayTime{Day: day, Hour: hour, Minute: minute}
	} else if vi := indexMatching(tokens, 1, validRegex.MatchString); vi != -1 {
		group.ValidityWindow, _ = parseValidity(tokens[vi])
	}

	group.Conditions = parseConditions(tokens[1:], tafDialect)

	return group, true
}
