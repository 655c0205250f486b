package wxcraft

import (
	"encoding/json"
	"fmt"
	"regexp"
	"time"
)

// ReportKind distinguishes routine METAR observations from SPECI specials.
type ReportKind int

const (
	Routine ReportKind = iota
	Special
)

func (k ReportKind) String() string {
	if k == Special {
		return "SPECI"
	}
	return "METAR"
}

func (k ReportKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// VisibilityKind tags which encoding a Visibility value came from.
type VisibilityKind int

const (
	VisibilityMeters VisibilityKind = iota
	VisibilityStatuteMiles
	VisibilityCAVOK
)

// Visibility is either a measured value with its unit or the CAVOK sentinel.
type Visibility struct {
	Kind  VisibilityKind
	Value string // "9999", "3/4", "1 1/2", "P6"; empty for CAVOK
}

// String renders the value with its unit tag, e.g. "9999 meters" or
// "3/4SM (statute miles)".
func (v Visibility) String() string {
	switch v.Kind {
	case VisibilityCAVOK:
		return "CAVOK"
	case VisibilityStatuteMiles:
		return v.Value + "SM (statute miles)"
	default:
		return v.Value + " meters"
	}
}

func (v Visibility) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.String())
}

// IsCAVOK reports whether the visibility is the CAVOK sentinel.
func (v *Visibility) IsCAVOK() bool {
	return v != nil && v.Kind == VisibilityCAVOK
}

// WindVariation is the sector a variable wind swings through, in degrees.
type WindVariation struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Wind represents surface wind. Speed and Gust are always knots.
type Wind struct {
	Direction int            `json:"direction"`
	Variable  bool           `json:"variable,omitempty"` // VRB
	Calm      bool           `json:"calm,omitempty"`
	Speed     int            `json:"speed"`
	Gust      *int           `json:"gust,omitempty"`
	Variation *WindVariation `json:"variation,omitempty"`
	// Partial is set when only a variation sector was reported.
	Partial bool `json:"partial,omitempty"`
}

// WindShear represents a forecast wind shear layer.
type WindShear struct {
	Height    int  `json:"height"` // feet
	Direction int  `json:"direction"`
	Speed     int  `json:"speed"`
	Gust      *int `json:"gust,omitempty"`
}

// WeatherPhenomenon is one present-weather group.
type WeatherPhenomenon struct {
	Intensity  string `json:"intensity,omitempty"`  // "-", "+", "VC"
	Descriptor string `json:"descriptor,omitempty"` // MI, PR, BC, DR, BL, SH, TS, FZ
	Phenomenon string `json:"phenomenon"`
}

// CloudLayer represents a single reported cloud layer.
type CloudLayer struct {
	Cover      string `json:"type"`
	Height     *int   `json:"height,omitempty"` // hundreds of feet
	Convective string `json:"convective,omitempty"`
}

// AltimeterUnit tags the encoding of an altimeter setting.
type AltimeterUnit string

const (
	Hectopascals    AltimeterUnit = "hPa"
	InchesOfMercury AltimeterUnit = "inHg"
)

// Altimeter is a pressure setting in exactly one unit.
type Altimeter struct {
	Unit  AltimeterUnit `json:"unit"`
	Value float64       `json:"value"`
}

func (a Altimeter) String() string {
	if a.Unit == InchesOfMercury {
		return fmt.Sprintf("%.2f inHg", a.Value)
	}
	return fmt.Sprintf("%.0f hPa", a.Value)
}

// RunwayVisualRange represents one RVR group.
type RunwayVisualRange struct {
	Runway   string `json:"runway"`
	Prefix   string `json:"prefix,omitempty"` // P (more than) or M (less than)
	Range    int    `json:"range"`
	MaxRange *int   `json:"max_range,omitempty"`
	Feet     bool   `json:"feet,omitempty"`
	Tendency string `json:"tendency,omitempty"` // U, D or N
}

// Trend is the landing forecast appended to a METAR.
type Trend struct {
	Indicator string `json:"indicator"` // NOSIG, TEMPO or BECMG
	Text      string `json:"text,omitempty"`
}

// ReportTime is a DDHHMMZ stamp with its derived labels.
type ReportTime struct {
	Raw    string `json:"raw"`
	Day    int    `json:"day"`
	Hour   int    `json:"hour"`
	Minute int    `json:"minute"`
}

// DayLabel returns the two-digit day, e.g. "02".
func (t ReportTime) DayLabel() string { return fmt.Sprintf("%02d", t.Day) }

// DayOrdinal returns the day with its ordinal suffix, e.g. "2nd".
func (t ReportTime) DayOrdinal() string { return Ordinal(t.Day) }

// HM returns the "HH:MMZ" label.
func (t ReportTime) HM() string { return fmt.Sprintf("%02d:%02dZ", t.Hour, t.Minute) }

// ISO8601 returns the ISO time-of-day label, e.g. "T14:20:00Z".
func (t ReportTime) ISO8601() string { return fmt.Sprintf("T%02d:%02d:00Z", t.Hour, t.Minute) }

// At resolves the stamp against now. The month and year are taken from now,
// or from the previous month when the day lies in the future.
func (t ReportTime) At(now time.Time) time.Time {
	now = now.UTC()
	month := now.Month()
	if t.Day > now.Day() {
		month--
	}
	return time.Date(now.Year(), month, t.Day, t.Hour, t.Minute, 0, 0, time.UTC)
}

// DayHour is a DDHH stamp used by TAF validity windows.
type DayHour struct {
	Day  int `json:"day"`
	Hour int `json:"hour"`
}

// String returns the encoded DDHH form.
func (d DayHour) String() string { return fmt.Sprintf("%02d%02d", d.Day, d.Hour) }

// Label returns the human form, e.g. "1400 on 12th".
func (d DayHour) Label() string { return fmt.Sprintf("%02d00 on %s", d.Hour, Ordinal(d.Day)) }

func (d DayHour) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// ValidityWindow is a TAF or change-group validity period.
type ValidityWindow struct {
	From DayHour `json:"valid_from"`
	To   DayHour `json:"valid_to"`
}

// Commonly used regular expressions. Token patterns are anchored and matched
// against single whitespace-separated fields.
var (
	stationRegex     = regexp.MustCompile(`^[A-Z][A-Z0-9]{3}$`)
	timeRegex        = regexp.MustCompile(`^(\d{2})(\d{2})(\d{2})Z$`)
	modifierRegex    = regexp.MustCompile(`^(AUTO|COR|CC[A-F])$`)
	windRegex        = regexp.MustCompile(`^(\d{3}|VRB)(\d{2,3})(?:G(\d{2,3}))?(KT|MPS|KMH)$`)
	windVarRegex     = regexp.MustCompile(`^(\d{3})V(\d{3})$`)
	windShearRegex   = regexp.MustCompile(`^WS(\d{3})/(\d{3})(\d{2,3})(?:G(\d{2,3}))?(KT|MPS|KMH)$`)
	visMetersRegex   = regexp.MustCompile(`^(\d{4})(?:NDV|[NESW]{1,2})?$`)
	visMilesRegex    = regexp.MustCompile(`^([MP]?\d+(?:/\d+)?)SM$`)
	visWholeRegex    = regexp.MustCompile(`^\d$`)
	visFractionRegex = regexp.MustCompile(`^(\d/\d{1,2})SM$`)
	weatherRegex     = regexp.MustCompile(`^([-+]|VC)?(MI|PR|BC|DR|BL|SH|TS|FZ)?((?:DZ|RA|SN|SG|IC|PL|GR|GS|UP|BR|FG|FU|VA|DU|SA|HZ|PY|PO|SQ|FC|SS|DS)*)$`)
	phenomenonRegex  = regexp.MustCompile(`DZ|RA|SN|SG|IC|PL|GR|GS|UP|BR|FG|FU|VA|DU|SA|HZ|PY|PO|SQ|FC|SS|DS`)
	cloudRegex       = regexp.MustCompile(`^(FEW|SCT|BKN|OVC|VV|NSC|NCD|SKC)(\d{3}|///)?(CB|TCU|///)?$`)
	skyClearRegex    = regexp.MustCompile(`^(SKC|CLR)$`)
	tempRegex        = regexp.MustCompile(`^(M?\d{2})/(M?\d{2})?$`)
	qnhRegex         = regexp.MustCompile(`^Q(\d{4})$`)
	altimeterRegex   = regexp.MustCompile(`^A(\d{4})$`)
	rvrRegex         = regexp.MustCompile(`^R(\d{2}[LCR]?)/([PM])?(\d{4})(?:V[PM]?(\d{4}))?(FT)?/?([UDN])?$`)
	validRegex       = regexp.MustCompile(`^(\d{2})(\d{2})/(\d{2})(\d{2})$`)
	fmRegex          = regexp.MustCompile(`^FM(\d{2})(\d{2})(\d{2})$`)
)

// Weather code vocabulary used by the formatters.
var weatherCodes = map[string]string{
	"+": "Heavy", "-": "Light", "VC": "In the vicinity",
	"MI": "Shallow", "PR": "Partial", "BC": "Patches", "DR": "Drifting",
	"BL": "Blowing", "SH": "Showers", "TS": "Thunderstorm", "FZ": "Freezing",
	"DZ": "Drizzle", "RA": "Rain", "SN": "Snow", "SG": "Snow Grains",
	"IC": "Ice Crystals", "PL": "Ice Pellets", "GR": "Hail",
	"GS": "Small Hail/Snow Pellets", "UP": "Unknown Precipitation",
	"BR": "Mist", "FG": "Fog", "FU": "Smoke", "VA": "Volcanic Ash",
	"DU": "Dust", "SA": "Sand", "HZ": "Haze", "PY": "Spray",
	"PO": "Dust Whirls", "SQ": "Squall", "FC": "Funnel Cloud",
	"SS": "Sandstorm", "DS": "Duststorm",
	"NSW": "No Significant Weather",
}

// Common cloud coverage mapping
var cloudCoverage = map[string]string{
	"FEW": "Few",
	"SCT": "Scattered",
	"BKN": "Broken",
	"OVC": "Overcast",
	"NSC": "No Significant Cloud",
	"NCD": "No Cloud Detected",
	"SKC": "Sky Clear",
	"CLR": "Clear",
	"VV":  "Vertical Visibility",
}

// Common cloud type mapping
var cloudTypes = map[string]string{
	"CB":  "Cumulonimbus",
	"TCU": "Towering Cumulus",
}

var modifierCodes = map[string]string{
	"AUTO": "Automated",
	"COR":  "Corrected",
	"CCA":  "Corrected (1st)",
	"CCB":  "Corrected (2nd)",
	"CCC":  "Corrected (3rd)",
	"CCD":  "Corrected (4th)",
	"CCE":  "Corrected (5th)",
	"CCF":  "Corrected (6th)",
}

var tendencyCodes = map[string]string{
	"U": "increasing",
	"D": "decreasing",
	"N": "no change",
}

var trendCodes = map[string]string{
	"NOSIG": "No significant change",
	"TEMPO": "Temporarily",
	"BECMG": "Becoming",
}
