package wxcraft

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"
)

// Mode selects the output markup.
type Mode int

const (
	Text Mode = iota
	HTML
	RichHTML
)

// Options controls rendering. The zero value renders uncoloured plain text
// with "\n" line endings.
type Options struct {
	EOL   string // text mode only
	Mode  Mode
	Color bool // text mode only; forces ANSI colours on
}

const notAvailable = "N/A"

// renderer accumulates output lines for one format call.
type renderer struct {
	opts   Options
	lines  []string
	indent string
	base   string

	label   *color.Color
	section *color.Color
	alert   *color.Color
}

func newRenderer(opts Options) *renderer {
	if opts.EOL == "" {
		opts.EOL = "\n"
	}

	r := &renderer{
		opts:    opts,
		label:   color.New(color.FgCyan),
		section: color.New(color.FgBlue, color.Bold),
		alert:   color.New(color.FgRed),
	}
	for _, c := range []*color.Color{r.label, r.section, r.alert} {
		if opts.Color && opts.Mode == Text {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	return r
}

func (r *renderer) markup() bool { return r.opts.Mode != Text }
func (r *renderer) rich() bool   { return r.opts.Mode == RichHTML }

func (r *renderer) add(line string) {
	r.lines = append(r.lines, r.indent+line)
}

// blank adds an empty separator line in text mode.
func (r *renderer) blank() {
	if !r.markup() && len(r.lines) > 0 && r.lines[len(r.lines)-1] != "" {
		r.lines = append(r.lines, "")
	}
}

// deg returns the degree sign for the current mode.
func (r *renderer) deg() string {
	if r.markup() {
		return "&#176;"
	}
	return "°"
}

// sym returns the symbol followed by a space in markup modes, nothing in text.
func (r *renderer) sym(symbol string) string {
	if !r.markup() || symbol == "" {
		return ""
	}
	return symbol + " "
}

// richSym is sym restricted to rich markup.
func (r *renderer) richSym(symbol string) string {
	if !r.rich() {
		return ""
	}
	return r.sym(symbol)
}

// suffixed appends the symbol after the value in markup modes.
func (r *renderer) suffixed(value, symbol string) string {
	if !r.markup() {
		return value
	}
	return value + " " + symbol
}

// text escapes free text taken from the report for markup output.
func (r *renderer) text(s string) string {
	if r.markup() {
		return escapeHTML(s)
	}
	return s
}

// field writes a "Label: value" line.
func (r *renderer) field(label, symbol, value string) {
	if r.markup() {
		r.add(fmt.Sprintf(`<p><span class="label">%s:</span> %s%s</p>`, label, r.sym(symbol), value))
		return
	}
	r.add(r.label.Sprint(label+":") + " " + value)
}

// alertField is field with the label in the alert colour.
func (r *renderer) alertField(label, value string) {
	if r.markup() {
		r.field(label, "", r.text(value))
		return
	}
	r.add(r.alert.Sprint(label+":") + " " + value)
}

// list writes a label followed by one item per line.
func (r *renderer) list(label string, items []string) {
	if r.markup() {
		r.add(fmt.Sprintf(`<p><span class="label">%s:</span></p>`, label))
		r.add("<ul>")
		for _, item := range items {
			r.add("  <li>" + item + "</li>")
		}
		r.add("</ul>")
		return
	}
	r.add(r.label.Sprint(label + ":"))
	for _, item := range items {
		r.add("  - " + item)
	}
}

// openSection starts a titled block such as "BASE FORECAST".
func (r *renderer) openSection(title, symbol string) {
	if r.markup() {
		r.add(fmt.Sprintf(`<h3 class="forecast-section">%s<span class="section-title">%s</span></h3>`, r.sym(symbol), title))
		r.add(`<div class="forecast-content">`)
	} else {
		r.add(r.section.Sprint(title + ":"))
	}
	r.indent += "  "
}

func (r *renderer) closeSection() {
	r.indent = strings.TrimSuffix(r.indent, "  ")
	if r.markup() {
		r.add("</div>")
		return
	}
	r.blank()
}

// guard runs render and turns a panic into a "Formatting Error" line below
// whatever was already rendered.
func (r *renderer) guard(op, raw string, render func()) {
	var note string
	func() {
		defer recoverInto(&note, op, raw)
		render()
	}()

	if note != "" {
		r.indent = r.base
		r.alertField("Formatting Error", note)
	}
}

func (r *renderer) String() string {
	if r.markup() {
		return strings.Join(r.lines, "\n")
	}
	return strings.Join(r.lines, r.opts.EOL)
}

// FormatMETAR renders a decoded METAR. It never panics; a rendering failure is
// reported as a "Formatting Error" line after the lines already produced.
func FormatMETAR(m MetarReport, opts Options) string {
	if m.Empty() {
		return "Invalid METAR data"
	}

	r := newRenderer(opts)
	r.open("metar-report", metarCSS)
	r.guard("format metar", m.Raw, func() { r.metar(m) })
	r.close()

	return r.String()
}

// FormatTAF renders a decoded TAF with the same guarantees as FormatMETAR.
func FormatTAF(t TafReport, opts Options) string {
	if t.Empty() {
		return "Invalid TAF data"
	}

	r := newRenderer(opts)
	r.open("taf-report", tafCSS)
	r.guard("format taf", t.Raw, func() { r.taf(t) })
	r.close()

	return r.String()
}

func (r *renderer) metar(m MetarReport) {
	if r.rich() {
		r.field("Raw", symbolMemo, "<code>"+r.text(m.Raw)+"</code>")
	}

	r.field("Station", "", orNA(m.Station))
	r.field("Report Type", "", m.Kind.String())
	if m.Modifier != "" {
		r.field("Modifier", "", lookup(modifierCodes, m.Modifier))
	}

	day, clock, hm, iso := notAvailable, notAvailable, notAvailable, notAvailable
	if m.Time != nil {
		day, clock, hm, iso = m.Time.DayOrdinal(), m.Time.Raw, m.Time.HM(), m.Time.ISO8601()
	}
	r.field("Observation Day", "", day)
	r.field("Observation Time", "", r.suffixed(clock, symbolClock))
	r.field("Observation Time HM", "", hm)
	r.field("Observation Time ISO8601", "", iso)

	if m.Wind != nil {
		r.field("Wind", windSymbol(m.Wind.Speed, m.Wind.Gust), r.wind(*m.Wind))
	}

	visibility := notAvailable
	if m.Visibility != nil {
		visibility = m.Visibility.String()
	}
	r.field("Visibility", visibilitySymbol(m.Visibility), visibility)

	if len(m.Weather) > 0 {
		r.field("Weather", weatherSymbol(m.Weather), describeWeather(m.Weather))
	}

	switch {
	case m.SkyClear != "":
		r.field("Clouds", cloudSymbol(m.SkyClear), lookup(cloudCoverage, m.SkyClear))
	case len(m.Clouds) > 0:
		r.clouds(m.Clouds)
	}

	r.field("Temperature/Dewpoint", symbolThermometer, r.temperature(m.Temperature, m.DewPoint))

	if m.Altimeter != nil {
		r.field("Altimeter", symbolGauge, describeAltimeter(*m.Altimeter))
	}

	if len(m.RVR) > 0 {
		items := make([]string, 0, len(m.RVR))
		for _, rvr := range m.RVR {
			items = append(items, describeRVR(rvr))
		}
		r.list("Runway Visual Range", items)
	}

	if m.Trend != nil {
		trend := lookup(trendCodes, m.Trend.Indicator)
		if m.Trend.Text != "" {
			trend += ": " + r.text(m.Trend.Text)
		}
		r.field("Trend", "", trend)
	}

	if m.Remarks != nil {
		r.field("Remarks", "", r.text(m.Remarks.Raw))
		if items := describeRemarks(*m.Remarks, r.deg()); len(items) > 0 {
			r.list("Decoded Remarks", items)
		}
	}

	if m.ParseError != "" {
		r.alertField("Parse Error", m.ParseError)
	}
}

func (r *renderer) taf(t TafReport) {
	if r.rich() {
		r.field("Raw", symbolMemo, "<code>"+r.text(t.Raw)+"</code>")
	}

	r.field("Station", "", orNA(t.Station))

	issue := notAvailable
	if t.IssueTime != nil {
		issue = t.IssueTime.Raw
	}
	r.field("Issue Time", "", r.suffixed(issue, symbolClock))

	from, to := notAvailable, notAvailable
	if t.ValidityWindow != nil {
		from, to = t.From.Label(), t.To.Label()
	}
	r.field("Valid Period", symbolCalendar, from+" to "+to)

	if flags := r.flags(t); len(flags) > 0 {
		r.field("Type", "", strings.Join(flags, ", "))
	}
	r.blank()

	r.openSection("BASE FORECAST", changeSymbol(Base))
	r.conditions(t.Base.Conditions)
	r.closeSection()

	if len(t.Changes) > 0 {
		r.openSection("FORECAST CHANGES", symbolChanges)
		for i, group := range t.Changes {
			r.changeGroup(i+1, group)
		}
		r.closeSection()
	}

	if t.Temperatures != nil {
		r.openSection("TEMPERATURE FORECAST", symbolThermometer)
		for _, p := range t.Temperatures.Max {
			r.field("Maximum", symbolThermometer, fmt.Sprintf("%d%sC at %sZ", p.Value, r.deg(), p.Time))
		}
		for _, p := range t.Temperatures.Min {
			r.field("Minimum", symbolThermometer, fmt.Sprintf("%d%sC at %sZ", p.Value, r.deg(), p.Time))
		}
		r.closeSection()
	}

	if len(t.QNH) > 0 {
		r.openSection("PRESSURE FORECAST", symbolGauge)
		for i, qnh := range t.QNH {
			if r.markup() {
				r.add(fmt.Sprintf(`<p>%d. <span class="label">QNH:</span> %s%s</p>`, i+1, r.sym(symbolGauge), qnh))
			} else {
				r.add(fmt.Sprintf("%d. %s %s", i+1, r.label.Sprint("QNH:"), qnh))
			}
		}
		r.closeSection()
	}

	if t.Remarks != "" {
		r.field("Remarks", "", r.text(t.Remarks))
	}

	if t.ParseError != "" {
		r.alertField("Parse Error", t.ParseError)
	}
}

// flags lists the TAF header flags in report order.
func (r *renderer) flags(t TafReport) []string {
	var flags []string
	if t.IsAmended {
		flags = append(flags, r.richSym(symbolWarning)+"AMENDED")
	}
	if t.IsCorrected {
		flags = append(flags, r.richSym(symbolWarning)+"CORRECTED")
	}
	if t.IsNil {
		flags = append(flags, r.richSym(symbolNoEntry)+"NIL (Forecast Suspended)")
	}
	if t.IsAuto {
		flags = append(flags, r.richSym(symbolRobot)+"AUTOMATED")
	}
	if t.AmdNotSked {
		flags = append(flags, "AMD NOT SKED (Updates not scheduled)")
	}
	return flags
}

// changeGroup renders the numbered header of a change group and its
// conditions one level deeper.
func (r *renderer) changeGroup(n int, g ForecastGroup) {
	title, period := changeHeading(g)

	if r.markup() {
		r.add(fmt.Sprintf(`<h4 class="change-group">%d. %s<span class="change-type">%s</span> %s:</h4>`,
			n, r.richSym(changeSymbol(g.Kind)), title, period))
		r.add(`<div class="change-content">`)
		r.indent += "  "
		r.conditions(g.Conditions)
		r.indent = strings.TrimSuffix(r.indent, "  ")
		r.add("</div>")
		return
	}

	r.add(fmt.Sprintf("%d. %s %s:", n, r.section.Sprint(title), period))
	r.indent += "   "
	r.conditions(g.Conditions)
	r.indent = strings.TrimSuffix(r.indent, "   ")
	r.blank()
}

// conditions renders the elements shared by every forecast group.
func (r *renderer) conditions(c Conditions) {
	if ws := c.WindShear; ws != nil {
		shear := fmt.Sprintf("Wind shear at %d feet: %03d%s at %d KT", ws.Height, ws.Direction, r.deg(), ws.Speed)
		if ws.Gust != nil {
			shear += fmt.Sprintf(", gusting to %d KT", *ws.Gust)
		}
		r.field("Wind Shear", symbolWindShear, shear)
	}

	if c.Wind != nil {
		r.field("Wind", windSymbol(c.Wind.Speed, c.Wind.Gust), r.wind(*c.Wind))
	}

	if c.Visibility != nil {
		r.field("Visibility", visibilitySymbol(c.Visibility), c.Visibility.String())
	}

	if len(c.Weather) > 0 {
		r.field("Weather", weatherSymbol(c.Weather), describeWeather(c.Weather))
	}

	if len(c.Clouds) > 0 {
		r.clouds(c.Clouds)
	}
}

// wind renders "350° at 4 KT, gusting to 20 KT, varying between 300° and 040°".
func (r *renderer) wind(w Wind) string {
	var s string
	switch {
	case w.Partial:
	case w.Calm:
		s = "Calm"
	case w.Variable:
		s = fmt.Sprintf("Variable at %d KT", w.Speed)
	default:
		s = fmt.Sprintf("%03d%s at %d KT", w.Direction, r.deg(), w.Speed)
	}

	if w.Gust != nil {
		s += fmt.Sprintf(", gusting to %d KT", *w.Gust)
	}

	if v := w.Variation; v != nil {
		varying := fmt.Sprintf("varying between %03d%s and %03d%s", v.From, r.deg(), v.To, r.deg())
		if s == "" {
			s = capitalizeFirst(varying)
		} else {
			s += ", " + varying
		}
	}

	return s
}

func (r *renderer) clouds(clouds []CloudLayer) {
	items := make([]string, 0, len(clouds))
	for _, c := range clouds {
		items = append(items, r.sym(cloudSymbol(c.Cover))+r.richSym(convectiveSymbol(c.Convective))+describeCloud(c))
	}
	r.list("Clouds", items)
}

// temperature renders "12/6 °C (54 °F)", with N/A for missing values.
func (r *renderer) temperature(temp, dew *int) string {
	t, d := notAvailable, notAvailable
	if temp != nil {
		t = strconv.Itoa(*temp)
	}
	if dew != nil {
		d = strconv.Itoa(*dew)
	}

	s := fmt.Sprintf("%s/%s %sC", t, d, r.deg())
	if temp != nil {
		s += fmt.Sprintf(" (%d %sF)", CelsiusToFahrenheit(*temp), r.deg())
	}
	return s
}

// changeHeading returns the title and period of a change group header, e.g.
// "PROB30 TEMPORARY" and "1400 on 12th to 1800 on 12th".
func changeHeading(g ForecastGroup) (string, string) {
	var title string
	switch g.Kind {
	case Tempo:
		title = "TEMPORARY"
	case Becmg:
		title = "BECOMING"
	case From:
		title = "FROM"
	case Prob30Tempo, Prob40Tempo:
		title = strings.TrimSuffix(g.Kind.String(), " TEMPO") + " TEMPORARY"
	default:
		title = g.Kind.String()
	}

	if g.Kind == From {
		if g.Start == nil {
			return title, notAvailable
		}
		return title, g.Start.Label()
	}

	if g.ValidityWindow == nil {
		return title, notAvailable + " to " + notAvailable
	}
	return title, g.From.Label() + " to " + g.To.Label()
}

// describeWeather renders phenomena as "Light Showers Rain, Mist".
func describeWeather(weather []WeatherPhenomenon) string {
	descriptions := make([]string, 0, len(weather))
	for _, wx := range weather {
		var parts []string
		for _, code := range []string{wx.Intensity, wx.Descriptor, wx.Phenomenon} {
			if code != "" {
				parts = append(parts, lookup(weatherCodes, code))
			}
		}
		descriptions = append(descriptions, strings.Join(parts, " "))
	}
	return strings.Join(descriptions, ", ")
}

// describeCloud renders "Scattered at 2400 feet (Cumulonimbus)".
func describeCloud(c CloudLayer) string {
	s := lookup(cloudCoverage, c.Cover)

	switch {
	case c.Height != nil:
		s += fmt.Sprintf(" at %d feet", *c.Height*100)
	case c.Cover != "NSC" && c.Cover != "NCD" && c.Cover != "SKC":
		s += " at unknown height"
	}

	if name, ok := cloudTypes[c.Convective]; ok {
		s += " (" + name + ")"
	}
	return s
}

// describeAltimeter renders the setting with its conversion to the other unit.
func describeAltimeter(a Altimeter) string {
	if a.Unit == InchesOfMercury {
		return fmt.Sprintf("%s (%.0f hPa)", a, InHgToMillibars(a.Value))
	}
	return fmt.Sprintf("%s (%.2f inHg)", a, MillibarsToInHg(a.Value))
}

// describeRVR renders "Runway 27L: more than 1500 meters, increasing".
func describeRVR(v RunwayVisualRange) string {
	value := strconv.Itoa(v.Range)
	switch v.Prefix {
	case "P":
		value = "more than " + value
	case "M":
		value = "less than " + value
	}
	if v.MaxRange != nil {
		value += fmt.Sprintf(" to %d", *v.MaxRange)
	}

	unit := "meters"
	if v.Feet {
		unit = "feet"
	}

	s := fmt.Sprintf("Runway %s: %s %s", v.Runway, value, unit)
	if tendency, ok := tendencyCodes[v.Tendency]; ok {
		s += ", " + tendency
	}
	return s
}

var stationTypes = map[string]string{
	"AO1": "Automated station without precipitation sensor",
	"AO2": "Automated station with precipitation sensor",
}

// describeRemarks lists the decoded remark groups, one sentence each.
func describeRemarks(rm Remarks, deg string) []string {
	var items []string

	if rm.StationType != "" {
		items = append(items, lookup(stationTypes, rm.StationType))
	}

	switch {
	case rm.SeaLevelPressure != nil:
		items = append(items, fmt.Sprintf("Sea level pressure %.1f hPa", *rm.SeaLevelPressure))
	case rm.SeaLevelUnavailable:
		items = append(items, "Sea level pressure not available")
	}

	if pk := rm.PeakWind; pk != nil {
		at := fmt.Sprintf("%d minutes past the hour", pk.Minute)
		if pk.Hour != nil {
			at = fmt.Sprintf("%02d:%02dZ", *pk.Hour, pk.Minute)
		}
		items = append(items, fmt.Sprintf("Peak wind %03d%s at %d KT at %s", pk.Direction, deg, pk.Speed, at))
	}

	if rm.Temperature != nil {
		s := fmt.Sprintf("Temperature %.1f%sC", *rm.Temperature, deg)
		if rm.DewPoint != nil {
			s += fmt.Sprintf(", dewpoint %.1f%sC", *rm.DewPoint, deg)
		}
		items = append(items, s)
	}

	if rm.Precipitation != nil {
		items = append(items, fmt.Sprintf("Precipitation %.2f inches in the last hour", *rm.Precipitation))
	}

	if pt := rm.Tendency; pt != nil {
		items = append(items, fmt.Sprintf("Pressure %s, %.1f hPa change in 3 hours", tendencyNames[pt.Character], pt.Change))
	}

	switch rm.PressureTrend {
	case "PRESRR":
		items = append(items, "Pressure rising rapidly")
	case "PRESFR":
		items = append(items, "Pressure falling rapidly")
	}

	if rm.SixHourMax != nil {
		items = append(items, fmt.Sprintf("6-hour maximum temperature %.1f%sC", *rm.SixHourMax, deg))
	}
	if rm.SixHourMin != nil {
		items = append(items, fmt.Sprintf("6-hour minimum temperature %.1f%sC", *rm.SixHourMin, deg))
	}
	if rm.DayMax != nil && rm.DayMin != nil {
		items = append(items, fmt.Sprintf("24-hour maximum temperature %.1f%sC, minimum %.1f%sC", *rm.DayMax, deg, *rm.DayMin, deg))
	}
	if rm.DayPrecipitation != nil {
		items = append(items, fmt.Sprintf("Precipitation %.2f inches in the last 24 hours", *rm.DayPrecipitation))
	}
	if rm.SnowDepth != nil {
		items = append(items, fmt.Sprintf("Snow depth %d inches", *rm.SnowDepth))
	}

	items = append(items, describeWeatherEvents(rm.WeatherBegan, "began")...)
	items = append(items, describeWeatherEvents(rm.WeatherEnded, "ended")...)

	for _, code := range rm.RecentWeather {
		items = append(items, "Recent "+describeWeather(parseWeather(code)))
	}
	if rm.Virga {
		items = append(items, "Virga (precipitation not reaching the ground)")
	}
	if rm.FrontalPassage {
		items = append(items, "Frontal passage")
	}

	if rm.MilitaryColor != "" {
		s := "Military colour state " + lookup(militaryColorNames, rm.MilitaryColor)
		if rm.ColorTemporary {
			s += " (temporary)"
		}
		items = append(items, s)
	}

	if rm.Maintenance {
		items = append(items, "Station requires maintenance")
	}

	for _, outage := range rm.SensorOutages {
		s := lookup(sensorNames, outage.Code)
		if outage.Location != "" {
			s += " (" + outage.Location + ")"
		}
		items = append(items, s)
	}

	return items
}

// describeWeatherEvents renders begin or end events sorted by weather code.
func describeWeatherEvents(events map[string]int, verb string) []string {
	codes := make([]string, 0, len(events))
	for code := range events {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	items := make([]string, 0, len(codes))
	for _, code := range codes {
		name := code
		if wx := parseWeather(code); len(wx) > 0 {
			name = describeWeather(wx)
		}
		items = append(items, fmt.Sprintf("%s %s at %d minutes past the hour", name, verb, events[code]))
	}
	return items
}

func lookup(table map[string]string, code string) string {
	if label, ok := table[code]; ok {
		return label
	}
	return code
}

func orNA(s string) string {
	if s == "" {
		return notAvailable
	}
	return s
}
