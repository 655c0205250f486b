package wxcraft

// HTML entity symbols used by the markup formatters.
const (
	symbolClock       = "&#9200;"
	symbolCalendar    = "&#128197;"
	symbolSun         = "&#9728;&#65039;"
	symbolEye         = "&#128065;&#65039;"
	symbolThermometer = "&#127777;&#65039;"
	symbolGauge       = "&#128317;"
	symbolWindShear   = "&#128314;"
	symbolChanges     = "&#128260;"
	symbolWarning     = "&#9888;&#65039;"
	symbolRobot       = "&#129302;"
	symbolNoEntry     = "&#9940;"
	symbolMemo        = "&#128221;"

	symbolStrongWind = "&#127786;&#65039;"
	symbolBreeze     = "&#128168;"
	symbolLightWind  = "&#127788;&#65039;"

	symbolThunder   = "&#9928;&#65039;"
	symbolSnowflake = "&#10052;&#65039;"
	symbolSnow      = "&#127784;&#65039;"
	symbolShowers   = "&#127782;&#65039;"
	symbolRain      = "&#127783;&#65039;"
	symbolFog       = "&#127787;&#65039;"
	symbolDesert    = "&#127964;&#65039;"
	symbolTornado   = "&#127785;&#65039;"

	symbolSunCloud = "&#9925;"
	symbolCloud    = "&#9729;&#65039;"
)

// windSymbol picks a symbol by sustained speed and gust in knots.
func windSymbol(speed int, gust *int) string {
	switch {
	case gust != nil && *gust > 25, speed > 30:
		return symbolStrongWind
	case speed > 10:
		return symbolBreeze
	default:
		return symbolLightWind
	}
}

// visibilitySymbol returns the sun for CAVOK and an eye otherwise.
func visibilitySymbol(v *Visibility) string {
	if v.IsCAVOK() {
		return symbolSun
	}
	return symbolEye
}

// weatherSymbol returns the symbol of the first phenomenon that has one.
// Within a phenomenon thunderstorms rank above snow, freezing, rain, showers,
// drizzle, obscuration and dust.
func weatherSymbol(weather []WeatherPhenomenon) string {
	for _, wx := range weather {
		switch {
		case wx.Descriptor == "TS" || wx.Phenomenon == "TS":
			return symbolThunder
		case wx.Phenomenon == "SN":
			if wx.Intensity == "-" {
				return symbolSnowflake
			}
			return symbolSnow
		case wx.Descriptor == "FZ":
			return symbolSnowflake
		case wx.Phenomenon == "RA":
			switch {
			case wx.Descriptor == "SH", wx.Intensity == "-":
				return symbolShowers
			case wx.Intensity == "+":
				return symbolThunder
			}
			return symbolRain
		case wx.Descriptor == "SH", wx.Phenomenon == "DZ":
			return symbolShowers
		case wx.Phenomenon == "FG", wx.Phenomenon == "BR", wx.Phenomenon == "HZ":
			return symbolFog
		case wx.Phenomenon == "DU", wx.Phenomenon == "SA":
			return symbolDesert
		}
	}
	return ""
}

// cloudSymbol picks a symbol by cloud cover.
func cloudSymbol(cover string) string {
	switch cover {
	case "SKC", "NSC", "CLR", "NCD":
		return symbolSun
	case "FEW", "SCT":
		return symbolSunCloud
	case "VV":
		return symbolFog
	default:
		return symbolCloud
	}
}

func convectiveSymbol(convective string) string {
	switch convective {
	case "CB":
		return symbolThunder
	case "TCU":
		return symbolTornado
	}
	return ""
}

var changeSymbols = map[GroupKind]string{
	Base:        "&#127780;&#65039;",
	Tempo:       "&#9201;&#65039;",
	Becmg:       "&#128200;",
	Prob30:      "&#127922;",
	Prob40:      "&#127922;",
	Prob30Tempo: "&#127922;",
	Prob40Tempo: "&#127922;",
	From:        "&#9193;",
}

func changeSymbol(kind GroupKind) string {
	if s, ok := changeSymbols[kind]; ok {
		return s
	}
	return symbolChanges
}
