package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
)

var (
	freshColor   = color.New(color.FgGreen)
	warningColor = color.New(color.FgYellow)
	expiredColor = color.New(color.FgRed)
)

// metarAgeColor returns the colour for a METAR observed age ago. METARs are
// issued hourly, so anything past the hour is stale.
func metarAgeColor(age time.Duration) *color.Color {
	minutes := int(age.Minutes())
	if minutes > 60 {
		return expiredColor
	} else if minutes > 30 {
		return warningColor
	}
	return freshColor
}

// tafAgeColor returns the colour for a TAF issued age ago.
func tafAgeColor(age time.Duration) *color.Color {
	hours := age.Hours()
	if hours > 6.0 {
		return expiredColor
	} else if hours > 5.5 {
		return warningColor
	}
	return freshColor
}

// relativeTimeString renders age as "(N minutes ago)" and similar.
func relativeTimeString(age time.Duration) string {
	minutes := int(age.Minutes())

	switch {
	case age < 0:
		return "(in the future)"
	case minutes < 1:
		return "(just now)"
	case minutes < 60:
		return fmt.Sprintf("(%d minutes ago)", minutes)
	case minutes < 1440:
		hours, mins := minutes/60, minutes%60
		if mins == 0 {
			return fmt.Sprintf("(%d hours ago)", hours)
		}
		return fmt.Sprintf("(%d hours, %d minutes ago)", hours, mins)
	default:
		days, hours := minutes/1440, (minutes%1440)/60
		if hours == 0 {
			return fmt.Sprintf("(%d days ago)", days)
		}
		return fmt.Sprintf("(%d days, %d hours ago)", days, hours)
	}
}
