// Package timefmt renders the Spanish relative-time labels shown next
// to each conversation in the chat directory.
package timefmt

import (
	"fmt"
	"time"
)

// Relative returns a label like "hace 2 horas" or "ayer" describing how
// long before now t happened. Future or sub-minute values collapse to
// "justo ahora".
func Relative(t, now time.Time) string {
	d := now.Sub(t)

	switch {
	case d < time.Minute:
		return "justo ahora"
	case d < 2*time.Minute:
		return "hace 1 minuto"
	case d < time.Hour:
		return fmt.Sprintf("hace %d minutos", int(d.Minutes()))
	case d < 2*time.Hour:
		return "hace 1 hora"
	case d < 24*time.Hour:
		return fmt.Sprintf("hace %d horas", int(d.Hours()))
	case d < 48*time.Hour:
		return "ayer"
	case d < 30*24*time.Hour:
		return fmt.Sprintf("hace %d días", int(d.Hours()/24))
	case d < 60*24*time.Hour:
		return "hace 1 mes"
	case d < 365*24*time.Hour:
		return fmt.Sprintf("hace %d meses", int(d.Hours()/(24*30)))
	case d < 2*365*24*time.Hour:
		return "hace 1 año"
	default:
		return fmt.Sprintf("hace %d años", int(d.Hours()/(24*365)))
	}
}

// RelativeMillis is Relative for a milliseconds-since-epoch timestamp,
// the representation messages carry on the wire.
func RelativeMillis(millis int64, now time.Time) string {
	return Relative(time.UnixMilli(millis), now)
}
