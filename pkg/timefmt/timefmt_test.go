package timefmt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRelative(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		t    time.Time
		want string
	}{
		{"seconds ago", now.Add(-30 * time.Second), "justo ahora"},
		{"one minute", now.Add(-90 * time.Second), "hace 1 minuto"},
		{"minutes", now.Add(-45 * time.Minute), "hace 45 minutos"},
		{"one hour", now.Add(-70 * time.Minute), "hace 1 hora"},
		{"hours", now.Add(-2 * time.Hour), "hace 2 horas"},
		{"yesterday", now.Add(-30 * time.Hour), "ayer"},
		{"days", now.Add(-5 * 24 * time.Hour), "hace 5 días"},
		{"one month", now.Add(-40 * 24 * time.Hour), "hace 1 mes"},
		{"months", now.Add(-95 * 24 * time.Hour), "hace 3 meses"},
		{"one year", now.Add(-400 * 24 * time.Hour), "hace 1 año"},
		{"years", now.Add(-3 * 365 * 24 * time.Hour), "hace 3 años"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Relative(tc.t, now))
		})
	}
}

func TestRelativeMillis(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	twoHoursAgo := now.Add(-2 * time.Hour).UnixMilli()

	assert.Equal(t, "hace 2 horas", RelativeMillis(twoHoursAgo, now))
}
