package notifications

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Colombia has no daylight saving time.
var bogota = time.FixedZone("COT", -5*60*60)

// formatCOP renders whole pesos the way es-CO does: "$ 180.000".
func formatCOP(amount decimal.Decimal) string {
	value := amount.Round(0).IntPart()
	sign := ""
	if value < 0 {
		sign = "-"
		value = -value
	}
	digits := strconv.FormatInt(value, 10)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return sign + "$ " + b.String()
}

func formatCents(cents int64) string {
	return formatCOP(decimal.New(cents, -2))
}

var spanishMonths = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// formatLongDate renders "2 de marzo de 2026" in Bogota time.
func formatLongDate(t time.Time) string {
	local := t.In(bogota)
	return strconv.Itoa(local.Day()) + " de " + spanishMonths[local.Month()-1] + " de " + strconv.Itoa(local.Year())
}

func formatTimestamp(t time.Time) string {
	return t.In(bogota).Format("02/01/2006 15:04")
}
