package util

import (
	"fmt"
	"math"
)

// FormatValueFactor renders value with an engineering prefix, e.g.
// 0.0032 A -> "3.200 mA".
func FormatValueFactor(value float64, unit string) string {
	abs := math.Abs(value)
	switch {
	case value == 0:
		return fmt.Sprintf("0.000 %s", unit)
	case abs >= 1e6:
		return fmt.Sprintf("%.3f M%s", value/1e6, unit)
	case abs >= 1e3:
		return fmt.Sprintf("%.3f k%s", value/1e3, unit)
	case abs >= 1:
		return fmt.Sprintf("%.3f %s", value, unit)
	case abs >= 1e-3:
		return fmt.Sprintf("%.3f m%s", value*1e3, unit)
	case abs >= 1e-6:
		return fmt.Sprintf("%.3f u%s", value*1e6, unit)
	case abs >= 1e-9:
		return fmt.Sprintf("%.3f n%s", value*1e9, unit)
	case abs >= 1e-12:
		return fmt.Sprintf("%.3f p%s", value*1e12, unit)
	default:
		return fmt.Sprintf("%.3e %s", value, unit)
	}
}
