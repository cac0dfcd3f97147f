package domain

// UnitConverter is a pure numeric conversion applied by the normalizer to a
// non-absent extracted value.
type UnitConverter func(float64) float64

// KphToMph converts kilometers per hour to miles per hour.
func KphToMph(v float64) float64 { return v * 0.621371 }

// CmToInches converts centimeters to inches.
func CmToInches(v float64) float64 { return v * 0.393701 }

// CelsiusToFahrenheit converts °C to °F.
func CelsiusToFahrenheit(v float64) float64 { return v*9/5 + 32 }
