package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKphToMph(t *testing.T) {
	assert.Equal(t, 0.621371, KphToMph(1))
	assert.Equal(t, 0.0, KphToMph(0))
	assert.InDelta(t, 12.42742, KphToMph(20), 1e-9)
}

func TestCmToInches(t *testing.T) {
	assert.Equal(t, 0.393701, CmToInches(1))
	assert.InDelta(t, 39.3701, CmToInches(100), 1e-9)
}

func TestCelsiusToFahrenheit(t *testing.T) {
	assert.Equal(t, 32.0, CelsiusToFahrenheit(0))
	assert.Equal(t, 212.0, CelsiusToFahrenheit(100))
	assert.Equal(t, -40.0, CelsiusToFahrenheit(-40))
}
