// Package cadence estimates a runner's step cadence from height and pace.
//
// Stride length is approximated as a fixed fraction of body height, so the
// cadence in steps per minute is running speed (m/min) divided by stride (m).
package cadence

import (
	"errors"
	"fmt"
	"math"
)

// Conversion factors.
const (
	StrideFactor = 0.41

	FootToMetre = 0.3048
	InchToMetre = 0.0254

	KmhToMetresPerMinute = 16.6667
	MphToMetresPerMinute = 26.8224
)

// HeightUnit selects which fields of a HeightInput are populated.
type HeightUnit string

const (
	UnitMetres     HeightUnit = "metres"
	UnitFeetInches HeightUnit = "feet_inches"
)

// PaceUnit is the unit of a PaceInput value.
type PaceUnit string

const (
	UnitKmh PaceUnit = "km/h"
	UnitMph PaceUnit = "mph"
)

// Cadence is a step frequency in steps per minute.
type Cadence float64

// HeightInput is either a height in metres or a feet/inches pair,
// depending on Unit.
type HeightInput struct {
	Unit   HeightUnit
	Metres float64
	Feet   float64
	Inches float64
}

// Metres returns a metric height.
func Metres(m float64) HeightInput {
	return HeightInput{Unit: UnitMetres, Metres: m}
}

// FeetInches returns an imperial height.
func FeetInches(ft, in float64) HeightInput {
	return HeightInput{Unit: UnitFeetInches, Feet: ft, Inches: in}
}

// PaceInput is a running speed tagged with its unit.
type PaceInput struct {
	Unit  PaceUnit
	Value float64
}

// Kmh returns a pace in kilometres per hour.
func Kmh(v float64) PaceInput {
	return PaceInput{Unit: UnitKmh, Value: v}
}

// Mph returns a pace in miles per hour.
func Mph(v float64) PaceInput {
	return PaceInput{Unit: UnitMph, Value: v}
}

// ErrInvalidInput is matched by every InvalidInputError.
var ErrInvalidInput = errors.New("invalid input")

// InvalidInputError reports a height or pace that cannot produce a cadence.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

func invalid(field, reason string) error {
	return &InvalidInputError{Field: field, Reason: reason}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// InMetres normalizes the height to metres. The result is always > 0.
func (h HeightInput) InMetres() (float64, error) {
	var m float64
	switch h.Unit {
	case UnitMetres:
		if !finite(h.Metres) || h.Metres < 0 {
			return 0, invalid("height", "metres must be a non-negative number")
		}
		m = h.Metres
	case UnitFeetInches:
		if !finite(h.Feet) || h.Feet < 0 {
			return 0, invalid("height", "feet must be a non-negative number")
		}
		if !finite(h.Inches) || h.Inches < 0 || h.Inches >= 12 {
			return 0, invalid("height", "inches must be between 0 and 11")
		}
		m = h.Feet*FootToMetre + h.Inches*InchToMetre
	default:
		return 0, invalid("height", fmt.Sprintf("unknown unit %q", h.Unit))
	}
	if m <= 0 {
		return 0, invalid("height", "must be greater than zero")
	}
	return m, nil
}

// MetresPerMinute normalizes the pace to metres per minute. The result is always > 0.
func (p PaceInput) MetresPerMinute() (float64, error) {
	if !finite(p.Value) || p.Value < 0 {
		return 0, invalid("pace", "must be a non-negative number")
	}
	if p.Value == 0 {
		return 0, invalid("pace", "must be greater than zero")
	}
	switch p.Unit {
	case UnitKmh:
		return p.Value * KmhToMetresPerMinute, nil
	case UnitMph:
		return p.Value * MphToMetresPerMinute, nil
	default:
		return 0, invalid("pace", fmt.Sprintf("unknown unit %q", p.Unit))
	}
}

// StrideLength returns the estimated stride in metres for the given height.
func StrideLength(height HeightInput) (float64, error) {
	m, err := height.InMetres()
	if err != nil {
		return 0, err
	}
	return m * StrideFactor, nil
}

// Estimate converts height and pace into steps per minute.
func Estimate(height HeightInput, pace PaceInput) (Cadence, error) {
	stride, err := StrideLength(height)
	if err != nil {
		return 0, err
	}
	speed, err := pace.MetresPerMinute()
	if err != nil {
		return 0, err
	}
	return Cadence(speed / stride), nil
}
