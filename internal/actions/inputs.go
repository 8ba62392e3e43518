package actions

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"stridebeat/internal/cadence"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v2"
)

// InputFlags are the cadence inputs accepted on the command line.
var InputFlags = []cli.Flag{
	&cli.Float64Flag{Name: "height-m", Usage: "height in metres"},
	&cli.Float64Flag{Name: "height-ft", Usage: "height, feet part"},
	&cli.Float64Flag{Name: "height-in", Usage: "height, inches part (0-11)"},
	&cli.Float64Flag{Name: "pace", Usage: "running pace"},
	&cli.StringFlag{Name: "pace-unit", Value: "kmh", Usage: "pace unit: kmh or mph"},
}

// flagInputs is the command-line view of a height and pace.
type flagInputs struct {
	metres, feet, inches, pace      float64
	paceUnit                        string
	hasMetres, hasImperial, hasPace bool
}

func readFlagInputs(c *cli.Context) flagInputs {
	return flagInputs{
		metres:      c.Float64("height-m"),
		feet:        c.Float64("height-ft"),
		inches:      c.Float64("height-in"),
		pace:        c.Float64("pace"),
		paceUnit:    c.String("pace-unit"),
		hasMetres:   c.IsSet("height-m"),
		hasImperial: c.IsSet("height-ft") || c.IsSet("height-in"),
		hasPace:     c.IsSet("pace"),
	}
}

// given reports whether any cadence input was passed as a flag.
func (f flagInputs) given() bool {
	return f.hasMetres || f.hasImperial || f.hasPace
}

func (f flagInputs) toInputs() (cadence.HeightInput, cadence.PaceInput, error) {
	if f.hasMetres && f.hasImperial {
		return cadence.HeightInput{}, cadence.PaceInput{}, errors.New("use either --height-m or --height-ft/--height-in, not both")
	}
	if !f.hasMetres && !f.hasImperial {
		return cadence.HeightInput{}, cadence.PaceInput{}, errors.New("a height is required: --height-m or --height-ft/--height-in")
	}
	if !f.hasPace {
		return cadence.HeightInput{}, cadence.PaceInput{}, errors.New("--pace is required")
	}

	unit, err := parsePaceUnit(f.paceUnit)
	if err != nil {
		return cadence.HeightInput{}, cadence.PaceInput{}, err
	}

	height := cadence.Metres(f.metres)
	if f.hasImperial {
		height = cadence.FeetInches(f.feet, f.inches)
	}
	return height, cadence.PaceInput{Unit: unit, Value: f.pace}, nil
}

func parsePaceUnit(s string) (cadence.PaceUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "kmh", "km/h", "kph":
		return cadence.UnitKmh, nil
	case "mph":
		return cadence.UnitMph, nil
	default:
		return "", fmt.Errorf("unknown pace unit %q, use kmh or mph", s)
	}
}

// parseNumber reads a form field; an empty field counts as zero.
func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.New("enter a number")
	}
	return v, nil
}

func validateNonNegative(s string) error {
	v, err := parseNumber(s)
	if err != nil {
		return err
	}
	if v < 0 {
		return errors.New("must not be negative")
	}
	return nil
}

func validateWholeNumber(max int) func(string) error {
	return func(s string) error {
		v, err := parseNumber(s)
		if err != nil {
			return err
		}
		if v < 0 || v != float64(int(v)) {
			return errors.New("enter a whole number")
		}
		if max > 0 && int(v) > max {
			return fmt.Errorf("must be at most %d", max)
		}
		return nil
	}
}

// formValues holds the raw strings bound to the input form.
type formValues struct {
	heightUnit string
	metres     string
	feet       string
	inches     string
	paceUnit   string
	pace       string
}

func (v formValues) toInputs() (cadence.HeightInput, cadence.PaceInput, error) {
	pace, err := parseNumber(v.pace)
	if err != nil {
		return cadence.HeightInput{}, cadence.PaceInput{}, fmt.Errorf("pace: %w", err)
	}
	paceInput := cadence.PaceInput{Unit: cadence.PaceUnit(v.paceUnit), Value: pace}

	if cadence.HeightUnit(v.heightUnit) == cadence.UnitMetres {
		m, err := parseNumber(v.metres)
		if err != nil {
			return cadence.HeightInput{}, cadence.PaceInput{}, fmt.Errorf("height: %w", err)
		}
		return cadence.Metres(m), paceInput, nil
	}

	ft, err := parseNumber(v.feet)
	if err != nil {
		return cadence.HeightInput{}, cadence.PaceInput{}, fmt.Errorf("feet: %w", err)
	}
	in, err := parseNumber(v.inches)
	if err != nil {
		return cadence.HeightInput{}, cadence.PaceInput{}, fmt.Errorf("inches: %w", err)
	}
	return cadence.FeetInches(ft, in), paceInput, nil
}

// promptInputs asks for height and pace. prev pre-fills the form after a
// rejected submission.
func promptInputs(prev formValues) (formValues, error) {
	v := prev
	if v.heightUnit == "" {
		v.heightUnit = string(cadence.UnitMetres)
	}
	if v.paceUnit == "" {
		v.paceUnit = string(cadence.UnitKmh)
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Input your height").
				Description("Select height unit").
				Options(
					huh.NewOption("Metres", string(cadence.UnitMetres)),
					huh.NewOption("Feet & Inches", string(cadence.UnitFeetInches)),
				).
				Value(&v.heightUnit),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Enter your height in metres").
				Value(&v.metres).
				Validate(validateNonNegative),
		).WithHideFunc(func() bool { return v.heightUnit != string(cadence.UnitMetres) }),
		huh.NewGroup(
			huh.NewInput().
				Title("Feet").
				Value(&v.feet).
				Validate(validateWholeNumber(0)),
			huh.NewInput().
				Title("Inches").
				Value(&v.inches).
				Validate(validateWholeNumber(11)),
		).WithHideFunc(func() bool { return v.heightUnit != string(cadence.UnitFeetInches) }),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Input your running pace").
				Description("Select pace unit").
				Options(
					huh.NewOption("km/h", string(cadence.UnitKmh)),
					huh.NewOption("mph", string(cadence.UnitMph)),
				).
				Value(&v.paceUnit),
			huh.NewInput().
				Title("Enter your pace").
				Value(&v.pace).
				Validate(validateNonNegative),
		),
	)

	if err := form.Run(); err != nil {
		return prev, err
	}
	return v, nil
}

// inputsFromCommand uses flags when any were given, the form otherwise.
func inputsFromCommand(c *cli.Context) (cadence.HeightInput, cadence.PaceInput, error) {
	if f := readFlagInputs(c); f.given() {
		return f.toInputs()
	}
	v, err := promptInputs(formValues{})
	if err != nil {
		return cadence.HeightInput{}, cadence.PaceInput{}, err
	}
	return v.toInputs()
}
