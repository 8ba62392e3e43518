package cadence

import (
	"errors"
	"math"
	"testing"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestEstimate(t *testing.T) {
	tests := []struct {
		name   string
		height HeightInput
		pace   PaceInput
		stride float64
		want   float64
	}{
		{"metric", Metres(1.75), Kmh(10), 0.7175, 232.2885},
		{"imperial", FeetInches(6, 0), Mph(6), 0.749808, 214.6341},
		{"mixed units", FeetInches(5, 9), Kmh(12), 0.718566, 278.3327},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stride, err := StrideLength(tt.height)
			if err != nil {
				t.Fatalf("StrideLength() error = %v", err)
			}
			if !almostEqual(stride, tt.stride, 1e-6) {
				t.Errorf("StrideLength() = %v, want %v", stride, tt.stride)
			}

			got, err := Estimate(tt.height, tt.pace)
			if err != nil {
				t.Fatalf("Estimate() error = %v", err)
			}
			if !almostEqual(float64(got), tt.want, 1e-3) {
				t.Errorf("Estimate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEstimateIsDeterministic(t *testing.T) {
	h, p := FeetInches(5, 11), Mph(7.5)
	first, err := Estimate(h, p)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		got, err := Estimate(h, p)
		if err != nil {
			t.Fatal(err)
		}
		if got != first {
			t.Fatalf("call %d returned %v, first call returned %v", i, got, first)
		}
	}
}

func TestMetresMatchFeetInches(t *testing.T) {
	metric, err := Metres(1.8288).InMetres()
	if err != nil {
		t.Fatal(err)
	}
	imperial, err := FeetInches(6, 0).InMetres()
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(metric, imperial, 1e-6) {
		t.Errorf("1.8288 m = %v, 6 ft 0 in = %v", metric, imperial)
	}
}

func TestPaceConversion(t *testing.T) {
	kmh, err := Kmh(10).MetresPerMinute()
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(kmh, 166.667, 1e-9) {
		t.Errorf("10 km/h = %v m/min, want 166.667", kmh)
	}
	mph, err := Mph(6).MetresPerMinute()
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(mph, 160.9344, 1e-9) {
		t.Errorf("6 mph = %v m/min, want 160.9344", mph)
	}
}

func TestEstimateRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		height HeightInput
		pace   PaceInput
		field  string
	}{
		{"zero metres", Metres(0), Kmh(10), "height"},
		{"negative metres", Metres(-1.7), Kmh(10), "height"},
		{"zero feet and inches", FeetInches(0, 0), Mph(6), "height"},
		{"negative feet", FeetInches(-5, 0), Mph(6), "height"},
		{"negative inches", FeetInches(5, -1), Mph(6), "height"},
		{"twelve inches", FeetInches(5, 12), Mph(6), "height"},
		{"NaN height", Metres(math.NaN()), Kmh(10), "height"},
		{"unknown height unit", HeightInput{Unit: "cubits", Metres: 1}, Kmh(10), "height"},
		{"zero pace", Metres(1.75), Kmh(0), "pace"},
		{"negative pace", Metres(1.75), Mph(-3), "pace"},
		{"infinite pace", Metres(1.75), Kmh(math.Inf(1)), "pace"},
		{"unknown pace unit", Metres(1.75), PaceInput{Unit: "knots", Value: 5}, "pace"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Estimate(tt.height, tt.pace)
			if err == nil {
				t.Fatalf("Estimate() = %v, want error", got)
			}
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("error %v does not match ErrInvalidInput", err)
			}
			var inputErr *InvalidInputError
			if !errors.As(err, &inputErr) {
				t.Fatalf("error %T is not *InvalidInputError", err)
			}
			if inputErr.Field != tt.field {
				t.Errorf("Field = %q, want %q", inputErr.Field, tt.field)
			}
		})
	}
}

func TestHeightCheckedBeforePace(t *testing.T) {
	_, err := Estimate(Metres(0), Kmh(0))
	var inputErr *InvalidInputError
	if !errors.As(err, &inputErr) || inputErr.Field != "height" {
		t.Errorf("Estimate() error = %v, want height error", err)
	}
}
