package irt

import (
	"math"
	"testing"
)

func TestProbabilityCorrect_ExactMidpoint(t *testing.T) {
	p := Parameter{Difficulty: 0, Discrimination: 1, Guessing: 0.2}
	got := p.ProbabilityCorrect(0)
	want := 0.2 + 0.8*0.5
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("ProbabilityCorrect(0) = %v, want %v", got, want)
	}
}

func TestProbabilityCorrect_Bounds(t *testing.T) {
	params := []Parameter{
		{Difficulty: 0, Discrimination: 1, Guessing: 0.2},
		{Difficulty: -2, Discrimination: 0.5, Guessing: 0},
		{Difficulty: 3, Discrimination: 2.5, Guessing: 0.25},
	}
	thetas := []float64{-100, -4, -1.5, 0, 1.2, 4, 100}

	for _, p := range params {
		for _, theta := range thetas {
			got := p.ProbabilityCorrect(theta)
			if got < p.Guessing || got > 1 {
				t.Errorf("p(%v; theta=%v) = %v outside [%v, 1]", p, theta, got, p.Guessing)
			}
			if math.IsNaN(got) || math.IsInf(got, 0) {
				t.Errorf("p(%v; theta=%v) = %v, want finite", p, theta, got)
			}
		}
	}
}

func TestProbabilityCorrect_Saturation(t *testing.T) {
	p := Parameter{Difficulty: 0, Discrimination: 1, Guessing: 0.2}

	low := p.ProbabilityCorrect(-1000)
	if math.Abs(low-p.Guessing) > 1e-9 {
		t.Errorf("p(theta→-inf) = %v, want %v", low, p.Guessing)
	}

	high := p.ProbabilityCorrect(1000)
	if math.Abs(high-1.0) > 1e-9 {
		t.Errorf("p(theta→+inf) = %v, want 1", high)
	}
}

func TestProbabilityCorrect_MonotoneInTheta(t *testing.T) {
	p := Parameter{Difficulty: 0.5, Discrimination: 1.3, Guessing: 0.2}
	prev := -1.0
	for theta := -4.0; theta <= 4.0; theta += 0.25 {
		got := p.ProbabilityCorrect(theta)
		if got < prev {
			t.Fatalf("probability not monotone: p(%v) = %v < %v", theta, got, prev)
		}
		prev = got
	}
}

func TestFisherInformation_PeaksAtDifficulty(t *testing.T) {
	tests := []struct {
		name string
		p    Parameter
	}{
		{"easy item", Parameter{Difficulty: -1, Discrimination: 1, Guessing: 0.2}},
		{"neutral item", Parameter{Difficulty: 0, Discrimination: 1.5, Guessing: 0.2}},
		{"hard item", Parameter{Difficulty: 2, Discrimination: 0.8, Guessing: 0.1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			atPeak := tt.p.FisherInformation(tt.p.Difficulty)
			for _, offset := range []float64{-2, -1, -0.5, 0.5, 1, 2} {
				away := tt.p.FisherInformation(tt.p.Difficulty + offset)
				if away >= atPeak {
					t.Errorf("I(b%+v) = %v >= I(b) = %v", offset, away, atPeak)
				}
			}
		})
	}
}

func TestFisherInformation_NonNegative(t *testing.T) {
	p := Parameter{Difficulty: 1, Discrimination: 1.2, Guessing: 0.25}
	for theta := -6.0; theta <= 6.0; theta += 0.5 {
		if got := p.FisherInformation(theta); got < 0 {
			t.Errorf("I(%v) = %v, want >= 0", theta, got)
		}
	}
}

func TestFisherInformation_DegenerateGuessing(t *testing.T) {
	p := Parameter{Difficulty: 0, Discrimination: 1, Guessing: 1.0}
	if got := p.FisherInformation(0); got != 0 {
		t.Errorf("I with c=1 = %v, want 0", got)
	}
}

func TestFisherInformation_ExtremeThetaFinite(t *testing.T) {
	p := Parameter{Difficulty: 0, Discrimination: 2.5, Guessing: 0.2}
	for _, theta := range []float64{-1e6, 1e6} {
		got := p.FisherInformation(theta)
		if math.IsNaN(got) || math.IsInf(got, 0) {
			t.Errorf("I(%v) = %v, want finite", theta, got)
		}
	}
}

func TestParameterValid(t *testing.T) {
	tests := []struct {
		name string
		p    Parameter
		want bool
	}{
		{"default", DefaultParameter(0), true},
		{"zero discrimination", Parameter{Discrimination: 0, Guessing: 0.2}, false},
		{"negative discrimination", Parameter{Discrimination: -1, Guessing: 0.2}, false},
		{"guessing at one", Parameter{Discrimination: 1, Guessing: 1}, false},
		{"negative guessing", Parameter{Discrimination: 1, Guessing: -0.1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}
