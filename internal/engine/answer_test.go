package engine

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAnswer(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{input: "3/4", want: 0.75},
		{input: "10^3", want: 1000},
		{input: "0,75", want: 0.75},
		{input: "0.75", want: 0.75},
		{input: " 12 % ", want: 12},
		{input: "1 000", want: 1000},
		{input: "-2,5", want: -2.5},
		{input: "-3/4", want: -0.75},
		{input: "2,5^2", want: 6.25},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAnswer(tt.input)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestParseAnswer_Invalid(t *testing.T) {
	inputs := []string{"", "   ", "abc", "3/0", "1/x", "2^", "^2", "/4", "12 euros", "inf", "NaN", "1e400",
		"0x1p3", "0X10", "1_000", "3/4/5"}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			got, err := ParseAnswer(input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrParse))
			assert.True(t, math.IsNaN(got))
		})
	}
}

func TestIsCorrect(t *testing.T) {
	tests := []struct {
		name     string
		user     float64
		expected float64
		want     bool
	}{
		{name: "identical", user: 42.5, expected: 42.5, want: true},
		{name: "within absolute tolerance", user: 0.755, expected: 0.75, want: true},
		{name: "within relative tolerance", user: 1005, expected: 1000, want: true},
		{name: "outside both", user: 0.52, expected: 0.5, want: false},
		{name: "zero expected small answer", user: 0.005, expected: 0, want: true},
		{name: "zero expected large answer", user: 0.02, expected: 0, want: false},
		{name: "negative values", user: -20.1, expected: -20, want: true},
		{name: "nan user", user: math.NaN(), expected: 1, want: false},
		{name: "nan expected", user: 1, expected: math.NaN(), want: false},
		{name: "infinite user", user: math.Inf(1), expected: math.Inf(1), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsCorrect(tt.user, tt.expected))
		})
	}
}

func TestIsCorrect_Reflexive(t *testing.T) {
	for _, v := range []float64{0, 1, -1, 0.001, 123456.789, -98.6, 1e12} {
		assert.True(t, IsCorrect(v, v), "%v", v)
	}
}

func TestParseBoolean(t *testing.T) {
	for _, in := range []string{"vrai", "Vrai", " V ", "v"} {
		got, err := ParseBoolean(in)
		require.NoError(t, err, in)
		assert.True(t, got, in)
	}
	for _, in := range []string{"faux", "FAUX", "f"} {
		got, err := ParseBoolean(in)
		require.NoError(t, err, in)
		assert.False(t, got, in)
	}

	_, err := ParseBoolean("peut-être")
	assert.True(t, errors.Is(err, ErrParse))
}

func TestAnswerKindOf(t *testing.T) {
	assert.Equal(t, AnswerBoolean, AnswerKindOf(Template{Numero: BooleanExerciseNumero}))
	assert.Equal(t, AnswerBoolean, AnswerKindOf(Template{Numero: 4, AnswerType: " Booleen "}))
	assert.Equal(t, AnswerNumeric, AnswerKindOf(Template{Numero: 4}))
	assert.Equal(t, "boolean", AnswerBoolean.String())
	assert.Equal(t, "numeric", AnswerNumeric.String())
}

func TestGrade(t *testing.T) {
	numeric := Template{Numero: 1}
	boolean := Template{Numero: BooleanExerciseNumero}

	t.Run("numeric correct", func(t *testing.T) {
		v := Grade(numeric, "0,75", 0.75)
		assert.True(t, v.Correct)
		assert.Equal(t, AnswerNumeric, v.Kind)
		assert.InDelta(t, 0.75, v.Parsed, 1e-9)
		assert.NoError(t, v.ParseErr)
	})

	t.Run("numeric wrong", func(t *testing.T) {
		v := Grade(numeric, "3/5", 0.75)
		assert.False(t, v.Correct)
		assert.NoError(t, v.ParseErr)
	})

	t.Run("unparseable is incorrect not an error", func(t *testing.T) {
		v := Grade(numeric, "je ne sais pas", 0.75)
		assert.False(t, v.Correct)
		assert.True(t, math.IsNaN(v.Parsed))
		assert.True(t, errors.Is(v.ParseErr, ErrParse))
	})

	t.Run("boolean vrai", func(t *testing.T) {
		v := Grade(boolean, "Vrai", 1)
		assert.True(t, v.Correct)
		assert.Equal(t, AnswerBoolean, v.Kind)
	})

	t.Run("boolean faux", func(t *testing.T) {
		assert.True(t, Grade(boolean, "f", 0).Correct)
		assert.False(t, Grade(boolean, "vrai", 0).Correct)
	})

	t.Run("boolean unparseable", func(t *testing.T) {
		v := Grade(boolean, "1", 1)
		assert.False(t, v.Correct)
		assert.Error(t, v.ParseErr)
	})
}
