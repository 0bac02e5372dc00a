package engine

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Допуски сравнения: абсолютный для малых величин, относительный для больших
const (
	AbsoluteTolerance = 0.01
	RelativeTolerance = 0.01
)

// ErrParse - ответ пользователя не распознан как число.
var ErrParse = errors.New("answer is not a recognized number")

// ParseError хранит исходный ввод, который не удалось разобрать.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse answer %q: %s", e.Input, e.Reason)
}

// Is позволяет проверять errors.Is(err, ErrParse).
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// AnswerKind - способ проверки ответа.
type AnswerKind int

const (
	AnswerNumeric AnswerKind = iota
	AnswerBoolean
)

func (k AnswerKind) String() string {
	if k == AnswerBoolean {
		return "boolean"
	}
	return "numeric"
}

// booleanExercises - упражнения, где ответ "vrai"/"faux".
var booleanExercises = map[int]struct{}{
	BooleanExerciseNumero: {},
}

// AnswerKindOf определяет способ проверки для шаблона.
func AnswerKindOf(t Template) AnswerKind {
	if _, ok := booleanExercises[t.Numero]; ok {
		return AnswerBoolean
	}
	if strings.EqualFold(strings.TrimSpace(t.AnswerType), AnswerTypeBoolean) {
		return AnswerBoolean
	}
	return AnswerNumeric
}

// ParseAnswer разбирает ответ пользователя: десятичное число (точка или запятая),
// дробь "a/b" или степень "a^b". Пробелы внутри и завершающий % игнорируются.
func ParseAnswer(input string) (float64, error) {
	s := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, input)
	s = strings.TrimSuffix(s, "%")
	s = strings.ReplaceAll(s, ",", ".")
	if s == "" {
		return math.NaN(), &ParseError{Input: input, Reason: "empty answer"}
	}

	if base, exp, ok := strings.Cut(s, "^"); ok {
		b, errB := parseDecimal(base)
		e, errE := parseDecimal(exp)
		if errB != nil || errE != nil {
			return math.NaN(), &ParseError{Input: input, Reason: "power parts must be numbers"}
		}
		v := math.Pow(b, e)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return math.NaN(), &ParseError{Input: input, Reason: "power is not finite"}
		}
		return v, nil
	}

	if num, den, ok := strings.Cut(s, "/"); ok {
		n, errN := parseDecimal(num)
		d, errD := parseDecimal(den)
		if errN != nil || errD != nil {
			return math.NaN(), &ParseError{Input: input, Reason: "fraction parts must be numbers"}
		}
		if d == 0 {
			return math.NaN(), &ParseError{Input: input, Reason: "zero denominator"}
		}
		return n / d, nil
	}

	v, err := parseDecimal(s)
	if err != nil {
		return math.NaN(), &ParseError{Input: input, Reason: "not a decimal number"}
	}
	return v, nil
}

// parseDecimal принимает только десятичную запись (с экспонентой e).
// ParseFloat понимает еще 0x1p3, Inf и NaN, их ученик не вводит.
func parseDecimal(s string) (float64, error) {
	if s == "" || strings.Trim(s, "0123456789.+-eE") != "" {
		return 0, strconv.ErrSyntax
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, strconv.ErrRange
	}
	return v, nil
}

// IsCorrect сравнивает значения с абсолютным ИЛИ относительным допуском.
// NaN или бесконечность с любой стороны - всегда неверно.
func IsCorrect(user, expected float64) bool {
	if math.IsNaN(user) || math.IsNaN(expected) || math.IsInf(user, 0) || math.IsInf(expected, 0) {
		return false
	}
	diff := math.Abs(user - expected)
	if diff < AbsoluteTolerance {
		return true
	}
	return expected != 0 && diff/math.Abs(expected) < RelativeTolerance
}

// ParseBoolean принимает "vrai"/"v" и "faux"/"f" без учета регистра.
func ParseBoolean(input string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "vrai", "v":
		return true, nil
	case "faux", "f":
		return false, nil
	}
	return false, &ParseError{Input: input, Reason: "expected vrai or faux"}
}

// Verdict - результат проверки одного ответа.
type Verdict struct {
	Correct  bool
	Kind     AnswerKind
	Parsed   float64 // NaN, если ответ не разобран или ответ логический
	ParseErr error
}

// Grade проверяет ответ пользователя против ожидаемого значения формулы.
// Нераспознанный ответ - это неверный ответ, а не ошибка.
func Grade(t Template, input string, expected float64) Verdict {
	kind := AnswerKindOf(t)
	if kind == AnswerBoolean {
		got, err := ParseBoolean(input)
		if err != nil {
			return Verdict{Kind: kind, Parsed: math.NaN(), ParseErr: err}
		}
		return Verdict{Correct: got == (expected != 0), Kind: kind, Parsed: math.NaN()}
	}

	parsed, err := ParseAnswer(input)
	if err != nil {
		return Verdict{Kind: kind, Parsed: math.NaN(), ParseErr: err}
	}
	return Verdict{Correct: IsCorrect(parsed, expected), Kind: kind, Parsed: parsed}
}
