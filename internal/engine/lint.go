package engine

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"regexp"
	"sort"
	"strings"
)

// Коды замечаний линтера шаблонов
const (
	FindingInvalidAnswerExpr   = "invalid_answer_expr"
	FindingUnknownVariable     = "unknown_variable"
	FindingDecreaseWithoutRule = "decrease_without_rule"
	FindingMagnitudeOutside    = "magnitude_outside_rule"
	FindingThirdOperand        = "third_operand_without_rule"
	FindingBooleanType         = "boolean_type_mismatch"
	FindingInvalidPlaceholder  = "invalid_placeholder"
)

// Finding - замечание к шаблону упражнения.
type Finding struct {
	Numero  int    `json:"numero"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

var (
	decreaseWording  = regexp.MustCompile(`(?i)\b(baisse|diminue|r[ée]duction|recul)`)
	magnitudeWording = regexp.MustCompile(`(?i)ordre de grandeur`)
	identifier       = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)
)

// Lint проверяет шаблон на ситуации, когда из текста следует ограничение,
// а в таблице правил для него нет записи.
func Lint(t Template) []Finding {
	var out []Finding
	add := func(code, format string, args ...any) {
		out = append(out, Finding{Numero: t.Numero, Code: code, Message: fmt.Sprintf(format, args...)})
	}

	for _, text := range []string{t.Statement, t.Correction} {
		for _, m := range anyPlaceholder.FindAllStringSubmatch(text, -1) {
			name := m[1] + m[2]
			if !ValidVariableName(name) {
				add(FindingInvalidPlaceholder, "placeholder %q must be a name starting with a letter", m[0])
			}
		}
	}

	textVars := ExtractVariables(t.Statement, t.Correction)
	known := make(map[string]struct{}, len(textVars))
	for _, v := range textVars {
		known[v] = struct{}{}
	}

	// формула ответа: переменные, которых нет в тексте, и пробный расчет
	sample := make(Binding)
	for _, v := range t.Variables() {
		sample[v] = 1
	}
	for _, name := range identifier.FindAllString(t.AnswerExpr, -1) {
		if _, ok := known[name]; !ok {
			add(FindingUnknownVariable, "answer expression uses %q which never appears in statement or correction", name)
			sample[name] = 1
		}
	}
	if _, err := Evaluate(t.AnswerExpr, ApplyRules(DefaultRules, t, sample, rand.New(rand.NewPCG(1, 1)))); err != nil {
		var evalErr *EvaluationError
		if errors.As(err, &evalErr) && evalErr.Reason != "division by zero" {
			add(FindingInvalidAnswerExpr, "answer expression does not parse: %s", evalErr.Reason)
		}
	}

	if decreaseWording.MatchString(t.Statement) && !isDecrease(t) {
		add(FindingDecreaseWithoutRule, "statement describes a decrease but the x >= y rule does not apply")
	}
	if magnitudeWording.MatchString(t.Statement) && !isOrderOfMagnitude(t) {
		add(FindingMagnitudeOutside, "statement asks for an order of magnitude outside %q", OrderOfMagnitudeAutomatism)
	}
	if _, ok := known["z"]; ok && t.Numero != SameDenominatorExerciseNumero {
		add(FindingThirdOperand, "variable z is drawn independently of x")
	}
	if strings.EqualFold(strings.TrimSpace(t.AnswerType), AnswerTypeBoolean) {
		if _, ok := booleanExercises[t.Numero]; !ok {
			add(FindingBooleanType, "answer type %q but exercise is not in the boolean exercise table", t.AnswerType)
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
