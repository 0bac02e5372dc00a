package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func codes(findings []Finding) []string {
	out := make([]string, 0, len(findings))
	for _, f := range findings {
		out = append(out, f.Code)
	}
	return out
}

func TestLint(t *testing.T) {
	tests := []struct {
		name string
		tmpl Template
		want []string
	}{
		{
			name: "clean template",
			tmpl: Template{Numero: 1, Statement: "Calculer {{x}} + {{y}}", Correction: `$\var(x) + \var(y)$`, AnswerExpr: "x+y"},
			want: []string{},
		},
		{
			name: "decrease wording without rule",
			tmpl: Template{Numero: 5, Statement: "Le prix baisse de {{x}} à {{y}}", AnswerExpr: "(x-y)/x*100"},
			want: []string{FindingDecreaseWithoutRule},
		},
		{
			name: "decrease wording covered by exercise number",
			tmpl: Template{Numero: DecreaseExerciseNumero, Statement: "Le prix baisse de {{x}} à {{y}}", AnswerExpr: "(x-y)/x*100"},
			want: []string{},
		},
		{
			name: "placeholder name starting with a digit",
			tmpl: Template{Numero: 2, Statement: "Calculer {{1}} + {{x}}", Correction: `$\var(2) + \var(x)$`, AnswerExpr: "x+1"},
			want: []string{FindingInvalidPlaceholder, FindingInvalidPlaceholder},
		},
		{
			name: "unknown variable in answer",
			tmpl: Template{Numero: 2, Statement: "{{x}}", AnswerExpr: "x+w"},
			want: []string{FindingUnknownVariable},
		},
		{
			name: "answer does not parse",
			tmpl: Template{Numero: 2, Statement: "{{x}}", AnswerExpr: "x+"},
			want: []string{FindingInvalidAnswerExpr},
		},
		{
			name: "division by zero on sample values is ignored",
			tmpl: Template{Numero: 2, Statement: "{{x}}", AnswerExpr: "1/(x-x)"},
			want: []string{},
		},
		{
			name: "third operand outside its exercise",
			tmpl: Template{Numero: 4, Statement: "{{x}} {{y}} {{z}}", AnswerExpr: "x+y+z"},
			want: []string{FindingThirdOperand},
		},
		{
			name: "third operand in its exercise",
			tmpl: Template{Numero: SameDenominatorExerciseNumero, Statement: "{{x}} {{y}} {{z}}", AnswerExpr: "(x+z)/y"},
			want: []string{},
		},
		{
			name: "order of magnitude outside automatism",
			tmpl: Template{Numero: 6, Automatism: "Calcul mental", Statement: "Donner un ordre de grandeur de {{x}}", AnswerExpr: "x"},
			want: []string{FindingMagnitudeOutside},
		},
		{
			name: "order of magnitude inside automatism",
			tmpl: Template{Numero: 30, Automatism: "estimer un  ordre de grandeur", Statement: `Donner un ordre de grandeur de $\var(x) \times 10^{\var(e)}$`, AnswerExpr: "10^(e+1)"},
			want: []string{},
		},
		{
			name: "boolean type outside table",
			tmpl: Template{Numero: 4, Statement: "Vrai ou faux ?", AnswerExpr: "1", AnswerType: AnswerTypeBoolean},
			want: []string{FindingBooleanType},
		},
		{
			name: "boolean type inside table",
			tmpl: Template{Numero: BooleanExerciseNumero, Statement: "Vrai ou faux ?", AnswerExpr: "0", AnswerType: AnswerTypeBoolean},
			want: []string{},
		},
		{
			name: "findings are sorted by code",
			tmpl: Template{Numero: 4, Statement: "Le prix baisse: {{x}} {{y}} {{z}}", AnswerExpr: "x+w"},
			want: []string{FindingDecreaseWithoutRule, FindingThirdOperand, FindingUnknownVariable},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			findings := Lint(tt.tmpl)
			assert.Equal(t, tt.want, codes(findings))
			for _, f := range findings {
				assert.Equal(t, tt.tmpl.Numero, f.Numero)
				assert.NotEmpty(t, f.Message)
			}
		})
	}
}
