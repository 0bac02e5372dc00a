package engine

import (
	"sort"
	"strings"
)

// Типы ответа, которые авторы указывают в колонке type_reponse
const (
	AnswerTypePercentage = "pourcentage"
	AnswerTypeBoolean    = "booleen"
)

// PercentageHint дописывается к условию упражнений с ответом в процентах.
const PercentageHint = " *(La réponse devra être donnée en pourcentage)*"

// Template - шаблон упражнения в том виде, в котором его видит движок.
type Template struct {
	Numero     int
	Category   int
	Automatism string
	Statement  string
	Correction string
	AnswerExpr string
	AnswerType string
}

// Variables возвращает все переменные шаблона (условие + решение + формула ответа).
func (t Template) Variables() []string {
	return ExtractVariables(t.Statement, t.Correction, t.AnswerExpr)
}

// IsPercentage сообщает, ожидается ли ответ в процентах.
func (t Template) IsPercentage() bool {
	return strings.EqualFold(strings.TrimSpace(t.AnswerType), AnswerTypePercentage)
}

// Binding - значения переменных для одной попытки.
type Binding map[string]int

// Has проверяет наличие всех перечисленных переменных.
func (b Binding) Has(names ...string) bool {
	for _, name := range names {
		if _, ok := b[name]; !ok {
			return false
		}
	}
	return true
}

// Clone возвращает независимую копию.
func (b Binding) Clone() Binding {
	out := make(Binding, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}

// Names возвращает имена переменных в стабильном порядке.
func (b Binding) Names() []string {
	names := make([]string, 0, len(b))
	for k := range b {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
