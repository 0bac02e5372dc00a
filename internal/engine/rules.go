package engine

import (
	"math/rand/v2"
	"strings"

	"github.com/yourusername/automatismes-api/internal/pkg/textnorm"
)

// Номера упражнений, для которых действуют отдельные правила
const (
	DecreaseExerciseNumero        = 8
	SameDenominatorExerciseNumero = 13
	BooleanExerciseNumero         = 19
)

// OrderOfMagnitudeAutomatism - automatisme, для которого генерируется мантисса и показатель.
const OrderOfMagnitudeAutomatism = "Estimer un ordre de grandeur"

// Rule - одно правило корректировки сгенерированных значений.
// Applies решает, относится ли правило к шаблону; Adjust возвращает новый binding
// и не меняет исходный. Применение Adjust к уже корректному binding ничего не меняет.
type Rule struct {
	Name    string
	Applies func(t Template, b Binding) bool
	Adjust  func(t Template, b Binding, rng *rand.Rand) Binding
}

// DefaultRules - таблица правил в порядке применения.
// Более поздние правила могут переопределять результат более ранних.
var DefaultRules = []Rule{
	{
		Name:    "decrease-ordering",
		Applies: func(t Template, b Binding) bool { return isDecrease(t) && b.Has("x", "y") },
		Adjust:  orderDescending,
	},
	{
		Name:    "proportion-ordering",
		Applies: func(t Template, b Binding) bool { return !isDecrease(t) && b.Has("x", "y") },
		Adjust:  orderAscending,
	},
	{
		Name:    "distinct-operands",
		Applies: func(t Template, b Binding) bool { return b.Has("x", "y") },
		Adjust:  separateOperands,
	},
	{
		Name: "same-denominator",
		Applies: func(t Template, b Binding) bool {
			return t.Numero == SameDenominatorExerciseNumero && b.Has("x")
		},
		Adjust: deriveThirdOperand,
	},
	{
		Name:    "order-of-magnitude",
		Applies: func(t Template, b Binding) bool { return isOrderOfMagnitude(t) },
		Adjust:  mantissaAndExponent,
	},
	{
		Name:    "non-zero",
		Applies: func(t Template, b Binding) bool { return true },
		Adjust:  replaceZeros,
	},
}

// ApplyRules прогоняет binding через таблицу правил по порядку.
func ApplyRules(rules []Rule, t Template, b Binding, rng *rand.Rand) Binding {
	out := b.Clone()
	for _, r := range rules {
		if r.Applies(t, out) {
			out = r.Adjust(t, out, rng)
		}
	}
	return out
}

// MatchingRules возвращает имена правил, которые сработают для шаблона с данным binding.
func MatchingRules(rules []Rule, t Template, b Binding) []string {
	var names []string
	for _, r := range rules {
		if r.Applies(t, b) {
			names = append(names, r.Name)
		}
	}
	return names
}

func isDecrease(t Template) bool {
	return t.Numero == DecreaseExerciseNumero || strings.Contains(t.Statement, "diminution")
}

func isOrderOfMagnitude(t Template) bool {
	return textnorm.Equal(t.Automatism, OrderOfMagnitudeAutomatism)
}

func orderDescending(_ Template, b Binding, _ *rand.Rand) Binding {
	out := b.Clone()
	if out["x"] < out["y"] {
		out["x"], out["y"] = out["y"], out["x"]
	}
	return out
}

func orderAscending(_ Template, b Binding, _ *rand.Rand) Binding {
	out := b.Clone()
	if out["x"] > out["y"] {
		out["x"], out["y"] = out["y"], out["x"]
	}
	return out
}

// separateOperands сдвигает тот операнд, который сохраняет порядок x/y,
// заданный предыдущими правилами.
func separateOperands(t Template, b Binding, _ *rand.Rand) Binding {
	out := b.Clone()
	if out["x"] != out["y"] {
		return out
	}
	if isDecrease(t) {
		out["x"] += 5
	} else {
		out["y"] += 5
	}
	return out
}

func deriveThirdOperand(_ Template, b Binding, rng *rand.Rand) Binding {
	out := b.Clone()
	if z, ok := out["z"]; ok && z >= out["x"] && z <= out["x"]+4 {
		return out
	}
	out["z"] = out["x"] + rng.IntN(5)
	return out
}

func mantissaAndExponent(_ Template, b Binding, rng *rand.Rand) Binding {
	out := b.Clone()
	// старшая цифра 1..4, чтобы порядок величины определялся однозначно
	if x, ok := out["x"]; !ok || x < 10 || x > 49 {
		out["x"] = (1+rng.IntN(4))*10 + rng.IntN(10)
	}
	if e, ok := out["e"]; !ok || e < 2 || e > 5 {
		out["e"] = 2 + rng.IntN(4)
	}
	return out
}

func replaceZeros(_ Template, b Binding, _ *rand.Rand) Binding {
	out := b.Clone()
	for k, v := range out {
		if v == 0 {
			out[k] = 1
		}
	}
	return out
}
