package engine

import (
	"math/rand/v2"
	"sync"
)

// Диапазон значений по умолчанию для всех переменных шаблона
const (
	DefaultMinValue = 10
	DefaultMaxValue = 89
)

// Generator создает значения переменных для попытки.
// Безопасен для конкурентного использования.
type Generator struct {
	mu    sync.Mutex
	rng   *rand.Rand
	rules []Rule
	min   int
	max   int
}

// NewGenerator создает генератор. Если rules == nil, используется DefaultRules.
func NewGenerator(src rand.Source, rules []Rule) *Generator {
	if rules == nil {
		rules = DefaultRules
	}
	return &Generator{
		rng:   rand.New(src),
		rules: rules,
		min:   DefaultMinValue,
		max:   DefaultMaxValue,
	}
}

// NewSeededGenerator - генератор с детерминированным PCG-источником.
func NewSeededGenerator(seed uint64, rules []Rule) *Generator {
	return NewGenerator(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15), rules)
}

// Generate выбирает значения для всех переменных шаблона и применяет правила.
func (g *Generator) Generate(t Template) Binding {
	g.mu.Lock()
	defer g.mu.Unlock()

	b := make(Binding)
	for _, name := range t.Variables() {
		b[name] = g.min + g.rng.IntN(g.max-g.min+1)
	}
	return ApplyRules(g.rules, t, b, g.rng)
}

// Intn возвращает случайное число в [0, n) из того же источника.
// Используется для выбора шаблона внутри automatisme.
func (g *Generator) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rng.IntN(n)
}

// Rules возвращает таблицу правил генератора.
func (g *Generator) Rules() []Rule {
	return g.rules
}
