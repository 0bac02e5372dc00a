package engine

// Rendered - шаблон с подставленными значениями.
type Rendered struct {
	Statement  string
	Correction string
	AnswerExpr string
	Binding    Binding
	// Unresolved - плейсхолдеры, для которых в binding нет значения.
	Unresolved []string
}

// Render подставляет binding в условие, решение и формулу ответа.
// Разметка $...$ и $$...$$ не трогается.
func Render(t Template, b Binding) Rendered {
	r := Rendered{
		Statement:  Substitute(t.Statement, b),
		Correction: Substitute(t.Correction, b),
		AnswerExpr: t.AnswerExpr,
		Binding:    b,
	}
	r.Unresolved = Unresolved(r.Statement, r.Correction, Substitute(t.AnswerExpr, b))
	if t.IsPercentage() {
		r.Statement += PercentageHint
	}
	return r
}

// Instance - полностью подготовленная попытка: значения, текст и ожидаемый ответ.
type Instance struct {
	Template Template
	Rendered
	Expected float64
	// EvalErr заполнен, если формулу ответа вычислить нельзя ("решение недоступно")
	EvalErr error
}

// Instantiate генерирует значения, рендерит шаблон и вычисляет ожидаемый ответ.
func (g *Generator) Instantiate(t Template) Instance {
	b := g.Generate(t)
	inst := Instance{Template: t, Rendered: Render(t, b)}
	inst.Expected, inst.EvalErr = Evaluate(t.AnswerExpr, b)
	return inst
}
