package engine

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// ErrEvaluation - общая ошибка вычисления формулы ответа.
var ErrEvaluation = errors.New("answer expression cannot be evaluated")

// EvaluationError описывает, где и почему формула не вычисляется.
type EvaluationError struct {
	Expr   string // формула после подстановки значений
	Pos    int
	Reason string
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("evaluate %q at %d: %s", e.Expr, e.Pos, e.Reason)
}

// Is позволяет проверять errors.Is(err, ErrEvaluation).
func (e *EvaluationError) Is(target error) bool {
	return target == ErrEvaluation
}

// Evaluate подставляет значения переменных в формулу и вычисляет ее.
// Поддерживаются + - * / ^ и скобки; ^ - возведение в степень (правоассоциативно).
func Evaluate(expr string, b Binding) (float64, error) {
	prepared := PrepareExpression(expr, b)
	p := &parser{src: prepared}
	if err := p.tokenize(); err != nil {
		return 0, err
	}
	if len(p.tokens) == 0 {
		return 0, p.fail(0, "empty expression")
	}

	node, err := p.parseExpr()
	if err != nil {
		return 0, err
	}
	if p.pos < len(p.tokens) {
		return 0, p.fail(p.tokens[p.pos].pos, fmt.Sprintf("unexpected %q", p.tokens[p.pos].text))
	}

	value, err := node.eval()
	if err != nil {
		return 0, &EvaluationError{Expr: prepared, Reason: err.Error()}
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, &EvaluationError{Expr: prepared, Reason: "result is not a finite number"}
	}
	return value, nil
}

// PrepareExpression выполняет текстовую подготовку формулы: подстановку переменных
// по границам слов, удаление пробелов и замену десятичной запятой на точку.
func PrepareExpression(expr string, b Binding) string {
	out := expr
	// \b не дает подставить x внутрь x1 или max
	for _, name := range b.Names() {
		if !ValidVariableName(name) {
			// "1" подменил бы литерал 1 в формуле
			continue
		}
		re := regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\b`)
		out = re.ReplaceAllString(out, strconv.Itoa(b[name]))
	}
	out = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, out)
	return strings.ReplaceAll(out, ",", ".")
}

// ============================================================================
// Лексер
// ============================================================================

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokOp
	tokLParen
	tokRParen
)

type token struct {
	kind  tokenKind
	text  string
	value float64
	pos   int
}

type parser struct {
	src    string
	tokens []token
	pos    int
}

func (p *parser) fail(pos int, reason string) error {
	return &EvaluationError{Expr: p.src, Pos: pos, Reason: reason}
}

func (p *parser) tokenize() error {
	s := p.src
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c >= '0' && c <= '9' || c == '.':
			start := i
			for i < len(s) && (s[i] >= '0' && s[i] <= '9' || s[i] == '.') {
				i++
			}
			text := s[start:i]
			v, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return p.fail(start, fmt.Sprintf("malformed number %q", text))
			}
			p.tokens = append(p.tokens, token{kind: tokNumber, text: text, value: v, pos: start})
		case strings.IndexByte("+-*/^", c) >= 0:
			p.tokens = append(p.tokens, token{kind: tokOp, text: string(c), pos: i})
			i++
		case c == '(':
			p.tokens = append(p.tokens, token{kind: tokLParen, text: "(", pos: i})
			i++
		case c == ')':
			p.tokens = append(p.tokens, token{kind: tokRParen, text: ")", pos: i})
			i++
		case unicode.IsLetter(rune(c)) || c == '_':
			start := i
			for i < len(s) && (unicode.IsLetter(rune(s[i])) || unicode.IsDigit(rune(s[i])) || s[i] == '_') {
				i++
			}
			return p.fail(start, fmt.Sprintf("unresolved identifier %q", s[start:i]))
		default:
			return p.fail(i, fmt.Sprintf("unexpected character %q", c))
		}
	}
	return nil
}

// ============================================================================
// Рекурсивный спуск
//
//	expr    = term { ("+" | "-") term }
//	term    = unary { ("*" | "/") unary }
//	unary   = ("+" | "-") unary | power
//	power   = primary [ "^" unary ]
//	primary = number | "(" expr ")"
// ============================================================================

func (p *parser) peekOp(ops string) (string, bool) {
	if p.pos >= len(p.tokens) {
		return "", false
	}
	t := p.tokens[p.pos]
	if t.kind == tokOp && strings.Contains(ops, t.text) {
		return t.text, true
	}
	return "", false
}

func (p *parser) parseExpr() (node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.peekOp("+-")
		if !ok {
			return left, nil
		}
		p.pos++
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = binaryNode{op: op[0], left: left, right: right}
	}
}

func (p *parser) parseTerm() (node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.peekOp("*/")
		if !ok {
			return left, nil
		}
		p.pos++
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = binaryNode{op: op[0], left: left, right: right}
	}
}

func (p *parser) parseUnary() (node, error) {
	if op, ok := p.peekOp("+-"); ok {
		p.pos++
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if op == "-" {
			return negNode{operand: operand}, nil
		}
		return operand, nil
	}
	return p.parsePower()
}

func (p *parser) parsePower() (node, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if _, ok := p.peekOp("^"); ok {
		p.pos++
		exp, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return binaryNode{op: '^', left: base, right: exp}, nil
	}
	return base, nil
}

func (p *parser) parsePrimary() (node, error) {
	if p.pos >= len(p.tokens) {
		return nil, p.fail(len(p.src), "unexpected end of expression")
	}
	t := p.tokens[p.pos]
	switch t.kind {
	case tokNumber:
		p.pos++
		return numberNode(t.value), nil
	case tokLParen:
		p.pos++
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.pos >= len(p.tokens) || p.tokens[p.pos].kind != tokRParen {
			return nil, p.fail(t.pos, "unbalanced parenthesis")
		}
		p.pos++
		return inner, nil
	default:
		return nil, p.fail(t.pos, fmt.Sprintf("unexpected %q", t.text))
	}
}

// ============================================================================
// AST
// ============================================================================

type node interface {
	eval() (float64, error)
}

type numberNode float64

func (n numberNode) eval() (float64, error) { return float64(n), nil }

type negNode struct{ operand node }

func (n negNode) eval() (float64, error) {
	v, err := n.operand.eval()
	return -v, err
}

type binaryNode struct {
	op          byte
	left, right node
}

func (n binaryNode) eval() (float64, error) {
	l, err := n.left.eval()
	if err != nil {
		return 0, err
	}
	r, err := n.right.eval()
	if err != nil {
		return 0, err
	}
	switch n.op {
	case '+':
		return l + r, nil
	case '-':
		return l - r, nil
	case '*':
		return l * r, nil
	case '/':
		if r == 0 {
			return 0, errors.New("division by zero")
		}
		return l / r, nil
	case '^':
		return math.Pow(l, r), nil
	}
	return 0, fmt.Errorf("unknown operator %q", n.op)
}
