package engine

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Два вида плейсхолдеров в шаблонах: {{x}} и \var(x).
// Внутри LaTeX-формул авторы используют второй вариант, т.к. фигурные скобки там заняты.
// Имя переменной начинается с буквы, иначе в формуле его не отличить от числа.
var (
	bracePlaceholder = regexp.MustCompile(`\{\{([a-zA-Z][a-zA-Z0-9]*)\}\}`)
	varPlaceholder   = regexp.MustCompile(`\\var\(([a-z][a-z0-9]*)\)`)
	variableName     = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9]*$`)

	// любые плейсхолдеры, в том числе с недопустимым именем (для линтера)
	anyPlaceholder = regexp.MustCompile(`\{\{([^{}\\]*)\}\}|\\var\(([^()]*)\)`)
)

// ValidVariableName сообщает, может ли name быть именем переменной шаблона
func ValidVariableName(name string) bool {
	return variableName.MatchString(name)
}

// ExtractVariables возвращает отсортированный список уникальных имен переменных,
// найденных во всех переданных текстах.
func ExtractVariables(texts ...string) []string {
	seen := make(map[string]struct{})
	for _, text := range texts {
		if text == "" {
			continue
		}
		for _, m := range bracePlaceholder.FindAllStringSubmatch(text, -1) {
			seen[m[1]] = struct{}{}
		}
		for _, m := range varPlaceholder.FindAllStringSubmatch(text, -1) {
			seen[m[1]] = struct{}{}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Substitute подставляет значения переменных вместо обоих вариантов плейсхолдеров.
// Плейсхолдеры переменных, отсутствующих в binding, остаются в тексте как есть.
func Substitute(template string, b Binding) string {
	if template == "" || len(b) == 0 {
		return template
	}
	result := template
	for name, value := range b {
		if !ValidVariableName(name) {
			continue
		}
		v := strconv.Itoa(value)
		result = strings.ReplaceAll(result, "{{"+name+"}}", v)
		result = strings.ReplaceAll(result, `\var(`+name+`)`, v)
	}
	return result
}

// Unresolved возвращает имена плейсхолдеров, оставшихся в уже отрендеренном тексте.
func Unresolved(rendered ...string) []string {
	return ExtractVariables(rendered...)
}
