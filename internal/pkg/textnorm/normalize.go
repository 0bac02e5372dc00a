// Package textnorm приводит названия automatismes к ключу для сравнения.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Key нормализует подпись: NFD без диакритики, типографский апостроф -> ',
// схлопывание пробелов, trim, нижний регистр.
// "Évolutions  et variations" и "evolutions et variations" дают один ключ.
func Key(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	stripped = strings.NewReplacer("’", "'", "‘", "'").Replace(stripped)
	return strings.ToLower(strings.Join(strings.Fields(stripped), " "))
}

// Equal сравнивает две подписи по ключу.
func Equal(a, b string) bool {
	return Key(a) == Key(b)
}
