// Package sku generates SKU codes for product variations.
// Format: PRODUCT-COLOR-SIZE-XXX where XXX is a random 3-char suffix.
package sku

import (
	"math/rand"
	"strings"
	"unicode"
)

const suffixChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// productPart builds the product segment: 3 letters of the first word,
// 2 of the second, and 1 of every subsequent word.
func productPart(name string) string {
	words := strings.Fields(strings.ToUpper(name))
	var b strings.Builder

	if len(words) >= 1 {
		b.WriteString(truncate(words[0], 3))
	}
	if len(words) >= 2 {
		b.WriteString(truncate(words[1], 2))
	}
	for _, w := range words[2:] {
		b.WriteString(truncate(w, 1))
	}
	return b.String()
}

func colorPart(name string) string {
	upper := strings.ToUpper(name)
	if upper == "N/A" {
		return "NA"
	}
	var b strings.Builder
	for _, w := range strings.Fields(upper) {
		b.WriteString(truncate(w, 1))
	}
	return b.String()
}

func sizePart(name string) string {
	upper := strings.ToUpper(name)
	if upper == "N/A" {
		return "UN"
	}
	return upper
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n])
}

func randomSuffix() string {
	b := make([]byte, 3)
	for i := range b {
		b[i] = suffixChars[rand.Intn(len(suffixChars))]
	}
	return string(b)
}

// Generate builds the final SKU for a variation from its product, color and
// size names. The random suffix avoids collisions between similar variations.
func Generate(productName, colorName, sizeName string) string {
	return strings.Join([]string{
		productPart(productName),
		colorPart(colorName),
		sizePart(sizeName),
		randomSuffix(),
	}, "-")
}

// StandardizeName trims surrounding whitespace, collapses inner runs of
// spaces, and applies title case. Used for product, category, color, size,
// supplier and customer names before persisting.
func StandardizeName(name string) string {
	fields := strings.Fields(name)
	for i, f := range fields {
		runes := []rune(strings.ToLower(f))
		runes[0] = unicode.ToUpper(runes[0])
		fields[i] = string(runes)
	}
	return strings.Join(fields, " ")
}
