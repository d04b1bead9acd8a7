// Package services implements the estimation engine: dimension expression
// parsing, unit input policy, line quantity/amount calculation, catalog
// resolution and the spreadsheet import pipeline.
package services

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// ErrInvalidExpression is returned for dimension input that is neither a
// plain number nor a valid arithmetic expression. Batch callers test for it
// with errors.Is and count the row instead of aborting.
var ErrInvalidExpression = errors.New("invalid expression")

// Dimension is the parsed form of one raw dimension input.
// Value is nil for empty input ("unset"). Expr holds the original user text
// when the input contained arithmetic, and is empty for a bare number, so
// the user's formatting (fractions, spacing) survives for later display.
// Raw is the trimmed original text for any non-empty input; it is what gets
// persisted, so an unset field ("") stays distinguishable from an explicit 0
// after a round trip through storage.
type Dimension struct {
	Value *float64
	Expr  string
	Raw   string
}

// vulgarFractions maps the supported Unicode fraction glyphs to their
// parenthesized arithmetic equivalents.
var vulgarFractions = map[rune]string{
	'½': "(1/2)",
	'⅓': "(1/3)",
	'⅔': "(2/3)",
	'¼': "(1/4)",
	'¾': "(3/4)",
	'⅕': "(1/5)",
	'⅖': "(2/5)",
	'⅗': "(3/5)",
	'⅘': "(4/5)",
	'⅙': "(1/6)",
	'⅚': "(5/6)",
	'⅛': "(1/8)",
	'⅜': "(3/8)",
	'⅝': "(5/8)",
	'⅞': "(7/8)",
}

var (
	bareNumberPattern = regexp.MustCompile(`^-?(?:[0-9]+(?:\.[0-9]+)?|\.[0-9]+)$`)
	exprCharset       = regexp.MustCompile(`^[0-9+\-*/().]+$`)
)

// ParseDimension converts a raw dimension string into its numeric value and
// canonical expression. Empty or whitespace-only input yields a zero
// Dimension with no error (the field is simply unset). Re-parsing a returned
// Expr always reproduces the same Value.
func ParseDimension(raw string) (Dimension, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Dimension{}, nil
	}

	normalized := normalizeExpression(trimmed)

	if bareNumberPattern.MatchString(normalized) {
		v, err := strconv.ParseFloat(normalized, 64)
		if err != nil {
			return Dimension{}, ErrInvalidExpression
		}
		d := Dimension{Value: &v, Raw: trimmed}
		if hasOperatorChars(trimmed) {
			d.Expr = raw
		}
		return d, nil
	}

	if !exprCharset.MatchString(normalized) || strings.Contains(normalized, "..") {
		return Dimension{}, ErrInvalidExpression
	}

	v, err := evalArithmetic(normalized)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return Dimension{}, ErrInvalidExpression
	}
	return Dimension{Value: &v, Expr: raw, Raw: trimmed}, nil
}

// normalizeExpression rewrites raw input into plain arithmetic: strips
// whitespace, maps the multiplication aliases x/X/× to *, expands vulgar
// fraction glyphs, and inserts the * implied by juxtaposition such as
// "2(3)" or "(2)(3)".
func normalizeExpression(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		switch {
		case unicode.IsSpace(r):
			// dropped
		case r == 'x' || r == 'X' || r == '×':
			b.WriteByte('*')
		default:
			if frac, ok := vulgarFractions[r]; ok {
				b.WriteString(frac)
			} else {
				b.WriteRune(r)
			}
		}
	}

	s := b.String()
	var out strings.Builder
	var prev byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if i > 0 {
			openAfterValue := c == '(' && (isDigitByte(prev) || prev == ')')
			digitAfterClose := isDigitByte(c) && prev == ')'
			if openAfterValue || digitAfterClose {
				out.WriteByte('*')
			}
		}
		out.WriteByte(c)
		prev = c
	}
	return out.String()
}

// hasOperatorChars reports whether the trimmed input contains arithmetic
// beyond a plain signed number. A leading minus alone does not count.
func hasOperatorChars(trimmed string) bool {
	if strings.ContainsAny(trimmed, "+*/()xX×") {
		return true
	}
	for frac := range vulgarFractions {
		if strings.ContainsRune(trimmed, frac) {
			return true
		}
	}
	return strings.LastIndexByte(trimmed, '-') > 0
}

func isDigitByte(c byte) bool {
	return c >= '0' && c <= '9'
}

// evalArithmetic evaluates a normalized expression with the usual
// precedence rules for + - * / and parentheses.
func evalArithmetic(expr string) (float64, error) {
	p := exprParser{input: expr}
	v, err := p.parseAddSub()
	if err != nil {
		return 0, err
	}
	if p.pos < len(p.input) {
		return 0, ErrInvalidExpression
	}
	return v, nil
}

type exprParser struct {
	input string
	pos   int
}

func (p *exprParser) peek() (byte, bool) {
	if p.pos >= len(p.input) {
		return 0, false
	}
	return p.input[p.pos], true
}

func (p *exprParser) parseAddSub() (float64, error) {
	val, err := p.parseMulDiv()
	if err != nil {
		return 0, err
	}
	for {
		op, ok := p.peek()
		if !ok || (op != '+' && op != '-') {
			return val, nil
		}
		p.pos++
		right, err := p.parseMulDiv()
		if err != nil {
			return 0, err
		}
		if op == '+' {
			val += right
		} else {
			val -= right
		}
	}
}

func (p *exprParser) parseMulDiv() (float64, error) {
	val, err := p.parseUnary()
	if err != nil {
		return 0, err
	}
	for {
		op, ok := p.peek()
		if !ok || (op != '*' && op != '/') {
			return val, nil
		}
		p.pos++
		right, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		if op == '*' {
			val *= right
		} else {
			// 0 denominators produce Inf, rejected by the caller's
			// finiteness check.
			val /= right
		}
	}
}

func (p *exprParser) parseUnary() (float64, error) {
	c, ok := p.peek()
	if !ok {
		return 0, ErrInvalidExpression
	}
	switch c {
	case '+':
		p.pos++
		return p.parseUnary()
	case '-':
		p.pos++
		v, err := p.parseUnary()
		return -v, err
	}
	return p.parsePrimary()
}

func (p *exprParser) parsePrimary() (float64, error) {
	c, ok := p.peek()
	if !ok {
		return 0, ErrInvalidExpression
	}
	if c == '(' {
		p.pos++
		v, err := p.parseAddSub()
		if err != nil {
			return 0, err
		}
		closing, ok := p.peek()
		if !ok || closing != ')' {
			return 0, ErrInvalidExpression
		}
		p.pos++
		return v, nil
	}

	start := p.pos
	for p.pos < len(p.input) && (isDigitByte(p.input[p.pos]) || p.input[p.pos] == '.') {
		p.pos++
	}
	if p.pos == start {
		return 0, ErrInvalidExpression
	}
	v, err := strconv.ParseFloat(p.input[start:p.pos], 64)
	if err != nil {
		return 0, ErrInvalidExpression
	}
	return v, nil
}
