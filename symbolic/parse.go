package symbolic

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrParse classifies every *ParseError.
var ErrParse = errors.New("expression parse error")

// ParseError reports where a formula stopped being valid.
type ParseError struct {
	Input string
	Pos   int // byte offset into Input
	Msg   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %q: %s at offset %d", e.Input, e.Msg, e.Pos)
}

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// ============================================================
// Lexer
// ============================================================

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokCaret // ^ or **
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

func lex(src string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(src) {
		c := src[i]
		r, width := decodeRune(src, i)
		if r == utf8.RuneError && width == 1 {
			return nil, &ParseError{Input: src, Pos: i, Msg: "invalid UTF-8"}
		}
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case isDigit(c) || (c == '.' && i+1 < len(src) && isDigit(src[i+1])):
			start := i
			for i < len(src) && (isDigit(src[i]) || src[i] == '.') {
				i++
			}
			// Exponent part: 1e-3, 2E+5. A bare E after a number is not consumed.
			if i < len(src) && (src[i] == 'e' || src[i] == 'E') {
				j := i + 1
				if j < len(src) && (src[j] == '+' || src[j] == '-') {
					j++
				}
				if j < len(src) && isDigit(src[j]) {
					i = j
					for i < len(src) && isDigit(src[i]) {
						i++
					}
				}
			}
			toks = append(toks, token{kind: tokNumber, text: src[start:i], pos: start})
		case isIdentStart(r):
			start := i
			for i < len(src) {
				r, width := decodeRune(src, i)
				if r == utf8.RuneError && width == 1 {
					return nil, &ParseError{Input: src, Pos: i, Msg: "invalid UTF-8"}
				}
				if !isIdentStart(r) && !(r < utf8.RuneSelf && isDigit(byte(r))) {
					break
				}
				i += width
			}
			toks = append(toks, token{kind: tokIdent, text: src[start:i], pos: start})
		case c == '+':
			toks = append(toks, token{kind: tokPlus, text: "+", pos: i})
			i++
		case c == '-':
			toks = append(toks, token{kind: tokMinus, text: "-", pos: i})
			i++
		case c == '*':
			if i+1 < len(src) && src[i+1] == '*' {
				toks = append(toks, token{kind: tokCaret, text: "**", pos: i})
				i += 2
			} else {
				toks = append(toks, token{kind: tokStar, text: "*", pos: i})
				i++
			}
		case c == '/':
			toks = append(toks, token{kind: tokSlash, text: "/", pos: i})
			i++
		case c == '^':
			toks = append(toks, token{kind: tokCaret, text: "^", pos: i})
			i++
		case c == '(':
			toks = append(toks, token{kind: tokLParen, text: "(", pos: i})
			i++
		case c == ')':
			toks = append(toks, token{kind: tokRParen, text: ")", pos: i})
			i++
		default:
			return nil, &ParseError{Input: src, Pos: i, Msg: fmt.Sprintf("unexpected character %q", r)}
		}
	}
	toks = append(toks, token{kind: tokEOF, pos: len(src)})
	return toks, nil
}

// decodeRune returns the rune at byte offset i and its width. Invalid
// UTF-8 comes back as (utf8.RuneError, 1).
func decodeRune(src string, i int) (rune, int) {
	if c := src[i]; c < utf8.RuneSelf {
		return rune(c), 1
	}
	return utf8.DecodeRuneInString(src[i:])
}

func isIdentStart(r rune) bool { return r == '_' || unicode.IsLetter(r) }

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// ============================================================
// Pratt parser
// ============================================================

// unaryBP binds tighter than * and / but looser than ^, so -x^2 is -(x^2).
const unaryBP = 30

// lbp returns left binding power and whether the token is an infix operator.
func lbp(k tokenKind) (int, bool) {
	switch k {
	case tokPlus, tokMinus:
		return 10, true
	case tokStar, tokSlash:
		return 20, true
	case tokCaret:
		return 40, true
	}
	return 0, false
}

var unaryFuncs = map[string]func(Expr) Expr{
	"sin":  SinOf,
	"cos":  CosOf,
	"tan":  TanOf,
	"exp":  ExpOf,
	"ln":   LnOf,
	"log":  LnOf,
	"sqrt": SqrtOf,
	"abs":  AbsOf,
	"asin": AsinOf,
	"acos": AcosOf,
	"atan": AtanOf,
	"sinh": SinhOf,
	"cosh": CoshOf,
	"tanh":  TanhOf,
	"floor": FloorOf,
	"ceil":  CeilOf,
	"sign":  SignOf,
}

type parser struct {
	src  string
	toks []token
	i    int
}

// Parse turns a formula such as "sin(theta)*x1**2 - 3/4" into a simplified
// expression. Identifiers that are neither a known function nor pi or E
// become free symbols.
func Parse(src string) (Expr, error) {
	if strings.TrimSpace(src) == "" {
		return nil, &ParseError{Input: src, Pos: 0, Msg: "empty expression"}
	}
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{src: src, toks: toks}
	e, err := p.expr(0)
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, p.errorf(t, "unexpected %q", t.text)
	}
	return e.Simplify(), nil
}

// MustParse is Parse for package-level fixtures; it panics on error.
func MustParse(src string) Expr {
	e, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return e
}

func (p *parser) peek() token { return p.toks[p.i] }

func (p *parser) next() token {
	t := p.toks[p.i]
	if t.kind != tokEOF {
		p.i++
	}
	return t
}

func (p *parser) errorf(t token, format string, args ...interface{}) error {
	return &ParseError{Input: p.src, Pos: t.pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) expr(minBP int) (Expr, error) {
	left, err := p.prefix()
	if err != nil {
		return nil, err
	}
	for {
		op := p.peek()
		bp, ok := lbp(op.kind)
		if !ok || bp <= minBP {
			break
		}
		p.next()
		// ^ is right-associative: parse its operand at a lower power.
		nextBP := bp
		if op.kind == tokCaret {
			nextBP = bp - 1
		}
		right, err := p.expr(nextBP)
		if err != nil {
			return nil, err
		}
		switch op.kind {
		case tokPlus:
			left = AddOf(left, right)
		case tokMinus:
			left = AddOf(left, MulOf(N(-1), right))
		case tokStar:
			left = MulOf(left, right)
		case tokSlash:
			if isNumEqual(right, 0) {
				return nil, p.errorf(op, "division by zero")
			}
			left = MulOf(left, PowOf(right, N(-1)))
		case tokCaret:
			left = PowOf(left, right)
		}
	}
	return left, nil
}

func (p *parser) prefix() (Expr, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		r, ok := new(big.Rat).SetString(t.text)
		if !ok {
			return nil, p.errorf(t, "invalid number %q", t.text)
		}
		return &Num{val: r}, nil
	case tokIdent:
		if p.peek().kind == tokLParen {
			fn, ok := unaryFuncs[t.text]
			if !ok {
				return nil, p.errorf(t, "unknown function %q", t.text)
			}
			p.next()
			arg, err := p.expr(0)
			if err != nil {
				return nil, err
			}
			if _, err := p.need(tokRParen, "expected ')'"); err != nil {
				return nil, err
			}
			return fn(arg), nil
		}
		if c, ok := constByName(t.text); ok {
			return c, nil
		}
		return S(t.text), nil
	case tokMinus:
		operand, err := p.expr(unaryBP)
		if err != nil {
			return nil, err
		}
		return MulOf(N(-1), operand), nil
	case tokPlus:
		return p.expr(unaryBP)
	case tokLParen:
		inner, err := p.expr(0)
		if err != nil {
			return nil, err
		}
		if _, err := p.need(tokRParen, "expected ')'"); err != nil {
			return nil, err
		}
		return inner, nil
	case tokEOF:
		return nil, p.errorf(t, "unexpected end of expression")
	}
	return nil, p.errorf(t, "unexpected %q", t.text)
}

func (p *parser) need(k tokenKind, msg string) (token, error) {
	t := p.peek()
	if t.kind != k {
		return token{}, p.errorf(t, msg)
	}
	return p.next(), nil
}
