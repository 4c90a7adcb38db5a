// Package lexer scans the textual IR surface syntax into a token stream,
// grounded on the teacher's internal/lexer package (cursor-based scanning,
// one exported Lexer type, small per-concern scan* helpers).
package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/dan-zheng/GPIR/internal/source"
	"github.com/dan-zheng/GPIR/internal/token"
)

// Lexer scans one in-memory source buffer into tokens on demand.
type Lexer struct {
	src  *source.Source
	buf  []byte
	pos  int
	errs []*Error
}

// New creates a Lexer over src. The buffer is NFC-normalized up front so
// that identifier and string-literal comparisons downstream never have to
// reason about combining-character variation, mirroring how the teacher's
// runtime normalizes string values via golang.org/x/text/unicode/norm --
// applied here at lex time since this library has no runtime of its own.
func New(src *source.Source) *Lexer {
	normalized := norm.NFC.Bytes(src.Content)
	return &Lexer{src: src, buf: normalized}
}

// Errors returns every lexical error accumulated by Tokenize.
func (l *Lexer) Errors() []*Error { return l.errs }

// Tokenize scans the entire buffer and returns the token stream. It is
// all-or-nothing per spec §7: the first lexical error stops scanning and is
// returned, though any errors accumulated before that point are available
// via Errors for bag-style reporting.
func (l *Lexer) Tokenize() ([]token.Token, error) {
	var toks []token.Token
	for {
		tok, err := l.next()
		if err != nil {
			l.errs = append(l.errs, err.(*Error))
			return toks, err
		}
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks, nil
		}
	}
}

func (l *Lexer) at(off int) byte {
	if off < 0 || off >= len(l.buf) {
		return 0
	}
	return l.buf[off]
}

func (l *Lexer) span(start int) source.Span {
	return source.Span{Start: uint32(start), End: uint32(l.pos)}
}

func isIdentStart(b byte) bool {
	return b == '_' || unicode.IsLetter(rune(b))
}

func isIdentCont(b byte) bool {
	return b == '_' || unicode.IsLetter(rune(b)) || unicode.IsDigit(rune(b))
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// next scans a single token, skipping intra-line whitespace and line
// comments, but emitting Newline as a significant separator per spec §4.5.
func (l *Lexer) next() (token.Token, error) {
	for l.pos < len(l.buf) {
		b := l.at(l.pos)
		switch {
		case b == ' ' || b == '\t' || b == '\r':
			l.pos++
		case b == '/' && l.at(l.pos+1) == '/':
			for l.pos < len(l.buf) && l.at(l.pos) != '\n' {
				l.pos++
			}
		default:
			goto scan
		}
	}
scan:
	if l.pos >= len(l.buf) {
		return token.Token{Kind: token.EOF, Span: l.span(l.pos)}, nil
	}
	start := l.pos
	b := l.at(l.pos)

	switch {
	case b == '\n':
		l.pos++
		return token.Token{Kind: token.Newline, Span: l.span(start), Text: "\n"}, nil

	case b == '@', b == '%', b == '\'', b == '$', b == '#', b == '?', b == '!':
		return l.scanSigil(start)

	case b == '"':
		return l.scanString(start)

	case isDigit(b) || (b == '-' && isDigit(l.at(l.pos+1))):
		return l.scanNumber(start)

	case isIdentStart(b):
		return l.scanIdent(start)

	default:
		return l.scanPunct(start)
	}
}

var sigilKind = map[byte]token.Kind{
	'@': token.Global, '%': token.Temp, '\'': token.BlockLabel,
	'$': token.TypeName, '#': token.Field, '?': token.EnumCase, '!': token.Attribute,
}

func (l *Lexer) scanSigil(start int) (token.Token, error) {
	sigil := l.at(start)
	l.pos++
	bodyStart := l.pos
	for l.pos < len(l.buf) {
		c := l.at(l.pos)
		if isIdentCont(c) || c == '.' || c == '^' {
			l.pos++
			continue
		}
		break
	}
	if l.pos == bodyStart {
		return token.Token{}, newError(ExpectingIdentifierName, l.span(start), "expected a name after %q", string(sigil))
	}
	text := string(l.buf[start:l.pos])
	return token.Token{Kind: sigilKind[sigil], Span: l.span(start), Text: text}, nil
}

func (l *Lexer) scanIdent(start int) (token.Token, error) {
	l.pos++
	for l.pos < len(l.buf) && isIdentCont(l.at(l.pos)) {
		l.pos++
	}
	return token.Token{Kind: token.Ident, Span: l.span(start), Text: string(l.buf[start:l.pos])}, nil
}

func (l *Lexer) scanNumber(start int) (token.Token, error) {
	if l.at(l.pos) == '-' {
		l.pos++
	}
	sawDigit := false
	for l.pos < len(l.buf) && isDigit(l.at(l.pos)) {
		l.pos++
		sawDigit = true
	}
	isFloat := false
	if l.at(l.pos) == '.' && isDigit(l.at(l.pos+1)) {
		isFloat = true
		l.pos++
		for l.pos < len(l.buf) && isDigit(l.at(l.pos)) {
			l.pos++
		}
	}
	if !sawDigit {
		return token.Token{}, newError(IllegalNumber, l.span(start), "malformed numeric literal %q", string(l.buf[start:l.pos]))
	}
	kind := token.IntLit
	if isFloat {
		kind = token.FloatLit
	}
	return token.Token{Kind: kind, Span: l.span(start), Text: string(l.buf[start:l.pos])}, nil
}

func (l *Lexer) scanString(start int) (token.Token, error) {
	l.pos++ // opening quote
	var sb strings.Builder
	for {
		if l.pos >= len(l.buf) {
			return token.Token{}, newError(UnclosedStringLiteral, l.span(start), "unterminated string literal")
		}
		c := l.at(l.pos)
		if c == '"' {
			l.pos++
			break
		}
		if c == '\n' {
			return token.Token{}, newError(UnclosedStringLiteral, l.span(start), "newline inside string literal")
		}
		if c == '\\' {
			escSpan := l.span(l.pos)
			l.pos++
			e := l.at(l.pos)
			switch e {
			case '"':
				sb.WriteByte('"')
			case '\\':
				sb.WriteByte('\\')
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			default:
				return token.Token{}, newError(InvalidEscapeCharacter, escSpan, "invalid escape character %q", string(e))
			}
			l.pos++
			continue
		}
		r, size := utf8.DecodeRune(l.buf[l.pos:])
		sb.WriteRune(r)
		l.pos += size
	}
	return token.Token{Kind: token.StringLit, Span: l.span(start), Text: sb.String()}, nil
}

var punct = map[byte]token.Kind{
	':': token.Colon, ',': token.Comma, '=': token.Equals, '.': token.Dot,
	'^': token.Caret, '-': token.Minus, '(': token.LParen, ')': token.RParen,
	'{': token.LBrace, '}': token.RBrace, '[': token.LBracket, ']': token.RBracket,
}

func (l *Lexer) scanPunct(start int) (token.Token, error) {
	if l.at(l.pos) == '-' && l.at(l.pos+1) == '>' {
		l.pos += 2
		return token.Token{Kind: token.Arrow, Span: l.span(start), Text: "->"}, nil
	}
	k, ok := punct[l.at(l.pos)]
	if !ok {
		r, size := utf8.DecodeRune(l.buf[l.pos:])
		l.pos += size
		return token.Token{}, newError(UnexpectedToken, l.span(start), "unexpected character %q", string(r))
	}
	l.pos++
	return token.Token{Kind: k, Span: l.span(start), Text: string(l.at(start))}, nil
}
