package parser

import (
	"strconv"
	"strings"

	"github.com/dan-zheng/GPIR/internal/source"
	"github.com/dan-zheng/GPIR/internal/token"
)

// cursor is a token-slice index into the in-memory token stream produced
// up-front by the lexer (spec §5: parsing never suspends on I/O). Phase 1
// symbol scanning saves and restores a cursor position rather than
// advancing the authoritative one, per spec §4.5/§9.
type cursor struct {
	toks []token.Token
	pos  int
}

func (c *cursor) peek() token.Token {
	if c.pos >= len(c.toks) {
		return token.Token{Kind: token.EOF}
	}
	return c.toks[c.pos]
}

func (c *cursor) peekAt(n int) token.Token {
	i := c.pos + n
	if i >= len(c.toks) || i < 0 {
		return token.Token{Kind: token.EOF}
	}
	return c.toks[i]
}

func (c *cursor) at(k token.Kind) bool { return c.peek().Kind == k }

func (c *cursor) atIdent(text string) bool {
	t := c.peek()
	return t.Kind == token.Ident && t.Text == text
}

func (c *cursor) advance() token.Token {
	t := c.peek()
	if c.pos < len(c.toks) {
		c.pos++
	}
	return t
}

func (c *cursor) save() int     { return c.pos }
func (c *cursor) restore(p int) { c.pos = p }

// skipNewlines consumes zero or more Newline tokens, the textual grammar's
// statement separator (spec §4.5).
func (c *cursor) skipNewlines() {
	for c.at(token.Newline) {
		c.advance()
	}
}

func (c *cursor) span() source.Span { return c.peek().Span }

// sigilName strips a sigil-kind token's leading sigil character (@ % ' $ # ? !),
// since the lexer's Token.Text retains it (e.g. "@foo", "%x", "$Point").
func sigilName(tok token.Token) string {
	if !tok.IsSigil() || len(tok.Text) == 0 {
		return tok.Text
	}
	return tok.Text[1:]
}

// anonymousIndex reports whether name is a bare decimal index (the "@N",
// "'N" anonymous forms of spec §4.5) and, if so, its value.
func anonymousIndex(name string) (int, bool) {
	if name == "" {
		return 0, false
	}
	for _, r := range name {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(name)
	if err != nil {
		return 0, false
	}
	return n, true
}

// anonymousInstructionIndex reports whether name is the "%B.I" dotted
// anonymous-instruction form (an instruction naming itself by block and
// in-block position) and, if so, its (block, instruction) components.
func anonymousInstructionIndex(name string) (block, inst int, ok bool) {
	i := strings.IndexByte(name, '.')
	if i < 0 {
		return 0, 0, false
	}
	b, err1 := strconv.Atoi(name[:i])
	n, err2 := strconv.Atoi(name[i+1:])
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return b, n, true
}
