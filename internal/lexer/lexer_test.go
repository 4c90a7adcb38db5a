package lexer

import (
	"testing"

	"github.com/dan-zheng/GPIR/internal/source"
	"github.com/dan-zheng/GPIR/internal/token"
)

func tokenize(t *testing.T, text string) []token.Token {
	t.Helper()
	l := New(source.New("test", []byte(text)))
	toks, err := l.Tokenize()
	if err != nil {
		t.Fatalf("Tokenize(%q): unexpected error: %v", text, err)
	}
	return toks
}

func kinds(toks []token.Token) []token.Kind {
	ks := make([]token.Kind, len(toks))
	for i, tok := range toks {
		ks[i] = tok.Kind
	}
	return ks
}

func TestLexerSigils(t *testing.T) {
	toks := tokenize(t, "@foo %x 'entry $Point #field ?Case !inline")
	got := kinds(toks)
	want := []token.Kind{
		token.Global, token.Temp, token.BlockLabel, token.TypeName,
		token.Field, token.EnumCase, token.Attribute, token.EOF,
	}
	if len(got) != len(want) {
		t.Fatalf("got %d tokens %v, want %d %v", len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
	if toks[1].Text != "%x" {
		t.Errorf("temp text = %q, want %%x", toks[1].Text)
	}
}

func TestLexerAnonymousForms(t *testing.T) {
	toks := tokenize(t, "@3 '2 %1.0 %2^0")
	for i, want := range []string{"@3", "'2", "%1.0", "%2^0"} {
		if toks[i].Text != want {
			t.Errorf("token %d = %q, want %q", i, toks[i].Text, want)
		}
	}
}

func TestLexerNumbers(t *testing.T) {
	toks := tokenize(t, "42 -7 3.14 -0.5")
	wantKind := []token.Kind{token.IntLit, token.IntLit, token.FloatLit, token.FloatLit}
	wantText := []string{"42", "-7", "3.14", "-0.5"}
	for i := range wantKind {
		if toks[i].Kind != wantKind[i] {
			t.Errorf("token %d kind = %s, want %s", i, toks[i].Kind, wantKind[i])
		}
		if toks[i].Text != wantText[i] {
			t.Errorf("token %d text = %q, want %q", i, toks[i].Text, wantText[i])
		}
	}
}

func TestLexerStringEscapes(t *testing.T) {
	toks := tokenize(t, `"a\nb\tc\\d\"e"`)
	if toks[0].Kind != token.StringLit {
		t.Fatalf("kind = %s, want string-literal", toks[0].Kind)
	}
	want := "a\nb\tc\\d\"e"
	if toks[0].Text != want {
		t.Errorf("text = %q, want %q", toks[0].Text, want)
	}
}

func TestLexerLineComment(t *testing.T) {
	toks := tokenize(t, "@a // a comment\n@b")
	got := kinds(toks)
	want := []token.Kind{token.Global, token.Newline, token.Global, token.EOF}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestLexerNewlineSignificant(t *testing.T) {
	toks := tokenize(t, "@a\n@b")
	got := kinds(toks)
	want := []token.Kind{token.Global, token.Newline, token.Global, token.EOF}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestLexerPunctuationAndArrow(t *testing.T) {
	toks := tokenize(t, "(i32) -> bool : , .")
	got := kinds(toks)
	want := []token.Kind{
		token.LParen, token.Ident, token.RParen, token.Arrow, token.Ident,
		token.Colon, token.Comma, token.Dot, token.EOF,
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestLexerUnclosedString(t *testing.T) {
	l := New(source.New("test", []byte(`"unterminated`)))
	_, err := l.Tokenize()
	if err == nil {
		t.Fatal("expected an error for an unterminated string literal")
	}
	lexErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("error type = %T, want *lexer.Error", err)
	}
	if lexErr.Kind != UnclosedStringLiteral {
		t.Errorf("kind = %v, want UnclosedStringLiteral", lexErr.Kind)
	}
}

func TestLexerInvalidEscape(t *testing.T) {
	l := New(source.New("test", []byte(`"bad \q escape"`)))
	_, err := l.Tokenize()
	if err == nil {
		t.Fatal("expected an error for an invalid escape character")
	}
	lexErr := err.(*Error)
	if lexErr.Kind != InvalidEscapeCharacter {
		t.Errorf("kind = %v, want InvalidEscapeCharacter", lexErr.Kind)
	}
}

func TestLexerDanglingSigil(t *testing.T) {
	l := New(source.New("test", []byte("@ "))) // sigil with nothing after it
	_, err := l.Tokenize()
	if err == nil {
		t.Fatal("expected an error for a sigil with no name")
	}
	lexErr := err.(*Error)
	if lexErr.Kind != ExpectingIdentifierName {
		t.Errorf("kind = %v, want ExpectingIdentifierName", lexErr.Kind)
	}
}

func TestLexerUnexpectedCharacter(t *testing.T) {
	l := New(source.New("test", []byte("@a ~ @b")))
	_, err := l.Tokenize()
	if err == nil {
		t.Fatal("expected an error for an unexpected character")
	}
	lexErr := err.(*Error)
	if lexErr.Kind != UnexpectedToken {
		t.Errorf("kind = %v, want UnexpectedToken", lexErr.Kind)
	}
}

func TestLexerKeywordsAreIdents(t *testing.T) {
	// Keywords/opcodes/data-type spellings are bare words; the lexer itself
	// does not special-case them (spec §4.5 leaves that to the parser).
	toks := tokenize(t, "module stage raw func bool i32 f16 f32 f64")
	for i, tok := range toks[:len(toks)-1] {
		if tok.Kind != token.Ident {
			t.Errorf("token %d (%q) kind = %s, want ident", i, tok.Text, tok.Kind)
		}
	}
}
