package lexer

import (
	"testing"

	"github.com/qewer33/queitite/internal/token"
)

func TestNextTokenBasicOperators(t *testing.T) {
	input := `x = 1 + 2 - 3 * 4 / 5 ** 6;`

	expected := []token.Type{
		token.IDENT, token.ASSIGN, token.NUM, token.ADD, token.NUM, token.SUB,
		token.NUM, token.MUL, token.NUM, token.DIV, token.NUM, token.POW,
		token.NUM, token.SEMI, token.EOF,
	}

	toks := New(input).Tokenize()
	if len(toks) != len(expected) {
		t.Fatalf("expected %d tokens, got %d: %+v", len(expected), len(toks), toks)
	}
	for i, want := range expected {
		if toks[i].Type != want {
			t.Errorf("token %d: expected %s, got %s (%q)", i, want, toks[i].Type, toks[i].Literal)
		}
	}
}

func TestNextTokenKeywordsAndIdent(t *testing.T) {
	input := `if while do end yeet throw amogus object notakeyword`
	toks := New(input).Tokenize()
	expected := []token.Type{
		token.IF, token.WHILE, token.DO, token.END, token.YEET, token.THROW,
		token.AMOGUS, token.OBJECT, token.IDENT, token.EOF,
	}
	if len(toks) != len(expected) {
		t.Fatalf("expected %d tokens, got %d", len(expected), len(toks))
	}
	for i, want := range expected {
		if toks[i].Type != want {
			t.Errorf("token %d: expected %s, got %s", i, want, toks[i].Type)
		}
	}
}

func TestStringEscapes(t *testing.T) {
	input := `"a\nb\tc\\d\"e"`
	toks := New(input).Tokenize()
	if len(toks) != 2 || toks[0].Type != token.STRING {
		t.Fatalf("expected single STRING token, got %+v", toks)
	}
	want := "a\nb\tc\\d\"e"
	if toks[0].Literal != want {
		t.Errorf("expected literal %q, got %q", want, toks[0].Literal)
	}
}

func TestLineComment(t *testing.T) {
	input := "x = 1 # this is a comment\ny = 2"
	toks := New(input).Tokenize()
	for _, tok := range toks {
		if tok.Type == token.ILLEGAL {
			t.Fatalf("unexpected ILLEGAL token: %+v", tok)
		}
	}
	// comment must not surface as a token between the two statements
	var idents []string
	for _, tok := range toks {
		if tok.Type == token.IDENT {
			idents = append(idents, tok.Literal)
		}
	}
	if len(idents) != 2 || idents[0] != "x" || idents[1] != "y" {
		t.Errorf("expected idents [x y], got %v", idents)
	}
}

func TestCursorTracksLineAndColumn(t *testing.T) {
	input := "x\ny"
	toks := New(input).Tokenize()
	if toks[0].Pos.Line != 1 {
		t.Errorf("expected first token on line 1, got %d", toks[0].Pos.Line)
	}
	if toks[1].Pos.Line != 2 {
		t.Errorf("expected second token on line 2, got %d", toks[1].Pos.Line)
	}
}

func TestTwoCharOperators(t *testing.T) {
	input := "a += 1; b -= 2; c++ ; d-- ; e == f; g != h; i <= j; k >= l;"
	toks := New(input).Tokenize()
	var kinds []token.Type
	for _, tok := range toks {
		kinds = append(kinds, tok.Type)
	}
	mustContain := []token.Type{
		token.ADD_ASSIGN, token.SUB_ASSIGN, token.INCR, token.DECR,
		token.EQ, token.NEQ, token.LTE, token.GTE,
	}
	for _, want := range mustContain {
		found := false
		for _, k := range kinds {
			if k == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected token kind %s to appear", want)
		}
	}
}
