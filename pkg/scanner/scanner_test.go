package scanner

import (
	"reflect"
	"testing"

	"lox/interpreter-go/pkg/diagnostics"
	"lox/interpreter-go/pkg/token"
)

func kindsOf(tokens []token.Token) []token.Kind {
	out := make([]token.Kind, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Kind
	}
	return out
}

func TestScanArithmetic(t *testing.T) {
	r := diagnostics.NewReporter(nil)
	tokens := Scan("1 + 2 * 3;", r)
	if r.HadError() {
		t.Fatalf("unexpected errors: %s", r.Summary())
	}
	want := []token.Kind{token.Number, token.Plus, token.Number, token.Star, token.Number, token.Semicolon, token.EOF}
	if got := kindsOf(tokens); !reflect.DeepEqual(got, want) {
		t.Fatalf("kinds = %v, want %v", got, want)
	}
	for i, lit := range map[int]float64{0: 1, 2: 2, 4: 3} {
		if tokens[i].Literal != lit {
			t.Fatalf("token %d literal = %#v, want %v", i, tokens[i].Literal, lit)
		}
	}
}

func TestScanOperatorsLongestMatch(t *testing.T) {
	tokens := Scan("! != = == < <= > >= / //comment\n-", diagnostics.NewReporter(nil))
	want := []token.Kind{
		token.Bang, token.BangEqual, token.Equal, token.EqualEqual,
		token.Less, token.LessEqual, token.Greater, token.GreaterEqual,
		token.Slash, token.Minus, token.EOF,
	}
	if got := kindsOf(tokens); !reflect.DeepEqual(got, want) {
		t.Fatalf("kinds = %v, want %v", got, want)
	}
	if tokens[len(tokens)-2].Line != 2 {
		t.Fatalf("expected '-' on line 2, got %d", tokens[len(tokens)-2].Line)
	}
}

func TestScanKeywordsAndIdentifiers(t *testing.T) {
	tokens := Scan("var _x1 = nil; fun orchid and or", diagnostics.NewReporter(nil))
	want := []token.Kind{
		token.Var, token.Identifier, token.Equal, token.Nil, token.Semicolon,
		token.Fun, token.Identifier, token.And, token.Or, token.EOF,
	}
	if got := kindsOf(tokens); !reflect.DeepEqual(got, want) {
		t.Fatalf("kinds = %v, want %v", got, want)
	}
	if tokens[1].Lexeme != "_x1" || tokens[6].Lexeme != "orchid" {
		t.Fatalf("unexpected identifier lexemes %q %q", tokens[1].Lexeme, tokens[6].Lexeme)
	}
}

func TestScanNumbers(t *testing.T) {
	cases := []struct {
		src   string
		kinds []token.Kind
		first float64
	}{
		{"12.5", []token.Kind{token.Number, token.EOF}, 12.5},
		{"7", []token.Kind{token.Number, token.EOF}, 7},
		{"3.", []token.Kind{token.Number, token.Dot, token.EOF}, 3},
		{".5", []token.Kind{token.Dot, token.Number, token.EOF}, 0},
	}
	for _, tc := range cases {
		tokens := Scan(tc.src, diagnostics.NewReporter(nil))
		if got := kindsOf(tokens); !reflect.DeepEqual(got, tc.kinds) {
			t.Fatalf("%q: kinds = %v, want %v", tc.src, got, tc.kinds)
		}
		if tokens[0].Kind == token.Number && tokens[0].Literal != tc.first {
			t.Fatalf("%q: literal = %#v, want %v", tc.src, tokens[0].Literal, tc.first)
		}
	}
}

func TestScanStrings(t *testing.T) {
	tokens := Scan("\"hello\nworld\" x", diagnostics.NewReporter(nil))
	if tokens[0].Kind != token.String || tokens[0].Literal != "hello\nworld" {
		t.Fatalf("unexpected string token %#v", tokens[0])
	}
	if tokens[0].Lexeme != "\"hello\nworld\"" {
		t.Fatalf("lexeme should keep quotes, got %q", tokens[0].Lexeme)
	}
	if tokens[1].Line != 2 {
		t.Fatalf("identifier after multi-line string should be on line 2, got %d", tokens[1].Line)
	}
}

func TestScanUnterminatedString(t *testing.T) {
	r := diagnostics.NewReporter(nil)
	tokens := Scan("print \"oops", r)
	if got := kindsOf(tokens); !reflect.DeepEqual(got, []token.Kind{token.Print, token.EOF}) {
		t.Fatalf("kinds = %v", got)
	}
	diags := r.Diagnostics()
	if len(diags) != 1 || diags[0].Message != "Unterminated string." {
		t.Fatalf("unexpected diagnostics %#v", diags)
	}
}

func TestScanUnexpectedCharactersAccumulate(t *testing.T) {
	r := diagnostics.NewReporter(nil)
	tokens := Scan("1 @ 2\n# é 3", r)
	want := []token.Kind{token.Number, token.Number, token.Number, token.EOF}
	if got := kindsOf(tokens); !reflect.DeepEqual(got, want) {
		t.Fatalf("kinds = %v, want %v", got, want)
	}
	diags := r.Diagnostics()
	if len(diags) != 3 {
		t.Fatalf("expected 3 lexical errors, got %d: %s", len(diags), r.Summary())
	}
	if diags[0].Line != 1 || diags[1].Line != 2 || diags[2].Line != 2 {
		t.Fatalf("unexpected lines %d %d %d", diags[0].Line, diags[1].Line, diags[2].Line)
	}
	for _, d := range diags {
		if d.Kind != diagnostics.KindLexical || d.Message != "Unexpected character." {
			t.Fatalf("unexpected diagnostic %#v", d)
		}
	}
}

func TestScanEmptySource(t *testing.T) {
	tokens := Scan("", nil)
	if len(tokens) != 1 || tokens[0].Kind != token.EOF || tokens[0].Line != 1 {
		t.Fatalf("unexpected tokens %#v", tokens)
	}
}
