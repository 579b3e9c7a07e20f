package tokenizer

import (
	"reflect"
	"strings"
	"testing"
)

func TestTerms(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", []string{}},
		{"whitespace only", "  \t\n ", []string{}},
		{"lower-cases", "Your ACCOUNT", []string{"your", "account"}},
		{"strips punctuation", "Rs.500 debited, A/c XX1234!", []string{"rs", "500", "debited", "a", "c", "xx1234"}},
		{"keeps apostrophe", "Don't share OTP", []string{"don't", "share", "otp"}},
		{"unicode letters", "Café über", []string{"café", "über"}},
		{"tabs and newlines", "one\ttwo\nthree", []string{"one", "two", "three"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Terms(tt.in, cfg)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Terms(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTermsCaseSensitive(t *testing.T) {
	cfg := Config{Lower: false, Filters: DefaultFilters}
	got := Terms("OTP otp", cfg)
	want := []string{"OTP", "otp"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Terms = %q, want %q", got, want)
	}
}

func TestTokenizePositions(t *testing.T) {
	tokens := Tokenize("a, b. c", DefaultConfig())
	if len(tokens) != 3 {
		t.Fatalf("got %d tokens, want 3", len(tokens))
	}
	for i, tok := range tokens {
		if tok.Position != i {
			t.Errorf("token %q position = %d, want %d", tok.Term, tok.Position, i)
		}
	}
}

func BenchmarkTokenize(b *testing.B) {
	text := strings.Repeat("Dear customer, Rs.2,500.00 has been debited from A/c XX1234 on 12-Mar. ", 20)
	cfg := DefaultConfig()
	b.ReportAllocs()
	b.SetBytes(int64(len(text)))
	for i := 0; i < b.N; i++ {
		_ = Tokenize(text, cfg)
	}
}
