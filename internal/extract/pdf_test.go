package extract

import (
	"strings"
	"testing"
)

func TestDecodeContentStream(t *testing.T) {
	t.Run("Tj operators", func(t *testing.T) {
		stream := strings.Join([]string{
			"BT",
			"/F1 12 Tf",
			"(Hello) Tj",
			"( world) Tj",
			"ET",
		}, "\n")

		if got := decodeContentStream([]byte(stream)); got != "Hello world" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("TJ arrays", func(t *testing.T) {
		stream := "[(Rev) -250 (enue)] TJ"
		if got := decodeContentStream([]byte(stream)); got != "Revenue" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("Td starts a new line", func(t *testing.T) {
		stream := strings.Join([]string{
			"(first line) Tj",
			"0 -14 Td",
			"(second line) Tj",
		}, "\n")

		got := decodeContentStream([]byte(stream))
		if got != "first line\nsecond line" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("T* starts a new line", func(t *testing.T) {
		stream := "(a) Tj\nT*\n(b) Tj"
		if got := decodeContentStream([]byte(stream)); got != "a\nb" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("quote operator", func(t *testing.T) {
		stream := "(head) Tj\n(next) '"
		if got := decodeContentStream([]byte(stream)); got != "head\nnext" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("non-text operators ignored", func(t *testing.T) {
		stream := "q\n1 0 0 1 50 700 cm\nQ"
		if got := decodeContentStream([]byte(stream)); got != "" {
			t.Errorf("got %q", got)
		}
	})
}

func TestDecodePDFString(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`plain`, "plain"},
		{`a\nb`, "a\nb"},
		{`tab\there`, "tab\there"},
		{`paren\(s\)`, "paren(s)"},
		{`back\\slash`, `back\slash`},
		{`octal\040space`, "octal space"},
		{`\101BC`, "ABC"},
	}
	for _, tc := range cases {
		if got := decodePDFString([]byte(tc.in)); got != tc.want {
			t.Errorf("decodePDFString(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCleanPageText(t *testing.T) {
	t.Run("collapses space runs", func(t *testing.T) {
		if got := cleanPageText("a    b\tc"); got != "a b c" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("keeps line breaks", func(t *testing.T) {
		if got := cleanPageText("row one\nrow two"); got != "row one\nrow two" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("drops non-printable runes", func(t *testing.T) {
		if got := cleanPageText("ok\x00\x01fine"); got != "okfine" {
			t.Errorf("got %q", got)
		}
	})
}
