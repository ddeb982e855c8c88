package matching

import (
	"reflect"
	"testing"
)

func TestNormalizeStripsWhitespaceAndHonorifics(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"田中 太郎", "田中太郎"},
		{"田中　太郎", "田中太郎"},
		{"田中太郎議員", "田中太郎"},
		{"田中太郎 先生", "田中太郎"},
		{"田中さん", "田中"},
		{"山田氏", "山田"},
		{"佐藤君", "佐藤"},
		{"鈴木様", "鈴木"},
		{"  spaced  out  ", "spacedout"},
	}
	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Fatalf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeStripsOnlyOneSuffix(t *testing.T) {
	// Only the outermost honorific goes; the name itself stays intact.
	if got := Normalize("議員議員"); got != "議員" {
		t.Fatalf("expected one suffix stripped, got %q", got)
	}
}

func TestNormalizeNeverProducesEmptyFromSuffixOnly(t *testing.T) {
	if got := Normalize("議員"); got != "議員" {
		t.Fatalf("suffix-only name must survive, got %q", got)
	}
}

func TestSplitNames(t *testing.T) {
	got := SplitNames("田中太郎、山田花子, 佐藤次郎，鈴木一")
	want := []string{"田中太郎", "山田花子", "佐藤次郎", "鈴木一"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("SplitNames = %v, want %v", got, want)
	}

	if got := SplitNames("、、 、"); len(got) != 0 {
		t.Fatalf("expected no names from separator-only input, got %v", got)
	}
}
