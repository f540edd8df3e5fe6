package core

import (
	"encoding/json"
	"testing"
)

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"12.34", 1234, true},
		{"12,34", 1234, true},
		{"12.345", 1234, true},
		{"12.346", 1235, true},
		{"0", 0, true},
		{"0.00", 0, true},
		{"4.5", 450, true},
		{"800", 80000, true},
		{".5", 50, true},
		{"", 0, false},
		{"-5", 0, false},
		{"+5", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"12a", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Fatalf("%q: expected %d, got %d (%v)", tc.in, tc.want, got, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("%q: expected error", tc.in)
		}
	}
}

func TestMoneyDecimal(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{450, "4.5"},
		{80000, "800"},
		{1234, "12.34"},
		{105, "1.05"},
		{0, "0"},
		{-450, "-4.5"},
	}
	for _, tc := range cases {
		if got := (Money{Cents: tc.cents}).Decimal(); got != tc.want {
			t.Fatalf("%d cents: expected %q, got %q", tc.cents, tc.want, got)
		}
	}
}

func TestMoneyJSONRoundTrip(t *testing.T) {
	for _, cents := range []int64{0, 1, 99, 100, 450, 80000, 123456} {
		b, err := json.Marshal(Money{Cents: cents})
		if err != nil {
			t.Fatalf("marshal %d: %v", cents, err)
		}
		var back Money
		if err := json.Unmarshal(b, &back); err != nil {
			t.Fatalf("unmarshal %s: %v", b, err)
		}
		if back.Cents != cents {
			t.Fatalf("round trip %d -> %s -> %d", cents, b, back.Cents)
		}
	}

	// Quoted decimals decode too; the stored income key is text.
	var m Money
	if err := json.Unmarshal([]byte(`"1000"`), &m); err != nil || m.Cents != 100000 {
		t.Fatalf("quoted decode: got %d, %v", m.Cents, err)
	}
	if err := json.Unmarshal([]byte(`-5`), &m); err == nil {
		t.Fatal("negative amounts should not decode")
	}
}

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		cents int64
		code  string
		want  string
	}{
		{1234, "USD", "$12.34"},
		{1234, "EUR", "€12.34"},
		{50, "GBP", "£0.50"},
		{-100000, "USD", "-$1000.00"},
		{500, "XXX", "$5.00"}, // unknown code falls back to USD
	}
	for _, tc := range cases {
		if got := FormatAmount(Money{Cents: tc.cents}, tc.code); got != tc.want {
			t.Fatalf("%d %s: expected %q, got %q", tc.cents, tc.code, tc.want, got)
		}
	}
}
