package logic

import "testing"

func TestParseOperator(t *testing.T) {
	tests := []struct {
		label string
		want  Operator
	}{
		{"AND", And},
		{"and", And},
		{"И", And},
		{"и", And},
		{"ALL", And},
		{" all ", And},
		{"OR", Or},
		{"ИЛИ", Or},
		{"или", Or},
		{"ANY", Or},
		{"NOT", Not},
		{"НЕТ", Not},
		{"нет", Not},
		{"", And},
		{"XOR", And},
		{"какой-то текст", And},
	}

	for _, tt := range tests {
		if got := ParseOperator(tt.label); got != tt.want {
			t.Errorf("ParseOperator(%q) = %s, want %s", tt.label, got, tt.want)
		}
	}
}

func TestOperator_String(t *testing.T) {
	if And.String() != "AND" || Or.String() != "OR" || Not.String() != "NOT" {
		t.Errorf("unexpected operator codes: %s %s %s", And, Or, Not)
	}
}
