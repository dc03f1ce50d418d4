package standardize

import (
	"errors"
	"testing"

	"github.com/dublin-energylink/internal/frame"
)

func TestRulesExpand(t *testing.T) {
	std := NewRules()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "lowercases and strips punctuation",
			input: "Peamount Hospital, Newcastle",
			want:  "peamount hospital newcastle",
		},
		{
			name:  "expands street abbreviations",
			input: "1 Grange Rd, Rathfarnham",
			want:  "1 grange road rathfarnham",
		},
		{
			name:  "expands county abbreviation",
			input: "Newcastle, Co. Dublin",
			want:  "newcastle county dublin",
		},
		{
			name:  "collapses whitespace",
			input: "  Dame   Street ",
			want:  "dame street",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Canonical(std, tt.input)
			if got != tt.want {
				t.Errorf("Canonical(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRulesParse(t *testing.T) {
	std := NewRules()

	tests := []struct {
		name  string
		input string
		want  map[string]string
	}{
		{
			name:  "house number road and suburb",
			input: "1 Grange Road, Rathfarnham",
			want: map[string]string{
				"house_number": "1",
				"road":         "grange road",
				"suburb":       "rathfarnham",
			},
		},
		{
			name:  "named building without road",
			input: "Peamount Hospital Newcastle",
			want: map[string]string{
				"house": "peamount hospital newcastle",
			},
		},
		{
			name:  "dublin district",
			input: "Dame Street, Dublin 2",
			want: map[string]string{
				"road":          "dame street",
				"city_district": "dublin 2",
			},
		},
		{
			name:  "trailing city",
			input: "Dame Street, Dublin",
			want: map[string]string{
				"road": "dame street",
				"city": "dublin",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			components := std.Parse(tt.input)
			got := make(map[string]string, len(components))
			for _, c := range components {
				got[c.Label] = c.Value
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Parse(%q) = %v, want %v", tt.input, components, tt.want)
			}
			for label, value := range tt.want {
				if got[label] != value {
					t.Errorf("Parse(%q)[%s] = %q, want %q", tt.input, label, got[label], value)
				}
			}
		})
	}
}

func TestColumnStandardizesInPlace(t *testing.T) {
	tbl := frame.New("combined_address")
	tbl.Append("Peamount Hospital, Newcastle")
	tbl.Append("PEAMOUNT HOSPITAL, Newcastle,")

	out, err := Column(tbl, NewRules(), "combined_address", "standardised_address")
	if err != nil {
		t.Fatalf("Column: %v", err)
	}
	first := out.At(0, "standardised_address")
	second := out.At(1, "standardised_address")
	if first != second {
		t.Errorf("spelling variants standardized differently: %q vs %q", first, second)
	}
}

func TestColumnMissingColumn(t *testing.T) {
	tbl := frame.New("other")
	tbl.Append("x")
	var precondition *frame.PreconditionError
	if _, err := Column(tbl, NewRules(), "combined_address", "out"); !errors.As(err, &precondition) {
		t.Fatalf("want PreconditionError")
	}
}

func TestParseColumnProducesFields(t *testing.T) {
	tbl := frame.New("standardised_address")
	tbl.Append("1 grange road rathfarnham")

	out, err := ParseColumn(tbl, NewRules(), "standardised_address", "parsed_address")
	if err != nil {
		t.Fatalf("ParseColumn: %v", err)
	}
	fields, ok := out.At(0, "parsed_address").([]frame.Field)
	if !ok || len(fields) == 0 {
		t.Fatalf("parsed_address = %v", out.At(0, "parsed_address"))
	}
	if fields[0].Label != "house_number" || fields[0].Value != "1" {
		t.Errorf("first field = %+v", fields[0])
	}
}
