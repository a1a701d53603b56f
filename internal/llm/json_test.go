package llm

import (
	"encoding/json"
	"testing"
)

func TestExtractJSONFromText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "bare object",
			in:   `{"1": "house"}`,
			want: `{"1": "house"}`,
		},
		{
			name: "code fences",
			in:   "```json\n{\"1\": \"house\"}\n```",
			want: `{"1": "house"}`,
		},
		{
			name: "fences with surrounding prose",
			in:   "Here are your definitions:\n```json\n{\"1\": \"house\"}\n```\nLet me know if you need more!",
			want: `{"1": "house"}`,
		},
		{
			name: "prose without fences",
			in:   `Sure! {"1": "house"} Hope that helps.`,
			want: `{"1": "house"}`,
		},
		{
			name: "no object at all",
			in:   "no json here",
			want: "no json here",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractJSONFromText(tt.in)
			if got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestExtractJSONFromTextParses(t *testing.T) {
	in := "Some preamble.\n```json\n{\"1\": \"(das, Häuser) house\",\n \"2\": \"pear\"}\n```\ntrailing text"

	var defs map[string]string
	if err := json.Unmarshal([]byte(ExtractJSONFromText(in)), &defs); err != nil {
		t.Fatalf("Extracted text did not parse: %v", err)
	}
	if defs["2"] != "pear" {
		t.Errorf("Expected pear, got %q", defs["2"])
	}
}

func TestEstimateTokenCount(t *testing.T) {
	if got := EstimateTokenCount(""); got != 0 {
		t.Errorf("Expected 0 for empty text, got %d", got)
	}

	short := EstimateTokenCount("Das Haus ist groß")
	long := EstimateTokenCount("Das Haus ist groß und steht mitten in der alten Stadt am Fluss")
	if short <= 0 {
		t.Errorf("Expected positive estimate, got %d", short)
	}
	if long <= short {
		t.Errorf("Expected longer text to cost more tokens: %d <= %d", long, short)
	}
}

