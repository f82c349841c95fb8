package pixel

import (
	"reflect"
	"testing"
)

const sampleYAML = `
name: main_page
strategy: count
threshold: 2
rules:
  - {x: 0.50, y: 0.85, color: [201, 129, 54]}
  - {x: 0.20, y: 0.60, color: [47, 253, 226], tolerance: 40}
  - {x: 1.00, y: 0.00, color: [0, 0, 0]}
`

func TestParseSignatureYAML(t *testing.T) {
	sig, err := ParseSignatureYAML([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("ParseSignatureYAML: %v", err)
	}

	if sig.Name != "main_page" {
		t.Errorf("Name = %q, want main_page", sig.Name)
	}
	if sig.Strategy != MatchCount || sig.Threshold != 2 {
		t.Errorf("Strategy/Threshold = %v/%d, want count/2", sig.Strategy, sig.Threshold)
	}
	if len(sig.Rules) != 3 {
		t.Fatalf("len(Rules) = %d, want 3", len(sig.Rules))
	}
	if sig.Rules[0].Color != RGB(201, 129, 54) {
		t.Errorf("rule 0 color = %v, want (201,129,54)", sig.Rules[0].Color)
	}
	if sig.Rules[0].Tolerance != DefaultTolerance {
		t.Errorf("rule 0 tolerance = %v, want default %v", sig.Rules[0].Tolerance, DefaultTolerance)
	}
	if sig.Rules[1].Tolerance != 40 {
		t.Errorf("rule 1 tolerance = %v, want 40", sig.Rules[1].Tolerance)
	}
}

func TestParseSignatureYAMLRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"no name", `{rules: [{x: 0.5, y: 0.5, color: [1, 2, 3]}]}`},
		{"no rules", `{name: p}`},
		{"x out of range", `{name: p, rules: [{x: 1.5, y: 0.5, color: [1, 2, 3]}]}`},
		{"channel out of range", `{name: p, rules: [{x: 0.5, y: 0.5, color: [1, 2, 300]}]}`},
		{"negative tolerance", `{name: p, rules: [{x: 0.5, y: 0.5, color: [1, 2, 3], tolerance: -2}]}`},
		{"unknown strategy", `{name: p, strategy: most, rules: [{x: 0.5, y: 0.5, color: [1, 2, 3]}]}`},
		{"not yaml", `{{{`},
	}
	for _, tt := range tests {
		if _, err := ParseSignatureYAML([]byte(tt.yaml)); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}

func TestParseSignaturesYAML(t *testing.T) {
	data := []byte(`
- name: a
  rules:
    - {x: 0.1, y: 0.1, color: [1, 2, 3]}
- name: b
  strategy: any
  rules:
    - {x: 0.9, y: 0.9, color: [4, 5, 6]}
`)
	sigs, err := ParseSignaturesYAML(data)
	if err != nil {
		t.Fatalf("ParseSignaturesYAML: %v", err)
	}
	if len(sigs) != 2 {
		t.Fatalf("len = %d, want 2", len(sigs))
	}
	if sigs[0].Name != "a" || sigs[1].Name != "b" {
		t.Errorf("names = %q, %q", sigs[0].Name, sigs[1].Name)
	}
	if sigs[1].Strategy != MatchAny {
		t.Errorf("strategy = %v, want any", sigs[1].Strategy)
	}
}

func TestParseSignatureJSON(t *testing.T) {
	data := []byte(`{"name":"p","strategy":"all","rules":[{"x":0.5,"y":0.5,"color":[10,20,30]}]}`)
	sig, err := ParseSignatureJSON(data)
	if err != nil {
		t.Fatalf("ParseSignatureJSON: %v", err)
	}
	if sig.Rules[0].Color != RGB(10, 20, 30) {
		t.Errorf("color = %v, want (10,20,30)", sig.Rules[0].Color)
	}
}

func TestSignatureRoundTrip(t *testing.T) {
	orig := MustSignature("round", []Rule{
		{X: 0.5, Y: 0.85, Color: RGB(201, 129, 54), Tolerance: 30},
		{X: 0.2, Y: 0.6, Color: RGB(47, 253, 226), Tolerance: 45},
	}, MatchCount, 1)

	data, err := orig.EncodeYAML()
	if err != nil {
		t.Fatalf("EncodeYAML: %v", err)
	}
	back, err := ParseSignatureYAML(data)
	if err != nil {
		t.Fatalf("ParseSignatureYAML: %v", err)
	}
	if !reflect.DeepEqual(orig, back) {
		t.Errorf("round trip mismatch:\n orig %+v\n back %+v", orig, back)
	}
}
