package pixel

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Signatures may be defined as process-wide constants or loaded from
// declarative YAML/JSON records:
//
//	name: main_page
//	strategy: all        # all / any / count
//	threshold: 0         # count strategy only
//	rules:
//	  - {x: 0.50, y: 0.85, color: [201, 129, 54]}
//	  - {x: 0.20, y: 0.60, color: [47, 253, 226], tolerance: 40}
//
// Parsing is a pure construction step: malformed records are rejected
// before they can ever be matched.

var validate = validator.New()

// RuleRecord is the wire form of a Rule. Color is R, G, B order.
type RuleRecord struct {
	X         float64  `yaml:"x" json:"x" validate:"gte=0,lte=1"`
	Y         float64  `yaml:"y" json:"y" validate:"gte=0,lte=1"`
	Color     [3]int   `yaml:"color" json:"color" validate:"dive,gte=0,lte=255"`
	Tolerance *float64 `yaml:"tolerance,omitempty" json:"tolerance,omitempty" validate:"omitempty,gte=0"`
}

// SignatureRecord is the wire form of a Signature.
type SignatureRecord struct {
	Name      string       `yaml:"name" json:"name" validate:"required"`
	Strategy  string       `yaml:"strategy,omitempty" json:"strategy,omitempty"`
	Threshold int          `yaml:"threshold,omitempty" json:"threshold,omitempty" validate:"gte=0"`
	Rules     []RuleRecord `yaml:"rules" json:"rules" validate:"min=1,dive"`
}

// Build validates the record and converts it to a Signature.
func (rec SignatureRecord) Build() (Signature, error) {
	if err := validate.Struct(rec); err != nil {
		return Signature{}, fmt.Errorf("pixel: invalid signature record %q: %w", rec.Name, err)
	}
	strategy, err := ParseStrategy(rec.Strategy)
	if err != nil {
		return Signature{}, fmt.Errorf("%w (signature %q)", err, rec.Name)
	}
	rules := make([]Rule, len(rec.Rules))
	for i, rr := range rec.Rules {
		tol := DefaultTolerance
		if rr.Tolerance != nil {
			tol = *rr.Tolerance
		}
		rules[i] = Rule{
			X:         rr.X,
			Y:         rr.Y,
			Color:     RGB(uint8(rr.Color[0]), uint8(rr.Color[1]), uint8(rr.Color[2])),
			Tolerance: tol,
		}
	}
	return NewSignature(rec.Name, rules, strategy, rec.Threshold)
}

// Record converts a Signature back to its wire form. Build(Record(s))
// yields an equal signature.
func (s Signature) Record() SignatureRecord {
	rules := make([]RuleRecord, len(s.Rules))
	for i, r := range s.Rules {
		tol := r.Tolerance
		rules[i] = RuleRecord{
			X:         r.X,
			Y:         r.Y,
			Color:     [3]int{int(r.Color.R), int(r.Color.G), int(r.Color.B)},
			Tolerance: &tol,
		}
	}
	return SignatureRecord{
		Name:      s.Name,
		Strategy:  s.Strategy.String(),
		Threshold: s.Threshold,
		Rules:     rules,
	}
}

// ParseSignatureYAML decodes and validates a single YAML signature.
func ParseSignatureYAML(data []byte) (Signature, error) {
	var rec SignatureRecord
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return Signature{}, fmt.Errorf("pixel: decode signature: %w", err)
	}
	return rec.Build()
}

// ParseSignaturesYAML decodes a YAML list of signatures.
func ParseSignaturesYAML(data []byte) ([]Signature, error) {
	var recs []SignatureRecord
	if err := yaml.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("pixel: decode signatures: %w", err)
	}
	sigs := make([]Signature, len(recs))
	for i, rec := range recs {
		sig, err := rec.Build()
		if err != nil {
			return nil, err
		}
		sigs[i] = sig
	}
	return sigs, nil
}

// ParseSignatureJSON decodes and validates a single JSON signature.
func ParseSignatureJSON(data []byte) (Signature, error) {
	var rec SignatureRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return Signature{}, fmt.Errorf("pixel: decode signature: %w", err)
	}
	return rec.Build()
}

// EncodeYAML encodes a signature in its declarative form.
func (s Signature) EncodeYAML() ([]byte, error) {
	return yaml.Marshal(s.Record())
}
