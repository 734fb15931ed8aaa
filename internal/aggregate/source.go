// Package aggregate computes descriptive summaries over arbitrarily
// large cell selections, switching between an exact in-memory algorithm
// and a bounded-memory streaming path with reservoir-sampled quantiles.
package aggregate

import (
	"cellscope/domain/core"
)

// CategoricalField holds one categorical field's backing values. When
// integer coding is available, Codes maps each cell to an index into
// Labels (negative = missing) and the fast counting path is used; when
// only Raw strings are present the slower string-keyed path runs.
type CategoricalField struct {
	Codes  []int
	Labels []string
	Raw    []string
}

// Len returns the backing length of the field
func (f *CategoricalField) Len() int {
	if len(f.Codes) > 0 {
		return len(f.Codes)
	}
	return len(f.Raw)
}

// Source is a read-only collection of named backing fields keyed by a
// dense cell index. Group selections index into these fields; indices
// past the backing length are treated as missing, never as errors.
type Source struct {
	numeric     map[core.FieldKey][]float64
	categorical map[core.FieldKey]*CategoricalField
}

// NewSource creates an empty source
func NewSource() *Source {
	return &Source{
		numeric:     make(map[core.FieldKey][]float64),
		categorical: make(map[core.FieldKey]*CategoricalField),
	}
}

// SetNumericField registers a numeric backing field
func (s *Source) SetNumericField(key core.FieldKey, values []float64) {
	s.numeric[key] = values
}

// SetCategoricalField registers an integer-coded categorical field
func (s *Source) SetCategoricalField(key core.FieldKey, codes []int, labels []string) {
	s.categorical[key] = &CategoricalField{Codes: codes, Labels: labels}
}

// SetRawCategoricalField registers a categorical field without coding;
// summaries over it take the string-keyed fallback path.
func (s *Source) SetRawCategoricalField(key core.FieldKey, raw []string) {
	s.categorical[key] = &CategoricalField{Raw: raw}
}

// NumericField resolves a numeric field or fails with ErrFieldNotFound.
// A missing field is a collaborator contract violation, not empty data.
func (s *Source) NumericField(key core.FieldKey) ([]float64, error) {
	values, ok := s.numeric[key]
	if !ok {
		return nil, core.NewFieldNotFoundError(key.String())
	}
	return values, nil
}

// CategoricalField resolves a categorical field or fails with ErrFieldNotFound
func (s *Source) CategoricalField(key core.FieldKey) (*CategoricalField, error) {
	field, ok := s.categorical[key]
	if !ok {
		return nil, core.NewFieldNotFoundError(key.String())
	}
	return field, nil
}

// NumericFieldKeys lists the registered numeric fields
func (s *Source) NumericFieldKeys() []core.FieldKey {
	keys := make([]core.FieldKey, 0, len(s.numeric))
	for k := range s.numeric {
		keys = append(keys, k)
	}
	return keys
}

// GroupSelection names the cell indices selected into one group
type GroupSelection struct {
	Key     core.GroupKey `json:"key"`
	Indices []int         `json:"indices"`
}
