package api

import (
	"cellscope/domain/core"
	"cellscope/domain/stats"
	"cellscope/internal/aggregate"
	"cellscope/internal/request"
)

// GroupPayload carries one group's data for a hypothesis test request
type GroupPayload struct {
	Key    string    `json:"key" binding:"required"`
	Values []float64 `json:"values,omitempty"`
	Labels []string  `json:"labels,omitempty"`
}

// RunTestsRequest asks the orchestrator to compare groups
type RunTestsRequest struct {
	Kind    string         `json:"kind" binding:"required,oneof=continuous categorical"`
	Surface string         `json:"surface"`
	Groups  []GroupPayload `json:"groups" binding:"required"`
}

// RunTestsResponse returns the test results with their analysis id
type RunTestsResponse struct {
	AnalysisID string             `json:"analysis_id"`
	Results    []stats.TestResult `json:"results"`
}

// SelectionPayload names the cell indices selected into one group
type SelectionPayload struct {
	Key     string `json:"key" binding:"required"`
	Indices []int  `json:"indices"`
}

// SummarizeRequest asks for field summaries over group selections
type SummarizeRequest struct {
	Surface           string             `json:"surface" binding:"required"`
	NumericFields     []string           `json:"numeric_fields"`
	CategoricalFields []string           `json:"categorical_fields"`
	Groups            []SelectionPayload `json:"groups" binding:"required"`
}

// SummarizeResponse returns one request's summaries tagged with its
// monotonically increasing sequence number; consumers keep the highest.
type SummarizeResponse struct {
	Seq         uint64                     `json:"seq"`
	RequestID   string                     `json:"request_id"`
	Numeric     []stats.FieldSummary       `json:"numeric,omitempty"`
	Categorical []stats.CategoricalSummary `json:"categorical,omitempty"`
}

func (r *RunTestsRequest) domainGroups() []stats.Group {
	groups := make([]stats.Group, len(r.Groups))
	for i, g := range r.Groups {
		groups[i] = stats.Group{
			Key:    core.GroupKey(g.Key),
			Values: g.Values,
			Labels: g.Labels,
		}
	}
	return groups
}

// spec validates the field and group names and builds the manager request
func (r *SummarizeRequest) spec() (request.Spec, error) {
	numeric, err := fieldKeys(r.NumericFields)
	if err != nil {
		return request.Spec{}, err
	}
	categorical, err := fieldKeys(r.CategoricalFields)
	if err != nil {
		return request.Spec{}, err
	}
	groups, err := r.selections()
	if err != nil {
		return request.Spec{}, err
	}
	return request.Spec{
		Surface:           r.Surface,
		NumericFields:     numeric,
		CategoricalFields: categorical,
		Groups:            groups,
	}, nil
}

func (r *SummarizeRequest) selections() ([]aggregate.GroupSelection, error) {
	selections := make([]aggregate.GroupSelection, len(r.Groups))
	for i, g := range r.Groups {
		key, err := core.ParseGroupKey(g.Key)
		if err != nil {
			return nil, err
		}
		selections[i] = aggregate.GroupSelection{Key: key, Indices: g.Indices}
	}
	return selections, nil
}

func fieldKeys(names []string) ([]core.FieldKey, error) {
	keys := make([]core.FieldKey, len(names))
	for i, n := range names {
		key, err := core.ParseFieldKey(n)
		if err != nil {
			return nil, err
		}
		keys[i] = key
	}
	return keys, nil
}
