// Package analysis dispatches a validated request onto the per-kind
// pipeline. Only mesh analysis lives in this repository; nodal analysis is
// delegated wholesale to an external engine and rejected here.
package analysis

import (
	"errors"
	"fmt"

	"github.com/M4rulli/Dynamica/pkg/component"
	"github.com/M4rulli/Dynamica/pkg/mesh"
)

// ErrUnsupportedAnalysis is returned for analysis kinds this engine does
// not run.
var ErrUnsupportedAnalysis = errors.New("analysis: unsupported analysis kind")

// Kind selects the analysis pipeline.
type Kind string

const (
	Mesh  Kind = "mesh"
	Nodal Kind = "nodal"
)

// Known reports whether k names a recognized analysis kind. An absent or
// misspelled analysis_type field fails this check at request time.
func (k Kind) Known() bool {
	switch k {
	case Mesh, Nodal:
		return true
	}
	return false
}

// Circuit is the component payload coming from the editor.
type Circuit struct {
	Components []component.Component `json:"components"`
}

// Request is the engine input: an ordered, integrity-validated component
// list plus the analysis kind.
type Request struct {
	Kind    Kind           `json:"analysis_type"`
	Circuit Circuit        `json:"circuit"`
	Options map[string]any `json:"options,omitempty"`
}

// Run executes the requested analysis.
func Run(req Request) (*mesh.Result, error) {
	switch req.Kind {
	case Mesh:
		return mesh.Analyze(req.Circuit.Components)
	case Nodal:
		return nil, fmt.Errorf("%w: nodal analysis is delegated to the external engine", ErrUnsupportedAnalysis)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAnalysis, req.Kind)
	}
}
