package server

import (
	"github.com/M4rulli/Dynamica/pkg/analysis"
	"github.com/M4rulli/Dynamica/pkg/mesh"
)

// Payload is the serialized analysis result consumed by the report UI.
type Payload struct {
	JobID        string           `json:"job_id"`
	AnalysisType string           `json:"analysis_type"`
	Equations    []string         `json:"equations"`
	Summary      summaryInfo      `json:"summary"`
	Graph        graphInfo        `json:"graph_info"`
	Solution     []string         `json:"solution"`
	Branches     []branchRow      `json:"branches"`
	PowerBalance powerBalanceInfo `json:"power_balance"`
}

type summaryInfo struct {
	Message     string           `json:"message"`
	Diagnostics mesh.Diagnostics `json:"diagnostics"`
}

type graphInfo struct {
	NodesCount    int      `json:"nodes_count"`
	BranchesCount int      `json:"branches_count"`
	Nodes         []string `json:"nodes"`
	TreeEdges     []string `json:"tree_edges"`
	CotreeEdges   []string `json:"cotree_edges"`
	MeshCurrents  []string `json:"mesh_currents"`
}

type branchRow struct {
	Label   string `json:"label"`
	Current string `json:"current"`
	Voltage string `json:"voltage,omitempty"`
	Power   string `json:"power,omitempty"`
}

type powerBalanceInfo struct {
	Entering     *float64 `json:"entering,omitempty"`
	Exiting      *float64 `json:"exiting,omitempty"`
	Total        string   `json:"total"`
	Balanced     bool     `json:"balanced"`
	UnknownCount int      `json:"unknown_count"`
}

func resultPayload(jobID string, kind analysis.Kind, r *mesh.Result) Payload {
	labelsOf := func(idx []int) []string {
		out := make([]string, len(idx))
		for i, e := range idx {
			out[i] = r.Edges[e].Label
		}
		return out
	}

	branches := make([]branchRow, len(r.Branches))
	for i, b := range r.Branches {
		row := branchRow{Label: b.Label, Current: b.Value.String()}
		if b.Voltage != nil {
			row.Voltage = b.Voltage.String()
		}
		if b.Power != nil {
			row.Power = b.Power.String()
		}
		branches[i] = row
	}

	pb := powerBalanceInfo{
		Total:        r.Power.Total.String(),
		Balanced:     r.Power.Balanced,
		UnknownCount: r.Power.UnknownCount,
	}
	if r.Power.NumericSigns {
		entering, exiting := r.Power.Entering, r.Power.Exiting
		pb.Entering, pb.Exiting = &entering, &exiting
	}

	return Payload{
		JobID:        jobID,
		AnalysisType: string(kind),
		Equations:    r.EquationStrings(),
		Summary: summaryInfo{
			Message:     "mesh analysis completed",
			Diagnostics: r.Diagnostics,
		},
		Graph: graphInfo{
			NodesCount:    len(r.Nodes),
			BranchesCount: len(r.Edges),
			Nodes:         r.Nodes,
			TreeEdges:     labelsOf(r.Forest.Tree),
			CotreeEdges:   labelsOf(r.Forest.Cotree),
			MeshCurrents:  r.MeshCurrents,
		},
		Solution:     r.SolutionStrings(),
		Branches:     branches,
		PowerBalance: pb,
	}
}
