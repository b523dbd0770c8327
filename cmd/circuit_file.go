package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/qroute/qroute/route"
)

// loadCircuit reads a yaml circuit file:
//
//	qubits: 4
//	operations:
//	  - {name: h, qubits: [0]}
//	  - {name: cx, qubits: [0, 1]}
//	  - {name: rz, qubits: [2], params: [{symbol: theta}]}
//	measurements:
//	  - {qubit: 0, bit: 0, register: c}
//	registers:
//	  - {name: c, size: 4}
//
// The file is validated before use; malformed circuits abort the command.
func loadCircuit(path string) *route.Circuit {
	data, err := os.ReadFile(path)
	if err != nil {
		logrus.Fatalf("failed to read circuit file: %v", err)
	}
	var circuit route.Circuit
	if err := yaml.Unmarshal(data, &circuit); err != nil {
		logrus.Fatalf("failed to parse circuit file %s: %v", path, err)
	}
	if err := circuit.Validate(); err != nil {
		logrus.Fatalf("invalid circuit %s: %v", path, err)
	}
	return &circuit
}

func printDecision(d route.Decision) {
	bold := color.New(color.Bold)
	bold.Printf("backend: %s\n", d.Backend.Name)
	fmt.Printf("confidence: %.2f\n", d.Confidence)
	if d.Degraded {
		color.Yellow("mode: degraded (last-resort re-admission)")
	}
	fmt.Println("alternatives:")
	for i, alt := range d.Alternatives {
		fmt.Printf("  %d. %-18s score=%-8.3f memory=%s\n",
			i+1, alt.Backend.Name, alt.Score, humanize.IBytes(alt.Estimate.MemoryBytes))
	}
}

func printAnalysis(a route.Analysis) {
	rows := map[string]string{
		"qubits":                fmt.Sprintf("%d", a.NumQubits),
		"operations":            fmt.Sprintf("%d", a.NumOperations),
		"is_clifford":           fmt.Sprintf("%v", a.IsClifford),
		"clifford_ratio":        fmt.Sprintf("%.3f", a.CliffordRatio),
		"depth":                 fmt.Sprintf("%d", a.Depth),
		"two_qubit_depth":       fmt.Sprintf("%d", a.TwoQubitDepth),
		"gate_entropy":          fmt.Sprintf("%.3f bits", a.GateEntropy),
		"connectivity_score":    fmt.Sprintf("%.3f", a.ConnectivityScore),
		"treewidth_estimate":    fmt.Sprintf("%d", a.TreewidthEstimate),
		"entanglement_estimate": fmt.Sprintf("%.3f", a.EntanglementEstimate),
		"is_parameterized":      fmt.Sprintf("%v", a.IsParameterized),
	}
	keys := make([]string, 0, len(rows))
	for k := range rows {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("%-22s %s\n", k, rows[k])
	}
}
