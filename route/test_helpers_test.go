package route

import "fmt"

// testHardware is a fixed 8-core / 8 GiB profile with no accelerators, so
// tests never depend on the machine they run on.
func testHardware() HardwareProfile {
	return HardwareProfile{LogicalCores: 8, MemoryBytes: 8 << 30}
}

// ghzCircuit builds the n-qubit GHZ preparation: one Hadamard followed by a
// CNOT chain, all qubits measured. Pure Clifford.
func ghzCircuit(n int) *Circuit {
	c := &Circuit{
		NumQubits: n,
		Registers: []ClassicalRegister{{Name: "c", Size: n}},
	}
	c.Operations = append(c.Operations, Operation{Name: "h", Qubits: []int{0}})
	for q := 0; q < n-1; q++ {
		c.Operations = append(c.Operations, Operation{Name: "cx", Qubits: []int{q, q + 1}})
	}
	for q := 0; q < n; q++ {
		c.Measurements = append(c.Measurements, Measurement{Qubit: q, Bit: q, Register: "c"})
	}
	return c
}

// sparseChainCircuit builds an n-qubit circuit with T gates on every qubit
// and a handful of disjoint CNOTs. Non-Clifford, weakly entangled.
func sparseChainCircuit(n int) *Circuit {
	c := &Circuit{NumQubits: n}
	for q := 0; q < n; q++ {
		c.Operations = append(c.Operations, Operation{Name: "t", Qubits: []int{q}})
	}
	for q := 0; q+1 < n; q += 4 {
		c.Operations = append(c.Operations, Operation{Name: "cx", Qubits: []int{q, q + 1}})
	}
	return c
}

// denseCircuit builds an n-qubit all-to-all entangler with T gates between
// layers. Non-Clifford, strongly entangled.
func denseCircuit(n, layers int) *Circuit {
	c := &Circuit{NumQubits: n}
	for l := 0; l < layers; l++ {
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				c.Operations = append(c.Operations, Operation{Name: "cx", Qubits: []int{i, j}})
			}
		}
		for q := 0; q < n; q++ {
			c.Operations = append(c.Operations, Operation{Name: "t", Qubits: []int{q}})
		}
	}
	return c
}

// parameterizedCircuit builds a small variational ansatz with unbound
// rotation angles.
func parameterizedCircuit(n int) *Circuit {
	c := &Circuit{NumQubits: n}
	for q := 0; q < n; q++ {
		c.Operations = append(c.Operations, Operation{
			Name:   "ry",
			Qubits: []int{q},
			Params: []Parameter{{Symbol: fmt.Sprintf("theta_%d", q)}},
		})
	}
	for q := 0; q+1 < n; q++ {
		c.Operations = append(c.Operations, Operation{Name: "cx", Qubits: []int{q, q + 1}})
	}
	return c
}

// mustAnalyze analyzes or panics; for tests whose circuits are valid by
// construction.
func mustAnalyze(c *Circuit) Analysis {
	a, err := Analyze(c)
	if err != nil {
		panic(err)
	}
	return a
}
