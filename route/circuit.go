package route

import "fmt"

// Parameter is a numeric gate argument. A non-empty Symbol marks the
// parameter as free (unbound); Value is only meaningful when Symbol is empty.
type Parameter struct {
	Symbol string  `yaml:"symbol,omitempty"`
	Value  float64 `yaml:"value,omitempty"`
}

// Bound reports whether the parameter carries a concrete value.
func (p Parameter) Bound() bool { return p.Symbol == "" }

// Operation is a single gate application: a name, the qubits it acts on,
// and optional numeric parameters (rotation angles and the like).
type Operation struct {
	Name   string      `yaml:"name"`
	Qubits []int       `yaml:"qubits"`
	Params []Parameter `yaml:"params,omitempty"`
}

// Arity returns the number of qubits the operation acts on.
func (op Operation) Arity() int { return len(op.Qubits) }

// Measurement maps a qubit onto a bit of a classical register.
type Measurement struct {
	Qubit    int    `yaml:"qubit"`
	Bit      int    `yaml:"bit"`
	Register string `yaml:"register"`
}

// ClassicalRegister is named classical storage for measurement results.
type ClassicalRegister struct {
	Name string `yaml:"name"`
	Size int    `yaml:"size"`
}

// Circuit is the workload descriptor consumed by the router: a qubit count,
// an ordered gate list, and measurement/register metadata. The router treats
// it as read-only; callers must not mutate a circuit after submitting it.
type Circuit struct {
	NumQubits    int                 `yaml:"qubits"`
	Operations   []Operation         `yaml:"operations"`
	Measurements []Measurement       `yaml:"measurements,omitempty"`
	Registers    []ClassicalRegister `yaml:"registers,omitempty"`
}

// Validate checks referential integrity: qubit indices in range, no qubit
// repeated within one operation, measurements targeting declared registers.
// Returns *InvalidCircuitError on the first violation found.
func (c *Circuit) Validate() error {
	if c.NumQubits < 1 {
		return &InvalidCircuitError{Reason: fmt.Sprintf("qubit count must be >= 1, got %d", c.NumQubits)}
	}
	for i, op := range c.Operations {
		if op.Name == "" {
			return &InvalidCircuitError{Reason: fmt.Sprintf("operation %d has no name", i)}
		}
		if len(op.Qubits) == 0 {
			return &InvalidCircuitError{Reason: fmt.Sprintf("operation %d (%s) acts on no qubits", i, op.Name)}
		}
		seen := make(map[int]bool, len(op.Qubits))
		for _, q := range op.Qubits {
			if q < 0 || q >= c.NumQubits {
				return &InvalidCircuitError{Reason: fmt.Sprintf("operation %d (%s) references qubit %d, circuit has %d", i, op.Name, q, c.NumQubits)}
			}
			if seen[q] {
				return &InvalidCircuitError{Reason: fmt.Sprintf("operation %d (%s) repeats qubit %d", i, op.Name, q)}
			}
			seen[q] = true
		}
	}
	registers := make(map[string]int, len(c.Registers))
	for _, reg := range c.Registers {
		if reg.Name == "" {
			return &InvalidCircuitError{Reason: "register with empty name"}
		}
		if reg.Size < 1 {
			return &InvalidCircuitError{Reason: fmt.Sprintf("register %s has size %d", reg.Name, reg.Size)}
		}
		if _, dup := registers[reg.Name]; dup {
			return &InvalidCircuitError{Reason: fmt.Sprintf("duplicate register %s", reg.Name)}
		}
		registers[reg.Name] = reg.Size
	}
	for i, m := range c.Measurements {
		if m.Qubit < 0 || m.Qubit >= c.NumQubits {
			return &InvalidCircuitError{Reason: fmt.Sprintf("measurement %d references qubit %d, circuit has %d", i, m.Qubit, c.NumQubits)}
		}
		size, ok := registers[m.Register]
		if !ok {
			return &InvalidCircuitError{Reason: fmt.Sprintf("measurement %d targets undeclared register %q", i, m.Register)}
		}
		if m.Bit < 0 || m.Bit >= size {
			return &InvalidCircuitError{Reason: fmt.Sprintf("measurement %d targets bit %d of register %s (size %d)", i, m.Bit, m.Register, size)}
		}
	}
	return nil
}
