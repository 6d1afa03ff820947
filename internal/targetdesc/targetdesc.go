// Package targetdesc describes the ECO32 register conventions the code
// generator (pkg/compiler's stage 6) emits against: which registers are
// reserved for the frame pointer, stack pointer and return address, how
// many general-purpose registers the simple two-register expression
// allocator may spend before raising registerOverflow, and the target's
// word size. It is data rather than constants sprinkled through codegen.go
// so the budget can be tuned (e.g. for a smaller ECO32 variant) without
// touching code, the way sunholo-data-ailang's eval_harness/spec.go loads a
// YAML-described spec instead of hard-coding task parameters.
package targetdesc

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Desc is the full set of tunables the code generator consults.
type Desc struct {
	WordSize      int      `yaml:"word_size"`
	FramePointer  string   `yaml:"frame_pointer"`
	StackPointer  string   `yaml:"stack_pointer"`
	ReturnAddress string   `yaml:"return_address"`
	Scratch       []string `yaml:"scratch_registers"`
}

// Default is the ECO32 ABI spec.md assumes: a 4-byte word, $29/$28/$25 as
// sp/fp/return-address, and two scratch registers for the expression
// evaluator. Expressions (including array indices) that need more than two
// registers at once make the code generator raise registerOverflow.
var Default = Desc{
	WordSize:      4,
	FramePointer:  "$28",
	StackPointer:  "$29",
	ReturnAddress: "$25",
	Scratch:       []string{"$1", "$2"},
}

// Load reads a Desc from a YAML file, defaulting any field left zero-valued
// to Default so a partial override file only needs to name what it changes.
func Load(path string) (Desc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Desc{}, fmt.Errorf("reading target description: %w", err)
	}

	d := Default
	if err := yaml.Unmarshal(data, &d); err != nil {
		return Desc{}, fmt.Errorf("parsing target description %q: %w", path, err)
	}
	if err := d.validate(); err != nil {
		return Desc{}, err
	}
	return d, nil
}

func (d Desc) validate() error {
	if d.WordSize <= 0 {
		return fmt.Errorf("target description: word_size must be positive")
	}
	if len(d.Scratch) < 2 {
		return fmt.Errorf("target description: at least 2 scratch_registers are required")
	}
	return nil
}
