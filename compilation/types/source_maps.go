package types

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/crytic/medusa-geth/core/vm"
)

// Reference: Source mapping is performed according to the rules specified in solidity documentation:
// https://docs.soliditylang.org/en/latest/internals/source_mappings.html

// SourceMapJumpType describes the type of jump operation occurring within a SourceMapElement if the instruction
// is jumping.
type SourceMapJumpType string

const (
	// SourceMapJumpTypeNone indicates no jump occurred.
	SourceMapJumpTypeNone SourceMapJumpType = ""

	// SourceMapJumpTypeJumpIn indicates a jump into a function occurred.
	SourceMapJumpTypeJumpIn SourceMapJumpType = "i"

	// SourceMapJumpTypeJumpOut indicates a return from a function occurred.
	SourceMapJumpTypeJumpOut SourceMapJumpType = "o"

	// SourceMapJumpTypeJumpWithin indicates a jump occurred within the same function, e.g. for loops.
	SourceMapJumpTypeJumpWithin SourceMapJumpType = "-"
)

// SourceMap describes a list of elements which correspond to instruction indexes in compiled bytecode, describing
// which source files and the start/end range of the source code which the instruction maps to.
type SourceMap []SourceMapElement

// SourceMapElement describes an individual element of a source mapping output by the compiler.
// The index of each element in a source map corresponds to an instruction index (not to be mistaken with offset).
// It describes portion of a source file the instruction references.
type SourceMapElement struct {
	// Index refers to the index of the SourceMapElement within its parent SourceMap. This is not actually a field
	// saved in the SourceMap, but is provided for convenience.
	Index int `json:"-"`

	// Offset refers to the byte offset which marks the start of the source range the instruction maps to.
	Offset int `json:"start"`

	// Length refers to the byte length of the source range the instruction maps to.
	Length int `json:"length"`

	// FileID refers to an identifier for the CompiledSource file which houses the relevant source code.
	FileID int `json:"file"`

	// JumpType refers to the SourceMapJumpType which provides information about any type of jump that occurred.
	JumpType SourceMapJumpType `json:"jump,omitempty"`

	// ModifierDepth refers to the depth in which code has executed a modifier function. This is used to assist
	// debuggers, e.g. understanding if the same modifier is re-used multiple times in a call.
	ModifierDepth int `json:"modifierDepth"`
}

// ParseSourceMap takes a source mapping string returned by the compiler and parses it into an array of
// SourceMapElement objects.
// Returns the list of SourceMapElement objects.
func ParseSourceMap(sourceMapStr string) (SourceMap, error) {
	// Define our variables to store our results in
	var (
		sourceMap SourceMap
		err       error
	)

	// If our provided source map string is empty, there is no work to be done.
	if len(sourceMapStr) == 0 {
		return sourceMap, nil
	}

	// Separate all the individual source mapping elements
	elements := strings.Split(sourceMapStr, ";")

	// We use this variable to store "the previous element" because the way
	// the source mapping works when an element or field is "empty"
	// the value of the previous element is used.
	current := SourceMapElement{
		Index:         -1,
		Offset:        -1,
		Length:        -1,
		FileID:        -1,
		JumpType:      "",
		ModifierDepth: 0,
	}

	// Iterate over all elements split from the source mapping
	for _, element := range elements {
		// Set the current index
		current.Index = len(sourceMap)

		// If the element is empty, we use the previous one
		if len(element) == 0 {
			sourceMap = append(sourceMap, current)
			continue
		}

		// Split the element fields apart
		fields := strings.Split(element, ":")

		// If the source range start offset exists, update our current element data.
		if len(fields) > 0 && fields[0] != "" {
			current.Offset, err = strconv.Atoi(fields[0])
			if err != nil {
				return nil, err
			}
		}

		// If the source range length exists, update our current element data.
		if len(fields) > 1 && fields[1] != "" {
			current.Length, err = strconv.Atoi(fields[1])
			if err != nil {
				return nil, err
			}
		}

		// If the source file identifier exists, update our current element data.
		if len(fields) > 2 && fields[2] != "" {
			current.FileID, err = strconv.Atoi(fields[2])
			if err != nil {
				return nil, err
			}
		}

		// If the jump type information exists, update our current element data.
		if len(fields) > 3 && fields[3] != "" {
			current.JumpType = SourceMapJumpType(fields[3])
		}

		// If the modifier call depth exists, update our current element data.
		if len(fields) > 4 && fields[4] != "" {
			current.ModifierDepth, err = strconv.Atoi(fields[4])
			if err != nil {
				return nil, err
			}
		}

		// Append our element to the map
		sourceMap = append(sourceMap, current)
	}

	// Return the resulting map
	return sourceMap, nil
}

// Instruction describes a single decoded instruction of compiled bytecode along with the source range it maps to.
type Instruction struct {
	// Offset describes the byte offset of the instruction within the bytecode, i.e. its program counter.
	Offset int `json:"offset"`

	// Opcode describes the mnemonic of the instruction.
	Opcode string `json:"opcode"`

	// Operand describes the hex encoded immediate data of a push instruction, if any.
	Operand string `json:"operand,omitempty"`

	// Source describes the source range the instruction maps to. A FileID of -1 means the instruction is generated
	// code with no source counterpart.
	Source SourceMapElement `json:"source"`
}

// InstructionTable walks bytecode one instruction per SourceMapElement and pairs each instruction with the source
// range it maps to. Trailing bytes without a source mapping, such as contract metadata, are not decoded.
// Returns the instruction table, or an error if the source map describes more instructions than the bytecode holds.
func (s SourceMap) InstructionTable(bytecode []byte) ([]Instruction, error) {
	instructions := make([]Instruction, 0, len(s))
	currentOffset := 0
	for i := 0; i < len(s); i++ {
		// If we're going to read out of bounds, return an error.
		if currentOffset >= len(bytecode) {
			return nil, fmt.Errorf("failed to build the instruction table. current offset: %v, length: %v", currentOffset, len(bytecode))
		}

		// Obtain the indexed instruction.
		op := vm.OpCode(bytecode[currentOffset])

		// Next, calculate the length of data that follows this instruction.
		operandCount := 0
		if op.IsPush() && op != vm.PUSH0 {
			operandCount = int(op) - int(vm.PUSH1) + 1
		}

		instruction := Instruction{
			Offset: currentOffset,
			Opcode: op.String(),
			Source: s[i],
		}
		if operandCount > 0 {
			operandEnd := min(currentOffset+1+operandCount, len(bytecode))
			instruction.Operand = hex.EncodeToString(bytecode[currentOffset+1 : operandEnd])
		}
		instructions = append(instructions, instruction)

		// Advance the offset past this instruction and its operands.
		currentOffset += operandCount + 1
	}
	return instructions, nil
}
