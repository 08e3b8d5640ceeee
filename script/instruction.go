/*
 * sbmgen
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package script

import (
	"fmt"

	"github.com/krotik/sbmgen/graph/util"
)

/*
InstructionKind identifies which of the eight fixed instruction tags an
Instruction carries.
*/
type InstructionKind int

const (
	InstructionRead InstructionKind = iota
	InstructionExecute
	InstructionLoad
	InstructionSave
	InstructionScale
	InstructionSeed
	InstructionGenerate
	InstructionHelp
)

/*
ReadInstruction is the parsed form of "-READ" and its "+NODEFILE",
"+EDGEFILE", "+NODEINDEX", "+NODETYPEINDEX", "+EDGEINDEX",
"+EDGETYPEINDEX" and "+ARG" subtags. Defaults match the reference format:
the node id in column 0, the node type composited from column 1, the edge
endpoints in columns 0/1 and the edge type composited from column 2.
*/
type ReadInstruction struct {
	NodeFiles []string
	EdgeFiles []string

	NodeIDIndex    int
	NodeTypeIndex  []int
	StartNodeIndex int
	EndNodeIndex   int
	EdgeTypeIndex  []int

	Meta map[string]string
}

/*
ExecuteInstruction is the parsed form of "-EXECUTE path [template replace]...".
*/
type ExecuteInstruction struct {
	ScriptPath   string
	Replacements []Replacement
}

/*
GenerateInstruction is the parsed form of "-GENERATE nodepath edgepath n".
*/
type GenerateInstruction struct {
	NodeFilePath string
	EdgeFilePath string
	Count        int
}

/*
Instruction is a single parsed instruction. Only the field(s) relevant to
Kind are populated.
*/
type Instruction struct {
	Kind     InstructionKind
	Str      string
	Float    float64
	Read     ReadInstruction
	Execute  ExecuteInstruction
	Generate GenerateInstruction
}

func parseError(detail string) error {
	return &util.GraphError{Type: util.ErrParse, Detail: detail}
}

func argCountError(name string, want, have int) error {
	return parseError(fmt.Sprintf("incorrect number of arguments for %s: want %d, have %d", name, want, have))
}
