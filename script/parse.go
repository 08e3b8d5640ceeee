/*
 * sbmgen
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package script

import (
	"strconv"
	"strings"
)

/*
Parse turns a token stream produced by Tokenize into a flat list of
Instructions. A script line always starts with a TokenTag; everything up to
(but not including) the next TokenTag belongs to that instruction.
*/
func Parse(tokens []Token) ([]Instruction, error) {
	var instructions []Instruction

	i := 0
	for i < len(tokens) {
		if tokens[i].Kind != TokenTag {
			return nil, parseError("unexpected token before any instruction tag: " + tokens[i].Value)
		}

		end := i + 1
		for end < len(tokens) && tokens[end].Kind != TokenTag {
			end++
		}
		// tokens[i:end] is this instruction's tag plus everything up to the next tag.

		var instr Instruction
		var err error

		switch tokens[i].Value {
		case "-READ":
			instr, err = parseRead(tokens[i+1 : end])
		case "-EXECUTE":
			instr, err = parseExecute(tokens[i+1 : end])
		case "-LOAD":
			instr, err = parseSingleArg(tokens[i+1:end], InstructionLoad, "LOAD")
		case "-SAVE":
			instr, err = parseSingleArg(tokens[i+1:end], InstructionSave, "SAVE")
		case "-SEED":
			instr, err = parseSingleArg(tokens[i+1:end], InstructionSeed, "SEED")
		case "-SCALE":
			instr, err = parseScale(tokens[i+1 : end])
		case "-GENERATE":
			instr, err = parseGenerate(tokens[i+1 : end])
		case "-HELP":
			instr = Instruction{Kind: InstructionHelp}
		default:
			err = parseError("unknown instruction tag: " + tokens[i].Value)
		}
		if err != nil {
			return nil, err
		}

		instructions = append(instructions, instr)
		i = end
	}

	return instructions, nil
}

func parseSingleArg(args []Token, kind InstructionKind, name string) (Instruction, error) {
	if len(args) != 1 || args[0].Kind != TokenArgument {
		return Instruction{}, argCountError(name, 1, len(args))
	}
	return Instruction{Kind: kind, Str: args[0].Value}, nil
}

func parseScale(args []Token) (Instruction, error) {
	if len(args) != 1 || args[0].Kind != TokenArgument {
		return Instruction{}, argCountError("SCALE", 1, len(args))
	}
	f, err := strconv.ParseFloat(args[0].Value, 64)
	if err != nil {
		return Instruction{}, parseError("SCALE argument is not a number: " + args[0].Value)
	}
	if f <= 0 {
		return Instruction{}, parseError("SCALE factor must be greater than zero: " + args[0].Value)
	}
	return Instruction{Kind: InstructionScale, Float: f}, nil
}

func parseGenerate(args []Token) (Instruction, error) {
	if len(args) != 3 {
		return Instruction{}, argCountError("GENERATE", 3, len(args))
	}
	for _, a := range args {
		if a.Kind != TokenArgument {
			return Instruction{}, parseError("GENERATE expects three plain arguments")
		}
	}
	n, err := strconv.Atoi(args[2].Value)
	if err != nil || n < 0 {
		return Instruction{}, parseError("GENERATE count is not a non-negative integer: " + args[2].Value)
	}
	return Instruction{Kind: InstructionGenerate, Generate: GenerateInstruction{
		NodeFilePath: args[0].Value,
		EdgeFilePath: args[1].Value,
		Count:        n,
	}}, nil
}

func parseExecute(args []Token) (Instruction, error) {
	if len(args) < 1 || len(args)%2 != 1 {
		return Instruction{}, parseError("EXECUTE expects one path and zero or more pairs of template/replace arguments")
	}
	if args[0].Kind != TokenArgument {
		return Instruction{}, parseError("EXECUTE must be immediately followed by a script path argument")
	}
	e := ExecuteInstruction{ScriptPath: args[0].Value}
	for k := 1; k < len(args); k += 2 {
		if args[k].Kind != TokenArgument || args[k+1].Kind != TokenArgument {
			return Instruction{}, parseError("EXECUTE template/replace pairs must be plain arguments")
		}
		e.Replacements = append(e.Replacements, Replacement{Template: args[k].Value, Value: args[k+1].Value})
	}
	return Instruction{Kind: InstructionExecute, Execute: e}, nil
}

func parseRead(args []Token) (Instruction, error) {
	r := ReadInstruction{
		NodeIDIndex:    0,
		NodeTypeIndex:  []int{1},
		StartNodeIndex: 0,
		EndNodeIndex:   1,
		EdgeTypeIndex:  []int{2},
		Meta:           map[string]string{},
	}
	overwroteNodeType := false
	overwroteEdgeType := false

	i := 0
	for i < len(args) {
		if args[i].Kind != TokenSubtag {
			return Instruction{}, parseError("expected a subtag in READ instruction, got: " + args[i].Value)
		}
		end := i + 1
		for end < len(args) && args[end].Kind == TokenArgument {
			end++
		}
		sub := args[i+1 : end]

		switch args[i].Value {
		case "+NODEFILE":
			for _, a := range sub {
				r.NodeFiles = append(r.NodeFiles, a.Value)
			}
		case "+EDGEFILE":
			for _, a := range sub {
				r.EdgeFiles = append(r.EdgeFiles, a.Value)
			}
		case "+NODEINDEX":
			if len(sub) != 1 {
				return Instruction{}, argCountError("+NODEINDEX", 1, len(sub))
			}
			idx, err := strconv.Atoi(sub[0].Value)
			if err != nil {
				return Instruction{}, parseError("+NODEINDEX argument is not an integer: " + sub[0].Value)
			}
			r.NodeIDIndex = idx
		case "+NODETYPEINDEX":
			if len(sub) == 0 {
				return Instruction{}, parseError("+NODETYPEINDEX expects at least one column index")
			}
			if !overwroteNodeType {
				r.NodeTypeIndex = nil
				overwroteNodeType = true
			}
			for _, a := range sub {
				idx, err := strconv.Atoi(a.Value)
				if err != nil {
					return Instruction{}, parseError("+NODETYPEINDEX argument is not an integer: " + a.Value)
				}
				r.NodeTypeIndex = append(r.NodeTypeIndex, idx)
			}
		case "+EDGEINDEX":
			if len(sub) != 2 {
				return Instruction{}, argCountError("+EDGEINDEX", 2, len(sub))
			}
			s, err1 := strconv.Atoi(sub[0].Value)
			e, err2 := strconv.Atoi(sub[1].Value)
			if err1 != nil || err2 != nil {
				return Instruction{}, parseError("+EDGEINDEX arguments must be integers")
			}
			r.StartNodeIndex, r.EndNodeIndex = s, e
		case "+EDGETYPEINDEX":
			if len(sub) == 0 {
				return Instruction{}, parseError("+EDGETYPEINDEX expects at least one column index")
			}
			if !overwroteEdgeType {
				r.EdgeTypeIndex = nil
				overwroteEdgeType = true
			}
			for _, a := range sub {
				idx, err := strconv.Atoi(a.Value)
				if err != nil {
					return Instruction{}, parseError("+EDGETYPEINDEX argument is not an integer: " + a.Value)
				}
				r.EdgeTypeIndex = append(r.EdgeTypeIndex, idx)
			}
		case "+ARG":
			if len(sub) != 2 {
				return Instruction{}, argCountError("+ARG", 2, len(sub))
			}
			r.Meta[strings.ToUpper(sub[0].Value)] = sub[1].Value
		default:
			return Instruction{}, parseError("unknown READ subtag: " + args[i].Value)
		}

		i = end
	}

	return Instruction{Kind: InstructionRead, Read: r}, nil
}
