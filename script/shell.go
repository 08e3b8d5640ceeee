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
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"github.com/krotik/common/fileutil"
	"github.com/krotik/common/stringutil"
	"github.com/krotik/sbmgen/codec"
	"github.com/krotik/sbmgen/graph"
	"github.com/krotik/sbmgen/graph/util"
	"github.com/krotik/sbmgen/sampler"
	"github.com/krotik/sbmgen/tsvio"
)

/*
Shell executes a parsed instruction stream against the local filesystem. It
keeps exactly one active Model at a time (set by -READ or -LOAD, consumed by
-SCALE, -SAVE and -GENERATE), and an instruction queue that -EXECUTE may grow
in place - instructions parsed from the executed script are spliced in
immediately after the current position, the same way the reference
implementation grows its instruction vector while iterating it.
*/
type Shell struct {
	Out io.Writer

	model       *graph.Model
	hasModel    bool
	rng         *rand.Rand
	instrCount  int
	scriptCount int
	genCount    int
}

/*
NewShell creates a Shell whose PRNG is seeded from seed. Every -SEED
instruction reseeds it.
*/
func NewShell(out io.Writer, seed int64) *Shell {
	return &Shell{Out: out, rng: util.NewRand(seed)}
}

/*
Run executes instructions in order. -EXECUTE inserts the instructions parsed
from its target script directly after its own position, so instructions may
grow while Run is iterating it.
*/
func (s *Shell) Run(instructions []Instruction) error {
	for i := 0; i < len(instructions); i++ {
		instr := instructions[i]

		switch instr.Kind {
		case InstructionRead:
			if err := s.runRead(instr.Read); err != nil {
				return err
			}

		case InstructionExecute:
			spliced, err := s.runExecute(instr.Execute)
			if err != nil {
				return err
			}
			tail := append([]Instruction{}, instructions[i+1:]...)
			instructions = append(instructions[:i+1], append(spliced, tail...)...)
			s.scriptCount++

		case InstructionLoad:
			if err := s.runLoad(instr.Str); err != nil {
				return err
			}

		case InstructionSave:
			if err := s.runSave(instr.Str); err != nil {
				return err
			}

		case InstructionScale:
			if err := s.runScale(instr.Float); err != nil {
				return err
			}

		case InstructionSeed:
			s.runSeed(instr.Str)

		case InstructionGenerate:
			if err := s.runGenerate(instr.Generate); err != nil {
				return err
			}

		case InstructionHelp:
			s.runHelp()

		default:
			return &util.GraphError{Type: util.ErrState, Detail: "unknown instruction kind"}
		}

		fmt.Fprintln(s.Out)
		s.instrCount++
	}

	fmt.Fprintln(s.Out, "Finished.")
	fmt.Fprintf(s.Out, "%d instruction(s) run.\n", s.instrCount)
	fmt.Fprintf(s.Out, "%d script(s) calls.\n", s.scriptCount)
	fmt.Fprintf(s.Out, "%d new graph(s) generated.\n", s.genCount)

	return nil
}

func (s *Shell) runRead(r ReadInstruction) error {
	fmt.Fprintf(s.Out, "[%d] Reading graph.\n", s.instrCount)

	acc := graph.NewAccumulator()

	for _, path := range r.NodeFiles {
		f, err := os.Open(path)
		if err != nil {
			return &util.GraphError{Type: util.ErrOpening, Detail: path}
		}
		stats, err := tsvio.ReadNodes(f, acc, tsvio.NodeColumns{ID: r.NodeIDIndex, Type: r.NodeTypeIndex})
		f.Close()
		if err != nil {
			return err
		}
		fmt.Fprintf(s.Out, "\tRead %d node%s from '%s', skipped %d line%s.\n",
			stats.Read, stringutil.Plural(int(stats.Read)), path, stats.Skipped, stringutil.Plural(int(stats.Skipped)))
	}

	for _, path := range r.EdgeFiles {
		f, err := os.Open(path)
		if err != nil {
			return &util.GraphError{Type: util.ErrOpening, Detail: path}
		}
		stats, err := tsvio.ReadEdges(f, acc, tsvio.EdgeColumns{Start: r.StartNodeIndex, End: r.EndNodeIndex, Type: r.EdgeTypeIndex})
		f.Close()
		if err != nil {
			return err
		}
		fmt.Fprintf(s.Out, "\tRead %d edge%s from '%s', skipped %d line%s.\n",
			stats.Read, stringutil.Plural(int(stats.Read)), path, stats.Skipped, stringutil.Plural(int(stats.Skipped)))
	}

	model, fitStats := graph.Fit(acc, r.Meta, util.DeriveSeed(s.rng))
	if fitStats.Failures > 0 {
		fmt.Fprintf(s.Out, "\tWarning: %d/%d block(s) computed a probability greater than 1.\n", fitStats.Failures, fitStats.TotalBlocks)
	}

	s.model = model
	s.hasModel = true
	return nil
}

func (s *Shell) runExecute(e ExecuteInstruction) ([]Instruction, error) {
	fmt.Fprintf(s.Out, "[%d] Running script '%s'.\n", s.instrCount, e.ScriptPath)

	raw, err := os.ReadFile(e.ScriptPath)
	if err != nil {
		return nil, &util.GraphError{Type: util.ErrOpening, Detail: e.ScriptPath}
	}

	tokens, err := Tokenize(string(raw), e.Replacements)
	if err != nil {
		return nil, err
	}
	return Parse(tokens)
}

func (s *Shell) runLoad(path string) error {
	fmt.Fprintf(s.Out, "[%d] Reading model from '%s'.\n", s.instrCount, path)

	f, err := os.Open(path)
	if err != nil {
		return &util.GraphError{Type: util.ErrOpening, Detail: path}
	}
	defer f.Close()

	model, diag, err := codec.Read(f)
	if err != nil {
		return err
	}
	for _, w := range diag.SkippedLines {
		fmt.Fprintf(s.Out, "\t%s\n", w)
	}

	s.model = model
	s.hasModel = true
	fmt.Fprintf(s.Out, "\tActive model: %s\n", model.Meta.Name)
	return nil
}

func (s *Shell) runSave(path string) error {
	if !s.hasModel {
		return &util.GraphError{Type: util.ErrState, Detail: "a model must be active before it can be saved; use -READ or -LOAD first"}
	}
	fmt.Fprintf(s.Out, "[%d] Saving model '%s' to '%s'.\n", s.instrCount, s.model.Meta.Name, path)

	if err := ensureDir(path); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return &util.GraphError{Type: util.ErrOpening, Detail: path}
	}
	defer f.Close()

	n, err := codec.Write(f, s.model)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.Out, "\tWrote %d byte(s).\n", n)
	return nil
}

func (s *Shell) runScale(factor float64) error {
	if !s.hasModel {
		return &util.GraphError{Type: util.ErrState, Detail: "a model must be active before it can be scaled; use -READ or -LOAD first"}
	}
	fmt.Fprintf(s.Out, "[%d] Scaling model by a factor of x%v.\n", s.instrCount, factor)

	scaled, stats, err := graph.Scale(s.model, factor)
	if err != nil {
		return err
	}
	for _, w := range stats.Warnings {
		fmt.Fprintf(s.Out, "\tWarning: %s\n", w)
	}
	if stats.Failures > 0 {
		fmt.Fprintf(s.Out, "\t%d/%d block(s) clamped to a probability of 1 after scaling.\n", stats.Failures, stats.TotalBlocks)
	}
	s.model = scaled
	return nil
}

func (s *Shell) runSeed(seed string) {
	fmt.Fprintf(s.Out, "[%d] Setting the random seed to '%s'.\n", s.instrCount, seed)
	s.rng = util.NewRand(seedFromString(seed))
}

func seedFromString(seed string) int64 {
	offset := uint64(14695981039346656037)
	var h int64 = int64(offset)
	for _, b := range []byte(seed) {
		h ^= int64(b)
		h *= 1099511628211
	}
	return h
}

func (s *Shell) runGenerate(g GenerateInstruction) error {
	if !s.hasModel {
		return &util.GraphError{Type: util.ErrState, Detail: "a model must be active before generation; use -READ or -LOAD first"}
	}
	if _, ok := s.model.Meta.Values[graph.MetaScaleKey]; !ok {
		s.model.Meta.Values[graph.MetaScaleKey] = "1.0"
	}

	fmt.Fprintf(s.Out, "[%d] Generating %d new graph(s) at %sx scale.\n", s.instrCount, g.Count, s.model.Meta.Values[graph.MetaScaleKey])

	if g.Count == 1 {
		if err := s.generateOne(g.NodeFilePath, g.EdgeFilePath); err != nil {
			return err
		}
		fmt.Fprintf(s.Out, "\t1.) at '%s' and '%s'.\n", g.NodeFilePath, g.EdgeFilePath)
		s.genCount++
		return nil
	}

	for i := 0; i < g.Count; i++ {
		nFile := suffixPath(g.NodeFilePath, i)
		eFile := suffixPath(g.EdgeFilePath, i)
		if err := s.generateOne(nFile, eFile); err != nil {
			return err
		}
		fmt.Fprintf(s.Out, "\t%d.) at '%s' and '%s'.\n", i+1, nFile, eFile)
		s.genCount++
	}
	return nil
}

func (s *Shell) generateOne(nodePath, edgePath string) error {
	if err := ensureDir(nodePath); err != nil {
		return err
	}
	if err := ensureDir(edgePath); err != nil {
		return err
	}

	nf, err := os.Create(nodePath)
	if err != nil {
		return &util.GraphError{Type: util.ErrOpening, Detail: nodePath}
	}
	defer nf.Close()

	ef, err := os.Create(edgePath)
	if err != nil {
		return &util.GraphError{Type: util.ErrOpening, Detail: edgePath}
	}
	defer ef.Close()

	_, err = sampler.Sample(s.model, util.DeriveSeed(s.rng), nf, ef)
	return err
}

/*
ensureDir makes sure the directory component of path exists, creating it
(and any missing parents) if not, mirroring the reference client's
pre-flight directory check before opening an output file.
*/
func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	if exists, _ := fileutil.PathExists(dir); !exists {
		if err := os.MkdirAll(dir, 0770); err != nil {
			return &util.GraphError{Type: util.ErrWriting, Detail: dir}
		}
	}
	return nil
}

/*
suffixPath inserts "_<i>" before a path's extension, the same scheme the
reference generator uses for multi-instance -GENERATE.
*/
func suffixPath(path string, i int) string {
	dir := filepath.Dir(path)
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(filepath.Base(path), ext)
	return filepath.Join(dir, fmt.Sprintf("%s_%d%s", base, i, ext))
}

/*
instructionTags lists the eight fixed instruction tags for the quick-reference
table at the top of -HELP's output.
*/
var instructionTags = []string{
	"-READ", "-EXECUTE", "-LOAD", "-SAVE", "-SCALE", "-SEED", "-GENERATE", "-HELP",
}

func (s *Shell) runHelp() {
	fmt.Fprintf(s.Out, "[%d] Displaying program help.\n", s.instrCount)
	fmt.Fprint(s.Out, stringutil.PrintStringTable(instructionTags, 4))
	fmt.Fprintln(s.Out, "\tUse double-quotes (\"...\") to retain spaces/tabs within an argument.")
	fmt.Fprintln(s.Out)
	fmt.Fprintln(s.Out, "\t### Read TSV files, build and fit an active model.")
	fmt.Fprintln(s.Out, "\t\t-READ")
	fmt.Fprintln(s.Out, "\t\t\t+NODEFILE [path] ...")
	fmt.Fprintln(s.Out, "\t\t\t+EDGEFILE [path] ...")
	fmt.Fprintln(s.Out, "\t\t\t+NODEINDEX [index]")
	fmt.Fprintln(s.Out, "\t\t\t+NODETYPEINDEX [index] ...")
	fmt.Fprintln(s.Out, "\t\t\t+EDGEINDEX [startIndex] [endIndex]")
	fmt.Fprintln(s.Out, "\t\t\t+EDGETYPEINDEX [index] ...")
	fmt.Fprintln(s.Out, "\t\t\t+ARG [key] [value]")
	fmt.Fprintln(s.Out)
	fmt.Fprintln(s.Out, "\t### Splice a script's instructions in after this position.")
	fmt.Fprintln(s.Out, "\t\t-EXECUTE [path] [template] [replace] ...")
	fmt.Fprintln(s.Out)
	fmt.Fprintln(s.Out, "\t### Load/save the active model.")
	fmt.Fprintln(s.Out, "\t\t-LOAD [path]")
	fmt.Fprintln(s.Out, "\t\t-SAVE [path]")
	fmt.Fprintln(s.Out)
	fmt.Fprintln(s.Out, "\t### Scale the active model. Factors below 1 are permitted but warned about.")
	fmt.Fprintln(s.Out, "\t\t-SCALE [factor]")
	fmt.Fprintln(s.Out)
	fmt.Fprintln(s.Out, "\t### Reseed the PRNG used for fitting and generation.")
	fmt.Fprintln(s.Out, "\t\t-SEED [seed]")
	fmt.Fprintln(s.Out)
	fmt.Fprintln(s.Out, "\t### Sample n discrete graphs from the active model.")
	fmt.Fprintln(s.Out, "\t\t-GENERATE [nodepath] [edgepath] [n]")
	fmt.Fprintln(s.Out)
	fmt.Fprintln(s.Out, "\t### Display this help.")
	fmt.Fprintln(s.Out, "\t\t-HELP")
}
