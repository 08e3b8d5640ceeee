/*
 * sbmgen
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

/*
Package codec reads and writes the "m1" model format: a line-oriented,
sectioned text encoding of a graph.Model. A conformant file has a "# META"
section with at least a NAME declaration, a "# NODES" section, and one or
more "# EDGES=<type>" sections, in that order, each holding one
comma-separated record per line.

codec tolerates the same recoverable deviations the reference format does:
stray CR bytes from CRLF line endings, blank lines anywhere, and individual
malformed records - each is skipped with a diagnostic rather than failing
the whole read. Missing an entire required section is not recoverable and
is reported as a util.GraphError.
*/
package codec

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/krotik/sbmgen/graph"
	"github.com/krotik/sbmgen/graph/util"
)

/*
Diagnostics accumulates the warnings Read collects while tolerating
recoverable deviations from the format, for a caller to log or display.
*/
type Diagnostics struct {
	SkippedLines []string
}

func (d *Diagnostics) skip(reason string) {
	d.SkippedLines = append(d.SkippedLines, reason)
}

type readerMode int

const (
	modeNone readerMode = iota
	modeMeta
	modeNodes
	modeEdges
)

/*
Read parses a complete m1-format model from r. It returns a util.GraphError
wrapping util.ErrInputFormat if the META, NODES or EDGES sections are
missing entirely, if a directive line is not recognized, or if a data line
precedes every section directive. A data line with the wrong number of
fields, an empty field or a value that fails to parse is skipped and
recorded in Diagnostics instead.
*/
func Read(r io.Reader) (*graph.Model, Diagnostics, error) {
	var diag Diagnostics
	model := &graph.Model{Meta: graph.NewMeta()}

	var hasName, hasNodes, hasEdges bool
	var currentType graph.EdgeType
	var currentBlocks []graph.EdgeBlock

	flushEdgeType := func() {
		if len(currentBlocks) > 0 {
			model.Edges = append(model.Edges, graph.EdgeTypeRecord{Type: currentType, Blocks: currentBlocks})
			hasEdges = true
		}
	}

	mode := modeNone
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<24)

	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "#") {
			switch {
			case strings.HasPrefix(line, "# META"):
				mode = modeMeta
			case strings.HasPrefix(line, "# NODES"):
				mode = modeNodes
			case strings.HasPrefix(line, "# EDGES"):
				flushEdgeType()
				idx := strings.IndexByte(line, '=')
				if idx < 0 {
					return nil, diag, &util.GraphError{Type: util.ErrInputFormat, Detail: "EDGES directive missing '=<type>': " + line}
				}
				currentType = graph.EdgeType(line[idx+1:])
				currentBlocks = nil
				mode = modeEdges
			default:
				return nil, diag, &util.GraphError{Type: util.ErrInputFormat, Detail: "unexpected directive: " + line}
			}
			continue
		}

		switch mode {
		case modeNone:
			return nil, diag, &util.GraphError{Type: util.ErrInputFormat, Detail: "data line before any section directive: " + line}

		case modeMeta:
			key, value, ok := strings.Cut(line, "=")
			if !ok || key == "" || value == "" {
				diag.skip(fmt.Sprintf("incomplete META line: %q", line))
				continue
			}
			if key == "NAME" {
				model.Meta.Name = value
				hasName = true
			} else {
				model.Meta.Values[key] = value
			}

		case modeNodes:
			fields := strings.SplitN(line, ",", 3)
			if len(fields) != 3 || fields[0] == "" || fields[1] == "" || fields[2] == "" {
				diag.skip(fmt.Sprintf("incomplete NODES line: %q", line))
				continue
			}
			start, err := strconv.ParseFloat(fields[0], 64)
			if err != nil {
				diag.skip(fmt.Sprintf("unparseable NODES start in line %q: %v", line, err))
				continue
			}
			end, err := strconv.ParseFloat(fields[1], 64)
			if err != nil {
				diag.skip(fmt.Sprintf("unparseable NODES end in line %q: %v", line, err))
				continue
			}
			model.Nodes = append(model.Nodes, graph.NodeBlock{Start: start, End: end, Type: graph.NodeType(fields[2])})
			hasNodes = true

		case modeEdges:
			fields := strings.SplitN(line, ",", 5)
			if len(fields) != 5 {
				diag.skip(fmt.Sprintf("incomplete EDGES line: %q", line))
				continue
			}
			incomplete := false
			for _, f := range fields {
				if f == "" {
					incomplete = true
					break
				}
			}
			if incomplete {
				diag.skip(fmt.Sprintf("incomplete EDGES line: %q", line))
				continue
			}
			startX, err1 := strconv.ParseFloat(fields[0], 64)
			endX, err2 := strconv.ParseFloat(fields[1], 64)
			startY, err3 := strconv.ParseFloat(fields[2], 64)
			endY, err4 := strconv.ParseFloat(fields[3], 64)
			if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
				diag.skip(fmt.Sprintf("unparseable EDGES coordinates in line %q", line))
				continue
			}
			p, err := strconv.ParseFloat(fields[4], 64)
			if err != nil {
				diag.skip(fmt.Sprintf("unparseable EDGES probability in line %q: %v", line, err))
				continue
			}
			currentBlocks = append(currentBlocks, graph.EdgeBlock{XStart: startX, XEnd: endX, YStart: startY, YEnd: endY, P: p})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, diag, &util.GraphError{Type: util.ErrReading, Detail: err.Error()}
	}

	flushEdgeType()

	if !hasName {
		return nil, diag, &util.GraphError{Type: util.ErrInputFormat, Detail: "missing META section with a NAME declaration"}
	}
	if !hasNodes {
		return nil, diag, &util.GraphError{Type: util.ErrInputFormat, Detail: "missing NODES section with at least one node block"}
	}
	if !hasEdges {
		return nil, diag, &util.GraphError{Type: util.ErrInputFormat, Detail: "missing EDGES section with at least one edge type"}
	}

	return model, diag, nil
}

/*
Write serializes model to w in m1 format and returns the number of bytes
written. Keys containing '=' or keys/values containing a newline are
rejected, as are node or edge types containing a newline, since both would
corrupt the line-oriented encoding.
*/
func Write(w io.Writer, model *graph.Model) (int64, error) {
	bw := bufio.NewWriterSize(w, 1<<16)
	var n int64

	write := func(s string) error {
		c, err := bw.WriteString(s)
		n += int64(c)
		return err
	}

	if err := write("# META\n"); err != nil {
		return n, wrapWrite(err)
	}
	if err := write("NAME=" + model.Meta.Name + "\n"); err != nil {
		return n, wrapWrite(err)
	}
	for key, value := range model.Meta.Values {
		if strings.ContainsRune(key, '=') {
			return n, &util.GraphError{Type: util.ErrInvalidData, Detail: "META key may not contain '=': " + key}
		}
		if strings.ContainsRune(key, '\n') || strings.ContainsRune(value, '\n') {
			return n, &util.GraphError{Type: util.ErrInvalidData, Detail: "META key/value may not contain a newline: " + key}
		}
		if err := write(key + "=" + value + "\n"); err != nil {
			return n, wrapWrite(err)
		}
	}
	if err := write("\n# NODES\n"); err != nil {
		return n, wrapWrite(err)
	}
	for _, nb := range model.Nodes {
		if strings.ContainsRune(string(nb.Type), '\n') {
			return n, &util.GraphError{Type: util.ErrInvalidData, Detail: "node type may not contain a newline: " + string(nb.Type)}
		}
		line := formatFloat(nb.Start) + "," + formatFloat(nb.End) + "," + string(nb.Type) + "\n"
		if err := write(line); err != nil {
			return n, wrapWrite(err)
		}
	}
	if err := write("\n"); err != nil {
		return n, wrapWrite(err)
	}

	for _, record := range model.Edges {
		if strings.ContainsRune(string(record.Type), '\n') {
			return n, &util.GraphError{Type: util.ErrInvalidData, Detail: "edge type may not contain a newline: " + string(record.Type)}
		}
		if err := write("# EDGES=" + string(record.Type) + "\n"); err != nil {
			return n, wrapWrite(err)
		}
		for _, b := range record.Blocks {
			line := formatFloat(b.XStart) + "," + formatFloat(b.XEnd) + "," +
				formatFloat(b.YStart) + "," + formatFloat(b.YEnd) + "," + formatFloat(b.P) + "\n"
			if err := write(line); err != nil {
				return n, wrapWrite(err)
			}
		}
		if err := write("\n"); err != nil {
			return n, wrapWrite(err)
		}
	}

	if err := bw.Flush(); err != nil {
		return n, wrapWrite(err)
	}
	return n, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func wrapWrite(err error) error {
	return &util.GraphError{Type: util.ErrWriting, Detail: err.Error()}
}
