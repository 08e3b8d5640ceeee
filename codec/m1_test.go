/*
 * sbmgen
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package codec

import (
	"bytes"
	"strings"
	"testing"

	"github.com/krotik/sbmgen/graph"
)

func sampleModel() *graph.Model {
	return &graph.Model{
		Meta: graph.Meta{Name: "test model", Values: map[string]string{"SCALE": "1.0"}},
		Nodes: []graph.NodeBlock{
			{Start: 0, End: 5, Type: "user"},
			{Start: 5, End: 8, Type: "item"},
		},
		Edges: []graph.EdgeTypeRecord{
			{Type: "click", Blocks: []graph.EdgeBlock{
				{XStart: 0, XEnd: 5, YStart: 5, YEnd: 8, P: 0.25},
			}},
		},
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	model := sampleModel()

	var buf bytes.Buffer
	if _, err := Write(&buf, model); err != nil {
		t.Fatal(err)
	}

	got, diag, err := Read(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(diag.SkippedLines) != 0 {
		t.Error("Did not expect any skipped lines:", diag.SkippedLines)
	}

	if got.Meta.Name != model.Meta.Name {
		t.Error("Unexpected name:", got.Meta.Name)
	}
	if got.Meta.Values["SCALE"] != "1.0" {
		t.Error("Unexpected SCALE:", got.Meta.Values)
	}
	if len(got.Nodes) != 2 || got.Nodes[1].Type != "item" {
		t.Error("Unexpected nodes:", got.Nodes)
	}
	if len(got.Edges) != 1 || got.Edges[0].Blocks[0].P != 0.25 {
		t.Error("Unexpected edges:", got.Edges)
	}
}

func TestReadMissingSectionIsFatal(t *testing.T) {
	input := "# META\nNAME=foo\n\n# EDGES=click\n0,1,0,1,0.5\n"

	if _, _, err := Read(strings.NewReader(input)); err == nil {
		t.Error("Expected an error for a missing NODES section")
	}
}

func TestReadSkipsIncompleteLinesButKeepsGoing(t *testing.T) {
	input := "# META\nNAME=foo\n\n# NODES\n0,5,user\n,,\n\n# EDGES=click\n0,5,0,5,0.1\n0,5,,5,\n"

	model, diag, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	if len(diag.SkippedLines) != 2 {
		t.Error("Expected two skipped lines:", diag.SkippedLines)
	}
	if len(model.Nodes) != 1 || len(model.Edges[0].Blocks) != 1 {
		t.Error("Unexpected surviving records:", model.Nodes, model.Edges)
	}
}

func TestReadMetaWithoutNameIsFatal(t *testing.T) {
	input := "# META\nDESCRIPTION=foo\n\n# NODES\n0,5,user\n\n# EDGES=click\n0,5,0,5,0.1\n"

	if _, _, err := Read(strings.NewReader(input)); err == nil {
		t.Error("Expected an error for a META section without a NAME declaration")
	}
}

func TestReadToleratesCRLF(t *testing.T) {
	input := "# META\r\nNAME=foo\r\n\r\n# NODES\r\n0,5,user\r\n\r\n# EDGES=click\r\n0,5,0,5,0.1\r\n"

	model, _, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	if model.Meta.Name != "foo" {
		t.Error("Unexpected name:", model.Meta.Name)
	}
}

func TestWriteRejectsNewlineInMetaValue(t *testing.T) {
	model := sampleModel()
	model.Meta.Values["BAD"] = "line1\nline2"

	var buf bytes.Buffer
	if _, err := Write(&buf, model); err == nil {
		t.Error("Expected an error for a newline in a META value")
	}
}
