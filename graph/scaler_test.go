/*
 * sbmgen
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package graph

import "testing"

func baseModel() *Model {
	return &Model{
		Meta: Meta{Name: "m", Values: map[string]string{MetaScaleKey: "1.0"}},
		Nodes: []NodeBlock{
			{Start: 0, End: 10, Type: "user"},
		},
		Edges: []EdgeTypeRecord{
			{Type: "click", Blocks: []EdgeBlock{
				{XStart: 0, XEnd: 10, YStart: 0, YEnd: 10, P: 0.1},
			}},
		},
	}
}

func TestScaleRejectsZeroFactor(t *testing.T) {
	if _, _, err := Scale(baseModel(), 0); err == nil {
		t.Error("Expected an error for a zero scale factor")
	}
}

func TestScaleUpscalesCoordinatesAndDividesProbability(t *testing.T) {
	model := baseModel()

	scaled, stats, err := Scale(model, 2)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Failures != 0 {
		t.Error("Did not expect a clamp failure:", stats)
	}

	if scaled.Nodes[0].End != 20 {
		t.Error("Unexpected node block end:", scaled.Nodes[0].End)
	}
	if scaled.Edges[0].Blocks[0].P != 0.05 {
		t.Error("Unexpected probability:", scaled.Edges[0].Blocks[0].P)
	}
	if scaled.Meta.Values[MetaScaleKey] != "2" {
		t.Error("Unexpected cumulative SCALE:", scaled.Meta.Values[MetaScaleKey])
	}

	// original model must be untouched
	if model.Nodes[0].End != 10 || model.Edges[0].Blocks[0].P != 0.1 {
		t.Error("Scale must not mutate its input")
	}
}

func TestScaleDownWarnsAndClamps(t *testing.T) {
	model := baseModel()
	model.Edges[0].Blocks[0].P = 0.6

	scaled, stats, err := Scale(model, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	if len(stats.Warnings) == 0 {
		t.Error("Expected a downscale warning")
	}
	if stats.Failures != 1 {
		t.Error("Expected the block to be clamped:", stats)
	}
	if scaled.Edges[0].Blocks[0].P != 1 {
		t.Error("Expected probability to be clamped to 1:", scaled.Edges[0].Blocks[0].P)
	}
}

func TestScaleCompoundsAcrossCalls(t *testing.T) {
	model := baseModel()

	once, _, _ := Scale(model, 2)
	twice, _, _ := Scale(once, 3)

	if twice.Meta.Values[MetaScaleKey] != "6" {
		t.Error("Expected cumulative SCALE of 6:", twice.Meta.Values[MetaScaleKey])
	}
}
