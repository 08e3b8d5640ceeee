/*
 * sbmgen
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package graph

import (
	"strconv"

	"github.com/krotik/sbmgen/graph/util"
)

/*
ScaleStats carries scale-time diagnostics: how many of the rescaled edge
blocks had to be clamped back to a probability of 1 (a model failure), and
how many blocks were processed in total.
*/
type ScaleStats struct {
	Failures    int64
	TotalBlocks int64
	Warnings    []string
}

/*
Scale returns a new Model with every node-axis coordinate multiplied by
factor and every edge-block probability divided by factor, clamped to 1.
The Model passed in is never mutated.

factor must be greater than zero - the caller is expected to treat that as
fatal. A factor below 1 (downscaling) is permitted but produces a warning,
since downscaling a fitted model can push many block probabilities above 1,
flattening the degree-corrected structure the Fitter computed.
*/
func Scale(model *Model, factor float64) (*Model, ScaleStats, error) {
	if factor <= 0 {
		return nil, ScaleStats{}, &util.GraphError{Type: util.ErrRange, Detail: "scale factor must be greater than zero"}
	}

	var stats ScaleStats
	if factor < 1 {
		stats.Warnings = append(stats.Warnings, "downscaling a model can have a serious effect on the resulting graph; proceed with caution")
	}

	result := &Model{
		Meta: Meta{
			Name:   model.Meta.Name,
			Values: make(map[string]string, len(model.Meta.Values)),
		},
	}
	for k, v := range model.Meta.Values {
		result.Meta.Values[k] = v
	}

	oldScale := 1.0
	if raw, ok := result.Meta.Values[MetaScaleKey]; ok {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			stats.Warnings = append(stats.Warnings, "non-numeric META value for "+MetaScaleKey+"; the new SCALE may not be accurate")
		} else {
			oldScale = parsed
			if oldScale <= 0 {
				stats.Warnings = append(stats.Warnings, "non-positive META value for "+MetaScaleKey+"; the new SCALE may not be accurate")
			}
		}
	}
	result.Meta.Values[MetaScaleKey] = strconv.FormatFloat(oldScale*factor, 'f', -1, 64)

	result.Nodes = make([]NodeBlock, len(model.Nodes))
	for i, n := range model.Nodes {
		result.Nodes[i] = NodeBlock{
			Start: n.Start * factor,
			End:   n.End * factor,
			Type:  n.Type,
		}
	}

	result.Edges = make([]EdgeTypeRecord, len(model.Edges))
	for i, record := range model.Edges {
		r := EdgeTypeRecord{Type: record.Type, Blocks: make([]EdgeBlock, len(record.Blocks))}
		for j, b := range record.Blocks {
			p := b.P / factor
			if p > 1 {
				p = 1
				stats.Failures++
			}
			r.Blocks[j] = EdgeBlock{
				XStart: b.XStart * factor, XEnd: b.XEnd * factor,
				YStart: b.YStart * factor, YEnd: b.YEnd * factor,
				P: p,
			}
			stats.TotalBlocks++
		}
		result.Edges[i] = r
	}

	return result, stats, nil
}
