/*
 * sbmgen
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

/*
Package util contains utility classes shared by the model fitter, scaler
and sampler.

GraphError

Models a model-related error. Low-level errors (bad files, malformed
sections) should be wrapped in a GraphError before they are returned to a
caller.
*/
package util

import (
	"errors"
	"fmt"
)

/*
GraphError is a model related error.
*/
type GraphError struct {
	Type   error  // Error type (to be used for equal checks)
	Detail string // Details of this error
}

/*
Error returns a human-readable string representation of this error.
*/
func (ge *GraphError) Error() string {
	if ge.Detail != "" {
		return fmt.Sprintf("GraphError: %v (%v)", ge.Type, ge.Detail)
	}

	return fmt.Sprintf("GraphError: %v", ge.Type)
}

/*
Input/output related error types.
*/
var (
	ErrOpening = errors.New("Failed to open file")
	ErrReading = errors.New("Could not read model information")
	ErrWriting = errors.New("Could not write model information")
)

/*
Model related error types.
*/
var (
	ErrInvalidData = errors.New("Invalid data")
	ErrInputFormat = errors.New("Malformed input")
	ErrParse       = errors.New("Could not parse value")
	ErrRange       = errors.New("Value out of range")
	ErrState       = errors.New("No active model")
)
