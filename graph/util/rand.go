/*
 * sbmgen
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package util

import "math/rand"

/*
NewRand creates a new PRNG seeded deterministically from the given 64-bit
seed. All seeded randomness in the fitter and the sampler flows through this
constructor so that the same seed always produces the same stream.
*/
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

/*
DeriveSeed draws a new 64-bit seed from a parent PRNG. Used to seed
independent child streams (one per sampled edge type, one per sampler
worker, one per fit or generated instance in the script shell) from a
single caller-supplied seed, without the children sharing state.
*/
func DeriveSeed(parent *rand.Rand) int64 {
	return parent.Int63()
}
