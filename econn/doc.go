// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package econn implements the connection rule engine: given a sending and a
receiving layer, a connection specification (rule, mask, probability kernel,
autapse / multapse policy, and weight / delay parameter specs), it
deterministically generates the set of connection records.

Rules: one-to-one, all-to-all, fixed in-degree, fixed out-degree, pairwise
bernoulli (mask / kernel evaluated on either the source or the target side),
and fixed total number.  The engine visits driver nodes in ascending order
and uses a deterministic per-driver random substream (derived from the
connect seed plus the driver position), so results are reproducible for a
fixed seed regardless of the number of threads used.

All infeasibility, geometry and numeric-policy violations are fatal: the
connect call returns a structured error and no connection records -- a
partial connection set is never produced.
*/
package econn
