// Package fd implements relational normalization over functional
// dependencies: attribute closures, candidate keys, canonical covers,
// normal-form classification, and 2NF/3NF decomposition.
//
// Every function is a pure computation over its arguments. Candidate-key
// enumeration is exponential in the number of attributes, and so is
// everything built on it (Classify, Decompose2NF, Synthesize3NF).
package fd
