// Package ranking turns raw per-source package records into the ranked,
// merged result list shown to the user.
//
// Everything here is a pure function of its inputs: the same set of
// records always produces the same entries in the same order, no matter
// which order the records arrived in. Search sessions call Aggregate
// after every batch and renderers call ApplyView on the result.
package ranking
