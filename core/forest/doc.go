// Package forest implements a bagged ensemble of CART regression trees.
//
// Trees are grown on bootstrap samples and split on the feature threshold
// that minimises the squared error of the two children. Every split
// considers all features. The fitted forest is a plain value made of node
// slices so it can be serialised as JSON and reloaded without refitting.
package forest
