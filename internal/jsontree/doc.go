// Package jsontree holds an order-preserving JSON value model and the
// structure-preserving transform that encrypts or decrypts its leaves.
//
// A Value is exactly one of *Object, *Array or *Scalar. Transform rebuilds
// a tree node by node: objects keep their keys and key order, arrays keep
// their length and order, and only scalar text changes.
//
// On encrypt each scalar's canonical text (its JSON literal, so "hello"
// keeps its quotes and 1 stays 1) is sealed and stored as a string scalar.
// On decrypt the literal is parsed back so the original kind is restored.
package jsontree
