// Package extra provides value types beyond the built-ins of package
// [syntax]: unsigned integers, booleans, clock timestamps and path lists.
//
// Use [Registry] to get the built-ins extended with every type of this
// package, or [Types] to pick individual ones.
package extra
