// Package graph provides the net construction service.
//
// A net is a named list of operators executed as a unit. Nets are built from
// a Def by a Constructor registered under the net type. Two types ship with
// the package:
//
//	simple  operators run in declaration order; the first failure stops the run
//	dag     operators are grouped into dependency levels by the blobs they read
//	        and write; each level runs on the workspace thread pool
//
// An empty type selects simple.
//
// Operators are created through the operator registry the graph Registry was
// built with, against the workspace passed to Create. A net owns its
// operators and closes them when it is closed.
package graph
