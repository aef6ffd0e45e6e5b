// Package plan provides the plan execution service.
//
// A plan bundles net definitions with a tree of execution steps. The
// Executor creates the plan's nets in the workspace and walks the steps:
//
//	steps:
//	  - name: init
//	    nets: [init]
//	  - name: train
//	    num_iter: 100
//	    nets: [train]
//	  - name: loop
//	    should_stop_blob: done
//	    substeps:
//	      - nets: [step]
//	      - nets: [check]
//
// A step either runs its nets in order or its substeps (sequentially, or
// concurrently with concurrent_substeps). num_iter repeats the body; when
// should_stop_blob is set and num_iter is not, the step repeats until the
// named bool blob becomes true. only_once limits a nested step to a single
// execution per plan run.
//
// The ShouldContinue predicate is polled before every iteration of every
// step. Returning false ends the step early without failing the plan.
//
// Plans are usually read from YAML:
//
//	p, err := plan.LoadFile("train.yaml")
package plan
