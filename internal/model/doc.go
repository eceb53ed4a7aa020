// Package model defines the value types that flow through the experiment
// pipeline: execution configurations produced by grid expansion, scenario
// instances, archived result records, and the reduced plot records consumed
// by the filter and plot stages.
//
// All types here are plain immutable values. Nothing in this package touches
// the file system, the archive, or a solver; the stages that do depend on
// this package, never the other way around.
package model
