// Package reduce strips archived result records down to plot records. The
// raw solver payload is treated as a tagged variant keyed by algorithm ID,
// with one extraction rule per algorithm family; the payload itself never
// survives reduction. Reduction is deterministic and pure: the same record
// always yields the same plot record.
package reduce
