// Package feedback closes the loop over package herd: run the herd, find
// saturated egresses, penalize their perceived latency, run the herd again
// on the derived model.
//
// Each round is the pure pipeline
//
//	model → herd.Run → utilization.Analyze → congested set
//
// and the adjustment between rounds derives a fresh NetworkModel whose
// congested egresses carry latency + penalty × utilization fraction; no
// model is ever mutated in place. The loop continues while there is both
// unsent traffic and congestion at or above the threshold, up to a round
// cap. Every round's model, placement and report are retained so a caller
// can replay how the herd was steered.
//
// Rounds are strictly sequential: round N's input model is derived from
// round N-1's report, so there is nothing to parallelize inside one Run.
package feedback
