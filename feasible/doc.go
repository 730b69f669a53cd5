// Package feasible answers one question exactly: how much of the declared
// demand could any routing deliver at all?
//
// The solvers' cheap prechecks are necessary conditions only; two
// destinations can each look satisfiable in isolation yet compete for the
// same egress capacity. Check settles this by running Dinic's max-flow over
// the layered network
//
//	source → hosts → egresses → destinations → sink
//
// with uplinks on the source side, split egress nodes carrying their
// capacity, and demands on the sink side. The max-flow value is the exact
// deliverable ceiling under joint routing, so demand is feasible if and
// only if that ceiling reaches the total demand.
package feasible
