// SPDX-License-Identifier: MIT
//
// File: dinic.go
// Role: Dinic max-flow over a compact arc-slice residual network.
//
// Rationale (succinct):
//  1. Level BFS plus blocking-flow DFS gives O(V²·E), far more than enough
//     for topologies whose node count is hosts + 2·egresses + dests + 2.
//  2. Arcs live in slices indexed by insertion order, so augmenting order
//     and therefore the reported per-destination split are deterministic.
//  3. Capacities at or below eps are treated as absent, mirroring how the
//     solvers clean up their flows.

package feasible

import "math"

const eps = 1e-9

// arc is one directed residual edge. rev is the index of the paired
// reverse arc inside adj[to].
type arc struct {
	to  int
	rev int
	cap float64
}

// network is a residual flow network over integer node ids.
type network struct {
	adj   [][]arc
	level []int
	iter  []int
}

func newNetwork(n int) *network {
	return &network{
		adj:   make([][]arc, n),
		level: make([]int, n),
		iter:  make([]int, n),
	}
}

// addEdge inserts u→v with capacity c and its zero-capacity reverse.
func (nw *network) addEdge(u, v int, c float64) {
	nw.adj[u] = append(nw.adj[u], arc{to: v, rev: len(nw.adj[v]), cap: c})
	nw.adj[v] = append(nw.adj[v], arc{to: u, rev: len(nw.adj[u]) - 1, cap: 0})
}

// bfs rebuilds the level graph from s; returns false once t is unreachable.
func (nw *network) bfs(s, t int) bool {
	for i := range nw.level {
		nw.level[i] = -1
	}
	nw.level[s] = 0
	queue := []int{s}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for _, a := range nw.adj[u] {
			if a.cap > eps && nw.level[a.to] < 0 {
				nw.level[a.to] = nw.level[u] + 1
				queue = append(queue, a.to)
			}
		}
	}

	return nw.level[t] >= 0
}

// dfs pushes up to f units of blocking flow from u toward t.
func (nw *network) dfs(u, t int, f float64) float64 {
	if u == t {
		return f
	}
	for ; nw.iter[u] < len(nw.adj[u]); nw.iter[u]++ {
		a := &nw.adj[u][nw.iter[u]]
		if a.cap <= eps || nw.level[a.to] != nw.level[u]+1 {
			continue
		}
		if got := nw.dfs(a.to, t, math.Min(f, a.cap)); got > eps {
			a.cap -= got
			nw.adj[a.to][a.rev].cap += got
			return got
		}
	}

	return 0
}

// maxflow runs Dinic from s to t and returns the total pushed.
func (nw *network) maxflow(s, t int) float64 {
	var total float64
	for nw.bfs(s, t) {
		for i := range nw.iter {
			nw.iter[i] = 0
		}
		for {
			f := nw.dfs(s, t, math.Inf(1))
			if f <= eps {
				break
			}
			total += f
		}
	}

	return total
}
