// Package transform prepares a rank graph for ordering and coordinate
// assignment.
//
// # Overview
//
// Architecture graphs produced by a classifier are arbitrary directed graphs:
// they may contain cycles, self-loops, parallel edges and edges that skip
// several layers. This package turns such a graph into the canonical form the
// layout engine works on:
//
//   - No directed cycles (back edges reversed for ranking only)
//   - Every node assigned to a row (rank) by longest path from the sources
//   - Every edge connecting consecutive rows (long edges split by virtual nodes)
//
// [Prepare] applies the steps in the correct order and reports what changed.
//
// # Cycle Breaking
//
// [BreakCycles] runs a depth-first search from the sources (in insertion
// order), then from any node still unvisited. Every edge that reaches a node
// still on the DFS stack is a back edge and is reversed. Reversing all back
// edges of one DFS always yields an acyclic graph. Self-loops carry no ranking
// information and are dropped.
//
// # Layer Assignment
//
// [AssignLayers] computes each node's row as the length of the longest path
// reaching it from any source, using Kahn's topological order.
//
// # Edge Subdivision
//
// [Subdivide] replaces an edge spanning k rows with a chain of k-1 virtual
// nodes so that crossing reduction sees the edge in every row it passes.
//
// # Components
//
// [Components] splits a node/edge list into weakly connected components. The
// layout engine ranks and orders each component independently and packs the
// results side by side.
package transform
