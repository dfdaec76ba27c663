// Package layout computes positions for the nodes of an architecture graph.
//
// # Overview
//
// The engine takes a list of sized nodes and a list of directed edges and
// returns the same nodes with a top-left Position. Nodes are arranged in
// layers (ranks) along the flow direction, ordered within each rank to keep
// edge crossings low, and spaced so that no two nodes overlap.
//
//	res, err := layout.Layout(nodes, edges, layout.Options{
//	    Direction: layout.TopToBottom,
//	})
//
// Every call is a fresh computation. The result depends only on the nodes,
// the edges, the direction and the [Config], so re-running a layout after an
// edit or a change of direction is always safe.
//
// # Directions
//
// [TopToBottom] stacks ranks vertically: rank 0 at the top, nodes of a rank
// side by side. [LeftToRight] stacks ranks horizontally. Both directions
// produce the same ranks and the same in-rank orders; only the axes swap.
//
// # Strategies
//
// A [Strategy] turns validated input into node centers. [Layered] is the
// default and implements the full pipeline in Go:
//
//  1. Split the graph into weakly connected components
//  2. Break cycles by reversing DFS back edges (ranking only)
//  3. Assign ranks by longest path from the sources
//  4. Order each rank with the barycenter heuristic (ties by ascending ID)
//  5. Assign coordinates rank by rank, centering narrow ranks
//  6. Pack components side by side
//
// [Graphviz] delegates placement to the Graphviz "dot" engine and is useful
// for comparing results. Strategies are chosen explicitly through
// [Options].Strategy or [StrategyByName]; there is no global registry.
//
// # Edge Cases
//
// An empty node list yields an empty result. Edges that reference unknown
// nodes are ignored. Self-loops, parallel edges and cycles are accepted.
// Invalid nodes (empty or duplicate ID, non-positive size) produce an
// [*InvalidNodeError] and unknown directions an [*InvalidDirectionError];
// both are wrapped in a coded [errors.Error].
package layout
