// Package order decides the sequence of nodes within each row of a layered
// graph.
//
// # The Ordering Problem
//
// Once every node has a row, the drawing still depends on the order of nodes
// inside each row: a poor order makes edges between adjacent rows cross.
// Finding the order with the fewest crossings is NP-hard, so layout engines
// use heuristics.
//
// # Barycenter Heuristic
//
// [Barycenter] implements the classic Sugiyama barycenter method:
//
//  1. Start every row in ascending ID order
//  2. Sweep down: sort each row by the mean position of its parents
//  3. Sweep up: sort each row by the mean position of its children
//  4. Repeat for a fixed number of passes and keep the best order seen
//
// Ties are broken by ascending node ID and a node without neighbors in the
// reference row keeps its current index as its barycenter. The result is a
// pure function of the graph.
//
// # Usage
//
//	var o order.Orderer = order.Barycenter{Passes: 4}
//	orders := o.OrderRows(g) // map[row][]nodeID
//
// The graph must be in the form produced by transform.Prepare: acyclic, with
// every edge connecting consecutive rows.
package order
