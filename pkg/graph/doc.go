// Package graph defines the caller-side architecture graph and its file
// formats.
//
// A [Graph] is what classifiers produce, what the HTTP API accepts and
// returns, and what the CLI reads and writes. Nodes carry a [NodeData]
// payload (label, description, file list, color) that the layout engine
// never sees; the engine only receives IDs and sizes.
//
// # Serialization
//
// Graphs are stored as JSON or YAML, chosen by file extension:
//
//	{
//	  "nodes": [{"id": "api", "data": {"label": "API", "files": ["api/main.go"]}}],
//	  "edges": [{"id": "api->db", "source": "api", "target": "db"}],
//	  "direction": "TB"
//	}
//
// Common operations:
//
//	g, _ := graph.ReadFile("arch.yaml")     // File → Graph
//	_ = graph.WriteFile(g, "arch.json")     // Graph → File
//	data, _ := graph.Marshal(g, graph.FormatJSON)
//
// # Layout Bridge
//
// [LayoutInput] sizes each node with a [sizing.Sizer] and builds engine input;
// [ApplyPositions] merges the engine's positions back into a copy of the
// graph. Positions are top-left corners in pixels.
package graph
