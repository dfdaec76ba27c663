package server

import (
	"net/http"

	"github.com/matzehuels/archgraph/pkg/buildinfo"
	"github.com/matzehuels/archgraph/pkg/graph"
	"github.com/matzehuels/archgraph/pkg/pipeline"
)

// CacheHeader reports whether the layout was served from the cache.
const CacheHeader = "X-Cache"

func setCacheHeader(w http.ResponseWriter, hit bool) {
	if hit {
		w.Header().Set(CacheHeader, "HIT")
	} else {
		w.Header().Set(CacheHeader, "MISS")
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.runner.Generate(r.Context(), pipeline.GenerateRequest{
		Files:   req.Files,
		Options: req.LayoutOptions.pipeline(s.opts.Defaults),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	setCacheHeader(w, res.CacheHit)
	writeJSON(w, http.StatusOK, res.Graph)
}

func (s *Server) handleRelayout(w http.ResponseWriter, r *http.Request) {
	var req RelayoutRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.runner.Relayout(r.Context(), s.relayoutRequest(req))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	setCacheHeader(w, res.CacheHit)
	writeJSON(w, http.StatusOK, res.Graph)
}

func (s *Server) handleRelayoutBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	reqs := make([]pipeline.RelayoutRequest, len(req.Requests))
	for i, rr := range req.Requests {
		reqs[i] = s.relayoutRequest(rr)
	}
	results, err := s.runner.RelayoutBatch(r.Context(), reqs, s.opts.BatchLimit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp := BatchResponse{Graphs: make([]graph.Graph, len(results))}
	for i, res := range results {
		resp.Graphs[i] = res.Graph
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req LayoutRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	opts := LayoutOptions{Direction: req.Direction, Strategy: req.Strategy, Config: req.Config}
	res, err := s.runner.Layout(r.Context(), pipeline.LayoutRequest{
		Nodes:   req.Nodes,
		Edges:   req.Edges,
		Options: opts.pipeline(s.opts.Defaults),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	setCacheHeader(w, res.CacheHit)
	writeJSON(w, http.StatusOK, res.Layout)
}

func (s *Server) relayoutRequest(req RelayoutRequest) pipeline.RelayoutRequest {
	return pipeline.RelayoutRequest{
		Graph:   graph.Graph{Nodes: req.Nodes, Edges: req.Edges},
		Options: req.LayoutOptions.pipeline(s.opts.Defaults),
	}
}
