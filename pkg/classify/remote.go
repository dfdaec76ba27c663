package classify

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"slices"
	"strings"

	"github.com/matzehuels/archgraph/pkg/buildinfo"
	apperrors "github.com/matzehuels/archgraph/pkg/errors"
	"github.com/matzehuels/archgraph/pkg/graph"
	"github.com/matzehuels/archgraph/pkg/httputil"
)

// Remote asks an external classification service to group files.
//
// The service receives {"files": [...]} as a JSON POST and answers with a
// graph in the [graph.Graph] wire format. Transient failures are retried by
// the client. Responses are cached by service URL and sorted file list when
// Cache is set.
type Remote struct {
	URL    string
	Client *httputil.Client
	// Cache stores responses. Nil disables caching.
	Cache *httputil.Cache
}

// NewRemote creates a Remote for url. A non-empty token is sent as a bearer
// Authorization header.
func NewRemote(url, token string, cache *httputil.Cache) *Remote {
	headers := map[string]string{"User-Agent": "archgraph/" + buildinfo.Version}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}
	var ns *httputil.Cache
	if cache != nil {
		ns = cache.Namespace("classify:")
	}
	return &Remote{URL: url, Client: httputil.NewClient(headers), Cache: ns}
}

type remoteRequest struct {
	Files []string `json:"files"`
}

// Classify implements [Classifier].
func (r *Remote) Classify(ctx context.Context, files []string) (graph.Graph, error) {
	if err := apperrors.ValidateFiles(files); err != nil {
		return graph.Graph{}, err
	}
	if err := apperrors.ValidateURL(r.URL); err != nil {
		return graph.Graph{}, apperrors.Wrap(apperrors.ErrCodeClassifier, err, "classifier url")
	}

	sorted := slices.Clone(files)
	slices.Sort(sorted)
	key := responseKey(r.URL, sorted)

	var g graph.Graph
	if r.Cache != nil {
		if ok, _ := r.Cache.Get(key, &g); ok {
			return g, nil
		}
	}

	if err := r.Client.PostJSON(ctx, r.URL, remoteRequest{Files: sorted}, &g); err != nil {
		return graph.Graph{}, classifyError(err)
	}
	if err := checkResponse(g); err != nil {
		return graph.Graph{}, err
	}
	if r.Cache != nil {
		_ = r.Cache.Set(key, g)
	}
	return g, nil
}

func responseKey(url string, sorted []string) string {
	h := sha256.New()
	h.Write([]byte(url))
	h.Write([]byte{0})
	h.Write([]byte(strings.Join(sorted, "\n")))
	return hex.EncodeToString(h.Sum(nil))
}

func classifyError(err error) error {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, httputil.ErrRateLimited):
		return apperrors.Wrap(apperrors.ErrCodeRateLimited, err, "classifier")
	case errors.Is(err, httputil.ErrNetwork):
		return apperrors.Wrap(apperrors.ErrCodeNetwork, err, "classifier")
	default:
		return apperrors.Wrap(apperrors.ErrCodeClassifier, err, "classifier")
	}
}

// checkResponse rejects graphs the layout engine would refuse anyway, so the
// error points at the classifier rather than the layout.
func checkResponse(g graph.Graph) error {
	seen := make(map[string]struct{}, len(g.Nodes))
	for i, n := range g.Nodes {
		if n.ID == "" {
			return apperrors.New(apperrors.ErrCodeClassifier, "classifier returned node %d without id", i)
		}
		if _, dup := seen[n.ID]; dup {
			return apperrors.New(apperrors.ErrCodeClassifier, "classifier returned duplicate node %q", n.ID)
		}
		seen[n.ID] = struct{}{}
	}
	return nil
}
