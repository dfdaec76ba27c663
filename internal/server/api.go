package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	archerrors "github.com/matzehuels/archgraph/pkg/errors"
	"github.com/matzehuels/archgraph/pkg/graph"
	"github.com/matzehuels/archgraph/pkg/layout"
	"github.com/matzehuels/archgraph/pkg/pipeline"
)

// LayoutOptions are the option fields shared by every layout request.
type LayoutOptions struct {
	Direction string         `json:"direction,omitempty" validate:"omitempty,oneof=TB LR"`
	Strategy  string         `json:"strategy,omitempty" validate:"omitempty,oneof=layered graphviz"`
	Sizing    string         `json:"sizing,omitempty" validate:"omitempty,oneof=default compact"`
	Config    *layout.Config `json:"config,omitempty"`
	Refresh   bool           `json:"refresh,omitempty"`
}

// GenerateRequest is the body of POST /api/v1/generate.
type GenerateRequest struct {
	Files []string `json:"files" validate:"required,min=1,max=20000,dive,required"`
	LayoutOptions
}

// RelayoutRequest is the body of POST /api/v1/relayout.
type RelayoutRequest struct {
	Nodes []graph.Node `json:"nodes" validate:"max=5000"`
	Edges []graph.Edge `json:"edges" validate:"max=50000"`
	LayoutOptions
}

// BatchRequest is the body of POST /api/v1/relayout/batch.
type BatchRequest struct {
	Requests []RelayoutRequest `json:"requests" validate:"required,min=1,max=100,dive"`
}

// BatchResponse holds positioned graphs in request order.
type BatchResponse struct {
	Graphs []graph.Graph `json:"graphs"`
}

// LayoutRequest is the body of POST /api/v1/layout.
type LayoutRequest struct {
	Nodes     []layout.Node  `json:"nodes" validate:"max=5000"`
	Edges     []layout.Edge  `json:"edges" validate:"max=50000"`
	Direction string         `json:"direction,omitempty" validate:"omitempty,oneof=TB LR"`
	Strategy  string         `json:"strategy,omitempty" validate:"omitempty,oneof=layered graphviz"`
	Config    *layout.Config `json:"config,omitempty"`
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// fieldCodes assigns specific codes to fields whose failures have one.
var fieldCodes = map[string]archerrors.Code{
	"direction": archerrors.ErrCodeInvalidDirection,
	"strategy":  archerrors.ErrCodeInvalidStrategy,
	"sizing":    archerrors.ErrCodeInvalidConfig,
}

// decode reads a JSON body into v and validates it.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return archerrors.New(archerrors.ErrCodePayloadTooLarge, "request body exceeds %d bytes", tooLarge.Limit)
		}
		return archerrors.Wrap(archerrors.ErrCodeInvalidInput, err, "malformed JSON body")
	}
	if _, err := dec.Token(); err != io.EOF {
		return archerrors.New(archerrors.ErrCodeInvalidInput, "request body must hold a single JSON object")
	}
	return s.check(v)
}

func (s *Server) check(v any) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return archerrors.Wrap(archerrors.ErrCodeInvalidInput, err, "invalid request")
	}
	fe := verrs[0]
	code, ok := fieldCodes[fe.Field()]
	if !ok {
		code = archerrors.ErrCodeInvalidInput
	}
	return archerrors.New(code, "%s", describe(fe))
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("invalid %s %q: want one of %s", field, fe.Value(), strings.ReplaceAll(fe.Param(), " ", ", "))
	case "min":
		return fmt.Sprintf("%s needs at least %s entries", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s allows at most %s entries", field, fe.Param())
	}
	return fmt.Sprintf("%s failed %q validation", field, fe.Tag())
}

func (o LayoutOptions) pipeline(defaults pipeline.Options) pipeline.Options {
	out := defaults
	if o.Direction != "" {
		out.Direction = o.Direction
	}
	if o.Strategy != "" {
		out.Strategy = o.Strategy
	}
	if o.Sizing != "" {
		out.Sizing = o.Sizing
	}
	if o.Config != nil {
		out.Config = *o.Config
	}
	out.Refresh = o.Refresh
	return out
}
