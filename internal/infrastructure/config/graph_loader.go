package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/propcheck-dev/propcheck/internal/application/apperrors"
	"github.com/propcheck-dev/propcheck/internal/application/ports"
	"github.com/propcheck-dev/propcheck/internal/domain/entities"
	"github.com/propcheck-dev/propcheck/internal/domain/values"
)

// graphSchemaVersions is the range of graph description schema versions this
// build understands. Descriptions outside the range are rejected up front so
// a half-understood graph never produces a half-true report.
const graphSchemaVersions = "^1.0"

// graphSchema is the structural contract for a graph description file.
// Unknown fields are allowed; the graph format grows additively.
const graphSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "schema_version": {"type": "string"},
    "entities": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "name": {"type": "string"}
        },
        "required": ["name"]
      }
    },
    "models": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "name": {"type": "string"},
          "path_ref": {"type": "string"},
          "model_type": {"type": "string"},
          "dependencies": {"type": "array", "items": {"type": "string"}},
          "is_feature": {"type": "boolean"},
          "is_event_stream": {"type": "boolean"}
        },
        "required": ["name", "path_ref", "model_type"]
      }
    }
  },
  "required": ["models"]
}`

// Wire shapes for the graph description JSON. Absent fields decode to zero
// values; the domain treats missing and empty the same way.
type graphFile struct {
	SchemaVersion string        `json:"schema_version"`
	Entities      []graphEntity `json:"entities"`
	Models        []graphModel  `json:"models"`
}

type graphEntity struct {
	Name                 string   `json:"name"`
	Description          string   `json:"description"`
	IDColumnName         string   `json:"id_column_name"`
	IDModelRef           string   `json:"id_model_ref"`
	IDTypes              []string `json:"id_types"`
	PathRef              string   `json:"path_ref"`
	DefaultCohortPathRef string   `json:"default_cohort_path_ref"`
}

type graphModel struct {
	Name              string   `json:"name"`
	DisplayName       string   `json:"display_name"`
	ModelType         string   `json:"model_type"`
	PathRef           string   `json:"path_ref"`
	WarehouseViewName string   `json:"warehouse_view_name"`
	Dependencies      []string `json:"dependencies"`
	IsFeature         bool     `json:"is_feature"`
	IsEventStream     bool     `json:"is_event_stream"`
	Entity            string   `json:"entity"`
	EntityKey         string   `json:"entity_key"`
	CohortPathRef     string   `json:"cohort_path_ref"`
	Materialization   struct {
		OutputType string `json:"output_type"`
		RunType    string `json:"run_type"`
		SQLType    string `json:"sql_type"`
	} `json:"materialization"`
	FeatureData struct {
		YAML string `json:"yaml"`
	} `json:"feature_data"`
}

// GraphLoader reads and validates a compiled model graph description.
type GraphLoader struct {
	schema *jsonschema.Schema
}

var _ ports.GraphLoader = (*GraphLoader)(nil)

// NewGraphLoader creates a graph loader with the embedded schema compiled.
func NewGraphLoader() (*GraphLoader, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("graph.json", strings.NewReader(graphSchema)); err != nil {
		return nil, fmt.Errorf("failed to add graph schema resource: %w", err)
	}
	schema, err := compiler.Compile("graph.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile graph schema: %w", err)
	}
	return &GraphLoader{schema: schema}, nil
}

// Load reads a graph description file and builds the indexed model graph.
func (l *GraphLoader) Load(path string) (*entities.ModelGraph, error) {
	dir := filepath.Dir(path)
	base := filepath.Base(path)

	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, apperrors.NewGraphDescriptionError(path, "failed to open graph directory", err)
	}
	defer func() {
		_ = root.Close() // Best-effort cleanup
	}()

	file, err := root.Open(base)
	if err != nil {
		return nil, apperrors.NewGraphDescriptionError(path, "failed to open graph description", err)
	}
	defer func() {
		_ = file.Close() // Best-effort cleanup
	}()

	return l.LoadFromReader(path, file)
}

// LoadFromReader decodes, schema-checks, and indexes a graph description.
func (l *GraphLoader) LoadFromReader(path string, r io.Reader) (*entities.ModelGraph, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, apperrors.NewGraphDescriptionError(path, "failed to read graph description", err)
	}

	// Structural check runs on the raw document, before the typed decode can
	// silently zero out malformed fields.
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, apperrors.NewGraphDescriptionError(path, "invalid JSON", err)
	}
	if err := l.schema.Validate(doc); err != nil {
		return nil, apperrors.NewGraphDescriptionError(path, "schema validation failed", err)
	}

	var gf graphFile
	decoder := json.NewDecoder(bytes.NewReader(data))
	if err := decoder.Decode(&gf); err != nil {
		return nil, apperrors.NewGraphDescriptionError(path, "failed to decode graph description", err)
	}

	if err := checkSchemaVersion(gf.SchemaVersion); err != nil {
		return nil, apperrors.NewGraphDescriptionError(path, "unsupported schema version", err)
	}

	return buildGraph(&gf), nil
}

// checkSchemaVersion gates on the declared schema version. A missing version
// is treated as 1.0.0, the version the format launched with.
func checkSchemaVersion(declared string) error {
	if declared == "" {
		return nil
	}
	version, err := semver.NewVersion(declared)
	if err != nil {
		return fmt.Errorf("schema_version %q is not valid semver: %w", declared, err)
	}
	constraint, err := semver.NewConstraint(graphSchemaVersions)
	if err != nil {
		return fmt.Errorf("invalid supported-version constraint: %w", err)
	}
	if !constraint.Check(version) {
		return fmt.Errorf("schema_version %s is outside supported range %s", declared, graphSchemaVersions)
	}
	return nil
}

func buildGraph(gf *graphFile) *entities.ModelGraph {
	ents := make([]entities.Entity, 0, len(gf.Entities))
	for _, e := range gf.Entities {
		ents = append(ents, entities.Entity{
			Name:                 e.Name,
			Description:          e.Description,
			IDColumnName:         e.IDColumnName,
			IDModelRef:           e.IDModelRef,
			IDTypes:              e.IDTypes,
			PathRef:              e.PathRef,
			DefaultCohortPathRef: e.DefaultCohortPathRef,
		})
	}

	nodes := make([]entities.Node, 0, len(gf.Models))
	for _, m := range gf.Models {
		nodes = append(nodes, entities.Node{
			Name:              m.Name,
			DisplayName:       m.DisplayName,
			Path:              m.PathRef,
			Kind:              values.NodeKind(m.ModelType),
			Entity:            m.Entity,
			EntityKey:         m.EntityKey,
			IsFeature:         m.IsFeature,
			IsEventStream:     m.IsEventStream,
			Dependencies:      m.Dependencies,
			WarehouseViewName: m.WarehouseViewName,
			Materialization: entities.Materialization{
				OutputType: m.Materialization.OutputType,
				RunType:    m.Materialization.RunType,
				SQLType:    m.Materialization.SQLType,
			},
			CohortPathRef:     m.CohortPathRef,
			FeatureDefinition: m.FeatureData.YAML,
		})
	}

	return entities.NewModelGraph(ents, nodes)
}
