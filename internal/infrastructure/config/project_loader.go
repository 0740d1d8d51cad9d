// Package config provides infrastructure for loading project configuration
// and model graph descriptions from disk.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/propcheck-dev/propcheck/internal/application/apperrors"
	"github.com/propcheck-dev/propcheck/internal/application/ports"
	"github.com/propcheck-dev/propcheck/internal/domain/entities"
)

const projectFileName = "pb_project.yaml"

// projectFile is the wire shape of the project file.
type projectFile struct {
	Name         string   `yaml:"name"`
	ModelFolders []string `yaml:"model_folders"`
}

// modelsFile is the wire shape of a single YAML file inside the models
// folder. Any of the sections may be absent.
type modelsFile struct {
	Inputs []struct {
		Name        string `yaml:"name"`
		AppDefaults struct {
			Table         string `yaml:"table"`
			OccurredAtCol string `yaml:"occurred_at_col"`
		} `yaml:"app_defaults"`
	} `yaml:"inputs"`
	Models []struct {
		Name      string `yaml:"name"`
		ModelType string `yaml:"model_type"`
		ModelSpec struct {
			EntityKey string   `yaml:"entity_key"`
			Inputs    []string `yaml:"inputs"`
			Training  struct {
				PredictWindowDays *int `yaml:"predict_window_days"`
			} `yaml:"training"`
		} `yaml:"model_spec"`
	} `yaml:"models"`
	VarGroups []yaml.MapSlice `yaml:"var_groups"`
}

// ProjectLoader assembles a ProjectConfig from a project directory: the
// project file plus every YAML file in the first configured models folder.
type ProjectLoader struct {
	logger *slog.Logger
}

var _ ports.ProjectLoader = (*ProjectLoader)(nil)

// NewProjectLoader creates a new project loader.
func NewProjectLoader(logger *slog.Logger) *ProjectLoader {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProjectLoader{logger: logger}
}

// Load reads the project file and merges the inputs and models sections of
// every YAML file in the models folder. Files that fail to parse are skipped
// with a warning so one broken file does not hide the rest of the project.
func (l *ProjectLoader) Load(projectDir string) (*entities.ProjectConfig, error) {
	root, err := os.OpenRoot(projectDir)
	if err != nil {
		return nil, apperrors.NewConfigurationError("project", "failed to open project directory", err)
	}
	defer func() {
		_ = root.Close() // Best-effort cleanup
	}()

	project, err := l.loadProjectFile(root)
	if err != nil {
		return nil, err
	}

	modelsFolder := "models"
	if len(project.ModelFolders) > 0 && project.ModelFolders[0] != "" {
		modelsFolder = project.ModelFolders[0]
	}

	cfg := &entities.ProjectConfig{Name: project.Name}
	if err := l.mergeModelsFolder(root, modelsFolder, cfg); err != nil {
		return nil, err
	}

	if len(cfg.Models) == 0 && len(cfg.InputTables) == 0 {
		return nil, apperrors.NewConfigurationError("models",
			fmt.Sprintf("no models or inputs configuration found in any YAML files in %s", modelsFolder), nil)
	}

	return cfg, nil
}

func (l *ProjectLoader) loadProjectFile(root *os.Root) (*projectFile, error) {
	file, err := root.Open(projectFileName)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.NewConfigurationError("project",
				fmt.Sprintf("%s not found in project directory", projectFileName), err)
		}
		return nil, apperrors.NewConfigurationError("project", "failed to open project file", err)
	}
	defer func() {
		_ = file.Close() // Best-effort cleanup
	}()

	var project projectFile
	if err := yaml.NewDecoder(file).Decode(&project); err != nil && !errors.Is(err, io.EOF) {
		return nil, apperrors.NewConfigurationError("project", "failed to decode project file", err)
	}
	return &project, nil
}

func (l *ProjectLoader) mergeModelsFolder(root *os.Root, modelsFolder string, cfg *entities.ProjectConfig) error {
	entries, err := fs.ReadDir(root.FS(), modelsFolder)
	if err != nil {
		return apperrors.NewConfigurationError("models",
			fmt.Sprintf("models directory %s not found", modelsFolder), err)
	}

	// Directory order is platform-dependent; sort so merge order is stable.
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, entry := range entries {
		if entry.IsDir() || !isYAMLFile(entry.Name()) {
			continue
		}

		path := filepath.Join(modelsFolder, entry.Name())
		data, err := fs.ReadFile(root.FS(), path)
		if err != nil {
			l.logger.Warn("could not read models file", "file", entry.Name(), "error", err)
			continue
		}

		var mf modelsFile
		if err := yaml.Unmarshal(data, &mf); err != nil {
			l.logger.Warn("could not parse models file", "file", entry.Name(), "error", err)
			continue
		}

		for _, in := range mf.Inputs {
			cfg.InputTables = append(cfg.InputTables, entities.InputTableConfig{
				Name:             in.Name,
				WarehouseTable:   in.AppDefaults.Table,
				OccurredAtColumn: in.AppDefaults.OccurredAtCol,
			})
		}
		for _, m := range mf.Models {
			if m.ModelType != "propensity" {
				continue
			}
			cfg.Models = append(cfg.Models, entities.PropensityModelSpec{
				Name:              m.Name,
				Entity:            m.ModelSpec.EntityKey,
				PredictWindowDays: m.ModelSpec.Training.PredictWindowDays,
				Inputs:            m.ModelSpec.Inputs,
			})
		}
	}

	return nil
}

func isYAMLFile(name string) bool {
	return strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")
}
