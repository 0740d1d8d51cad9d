package entities

// ProjectConfig is the raw project configuration relevant to validation,
// assembled from the project file and every model YAML in the models folder.
// It is loaded once per run and treated as immutable.
type ProjectConfig struct {
	Name        string
	Models      []PropensityModelSpec
	InputTables []InputTableConfig
}

// PropensityModelSpec is the declared configuration of one propensity model.
//
// PredictWindowDays is a pointer because "not declared" and "declared zero"
// are different findings.
type PropensityModelSpec struct {
	Name              string
	Entity            string
	PredictWindowDays *int
	Inputs            []string
}

// InputTableConfig describes one configured input table.
//
// An empty OccurredAtColumn marks the table as non-event-stream by
// configuration, independent of what the graph metadata claims; both must be
// checked.
type InputTableConfig struct {
	Name             string
	WarehouseTable   string
	OccurredAtColumn string
}

// FindPropensityModel locates a propensity model spec by name.
func (c *ProjectConfig) FindPropensityModel(name string) (*PropensityModelSpec, bool) {
	for i := range c.Models {
		if c.Models[i].Name == name {
			return &c.Models[i], true
		}
	}
	return nil, false
}

// ModelNames returns all declared propensity model names in declaration order.
func (c *ProjectConfig) ModelNames() []string {
	names := make([]string, 0, len(c.Models))
	for i := range c.Models {
		names = append(names, c.Models[i].Name)
	}
	return names
}

// InputTableMap indexes input tables by name. Duplicates keep the first
// declaration.
func (c *ProjectConfig) InputTableMap() map[string]InputTableConfig {
	m := make(map[string]InputTableConfig, len(c.InputTables))
	for _, t := range c.InputTables {
		if _, exists := m[t.Name]; !exists {
			m[t.Name] = t
		}
	}
	return m
}
