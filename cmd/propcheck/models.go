package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/propcheck-dev/propcheck/internal/domain/values"
	"github.com/propcheck-dev/propcheck/internal/infrastructure/config"
)

var modelsGraphPath string

// modelsCmd represents the models command
var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the models in a compiled project graph",
	Long: `Load a compiled model graph and print an inventory of its nodes grouped
by kind. Useful for checking what the graph actually contains before
validating against it.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		return runModelsAction()
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)

	modelsCmd.Flags().StringVarP(&modelsGraphPath, "graph", "g", "", "Path to the compiled model graph JSON (required)")
	_ = modelsCmd.MarkFlagRequired("graph")
}

func runModelsAction() error {
	loader, err := config.NewGraphLoader()
	if err != nil {
		return err
	}
	graph, err := loader.Load(modelsGraphPath)
	if err != nil {
		return fmt.Errorf("failed to load graph: %w", err)
	}

	fmt.Printf("Graph: %d nodes, %d entities\n\n", graph.NodeCount(), graph.EntityCount())

	kinds := []values.NodeKind{
		values.KindPropensity,
		values.KindTraining,
		values.KindPrediction,
		values.KindEntityVarItem,
		values.KindInputVarItem,
		values.KindNestedColumn,
		values.KindInput,
		values.KindSQLTemplate,
		values.KindIDStitcher,
		values.KindFeatureView,
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KIND\tNAME\tPATH\tFEATURE\tEVENT STREAM")
	for _, kind := range kinds {
		for _, node := range graph.NodesByKind(kind) {
			fmt.Fprintf(w, "%s\t%s\t%s\t%v\t%v\n",
				node.Kind, node.Name, node.Path, node.IsFeature, node.IsEventStream)
		}
	}
	return w.Flush()
}
