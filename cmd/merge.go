package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"fable/internal/service"
)

var mergeFlags struct {
	parts []string
	out   string
}

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge decomposition documents from multiple runs",
	Long: `Merge the exported documents of several runs into a single set.
Long novels can be decomposed part by part (one run each); this command
stitches the per-part scenes, shot prompts, narration and SFX cues back
together, renumbering scene indexes and IDs across part boundaries.
Each --part directory is a run export (the directory holding scenes.json).`,
	RunE: runMerge,
}

func init() {
	rootCmd.AddCommand(mergeCmd)

	flags := mergeCmd.Flags()

	flags.StringSliceVar(&mergeFlags.parts, "part", nil, "run export directory, in reading order (repeatable)")
	flags.StringVarP(&mergeFlags.out, "out", "o", "", "output directory for merged documents")

	_ = mergeCmd.MarkFlagRequired("part")
	_ = mergeCmd.MarkFlagRequired("out")
}

func runMerge(cmd *cobra.Command, args []string) error {
	merged, err := service.MergeExportedRuns(mergeFlags.parts)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(mergeFlags.out, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	documents := map[string]interface{}{
		"scenes.json":    merged.Scenes,
		"prompts.json":   merged.Prompts,
		"narration.json": merged.Narration,
		"sfx.json":       merged.SFX,
	}
	for name, doc := range documents {
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("encode %s: %w", name, err)
		}
		path := filepath.Join(mergeFlags.out, name)
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}

	totalShots := 0
	for _, prompts := range merged.Prompts {
		totalShots += len(prompts)
	}
	fmt.Printf("merged %d parts: %d scenes, %d shots\n", len(mergeFlags.parts), len(merged.Scenes), totalShots)
	fmt.Printf("documents: %s\n", mergeFlags.out)
	return nil
}
