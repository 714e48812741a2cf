package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"fable/internal/pkg/comfyui"
	"fable/internal/pkg/storage"
	"fable/internal/pkg/storage/local"
	"fable/internal/pkg/storytools"
	"fable/internal/service"
)

var decomposeFlags struct {
	in            string
	out           string
	title         string
	encoding      string
	style         string
	engine        string
	customStyle   string
	density       int
	maxSceneChars int
	extraNames    []string
	submit        bool
	workflow      string
}

var decomposeCmd = &cobra.Command{
	Use:   "decompose",
	Short: "Decompose a novel file without starting the server",
	Long: `Run the full decomposition pipeline on a local text file.
Results are written as JSON documents under --out (when given),
and a production plan summary is printed to stdout.
No MongoDB or Redis is required in this mode.`,
	RunE: runDecompose,
}

func init() {
	rootCmd.AddCommand(decomposeCmd)

	flags := decomposeCmd.Flags()

	flags.StringVarP(&decomposeFlags.in, "in", "i", "", "input novel file (txt)")
	flags.StringVarP(&decomposeFlags.out, "out", "o", "", "output directory for JSON documents (empty: print summary only)")
	flags.StringVar(&decomposeFlags.title, "title", "", "run title (default: input file name)")
	flags.StringVar(&decomposeFlags.encoding, "encoding", "", "source encoding (default: auto-detect)")
	flags.StringVar(&decomposeFlags.style, "style", "", "visual style (cinematic/anime/...)")
	flags.StringVar(&decomposeFlags.engine, "engine", "", "image engine (flux/sdxl/...)")
	flags.StringVar(&decomposeFlags.customStyle, "custom-style", "", "extra style text appended to every prompt")
	flags.IntVar(&decomposeFlags.density, "density", 0, "base shots per scene (0: by scene type)")
	flags.IntVar(&decomposeFlags.maxSceneChars, "max-scene-chars", 0, "scene character budget (0: default)")
	flags.StringSliceVar(&decomposeFlags.extraNames, "extra-names", nil, "extra character names, 'Name' or 'Name: description'")
	flags.BoolVar(&decomposeFlags.submit, "submit", false, "submit shot prompts to the configured ComfyUI host")
	flags.StringVar(&decomposeFlags.workflow, "workflow", "", "workflow JSON template (default: comfyui.workflow_json)")

	_ = decomposeCmd.MarkFlagRequired("in")
}

func runDecompose(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	ctx := context.Background()

	raw, err := os.ReadFile(decomposeFlags.in)
	if err != nil {
		return fmt.Errorf("read input file: %w", err)
	}

	// --out 指定时把产物写到本地目录（runs/<run_id>/*.json）
	var store storage.Storage
	if decomposeFlags.out != "" {
		store, err = local.NewLocalStorage(decomposeFlags.out, "")
		if err != nil {
			return fmt.Errorf("init output directory: %w", err)
		}
	}

	// --submit 指定时构建渲染客户端
	var render *comfyui.Client
	if decomposeFlags.submit {
		if cfg.ComfyUI.APIURL == "" {
			return fmt.Errorf("--submit requires comfyui.api_url (FABLE_COMFYUI_API_URL)")
		}
		render = comfyui.NewClient(&comfyui.Config{
			APIURL:     cfg.ComfyUI.APIURL,
			Timeout:    cfg.ComfyUI.Timeout,
			MaxRetries: cfg.ComfyUI.MaxRetries,
			RetryDelay: cfg.ComfyUI.RetryDelay,
			RatePerSec: cfg.ComfyUI.RatePerSec,
		})
	}

	svc := service.NewDecomposeService(cfg, nil, nil, store, render)

	result, err := svc.Decompose(ctx, &service.DecomposeRequest{
		Title:         decomposeFlags.title,
		Text:          string(raw),
		SourceName:    filepath.Base(decomposeFlags.in),
		Encoding:      decomposeFlags.encoding,
		ExtraNames:    decomposeFlags.extraNames,
		MaxSceneChars: decomposeFlags.maxSceneChars,
		Settings: storytools.PipelineSettings{
			ImageStyle:        decomposeFlags.style,
			ImageEngine:       decomposeFlags.engine,
			CustomStylePrompt: decomposeFlags.customStyle,
			BrollDensity:      decomposeFlags.density,
		},
	})
	if err != nil {
		return err
	}

	// 制作计划摘要
	stats := storytools.PipelineStats{
		NumScenes:     len(result.Scenes),
		TotalShots:    result.Summary.TotalShots,
		TotalSeconds:  result.Summary.EstimatedDurationSeconds,
		NumCharacters: len(result.Characters),
	}
	fmt.Println(storytools.RenderSummary(result.Summary, stats))
	fmt.Printf("\nrun id: %s\n", result.RunID)
	if decomposeFlags.out != "" {
		fmt.Printf("documents: %s\n", filepath.Join(decomposeFlags.out, "runs", result.RunID))
	}

	// 渲染提交
	if render != nil {
		workflowPath := decomposeFlags.workflow
		if workflowPath == "" {
			workflowPath = cfg.ComfyUI.WorkflowJSON
		}
		workflow, err := comfyui.LoadWorkflowJSON(workflowPath)
		if err != nil {
			return fmt.Errorf("load workflow template: %w", err)
		}

		var shots []comfyui.ShotSubmission
		for _, scenePrompts := range result.Prompts {
			for _, p := range scenePrompts {
				shots = append(shots, comfyui.ShotSubmission{
					ShotID: p.ID,
					Prompt: p.Prompt,
				})
			}
		}

		submitted, failed := 0, 0
		for _, r := range render.SubmitShots(ctx, workflow, shots) {
			if r.Success {
				submitted++
			} else {
				failed++
				log.Warn().Str("shot_id", r.ShotID).Str("error", r.Error).Msg("shot submission failed")
			}
		}
		fmt.Printf("render: %d submitted, %d failed\n", submitted, failed)
	}

	return nil
}
