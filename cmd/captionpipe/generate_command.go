package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lumavid/captionpipe/internal/cue"
	"github.com/lumavid/captionpipe/pkg/file"
)

var (
	generateOutput   string
	generateModel    string
	generateLanguage string
	generateStrategy string
)

var generateCmd = &cobra.Command{
	Use:   "generate <video-file>",
	Short: "Generate a caption file for one video",
	Long: `Extract the audio track of a video, transcribe it and write a WebVTT
caption file. The output path defaults to the video path with a .vtt
extension.`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "", "output cue file path (default: <video>.vtt)")
	generateCmd.Flags().StringVarP(&generateModel, "model", "m", "", "model size: tiny, base, small, medium, large")
	generateCmd.Flags().StringVarP(&generateLanguage, "language", "l", "", "ISO 639-1 language hint (default: auto-detect)")
	generateCmd.Flags().StringVar(&generateStrategy, "strategy", "", "transcriber strategy: local or remote")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	videoPath := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	generator, err := newGenerator(cfg, generateModel, generateLanguage, generateStrategy)
	if err != nil {
		return err
	}

	outputPath := generateOutput
	if outputPath == "" {
		outputPath = file.ReplaceExt(videoPath, cue.Extension)
	}

	if err := generator.GenerateFile(cmd.Context(), videoPath, outputPath); err != nil {
		return reportFailure(err)
	}

	fmt.Printf("wrote %s\n", outputPath)
	return nil
}
