package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lumavid/captionpipe/internal/service"
)

var importLanguage string

var importCmd = &cobra.Command{
	Use:   "import <video-id>",
	Short: "Publish a generated temp artifact and register it",
	Long: `Copy the temp artifact of a video into the published captions directory
under {video_id}_{language}.vtt and upsert the registry row. Without
--language the caption language is detected from the cue text.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVarP(&importLanguage, "language", "l", "", "caption language code (default: detect from text)")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	importer := service.NewImporter(store, newLocator(cfg))
	record, err := importer.Import(cmd.Context(), args[0], importLanguage)
	if err != nil {
		return reportFailure(err)
	}

	fmt.Printf("imported %s (%s) -> %s\n", record.VideoID, record.Language, record.FilePath)
	return nil
}
