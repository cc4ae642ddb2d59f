package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "captionpipe",
	Short: "Caption artifact pipeline",
	Long: `captionpipe derives spoken-word subtitles from source videos through an
external transcription engine and keeps the caption registry, the temp
working directory and the published captions directory consistent with each
other.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// optional .env next to the working directory
		_ = godotenv.Load()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
