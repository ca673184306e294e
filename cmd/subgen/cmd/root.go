package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"subgen/cmd/subgen/cmd/export"
	"subgen/cmd/subgen/cmd/serve"
	"subgen/cmd/subgen/cmd/transcribe"
	"subgen/cmd/subgen/cmd/version"
)

var Verbose bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "subgen",
	Short: "Generate, translate and burn subtitles for videos",
	Long: `Generate, translate and burn subtitles for videos.
- Transcribe local video files or remote URLs with the configured speech-to-text provider
- Emit SRT subtitle files
- Burn styled subtitles back into the video with ffmpeg
- Run the HTTP API server`,
	TraverseChildren: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serve.Cmd)
	rootCmd.AddCommand(transcribe.Cmd)
	rootCmd.AddCommand(export.Cmd)
	rootCmd.AddCommand(version.Cmd)

	rootCmd.PersistentFlags().BoolVarP(&Verbose, "verbose", "V", false, "verbose output")
}
