package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath string
	devMode    bool
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	root := newRootCmd()
	if err := root.Execute(); err != nil {
		root.PrintErrln("Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "colorstory",
		Short:         "Turn paint palettes into narrated color stories",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.Version = version
	root.SetVersionTemplate("{{.Version}}\n")
	root.PersistentFlags().StringVar(&configPath, "config", "colorstory.yaml", "path to the YAML config file")
	root.PersistentFlags().BoolVar(&devMode, "dev", false, "use in-memory stores and the offline mock provider")

	root.AddCommand(serveCmd())
	root.AddCommand(mcpCmd())
	root.AddCommand(generateCmd())
	root.AddCommand(versionCmd())
	return root
}
