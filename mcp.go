package main

import (
	"errors"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"colorstory/mcpserver"
)

func mcpCmd() *cobra.Command {
	var uid string
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start the MCP server over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if uid == "" {
				return errors.New("--as is required")
			}
			ctx := cmd.Context()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			a, err := newApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			server := mcpserver.NewServer(a.service, uid, version, a.log)
			return server.Run(ctx, &sdk.StdioTransport{})
		},
	}
	cmd.Flags().StringVar(&uid, "as", "", "user id every tool call runs as")
	return cmd
}
