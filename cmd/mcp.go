package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/ziadkadry99/pagenav/internal/mcp"
	"github.com/ziadkadry99/pagenav/internal/progress"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start an MCP server on stdio",
	Long: `Starts a Model Context Protocol server on stdio that exposes the
document outlines to agents. Live sessions are only reachable through the
/mcp endpoint of "pagenav serve".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger, err := newLogger(cfg, true)
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		lib, err := loadLibrary(cmd.Context(), cfg, logger, progress.Discard{})
		if err != nil {
			return err
		}

		mcpserver.Version = Version
		fmt.Fprintf(os.Stderr, "pagenav MCP server started on stdio (docs=%s, documents=%d)\n", lib.Root(), lib.Len())

		return mcpserver.NewServer(lib, nil).Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
