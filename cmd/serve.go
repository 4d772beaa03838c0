package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/KaramelBytes/listcutter-cli/internal/api"
	"github.com/spf13/cobra"
)

var (
	serveAddr      string
	serveDelimiter string
	serveMaxRows   int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve column listing, query compilation and crosstabs over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := currentConfig()
		addr := c.ListenAddr
		if serveAddr != "" {
			addr = serveAddr
		}
		opt, err := datasetOptions(cmd, serveDelimiter, serveMaxRows)
		if err != nil {
			return err
		}
		h := api.NewHandler(api.Options{
			DefaultTable:   c.DefaultTable,
			FormatSQL:      c.FormatSQL,
			MaxUploadBytes: c.MaxUploadBytes,
			Dataset:        opt,
		}, logger)
		e := api.NewServer(h)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return api.Serve(ctx, e, addr, logger)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config listen_addr)")
	serveCmd.Flags().StringVar(&serveDelimiter, "delimiter", "", "CSV delimiter for uploads: ',' | ';' | 'tab'")
	serveCmd.Flags().IntVar(&serveMaxRows, "max-rows", 100000, "maximum upload rows to read (0 = unlimited)")
}
