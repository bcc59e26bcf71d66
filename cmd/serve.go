package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/alantheprice/choices/pkg/events"
	"github.com/alantheprice/choices/pkg/itemfile"
	"github.com/alantheprice/choices/pkg/itemvalue"
	"github.com/alantheprice/choices/pkg/webui"
)

var (
	servePort  int
	serveWatch bool
)

var serveCmd = &cobra.Command{
	Use:   "serve <file>",
	Short: "Serve items over HTTP with a live event stream",
	Long: `Starts a web server exposing GET /api/items, POST /api/evaluate, the /ws event
stream, /health and, when metrics are enabled in the config, /metrics. With
--watch the file is reloaded whenever it changes.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		doc, err := itemfile.Load(path)
		if err != nil {
			return err
		}
		if doc.Locale == "" {
			doc.Locale = outputLocale("")
		}

		port := activeConfig.ServerPort
		if cmd.Flags().Changed("port") {
			port = servePort
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		bus := events.NewEventBus()
		var server *webui.Server
		if metricsRegistry != nil {
			server = webui.NewServer(doc, bus, metricsRegistry, port)
		} else {
			server = webui.NewServer(doc, bus, nil, port)
		}
		prev := itemvalue.SetObserver(nil)
		itemvalue.SetObserver(itemvalue.MultiObserver{prev, server.Owner()})
		defer itemvalue.SetObserver(prev)

		if err := server.Start(ctx); err != nil {
			return err
		}
		if serveWatch {
			debounce := time.Duration(activeConfig.WatchDebounceMs) * time.Millisecond
			if err := server.WatchFile(ctx, path, debounce); err != nil {
				return err
			}
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Serving %s at http://localhost:%d\n", path, port)
		<-ctx.Done()
		return server.Shutdown()
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "port to listen on (default from config, 8090)")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "reload the file when it changes")
	rootCmd.AddCommand(serveCmd)
}
