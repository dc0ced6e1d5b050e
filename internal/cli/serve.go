package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tessro/auralyn/internal/saavn"
	"github.com/tessro/auralyn/internal/server"
)

var (
	servePort     int
	serveUpstream string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the search proxy",
	Long: `Run the HTTP search proxy in front of the song catalog.

Endpoints:
  GET /                       health check
  GET /api/music/search?q=    normalized song list (never fails, [] on error)

The port comes from --port, AURALYN_SERVER_PORT, PORT or server.port.`,
	Annotations: map[string]string{annotationConsoleLog: "true"},
	RunE:        runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "port to listen on")
	serveCmd.Flags().StringVar(&serveUpstream, "upstream", "", "catalog API base URL")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sc := cfg.Server
	if servePort != 0 {
		sc.Port = servePort
	}
	if serveUpstream != "" {
		sc.UpstreamURL = serveUpstream
	}

	upstream := saavn.New(sc.UpstreamURL, time.Duration(sc.UpstreamTimeout)*time.Second, log)
	srv := server.New(sc, upstream, log)

	if !JSONOutput() {
		fmt.Fprintf(os.Stderr, "Search proxy on http://localhost:%d (upstream %s)\n", sc.Port, sc.UpstreamURL)
	}
	return srv.Run(ctx)
}
