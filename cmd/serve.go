package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/folio-cli/internal/adapters/api"
	"github.com/kamal-hamza/folio-cli/internal/adapters/visits"
	"github.com/kamal-hamza/folio-cli/internal/site"
	"github.com/kamal-hamza/folio-cli/pkg/ui"
)

// envVisitorSalt keeps visitor hashes stable across restarts
const envVisitorSalt = "FOLIO_VISITOR_SALT"

var (
	serveAddr    string
	serveNoTrack bool

	visitsTop       int
	visitsOlderThan time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the public portfolio page",
	Long: `Serve the public portfolio page and contact form, rendered from the backend.

Page views are counted in a local SQLite file unless --no-track is given or
track_visitors is false. Addresses are stored only as salted hashes, and
visitors sending DNT: 1 are never counted.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var visitsCmd = &cobra.Command{
	Use:   "visits",
	Short: "Show page view counts from the local visitor store",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openVisits()
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := getContext()
		views, visitors, err := store.Summary(ctx)
		if err != nil {
			return err
		}
		fmt.Println(ui.RenderKeyValue("Page views", strconv.Itoa(views)))
		fmt.Println(ui.RenderKeyValue("Unique visitors", strconv.Itoa(visitors)))

		paths, err := store.TopPaths(ctx, visitsTop)
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			return nil
		}
		fmt.Println()
		t := ui.NewTable([]ui.TableColumn{
			{Header: "PATH", Max: 60},
			{Header: "VIEWS", Align: "right"},
		})
		for _, p := range paths {
			t.AddRow(p.Path, strconv.Itoa(p.Views))
		}
		fmt.Print(t.Render())
		return nil
	},
}

var visitsPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete visits older than a duration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openVisits()
		if err != nil {
			return err
		}
		defer store.Close()

		n, err := store.Prune(getContext(), visitsOlderThan)
		if err != nil {
			return err
		}
		fmt.Println(ui.FormatSuccess(fmt.Sprintf("Removed %d visits", n)))
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from server_addr)")
	serveCmd.Flags().BoolVar(&serveNoTrack, "no-track", false, "Do not count page views")

	visitsCmd.Flags().IntVar(&visitsTop, "top", 10, "Number of paths to show")
	visitsPruneCmd.Flags().DurationVar(&visitsOlderThan, "older-than", 90*24*time.Hour, "Age of the visits to delete")
	visitsCmd.AddCommand(visitsPruneCmd)

	rootCmd.AddCommand(serveCmd, visitsCmd)
}

func visitsPath() string {
	if appConfig.VisitsDB != "" {
		return appConfig.VisitsDB
	}
	return appWorkspace.VisitsDBPath()
}

func openVisits() (*visits.Store, error) {
	return visits.Open(visitsPath())
}

func runServe(cmd *cobra.Command, args []string) error {
	addr := serveAddr
	if addr == "" {
		addr = appConfig.ServerAddr
	}

	opts := site.Options{
		Sources: site.Sources{
			About:      app.Client,
			Projects:   api.Projects(app.Client),
			Experience: api.Experience(app.Client),
			Skills:     api.Skills(app.Client),
		},
		Contact:  app.Contacts,
		Salt:     os.Getenv(envVisitorSalt),
		Logger:   app.Logger,
		Timeout:  appConfig.PublicTimeout(),
		Backend:  app.Client.BaseURL(),
		Accesses: os.Stderr,
	}

	if appConfig.TrackVisitors && !serveNoTrack {
		store, err := openVisits()
		if err != nil {
			return err
		}
		defer store.Close()
		opts.Visits = store
	}

	srv, err := site.New(opts)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println(ui.FormatRocket(fmt.Sprintf("Serving portfolio on http://%s (backend %s)", addr, app.Client.BaseURL())))
	return srv.ListenAndServe(ctx, addr)
}
