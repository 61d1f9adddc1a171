package cmd

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/folio-cli/internal/core/services"
	"github.com/kamal-hamza/folio-cli/pkg/ui"
)

var statsHTML string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show portfolio content statistics",
	Long: `Count what the portfolio currently shows.

Includes:
  - Projects, featured projects and gallery images
  - Experience entries and skills per category
  - Most used technologies
  - Contact submissions (when logged in)

Use --html to write the same figures as interactive charts.`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().StringVar(&statsHTML, "html", "", "Also write charts to this HTML file")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	fmt.Println(ui.FormatRocket("Counting portfolio content..."))

	resp, err := app.Stats.Execute(getContext())
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(ui.FormatTitle("Portfolio Statistics"))
	fmt.Println()

	contacts := "login to see"
	if resp.ContactsKnown {
		contacts = strconv.Itoa(resp.Contacts)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 4, ' ', 0)
	fmt.Fprintf(w, "%s\t%d (%d featured)\n", ui.StyleBold.Render("Projects:"), resp.Projects, resp.FeaturedProjects)
	fmt.Fprintf(w, "%s\t%d\n", ui.StyleBold.Render("Gallery images:"), resp.Images)
	fmt.Fprintf(w, "%s\t%d\n", ui.StyleBold.Render("Experience:"), resp.Experience)
	fmt.Fprintf(w, "%s\t%d\n", ui.StyleBold.Render("Skills:"), resp.Skills)
	fmt.Fprintf(w, "%s\t%s\n", ui.StyleBold.Render("Messages:"), contacts)
	w.Flush()
	fmt.Println()

	fmt.Print(renderBars("Skills by Category", resp.SkillCategories, 0))
	fmt.Print(renderBars("Top Technologies", resp.Technologies, 5))

	if statsHTML != "" {
		f, err := os.Create(statsHTML)
		if err != nil {
			return fmt.Errorf("failed to create chart file: %w", err)
		}
		defer f.Close()
		if err := writeStatsCharts(f, resp); err != nil {
			return err
		}
		fmt.Println(ui.FormatSuccess("Charts written to " + statsHTML))
	}
	return nil
}

// renderBars draws a horizontal bar chart; limit 0 shows every row
func renderBars(title string, counts []services.Count, limit int) string {
	if len(counts) == 0 {
		return ""
	}
	if limit <= 0 || limit > len(counts) {
		limit = len(counts)
	}

	maxCount := 0
	for _, c := range counts {
		if c.Value > maxCount {
			maxCount = c.Value
		}
	}
	barWidth := 20

	var b strings.Builder
	b.WriteString(ui.StyleHeader.Render(title) + "\n")
	for _, c := range counts[:limit] {
		length := int(math.Ceil(float64(c.Value) / float64(maxCount) * float64(barWidth)))
		fmt.Fprintf(&b, "%s %-15s %s\n",
			ui.StyleAccent.Render(strings.Repeat("█", length)),
			c.Label,
			ui.StyleMuted.Render(strconv.Itoa(c.Value)),
		)
	}
	b.WriteString("\n")
	return b.String()
}

// writeStatsCharts renders an overview bar chart and a skills pie as one page
func writeStatsCharts(w io.Writer, resp *services.StatsResponse) error {
	overview := charts.NewBar()
	overview.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Portfolio content"}))
	overview.SetXAxis([]string{"Projects", "Featured", "Images", "Experience", "Skills"}).
		AddSeries("Count", []opts.BarData{
			{Value: resp.Projects},
			{Value: resp.FeaturedProjects},
			{Value: resp.Images},
			{Value: resp.Experience},
			{Value: resp.Skills},
		})

	categories := charts.NewPie()
	categories.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Skills by category"}))
	pieData := make([]opts.PieData, 0, len(resp.SkillCategories))
	for _, c := range resp.SkillCategories {
		pieData = append(pieData, opts.PieData{Name: c.Label, Value: c.Value})
	}
	categories.AddSeries("Skills", pieData)

	tech := charts.NewBar()
	tech.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Technologies"}))
	labels := make([]string, 0, len(resp.Technologies))
	techData := make([]opts.BarData, 0, len(resp.Technologies))
	for _, c := range resp.Technologies {
		labels = append(labels, c.Label)
		techData = append(techData, opts.BarData{Value: c.Value})
	}
	tech.SetXAxis(labels).AddSeries("Projects", techData)

	page := components.NewPage()
	page.PageTitle = "Folio statistics"
	page.AddCharts(overview, categories, tech)
	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed to render charts: %w", err)
	}
	return nil
}
