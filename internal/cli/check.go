package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"ragstore/internal/citation"
	"ragstore/internal/ui"
)

var (
	checkQuery        string
	checkMinCitations int
	checkMaxCitations int
	checkSources      []string
	checkMinQuality   float64
	checkRequireFile  bool
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <response-file> <citations-file>",
	Short: "Validate a generated response against its citation list",
	Long: `Run the one-shot citation contract check: structural validation of
every citation, reconciliation of [N] markers against the source list,
count bounds, required sources, and quality scoring against a query.

The citations file is a JSON array of citation objects:
  [{"index": 1, "source": "Paper A", "snippet": "...", "file": "a.pdf"}]

The command exits non-zero on any violation, so it can gate a response
pipeline.

Examples:
  ragstore check response.md citations.json --query "vector databases"
  ragstore check response.md citations.json --min 1 --max 5 --sources "Paper A"`,
	Args: cobra.ExactArgs(2),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVarP(&checkQuery, "query", "q", "", "query to score citation quality against")
	checkCmd.Flags().IntVar(&checkMinCitations, "min", 0, "minimum number of citations")
	checkCmd.Flags().IntVar(&checkMaxCitations, "max", 0, "maximum number of citations")
	checkCmd.Flags().StringSliceVar(&checkSources, "sources", nil, "sources that must be cited")
	checkCmd.Flags().Float64Var(&checkMinQuality, "min-quality", 0, "quality floor each citation must clear")
	checkCmd.Flags().BoolVar(&checkRequireFile, "require-file", false, "require a file reference on every citation")
}

func runCheck(cmd *cobra.Command, args []string) error {
	response, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	raw, err := os.ReadFile(args[1])
	if err != nil {
		return fmt.Errorf("failed to read citations: %w", err)
	}
	var citations []citation.Citation
	if err := json.Unmarshal(raw, &citations); err != nil {
		return fmt.Errorf("failed to parse citations: %w", err)
	}

	structure := citation.DefaultValidateOptions()
	structure.RequireFile = checkRequireFile

	report, checkErr := citation.CheckResponse(string(response), citations, citation.Expectations{
		Query:           checkQuery,
		MinCitations:    checkMinCitations,
		MaxCitations:    checkMaxCitations,
		RequiredSources: checkSources,
		MinQuality:      checkMinQuality,
		Structure:       &structure,
	})

	if err := displayReport(report); err != nil {
		return err
	}

	if checkErr != nil {
		return fmt.Errorf("citation check failed")
	}
	return nil
}

// displayReport renders the check outcome as markdown through glamour.
func displayReport(report *citation.Report) error {
	var md strings.Builder
	md.WriteString("# Citation Check\n\n")

	if report.Passed() {
		md.WriteString("**Result: pass**\n\n")
	} else {
		md.WriteString("**Result: fail**\n\n")
		md.WriteString("## Violations\n\n")
		for _, v := range report.Violations {
			fmt.Fprintf(&md, "- %s\n", v)
		}
		md.WriteString("\n")
	}

	fmt.Fprintf(&md, "Referenced markers: %v\n\n", report.Referenced)
	if len(report.Orphaned) > 0 {
		fmt.Fprintf(&md, "Orphaned citations (supplied, never referenced): %v\n\n", report.Orphaned)
	}

	if len(report.Quality) > 0 {
		md.WriteString("## Quality\n\n")
		indices := make([]int, 0, len(report.Quality))
		for idx := range report.Quality {
			indices = append(indices, idx)
		}
		sort.Ints(indices)
		for _, idx := range indices {
			fmt.Fprintf(&md, "- `[%d]` scored %.2f\n", idx, report.Quality[idx])
		}
	}

	rendered, err := renderMarkdown(md.String())
	if err != nil {
		// Fallback to raw output if rendering fails
		fmt.Println(md.String())
		return nil
	}
	fmt.Print(rendered)

	if !report.Passed() {
		fmt.Println(ui.Error.Render(fmt.Sprintf("%d violations", len(report.Violations))))
	}
	return nil
}

// renderMarkdown renders markdown content using glamour.
func renderMarkdown(content string) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return "", err
	}
	return renderer.Render(content)
}
