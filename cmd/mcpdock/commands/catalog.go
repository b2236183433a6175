package commands

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mcpdock/mcpdock/internal/errors"
)

var catalogSearchStars bool

func init() {
	catalogSearchCmd.Flags().BoolVar(&catalogSearchStars, "stars", false,
		"enrich results with GitHub stars (extra network calls)")
	catalogCmd.AddCommand(catalogSearchCmd)
	rootCmd.AddCommand(catalogCmd)
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Browse the MCP server catalog",
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

var catalogSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the server catalog",
	Long: `Fetch the full server catalog, deduplicated by repository, and list
entries matching the query. With no query, lists everything.

Examples:
  mcpdock catalog search filesystem
  mcpdock catalog search database --stars`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCatalogSearch,
}

func runCatalogSearch(cmd *cobra.Command, args []string) error {
	return runCatalogSearchWithWriter(cmd, os.Stdout, args)
}

// runCatalogSearchWithWriter allows injecting a writer for testing.
func runCatalogSearchWithWriter(cmd *cobra.Command, w io.Writer, args []string) error {
	cat := newCatalogClient()
	servers, err := cat.FetchAll(cmd.Context())
	if err != nil {
		return errors.Wrap(err, "fetching server catalog")
	}

	if len(args) == 1 {
		query := strings.ToLower(args[0])
		filtered := servers[:0]
		for _, s := range servers {
			if strings.Contains(strings.ToLower(s.Name), query) {
				filtered = append(filtered, s)
			}
		}
		servers = filtered
	}

	if len(servers) == 0 {
		fmt.Fprintln(w, "No matching servers")
		return nil
	}

	gh := newGitHubClient()

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if catalogSearchStars {
		fmt.Fprintf(tw, "%sNAME%s\t%sVERSION%s\t%sPACKAGE%s\t%sSTARS%s\n",
			colorBold, colorReset, colorBold, colorReset, colorBold, colorReset, colorBold, colorReset)
	} else {
		fmt.Fprintf(tw, "%sNAME%s\t%sVERSION%s\t%sPACKAGE%s\n",
			colorBold, colorReset, colorBold, colorReset, colorBold, colorReset)
	}

	for _, s := range servers {
		pkgCol := colorGray + "(none)" + colorReset
		if pkg, ok := s.PrimaryPackage(); ok {
			pkgCol = fmt.Sprintf("%s:%s", pkg.Kind, truncate(pkg.Identifier, 45))
		}

		if catalogSearchStars {
			stars := colorGray + "?" + colorReset
			if meta, ok := gh.Get(s.RepositoryURL); ok {
				stars = fmt.Sprintf("%d", meta.Stars)
				if meta.Archived {
					stars += " " + colorYellow + "(archived)" + colorReset
				}
			}
			fmt.Fprintf(tw, "%s%s%s\t%s\t%s\t%s\n",
				colorGreen, s.Name, colorReset, s.Version, pkgCol, stars)
		} else {
			fmt.Fprintf(tw, "%s%s%s\t%s\t%s\n",
				colorGreen, s.Name, colorReset, s.Version, pkgCol)
		}
	}
	return tw.Flush()
}
