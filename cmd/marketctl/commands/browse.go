package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/localnerve/campus-market/pkg/marketclient"
	"github.com/spf13/cobra"
)

var (
	// Browse flags
	search   string
	category string
	sortBy   string
)

// browseCmd fetches the listings once and filters them locally
var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse listings",
	Long: `Fetch every listing from the server and filter and sort them locally.
The search text matches titles and descriptions.

Examples:
  marketctl browse --category Books
  marketctl browse --search lamp --sort price-low`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBrowse()
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)

	browseCmd.Flags().StringVarP(&search, "search", "q", "", "Text to match in titles and descriptions")
	browseCmd.Flags().StringVarP(&category, "category", "c", "All", "Category or All")
	browseCmd.Flags().StringVar(&sortBy, "sort", "newest", "newest, price-low or price-high")
}

func runBrowse() error {
	catalog, err := marketclient.New(serverURL).FetchCatalog()
	if err != nil {
		return err
	}

	items := catalog.Browse(marketclient.Options{Search: search, Category: category, Sort: sortBy})
	if jsonOutput {
		return printJSON(items)
	}

	printItems(items)
	fmt.Printf("\n%d of %d listings\n", len(items), catalog.Len())
	return nil
}

func printItems(items []marketclient.Item) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TITLE\tCATEGORY\tCONDITION\tPRICE\tSELLER")
	for _, item := range items {
		price := "-"
		if item.Price.Valid {
			price = fmt.Sprintf("%.2f", item.Price.Value)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", item.Title, item.Category, item.Condition, price, item.SellerEmail)
	}
	w.Flush()
}
