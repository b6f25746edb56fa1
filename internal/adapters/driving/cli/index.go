package cli

import (
	"github.com/spf13/cobra"

	"github.com/medalpine/medrag/internal/logger"
)

// seedTarget pairs a specialty with how many papers to index for it.
type seedTarget struct {
	niche  string
	papers int
}

// defaultSeeds are the specialties indexed by a bare `medrag index`.
var defaultSeeds = []seedTarget{
	{niche: "neurology", papers: 25},
	{niche: "cardiology", papers: 5},
	{niche: "pulmonology", papers: 5},
	{niche: "general", papers: 5},
}

var (
	indexNiche string
	indexCount int
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Index open-access papers into the vector store",
	Long: `Indexes papers for the default specialty set, or for a single
specialty when --niche is given.`,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().StringVar(&indexNiche, "niche", "", "index a single specialty instead of the default set")
	indexCmd.Flags().IntVar(&indexCount, "papers", 25, "papers to index when --niche is given")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, err := buildApp(ctx)
	if err != nil {
		return err
	}

	seeds := defaultSeeds
	if indexNiche != "" {
		seeds = []seedTarget{{niche: indexNiche, papers: indexCount}}
	}

	for _, seed := range seeds {
		count, err := a.indexer.IndexPapers(ctx, seed.niche, seed.papers)
		if err != nil {
			return err
		}
		logger.Info("seeded specialty", "niche", seed.niche, "indexed", count)
		cmd.Printf("Indexed %d papers for %s\n", count, seed.niche)
	}
	return nil
}
