package commands

import (
	"context"
	"fmt"

	"github.com/localnerve/campus-market/internal/config"
	"github.com/localnerve/campus-market/internal/logger"
	"github.com/localnerve/campus-market/internal/server"
	"github.com/localnerve/campus-market/internal/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// seedCmd copies the bundled listings into the persistent store
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the bundled listings into the persistent store",
	Long: `Insert the bundled listings into the configured persistent store.

Every run inserts new copies with fresh ids.

Examples:
  marketctl seed -f .env
  STORE_TYPE=sqlite-pure DB_DATABASE=market.db marketctl seed`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSeed(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	log := logger.InitLogger(cfg)
	defer log.Sync()

	st, err := server.OpenStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.Close(ctx)

	if !st.Status().Connected {
		return fmt.Errorf("no persistent store connected (STORE_TYPE=%s)", cfg.StoreType)
	}

	static, err := store.LoadStaticStore()
	if err != nil {
		return err
	}

	ids, err := store.Seed(ctx, st, static.Listings())
	log.Info("Seeded listings", zap.String("store", st.Name()), zap.Int("count", len(ids)))
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(map[string]interface{}{"store": st.Name(), "insertedIds": ids})
	}
	fmt.Printf("Inserted %d listings into %s\n", len(ids), st.Name())
	return nil
}
