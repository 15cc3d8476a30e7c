package commands

import (
	"log/slog"

	configlibsql "rmpscrape/lib/configutil/libsql"
	"rmpscrape/lib/profstore"
	"rmpscrape/lib/serviceutil"

	"github.com/spf13/cobra"
)

var importDb *string
var importFile *string

func init() {
	importDb = importCmd.Flags().String("db", "courses.db", "The sqlite database to import instructors into.")
	importFile = importCmd.Flags().String("file", "rmp.json", "The scraped records file to import.")
	rootCmd.AddCommand(importCmd)
}

var importCmd = &cobra.Command{
	Use:   "import [--db <path/to/courses.db>] [--file <path/to/rmp.json>]",
	Short: "Imports a scraped records file into the instructors table.",
	Run: func(cmd *cobra.Command, args []string) {
		records, err := profstore.ReadJSON(*importFile)
		if err != nil {
			serviceutil.Fatal("failed to read records file", err)
		}
		slog.Info("loaded records", "file", *importFile, "count", len(records))

		db, err := configlibsql.Struct{File: *importDb}.OpenDB(profstore.Schema)
		if err != nil {
			serviceutil.Fatal("failed to open db", err)
		}
		defer db.Close()

		stats, err := profstore.NewStore(db).Import(cmd.Context(), records)
		if err != nil {
			serviceutil.Fatal("failed to import records", err)
		}

		slog.Info(
			"import finished",
			"inserted", stats.Inserted,
			"updated", stats.Updated,
			"skipped", stats.Skipped,
		)
	},
}
