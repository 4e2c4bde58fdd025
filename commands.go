package main

import (
	"context"
	"fmt"
	"os"

	"summercamp/enrollment"
	"summercamp/seed"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, err := openDatabase()
		if err != nil {
			return err
		}
		return db.Close()
	},
}

var reconcileBatch int

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Replay open reconciliation tasks once",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, err := openDatabase()
		if err != nil {
			return err
		}
		defer db.Close()

		summary, err := enrollment.NewReconciler(enrollment.NewGormStore(db.Db), reconcileBatch, 10).Run(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "processed=%d resolved=%d retry=%d escalated=%d\n",
			summary.Processed, summary.Resolved, summary.Retry, summary.Escalated)
		return nil
	},
}

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Import approved courses from a CSV file",
	Long: `Import approved courses from a CSV file.

Columns: title, description, image, price, capacity, instructorEmail.
The instructor account must already exist.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, err := openDatabase()
		if err != nil {
			return err
		}
		defer db.Close()

		file, err := os.Open(seedFile)
		if err != nil {
			return err
		}
		defer file.Close()

		result, err := seed.ImportCourses(context.Background(), db.Db, file)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "inserted=%d updated=%d skipped=%d\n", result.Inserted, result.Updated, result.Skipped)
		return nil
	},
}

func init() {
	reconcileCmd.Flags().IntVar(&reconcileBatch, "batch", 100, "maximum tasks to process")
	seedCmd.Flags().StringVar(&seedFile, "file", "courses.csv", "CSV file to import")
}
