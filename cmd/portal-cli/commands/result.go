package commands

import (
	"context"
	"time"

	"gokaraju-backend/lib/browser"
	"gokaraju-backend/lib/scrapers/webpros"
	"gokaraju-backend/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(resultCmd)
}

var resultCmd = &cobra.Command{
	Use:   "result <rollno>",
	Short: "Looks up the examination result sheet for a roll number.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute*2)
		defer cancel()

		sheet, err := webpros.ScrapeResult(ctx, browser.DefaultLauncher, args[0])
		if err != nil {
			serviceutil.Fatal("failed to scrape result", err)
		}

		t := newTable()
		header := make(table.Row, len(sheet.Headers))
		for i, h := range sheet.Headers {
			header[i] = h
		}
		t.AppendHeader(header)
		for _, row := range sheet.Rows {
			r := make(table.Row, len(row))
			for i, c := range row {
				r[i] = c
			}
			t.AppendRow(r)
		}
		t.Render()
	},
}
