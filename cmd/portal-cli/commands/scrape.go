package commands

import (
	"context"
	"log/slog"
	"os"
	"sort"
	"time"

	"gokaraju-backend/lib/artifact"
	"gokaraju-backend/lib/browser"
	"gokaraju-backend/lib/configutil"
	"gokaraju-backend/lib/scrapers/webpros"
	"gokaraju-backend/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

type Config struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

var scrapeReport *string
var scrapeOut *string

func init() {
	scrapeReport = scrapeCmd.Flags().String("report", "attendance", "One of: attendance, library, timetable, biodata.")
	scrapeOut = scrapeCmd.Flags().String("out", "", "Also persist JSON/CSV artifacts under this directory.")
	rootCmd.AddCommand(scrapeCmd)
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}

func renderRecords(schema []string, records []webpros.Record) {
	t := newTable()
	header := make(table.Row, len(schema))
	for i, field := range schema {
		header[i] = field
	}
	t.AppendHeader(header)
	for _, rec := range records {
		row := make(table.Row, len(schema))
		for i, field := range schema {
			row[i] = rec[field]
		}
		t.AppendRow(row)
	}
	t.Render()
}

func recordRows(schema []string, records []webpros.Record) [][]string {
	rows := make([][]string, len(records))
	for i, rec := range records {
		row := make([]string, len(schema))
		for j, field := range schema {
			row[j] = rec[field]
		}
		rows[i] = row
	}
	return rows
}

// outputStore returns nil when --out was not given, persistence is
// opt-in for the CLI.
func outputStore() *artifact.Store {
	if *scrapeOut == "" {
		return nil
	}
	store, err := artifact.NewStore(*scrapeOut)
	if err != nil {
		serviceutil.Fatal("init output directory", err)
	}
	return &store
}

func persist(store *artifact.Store, name string, v any, schema []string, records []webpros.Record) {
	if store == nil {
		return
	}
	if err := store.WriteJSON(name+".json", v); err != nil {
		serviceutil.Fatal("write json artifact", err)
	}
	if schema != nil {
		if err := store.WriteCSV(name+".csv", schema, recordRows(schema, records)); err != nil {
			serviceutil.Fatal("write csv artifact", err)
		}
	}
	slog.Info("wrote artifacts", "name", name, "dir", *scrapeOut)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [--report <name>] [--out <dir>]",
	Short: "Logs into the portal with config.json5 credentials and prints one report.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := configutil.ReadConfig[Config]("config.json5")
		if err != nil {
			serviceutil.Fatal("failed to read config", err)
		}
		store := outputStore()

		ctx, cancel := context.WithTimeout(context.Background(), time.Minute*5)
		defer cancel()

		slog.Info("logging into the portal", "username", cfg.Username)
		client, err := webpros.Login(ctx, browser.DefaultLauncher, cfg.Username, cfg.Password)
		if err != nil {
			serviceutil.Fatal("failed to login", err)
		}
		defer client.Close()

		switch *scrapeReport {
		case "attendance":
			records, err := client.Attendance(ctx)
			if err != nil {
				serviceutil.Fatal("failed to scrape attendance", err)
			}
			renderRecords(webpros.AttendanceSchema, records)
			persist(store, "attendance_data", records, webpros.AttendanceSchema, records)
		case "library":
			records, err := client.LibraryBooks(ctx)
			if err != nil {
				serviceutil.Fatal("failed to scrape library books", err)
			}
			renderRecords(webpros.LibrarySchema, records)
			persist(store, "library_books", records, webpros.LibrarySchema, records)
		case "timetable":
			timetable, faculty, err := client.TimetableAndFaculty(ctx)
			if err != nil {
				serviceutil.Fatal("failed to scrape timetable", err)
			}
			renderRecords(webpros.TimetableSchema, timetable)
			renderRecords(webpros.FacultySchema, faculty)
			persist(store, "timetable", timetable, nil, nil)
			persist(store, "faculty_allocation", faculty, nil, nil)
		case "biodata":
			bio, err := client.BioData(ctx)
			if err != nil {
				serviceutil.Fatal("failed to scrape bio-data", err)
			}
			fields := make([]string, 0, len(bio.Personal))
			for k := range bio.Personal {
				fields = append(fields, k)
			}
			sort.Strings(fields)

			t := newTable()
			t.AppendHeader(table.Row{"Field", "Value"})
			for _, k := range fields {
				t.AppendRow(table.Row{k, bio.Personal[k]})
			}
			t.Render()
			persist(store, "bio_data", bio, nil, nil)
		default:
			slog.Error("unknown report", "report", *scrapeReport)
			os.Exit(1)
		}
	},
}
