package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/framecheck/framecheck"
	"github.com/framecheck/framecheck/internal/report"
	"github.com/framecheck/framecheck/schemaio"
)

var (
	schemaPath string
	lazyFlag   bool
	headFlag   int
	tailFlag   int
	sampleFlag int
	seedFlag   int64
	jsonFlag   bool
	plainFlag  bool
)

var validateCmd = &cobra.Command{
	Use:   "validate [data.csv]",
	Short: "Validate a CSV file against a schema document",
	Long:  `Loads a YAML or JSON schema document, reads the CSV file (first row as header), and validates it. Declare coerce on columns to type raw CSV strings.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runValidate(cmd.Context(), args[0]); err != nil {
			os.Exit(1)
		}
	},
}

func init() {
	validateCmd.Flags().StringVarP(&schemaPath, "schema", "s", "", "schema document (.yaml/.yml/.json)")
	validateCmd.Flags().BoolVar(&lazyFlag, "lazy", false, "collect every violation instead of stopping at the first")
	validateCmd.Flags().IntVar(&headFlag, "head", 0, "validate only the first N rows")
	validateCmd.Flags().IntVar(&tailFlag, "tail", 0, "validate only the last N rows")
	validateCmd.Flags().IntVar(&sampleFlag, "sample", 0, "validate a random sample of N rows")
	validateCmd.Flags().Int64Var(&seedFlag, "seed", 0, "random seed for --sample")
	validateCmd.Flags().BoolVar(&jsonFlag, "json", false, "emit the report as JSON")
	validateCmd.Flags().BoolVar(&plainFlag, "plain", false, "emit the report as raw markdown")
	_ = validateCmd.MarkFlagRequired("schema")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(ctx context.Context, dataPath string) error {
	schema, err := loadSchema(schemaPath)
	if err != nil {
		slog.Error("failed to load schema", "path", schemaPath, "err", err)
		return err
	}
	df, err := loadCSV(dataPath)
	if err != nil {
		slog.Error("failed to load data", "path", dataPath, "err", err)
		return err
	}

	opt := framecheck.Options{
		Head:        headFlag,
		Tail:        tailFlag,
		Sample:      sampleFlag,
		RandomState: seedFlag,
		Lazy:        lazyFlag,
	}
	if _, err := schema.Validate(ctx, df, opt); err != nil {
		printReport(err)
		return err
	}
	fmt.Printf("%s conforms to %s ✅\n", filepath.Base(dataPath), schema.SchemaName())
	return nil
}

func printReport(err error) {
	if jsonFlag {
		out, jerr := report.JSON(err)
		if jerr != nil {
			fmt.Println(err)
			return
		}
		fmt.Println(string(out))
		return
	}
	md := report.Markdown(err)
	if md == "" {
		fmt.Println(err)
		return
	}
	if plainFlag {
		fmt.Print(md)
		return
	}
	rendered, rerr := glamour.Render(md, "auto")
	if rerr != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(rendered)
}

func loadSchema(path string) (*framecheck.DataFrameSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return schemaio.FromJSON(data)
	default:
		return schemaio.FromYAML(data)
	}
}

// loadCSV reads a CSV file into a frame of raw strings. Empty cells become
// nulls; columns with a coercing schema are typed during validation.
func loadCSV(path string) (*framecheck.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: empty file, expected a header row", path)
	}
	header := records[0]
	columns := make([]*framecheck.Series, len(header))
	for j, name := range header {
		values := make([]any, len(records)-1)
		for i, rec := range records[1:] {
			if j < len(rec) && rec[j] != "" {
				values[i] = rec[j]
			}
		}
		columns[j] = framecheck.NewSeries(name, values)
	}
	return framecheck.NewDataFrame(columns...)
}
