// Package export writes analysis tables and charts to files. Relative
// paths are resolved against the configured export directory and file
// extensions are appended when missing.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/tealeg/xlsx"

	vivainsights "github.com/microsoft/vivainsights-go"
	"github.com/microsoft/vivainsights-go/internal/logger"
	"github.com/microsoft/vivainsights-go/internal/settings"
)

// dir resolves the export directory once per process.
var dir = sync.OnceValue(func() string {
	s, err := settings.Load()
	if err != nil {
		logger.Warn("falling back to the working directory for exports", "error", err)
		return "."
	}
	return s.ExportDir
})

// Timestamped appends the current time to a base name, in the naming style
// of query exports, e.g. "collab summary 2024-05-28 09-15-02".
func Timestamped(base string) string {
	return base + " " + time.Now().Format("2006-01-02 15-04-05")
}

// CSV writes a summary table as a .csv file.
func CSV(t vivainsights.Table, path string) error {
	path = resolve(path, ".csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: create %q: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(t.Header()); err != nil {
		return fmt.Errorf("export: write %q: %w", path, err)
	}
	if err := w.WriteAll(t.Records()); err != nil {
		return fmt.Errorf("export: write %q: %w", path, err)
	}
	logger.Info("table exported", "path", path, "rows", len(t.Records()))
	return nil
}

// Excel writes a summary table as a single-sheet .xlsx workbook.
func Excel(t vivainsights.Table, path string) error {
	path = resolve(path, ".xlsx")
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Summary")
	if err != nil {
		return fmt.Errorf("export: add sheet: %w", err)
	}
	header := sheet.AddRow()
	for _, name := range t.Header() {
		header.AddCell().Value = name
	}
	for _, rec := range t.Records() {
		row := sheet.AddRow()
		for _, cell := range rec {
			row.AddCell().Value = cell
		}
	}
	if err := file.Save(path); err != nil {
		return fmt.Errorf("export: save %q: %w", path, err)
	}
	logger.Info("workbook exported", "path", path, "rows", len(t.Records()))
	return nil
}

// PNG writes an output's chart as a .png file. Outputs with no chart form
// return an error.
func PNG(o *vivainsights.Output, path string) error {
	path = resolve(path, ".png")
	if err := o.SavePNG(path); err != nil {
		return err
	}
	logger.Info("chart exported", "path", path)
	return nil
}

// resolve appends ext when missing and roots relative paths in the export
// directory.
func resolve(path, ext string) string {
	if !strings.EqualFold(filepath.Ext(path), ext) {
		path += ext
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir(), path)
	}
	return path
}
