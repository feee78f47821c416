package entities

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

const (
	nameColumnWidth  = 40
	countColumnWidth = 10
	specColumnWidth  = 60
	noSpecifier      = "any"
)

// ReportRenderer turns a Tally into the four plain-text reports. It performs
// no I/O; callers decide where the text goes.
type ReportRenderer struct {
	ManifestName string // used in the "files scanned" header line
}

// NewReportRenderer creates a renderer for the given manifest filename.
func NewReportRenderer(manifestName string) ReportRenderer {
	if manifestName == "" {
		manifestName = DefaultManifestName
	}
	return ReportRenderer{ManifestName: manifestName}
}

// UniquePackages lists every canonical name in ascending order.
func (r ReportRenderer) UniquePackages(tally *Tally) string {
	names := make([]string, 0, len(tally.Names))
	for name := range tally.Names {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	sb.WriteString("# Unique Packages (Alphabetically Sorted)\n")
	r.writeCounts(&sb, tally.FilesScanned, "unique packages", len(names))
	for _, name := range names {
		sb.WriteString(name + "\n")
	}
	return sb.String()
}

// PackagesByFrequency lists names by descending count (ties by name) together
// with the specifiers seen for each one.
func (r ReportRenderer) PackagesByFrequency(tally *Tally) string {
	names := make([]string, 0, len(tally.Names))
	for name := range tally.Names {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		ci, cj := tally.Names[names[i]].Count, tally.Names[names[j]].Count
		if ci != cj {
			return ci > cj
		}
		return names[i] < names[j]
	})

	var sb strings.Builder
	sb.WriteString("# Packages by Frequency\n")
	r.writeCounts(&sb, tally.FilesScanned, "unique packages", len(names))
	writeRow(&sb, "Package", "Count", "Versions Found")
	writeRow(&sb,
		strings.Repeat("-", nameColumnWidth),
		strings.Repeat("-", countColumnWidth),
		strings.Repeat("-", nameColumnWidth),
	)
	for _, name := range names {
		stats := tally.Names[name]
		versions := noSpecifier
		if specs := stats.SortedSpecifiers(); len(specs) > 0 {
			versions = strings.Join(specs, ", ")
		}
		writeRow(&sb, name, strconv.Itoa(stats.Count), versions)
	}
	return sb.String()
}

// UniquePackagesWithVersions lists every name+specifier combination in
// ascending order of its rendered form.
func (r ReportRenderer) UniquePackagesWithVersions(tally *Tally) string {
	rendered := make([]string, 0, len(tally.Specs))
	for key := range tally.Specs {
		rendered = append(rendered, key.String())
	}
	sort.Strings(rendered)

	var sb strings.Builder
	sb.WriteString("# Unique Packages with Versions (Alphabetically Sorted)\n")
	r.writeCounts(&sb, tally.FilesScanned, "unique package+version combinations", len(rendered))
	for _, line := range rendered {
		sb.WriteString(line + "\n")
	}
	return sb.String()
}

// PackagesByFrequencyWithVersions lists name+specifier combinations by
// descending count, ties broken by the rendered form.
func (r ReportRenderer) PackagesByFrequencyWithVersions(tally *Tally) string {
	type row struct {
		rendered string
		count    int
	}
	rows := make([]row, 0, len(tally.Specs))
	for key, count := range tally.Specs {
		rows = append(rows, row{rendered: key.String(), count: count})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].count != rows[j].count {
			return rows[i].count > rows[j].count
		}
		return rows[i].rendered < rows[j].rendered
	})

	var sb strings.Builder
	sb.WriteString("# Packages with Versions by Frequency\n")
	r.writeCounts(&sb, tally.FilesScanned, "unique package+version combinations", len(rows))
	sb.WriteString(runewidth.FillRight("Package Specification", specColumnWidth) + " Count\n")
	sb.WriteString(strings.Repeat("-", specColumnWidth) + " " + strings.Repeat("-", countColumnWidth) + "\n")
	for _, item := range rows {
		sb.WriteString(runewidth.FillRight(item.rendered, specColumnWidth) + " " + strconv.Itoa(item.count) + "\n")
	}
	return sb.String()
}

func (r ReportRenderer) writeCounts(sb *strings.Builder, files int, label string, distinct int) {
	fmt.Fprintf(sb, "# Total %s files scanned: %d\n", r.ManifestName, files)
	fmt.Fprintf(sb, "# Total %s: %d\n\n", label, distinct)
}

func writeRow(sb *strings.Builder, name, count, versions string) {
	sb.WriteString(runewidth.FillRight(name, nameColumnWidth))
	sb.WriteString(" ")
	sb.WriteString(runewidth.FillRight(count, countColumnWidth))
	sb.WriteString(" ")
	sb.WriteString(versions)
	sb.WriteString("\n")
}
