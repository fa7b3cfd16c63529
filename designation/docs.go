package designation

import (
	"fmt"
	"io"
	"strings"
)

const docsIntro = `# Tags

> This file is generated from the designation catalog. Do not edit it directly.

OSM data is tagged with key-value pairs, and there are often many ways to tag
the same thing. We show tags like *clothes=women* as a readable label
("Kvinneklær") instead. We call this a *designation*.

A designation can have multiple definitions. A definition can consist of
multiple tags, such as *shop=bicycle* **AND** *repair=yes*, which together
indicate that this is a place that repairs bicycles.

`

const docsOutro = `
## Adding new designations

Add a new designation to designation/catalog.yml and run ` + "`fivh docs`" + ` to
update this table.
`

// WriteMarkdown writes a markdown table with the label and the OSM tags of
// each designation.
func WriteMarkdown(w io.Writer, c *Catalog) error {
	rows := [][]string{{"Our designation", "Corresponding OSM tag(s)"}}
	for _, d := range c.designations {
		defs := make([]string, len(d.Definitions))
		for i, def := range d.Definitions {
			tags := make([]string, len(def))
			for j, t := range def {
				tags[j] = t.String()
			}
			defs[i] = "(" + strings.Join(tags, " and ") + ")"
		}
		rows = append(rows, []string{d.Label, strings.Join(defs, " or ")})
	}

	if _, err := io.WriteString(w, docsIntro); err != nil {
		return err
	}
	if err := writeTable(w, rows); err != nil {
		return err
	}
	_, err := io.WriteString(w, docsOutro)
	return err
}

func writeTable(w io.Writer, rows [][]string) error {
	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			if n := len([]rune(cell)); n > widths[i] {
				widths[i] = n
			}
		}
	}
	line := func(cells []string) error {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			parts[i] = cell + strings.Repeat(" ", widths[i]-len([]rune(cell)))
		}
		_, err := fmt.Fprintf(w, "| %s |\n", strings.Join(parts, " | "))
		return err
	}

	if err := line(rows[0]); err != nil {
		return err
	}
	sep := make([]string, len(widths))
	for i, n := range widths {
		sep[i] = strings.Repeat("-", n)
	}
	if err := line(sep); err != nil {
		return err
	}
	for _, row := range rows[1:] {
		if err := line(row); err != nil {
			return err
		}
	}
	return nil
}
