package fcd

import (
	"encoding/xml"
	"io"
	"os"
	"strconv"
	"strings"
)

const (
	xmlHeader = "<?xml version='1.0' encoding='utf-8'?>\n"

	// SchemaInstanceNS is declared on the root as xmlns:xsi.
	SchemaInstanceNS = "http://www.w3.org/2001/XMLSchema-instance"
	// SchemaLocation is the FCD export schema referenced by the root.
	SchemaLocation = "http://sumo.dlr.de/xsd/fcd_file.xsd"
)

// WriteOptions controls output formatting.
type WriteOptions struct {
	// Indent pretty prints the document with two spaces per level.
	Indent bool
}

// BuildXML serializes a trace to an <fcd-export> document
func BuildXML(t Trace, opts WriteOptions) []byte {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString("<fcd-export xmlns:xsi=\"")
	b.WriteString(SchemaInstanceNS)
	b.WriteString("\" xsi:noNamespaceSchemaLocation=\"")
	b.WriteString(SchemaLocation)
	b.WriteString("\"")
	if len(t.Timesteps) == 0 {
		b.WriteString(" />")
		if opts.Indent {
			b.WriteString("\n")
		}
		return []byte(b.String())
	}
	b.WriteString(">")
	for _, ts := range t.Timesteps {
		newline(&b, opts, 1)
		writeTimestepXML(&b, ts, opts)
	}
	newline(&b, opts, 0)
	b.WriteString("</fcd-export>")
	if opts.Indent {
		b.WriteString("\n")
	}
	return []byte(b.String())
}

// Write serializes t to w.
func Write(w io.Writer, t Trace, opts WriteOptions) error {
	if _, err := w.Write(BuildXML(t, opts)); err != nil {
		return &WriteError{Err: err}
	}
	return nil
}

// WriteFile serializes t to path, creating or truncating the file. A
// partially written file is left in place on failure.
func WriteFile(path string, t Trace, opts WriteOptions) error {
	if err := os.WriteFile(path, BuildXML(t, opts), 0644); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}

// FormatTime renders a timestep time with two decimals.
func FormatTime(t float64) string {
	return strconv.FormatFloat(t, 'f', 2, 64)
}

// writeTimestepXML writes one <timestep> with its vehicles.
func writeTimestepXML(b *strings.Builder, ts Timestep, opts WriteOptions) {
	b.WriteString("<timestep time=\"")
	b.WriteString(FormatTime(ts.Time))
	b.WriteString("\"")
	if len(ts.Vehicles) == 0 {
		b.WriteString(" />")
		return
	}
	b.WriteString(">")
	for _, v := range ts.Vehicles {
		newline(b, opts, 2)
		writeVehicleXML(b, v)
	}
	newline(b, opts, 1)
	b.WriteString("</timestep>")
}

// writeVehicleXML writes a vehicle with its attributes in original order.
func writeVehicleXML(b *strings.Builder, v Vehicle) {
	b.WriteString("<vehicle")
	for _, a := range v.Attrs {
		b.WriteString(" ")
		b.WriteString(attrName(a.Name))
		b.WriteString("=\"")
		b.WriteString(xmlEscape(a.Value))
		b.WriteString("\"")
	}
	if len(v.Inner) == 0 {
		b.WriteString(" />")
		return
	}
	b.WriteString(">")
	b.Write(v.Inner)
	b.WriteString("</vehicle>")
}

// attrName renders a possibly prefixed attribute name.
func attrName(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

// newline starts a new indented line when pretty printing.
func newline(b *strings.Builder, opts WriteOptions, depth int) {
	if !opts.Indent {
		return
	}
	b.WriteString("\n")
	b.WriteString(strings.Repeat("  ", depth))
}

var attrEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"\"", "&quot;",
	"\n", "&#10;",
	"\r", "&#13;",
	"\t", "&#09;",
)

// xmlEscape escapes s for use in a double quoted attribute value.
func xmlEscape(s string) string {
	return attrEscaper.Replace(s)
}
