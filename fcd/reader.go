package fcd

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/net/html/charset"
)

// xmlNamespace is the URL encoding/xml substitutes for the reserved xml prefix.
const xmlNamespace = "http://www.w3.org/XML/1998/namespace"

// rawVehicle captures a <vehicle> element without interpreting it.
type rawVehicle struct {
	Attrs []xml.Attr `xml:",any,attr"`
	Inner []byte     `xml:",innerxml"`
}

// ReadFile parses the FCD trace stored at path.
func ReadFile(path string) (Trace, error) {
	f, err := os.Open(path)
	if err != nil {
		return Trace{}, &ParseError{Path: path, Err: err}
	}
	defer func() { _ = f.Close() }()
	return Decode(f, path)
}

// Decode parses an FCD trace from r. name is only used in error messages.
//
// Timesteps are collected at any depth below the root element; only direct
// <vehicle> children of a timestep are kept. Documents declaring a non UTF-8
// encoding are transcoded.
func Decode(r io.Reader, name string) (Trace, error) {
	d := xml.NewDecoder(r)
	d.CharsetReader = charset.NewReaderLabel

	trace := Trace{Timesteps: []Timestep{}}
	var scope nsScope
	depth := 0
	sawRoot := false
	for {
		tok, err := d.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Trace{}, &ParseError{Path: name, Err: err}
		}
		switch el := tok.(type) {
		case xml.StartElement:
			if depth == 0 && sawRoot {
				return Trace{}, &ParseError{Path: name, Err: syntaxErr(d, "content after the root element")}
			}
			sawRoot = true
			// the root itself is never a timestep
			if depth > 0 && el.Name.Local == "timestep" {
				ts, err := decodeTimestep(d, el, scope)
				if err != nil {
					return Trace{}, &ParseError{Path: name, Err: err}
				}
				trace.Timesteps = append(trace.Timesteps, ts)
				continue
			}
			scope.push(el.Attr)
			depth++
		case xml.EndElement:
			scope.pop()
			depth--
		case xml.CharData:
			if depth == 0 && len(bytes.TrimSpace(el)) > 0 {
				return Trace{}, &ParseError{Path: name, Err: syntaxErr(d, "text outside the root element")}
			}
		}
	}
	if !sawRoot {
		return Trace{}, &ParseError{Path: name, Err: errors.New("document has no root element")}
	}
	return trace, nil
}

// decodeTimestep reads a <timestep> up to and including its end tag.
func decodeTimestep(d *xml.Decoder, se xml.StartElement, scope nsScope) (Timestep, error) {
	raw, ok := attrValue(se.Attr, "time")
	if !ok {
		return Timestep{}, syntaxErr(d, "timestep is missing the time attribute")
	}
	t, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		line, _ := d.InputPos()
		return Timestep{}, fmt.Errorf("line %d: invalid timestep time %q: %w", line, raw, err)
	}
	scope.push(se.Attr)

	ts := Timestep{Time: t, Vehicles: []Vehicle{}}
	for {
		tok, err := d.Token()
		if err != nil {
			return Timestep{}, err
		}
		switch el := tok.(type) {
		case xml.StartElement:
			if el.Name.Local != "vehicle" {
				if err := d.Skip(); err != nil {
					return Timestep{}, err
				}
				continue
			}
			v, err := decodeVehicle(d, el, scope)
			if err != nil {
				return Timestep{}, err
			}
			ts.Vehicles = append(ts.Vehicles, v)
		case xml.EndElement:
			return ts, nil
		}
	}
}

// decodeVehicle captures one <vehicle> element with its attributes restored
// to their prefixed form.
func decodeVehicle(d *xml.Decoder, se xml.StartElement, scope nsScope) (Vehicle, error) {
	var raw rawVehicle
	if err := d.DecodeElement(&raw, &se); err != nil {
		return Vehicle{}, err
	}
	for i := range raw.Attrs {
		raw.Attrs[i].Value = normalizeAttr(raw.Attrs[i].Value)
	}
	id, ok := attrValue(raw.Attrs, "id")
	if !ok {
		return Vehicle{}, syntaxErr(d, "vehicle is missing the id attribute")
	}
	return Vehicle{ID: id, Attrs: scope.restore(raw.Attrs, raw.Inner), Inner: raw.Inner}, nil
}

// syntaxErr prefixes msg with the decoder's current line.
func syntaxErr(d *xml.Decoder, msg string) error {
	line, _ := d.InputPos()
	return fmt.Errorf("line %d: %s", line, msg)
}

// attrValue looks up an unprefixed attribute.
func attrValue(attrs []xml.Attr, name string) (string, bool) {
	for _, a := range attrs {
		if a.Name.Space == "" && a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// encoding/xml folds literal CR and CRLF into LF but leaves the remaining
// attribute value normalization to the caller.
var attrWhitespace = strings.NewReplacer("\n", " ", "\t", " ")

// normalizeAttr applies XML attribute value normalization. Character
// references such as &#10; are indistinguishable from literal whitespace
// after decoding and are normalized too.
func normalizeAttr(s string) string {
	return attrWhitespace.Replace(s)
}

// nsScope is the stack of xmlns:prefix declarations of the open ancestors.
type nsScope [][]xml.Attr

// push records the prefix declarations found in attrs.
func (s *nsScope) push(attrs []xml.Attr) {
	*s = append(*s, declsOf(attrs))
}

// pop drops the innermost element's declarations.
func (s *nsScope) pop() {
	if len(*s) > 0 {
		*s = (*s)[:len(*s)-1]
	}
}

// lookup returns the innermost in-scope binding of prefix.
func (s nsScope) lookup(prefix string) (string, bool) {
	for i := len(s) - 1; i >= 0; i-- {
		for _, a := range s[i] {
			if a.Name.Local == prefix {
				return a.Value, true
			}
		}
	}
	return "", false
}

// prefixFor returns the innermost prefix bound to url.
func (s nsScope) prefixFor(url string) (string, bool) {
	for i := len(s) - 1; i >= 0; i-- {
		for _, a := range s[i] {
			if a.Value == url {
				// a shadowed binding of the same prefix is not usable
				if bound, _ := s.lookup(a.Name.Local); bound == url {
					return a.Name.Local, true
				}
			}
		}
	}
	return "", false
}

// restore maps namespace URLs in attrs back to prefixes and appends the
// declarations inherited from ancestors that the vehicle or its inner XML
// relies on, so the element stays well formed on its own.
func (s nsScope) restore(attrs []xml.Attr, inner []byte) []xml.Attr {
	local := append(slices.Clip(s), declsOf(attrs))
	var used []string
	for i, a := range attrs {
		switch a.Name.Space {
		case "", "xmlns":
			continue
		case xmlNamespace:
			attrs[i].Name.Space = "xml"
			continue
		}
		if p, ok := local.prefixFor(a.Name.Space); ok {
			attrs[i].Name.Space = p
			used = append(used, p)
		}
	}
	used = append(used, innerPrefixes(inner)...)

	own := declsOf(attrs)
	for _, p := range used {
		if hasDecl(own, p) {
			continue
		}
		if url, ok := s.lookup(p); ok {
			decl := xml.Attr{Name: xml.Name{Space: "xmlns", Local: p}, Value: url}
			attrs = append(attrs, decl)
			own = append(own, decl)
		}
	}
	return attrs
}

// declsOf returns the xmlns:prefix attributes in attrs.
func declsOf(attrs []xml.Attr) []xml.Attr {
	var out []xml.Attr
	for _, a := range attrs {
		if a.Name.Space == "xmlns" {
			out = append(out, a)
		}
	}
	return out
}

// hasDecl reports whether decls binds prefix.
func hasDecl(decls []xml.Attr, prefix string) bool {
	for _, a := range decls {
		if a.Name.Local == prefix {
			return true
		}
	}
	return false
}

// innerPrefixes lists the element and attribute prefixes used in a raw XML
// fragment, in order of first use.
func innerPrefixes(inner []byte) []string {
	if bytes.IndexByte(inner, ':') < 0 {
		return nil
	}
	var out []string
	seen := map[string]bool{}
	add := func(p string) {
		if p == "" || p == "xml" || p == "xmlns" || seen[p] {
			return
		}
		seen[p] = true
		out = append(out, p)
	}
	d := xml.NewDecoder(bytes.NewReader(inner))
	for {
		tok, err := d.RawToken()
		if err != nil {
			return out
		}
		if se, ok := tok.(xml.StartElement); ok {
			add(se.Name.Space)
			for _, a := range se.Attr {
				add(a.Name.Space)
			}
		}
	}
}
