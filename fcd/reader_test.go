package fcd

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestReadFile_Scenario verifies timesteps, vehicle order and attributes are
// loaded from a SUMO generated trace
func TestReadFile_Scenario(t *testing.T) {
	trace, err := ReadFile(filepath.Join("testdata", "scenario.xml"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	if len(trace.Timesteps) != 3 {
		t.Fatalf("expected 3 timesteps, got %d", len(trace.Timesteps))
	}
	wantTimes := []float64{0, 1, 2}
	wantIDs := [][]string{{"A", "B", "C"}, {"A", "B", "C"}, {"A", "B"}}
	for i, ts := range trace.Timesteps {
		if ts.Time != wantTimes[i] {
			t.Errorf("timestep %d: expected time %v, got %v", i, wantTimes[i], ts.Time)
		}
		var ids []string
		for _, v := range ts.Vehicles {
			ids = append(ids, v.ID)
		}
		if strings.Join(ids, ",") != strings.Join(wantIDs[i], ",") {
			t.Errorf("timestep %d: expected vehicles %v, got %v", i, wantIDs[i], ids)
		}
	}

	a := trace.Timesteps[1].Vehicles[0]
	if len(a.Attrs) != 9 {
		t.Fatalf("expected 9 attributes, got %d", len(a.Attrs))
	}
	if a.Attrs[0].Name.Local != "id" || a.Attrs[1].Name.Local != "x" || a.Attrs[8].Name.Local != "slope" {
		t.Errorf("attribute order not preserved: %v", a.Attrs)
	}
	if x, ok := a.Attr("x"); !ok || x != "12.31" {
		t.Errorf("expected x=12.31, got %q (present=%v)", x, ok)
	}
	if trace.VehicleCount() != 8 {
		t.Errorf("expected 8 vehicle records, got %d", trace.VehicleCount())
	}

	t.Logf("✓ Loaded %d timesteps", len(trace.Timesteps))
}

func TestDecode_InnerXMLAndForeignChildren(t *testing.T) {
	doc := `<fcd-export>
<timestep time="3.5">
  <person id="p0" x="1"/>
  <vehicle id="v0" speed="1.0"><param key="k" value="a&amp;b"/></vehicle>
  <container id="c0"/>
</timestep>
</fcd-export>`
	trace, err := Decode(strings.NewReader(doc), "inline")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(trace.Timesteps) != 1 || len(trace.Timesteps[0].Vehicles) != 1 {
		t.Fatalf("expected one timestep with one vehicle, got %+v", trace)
	}
	v := trace.Timesteps[0].Vehicles[0]
	if v.ID != "v0" {
		t.Errorf("expected vehicle v0, got %q", v.ID)
	}
	if got := string(v.Inner); got != `<param key="k" value="a&amp;b"/>` {
		t.Errorf("inner XML not preserved verbatim: %q", got)
	}
}

func TestDecode_NestedTimesteps(t *testing.T) {
	doc := `<root><run><timestep time="0"><vehicle id="a"/></timestep></run><timestep time="1"/></root>`
	trace, err := Decode(strings.NewReader(doc), "inline")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(trace.Timesteps) != 2 {
		t.Fatalf("expected timesteps at any depth, got %d", len(trace.Timesteps))
	}
	if len(trace.Timesteps[1].Vehicles) != 0 {
		t.Errorf("expected empty second timestep, got %d vehicles", len(trace.Timesteps[1].Vehicles))
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"missing time", `<fcd-export><timestep><vehicle id="a"/></timestep></fcd-export>`, "missing the time attribute"},
		{"bad time", `<fcd-export><timestep time="soon"/></fcd-export>`, "invalid timestep time"},
		{"missing vehicle id", `<fcd-export><timestep time="0"><vehicle x="1"/></timestep></fcd-export>`, "missing the id attribute"},
		{"unclosed", `<fcd-export><timestep time="0">`, ""},
		{"mismatched tags", `<fcd-export><timestep time="0"></vehicle></fcd-export>`, ""},
		{"empty document", ``, "no root element"},
		{"second root", `<fcd-export><timestep time="0"/></fcd-export><fcd-export/>`, "content after the root element"},
		{"text before root", `junk<fcd-export><timestep time="0"/></fcd-export>`, "text outside the root element"},
		{"text after root", `<fcd-export/>trailing`, "text outside the root element"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.doc), "bad.xml")
			if err == nil {
				t.Fatal("expected error")
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("expected *ParseError, got %T: %v", err, err)
			}
			if pe.Path != "bad.xml" {
				t.Errorf("expected path bad.xml, got %q", pe.Path)
			}
			if tt.want != "" && !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestDecode_RootIsNotATimestep(t *testing.T) {
	doc := `<timestep time="0"><vehicle id="a"/><timestep time="1"><vehicle id="b"/></timestep></timestep>`
	trace, err := Decode(strings.NewReader(doc), "inline")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(trace.Timesteps) != 1 || trace.Timesteps[0].Time != 1 {
		t.Fatalf("expected only the nested timestep at 1, got %+v", trace.Timesteps)
	}
	if v := trace.Timesteps[0].Vehicles; len(v) != 1 || v[0].ID != "b" {
		t.Errorf("expected vehicle b, got %+v", v)
	}
}

func TestDecode_WhitespaceAroundRoot(t *testing.T) {
	doc := "\n<!-- generated -->\n<fcd-export><timestep time=\"0\"/></fcd-export>\n<!-- end -->\n"
	trace, err := Decode(strings.NewReader(doc), "inline")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(trace.Timesteps) != 1 {
		t.Errorf("expected 1 timestep, got %d", len(trace.Timesteps))
	}
}

// TestDecode_Latin1 verifies a declared ISO-8859-1 document is transcoded
func TestDecode_Latin1(t *testing.T) {
	doc := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>\n" +
		"<fcd-export><timestep time=\"0\"><vehicle id=\"caf\xe9\" lane=\"\xfcber_0\"/></timestep></fcd-export>"
	trace, err := Decode(strings.NewReader(doc), "latin1.xml")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	v := trace.Timesteps[0].Vehicles[0]
	if v.ID != "café" {
		t.Errorf("expected id café, got %q", v.ID)
	}
	if lane, _ := v.Attr("lane"); lane != "über_0" {
		t.Errorf("expected lane über_0, got %q", lane)
	}
	if out := string(BuildXML(trace, WriteOptions{})); !strings.Contains(out, `<vehicle id="café" lane="über_0" />`) {
		t.Errorf("expected UTF-8 output, got %s", out)
	}
}

// TestDecode_NamespacedAttributes verifies prefixed attributes keep their
// prefix and written vehicles carry the declarations they depend on
func TestDecode_NamespacedAttributes(t *testing.T) {
	doc := `<fcd-export xmlns:ext="urn:ext"><timestep time="0">` +
		`<vehicle id="A" ext:tag="1"><ext:note v="x"/></vehicle>` +
		`<vehicle id="B" xmlns:own="urn:own" own:k="2" xml:lang="en"/>` +
		`</timestep></fcd-export>`
	trace, err := Decode(strings.NewReader(doc), "inline")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	out := string(BuildXML(trace, WriteOptions{}))
	for _, want := range []string{
		`<vehicle id="A" ext:tag="1" xmlns:ext="urn:ext"><ext:note v="x"/></vehicle>`,
		`<vehicle id="B" xmlns:own="urn:own" own:k="2" xml:lang="en" />`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s\n got: %s", want, out)
		}
	}

	again, err := Decode(strings.NewReader(out), "written")
	if err != nil {
		t.Fatalf("written document does not parse: %v", err)
	}
	for j, v := range trace.Timesteps[0].Vehicles {
		w := again.Timesteps[0].Vehicles[j]
		if len(w.Attrs) != len(v.Attrs) {
			t.Fatalf("vehicle %s: expected %v, got %v", v.ID, v.Attrs, w.Attrs)
		}
		for k := range v.Attrs {
			if w.Attrs[k] != v.Attrs[k] {
				t.Errorf("vehicle %s attribute %d: expected %v, got %v", v.ID, k, v.Attrs[k], w.Attrs[k])
			}
		}
	}
}

func TestDecode_NormalizesAttributeWhitespace(t *testing.T) {
	doc := "<r><timestep time=\"0\"><vehicle id=\"A\" x=\"a\nb\" y=\"c\td\" z=\"e\r\nf\"/></timestep></r>"
	trace, err := Decode(strings.NewReader(doc), "inline")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	v := trace.Timesteps[0].Vehicles[0]
	for name, want := range map[string]string{"x": "a b", "y": "c d", "z": "e f"} {
		if got, _ := v.Attr(name); got != want {
			t.Errorf("%s: expected %q, got %q", name, want, got)
		}
	}
	if out := string(BuildXML(trace, WriteOptions{})); !strings.Contains(out, `x="a b" y="c d" z="e f"`) {
		t.Errorf("unexpected output %s", out)
	}
}

func TestReadFile_Missing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.xml"))
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected wrapped os.ErrNotExist, got %v", err)
	}
}

func TestVehicle_CloneIsIndependent(t *testing.T) {
	trace, err := Decode(strings.NewReader(`<r><timestep time="0"><vehicle id="a" x="1"><p/></vehicle></timestep></r>`), "inline")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	orig := trace.Timesteps[0].Vehicles[0]
	c := orig.Clone()
	c.Attrs[1].Value = "99"
	c.Inner[0] = 'X'

	if x, _ := orig.Attr("x"); x != "1" {
		t.Errorf("clone attribute write leaked into original: x=%q", x)
	}
	if string(orig.Inner) != "<p/>" {
		t.Errorf("clone inner write leaked into original: %q", orig.Inner)
	}
}
