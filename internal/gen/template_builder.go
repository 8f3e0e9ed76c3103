package gen

import (
	"strconv"
	"strings"

	"asset-registry/internal/registry"
)

// templateData is the data passed to the source templates.
type templateData struct {
	PackageName   string
	Namespace     string
	Header        string
	RuntimeHeader string
	Assets        []assetData
	Roots         []rootData
	Lookups       []lookupData
}

type assetData struct {
	ID   int
	Name string
	Path string
	Type string
}

type rootData struct {
	Index   int
	ID      string
	Name    string
	Path    string
	Entries []entryData
}

// entryData is one slot of a root table. Empty slots keep the table aligned
// to asset ids.
type entryData struct {
	Empty     bool
	AssetName string
	Type      string
	Path      string
	Key       string
	IsImage   bool
	Width     int
	Height    int
	RawWidth  int
	RawHeight int
	Scale     float64
}

type lookupData struct {
	Path string
	Name string
}

// buildTemplateData flattens a registry into template data.
func (g *Generator) buildTemplateData(reg *registry.Registry) *templateData {
	data := &templateData{
		PackageName:   g.config.PackageName,
		Namespace:     g.config.Namespace,
		Header:        HeaderFile,
		RuntimeHeader: g.config.RuntimeHeader,
	}

	assets := reg.Assets()

	for _, a := range assets {
		data.Assets = append(data.Assets, assetData{
			ID:   a.ID,
			Name: a.Name,
			Path: a.RelativePath,
			Type: a.Type.String(),
		})
	}

	seen := make(map[string]bool)

	for i, root := range reg.Roots() {
		rd := rootData{
			Index: i,
			ID:    root.ID,
			Name:  root.Name,
			Path:  root.Path,
		}

		for id, e := range root.Entries() {
			if e == nil {
				rd.Entries = append(rd.Entries, entryData{Empty: true})

				continue
			}

			ed := entryData{
				AssetName: assets[id].Name,
				Type:      e.Type.String(),
				Path:      e.Path,
				Key:       primaryPath(e),
			}

			if e.Image != nil {
				ed.IsImage = true
				ed.Width = e.Image.LogicalWidth
				ed.Height = e.Image.LogicalHeight
				ed.RawWidth = e.Image.RawWidth
				ed.RawHeight = e.Image.RawHeight
				ed.Scale = e.Image.Scale
			}

			rd.Entries = append(rd.Entries, ed)

			// Lookup keys come from the first root that holds the asset.
			for _, p := range e.LookupPaths {
				if seen[p] {
					continue
				}

				seen[p] = true
				data.Lookups = append(data.Lookups, lookupData{Path: p, Name: assets[id].Name})
			}
		}

		data.Roots = append(data.Roots, rd)
	}

	return data
}

// templateFuncs are shared by the source templates.
var templateFuncs = map[string]any{
	"cstr":     cString,
	"cppFloat": cppFloat,
	"goFloat":  goFloat,
	"quote":    strconv.Quote,
}

// cString quotes s as a C++ string literal.
func cString(s string) string {
	var b strings.Builder

	b.WriteByte('"')

	for _, r := range s {
		switch r {
		case '"', '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}

	b.WriteByte('"')

	return b.String()
}

// cppFloat formats f as a C++ float literal.
func cppFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 32)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}

	return s + "f"
}

// goFloat formats f as the shortest Go literal that round-trips.
func goFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// primaryPath returns the first lookup path of an entry, or its path.
func primaryPath(e *registry.Entry) string {
	if len(e.LookupPaths) > 0 {
		return e.LookupPaths[0]
	}

	return e.Path
}
