package gen

import (
	"bytes"
	"fmt"
	"go/token"
	"text/template"

	"gopkg.in/yaml.v3"

	"asset-registry/internal/diagnostic"
	"asset-registry/internal/manifest"
	"asset-registry/internal/pyramid"
	"asset-registry/internal/registry"
)

// Output file names.
const (
	HeaderFile    = "Assets.h"
	SourceFile    = "Assets.cpp"
	GoFile        = "assets_gen.go"
	ManifestFile  = "asset_manifest.yaml"
	PyramidsFile  = "pyramids.yaml"
	generatedBy   = "Code generated by asset-registry. DO NOT EDIT."
	yamlGenHeader = "# " + generatedBy
)

// Target selects the language of the generated source files.
type Target string

// Supported targets.
const (
	TargetCpp Target = "cpp"
	TargetGo  Target = "go"
)

// ParseTarget returns the target named s.
func ParseTarget(s string) (Target, error) {
	switch Target(s) {
	case TargetCpp, TargetGo:
		return Target(s), nil
	default:
		return "", diagnostic.Configf("unknown target %q (want %q or %q)", s, TargetCpp, TargetGo)
	}
}

// GeneratorConfig holds configuration for code generation.
type GeneratorConfig struct {
	// Target is the language of the generated source files.
	Target Target
	// PackageName is the package of the generated Go file.
	PackageName string
	// Namespace wraps the generated C++ declarations.
	Namespace string
	// RuntimeHeader is included by the generated C++ header and declares
	// AssetInfo, AssetProperties and the asset type enum.
	RuntimeHeader string
	// OutputDir receives debugging sidecars when formatting fails.
	OutputDir string
}

// DefaultGeneratorConfig returns the default generator configuration.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Target:        TargetCpp,
		PackageName:   "assets",
		Namespace:     "assets",
		RuntimeHeader: "asset/AssetInfo.h",
		OutputDir:     ".",
	}
}

// Generator renders registry artifacts.
type Generator struct {
	config GeneratorConfig
}

// NewGenerator creates a new Generator with the given configuration.
func NewGenerator(config GeneratorConfig) *Generator {
	return &Generator{config: config}
}

// GeneratedFile is one rendered artifact.
type GeneratedFile struct {
	// Filename is the name of the file relative to the output directory.
	Filename string
	// Content is the complete file content.
	Content []byte
}

// Generate renders the source files for the configured target, the runtime
// asset manifest and the pyramid catalogue. Nothing is written to disk.
func (g *Generator) Generate(
	reg *registry.Registry,
	pyramids []pyramid.Pyramid,
	images []pyramid.Image,
) ([]GeneratedFile, error) {
	data := g.buildTemplateData(reg)

	var files []GeneratedFile

	switch g.config.Target {
	case TargetCpp, "":
		for _, t := range []struct {
			name string
			tmpl *template.Template
		}{
			{HeaderFile, headerTemplate},
			{SourceFile, sourceTemplate},
		} {
			file, err := g.render(t.name, t.tmpl, data)
			if err != nil {
				return nil, err
			}

			files = append(files, *file)
		}

	case TargetGo:
		file, err := g.generateGo(data)
		if err != nil {
			return nil, err
		}

		files = append(files, *file)

	default:
		return nil, diagnostic.Configf("unknown target %q", g.config.Target)
	}

	file, err := generateManifest(reg)
	if err != nil {
		return nil, fmt.Errorf("generating %s: %w", ManifestFile, err)
	}

	files = append(files, *file)

	file, err = generatePyramids(pyramids, images)
	if err != nil {
		return nil, fmt.Errorf("generating %s: %w", PyramidsFile, err)
	}

	files = append(files, *file)

	return files, nil
}

func (g *Generator) render(filename string, tmpl *template.Template, data *templateData) (*GeneratedFile, error) {
	var buf bytes.Buffer

	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template %s: %w", filename, err)
	}

	return &GeneratedFile{Filename: filename, Content: buf.Bytes()}, nil
}

func (g *Generator) generateGo(data *templateData) (*GeneratedFile, error) {
	if !token.IsIdentifier(data.PackageName) {
		return nil, diagnostic.Configf("invalid Go package name %q", data.PackageName)
	}

	file, err := g.render(GoFile, goTemplate, data)
	if err != nil {
		return nil, err
	}

	formatted, err := formatGo(g.config.OutputDir, GoFile, file.Content)
	if err != nil {
		return nil, err
	}

	file.Content = formatted

	return file, nil
}

// entryKeys are written by generateManifest itself; extra properties with
// these keys are dropped.
var entryKeys = map[string]bool{
	"id": true, "name": true, "type": true, "path": true, "paths": true,
	"width": true, "height": true, "realWidth": true, "realHeight": true, "scale": true,
}

// generateManifest renders the runtime manifest: the asset index, then every
// root with its filled entries in id order.
func generateManifest(reg *registry.Registry) (*GeneratedFile, error) {
	doc := &yaml.Node{Kind: yaml.MappingNode}

	if err := manifest.AppendValue(doc, "reference", manifest.ReferenceResolution); err != nil {
		return nil, err
	}

	assets := &yaml.Node{Kind: yaml.SequenceNode}

	for _, a := range reg.Assets() {
		n := &yaml.Node{Kind: yaml.MappingNode}
		if err := manifest.AppendValue(n, "id", a.ID); err != nil {
			return nil, err
		}

		manifest.AppendPair(n, "name", a.Name)
		manifest.AppendPair(n, "type", a.Type.String())
		manifest.AppendPair(n, "path", a.RelativePath)
		assets.Content = append(assets.Content, n)
	}

	appendNode(doc, "assets", assets)

	roots := &yaml.Node{Kind: yaml.SequenceNode}

	for _, root := range reg.Roots() {
		n, err := rootNode(reg, root)
		if err != nil {
			return nil, fmt.Errorf("root %q: %w", root.ID, err)
		}

		roots.Content = append(roots.Content, n)
	}

	appendNode(doc, "roots", roots)

	content, err := encodeYAML(doc)
	if err != nil {
		return nil, err
	}

	return &GeneratedFile{Filename: ManifestFile, Content: content}, nil
}

func rootNode(reg *registry.Registry, root *registry.Root) (*yaml.Node, error) {
	n := &yaml.Node{Kind: yaml.MappingNode}
	manifest.AppendPair(n, "id", root.ID)
	manifest.AppendPair(n, "name", root.Name)
	manifest.AppendPair(n, "path", root.Path)

	if root.Base != "" {
		manifest.AppendPair(n, "base", root.Base)
	}

	if root.Scale != nil {
		if err := manifest.AppendValue(n, "scale", *root.Scale); err != nil {
			return nil, err
		}
	}

	if root.Resolution != nil {
		if err := manifest.AppendValue(n, "resolution", *root.Resolution); err != nil {
			return nil, err
		}
	}

	entries := &yaml.Node{Kind: yaml.SequenceNode}
	assets := reg.Assets()

	for id, e := range root.Entries() {
		if e == nil {
			continue
		}

		en, err := entryNode(assets[id], e)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Path, err)
		}

		entries.Content = append(entries.Content, en)
	}

	appendNode(n, "assets", entries)

	return n, nil
}

func entryNode(a registry.AssetRecord, e *registry.Entry) (*yaml.Node, error) {
	n := &yaml.Node{Kind: yaml.MappingNode}

	if err := manifest.AppendValue(n, "id", a.ID); err != nil {
		return nil, err
	}

	manifest.AppendPair(n, "name", a.Name)
	manifest.AppendPair(n, "type", e.Type.String())
	manifest.AppendPair(n, "path", e.Path)

	paths := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, p := range e.LookupPaths {
		paths.Content = append(paths.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: p})
	}

	appendNode(n, "paths", paths)

	if img := e.Image; img != nil {
		for _, kv := range []struct {
			key   string
			value any
		}{
			{"width", img.LogicalWidth},
			{"height", img.LogicalHeight},
			{"realWidth", img.RawWidth},
			{"realHeight", img.RawHeight},
			{"scale", img.Scale},
		} {
			if err := manifest.AppendValue(n, kv.key, kv.value); err != nil {
				return nil, err
			}
		}
	}

	for _, prop := range e.Extra {
		if entryKeys[prop.Key] {
			continue
		}

		if err := manifest.AppendValue(n, prop.Key, prop.Value); err != nil {
			return nil, err
		}
	}

	return n, nil
}

// pyramidCatalogue is the document written to PyramidsFile.
type pyramidCatalogue struct {
	Pyramids []pyramid.Pyramid `yaml:"pyramids"`
	Images   []pyramid.Image   `yaml:"images"`
}

func generatePyramids(pyramids []pyramid.Pyramid, images []pyramid.Image) (*GeneratedFile, error) {
	cat := pyramidCatalogue{Pyramids: pyramids, Images: images}
	if cat.Pyramids == nil {
		cat.Pyramids = []pyramid.Pyramid{}
	}

	if cat.Images == nil {
		cat.Images = []pyramid.Image{}
	}

	var n yaml.Node
	if err := n.Encode(cat); err != nil {
		return nil, err
	}

	content, err := encodeYAML(&n)
	if err != nil {
		return nil, err
	}

	return &GeneratedFile{Filename: PyramidsFile, Content: content}, nil
}

func appendNode(node *yaml.Node, key string, value *yaml.Node) {
	node.Content = append(node.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		value,
	)
}

// encodeYAML writes node as a document carrying the generated-code header.
func encodeYAML(node *yaml.Node) ([]byte, error) {
	doc := &yaml.Node{
		Kind:        yaml.DocumentNode,
		HeadComment: yamlGenHeader,
		Content:     []*yaml.Node{node},
	}

	var buf bytes.Buffer

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encoding YAML: %w", err)
	}

	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding YAML: %w", err)
	}

	return buf.Bytes(), nil
}

// Templates for the generated sources.

var headerTemplate = template.Must(template.New("header").Funcs(templateFuncs).Parse(`// ` + generatedBy + `

#pragma once

#include <string>

#include "{{.RuntimeHeader}}"

namespace {{.Namespace}} {

enum AssetId : int {
{{- range .Assets}}
    {{.Name}} = {{.ID}},
{{- end}}
};

enum AssetRootId : int {
{{- range .Roots}}
    {{.Name}} = {{.Index}},
{{- end}}
};

constexpr int AssetCount = {{len .Assets}};
constexpr int AssetRootCount = {{len .Roots}};

extern const char *const AssetRootPaths[AssetRootCount];
extern const AssetInfo *const AssetRoots[AssetRootCount];

// Returns the id registered under path, or -1.
AssetId assetIdByPath(const std::string &path);

}
`))

var sourceTemplate = template.Must(template.New("source").Funcs(templateFuncs).Parse(`// ` + generatedBy + `

#include "{{.Header}}"

#include <unordered_map>

namespace {{.Namespace}} {
{{range .Roots}}
// {{.ID}}: {{.Path}}
{{- if $.Assets}}
static const AssetInfo {{.Name}}Table[AssetCount] = {
{{- range .Entries}}
{{- if .Empty}}
    {},
{{- else if .IsImage}}
    { {{.AssetName}}, {{.Type}}Asset, {{cstr .Path}}, AssetProperties({{.Width}}, {{.Height}}, {{.RawWidth}}, {{.RawHeight}}, {{cppFloat .Scale}}) },
{{- else}}
    { {{.AssetName}}, {{.Type}}Asset, {{cstr .Path}}, AssetProperties() },
{{- end}}
{{- end}}
};
{{- else}}
// No assets: a single unused slot, since arrays cannot be empty.
static const AssetInfo {{.Name}}Table[1] = {};
{{- end}}
{{end}}
const char *const AssetRootPaths[AssetRootCount] = {
{{- range .Roots}}
    {{cstr .Path}},
{{- end}}
};

const AssetInfo *const AssetRoots[AssetRootCount] = {
{{- range .Roots}}
    {{.Name}}Table,
{{- end}}
};

static const std::unordered_map<std::string, AssetId> assetsByPath = {
{{- range .Lookups}}
    { {{cstr .Path}}, {{.Name}} },
{{- end}}
};

AssetId assetIdByPath(const std::string &path) {
    auto it = assetsByPath.find(path);
    return it == assetsByPath.end() ? static_cast<AssetId>(-1) : it->second;
}

}
`))

var goTemplate = template.Must(template.New("go").Funcs(templateFuncs).Parse(`// ` + generatedBy + `

package {{.PackageName}}

// AssetID identifies a logical asset.
type AssetID int

const (
{{- range .Assets}}
	{{.Name}} AssetID = {{.ID}}
{{- end}}
)

// AssetCount is the number of logical assets.
const AssetCount = {{len .Assets}}

// RootID identifies an asset root.
type RootID int

const (
{{- range .Roots}}
	{{.Name}} RootID = {{.Index}}
{{- end}}
)

// RootCount is the number of asset roots.
const RootCount = {{len .Roots}}

// Info is one root's copy of an asset. Empty slots have an empty Path.
type Info struct {
	ID        AssetID
	Type      string
	Path      string
	Key       string
	Width     int
	Height    int
	RawWidth  int
	RawHeight int
	Scale     float64
}

// RootPaths holds each root's directory.
var RootPaths = [RootCount]string{
{{- range .Roots}}
	{{.Name}}: {{quote .Path}},
{{- end}}
}

// Roots holds one table per root, aligned to asset ids.
var Roots = [RootCount][AssetCount]Info{
{{- range .Roots}}
	{{.Name}}: {
	{{- range .Entries}}{{if not .Empty}}
		{{.AssetName}}: {ID: {{.AssetName}}, Type: {{quote .Type}}, Path: {{quote .Path}}, Key: {{quote .Key}}
		{{- if .IsImage}}, Width: {{.Width}}, Height: {{.Height}}, RawWidth: {{.RawWidth}}, RawHeight: {{.RawHeight}}, Scale: {{goFloat .Scale}}{{end}}},
	{{- end}}{{end}}
	},
{{- end}}
}

var byPath = map[string]AssetID{
{{- range .Lookups}}
	{{quote .Path}}: {{.Name}},
{{- end}}
}

// Lookup returns the id of the asset registered under path.
func Lookup(path string) (AssetID, bool) {
	id, ok := byPath[path]
	return id, ok
}
`))
