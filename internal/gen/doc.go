// Package gen renders a resolved asset registry into deterministic artifacts
// and writes them incrementally.
//
// Artifacts:
//   - Assets.h / Assets.cpp (target cpp): AssetId and AssetRootId enums and
//     one AssetInfo table per root, aligned to asset ids
//   - assets_gen.go (target go): the same tables as Go, run through go/format
//   - asset_manifest.yaml: roots and their filled entries with dimensions
//     and extra pattern properties, for runtime loaders
//   - pyramids.yaml: image pyramids and their sized renditions
//
// Sources use text/template; YAML is built as yaml.Node trees so key order
// is fixed. The Emitter compares against what is on disk and only writes
// files whose bytes changed.
package gen
