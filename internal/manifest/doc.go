// Package manifest provides the YAML schema, parsing, defaults and
// validation for asset manifests.
//
// # Schema Overview
//
//	root: assets                # base root, default "assets"
//	scale: 1                    # optional scale of the base root
//	variants:
//	  - path: assets-1080       # searched after the base root
//	    id: hd                  # optional, defaults to path
//	    resolution: 1080        # ratio against 2160 becomes the scale
//	  - path: assets-720
//	    base: base              # inherit logical size from another root
//	    scale: 0.3333           # fallback when the base lacks the asset
//	patterns:
//	  - pattern: "images/**/*.png"
//	    type: Image
//	    filter: linear          # extra property, copied onto every match
//	  - pattern: "pyramids/*.png"
//	    type: Pyramid
//
// A bare list of patterns is also accepted; it globs relative to the
// manifest's own directory and declares no variants.
//
// # Ordering
//
// Patterns and variants are kept in declaration order. Asset ids are handed
// out walking patterns first, then roots, so reordering either list changes
// the generated ids.
package manifest
