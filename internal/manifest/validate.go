package manifest

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"asset-registry/internal/diagnostic"
	"asset-registry/internal/match"
)

var structValidator = newStructValidator()

func newStructValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report manifest keys rather than Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	return v
}

// Validate checks a manifest for structural problems and resolves each
// pattern's asset type. Base cycles are detected later, when roots are
// ordered for resolution.
func Validate(m *Manifest) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if m == nil {
		res.AddError("manifest_is_nil", "manifest is nil", "", "")
		return res
	}

	validateStruct(res, m)

	for i := range m.Patterns {
		p := &m.Patterns[i]
		if p.TypeName == "" {
			continue
		}

		t, err := ParseAssetType(p.TypeName)
		if err != nil {
			res.AddError("unknown_asset_type", err.Error(), fmt.Sprintf("patterns[%d].type", i), p.Pattern)
			continue
		}

		p.Type = t
	}

	validateVariants(res, m)

	return res
}

func validateStruct(res *diagnostic.Diagnostics, m *Manifest) {
	err := structValidator.Struct(m)
	if err == nil {
		return
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		res.AddError("invalid_manifest", err.Error(), "", "")
		return
	}

	for _, fe := range verrs {
		key := strings.TrimPrefix(fe.Namespace(), "Manifest.")

		switch fe.Tag() {
		case "required":
			res.AddError("missing_key", "required key is missing", key, "")
		case "min":
			res.AddError("empty_list", "at least one entry is required", key, "")
		case "gt":
			res.AddError("non_positive_value", fmt.Sprintf("must be greater than zero, got %v", deref(fe.Value())), key, "")
		default:
			res.AddError("invalid_value", fmt.Sprintf("failed %q check", fe.Tag()), key, "")
		}
	}
}

func validateVariants(res *diagnostic.Diagnostics, m *Manifest) {
	ids := map[string]int{BaseRootID: -1}

	for i := range m.Variants {
		v := &m.Variants[i]
		if v.ID == "" {
			continue
		}

		key := fmt.Sprintf("variants[%d].id", i)
		if _, ok := ids[v.ID]; ok {
			res.AddError("duplicate_variant", fmt.Sprintf("duplicate variant id %q", v.ID), key, v.Path)
			continue
		}

		ids[v.ID] = i
	}

	for i := range m.Variants {
		v := &m.Variants[i]

		if v.Base != "" {
			key := fmt.Sprintf("variants[%d].base", i)

			switch {
			case v.Base == v.ID:
				res.AddError("self_base", fmt.Sprintf("variant %q uses itself as base", v.ID), key, v.Path)
			case !hasID(ids, v.Base):
				res.AddError("unknown_base",
					fmt.Sprintf("base %q does not name a root%s", v.Base, match.Hint(v.Base, rootIDs(m))), key, v.Path)
			}

			if v.Scale == nil && v.Resolution == nil {
				res.AddWarning("no_fallback_scale",
					"assets missing from the base root cannot be resolved without scale or resolution", key, v.Path)
			}

			continue
		}

		if v.Scale == nil && v.Resolution == nil {
			res.AddError("missing_scale", "variant needs one of base, scale or resolution",
				fmt.Sprintf("variants[%d]", i), v.Path)
		}
	}
}

// rootIDs lists the base root id followed by every declared variant id.
func rootIDs(m *Manifest) []string {
	ids := []string{BaseRootID}
	for _, v := range m.Variants {
		if v.ID != "" {
			ids = append(ids, v.ID)
		}
	}

	return ids
}

func hasID(ids map[string]int, id string) bool {
	_, ok := ids[id]
	return ok
}

func deref(v any) any {
	if p, ok := v.(*float64); ok && p != nil {
		return *p
	}

	return v
}
