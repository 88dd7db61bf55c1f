package service

import (
	"path/filepath"
	"strings"

	"github.com/ecuworks/tunehub/internal/store/model"
)

// DerivedFilename builds the display name of a processed download by
// appending one parenthesized tag per active option, in canonical order,
// before the original extension. It is a pure function: the same input
// always yields the same name.
func DerivedFilename(original string, opts model.TuningOptions) string {
	ext := filepath.Ext(original)
	base := strings.TrimSuffix(original, ext)

	var tags []string
	if opts.DPFOff {
		tags = append(tags, "(DPF off)")
	}
	if opts.EGROff {
		tags = append(tags, "(EGR off)")
	}
	if opts.AdBlueOff {
		tags = append(tags, "(AdBlue off)")
	}
	if opts.DTCOff {
		tag := "(DTC off)"
		if len(opts.DTCCodes) > 0 {
			tag = "(DTC off: " + strings.Join(opts.DTCCodes, ", ") + ")"
		}
		tags = append(tags, tag)
	}
	if opts.ImmoOff {
		tags = append(tags, "(IMMO off)")
	}

	if len(tags) == 0 {
		return original
	}

	return base + " " + strings.Join(tags, " ") + ext
}
