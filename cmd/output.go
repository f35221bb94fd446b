package cmd

import (
	"path/filepath"
	"strings"
	"time"
	"unicode"
)

const stampLayout = "20060102_150405"

// sanitizeName reduces a directory name to characters safe for use in
// generated file and folder names.
func sanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' || r == '.' {
			b.WriteRune(r)
		}
	}
	cleaned := strings.TrimSpace(b.String())
	if cleaned == "" {
		return "directory"
	}
	return cleaned
}

// defaultPackOutput generates the document path for a pack run:
// outputs/<name>_<timestamp>.json.
func defaultPackOutput(rootName string, now time.Time) string {
	return filepath.Join("outputs", sanitizeName(rootName)+"_"+now.Format(stampLayout)+".json")
}

// defaultExtractDir generates the destination for an extract run:
// extracted/<name>_extracted_<timestamp>.
func defaultExtractDir(rootName string, now time.Time) string {
	return filepath.Join("extracted", sanitizeName(rootName)+"_extracted_"+now.Format(stampLayout))
}

// resolveOutputPath places a bare filename under dir while leaving
// explicit paths untouched.
func resolveOutputPath(out, dir string) string {
	if !filepath.IsAbs(out) && filepath.Dir(out) == "." {
		return filepath.Join(dir, out)
	}
	return out
}
