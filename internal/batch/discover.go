package batch

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// Discover returns every file under dir whose extension is in extensions,
// sorted by path. Extensions are compared case-insensitively, with or without
// a leading dot. Hidden directories are skipped.
func Discover(dir string, extensions []string) ([]string, error) {
	wanted := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		wanted[ext] = struct{}{}
	}
	if len(wanted) == 0 {
		return nil, fmt.Errorf("discover %s: no extensions configured", dir)
	}

	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if _, ok := wanted[strings.ToLower(filepath.Ext(path))]; ok {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discover %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}

// OutputPath maps an input container to its subtitle file. Inputs under
// inputDir keep their relative directory beneath outputDir; other inputs are
// placed directly in outputDir.
func OutputPath(outputDir, inputDir, input string) string {
	stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	if inputDir != "" {
		if rel, err := filepath.Rel(inputDir, filepath.Dir(input)); err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return filepath.Join(outputDir, rel, stem+".srt")
		}
	}
	return filepath.Join(outputDir, stem+".srt")
}

// planOutputs assigns an output path to every input and reports the paths
// claimed by more than one input.
func planOutputs(outputDir, inputDir string, files []string) ([]string, map[string]int) {
	outputs := make([]string, len(files))
	claims := make(map[string]int, len(files))
	for i, file := range files {
		outputs[i] = OutputPath(outputDir, inputDir, file)
		claims[outputs[i]]++
	}
	collisions := make(map[string]int)
	for path, n := range claims {
		if n > 1 {
			collisions[path] = n
		}
	}
	return outputs, collisions
}
