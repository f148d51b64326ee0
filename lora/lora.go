// Package lora lists LoRA weight files on local disk and formats them as prompt tags.
package lora

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
)

var DefaultExtensions = []string{".safetensors", ".pt", ".ckpt"}

type LocalIOError struct {
	Path string
	Err  error
}

func (e *LocalIOError) Error() string {
	return fmt.Sprintf("read dir %s: %v", e.Path, e.Err)
}

func (e *LocalIOError) Unwrap() error { return e.Err }

// Scan returns the sorted base names, without extension, of the files in dir
// whose extension is in exts. Subdirectories are skipped.
func Scan(dir string, exts []string) ([]string, error) {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	allowed := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		e = strings.ToLower(e)
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		allowed[e] = struct{}{}
	}

	base, err := expandHome(dir)
	if err != nil {
		return nil, &LocalIOError{Path: dir, Err: err}
	}
	entries, err := os.ReadDir(base)
	if err != nil {
		return nil, &LocalIOError{Path: base, Err: err}
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		ext := filepath.Ext(name)
		if _, ok := allowed[strings.ToLower(ext)]; !ok {
			continue
		}
		names = append(names, strings.TrimSuffix(name, ext))
	}
	slices.Sort(names)
	return names, nil
}

// Tag renders one prompt tag, e.g. <lora:name:0.6>.
func Tag(name string, weight float64) string {
	return "<lora:" + name + ":" + strconv.FormatFloat(weight, 'f', -1, 64) + ">"
}

// Format numbers the tags from 1: "1. <lora:x:0.6>".
func Format(names []string, weight float64) []string {
	lines := make([]string, len(names))
	for i, n := range names {
		lines[i] = strconv.Itoa(i+1) + ". " + Tag(n, weight)
	}
	return lines
}

func expandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
}
