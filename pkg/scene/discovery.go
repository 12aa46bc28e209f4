package scene

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SceneInfo represents a built-in or discovered scene
type SceneInfo struct {
	Name     string `json:"name"`     // Builtin name, or the scene file's name field
	Title    string `json:"title"`    // Display name
	Summary  string `json:"summary"`  // Optional description
	Type     string `json:"type"`     // "builtin" or "file"
	FilePath string `json:"filePath"` // Scene file (file type only)
}

// BuiltinScenes lists the built-in demo scenes in their fixed order
func BuiltinScenes() []SceneInfo {
	scenes := make([]SceneInfo, len(builtins))
	for i, b := range builtins {
		scenes[i] = SceneInfo{
			Name:    b.name,
			Title:   titleCase(b.name),
			Summary: b.summary,
			Type:    "builtin",
		}
	}
	return scenes
}

// DiscoverSceneFiles scans dir for *.json scene descriptions, sorted by title.
// A missing directory yields no scenes; files that fail to parse are skipped with a warning.
func DiscoverSceneFiles(dir string) ([]SceneInfo, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return []SceneInfo{}, nil
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	scenes := []SceneInfo{}
	for _, filePath := range files {
		desc, err := LoadDescription(filePath)
		if err != nil {
			logger.Warningf("skipping %s: %v", filePath, err)
			continue
		}

		nameWithoutExt := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
		info := SceneInfo{
			Name:     desc.Name,
			Title:    titleCase(nameWithoutExt),
			Summary:  desc.Summary,
			Type:     "file",
			FilePath: filePath,
		}
		if info.Name == "" {
			info.Name = nameWithoutExt
		} else {
			info.Title = titleCase(info.Name)
		}
		scenes = append(scenes, info)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].Title < scenes[j].Title
	})
	return scenes, nil
}

// ListScenes returns the built-in scenes followed by the files discovered in dir
func ListScenes(dir string) ([]SceneInfo, error) {
	discovered, err := DiscoverSceneFiles(dir)
	if err != nil {
		return nil, err
	}
	return append(BuiltinScenes(), discovered...), nil
}

// titleCase converts a filename-style string to title case
// e.g., "cornell-smoke" -> "Cornell Smoke"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return strings.Join(words, " ")
}
