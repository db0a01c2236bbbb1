package prefabs

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

//go:embed *.yaml scenes/*.yaml
var PrefabsFS embed.FS

var (
	diskMu   sync.RWMutex
	diskRoot = "prefabs"
)

// SetDiskRoot changes the directory checked for on-disk overrides before the
// embedded copies. An empty root disables overrides.
func SetDiskRoot(dir string) {
	diskMu.Lock()
	defer diskMu.Unlock()
	diskRoot = dir
}

// DiskRoot returns the override directory.
func DiskRoot() string {
	diskMu.RLock()
	defer diskMu.RUnlock()
	return diskRoot
}

func LoadScript(name string) ([]byte, error) {
	clean := cleanScriptPath(name)
	if data, ok := readDisk(clean); ok {
		return data, nil
	}
	return ScriptsFS.ReadFile(clean)
}

func Load(name string) ([]byte, error) {
	clean := cleanPrefabPath(name)
	if data, ok := readDisk(clean); ok {
		return data, nil
	}
	return PrefabsFS.ReadFile(clean)
}

func ModTime(name string) (time.Time, bool) {
	root := DiskRoot()
	if root == "" {
		return time.Time{}, false
	}
	info, err := os.Stat(filepath.Join(root, filepath.FromSlash(cleanPrefabPath(name))))
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

func readDisk(clean string) ([]byte, bool) {
	root := DiskRoot()
	if root == "" {
		return nil, false
	}
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(clean)))
	if err != nil {
		return nil, false
	}
	return data, true
}

func cleanPrefabPath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	if strings.HasPrefix(s, "prefabs/") {
		return strings.TrimPrefix(s, "prefabs/")
	}
	return s
}

func cleanScriptPath(path string) string {
	if path == "" {
		return ""
	}

	s := filepath.ToSlash(path)

	if after, ok := strings.CutPrefix(s, "prefabs/"); ok {
		s = after
	}

	if after, ok := strings.CutPrefix(s, "scripts/"); ok {
		s = after
	}

	if !strings.HasSuffix(s, ".tengo") {
		s += ".tengo"
	}

	return fmt.Sprintf("scripts/%s", s)
}
