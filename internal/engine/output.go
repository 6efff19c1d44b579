package engine

import "os"

// prepareOutputDirectories purges (if requested) and (re)creates root, then
// creates every module's output subdirectory underneath it (spec.md §6
// Per-run output layout).
func prepareOutputDirectories(root string, purge bool, moduleDirs []string) error {
	if purge {
		if err := os.RemoveAll(root); err != nil {
			return err
		}
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return err
	}
	for _, dir := range moduleDirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return nil
}
