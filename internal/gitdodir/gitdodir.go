// Package gitdodir provides constants and utilities for the .gitdo directory structure.
package gitdodir

import "path/filepath"

const (
	// Dir is the name of the gitdo state directory.
	Dir = ".gitdo"

	// TasksFile is the tasks file name (inside .gitdo).
	TasksFile = "tasks.json"

	// ConfigFile is the optional config file name (inside .gitdo).
	ConfigFile = "gitdo.toml"
)

// TasksPath returns the full path to the tasks file within a base directory.
func TasksPath(baseDir string) string {
	return joinPath(baseDir, TasksFile)
}

// ConfigPath returns the full path to the config file within a base directory.
func ConfigPath(baseDir string) string {
	return joinPath(baseDir, ConfigFile)
}

// DirPath returns the full path to the .gitdo directory within a base directory.
func DirPath(baseDir string) string {
	if baseDir == "." || baseDir == "" {
		return Dir
	}
	return baseDir + string(filepath.Separator) + Dir
}

func joinPath(baseDir, file string) string {
	if baseDir == "." || baseDir == "" {
		return Dir + string(filepath.Separator) + file
	}
	return baseDir + string(filepath.Separator) + Dir + string(filepath.Separator) + file
}
