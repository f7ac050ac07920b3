// Package project provides the public API for opening and creating
// dam-capacity project databases while keeping the SQLite implementation
// internal.
//
// Example:
//
//	p, err := project.Open("watershed.gpkg")
//	if err != nil {
//	    return err
//	}
//	defer p.Close()
package project

import (
	"github.com/riverscapes/brat/internal/project"
)

// Project is the handle to an open project database.
type Project = project.Project

// Create initializes a fresh project database at path, replacing any
// existing file. Used by the build step.
func Create(path string) (*Project, error) {
	return project.Create(path)
}

// Open attaches to an existing project database. Used by the run and
// export steps.
func Open(path string) (*Project, error) {
	return project.Open(path)
}
