// Package project manages the on-disk rime contest project: solution
// packaging, problem discovery and judge backend invocation.
package project

import (
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/amylase/rime-judge/internal/contest/model"
	appErr "github.com/amylase/rime-judge/pkg/errors"
)

const (
	problemMarkerFile  = "PROBLEM"
	solutionConfigFile = "SOLUTION"
)

// Project is a rime contest project rooted at a directory. Each
// problem is a subdirectory carrying a PROBLEM file; each packaged
// solution is a subdirectory of its problem.
type Project struct {
	dir string

	mu         sync.Mutex
	problemIDs []string
	addMu      sync.Mutex
}

// New creates a project over the given directory.
func New(dir string) *Project {
	return &Project{dir: dir}
}

// Dir returns the project root directory.
func (p *Project) Dir() string {
	return p.dir
}

// AddSolution writes the solution artifact into the problem directory:
// the language's solution file (with the execute bit when the language
// requires it) and the SOLUTION backend configuration.
func (p *Project) AddSolution(problemID, solutionID string, language model.Language, source string) error {
	// Serialize packaging so concurrent submits cannot race on the
	// existence check.
	p.addMu.Lock()
	defer p.addMu.Unlock()

	problemDir := filepath.Join(p.dir, problemID)
	info, err := os.Stat(problemDir)
	if err != nil || !info.IsDir() {
		return appErr.Newf(appErr.UnknownProblem, "problem directory %s does not exist", problemID)
	}

	solutionDir := filepath.Join(problemDir, solutionID)
	if _, err := os.Stat(solutionDir); err == nil {
		return appErr.Newf(appErr.DuplicateSolution, "solution %s already exists for problem %s", solutionID, problemID)
	}
	if err := os.Mkdir(solutionDir, 0755); err != nil {
		return appErr.Wrapf(err, appErr.ProjectLayoutError, "create solution directory failed")
	}

	mode := os.FileMode(0644)
	if language.NeedPermission() {
		mode = 0777
	}
	solutionFile := filepath.Join(solutionDir, language.SolutionFile())
	if err := os.WriteFile(solutionFile, []byte(source), mode); err != nil {
		return appErr.Wrapf(err, appErr.ProjectLayoutError, "write solution source failed")
	}
	if language.NeedPermission() {
		// WriteFile honors umask; force the execute bit explicitly.
		if err := os.Chmod(solutionFile, mode); err != nil {
			return appErr.Wrapf(err, appErr.ProjectLayoutError, "set solution permissions failed")
		}
	}

	configFile := filepath.Join(solutionDir, solutionConfigFile)
	if err := os.WriteFile(configFile, []byte(language.SolutionConfig()), 0644); err != nil {
		return appErr.Wrapf(err, appErr.ProjectLayoutError, "write solution config failed")
	}
	return nil
}

// ProblemIDs returns the sorted ids of the problems in the project:
// subdirectories carrying a PROBLEM file. The catalog is assumed
// static for the contest duration and is cached after the first read.
func (p *Project) ProblemIDs() ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.problemIDs != nil {
		return append([]string(nil), p.problemIDs...), nil
	}

	entries, err := os.ReadDir(p.dir)
	if err != nil {
		return nil, appErr.Wrapf(err, appErr.ProjectLayoutError, "read project directory failed")
	}
	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		marker := filepath.Join(p.dir, entry.Name(), problemMarkerFile)
		if _, err := os.Stat(marker); err == nil {
			ids = append(ids, entry.Name())
		}
	}
	sort.Strings(ids)
	p.problemIDs = ids
	return append([]string(nil), ids...), nil
}
