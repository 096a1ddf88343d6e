package scanner

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/agentstation/utc"
	"github.com/karrick/godirwalk"

	"github.com/agentstation/grimoire/pkg/catalogs"
	"github.com/agentstation/grimoire/pkg/errors"
)

const (
	markdownExt   = ".md"
	skillManifest = "SKILL.md"
	scriptsDir    = "scripts"
)

// candidate is one discovered element file awaiting extraction. path is
// symlink-resolved; dir is the skill directory for skill candidates.
type candidate struct {
	scope catalogs.Scope
	path  string
	dir   string
}

// collect walks every root in order and gathers candidate files for the
// kind's layout. A root that cannot be read is skipped whole; the
// remaining roots are still walked. Duplicates by resolved path keep the
// first occurrence and record the rest as skipped.
func (s *Scanner) collect(kind catalogs.Kind, roots []Root) ([]candidate, []Skip, error) {
	var (
		candidates []candidate
		skipped    []Skip
		seen       = make(map[string]string) // resolved path -> first kept path
	)

	for _, root := range roots {
		if !root.Scope.IsValid() {
			return nil, nil, errors.NewValidationError("scope", root.Scope, "unknown scope")
		}

		info, err := os.Stat(root.Dir)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			skip, rerr := s.rejectRoot(root.Dir, errors.WrapIO("stat", root.Dir, err))
			if rerr != nil {
				return nil, nil, rerr
			}
			skipped = append(skipped, *skip)
			continue
		}
		if !info.IsDir() {
			skip, rerr := s.rejectRoot(root.Dir, errors.NewIOError("walk", root.Dir, errors.New("root is not a directory")))
			if rerr != nil {
				return nil, nil, rerr
			}
			skipped = append(skipped, *skip)
			continue
		}

		var found []candidate
		switch kind {
		case catalogs.KindSkill:
			found, err = s.collectSkills(root)
		default:
			found, err = s.collectFlat(root)
		}
		if err != nil {
			skip, rerr := s.rejectRoot(root.Dir, err)
			if rerr != nil {
				return nil, nil, rerr
			}
			skipped = append(skipped, *skip)
			continue
		}

		for _, c := range found {
			resolved, err := filepath.EvalSymlinks(c.path)
			if err != nil {
				skipped = append(skipped, Skip{Path: c.path, Reason: "broken link: " + err.Error()})
				continue
			}
			if first, ok := seen[resolved]; ok {
				skipped = append(skipped, Skip{Path: c.path, Reason: "duplicate of " + first})
				continue
			}
			c.path = resolved
			if c.dir != "" {
				c.dir = filepath.Dir(resolved)
			}
			seen[resolved] = c.path
			candidates = append(candidates, c)
		}
	}

	return candidates, skipped, nil
}

// rejectRoot converts a root-level failure into a skip covering the
// whole root, or a fatal error in strict mode.
func (s *Scanner) rejectRoot(dir string, err error) (*Skip, error) {
	if s.strict {
		return nil, errors.WrapStrictScan(dir, err)
	}
	s.logger.Warn().Str("root", dir).Err(err).Msg("skipping unreadable root")
	return &Skip{Path: dir, Reason: err.Error()}, nil
}

// collectFlat gathers *.md files directly under the root directory.
// Agents and commands do not nest.
func (s *Scanner) collectFlat(root Root) ([]candidate, error) {
	var found []candidate

	err := godirwalk.Walk(root.Dir, &godirwalk.Options{
		Unsorted: false,
		Callback: func(osPathname string, de *godirwalk.Dirent) error {
			if de.IsDir() {
				if osPathname == root.Dir {
					return nil
				}
				return filepath.SkipDir
			}
			if strings.EqualFold(filepath.Ext(de.Name()), markdownExt) {
				found = append(found, candidate{scope: root.Scope, path: osPathname})
			}
			return nil
		},
		ErrorCallback: func(osPathname string, err error) godirwalk.ErrorAction {
			if osPathname == root.Dir {
				return godirwalk.Halt
			}
			s.logger.Warn().Str("path", osPathname).Err(err).Msg("unreadable entry during walk")
			return godirwalk.SkipNode
		},
	})
	if err != nil {
		return nil, errors.WrapIO("walk", root.Dir, err)
	}
	return found, nil
}

// collectSkills gathers immediate subdirectories of the root that hold a
// SKILL.md manifest. Nested skill directories are not descended into.
func (s *Scanner) collectSkills(root Root) ([]candidate, error) {
	var found []candidate

	err := godirwalk.Walk(root.Dir, &godirwalk.Options{
		Unsorted: false,
		Callback: func(osPathname string, de *godirwalk.Dirent) error {
			if osPathname == root.Dir || !de.IsDir() {
				return nil
			}
			manifest := filepath.Join(osPathname, skillManifest)
			if info, err := os.Stat(manifest); err == nil && info.Mode().IsRegular() {
				found = append(found, candidate{
					scope: root.Scope,
					path:  manifest,
					dir:   osPathname,
				})
			}
			return filepath.SkipDir
		},
		ErrorCallback: func(osPathname string, err error) godirwalk.ErrorAction {
			if osPathname == root.Dir {
				return godirwalk.Halt
			}
			s.logger.Warn().Str("path", osPathname).Err(err).Msg("unreadable entry during walk")
			return godirwalk.SkipNode
		},
	})
	if err != nil {
		return nil, errors.WrapIO("walk", root.Dir, err)
	}
	return found, nil
}

// skillDirStats derives skill provenance from its directory: whether a
// scripts/ subdirectory exists and how many regular files the skill
// carries in total.
func skillDirStats(dir string) (hasScripts bool, fileCount int) {
	if info, err := os.Stat(filepath.Join(dir, scriptsDir)); err == nil && info.IsDir() {
		hasScripts = true
	}

	_ = godirwalk.Walk(dir, &godirwalk.Options{
		Unsorted: true,
		Callback: func(osPathname string, de *godirwalk.Dirent) error {
			if de.IsRegular() {
				fileCount++
			}
			return nil
		},
		ErrorCallback: func(string, error) godirwalk.ErrorAction {
			return godirwalk.SkipNode
		},
	})
	return hasScripts, fileCount
}

func utcFromTime(t time.Time) utc.Time {
	return utc.New(t)
}
