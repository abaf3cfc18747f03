// Package submodule checks out the external source repositories a board requires.
package submodule

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/daedaleanai/pbt/board"
	"github.com/daedaleanai/pbt/log"
	"github.com/daedaleanai/pbt/netrc"

	"github.com/go-git/go-git/v5"
)

// Status describes the state of one required submodule.
type Status struct {
	Path string
	Name string
	// Declared is set if the submodule is listed in .gitmodules.
	Declared    bool
	Initialized bool
	// Clean is set if the checked out commit is the one recorded in the workspace.
	Clean    bool
	Expected string
	Current  string
}

// Ready reports whether the submodule can be built from.
func (s Status) Ready() bool {
	return s.Declared && s.Initialized && s.Clean
}

// Workspace is the git repository at the workspace root.
type Workspace struct {
	path string
	repo *git.Repository

	// Credentials authenticate submodule fetches over HTTP(S).
	Credentials *netrc.Netrc
}

// Open opens the git repository at `root`.
func Open(root string) (*Workspace, error) {
	log.Debug("Opening workspace repository '%s'.\n", root)
	repo, err := git.PlainOpen(root)
	if err != nil {
		return nil, fmt.Errorf("failed to open workspace repository '%s': %w", root, err)
	}
	return &Workspace{path: root, repo: repo}, nil
}

func samePath(a, b string) bool {
	clean := func(p string) string {
		return path.Clean(strings.ReplaceAll(p, `\`, "/"))
	}
	return strings.EqualFold(clean(a), clean(b))
}

func (w *Workspace) find(required board.Submodule) (*git.Submodule, error) {
	worktree, err := w.repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to get repo worktree: %w", err)
	}
	submodules, err := worktree.Submodules()
	if err != nil {
		return nil, fmt.Errorf("failed to read submodules: %w", err)
	}
	for _, s := range submodules {
		if samePath(s.Config().Path, required.Path) {
			return s, nil
		}
	}
	return nil, nil
}

// Check reports the status of every required submodule, in order.
func (w *Workspace) Check(required []board.Submodule) ([]Status, error) {
	result := []Status{}
	for _, r := range required {
		s, err := w.find(r)
		if err != nil {
			return nil, err
		}
		if s == nil {
			result = append(result, Status{Path: r.Path})
			continue
		}

		st, err := s.Status()
		if err != nil {
			return nil, fmt.Errorf("failed to get status of submodule '%s': %w", r.Path, err)
		}
		result = append(result, Status{
			Path:        r.Path,
			Name:        s.Config().Name,
			Declared:    true,
			Initialized: !st.Current.IsZero(),
			Clean:       st.IsClean(),
			Expected:    st.Expected.String(),
			Current:     st.Current.String(),
		})
	}
	return result, nil
}

// Init initializes and updates every required submodule that is not ready yet.
func (w *Workspace) Init(ctx context.Context, required []board.Submodule) error {
	statuses, err := w.Check(required)
	if err != nil {
		return err
	}

	for idx, r := range required {
		status := statuses[idx]
		if !status.Declared {
			return fmt.Errorf("required submodule '%s' is not declared in .gitmodules", r.Path)
		}
		if status.Ready() {
			log.Success("Submodule '%s' is up to date.\n", r.Path)
			continue
		}

		s, err := w.find(r)
		if err != nil {
			return err
		}
		opts := &git.SubmoduleUpdateOptions{Init: true}
		if auth := w.Credentials.AuthForURL(s.Config().URL); auth != nil {
			log.Debug("Using credentials of '%s' for '%s'.\n", auth.Username, s.Config().URL)
			opts.Auth = auth
		}
		if r.Recursive {
			opts.RecurseSubmodules = git.DefaultSubmoduleRecursionDepth
		}

		log.Log("Updating submodule '%s'.\n", r.Path)
		log.Spinner.Start()
		err = s.UpdateContext(ctx, opts)
		log.Spinner.Stop()
		if err != nil {
			return fmt.Errorf("failed to update submodule '%s': %w", r.Path, err)
		}
	}
	return nil
}
