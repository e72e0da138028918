// Package gitinfo resolves the commit SHA and branch name of the
// repository under verification. It uses go-git so no git CLI installation
// is required; callers pass explicit values from CI and only fall back to
// resolution for local runs.
package gitinfo

import (
	"fmt"
	"os"

	git "github.com/go-git/go-git/v5"
)

// Info identifies the revision a verification report describes.
type Info struct {
	CommitSHA string
	Branch    string
}

// openRepo opens the repository containing path, traversing up the
// directory tree to find the repository root.
func openRepo(path string) (*git.Repository, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}
	return repo, nil
}

// Resolve fills in the empty fields of info from the repository at path.
// Explicit values are kept untouched. In detached HEAD state the branch
// resolves to "HEAD".
func Resolve(path string, info Info) (Info, error) {
	if info.CommitSHA != "" && info.Branch != "" {
		return info, nil
	}

	repo, err := openRepo(path)
	if err != nil {
		return info, err
	}
	head, err := repo.Head()
	if err != nil {
		return info, fmt.Errorf("getting HEAD reference: %w", err)
	}

	if info.CommitSHA == "" {
		info.CommitSHA = head.Hash().String()
	}
	if info.Branch == "" {
		if head.Name().IsBranch() {
			info.Branch = head.Name().Short()
		} else {
			info.Branch = "HEAD"
		}
	}
	return info, nil
}

// SuiteName derives a JUnit suite name from the resolved revision.
func (i Info) SuiteName() string {
	short := i.CommitSHA
	if len(short) > 8 {
		short = short[:8]
	}
	if i.Branch == "" && short == "" {
		return "pipecheck"
	}
	if i.Branch == "" {
		return fmt.Sprintf("pipecheck-%s", short)
	}
	return fmt.Sprintf("pipecheck-%s@%s", i.Branch, short)
}
