package gitcli_test

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/traackr/relver/pkg/infra/gitcli"
)

// testRepo builds a throwaway repository with commits at increasing dates.
type testRepo struct {
	t    *testing.T
	path string
	seq  int
}

func newTestRepo(t *testing.T) *testRepo {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	repo := &testRepo{t: t, path: t.TempDir()}
	repo.git("init", "--initial-branch=main", ".")
	repo.git("config", "user.name", "test")
	repo.git("config", "user.email", "test@example.com")
	return repo
}

func (r *testRepo) git(args ...string) {
	r.t.Helper()
	cmd := exec.Command("git", append([]string{"-C", r.path}, args...)...)
	// Deterministic, strictly increasing timestamps so creatordate ordering
	// is stable.
	r.seq++
	date := fmt.Sprintf("2026-01-01T00:%02d:00 +0000", r.seq)
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_DATE="+date,
		"GIT_COMMITTER_DATE="+date,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		r.t.Fatalf("git %v failed: %v\n%s", args, err, out)
	}
}

func (r *testRepo) commit(subject string) {
	r.t.Helper()
	r.git("commit", "--allow-empty", "-m", subject)
}

func TestSource_Commits(t *testing.T) {
	repo := newTestRepo(t)
	repo.commit("initial commit")
	repo.git("tag", "release-1")
	repo.commit("CORE-1: fix a bug")
	repo.commit("chore: bump version")
	repo.commit("CORE-2: add a feature")
	repo.git("tag", "release-2")

	source := gitcli.New(repo.path)

	commits, err := source.Commits(context.Background(), "release-2", "release-1")
	gt.NoError(t, err)

	// Newest first, tag boundary excluded.
	gt.Number(t, len(commits)).Equal(3)
	gt.Value(t, commits[0].Subject).Equal("CORE-2: add a feature")
	gt.Value(t, commits[1].Subject).Equal("chore: bump version")
	gt.Value(t, commits[2].Subject).Equal("CORE-1: fix a bug")
	gt.Value(t, commits[0].Hash).NotEqual("")
}

func TestSource_Commits_EmptyReleaseMeansHead(t *testing.T) {
	repo := newTestRepo(t)
	repo.commit("initial commit")
	repo.git("tag", "release-1")
	repo.commit("CORE-3: newest work")

	source := gitcli.New(repo.path)

	commits, err := source.Commits(context.Background(), "", "release-1")
	gt.NoError(t, err)
	gt.Number(t, len(commits)).Equal(1)
	gt.Value(t, commits[0].Subject).Equal("CORE-3: newest work")
}

func TestSource_ResolveTag(t *testing.T) {
	repo := newTestRepo(t)
	repo.commit("first")
	repo.git("tag", "app-2026-01-01")
	repo.commit("second")
	repo.git("tag", "app-2026-02-01")
	repo.commit("third")
	repo.git("tag", "other-2026-03-01")

	source := gitcli.New(repo.path)
	ctx := context.Background()

	// Newest matching tag wins, prefix-matched.
	tag, err := source.ResolveTag(ctx, "app-")
	gt.NoError(t, err)
	gt.Value(t, tag).Equal("app-2026-02-01")

	// Exact name still resolves.
	tag, err = source.ResolveTag(ctx, "app-2026-01-01")
	gt.NoError(t, err)
	gt.Value(t, tag).Equal("app-2026-01-01")

	// Empty pattern resolves to empty (HEAD range end).
	tag, err = source.ResolveTag(ctx, "")
	gt.NoError(t, err)
	gt.Value(t, tag).Equal("")

	// No match is an error.
	_, err = source.ResolveTag(ctx, "missing-")
	gt.Error(t, err)
}

func TestSource_Commits_BadRange(t *testing.T) {
	repo := newTestRepo(t)
	repo.commit("only commit")

	source := gitcli.New(repo.path)

	_, err := source.Commits(context.Background(), "no-such-tag", "")
	gt.Error(t, err)
}
