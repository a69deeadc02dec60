package bagsync

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordle/apps/wordbag/internal/changelog"
	"github.com/robalobadob/wordle/apps/wordbag/internal/external"
	"github.com/robalobadob/wordle/apps/wordbag/internal/store"
	"github.com/robalobadob/wordle/apps/wordbag/internal/words"
)

type fakeFetcher struct {
	doc   string
	err   error
	calls int
}

func (f *fakeFetcher) Fetch(ctx context.Context, dest string) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	return os.WriteFile(dest, []byte(f.doc), 0o644)
}

type fakeGenerator struct {
	snap  store.Snapshot
	bag   words.Bag
	err   error
	calls int
}

func (g *fakeGenerator) Generate(ctx context.Context) error {
	g.calls++
	if g.err != nil {
		return g.err
	}
	return g.snap.Save(ctx, g.bag)
}

type fakePublisher struct {
	files []string
	err   error
}

func (p *fakePublisher) Publish(ctx context.Context, file string) error {
	p.files = append(p.files, file)
	return p.err
}

type fixture struct {
	dir     string
	opts    Options
	snap    store.Snapshot
	newLog  string
	elimLog string
	script  string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	f := &fixture{
		dir:     dir,
		snap:    store.NewFileSnapshot(filepath.Join(dir, "bolsa.bin")),
		newLog:  filepath.Join(dir, "nuevas.log"),
		elimLog: filepath.Join(dir, "elim.log"),
		script:  filepath.Join(dir, "words.js"),
	}
	f.opts = Options{
		Snapshot:   f.snap,
		ScriptPath: f.script,
		NewLog:     changelog.New(f.newLog),
		RemovedLog: changelog.New(f.elimLog),
	}
	return f
}

func (f *fixture) writeScript(t *testing.T, doc string) {
	t.Helper()
	require.NoError(t, os.WriteFile(f.script, []byte(doc), 0o644))
}

func (f *fixture) readScript(t *testing.T) string {
	t.Helper()
	raw, err := os.ReadFile(f.script)
	require.NoError(t, err)
	return string(raw)
}

func TestBootstrapPrefersScriptOverSnapshot(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.snap.Save(ctx, words.NewBag("viejo")))
	f.writeScript(t, `const WORDS = ['Gallo', "perro", "gallo"];`)

	s := New(f.opts)
	src, err := s.Bootstrap(ctx)
	require.NoError(t, err)
	assert.Equal(t, SourceScript, src)
	assert.Equal(t, []string{"gallo", "perro"}, s.Bag().Sorted())

	persisted, err := f.snap.Load(ctx)
	require.NoError(t, err)
	assert.True(t, persisted.Equal(s.Bag()), "bootstrap must normalize the snapshot")
	assert.Equal(t, `const WORDS = ["gallo","perro"];`, f.readScript(t))
}

func TestBootstrapKeepsScriptFollowedByMoreCode(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.writeScript(t, "const WORDS = [\"gallo\",\"perro\"]\nexport default WORDS;\n")

	s := New(f.opts)
	src, err := s.Bootstrap(ctx)
	require.NoError(t, err)
	assert.Equal(t, SourceScript, src)
	assert.Equal(t, `const WORDS = ["gallo","perro"];`, f.readScript(t))
}

func TestBootstrapMalformedScriptFallsBackToSnapshot(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.snap.Save(ctx, words.NewBag("gallo")))
	f.writeScript(t, "var nothing = 1;\n")

	s := New(f.opts)
	src, err := s.Bootstrap(ctx)
	require.NoError(t, err)
	assert.Equal(t, SourceSnapshot, src)
	assert.Equal(t, []string{"gallo"}, s.Bag().Sorted())
	assert.Equal(t, `const WORDS = ["gallo"];`, f.readScript(t))
}

func TestBootstrapFromSnapshot(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.snap.Save(ctx, words.NewBag("perro", "gatos")))

	s := New(f.opts)
	src, err := s.Bootstrap(ctx)
	require.NoError(t, err)
	assert.Equal(t, SourceSnapshot, src)
	assert.Equal(t, `const WORDS = ["gatos","perro"];`, f.readScript(t))
}

func TestBootstrapRunsGenerator(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	gen := &fakeGenerator{snap: f.snap, bag: words.NewBag("manga")}
	f.opts.Generator = gen

	s := New(f.opts)
	src, err := s.Bootstrap(ctx)
	require.NoError(t, err)
	assert.Equal(t, SourceGenerator, src)
	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, []string{"manga"}, s.Bag().Sorted())
}

func TestBootstrapGeneratorFailureYieldsEmptyBag(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.opts.Generator = &fakeGenerator{err: external.ErrExternalTool}

	s := New(f.opts)
	src, err := s.Bootstrap(ctx)
	require.NoError(t, err)
	assert.Equal(t, SourceEmpty, src)
	assert.Zero(t, s.Bag().Len())
	assert.True(t, f.snap.Exists(ctx))
	assert.Equal(t, `const WORDS = [];`, f.readScript(t))
}

func TestBootstrapUsesFetchedScript(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.snap.Save(ctx, words.NewBag("viejo")))
	fetch := &fakeFetcher{doc: `const WORDS = ["remot"];`}
	f.opts.Fetcher = fetch

	s := New(f.opts)
	src, err := s.Bootstrap(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, fetch.calls)
	assert.Equal(t, SourceScript, src)
	assert.Equal(t, []string{"remot"}, s.Bag().Sorted())
}

func TestBootstrapFetchFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.snap.Save(ctx, words.NewBag("local")))
	f.opts.Fetcher = &fakeFetcher{err: external.ErrExternalTool}

	s := New(f.opts)
	src, err := s.Bootstrap(ctx)
	require.NoError(t, err)
	assert.Equal(t, SourceSnapshot, src)
	assert.Equal(t, []string{"local"}, s.Bag().Sorted())
}

func TestBootstrapSurfacesPersistFailure(t *testing.T) {
	mem := store.NewMemorySnapshot()
	mem.FailSaves = true
	f := newFixture(t)
	f.opts.Snapshot = mem

	_, err := New(f.opts).Bootstrap(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, store.ErrIO))
}

func TestAddPersistsAndSurvivesReload(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := New(f.opts)
	_, err := s.Bootstrap(ctx)
	require.NoError(t, err)
	sess := NewSession()

	w, err := s.Add(ctx, sess, "  GATOS ")
	require.NoError(t, err)
	assert.Equal(t, "gatos", w)
	assert.True(t, s.Has("gatos"))
	assert.Equal(t, 1, sess.Additions())

	reloaded, err := f.snap.Load(ctx)
	require.NoError(t, err)
	assert.True(t, reloaded.Has("gatos"))
	assert.Equal(t, `const WORDS = ["gatos"];`, f.readScript(t))
}

func TestAddRejectsWrongLength(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemorySnapshot()
	f := newFixture(t)
	f.opts.Snapshot = mem
	s := New(f.opts)
	_, err := s.Bootstrap(ctx)
	require.NoError(t, err)
	saves := mem.Saves()
	sess := NewSession()

	for _, w := range []string{"sol", "murciélago", ""} {
		_, err := s.Add(ctx, sess, w)
		require.Error(t, err)
		assert.True(t, errors.Is(err, words.ErrLength), w)
	}
	assert.Zero(t, s.Bag().Len())
	assert.Zero(t, sess.Additions())
	assert.Equal(t, saves, mem.Saves(), "rejected words must not trigger a persist")
}

func TestAddCountsRunesNotBytes(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := New(f.opts)
	_, err := s.Bootstrap(ctx)
	require.NoError(t, err)

	w, err := s.Add(ctx, NewSession(), "Ñandú")
	require.NoError(t, err)
	assert.Equal(t, "ñandú", w)
}

func TestAddExistingWord(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.writeScript(t, `const WORDS = ["gallo"];`)
	s := New(f.opts)
	_, err := s.Bootstrap(ctx)
	require.NoError(t, err)

	sess := NewSession()
	_, err = s.Add(ctx, sess, "gallo")
	assert.True(t, errors.Is(err, ErrExists))
	assert.Zero(t, sess.Additions())
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.writeScript(t, `const WORDS = ["gallo","perro"];`)
	s := New(f.opts)
	_, err := s.Bootstrap(ctx)
	require.NoError(t, err)
	sess := NewSession()

	_, err = s.Remove(ctx, sess, "Perro")
	require.NoError(t, err)
	assert.False(t, s.Has("perro"))
	assert.Equal(t, []string{"perro"}, sess.Removed)

	reloaded, err := f.snap.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"gallo"}, reloaded.Sorted())
	assert.Equal(t, `const WORDS = ["gallo"];`, f.readScript(t))
}

func TestRemoveNonMemberIsRejected(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemorySnapshot()
	f := newFixture(t)
	f.opts.Snapshot = mem
	f.writeScript(t, `const WORDS = ["gallo"];`)
	s := New(f.opts)
	_, err := s.Bootstrap(ctx)
	require.NoError(t, err)
	saves := mem.Saves()
	sess := NewSession()

	_, err = s.Remove(ctx, sess, "perro")
	assert.True(t, errors.Is(err, ErrNotMember))
	assert.Equal(t, []string{"gallo"}, s.Bag().Sorted())
	assert.Zero(t, sess.Removals())
	assert.Equal(t, saves, mem.Saves())
}

func TestPersistFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemorySnapshot()
	f := newFixture(t)
	f.opts.Snapshot = mem
	f.writeScript(t, `const WORDS = ["gallo"];`)
	s := New(f.opts)
	_, err := s.Bootstrap(ctx)
	require.NoError(t, err)
	sess := NewSession()
	mem.FailSaves = true

	_, err = s.Add(ctx, sess, "perro")
	assert.True(t, errors.Is(err, store.ErrIO))
	assert.False(t, s.Has("perro"))

	_, err = s.Remove(ctx, sess, "gallo")
	assert.True(t, errors.Is(err, store.ErrIO))
	assert.True(t, s.Has("gallo"))

	assert.Zero(t, sess.Additions())
	assert.Zero(t, sess.Removals())

	persisted, err := mem.Load(ctx)
	require.NoError(t, err)
	assert.True(t, persisted.Equal(s.Bag()), "memory and snapshot must agree after failures")
}

func TestFinishAppendsToExistingLog(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, os.WriteFile(f.newLog, []byte("[manga, perro]"), 0o644))
	s := New(f.opts)
	_, err := s.Bootstrap(ctx)
	require.NoError(t, err)
	sess := NewSession()
	_, err = s.Add(ctx, sess, "gatos")
	require.NoError(t, err)

	_, err = s.Finish(ctx, sess)
	require.NoError(t, err)

	got, err := changelog.New(f.newLog).Entries()
	require.NoError(t, err)
	assert.Equal(t, []string{"manga", "perro", "gatos"}, got)
	_, err = os.Stat(f.elimLog)
	assert.True(t, errors.Is(err, os.ErrNotExist), "no removals means no removal log")
}

func TestFinishScenarioFromEmptyBag(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	pub := &fakePublisher{}
	f.opts.Publisher = pub
	s := New(f.opts)
	_, err := s.Bootstrap(ctx)
	require.NoError(t, err)
	sess := NewSession()

	assert.False(t, s.Has("XXXXX"))
	_, err = s.Add(ctx, sess, "XXXXX")
	require.NoError(t, err)
	assert.Equal(t, []string{"xxxxx"}, s.Bag().Sorted())
	assert.Equal(t, 1, sess.Additions())

	sum, err := s.Finish(ctx, sess)
	require.NoError(t, err)
	assert.True(t, sum.Published)
	assert.Equal(t, 1, sum.BagSize)
	assert.Equal(t, []string{f.script}, pub.files)

	raw, err := os.ReadFile(f.newLog)
	require.NoError(t, err)
	assert.Equal(t, "['xxxxx']", string(raw))
	assert.Equal(t, `const WORDS = ["xxxxx"];`, f.readScript(t))
}

func TestFinishRecordsRemovals(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, os.WriteFile(f.elimLog, []byte("['viejo']"), 0o644))
	f.writeScript(t, `const WORDS = ["gallo","perro"];`)
	s := New(f.opts)
	_, err := s.Bootstrap(ctx)
	require.NoError(t, err)
	sess := NewSession()
	_, err = s.Remove(ctx, sess, "gallo")
	require.NoError(t, err)

	_, err = s.Finish(ctx, sess)
	require.NoError(t, err)

	got, err := changelog.New(f.elimLog).Entries()
	require.NoError(t, err)
	assert.Equal(t, []string{"viejo", "gallo"}, got)
}

func TestFinishPublishFailureIsNotAnError(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.opts.Publisher = &fakePublisher{err: external.ErrExternalTool}
	s := New(f.opts)
	_, err := s.Bootstrap(ctx)
	require.NoError(t, err)

	sum, err := s.Finish(ctx, NewSession())
	require.NoError(t, err)
	assert.False(t, sum.Published)
	assert.True(t, errors.Is(sum.PublishErr, external.ErrExternalTool))
}

func TestRegenerateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.writeScript(t, `const WORDS = ["perro", "gallo"];`)
	s := New(f.opts)
	_, err := s.Bootstrap(ctx)
	require.NoError(t, err)

	require.NoError(t, s.Regenerate())
	first := f.readScript(t)
	require.NoError(t, s.Regenerate())
	assert.Equal(t, first, f.readScript(t))
}

func TestSourceString(t *testing.T) {
	assert.Equal(t, "script", SourceScript.String())
	assert.Equal(t, "snapshot", SourceSnapshot.String())
	assert.Equal(t, "generator", SourceGenerator.String())
	assert.Equal(t, "empty", SourceEmpty.String())
}

func TestFinishReportsElapsedTime(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := New(f.opts)
	_, err := s.Bootstrap(ctx)
	require.NoError(t, err)
	sess := NewSession()
	sess.Started = time.Now().Add(-time.Minute)

	sum, err := s.Finish(ctx, sess)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, sum.Elapsed, time.Minute)
}

func TestNewSessionHasUniqueID(t *testing.T) {
	a, b := NewSession(), NewSession()
	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
}
