package ops

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/jacksmith/todo/internal/model"
	"github.com/jacksmith/todo/internal/storage"
)

// fakeClock returns a clock that advances one second per call.
func fakeClock() func() time.Time {
	now := time.Date(2025, 12, 2, 10, 0, 0, 0, time.UTC)
	return func() time.Time {
		now = now.Add(time.Second)
		return now
	}
}

// setupTestStore creates a TaskStore over a fresh .todo workspace.
func setupTestStore(t *testing.T) (*TaskStore, *storage.Storage) {
	t.Helper()

	s, err := storage.Init(t.TempDir(), storage.BackendFile)
	if err != nil {
		t.Fatalf("failed to init storage: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	ts, err := Load(s, WithClock(fakeClock()))
	if err != nil {
		t.Fatalf("failed to load store: %v", err)
	}
	return ts, s
}

func mustAdd(t *testing.T, ts *TaskStore, text string) model.Task {
	t.Helper()
	task, err := ts.Add(text)
	if err != nil {
		t.Fatalf("Add(%q) failed: %v", text, err)
	}
	return task
}

func viewIDs(v model.View) []int {
	var out []int
	for _, t := range v.Tasks {
		out = append(out, t.ID)
	}
	return out
}

// flakyPersistence wraps a Persistence and fails saves while failSave is set.
type flakyPersistence struct {
	Persistence
	failSave bool
	saves    int
}

func (f *flakyPersistence) SaveState(s *model.State) error {
	if f.failSave {
		return errors.New("quota exceeded")
	}
	f.saves++
	return f.Persistence.SaveState(s)
}

func TestAdd(t *testing.T) {
	ts, _ := setupTestStore(t)

	task := mustAdd(t, ts, "  buy milk  ")
	if task.Text != "buy milk" {
		t.Errorf("expected trimmed text 'buy milk', got %q", task.Text)
	}
	if task.Completed {
		t.Error("new task should not be completed")
	}
	if task.ID != 0 {
		t.Errorf("expected first id 0, got %d", task.ID)
	}
	if task.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}

	second := mustAdd(t, ts, "walk dog")
	if second.ID != 1 {
		t.Errorf("expected second id 1, got %d", second.ID)
	}
	if v := ts.View(model.FilterAll); v.Total != 2 {
		t.Errorf("expected total 2, got %d", v.Total)
	}
}

func TestAddRejectsEmptyText(t *testing.T) {
	ts, _ := setupTestStore(t)
	mustAdd(t, ts, "keep me")
	before := ts.State()

	for _, text := range []string{"", "   ", "\t\n"} {
		_, err := ts.Add(text)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("Add(%q): expected ValidationError, got %v", text, err)
		}
		if verr.Field != "text" {
			t.Errorf("expected field 'text', got %q", verr.Field)
		}
	}

	if !reflect.DeepEqual(before, ts.State()) {
		t.Error("store changed after rejected adds")
	}
}

func TestIDsAreNeverReused(t *testing.T) {
	ts, s := setupTestStore(t)

	a := mustAdd(t, ts, "a")
	b := mustAdd(t, ts, "b")
	if _, err := ts.Remove(b.ID); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	c := mustAdd(t, ts, "c")
	if c.ID == a.ID || c.ID == b.ID {
		t.Errorf("id %d was reused", c.ID)
	}

	// Reload from disk and keep going.
	ts2, err := Load(s)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	d := mustAdd(t, ts2, "d")
	if d.ID != 3 {
		t.Errorf("expected id 3 after reload, got %d", d.ID)
	}
}

func TestToggle(t *testing.T) {
	ts, s := setupTestStore(t)
	task := mustAdd(t, ts, "a")

	toggled, err := ts.Toggle(task.ID)
	if err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}
	if !toggled.Completed {
		t.Error("expected task to be completed after first toggle")
	}

	// Persisted
	state, err := s.LoadState()
	if err != nil {
		t.Fatalf("LoadState failed: %v", err)
	}
	if !state.Tasks[0].Completed {
		t.Error("toggle was not persisted")
	}

	toggled, err = ts.Toggle(task.ID)
	if err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}
	if toggled.Completed {
		t.Error("expected toggle pair to restore original state")
	}
}

func TestToggleUnknownID(t *testing.T) {
	ts, _ := setupTestStore(t)
	mustAdd(t, ts, "a")
	before := ts.State()

	_, err := ts.Toggle(42)
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if nf.ID != 42 {
		t.Errorf("expected id 42 in error, got %d", nf.ID)
	}
	if err.Error() != "task #42 not found" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if !reflect.DeepEqual(before, ts.State()) {
		t.Error("store changed after toggling unknown id")
	}
}

func TestRemove(t *testing.T) {
	ts, _ := setupTestStore(t)
	a := mustAdd(t, ts, "a")
	b := mustAdd(t, ts, "b")

	removed, err := ts.Remove(a.ID)
	if err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if removed.Text != "a" {
		t.Errorf("expected removed task 'a', got %q", removed.Text)
	}
	if _, ok := ts.Get(a.ID); ok {
		t.Error("task still present after remove")
	}
	if _, ok := ts.Get(b.ID); !ok {
		t.Error("unrelated task was removed")
	}

	// Second remove is safe and reports not found.
	_, err = ts.Remove(a.ID)
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError on second remove, got %v", err)
	}
	if v := ts.View(model.FilterAll); v.Total != 1 {
		t.Errorf("expected total 1, got %d", v.Total)
	}
}

func TestClearCompleted(t *testing.T) {
	ts, s := setupTestStore(t)
	a := mustAdd(t, ts, "a")
	b := mustAdd(t, ts, "b")
	c := mustAdd(t, ts, "c")
	d := mustAdd(t, ts, "d")
	for _, id := range []int{b.ID, d.ID} {
		if _, err := ts.Toggle(id); err != nil {
			t.Fatalf("Toggle failed: %v", err)
		}
	}

	n, err := ts.ClearCompleted()
	if err != nil {
		t.Fatalf("ClearCompleted failed: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 removed, got %d", n)
	}

	state := ts.State()
	var got []int
	for _, task := range state.Tasks {
		got = append(got, task.ID)
	}
	if !reflect.DeepEqual([]int{a.ID, c.ID}, got) {
		t.Errorf("expected remaining [%d %d] in insertion order, got %v", a.ID, c.ID, got)
	}

	persisted, err := s.LoadState()
	if err != nil {
		t.Fatalf("LoadState failed: %v", err)
	}
	if len(persisted.Tasks) != 2 {
		t.Errorf("expected 2 persisted tasks, got %d", len(persisted.Tasks))
	}
}

func TestClearCompletedNothingToClear(t *testing.T) {
	s := storage.NewDetached(storage.NewMemoryBackend())
	fp := &flakyPersistence{Persistence: s}
	ts, err := Load(fp)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	mustAdd(t, ts, "a")
	saves := fp.saves

	n, err := ts.ClearCompleted()
	if err != nil {
		t.Fatalf("ClearCompleted failed: %v", err)
	}
	if n != 0 {
		t.Errorf("expected 0 removed, got %d", n)
	}
	if fp.saves != saves {
		t.Error("ClearCompleted saved although nothing was removed")
	}
}

func TestViewOrderScenario(t *testing.T) {
	ts, _ := setupTestStore(t)
	a := mustAdd(t, ts, "a")
	b := mustAdd(t, ts, "b")
	if _, err := ts.Toggle(a.ID); err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}

	v := ts.View(model.FilterAll)
	if !reflect.DeepEqual([]int{b.ID, a.ID}, viewIDs(v)) {
		t.Errorf("expected [b a], got %v", viewIDs(v))
	}
	if v.Total != 2 || v.CompletedCount != 1 {
		t.Errorf("expected total=2 completed=1, got total=%d completed=%d", v.Total, v.CompletedCount)
	}

	active := ts.View(model.FilterActive)
	if !reflect.DeepEqual([]int{b.ID}, viewIDs(active)) {
		t.Errorf("expected active [b], got %v", viewIDs(active))
	}
}

func TestRoundTrip(t *testing.T) {
	ts, s := setupTestStore(t)
	mustAdd(t, ts, "a")
	b := mustAdd(t, ts, "b")
	mustAdd(t, ts, "c")
	if _, err := ts.Toggle(b.ID); err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}

	loaded, err := Load(s)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want, got := ts.State(), loaded.State()
	if want.NextID != got.NextID {
		t.Errorf("expected counter %d, got %d", want.NextID, got.NextID)
	}
	if len(want.Tasks) != len(got.Tasks) {
		t.Fatalf("expected %d tasks, got %d", len(want.Tasks), len(got.Tasks))
	}
	for i := range want.Tasks {
		w, g := want.Tasks[i], got.Tasks[i]
		if w.ID != g.ID || w.Text != g.Text || w.Completed != g.Completed || !w.CreatedAt.Equal(g.CreatedAt) {
			t.Errorf("task %d differs: want %+v, got %+v", i, w, g)
		}
	}
}

func TestSaveFailureLeavesStoreUnchanged(t *testing.T) {
	fp := &flakyPersistence{Persistence: storage.NewDetached(storage.NewMemoryBackend())}
	ts, err := Load(fp)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	a := mustAdd(t, ts, "a")
	if _, err := ts.Toggle(a.ID); err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}
	before := ts.State()

	fp.failSave = true
	ops := map[string]func() error{
		"add":    func() error { _, err := ts.Add("b"); return err },
		"toggle": func() error { _, err := ts.Toggle(a.ID); return err },
		"remove": func() error { _, err := ts.Remove(a.ID); return err },
		"clear":  func() error { _, err := ts.ClearCompleted(); return err },
	}
	for name, op := range ops {
		err := op()
		var perr *PersistenceError
		if !errors.As(err, &perr) {
			t.Fatalf("%s: expected PersistenceError, got %v", name, err)
		}
		if perr.Op != "save" {
			t.Errorf("%s: expected op 'save', got %q", name, perr.Op)
		}
		if !reflect.DeepEqual(before, ts.State()) {
			t.Errorf("%s: store changed after failed save", name)
		}
	}

	// The store keeps working once saves succeed again.
	fp.failSave = false
	b := mustAdd(t, ts, "b")
	if b.ID != before.NextID {
		t.Errorf("expected id %d, got %d", before.NextID, b.ID)
	}
}

// brokenLoader fails every load.
type brokenLoader struct{ Persistence }

func (brokenLoader) LoadState() (*model.State, error) { return nil, errors.New("permission denied") }

func TestLoadFailure(t *testing.T) {
	_, err := Load(brokenLoader{})
	var perr *PersistenceError
	if !errors.As(err, &perr) {
		t.Fatalf("expected PersistenceError, got %v", err)
	}
	if perr.Op != "load" {
		t.Errorf("expected op 'load', got %q", perr.Op)
	}
	if perr.Error() != "failed to load tasks: permission denied" {
		t.Errorf("unexpected message %q", perr.Error())
	}
}

func TestSubscribe(t *testing.T) {
	ts, _ := setupTestStore(t)

	var views []model.View
	unsubscribe := ts.Subscribe(func(v model.View) {
		views = append(views, v)
	})

	a := mustAdd(t, ts, "a")
	mustAdd(t, ts, "b")
	if _, err := ts.Toggle(a.ID); err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}

	// No-ops do not notify.
	ts.Add("  ")
	ts.Toggle(99)
	ts.Remove(99)
	if _, err := ts.ClearCompleted(); err != nil {
		t.Fatalf("ClearCompleted failed: %v", err)
	}
	if _, err := ts.ClearCompleted(); err != nil {
		t.Fatalf("ClearCompleted failed: %v", err)
	}

	if len(views) != 4 {
		t.Fatalf("expected 4 notifications, got %d", len(views))
	}
	last := views[len(views)-1]
	if last.Total != 1 || last.CompletedCount != 0 {
		t.Errorf("unexpected last view: total=%d completed=%d", last.Total, last.CompletedCount)
	}
	if views[2].Filter != model.FilterAll {
		t.Errorf("expected unfiltered view, got %q", views[2].Filter)
	}

	unsubscribe()
	mustAdd(t, ts, "c")
	if len(views) != 4 {
		t.Errorf("unsubscribed callback was still called")
	}
}

func TestSubscribeUnsubscribeDuringNotify(t *testing.T) {
	ts, _ := setupTestStore(t)

	calls := 0
	var unsubscribe func()
	unsubscribe = ts.Subscribe(func(model.View) {
		calls++
		unsubscribe()
	})
	other := 0
	ts.Subscribe(func(model.View) { other++ })

	mustAdd(t, ts, "a")
	mustAdd(t, ts, "b")

	if calls != 1 {
		t.Errorf("expected self-removing subscriber to run once, ran %d times", calls)
	}
	if other != 2 {
		t.Errorf("expected other subscriber to run twice, ran %d times", other)
	}
}

func TestReload(t *testing.T) {
	ts, s := setupTestStore(t)
	mustAdd(t, ts, "a")

	// Another process writes to the same workspace.
	other, err := Load(s)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	mustAdd(t, other, "b")

	notified := false
	ts.Subscribe(func(model.View) { notified = true })

	if err := ts.Reload(); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if v := ts.View(model.FilterAll); v.Total != 2 {
		t.Errorf("expected 2 tasks after reload, got %d", v.Total)
	}
	if !notified {
		t.Error("expected reload to notify subscribers")
	}
}
