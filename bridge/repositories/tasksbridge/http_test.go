package tasksbridge_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jrazmi/taskdeck/bridge/repositories/tasksbridge"
	"github.com/jrazmi/taskdeck/bridge/scaffolding/mid"
	"github.com/jrazmi/taskdeck/core/identity"
	"github.com/jrazmi/taskdeck/core/repositories/tasksrepo"
	"github.com/jrazmi/taskdeck/infrastructure/web"
	"github.com/jrazmi/taskdeck/sdk/logger"
	"github.com/jrazmi/taskdeck/sdk/telemetry"
)

// ============================================================================
// In-memory Storer
// ============================================================================

// memoryStorer mirrors the store contract: every operation matches on
// both task id and owner id in one step and mutations report match counts.
type memoryStorer struct {
	mu    sync.Mutex
	seq   int64
	tasks map[string]tasksrepo.Task
}

func newMemoryStorer() *memoryStorer {
	return &memoryStorer{tasks: make(map[string]tasksrepo.Task)}
}

func (m *memoryStorer) List(ctx context.Context, ownerID string) ([]tasksrepo.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []tasksrepo.Task
	for _, t := range m.tasks {
		if t.OwnerID == ownerID {
			out = append(out, t)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].Seq > out[j].Seq
	})

	return out, nil
}

func (m *memoryStorer) GetByID(ctx context.Context, taskID, ownerID string) (tasksrepo.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tasks[taskID]
	if !ok || t.OwnerID != ownerID {
		return tasksrepo.Task{}, tasksrepo.ErrNotFound
	}
	return t, nil
}

func (m *memoryStorer) Create(ctx context.Context, task tasksrepo.Task) (tasksrepo.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	task.Seq = m.seq
	m.tasks[task.TaskID] = task
	return task, nil
}

func (m *memoryStorer) Update(ctx context.Context, taskID, ownerID string, update tasksrepo.UpdateTask) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tasks[taskID]
	if !ok || t.OwnerID != ownerID {
		return 0, nil
	}

	if update.Title != nil {
		t.Title = *update.Title
	}
	if update.Description != nil {
		t.Description = update.Description
	}
	if update.Completed != nil {
		t.Completed = *update.Completed
	}

	m.tasks[taskID] = t
	return 1, nil
}

func (m *memoryStorer) Delete(ctx context.Context, taskID, ownerID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tasks[taskID]
	if !ok || t.OwnerID != ownerID {
		return 0, nil
	}

	delete(m.tasks, taskID)
	return 1, nil
}

// ============================================================================
// Test harness
// ============================================================================

// headerResolver resolves the identity from a test header so handlers can
// be exercised as different users without minting tokens.
type headerResolver struct{}

func (headerResolver) ResolveRequest(r *http.Request) (identity.Identity, error) {
	id := r.Header.Get("X-Test-User")
	if id == "" {
		return identity.Identity{}, identity.ErrNoSession
	}
	return identity.Identity{ID: id}, nil
}

type harness struct {
	server *httptest.Server
	storer *memoryStorer
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	log := logger.NewDefault(logger.WithOutput(io.Discard))
	storer := newMemoryStorer()
	repo := tasksrepo.NewRepository(log, storer)

	wh := web.NewWebHandler(web.HandlerOptions{},
		web.WithLogging(log.Logger),
		web.WithTelemetry(telemetry.NewTelemetry()),
		web.WithGlobalMiddleware(
			mid.Logger(log),
			mid.Errors(log),
			mid.Panics(),
		),
	)

	tasksbridge.AddHttpRoutes(wh.Group("/api"), tasksbridge.Config{
		Repository: repo,
		Resolver:   headerResolver{},
	})

	srv := httptest.NewServer(wh)
	t.Cleanup(srv.Close)

	return &harness{server: srv, storer: storer}
}

func (h *harness) do(t *testing.T, user, method, path, body string) (*http.Response, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}

	req, err := http.NewRequest(method, h.server.URL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}

	return resp, data
}

func (h *harness) createTask(t *testing.T, user, title, description string) tasksbridge.Task {
	t.Helper()

	body := fmt.Sprintf(`{"title":%q}`, title)
	if description != "" {
		body = fmt.Sprintf(`{"title":%q,"description":%q}`, title, description)
	}

	resp, data := h.do(t, user, "POST", "/api/tasks", body)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create task: status %d body %s", resp.StatusCode, data)
	}

	var task tasksbridge.Task
	if err := json.Unmarshal(data, &task); err != nil {
		t.Fatalf("unmarshal created task: %v", err)
	}
	return task
}

func (h *harness) listTasks(t *testing.T, user string) []tasksbridge.Task {
	t.Helper()

	resp, data := h.do(t, user, "GET", "/api/tasks", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list tasks: status %d body %s", resp.StatusCode, data)
	}

	var tasks []tasksbridge.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		t.Fatalf("unmarshal task list: %v", err)
	}
	return tasks
}

// ============================================================================
// Tests
// ============================================================================

func TestRoutesRequireIdentity(t *testing.T) {
	h := newHarness(t)

	cases := []struct {
		method string
		path   string
		body   string
	}{
		{"GET", "/api/tasks", ""},
		{"POST", "/api/tasks", `{"title":"x"}`},
		{"GET", "/api/tasks/some-id", ""},
		{"PATCH", "/api/tasks/some-id", `{"completed":true}`},
		{"DELETE", "/api/tasks/some-id", ""},
	}

	for _, c := range cases {
		resp, _ := h.do(t, "", c.method, c.path, c.body)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("%s %s without identity: status %d, want 401", c.method, c.path, resp.StatusCode)
		}
	}

	if len(h.storer.tasks) != 0 {
		t.Errorf("unauthenticated requests persisted %d tasks", len(h.storer.tasks))
	}
}

func TestCreateTask(t *testing.T) {
	h := newHarness(t)

	task := h.createTask(t, "alice", "Buy milk", "2%")

	if task.ID == "" {
		t.Error("created task has no id")
	}
	if task.Completed {
		t.Error("created task should not be completed")
	}
	if task.Description == nil || *task.Description != "2%" {
		t.Errorf("description = %v, want 2%%", task.Description)
	}
	if _, err := time.Parse(time.RFC3339, task.CreatedAt); err != nil {
		t.Errorf("createdAt %q is not RFC3339: %v", task.CreatedAt, err)
	}

	tasks := h.listTasks(t, "alice")
	if len(tasks) != 1 || tasks[0].ID != task.ID {
		t.Fatalf("list after create = %+v, want the created task first", tasks)
	}
}

func TestCreateTaskRejectsMissingTitle(t *testing.T) {
	h := newHarness(t)

	for _, body := range []string{`{}`, `{"title":""}`, `{"description":"only"}`} {
		resp, _ := h.do(t, "alice", "POST", "/api/tasks", body)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("create with body %s: status %d, want 400", body, resp.StatusCode)
		}
	}

	if len(h.storer.tasks) != 0 {
		t.Errorf("invalid creates persisted %d tasks", len(h.storer.tasks))
	}
}

func TestCreateTaskWithoutDescription(t *testing.T) {
	h := newHarness(t)

	task := h.createTask(t, "alice", "No notes", "")
	if task.Description != nil {
		t.Errorf("description = %q, want omitted", *task.Description)
	}

	_, data := h.do(t, "alice", "GET", "/api/tasks/"+task.ID, "")
	if strings.Contains(string(data), `"description"`) {
		t.Errorf("wire task %s carries a description key for an absent description", data)
	}
}

func TestListIsNewestFirst(t *testing.T) {
	h := newHarness(t)

	first := h.createTask(t, "alice", "first", "")
	second := h.createTask(t, "alice", "second", "")
	third := h.createTask(t, "alice", "third", "")

	tasks := h.listTasks(t, "alice")
	if len(tasks) != 3 {
		t.Fatalf("list returned %d tasks, want 3", len(tasks))
	}

	want := []string{third.ID, second.ID, first.ID}
	for i, id := range want {
		if tasks[i].ID != id {
			t.Errorf("list[%d] = %s, want %s", i, tasks[i].ID, id)
		}
	}
}

func TestListIsScopedToOwner(t *testing.T) {
	h := newHarness(t)

	h.createTask(t, "alice", "hers", "")
	h.createTask(t, "bob", "his", "")

	tasks := h.listTasks(t, "alice")
	if len(tasks) != 1 || tasks[0].Title != "hers" {
		t.Fatalf("alice's list = %+v, want only her task", tasks)
	}

	if len(h.listTasks(t, "carol")) != 0 {
		t.Error("carol's list should be empty")
	}
}

func TestCrossOwnerAccessIsNotFound(t *testing.T) {
	h := newHarness(t)

	task := h.createTask(t, "alice", "private", "secret")

	cases := []struct {
		method string
		body   string
	}{
		{"GET", ""},
		{"PATCH", `{"completed":true}`},
		{"DELETE", ""},
	}

	for _, c := range cases {
		resp, data := h.do(t, "bob", c.method, "/api/tasks/"+task.ID, c.body)
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("%s as non-owner: status %d, want 404", c.method, resp.StatusCode)
		}
		if strings.Contains(string(data), "secret") || strings.Contains(string(data), "private") {
			t.Errorf("%s as non-owner leaked task data: %s", c.method, data)
		}
	}

	// The owner still sees the task untouched.
	got := h.listTasks(t, "alice")
	if len(got) != 1 || got[0].Completed {
		t.Fatalf("task changed by a non-owner: %+v", got)
	}
}

func TestUnknownIDLooksLikeForeignID(t *testing.T) {
	h := newHarness(t)

	task := h.createTask(t, "alice", "one", "")

	missing, missingBody := h.do(t, "bob", "GET", "/api/tasks/no-such-id", "")
	foreign, foreignBody := h.do(t, "bob", "GET", "/api/tasks/"+task.ID, "")

	if missing.StatusCode != foreign.StatusCode {
		t.Errorf("status differs for missing (%d) vs foreign (%d) id", missing.StatusCode, foreign.StatusCode)
	}
	if string(missingBody) != string(foreignBody) {
		t.Errorf("body differs for missing (%s) vs foreign (%s) id", missingBody, foreignBody)
	}
}

func TestPartialUpdateTouchesOnlySentFields(t *testing.T) {
	h := newHarness(t)

	task := h.createTask(t, "alice", "Buy milk", "2%")

	resp, data := h.do(t, "alice", "PATCH", "/api/tasks/"+task.ID, `{"completed":true}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("patch: status %d body %s", resp.StatusCode, data)
	}
	var ok tasksbridge.SuccessResponse
	if err := json.Unmarshal(data, &ok); err != nil || !ok.Success {
		t.Fatalf("patch response %s, want {\"success\":true}", data)
	}

	got := h.listTasks(t, "alice")[0]
	if !got.Completed {
		t.Error("completed was not applied")
	}
	if got.Title != "Buy milk" {
		t.Errorf("title changed to %q", got.Title)
	}
	if got.Description == nil || *got.Description != "2%" {
		t.Errorf("description changed to %v", got.Description)
	}
}

func TestPartialUpdateIsIdempotent(t *testing.T) {
	h := newHarness(t)

	task := h.createTask(t, "alice", "repeat", "")

	for i := range 2 {
		resp, _ := h.do(t, "alice", "PATCH", "/api/tasks/"+task.ID, `{"completed":true}`)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("patch %d: status %d, want 200", i+1, resp.StatusCode)
		}
	}

	if got := h.listTasks(t, "alice")[0]; !got.Completed {
		t.Error("completed flag lost after repeated patch")
	}
}

func TestEmptyPatchIsNoOpSuccess(t *testing.T) {
	h := newHarness(t)

	task := h.createTask(t, "alice", "leave me", "as is")

	for _, body := range []string{"", "{}"} {
		resp, _ := h.do(t, "alice", "PATCH", "/api/tasks/"+task.ID, body)
		if resp.StatusCode != http.StatusOK {
			t.Errorf("patch with body %q: status %d, want 200", body, resp.StatusCode)
		}
	}

	got := h.listTasks(t, "alice")[0]
	if got.Title != "leave me" || got.Description == nil || *got.Description != "as is" {
		t.Errorf("empty patch changed the task: %+v", got)
	}

	// Still owner-scoped: an empty patch on a foreign task is a 404.
	resp, _ := h.do(t, "bob", "PATCH", "/api/tasks/"+task.ID, "{}")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("empty patch as non-owner: status %d, want 404", resp.StatusCode)
	}
}

func TestPatchRejectsMalformedJSON(t *testing.T) {
	h := newHarness(t)

	task := h.createTask(t, "alice", "x", "")

	resp, _ := h.do(t, "alice", "PATCH", "/api/tasks/"+task.ID, `{"completed":`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("malformed patch: status %d, want 400", resp.StatusCode)
	}
}

func TestPatchRejectsBlankTitle(t *testing.T) {
	h := newHarness(t)

	task := h.createTask(t, "alice", "keep", "")

	resp, _ := h.do(t, "alice", "PATCH", "/api/tasks/"+task.ID, `{"title":"  "}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("blank title patch: status %d, want 400", resp.StatusCode)
	}

	if got := h.listTasks(t, "alice")[0]; got.Title != "keep" {
		t.Errorf("title changed to %q", got.Title)
	}
}

func TestDeleteTask(t *testing.T) {
	h := newHarness(t)

	task := h.createTask(t, "alice", "gone soon", "")

	resp, data := h.do(t, "alice", "DELETE", "/api/tasks/"+task.ID, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete: status %d body %s", resp.StatusCode, data)
	}

	if tasks := h.listTasks(t, "alice"); len(tasks) != 0 {
		t.Fatalf("task still listed after delete: %+v", tasks)
	}

	// Deleting again finds nothing.
	resp, _ = h.do(t, "alice", "DELETE", "/api/tasks/"+task.ID, "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("second delete: status %d, want 404", resp.StatusCode)
	}
}

func TestConcurrentDisjointPatches(t *testing.T) {
	h := newHarness(t)

	task := h.createTask(t, "alice", "old title", "")

	var wg sync.WaitGroup
	patches := []string{`{"title":"new title"}`, `{"completed":true}`}
	for _, body := range patches {
		wg.Add(1)
		go func(body string) {
			defer wg.Done()
			resp, _ := h.do(t, "alice", "PATCH", "/api/tasks/"+task.ID, body)
			if resp.StatusCode != http.StatusOK {
				t.Errorf("concurrent patch %s: status %d", body, resp.StatusCode)
			}
		}(body)
	}
	wg.Wait()

	got := h.listTasks(t, "alice")[0]
	if got.Title != "new title" {
		t.Errorf("title = %q, want new title", got.Title)
	}
	if !got.Completed {
		t.Error("completed flag lost to a disjoint concurrent patch")
	}
}
