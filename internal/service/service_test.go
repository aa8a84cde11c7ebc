package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dramac-main/dramac-cms-sub010/pkg/registry"
	"github.com/dramac-main/dramac-cms-sub010/pkg/resolve"
	"github.com/dramac-main/dramac-cms-sub010/pkg/store/memory"
)

// newTestServer builds a router over a small catalog: blog requires forms,
// analytics optionally extends blog, forms is installed on site-1.
func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	s := memory.New()
	for _, m := range []registry.Module{
		{ID: "forms", Name: "Forms", Slug: "forms", Version: "1.2.0", Status: registry.StatusPublished},
		{ID: "blog", Name: "Blog", Slug: "blog", Version: "2.0.0", Status: registry.StatusPublished},
		{ID: "analytics", Name: "Analytics", Slug: "analytics", Version: "0.5.0", Status: registry.StatusPublished},
	} {
		s.AddModule(m)
	}
	ctx := context.Background()
	if err := s.UpsertEdge(ctx, registry.Dependency{FromID: "blog", ToID: "forms", Type: registry.DependencyRequired, MinVersion: "1.0.0"}); err != nil {
		t.Fatal(err)
	}
	if err := s.UpsertEdge(ctx, registry.Dependency{FromID: "analytics", ToID: "blog", Type: registry.DependencyOptional}); err != nil {
		t.Fatal(err)
	}
	s.Install("site-1", "forms", "1.2.0")

	engine := resolve.New(s, resolve.Options{})
	return New(engine, nil).Router()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}

func TestHealth(t *testing.T) {
	w := do(t, newTestServer(t), http.MethodGet, "/healthz", "")
	if w.Code != http.StatusOK {
		t.Errorf("GET /healthz = %d, want 200", w.Code)
	}
	if w.Header().Get("X-Request-Id") == "" {
		t.Error("response missing X-Request-Id header")
	}
}

func TestResolveEndpoint(t *testing.T) {
	w := do(t, newTestServer(t), http.MethodGet, "/modules/blog/resolve?target=site-1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /modules/blog/resolve = %d, want 200: %s", w.Code, w.Body.String())
	}

	var res resolve.Result
	decode(t, w, &res)
	if !res.CanInstall {
		t.Errorf("can_install = false, want true: %+v", res)
	}
	if len(res.Required) != 1 || res.Required[0].Status != resolve.StatusInstalled {
		t.Errorf("required = %+v, want forms installed", res.Required)
	}
}

func TestResolveEndpointBadID(t *testing.T) {
	long := strings.Repeat("x", 129)
	w := do(t, newTestServer(t), http.MethodGet, "/modules/"+long+"/resolve?target=site-1", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("GET with oversized module id = %d, want 400", w.Code)
	}
	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	decode(t, w, &body)
	if body.Error.Code != "INVALID_MODULE" {
		t.Errorf("error code = %q, want INVALID_MODULE", body.Error.Code)
	}
}

func TestValidateEndpoint(t *testing.T) {
	w := do(t, newTestServer(t), http.MethodGet, "/modules/blog/validate?target=site-1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /modules/blog/validate = %d, want 200", w.Code)
	}
	var body struct {
		Valid  bool     `json:"valid"`
		Errors []string `json:"errors"`
	}
	decode(t, w, &body)
	if !body.Valid || len(body.Errors) != 0 {
		t.Errorf("validate = %+v, want valid with no errors", body)
	}
}

func TestTreeEndpoint(t *testing.T) {
	w := do(t, newTestServer(t), http.MethodGet, "/modules/analytics/tree?depth=3", "")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /modules/analytics/tree = %d, want 200", w.Code)
	}
	var tree resolve.TreeNode
	decode(t, w, &tree)
	if tree.ModuleID != "analytics" || len(tree.Children) != 1 {
		t.Errorf("tree = %+v, want analytics with one child", tree)
	}
}

func TestTreeEndpointNotFound(t *testing.T) {
	w := do(t, newTestServer(t), http.MethodGet, "/modules/ghost/tree", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("GET /modules/ghost/tree = %d, want 404", w.Code)
	}
}

func TestTreeEndpointBadDepth(t *testing.T) {
	w := do(t, newTestServer(t), http.MethodGet, "/modules/blog/tree?depth=deep", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("GET with non-numeric depth = %d, want 400", w.Code)
	}
}

func TestInstallOrderEndpoint(t *testing.T) {
	w := do(t, newTestServer(t), http.MethodPost, "/install-order", `{"module_ids": ["blog", "analytics"]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("POST /install-order = %d, want 200: %s", w.Code, w.Body.String())
	}
	var body struct {
		InstallOrder []string `json:"install_order"`
	}
	decode(t, w, &body)
	want := []string{"forms", "blog", "analytics"}
	if len(body.InstallOrder) != len(want) {
		t.Fatalf("install_order = %v, want %v", body.InstallOrder, want)
	}
	for i, id := range want {
		if body.InstallOrder[i] != id {
			t.Errorf("install_order = %v, want %v", body.InstallOrder, want)
			break
		}
	}
}

func TestInstallOrderEndpointEmpty(t *testing.T) {
	w := do(t, newTestServer(t), http.MethodPost, "/install-order", `{"module_ids": []}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("POST /install-order with empty ids = %d, want 400", w.Code)
	}
}

func TestUpsertDependencyEndpoint(t *testing.T) {
	h := newTestServer(t)

	w := do(t, h, http.MethodPut, "/dependencies", `{"from_id": "analytics", "to_id": "forms", "type": "required"}`)
	if w.Code != http.StatusOK {
		t.Errorf("PUT /dependencies = %d, want 200: %s", w.Code, w.Body.String())
	}
}

func TestUpsertDependencySelf(t *testing.T) {
	w := do(t, newTestServer(t), http.MethodPut, "/dependencies", `{"from_id": "blog", "to_id": "blog"}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("PUT self dependency = %d, want 422", w.Code)
	}
}

func TestUpsertDependencyCycle(t *testing.T) {
	w := do(t, newTestServer(t), http.MethodPut, "/dependencies", `{"from_id": "forms", "to_id": "blog"}`)
	if w.Code != http.StatusConflict {
		t.Errorf("PUT cycle-closing dependency = %d, want 409: %s", w.Code, w.Body.String())
	}
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	decode(t, w, &body)
	if body.Error.Code != "DEPENDENCY_CYCLE" {
		t.Errorf("error code = %q, want DEPENDENCY_CYCLE", body.Error.Code)
	}
}

func TestDeleteDependencyEndpoint(t *testing.T) {
	h := newTestServer(t)

	w := do(t, h, http.MethodDelete, "/dependencies/blog/forms", "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("DELETE /dependencies/blog/forms = %d, want 204", w.Code)
	}

	// The edge is gone, so blog now resolves with no required dependencies.
	w = do(t, h, http.MethodGet, "/modules/blog/resolve?target=site-1", "")
	var res resolve.Result
	decode(t, w, &res)
	if len(res.Required) != 0 {
		t.Errorf("required after delete = %+v, want empty", res.Required)
	}
}
