package resolve_test

import (
	"context"
	"fmt"

	"github.com/dramac-main/dramac-cms-sub010/pkg/registry"
	"github.com/dramac-main/dramac-cms-sub010/pkg/resolve"
	"github.com/dramac-main/dramac-cms-sub010/pkg/store/memory"
)

func ExampleEngine_Resolve() {
	store := memory.New()
	store.AddModule(registry.Module{ID: "blog", Name: "Blog", Status: registry.StatusPublished})
	store.AddModule(registry.Module{ID: "forms", Name: "Forms", Status: registry.StatusPublished})
	_ = store.UpsertEdge(context.Background(), registry.Dependency{
		FromID: "blog", ToID: "forms", Type: registry.DependencyRequired,
	})

	engine := resolve.New(store, resolve.Options{})
	res := engine.Resolve(context.Background(), "blog", "site-1")

	fmt.Println("can install:", res.CanInstall)
	fmt.Println("install order:", res.InstallOrder)
	// Output:
	// can install: true
	// install order: [forms blog]
}

func ExampleEngine_WouldCreateCycle() {
	store := memory.New()
	store.AddModule(registry.Module{ID: "a", Status: registry.StatusPublished})
	store.AddModule(registry.Module{ID: "b", Status: registry.StatusPublished})
	_ = store.UpsertEdge(context.Background(), registry.Dependency{
		FromID: "a", ToID: "b", Type: registry.DependencyRequired,
	})

	engine := resolve.New(store, resolve.Options{})
	cyclic, _ := engine.WouldCreateCycle(context.Background(), "b", "a")

	fmt.Println("b → a would close a cycle:", cyclic)
	// Output:
	// b → a would close a cycle: true
}
