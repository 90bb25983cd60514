// Package pkg provides the core libraries for floorpack strip packing.
//
// # Overview
//
// floorpack places rectangular modules on a board of fixed width so that the
// used height is minimal. Each feasibility question "do the modules fit below
// height H?" is encoded as propositional clauses and handed to an incremental
// SAT solver; the height search tightens H until the solver proves that no
// lower height exists or the time budget runs out.
//
// # Architecture
//
// The typical data flow:
//
//	instance file (width, modules)
//	         ↓
//	    [bounds] (area and greedy bounds on the height)
//	         ↓
//	    [encoding] (cell or coordinate model → clauses)
//	         ↓
//	    [sat] (gophersat / gini sessions, cardinality and lex helpers)
//	         ↓
//	    [search] (descending or ascending height search)
//	         ↓
//	    [solution] → [render] (ASCII, SVG, PNG, PDF, DOT)
//
// # Main Packages
//
// [instance] - The problem definition and its text format.
//
// [solution] - Placements, validation and the solution text format.
//
// [bounds] - Lower and upper bounds on the optimal height.
//
// [encoding] - The two SAT models and their symmetry breaking.
//
// [sat] - A backend-neutral incremental solver session.
//
// [search] - The optimal height search and its trial log.
//
// [cp] - An alternative MiniZinc constraint model run as a subprocess.
//
// # Infrastructure
//
// [pipeline] - Cached solving used by the CLI and the server. Results are
// keyed by the instance hash and the solve options.
//
// [cache] - Result caches: null, file and Redis.
//
// [store] - Run history: memory and MongoDB.
//
// [server] - HTTP API with a bounded job queue.
//
// [report] - CSV and XLSX batch reports.
//
// [config] - TOML configuration with environment overrides.
//
// [observability] - Hooks for solve, cache and job events.
//
// [errors] - Error codes shared by every entry point.
//
// # Quick Start
//
//	in, _ := instance.ReadFile("ins-1.txt")
//	res, _ := search.Run(ctx, in, search.Options{Timeout: time.Minute})
//	fmt.Println(render.ASCII(res.Solution))
//
// [instance]: https://pkg.go.dev/github.com/matzehuels/floorpack/pkg/instance
// [solution]: https://pkg.go.dev/github.com/matzehuels/floorpack/pkg/solution
// [bounds]: https://pkg.go.dev/github.com/matzehuels/floorpack/pkg/bounds
// [encoding]: https://pkg.go.dev/github.com/matzehuels/floorpack/pkg/encoding
// [sat]: https://pkg.go.dev/github.com/matzehuels/floorpack/pkg/sat
// [search]: https://pkg.go.dev/github.com/matzehuels/floorpack/pkg/search
// [cp]: https://pkg.go.dev/github.com/matzehuels/floorpack/pkg/cp
// [render]: https://pkg.go.dev/github.com/matzehuels/floorpack/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/floorpack/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/floorpack/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/floorpack/pkg/store
// [server]: https://pkg.go.dev/github.com/matzehuels/floorpack/pkg/server
// [report]: https://pkg.go.dev/github.com/matzehuels/floorpack/pkg/report
// [config]: https://pkg.go.dev/github.com/matzehuels/floorpack/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/floorpack/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/floorpack/pkg/errors
package pkg
