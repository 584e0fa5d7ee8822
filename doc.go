// Package docrender renders declarative design documents to PDF using a
// headless Chromium engine.
//
// # Quick Start
//
// Parse a document, render it, and write the result:
//
//	doc, err := docrender.Parse(data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	r := docrender.NewRenderer()
//	result, err := r.Render(ctx, doc)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("output.pdf", result.PDF, 0644)
//
// The result carries the PDF bytes (result.PDF), the assembled markup
// (result.HTML) and the list of elements that degraded to a placeholder
// (result.Degraded). Use Renderer.Markup to skip the engine entirely.
//
// # Render Pipeline
//
// A render runs these stages:
//
//  1. Validation (at least one page, positive page sizes)
//  2. Asset resolution: template: and cloud: image references are fetched
//     concurrently and inlined as data URIs. A failed fetch degrades only
//     that element to a bordered placeholder.
//  3. Element compilation and page assembly into one fixed-size document,
//     elements painted in ascending zIndex order
//  4. PDF export through an ordered chain of engine launch strategies
//     (standard, restricted, minimal, system). The first tier to produce a
//     PDF wins; when all fail the error lists every tier failure.
//
// # Configuration
//
// Use functional options to customize the renderer:
//
//	r := docrender.NewRenderer(
//	    docrender.WithTierTimeout(30 * time.Second),
//	    docrender.WithAssetEndpoints("https://assets.example.com/templates", ""),
//	    docrender.WithAssetCache(docrender.NewAssetCache(10*time.Minute, 20*time.Minute)),
//	)
//
// # Concurrency
//
// A Renderer is safe for concurrent use. Each Render launches and tears
// down its own engine process; use a Limiter to bound how many run at once:
//
//	lim := docrender.NewLimiter(docrender.ResolveLimit(0))
//	if err := lim.Acquire(ctx); err != nil {
//	    return err
//	}
//	defer lim.Release()
//
// # Error Handling
//
// Sentinel errors support errors.Is:
//
//	if errors.Is(err, docrender.ErrRenderExhausted) {
//	    // every engine tier failed
//	}
//
// Document validation errors are ErrEmptyDocument and ErrInvalidPageSize.
// Decoding errors wrap ErrDecode.
package docrender
