// Package almanac serves a monthly magazine: editions discovered from a
// content tree, their columns, and the themes that dress them.
//
// An App ties four parts together:
//
//   - the edition registry (pkg/registry), built once from the content source
//   - the content resolver (pkg/content), which loads and memoizes editions,
//     themes and column bodies
//   - the theme engine (pkg/theme), which cascades global, edition and
//     column styles for light or dark mode
//   - the navigation codec (pkg/nav), which maps the reader's screen to the
//     edition/article/view query and back
//
// The HTTP surface is a small JSON API under /api, a websocket at
// /api/live that keeps a reader's display mode and pen friends, and the
// static presentation bundle for everything else.
//
//	app, err := almanac.New(ctx, almanac.Config{
//	    Source: source.NewFS(os.DirFS("magazine")),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer app.Close()
//
//	v, err := app.View(ctx, nav.Decode("", "edition=2025-11"), theme.Dark)
package almanac
