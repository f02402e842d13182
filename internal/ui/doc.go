// Package ui contains the Bubble Tea program that hosts the storefront
// overlays: the cart drawer, the quick-add panel and the live search.
//
// Message flow:
//   - Bubble Tea invokes Model.Update with incoming messages, which are routed
//     through a typed handler registry so each tea.Msg is handled by a focused
//     function.
//   - Keys go to the topmost surface: the quick-add panel, then the cart
//     drawer, then the search input when focused, then the page.
//   - Surfaces never call each other. The panel announces a successful add
//     with variant.AddedMsg and the model opens the drawer in response.
//
// State ownership:
//   - One overlay.Focus and one overlay.ScrollLock are shared by every
//     surface so focus restoration and scroll locking compose.
//   - The header badge and the page listing live in internal/state stores.
//     The badge is written by the drawer, by add responses and by the
//     dispatcher, which applies backend.Watcher poll results.
//   - Storefront calls run through the internal/ui/command bus so each one
//     carries the shared context and is traced.
package ui
