// Package pagination follows cursor-style paginated list endpoints.
//
// Scryfall list responses carry has_more and next_page; a Paginator keeps
// requesting next_page until has_more is false and concatenates the data
// of every page in order. Each page goes through the shared client, so it
// is rate limited and retried like any other request.
//
// Example usage:
//
//	p := pagination.New[scryfall.Card](hexproofClient, "scryfall", pagination.DefaultConfig())
//	cards, err := p.CollectAll(ctx, "https://api.scryfall.com/cards/search?q=t:goblin",
//		pagination.DecodeList[scryfall.Card])
//
// Pages are fetched one after another. A list that claims more pages
// without naming the next one, revisits a page, or exceeds MaxPages fails
// with a *MalformedPaginationError.
package pagination
