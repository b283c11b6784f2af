package home

import (
	"fmt"
	"slices"

	"github.com/glabrego/homefeed/internal/feed"
)

// InvariantError is the panic value of Reduce when the feed is not shaped as
// the loader promised: a category without its loadable placeholder or
// without its section header. It is a programming error, not a load failure.
type InvariantError struct {
	CategoryName string
	Reason       string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("home feed invariant violated for category %q: %s", e.CategoryName, e.Reason)
}

// Reduce folds one partial state change into the previous view state.
// It never mutates prev or the change payload.
func Reduce(prev ViewState, change PartialStateChange) ViewState {
	next := prev
	switch change := change.(type) {
	case FirstPageLoading:
		next.IsLoadingFirstPage = true
		next.FirstPageError = nil
	case FirstPageError:
		next.IsLoadingFirstPage = false
		next.FirstPageError = change.Err
	case FirstPageLoaded:
		next.IsLoadingFirstPage = false
		next.FirstPageError = nil
		next.Data = slices.Clone(change.Data)

	case NextPageLoading:
		next.IsLoadingNextPage = true
		next.NextPageError = nil
	case NextPageError:
		next.IsLoadingNextPage = false
		next.NextPageError = change.Err
	case NextPageLoaded:
		next.IsLoadingNextPage = false
		next.NextPageError = nil
		next.Data = concat(prev.Data, change.Data)

	case PullToRefreshLoading:
		next.IsLoadingPullToRefresh = true
		next.PullToRefreshError = nil
	case PullToRefreshError:
		next.IsLoadingPullToRefresh = false
		next.PullToRefreshError = change.Err
	case PullToRefreshLoaded:
		next.IsLoadingPullToRefresh = false
		next.PullToRefreshError = nil
		next.Data = concat(change.Data, prev.Data)

	case CategoryExpandLoading:
		next.Data = replaceLoadable(prev.Data, change.CategoryName, true, nil)
	case CategoryExpandError:
		next.Data = replaceLoadable(prev.Data, change.CategoryName, false, change.Err)
	case CategoryExpandLoaded:
		next.Data = spliceCategory(prev.Data, change.CategoryName, change.Data)

	default:
		panic(fmt.Sprintf("home: unhandled partial state change %T", change))
	}
	return next
}

func concat(head, tail []feed.Item) []feed.Item {
	out := make([]feed.Item, 0, len(head)+len(tail))
	out = append(out, head...)
	return append(out, tail...)
}

// findLoadable returns the index of the category's AdditionalItemsLoadable.
func findLoadable(items []feed.Item, category string) (int, feed.AdditionalItemsLoadable) {
	for i, item := range items {
		if loadable, ok := item.(feed.AdditionalItemsLoadable); ok && loadable.CategoryName == category {
			return i, loadable
		}
	}
	panic(&InvariantError{CategoryName: category, Reason: "no AdditionalItemsLoadable in feed"})
}

func replaceLoadable(items []feed.Item, category string, loading bool, loadErr error) []feed.Item {
	idx, found := findLoadable(items, category)
	out := slices.Clone(items)
	out[idx] = feed.AdditionalItemsLoadable{
		MoreItemsCount: found.MoreItemsCount,
		CategoryName:   found.CategoryName,
		IsLoading:      loading,
		LoadingError:   loadErr,
	}
	return out
}

// spliceCategory replaces everything between the category's section header
// (exclusive) and its loadable (inclusive) with the complete product list.
func spliceCategory(items []feed.Item, category string, products []feed.Item) []feed.Item {
	loadableIdx, _ := findLoadable(items, category)

	headerIdx := -1
	for i := loadableIdx - 1; i >= 0; i-- {
		header, ok := items[i].(feed.SectionHeader)
		if !ok {
			continue
		}
		if header.Name != category {
			panic(&InvariantError{
				CategoryName: category,
				Reason:       fmt.Sprintf("section header %q interleaved before the loadable", header.Name),
			})
		}
		headerIdx = i
		break
	}
	if headerIdx < 0 {
		panic(&InvariantError{CategoryName: category, Reason: "no SectionHeader before the loadable"})
	}

	out := make([]feed.Item, 0, len(items)-(loadableIdx-headerIdx)+len(products))
	out = append(out, items[:headerIdx+1]...)
	out = append(out, products...)
	return append(out, items[loadableIdx+1:]...)
}
