package home

import "github.com/glabrego/homefeed/internal/feed"

// ViewState is everything the home screen shows. A ViewState is never
// modified after Reduce returns it; Data must be treated as read-only.
type ViewState struct {
	IsLoadingFirstPage     bool
	FirstPageError         error
	IsLoadingNextPage      bool
	NextPageError          error
	IsLoadingPullToRefresh bool
	PullToRefreshError     error
	Data                   []feed.Item
}

func InitialState() ViewState {
	return ViewState{IsLoadingFirstPage: true}
}

func (s ViewState) Equal(other ViewState) bool {
	return s.IsLoadingFirstPage == other.IsLoadingFirstPage &&
		feed.SameError(s.FirstPageError, other.FirstPageError) &&
		s.IsLoadingNextPage == other.IsLoadingNextPage &&
		feed.SameError(s.NextPageError, other.NextPageError) &&
		s.IsLoadingPullToRefresh == other.IsLoadingPullToRefresh &&
		feed.SameError(s.PullToRefreshError, other.PullToRefreshError) &&
		feed.ItemsEqual(s.Data, other.Data)
}
