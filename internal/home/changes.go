package home

import "github.com/glabrego/homefeed/internal/feed"

// PartialStateChange is the outcome of one asynchronous feed operation.
// Reduce handles every variant declared in this file.
type PartialStateChange interface {
	partialStateChange()
}

type FirstPageLoading struct{}

type FirstPageLoaded struct {
	Data []feed.Item
}

type FirstPageError struct {
	Err error
}

type NextPageLoading struct{}

type NextPageLoaded struct {
	Data []feed.Item
}

type NextPageError struct {
	Err error
}

type PullToRefreshLoading struct{}

type PullToRefreshLoaded struct {
	Data []feed.Item
}

type PullToRefreshError struct {
	Err error
}

type CategoryExpandLoading struct {
	CategoryName string
}

type CategoryExpandLoaded struct {
	CategoryName string
	Data         []feed.Item
}

type CategoryExpandError struct {
	CategoryName string
	Err          error
}

func (FirstPageLoading) partialStateChange()      {}
func (FirstPageLoaded) partialStateChange()       {}
func (FirstPageError) partialStateChange()        {}
func (NextPageLoading) partialStateChange()       {}
func (NextPageLoaded) partialStateChange()        {}
func (NextPageError) partialStateChange()         {}
func (PullToRefreshLoading) partialStateChange()  {}
func (PullToRefreshLoaded) partialStateChange()   {}
func (PullToRefreshError) partialStateChange()    {}
func (CategoryExpandLoading) partialStateChange() {}
func (CategoryExpandLoaded) partialStateChange()  {}
func (CategoryExpandError) partialStateChange()   {}
