package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/glabrego/homefeed/internal/category"
	"github.com/glabrego/homefeed/internal/details"
	"github.com/glabrego/homefeed/internal/feed"
	"github.com/glabrego/homefeed/internal/home"
	"github.com/glabrego/homefeed/internal/search"
	"github.com/glabrego/homefeed/internal/shop"
	tuitheme "github.com/glabrego/homefeed/internal/tui/theme"
	tuiview "github.com/glabrego/homefeed/internal/tui/view"
)

// Presenter is the part of home.Presenter the screen drives.
type Presenter interface {
	States() <-chan home.ViewState
	LoadFirstPage()
	LoadNextPage()
	PullToRefresh()
	LoadAllProductsOfCategory(category string)
}

type CacheCounter interface {
	CachedCount(ctx context.Context) (int, error)
}

type DetailsPresenter interface {
	States() <-chan details.State
	LoadDetails(id int64)
	AddToCart(id int64)
	RemoveFromCart(id int64)
}

type MenuPresenter interface {
	States() <-chan category.MenuState
	LoadCategories()
}

type BrowsePresenter interface {
	States() <-chan category.BrowseState
	LoadCategory(name string)
}

type SearchPresenter interface {
	States() <-chan search.State
	Search(query string)
}

// Screens are the presenters behind the screens next to the home feed. A nil
// presenter leaves its screen without data.
type Screens struct {
	Details DetailsPresenter
	Menu    MenuPresenter
	Browse  BrowsePresenter
	Search  SearchPresenter
}

type screen int

const (
	screenHome screen = iota
	screenDetail
	screenMenu
	screenCategory
	screenSearch
)

func (s screen) String() string {
	switch s {
	case screenDetail:
		return "detail"
	case screenMenu:
		return "menu"
	case screenCategory:
		return "category"
	case screenSearch:
		return "search"
	default:
		return "home"
	}
}

type viewStateMsg struct {
	state home.ViewState
}

type detailsStateMsg struct{ state details.State }

type menuStateMsg struct{ state category.MenuState }

type browseStateMsg struct{ state category.BrowseState }

type searchStateMsg struct{ state search.State }

type statesClosedMsg struct{}

type cacheCountMsg struct {
	count int
	err   error
}

type Model struct {
	presenter   Presenter
	cache       CacheCounter
	screens     Screens
	theme       tuitheme.Theme
	state       home.ViewState
	cursor      int
	screen      screen
	width       int
	height      int
	cachedCount int
	status      string

	// detail screen
	detailBack    screen
	detailProduct shop.Product
	detailTop     int
	detailState   details.State

	// menu and category screens
	menuState      category.MenuState
	menuCursor     int
	menuBack       screen
	selected       string
	browseState    category.BrowseState
	categoryCursor int

	// search screen
	query        string
	searchState  search.State
	searchCursor int
}

func NewModel(presenter Presenter, cache CacheCounter) Model {
	return Model{
		presenter:   presenter,
		cache:       cache,
		theme:       tuitheme.Default(),
		state:       home.InitialState(),
		cachedCount: -1,
	}
}

// WithScreens attaches the presenters of the secondary screens.
func (m Model) WithScreens(screens Screens) Model {
	m.screens = screens
	return m
}

func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.presenter != nil {
		cmds = append(cmds, waitForStateCmd(m.presenter.States()), intentCmd(m.presenter.LoadFirstPage))
	}
	if m.screens.Details != nil {
		cmds = append(cmds, waitCmd(m.screens.Details.States(), wrapDetails))
	}
	if m.screens.Menu != nil {
		cmds = append(cmds, waitCmd(m.screens.Menu.States(), wrapMenu))
	}
	if m.screens.Browse != nil {
		cmds = append(cmds, waitCmd(m.screens.Browse.States(), wrapBrowse))
	}
	if m.screens.Search != nil {
		cmds = append(cmds, waitCmd(m.screens.Search.States(), wrapSearch))
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case viewStateMsg:
		m.state = msg.state
		m.clampCursor()
		var cmds []tea.Cmd
		if m.presenter != nil {
			cmds = append(cmds, waitForStateCmd(m.presenter.States()))
		}
		if !isLoading(m.state) {
			cmds = append(cmds, cacheCountCmd(m.cache))
		}
		return m, tea.Batch(cmds...)
	case statesClosedMsg:
		m.status = "Feed closed"
		return m, nil
	case cacheCountMsg:
		if msg.err == nil {
			m.cachedCount = msg.count
		}
		return m, nil
	case detailsStateMsg:
		m.detailState = msg.state
		if m.screens.Details == nil {
			return m, nil
		}
		return m, waitCmd(m.screens.Details.States(), wrapDetails)
	case menuStateMsg:
		m.menuState = msg.state
		m.menuCursor = clamp(m.menuCursor, len(m.menuItems()))
		if m.screens.Menu == nil {
			return m, nil
		}
		return m, waitCmd(m.screens.Menu.States(), wrapMenu)
	case browseStateMsg:
		m.browseState = msg.state
		m.categoryCursor = clamp(m.categoryCursor, len(m.browseState.Data.Products))
		if m.screens.Browse == nil {
			return m, nil
		}
		return m, waitCmd(m.screens.Browse.States(), wrapBrowse)
	case searchStateMsg:
		m.searchState = msg.state
		m.searchCursor = clamp(m.searchCursor, len(m.searchState.Data.Products))
		if m.screens.Search == nil {
			return m, nil
		}
		return m, waitCmd(m.screens.Search.States(), wrapSearch)
	case tea.KeyMsg:
		switch m.screen {
		case screenDetail:
			return m.updateDetail(msg)
		case screenMenu:
			return m.updateMenu(msg)
		case screenCategory:
			return m.updateCategory(msg)
		case screenSearch:
			return m.updateSearch(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "down", "j":
		if m.cursor < len(m.state.Data)-1 {
			m.cursor++
		}
		return m, nil
	case "g":
		m.cursor = 0
		return m, nil
	case "G":
		m.cursor = max(0, len(m.state.Data)-1)
		return m, nil
	case "enter":
		return m.activateCurrent()
	case "n":
		if m.presenter == nil || m.state.IsLoadingFirstPage || m.state.IsLoadingNextPage || len(m.state.Data) == 0 {
			return m, nil
		}
		return m, intentCmd(m.presenter.LoadNextPage)
	case "r":
		if m.presenter == nil {
			return m, nil
		}
		if m.state.FirstPageError != nil && !m.state.IsLoadingFirstPage {
			return m, intentCmd(m.presenter.LoadFirstPage)
		}
		if m.state.IsLoadingFirstPage || m.state.IsLoadingPullToRefresh {
			return m, nil
		}
		return m, intentCmd(m.presenter.PullToRefresh)
	case "c":
		return m.openMenu()
	case "/":
		m.screen = screenSearch
		return m, nil
	}
	return m, nil
}

func (m Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "esc", "backspace":
		m.screen = m.detailBack
		m.detailTop = 0
		return m, nil
	case "up", "k":
		if m.detailTop > 0 {
			m.detailTop--
		}
		return m, nil
	case "down", "j":
		if m.detailTop < len(m.detailLines())-m.detailBodyHeight() {
			m.detailTop++
		}
		return m, nil
	case "a":
		detail, ok := m.loadedDetail()
		if !ok || m.detailState.Loading {
			return m, nil
		}
		id := detail.ID
		if detail.InCart {
			return m, intentCmd(func() { m.screens.Details.RemoveFromCart(id) })
		}
		return m, intentCmd(func() { m.screens.Details.AddToCart(id) })
	case "r":
		if m.detailState.Err == nil || m.screens.Details == nil {
			return m, nil
		}
		id := m.detailProduct.ID
		return m, intentCmd(func() { m.screens.Details.LoadDetails(id) })
	}
	return m, nil
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.menuItems()
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "esc", "backspace":
		m.screen = m.menuBack
		return m, nil
	case "up", "k":
		if m.menuCursor > 0 {
			m.menuCursor--
		}
		return m, nil
	case "down", "j":
		if m.menuCursor < len(items)-1 {
			m.menuCursor++
		}
		return m, nil
	case "r":
		if m.menuState.Err == nil || m.screens.Menu == nil {
			return m, nil
		}
		return m, intentCmd(m.screens.Menu.LoadCategories)
	case "enter":
		if m.menuCursor >= len(items) {
			return m, nil
		}
		name := items[m.menuCursor].Name
		if name == category.Home {
			m.selected = ""
			m.screen = screenHome
			return m, nil
		}
		return m.browse(name)
	}
	return m, nil
}

func (m Model) updateCategory(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	products := m.browseState.Data.Products
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "esc", "backspace":
		m.selected = ""
		m.screen = screenHome
		return m, nil
	case "up", "k":
		if m.categoryCursor > 0 {
			m.categoryCursor--
		}
		return m, nil
	case "down", "j":
		if m.categoryCursor < len(products)-1 {
			m.categoryCursor++
		}
		return m, nil
	case "c":
		return m.openMenu()
	case "r":
		if m.browseState.Loading || m.selected == "" {
			return m, nil
		}
		return m.browse(m.selected)
	case "enter":
		if m.categoryCursor >= len(products) {
			return m, nil
		}
		return m.openDetail(products[m.categoryCursor], screenCategory)
	}
	return m, nil
}

// updateSearch treats printable keys as query input, so the screen moves with
// the arrow keys only.
func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	products := m.searchState.Data.Products
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.screen = screenHome
		return m, nil
	case tea.KeyUp:
		if m.searchCursor > 0 {
			m.searchCursor--
		}
		return m, nil
	case tea.KeyDown:
		if m.searchCursor < len(products)-1 {
			m.searchCursor++
		}
		return m, nil
	case tea.KeyBackspace:
		if r := []rune(m.query); len(r) > 0 {
			m.query = string(r[:len(r)-1])
		}
		return m, nil
	case tea.KeySpace:
		m.query += " "
		return m, nil
	case tea.KeyRunes:
		m.query += string(msg.Runes)
		return m, nil
	case tea.KeyEnter:
		query := strings.TrimSpace(m.query)
		if query == m.searchState.Data.Query && m.searchState.Loaded && m.searchCursor < len(products) {
			return m.openDetail(products[m.searchCursor], screenSearch)
		}
		if m.screens.Search == nil {
			return m, nil
		}
		m.searchCursor = 0
		return m, intentCmd(func() { m.screens.Search.Search(query) })
	}
	return m, nil
}

func (m Model) openMenu() (tea.Model, tea.Cmd) {
	if m.screen != screenMenu {
		m.menuBack = m.screen
	}
	m.screen = screenMenu
	m.menuCursor = 0
	for i, item := range m.menuItems() {
		if item.Selected {
			m.menuCursor = i
		}
	}
	if m.screens.Menu == nil || m.menuState.Loading || m.menuState.Loaded {
		return m, nil
	}
	return m, intentCmd(m.screens.Menu.LoadCategories)
}

func (m Model) browse(name string) (tea.Model, tea.Cmd) {
	m.selected = name
	m.screen = screenCategory
	m.categoryCursor = 0
	if m.screens.Browse == nil {
		return m, nil
	}
	return m, intentCmd(func() { m.screens.Browse.LoadCategory(name) })
}

// openDetail shows p right away and loads its details, cart state included.
func (m Model) openDetail(p shop.Product, back screen) (tea.Model, tea.Cmd) {
	m.screen = screenDetail
	m.detailBack = back
	m.detailProduct = p
	m.detailTop = 0
	if m.screens.Details == nil {
		return m, nil
	}
	id := p.ID
	return m, intentCmd(func() { m.screens.Details.LoadDetails(id) })
}

// activateCurrent opens a product or expands a category. A category that is
// already loading is left alone so its result arrives exactly once.
func (m Model) activateCurrent() (tea.Model, tea.Cmd) {
	switch item := m.currentItem().(type) {
	case feed.ProductItem:
		return m.openDetail(item.Product, screenHome)
	case feed.AdditionalItemsLoadable:
		if item.IsLoading || m.presenter == nil {
			return m, nil
		}
		category := item.CategoryName
		return m, intentCmd(func() { m.presenter.LoadAllProductsOfCategory(category) })
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.theme.Title.Render("Home Feed"))
	b.WriteString("\n")
	b.WriteString(tuiview.Toolbar(m.screen.String()))
	b.WriteString("\n\n")

	switch m.screen {
	case screenDetail:
		b.WriteString(m.detailView())
	case screenMenu:
		b.WriteString(m.menuView())
	case screenCategory:
		b.WriteString(m.categoryView())
	case screenSearch:
		b.WriteString(m.searchView())
	default:
		b.WriteString(m.listView())
	}

	b.WriteString("\n")
	b.WriteString(m.messageLine())
	b.WriteString("\n")
	b.WriteString(tuiview.Footer(m.productCount(), m.categoryCount(), m.cachedCount, m.theme))
	b.WriteString("\n")
	return b.String()
}

func (m Model) listView() string {
	if len(m.state.Data) == 0 {
		if m.state.IsLoadingFirstPage || m.state.FirstPageError != nil {
			return ""
		}
		return "No products available.\n"
	}
	var b strings.Builder
	start, end := tuiview.Window(len(m.state.Data), m.cursor, m.listBodyHeight())
	for i := start; i < end; i++ {
		b.WriteString(tuiview.RenderItemLine(m.state.Data[i], m.contentWidth(), i == m.cursor, m.theme))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) detailView() string {
	return tuiview.ScrollLines(m.detailLines(), m.detailTop, m.detailBodyHeight())
}

// detailLines renders the loaded details once they match the opened product,
// and the product from the list until then.
func (m Model) detailLines() []string {
	if detail, ok := m.loadedDetail(); ok {
		lines := tuiview.DetailLines(detail.Product, m.contentWidth())
		return append(lines[:3:3], append([]string{tuiview.CartLine(detail.InCart)}, lines[3:]...)...)
	}
	return tuiview.DetailLines(m.detailProduct, m.contentWidth())
}

func (m Model) loadedDetail() (shop.ProductDetail, bool) {
	if !m.detailState.Loaded || m.detailState.Data.ID != m.detailProduct.ID {
		return shop.ProductDetail{}, false
	}
	return m.detailState.Data, true
}

func (m Model) menuItems() []category.MenuItem {
	return category.MenuItems(m.menuState.Data, m.selected)
}

func (m Model) menuView() string {
	var b strings.Builder
	b.WriteString(m.theme.Section.Render("Categories"))
	b.WriteString("\n")
	items := m.menuItems()
	start, end := tuiview.Window(len(items), m.menuCursor, m.listBodyHeight())
	for i := start; i < end; i++ {
		b.WriteString(tuiview.RenderMenuLine(items[i], i == m.menuCursor, m.theme))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) categoryView() string {
	listing := m.browseState.Data
	if listing.Category != m.selected {
		return ""
	}
	var b strings.Builder
	b.WriteString(tuiview.ListingHeader(m.selected, len(listing.Products), listing.FromCache, m.theme))
	b.WriteString("\n")
	b.WriteString(m.productLines(listing.Products, m.categoryCursor))
	return b.String()
}

func (m Model) searchView() string {
	var b strings.Builder
	b.WriteString(tuiview.SearchPrompt(m.query, m.theme))
	b.WriteString("\n\n")
	result := m.searchState.Data
	switch {
	case search.Empty(m.searchState):
		b.WriteString(fmt.Sprintf("No results for %q.\n", result.Query))
	case m.searchState.Loaded:
		b.WriteString(tuiview.ListingHeader(fmt.Sprintf("Results for %q", result.Query), len(result.Products), result.FromCache, m.theme))
		b.WriteString("\n")
		b.WriteString(m.productLines(result.Products, m.searchCursor))
	}
	return b.String()
}

func (m Model) productLines(products []shop.Product, cursor int) string {
	var b strings.Builder
	start, end := tuiview.Window(len(products), cursor, m.listBodyHeight()-1)
	for i := start; i < end; i++ {
		b.WriteString(tuiview.RenderProductLine(products[i], m.contentWidth(), i == cursor, m.theme))
		b.WriteString("\n")
	}
	return b.String()
}

// messageLine reports the home feed on the home screen and the screen's own
// load everywhere else.
func (m Model) messageLine() string {
	var state, text string
	switch m.screen {
	case screenDetail:
		state, text = tuiview.LoadStatus(m.detailState.Loading, m.detailState.Err, "details")
	case screenMenu:
		state, text = tuiview.LoadStatus(m.menuState.Loading, m.menuState.Err, "categories")
	case screenCategory:
		state, text = tuiview.LoadStatus(m.browseState.Loading, m.browseState.Err, m.selected)
	case screenSearch:
		state, text = tuiview.LoadStatus(m.searchState.Loading, m.searchState.Err, "results")
	default:
		return tuiview.Message(m.state, m.status, m.theme)
	}
	return tuiview.StatusLine(state, text, m.theme)
}

func (m Model) currentItem() feed.Item {
	if m.cursor < 0 || m.cursor >= len(m.state.Data) {
		return nil
	}
	return m.state.Data[m.cursor]
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.state.Data) {
		m.cursor = len(m.state.Data) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func clamp(cursor, n int) int {
	return max(0, min(cursor, n-1))
}

func (m Model) productCount() int {
	n := 0
	for _, item := range m.state.Data {
		if _, ok := item.(feed.ProductItem); ok {
			n++
		}
	}
	return n
}

func (m Model) categoryCount() int {
	n := 0
	for _, item := range m.state.Data {
		if _, ok := item.(feed.SectionHeader); ok {
			n++
		}
	}
	return n
}

func (m Model) contentWidth() int {
	if m.width > 0 {
		return m.width - 1
	}
	return 80
}

func (m Model) listBodyHeight() int {
	if m.height > 0 {
		if h := m.height - 7; h > 3 {
			return h
		}
	}
	return 20
}

func (m Model) detailBodyHeight() int {
	return m.listBodyHeight()
}

func isLoading(s home.ViewState) bool {
	return s.IsLoadingFirstPage || s.IsLoadingNextPage || s.IsLoadingPullToRefresh
}

func waitForStateCmd(states <-chan home.ViewState) tea.Cmd {
	return func() tea.Msg {
		state, ok := <-states
		if !ok {
			return statesClosedMsg{}
		}
		return viewStateMsg{state: state}
	}
}

func waitCmd[T any](states <-chan T, wrap func(T) tea.Msg) tea.Cmd {
	return func() tea.Msg {
		state, ok := <-states
		if !ok {
			return nil
		}
		return wrap(state)
	}
}

func wrapDetails(s details.State) tea.Msg       { return detailsStateMsg{state: s} }
func wrapMenu(s category.MenuState) tea.Msg     { return menuStateMsg{state: s} }
func wrapBrowse(s category.BrowseState) tea.Msg { return browseStateMsg{state: s} }
func wrapSearch(s search.State) tea.Msg         { return searchStateMsg{state: s} }

// intentCmd runs a presenter intent off the update loop. Intents only start
// background loads, so the command yields no message.
func intentCmd(intent func()) tea.Cmd {
	return func() tea.Msg {
		intent()
		return nil
	}
}

func cacheCountCmd(cache CacheCounter) tea.Cmd {
	if cache == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		count, err := cache.CachedCount(ctx)
		return cacheCountMsg{count: count, err: err}
	}
}
