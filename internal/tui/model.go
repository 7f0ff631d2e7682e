package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/tallard/campusreel/internal/feed"
	"github.com/tallard/campusreel/internal/media"
	"github.com/tallard/campusreel/internal/remote"
	"github.com/tallard/campusreel/internal/render/caption"
	"github.com/tallard/campusreel/internal/tui/actions"
	"github.com/tallard/campusreel/internal/tui/platform"
	"github.com/tallard/campusreel/internal/tui/slot"
	tuitheme "github.com/tallard/campusreel/internal/tui/theme"
	"github.com/tallard/campusreel/internal/tui/view"
)

const (
	// Rows reserved for the toolbar, footer, toast and pull strips.
	chromeRows = 4
	// Raw travel per wheel tick while a pull gesture is armed, in the
	// logical pixels the pull controller speaks.
	pullStep = 30.0
	// A pull gesture with no new travel for this long counts as released.
	pullQuietPeriod = 250 * time.Millisecond
	overlayAutoHide = 4 * time.Second
	toastAutoHide   = 3 * time.Second
	videoTick       = time.Second
	// Wheel input coalesces into one active-index recompute per frame.
	frameInterval = 50 * time.Millisecond
)

// Preferences are the persisted per-user toggles the model acts on.
type Preferences struct {
	Autoplay bool
	Captions bool
	RankMode string
}

type frameMsg struct{}

type pullSettleMsg struct{ seq int }

type overlayHideMsg struct{ seq int }

type videoTickMsg struct{ seq int }

// Options wires the model to everything that lives outside the Update
// loop: the live subscription channels, the network prober and the
// preference store.
type Options struct {
	Logger          zerolog.Logger
	Pages           <-chan []media.Item
	SubErrors       <-chan error
	NetworkChanges  <-chan bool
	Preferences     Preferences
	SavePreferences func(Preferences) error
	PageLimit       int
}

type Model struct {
	service actions.Service
	logger  zerolog.Logger
	th      tuitheme.Theme

	coordinator *feed.Coordinator
	collection  *feed.Collection
	pull        *feed.PullController
	timer       *feed.Timer
	trackers    map[string]*feed.Tracker
	slots       map[string]*slot.Slot
	flushBuf    *[]float64

	pages      <-chan []media.Item
	subErrs    <-chan error
	netChanges <-chan bool

	filter   media.Category
	visible  []media.Item
	activeID string

	width, height int
	online        bool
	loading       bool
	seeded        bool
	spin          spinner.Model
	framePending  bool
	pullSeq       int
	overlaySeq    int
	videoSeq      int
	overlayShown  bool

	toast     string
	toastErr  bool
	toastID   int
	errBanner string
	// Set when a released slot held kitty graphics; the next renders
	// emit the delete-all sequence so stale placements do not linger.
	clearKitty bool

	prefs       Preferences
	savePrefsFn func(Preferences) error
	bookmarked  map[string]bool
	pageLimit   int

	renderPreviewFn func(string, int, int) (string, error)
	openURLFn       func(string) error
	copyURLFn       func(string) error
	nowFn           func() time.Time
}

func NewModel(service actions.Service, opts Options) Model {
	if opts.PageLimit < 1 {
		opts.PageLimit = remote.DefaultPageLimit
	}
	if opts.Preferences.RankMode == "" {
		opts.Preferences.RankMode = "recency"
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	flushBuf := make([]float64, 0, 2)
	m := Model{
		service:         service,
		logger:          opts.Logger,
		th:              tuitheme.Default(),
		coordinator:     feed.NewCoordinator(1, 2),
		collection:      feed.NewCollection(nil),
		pull:            feed.NewPullController(),
		trackers:        make(map[string]*feed.Tracker),
		slots:           make(map[string]*slot.Slot),
		flushBuf:        &flushBuf,
		pages:           opts.Pages,
		subErrs:         opts.SubErrors,
		netChanges:      opts.NetworkChanges,
		online:          true,
		spin:            sp,
		prefs:           opts.Preferences,
		savePrefsFn:     opts.SavePreferences,
		bookmarked:      make(map[string]bool),
		pageLimit:       opts.PageLimit,
		renderPreviewFn: view.RenderMediaPreview,
		openURLFn:       platform.OpenInBrowser,
		copyURLFn:       platform.CopyToClipboard,
		nowFn:           time.Now,
	}
	buf := m.flushBuf
	m.timer = feed.NewTimerWithClock(func(seconds float64) {
		*buf = append(*buf, seconds)
	}, time.Now)
	return m
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		actions.LoadCacheCmd(m.service, m.pageLimit),
		actions.RefreshCmd(m.service, m.pageLimit, "init"),
		actions.CleanupCmd(m.service, m.nowFn()),
		m.spin.Tick,
	}
	if m.pages != nil {
		cmds = append(cmds, actions.WaitForPageCmd(m.pages))
	}
	if m.subErrs != nil {
		cmds = append(cmds, actions.WaitForSubscriptionErrorCmd(m.subErrs))
	}
	if m.netChanges != nil {
		cmds = append(cmds, actions.WaitForNetworkCmd(m.netChanges))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.coordinator.Resize(m.viewportRows())
		_, next, _ := m.coordinator.Recompute()
		cmd := tea.Batch(m.applyActive(next)...)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case frameMsg:
		m.framePending = false
		_, next, _ := m.coordinator.Recompute()
		cmd := tea.Batch(m.applyActive(next)...)
		return m, cmd

	case pullSettleMsg:
		if msg.seq != m.pullSeq || m.pull.Phase() != feed.PullPulling {
			return m, nil
		}
		if !m.pull.Release() {
			return m, nil
		}
		m.loading = true
		return m, tea.Batch(
			actions.RefreshCmd(m.service, m.pageLimit, "pull"),
			m.spin.Tick,
		)

	case overlayHideMsg:
		if msg.seq == m.overlaySeq {
			m.overlayShown = false
		}
		return m, nil

	case videoTickMsg:
		if msg.seq != m.videoSeq {
			return m, nil
		}
		sl := m.slots[m.activeID]
		if sl == nil || !sl.Playing() {
			return m, nil
		}
		sl.Advance(videoTick.Seconds())
		return m, m.videoTickCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		if m.loading || m.pull.Phase() == feed.PullRefreshing {
			return m, cmd
		}
		return m, nil

	case actions.RefreshSuccessMsg:
		m.loading = false
		m.seeded = true
		m.pull.RefreshDone()
		m.bookmarked = msg.Bookmarked
		if m.bookmarked == nil {
			m.bookmarked = make(map[string]bool)
		}
		m.collection.MergeRemote(msg.Items, m.bookmarked)
		m.collection.Cleanup(m.nowFn())
		cmds := m.rebuildVisible()
		if msg.Source != "init" {
			cmds = append(cmds, m.setToast("Feed updated", false))
		}
		m.logger.Info().Str("source", msg.Source).Dur("took", msg.Duration).
			Int("items", len(msg.Items)).Msg("feed refreshed")
		return m, tea.Batch(cmds...)

	case actions.RefreshErrorMsg:
		m.loading = false
		m.pull.RefreshDone()
		m.logger.Warn().Err(msg.Err).Str("source", msg.Source).Msg("refresh failed")
		// Stale content stays on screen; only the toast changes.
		cmd := m.setToast(remote.UserMessage(msg.Err), true)
		return m, cmd

	case actions.CacheLoadSuccessMsg:
		if m.seeded || len(msg.Items) == 0 {
			return m, nil
		}
		m.bookmarked = msg.Bookmarked
		if m.bookmarked == nil {
			m.bookmarked = make(map[string]bool)
		}
		m.collection.MergeRemote(msg.Items, m.bookmarked)
		m.collection.Cleanup(m.nowFn())
		cmd := tea.Batch(m.rebuildVisible()...)
		return m, cmd

	case actions.CacheLoadErrorMsg:
		m.logger.Warn().Err(msg.Err).Msg("cache load failed")
		return m, nil

	case actions.SubscriptionPageMsg:
		m.seeded = true
		// A delivered page means the stream recovered.
		m.errBanner = ""
		m.collection.MergeRemote(msg.Items, m.bookmarked)
		m.collection.Cleanup(m.nowFn())
		cmds := m.rebuildVisible()
		cmds = append(cmds, actions.WaitForPageCmd(m.pages))
		return m, tea.Batch(cmds...)

	case actions.SubscriptionErrorMsg:
		// Transient poll failures are expected noise; only hard
		// failures warrant a warning in the log.
		evt := m.logger.Warn()
		if remote.Transient(msg.Err) {
			evt = m.logger.Debug()
		}
		evt.Err(msg.Err).Msg("subscription poll failed")
		m.errBanner = "Live updates interrupted"
		cmds := []tea.Cmd{
			actions.WaitForSubscriptionErrorCmd(m.subErrs),
			m.setToast(remote.UserMessage(msg.Err), true),
		}
		return m, tea.Batch(cmds...)

	case actions.SubscriptionClosedMsg:
		return m, nil

	case actions.NetworkStatusMsg:
		wasOnline := m.online
		m.online = msg.Online
		cmds := []tea.Cmd{actions.WaitForNetworkCmd(m.netChanges)}
		if m.online && !wasOnline {
			m.loading = true
			cmds = append(cmds,
				actions.RefreshCmd(m.service, m.pageLimit, "reconnect"),
				m.spin.Tick,
				m.setToast("Back online", false),
			)
		}
		return m, tea.Batch(cmds...)

	case actions.NetworkProbeStoppedMsg:
		return m, nil

	case actions.BookmarkSaveSuccessMsg:
		m.logger.Debug().Str("item_id", msg.ItemID).Bool("bookmarked", msg.Value).Msg("bookmark saved")
		return m, nil

	case actions.BookmarkSaveErrorMsg:
		if m.collection.RevertBookmark(msg.ItemID, msg.Value) {
			if msg.Value {
				delete(m.bookmarked, msg.ItemID)
			} else {
				m.bookmarked[msg.ItemID] = true
			}
			m.refreshVisibleItems()
		}
		m.logger.Warn().Err(msg.Err).Str("item_id", msg.ItemID).Msg("bookmark save failed")
		cmd := m.setToast("Couldn't save, try again", true)
		return m, cmd

	case actions.EngagementWriteSuccessMsg:
		m.collection.ConfirmEngagement(msg.ItemID)
		return m, nil

	case actions.EngagementWriteErrorMsg:
		// Counters stay pending so the next merge keeps the local values.
		m.logger.Warn().Err(msg.Err).Str("item_id", msg.ItemID).Msg("engagement write failed")
		return m, nil

	case actions.CleanupDoneMsg:
		if removed := m.collection.Cleanup(m.nowFn()); removed > 0 {
			m.logger.Info().Int("removed", removed).Msg("swept expired items")
			cmd := tea.Batch(m.rebuildVisible()...)
			return m, cmd
		}
		return m, nil

	case actions.MediaPreviewSuccessMsg:
		if sl := m.slots[msg.ItemID]; sl != nil {
			sl.SetPreview(msg.Preview)
		}
		return m, nil

	case actions.MediaPreviewErrorMsg:
		if sl := m.slots[msg.ItemID]; sl != nil {
			sl.SetFailure(msg.Err.Error())
		}
		m.logger.Debug().Err(msg.Err).Str("item_id", msg.ItemID).Msg("preview failed")
		return m, nil

	case actions.ShareSuccessMsg:
		cmd := m.setToast(msg.Status, false)
		return m, cmd

	case actions.ShareErrorMsg:
		cmd := m.setToast(msg.Err.Error(), true)
		return m, cmd

	case actions.PreferenceSaveErrorMsg:
		m.logger.Warn().Err(msg.Err).Msg("preference save failed")
		cmd := m.setToast("Couldn't save preferences", true)
		return m, cmd

	case actions.ClearToastMsg:
		if msg.ID == m.toastID {
			m.toast = ""
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.timer.StopAndFlush()
		writes := m.drainFlush(m.activeID)
		if len(writes) == 0 {
			return m, tea.Quit
		}
		return m, tea.Sequence(tea.Batch(writes...), tea.Quit)

	case "esc":
		m.overlayShown = false
		m.errBanner = ""
		return m, nil

	case "i":
		m.overlayShown = !m.overlayShown
		if !m.overlayShown {
			return m, nil
		}
		m.overlaySeq++
		seq := m.overlaySeq
		return m, tea.Tick(overlayAutoHide, func(time.Time) tea.Msg {
			return overlayHideMsg{seq: seq}
		})

	case "j", "down":
		_, next, _ := m.coordinator.JumpTo(m.coordinator.Active() + 1)
		cmd := tea.Batch(m.applyActive(next)...)
		return m, cmd

	case "k", "up":
		_, next, _ := m.coordinator.JumpTo(m.coordinator.Active() - 1)
		cmd := tea.Batch(m.applyActive(next)...)
		return m, cmd

	case "g":
		_, next, _ := m.coordinator.JumpTo(0)
		cmd := tea.Batch(m.applyActive(next)...)
		return m, cmd

	case "G":
		_, next, _ := m.coordinator.JumpTo(len(m.visible) - 1)
		cmd := tea.Batch(m.applyActive(next)...)
		return m, cmd

	case "b":
		return m.toggleBookmark()

	case " ":
		sl := m.slots[m.activeID]
		if sl == nil || !sl.TogglePlay() {
			return m, nil
		}
		m.videoSeq++
		if sl.Playing() {
			return m, m.videoTickCmd()
		}
		return m, nil

	case "h", "left":
		if sl := m.slots[m.activeID]; sl != nil {
			sl.PrevPage()
		}
		return m, nil

	case "l", "right":
		if sl := m.slots[m.activeID]; sl != nil {
			sl.NextPage()
		}
		return m, nil

	case "s":
		return m.shareActive()

	case "c":
		m.prefs.Captions = !m.prefs.Captions
		return m, m.savePrefsCmd()

	case "R":
		if m.prefs.RankMode == "recency" {
			m.prefs.RankMode = "popular"
		} else {
			m.prefs.RankMode = "recency"
		}
		m.loading = true
		return m, tea.Sequence(
			m.savePrefsCmd(),
			actions.RefreshCmd(m.service, m.pageLimit, "rank"),
		)

	case "r":
		if m.loading {
			return m, nil
		}
		m.loading = true
		return m, tea.Batch(
			actions.RefreshCmd(m.service, m.pageLimit, "manual"),
			m.spin.Tick,
		)

	case "a":
		return m.setFilter("")

	case "1", "2", "3", "4", "5", "6":
		idx := int(msg.String()[0] - '1')
		cats := media.Categories()
		if idx >= 0 && idx < len(cats) {
			return m.setFilter(cats[idx])
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelDown:
		if m.pull.Phase() == feed.PullPulling {
			m.pull.Drag(-pullStep)
			return m, nil
		}
		m.coordinator.ScrollBy(float64(m.viewportRows()) / 2)
		return m.scheduleFrame()

	case tea.MouseButtonWheelUp:
		if m.pull.Phase() == feed.PullRefreshing {
			return m, nil
		}
		if m.coordinator.AtTop() {
			m.pull.TouchStart(true)
			m.pull.Drag(pullStep)
			m.pullSeq++
			seq := m.pullSeq
			return m, tea.Tick(pullQuietPeriod, func(time.Time) tea.Msg {
				return pullSettleMsg{seq: seq}
			})
		}
		m.coordinator.ScrollBy(-float64(m.viewportRows()) / 2)
		return m.scheduleFrame()
	}
	return m, nil
}

func (m Model) scheduleFrame() (tea.Model, tea.Cmd) {
	if m.framePending {
		return m, nil
	}
	m.framePending = true
	return m, tea.Tick(frameInterval, func(time.Time) tea.Msg {
		return frameMsg{}
	})
}

func (m Model) toggleBookmark() (tea.Model, tea.Cmd) {
	item, ok := m.activeItem()
	if !ok {
		return m, nil
	}
	next, ok := m.collection.ToggleBookmark(item.ID)
	if !ok {
		return m, nil
	}
	if next {
		m.bookmarked[item.ID] = true
	} else {
		delete(m.bookmarked, item.ID)
	}
	m.refreshVisibleItems()

	status := "Removed from saved"
	if next {
		status = "Saved"
	}
	cmd := tea.Batch(
		actions.SaveBookmarkCmd(m.service, item.ID, next),
		m.setToast(status, false),
	)
	return m, cmd
}

func (m Model) shareActive() (tea.Model, tea.Cmd) {
	item, ok := m.activeItem()
	if !ok {
		return m, nil
	}
	url, err := platform.ValidateShareURL(item.MediaURL)
	if err != nil {
		cmd := m.setToast(err.Error(), true)
		return m, cmd
	}
	return m, actions.ShareCmd(url, shareText(item, url), m.openURLFn, m.copyURLFn)
}

// shareText is what lands on the clipboard when no browser is
// available: title, flattened description and the link.
func shareText(item media.Item, url string) string {
	parts := []string{item.Title}
	if summary := caption.PlainText(item.Description); summary != "" {
		parts = append(parts, summary)
	}
	parts = append(parts, url)
	return strings.Join(parts, "\n")
}

func (m *Model) savePrefsCmd() tea.Cmd {
	if m.savePrefsFn == nil {
		return nil
	}
	saveFn := m.savePrefsFn
	prefs := m.prefs
	return func() tea.Msg {
		if err := saveFn(prefs); err != nil {
			return actions.PreferenceSaveErrorMsg{Err: err}
		}
		return nil
	}
}

func (m *Model) setFilter(cat media.Category) (tea.Model, tea.Cmd) {
	if m.filter == cat {
		return *m, nil
	}
	m.filter = cat
	cmds := m.rebuildVisible()
	_, next, _ := m.coordinator.JumpTo(0)
	cmds = append(cmds, m.applyActive(next)...)
	return *m, tea.Batch(cmds...)
}

// rebuildVisible recomputes the filtered slice and resizes the scroll
// range, emitting whatever commands the resulting transition requires.
func (m *Model) rebuildVisible() []tea.Cmd {
	items := m.collection.Items()
	m.visible = m.visible[:0]
	for _, it := range items {
		if m.filter == "" || it.Category == m.filter {
			m.visible = append(m.visible, it)
		}
	}
	m.coordinator.SetItemCount(len(m.visible))
	_, next, _ := m.coordinator.Recompute()
	return m.applyActive(next)
}

// refreshVisibleItems re-copies item snapshots from the collection
// without touching scroll state.
func (m *Model) refreshVisibleItems() {
	for i, it := range m.visible {
		if fresh, ok := m.collection.Get(it.ID); ok {
			m.visible[i] = fresh
		}
	}
}

// applyActive settles an index transition: flush the departing item's
// engagement, move the stopwatch to the new item and resync the slot
// window.
func (m *Model) applyActive(next int) []tea.Cmd {
	newID := ""
	if next >= 0 && next < len(m.visible) {
		newID = m.visible[next].ID
	}

	m.clearKitty = false
	var cmds []tea.Cmd
	if newID != m.activeID {
		prevID := m.activeID
		m.timer.StopAndFlush()
		cmds = append(cmds, m.drainFlush(prevID)...)
		m.activeID = newID
		m.overlayShown = false
		m.videoSeq++
		if newID != "" {
			m.timer.Start()
		}
	}

	cmds = append(cmds, m.syncWindow()...)

	if newID != "" && newID == m.activeID {
		if sl := m.slots[newID]; sl != nil && sl.Playing() {
			cmds = append(cmds, m.videoTickCmd())
		}
	}
	return cmds
}

// drainFlush folds buffered stopwatch deltas into the item's counters
// and ships the new absolute totals.
func (m *Model) drainFlush(id string) []tea.Cmd {
	buf := append([]float64(nil), *m.flushBuf...)
	*m.flushBuf = (*m.flushBuf)[:0]
	if id == "" {
		return nil
	}
	var cmds []tea.Cmd
	for _, seconds := range buf {
		totals, ok := m.collection.ApplyEngagement(id, seconds)
		if !ok {
			continue
		}
		m.logger.Debug().Str("item_id", id).Float64("seconds", seconds).
			Int64("view_count", totals.ViewCount).Msg("engagement flushed")
		cmds = append(cmds, actions.WriteEngagementCmd(m.service, id, totals.ViewCount, totals.Engagement))
	}
	if len(cmds) > 0 {
		m.refreshVisibleItems()
	}
	return cmds
}

// syncWindow attaches trackers and loads slots for slides inside the
// buffer window and releases everything that left it. Trackers are
// torn down permanently on exit; a slide re-entering the window gets a
// fresh one.
func (m *Model) syncWindow() []tea.Cmd {
	var cmds []tea.Cmd
	start, end := m.coordinator.Window()
	h := m.coordinator.ViewportHeight()
	offset := int(m.coordinator.Offset())

	inWindow := make(map[string]bool)
	for idx := start; idx <= end; idx++ {
		item := m.visible[idx]
		inWindow[item.ID] = true

		tr := m.trackers[item.ID]
		if tr == nil {
			tr = feed.NewTracker(feed.TrackerConfig{PreloadMargin: h})
			m.trackers[item.ID] = tr
		}
		tr.Observe(idx*h, h, offset, h)

		sl := m.slots[item.ID]
		if sl == nil {
			sl = slot.New(item)
			if item.Kind == media.KindVideo && !m.prefs.Autoplay && sl.Playing() {
				sl.TogglePlay()
			}
			m.slots[item.ID] = sl
		} else {
			sl.UpdateItem(item)
		}

		if tr.EverVisible() && sl.PreviewURL() != "" && sl.MarkLoading() {
			cmds = append(cmds, actions.LoadPreviewCmd(
				item.ID, sl.PreviewURL(), m.contentWidth(), m.mediaRows(), m.renderPreviewFn,
			))
		}
	}

	for id, tr := range m.trackers {
		if inWindow[id] {
			continue
		}
		tr.Detach()
		delete(m.trackers, id)
		if sl := m.slots[id]; sl != nil {
			if view.ContainsKittyGraphicsEscape(sl.Preview()) {
				m.clearKitty = true
			}
			sl.Release()
		}
	}
	return cmds
}

func (m *Model) videoTickCmd() tea.Cmd {
	seq := m.videoSeq
	return tea.Tick(videoTick, func(time.Time) tea.Msg {
		return videoTickMsg{seq: seq}
	})
}

func (m *Model) setToast(text string, isError bool) tea.Cmd {
	m.toast = text
	m.toastErr = isError
	m.toastID++
	return actions.ClearToastCmd(m.toastID, toastAutoHide)
}

func (m Model) activeItem() (media.Item, bool) {
	if m.activeID == "" {
		return media.Item{}, false
	}
	return m.collection.Get(m.activeID)
}

func (m Model) viewportRows() int {
	rows := m.height - chromeRows
	if rows < 8 {
		rows = 8
	}
	return rows
}

func (m Model) contentWidth() int {
	w := m.width - 4
	if w < 20 {
		w = 20
	}
	return w
}

func (m Model) mediaRows() int {
	rows := m.viewportRows() - 8
	if rows < 4 {
		rows = 4
	}
	return rows
}

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Starting CampusReel…"
	}

	var b strings.Builder
	if m.clearKitty {
		b.WriteString(view.ClearKittyGraphicsSequence())
	}
	if strip := view.PullIndicator(m.pull.Distance(), m.pull.Phase() == feed.PullRefreshing, m.spin.View(), m.th); strip != "" {
		b.WriteString(strip + "\n")
	}

	item, ok := m.activeItem()
	if !ok {
		empty := "No events in the feed yet"
		if m.filter != "" {
			empty = "No " + string(m.filter) + " events right now"
		}
		if m.loading {
			empty = m.spin.View() + " Loading the feed…"
		}
		b.WriteString(m.th.Placeholder.Render(empty) + "\n")
	} else {
		if sl := m.slots[item.ID]; sl != nil {
			b.WriteString(sl.View(m.contentWidth(), m.mediaRows(), m.th) + "\n")
		}
		b.WriteString(m.th.Title.Render(item.Title) + " " +
			m.th.RenderCategoryPill(item.Category) + " " +
			m.th.RenderBookmark(item.IsBookmarked) + "\n")
		b.WriteString(view.MetaLine(item, m.nowFn(), m.th) + " • " +
			m.th.MetaLabel.Render(view.UploadAge(item, m.nowFn())) + "\n")

		if m.overlayShown {
			b.WriteString(m.renderOverlay(item) + "\n")
		} else if m.prefs.Captions && item.Description != "" {
			for _, line := range caption.Clamp(caption.Lines(item.Description, m.contentWidth()), 2) {
				b.WriteString(m.th.MetaValue.Render(line) + "\n")
			}
		}
	}

	if !m.online {
		b.WriteString(view.OfflineBanner(m.th) + "\n")
	}
	if m.errBanner != "" {
		b.WriteString(view.ErrorBanner(m.errBanner, m.th) + "\n")
	}
	b.WriteString(view.Footer(m.coordinator.Active(), len(m.visible), m.filter, m.prefs.RankMode, m.online, m.th) + "\n")
	if m.toast != "" {
		b.WriteString(view.Toast(m.toast, m.toastErr, m.th) + "\n")
	}
	b.WriteString(view.Toolbar(m.overlayShown))
	return b.String()
}

func (m Model) renderOverlay(item media.Item) string {
	width := m.contentWidth() - 4
	lines := []string{item.Title, ""}
	lines = append(lines, media.FormatEventDate(item.EventDate, m.nowFn()))
	if item.Location != "" {
		lines = append(lines, item.Location)
	}
	if item.Organizer != "" {
		lines = append(lines, "Organized by "+item.Organizer)
	}
	if item.Description != "" {
		lines = append(lines, "")
		lines = append(lines, caption.Lines(item.Description, width)...)
	}
	if len(item.Tags) > 0 {
		lines = append(lines, "", "#"+strings.Join(item.Tags, " #"))
	}
	return m.th.Overlay.Render(strings.Join(lines, "\n"))
}
