// Package tui provides the interactive Bubble Tea month browser for butce.
package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/butce/internal/budget"
	"github.com/theirongolddev/butce/internal/cli"
	"github.com/theirongolddev/butce/internal/config"
	"github.com/theirongolddev/butce/internal/model"
	"github.com/theirongolddev/butce/internal/month"
	"github.com/theirongolddev/butce/internal/pipeline"
	"github.com/theirongolddev/butce/internal/projection"
	"github.com/theirongolddev/butce/internal/tui/components"
	"github.com/theirongolddev/butce/internal/tui/theme"
)

// Tab indexes, matching components.Tabs.
const (
	tabOverview = iota
	tabFixed
	tabDaily
	tabCard
	tabHistory
	tabSettings
	tabCount
)

const (
	minTerminalWidth = 80
	maxContentWidth  = 160
	minContentHeight = 5

	tickInterval  = 30 * time.Second
	flashDuration = 4 * time.Second
)

// Options wires the app to its ledger and config.
type Options struct {
	Book *budget.Book
	// Persist writes the book's current ledger; reason is one of the
	// pipeline Reason constants. It is called off the UI goroutine.
	Persist    func(reason string) error
	Config     config.Config
	SaveConfig func(config.Config) error
	NeedSetup  bool
	DBPath     string
	// SkipRollover keeps the ledger on its month when the clock moves on.
	SkipRollover bool
	// Now defaults to time.Now.
	Now func() time.Time
}

// savedMsg reports a finished Persist call.
type savedMsg struct {
	reason string
	err    error
	at     time.Time
}

type tickMsg time.Time

// App is the root Bubble Tea model.
type App struct {
	book       *budget.Book
	persist    func(reason string) error
	saveConfig func(config.Config) error
	cfg        config.Config
	dbPath     string
	now        func() time.Time
	noRollover bool

	width     int
	height    int
	activeTab int
	showHelp  bool
	cursors   [tabCount]int

	// Entry and confirmation forms
	form  *huh.Form
	entry *entryForm

	// First-run setup
	setupForm *huh.Form
	setupVals *SetupValues
	needSetup bool

	settings settingsState

	saving   bool
	lastSave time.Time
	saveErr  error
	flash    string
	flashErr bool
	flashAt  time.Time
}

// NewApp creates the TUI model.
func NewApp(opts Options) App {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	a := App{
		book:       opts.Book,
		persist:    opts.Persist,
		saveConfig: opts.SaveConfig,
		cfg:        opts.Config,
		dbPath:     opts.DBPath,
		now:        now,
		noRollover: opts.SkipRollover,
		needSetup:  opts.NeedSetup,
	}
	if a.needSetup {
		a.setupVals = NewSetupValues(a.cfg)
		a.setupForm = NewSetupForm(a.setupVals)
	}
	return a
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd()}
	if a.setupForm != nil {
		cmds = append(cmds, a.setupForm.Init())
	}
	return tea.Batch(cmds...)
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// persistCmd saves the ledger in the background.
func (a App) persistCmd(reason string) tea.Cmd {
	if a.persist == nil {
		return nil
	}
	persist, now := a.persist, a.now
	return func() tea.Msg {
		err := persist(reason)
		return savedMsg{reason: reason, err: err, at: now()}
	}
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(min(msg.Width, 72))
		}
		if a.form != nil {
			a.form = a.form.WithWidth(min(msg.Width-8, 64))
		}
		return a, nil

	case tickMsg:
		cmds := []tea.Cmd{tickCmd()}
		if a.flash != "" && a.now().Sub(a.flashAt) >= flashDuration {
			a.flash = ""
		}
		if a.noRollover {
			return a, tea.Batch(cmds...)
		}
		from := a.book.State().CurrentMonth
		if a.book.Rollover(month.Of(time.Time(msg))) {
			a.setFlash(fmt.Sprintf("Yeni ay: %s → %s", cli.FormatMonth(from), cli.FormatMonth(a.book.State().CurrentMonth)), false)
			a.clampCursors()
			a.saving = true
			cmds = append(cmds, a.persistCmd(pipeline.ReasonRollover))
		}
		return a, tea.Batch(cmds...)

	case savedMsg:
		a.saving = false
		a.saveErr = msg.err
		if msg.err != nil {
			a.setFlash("Kaydedilemedi: "+msg.err.Error(), true)
		} else {
			a.lastSave = msg.at
		}
		return a, nil

	case tea.MouseMsg:
		if a.setupForm != nil || a.form != nil || a.showHelp {
			return a, nil
		}
		return a.updateMouse(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.setupForm != nil {
			return a.updateSetupForm(msg)
		}
		if a.form != nil {
			return a.updateEntryForm(msg)
		}
		if a.activeTab == tabSettings && a.settings.editing {
			return a.updateSettingsInput(msg)
		}
		return a.updateKey(msg)
	}

	// Cursor blinks and other form internals.
	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	if a.form != nil {
		return a.updateEntryForm(msg)
	}
	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	if len(key) == 1 {
		if idx := components.TabIdxByKey(rune(key[0])); idx >= 0 {
			a.activeTab = idx
			return a, nil
		}
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "tab", "right", "l":
		a.activeTab = (a.activeTab + 1) % tabCount
		return a, nil
	case "shift+tab", "left", "h":
		a.activeTab = (a.activeTab + tabCount - 1) % tabCount
		return a, nil
	case "[":
		a.book.Shift(-1)
		a.resetCursors()
		return a, nil
	case "]":
		a.book.Shift(1)
		a.resetCursors()
		return a, nil
	case "t":
		a.book.SetView(a.book.State().CurrentMonth)
		a.resetCursors()
		return a, nil
	case "j", "down":
		a.moveCursor(1)
		return a, nil
	case "k", "up":
		a.moveCursor(-1)
		return a, nil
	case "g", "home":
		a.cursors[a.activeTab] = 0
		return a, nil
	case "G", "end":
		a.cursors[a.activeTab] = max(0, a.listLen(a.activeTab)-1)
		return a, nil
	}

	switch a.activeTab {
	case tabSettings:
		return a.updateSettingsKey(key)
	case tabHistory:
		if key == "enter" {
			rows := pipeline.HistoryRows(a.book.State())
			if c := a.cursors[tabHistory]; c < len(rows) {
				a.book.SetView(rows[c].Summary.Month)
				a.resetCursors()
				a.activeTab = tabOverview
			}
		}
		return a, nil
	}

	return a.updateEntryKey(key)
}

// updateEntryKey handles the editing keys of the ledger tabs.
func (a App) updateEntryKey(key string) (tea.Model, tea.Cmd) {
	v := a.book.View()
	switch key {
	case "a":
		return a.openForm(newAddForm(a.activeTab, v, a.now()))
	case "e", "enter":
		return a.openForm(a.editForm(v))
	case "i":
		if a.activeTab == tabCard {
			return a.openForm(newInstallmentForm(a.now()))
		}
	case " ", "space":
		if a.activeTab == tabFixed {
			list := v.State.FixedExpenses
			if c := a.cursors[tabFixed]; c < len(list) {
				id := list[c].ID
				return a.apply(func(s model.BudgetState, view month.Month) (model.BudgetState, error) {
					return budget.ToggleFixedExpense(s, view, id)
				}, "")
			}
		}
	case "d", "x", "delete":
		return a.openForm(a.deleteForm(v))
	case "R":
		if a.activeTab == tabFixed || a.activeTab == tabOverview {
			return a.openForm(newConfirmForm("Bu ayın tüm sabit giderleri ödenmedi olarak işaretlensin mi?", budget.ResetPaid, "Ödemeler sıfırlandı"))
		}
	}
	return a, nil
}

// apply runs a routed edit and saves the ledger.
func (a App) apply(m budget.Mutation, done string) (tea.Model, tea.Cmd) {
	if err := a.book.Apply(m); err != nil {
		a.setFlash(describeError(err), true)
		return a, nil
	}
	a.clampCursors()
	if done != "" {
		a.setFlash(done, false)
	}
	a.saving = true
	return a, a.persistCmd(pipeline.ReasonSave)
}

func describeError(err error) string {
	switch {
	case errors.Is(err, budget.ErrHistoryReadOnly):
		return "Geçmiş aylar salt okunur"
	case errors.Is(err, budget.ErrNotPlannable):
		return "Bu işlem yalnızca güncel ayda yapılabilir"
	case errors.Is(err, projection.ErrSynthesizedLine):
		return "Bu satır otomatik oluşturuldu; plan ayında değiştirilemez"
	}
	return err.Error()
}

func (a *App) setFlash(msg string, isErr bool) {
	a.flash = msg
	a.flashErr = isErr
	a.flashAt = a.now()
}

func (a App) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		a.moveCursor(-1)
	case tea.MouseButtonWheelDown:
		a.moveCursor(1)
	case tea.MouseButtonLeft:
		if msg.Action == tea.MouseActionPress && msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				a.activeTab = tab
			}
		}
	}
	return a, nil
}

// tabAtX returns the tab under column x, or -1. The hitboxes follow the
// widths RenderTabBar draws.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		w := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+w {
			return i
		}
		pos += w + 1
	}
	return -1
}

// listLen is the number of selectable rows on a tab.
func (a App) listLen(tab int) int {
	v := a.book.View()
	switch tab {
	case tabFixed:
		return len(v.State.FixedExpenses)
	case tabDaily:
		return len(v.State.DailyExpenses)
	case tabCard:
		return len(v.State.CCDebts)
	case tabHistory:
		return len(a.book.State().History)
	case tabSettings:
		return settingsFieldCount
	}
	return 0
}

func (a *App) moveCursor(d int) {
	n := a.listLen(a.activeTab)
	if n == 0 {
		a.cursors[a.activeTab] = 0
		return
	}
	a.cursors[a.activeTab] = max(0, min(a.cursors[a.activeTab]+d, n-1))
}

func (a *App) clampCursors() {
	for tab := range a.cursors {
		a.cursors[tab] = max(0, min(a.cursors[tab], a.listLen(tab)-1))
	}
}

// resetCursors is used when the viewed month changes; history and
// settings positions do not depend on it.
func (a *App) resetCursors() {
	a.cursors[tabFixed], a.cursors[tabDaily], a.cursors[tabCard] = 0, 0, 0
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return fmt.Sprintf("\n  Terminal too narrow (%d cols)\n\n  butce needs at least %d columns.\n", a.width, minTerminalWidth)
	}
	if a.setupForm != nil {
		return a.overlay(a.viewSetup())
	}
	if a.form != nil {
		return a.overlay(a.viewEntryForm())
	}
	if a.showHelp {
		return a.overlay(a.viewHelp())
	}
	return a.viewMain()
}

// overlay centers a card on the themed background.
func (a App) overlay(card string) string {
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(theme.Active.Background))
}

func (a App) viewHelp() string {
	t := theme.Active
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Planned).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	sections := []struct {
		title    string
		bindings [][2]string
	}{
		{"Gezinme", [][2]string{
			{"1-6", "Sekmeye git"},
			{"← → tab", "Önceki / sonraki sekme"},
			{"[ ]", "Önceki / sonraki ay"},
			{"t", "Güncel aya dön"},
			{"j k", "Listede gezin"},
			{"enter", "Geçmişte: ayı aç"},
		}},
		{"Düzenleme", [][2]string{
			{"a", "Ekle"},
			{"e", "Düzenle (Özet: gelirler)"},
			{"space", "Ödendi / ödenmedi"},
			{"d", "Sil"},
			{"i", "Taksit ekle (Kart)"},
			{"R", "Ödemeleri sıfırla"},
		}},
		{"", [][2]string{
			{"?", "Yardım"},
			{"q", "Çık"},
		}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Kısayollar"))
	b.WriteString("\n")
	for _, s := range sections {
		b.WriteString("\n")
		if s.title != "" {
			b.WriteString(sectionStyle.Render(s.title) + "\n")
		}
		for _, kb := range s.bindings {
			b.WriteString(keyStyle.Render(fmt.Sprintf("  %-9s", kb[0])) + descStyle.Render(kb[1]) + "\n")
		}
	}
	return components.FocusedCard("", strings.TrimRight(b.String(), "\n"), 44)
}

func (a App) viewMain() string {
	t := theme.Active
	w, h, cw := a.width, a.height, a.contentWidth()
	v := a.book.View()

	header := components.RenderTabBar(a.activeTab, w) + "\n" + a.viewMonthBar(v, w)
	statusBar := components.RenderStatusBar(w, a.hints(), a.flash, a.flashErr, a.saveState())

	contentH := max(h-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	var content string
	switch a.activeTab {
	case tabOverview:
		content = a.renderOverviewTab(v, cw)
	case tabFixed:
		content = a.renderFixedTab(v, cw, contentH)
	case tabDaily:
		content = a.renderDailyTab(v, cw, contentH)
	case tabCard:
		content = a.renderCardTab(v, cw, contentH)
	case tabHistory:
		content = a.renderHistoryTab(cw, contentH)
	case tabSettings:
		content = a.renderSettingsTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	return lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
}

// viewMonthBar shows the viewed month and how its numbers were derived.
func (a App) viewMonthBar(v projection.View, width int) string {
	t := theme.Active
	base := lipgloss.NewStyle().Background(t.Surface)
	monthStyle := base.Foreground(t.TextPrimary).Bold(true)
	hint := base.Foreground(t.TextDim)

	label, color := kindBadge(v.Kind)
	badge := lipgloss.NewStyle().Foreground(t.Background).Background(color).Bold(true).Padding(0, 1).Render(label)

	line := base.Render(" ") + hint.Render("[ ") + monthStyle.Render(cli.FormatMonth(v.Month)) + hint.Render(" ]") +
		base.Render("  ") + badge
	if v.Kind == projection.Projected {
		line += hint.Render(fmt.Sprintf("  +%d ay", v.Elapsed))
	}
	return base.Width(width).Render(line)
}

func kindBadge(k projection.Kind) (string, lipgloss.Color) {
	t := theme.Active
	switch k {
	case projection.Current:
		return "güncel ay", t.Accent
	case projection.History:
		return "geçmiş · salt okunur", t.Archived
	case projection.Projected:
		return "plan", t.Planned
	default:
		return "kayıt yok", t.TextDim
	}
}

func (a App) hints() string {
	switch a.activeTab {
	case tabOverview:
		return "[e]gelirler  [[ ]]ay  [t]bugün  [?]yardım  [q]çık"
	case tabFixed:
		return "[a]ekle  [e]düzenle  [space]ödendi  [d]sil  [R]sıfırla"
	case tabDaily:
		return "[a]ekle  [e]düzenle  [d]sil  [[ ]]ay"
	case tabCard:
		return "[a]harcama/ödeme  [i]taksit  [e]düzenle  [d]sil"
	case tabHistory:
		return "[j/k]seç  [enter]ayı aç"
	default:
		return "[j/k]seç  [enter]düzenle  [esc]vazgeç"
	}
}

func (a App) saveState() string {
	switch {
	case a.saving:
		return "kaydediliyor…"
	case a.saveErr != nil:
		return "kaydedilmedi"
	case !a.lastSave.IsZero():
		return "kaydedildi " + a.lastSave.Format("15:04:05")
	}
	return ""
}

// ─── Layout helpers ─────────────────────────────────────────────

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w in the background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = lipgloss.PlaceHorizontal(w, lipgloss.Left, line, lipgloss.WithWhitespaceBackground(bg))
	}
	return strings.Join(lines, "\n")
}

// shortMonth is the three-letter month name used on chart axes.
func shortMonth(m month.Month) string {
	name, _, _ := strings.Cut(cli.FormatMonth(m), " ")
	r := []rune(name)
	return string(r[:min(3, len(r))])
}
