package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/butce/internal/budget"
	"github.com/theirongolddev/butce/internal/cli"
	"github.com/theirongolddev/butce/internal/model"
	"github.com/theirongolddev/butce/internal/month"
	"github.com/theirongolddev/butce/internal/projection"
	"github.com/theirongolddev/butce/internal/tui/components"
)

type entryKind int

const (
	entryFixed entryKind = iota
	entryDaily
	entryCard
	entryInstallment
	entryIncome
	entryConfirm
)

// entryValues are the fields huh writes into. They live behind a pointer
// so the form keeps writing to the same values as the App is copied.
type entryValues struct {
	Description string
	Amount      string
	Date        string
	Count       string
	MealCard    bool
	Income      bool
	Payment     bool

	CashIncome string
	YKIncome   string
	Rollover   string
	YKRollover string

	Confirmed bool
}

// entryForm is an open add, edit or confirm dialog.
type entryForm struct {
	kind  entryKind
	title string
	vals  *entryValues

	// Entry being edited; zero when adding.
	fixed model.FixedExpense
	daily model.DailyExpense
	debt  model.CCDebt

	live    bool           // income form: also edit the carried balances
	confirm budget.Mutation // confirm form: runs when accepted
	done    string          // flash after success
}

func (e *entryForm) editing() bool {
	return e.fixed.ID != "" || e.daily.ID != "" || e.debt.ID != ""
}

func newAddForm(tab int, v projection.View, now time.Time) *entryForm {
	switch tab {
	case tabFixed:
		return &entryForm{kind: entryFixed, title: "Sabit gider ekle", vals: &entryValues{}, done: "Sabit gider eklendi"}
	case tabDaily:
		return &entryForm{kind: entryDaily, title: "Günlük harcama ekle", vals: &entryValues{Date: defaultDate(v.Month, now)}, done: "Harcama eklendi"}
	case tabCard:
		return &entryForm{kind: entryCard, title: "Kart harcaması / ödemesi", vals: &entryValues{}, done: "Ekstreye eklendi"}
	case tabOverview:
		return newIncomeForm(v)
	}
	return nil
}

// defaultDate is today inside the live month, otherwise the month's first day.
func defaultDate(m month.Month, now time.Time) string {
	if month.Of(now) == m {
		return model.NewDay(now).String()
	}
	return model.NewDay(m.Start()).String()
}

func newInstallmentForm(now time.Time) *entryForm {
	return &entryForm{
		kind:  entryInstallment,
		title: "Taksitli alışveriş",
		vals:  &entryValues{Count: "3", Date: model.NewDay(now).String()},
		done:  "Taksit planı eklendi",
	}
}

func newIncomeForm(v projection.View) *entryForm {
	s := v.State
	return &entryForm{
		kind:  entryIncome,
		title: "Gelirler · " + cli.FormatMonth(v.Month),
		live:  v.Kind == projection.Current,
		vals: &entryValues{
			CashIncome: s.Income.String(),
			YKIncome:   s.YKIncome.String(),
			Rollover:   s.Rollover.String(),
			YKRollover: s.YKRollover.String(),
		},
		done: "Gelirler güncellendi",
	}
}

func newConfirmForm(prompt string, m budget.Mutation, done string) *entryForm {
	return &entryForm{kind: entryConfirm, title: prompt, vals: &entryValues{}, confirm: m, done: done}
}

// editForm opens the selected row of the active tab for editing.
func (a App) editForm(v projection.View) *entryForm {
	c := a.cursors[a.activeTab]
	switch a.activeTab {
	case tabOverview:
		return newIncomeForm(v)
	case tabFixed:
		if c < len(v.State.FixedExpenses) {
			f := v.State.FixedExpenses[c]
			return &entryForm{kind: entryFixed, title: "Sabit gideri düzenle", fixed: f, done: "Güncellendi",
				vals: &entryValues{Description: f.Title, Amount: f.Amount.Abs().String()}}
		}
	case tabDaily:
		if c < len(v.State.DailyExpenses) {
			d := v.State.DailyExpenses[c]
			return &entryForm{kind: entryDaily, title: "Harcamayı düzenle", daily: d, done: "Güncellendi",
				vals: &entryValues{
					Description: d.Description,
					Amount:      d.Amount.Abs().String(),
					Date:        d.Date.String(),
					MealCard:    d.Type == model.MealCard,
					Income:      d.Amount.IsPositive(),
				}}
		}
	case tabCard:
		if c < len(v.State.CCDebts) {
			d := v.State.CCDebts[c]
			return &entryForm{kind: entryCard, title: "Ekstre satırını düzenle", debt: d, done: "Güncellendi",
				vals: &entryValues{Description: d.Description, Amount: d.Amount.Abs().String(), Payment: d.Amount.IsPositive()}}
		}
	}
	return nil
}

// deleteForm asks before removing the selected row of the active tab.
func (a App) deleteForm(v projection.View) *entryForm {
	c := a.cursors[a.activeTab]
	switch a.activeTab {
	case tabFixed:
		if c < len(v.State.FixedExpenses) {
			f := v.State.FixedExpenses[c]
			return newConfirmForm(fmt.Sprintf("%q silinsin mi?", f.Title), func(s model.BudgetState, view month.Month) (model.BudgetState, error) {
				return budget.DeleteFixedExpense(s, view, f.ID)
			}, "Silindi")
		}
	case tabDaily:
		if c < len(v.State.DailyExpenses) {
			d := v.State.DailyExpenses[c]
			return newConfirmForm(fmt.Sprintf("%q silinsin mi?", d.Description), func(s model.BudgetState, view month.Month) (model.BudgetState, error) {
				return budget.DeleteDailyExpense(s, view, d.ID)
			}, "Silindi")
		}
	case tabCard:
		if c < len(v.State.CCDebts) {
			d := v.State.CCDebts[c]
			if d.InstallmentID != "" {
				return newConfirmForm(fmt.Sprintf("%q taksit planı iptal edilsin mi?", d.Description), func(s model.BudgetState, view month.Month) (model.BudgetState, error) {
					return budget.DeleteInstallment(s, view, d.InstallmentID)
				}, "Taksit planı iptal edildi")
			}
			return newConfirmForm(fmt.Sprintf("%q silinsin mi?", d.Description), func(s model.BudgetState, view month.Month) (model.BudgetState, error) {
				return budget.DeleteCCDebt(s, view, d.ID)
			}, "Silindi")
		}
	}
	return nil
}

// formKeyMap adds esc as a way out of every form.
func formKeyMap() *huh.KeyMap {
	km := huh.NewDefaultKeyMap()
	km.Quit = key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "vazgeç"))
	return km
}

func validAmount(s string) error {
	d, err := cli.ParseAmount(s)
	if err != nil {
		return errors.New("geçerli bir tutar girin")
	}
	if d.IsNegative() {
		return errors.New("tutarı işaretsiz girin")
	}
	return nil
}

func validDay(s string) error {
	if _, err := model.ParseDay(s); err != nil || strings.TrimSpace(s) == "" {
		return errors.New("YYYY-AA-GG biçiminde bir tarih girin")
	}
	return nil
}

func validCount(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return errors.New("en az 1 taksit")
	}
	return nil
}

func required(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("boş bırakılamaz")
	}
	return nil
}

// huhForm builds the huh form for e.
func (e *entryForm) huhForm() *huh.Form {
	v := e.vals
	desc := huh.NewInput().Title("Açıklama").Value(&v.Description).Validate(required)
	amount := huh.NewInput().Title("Tutar (₺)").Value(&v.Amount).Validate(validAmount)

	var fields []huh.Field
	switch e.kind {
	case entryFixed:
		fields = []huh.Field{desc, amount}
	case entryDaily:
		fields = []huh.Field{
			desc, amount,
			huh.NewInput().Title("Tarih").Value(&v.Date).Validate(validDay),
			huh.NewConfirm().Title("Yemek kartından mı?").Affirmative("Evet").Negative("Hayır").Value(&v.MealCard),
			huh.NewConfirm().Title("Gelir mi?").Affirmative("Evet").Negative("Hayır").Value(&v.Income),
		}
	case entryCard:
		fields = []huh.Field{
			huh.NewSelect[bool]().Title("Tür").Options(
				huh.NewOption("Harcama", false),
				huh.NewOption("Ödeme", true),
			).Value(&v.Payment),
			desc, amount,
		}
	case entryInstallment:
		fields = []huh.Field{
			desc,
			huh.NewInput().Title("Toplam tutar (₺)").Value(&v.Amount).Validate(validAmount),
			huh.NewInput().Title("Taksit sayısı").Value(&v.Count).Validate(validCount),
		}
	case entryIncome:
		fields = []huh.Field{
			huh.NewInput().Title("Gelir (Nakit)").Value(&v.CashIncome).Validate(validAmount),
			huh.NewInput().Title("Yemek Kartı Geliri").Value(&v.YKIncome).Validate(validAmount),
		}
		if e.live {
			fields = append(fields,
				huh.NewInput().Title("Devreden (Nakit)").Value(&v.Rollover).Validate(validSigned),
				huh.NewInput().Title("Yemek Kartı Devreden").Value(&v.YKRollover).Validate(validSigned),
			)
		}
	case entryConfirm:
		fields = []huh.Field{
			huh.NewConfirm().Title(e.title).Affirmative("Evet").Negative("Hayır").Value(&v.Confirmed),
		}
	}

	return huh.NewForm(huh.NewGroup(fields...)).
		WithKeyMap(formKeyMap()).
		WithShowHelp(true).
		WithWidth(56)
}

func validSigned(s string) error {
	if _, err := cli.ParseAmount(s); err != nil {
		return errors.New("geçerli bir tutar girin")
	}
	return nil
}

// mutation turns the submitted values into a routed edit. A nil mutation
// with no error means there is nothing to do.
func (e *entryForm) mutation(now time.Time) (budget.Mutation, error) {
	v := e.vals
	if e.kind == entryConfirm {
		if !v.Confirmed {
			return nil, nil
		}
		return e.confirm, nil
	}
	if e.kind == entryIncome {
		return e.incomeMutation()
	}

	amount, err := cli.ParseAmount(v.Amount)
	if err != nil {
		return nil, err
	}
	desc := strings.TrimSpace(v.Description)

	switch e.kind {
	case entryFixed:
		f := e.fixed
		f.Title, f.Amount = desc, amount
		if e.editing() {
			return func(s model.BudgetState, view month.Month) (model.BudgetState, error) {
				return budget.UpdateFixedExpense(s, view, f)
			}, nil
		}
		return func(s model.BudgetState, view month.Month) (model.BudgetState, error) {
			return budget.AddFixedExpense(s, view, f)
		}, nil

	case entryDaily:
		day, err := model.ParseDay(v.Date)
		if err != nil {
			return nil, err
		}
		d := e.daily
		d.Description, d.Date = desc, day
		d.Amount = model.Outflow(amount)
		if v.Income {
			d.Amount = model.Inflow(amount)
		}
		d.Type = model.Cash
		if v.MealCard {
			d.Type = model.MealCard
		}
		if e.editing() {
			return func(s model.BudgetState, view month.Month) (model.BudgetState, error) {
				return budget.UpdateDailyExpense(s, view, d)
			}, nil
		}
		return func(s model.BudgetState, view month.Month) (model.BudgetState, error) {
			return budget.AddDailyExpense(s, view, d)
		}, nil

	case entryCard:
		d := e.debt
		d.Description = desc
		d.Amount = model.Outflow(amount)
		if v.Payment {
			d.Amount = model.Inflow(amount)
		}
		if e.editing() {
			return func(s model.BudgetState, view month.Month) (model.BudgetState, error) {
				return budget.UpdateCCDebt(s, view, d)
			}, nil
		}
		return func(s model.BudgetState, view month.Month) (model.BudgetState, error) {
			return budget.AddCCDebt(s, view, d)
		}, nil

	case entryInstallment:
		count, err := strconv.Atoi(strings.TrimSpace(v.Count))
		if err != nil || count < 1 {
			return nil, errors.New("invalid installment count")
		}
		in := model.Installment{
			Description:      desc,
			TotalAmount:      amount,
			InstallmentCount: count,
			StartDate:        model.NewDay(now),
		}
		return func(s model.BudgetState, view month.Month) (model.BudgetState, error) {
			return budget.AddInstallment(s, view, in)
		}, nil
	}
	return nil, nil
}

// incomeMutation sets only the figures that changed, so an untouched
// planned month gains no override.
func (e *entryForm) incomeMutation() (budget.Mutation, error) {
	type field struct {
		raw string
		set func(model.BudgetState, month.Month, decimal.Decimal) (model.BudgetState, error)
		cur func(model.BudgetState) decimal.Decimal
	}
	fields := []field{
		{e.vals.CashIncome, budget.SetIncome, func(s model.BudgetState) decimal.Decimal { return s.Income }},
		{e.vals.YKIncome, budget.SetYKIncome, func(s model.BudgetState) decimal.Decimal { return s.YKIncome }},
	}
	if e.live {
		fields = append(fields,
			field{e.vals.Rollover, budget.SetRollover, func(s model.BudgetState) decimal.Decimal { return s.Rollover }},
			field{e.vals.YKRollover, budget.SetYKRollover, func(s model.BudgetState) decimal.Decimal { return s.YKRollover }},
		)
	}

	values := make([]decimal.Decimal, len(fields))
	for i, f := range fields {
		d, err := cli.ParseAmount(f.raw)
		if err != nil {
			return nil, err
		}
		values[i] = d
	}

	return func(s model.BudgetState, view month.Month) (model.BudgetState, error) {
		current := budget.Project(s, view).State
		for i, f := range fields {
			if values[i].Equal(f.cur(current)) {
				continue
			}
			next, err := f.set(s, view, values[i])
			if err != nil {
				return s, err
			}
			s = next
		}
		return s, nil
	}, nil
}

func (a App) openForm(e *entryForm) (tea.Model, tea.Cmd) {
	if e == nil {
		return a, nil
	}
	a.entry = e
	a.form = e.huhForm()
	if a.width > 0 {
		a.form = a.form.WithWidth(min(a.width-8, 64))
	}
	return a, a.form.Init()
}

func (a App) updateEntryForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.form = f
	}

	switch a.form.State {
	case huh.StateAborted:
		a.form, a.entry = nil, nil
		return a, nil
	case huh.StateCompleted:
		e := a.entry
		a.form, a.entry = nil, nil
		m, err := e.mutation(a.now())
		if err != nil {
			a.setFlash(err.Error(), true)
			return a, nil
		}
		if m == nil {
			return a, nil
		}
		return a.apply(m, e.done)
	}
	return a, cmd
}

func (a App) viewEntryForm() string {
	title := ""
	if a.entry.kind != entryConfirm {
		title = a.entry.title
	}
	return components.FocusedCard(title, a.form.View(), min(a.width-4, 68))
}
