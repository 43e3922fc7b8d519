// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package quoteform implements the quotation request overlay: customer
// fields, a dynamic item list, and submission to the backend's PDF
// generator.
package quoteform

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/morganforge/sensa/internal/api"
	"github.com/morganforge/sensa/internal/model"
	"github.com/morganforge/sensa/internal/quote"
	"github.com/morganforge/sensa/internal/storage"
	"github.com/morganforge/sensa/internal/ui/styles"
)

// successHold is how long the success state stays on screen before the
// form resets and closes.
const successHold = 2 * time.Second

// generateTimeout bounds the PDF generation request.
const generateTimeout = 60 * time.Second

// ============================================================================
// Messages
// ============================================================================

// CloseMsg tells the root model to dismiss the overlay.
type CloseMsg struct{}

// generatedMsg is the async outcome of a generation request.
type generatedMsg struct {
	path string
	req  model.QuoteRequest
	err  error
}

// successDoneMsg fires when the success state has been shown long enough.
type successDoneMsg struct{}

// ============================================================================
// Model
// ============================================================================

type state int

const (
	stateEditing state = iota
	stateSubmitting
	stateSuccess
)

// customer field indexes; item inputs follow after these.
const (
	fieldName = iota
	fieldCompany
	fieldEmail
	fieldPhone
	fieldAddress
	customerFieldCount
)

// inputsPerItem is name, description, quantity.
const inputsPerItem = 3

// Model is the quote form. Item rows live in the builder, which enforces
// the one-item minimum; the text inputs mirror it.
type Model struct {
	theme   *styles.Theme
	client  *api.Client
	store   *storage.QuoteStore
	builder *quote.Builder

	outputDir string

	customer []textinput.Model
	items    []textinput.Model
	focus    int

	state     state
	errText   string
	savedPath string

	width  int
	height int
}

// New creates the quote form.
func New(theme *styles.Theme, client *api.Client, store *storage.QuoteStore, outputDir string) Model {
	m := Model{
		theme:     theme,
		client:    client,
		store:     store,
		builder:   quote.NewBuilder(),
		outputDir: outputDir,
	}

	placeholders := []string{"Customer name", "Company", "Email", "Phone (optional)", "Address (optional)"}
	m.customer = make([]textinput.Model, customerFieldCount)
	for i, ph := range placeholders {
		in := textinput.New()
		in.Placeholder = ph
		in.CharLimit = 200
		m.customer[i] = in
	}

	m.rebuildItemInputs()
	m.setFocus(0)
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// rebuildItemInputs regenerates the item text inputs from the builder rows,
// preserving their contents.
func (m *Model) rebuildItemInputs() {
	rows := m.builder.Items()
	inputs := make([]textinput.Model, 0, len(rows)*inputsPerItem)
	for _, row := range rows {
		name := textinput.New()
		name.Placeholder = "Item name"
		name.CharLimit = 200
		name.SetValue(row.Name)

		desc := textinput.New()
		desc.Placeholder = "Description (optional)"
		desc.CharLimit = 500
		desc.SetValue(row.Description)

		qty := textinput.New()
		qty.Placeholder = "Qty"
		qty.CharLimit = 6
		qty.SetValue(row.Quantity)

		inputs = append(inputs, name, desc, qty)
	}
	m.items = inputs
}

// syncBuilder copies the current input values back into the builder.
func (m *Model) syncBuilder() {
	m.builder.CustomerName = m.customer[fieldName].Value()
	m.builder.Company = m.customer[fieldCompany].Value()
	m.builder.Email = m.customer[fieldEmail].Value()
	m.builder.Phone = m.customer[fieldPhone].Value()
	m.builder.Address = m.customer[fieldAddress].Value()

	for i := 0; i < m.builder.ItemCount(); i++ {
		base := i * inputsPerItem
		m.builder.SetItem(i, quote.Item{
			Name:        m.items[base].Value(),
			Description: m.items[base+1].Value(),
			Quantity:    m.items[base+2].Value(),
		})
	}
}

func (m *Model) inputAt(idx int) *textinput.Model {
	if idx < customerFieldCount {
		return &m.customer[idx]
	}
	return &m.items[idx-customerFieldCount]
}

func (m *Model) inputCount() int {
	return customerFieldCount + len(m.items)
}

func (m *Model) setFocus(idx int) {
	total := m.inputCount()
	if idx < 0 {
		idx = total - 1
	}
	if idx >= total {
		idx = 0
	}
	m.focus = idx
	for i := 0; i < total; i++ {
		if i == idx {
			m.inputAt(i).Focus()
		} else {
			m.inputAt(i).Blur()
		}
	}
}

// focusedItem returns the item row index under focus, or -1 when a
// customer field is focused.
func (m *Model) focusedItem() int {
	if m.focus < customerFieldCount {
		return -1
	}
	return (m.focus - customerFieldCount) / inputsPerItem
}

// addItem appends a row and moves focus to its name field.
func (m *Model) addItem() {
	m.syncBuilder()
	m.builder.AddItem()
	m.rebuildItemInputs()
	m.setFocus(customerFieldCount + (m.builder.ItemCount()-1)*inputsPerItem)
}

// removeItem deletes the focused row. With one row left this is a no-op.
func (m *Model) removeItem() {
	row := m.focusedItem()
	if row < 0 {
		return
	}
	m.syncBuilder()
	m.builder.RemoveItem(row)
	m.rebuildItemInputs()
	if m.focus >= m.inputCount() {
		m.setFocus(m.inputCount() - 1)
	} else {
		m.setFocus(m.focus)
	}
}

// submit validates and starts the generation request.
func (m *Model) submit() tea.Cmd {
	if m.state != stateEditing {
		return nil
	}

	m.syncBuilder()
	if err := m.builder.Validate(); err != nil {
		m.errText = err.Error()
		return nil
	}

	m.errText = ""
	m.state = stateSubmitting
	req := m.builder.Build()

	client := m.client
	store := m.store
	outputDir := m.outputDir
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), generateTimeout)
		defer cancel()

		pdf, err := client.GenerateQuotation(ctx, req)
		if err != nil {
			return generatedMsg{req: req, err: err}
		}

		path, err := quote.SavePDF(outputDir, req.QuotationID, pdf)
		if err != nil {
			return generatedMsg{req: req, err: err}
		}

		// History bookkeeping is best effort; the PDF is already saved.
		if store != nil {
			_ = store.Record(req, path)
		}
		return generatedMsg{req: req, path: path}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case generatedMsg:
		if msg.err != nil {
			// The form stays populated so nothing is lost.
			m.state = stateEditing
			m.errText = api.UserMessage(msg.err)
			return m, nil
		}
		m.state = stateSuccess
		m.savedPath = msg.path
		return m, tea.Tick(successHold, func(time.Time) tea.Msg {
			return successDoneMsg{}
		})

	case successDoneMsg:
		m.builder.Reset()
		m.rebuildItemInputs()
		for i := range m.customer {
			m.customer[i].Reset()
		}
		m.state = stateEditing
		m.savedPath = ""
		m.setFocus(0)
		return m, func() tea.Msg { return CloseMsg{} }

	case tea.KeyMsg:
		if m.state == stateSuccess {
			// Success state ignores input until it closes itself.
			return m, nil
		}
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.state == stateEditing {
				return m, func() tea.Msg { return CloseMsg{} }
			}
			return m, nil
		case "tab", "enter", "down":
			m.setFocus(m.focus + 1)
			return m, nil
		case "shift+tab", "up":
			m.setFocus(m.focus - 1)
			return m, nil
		case "ctrl+a":
			m.addItem()
			return m, nil
		case "ctrl+r":
			m.removeItem()
			return m, nil
		case "ctrl+g":
			return m, m.submit()
		}
	}

	var cmd tea.Cmd
	in := m.inputAt(m.focus)
	*in, cmd = in.Update(msg)
	return m, cmd
}

// View renders the overlay.
func (m Model) View() string {
	if m.state == stateSuccess {
		body := m.theme.FormSuccess.Render("✓ Quotation generated") +
			"\n\n" + m.theme.FormHint.Render("Saved to "+m.savedPath)
		return m.place(m.theme.FormBox.Render(body))
	}

	var b []string
	b = append(b, m.theme.FormTitle.Render("Request a Quotation"))

	if m.errText != "" {
		b = append(b, m.theme.FormError.Render(m.errText))
	}

	labels := []string{"Customer name", "Company", "Email", "Phone", "Address"}
	for i, in := range m.customer {
		label := m.theme.FormLabel
		if m.focus == i {
			label = m.theme.FormLabelFocus
		}
		b = append(b, label.Render(labels[i])+"\n"+in.View())
	}

	b = append(b, m.theme.FormLabel.Render("Items"))
	for row := 0; row < m.builder.ItemCount(); row++ {
		base := row * inputsPerItem
		line := lipgloss.JoinHorizontal(lipgloss.Top,
			m.items[base].View(), "  ",
			m.items[base+1].View(), "  ",
			m.items[base+2].View(),
		)
		b = append(b, line)
	}

	hint := "ctrl+a add item · ctrl+r remove item · ctrl+g generate · esc cancel"
	if m.state == stateSubmitting {
		hint = "Generating quotation..."
	}
	b = append(b, m.theme.FormHint.Render(hint))

	return m.place(m.theme.FormBox.Render(lipgloss.JoinVertical(lipgloss.Left, b...)))
}

func (m Model) place(box string) string {
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}
	return box
}
