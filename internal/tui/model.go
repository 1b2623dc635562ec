// Package tui provides the interactive chat interface over the document
// service.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"docchat/internal/service"
)

// ChatPort is the TUI-facing subset of the document service.
type ChatPort interface {
	Ask(ctx context.Context, conversationID, documentID, message string) (*service.Answer, error)
}

var (
	headerStyle    = lipgloss.NewStyle().Bold(true)
	summaryStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	userStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	sourceStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
	chatBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

type answerMsg struct {
	answer *service.Answer
	err    error
}

// Model is the Bubble Tea model for the chat application.
type Model struct {
	service        ChatPort
	input          textinput.Model
	viewport       viewport.Model
	transcript     []string
	documentID     string
	conversationID string
	summary        string
	status         string
	waiting        bool
	ready          bool
}

// New creates a chat model scoped to documentID (empty spans all
// documents). The summary line is shown under the header.
func New(svc ChatPort, documentID, summary string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	return Model{
		service:    svc,
		input:      ti,
		viewport:   viewport.New(0, 0),
		documentID: documentID,
		summary:    summary,
		status:     "Ready.",
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, window and answer events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, ch := chatBoxStyle.GetFrameSize()
		_, ih := inputBoxStyle.GetFrameSize()
		reserved := 2 + 1 + ih + 1 // header + summary, status, input frame, spacer
		vh := msg.Height - reserved - ch
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = maxInt(20, msg.Width-4)
		m.viewport.Height = vh
		m.viewport.SetContent(m.renderTranscript())
		return m, nil

	case answerMsg:
		m.waiting = false
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
			return m, nil
		}
		m.conversationID = msg.answer.ConversationID
		m.transcript = append(m.transcript, assistantStyle.Render(msg.answer.Text))
		if n := len(msg.answer.Sources); n > 0 {
			m.transcript = append(m.transcript, sourceStyle.Render(fmt.Sprintf("(%d source chunks)", n)))
		}
		m.status = "Ready."
		m.viewport.SetContent(m.renderTranscript())
		m.viewport.GotoBottom()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		if msg.String() == "enter" && !m.waiting {
			q := strings.TrimSpace(m.input.Value())
			if q == "" {
				return m, nil
			}
			m.input.Reset()
			m.waiting = true
			m.status = "Thinking..."
			m.transcript = append(m.transcript, userStyle.Render("you: ")+q)
			m.viewport.SetContent(m.renderTranscript())
			m.viewport.GotoBottom()
			return m, m.ask(q)
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the chat layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := headerStyle.Render("docchat")
	summary := summaryStyle.Render(m.summary)
	chat := chatBoxStyle.Render(m.viewport.View())
	input := inputBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + summary + "\n" + chat + "\n" + input + "\n" + status
}

func (m Model) ask(question string) tea.Cmd {
	convID := m.conversationID
	docID := m.documentID
	return func() tea.Msg {
		answer, err := m.service.Ask(context.Background(), convID, docID, question)
		return answerMsg{answer: answer, err: err}
	}
}

func (m Model) renderTranscript() string {
	if len(m.transcript) == 0 {
		return "Ask something about the ingested documents."
	}
	return strings.Join(m.transcript, "\n\n")
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
