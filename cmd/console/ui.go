package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/quizfighter/quiz-engine/pkg/games"
	"github.com/quizfighter/quiz-engine/pkg/quiz"
)

const PlaceHolderText = "Enter a quiz topic..."

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config     *ConsoleConfig
	client     *http.Client
	topicInput textinput.Model
	viewport   viewport.Model
	ready      bool
	width      int
	height     int
	err        error
	loading    bool

	device   games.Device
	result   *quiz.QuizResult
	selected int

	// Games browser state
	showGames bool
	games     []GameSummary

	statusMsg string

	// Progress bar state
	progressTick int
}

type quizResultMsg struct {
	result *quiz.QuizResult
	err    error
}

type gamesLoadedMsg struct {
	games []GameSummary
	err   error
}

type progressTickMsg struct{}

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	questionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	answerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("205")).
			Bold(true)

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")) // purple
)

func NewConsoleUI(cfg *ConsoleConfig, client *http.Client) ConsoleUI {
	ti := textinput.New()
	ti.Placeholder = PlaceHolderText
	ti.Focus()
	ti.Prompt = promptStyle.Render(":: ")
	ti.CharLimit = 200
	ti.Width = 50

	vp := viewport.New(60, 20)
	vp.MouseWheelEnabled = true

	return ConsoleUI{
		config:     cfg,
		client:     client,
		topicInput: ti,
		viewport:   vp,
		device:     games.DeviceWeb,
	}
}

func (m ConsoleUI) Init() tea.Cmd {
	return textinput.Blink
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width - 4
		m.viewport.Height = msg.Height - 8
		m.topicInput.Width = msg.Width - 10
		m.ready = true
		if m.result != nil {
			m.writeResultContent()
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab":
			if m.result == nil && !m.loading {
				if m.device == games.DeviceWeb {
					m.device = games.DeviceMobile
				} else {
					m.device = games.DeviceWeb
				}
			}
		case "enter":
			if m.result == nil && !m.loading && strings.TrimSpace(m.topicInput.Value()) != "" {
				m.loading = true
				m.err = nil
				m.progressTick = 0
				return m, tea.Batch(m.runQuiz(m.topicInput.Value()), progressTick())
			}
		case "up", "k":
			if m.result != nil && m.selected > 0 {
				m.selected--
				m.writeResultContent()
			}
		case "down", "j":
			if m.result != nil && m.selected < len(m.result.Questions)-1 {
				m.selected++
				m.writeResultContent()
			}
		case "c":
			if m.result != nil && !m.showGames {
				m.statusMsg = m.copySelectedCode()
				m.writeResultContent()
			}
		case "ctrl+g":
			if !m.loading {
				m.showGames = !m.showGames
				if m.showGames {
					return m, m.loadGames()
				}
				m.writeResultContent()
			}
		case "n":
			if m.result != nil && !m.showGames {
				m.result = nil
				m.selected = 0
				m.statusMsg = ""
				m.topicInput.SetValue("")
				m.topicInput.Focus()
				return m, textinput.Blink
			}
		}

	case quizResultMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			break
		}
		m.result = msg.result
		m.selected = 0
		m.statusMsg = ""
		m.topicInput.Blur()
		m.writeResultContent()

	case gamesLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.showGames = false
			break
		}
		m.games = msg.games
		m.writeGamesContent()

	case progressTickMsg:
		if m.loading {
			m.progressTick++
			cmds = append(cmds, progressTick())
		}
	}

	if m.result == nil && !m.loading && !m.showGames {
		var cmd tea.Cmd
		m.topicInput, cmd = m.topicInput.Update(msg)
		cmds = append(cmds, cmd)
	} else {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m ConsoleUI) View() string {
	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("QUIZ FIGHTER") + "\n\n")

	switch {
	case m.loading:
		b.WriteString(loadingStyle.Render(fmt.Sprintf("Generating quiz%s", strings.Repeat(".", m.progressTick%4+1))) + "\n")
		b.WriteString(promptStyle.Render("This fans out several generation calls and can take a minute.") + "\n")
	case m.showGames, m.result != nil:
		b.WriteString(m.viewport.View() + "\n")
		b.WriteString(m.helpLine())
	default:
		b.WriteString("Topic:\n")
		b.WriteString(m.topicInput.View() + "\n\n")
		b.WriteString(fmt.Sprintf("Device: %s (tab to switch)\n\n", answerStyle.Render(string(m.device))))
		b.WriteString(promptStyle.Render("enter: generate  ctrl+g: browse games  ctrl+c: quit") + "\n")
	}

	if m.err != nil {
		b.WriteString("\n" + errorStyle.Render(wordwrap.String(m.err.Error(), m.width-4)) + "\n")
	}
	if m.statusMsg != "" {
		b.WriteString("\n" + statusStyle.Render(m.statusMsg) + "\n")
	}
	return b.String()
}

func (m ConsoleUI) helpLine() string {
	if m.showGames {
		return promptStyle.Render("ctrl+g: back  ctrl+c: quit")
	}
	return promptStyle.Render("up/down: select question  c: copy game code  n: new quiz  ctrl+c: quit")
}

// writeResultContent renders the quiz result into the viewport with the
// selected question expanded.
func (m *ConsoleUI) writeResultContent() {
	if m.result == nil {
		return
	}
	width := m.viewport.Width - 2

	var content strings.Builder
	content.WriteString(questionStyle.Render("Theme: ") + wordwrap.String(m.result.Theme, width) + "\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", max(1, width))) + "\n\n")

	for i, q := range m.result.Questions {
		line := fmt.Sprintf("%d. %s", q.QuestionNumber, q.Question)
		if i == m.selected {
			content.WriteString(selectedStyle.Render(wordwrap.String(line, width)) + "\n")
			content.WriteString(m.renderQuestionDetail(&q, width))
		} else {
			content.WriteString(wordwrap.String(line, width) + "\n")
		}
		content.WriteString("\n")
	}

	if len(m.result.Diagnostics) > 0 {
		content.WriteString(separatorStyle.Render(strings.Repeat("─", max(1, width))) + "\n")
		content.WriteString(loadingStyle.Render("Diagnostics:") + "\n")
		for _, d := range m.result.Diagnostics {
			content.WriteString("• " + wordwrap.String(d, width-2) + "\n")
		}
	}

	m.viewport.SetContent(content.String())
}

func (m *ConsoleUI) renderQuestionDetail(q *quiz.Question, width int) string {
	var b strings.Builder
	b.WriteString(promptStyle.Render(fmt.Sprintf("   [%s, %s]", q.Type, q.Difficulty)) + "\n")
	for _, choice := range q.Choices {
		marker := "   ○ "
		if choice == q.CorrectAnswer {
			marker = "   ● "
		}
		b.WriteString(answerStyle.Render(marker) + wordwrap.String(choice, width-5) + "\n")
	}
	if len(q.Choices) == 0 {
		b.WriteString(answerStyle.Render("   Answer: "+q.CorrectAnswer) + "\n")
	}
	if q.Explanation != "" {
		b.WriteString(promptStyle.Render("   "+wordwrap.String(q.Explanation, width-3)) + "\n")
	}
	if q.GameID != nil {
		b.WriteString(questionStyle.Render("   Game: "+*q.GameID) + "\n")
	}
	return b.String()
}

func (m *ConsoleUI) writeGamesContent() {
	var content strings.Builder
	content.WriteString(titleStyle.Render("GAME TEMPLATES") + "\n\n")
	if len(m.games) == 0 {
		content.WriteString("No game templates in the store.\n")
	}
	for _, g := range m.games {
		content.WriteString(questionStyle.Render(g.ID) + "\n")
		content.WriteString(fmt.Sprintf("  %s (%s, %s)\n\n", g.Metadata.Name, g.Metadata.Device, g.Metadata.QuestionType))
	}
	m.viewport.SetContent(content.String())
}

// copySelectedCode puts the selected question's themed game code on the
// system clipboard so it can be pasted into a browser sandbox.
func (m *ConsoleUI) copySelectedCode() string {
	if m.selected >= len(m.result.Questions) {
		return ""
	}
	q := m.result.Questions[m.selected]
	if q.Code == "" {
		return "Selected question has no game code."
	}
	if err := clipboard.WriteAll(q.Code); err != nil {
		return "Clipboard unavailable: " + err.Error()
	}
	return fmt.Sprintf("Copied game code for question %d.", q.QuestionNumber)
}

func (m ConsoleUI) runQuiz(topic string) tea.Cmd {
	device := m.device
	return func() tea.Msg {
		result, err := requestQuiz(m.client, m.config.APIBaseURL, topic, device)
		return quizResultMsg{result: result, err: err}
	}
}

func (m ConsoleUI) loadGames() tea.Cmd {
	return func() tea.Msg {
		summaries, err := listGames(m.client, m.config.APIBaseURL)
		return gamesLoadedMsg{games: summaries, err: err}
	}
}

func progressTick() tea.Cmd {
	return tea.Tick(400*time.Millisecond, func(time.Time) tea.Msg {
		return progressTickMsg{}
	})
}
