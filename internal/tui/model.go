// Package tui is the interactive chat surface: a linear transcript over the
// indexed shop data with slash commands for ingest and store inspection.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"shoprag/internal/domain"
	"shoprag/internal/ingest"
	"shoprag/internal/service"
	"shoprag/internal/store"
	"shoprag/internal/upload"
)

const greeting = "Hello! I'm your shop assistant. Ask about products, policies, returns, or anything else in your catalog. Commands: /ingest, /recent, /status, /upload <path>."

const turnTimeout = 3 * time.Minute

// Model is the Bubble Tea model for the chat application.
type Model struct {
	retriever *service.Retriever
	answerer  *service.Answerer
	pipeline  *ingest.Pipeline
	indexer   *upload.Indexer
	store     store.ChunkStore
	topK      int

	input     textinput.Model
	viewport  viewport.Model
	messages  []domain.Message
	status    string
	busy      bool
	ingesting bool
	ready     bool
}

// New creates the chat model. The transcript starts with a fixed greeting and
// is never persisted beyond the session.
func New(retriever *service.Retriever, answerer *service.Answerer, pipeline *ingest.Pipeline, indexer *upload.Indexer, st store.ChunkStore, topK int) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	m := Model{
		retriever: retriever,
		answerer:  answerer,
		pipeline:  pipeline,
		indexer:   indexer,
		store:     st,
		topK:      topK,
		input:     ti,
		viewport:  vp,
		status:    "Ready.",
	}
	m.append(domain.RoleAssistant, greeting)
	return m
}

func (m Model) Init() tea.Cmd { return textinput.Blink }

type answerMsg struct{ text string }

type ingestDoneMsg struct {
	res ingest.Result
	err error
}

type recentMsg struct {
	chunks []domain.Chunk
	err    error
}

type storeStatusMsg struct {
	count   int64
	pingErr error
	last    *domain.IngestStatus
}

type uploadDoneMsg struct {
	name string
	n    int
	err  error
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, fh := transcriptStyle.GetFrameSize()
		_, ih := inputStyle.GetFrameSize()
		vh := msg.Height - fh - ih - 3 // header, input line, status line
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = maxInt(20, msg.Width-2)
		m.viewport.Height = vh
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		if msg.Type == tea.KeyEnter {
			return m.submit()
		}

	case answerMsg:
		m.busy = false
		m.status = "Ready."
		m.append(domain.RoleAssistant, msg.text)
		m.refresh()
		return m, nil

	case ingestDoneMsg:
		m.ingesting = false
		switch {
		case msg.err != nil:
			m.status = "Ingest failed: " + msg.err.Error()
		case msg.res.Documents == 0:
			m.status = "Ingest finished: no documents fetched, store untouched."
		default:
			m.status = fmt.Sprintf("Ingest finished: %d documents, %d chunks.", msg.res.Documents, msg.res.Chunks)
		}
		return m, nil

	case recentMsg:
		m.busy = false
		if msg.err != nil {
			m.status = "Failed to fetch recent chunks: " + msg.err.Error()
			return m, nil
		}
		m.status = "Ready."
		m.append(domain.RoleAssistant, renderRecent(msg.chunks))
		m.refresh()
		return m, nil

	case storeStatusMsg:
		m.busy = false
		m.status = "Ready."
		m.append(domain.RoleAssistant, renderStoreStatus(msg))
		m.refresh()
		return m, nil

	case uploadDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.status = "Upload failed: " + msg.err.Error()
			return m, nil
		}
		m.status = "Ready."
		if msg.n == 0 {
			m.append(domain.RoleAssistant, "No textual content found in "+msg.name+"; nothing indexed.")
		} else {
			m.append(domain.RoleAssistant, fmt.Sprintf("Indexed %d chunks from %s.", msg.n, msg.name))
		}
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	line := strings.TrimSpace(m.input.Value())
	if line == "" {
		return m, nil
	}
	if m.busy {
		m.status = "Still working on the previous request..."
		return m, nil
	}
	m.input.SetValue("")

	switch {
	case line == "/ingest":
		if m.ingesting {
			m.status = "Ingest already running."
			return m, nil
		}
		m.ingesting = true
		m.status = "Ingest running in background..."
		return m, m.runIngest()
	case line == "/recent":
		m.busy = true
		m.status = "Fetching recent chunks..."
		return m, m.fetchRecent()
	case line == "/status":
		m.busy = true
		m.status = "Checking store..."
		return m, m.fetchStoreStatus()
	case strings.HasPrefix(line, "/upload "):
		path := strings.TrimSpace(strings.TrimPrefix(line, "/upload "))
		m.busy = true
		m.status = "Indexing " + path + "..."
		return m, m.runUpload(path)
	case strings.HasPrefix(line, "/"):
		m.status = "Unknown command: " + line
		return m, nil
	}

	m.append(domain.RoleUser, line)
	m.busy = true
	m.status = "Searching and generating an answer..."
	m.refresh()
	return m, m.ask(line)
}

// ask runs one full turn: retrieve, then generate. Every turn depends only on
// the current question, never on prior transcript entries. All failures come
// back as an assistant message; nothing may crash the interactive process.
func (m Model) ask(question string) tea.Cmd {
	retriever, answerer, topK := m.retriever, m.answerer, m.topK
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), turnTimeout)
		defer cancel()
		hits, err := retriever.Retrieve(ctx, question, topK)
		if err != nil {
			return answerMsg{text: "Search failed: " + err.Error()}
		}
		if len(hits) == 0 {
			return answerMsg{text: service.NoResultsMessage}
		}
		text, err := answerer.Answer(ctx, question, hits)
		if err != nil {
			text = service.DegradedAnswer(hits)
		}
		return answerMsg{text: text}
	}
}

func (m Model) runIngest() tea.Cmd {
	pipeline := m.pipeline
	return func() tea.Msg {
		res, err := pipeline.Run(context.Background())
		return ingestDoneMsg{res: res, err: err}
	}
}

func (m Model) fetchRecent() tea.Cmd {
	st := m.store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		chunks, err := st.Recent(ctx, 5)
		return recentMsg{chunks: chunks, err: err}
	}
}

func (m Model) fetchStoreStatus() tea.Cmd {
	st := m.store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		out := storeStatusMsg{pingErr: st.Ping(ctx)}
		if out.pingErr == nil {
			out.count, _ = st.Count(ctx)
			out.last, _ = st.LastStatus(ctx)
		}
		return out
	}
}

func (m Model) runUpload(path string) tea.Cmd {
	indexer := m.indexer
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		n, err := indexer.IndexFile(ctx, path)
		return uploadDoneMsg{name: path, n: n, err: err}
	}
}

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := headerStyle.Render("Shop RAG Chat")
	transcript := transcriptStyle.Render(m.viewport.View())
	input := inputStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + transcript + "\n" + input + "\n" + status
}

func (m *Model) append(role, text string) {
	m.messages = append(m.messages, domain.Message{Role: role, Text: text, At: time.Now()})
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

func (m Model) renderTranscript() string {
	width := maxInt(20, m.viewport.Width-2)
	var b strings.Builder
	for i, msg := range m.messages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		label := assistantLabel
		if msg.Role == domain.RoleUser {
			label = userLabel
		}
		b.WriteString(label)
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Width(width).Render(msg.Text))
	}
	return b.String()
}

func renderRecent(chunks []domain.Chunk) string {
	if len(chunks) == 0 {
		return "The store has no chunks yet. Run /ingest first."
	}
	var b strings.Builder
	b.WriteString("Most recent chunks:\n")
	for i, ch := range chunks {
		title := ch.Title
		if title == "" {
			title = "(no title)"
		}
		fmt.Fprintf(&b, "\n%d. %s\n%s\n", i+1, title, service.Excerpt(ch.Text, 200))
	}
	return b.String()
}

func renderStoreStatus(msg storeStatusMsg) string {
	if msg.pingErr != nil {
		return "Cannot reach the store: " + msg.pingErr.Error()
	}
	out := fmt.Sprintf("Store is reachable. Chunks indexed: %d.", msg.count)
	if msg.last != nil {
		out += fmt.Sprintf("\nLast ingest: %s (documents %d, chunks %d, started %s)",
			msg.last.State, msg.last.Documents, msg.last.Chunks,
			msg.last.StartedAt.Format(time.RFC3339))
		if msg.last.Error != "" {
			out += "\nError: " + msg.last.Error
		}
	}
	return out
}

var (
	headerStyle     = lipgloss.NewStyle().Bold(true)
	transcriptStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	statusStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	userLabel       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11")).Render("You")
	assistantLabel  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14")).Render("Assistant")
)

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
