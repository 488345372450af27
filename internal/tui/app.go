// Package tui is the terminal front end of the tutor.
package tui

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/windfall/gong_studio/internal/audio"
	"github.com/windfall/gong_studio/internal/chat"
	"github.com/windfall/gong_studio/internal/exercise"
	"github.com/windfall/gong_studio/internal/model"
	"github.com/windfall/gong_studio/internal/speech"
	"github.com/windfall/gong_studio/internal/transport"
)

// Options wires the UI to its collaborators. Player and Recognizer are
// optional; a nil value disables the matching control.
type Options struct {
	Session     *chat.Session
	Transport   transport.Transport
	Player      audio.Player
	Recognizer  speech.Recognizer
	MicLanguage string
	SampleRate  int
	Log         zerolog.Logger
}

// Messages produced by background commands.
type (
	analysisMsg struct {
		pending  chat.Pending
		analysis *model.GrammarAnalysis
		err      error
	}

	speechMsg struct {
		audio string
		err   error
	}

	playedMsg struct {
		seq int
		err error
	}

	transcriptMsg struct {
		text      string
		err       error
		dictation bool
	}
)

type Model struct {
	ctx        context.Context
	session    *chat.Session
	transport  transport.Transport
	player     audio.Player
	recognizer speech.Recognizer
	sampleRate int
	log        zerolog.Logger

	input    textinput.Model
	viewport viewport.Model
	width    int
	height   int

	micLang   string
	listening bool
	speaking  bool
	playSeq   int
	status    string
	quitting  bool
}

// New creates the UI model.
func New(ctx context.Context, opts Options) Model {
	ti := textinput.New()
	ti.Placeholder = "Input a sentence or ask a question..."
	ti.CharLimit = 1000
	ti.Prompt = "› "
	ti.Focus()

	micLang := opts.MicLanguage
	if micLang != speech.LangChinese {
		micLang = speech.LangEnglish
	}
	rate := opts.SampleRate
	if rate <= 0 {
		rate = audio.DefaultSampleRate
	}

	m := Model{
		ctx:        ctx,
		session:    opts.Session,
		transport:  opts.Transport,
		player:     opts.Player,
		recognizer: opts.Recognizer,
		sampleRate: rate,
		log:        opts.Log,
		input:      ti,
		viewport:   viewport.New(80, 18),
		width:      80,
		height:     24,
		micLang:    micLang,
	}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)

	case analysisMsg:
		reply, err := m.session.Finish(msg.pending, msg.analysis, msg.err)
		if msg.err != nil {
			m.log.Warn().Err(msg.err).Msg("Analysis failed")
		}
		m.refresh()
		if err != nil || reply.Analysis == nil {
			return m, nil
		}
		cmd := m.speak(chat.SpeechText(reply))
		return m, cmd

	case speechMsg:
		if msg.err != nil {
			m.log.Warn().Err(msg.err).Msg("Speech request failed")
			m.speaking = false
			return m, nil
		}
		if msg.audio == "" {
			m.speaking = false
			return m, nil
		}
		buf, err := audio.DecodeSpeech(msg.audio, m.sampleRate)
		if err != nil {
			m.log.Warn().Err(err).Msg("Failed to decode speech")
			m.speaking = false
			return m, nil
		}
		cmd := m.play(buf)
		return m, cmd

	case playedMsg:
		if msg.err != nil {
			m.log.Warn().Err(msg.err).Msg("Playback failed")
		}
		// a replaced playback reports after its successor has started
		if msg.seq == m.playSeq {
			m.speaking = false
		}
		return m, nil

	case transcriptMsg:
		m.listening = false
		if msg.err != nil {
			m.log.Warn().Err(msg.err).Msg("Speech recognition failed")
			return m, nil
		}
		if msg.text == "" {
			return m, nil
		}
		if msg.dictation {
			m.answer(msg.text)
			return m, nil
		}
		m.input.SetValue(speech.AppendTranscript(m.input.Value(), msg.text))
		m.input.CursorEnd()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m.quit()

	case "enter":
		line := m.input.Value()
		cmd := ParseCommand(line)
		if cmd.Kind == CmdNone {
			if m.session.Typing() || strings.TrimSpace(line) == "" {
				return m, nil
			}
			m.input.Reset()
			return m.send(line)
		}
		m.input.Reset()
		return m.runCommand(cmd)

	case "pgup", "pgdown", "up", "down":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) send(text string) (tea.Model, tea.Cmd) {
	pending, err := m.session.Begin(text)
	if err != nil {
		return m, nil
	}
	m.status = ""
	m.refresh()

	t, ctx := m.transport, m.ctx
	return m, func() tea.Msg {
		a, err := t.Analyze(ctx, pending.Text)
		return analysisMsg{pending: pending, analysis: a, err: err}
	}
}

func (m Model) runCommand(cmd Command) (tea.Model, tea.Cmd) {
	m.status = ""

	switch cmd.Kind {
	case CmdQuit:
		return m.quit()

	case CmdAnswer:
		m.answer(cmd.Arg)
		return m, nil

	case CmdLang:
		m.micLang = speech.ToggleLanguage(m.micLang)
		return m, nil

	case CmdMic:
		return m.toggleMic(m.micLang, false)

	case CmdDictate:
		if _, ok := m.session.OpenExercise(); !ok {
			m.status = "No open exercise to answer."
			return m, nil
		}
		return m.toggleMic(speech.LangEnglish, true)

	case CmdSpeak:
		for _, msg := range reverse(m.session.Messages()) {
			if msg.Role == model.RoleAssistant {
				speak := m.speak(chat.SpeechText(msg))
				return m, speak
			}
		}
		return m, nil

	default:
		m.status = "Unknown command " + cmd.Name
		return m, nil
	}
}

// answer submits to the newest unanswered exercise. Empty answers are
// ignored.
func (m *Model) answer(text string) {
	msg, ok := m.session.OpenExercise()
	if !ok {
		if _, found := m.session.LatestExercise(); found {
			m.status = "Every exercise is already answered."
		} else {
			m.status = "No exercise yet."
		}
		return
	}

	res, err := m.session.Answer(msg.ID, text)
	switch {
	case errors.Is(err, exercise.ErrEmptyAnswer):
		return
	case errors.Is(err, exercise.ErrAlreadySubmitted):
		m.status = "This exercise was already answered."
	case err != nil:
		m.status = err.Error()
	default:
		m.status = res.Feedback(msg.Analysis.Exercise)
	}
	m.refresh()
}

func (m Model) toggleMic(lang string, dictation bool) (tea.Model, tea.Cmd) {
	if m.recognizer == nil {
		return m, nil
	}
	if m.listening {
		m.recognizer.Stop()
		return m, nil
	}

	m.listening = true
	r, ctx := m.recognizer, m.ctx
	return m, func() tea.Msg {
		text, err := r.Listen(ctx, lang)
		return transcriptMsg{text: text, err: err, dictation: dictation}
	}
}

// speak fetches speech for text. Playback is skipped without a player.
func (m *Model) speak(text string) tea.Cmd {
	if m.player == nil || strings.TrimSpace(text) == "" {
		return nil
	}
	m.speaking = true
	t, ctx := m.transport, m.ctx
	return func() tea.Msg {
		a, err := t.Speech(ctx, text)
		return speechMsg{audio: a, err: err}
	}
}

func (m *Model) play(buf *audio.Buffer) tea.Cmd {
	m.playSeq++
	m.speaking = true
	p, ctx, seq := m.player, m.ctx, m.playSeq
	return func() tea.Msg {
		return playedMsg{seq: seq, err: p.Play(ctx, buf)}
	}
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.player != nil {
		m.player.Stop()
	}
	if m.recognizer != nil && m.listening {
		m.recognizer.Stop()
	}
	m.quitting = true
	return m, tea.Quit
}

func (m *Model) resize() {
	// header, status, input and help lines
	m.viewport.Width = m.width
	m.viewport.Height = max(m.height-4, 3)
	m.input.Width = max(m.width-4, 10)
}

// refresh re-renders the conversation into the viewport and keeps it
// scrolled to the newest message.
func (m *Model) refresh() {
	var b strings.Builder
	for i, msg := range m.session.Messages() {
		if i > 0 {
			b.WriteString("\n\n")
		}
		attempt, _ := m.session.Attempt(msg.ID)
		b.WriteString(renderMessage(msg, attempt, m.width))
	}
	if m.session.Typing() {
		b.WriteString("\n\n" + typingStyle.Render("● ● ● Mastering..."))
	}
	m.viewport.SetContent(b.String())
	m.viewport.GotoBottom()
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.renderHeader() + "\n")
	b.WriteString(m.viewport.View() + "\n")
	b.WriteString(statusStyle.Render(m.status) + "\n")
	if m.session.Typing() {
		b.WriteString(dimStyle.Render("› waiting for Prof. Gong...") + "\n")
	} else {
		b.WriteString(m.input.View() + "\n")
	}
	b.WriteString(helpStyle.Render(helpText))
	return b.String()
}

func (m Model) renderHeader() string {
	header := titleStyle.Render("Prof. Gong's Studio") + "  " +
		scoreStyle.Render("★ SCORE: "+strconv.Itoa(m.session.Score()))

	if m.recognizer != nil {
		label := "🎤 EN"
		if m.micLang == speech.LangChinese {
			label = "🎤 中文"
		}
		if m.listening {
			header += "  " + listeningStyle.Render(label+" listening")
		} else {
			header += "  " + micStyle.Render(label)
		}
	}
	if m.speaking {
		header += "  " + dimStyle.Render("♪ speaking")
	}
	return header
}

func reverse(msgs []model.Message) []model.Message {
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs
}
