package model

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/palemoky/riddle-lobby/internal/apperrors"
	"github.com/palemoky/riddle-lobby/internal/client"
	"github.com/palemoky/riddle-lobby/internal/config"
	"github.com/palemoky/riddle-lobby/internal/metrics"
	"github.com/palemoky/riddle-lobby/internal/protocol"
	"github.com/palemoky/riddle-lobby/internal/session"
	"github.com/palemoky/riddle-lobby/internal/sound"
	"github.com/palemoky/riddle-lobby/internal/ui/view"
)

const maxWidth = 80

// Options configure a Model.
type Options struct {
	Dial       Dialer
	CreateFlow config.CreateFlow
	PlayerName string // prefilled into name fields
	ChatLimit  int
	ChatLines  int
	Sound      sound.Player
	Logger     *zap.SugaredLogger
	Metrics    *metrics.Metrics
}

// Model is the riddle lobby bubbletea model. It turns keys into
// intents and server frames into events for the session controller.
type Model struct {
	dial Dialer
	conn Conn

	store  *client.Store
	binder *view.Binder
	ctrl   *session.Controller

	createFlow  config.CreateFlow
	defaultName string
	sound       sound.Player
	log         *zap.SugaredLogger

	connected bool

	form      *form
	formPhase client.Phase
	line      textinput.Model
	mode      inputMode
	cursor    int
	chatOpen  bool

	width  int
	height int
}

// New creates the model. Nothing is dialed until Init.
func New(opts Options) *Model {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}

	store := client.NewStore(opts.ChatLimit)
	binder := view.NewBinder(store, view.Options{ChatLines: opts.ChatLines})

	line := textinput.New()
	line.CharLimit = 200
	line.Width = 40

	m := &Model{
		dial:        opts.Dial,
		conn:        opts.Dial(),
		store:       store,
		binder:      binder,
		createFlow:  opts.CreateFlow,
		defaultName: opts.PlayerName,
		sound:       opts.Sound,
		log:         opts.Logger.With("component", "ui"),
		formPhase:   -1,
		line:        line,
		chatOpen:    true,
	}
	m.ctrl = session.New(store, liveConn{m}, binder, session.Options{
		CreateFlow: opts.CreateFlow,
		Logger:     opts.Logger.With("component", "session"),
		Metrics:    opts.Metrics,
	})
	m.syncPhase()
	return m
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.connect(), textinput.Blink)
}

// connect dials the current conn.
func (m *Model) connect() tea.Cmd {
	conn := m.conn
	return func() tea.Msg {
		if err := conn.Connect(context.Background()); err != nil {
			return ConnectionErrorMsg{Err: err}
		}
		return ConnectedMsg{}
	}
}

// listen waits for the next server frame.
func (m *Model) listen() tea.Cmd {
	conn := m.conn
	return func() tea.Msg {
		msg, err := conn.Receive()
		if err != nil {
			return DisconnectedMsg{Err: err}
		}
		return ServerMessage{Msg: msg}
	}
}

// redial swaps in a fresh connection after the user left Disconnected.
func (m *Model) redial() tea.Cmd {
	m.conn.Close()
	m.conn = m.dial()
	return m.connect()
}

// liveConn sends through whichever connection is current.
type liveConn struct {
	m *Model
}

func (c liveConn) Send(msg *protocol.Message) error {
	return c.m.conn.Send(msg)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.binder.SetWidth(min(msg.Width-4, maxWidth))

	case tea.KeyMsg:
		if cmd := m.handleKey(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}

	case ConnectedMsg:
		m.connected = true
		m.log.Infow("connected")
		cmds = append(cmds, m.listen())

	case ConnectionErrorMsg:
		m.log.Errorw("connect failed", "error", msg.Err)
		m.connected = false
		m.ctrl.HandleDisconnect()

	case DisconnectedMsg:
		m.log.Warnw("disconnected", "error", msg.Err)
		m.connected = false
		m.ctrl.HandleDisconnect()

	case ServerMessage:
		m.handleServerMessage(msg.Msg)
		if m.connected {
			cmds = append(cmds, m.listen())
		}
	}

	m.syncPhase()
	return m, tea.Batch(cmds...)
}

func (m *Model) handleServerMessage(msg *protocol.Message) {
	m.ctrl.HandleServerEvent(msg)
	m.playCue(msg.Type)
}

func (m *Model) playCue(t protocol.MessageType) {
	if m.sound == nil {
		return
	}
	if t == protocol.MsgResult {
		if r := m.store.Game.Result; r != nil {
			m.sound.Play(sound.ResultCue(r.Correct))
		}
		return
	}
	if cue, ok := sound.CueFor(t); ok {
		m.sound.Play(cue)
	}
}

// intent forwards in to the controller. Validation failures already show
// up as the notice; keys pressed in the wrong phase are ignored quietly.
func (m *Model) intent(in session.Intent) error {
	err := m.ctrl.HandleIntent(in)
	if err != nil && !errors.Is(err, apperrors.ErrWrongPhase) {
		m.log.Debugw("intent failed", "intent", in.Kind(), "error", err)
	}
	return err
}

// syncPhase rebuilds phase-specific inputs after a phase change.
func (m *Model) syncPhase() {
	phase := m.store.Phase
	if phase == m.formPhase {
		return
	}
	m.formPhase = phase
	m.form = newForm(phase, m.createFlow, m.defaultName)
	m.cursor = 0

	m.line.Reset()
	switch phase {
	case client.PhaseInLobby:
		m.mode = modeChat
		m.line.Focus()
	case client.PhaseInGame:
		m.mode = modeAnswer
		m.line.Focus()
	default:
		m.line.Blur()
	}
	m.applyMode()
}

func (m *Model) applyMode() {
	if m.mode == modeAnswer {
		m.line.Placeholder = "输入答案，Enter 提交"
	} else {
		m.line.Placeholder = "输入消息，Enter 发送"
	}
}

// toggleChat collapses or restores the chat panel.
func (m *Model) toggleChat() {
	m.chatOpen = !m.chatOpen
	if m.chatOpen {
		m.binder.Mount(view.ViewChat)
	} else {
		m.binder.Unmount(view.ViewChat)
	}
}

// Store exposes the session store for read-only use.
func (m *Model) Store() *client.Store {
	return m.store
}

// Binder exposes the view binder.
func (m *Model) Binder() *view.Binder {
	return m.binder
}
