package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/g-99215544-beep/MAKLUMAT-STAFF-SRIAMAN/internal/logging"
	"github.com/g-99215544-beep/MAKLUMAT-STAFF-SRIAMAN/internal/schema"
	"github.com/g-99215544-beep/MAKLUMAT-STAFF-SRIAMAN/internal/session"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
)

type screen int

const (
	screenLogin screen = iota
	screenForm
)

type modalKind int

const (
	modalNone modalKind = iota
	modalConfig
	modalConfirmLogout
	modalConfirmDiscard
	modalConfirmDisconnect
	modalConfirmQuit
)

type msgKind int

const (
	msgInfo msgKind = iota
	msgOK
	msgWarn
	msgError
)

type loadDoneMsg struct{ res session.LoadResult }

type saveDoneMsg struct {
	req session.SaveRequest
	err error
}

type noticeDoneMsg struct{ seq int }

type appModel struct {
	ctx       context.Context
	ctl       *session.Controller
	log       logrus.FieldLogger
	exportDir string

	width  int
	height int

	screen       screen
	modal        modalKind
	confirmFocus confirmModalFocus

	login textinput.Model
	url   textinput.Model

	// inputs holds every form field in section order; focus indexes it and only ever
	// points at an unlocked field.
	inputs []fieldInput
	focus  int
	form   viewport.Model

	keys keyMap
	help help.Model

	loading    bool
	discarding bool
	initial    *session.LoadRequest

	status     string
	statusKind msgKind
	noticeSeq  int
}

func newAppModel(ctx context.Context, opts Options) appModel {
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}

	m := appModel{
		ctx:       ctx,
		ctl:       opts.Controller,
		log:       log,
		exportDir: opts.ExportDir,
		width:     80,
		height:    24,
		keys:      defaultKeyMap(),
		help:      help.New(),
		form:      viewport.New(80, 12),
	}

	m.login = textinput.New()
	m.login.Prompt = ""
	m.login.Placeholder = "e.g. 840110-07-5583"
	m.login.CharLimit = 20
	m.login.Focus()

	m.url = textinput.New()
	m.url.Prompt = ""
	m.url.Placeholder = "https://script.google.com/macros/s/.../exec"

	for _, s := range schema.Sections() {
		for _, f := range schema.SectionFields(s) {
			m.inputs = append(m.inputs, newFieldInput(f))
		}
	}

	if len(opts.Warnings) > 0 {
		m.setStatus(fmt.Sprintf("Built-in data loaded with %d warning(s)", len(opts.Warnings)), msgWarn)
	}
	if m.ctl.Endpoint() != "" {
		req := m.ctl.BeginLoad()
		m.initial = &req
		m.loading = true
	}
	m.resize()
	return m
}

func (m appModel) Init() tea.Cmd {
	if m.initial == nil {
		return textinput.Blink
	}
	return tea.Batch(textinput.Blink, m.fetchCmd(*m.initial))
}

func (m *appModel) setStatus(s string, kind msgKind) {
	m.status = s
	m.statusKind = kind
}

func (m *appModel) fetchCmd(req session.LoadRequest) tea.Cmd {
	ctl, ctx := m.ctl, m.ctx
	return func() tea.Msg {
		return loadDoneMsg{res: ctl.Fetch(ctx, req)}
	}
}

func (m *appModel) startReload() tea.Cmd {
	m.loading = true
	m.setStatus("Loading…", msgInfo)
	return m.fetchCmd(m.ctl.BeginLoad())
}

func (m *appModel) startDiscard() tea.Cmd {
	m.loading = true
	m.discarding = true
	m.setStatus("Reloading record…", msgInfo)
	return m.fetchCmd(m.ctl.BeginDiscard())
}

func (m *appModel) startSave() tea.Cmd {
	req, err := m.ctl.BeginSave()
	if err != nil {
		m.setStatus(err.Error(), msgWarn)
		return nil
	}
	m.setStatus("Saving…", msgInfo)
	ctl, ctx := m.ctl, m.ctx
	return func() tea.Msg {
		return saveDoneMsg{req: req, err: ctl.Push(ctx, req)}
	}
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case loadDoneMsg:
		m.applyLoad(msg.res)
		return m, nil

	case saveDoneMsg:
		return m, m.finishSave(msg)

	case noticeDoneMsg:
		if msg.seq == m.noticeSeq {
			m.ctl.ClearSaveNotice()
			if m.statusKind == msgOK {
				m.setStatus("", msgInfo)
			}
		}
		return m, nil

	case tea.KeyMsg:
		if m.modal != modalNone {
			return m.updateModal(msg)
		}
		if m.screen == screenForm {
			return m.updateForm(msg)
		}
		return m.updateLogin(msg)
	}

	// Cursor blink and other ticks go to whichever input has focus.
	var cmd tea.Cmd
	switch {
	case m.modal == modalConfig:
		m.url, cmd = m.url.Update(msg)
	case m.screen == screenForm && len(m.inputs) > 0:
		cmd = m.inputs[m.focus].Update(msg)
		m.refreshForm()
	default:
		m.login, cmd = m.login.Update(msg)
	}
	return m, cmd
}

func (m *appModel) applyLoad(res session.LoadResult) {
	rep := m.ctl.ApplyLoad(res)
	if rep.Stale {
		return
	}
	m.loading = false
	discarded := m.discarding
	m.discarding = false

	switch {
	case rep.Failed():
		m.setStatus("Could not reach the spreadsheet; keeping the current data ("+rep.Err.Error()+")", msgError)
	case rep.Source == session.SourceRemote:
		m.setStatus(fmt.Sprintf("Loaded %d records from the spreadsheet", rep.Records), msgOK)
	default:
		m.setStatus(fmt.Sprintf("Using built-in data (%d records)", rep.Records), msgWarn)
	}

	switch {
	case rep.LoggedOut:
		m.toLogin()
		m.setStatus("Your record is no longer on the roster; logged out", msgWarn)
	case discarded && m.ctl.LoggedIn():
		m.syncInputs()
	}
}

func (m *appModel) finishSave(msg saveDoneMsg) tea.Cmd {
	outcome, err := m.ctl.FinishSave(msg.req, msg.err)
	if err != nil {
		if session.IsConnectivity(err) {
			m.setStatus("Save failed, the spreadsheet is unreachable: "+err.Error(), msgError)
		} else {
			m.setStatus("Save failed: "+err.Error(), msgError)
		}
		return nil
	}
	if outcome == session.SavedLocally {
		m.setStatus("Saved in this session only, not sent to the spreadsheet. Download the CSV (ctrl+e) to keep it.", msgWarn)
		return nil
	}
	m.setStatus("Saved to the spreadsheet", msgOK)
	m.noticeSeq++
	seq := m.noticeSeq
	return tea.Tick(session.SavedNoticeFor, func(time.Time) tea.Msg { return noticeDoneMsg{seq: seq} })
}

func (m *appModel) toLogin() {
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	m.screen = screenLogin
	m.login.Reset()
	m.login.Focus()
}

func (m *appModel) openForm() tea.Cmd {
	m.screen = screenForm
	m.login.Blur()
	m.syncInputs()
	m.focus = m.nextEditable(-1, 1)
	m.form.GotoTop()
	cmd := m.inputs[m.focus].Focus()
	m.refreshForm()
	return cmd
}

// syncInputs copies the open record into the editors without marking anything dirty.
func (m *appModel) syncInputs() {
	rec, ok := m.ctl.Active()
	if !ok {
		return
	}
	for i := range m.inputs {
		m.inputs[i].SetValue(rec.Get(m.inputs[i].field))
	}
	m.refreshForm()
}

// nextEditable returns the next unlocked input after from in direction dir, wrapping.
func (m *appModel) nextEditable(from, dir int) int {
	n := len(m.inputs)
	i := from
	for k := 0; k < n; k++ {
		i = (i + dir + n) % n
		if !m.inputs[i].field.Locked() {
			return i
		}
	}
	return 0
}

func (m *appModel) moveFocus(dir int) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = m.nextEditable(m.focus, dir)
	cmd := m.inputs[m.focus].Focus()
	m.refreshForm()
	return cmd
}

func (m *appModel) focusedField() schema.Field {
	if m.screen != screenForm || len(m.inputs) == 0 {
		return schema.Field(-1)
	}
	return m.inputs[m.focus].field
}

func (m *appModel) resize() {
	w := m.width
	if w < 40 {
		w = 40
	}
	m.help.Width = w
	m.login.Width = modalBodyWidth(w) - 3
	m.url.Width = modalBodyWidth(w) - 3
	for i := range m.inputs {
		m.inputs[i].SetWidth(m.fieldWidth())
	}
	m.form.Width = w
	m.form.Height = m.bodyHeight()
	m.refreshForm()
}

func (m *appModel) fieldWidth() int {
	w := m.width - 4
	if w > 96 {
		w = 96
	}
	if w < 20 {
		w = 20
	}
	return w
}

// bodyHeight leaves room for the header, the offline banner, the status line and help.
func (m *appModel) bodyHeight() int {
	h := m.height - 5
	if h < 4 {
		h = 4
	}
	return h
}

func trimStatus(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\n", " "))
}
