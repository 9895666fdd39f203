package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/iRKakashi/dragon-lance-web/pkg/actor"
	"github.com/iRKakashi/dragon-lance-web/pkg/conditionals"
	"github.com/iRKakashi/dragon-lance-web/pkg/engine"
	"github.com/iRKakashi/dragon-lance-web/pkg/signal"
	"github.com/iRKakashi/dragon-lance-web/pkg/storage"
	"github.com/iRKakashi/dragon-lance-web/pkg/story"
)

const (
	GameTitle       = "DRAGONLANCE"
	PlaceHolderName = "Your character's name..."
)

// GameUI is the BubbleTea model that runs the console game.
// https://github.com/charmbracelet/bubbletea
type GameUI struct {
	ctx     context.Context
	eng     *engine.Engine
	signals <-chan signal.Signal

	view         engine.View
	storyView    viewport.Model
	sheetView    viewport.Model
	nameInput    textinput.Model
	ready        bool
	width        int
	height       int
	cursor       int
	status       string
	statusIsErr  bool
	navigating   bool
	navigation   uint64
	progressTick int

	// Ability assignment cursor
	abilityCursor int
	valueCursor   int

	// Quit confirmation state
	showQuitModal bool
}

type signalMsg struct {
	signal signal.Signal
	ok     bool
}

type advanceMsg struct {
	navigation uint64
}

type progressTickMsg struct{}

type actionMsg struct {
	status string
	err    error
}

var (
	storyPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	sheetPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	narratorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	fragmentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // purple
			Italic(true)

	fragmentLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("212")).
				Bold(true)

	choiceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	selectedChoiceStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("205")).
				Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)

	modalItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	modalSelectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("205")).
				Bold(true)
)

var separatorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("240")) // dark grey

func NewGameUI(ctx context.Context, eng *engine.Engine, signals <-chan signal.Signal) GameUI {
	ti := textinput.New()
	ti.Placeholder = PlaceHolderName
	ti.Prompt = promptStyle.Render(":: ")
	ti.CharLimit = 40
	ti.Width = 40

	storyVp := viewport.New(50, 20)
	storyVp.MouseWheelEnabled = true

	sheetVp := viewport.New(20, 20)

	return GameUI{
		ctx:       ctx,
		eng:       eng,
		signals:   signals,
		view:      eng.View(),
		storyView: storyVp,
		sheetView: sheetVp,
		nameInput: ti,
	}
}

// waitForSignal blocks until the engine emits something the UI cares about.
func waitForSignal(ch <-chan signal.Signal) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-ch
		return signalMsg{signal: s, ok: ok}
	}
}

func (m GameUI) Init() tea.Cmd {
	return waitForSignal(m.signals)
}

func (m GameUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		svCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.storyView, vpCmd = m.storyView.Update(msg)
		m.sheetView, svCmd = m.sheetView.Update(msg)
		return m, tea.Batch(vpCmd, svCmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		storyWidth := int(float64(m.width)*0.75) - 4
		sheetWidth := m.width - storyWidth - 6

		m.storyView.Width = storyWidth - 2
		m.storyView.Height = m.height - 7
		m.sheetView.Width = sheetWidth - 2
		m.sheetView.Height = m.height - 4
		m.ready = true
		m.refresh()
		return m, nil

	case signalMsg:
		if !msg.ok {
			return m, nil
		}
		switch msg.signal.Kind {
		case signal.VolumeChanged:
			if v, ok := msg.signal.Payload.(float64); ok {
				m.setStatus(fmt.Sprintf("Volume %d%%", int(v*100+0.5)), false)
			}
		case signal.MusicEnabledChanged:
			if on, ok := msg.signal.Payload.(bool); ok {
				m.setStatus(musicStatus(on), false)
			}
		case signal.Error:
			if text, ok := msg.signal.Payload.(string); ok {
				m.setStatus(text, true)
			}
		}
		m.refresh()
		return m, waitForSignal(m.signals)

	case advanceMsg:
		if !m.navigating || msg.navigation != m.navigation {
			// Restarted, loaded or chose again while waiting.
			return m, nil
		}
		m.navigating = false
		if _, err := m.eng.AdvanceIf(m.ctx, msg.navigation); err != nil {
			m.setStatus(err.Error(), true)
		}
		m.cursor = 0
		m.refresh()
		m.storyView.GotoTop()
		return m, nil

	case progressTickMsg:
		if m.navigating {
			m.progressTick++
			m.refresh()
			return m, progressTick()
		}
		return m, nil

	case actionMsg:
		if msg.err != nil {
			m.setStatus(msg.err.Error(), true)
		} else if msg.status != "" {
			m.setStatus(msg.status, false)
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if !m.nameInput.Focused() || msg.String() == "ctrl+c" {
				m.showQuitModal = true
				return m, nil
			}
		case "ctrl+n":
			m.navigating = false
			m.cursor = 0
			return m, m.act(func() (string, error) {
				return "New adventure", m.eng.Restart(m.ctx)
			})
		case "ctrl+s":
			return m, m.saveGame()
		case "ctrl+o":
			m.navigating = false
			return m, m.loadGame()
		case "ctrl+y":
			if err := clipboard.WriteAll(plainText(m.view)); err != nil {
				m.setStatus("Copy failed: "+err.Error(), true)
			} else {
				m.setStatus("Copied passage to clipboard", false)
			}
			m.refresh()
			return m, nil
		}

		switch m.view.Modal {
		case engine.ModalSkillCheck:
			return m.updateSkillCheck(msg)
		case engine.ModalBuilder:
			return m.updateBuilder(msg)
		}
		return m.updateChoices(msg)
	}

	m.storyView, vpCmd = m.storyView.Update(msg)
	m.sheetView, svCmd = m.sheetView.Update(msg)
	if m.nameInput.Focused() {
		m.nameInput, tiCmd = m.nameInput.Update(msg)
	}
	return m, tea.Batch(tiCmd, vpCmd, svCmd)
}

func (m GameUI) updateChoices(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key := msg.String(); key {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.view.Choices)-1 {
			m.cursor++
		}
	case "enter":
		return m.choose(m.cursor)
	case "m":
		return m, m.act(func() (string, error) {
			on, err := m.eng.ToggleMusic()
			return musicStatus(on), err
		})
	case "+", "=":
		return m, m.adjustVolume(engine.VolumeStep)
	case "-", "_":
		return m, m.adjustVolume(-engine.VolumeStep)
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.storyView, cmd = m.storyView.Update(msg)
		return m, cmd
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			return m.choose(int(key[0] - '1'))
		}
	}
	m.refresh()
	return m, nil
}

func (m GameUI) choose(index int) (tea.Model, tea.Cmd) {
	if m.navigating || index >= len(m.view.Choices) {
		return m, nil
	}
	m.cursor = index
	eff, err := m.eng.Choose(m.ctx, index)
	if err != nil {
		m.setStatus(err.Error(), true)
		m.refresh()
		return m, nil
	}
	m.status = ""
	m.refresh()
	if eff.Kind != engine.EffectNavigate || eff.Held {
		if eff.Held {
			m.nameInput.SetValue("")
			m.nameInput.Focus()
			return m, textinput.Blink
		}
		return m, nil
	}

	m.navigating = true
	m.navigation = eff.Navigation
	m.progressTick = 0
	delay := m.eng.NavigationDelay()
	return m, tea.Batch(
		tea.Tick(delay, func(time.Time) tea.Msg { return advanceMsg{navigation: eff.Navigation} }),
		progressTick(),
	)
}

func (m GameUI) updateSkillCheck(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "r", " ":
		if _, err := m.eng.RollSkillCheck(); err != nil {
			m.setStatus(err.Error(), true)
		}
	case "enter":
		if m.view.SkillCheck == nil || m.view.SkillCheck.Result == nil {
			if _, err := m.eng.RollSkillCheck(); err != nil {
				m.setStatus(err.Error(), true)
			}
			break
		}
		if err := m.eng.ContinueSkillCheck(m.ctx); err != nil {
			m.setStatus(err.Error(), true)
		}
		m.cursor = 0
	case "esc":
		if err := m.eng.CancelSkillCheck(); err != nil {
			m.setStatus(err.Error(), true)
		}
	}
	m.refresh()
	return m, nil
}

func (m GameUI) updateBuilder(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	b := m.view.Builder
	if b == nil {
		return m, nil
	}
	if msg.String() == "esc" {
		if err := m.eng.CancelBuilder(); err != nil {
			m.setStatus(err.Error(), true)
		}
		m.nameInput.Blur()
		m.refresh()
		return m, nil
	}

	if b.Stage == actor.StageNameAndRaceConfirm.String() {
		if msg.Type == tea.KeyEnter {
			if err := m.eng.SetName(m.nameInput.Value()); err != nil {
				m.setStatus(err.Error(), true)
			} else if err := m.eng.ConfirmIdentity(); err != nil {
				m.setStatus(err.Error(), true)
			} else {
				m.nameInput.Blur()
				m.status = ""
			}
			m.refresh()
			return m, nil
		}
		var cmd tea.Cmd
		m.nameInput, cmd = m.nameInput.Update(msg)
		m.refresh()
		return m, cmd
	}

	switch msg.String() {
	case "up", "k":
		if m.abilityCursor > 0 {
			m.abilityCursor--
		}
	case "down", "j":
		if m.abilityCursor < len(actor.Abilities)-1 {
			m.abilityCursor++
		}
	case "left", "h":
		if m.valueCursor > 0 {
			m.valueCursor--
		}
	case "right", "l":
		if m.valueCursor < len(actor.StandardArray)-1 {
			m.valueCursor++
		}
	case "enter", " ":
		a := actor.Abilities[m.abilityCursor]
		if err := m.eng.AssignAbility(a, actor.StandardArray[m.valueCursor]); err != nil {
			m.setStatus(err.Error(), true)
		}
	case "backspace", "delete":
		if err := m.eng.UnassignAbility(actor.Abilities[m.abilityCursor]); err != nil {
			m.setStatus(err.Error(), true)
		}
	case "c":
		pc, err := m.eng.ConfirmAbilities(m.ctx)
		if err != nil {
			m.setStatus(err.Error(), true)
		} else {
			m.setStatus(fmt.Sprintf("Welcome, %s", pc.DisplayName()), false)
			m.cursor = 0
		}
	}
	m.refresh()
	return m, nil
}

func (m GameUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case signalMsg:
		if msg.ok {
			return m, waitForSignal(m.signals)
		}

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEnter:
			return m, tea.Quit
		case tea.KeyEsc:
			m.showQuitModal = false
			return m, nil
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				return m, nil
			}
		}
	}

	return m, nil
}

// act runs an engine call off the update loop and reports its outcome.
func (m GameUI) act(fn func() (string, error)) tea.Cmd {
	return func() tea.Msg {
		status, err := fn()
		return actionMsg{status: status, err: err}
	}
}

func (m GameUI) adjustVolume(delta float64) tea.Cmd {
	return m.act(func() (string, error) {
		_, err := m.eng.AdjustVolume(delta)
		return "", err
	})
}

func (m GameUI) saveGame() tea.Cmd {
	return m.act(func() (string, error) {
		doc, err := m.eng.Save(m.ctx, storage.DefaultSlot)
		if err != nil {
			return "", err
		}
		return "Saved at " + doc.Timestamp.Local().Format(time.Kitchen), nil
	})
}

func (m GameUI) loadGame() tea.Cmd {
	return m.act(func() (string, error) {
		if err := m.eng.Load(m.ctx, storage.DefaultSlot); err != nil {
			return "", err
		}
		return "Game loaded", nil
	})
}

func (m *GameUI) setStatus(s string, isErr bool) {
	m.status = s
	m.statusIsErr = isErr
}

// refresh pulls the current view from the engine and rewrites both panels.
func (m *GameUI) refresh() {
	m.view = m.eng.View()
	if m.cursor >= len(m.view.Choices) {
		m.cursor = 0
	}
	if !m.ready {
		return
	}
	m.storyView.SetContent(m.writeStory(m.storyView.Width - 6))
	m.sheetView.SetContent(writeSheet(m.view))
}

func (m GameUI) writeStory(width int) string {
	if width < 20 {
		width = 20
	}
	v := m.view

	var content strings.Builder
	content.WriteString(titleStyle.Render(GameTitle) + "\n\n")
	if v.Error != "" {
		content.WriteString(errorStyle.Render(wordwrap.String("Error: "+v.Error, width)) + "\n\n")
		content.WriteString(promptStyle.Render("Ctrl+N to start over, Ctrl+O to load a save") + "\n")
		return content.String()
	}
	if v.Title != "" {
		content.WriteString(titleStyle.Render(v.Title) + "\n")
	}
	content.WriteString(separatorStyle.Render(strings.Repeat("─", width)) + "\n\n")

	content.WriteString(narratorStyle.Render(wordwrap.String(v.Narrative, width)) + "\n\n")
	for _, f := range v.Fragments {
		content.WriteString(fragmentLabelStyle.Render(fragmentLabel(f)) + "\n")
		content.WriteString(fragmentStyle.Render(wordwrap.String(f.Text, width)) + "\n\n")
	}
	if v.Continuation != "" {
		content.WriteString(narratorStyle.Render(wordwrap.String(v.Continuation, width)) + "\n\n")
	}

	if v.IsEnding {
		content.WriteString(titleStyle.Render("THE END") + "\n")
		content.WriteString(promptStyle.Render("Ctrl+N to begin a new adventure") + "\n\n")
	}
	for i, c := range v.Choices {
		content.WriteString(renderChoice(i, c, i == m.cursor, v.InputLocked) + "\n")
	}

	if m.navigating {
		content.WriteString("\n" + m.renderProgressBar(width) + "\n")
	}
	if m.status != "" {
		style := loadingStyle
		if m.statusIsErr {
			style = errorStyle
		}
		content.WriteString("\n" + style.Render(m.status) + "\n")
	}
	return content.String()
}

func renderChoice(i int, c engine.ChoiceView, selected, locked bool) string {
	label := fmt.Sprintf("%d. %s", i+1, c.Text)
	if c.SkillCheck != nil {
		label += fmt.Sprintf(" [%s DC %d]", c.SkillCheck.Skill, c.SkillCheck.DC)
	}
	switch {
	case locked:
		return promptStyle.Render("  " + label)
	case selected:
		return selectedChoiceStyle.Render("▶ " + label)
	}
	return choiceStyle.Render("  " + label)
}

func writeSheet(v engine.View) string {
	c := v.Character
	var content strings.Builder
	content.WriteString(titleStyle.Render("CHARACTER") + "\n\n")

	content.WriteString("Name:\n" + c.Name + "\n\n")
	if c.Species != "" {
		content.WriteString("Species:\n" + c.Species + "\n\n")
	}
	if c.Class != "" {
		class := c.Class
		if c.ClassIcon != "" {
			class = c.ClassIcon + " " + class
		}
		content.WriteString("Class:\n" + class + "\n\n")
	}
	if c.Subclass != "" {
		content.WriteString("Subclass:\n" + c.Subclass + "\n")
		if c.SubclassDescription != "" {
			content.WriteString(promptStyle.Render(c.SubclassDescription) + "\n")
		}
		content.WriteString("\n")
	}
	if c.Background != "" {
		content.WriteString("Background:\n" + c.Background + "\n\n")
	}
	if c.ShowProgress {
		content.WriteString(fmt.Sprintf("Level %d  XP %d\n\n", c.Level, c.XP))
	}
	if c.Sheet != nil {
		content.WriteString(fmt.Sprintf("HP %d  AC %d\n", c.Sheet.HP, c.Sheet.AC))
		for _, a := range actor.Abilities {
			content.WriteString(fmt.Sprintf("%s %2d (%+d)\n", a.Short(), c.Sheet.Stats.Get(a), c.Sheet.Modifiers.Get(a)))
		}
		content.WriteString("\n")
	}
	if len(c.Inventory) > 0 {
		content.WriteString("Inventory:\n")
		for _, item := range c.Inventory {
			content.WriteString("• " + item + "\n")
		}
		content.WriteString("\n")
	}

	content.WriteString("Music:\n" + musicStatus(v.MusicEnabled) + "\n\n")

	content.WriteString("Commands:\n")
	content.WriteString("• ↑/↓ Enter: Choose\n")
	content.WriteString("• M: Music  +/-: Volume\n")
	content.WriteString("• Ctrl+S/O: Save/Load\n")
	content.WriteString("• Ctrl+N: Restart\n")
	content.WriteString("• Ctrl+Y: Copy\n")
	content.WriteString("• Ctrl+C: Quit\n")
	return content.String()
}

func musicStatus(on bool) string {
	if on {
		return "Music on"
	}
	return "Music off"
}

var axisIcons = map[story.Axis]string{
	story.AxisSpecies:    "🏛️",
	story.AxisSubclass:   "✨",
	story.AxisBackground: "📜",
}

// fragmentLabel heads a conditional fragment, e.g. "🏛️ Species: Elf".
func fragmentLabel(f conditionals.Fragment) string {
	icon := axisIcons[f.Axis]
	if f.Axis == story.AxisClass {
		icon = actor.ClassIcon(f.Value)
	}
	return fmt.Sprintf("%s %s: %s", icon, f.Label(), f.Value)
}

// plainText is the current passage without styling, for the clipboard.
func plainText(v engine.View) string {
	parts := []string{v.Title, v.Narrative}
	for _, f := range v.Fragments {
		parts = append(parts, f.Text)
	}
	parts = append(parts, v.Continuation)

	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, "\n\n")
}

func (m GameUI) renderSkillCheckModal() string {
	sc := m.view.SkillCheck
	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Skill Check"))
	content.WriteString("\n\n")
	if sc == nil {
		return modalStyle.Width(50).Render(content.String())
	}
	content.WriteString(fmt.Sprintf("%s (%s) against DC %d\n\n", sc.Skill, sc.Ability.Short(), sc.DC))
	if sc.Result == nil {
		content.WriteString(promptStyle.Render("Press R to roll, Esc to back out"))
	} else {
		r := sc.Result
		content.WriteString(fmt.Sprintf("d20 %d %+d = %d\n\n", r.Roll, r.Modifier, r.Total))
		if r.Success {
			content.WriteString(narratorStyle.Render("Success!"))
		} else {
			content.WriteString(errorStyle.Render("Failure."))
		}
		content.WriteString("\n\n")
		content.WriteString(promptStyle.Render("Press Enter to continue"))
	}
	return modalStyle.Width(50).Render(content.String())
}

func (m GameUI) renderBuilderModal() string {
	b := m.view.Builder
	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Create Your Character"))
	content.WriteString("\n\n")
	if b == nil {
		return modalStyle.Width(60).Render(content.String())
	}
	content.WriteString("Race: " + b.Race + "\n\n")

	if b.Stage == actor.StageNameAndRaceConfirm.String() {
		content.WriteString("Name:\n")
		content.WriteString(m.nameInput.View())
		content.WriteString("\n\n")
		content.WriteString(promptStyle.Render("Enter to confirm, Esc to cancel"))
	} else {
		content.WriteString("Name: " + b.Name + "\n\n")
		for i, a := range actor.Abilities {
			score := "--"
			if v, ok := b.Scores[a]; ok {
				score = fmt.Sprintf("%2d", v)
			}
			line := fmt.Sprintf("%-13s %s", a, score)
			if i == m.abilityCursor {
				content.WriteString(modalSelectedItemStyle.Render("▶ " + line))
			} else {
				content.WriteString(modalItemStyle.Render("  " + line))
			}
			content.WriteString("\n")
		}
		content.WriteString("\nValue: ")
		for i, v := range actor.StandardArray {
			s := fmt.Sprintf(" %d ", v)
			if i == m.valueCursor {
				s = modalSelectedItemStyle.Render(s)
			}
			content.WriteString(s)
		}
		content.WriteString("\n\n")
		content.WriteString(promptStyle.Render("↑/↓ ability, ←/→ value, Enter assign, Backspace clear, C confirm"))
	}
	if b.Error != "" {
		content.WriteString("\n\n" + errorStyle.Render(wordwrap.String(b.Error, 54)))
	}
	return modalStyle.Width(60).Render(content.String())
}

func (m GameUI) renderQuitModal() string {
	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Quit Game?"))
	content.WriteString("\n\n")
	content.WriteString("Unsaved progress will be lost.")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue, or Ctrl+C to force quit"))
	return modalStyle.Width(50).Render(content.String())
}

func (m GameUI) View() string {
	if m.width == 0 || m.height == 0 || !m.ready {
		return "\n  Initializing..."
	}

	var modal string
	switch {
	case m.showQuitModal:
		modal = m.renderQuitModal()
	case m.view.Modal == engine.ModalSkillCheck:
		modal = m.renderSkillCheckModal()
	case m.view.Modal == engine.ModalBuilder:
		modal = m.renderBuilderModal()
	}
	if modal != "" {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
	}

	storyWidth := int(float64(m.width)*0.75) - 4
	sheetWidth := m.width - storyWidth - 6

	storyPanel := storyPanelStyle.Width(storyWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.storyView.View(),
			"",
			separatorStyle.Render(strings.Repeat("─", storyWidth-4)),
			promptStyle.Render("1-9 or ↑/↓ + Enter to choose"),
		),
	)

	sheetPanel := sheetPanelStyle.Width(sheetWidth).Height(m.height - 2).Render(
		m.sheetView.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, storyPanel, sheetPanel)
}

// renderProgressBar draws the pause between choosing and arriving.
func (m GameUI) renderProgressBar(usable int) string {
	if usable > 80 {
		usable = 80
	} else if usable < 10 {
		usable = 10
	}

	const totalFrames = 10
	frame := m.progressTick % totalFrames
	filled := (frame * usable) / totalFrames

	var bar strings.Builder
	for i := 0; i < usable; i++ {
		if i < filled {
			bar.WriteString("█")
		} else if i == filled && frame%4 < 2 {
			bar.WriteString("▓")
		} else {
			bar.WriteString("░")
		}
	}
	return separatorStyle.Render(bar.String())
}

func progressTick() tea.Cmd {
	return tea.Tick(time.Millisecond*50, func(time.Time) tea.Msg {
		return progressTickMsg{}
	})
}
