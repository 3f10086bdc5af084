package tui

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
)

// Result 返回 TUI 运行后的必要信息。
type Result struct {
	ConversationID string
	Title          string
}

// Run 封装 Bubble Tea 入口，返回最终的 UI 结果。
func Run(opts Options) (Result, error) {
	programOptions := []tea.ProgramOption{tea.WithMouseCellMotion()}
	if opts.AltScreen {
		programOptions = append(programOptions, tea.WithAltScreen())
	}
	if opts.Context != nil {
		programOptions = append(programOptions, tea.WithContext(opts.Context))
	}
	program := tea.NewProgram(New(opts), programOptions...)
	m, err := program.Run()
	if err != nil {
		return Result{}, err
	}
	tuiModel, ok := m.(*Model)
	if !ok {
		return Result{}, errors.New("unexpected tui model")
	}
	sess := tuiModel.Controller().Session()
	return Result{
		ConversationID: sess.ActiveConversationID(),
		Title:          sess.Title(),
	}, nil
}
