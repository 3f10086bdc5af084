package slash

import "strings"

// Command 表示内置斜杠命令的标识符。
type Command string

const (
	CommandList   Command = "list"
	CommandOpen   Command = "open"
	CommandNew    Command = "new"
	CommandSeed   Command = "seed"
	CommandWorlds Command = "worlds"
	CommandDelete Command = "delete"
	CommandBegin  Command = "begin"
	CommandBoot   Command = "boot"
	CommandCopy   Command = "copy"
	CommandReload Command = "reload"
	CommandStatus Command = "status"
	CommandHelp   Command = "help"
	CommandQuit   Command = "quit"
	CommandExit   Command = "exit"
)

// Item 代表弹窗中的一行条目。
type Item struct {
	Command     Command
	Usage       string
	Description string
	// TakesArgs 为 true 时 Tab 补全后保留光标等待参数。
	TakesArgs bool
}

// Token 返回无前导斜杠的匹配键。
func (i Item) Token() string {
	return string(i.Command)
}

// DisplayName 返回带前缀斜杠的展示名称。
func (i Item) DisplayName() string {
	token := i.Token()
	if token == "" {
		return ""
	}
	if strings.HasPrefix(token, "/") {
		return token
	}
	return "/" + token
}

func builtinItems(opts Options) []Item {
	items := []Item{
		{Command: CommandList, Description: "选择已有会话"},
		{Command: CommandOpen, Usage: "<query>", Description: "按地点或名称模糊打开会话", TakesArgs: true},
		{Command: CommandNew, Description: "从零开始新游戏"},
		{Command: CommandWorlds, Description: "从世界种子开始新游戏"},
		{Command: CommandSeed, Usage: "<id>", Description: "用指定种子开始新游戏", TakesArgs: true},
		{Command: CommandBegin, Description: "开始当前游戏"},
		{Command: CommandReload, Description: "重新加载当前会话"},
		{Command: CommandDelete, Description: "删除当前会话"},
		{Command: CommandCopy, Description: "复制最后一个块的文本"},
		{Command: CommandStatus, Description: "查看当前状态"},
		{Command: CommandHelp, Description: "快捷键与命令"},
		{Command: CommandQuit, Description: "退出"},
		{Command: CommandExit, Description: "退出"},
	}
	if opts.Debug {
		items = append(items, Item{Command: CommandBoot, Description: "调试：重新运行引导流程"})
	}
	return items
}
