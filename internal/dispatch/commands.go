package dispatch

import "strings"

// Command is a slash command name without the leading slash.
type Command string

const (
	CmdStart            Command = "start"
	CmdHelp             Command = "help"
	CmdMenu             Command = "menu"
	CmdCancel           Command = "cancel"
	CmdSendMessageToAll Command = "send_message_to_all"
	CmdListTasks        Command = "list_tasks"
	CmdAddTask          Command = "add_task"
	CmdDeleteTask       Command = "delete_task"
	CmdListEvents       Command = "list_events"
	CmdAddEvent         Command = "add_event"
	CmdDeleteEvent      Command = "delete_event"
	CmdListFiles        Command = "list_files"
	CmdUploadFile       Command = "upload_file"
	CmdDeleteFile       Command = "delete_file"
)

// CommandInfo describes a command for /help and the bot command menu.
type CommandInfo struct {
	Name        Command
	Description string
}

var commandInfos = []CommandInfo{
	{CmdStart, "начать работу с ботом"},
	{CmdHelp, "список доступных команд"},
	{CmdMenu, "показать меню"},
	{CmdCancel, "отменить текущее действие"},
	{CmdSendMessageToAll, "отправить сообщение всем пользователям"},
	{CmdListTasks, "показать список задач"},
	{CmdAddTask, "добавить задачу"},
	{CmdDeleteTask, "удалить задачу"},
	{CmdListEvents, "показать список событий"},
	{CmdAddEvent, "добавить событие"},
	{CmdDeleteEvent, "удалить событие"},
	{CmdListFiles, "показать список файлов"},
	{CmdUploadFile, "загрузить файл"},
	{CmdDeleteFile, "удалить файл"},
}

// Commands lists every supported command in /help order.
func Commands() []CommandInfo {
	out := make([]CommandInfo, len(commandInfos))
	copy(out, commandInfos)
	return out
}

// ParseCommand splits "/name@bot args" into the command name and the raw
// argument tail. ok is false when text is not a slash command.
func ParseCommand(text string) (cmd Command, args string, ok bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") || len(text) == 1 {
		return "", "", false
	}
	head, tail, _ := strings.Cut(text[1:], " ")
	if i := strings.IndexAny(head, "\n\t"); i >= 0 {
		tail = head[i+1:] + " " + tail
		head = head[:i]
	}
	name, _, _ := strings.Cut(head, "@")
	if name == "" {
		return "", "", false
	}
	return Command(strings.ToLower(name)), strings.TrimSpace(tail), true
}
