// Package menu describes the inline menus the bot shows. Build is pure: the
// same screen always yields the same text and button layout, which lets the
// router skip edits that would not change the displayed message.
package menu

// Screen names a menu that can be rendered.
type Screen string

const (
	ScreenMain            Screen = "main"
	ScreenBroadcastPrompt Screen = "broadcast_prompt"
)

// Action is the callback identifier carried by a menu button.
type Action string

const (
	ActionListTasks       Action = "list_tasks"
	ActionAddTask         Action = "add_task"
	ActionListEvents      Action = "list_events"
	ActionAddEvent        Action = "add_event"
	ActionDeleteEvent     Action = "delete_event"
	ActionListFiles       Action = "list_files"
	ActionUploadFile      Action = "upload_file"
	ActionDeleteFile      Action = "delete_file"
	ActionBroadcastPrompt Action = "send_message_to_all_prompt"
	ActionMenu            Action = "menu"
	ActionCancel          Action = "cancel"
)

// Actions lists every callback identifier the bot understands.
func Actions() []Action {
	return []Action{
		ActionListTasks,
		ActionAddTask,
		ActionListEvents,
		ActionAddEvent,
		ActionDeleteEvent,
		ActionListFiles,
		ActionUploadFile,
		ActionDeleteFile,
		ActionBroadcastPrompt,
		ActionMenu,
		ActionCancel,
	}
}

// Button is one selectable entry of a menu.
type Button struct {
	Label  string
	Action Action
}

// Menu is a message text with rows of buttons.
type Menu struct {
	Text string
	Rows [][]Button
}

const (
	mainText            = "Выберите действие:"
	broadcastPromptText = "Введите сообщение, которое вы хотите отправить всем пользователям:"
)

// Build renders the menu for a screen. Unknown screens render the main menu.
func Build(s Screen) Menu {
	switch s {
	case ScreenBroadcastPrompt:
		return Menu{
			Text: broadcastPromptText,
			Rows: [][]Button{
				{{Label: "Отмена", Action: ActionCancel}},
			},
		}
	default:
		return Menu{
			Text: mainText,
			Rows: [][]Button{
				{{Label: "Список задач", Action: ActionListTasks}, {Label: "Добавить задачу", Action: ActionAddTask}},
				{{Label: "Список мероприятий", Action: ActionListEvents}, {Label: "Добавить мероприятие", Action: ActionAddEvent}},
				{{Label: "Список файлов", Action: ActionListFiles}, {Label: "Загрузить файл", Action: ActionUploadFile}},
				{{Label: "Отправить сообщение всем", Action: ActionBroadcastPrompt}},
				{{Label: "Обновить меню", Action: ActionMenu}},
			},
		}
	}
}

// Equal reports whether both menus have the same text and the same buttons in
// the same layout.
func (m Menu) Equal(o Menu) bool {
	if m.Text != o.Text || len(m.Rows) != len(o.Rows) {
		return false
	}
	for i := range m.Rows {
		if len(m.Rows[i]) != len(o.Rows[i]) {
			return false
		}
		for j := range m.Rows[i] {
			if m.Rows[i][j] != o.Rows[i][j] {
				return false
			}
		}
	}
	return true
}
