package dispatch

const (
	textUnknown    = "Неизвестная команда. Введите /help для получения списка команд."
	textWelcome    = "Добро пожаловать, %s! Ваш аккаунт был зарегистрирован."
	textHelpHead   = "Список доступных команд:"
	textCancelled  = "Действие отменено."
	textNoAction   = "Нет активного действия для отмены."
	textBusy       = "Сначала завершите текущее действие или отмените его командой /cancel."
	textInternal   = "Произошла ошибка. Пожалуйста, попробуйте позже."
	textStartFirst = "Please use /start first."

	textTasksHead  = "Список задач:"
	textTasksEmpty = "Список задач пуст."
	textTaskAdded  = "Задача '%s' добавлена."
	textTaskAddErr = "Ошибка при добавлении задачи. Пожалуйста, проверьте формат команды."
	textTaskGone   = "Задача '%s' удалена."
	textTaskNone   = "Задача не найдена."
	textTaskDelErr = "Ошибка при удалении задачи. Пожалуйста, проверьте формат команды."
	textTasksErr   = "Не удалось получить список задач."

	textEventsHead  = "Список мероприятий:"
	textEventsEmpty = "Список мероприятий пуст."
	textEventAdded  = "Мероприятие '%s' добавлено."
	textEventAddErr = "Ошибка при добавлении мероприятия. Пожалуйста, проверьте формат команды."
	textEventGone   = "Мероприятие '%s' удалено."
	textEventNone   = "Мероприятие не найдено."
	textEventDelErr = "Ошибка при удалении мероприятия. Пожалуйста, проверьте формат команды."
	textEventsErr   = "Не удалось получить список мероприятий."

	textFilesHead     = "Список файлов:"
	textFilesEmpty    = "Список файлов пуст."
	textFileUploaded  = "Файл '%s' загружен."
	textFileReceived  = "File '%s' successfully uploaded."
	textFileUploadErr = "Ошибка при загрузке файла."
	textFileGone      = "Файл '%s' удален."
	textFileNone      = "Файл не найден."
	textFileDelErr    = "Ошибка при удалении файла. Пожалуйста, проверьте формат команды."
	textFilesErr      = "Не удалось получить список файлов."

	textBroadcastDone  = "Сообщение отправлено всем пользователям."
	textBroadcastEmpty = "Пожалуйста, предоставьте сообщение для отправки."
	textBroadcastErr   = "Не удалось отправить сообщение."

	promptAddTask     = "Введите задачу в формате: /add_task Заголовок, Описание, ГГГГ.ММ.ДД"
	promptAddEvent    = "Введите мероприятие в формате: /add_event Название мероприятия, ГГГГ-ММ-ДД"
	promptDeleteEvent = "Введите мероприятие для удаления в формате: /delete_event ID"
	promptUploadFile  = "Пожалуйста, отправьте файл для загрузки."
	promptDeleteFile  = "Введите файл для удаления в формате: /delete_file ID"
)

// Fallback names for media that arrive without a file name.
const (
	namePhoto = "photo"
	nameVideo = "video"
)
