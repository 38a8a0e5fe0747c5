package messages

const (
	MsgHelp = "📖 Команды бота:\n/start — показать меню\n/help — справка\n\n🛡 Антиспам работает автоматически после подключения:\n- капча при входе в чат\n- фильтр мата и ссылок (настраивается)\n- удаление нарушений\n\nЧтобы настроить антиспам — нажмите «Мои чаты» в меню."

	MsgWelcome = "👋 Привет! Я антиспам-бот для чатов. Добавь меня в свою группу и настрой фильтры.\n\nВыберите действие:"

	MsgCaptchaPrompt  = "Добро пожаловать! Пожалуйста, нажмите кнопку ниже, чтобы подтвердить, что вы не бот."
	MsgVerifySuccess  = "✅ Вы успешно прошли проверку, добро пожаловать!"
	MsgVerifyFailed   = "⛔ %d не прошёл проверку и был удалён."
	MsgContentRemoved = "⛔ Сообщение удалено: запрещённый контент."

	MsgNoChats       = "У вас пока нет чатов. Добавьте меня в группу и я появлюсь здесь."
	MsgYourChats     = "Ваши чаты:\nНажмите на чат, чтобы изменить фильтры."
	MsgSettingsTitle = "⚙ Настройки фильтров:"
	MsgFilterToggled = "🔄 Фильтр «%s» переключён."
	MsgUntitledChat  = "Без названия"

	BtnVerify  = "Пройти проверку ✅"
	BtnMyChats = "📋 Мои чаты"

	BtnCaptcha  = "Капча %s"
	BtnBadWords = "Мат %s"
	BtnLinks    = "Ссылки %s"

	MsgReasonProhibitedWord = "запрещённое слово"
	MsgReasonProhibitedLink = "ссылки запрещены"
)
