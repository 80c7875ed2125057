package bot

// User-facing message texts, kept in one place. Wording follows the
// original bot.
const (
	msgGreeting         = "Привет! Я бот для NetSchool. Пожалуйста, введите название вашей школы:"
	msgAskSchool        = "Введите название вашей школы:"
	msgAskLogin         = "Введите ваш логин:"
	msgAskPassword      = "Введите ваш пароль:"
	msgDecryptFailed    = "Ошибка декодирования данных. Пожалуйста, создайте новый аккаунт с помощью команды /new_account."
	msgLoginOK          = "Успешный вход! Используйте команду /diary, чтобы увидеть дневник."
	msgSchoolNotFound   = "Ошибка: школа не найдена."
	msgBadCredentials   = "Ошибка: неправильное имя пользователя или пароль."
	msgNotAuthenticated = "Ошибка подключения к NetSchool API. Сначала войдите с помощью команды /start."
	msgAuthInProgress   = "Авторизация уже выполняется, подождите."
	msgBusy             = "Сервис перегружен, попробуйте позже."

	fmtConnectError = "Ошибка подключения: %v"
	fmtRequestError = "Ошибка запроса: %v"
	fmtUnknownError = "Произошла ошибка: %v"
	fmtDiaryError   = "Ошибка при получении дневника: %v"
)
