package i18n

var messages = map[string]map[string]string{
	English: {
		"installed":                   "Installed! Try to use.",
		"select_repo":                 "Select a repository number or enter your reference: ",
		"enter_requirements_filename": "Enter the name of the requirements file (press Enter for 'requirements.txt'): ",
		"choose_action":               "Choose an action:",
		"update_master":               "1. Update to the master branch and start it",
		"update_next":                 "2. Update to the next branch and start it",
		"enter_choice":                "Enter the number of the action: ",
		"invalid_choice":              "Invalid choice, please try again.",
		"enable_webcam":               "Enable webcam mode? (Y/N): ",
		"which_path":                  "Select an installation path or enter your reference: ",
		"detected_hardware":           "Detected hardware: %s",
		"cloning":                     "Cloning %s",
		"updating":                    "Updating %s",
		"creating_venv":               "Creating virtual environment",
		"installing_packages":         "Installing packages",
		"packages_already_installed":  "Packages are already installed",
		"downloading_models":          "Downloading models",
		"writing_launcher":            "Writing launcher %s",
		"writing_updater":             "Writing the facefusion updater launcher",
	},
	Russian: {
		"installed":                   "Установлено! Надеюсь, вам понравится.",
		"select_repo":                 "Выберите номер репозитория или введите свою ссылку: ",
		"enter_requirements_filename": "Введите имя файла с библиотеками (нажмите Enter для 'requirements.txt'): ",
		"choose_action":               "Выберите действие:",
		"update_master":               "1. Обновить до обычной ветки и запустить её (master)",
		"update_next":                 "2. Обновить до бета ветки и запустить её (next)",
		"enter_choice":                "Введите номер действия: ",
		"invalid_choice":              "Неверный выбор, попробуйте снова.",
		"enable_webcam":               "Включить режим вебкамеры? (Y/N): ",
		"which_path":                  "Выберите путь установки или введите свой: ",
		"detected_hardware":           "Обнаружено оборудование: %s",
		"cloning":                     "Клонирование %s",
		"updating":                    "Обновление %s",
		"creating_venv":               "Создание виртуального окружения",
		"installing_packages":         "Установка библиотек",
		"packages_already_installed":  "Библиотеки уже установлены",
		"downloading_models":          "Загрузка моделей",
		"writing_launcher":            "Создание файла запуска %s",
		"writing_updater":             "Создание лаунчера обновления facefusion",
	},
}
