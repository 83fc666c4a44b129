package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCommand(t *testing.T) {
	p := NewCommandParser()

	tests := []struct {
		name      string
		text      string
		cmd       string
		args      []string
		isCommand bool
	}{
		{
			name:      "хлопы с получателями и текстом",
			text:      "!хлопы @vasya @petya отличная работа",
			cmd:       "хлопы",
			args:      []string{"@vasya", "@petya", "отличная", "работа"},
			isCommand: true,
		},
		{
			name:      "слэш-команда",
			text:      "/стата",
			cmd:       "стата",
			isCommand: true,
		},
		{
			name:      "команда с именем бота",
			text:      "/stats@hloppy_bot",
			cmd:       "stats",
			isCommand: true,
		},
		{
			name:      "точка-префикс и верхний регистр",
			text:      ".ХЛОПЫ @vasya спасибо",
			cmd:       "хлопы",
			args:      []string{"@vasya", "спасибо"},
			isCommand: true,
		},
		{
			name:      "пробелы вокруг",
			text:      "  !помощь  ",
			cmd:       "помощь",
			isCommand: true,
		},
		{
			name: "обычное сообщение",
			text: "просто болтаем",
		},
		{
			name: "только префикс",
			text: "!",
		},
		{
			name: "пустая строка",
			text: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, args, isCommand := p.ParseCommand(tt.text)
			assert.Equal(t, tt.isCommand, isCommand)
			assert.Equal(t, tt.cmd, cmd)
			assert.Equal(t, tt.args, args)
		})
	}
}
