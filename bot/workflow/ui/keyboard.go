package ui

import (
	"linklet/entity"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
)

// CancelKeyboard creates an inline keyboard with a single cancel button.
func CancelKeyboard(text string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{
			{
				{Text: text, CallbackData: "wf:cancel"},
			},
		},
	}
}

// SingleButtonKeyboard creates an inline keyboard with a single button.
func SingleButtonKeyboard(text, callbackData string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{
			{
				{Text: text, CallbackData: callbackData},
			},
		},
	}
}

// RemoveKeyboard creates a remove keyboard markup to hide custom keyboards.
func RemoveKeyboard() tgbotapi.ReplyKeyboardRemove {
	return tgbotapi.ReplyKeyboardRemove{
		RemoveKeyboard: true,
	}
}

// TriggerTypeKeyboard offers the three trigger types plus cancel.
func TriggerTypeKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{
			{
				{Text: "⏰ Planning", CallbackData: "wf:trigger:schedule"},
				{Text: "🔗 Webhook", CallbackData: "wf:trigger:webhook"},
			},
			{
				{Text: "🤚 Manuel", CallbackData: "wf:trigger:manual"},
			},
			{
				{Text: "✖️ Annuler", CallbackData: "wf:cancel"},
			},
		},
	}
}

// ConfirmKeyboard creates a confirm/cancel pair of inline buttons.
func ConfirmKeyboard(confirmText, cancelText string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{
			{
				{Text: confirmText, CallbackData: "wf:select:confirm"},
				{Text: cancelText, CallbackData: "wf:cancel"},
			},
		},
	}
}

// MenuItem is one entry of an inline menu.
type MenuItem struct {
	ID   string
	Text string
}

// MenuKeyboard creates an inline keyboard of menu rows.
func MenuKeyboard(rows [][]MenuItem) tgbotapi.InlineKeyboardMarkup {
	keyboard := make([][]tgbotapi.InlineKeyboardButton, len(rows))
	for i, row := range rows {
		buttons := make([]tgbotapi.InlineKeyboardButton, len(row))
		for j, item := range row {
			buttons[j] = tgbotapi.InlineKeyboardButton{
				Text:         item.Text,
				CallbackData: "wf:menu:" + item.ID,
			}
		}
		keyboard[i] = buttons
	}
	return tgbotapi.InlineKeyboardMarkup{
		InlineKeyboard: keyboard,
	}
}

// WorkflowListKeyboard creates a row-per-workflow selection keyboard.
func WorkflowListKeyboard(workflows []entity.Workflow) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(workflows)+1)
	for _, w := range workflows {
		rows = append(rows, []tgbotapi.InlineKeyboardButton{
			{Text: w.StatusLabel() + " " + w.Name, CallbackData: "wf:select:" + w.UUID},
		})
	}
	rows = append(rows, []tgbotapi.InlineKeyboardButton{
		{Text: "◀️ Retour", CallbackData: "wf:menu:main"},
	})
	return tgbotapi.InlineKeyboardMarkup{
		InlineKeyboard: rows,
	}
}

// WorkflowActionsKeyboard offers the per-workflow actions.
func WorkflowActionsKeyboard(w *entity.Workflow) tgbotapi.InlineKeyboardMarkup {
	toggle := tgbotapi.InlineKeyboardButton{
		Text:         "▶️ Activer",
		CallbackData: "wf:run:activate:" + w.UUID,
	}
	if w.IsActive {
		toggle = tgbotapi.InlineKeyboardButton{
			Text:         "⏸️ Désactiver",
			CallbackData: "wf:run:deactivate:" + w.UUID,
		}
	}
	return tgbotapi.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{
			{
				toggle,
				{Text: "🚀 Exécuter", CallbackData: "wf:run:execute:" + w.UUID},
			},
			{
				{Text: "⚡ Déclencheur", CallbackData: "wf:run:configure:" + w.UUID},
				{Text: "🗑️ Supprimer", CallbackData: "wf:run:delete:" + w.UUID},
			},
			{
				{Text: "◀️ Retour", CallbackData: "wf:menu:list"},
			},
		},
	}
}
