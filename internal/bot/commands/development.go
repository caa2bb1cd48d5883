package commands

import (
	"context"
	"errors"

	"github.com/vueland/vuebot/internal/bot"
)

// NewError creates a command that always fails, for checking error reporting
func NewError() *bot.Command {
	return &bot.Command{
		Name:        "error",
		Group:       "development",
		Description: "Create a command error.",
		Examples:    []string{"error"},
		Run: func(context.Context, *bot.Request) error {
			return errors.New("Well, you asked for it.")
		},
	}
}
