package conversation

import (
	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/coinbot/bot/callback"
	tg "github.com/m3rciful/coinbot/core/telegram"
	"github.com/m3rciful/coinbot/core/telegram/commands"
	tghelpers "github.com/m3rciful/coinbot/core/telegram/helpers"
)

// Register binds the bot's commands, every callback action and the unknown-callback fallback to reg.
func (r *Router) Register(reg *tg.Registry) error {
	cmds := []struct {
		name string
		cmd  commands.Command
	}{
		{"/start", commands.Command{Handler: r.onStart, Description: "Choose language / Выбрать язык"}},
		{"/menu", commands.Command{Handler: r.onMenu, Description: "Main menu / Главное меню"}},
		{"/getcrypto", commands.Command{Handler: r.onGetCrypto, Description: "Price and chart: /getcrypto en_us usd btc 7d"}},
	}
	for _, c := range cmds {
		if err := reg.RegisterCommand(c.name, c.cmd); err != nil {
			return err
		}
	}
	for _, action := range callback.Actions {
		if err := reg.RegisterCallback(string(action), r.onCallback); err != nil {
			return err
		}
	}
	// Stale buttons from older releases end up here and are logged as ignored.
	reg.SetCallbackNotFound(r.onCallback)
	return nil
}

// OnAddedToGroup is the telebot handler for the bot joining a group.
func (r *Router) OnAddedToGroup(c tele.Context) error {
	chat := c.Chat()
	if chat == nil {
		return nil
	}
	return r.AddedToGroup(tghelpers.BuildContext(c), chat.ID)
}

func (r *Router) onStart(c tele.Context) error {
	chat := c.Chat()
	if chat == nil {
		return nil
	}
	return r.Start(tghelpers.BuildContext(c), chat.ID)
}

func (r *Router) onMenu(c tele.Context) error {
	chat := c.Chat()
	if chat == nil {
		return nil
	}
	return r.Menu(tghelpers.BuildContext(c), chat.ID, chat.Type == tele.ChatPrivate)
}

func (r *Router) onGetCrypto(c tele.Context) error {
	chat, msg := c.Chat(), c.Message()
	if chat == nil || msg == nil {
		return nil
	}
	return r.GetCrypto(tghelpers.BuildContext(c), chat.ID, msg.Payload)
}

func (r *Router) onCallback(c tele.Context) error {
	cb := c.Callback()
	if cb == nil || cb.Message == nil || cb.Message.Chat == nil {
		return nil
	}
	return r.HandleCallback(tghelpers.BuildContext(c), Callback{
		ChatID:    cb.Message.Chat.ID,
		MessageID: cb.Message.ID,
		Private:   cb.Message.Chat.Type == tele.ChatPrivate,
		Data:      cb.Data,
	})
}
