package telegram

import (
	"testing"

	"github.com/m3rciful/coinbot/core/telegram/commands"

	tele "gopkg.in/telebot.v4"
)

func noop(tele.Context) error { return nil }

func TestRegistryCommands(t *testing.T) {
	reg := NewRegistry()
	if err := reg.RegisterCommand("/menu", commands.Command{Handler: noop, Description: "Main menu"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.RegisterCommand("/start", commands.Command{Handler: noop, Description: "Start", Aliases: []string{"begin"}}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.RegisterCommand("/secret", commands.Command{Handler: noop, Description: "x", Hidden: true}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.RegisterCommand("menu", commands.Command{Handler: noop, Description: "x"}); err == nil {
		t.Fatal("expected error for missing slash")
	}
	if err := reg.RegisterCommand("/menu", commands.Command{Handler: noop, Description: "again"}); err == nil {
		t.Fatal("expected duplicate error")
	}

	list := reg.ListCommands(true)
	if len(list) != 2 || list[0].Text != "menu" || list[1].Text != "start" {
		t.Fatalf("unexpected visible commands: %+v", list)
	}
	if key, _, ok := reg.LookupCommand("begin"); !ok || key != "/start" {
		t.Fatalf("alias lookup = %q, %v", key, ok)
	}
}

func TestRegistryCallbacks(t *testing.T) {
	reg := NewRegistry()
	if err := reg.RegisterCallback("crypto", noop); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.RegisterCallback("crypto", noop); err == nil {
		t.Fatal("expected duplicate error")
	}
	if _, ok := reg.GetCallback("crypto"); !ok {
		t.Fatal("callback not found")
	}
	if _, ok := reg.GetCallback("nope"); ok {
		t.Fatal("unexpected callback")
	}
	if reg.CallbackNotFound() != nil {
		t.Fatal("default fallback should be nil")
	}
}
