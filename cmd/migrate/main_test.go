package main

import (
	"testing"
)

func TestCommandsRegistered(t *testing.T) {
	want := map[string]bool{"up": false, "down": false, "status": false}
	for _, cmd := range rootCmd.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Fatalf("expected %s subcommand", name)
		}
	}
}

func TestConnectRequiresURL(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DATABASE_URL", "")
	databaseURL = ""
	if _, err := connect(t.Context()); err == nil {
		t.Fatalf("expected error without database url")
	}
}
