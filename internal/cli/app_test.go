// pattern: Functional Core
package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestApp_ExecuteNoArgsRunsConsole(t *testing.T) {
	app := NewApp("test")
	if !app.Execute(nil) {
		t.Error("Execute(nil) = false, want true (run the console)")
	}
}

func TestApp_ExecuteCommand(t *testing.T) {
	app := NewApp("test")

	var gotArgs []string
	app.AddCommand(&Command{
		Name:    "report",
		Summary: "Report settings",
		Usage:   "Usage: swift-console report <settings.yaml>",
		Run: func(args []string) error {
			gotArgs = args
			return nil
		},
	})

	if app.Execute([]string{"report", "settings.yaml"}) {
		t.Error("Execute() = true after a command, want false")
	}
	if len(gotArgs) != 1 || gotArgs[0] != "settings.yaml" {
		t.Errorf("command args = %v, want [settings.yaml]", gotArgs)
	}
}

func TestApp_PrintHelp(t *testing.T) {
	app := BuildApp("1.2.3", "")

	var buf bytes.Buffer
	app.PrintHelp(&buf)

	out := buf.String()
	for _, want := range []string{"report", "cleanup", "version", "(none)"} {
		if !strings.Contains(out, want) {
			t.Errorf("PrintHelp() output missing %q:\n%s", want, out)
		}
	}
}
