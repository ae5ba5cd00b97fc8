package cmd

import "testing"

func TestBuildRootCmd_HasExpectedSubcommandsAndFlags(t *testing.T) {
	root := buildRootCmd("vaulttasks")

	if root.Use != "vaulttasks" {
		t.Fatalf("expected Use to echo the binary name, got %q", root.Use)
	}
	if flag := root.PersistentFlags().Lookup("locale"); flag == nil {
		t.Fatalf("expected a persistent --locale flag")
	}

	want := []string{"list", "tags", "add", "done", "edit", "tracker", "tui", "daemon"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("expected subcommand %q to be registered, err=%v", name, err)
		}
	}
}

func TestBuildRootCmd_TrackerHasLogSubcommand(t *testing.T) {
	root := buildRootCmd("vaulttasks")
	cmd, _, err := root.Find([]string{"tracker", "log"})
	if err != nil || cmd.Name() != "log" {
		t.Fatalf("expected tracker log subcommand, err=%v", err)
	}
	for _, flagName := range []string{"name", "category", "value"} {
		if cmd.Flags().Lookup(flagName) == nil {
			t.Errorf("expected tracker log flag --%s", flagName)
		}
	}
}

func TestBuildRootCmd_ListAndEditFlags(t *testing.T) {
	root := buildRootCmd("vaulttasks")

	list, _, _ := root.Find([]string{"list"})
	if list.Flags().Lookup("sort") == nil {
		t.Errorf("expected list --sort flag")
	}

	edit, _, _ := root.Find([]string{"edit"})
	for _, flagName := range []string{"file", "line", "priority", "tags"} {
		if edit.Flags().Lookup(flagName) == nil {
			t.Errorf("expected edit flag --%s", flagName)
		}
	}
}
