// Command vaulttasks is the CLI/TUI entrypoint: list/add/done/edit/
// tracker-log/tui/daemon subcommands over a directory of Markdown notes
// treated as a task/habit database.
package main

import "github.com/vaulttasks/vaulttasks/cmd"

func main() {
	cmd.Execute("vaulttasks")
}
