package tui

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/vaulttasks/vaulttasks/internal/core"
)

// AddTaskForm interactively composes a new core.Task via a huh wizard. The
// returned task has no SourcePath/LineNumber set; a caller fills in
// SourcePath before calling core.WriteTask. Nothing in this module calls it.
func AddTaskForm(cfg core.Config) (core.Task, error) {
	var (
		name       string
		stateLabel = "todo"
		dueDate    string
		priority   string
		tags       string
		isToday    bool
	)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Value(&name).Title("Task").Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errEmptyName
				}
				return nil
			}),
			huh.NewSelect[string]().
				Title("State").
				Options(
					huh.NewOption("To do", "todo"),
					huh.NewOption("Incomplete", "incomplete"),
					huh.NewOption("Canceled", "canceled"),
					huh.NewOption("Done", "done"),
				).
				Value(&stateLabel),
			huh.NewInput().Value(&dueDate).Title("Due date (blank for none)").
				Placeholder("tomorrow, 15/06/2024, 2w"),
			huh.NewInput().Value(&priority).Title("Priority (0-3, blank for none)"),
			huh.NewInput().Value(&tags).Title("Tags (comma-separated, blank for none)"),
			huh.NewConfirm().Value(&isToday).Title("Mark @today?"),
		),
	)

	if err := form.Run(); err != nil {
		return core.Task{}, err
	}

	task := core.Task{
		Name:    strings.TrimSpace(name),
		State:   stateFromLabel(stateLabel),
		IsToday: isToday,
	}
	if priority != "" {
		if n, err := strconv.Atoi(priority); err == nil && n >= 0 {
			task.Priority = uint(n)
		}
	}
	if tags != "" {
		for _, tag := range strings.Split(tags, ",") {
			tag = strings.TrimSpace(tag)
			if tag != "" {
				task.Tags = append(task.Tags, tag)
			}
		}
	}
	if dueDate != "" {
		if date, ok := core.ParseDateToken(dueDate, cfg.UseAmericanFormat, time.Now()); ok {
			task.DueDate = &date
		}
	}
	return task, nil
}

func stateFromLabel(label string) core.State {
	switch label {
	case "done":
		return core.StateDone
	case "incomplete":
		return core.StateIncomplete
	case "canceled":
		return core.StateCanceled
	default:
		return core.StateToDo
	}
}

type emptyNameError struct{}

func (emptyNameError) Error() string { return "task name cannot be empty" }

var errEmptyName = emptyNameError{}
