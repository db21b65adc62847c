package commands

import (
	"fmt"
	"strings"

	"github.com/sandeepkv93/taskdash/internal/model"
)

type Type string

const (
	TypeAdd     Type = "add"
	TypeMove    Type = "move"
	TypeSearch  Type = "search"
	TypeGoto    Type = "goto"
	TypeArchive Type = "archive"
	TypeRestore Type = "restore"
	TypeDelete  Type = "delete"
	TypeExport  Type = "export"
	TypeImport  Type = "import"
	TypeFocus   Type = "focus"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func invalid(format string, args ...any) error {
	return &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

// Target selects a task: either the highlighted row or an explicit id.
type Target struct {
	Selected bool
	ID       string
}

func parseTarget(arg string) Target {
	if strings.EqualFold(arg, "selected") || arg == "." {
		return Target{Selected: true}
	}
	return Target{ID: arg}
}

// AddArgs accepts inline tokens: p:<priority>, due:<YYYY-MM-DD> and #<category>.
type AddArgs struct {
	Title      string
	Priority   model.Priority
	Due        *model.Date
	Categories []string
}

type MoveArgs struct {
	Target Target
	Status model.Status
}

type SearchArgs struct {
	Query    string
	Status   string
	Priority string
	Category string
}

type GotoArgs struct {
	View string
}

type TargetArgs struct {
	Target Target
}

type ExportArgs struct {
	Format string
}

type ImportArgs struct {
	Path string
}

type FocusArgs struct {
	Action string
}

type Command struct {
	Type   Type
	Raw    string
	Add    *AddArgs
	Move   *MoveArgs
	Search *SearchArgs
	Goto   *GotoArgs
	Target *TargetArgs
	Export *ExportArgs
	Import *ImportArgs
	Focus  *FocusArgs
}

// Views names the screens reachable with goto.
var Views = []string{"dashboard", "tasks", "kanban", "calendar", "stats", "focus", "history", "archive", "notifications", "team", "templates", "settings"}

var focusActions = []string{"start", "pause", "reset", "skip"}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeMove:
		return parseMove(input, args)
	case TypeSearch:
		return parseSearch(input, args)
	case TypeGoto:
		return parseGoto(input, args)
	case TypeArchive, TypeRestore, TypeDelete:
		if len(args) == 0 {
			return Command{}, invalid("%s requires a task id or 'selected'", head)
		}
		return Command{Type: Type(head), Raw: input, Target: &TargetArgs{Target: parseTarget(args[0])}}, nil
	case TypeExport:
		format := "json"
		if len(args) > 0 {
			format = strings.ToLower(args[0])
		}
		if format != "json" && format != "csv" {
			return Command{}, invalid("export format must be json or csv, got %s", format)
		}
		return Command{Type: TypeExport, Raw: input, Export: &ExportArgs{Format: format}}, nil
	case TypeImport:
		if len(args) == 0 {
			return Command{}, invalid("import requires a file path")
		}
		return Command{Type: TypeImport, Raw: input, Import: &ImportArgs{Path: strings.Join(args, " ")}}, nil
	case TypeFocus:
		if len(args) == 0 || !contains(focusActions, strings.ToLower(args[0])) {
			return Command{}, invalid("focus requires one of %s", strings.Join(focusActions, ", "))
		}
		return Command{Type: TypeFocus, Raw: input, Focus: &FocusArgs{Action: strings.ToLower(args[0])}}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(raw string, args []string) (Command, error) {
	out := AddArgs{}
	words := make([]string, 0, len(args))
	for _, arg := range args {
		lower := strings.ToLower(arg)
		switch {
		case strings.HasPrefix(lower, "p:"):
			p, err := model.ParsePriority(arg[2:])
			if err != nil {
				return Command{}, invalid("unknown priority %s", arg[2:])
			}
			out.Priority = p
		case strings.HasPrefix(lower, "due:"):
			d, err := model.ParseDate(arg[4:])
			if err != nil {
				return Command{}, invalid("due date must be YYYY-MM-DD, got %s", arg[4:])
			}
			out.Due = &d
		case strings.HasPrefix(arg, "#") && len(arg) > 1:
			out.Categories = append(out.Categories, arg[1:])
		default:
			words = append(words, arg)
		}
	}
	out.Title = strings.TrimSpace(strings.Join(words, " "))
	if out.Title == "" {
		return Command{}, invalid("add requires a title")
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &out}, nil
}

func parseMove(raw string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, invalid("move requires target and status")
	}
	st, err := parseStatus(strings.Join(args[1:], " "))
	if err != nil {
		return Command{}, err
	}
	return Command{Type: TypeMove, Raw: raw, Move: &MoveArgs{Target: parseTarget(args[0]), Status: st}}, nil
}

func parseStatus(s string) (model.Status, error) {
	switch strings.ToLower(strings.NewReplacer("-", "", "_", "", " ", "").Replace(s)) {
	case "todo":
		return model.StatusTodo, nil
	case "inprogress", "progress", "doing":
		return model.StatusInProgress, nil
	case "done":
		return model.StatusDone, nil
	}
	return "", invalid("unknown status %s", s)
}

func parseSearch(raw string, args []string) (Command, error) {
	out := SearchArgs{}
	words := make([]string, 0, len(args))
	for _, arg := range args {
		key, val, ok := strings.Cut(arg, ":")
		if !ok {
			words = append(words, arg)
			continue
		}
		switch strings.ToLower(key) {
		case "status":
			st, err := parseStatus(val)
			if err != nil {
				return Command{}, err
			}
			out.Status = string(st)
		case "p", "priority":
			p, err := model.ParsePriority(val)
			if err != nil {
				return Command{}, invalid("unknown priority %s", val)
			}
			out.Priority = string(p)
		case "cat", "category":
			out.Category = val
		default:
			words = append(words, arg)
		}
	}
	out.Query = strings.Join(words, " ")
	return Command{Type: TypeSearch, Raw: raw, Search: &out}, nil
}

func parseGoto(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, invalid("goto requires a view")
	}
	view := strings.ToLower(args[0])
	if !contains(Views, view) {
		return Command{}, invalid("unknown view %s", view)
	}
	return Command{Type: TypeGoto, Raw: raw, Goto: &GotoArgs{View: view}}, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
