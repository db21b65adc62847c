package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Add     func(AddArgs) (Result, error)
	Move    func(MoveArgs) (Result, error)
	Search  func(SearchArgs) (Result, error)
	Goto    func(GotoArgs) (Result, error)
	Archive func(TargetArgs) (Result, error)
	Restore func(TargetArgs) (Result, error)
	Delete  func(TargetArgs) (Result, error)
	Export  func(ExportArgs) (Result, error)
	Import  func(ImportArgs) (Result, error)
	Focus   func(FocusArgs) (Result, error)
}

func missing(t Type) error {
	return &CommandError{Code: ErrCodeHandlerMissing, Message: fmt.Sprintf("%s handler not configured", t)}
}

func call[A any](t Type, fn func(A) (Result, error), args *A) (Result, error) {
	if fn == nil {
		return Result{}, missing(t)
	}
	return fn(*args)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd:
		return call(cmd.Type, handlers.Add, cmd.Add)
	case TypeMove:
		return call(cmd.Type, handlers.Move, cmd.Move)
	case TypeSearch:
		return call(cmd.Type, handlers.Search, cmd.Search)
	case TypeGoto:
		return call(cmd.Type, handlers.Goto, cmd.Goto)
	case TypeArchive:
		return call(cmd.Type, handlers.Archive, cmd.Target)
	case TypeRestore:
		return call(cmd.Type, handlers.Restore, cmd.Target)
	case TypeDelete:
		return call(cmd.Type, handlers.Delete, cmd.Target)
	case TypeExport:
		return call(cmd.Type, handlers.Export, cmd.Export)
	case TypeImport:
		return call(cmd.Type, handlers.Import, cmd.Import)
	case TypeFocus:
		return call(cmd.Type, handlers.Focus, cmd.Focus)
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}
