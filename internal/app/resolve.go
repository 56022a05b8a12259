package app

// Resolve maps a key press to the semantic message it stands for in the
// current mode and view. It returns nil for keys with no meaning there.
func (s *State) Resolve(k KeyPress) Message {
	if matches(k, s.keys.ForceQuit) {
		return ForceQuit{}
	}
	switch s.mode {
	case ModeInsert:
		return s.resolveInsert(k)
	case ModeCommand, ModeSearch, ModePrompt:
		return s.resolveLine(k)
	default:
		return s.resolveNormal(k)
	}
}

func (s *State) resolveInsert(k KeyPress) Message {
	switch k.Key {
	case "esc":
		return Cancel{}
	case "enter":
		return NewLine{}
	case "backspace":
		return Backspace{}
	case "tab":
		return InsertChar{Char: '\t'}
	case "left":
		return CursorLeft{}
	case "right":
		return CursorRight{}
	case "up":
		return CursorUp{}
	case "down":
		return CursorDown{}
	case "home":
		return CursorHome{}
	case "end":
		return CursorEnd{}
	}
	if matches(k, s.keys.Save) {
		return Save{}
	}
	return typed(k)
}

func (s *State) resolveLine(k KeyPress) Message {
	switch k.Key {
	case "esc":
		return Cancel{}
	case "enter":
		if s.mode == ModeCommand {
			return CommandSubmit{Line: string(s.command)}
		}
		return Confirm{}
	case "backspace":
		return Backspace{}
	case "up":
		return MoveUp{}
	case "down":
		return MoveDown{}
	}
	return typed(k)
}

func typed(k KeyPress) Message {
	switch len(k.Runes) {
	case 0:
		return nil
	case 1:
		return InsertChar{Char: k.Runes[0]}
	default:
		return InsertText{Text: string(k.Runes)}
	}
}

func (s *State) resolveNormal(k KeyPress) Message {
	km := s.keys

	if s.pending != nil {
		switch {
		case matches(k, km.Confirm):
			return Confirm{}
		case matches(k, km.Cancel):
			return Cancel{}
		}
	}

	switch {
	case matches(k, km.Command):
		return EnterCommand{}
	case matches(k, km.Search):
		return EnterSearch{}
	case matches(k, km.Help):
		return ToggleHelp{}
	case matches(k, km.Save):
		return Save{}
	case matches(k, km.Quit):
		return Quit{}
	case matches(k, km.Notes):
		return SwitchView{View: ViewNoteList}
	case matches(k, km.Calendar):
		return SwitchView{View: ViewCalendar}
	case matches(k, km.Tasks):
		return SwitchView{View: ViewTasks}
	}

	switch s.view {
	case ViewNoteList:
		switch {
		case matches(k, km.Up):
			return MoveUp{}
		case matches(k, km.Down):
			return MoveDown{}
		case matches(k, km.Open):
			if s.focus == FocusTags {
				return SelectTag{}
			}
			return Open{}
		case matches(k, km.Add):
			return NewNote{}
		case matches(k, km.Rename):
			return RenameNote{}
		case matches(k, km.Delete):
			return DeleteNote{}
		case matches(k, km.AddTag):
			return AddTag{}
		case matches(k, km.Focus):
			return ToggleFocus{}
		case matches(k, km.Cancel):
			return Cancel{}
		}

	case ViewEditor:
		switch {
		case matches(k, km.Insert):
			return EnterInsert{}
		case matches(k, km.Up):
			return CursorUp{}
		case matches(k, km.Down):
			return CursorDown{}
		case matches(k, km.PrevDay):
			return CursorLeft{}
		case matches(k, km.NextDay):
			return CursorRight{}
		case k.Key == "home" || k.Key == "0":
			return CursorHome{}
		case k.Key == "end" || k.Key == "$":
			return CursorEnd{}
		case matches(k, km.Cancel):
			return Cancel{}
		}

	case ViewCalendar:
		switch {
		case matches(k, km.PrevDay):
			return MoveDay{Days: -1}
		case matches(k, km.NextDay):
			return MoveDay{Days: 1}
		case matches(k, km.Up):
			return MoveDay{Days: -7}
		case matches(k, km.Down):
			return MoveDay{Days: 7}
		case matches(k, km.PrevMonth):
			return PrevMonth{}
		case matches(k, km.NextMonth):
			return NextMonth{}
		case matches(k, km.Open):
			return OpenDay{}
		}

	case ViewTasks:
		switch {
		case matches(k, km.Up):
			return MoveUp{}
		case matches(k, km.Down):
			return MoveDown{}
		case matches(k, km.Add):
			return NewTask{}
		case matches(k, km.SubTask):
			return NewSubTask{}
		case matches(k, km.Edit):
			return EditTask{}
		case matches(k, km.Delete):
			return DeleteTask{}
		case matches(k, km.Toggle), matches(k, km.Open):
			return ToggleTask{}
		case matches(k, km.Priority):
			return CyclePriority{}
		}

	case ViewSearch:
		switch {
		case matches(k, km.Up):
			return MoveUp{}
		case matches(k, km.Down):
			return MoveDown{}
		case matches(k, km.Open):
			return Open{}
		case matches(k, km.Cancel):
			return Cancel{}
		}

	case ViewHelp:
		if matches(k, km.Cancel) || matches(k, km.Open) {
			return ToggleHelp{}
		}
	}
	return nil
}
