package progress

// RunStage executes fn bracketed by stage bookkeeping: a start milestone
// on entry, then exactly one terminal emission on exit — a completion
// milestone when fn returns nil, or an error event before the failure is
// returned to the caller. Every stage therefore leaves a paired
// start/complete-or-error trace in the event history.
func RunStage(t *Tracker, index int, name string, fn func() error) error {
	if err := t.StartStage(index, name); err != nil {
		return err
	}
	if err := fn(); err != nil {
		t.Error(name, name+" failed", err.Error())
		return err
	}
	t.CompleteStage(name)
	return nil
}
