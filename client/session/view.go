package session

// View renders session state. Methods are invoked with the session lock held,
// in the order the state changed, and must not call back into the Session.
type View interface {
	// ShowSelection confirms the chosen file; size is already human readable.
	ShowSelection(name, size string)
	// Notify surfaces a one-off message such as a rejected file.
	Notify(message string)
	SetSubmit(enabled bool, label string)
	ShowProgressView()
	UpdateProgress(progress int, step string)
	ShowCompleted(downloadURL string)
	ShowFailed(message string)
}
