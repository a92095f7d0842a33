// Package alarm contains the alarm states of the notification panel and the
// Actor that requests panel-wide actions.
//
// StateFor maps the highest active severity onto a State; Actor identifies the
// user behind an acknowledge-all request and offers Clone to avoid leaking
// references.
package alarm
