package notif

import (
	"errors"
	"fmt"
	"math"
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/notif-panel/internal/domain/alarm"
	"github.com/oshokin/notif-panel/internal/domain/notification"
	"github.com/oshokin/notif-panel/internal/domain/severity"
	"github.com/oshokin/notif-panel/internal/panel"
)

// Field names of the wire messages.
const (
	FieldKey           = "key"
	FieldSeverity      = "severity"
	FieldTimestamp     = "timestamp"
	FieldMessage       = "message"
	FieldFormat        = "format"
	FieldNotifications = "notifications"
	FieldMuted         = "muted"
	FieldActor         = "actor"
	FieldHostname      = "hostname"
	FieldUsername      = "username"
	FieldRemoved       = "removed"
	FieldRequested     = "requested"
	FieldStatus        = "status"
	FieldState         = "state"
	FieldHighest       = "highest"
	FieldCounts        = "counts"
	FieldTotal         = "total"
	FieldVisible       = "visible"
	FieldPinned        = "pinned"
	FieldName          = "name"
	FieldKeys          = "keys"
	FieldRequestedAt   = "requested_at"
)

var (
	// errFieldRequired is returned when a mandatory field is missing.
	errFieldRequired = errors.New("field is required")
	// errFieldType is returned when a field has an unexpected kind.
	errFieldType = errors.New("field has wrong type")
)

// NotificationFromStruct decodes a notification. Errors wrap
// notification.ErrInvalidArgument.
func NotificationFromStruct(s *structpb.Struct) (*notification.Notification, error) {
	fields := s.GetFields()

	key, err := stringField(fields, FieldKey, true)
	if err != nil {
		return nil, err
	}

	sev, ok := fields[FieldSeverity]
	if !ok {
		return nil, invalid(FieldSeverity, errFieldRequired)
	}

	if _, ok := sev.GetKind().(*structpb.Value_NumberValue); !ok {
		return nil, invalid(FieldSeverity, errFieldType)
	}

	raw := sev.GetNumberValue()
	if raw != math.Trunc(raw) || raw > math.MaxInt32 || raw < math.MinInt32 {
		return nil, invalid(FieldSeverity, errFieldType)
	}

	var timestamp time.Time

	ts, err := stringField(fields, FieldTimestamp, false)
	if err != nil {
		return nil, err
	}

	if ts != "" {
		timestamp, err = time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, invalid(FieldTimestamp, err)
		}
	}

	formatName, err := stringField(fields, FieldFormat, false)
	if err != nil {
		return nil, err
	}

	format, err := notification.ParseFormat(formatName)
	if err != nil {
		return nil, err
	}

	text, err := stringField(fields, FieldMessage, false)
	if err != nil {
		return nil, err
	}

	message := notification.Plain(text)
	if format == notification.MarkupText {
		message = notification.Markup(text)
	}

	return notification.New(key, int(raw), timestamp, message)
}

// NotificationToStruct encodes a notification. Rich handles cannot cross the
// wire and are sent as plain text.
func NotificationToStruct(n *notification.Notification) *structpb.Struct {
	message, format := n.Message().Text(), n.Message().Format()
	if format == notification.RichHandle {
		message, format = fmt.Sprint(n.Message().Handle()), notification.PlainText
	}

	fields := map[string]*structpb.Value{
		FieldKey:      structpb.NewStringValue(n.Key()),
		FieldSeverity: structpb.NewNumberValue(float64(n.Severity())),
		FieldMessage:  structpb.NewStringValue(message),
		FieldFormat:   structpb.NewStringValue(format.String()),
	}

	if ts, ok := n.Timestamp(); ok {
		fields[FieldTimestamp] = structpb.NewStringValue(ts.Format(time.RFC3339Nano))
	}

	return &structpb.Struct{Fields: fields}
}

// NotificationsFromStruct decodes the notification list of a Replace request.
func NotificationsFromStruct(s *structpb.Struct) ([]*notification.Notification, error) {
	value, ok := s.GetFields()[FieldNotifications]
	if !ok {
		return nil, nil
	}

	list, ok := value.GetKind().(*structpb.Value_ListValue)
	if !ok {
		return nil, invalid(FieldNotifications, errFieldType)
	}

	result := make([]*notification.Notification, 0, len(list.ListValue.GetValues()))

	for i, item := range list.ListValue.GetValues() {
		nested, ok := item.GetKind().(*structpb.Value_StructValue)
		if !ok {
			return nil, invalid(fmt.Sprintf("%s[%d]", FieldNotifications, i), errFieldType)
		}

		n, err := NotificationFromStruct(nested.StructValue)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", FieldNotifications, i, err)
		}

		result = append(result, n)
	}

	return result, nil
}

// NotificationsToStruct encodes a Replace request.
func NotificationsToStruct(ns []*notification.Notification) *structpb.Struct {
	values := make([]*structpb.Value, 0, len(ns))
	for _, n := range ns {
		values = append(values, structpb.NewStructValue(NotificationToStruct(n)))
	}

	return &structpb.Struct{Fields: map[string]*structpb.Value{
		FieldNotifications: structpb.NewListValue(&structpb.ListValue{Values: values}),
	}}
}

// ActorFromStruct decodes the actor field of a request. A missing actor is nil.
func ActorFromStruct(s *structpb.Struct) *alarm.Actor {
	value, ok := s.GetFields()[FieldActor]
	if !ok || value.GetStructValue() == nil {
		return nil
	}

	fields := value.GetStructValue().GetFields()

	return &alarm.Actor{
		Hostname: fields[FieldHostname].GetStringValue(),
		Username: fields[FieldUsername].GetStringValue(),
	}
}

// actorValue encodes an actor.
func actorValue(actor *alarm.Actor) *structpb.Value {
	if actor == nil {
		return structpb.NewNullValue()
	}

	return structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{
		FieldHostname: structpb.NewStringValue(actor.Hostname),
		FieldUsername: structpb.NewStringValue(actor.Username),
	}})
}

// ActorToStruct encodes an AckAll request.
func ActorToStruct(actor *alarm.Actor) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		FieldActor: actorValue(actor),
	}}
}

// StatusToStruct encodes a panel snapshot.
func StatusToStruct(status panel.Status) *structpb.Struct {
	counts := make(map[string]*structpb.Value, len(status.Counts))
	for s, n := range status.Counts {
		counts[s.String()] = structpb.NewNumberValue(float64(n))
	}

	return &structpb.Struct{Fields: map[string]*structpb.Value{
		FieldState:   structpb.NewStringValue(status.State.String()),
		FieldHighest: structpb.NewStringValue(status.Highest.String()),
		FieldCounts:  structpb.NewStructValue(&structpb.Struct{Fields: counts}),
		FieldTotal:   structpb.NewNumberValue(float64(status.Total)),
		FieldMuted:   structpb.NewBoolValue(status.Muted),
		FieldVisible: structpb.NewBoolValue(status.Visible),
		FieldPinned:  structpb.NewBoolValue(status.Pinned),
	}}
}

// StatusFromStruct decodes a panel snapshot. Unknown names decode as Idle and Undefined.
func StatusFromStruct(s *structpb.Struct) panel.Status {
	fields := s.GetFields()

	status := panel.Status{
		State:   stateByName(fields[FieldState].GetStringValue()),
		Highest: severityByName(fields[FieldHighest].GetStringValue()),
		Counts:  make(map[severity.Severity]int, len(severity.Known())),
		Total:   int(fields[FieldTotal].GetNumberValue()),
		Muted:   fields[FieldMuted].GetBoolValue(),
		Visible: fields[FieldVisible].GetBoolValue(),
		Pinned:  fields[FieldPinned].GetBoolValue(),
	}

	counts := fields[FieldCounts].GetStructValue().GetFields()
	for _, sev := range severity.Known() {
		status.Counts[sev] = int(counts[sev.String()].GetNumberValue())
	}

	return status
}

// withStatus adds the snapshot to a response.
func withStatus(fields map[string]*structpb.Value, status panel.Status) *structpb.Struct {
	fields[FieldStatus] = structpb.NewStructValue(StatusToStruct(status))

	return &structpb.Struct{Fields: fields}
}

// EventToStruct encodes an acknowledge-all event.
func EventToStruct(event panel.AckAllEvent) *structpb.Struct {
	keys := make([]*structpb.Value, 0, len(event.Keys))
	for _, key := range event.Keys {
		keys = append(keys, structpb.NewStringValue(key))
	}

	return &structpb.Struct{Fields: map[string]*structpb.Value{
		FieldName:        structpb.NewStringValue(event.Name),
		FieldActor:       actorValue(event.Actor),
		FieldKeys:        structpb.NewListValue(&structpb.ListValue{Values: keys}),
		FieldRequestedAt: structpb.NewStringValue(event.RequestedAt.Format(time.RFC3339Nano)),
	}}
}

// EventFromStruct decodes an acknowledge-all event.
func EventFromStruct(s *structpb.Struct) (panel.AckAllEvent, error) {
	fields := s.GetFields()

	event := panel.AckAllEvent{
		Name:  fields[FieldName].GetStringValue(),
		Actor: ActorFromStruct(s),
	}

	for _, key := range fields[FieldKeys].GetListValue().GetValues() {
		event.Keys = append(event.Keys, key.GetStringValue())
	}

	if ts := fields[FieldRequestedAt].GetStringValue(); ts != "" {
		requestedAt, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return panel.AckAllEvent{}, fmt.Errorf("parse %s: %w", FieldRequestedAt, err)
		}

		event.RequestedAt = requestedAt
	}

	return event, nil
}

// stringField reads a string field.
func stringField(fields map[string]*structpb.Value, name string, required bool) (string, error) {
	value, ok := fields[name]
	if !ok {
		if required {
			return "", invalid(name, errFieldRequired)
		}

		return "", nil
	}

	kind, ok := value.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", invalid(name, errFieldType)
	}

	return kind.StringValue, nil
}

// invalid wraps a field error as an invalid argument.
func invalid(field string, err error) error {
	return fmt.Errorf("%w: %s: %w", notification.ErrInvalidArgument, field, err)
}

func stateByName(name string) alarm.State {
	for _, state := range []alarm.State{alarm.InfoActive, alarm.WarningActive, alarm.CriticalActive} {
		if state.String() == name {
			return state
		}
	}

	return alarm.Idle
}

func severityByName(name string) severity.Severity {
	for _, s := range severity.Known() {
		if s.String() == name {
			return s
		}
	}

	return severity.Undefined
}
