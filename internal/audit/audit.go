package audit

type Field struct {
	Name  string
	Value string
}

// Event is one structured audit record, rendered as an embed in the
// operational log channel.
type Event struct {
	Title  string
	Detail string
	Color  int
	Fields []Field
}

// Recorder appends events to the operational log. Recording is
// fire-and-forget: implementations log delivery failures and never
// propagate them.
type Recorder interface {
	Record(event Event)
}
