package game

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/pixil98/go-errors"
)

// Messages holds the text/template source for every line the world sends.
// Templates are rendered with MessageData and have the sprig functions.
type Messages struct {
	TellTarget      string `json:"tell_target"`
	TellSelf        string `json:"tell_self"`
	SayOthers       string `json:"say_others"`
	SaySelf         string `json:"say_self"`
	YellOthers      string `json:"yell_others"`
	YellSelf        string `json:"yell_self"`
	ShoutOthers     string `json:"shout_others"`
	ShoutSelf       string `json:"shout_self"`
	BroadcastOthers string `json:"broadcast_others"`
	BroadcastSelf   string `json:"broadcast_self"`
	DepartOthers    string `json:"depart_others"`
	DepartSelf      string `json:"depart_self"`
	ArriveOthers    string `json:"arrive_others"`
	ArriveSelf      string `json:"arrive_self"`
	JoinOthers      string `json:"join_others"`
	JoinSelf        string `json:"join_self"`
	Disconnect      string `json:"disconnect"`
}

// MessageData is passed to every message template.
type MessageData struct {
	Origin string
	Target string
	Text   string
	From   string
	To     string
}

func DefaultMessages() Messages {
	return Messages{
		TellTarget:      "{{ .Origin }} tells you: {{ .Text }}",
		TellSelf:        "You tell {{ .Target }}: {{ .Text }}",
		SayOthers:       "{{ .Origin }} says: {{ .Text }}",
		SaySelf:         "You say: {{ .Text }}",
		YellOthers:      "{{ .Origin }} yells: {{ .Text }}",
		YellSelf:        "You yell: {{ .Text }}",
		ShoutOthers:     "{{ .Origin }} shouts: {{ .Text }}",
		ShoutSelf:       "You shout: {{ .Text }}",
		BroadcastOthers: "{{ .Origin }} broadcasts: {{ .Text }}",
		BroadcastSelf:   "You broadcast: {{ .Text }}",
		DepartOthers:    "{{ .Origin }} left the room towards {{ .To }}",
		DepartSelf:      "You left the room",
		ArriveOthers:    "{{ .Origin }} has entered the room",
		ArriveSelf:      "You have entered {{ .To }}",
		JoinOthers:      "{{ .Origin }} has entered the room.",
		JoinSelf:        "You have entered the room.",
		Disconnect:      "{{ .Origin }} has disconnected.",
	}
}

// Merge returns m with every empty field taken from other.
func (m Messages) Merge(other Messages) Messages {
	pick := func(a, b string) string {
		if a != "" {
			return a
		}
		return b
	}
	return Messages{
		TellTarget:      pick(m.TellTarget, other.TellTarget),
		TellSelf:        pick(m.TellSelf, other.TellSelf),
		SayOthers:       pick(m.SayOthers, other.SayOthers),
		SaySelf:         pick(m.SaySelf, other.SaySelf),
		YellOthers:      pick(m.YellOthers, other.YellOthers),
		YellSelf:        pick(m.YellSelf, other.YellSelf),
		ShoutOthers:     pick(m.ShoutOthers, other.ShoutOthers),
		ShoutSelf:       pick(m.ShoutSelf, other.ShoutSelf),
		BroadcastOthers: pick(m.BroadcastOthers, other.BroadcastOthers),
		BroadcastSelf:   pick(m.BroadcastSelf, other.BroadcastSelf),
		DepartOthers:    pick(m.DepartOthers, other.DepartOthers),
		DepartSelf:      pick(m.DepartSelf, other.DepartSelf),
		ArriveOthers:    pick(m.ArriveOthers, other.ArriveOthers),
		ArriveSelf:      pick(m.ArriveSelf, other.ArriveSelf),
		JoinOthers:      pick(m.JoinOthers, other.JoinOthers),
		JoinSelf:        pick(m.JoinSelf, other.JoinSelf),
		Disconnect:      pick(m.Disconnect, other.Disconnect),
	}
}

func (m Messages) fields() map[string]string {
	return map[string]string{
		"tell_target":      m.TellTarget,
		"tell_self":        m.TellSelf,
		"say_others":       m.SayOthers,
		"say_self":         m.SaySelf,
		"yell_others":      m.YellOthers,
		"yell_self":        m.YellSelf,
		"shout_others":     m.ShoutOthers,
		"shout_self":       m.ShoutSelf,
		"broadcast_others": m.BroadcastOthers,
		"broadcast_self":   m.BroadcastSelf,
		"depart_others":    m.DepartOthers,
		"depart_self":      m.DepartSelf,
		"arrive_others":    m.ArriveOthers,
		"arrive_self":      m.ArriveSelf,
		"join_others":      m.JoinOthers,
		"join_self":        m.JoinSelf,
		"disconnect":       m.Disconnect,
	}
}

// Validate checks that every template parses.
func (m Messages) Validate() error {
	_, err := m.compile()
	return err
}

type messageTemplates map[string]*template.Template

func (m Messages) compile() (messageTemplates, error) {
	el := errors.NewErrorList()
	out := messageTemplates{}

	for name, src := range m.fields() {
		tmpl, err := template.New(name).Funcs(sprig.TxtFuncMap()).Parse(src)
		if err != nil {
			el.Add(fmt.Errorf("message %s: %w", name, err))
			continue
		}
		out[name] = tmpl
	}

	if err := el.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (t messageTemplates) render(name string, data MessageData) (string, error) {
	tmpl, ok := t[name]
	if !ok {
		return "", fmt.Errorf("no message template %q", name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering message %s: %w", name, err)
	}
	return buf.String(), nil
}
