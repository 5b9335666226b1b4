package entity

import (
	"fmt"
	"regexp"
)

// Template holds the per-type content templates. Placeholders use the
// {variable_name} form; rendering a template whose placeholder is missing
// from the variable set fails loudly rather than emitting a blank.
type Template struct {
	ID   int64
	Type Type
	Name string

	TitleTemplate   string
	MessageTemplate string

	EmailSubjectTemplate string
	EmailBodyTemplate    string
	SMSTemplate          string

	DefaultPriority Priority
	DefaultChannels []Channel

	IsActive bool
}

// TemplatePatch is a partial template update; nil fields are untouched.
type TemplatePatch struct {
	Name                 *string
	TitleTemplate        *string
	MessageTemplate      *string
	EmailSubjectTemplate *string
	EmailBodyTemplate    *string
	SMSTemplate          *string
	DefaultPriority      *Priority
	IsActive             *bool
}

// RenderError reports a placeholder that had no value during rendering.
type RenderError struct {
	// Key is the missing placeholder name.
	Key string
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("missing template variable: %s", e.Key)
}

var placeholderRe = regexp.MustCompile(`\{([a-zA-Z_][a-zA-Z0-9_]*)\}`)

// RenderText substitutes {name} placeholders from vars. It returns a
// RenderError naming the first placeholder absent from vars; no implicit
// default substitution happens.
func RenderText(tpl string, vars map[string]any) (string, error) {
	var missing string
	out := placeholderRe.ReplaceAllStringFunc(tpl, func(match string) string {
		key := match[1 : len(match)-1]
		val, ok := vars[key]
		if !ok {
			if missing == "" {
				missing = key
			}
			return match
		}
		return fmt.Sprint(val)
	})

	if missing != "" {
		return "", &RenderError{Key: missing}
	}

	return out, nil
}

// Rendered is the outcome of rendering a template for one notification.
type Rendered struct {
	Title   string
	Message string
}

// Render produces the title and message for the supplied variables.
func (t *Template) Render(vars map[string]any) (Rendered, error) {
	title, err := RenderText(t.TitleTemplate, vars)
	if err != nil {
		return Rendered{}, err
	}

	message, err := RenderText(t.MessageTemplate, vars)
	if err != nil {
		return Rendered{}, err
	}

	return Rendered{Title: title, Message: message}, nil
}
